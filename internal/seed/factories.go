// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"greenlifestyle/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/gosimple/slug"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Factory builds domain entities and persists them to the database.
// It is a thin helper used by seed presets and tests.
type Factory struct {
	db   *gorm.DB
	opts FactoryOptions
	// synthetic ID counter when running in DryRun mode
	nextID uint
}

// FactoryOptions tune how entities are generated.
type FactoryOptions struct {
	// DryRun logs entities instead of writing them.
	DryRun bool
	// SkipBcrypt stores plaintext passwords for faster bulk seeding.
	SkipBcrypt bool
	// MaxDays bounds how far in the past created_at timestamps are spread.
	MaxDays int
}

var ecoInterestPool = []string{
	"composting", "zero waste", "cycling", "solar power", "urban gardening",
	"thrifting", "plant-based cooking", "repair cafes", "rainwater harvesting",
	"beekeeping", "foraging", "minimalism",
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts FactoryOptions) *Factory {
	// seed gofakeit for richer content
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{db: db, opts: opts, nextID: 1000}
}

// CreateUser constructs and persists a sample `models.User`.
// Optional override functions may modify the generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	//nolint:gosec // Weak random number generator is fine for seeding
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	interests := fmt.Sprintf("%s, %s",
		ecoInterestPool[r.Intn(len(ecoInterestPool))],
		ecoInterestPool[r.Intn(len(ecoInterestPool))])

	user := &models.User{
		Username:     gofakeit.Username() + fmt.Sprintf("%d", gofakeit.Number(100, 999)),
		Email:        gofakeit.Email(),
		Bio:          gofakeit.Sentence(10),
		Location:     gofakeit.City(),
		EcoInterests: interests,
		AvatarURL:    fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
		Role:         models.RoleUser,
		IsActive:     true,
	}

	// Password handling: allow skipping bcrypt in dev fast mode
	if f.opts.SkipBcrypt {
		user.Password = "password123"
	} else {
		hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
		user.Password = string(hashedPassword)
	}

	for _, override := range overrides {
		override(user)
	}

	if f.opts.DryRun {
		f.nextID++
		user.ID = f.nextID
		log.Printf("[dry-run] CreateUser: %s <%s>", user.Username, user.Email)
		return user, nil
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreateCategory constructs and persists an approved `models.Category`
// named after the provided name, created and approved by the given user.
func (f *Factory) CreateCategory(creator *models.User, name string, overrides ...func(*models.Category)) (*models.Category, error) {
	category := &models.Category{
		Name:        name,
		Slug:        slug.Make(name),
		Description: gofakeit.Sentence(12),
		Icon:        "🌱",
		CreatedByID: &creator.ID,
		IsApproved:  true,
	}
	category.ApprovedByID = &creator.ID
	now := time.Now()
	category.ApprovedAt = &now

	for _, override := range overrides {
		override(category)
	}

	if f.opts.DryRun {
		f.nextID++
		category.ID = f.nextID
		log.Printf("[dry-run] CreateCategory: %s (%s)", category.Name, category.Slug)
		return category, nil
	}

	if err := f.db.Create(category).Error; err != nil {
		return nil, err
	}
	return category, nil
}

// BuildTip constructs a tip struct populated like CreateTip but does not
// persist it. Useful for batching.
func (f *Factory) BuildTip(author *models.User, category *models.Category, overrides ...func(*models.Tip)) *models.Tip {
	title := gofakeit.Sentence(5)
	tip := &models.Tip{
		Title:       title,
		Slug:        fmt.Sprintf("%s-%s", slug.Make(title), gofakeit.LetterN(6)),
		Content:     gofakeit.Paragraph(2, 4, 8, "\n"),
		AuthorID:    author.ID,
		IsPublished: true,
	}
	if category != nil {
		tip.CategoryID = &category.ID
	}

	// realistic created_at spread
	maxDays := f.opts.MaxDays
	if maxDays <= 0 {
		maxDays = 90
	}
	//nolint:gosec // Weak random number generator is fine for seeding
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	daysBack := r.Intn(maxDays)
	hoursBack := r.Intn(24)
	minsBack := r.Intn(60)
	tip.CreatedAt = time.Now().Add(-time.Duration(daysBack)*24*time.Hour - time.Duration(hoursBack)*time.Hour - time.Duration(minsBack)*time.Minute)

	if r.Float32() < 0.4 {
		tip.ImageURL = fmt.Sprintf("https://picsum.photos/seed/%s/800/600", gofakeit.UUID())
	}

	for _, override := range overrides {
		override(tip)
	}
	return tip
}

// CreateTip constructs and persists a sample `models.Tip` for the given author.
func (f *Factory) CreateTip(author *models.User, category *models.Category, overrides ...func(*models.Tip)) (*models.Tip, error) {
	tip := f.BuildTip(author, category, overrides...)

	if f.opts.DryRun {
		f.nextID++
		tip.ID = f.nextID
		log.Printf("[dry-run] CreateTip: author=%d title=%q", tip.AuthorID, tip.Title)
		return tip, nil
	}

	if err := f.db.Create(tip).Error; err != nil {
		return nil, err
	}
	return tip, nil
}

// CreateTipsBatch persists multiple tips in a single DB call when possible.
func (f *Factory) CreateTipsBatch(tips []*models.Tip) error {
	if len(tips) == 0 {
		return nil
	}
	if f.opts.DryRun {
		for _, tip := range tips {
			f.nextID++
			tip.ID = f.nextID
		}
		log.Printf("[dry-run] CreateTipsBatch: %d tips (no DB write)", len(tips))
		return nil
	}
	return f.db.Create(&tips).Error
}

// CreateComment constructs and persists a sample `models.Comment` on the
// provided tip authored by the provided user.
func (f *Factory) CreateComment(author *models.User, tip *models.Tip, overrides ...func(*models.Comment)) (*models.Comment, error) {
	comment := &models.Comment{
		Content:  gofakeit.Sentence(8),
		AuthorID: author.ID,
		TipID:    tip.ID,
	}

	for _, override := range overrides {
		override(comment)
	}

	if err := f.db.Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}

// CreateLike persists a like from `user` on `tip`.
func (f *Factory) CreateLike(user *models.User, tip *models.Tip) error {
	like := &models.Like{
		UserID: user.ID,
		TipID:  tip.ID,
	}
	return f.db.Create(like).Error
}

// CreateBookmark persists a bookmark from `user` on `tip`.
func (f *Factory) CreateBookmark(user *models.User, tip *models.Tip) error {
	bookmark := &models.Bookmark{
		UserID: user.ID,
		TipID:  tip.ID,
	}
	return f.db.Create(bookmark).Error
}

// CreateFollow persists a follow edge from `follower` to `following`.
func (f *Factory) CreateFollow(follower, following *models.User) error {
	follow := &models.Follow{
		FollowerID:  follower.ID,
		FollowingID: following.ID,
	}
	return f.db.Create(follow).Error
}

// CreateActivity persists a daily activity row for `user` dated `daysAgo`
// days in the past. Used to build believable streaks.
func (f *Factory) CreateActivity(user *models.User, daysAgo int, overrides ...func(*models.UserActivity)) (*models.UserActivity, error) {
	at := time.Now().AddDate(0, 0, -daysAgo)
	activity := &models.UserActivity{
		SubjectKey:   models.UserSubjectKey(user.ID),
		UserID:       &user.ID,
		Date:         models.ActivityDate(at),
		VisitsCount:  gofakeit.Number(1, 5),
		PageViews:    gofakeit.Number(1, 20),
		LastActivity: at,
	}

	for _, override := range overrides {
		override(activity)
	}

	if err := f.db.Create(activity).Error; err != nil {
		return nil, err
	}
	return activity, nil
}
