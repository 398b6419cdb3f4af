// Package seed provides database seeding utilities for development and testing.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"greenlifestyle/internal/models"

	"github.com/gosimple/slug"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumTips     int
	ShouldClean bool
}

var (
	categoryNames = []string{
		"Energy", "Water", "Recycling", "Transport", "Food",
		"Gardening", "Home", "Fashion", "Zero Waste", "Community",
	}

	firstNames = []string{
		"James", "Mary", "John", "Patricia", "Robert", "Jennifer", "Michael", "Linda",
		"William", "Elizabeth", "David", "Barbara", "Richard", "Susan", "Joseph", "Jessica",
		"Thomas", "Sarah", "Charles", "Karen", "Christopher", "Nancy", "Daniel", "Lisa",
		"Matthew", "Betty", "Anthony", "Margaret", "Mark", "Sandra", "Donald", "Ashley",
		"Steven", "Kimberly", "Paul", "Emily", "Andrew", "Donna", "Joshua", "Michelle",
		"Kenneth", "Dorothy", "Kevin", "Carol", "Brian", "Amanda", "George", "Melissa",
		"Edward", "Deborah", "Ronald", "Stephanie", "Timothy", "Rebecca", "Jason", "Sharon",
		"Jeffrey", "Laura", "Ryan", "Cynthia", "Jacob", "Kathleen", "Gary", "Amy",
	}

	lastNames = []string{
		"Smith", "Johnson", "Williams", "Brown", "Jones", "Garcia", "Miller", "Davis",
		"Rodriguez", "Martinez", "Hernandez", "Lopez", "Gonzalez", "Wilson", "Anderson", "Thomas",
		"Taylor", "Moore", "Jackson", "Martin", "Lee", "Perez", "Thompson", "White",
		"Harris", "Sanchez", "Clark", "Ramirez", "Lewis", "Robinson", "Walker", "Young",
		"Allen", "King", "Wright", "Scott", "Torres", "Nguyen", "Hill", "Flores",
		"Green", "Adams", "Nelson", "Baker", "Hall", "Rivera", "Campbell", "Mitchell",
	}

	adjectives = []string{
		"simple", "cheap", "practical", "surprising", "effective", "easy", "quick",
		"sustainable", "reusable", "homemade", "local", "seasonal", "natural",
		"low-cost", "waste-free", "plastic-free", "energy-saving", "water-saving",
	}

	nouns = []string{
		"compost bin", "rain barrel", "solar panel", "bike commute", "thermostat",
		"veggie garden", "thrift haul", "repair kit", "reusable bag", "water filter",
		"worm farm", "clothesline", "meal plan", "seed swap", "heat pump",
		"insulation", "bulk store", "swap shop",
	}

	verbs = []string{
		"built", "installed", "tried", "started", "fixed", "repaired", "swapped",
		"planted", "harvested", "collected", "insulated", "upgraded", "shared",
		"borrowed", "repurposed", "composted", "rescued", "refilled",
	}
)

// Seed populates the database with test data
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("🌱 Starting database seeding with %d users and %d tips...", opts.NumUsers, opts.NumTips)

	// Clear existing data to avoid conflicts if requested
	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			log.Println("⚠️  Warning: Could not clear all existing data, but continuing anyway...")
		}
	}

	// Create test users
	users, err := createUsers(db, opts.NumUsers)
	if err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}
	log.Printf("✓ %d test users created", len(users))

	// Create the standing category set, already approved
	categories, err := createOrGetCategories(db, users)
	if err != nil {
		return fmt.Errorf("failed to create categories: %w", err)
	}
	log.Printf("✓ %d categories available", len(categories))

	// Create tips spread across users and categories
	tips, err := createTips(db, users, categories, opts.NumTips)
	if err != nil {
		return fmt.Errorf("failed to create tips: %w", err)
	}
	log.Printf("✓ %d tips created", len(tips))

	// Sprinkle likes, bookmarks, comments and follows
	if err := createInteractions(db, users, tips); err != nil {
		return fmt.Errorf("failed to create interactions: %w", err)
	}
	log.Println("✓ interactions created")

	// Give the base accounts a believable login streak
	if err := createActivity(db, users); err != nil {
		return fmt.Errorf("failed to create activity: %w", err)
	}
	log.Println("✓ activity history created")

	log.Println("🎉 Database seeding completed successfully!")
	return nil
}

func clearData(db *gorm.DB) error {
	log.Println("🗑️  Clearing existing data...")
	sql := `TRUNCATE TABLE user_activities, comments, bookmarks, likes, follows, tips, categories, users RESTART IDENTITY CASCADE;`
	return db.Exec(sql).Error
}

func generateRandomName() (string, string) {
	//nolint:gosec // Weak random number generator is fine for seeding
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	first := firstNames[r.Intn(len(firstNames))]
	last := lastNames[r.Intn(len(lastNames))]
	return first, last
}

func generateUsername(first, last string) string {
	//nolint:gosec // Weak random number generator is fine for seeding
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	formats := []string{"%s%s", "%s.%s", "%s_%s", "%s%d", "%s_%d"}
	format := formats[r.Intn(len(formats))]

	switch format {
	case "%s%d", "%s_%d":
		return strings.ToLower(fmt.Sprintf(format, first, r.Intn(1000)))
	default:
		return strings.ToLower(fmt.Sprintf(format, first, last))
	}
}

func generateSentence() string {
	//nolint:gosec // Weak random number generator is fine for seeding
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	adj := adjectives[r.Intn(len(adjectives))]
	noun := nouns[r.Intn(len(nouns))]
	verb := verbs[r.Intn(len(verbs))]

	templates := []string{
		"Just %[3]s a %[1]s %[2]s.",
		"The %[1]s %[2]s we %[3]s last month keeps paying off.",
		"Finally %[3]s that %[1]s %[2]s!",
		"How we %[3]s a %[1]s %[2]s over the weekend.",
		"Why every household needs a %[1]s %[2]s.",
	}

	template := templates[r.Intn(len(templates))]
	return fmt.Sprintf(template, adj, noun, verb)
}

func generateParagraph(sentences int) string {
	var sb strings.Builder
	for i := 0; i < sentences; i++ {
		sb.WriteString(generateSentence())
		sb.WriteString(" ")
	}
	return strings.TrimSpace(sb.String())
}

func createUsers(db *gorm.DB, count int) ([]models.User, error) {
	users := make([]models.User, 0, count)
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)

	// Always include the base accounts for consistency if cleaning
	if count >= 3 {
		baseUsers := []struct {
			username string
			role     models.Role
		}{
			{"admin", models.RoleAdmin},
			{"mod", models.RoleModerator},
			{"test", models.RoleUser},
		}
		for _, b := range baseUsers {
			user := models.User{
				Username:  b.username,
				Email:     fmt.Sprintf("%s@example.com", b.username),
				Password:  string(hashedPassword),
				Bio:       "One of the OGs.",
				Role:      b.role,
				IsActive:  true,
				AvatarURL: fmt.Sprintf("https://i.pravatar.cc/150?u=%s", b.username),
			}
			if err := db.Create(&user).Error; err == nil {
				users = append(users, user)
			}
		}
	}

	for i := len(users); i < count; i++ {
		first, last := generateRandomName()
		username := generateUsername(first, last)

		// Ensure uniqueness roughly
		username = fmt.Sprintf("%s%d", username, i)

		user := models.User{
			Username:  username,
			Email:     fmt.Sprintf("%s@example.com", username),
			Password:  string(hashedPassword),
			Bio:       generateSentence(),
			Role:      models.RoleUser,
			IsActive:  true,
			AvatarURL: fmt.Sprintf("https://i.pravatar.cc/150?u=%s", username),
		}

		if err := db.Create(&user).Error; err != nil {
			log.Printf("Failed to create user %s: %v", username, err)
			continue
		}
		users = append(users, user)

		if i%100 == 0 {
			log.Printf("Created %d users...", i)
		}
	}

	return users, nil
}

func createOrGetCategories(db *gorm.DB, users []models.User) ([]models.Category, error) {
	categories := make([]models.Category, 0, len(categoryNames))

	var approver *models.User
	if len(users) > 0 {
		approver = &users[0]
	}

	now := time.Now()
	for _, name := range categoryNames {
		var category models.Category
		attrs := models.Category{
			Description: generateSentence(),
			IsApproved:  true,
			ApprovedAt:  &now,
		}
		if approver != nil {
			attrs.CreatedByID = &approver.ID
			attrs.ApprovedByID = &approver.ID
		}

		err := db.Where(models.Category{Name: name, Slug: slug.Make(name)}).
			Attrs(attrs).
			FirstOrCreate(&category).Error
		if err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, nil
}

func createTips(db *gorm.DB, users []models.User, categories []models.Category, count int) ([]models.Tip, error) {
	//nolint:gosec // Weak random number generator is fine for seeding
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	tips := make([]models.Tip, 0, count)

	for i := 0; i < count; i++ {
		user := users[r.Intn(len(users))]

		title := generateSentence()
		title = strings.ToUpper(string(title[0])) + title[1:]

		var imageURL string
		if r.Float32() < 0.4 {
			imageURL = fmt.Sprintf("https://picsum.photos/seed/%d/800/600", r.Intn(10000))
		}

		contentLen := r.Intn(8) + 2

		tip := models.Tip{
			Title: title,
			// slug suffix keeps repeated template titles from colliding
			Slug:        fmt.Sprintf("%s-%d", slug.Make(title), i),
			Content:     generateParagraph(contentLen),
			AuthorID:    user.ID,
			ImageURL:    imageURL,
			IsPublished: r.Float32() < 0.9,
			CreatedAt:   time.Now().Add(-time.Duration(r.Intn(90*24)) * time.Hour),
		}
		if len(categories) > 0 && r.Float32() < 0.85 {
			tip.CategoryID = &categories[r.Intn(len(categories))].ID
		}

		if err := db.Create(&tip).Error; err != nil {
			return nil, err
		}
		tips = append(tips, tip)

		if i%100 == 0 {
			log.Printf("Created %d tips...", i)
		}
	}

	return tips, nil
}

func createInteractions(db *gorm.DB, users []models.User, tips []models.Tip) error {
	//nolint:gosec // Weak random number generator is fine for seeding
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	for _, tip := range tips {
		if !tip.IsPublished {
			continue
		}

		// likes, deduped by the unique index; conflicts are skipped
		for i := 0; i < r.Intn(6); i++ {
			user := users[r.Intn(len(users))]
			_ = db.Create(&models.Like{UserID: user.ID, TipID: tip.ID}).Error
		}

		if r.Float32() < 0.3 {
			user := users[r.Intn(len(users))]
			_ = db.Create(&models.Bookmark{UserID: user.ID, TipID: tip.ID}).Error
		}

		for i := 0; i < r.Intn(3); i++ {
			user := users[r.Intn(len(users))]
			comment := models.Comment{
				Content:  generateSentence(),
				AuthorID: user.ID,
				TipID:    tip.ID,
			}
			if err := db.Create(&comment).Error; err != nil {
				return err
			}
		}
	}

	// follows between random pairs
	for i := 0; i < len(users)*2; i++ {
		follower := users[r.Intn(len(users))]
		following := users[r.Intn(len(users))]
		if follower.ID == following.ID {
			continue
		}
		_ = db.Create(&models.Follow{FollowerID: follower.ID, FollowingID: following.ID}).Error
	}

	return nil
}

func createActivity(db *gorm.DB, users []models.User) error {
	//nolint:gosec // Weak random number generator is fine for seeding
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	limit := len(users)
	if limit > 10 {
		limit = 10
	}

	for i := 0; i < limit; i++ {
		user := users[i]
		streak := r.Intn(10) + 1
		for day := 0; day < streak; day++ {
			at := time.Now().AddDate(0, 0, -day)
			activity := models.UserActivity{
				SubjectKey:   models.UserSubjectKey(user.ID),
				UserID:       &user.ID,
				Date:         models.ActivityDate(at),
				VisitsCount:  r.Intn(4) + 1,
				PageViews:    r.Intn(15) + 1,
				LastActivity: at,
			}
			if err := db.Create(&activity).Error; err != nil {
				return err
			}
		}
	}
	return nil
}
