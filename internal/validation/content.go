package validation

import (
	"fmt"
	"path"
	"strings"
)

const (
	// MaxImageSizeBytes caps uploaded/linked image size at 5MB.
	MaxImageSizeBytes = 5 * 1024 * 1024

	MaxTitleLen      = 200
	MinContentLen    = 10
	MaxContentLen    = 50000
	MinCategoryName  = 3
	MaxCategoryName  = 100
	MaxIconLen       = 10
	MaxBioLen        = 500
	MaxEducationLen  = 500
	MaxLocationLen   = 100
	MaxEcoInterests  = 500
	MaxCommentLength = 2000
)

var allowedImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// ValidateTipTitle checks tip title constraints.
func ValidateTipTitle(title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return fmt.Errorf("title is required")
	}
	if len(title) > MaxTitleLen {
		return fmt.Errorf("title must not exceed %d characters", MaxTitleLen)
	}
	return nil
}

// ValidateTipContent checks tip content constraints.
func ValidateTipContent(content string) error {
	content = strings.TrimSpace(content)
	if content == "" {
		return fmt.Errorf("content is required")
	}
	if len(content) < MinContentLen {
		return fmt.Errorf("content must be at least %d characters", MinContentLen)
	}
	if len(content) > MaxContentLen {
		return fmt.Errorf("content must not exceed %d characters", MaxContentLen)
	}
	return nil
}

// ValidateCategoryName checks category name constraints.
func ValidateCategoryName(name string) error {
	name = strings.TrimSpace(name)
	if len(name) < MinCategoryName {
		return fmt.Errorf("category name must be at least %d characters", MinCategoryName)
	}
	if len(name) > MaxCategoryName {
		return fmt.Errorf("category name must not exceed %d characters", MaxCategoryName)
	}
	return nil
}

// ValidateCategoryIcon checks the emoji icon length.
func ValidateCategoryIcon(icon string) error {
	if len(icon) > MaxIconLen {
		return fmt.Errorf("icon must not exceed %d bytes", MaxIconLen)
	}
	return nil
}

// ValidateImage checks an image filename and size against the allowed
// extensions and the 5MB cap. Size may be zero when unknown (external URL).
func ValidateImage(filename string, size int64) error {
	if filename == "" {
		return nil
	}
	ext := strings.ToLower(path.Ext(strings.Split(filename, "?")[0]))
	if !allowedImageExtensions[ext] {
		return fmt.Errorf("unsupported file extension %q; allowed: jpg, jpeg, png, gif, webp", ext)
	}
	if size > MaxImageSizeBytes {
		return fmt.Errorf("image file size cannot exceed 5MB")
	}
	return nil
}

// ValidateComment checks comment content constraints.
func ValidateComment(content string) error {
	content = strings.TrimSpace(content)
	if content == "" {
		return fmt.Errorf("comment cannot be empty")
	}
	if len(content) > MaxCommentLength {
		return fmt.Errorf("comment must not exceed %d characters", MaxCommentLength)
	}
	return nil
}
