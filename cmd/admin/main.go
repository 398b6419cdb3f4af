// Package main provides admin management utilities for Green Lifestyle.
package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	"greenlifestyle/internal/config"
	"greenlifestyle/internal/database"
	"greenlifestyle/internal/models"

	"gorm.io/gorm"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage:")
		fmt.Println("  go run ./cmd/admin/main.go promote <user_id>      - Promote user to admin")
		fmt.Println("  go run ./cmd/admin/main.go demote <user_id>       - Demote user to regular user")
		fmt.Println("  go run ./cmd/admin/main.go moderator <user_id>    - Make user a moderator")
		fmt.Println("  go run ./cmd/admin/main.go list-admins            - List all admins and moderators")
		os.Exit(1)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	command := os.Args[1]

	switch command {
	case "promote":
		if len(os.Args) < 3 {
			fmt.Println("Usage: go run ./cmd/admin/main.go promote <user_id>")
			os.Exit(1)
		}
		setRole(db, os.Args[2], models.RoleAdmin)

	case "demote":
		if len(os.Args) < 3 {
			fmt.Println("Usage: go run ./cmd/admin/main.go demote <user_id>")
			os.Exit(1)
		}
		setRole(db, os.Args[2], models.RoleUser)

	case "moderator":
		if len(os.Args) < 3 {
			fmt.Println("Usage: go run ./cmd/admin/main.go moderator <user_id>")
			os.Exit(1)
		}
		setRole(db, os.Args[2], models.RoleModerator)

	case "list-admins":
		listAdmins(db)

	default:
		fmt.Printf("Unknown command: %s\n", command)
		os.Exit(1)
	}
}

func setRole(db *gorm.DB, userID string, role models.Role) {
	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			fmt.Printf("User with ID %s not found\n", userID)
		} else {
			log.Fatalf("Database error: %v", err)
		}
		os.Exit(1)
	}

	if user.Role == role {
		fmt.Printf("User %s (ID: %d) already has role %s\n", user.Username, user.ID, role)
		return
	}

	user.Role = role
	if err := db.Save(&user).Error; err != nil {
		log.Fatalf("Failed to update role: %v", err)
	}

	fmt.Printf("✅ Successfully set %s (ID: %d) to role %s\n", user.Username, user.ID, role)
}

func listAdmins(db *gorm.DB) {
	var staff []models.User
	err := db.Where("role IN ?", []models.Role{models.RoleAdmin, models.RoleModerator}).
		Order("role, id").Find(&staff).Error
	if err != nil {
		log.Fatalf("Failed to fetch admins: %v", err)
	}

	if len(staff) == 0 {
		fmt.Println("No admins or moderators found in the system")
		return
	}

	fmt.Println("\n📋 Current staff:")
	fmt.Println("─────────────────────────────────────")
	for _, user := range staff {
		fmt.Printf("ID: %d | Role: %-9s | Username: %s | Email: %s\n", user.ID, user.Role, user.Username, user.Email)
	}
	fmt.Println("─────────────────────────────────────")
}
