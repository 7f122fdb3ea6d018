// Command admin manages admin accounts from the command line.
//
// Usage:
//
//	admin create <email> <password> <display name>
//	admin promote <email>
//	admin demote <email>
//	admin list
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"gorm.io/gorm"

	"gather/internal/config"
	"gather/internal/database"
	"gather/internal/models"
	"gather/internal/observability"
	"gather/internal/seed"
)

func main() {
	if len(os.Args) < 2 {
		usage()
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}
	observability.SetupLogging("warn")

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("failed to connect: %v", err)
	}
	ctx := context.Background()

	switch os.Args[1] {
	case "create":
		if len(os.Args) != 5 {
			usage()
		}
		user, err := seed.EnsureAdmin(ctx, db, os.Args[2], os.Args[3], os.Args[4])
		if err != nil {
			log.Fatalf("create failed: %v", err)
		}
		fmt.Printf("admin %s (id %d) ready\n", user.Email, user.ID)
	case "promote":
		if len(os.Args) != 3 {
			usage()
		}
		setAdmin(ctx, db, os.Args[2], true)
	case "demote":
		if len(os.Args) != 3 {
			usage()
		}
		setAdmin(ctx, db, os.Args[2], false)
	case "list":
		var admins []models.User
		if err := db.WithContext(ctx).Where("is_admin = ?", true).Find(&admins).Error; err != nil {
			log.Fatalf("list failed: %v", err)
		}
		for _, a := range admins {
			fmt.Printf("%d\t%s\t%s\n", a.ID, a.Email, a.DisplayName)
		}
	default:
		usage()
	}
}

func setAdmin(ctx context.Context, db *gorm.DB, email string, admin bool) {
	res := db.WithContext(ctx).Model(&models.User{}).
		Where("email = ?", email).
		Update("is_admin", admin)
	if res.Error != nil {
		log.Fatalf("update failed: %v", res.Error)
	}
	if res.RowsAffected == 0 {
		log.Fatalf("no account with email %s", email)
	}
	fmt.Printf("%s is_admin=%v\n", email, admin)
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: admin <create|promote|demote|list> [args]")
	os.Exit(2)
}
