// Command seed fills the configured database with demo data.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"

	"gather/internal/config"
	"gather/internal/database"
	"gather/internal/observability"
	"gather/internal/seed"
)

func main() {
	var (
		users   = flag.Int("users", 10, "number of members to create")
		posts   = flag.Int("posts", 3, "posts per member")
		photos  = flag.Int("photos", 1, "photos per member")
		rngSeed = flag.Int64("seed", 0, "random seed, 0 for nondeterministic")
		fresh   = flag.Bool("fresh", false, "drop and recreate the schema first")
		admin   = flag.String("admin", "", "ensure an admin account, formatted email:password:name")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}
	observability.SetupLogging(cfg.LogLevel)

	if cfg.Env == "production" || cfg.Env == "prod" {
		log.Fatal("refusing to seed a production database")
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("failed to connect: %v", err)
	}

	ctx := context.Background()
	if *fresh {
		if err := database.Reset(db); err != nil {
			log.Fatalf("reset failed: %v", err)
		}
		log.Println("schema reset")
	}

	if *admin != "" {
		email, password, name, err := parseAdmin(*admin)
		if err != nil {
			log.Fatal(err)
		}
		if _, err := seed.EnsureAdmin(ctx, db, email, password, name); err != nil {
			log.Fatalf("admin creation failed: %v", err)
		}
		log.Printf("admin %s ready", email)
	}

	err = seed.Run(ctx, db, seed.Options{
		Users:         *users,
		PostsPerUser:  *posts,
		PhotosPerUser: *photos,
		Seed:          *rngSeed,
	})
	if err != nil {
		log.Fatalf("seeding failed: %v", err)
	}
	log.Printf("seeded %d members (password %q)", *users, seed.DefaultPassword)
}

func parseAdmin(value string) (email, password, name string, err error) {
	parts := strings.SplitN(value, ":", 3)
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return "", "", "", fmt.Errorf("invalid -admin value %q, want email:password:name", value)
	}
	return parts[0], parts[1], parts[2], nil
}
