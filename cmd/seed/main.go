// seed inserts development sample data for local testing.
// Idempotent: skips inserts if the dev admin (admin@example.com) already exists.
package main

import (
	"context"
	"log"
	"os"
	"time"

	"school-management/backend/internal/config"
	"school-management/backend/internal/db"
	schooldomain "school-management/backend/internal/school/domain"
	schoolrepo "school-management/backend/internal/school/repository"
	"school-management/backend/internal/security"
	staffdomain "school-management/backend/internal/staff/domain"
	staffrepo "school-management/backend/internal/staff/repository"
)

const (
	devSchoolID    = "00000000-0000-0000-0000-000000000001"
	devAdminID     = "00000000-0000-0000-0000-000000000101"
	devTeacherID   = "00000000-0000-0000-0000-000000000102"
	devAdminEmail  = "admin@example.com"
	devTeacherMail = "teacher@example.com"
	devPassword    = "password123"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is not set; create a .env from .env.example or set DATABASE_URL")
	}

	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer conn.Close()

	ctx := context.Background()
	staff := staffrepo.NewPostgresRepository(conn)
	schools := schoolrepo.NewPostgresRepository(conn)

	existing, err := staff.GetByEmail(ctx, devAdminEmail)
	if err != nil {
		log.Fatalf("seed check: %v", err)
	}
	if existing != nil {
		log.Println("Seed already applied (admin@example.com exists). Skipping.")
		os.Exit(0)
	}

	hasher := security.NewHasher(cfg.BcryptCost)
	passwordHash, err := hasher.Hash([]byte(devPassword))
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}

	now := time.Now().UTC()

	school := &schooldomain.School{
		ID:        devSchoolID,
		Name:      "Dev School",
		Address:   "1 Example Street",
		Status:    schooldomain.SchoolStatusActive,
		CreatedAt: now,
	}
	if err := schools.Create(ctx, school); err != nil {
		log.Fatalf("seed school: %v", err)
	}

	accounts := []*staffdomain.Staff{
		{
			ID:           devAdminID,
			SchoolID:     devSchoolID,
			Email:        devAdminEmail,
			Name:         "Dev Admin",
			Role:         staffdomain.StaffRoleAdmin,
			PasswordHash: passwordHash,
			Status:       staffdomain.StaffStatusActive,
			CreatedAt:    now,
			UpdatedAt:    now,
		},
		{
			ID:           devTeacherID,
			SchoolID:     devSchoolID,
			Email:        devTeacherMail,
			Name:         "Dev Teacher",
			Role:         staffdomain.StaffRoleTeacher,
			PasswordHash: passwordHash,
			Status:       staffdomain.StaffStatusActive,
			CreatedAt:    now,
			UpdatedAt:    now,
		},
	}
	for _, a := range accounts {
		if err := staff.Create(ctx, a); err != nil {
			log.Fatalf("seed staff %s: %v", a.Email, err)
		}
	}

	log.Printf("Seed applied: school %q, accounts %s / %s (password %q)",
		school.Name, devAdminEmail, devTeacherMail, devPassword)
}
