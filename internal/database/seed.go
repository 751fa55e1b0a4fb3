package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"inkwell/internal/slug"
)

// Seed populates the database with initial development data: a default
// admin user and a handful of categories. It is a no-op when users
// already exist.
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("seed check users: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("admin"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed bcrypt: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO users (name, email, password_hash, role)
		VALUES ($1, $2, $3, $4)
	`, "Admin", "admin@inkwell.local", string(hash), "admin")
	if err != nil {
		return fmt.Errorf("seed insert admin: %w", err)
	}

	categories := []struct {
		name  string
		color string
	}{
		{"Technology", "#3B82F6"},
		{"Lifestyle", "#10B981"},
		{"Travel", "#F59E0B"},
	}
	for _, c := range categories {
		_, err := db.Exec(`
			INSERT INTO categories (name, slug, color)
			VALUES ($1, $2, $3)
			ON CONFLICT (name) DO NOTHING
		`, c.name, slug.Generate(c.name), c.color)
		if err != nil {
			return fmt.Errorf("seed insert category %s: %w", c.name, err)
		}
	}

	slog.Info("database seeded with default admin user",
		"email", "admin@inkwell.local",
		"password", "admin",
	)

	return nil
}
