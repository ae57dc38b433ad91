package main

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/oksasatya/identity-service/config"
	"github.com/oksasatya/identity-service/pkg/helpers"
)

// Seeds the base ADMIN and USER roles plus a first administrator account.
// Safe to run repeatedly.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	now := time.Now().UTC()

	ensureRole := func(name, description string) string {
		var id string
		err := db.QueryRow(`
			INSERT INTO roles (id, name, description, created_at, created_by, updated_at, updated_by)
			VALUES ($1, $2, $3, $4, 'seed', $5, 'seed')
			ON CONFLICT (name) DO UPDATE SET updated_at = EXCLUDED.updated_at
			RETURNING id
		`, uuid.NewString(), name, description, now, now).Scan(&id)
		if err != nil {
			log.Fatalf("failed to upsert role %s: %v", name, err)
		}
		return id
	}

	adminRoleID := ensureRole("ADMIN", "full administrative access")
	userRoleID := ensureRole("USER", "standard account access")
	fmt.Printf("roles ensured: ADMIN=%s USER=%s\n", adminRoleID, userRoleID)

	username := "admin"
	email := "admin@example.com"
	password := "changeMe123!"
	hash, err := helpers.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	var userID string
	err = db.QueryRow(`
		INSERT INTO users (id, username, email, password, enabled, password_must_be_modified,
		                   created_at, created_by, updated_at, updated_by)
		VALUES ($1, $2, $3, $4, TRUE, TRUE, $5, 'seed', $6, 'seed')
		ON CONFLICT (username) DO UPDATE SET updated_at = EXCLUDED.updated_at
		RETURNING id
	`, uuid.NewString(), username, email, hash, now, now).Scan(&userID)
	if err != nil {
		log.Fatalf("failed to seed admin user: %v", err)
	}
	fmt.Printf("seeded user: id=%s username=%s password=%s\n", userID, username, password)

	if _, err := db.Exec(`
		INSERT INTO profiles (id, user_id, firstname, lastname, place_of_birth, date_of_birth,
		                      nationality, gender, personal_identification_number,
		                      created_at, created_by, updated_at, updated_by)
		VALUES ($1, $2, 'System', 'Administrator', 'N/A', '1970-01-01', 'N/A', 'M', $3,
		        $4, 'seed', $5, 'seed')
		ON CONFLICT (user_id) DO NOTHING
	`, uuid.NewString(), userID, "SEED-"+userID[:8], now, now); err != nil {
		log.Fatalf("failed to seed admin profile: %v", err)
	}

	for _, roleID := range []string{adminRoleID, userRoleID} {
		if _, err := db.Exec(`
			INSERT INTO user_roles (user_id, role_id)
			VALUES ($1, $2)
			ON CONFLICT (user_id, role_id) DO NOTHING
		`, userID, roleID); err != nil {
			log.Fatalf("failed to assign role: %v", err)
		}
	}
	fmt.Println("assigned ADMIN and USER roles to the seeded account")
}
