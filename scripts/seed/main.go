// Command seed creates or promotes an account directly against the database.
// Used to bootstrap the first committee chair or admin before any privileged
// login exists.
package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/ehs-honor/honor-site-api/internal/models"
	"github.com/ehs-honor/honor-site-api/internal/repository"
	"github.com/ehs-honor/honor-site-api/pkg/config"
	"github.com/ehs-honor/honor-site-api/pkg/database"
)

func main() {
	var (
		email    string
		fullName string
		password string
		role     string
	)

	flag.StringVar(&email, "email", "", "account email address")
	flag.StringVar(&fullName, "name", "", "account full name (required for new accounts)")
	flag.StringVar(&password, "password", "", "account password (required for new accounts)")
	flag.StringVar(&role, "role", string(models.RoleCommittee), "role to assign: student, committee, admin")
	flag.Parse()

	if email == "" {
		log.Fatal("-email is required")
	}
	targetRole := models.Role(strings.ToLower(role))
	if !targetRole.Valid() {
		log.Fatalf("unknown role %q", role)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	users := repository.NewUserRepository(db)
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		if _, err := db.ExecContext(ctx, `UPDATE users SET role = $2, updated_at = $3 WHERE id = $1`, user.ID, targetRole, time.Now().UTC()); err != nil {
			log.Fatalf("failed to update role: %v", err)
		}
		fmt.Printf("updated %s to role %s\n", email, targetRole)
	case errors.Is(err, sql.ErrNoRows):
		if fullName == "" || password == "" {
			log.Fatal("-name and -password are required when creating a new account")
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("failed to hash password: %v", err)
		}
		user := &models.User{
			Email:        email,
			PasswordHash: string(hash),
			FullName:     fullName,
			Role:         targetRole,
			Active:       true,
		}
		if err := users.Create(ctx, user); err != nil {
			log.Fatalf("failed to create account: %v", err)
		}
		fmt.Printf("created %s with role %s\n", email, targetRole)
	default:
		log.Fatalf("failed to look up account: %v", err)
	}
}
