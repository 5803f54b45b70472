// Resets the seeded admin account's password to the one in the config file.
//
// Meant for recovery when the admin password is lost; the running server
// does not need to be restarted.
//
// Usage: go run scripts/reset_admin.go

package main

import (
	"farsihub_backend/internal/config"
	"farsihub_backend/internal/model"
	"farsihub_backend/pkg/database"
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
)

func main() {
	data, err := os.ReadFile("configs/config.yaml")
	if err != nil {
		log.Fatalf("Cannot read config file: %v", err)
	}

	var cfg config.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		log.Fatalf("Cannot parse config file: %v", err)
	}

	if cfg.Admin.Email == "" || cfg.Admin.Password == "" {
		log.Fatal("admin.email and admin.password must be set in the config file")
	}

	db, err := database.InitDB(&cfg)
	if err != nil {
		log.Fatalf("Cannot connect to database: %v", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(cfg.Admin.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Cannot hash password: %v", err)
	}

	res := db.Model(&model.User{}).
		Where("email = ? AND role = ?", cfg.Admin.Email, model.Admin).
		Update("password", string(hashed))
	if res.Error != nil {
		log.Fatalf("Update failed: %v", res.Error)
	}
	if res.RowsAffected == 0 {
		log.Fatalf("No admin account with email %s", cfg.Admin.Email)
	}

	log.Printf("Password reset for %s", cfg.Admin.Email)
}
