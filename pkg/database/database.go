package database

import (
	"farsihub_backend/internal/config"
	"farsihub_backend/internal/model"
	"fmt"
	"log"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.Config) (*gorm.DB, error) {
	dbc := &cfg.Database
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		dbc.User,
		dbc.Password,
		dbc.Host,
		dbc.Port,
		dbc.DBName,
		dbc.Charset,
		dbc.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	err = db.AutoMigrate(
		&model.User{},
		&model.Lecture{},
		&model.Quiz{},
		&model.QuizSubmission{},
	)

	if err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	if err := seedAdmin(db, &cfg.Admin); err != nil {
		return nil, err
	}

	return db, nil
}

// seedAdmin creates the configured admin account when no admin exists yet,
// so a fresh deployment has someone who can approve students.
func seedAdmin(db *gorm.DB, cfg *config.AdminConfig) error {
	if cfg.Email == "" || cfg.Password == "" {
		return nil
	}

	var count int64
	if err := db.Model(&model.User{}).Where("role = ?", model.Admin).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(cfg.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	name := cfg.Name
	if name == "" {
		name = "Administrator"
	}

	admin := &model.User{
		Name:     name,
		Email:    cfg.Email,
		Password: string(hashed),
		Role:     model.Admin,
		Approved: true,
	}
	if err := db.Create(admin).Error; err != nil {
		return err
	}

	log.Printf("Seeded admin account %s", cfg.Email)
	return nil
}
