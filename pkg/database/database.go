package database

import (
	"fmt"
	"log"
	"time"

	"quizhub_backend/internal/config"
	"quizhub_backend/internal/model"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	return db, nil
}

func Migrate(db *gorm.DB, quizCfg *config.QuizConfig) error {
	err := db.AutoMigrate(
		&model.User{},
		&model.Quiz{},
		&model.Question{},
		&model.Choice{},
		&model.QuizAttempt{},
	)
	if err != nil {
		return err
	}

	log.Println("Database migration completed")

	return seedDefaultAdmin(db, quizCfg)
}

// seedDefaultAdmin 若不存在管理员账号则创建默认管理员
func seedDefaultAdmin(db *gorm.DB, quizCfg *config.QuizConfig) error {
	var count int64
	if err := db.Model(&model.User{}).Where("role = ?", model.RoleAdmin).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	name := quizCfg.DefaultAdminName
	if name == "" {
		name = "admin"
	}
	email := quizCfg.DefaultAdminEmail
	if email == "" {
		email = "admin@example.com"
	}
	password := quizCfg.DefaultAdminPassword
	if password == "" {
		password = "admin123"
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := &model.User{
		Name:      name,
		Email:     email,
		Password:  string(hashed),
		Role:      model.RoleAdmin,
		LastLogin: time.Now(),
		LastSeen:  time.Now(),
	}
	if err := db.Create(admin).Error; err != nil {
		return err
	}

	log.Printf("Default admin user created: %s", email)
	return nil
}
