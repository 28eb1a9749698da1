package database

import (
	"eunacom_backend/internal/config"
	"eunacom_backend/internal/model"
	"fmt"
	"log"

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
		Logger: logger.Default.LogMode(logger.Warn),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	return db, nil
}

// Migrate runs AutoMigrate for every model the backend owns. Sweep results
// and review queue items are written by the diagnostic worker but share this
// schema definition.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Specialty{},
		&model.Topic{},
		&model.BaseQuestion{},
		&model.QuestionVariation{},
		&model.QASweepRun{},
		&model.QASweepResult{},
		&model.ReviewQueueItem{},
		&model.ControlPackage{},
		&model.ExamPackage{},
		&model.MockExamPackage{},
		&model.ControlPurchase{},
	)
}
