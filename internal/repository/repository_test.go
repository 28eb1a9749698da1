package repository

import (
	"fmt"
	"testing"

	"eunacom_backend/internal/model"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", model.GenerateUUID())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Specialty{},
		&model.Topic{},
		&model.BaseQuestion{},
		&model.QuestionVariation{},
		&model.QASweepRun{},
		&model.QASweepResult{},
		&model.ReviewQueueItem{},
	))
	return db
}

func floatp(v float64) *float64 { return &v }
