package service

import (
	"fmt"
	"testing"

	"eunacom_backend/internal/model"
	"eunacom_backend/pkg/logger"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func init() {
	logger.Log = zap.NewNop()
}

// newTestDB opens a private in-memory database per test. The shared-cache DSN
// keeps all pooled connections on the same database.
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
		&model.ControlPackage{},
		&model.ExamPackage{},
		&model.MockExamPackage{},
		&model.ControlPurchase{},
	))
	return db
}
