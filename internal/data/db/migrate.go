package db

import (
	"fmt"

	types "github.com/yungbote/contentflow-backend/internal/domain"
	"gorm.io/gorm"
)

func AutoMigrateAll(db *gorm.DB) error {
	if err := db.AutoMigrate(types.Models()...); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}
	return EnsureIndexes(db)
}

// EnsureIndexes adds the partial indexes gorm tags cannot express. The
// syntax is shared by postgres and sqlite.
func EnsureIndexes(db *gorm.DB) error {
	stmts := []struct{ name, sql string }{
		{
			"idx_user_progress_completed",
			`CREATE INDEX IF NOT EXISTS idx_user_progress_completed ON user_progress (target_kind, user_id) WHERE is_completed = true`,
		},
		{
			"idx_job_run_runnable",
			`CREATE INDEX IF NOT EXISTS idx_job_run_runnable ON job_run (status, created_at) WHERE deleted_at IS NULL`,
		},
	}
	for _, s := range stmts {
		if err := db.Exec(s.sql).Error; err != nil {
			return fmt.Errorf("create %s: %w", s.name, err)
		}
	}
	return nil
}
