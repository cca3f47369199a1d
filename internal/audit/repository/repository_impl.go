package repository

import (
	"context"

	"github.com/eventlane/eventlane/internal/audit/domain"
	"gorm.io/gorm"
)

type repo struct {
	db *gorm.DB
}

func Provide(db *gorm.DB) domain.Repository {
	return &repo{db: db}
}

func (r *repo) Insert(ctx context.Context, entry *domain.AuditLog) error {
	return r.db.WithContext(ctx).Exec(
		`INSERT INTO audit_logs (id, action, target_type, target_id, metadata, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		entry.ID,
		entry.Action,
		entry.TargetType,
		entry.TargetID,
		entry.Metadata,
		entry.CreatedAt,
	).Error
}
