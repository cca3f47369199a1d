package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

type AuditLog struct {
	ID         snowflake.ID   `json:"id" gorm:"primaryKey"`
	Action     string         `json:"action" gorm:"type:text;not null"`
	TargetType string         `json:"target_type" gorm:"type:text;not null"`
	TargetID   *string        `json:"target_id" gorm:"type:text"`
	Metadata   datatypes.JSON `json:"metadata" gorm:"type:jsonb;not null"`
	CreatedAt  time.Time      `json:"created_at" gorm:"not null"`
}

func (AuditLog) TableName() string { return "audit_logs" }

type Service interface {
	AuditLog(ctx context.Context, action string, targetType string, targetID *string, metadata map[string]any) error
}

type Repository interface {
	Insert(ctx context.Context, entry *AuditLog) error
}
