package repository

import (
	"context"

	"github.com/willowtrellis/farmstand-api/internal/domain/entity"
)

// NotificationRepository stores the audit log of admin broadcasts.
type NotificationRepository interface {
	Create(ctx context.Context, n *entity.Notification) error
	ListRecent(ctx context.Context, limit int) ([]*entity.Notification, error)
}
