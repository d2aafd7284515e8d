package postgres

import (
	"context"
	"fmt"

	"github.com/willowtrellis/farmstand-api/internal/domain/entity"
	"github.com/willowtrellis/farmstand-api/internal/domain/repository"
)

var _ repository.NotificationRepository = (*NotificationRepo)(nil)

// NotificationRepo implements NotificationRepository on PostgreSQL.
type NotificationRepo struct {
	q Querier
}

// NewNotificationRepository builds the adapter.
func NewNotificationRepository(q Querier) *NotificationRepo {
	return &NotificationRepo{q: q}
}

func (r *NotificationRepo) Create(ctx context.Context, n *entity.Notification) error {
	query := `
		INSERT INTO notifications (id, subject, message, recipient_type, recipient_count, emails_sent, sms_sent, sent_by, sent_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		n.ID, n.Subject, n.Message, n.RecipientType, n.RecipientCount, n.EmailsSent, n.SMSSent,
		n.SentBy, n.SentAt,
	)
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

// ListRecent returns the latest broadcasts with the sender's name.
func (r *NotificationRepo) ListRecent(ctx context.Context, limit int) ([]*entity.Notification, error) {
	query := `
		SELECT n.id, n.subject, n.message, n.recipient_type, n.recipient_count,
		       n.emails_sent, n.sms_sent, n.sent_by, COALESCE(u.name, ''), n.sent_at
		FROM notifications n
		LEFT JOIN users u ON u.id = n.sent_by
		ORDER BY n.sent_at DESC
		LIMIT $1`
	rows, err := r.q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()
	var list []*entity.Notification
	for rows.Next() {
		var n entity.Notification
		if err := rows.Scan(&n.ID, &n.Subject, &n.Message, &n.RecipientType, &n.RecipientCount,
			&n.EmailsSent, &n.SMSSent, &n.SentBy, &n.SentByName, &n.SentAt); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		list = append(list, &n)
	}
	return list, rows.Err()
}
