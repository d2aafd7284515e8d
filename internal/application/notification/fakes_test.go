package notification_test

import (
	"context"
	"errors"
	"sync"

	"github.com/willowtrellis/farmstand-api/internal/application/notification"
	"github.com/willowtrellis/farmstand-api/internal/domain/entity"
)

type fakeMailer struct {
	mu     sync.Mutex
	sent   []notification.Email
	failTo string
}

func (m *fakeMailer) Send(_ context.Context, msg notification.Email) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if msg.To == m.failTo {
		return errors.New("mailbox unavailable")
	}
	m.sent = append(m.sent, msg)
	return nil
}

func (m *fakeMailer) to() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.sent))
	for _, e := range m.sent {
		out = append(out, e.To)
	}
	return out
}

type fakeSMS struct {
	mu   sync.Mutex
	sent map[string]string
}

func (s *fakeSMS) Send(_ context.Context, to, body string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sent == nil {
		s.sent = make(map[string]string)
	}
	s.sent[to] = body
	return nil
}

type fakeUsers struct {
	users     []*entity.UserSummary
}

func (f *fakeUsers) Create(context.Context, *entity.User) error { return nil }
func (f *fakeUsers) GetByID(context.Context, string) (*entity.User, error) { return nil, nil }
func (f *fakeUsers) GetByEmail(context.Context, string) (*entity.User, error) { return nil, nil }
func (f *fakeUsers) UpdateRole(context.Context, string, string) error { return nil }

func (f *fakeUsers) ListWithOrderCount(context.Context) ([]*entity.UserSummary, error) {
	return f.users, nil
}

func (f *fakeUsers) ListByIDs(_ context.Context, ids []string) ([]*entity.User, error) {
	var out []*entity.User
	for _, id := range ids {
		for _, s := range f.users {
			if s.ID == id {
				u := s.User
				out = append(out, &u)
			}
		}
	}
	return out, nil
}

func (f *fakeUsers) ListWithOrders(context.Context) ([]*entity.User, error) {
	var out []*entity.User
	for _, s := range f.users {
		if s.OrderCount > 0 {
			u := s.User
			out = append(out, &u)
		}
	}
	return out, nil
}

type fakeNotifications struct {
	created []*entity.Notification
	err     error
}

func (f *fakeNotifications) Create(_ context.Context, n *entity.Notification) error {
	if f.err != nil {
		return f.err
	}
	f.created = append(f.created, n)
	return nil
}

func (f *fakeNotifications) ListRecent(_ context.Context, limit int) ([]*entity.Notification, error) {
	if len(f.created) > limit {
		return f.created[:limit], nil
	}
	return f.created, nil
}
