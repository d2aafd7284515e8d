package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/willowtrellis/farmstand-api/internal/domain"
	"github.com/willowtrellis/farmstand-api/internal/domain/entity"
	"github.com/willowtrellis/farmstand-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

const userColumns = `u.id, u.name, u.email, u.phone, u.password_hash, u.role, u.created_at, u.updated_at`

// UserRepo implements UserRepository on PostgreSQL.
type UserRepo struct {
	q Querier
}

// NewUserRepository builds the adapter.
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

// Create inserts a user. Emails are unique case-insensitively.
func (r *UserRepo) Create(ctx context.Context, user *entity.User) error {
	query := `
		INSERT INTO users (id, name, email, phone, password_hash, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		user.ID, user.Name, user.Email, nullIfEmpty(user.Phone), user.PasswordHash, user.Role,
		user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	u, err := scanUser(r.q.QueryRow(ctx, `SELECT `+userColumns+` FROM users u WHERE u.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	u, err := scanUser(r.q.QueryRow(ctx, `SELECT `+userColumns+` FROM users u WHERE lower(u.email) = lower($1)`, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

// UpdateRole returns domain.ErrUserNotFound when no row matches.
func (r *UserRepo) UpdateRole(ctx context.Context, id, role string) error {
	cmd, err := r.q.Exec(ctx, `UPDATE users SET role = $2, updated_at = now() WHERE id = $1`, id, role)
	if err != nil {
		return fmt.Errorf("update user role: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepo) ListWithOrderCount(ctx context.Context) ([]*entity.UserSummary, error) {
	query := `
		SELECT ` + userColumns + `, COUNT(o.id)
		FROM users u
		LEFT JOIN orders o ON o.user_id = u.id
		GROUP BY u.id
		ORDER BY u.created_at DESC`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()
	var list []*entity.UserSummary
	for rows.Next() {
		var s entity.UserSummary
		var phone *string
		if err := rows.Scan(&s.ID, &s.Name, &s.Email, &phone, &s.PasswordHash, &s.Role,
			&s.CreatedAt, &s.UpdatedAt, &s.OrderCount); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		s.Phone = derefStr(phone)
		list = append(list, &s)
	}
	return list, rows.Err()
}

func (r *UserRepo) ListByIDs(ctx context.Context, ids []string) ([]*entity.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return r.list(ctx, `SELECT `+userColumns+` FROM users u WHERE u.id = ANY($1::uuid[]) ORDER BY u.created_at`, ids)
}

func (r *UserRepo) ListWithOrders(ctx context.Context) ([]*entity.User, error) {
	return r.list(ctx, `
		SELECT `+userColumns+`
		FROM users u
		WHERE EXISTS (SELECT 1 FROM orders o WHERE o.user_id = u.id)
		ORDER BY u.created_at`)
}

func (r *UserRepo) list(ctx context.Context, query string, args ...any) ([]*entity.User, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()
	var list []*entity.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		list = append(list, u)
	}
	return list, rows.Err()
}

func scanUser(row pgx.Row) (*entity.User, error) {
	var u entity.User
	var phone *string
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &phone, &u.PasswordHash, &u.Role, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	u.Phone = derefStr(phone)
	return &u, nil
}
