package auth

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/willowtrellis/farmstand-api/internal/application/dto"
	"github.com/willowtrellis/farmstand-api/internal/domain"
	"github.com/willowtrellis/farmstand-api/internal/domain/entity"
	"github.com/willowtrellis/farmstand-api/internal/domain/repository"
	"github.com/willowtrellis/farmstand-api/pkg/jwt"
	"github.com/willowtrellis/farmstand-api/pkg/logger"
)

const minPasswordLen = 6

// JWTConfig token generation settings.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// WelcomeNotifier greets new accounts. Must not block. May be nil.
type WelcomeNotifier interface {
	Welcome(u *entity.User)
}

// AuthUseCase signup, login and account administration.
type AuthUseCase struct {
	userRepo  repository.UserRepository
	orderRepo repository.OrderRepository
	welcome   WelcomeNotifier
	jwtCfg    JWTConfig
	log       *logger.Logger
}

// NewAuthUseCase builds the use case.
func NewAuthUseCase(
	userRepo repository.UserRepository,
	orderRepo repository.OrderRepository,
	welcome WelcomeNotifier,
	jwtCfg JWTConfig,
	log *logger.Logger,
) *AuthUseCase {
	return &AuthUseCase{
		userRepo:  userRepo,
		orderRepo: orderRepo,
		welcome:   welcome,
		jwtCfg:    jwtCfg,
		log:       log.Component("auth"),
	}
}

// Signup creates a CUSTOMER account with a bcrypt-hashed password and sends a welcome email.
// Returns ErrEmailAlreadyExists when the email is taken.
func (uc *AuthUseCase) Signup(ctx context.Context, in dto.SignupRequest) (*dto.UserResponse, error) {
	name := strings.TrimSpace(in.Name)
	email := normalizeEmail(in.Email)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("%w: invalid email", domain.ErrInvalidInput)
	}
	if len(in.Password) < minPasswordLen {
		return nil, fmt.Errorf("%w: password must be at least %d characters", domain.ErrInvalidInput, minPasswordLen)
	}

	existing, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	user := &entity.User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		Phone:        strings.TrimSpace(in.Phone),
		PasswordHash: string(hash),
		Role:         entity.RoleCustomer,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	uc.log.Info().Str("user_id", user.ID).Msg("account created")
	if uc.welcome != nil {
		uc.welcome.Welcome(user)
	}
	return toUserResponse(user), nil
}

// Login checks email/password and returns a signed JWT with the user.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.userRepo.GetByEmail(ctx, normalizeEmail(in.Email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token: token,
		User:  *toUserResponse(user),
	}, nil
}

// Profile returns the user and their order count.
func (uc *AuthUseCase) Profile(ctx context.Context, userID string) (*dto.ProfileResponse, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	n, err := uc.orderRepo.CountByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &dto.ProfileResponse{UserResponse: *toUserResponse(user), OrderCount: n}, nil
}

// PromoteToAdmin gives ADMIN role to the account with email.
func (uc *AuthUseCase) PromoteToAdmin(ctx context.Context, email string) (*dto.UserResponse, error) {
	user, err := uc.userRepo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if !user.IsAdmin() {
		if err := uc.userRepo.UpdateRole(ctx, user.ID, entity.RoleAdmin); err != nil {
			return nil, err
		}
		user.Role = entity.RoleAdmin
		uc.log.Info().Str("user_id", user.ID).Msg("user promoted to admin")
	}
	return toUserResponse(user), nil
}

// ListUsers returns every account, newest first.
func (uc *AuthUseCase) ListUsers(ctx context.Context) ([]dto.UserResponse, error) {
	users, err := uc.userRepo.ListWithOrderCount(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, *toUserResponse(&u.User))
	}
	return out, nil
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Phone:     u.Phone,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}
