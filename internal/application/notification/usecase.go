package notification

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/willowtrellis/farmstand-api/internal/application/dto"
	"github.com/willowtrellis/farmstand-api/internal/domain"
	"github.com/willowtrellis/farmstand-api/internal/domain/entity"
	"github.com/willowtrellis/farmstand-api/internal/domain/repository"
	"github.com/willowtrellis/farmstand-api/pkg/config"
	"github.com/willowtrellis/farmstand-api/pkg/logger"
)

const historySize = 20

var errEmailDisabled = errors.New("email not configured")

// UseCase admin broadcasts to customers by email and SMS.
type UseCase struct {
	users         repository.UserRepository
	notifications repository.NotificationRepository
	mailer        Mailer
	sms           SMSSender
	farm          config.FarmConfig
	log           *logger.Logger
}

// NewUseCase builds the use case. mailer or sms may be nil when the channel is not configured.
func NewUseCase(
	users repository.UserRepository,
	notifications repository.NotificationRepository,
	mailer Mailer,
	sms SMSSender,
	farm config.FarmConfig,
	log *logger.Logger,
) *UseCase {
	return &UseCase{
		users:         users,
		notifications: notifications,
		mailer:        mailer,
		sms:           sms,
		farm:          farm,
		log:           log.Component("broadcast"),
	}
}

// Send delivers the message to every recipient independently and logs the broadcast.
// One failing recipient only adds an entry to Results.Errors.
func (uc *UseCase) Send(ctx context.Context, senderID string, in dto.SendNotificationRequest) (*dto.SendNotificationResponse, error) {
	in.Message = strings.TrimSpace(in.Message)
	in.Subject = strings.TrimSpace(in.Subject)
	if in.Message == "" || (!in.SendEmail && !in.SendSMS) {
		return nil, fmt.Errorf("%w: message and at least one notification method are required", domain.ErrInvalidInput)
	}
	if in.SendEmail && in.Subject == "" {
		return nil, fmt.Errorf("%w: subject is required for email notifications", domain.ErrInvalidInput)
	}

	targets, err := uc.recipients(ctx, in)
	if err != nil {
		return nil, err
	}
	if len(targets) == 0 {
		return nil, fmt.Errorf("%w: no recipients found", domain.ErrInvalidInput)
	}

	res := dto.SendResults{Errors: []string{}}
	for _, u := range targets {
		who := u.Name
		if who == "" {
			who = u.Email
		}
		if in.SendEmail && u.Email != "" {
			if err := uc.sendEmail(ctx, u, in); err != nil {
				res.Errors = append(res.Errors, fmt.Sprintf("Failed to email %s: %v", who, err))
			} else {
				res.EmailsSent++
			}
		}
		if in.SendSMS && u.Phone != "" {
			if uc.sms == nil {
				res.Errors = append(res.Errors, fmt.Sprintf("Twilio not configured, SMS not sent to %s", who))
			} else if err := uc.sms.Send(ctx, u.Phone, broadcastSMS(uc.farm, in.Message)); err != nil {
				res.Errors = append(res.Errors, fmt.Sprintf("Failed to text %s: %v", who, err))
			} else {
				res.SMSSent++
			}
		}
	}

	subject := in.Subject
	if subject == "" {
		subject = "SMS Notification"
	}
	record := &entity.Notification{
		ID:             uuid.New().String(),
		Subject:        subject,
		Message:        in.Message,
		RecipientType:  in.RecipientType,
		RecipientCount: len(targets),
		EmailsSent:     res.EmailsSent,
		SMSSent:        res.SMSSent,
		SentBy:         senderID,
		SentAt:         time.Now(),
	}
	if err := uc.notifications.Create(ctx, record); err != nil {
		uc.log.Error().Err(err).Msg("could not log notification")
	}

	uc.log.Info().Str("recipient_type", in.RecipientType).Int("recipients", len(targets)).
		Int("emails_sent", res.EmailsSent).Int("sms_sent", res.SMSSent).Int("errors", len(res.Errors)).
		Msg("broadcast sent")
	return &dto.SendNotificationResponse{Success: true, Results: res}, nil
}

// Overview lists the possible recipients and the latest broadcasts.
func (uc *UseCase) Overview(ctx context.Context) (*dto.NotificationOverviewResponse, error) {
	users, err := uc.users.ListWithOrderCount(ctx)
	if err != nil {
		return nil, err
	}
	history, err := uc.notifications.ListRecent(ctx, historySize)
	if err != nil {
		return nil, err
	}
	out := &dto.NotificationOverviewResponse{
		Users:         make([]dto.UserSummaryResponse, 0, len(users)),
		Notifications: make([]dto.NotificationResponse, 0, len(history)),
	}
	for _, u := range users {
		out.Users = append(out.Users, dto.UserSummaryResponse{
			UserResponse: dto.UserResponse{ID: u.ID, Name: u.Name, Email: u.Email, Phone: u.Phone, Role: u.Role, CreatedAt: u.CreatedAt},
			OrderCount:   u.OrderCount,
		})
	}
	for _, n := range history {
		out.Notifications = append(out.Notifications, dto.NotificationResponse{
			ID: n.ID, Subject: n.Subject, Message: n.Message, RecipientType: n.RecipientType,
			RecipientCount: n.RecipientCount, EmailsSent: n.EmailsSent, SMSSent: n.SMSSent,
			SentBy: n.SentBy, SentByName: n.SentByName, SentAt: n.SentAt,
		})
	}
	return out, nil
}

func (uc *UseCase) recipients(ctx context.Context, in dto.SendNotificationRequest) ([]*entity.User, error) {
	switch {
	case in.RecipientType == entity.RecipientsAll:
		summaries, err := uc.users.ListWithOrderCount(ctx)
		if err != nil {
			return nil, err
		}
		users := make([]*entity.User, 0, len(summaries))
		for _, s := range summaries {
			u := s.User
			users = append(users, &u)
		}
		return users, nil
	case in.RecipientType == entity.RecipientsCustomers:
		return uc.users.ListWithOrders(ctx)
	case in.RecipientType == entity.RecipientsSelected && len(in.Recipients) > 0:
		return uc.users.ListByIDs(ctx, in.Recipients)
	default:
		return nil, fmt.Errorf("%w: invalid recipient selection", domain.ErrInvalidInput)
	}
}

func (uc *UseCase) sendEmail(ctx context.Context, u *entity.User, in dto.SendNotificationRequest) error {
	if uc.mailer == nil {
		return errEmailDisabled
	}
	html, err := render("broadcast", mailData{Farm: uc.farm, Name: u.Name, Message: in.Message})
	if err != nil {
		return err
	}
	return uc.mailer.Send(ctx, Email{To: u.Email, Subject: in.Subject, HTML: html})
}
