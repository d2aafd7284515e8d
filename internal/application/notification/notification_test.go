package notification_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/willowtrellis/farmstand-api/internal/application/dto"
	"github.com/willowtrellis/farmstand-api/internal/application/notification"
	"github.com/willowtrellis/farmstand-api/internal/domain"
	"github.com/willowtrellis/farmstand-api/internal/domain/entity"
	"github.com/willowtrellis/farmstand-api/pkg/config"
	"github.com/willowtrellis/farmstand-api/pkg/logger"
)

var farm = config.FarmConfig{Name: "Willow Trellis Farms", Address: "3013 Upper Otterson, Ottawa, ON", Hours: "Tue-Sun 8AM-6PM", Phone: "(613) 581-9303"}

func TestMoney(t *testing.T) {
	assert.Equal(t, "$3.50", notification.Money(decimal.RequireFromString("3.5")))
	assert.Equal(t, "$1,234.57", notification.Money(decimal.RequireFromString("1234.567")))
	assert.Equal(t, "$0.00", notification.Money(decimal.Zero))
}

func TestShortID(t *testing.T) {
	assert.Equal(t, "3F2A9C1B", notification.ShortID("3f2a9c1b-0000-4000-8000-000000000000"))
	assert.Equal(t, "AB", notification.ShortID("ab"))
}

func sampleOrder() *entity.Order {
	return &entity.Order{
		ID:            "3f2a9c1b-0000-4000-8000-000000000000",
		CustomerName:  "Ada <script>",
		CustomerEmail: "ada@example.com",
		CustomerPhone: "+16135550100",
		Total:         decimal.RequireFromString("11"),
		Items: []entity.OrderItem{
			{ProductName: "Tomato", Quantity: 2, Price: decimal.RequireFromString("3.5")},
			{ProductName: "Kale", Quantity: 1, Price: decimal.RequireFromString("4")},
		},
	}
}

func TestDispatcher_OrderPlaced(t *testing.T) {
	mailer := &fakeMailer{}
	sms := &fakeSMS{}
	d := notification.NewDispatcher(mailer, sms, "admin@farm.test", "https://farm.test", farm, logger.Nop())

	d.OrderPlaced(sampleOrder())
	d.Wait()

	assert.ElementsMatch(t, []string{"ada@example.com", "admin@farm.test"}, mailer.to())
	for _, m := range mailer.sent {
		assert.Contains(t, m.HTML, "Tomato x2 - $7.00")
		assert.Contains(t, m.HTML, "Total: $11.00")
		assert.NotContains(t, m.HTML, "<script>", "customer input must be escaped")
	}
	require.Contains(t, sms.sent, "+16135550100")
	assert.Contains(t, sms.sent["+16135550100"], "#3F2A9C1B for $11.00")
}

func TestDispatcher_SkipsUnconfiguredChannels(t *testing.T) {
	d := notification.NewDispatcher(nil, nil, "", "https://farm.test", farm, logger.Nop())
	d.OrderPlaced(sampleOrder())
	d.OrderReady(sampleOrder())
	d.Welcome(&entity.User{Name: "Ada", Email: "ada@example.com"})
	d.Wait()
}

func TestDispatcher_Welcome(t *testing.T) {
	mailer := &fakeMailer{}
	d := notification.NewDispatcher(mailer, nil, "", "https://farm.test", farm, logger.Nop())
	d.Welcome(&entity.User{Name: "Ada", Email: "ada@example.com"})
	d.Wait()

	require.Len(t, mailer.sent, 1)
	assert.Contains(t, mailer.sent[0].HTML, "https://farm.test/products")
	assert.True(t, strings.HasPrefix(mailer.sent[0].Subject, "Welcome"))
}

func newBroadcast(mailer notification.Mailer, sms notification.SMSSender, log *fakeNotifications) *notification.UseCase {
	users := &fakeUsers{users: []*entity.UserSummary{
		{User: entity.User{ID: "u1", Name: "Ada", Email: "ada@example.com", Phone: "+1600"}, OrderCount: 2},
		{User: entity.User{ID: "u2", Name: "Bob", Email: "bob@example.com"}, OrderCount: 0},
		{User: entity.User{ID: "u3", Name: "Cy", Email: "cy@example.com", Phone: "+1602"}, OrderCount: 1},
	}}
	return notification.NewUseCase(users, log, mailer, sms, farm, logger.Nop())
}

func TestBroadcast_Validation(t *testing.T) {
	uc := newBroadcast(&fakeMailer{}, &fakeSMS{}, &fakeNotifications{})
	ctx := context.Background()

	cases := []dto.SendNotificationRequest{
		{Message: "", SendEmail: true, Subject: "x", RecipientType: "all"},
		{Message: "hi", RecipientType: "all"},
		{Message: "hi", SendEmail: true, RecipientType: "all"},
		{Message: "hi", SendSMS: true, RecipientType: "selected"},
		{Message: "hi", SendSMS: true, RecipientType: "everyone"},
		{Message: "hi", SendSMS: true, RecipientType: "selected", Recipients: []string{"nobody"}},
	}
	for _, in := range cases {
		_, err := uc.Send(ctx, "admin", in)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "%+v", in)
	}
}

func TestBroadcast_CustomersOnly(t *testing.T) {
	mailer := &fakeMailer{failTo: "cy@example.com"}
	sms := &fakeSMS{}
	log := &fakeNotifications{}
	uc := newBroadcast(mailer, sms, log)

	res, err := uc.Send(context.Background(), "admin-1", dto.SendNotificationRequest{
		Subject: "Strawberries are in", Message: "Come pick\nsome up", SendEmail: true, SendSMS: true,
		RecipientType: entity.RecipientsCustomers,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Results.EmailsSent)
	assert.Equal(t, 2, res.Results.SMSSent)
	require.Len(t, res.Results.Errors, 1)
	assert.Contains(t, res.Results.Errors[0], "Cy")
	assert.Contains(t, mailer.sent[0].HTML, "Come pick<br>some up")
	assert.Contains(t, sms.sent["+1600"], "Willow Trellis Farms: Come pick")

	require.Len(t, log.created, 1)
	assert.Equal(t, 2, log.created[0].RecipientCount)
	assert.Equal(t, "admin-1", log.created[0].SentBy)
}

func TestBroadcast_SMSWithoutTwilio(t *testing.T) {
	uc := newBroadcast(&fakeMailer{}, nil, &fakeNotifications{err: errors.New("db down")})

	res, err := uc.Send(context.Background(), "admin-1", dto.SendNotificationRequest{
		Message: "Closed today", SendSMS: true, RecipientType: entity.RecipientsSelected, Recipients: []string{"u1"},
	})
	require.NoError(t, err, "logging failures must not fail the broadcast")
	assert.Zero(t, res.Results.SMSSent)
	require.Len(t, res.Results.Errors, 1)
	assert.Contains(t, res.Results.Errors[0], "Twilio not configured")
}

func TestBroadcast_Overview(t *testing.T) {
	log := &fakeNotifications{}
	uc := newBroadcast(&fakeMailer{}, &fakeSMS{}, log)
	_, err := uc.Send(context.Background(), "admin-1", dto.SendNotificationRequest{
		Subject: "Hi", Message: "Hello", SendEmail: true, RecipientType: entity.RecipientsAll,
	})
	require.NoError(t, err)

	out, err := uc.Overview(context.Background())
	require.NoError(t, err)
	assert.Len(t, out.Users, 3)
	assert.Equal(t, 2, out.Users[0].OrderCount)
	require.Len(t, out.Notifications, 1)
	assert.Equal(t, 3, out.Notifications[0].EmailsSent)
}
