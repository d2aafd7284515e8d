package notification

import (
	"context"
	"sync"
	"time"

	"github.com/willowtrellis/farmstand-api/internal/domain/entity"
	"github.com/willowtrellis/farmstand-api/pkg/config"
	"github.com/willowtrellis/farmstand-api/pkg/logger"
)

const sendTimeout = 30 * time.Second

// Dispatcher sends order and account notifications in the background.
// Delivery failures are logged and never reach the caller.
type Dispatcher struct {
	mailer     Mailer
	sms        SMSSender
	adminEmail string
	shopURL    string
	farm       config.FarmConfig
	log        *logger.Logger
	wg         sync.WaitGroup
}

// NewDispatcher builds the dispatcher. mailer or sms may be nil when the channel is not configured.
func NewDispatcher(mailer Mailer, sms SMSSender, adminEmail, publicURL string, farm config.FarmConfig, log *logger.Logger) *Dispatcher {
	return &Dispatcher{
		mailer:     mailer,
		sms:        sms,
		adminEmail: adminEmail,
		shopURL:    publicURL + "/products",
		farm:       farm,
		log:        log.Component("notifications"),
	}
}

// OrderPlaced emails the customer and the admin and texts the customer when a phone was given.
func (d *Dispatcher) OrderPlaced(o *entity.Order) {
	d.async("order_placed", func(ctx context.Context) {
		d.mail(ctx, "order_confirmation", Email{To: o.CustomerEmail, Subject: "Pickup Order Confirmed - " + d.farm.Name},
			mailData{Farm: d.farm, Order: o})
		if d.adminEmail != "" {
			d.mail(ctx, "admin_order", Email{To: d.adminEmail, Subject: "New Farm Pickup Order - " + ShortID(o.ID)},
				mailData{Farm: d.farm, Order: o})
		}
		if o.CustomerPhone != "" {
			d.text(ctx, o.CustomerPhone, orderPlacedSMS(d.farm, o))
		}
	})
}

// OrderReady tells the customer their order can be picked up.
func (d *Dispatcher) OrderReady(o *entity.Order) {
	d.async("order_ready", func(ctx context.Context) {
		d.mail(ctx, "order_ready", Email{To: o.CustomerEmail, Subject: "Your order is ready for pickup - " + d.farm.Name},
			mailData{Farm: d.farm, Order: o})
		if o.CustomerPhone != "" {
			d.text(ctx, o.CustomerPhone, orderReadySMS(d.farm, o))
		}
	})
}

// Welcome greets a new account.
func (d *Dispatcher) Welcome(u *entity.User) {
	d.async("welcome", func(ctx context.Context) {
		d.mail(ctx, "welcome", Email{To: u.Email, Subject: "Welcome to " + d.farm.Name + "!"},
			mailData{Farm: d.farm, Name: u.Name, ShopURL: d.shopURL})
	})
}

// Wait blocks until every pending notification finished. Called on shutdown.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

func (d *Dispatcher) async(event string, fn func(ctx context.Context)) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				d.log.Error().Interface("panic", r).Str("event", event).Msg("notification panicked")
			}
		}()
		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		defer cancel()
		fn(ctx)
	}()
}

func (d *Dispatcher) mail(ctx context.Context, tmpl string, msg Email, data mailData) {
	if d.mailer == nil {
		d.log.Debug().Str("template", tmpl).Msg("email not configured, skipping")
		return
	}
	html, err := render(tmpl, data)
	if err != nil {
		d.log.Error().Err(err).Msg("render email")
		return
	}
	msg.HTML = html
	if err := d.mailer.Send(ctx, msg); err != nil {
		d.log.Error().Err(err).Str("template", tmpl).Str("to", msg.To).Msg("send email")
		return
	}
	d.log.Info().Str("template", tmpl).Str("to", msg.To).Msg("email sent")
}

func (d *Dispatcher) text(ctx context.Context, to, body string) {
	if d.sms == nil {
		d.log.Warn().Msg("SMS not configured, skipping")
		return
	}
	if err := d.sms.Send(ctx, to, body); err != nil {
		d.log.Error().Err(err).Str("to", to).Msg("send SMS")
	}
}
