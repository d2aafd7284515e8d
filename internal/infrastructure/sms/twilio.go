// Package sms sends text messages through the Twilio REST API.
package sms

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/willowtrellis/farmstand-api/internal/application/notification"
	"github.com/willowtrellis/farmstand-api/pkg/config"
)

var _ notification.SMSSender = (*TwilioSender)(nil)

const defaultBaseURL = "https://api.twilio.com"

// TwilioSender posts to the Messages resource. Sends are throttled so a broadcast to
// every customer stays under the account's rate limit.
type TwilioSender struct {
	accountSID string
	authToken  string
	from       string
	baseURL    string
	limiter    *rate.Limiter
	httpClient *http.Client
}

// Option customizes a TwilioSender.
type Option func(*TwilioSender)

// WithBaseURL points the sender at another API host (tests).
func WithBaseURL(u string) Option {
	return func(s *TwilioSender) { s.baseURL = strings.TrimRight(u, "/") }
}

// WithHTTPClient replaces the default client.
func WithHTTPClient(c *http.Client) Option {
	return func(s *TwilioSender) { s.httpClient = c }
}

// NewTwilioSender builds the sender. A non-positive RatePerSec disables throttling.
func NewTwilioSender(cfg config.SMSConfig, opts ...Option) *TwilioSender {
	limit := rate.Inf
	if cfg.RatePerSec > 0 {
		limit = rate.Limit(cfg.RatePerSec)
	}
	s := &TwilioSender{
		accountSID: cfg.AccountSID,
		authToken:  cfg.AuthToken,
		from:       cfg.FromNumber,
		baseURL:    defaultBaseURL,
		limiter:    rate.NewLimiter(limit, 1),
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type twilioError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Send delivers body to the E.164 number to.
func (s *TwilioSender) Send(ctx context.Context, to, body string) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("twilio: rate limit wait: %w", err)
	}

	form := url.Values{}
	form.Set("To", to)
	form.Set("From", s.from)
	form.Set("Body", body)

	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", s.baseURL, url.PathEscape(s.accountSID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("twilio: build request: %w", err)
	}
	req.SetBasicAuth(s.accountSID, s.authToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("twilio: send to %s: %w", to, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var te twilioError
	if json.Unmarshal(raw, &te) == nil && te.Message != "" {
		return fmt.Errorf("twilio: send to %s: status %d: %s (code %d)", to, resp.StatusCode, te.Message, te.Code)
	}
	return fmt.Errorf("twilio: send to %s: status %d: %s", to, resp.StatusCode, strings.TrimSpace(string(raw)))
}
