package sms_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/willowtrellis/farmstand-api/internal/infrastructure/sms"
	"github.com/willowtrellis/farmstand-api/pkg/config"
)

var testCfg = config.SMSConfig{AccountSID: "AC123", AuthToken: "secret", FromNumber: "+15550000000"}

func TestTwilioSender_Send(t *testing.T) {
	var got *http.Request
	var form map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		got = r
		form = r.PostForm
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"sid":"SM1"}`))
	}))
	defer srv.Close()

	s := sms.NewTwilioSender(testCfg, sms.WithBaseURL(srv.URL))
	require.NoError(t, s.Send(context.Background(), "+16135550101", "Your order is ready"))

	assert.Equal(t, http.MethodPost, got.Method)
	assert.Equal(t, "/2010-04-01/Accounts/AC123/Messages.json", got.URL.Path)
	user, pass, ok := got.BasicAuth()
	require.True(t, ok)
	assert.Equal(t, "AC123", user)
	assert.Equal(t, "secret", pass)
	assert.Equal(t, []string{"+16135550101"}, form["To"])
	assert.Equal(t, []string{"+15550000000"}, form["From"])
	assert.Equal(t, []string{"Your order is ready"}, form["Body"])
}

func TestTwilioSender_ErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"code":21211,"message":"Invalid 'To' Phone Number"}`))
	}))
	defer srv.Close()

	s := sms.NewTwilioSender(testCfg, sms.WithBaseURL(srv.URL))
	err := s.Send(context.Background(), "nope", "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid 'To' Phone Number")
	assert.Contains(t, err.Error(), "21211")
}

func TestTwilioSender_Throttled(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	cfg := testCfg
	cfg.RatePerSec = 0.5
	s := sms.NewTwilioSender(cfg, sms.WithBaseURL(srv.URL))

	require.NoError(t, s.Send(context.Background(), "+1", "first"))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	err := s.Send(ctx, "+1", "second")
	assert.Error(t, err, "second send must wait for the limiter")
	assert.Equal(t, int32(1), calls.Load())
}
