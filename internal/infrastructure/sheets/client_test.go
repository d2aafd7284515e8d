package sheets_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"

	"github.com/willowtrellis/farmstand-api/internal/infrastructure/sheets"
	"github.com/willowtrellis/farmstand-api/pkg/config"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *sheets.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := sheets.NewClient(context.Background(),
		config.SheetsConfig{SpreadsheetID: "sheet-1"},
		option.WithEndpoint(srv.URL+"/"),
		option.WithHTTPClient(srv.Client()),
	)
	require.NoError(t, err)
	return c
}

func TestFetchRows(t *testing.T) {
	var gotPath string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"range": "Produce!A2:F1000",
			"values": [][]any{
				{"Tomato", "", "3.5", "10", "Veg"},
				{"Kale", "http://img", 4, 2},
			},
		})
	})

	rows, err := c.FetchRows(context.Background(), "Produce!A2:F1000")
	require.NoError(t, err)
	assert.True(t, strings.Contains(gotPath, "/spreadsheets/sheet-1/values/"))
	assert.Equal(t, [][]string{
		{"Tomato", "", "3.5", "10", "Veg"},
		{"Kale", "http://img", "4", "2"},
	}, rows)
}

func TestFetchRows_UpstreamError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"code":403,"message":"denied"}}`, http.StatusForbidden)
	})

	_, err := c.FetchRows(context.Background(), "Produce!A2:F1000")
	assert.Error(t, err)
}

func TestFetchRows_NotConfigured(t *testing.T) {
	c, err := sheets.NewClient(context.Background(), config.SheetsConfig{})
	require.NoError(t, err)

	_, err = c.FetchRows(context.Background(), "Produce!A2:F1000")
	assert.ErrorIs(t, err, sheets.ErrNotConfigured)
}
