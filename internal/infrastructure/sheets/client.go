// Package sheets reads catalog rows from Google Sheets with a service account.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"
	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"

	"github.com/willowtrellis/farmstand-api/internal/application/catalog"
	"github.com/willowtrellis/farmstand-api/pkg/config"
)

var _ catalog.RowFetcher = (*Client)(nil)

// ErrNotConfigured is returned by every fetch when no service account was provided.
var ErrNotConfigured = errors.New("google sheets credentials are not configured")

// Client fetches cell values of one spreadsheet.
type Client struct {
	svc           *gsheets.Service
	spreadsheetID string
	timeout       time.Duration
}

// NewClient authenticates with the service account in cfg. With incomplete credentials
// the client is still returned, but FetchRows fails with ErrNotConfigured so the catalog
// falls back to what is already persisted.
func NewClient(ctx context.Context, cfg config.SheetsConfig, opts ...option.ClientOption) (*Client, error) {
	c := &Client{spreadsheetID: cfg.SpreadsheetID, timeout: cfg.Timeout}
	if !cfg.Configured() && len(opts) == 0 {
		return c, nil
	}
	if cfg.Configured() {
		conf := &jwt.Config{
			Email:      cfg.ClientEmail,
			PrivateKey: []byte(cfg.PrivateKey),
			Scopes:     []string{gsheets.SpreadsheetsReadonlyScope},
			TokenURL:   google.JWTTokenURL,
		}
		opts = append([]option.ClientOption{option.WithHTTPClient(conf.Client(ctx))}, opts...)
	}
	svc, err := gsheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("sheets: new service: %w", err)
	}
	c.svc = svc
	return c, nil
}

// FetchRows returns the formatted values of rng. Short rows are returned as the API
// sends them; the parser treats missing trailing cells as blank.
func (c *Client) FetchRows(ctx context.Context, rng string) ([][]string, error) {
	if c.svc == nil {
		return nil, ErrNotConfigured
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("sheets: get %s: %w", rng, err)
	}

	rows := make([][]string, 0, len(resp.Values))
	for _, raw := range resp.Values {
		row := make([]string, len(raw))
		for i, v := range raw {
			if v == nil {
				continue
			}
			row[i] = fmt.Sprint(v)
		}
		rows = append(rows, row)
	}
	return rows, nil
}
