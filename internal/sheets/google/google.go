// Package google mirrors the transaction ledger into a Google Sheet.
package google

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/oauth2"
	goauth "golang.org/x/oauth2/google"
	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"lifedeck/internal/core"
	applog "lifedeck/internal/log"
	ports "lifedeck/internal/sheets"
)

// Ensure interface conformance
var (
	_ ports.LedgerWriter = (*Client)(nil)
	_ ports.LedgerReader = (*Client)(nil)
)

// Config selects the target sheet and the credentials. Service account
// credentials win over an OAuth client + token pair.
type Config struct {
	SpreadsheetID string
	SheetName     string

	ServiceAccountJSON string
	ServiceAccountFile string

	// Produced by cmd/oauth-init.
	OAuthClientFile string
	OAuthTokenFile  string
}

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
	logger        *applog.Logger
}

// New creates a Sheets client.
func New(ctx context.Context, cfg Config, logger *applog.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.SpreadsheetID) == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}
	if cfg.SheetName == "" {
		cfg.SheetName = "Ledger"
	}
	if logger == nil {
		logger = applog.Default(applog.ComponentSheets)
	}
	logger = logger.WithComponent(applog.ComponentSheets)

	ts, err := tokenSource(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	// oauth2 picks up the pooled client as its base transport.
	hctx := context.WithValue(ctx, oauth2.HTTPClient, newHTTPClientWithPooling())
	svc, err := gsheet.NewService(ctx, goption.WithHTTPClient(oauth2.NewClient(hctx, ts)))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return &Client{svc: svc, spreadsheetID: cfg.SpreadsheetID, sheetName: cfg.SheetName, logger: logger}, nil
}

// tokenSource resolves credentials: inline service account JSON, a service
// account file (or GOOGLE_APPLICATION_CREDENTIALS), then an OAuth token.
func tokenSource(ctx context.Context, cfg Config, logger *applog.Logger) (oauth2.TokenSource, error) {
	file := cfg.ServiceAccountFile
	if cfg.ServiceAccountJSON == "" && file == "" {
		file = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	switch {
	case cfg.ServiceAccountJSON != "":
		logger.InfoContext(ctx, "Using inline service account credentials")
		return serviceAccount(ctx, []byte(cfg.ServiceAccountJSON))
	case file != "":
		logger.InfoContext(ctx, "Reading service account credentials", "path", file)
		b, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		return serviceAccount(ctx, b)
	case cfg.OAuthClientFile != "" && cfg.OAuthTokenFile != "":
		logger.InfoContext(ctx, "Using OAuth user token", "path", cfg.OAuthTokenFile)
		return userToken(ctx, cfg.OAuthClientFile, cfg.OAuthTokenFile)
	default:
		return nil, errors.New("missing Google credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, GOOGLE_APPLICATION_CREDENTIALS, or GOOGLE_OAUTH_CLIENT_FILE + GOOGLE_OAUTH_TOKEN_FILE)")
	}
}

func serviceAccount(ctx context.Context, b []byte) (oauth2.TokenSource, error) {
	creds, err := goauth.CredentialsFromJSON(ctx, b, gsheet.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("parse service account credentials: %w", err)
	}
	return creds.TokenSource, nil
}

func userToken(ctx context.Context, clientFile, tokenFile string) (oauth2.TokenSource, error) {
	b, err := os.ReadFile(clientFile)
	if err != nil {
		return nil, fmt.Errorf("read oauth client file: %w", err)
	}
	cfg, err := goauth.ConfigFromJSON(b, gsheet.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("oauth config: %w", err)
	}
	tok, err := ReadToken(tokenFile)
	if err != nil {
		return nil, err
	}
	return cfg.TokenSource(ctx, tok), nil
}

// newHTTPClientWithPooling creates an HTTP client for the Sheets API with
// connection pooling and bounded timeouts.
func newHTTPClientWithPooling() *http.Client {
	dialer := &net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: 30 * time.Second,
	}
	transport := &http.Transport{
		DialContext:           dialer.DialContext,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		MaxConnsPerHost:       50,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 30 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		ForceAttemptHTTP2:     true,
	}
	return &http.Client{Transport: transport, Timeout: 60 * time.Second}
}

func (c *Client) ledgerRange() string {
	return fmt.Sprintf("%s!A:F", c.sheetName)
}

// ReplaceLedger clears the ledger columns and writes the header plus one row
// per transaction.
func (c *Client) ReplaceLedger(ctx context.Context, txs []core.Transaction) error {
	for _, tx := range txs {
		if err := tx.Validate(); err != nil {
			return fmt.Errorf("transaction %s: %w", tx.ID, err)
		}
	}
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}

	start := time.Now()
	_, err := c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, c.ledgerRange(), &gsheet.ClearValuesRequest{}).
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("clear ledger: %w", err)
	}

	vr := &gsheet.ValueRange{Values: ports.LedgerRows(txs)}
	_, err = c.svc.Spreadsheets.Values.Update(c.spreadsheetID, fmt.Sprintf("%s!A1", c.sheetName), vr).
		ValueInputOption("RAW").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("write ledger: %w", err)
	}

	c.logger.InfoContext(ctx, "Ledger mirrored",
		applog.FieldCount, len(txs),
		"sheet", c.sheetName,
		applog.FieldDuration, time.Since(start).Milliseconds())
	return nil
}

// ReadLedger reads the mirrored ledger back.
func (c *Client) ReadLedger(ctx context.Context) ([]core.Transaction, error) {
	if c.svc == nil {
		return nil, errors.New("sheets service not initialized")
	}
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, c.ledgerRange()).
		ValueRenderOption("UNFORMATTED_VALUE").
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read ledger: %w", err)
	}
	return ports.ParseLedgerRows(resp.Values)
}
