package stock

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"sismed_stock/internal/app"
	"sismed_stock/internal/retry"
	"sismed_stock/internal/sheets"
)

// RangeReader reads one A1 range from a spreadsheet.
type RangeReader interface {
	ReadRange(ctx context.Context, spreadsheetID, readRange string) ([][]interface{}, error)
}

// ClientFactory builds a RangeReader from decoded service account JSON.
type ClientFactory func(ctx context.Context, credentialsJSON []byte) (RangeReader, error)

// NewSheetsClient returns the ClientFactory backed by the Google Sheets API.
// tokenTimeout bounds each access token request.
func NewSheetsClient(tokenTimeout time.Duration) ClientFactory {
	return func(ctx context.Context, credentialsJSON []byte) (RangeReader, error) {
		client, err := sheets.NewClient(ctx, credentialsJSON, tokenTimeout)
		if err != nil {
			return nil, err
		}
		return client, nil
	}
}

type selector struct {
	setting string
	message string
}

var selectors = map[string]selector{
	"1": {setting: app.EnvPrimarySheet1, message: "✅ Datos leídos correctamente del Google Sheet con ID '1'."},
	"2": {setting: app.EnvPrimarySheet2, message: "✅ Datos leídos correctamente del Google Sheet con ID '2'."},
	"3": {setting: app.EnvPrimarySheet3, message: "✅ Datos leídos correctamente de FARMAMINSA ATE."},
}

// Result is a successful read: a status message and the formatted rows,
// header included.
type Result struct {
	Message string
	Values  []OutputRow
}

// Service reads one stock sheet per request and joins it with the lookup
// sheet.
type Service struct {
	cfg       app.Config
	newClient ClientFactory
	sheetRead retry.Config
}

// NewService returns a Service that builds a client per request with
// newClient and bounds each range read by sheetRead.
func NewService(cfg app.Config, newClient ClientFactory, sheetRead retry.Config) *Service {
	return &Service{
		cfg:       cfg,
		newClient: newClient,
		sheetRead: sheetRead,
	}
}

// Read resolves the spreadsheet for id, fetches the lookup and primary
// ranges and joins them. Every error it returns is an *Error.
func (s *Service) Read(ctx context.Context, id string) (*Result, error) {
	sel, ok := selectors[id]
	if !ok {
		log.Debug().Str("id", id).Msg("Rejecting unknown sheet id")
		return nil, invalidSelector(id)
	}

	if s.cfg.CredentialsBase64 == "" {
		return nil, missingSetting(app.EnvCredentials)
	}
	if s.cfg.LookupSpreadsheetID == "" {
		return nil, missingSetting(app.EnvLookupSheet)
	}
	spreadsheetID := s.cfg.PrimarySpreadsheetIDs[sel.setting]
	if spreadsheetID == "" {
		return nil, missingSetting(sel.setting)
	}

	credentialsJSON, err := decodeCredentials(s.cfg.CredentialsBase64)
	if err != nil {
		return nil, authenticationFailure(err)
	}

	client, err := s.newClient(ctx, credentialsJSON)
	if err != nil {
		return nil, authenticationFailure(err)
	}

	primaryRange := s.cfg.SheetName + "!A:ZZ"
	log.Debug().
		Str("id", id).
		Str("lookup_range", LookupRange).
		Str("primary_range", primaryRange).
		Msg("Fetching ranges")

	var lookupValues, primaryValues [][]interface{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		values, err := s.readRange(gctx, client, s.cfg.LookupSpreadsheetID, LookupRange)
		lookupValues = values
		return err
	})
	g.Go(func() error {
		values, err := s.readRange(gctx, client, spreadsheetID, primaryRange)
		primaryValues = values
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, classifyFetchError(err)
	}

	lookup := BuildLookupTable(lookupValues)
	rows := FormatRows(primaryValues, lookup)

	log.Info().
		Str("id", id).
		Int("lookup_entries", len(lookup)).
		Int("rows", len(rows)).
		Msg("Read stock sheet")

	return &Result{
		Message: sel.message,
		Values:  rows,
	}, nil
}

func (s *Service) readRange(ctx context.Context, client RangeReader, spreadsheetID, readRange string) ([][]interface{}, error) {
	return retry.Do(ctx, s.sheetRead, func(ctx context.Context) ([][]interface{}, error) {
		return client.ReadRange(ctx, spreadsheetID, readRange)
	})
}

func decodeCredentials(encoded string) ([]byte, error) {
	decoded, err := base64.StdEncoding.DecodeString(strings.TrimSpace(encoded))
	if err != nil {
		return nil, fmt.Errorf("credentials are not valid base64: %w", err)
	}
	return decoded, nil
}
