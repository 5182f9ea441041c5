// Package sheets reads the exercise catalog from a Google Sheets worksheet.
package sheets

import (
	"context"
	"errors"
	"strings"

	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"

	"alcyxob/session-planner/internal/domain"
	"alcyxob/session-planner/internal/repository"
)

// DefaultWorksheet is the tab the coaching staff keeps the catalog in.
const DefaultWorksheet = "repositorio_ejercicios"

// Config identifies the worksheet and the service account allowed to read it.
type Config struct {
	SpreadsheetID   string
	Worksheet       string
	CredentialsJSON []byte // service account key; empty relies on opts or default credentials
}

type sheetsSource struct {
	values        *gsheets.SpreadsheetsValuesService
	spreadsheetID string
	worksheet     string
}

// NewSheetsSource creates a read-only catalog source. Extra client options are appended
// after the credentials, which lets callers point the client at another endpoint.
func NewSheetsSource(ctx context.Context, cfg Config, opts ...option.ClientOption) (repository.CatalogSource, error) {
	if strings.TrimSpace(cfg.SpreadsheetID) == "" {
		return nil, errors.New("sheets: spreadsheet id is required")
	}
	if cfg.Worksheet == "" {
		cfg.Worksheet = DefaultWorksheet
	}

	clientOpts := []option.ClientOption{
		option.WithScopes(gsheets.SpreadsheetsReadonlyScope, gsheets.DriveReadonlyScope),
	}
	if len(cfg.CredentialsJSON) > 0 {
		clientOpts = append(clientOpts, option.WithCredentialsJSON(cfg.CredentialsJSON))
	}
	clientOpts = append(clientOpts, opts...)

	svc, err := gsheets.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, err
	}
	return &sheetsSource{
		values:        svc.Spreadsheets.Values,
		spreadsheetID: cfg.SpreadsheetID,
		worksheet:     cfg.Worksheet,
	}, nil
}

func (s *sheetsSource) Name() string {
	return "sheets:" + s.worksheet
}

// FetchRows reads the whole worksheet; the first row is the header.
func (s *sheetsSource) FetchRows(ctx context.Context) ([]domain.Row, error) {
	resp, err := s.values.Get(s.spreadsheetID, sheetRange(s.worksheet)).
		ValueRenderOption("UNFORMATTED_VALUE").
		MajorDimension("ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return nil, repository.Unavailable(s.Name(), err)
	}
	return repository.RowsFromTable(resp.Values)
}

// sheetRange quotes a worksheet title for A1 notation ("Plan 'B'" -> "'Plan ''B'''").
func sheetRange(worksheet string) string {
	return "'" + strings.ReplaceAll(worksheet, "'", "''") + "'"
}
