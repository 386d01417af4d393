// Package sheets reads dashboard worksheets from a Google Sheets spreadsheet.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/okian/execdash/internal/adapters/source"
	"github.com/okian/execdash/internal/domain/model"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"
)

// ErrNoSpreadsheet is returned when no spreadsheet ID is configured.
var ErrNoSpreadsheet = errors.New("sheets: spreadsheet id is required")

// Source fetches worksheets through the Sheets values API.
type Source struct {
	svc           *gsheets.Service
	spreadsheetID string
}

var _ source.Source = (*Source)(nil)

// New connects to the spreadsheet. Client options carry the credentials,
// e.g. option.WithCredentialsFile.
func New(ctx context.Context, spreadsheetID string, opts ...option.ClientOption) (*Source, error) {
	if strings.TrimSpace(spreadsheetID) == "" {
		return nil, ErrNoSpreadsheet
	}
	opts = append([]option.ClientOption{option.WithScopes(gsheets.SpreadsheetsReadonlyScope)}, opts...)
	svc, err := gsheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return &Source{svc: svc, spreadsheetID: spreadsheetID}, nil
}

// FetchTable reads the whole worksheet; its first row is the header.
func (s *Source) FetchTable(ctx context.Context, name string) (model.Table, error) {
	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, quote(name)).
		ValueRenderOption("FORMATTED_VALUE").
		Context(ctx).
		Do()
	if err != nil {
		var gerr *googleapi.Error
		if errors.As(err, &gerr) && gerr.Code == http.StatusBadRequest {
			return model.Table{}, fmt.Errorf("%w: %s", source.ErrWorksheetNotFound, name)
		}
		return model.Table{}, fmt.Errorf("get values of %q: %w", name, err)
	}
	if len(resp.Values) == 0 {
		return model.Table{Name: name}, nil
	}

	header := cells(resp.Values[0])
	rows := make([][]string, 0, len(resp.Values)-1)
	for _, r := range resp.Values[1:] {
		rows = append(rows, cells(r))
	}
	return model.NewTable(name, header, rows), nil
}

// quote turns a worksheet name into an A1 range covering the whole sheet.
func quote(name string) string {
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}

func cells(row []any) []string {
	out := make([]string, len(row))
	for i, v := range row {
		if v == nil {
			continue
		}
		out[i] = fmt.Sprint(v)
	}
	return out
}
