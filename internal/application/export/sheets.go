package export

import (
	"context"
	"strings"
	"time"

	"github.com/bizdesk/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const dateLayout = "2006-01-02"

var headerCaser = cases.Title(language.English)

// column maps one field of T to a worksheet column
type column[T any] struct {
	key   string
	value func(*T) any
}

// header turns a snake_case key into a column title: "vat_code" -> "Vat Code"
func header(key string) string {
	return headerCaser.String(strings.ReplaceAll(key, "_", " "))
}

// fetchAll pages through every live record of ownerID, oldest first
func fetchAll[T any](ctx context.Context, repo shared.OwnedRepository[T], ownerID uuid.UUID) ([]T, error) {
	filter := shared.DefaultFilter()
	filter.PageSize = shared.MaxPageSize
	filter.OrderDir = "asc"

	var all []T
	for {
		page, err := repo.FindAllForOwner(ctx, ownerID, filter)
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		if len(page) < filter.PageSize {
			return all, nil
		}
		filter.Page++
	}
}

// writeSheet renders rows into a new workbook with a bold, frozen header row
func writeSheet[T any](sheet string, cols []column[T], rows []T) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		_ = f.Close()
		return nil, err
	}

	headers := make([]any, len(cols))
	for i, c := range cols {
		headers[i] = header(c.key)
	}
	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		_ = f.Close()
		return nil, err
	}

	for r := range rows {
		values := make([]any, len(cols))
		for i, c := range cols {
			values[i] = c.value(&rows[r])
		}
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			_ = f.Close()
			return nil, err
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			_ = f.Close()
			return nil, err
		}
	}

	if err := styleHeader(f, sheet, len(cols)); err != nil {
		_ = f.Close()
		return nil, err
	}
	return f, nil
}

func styleHeader(f *excelize.File, sheet string, n int) error {
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(n, 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, style); err != nil {
		return err
	}
	lastCol, err := excelize.ColumnNumberToName(n)
	if err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "A", lastCol, 18); err != nil {
		return err
	}
	return f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

func money(d decimal.Decimal) any {
	return d.InexactFloat64()
}

func date(t time.Time) any {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}

func optionalDate(t *time.Time) any {
	if t == nil {
		return ""
	}
	return date(*t)
}

func optionalID(id *uuid.UUID) any {
	if id == nil {
		return ""
	}
	return id.String()
}
