package export

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/menu-extractor/internal/entity"
	"github.com/joseph-ayodele/menu-extractor/internal/repository"
)

// SheetName is the worksheet holding exported menu items.
const SheetName = "Menu Items"

// ItemLister is the read side of the menu item store.
type ItemLister interface {
	List(ctx context.Context, f repository.ListFilter) ([]entity.MenuItem, error)
}

// Service is a tiny façade over the store that produces XLSX bytes for exports.
type Service struct {
	items  ItemLister
	logger *slog.Logger
}

func NewService(items ItemLister, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{items: items, logger: logger}
}

var headers = []string{
	"Name",
	"Category",
	"Price",
	"Description",
	"Ingredients",
	"Dietary Info",
	"Availability",
	"Created At",
}

// ExportMenuItemsXLSX returns a workbook with one row per item matching f,
// in the same order List returns them.
func (s *Service) ExportMenuItemsXLSX(ctx context.Context, f repository.ListFilter) ([]byte, error) {
	start := time.Now()

	items, err := s.items.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("query menu items: %w", err)
	}

	x := excelize.NewFile()
	defer func() { _ = x.Close() }()

	// rename the default sheet rather than leaving an empty Sheet1
	if err := x.SetSheetName(x.GetSheetName(0), SheetName); err != nil {
		return nil, err
	}

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = x.SetCellValue(SheetName, cell, h)
	}

	for i, it := range items {
		row := i + 2
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = x.SetCellValue(SheetName, cell, v)
		}
		write(1, it.Name)
		write(2, deref(it.Category))
		write(3, deref(it.Price))
		write(4, truncate(deref(it.Description), 300))
		write(5, strings.Join(it.Ingredients, ", "))
		write(6, strings.Join(it.DietaryInfo, ", "))
		write(7, deref(it.Availability))
		write(8, it.CreatedAt.UTC().Format(time.RFC3339))
	}

	_ = x.SetColWidth(SheetName, "A", "A", 28) // name
	_ = x.SetColWidth(SheetName, "B", "C", 16) // category, price
	_ = x.SetColWidth(SheetName, "D", "D", 60) // description
	_ = x.SetColWidth(SheetName, "E", "F", 36) // lists
	_ = x.SetColWidth(SheetName, "G", "H", 22)

	buf, err := x.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"category", f.Category,
		"search", f.Search,
		"rows", len(items),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	if n <= 1 {
		return s[:n]
	}
	return s[:n-1] + "…"
}
