// Package export renders the catalog as an xlsx workbook and reads product
// sheets back in for bulk import.
package export

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	domevent "example.com/localspark/app/internal/domain/event"
	domproduct "example.com/localspark/app/internal/domain/product"
)

const (
	ProductsSheet = "Products"
	EventsSheet   = "Events"
)

var ErrNoProductSheet = errors.New("workbook has no product rows")

var productHeader = []any{
	"ID", "Name", "Category", "Brand", "Price", "Original Price", "Stock", "Rating", "Reviews", "SKU", "Tags", "Active", "Description", "Image URL",
}

var eventHeader = []any{
	"ID", "Title", "Category", "Start", "End", "Location", "Address", "Price", "Attendees", "Capacity", "Organizer", "Active",
}

// WriteCatalog writes a two-sheet workbook with every product and event.
func WriteCatalog(w io.Writer, products []*domproduct.Product, events []*domevent.Event) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", ProductsSheet); err != nil {
		return err
	}
	if _, err := f.NewSheet(EventsSheet); err != nil {
		return err
	}

	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
	})
	if err != nil {
		return err
	}

	if err := writeRow(f, ProductsSheet, 1, productHeader); err != nil {
		return err
	}
	for i, p := range products {
		var original any
		if p.OriginalPrice != nil {
			original = *p.OriginalPrice
		}
		row := []any{
			p.ID, p.Name, p.Category, p.Brand, p.Price, original, p.StockQuantity, p.Rating,
			p.ReviewCount, p.SKU, strings.Join(p.Tags, ","), p.IsActive, p.Description, p.ImageURL,
		}
		if err := writeRow(f, ProductsSheet, i+2, row); err != nil {
			return err
		}
	}

	if err := writeRow(f, EventsSheet, 1, eventHeader); err != nil {
		return err
	}
	for i, e := range events {
		var capacity any
		if e.MaxAttendees != nil {
			capacity = *e.MaxAttendees
		}
		row := []any{
			e.ID, e.Title, e.Category, e.StartDate.UTC().Format(time.RFC3339), e.EndDate.UTC().Format(time.RFC3339),
			e.Location, e.Address, e.Price, e.CurrentAttendees, capacity, e.OrganizerName, e.IsActive,
		}
		if err := writeRow(f, EventsSheet, i+2, row); err != nil {
			return err
		}
	}

	for _, sheet := range []string{ProductsSheet, EventsSheet} {
		if err := f.SetRowStyle(sheet, 1, 1, header); err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, "B", "B", 36); err != nil {
			return err
		}
		if err := f.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
			return err
		}
	}

	_, err = f.WriteTo(w)
	return err
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

// ReadProducts parses the Products sheet (or the first sheet) of a workbook
// laid out like WriteCatalog's. Columns are matched by header name, so extra
// or reordered columns are fine. Rows without a name are skipped.
func ReadProducts(r io.Reader) ([]*domproduct.Product, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheet := ProductsSheet
	if idx, _ := f.GetSheetIndex(sheet); idx < 0 {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, ErrNoProductSheet
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	if len(rows) < 2 {
		return nil, ErrNoProductSheet
	}

	cols := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	if _, ok := cols["name"]; !ok {
		return nil, fmt.Errorf("%w: missing Name column", ErrNoProductSheet)
	}

	var products []*domproduct.Product
	for i, row := range rows[1:] {
		get := func(col string) string {
			idx, ok := cols[col]
			if !ok || idx >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[idx])
		}

		name := get("name")
		if name == "" {
			continue
		}
		line := i + 2

		p := &domproduct.Product{
			ID:          get("id"),
			Name:        name,
			Category:    get("category"),
			Brand:       get("brand"),
			SKU:         get("sku"),
			Description: get("description"),
			ImageURL:    get("image url"),
			IsActive:    true,
			Tags:        []string{},
		}
		if p.Price, err = parseFloat(get("price")); err != nil {
			return nil, fmt.Errorf("row %d price: %w", line, err)
		}
		if v := get("original price"); v != "" {
			op, err := parseFloat(v)
			if err != nil {
				return nil, fmt.Errorf("row %d original price: %w", line, err)
			}
			p.OriginalPrice = &op
		}
		if v := get("stock"); v != "" {
			if p.StockQuantity, err = strconv.ParseInt(v, 10, 64); err != nil {
				return nil, fmt.Errorf("row %d stock: %w", line, err)
			}
		}
		if v := get("rating"); v != "" {
			if p.Rating, err = parseFloat(v); err != nil {
				return nil, fmt.Errorf("row %d rating: %w", line, err)
			}
		}
		if v := get("reviews"); v != "" {
			if p.ReviewCount, err = strconv.ParseInt(v, 10, 64); err != nil {
				return nil, fmt.Errorf("row %d reviews: %w", line, err)
			}
		}
		if v := get("active"); v != "" {
			if p.IsActive, err = strconv.ParseBool(strings.ToLower(v)); err != nil {
				return nil, fmt.Errorf("row %d active: %w", line, err)
			}
		}
		for _, tag := range strings.Split(get("tags"), ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				p.Tags = append(p.Tags, tag)
			}
		}
		products = append(products, p)
	}
	return products, nil
}

func parseFloat(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
}
