// Package export renders baskets and item backups into downloadable formats.
package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ghuser/restocker/services/inventory/domain/models"
	domainsvcs "github.com/ghuser/restocker/services/inventory/domain/services"
)

// Format names accepted by the basket endpoint and CLI.
const (
	FormatMarkdown = "md"
	FormatCSV      = "csv"
	FormatJSON     = "json"
)

var basketHeader = []string{"Item", "Need", "Unit price", "Source", "Note", "Est. cost"}

const totalLabel = "Total"

// ContentType returns the MIME type and file extension for format.
func ContentType(format string) (contentType, ext string, err error) {
	switch format {
	case FormatMarkdown:
		return "text/markdown; charset=utf-8", "md", nil
	case FormatCSV:
		return "text/csv; charset=utf-8", "csv", nil
	case FormatJSON:
		return "application/json", "json", nil
	default:
		return "", "", fmt.Errorf("unknown export format %q", format)
	}
}

// Basket renders b in the given format.
func Basket(w io.Writer, b domainsvcs.Basket, format string) error {
	switch format {
	case FormatMarkdown:
		_, err := io.WriteString(w, BasketMarkdown(b))
		return err
	case FormatCSV:
		return BasketCSV(w, b)
	case FormatJSON:
		return json.NewEncoder(w).Encode(b)
	default:
		return fmt.Errorf("unknown export format %q", format)
	}
}

// BasketMarkdown renders b as a GitHub-flavored table followed by a total line.
func BasketMarkdown(b domainsvcs.Basket) string {
	var sb strings.Builder
	sb.WriteString("| " + strings.Join(basketHeader, " | ") + " |\n")
	sb.WriteString("|" + strings.Repeat("---|", len(basketHeader)) + "\n")
	for _, row := range b.Rows {
		cells := basketCells(row)
		for i, c := range cells {
			cells[i] = escapeMarkdown(c)
		}
		sb.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}
	sb.WriteString("\n**" + totalLabel + ": " + domainsvcs.FormatMoney(b.Total) + "**\n")
	return sb.String()
}

// BasketCSV writes b as CSV with a header row and a trailing total row.
func BasketCSV(w io.Writer, b domainsvcs.Basket) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(basketHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, row := range b.Rows {
		cells := basketCells(row)
		for i, c := range cells {
			cells[i] = sanitizeCSVField(c)
		}
		if err := cw.Write(cells); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	total := make([]string, len(basketHeader))
	total[0] = totalLabel
	total[len(total)-1] = domainsvcs.FormatMoney(b.Total)
	if err := cw.Write(total); err != nil {
		return fmt.Errorf("write csv total: %w", err)
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("csv writer: %w", err)
	}
	return nil
}

// Backup writes items as an indented JSON array that Import accepts back.
func Backup(w io.Writer, items []*models.Item) error {
	if items == nil {
		items = []*models.Item{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(items); err != nil {
		return fmt.Errorf("encode backup: %w", err)
	}
	_, err := w.Write(buf.Bytes())
	return err
}

func basketCells(row domainsvcs.BasketRow) []string {
	cost := "—"
	if row.EstimatedCost != nil {
		cost = domainsvcs.FormatMoney(*row.EstimatedCost)
	}
	return []string{
		row.Name,
		formatQty(row.Need) + " " + row.Unit,
		row.PriceLabel,
		row.Store,
		row.Note,
		cost,
	}
}

func formatQty(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func escapeMarkdown(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

// sanitizeCSVField neutralizes values a spreadsheet would run as formulas.
func sanitizeCSVField(field string) string {
	if field == "" {
		return field
	}
	switch field[0] {
	case '=', '+', '-', '@':
		return "'" + field
	}
	return field
}
