// Package report builds the XLSX export of the back-office dashboard.
package report

import (
	"bytes"
	"fmt"
	"time"

	"inmo-backoffice/internal/analytics"
	"inmo-backoffice/internal/delinquency"
	"inmo-backoffice/internal/domain"

	"github.com/xuri/excelize/v2"
)

const (
	SheetDelinquents = "Delinquents"
	SheetReceipts    = "Receipts"
	SheetExpirations = "Expirations"
)

var (
	delinquentHeader = []string{"Tenant ID", "Name", "Phone", "Debt", "Days Late", "Tier", "Guarantor", "Guarantor Phone"}
	receiptHeader    = []string{"Receipt ID", "Tenant", "Address", "Period", "Amount", "Method", "Payment Date", "Status", "Reviewed By", "Comments"}
	expirationHeader = []string{"Bucket", "Contract ID", "Property"}
)

// Input everything the workbook shows.
type Input struct {
	Delinquents []delinquency.Delinquent
	Receipts    []domain.PaymentReceipt
	Expirations analytics.Timeline
}

// Workbook renders the three report sheets and returns the XLSX bytes.
func Workbook(in Input) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	sheets := []struct {
		name   string
		header []string
		rows   [][]any
		widths []float64
	}{
		{SheetDelinquents, delinquentHeader, delinquentRows(in.Delinquents), []float64{12, 24, 16, 12, 10, 16, 24, 16}},
		{SheetReceipts, receiptHeader, receiptRows(in.Receipts), []float64{38, 24, 32, 14, 12, 14, 14, 10, 14, 32}},
		{SheetExpirations, expirationHeader, expirationRows(in.Expirations), []float64{14, 38, 32}},
	}
	for i, s := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", s.name); err != nil {
				return nil, fmt.Errorf("failed to rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(s.name); err != nil {
			return nil, fmt.Errorf("failed to create sheet %s: %w", s.name, err)
		}
		if err := writeSheet(f, s.name, s.header, s.rows, header); err != nil {
			return nil, err
		}
		for col, w := range s.widths {
			name, _ := excelize.ColumnNumberToName(col + 1)
			if err := f.SetColWidth(s.name, name, name, w); err != nil {
				return nil, fmt.Errorf("failed to set column width: %w", err)
			}
		}
	}
	f.SetActiveSheet(0)

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSheet(f *excelize.File, sheet string, header []string, rows [][]any, style int) error {
	for col, h := range header {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return fmt.Errorf("failed to set header cell %s: %w", cell, err)
		}
	}
	last, _ := excelize.CoordinatesToCellName(len(header), 1)
	if err := f.SetCellStyle(sheet, "A1", last, style); err != nil {
		return fmt.Errorf("failed to set header style: %w", err)
	}

	for r, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, r+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, r+2, err)
		}
	}
	return nil
}

func delinquentRows(ds []delinquency.Delinquent) [][]any {
	rows := make([][]any, 0, len(ds))
	for _, d := range ds {
		var gName, gPhone string
		if d.Tenant.Guarantor != nil {
			gName, gPhone = d.Tenant.Guarantor.Name, d.Tenant.Guarantor.Phone
		}
		rows = append(rows, []any{
			d.Tenant.ID, d.Tenant.Name, d.Tenant.Phone, d.Tenant.DebtAmount, d.Tenant.DaysLate,
			string(d.Tier), gName, gPhone,
		})
	}
	return rows
}

func receiptRows(rs []domain.PaymentReceipt) [][]any {
	rows := make([][]any, 0, len(rs))
	for _, r := range rs {
		var by, comments string
		if r.Review != nil {
			by = r.Review.By
		}
		if r.Comments != nil {
			comments = *r.Comments
		}
		rows = append(rows, []any{
			r.ID, r.TenantName, r.PropertyAddress, r.Period, r.Amount, string(r.Method),
			r.PaymentDate.Format(time.DateOnly), string(r.Status), by, comments,
		})
	}
	return rows
}

func expirationRows(tl analytics.Timeline) [][]any {
	var rows [][]any
	buckets := []struct {
		label string
		b     analytics.Bucket
	}{
		{"overdue", tl.Overdue},
		{"this-month", tl.ThisMonth},
		{"next-month", tl.NextMonth},
		{"future", tl.Future},
	}
	for _, bk := range buckets {
		for i, id := range bk.b.ContractIDs {
			title := ""
			if i < len(bk.b.Properties) {
				title = bk.b.Properties[i]
			}
			rows = append(rows, []any{bk.label, id, title})
		}
	}
	return rows
}
