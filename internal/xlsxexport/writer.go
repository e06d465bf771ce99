// Package xlsxexport renders an extraction result as an Excel workbook.
package xlsxexport

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"medbill/internal/domain"
)

const (
	ItemsSheet   = "Line Items"
	SummarySheet = "Summary"
)

// itemColumns defines the header row of the line item sheet.
var itemColumns = []any{
	"Page No",
	"Page Type",
	"Item Name",
	"Quantity",
	"Rate",
	"Amount",
}

// Write renders result as an XLSX workbook into w. The first sheet lists
// every line item with its page; the second carries totals and token usage.
func Write(w io.Writer, result *domain.ExtractionResult) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), ItemsSheet); err != nil {
		return fmt.Errorf("xlsxexport.Write: renaming sheet: %w", err)
	}
	if err := writeItems(f, result); err != nil {
		return fmt.Errorf("xlsxexport.Write: %w", err)
	}
	if _, err := f.NewSheet(SummarySheet); err != nil {
		return fmt.Errorf("xlsxexport.Write: creating summary sheet: %w", err)
	}
	if err := writeSummary(f, result); err != nil {
		return fmt.Errorf("xlsxexport.Write: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("xlsxexport.Write: writing workbook: %w", err)
	}
	return nil
}

func writeItems(f *excelize.File, result *domain.ExtractionResult) error {
	if err := f.SetSheetRow(ItemsSheet, "A1", &itemColumns); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	row := 2
	for _, page := range result.Data.PagewiseLineItems {
		for _, item := range page.BillItems {
			cells := []any{page.PageNo, string(page.PageType), item.Name, item.Quantity, item.Rate, item.Amount}
			cell, err := excelize.CoordinatesToCellName(1, row)
			if err != nil {
				return err
			}
			if err := f.SetSheetRow(ItemsSheet, cell, &cells); err != nil {
				return fmt.Errorf("writing row %d: %w", row, err)
			}
			row++
		}
	}
	return nil
}

func writeSummary(f *excelize.File, result *domain.ExtractionResult) error {
	rows := [][]any{
		{"Total Item Count", result.Data.TotalItemCount},
		{"Subtotal", optional(result.Totals.Subtotal)},
		{"Discount", optional(result.Totals.Discount)},
		{"Tax", optional(result.Totals.Tax)},
		{"Final Total", result.Totals.FinalTotal},
		{"Total Tokens", result.TokenUsage.Total},
		{"Input Tokens", result.TokenUsage.Input},
		{"Output Tokens", result.TokenUsage.Output},
	}
	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SummarySheet, cell, &rows[i]); err != nil {
			return fmt.Errorf("writing summary row %d: %w", i+1, err)
		}
	}
	return nil
}

// optional leaves the cell blank for totals the bill did not state.
func optional(v *float64) any {
	if v == nil {
		return ""
	}
	return *v
}
