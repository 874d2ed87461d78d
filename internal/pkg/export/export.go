package export

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/CristianNieto3/Technician-Memo/internal/pkg/persistence"
	"github.com/CristianNieto3/Technician-Memo/internal/pkg/utils"
	"github.com/xuri/excelize/v2"
)

const sheet = "Sheet1"

// Header is the column list of exported purchase orders
var Header = []string{"Date", "Time", "Description", "Unit Number", "Customer", "Vendor/Supplier"}

func row(po *persistence.PurchaseOrder) []string {
	return []string{po.Date, po.Time, utils.FromStrPtr(po.Description), utils.FromStrPtr(po.UnitNumber),
		utils.FromStrPtr(po.Customer), utils.FromStrPtr(po.VendorSupplier)}
}

// WriteCSV writes orders as CSV, all data fields are quoted
func WriteCSV(w io.Writer, orders []*persistence.PurchaseOrder) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(strings.Join(Header, ",") + "\n"); err != nil {
		return fmt.Errorf("can't write header: %w", err)
	}
	for _, po := range orders {
		vs := row(po)
		for i, v := range vs {
			vs[i] = quote(v)
		}
		if _, err := bw.WriteString(strings.Join(vs, ",") + "\n"); err != nil {
			return fmt.Errorf("can't write row: %w", err)
		}
	}
	return bw.Flush()
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// WriteXLSX writes orders as an Excel workbook
func WriteXLSX(w io.Writer, orders []*persistence.PurchaseOrder) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := setRow(f, 1, Header); err != nil {
		return err
	}
	for i, po := range orders {
		if err := setRow(f, i+2, row(po)); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(sheet, "A", "F", 18); err != nil {
		return fmt.Errorf("can't set width: %w", err)
	}
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("can't write xlsx: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, r int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, r)
	if err != nil {
		return fmt.Errorf("can't get cell: %w", err)
	}
	vs := make([]interface{}, len(values))
	for i, v := range values {
		vs[i] = v
	}
	if err := f.SetSheetRow(sheet, cell, &vs); err != nil {
		return fmt.Errorf("can't set row %d: %w", r, err)
	}
	return nil
}
