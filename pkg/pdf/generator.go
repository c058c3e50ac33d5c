package pdf

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"
)

// POLine is one item row on a purchase order document.
type POLine struct {
	ItemName string
	Unit     string
	Quantity string
	Rate     string
	Amount   string
}

// POData is everything the purchase order template needs.
type POData struct {
	PONumber   string
	PODate     string
	FirmName   string
	VendorName string
	VendorAddr string
	IndentNo   string
	Lines      []POLine
	Total      string
	Remarks    string
}

type Generator interface {
	GeneratePO(ctx context.Context, data POData) (io.Reader, error)
}

type generator struct{}

func NewGenerator() Generator {
	return &generator{}
}

func (g *generator) GeneratePO(ctx context.Context, data POData) (io.Reader, error) {
	doc := gofpdf.New("P", "mm", "A4", "")
	doc.SetTitle(fmt.Sprintf("Purchase Order %s", data.PONumber), false)
	doc.AddPage()

	doc.SetFont("Arial", "B", 16)
	doc.CellFormat(0, 10, data.FirmName, "", 1, "C", false, 0, "")
	doc.SetFont("Arial", "B", 12)
	doc.CellFormat(0, 8, "PURCHASE ORDER", "", 1, "C", false, 0, "")
	doc.Ln(4)

	doc.SetFont("Arial", "", 10)
	doc.CellFormat(95, 6, fmt.Sprintf("PO Number: %s", data.PONumber), "", 0, "L", false, 0, "")
	doc.CellFormat(95, 6, fmt.Sprintf("Date: %s", data.PODate), "", 1, "R", false, 0, "")
	doc.CellFormat(95, 6, fmt.Sprintf("Against Indent: %s", data.IndentNo), "", 1, "L", false, 0, "")
	doc.Ln(2)

	doc.SetFont("Arial", "B", 10)
	doc.CellFormat(0, 6, "Vendor", "", 1, "L", false, 0, "")
	doc.SetFont("Arial", "", 10)
	doc.CellFormat(0, 6, data.VendorName, "", 1, "L", false, 0, "")
	if data.VendorAddr != "" {
		doc.MultiCell(0, 5, data.VendorAddr, "", "L", false)
	}
	doc.Ln(4)

	// Item table
	doc.SetFont("Arial", "B", 10)
	doc.SetFillColor(230, 230, 230)
	doc.CellFormat(80, 7, "Item", "1", 0, "L", true, 0, "")
	doc.CellFormat(20, 7, "Unit", "1", 0, "C", true, 0, "")
	doc.CellFormat(25, 7, "Qty", "1", 0, "R", true, 0, "")
	doc.CellFormat(30, 7, "Rate", "1", 0, "R", true, 0, "")
	doc.CellFormat(35, 7, "Amount", "1", 1, "R", true, 0, "")

	doc.SetFont("Arial", "", 10)
	for _, line := range data.Lines {
		doc.CellFormat(80, 7, line.ItemName, "1", 0, "L", false, 0, "")
		doc.CellFormat(20, 7, line.Unit, "1", 0, "C", false, 0, "")
		doc.CellFormat(25, 7, line.Quantity, "1", 0, "R", false, 0, "")
		doc.CellFormat(30, 7, line.Rate, "1", 0, "R", false, 0, "")
		doc.CellFormat(35, 7, line.Amount, "1", 1, "R", false, 0, "")
	}

	doc.SetFont("Arial", "B", 10)
	doc.CellFormat(155, 7, "Total", "1", 0, "R", false, 0, "")
	doc.CellFormat(35, 7, data.Total, "1", 1, "R", false, 0, "")

	if data.Remarks != "" {
		doc.Ln(4)
		doc.SetFont("Arial", "I", 9)
		doc.MultiCell(0, 5, "Remarks: "+data.Remarks, "", "L", false)
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render purchase order %s: %w", data.PONumber, err)
	}
	return &buf, nil
}
