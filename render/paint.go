package render

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
)

const fontFamily = "Helvetica"

// newCanvas creates the PDF document used both for text measurement and for
// painting, with automatic page breaks disabled: the layout engine alone
// decides where pages end.
func newCanvas(g Geometry) *fpdf.Fpdf {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(g.MarginLeft, g.MarginTop, g.MarginRight)
	pdf.SetAutoPageBreak(false, 0)
	return pdf
}

// canvasMeasurer measures text with the same font metrics the painter will
// use, so measured wrap heights match the painted output exactly.
type canvasMeasurer struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

func newCanvasMeasurer(pdf *fpdf.Fpdf) *canvasMeasurer {
	return &canvasMeasurer{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
}

func (m *canvasMeasurer) TextWidth(text string, f Font) float64 {
	m.pdf.SetFont(fontFamily, f.Style, f.Size)
	return m.pdf.GetStringWidth(m.tr(text))
}

// paint replays the laid-out pages onto the PDF document and returns the
// finished bytes.
func paint(pdf *fpdf.Fpdf, pages []Page, assets AssetSet) ([]byte, error) {
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	for key, asset := range assets {
		pdf.RegisterImageOptionsReader(key,
			fpdf.ImageOptions{ImageType: asset.Format}, bytes.NewReader(asset.Data))
	}

	pdf.SetDrawColor(120, 120, 120)
	pdf.SetFillColor(235, 235, 235)

	for _, page := range pages {
		pdf.AddPage()
		for _, op := range page.Ops {
			switch op.Kind {
			case OpText:
				pdf.SetFont(fontFamily, op.Font.Style, op.Font.Size)
				pdf.SetXY(op.X, op.Y)
				align := op.Align
				if align == "" {
					align = "L"
				}
				pdf.CellFormat(op.W, op.H, tr(op.Text), "", 0, align, false, 0, "")
			case OpLine:
				pdf.Line(op.X, op.Y, op.X+op.W, op.Y+op.H)
			case OpRect:
				pdf.Rect(op.X, op.Y, op.W, op.H, "F")
			case OpImage:
				asset, ok := assets[op.Asset]
				if !ok {
					continue
				}
				pdf.ImageOptions(op.Asset, op.X, op.Y, op.W, op.H, false,
					fpdf.ImageOptions{ImageType: asset.Format}, 0, "")
			}
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("writing pdf: %w", err)
	}
	return buf.Bytes(), nil
}
