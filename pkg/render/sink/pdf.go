package sink

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"github.com/matzehuels/housesketch/pkg/render/styles"
	"github.com/matzehuels/housesketch/pkg/site"
)

const (
	pdfMargin   = 36.0 // points
	pdfFontFace = "Helvetica"
)

// PDFOption configures PDF rendering.
type PDFOption func(*pdfRenderer)

type pdfRenderer struct {
	pageSize string
	title    string
}

// WithPageSize selects a gofpdf page size name ("A4", "Letter", ...).
func WithPageSize(size string) PDFOption { return func(r *pdfRenderer) { r.pageSize = size } }

// WithDocumentTitle sets the PDF metadata title.
func WithDocumentTitle(t string) PDFOption { return func(r *pdfRenderer) { r.title = t } }

// RenderPDF draws each drawing on its own landscape page, scaled to fit the
// printable area. Zones are written as vector rectangles.
func RenderPDF(drawings []Drawing, opts ...PDFOption) ([]byte, error) {
	r := pdfRenderer{pageSize: "A4", title: "housesketch"}
	for _, opt := range opts {
		opt(&r)
	}

	pdf := gofpdf.New("L", "pt", r.pageSize, "")
	pdf.SetTitle(r.title, true)
	pdf.SetCreator("housesketch", true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	for _, d := range drawings {
		pdf.AddPage()
		pageW, pageH := pdf.GetPageSize()
		top := pdfMargin

		if d.Title != "" {
			pdf.SetFont(pdfFontFace, "B", 14)
			pdf.SetXY(pdfMargin, pdfMargin)
			pdf.CellFormat(pageW-2*pdfMargin, 18, tr(d.Title), "", 1, "L", false, 0, "")
			top += 24
		}

		availW := pageW - 2*pdfMargin
		availH := pageH - top - pdfMargin
		scale := 1.0
		if d.Width > 0 && d.Height > 0 {
			scale = min(availW/d.Width, availH/d.Height)
		}

		for _, z := range paintOrder(d.Zones) {
			drawPDFZone(pdf, z, pdfMargin, top, scale)
		}
		pdf.SetDashPattern([]float64{}, 0)

		pdf.SetFont(pdfFontFace, "", 9)
		pdf.SetTextColor(33, 33, 33)
		for _, z := range d.Zones {
			if !hasCaption(z) {
				continue
			}
			label := tr(z.Label)
			x := pdfMargin + z.CenterX()*scale - pdf.GetStringWidth(label)/2
			y := top + z.CenterY()*scale + 3
			pdf.Text(x, y, label)
		}
		if d.Note != "" && len(d.Zones) > 0 {
			first := d.Zones[0]
			pdf.Text(pdfMargin+first.X*scale+4, top+first.Y*scale+12, tr(d.Note))
		}
	}

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func drawPDFZone(pdf *gofpdf.Fpdf, z site.Zone, offX, offY, scale float64) {
	s := styles.For(z.Category)

	mode := "D"
	if r, g, b, ok := styles.RGB(s.Fill); ok {
		pdf.SetFillColor(r, g, b)
		mode = "FD"
	}
	if r, g, b, ok := styles.RGB(s.Stroke); ok {
		pdf.SetDrawColor(r, g, b)
	}
	pdf.SetLineWidth(s.StrokeWidth * scale)
	if dash := s.DashPattern(); dash != nil {
		for i := range dash {
			dash[i] *= scale
		}
		pdf.SetDashPattern(dash, 0)
	} else {
		pdf.SetDashPattern([]float64{}, 0)
	}

	pdf.Rect(offX+z.X*scale, offY+z.Y*scale, z.W*scale, z.H*scale, mode)
}
