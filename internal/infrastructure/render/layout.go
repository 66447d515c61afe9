package render

import (
	"errors"
	"fmt"

	"github.com/phpdave11/gofpdf"
)

// ErrRegionTooTall is returned when a region needs more height than one page offers
var ErrRegionTooTall = errors.New("render: region does not fit on a page")

// Page geometry in points (A4 portrait)
const (
	pageMargin = 40.0
	lineFactor = 1.2
)

type rgb struct{ r, g, b int }

var (
	colorBlue      = rgb{37, 99, 235}
	colorLightGray = rgb{243, 244, 246}
	colorText      = rgb{34, 34, 34}
	colorWhite     = rgb{255, 255, 255}
	colorBorder    = rgb{209, 213, 219}
)

// Layout tracks the vertical cursor of a document being drawn and measures
// text before it is placed. All drawing goes through the same font state
// that Measure uses, so measured heights match what ends up on the page.
type Layout struct {
	pdf    *gofpdf.Fpdf
	tr     func(string) string
	pageW  float64
	pageH  float64
	margin float64
	y      float64
	err    error

	// onNewPage runs after a page break, e.g. to repeat a table header
	onNewPage func()
}

// NewLayout starts an A4 document with one page and the cursor at the top margin
func NewLayout() *Layout {
	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(false, pageMargin)
	pdf.SetCellMargin(0)
	pdf.AddPage()

	w, h := pdf.GetPageSize()
	return &Layout{
		pdf:    pdf,
		tr:     pdf.UnicodeTranslatorFromDescriptor(""),
		pageW:  w,
		pageH:  h,
		margin: pageMargin,
		y:      pageMargin,
	}
}

// LineHeight is the leading used for a font size
func LineHeight(size float64) float64 {
	return size * lineFactor
}

// Measure returns the height text occupies when wrapped to width with the
// given font style ("", "B", "I", "BI") and size. Empty text measures zero.
func (l *Layout) Measure(text string, width float64, style string, size float64) float64 {
	return float64(len(l.lines(text, width, style, size))) * LineHeight(size)
}

// ContentWidth is the printable width between the margins
func (l *Layout) ContentWidth() float64 {
	return l.pageW - 2*l.margin
}

// Y returns the current cursor position
func (l *Layout) Y() float64 {
	return l.y
}

// Advance moves the cursor down by h
func (l *Layout) Advance(h float64) {
	l.y += h
}

// Ensure starts a new page when a region of height h does not fit below the
// cursor. It reports whether a page was added. A region that still does not
// fit on the fresh page is recorded and returned by Err.
func (l *Layout) Ensure(h float64) bool {
	if l.y+h <= l.bottom() {
		return false
	}
	l.pdf.AddPage()
	l.y = l.margin
	if l.onNewPage != nil {
		l.onNewPage()
	}
	if l.y+h > l.bottom() && l.err == nil {
		l.err = fmt.Errorf("%w: needs %.0fpt, %.0fpt available", ErrRegionTooTall, h, l.bottom()-l.y)
	}
	return true
}

// Err returns the first layout error, if any
func (l *Layout) Err() error {
	return l.err
}

func (l *Layout) bottom() float64 {
	return l.pageH - l.margin
}

// Text draws text wrapped to width at (x, y) and returns the height used.
// align is "L", "C" or "R".
func (l *Layout) Text(x, y, width float64, text, style string, size float64, align string, c rgb) float64 {
	lines := l.lines(text, width, style, size)
	lh := LineHeight(size)
	l.pdf.SetTextColor(c.r, c.g, c.b)
	for i, line := range lines {
		l.pdf.SetXY(x, y+float64(i)*lh)
		l.pdf.CellFormat(width, lh, string(line), "", 0, align, false, 0, "")
	}
	return float64(len(lines)) * lh
}

// Box draws a rectangle; fill may be nil for an outline only
func (l *Layout) Box(x, y, w, h float64, fill *rgb, outline bool) {
	style := ""
	if fill != nil {
		l.pdf.SetFillColor(fill.r, fill.g, fill.b)
		style = "F"
	}
	if outline {
		l.pdf.SetDrawColor(colorBorder.r, colorBorder.g, colorBorder.b)
		style += "D"
	}
	if style == "" {
		return
	}
	l.pdf.Rect(x, y, w, h, style)
}

// Rule draws a horizontal line from x1 to x2 at y
func (l *Layout) Rule(x1, x2, y float64) {
	l.pdf.SetDrawColor(colorBorder.r, colorBorder.g, colorBorder.b)
	l.pdf.Line(x1, y, x2, y)
}

func (l *Layout) lines(text string, width float64, style string, size float64) [][]byte {
	if text == "" || width <= 0 {
		return nil
	}
	l.pdf.SetFont("Helvetica", style, size)
	return l.pdf.SplitLines([]byte(l.tr(text)), width)
}
