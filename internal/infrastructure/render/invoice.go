package render

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	"math"
	"strconv"
	"strings"

	"github.com/phpdave11/gofpdf"
	"github.com/sangkips/gstbill-api/internal/domain/entity"
	"go.uber.org/zap"
)

var (
	// ErrMissingCompany is returned when an invoice has no issuing company
	ErrMissingCompany = errors.New("render: company is required")
	// ErrMissingReceiver is returned when an invoice has no receiver
	ErrMissingReceiver = errors.New("render: receiver is required")
	// ErrMissingBill is returned when an invoice has no bill
	ErrMissingBill = errors.New("render: bill is required")
)

const (
	logoX     = 50.0
	logoWidth = 60.0
	qrWidth   = 70.0
	panelPad  = 10.0
	gap       = 12.0
	minRowH   = 22.0
	rowPad    = 14.0
	bodySize  = 9.0
)

// Invoice is everything needed to draw one bill
type Invoice struct {
	Bill      *entity.Bill
	Company   *entity.Company
	Receiver  *entity.Receiver
	QRPayload string
}

// Document is a rendered PDF
type Document struct {
	Content []byte
	Pages   int
}

// InvoiceRenderer draws GST invoices as PDF documents
type InvoiceRenderer struct {
	qr  QRGenerator
	log *zap.Logger
}

// NewInvoiceRenderer creates a new invoice renderer
func NewInvoiceRenderer(qr QRGenerator, log *zap.Logger) *InvoiceRenderer {
	return &InvoiceRenderer{qr: qr, log: log}
}

type textLine struct {
	text  string
	style string
	size  float64
	color rgb
}

type column struct {
	x     float64
	w     float64
	title string
	align string
}

// Render draws inv top to bottom: header, receiver panel, item table,
// totals, amount in words, then bank and signature details.
func (r *InvoiceRenderer) Render(ctx context.Context, inv *Invoice) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if inv == nil || inv.Bill == nil {
		return nil, ErrMissingBill
	}
	if inv.Company == nil {
		return nil, ErrMissingCompany
	}
	if inv.Receiver == nil {
		return nil, ErrMissingReceiver
	}

	qrPNG, err := r.qr.Generate(inv.QRPayload)
	if err != nil {
		return nil, fmt.Errorf("render: generate qr: %w", err)
	}

	l := NewLayout()
	r.drawHeader(l, inv.Company, qrPNG)
	r.drawReceiver(l, inv.Bill, inv.Receiver)
	r.drawItems(l, inv.Bill)
	r.drawTotals(l, inv.Bill)
	r.drawWords(l, inv.Bill)
	r.drawBank(l, inv.Company)

	if err := l.Err(); err != nil {
		return nil, err
	}
	if l.pdf.Err() {
		return nil, fmt.Errorf("render: draw invoice: %w", l.pdf.Error())
	}

	pages := l.pdf.PageCount()
	var buf bytes.Buffer
	if err := l.pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render: write pdf: %w", err)
	}
	return &Document{Content: buf.Bytes(), Pages: pages}, nil
}

func (r *InvoiceRenderer) drawHeader(l *Layout, c *entity.Company, qrPNG []byte) {
	top := l.Y()

	logoH := 0.0
	if c.Logo != nil && *c.Logo != "" {
		if h, ok := r.placeLogo(l, *c.Logo, top); ok {
			logoH = h
		}
	}

	qrX := l.pageW - 120
	l.pdf.RegisterImageOptionsReader("qr", gofpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qrPNG))
	l.pdf.ImageOptions("qr", qrX, top, qrWidth, qrWidth, false, gofpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	// identity block sits between the logo and the QR code
	x := logoX + logoWidth + 10
	w := qrX - 10 - x

	lines := []textLine{
		{"TAX INVOICE", "B", 18, colorBlue},
		{c.CompanyName, "B", 14, colorText},
		{c.Address, "", bodySize, colorText},
		{"GSTIN: " + c.GSTNumber, "", bodySize, colorText},
	}
	if v := deref(c.ProprietorName); v != "" {
		lines = append(lines, textLine{"Prop: " + v, "", bodySize, colorText})
	}
	if contact := joinNonEmpty("  |  ", labelled("Phone", c.Phone), labelled("Email", c.Email)); contact != "" {
		lines = append(lines, textLine{contact, "", bodySize, colorText})
	}

	textH := 0.0
	for _, ln := range lines {
		textH += l.Measure(ln.text, w, ln.style, ln.size)
	}
	height := math.Max(math.Max(logoH, qrWidth), textH)
	// the header opens the first page, so this only trips when it is taller than a page
	l.Ensure(height)

	y := top
	for _, ln := range lines {
		y += l.Text(x, y, w, ln.text, ln.style, ln.size, "C", ln.color)
	}
	l.Advance(height + gap)
}

// placeLogo draws a data URL image at the top left and returns its height.
// Images that do not decode are skipped so a bad logo never fails a bill.
func (r *InvoiceRenderer) placeLogo(l *Layout, dataURL string, top float64) (float64, bool) {
	data, imageType, err := decodeDataURL(dataURL)
	if err == nil {
		_, _, err = image.DecodeConfig(bytes.NewReader(data))
	}
	if err != nil {
		r.log.Warn("skipping company logo", zap.Error(err))
		return 0, false
	}

	opts := gofpdf.ImageOptions{ImageType: imageType}
	info := l.pdf.RegisterImageOptionsReader("logo", opts, bytes.NewReader(data))
	if info == nil || info.Width() == 0 {
		return 0, false
	}
	h := logoWidth * info.Height() / info.Width()
	l.pdf.ImageOptions("logo", logoX, top, logoWidth, h, false, opts, 0, "")
	return h, true
}

func (r *InvoiceRenderer) drawReceiver(l *Layout, b *entity.Bill, rc *entity.Receiver) {
	const (
		labelW = 60.0
		leftW  = 250.0
		rightW = 180.0
	)
	x := l.margin + panelPad
	valueX := x + labelW
	rightX := l.pageW - l.margin - panelPad - rightW

	type row struct{ label, value string }
	rows := []row{{"Name:", rc.Name}, {"Address:", rc.Address}}
	if v := deref(rc.GSTNumber); v != "" {
		rows = append(rows, row{"GSTIN:", v})
	}
	if v := deref(rc.Email); v != "" {
		rows = append(rows, row{"Email:", v})
	}
	if v := deref(rc.Phone); v != "" {
		rows = append(rows, row{"Phone:", v})
	}

	titleH := LineHeight(11) + 4
	leftH := titleH
	for _, rw := range rows {
		leftH += math.Max(LineHeight(bodySize), l.Measure(rw.value, leftW, "", bodySize))
	}
	rightH := titleH + 2*LineHeight(bodySize)
	height := math.Max(leftH, rightH) + 2*panelPad

	l.Ensure(height)
	top := l.Y()
	l.Box(l.margin, top, l.ContentWidth(), height, nil, true)

	y := top + panelPad
	l.Text(x, y, leftW+labelW, "Details of Receiver / Billed to", "B", 11, "L", colorBlue)
	y += titleH
	for _, rw := range rows {
		l.Text(x, y, labelW, rw.label, "B", bodySize, "L", colorText)
		h := l.Text(valueX, y, leftW, rw.value, "", bodySize, "L", colorText)
		y += math.Max(LineHeight(bodySize), h)
	}

	y = top + panelPad + titleH
	l.Text(rightX, y, rightW, "Bill No: "+strconv.FormatInt(b.BillNumber, 10), "B", bodySize, "R", colorText)
	y += LineHeight(bodySize)
	l.Text(rightX, y, rightW, "Date: "+b.Date.UTC().Format("02/01/2006"), "B", bodySize, "R", colorText)

	l.Advance(height + gap)
}

func (r *InvoiceRenderer) itemColumns(l *Layout) []column {
	right := l.pageW - l.margin
	return []column{
		{x: 50, w: 35, title: "Sl.", align: "L"},
		{x: 90, w: 164, title: "Product Description", align: "L"},
		{x: 260, w: 75, title: "HSN Code", align: "L"},
		{x: 340, w: 55, title: "Qty", align: "R"},
		{x: 400, w: 65, title: "Rate", align: "R"},
		{x: 470, w: right - 470 - 5, title: "Amount", align: "R"},
	}
}

func (r *InvoiceRenderer) drawItems(l *Layout, b *entity.Bill) {
	cols := r.itemColumns(l)
	header := func() {
		top := l.Y()
		l.Box(l.margin, top, l.ContentWidth(), minRowH, &colorBlue, false)
		for _, c := range cols {
			l.Text(c.x, top+7, c.w, c.title, "B", bodySize, c.align, colorWhite)
		}
		l.Advance(minRowH)
	}

	l.Ensure(2 * minRowH)
	header()
	l.onNewPage = header
	defer func() { l.onNewPage = nil }()

	for i, item := range b.LineItems() {
		descH := l.Measure(item.Description, cols[1].w, "", bodySize)
		rowH := math.Max(minRowH, descH+rowPad)
		l.Ensure(rowH)

		top := l.Y()
		if i%2 == 1 {
			l.Box(l.margin, top, l.ContentWidth(), rowH, &colorLightGray, false)
		}
		values := []string{
			strconv.Itoa(i + 1),
			item.Description,
			item.HSNCode,
			strconv.FormatFloat(item.Quantity, 'f', -1, 64),
			money(item.Rate),
			money(item.Amount),
		}
		for j, c := range cols {
			l.Text(c.x, top+7, c.w, values[j], "", bodySize, c.align, colorText)
		}
		l.Rule(l.margin, l.pageW-l.margin, top+rowH)
		l.Advance(rowH)
	}
	l.Advance(gap)
}

func (r *InvoiceRenderer) drawTotals(l *Layout, b *entity.Bill) {
	const rowH = 16.0
	height := 4*rowH + 2*panelPad
	l.Ensure(height)

	top := l.Y()
	l.Box(l.margin, top, l.ContentWidth(), height, &colorLightGray, true)

	left := [][2]string{
		{"Total Amount Before Tax:", money(b.Tax.TotalBeforeTax)},
		{"CGST @ " + percent(b.CGSTRate) + ":", money(b.Tax.CGST)},
		{"SGST @ " + percent(b.SGSTRate) + ":", money(b.Tax.SGST)},
	}
	y := top + panelPad
	for _, kv := range left {
		l.Text(50, y, 145, kv[0], "B", bodySize, "L", colorText)
		l.Text(200, y, 80, kv[1], "", bodySize, "R", colorText)
		y += rowH
	}

	right := [][2]string{
		{"IGST:", money(b.Tax.IGST)},
		{"Round Off:", money(b.Tax.RoundOff)},
	}
	valueW := l.pageW - l.margin - panelPad - 450
	y = top + panelPad
	for _, kv := range right {
		l.Text(300, y, 145, kv[0], "B", bodySize, "L", colorText)
		l.Text(450, y, valueW, kv[1], "", bodySize, "R", colorText)
		y += rowH
	}
	l.Rule(300, l.pageW-l.margin-panelPad, y+rowH/2-2)
	y += rowH
	l.Text(300, y, 145, "Total Amount After Tax:", "B", 10, "L", colorBlue)
	l.Text(450, y, valueW, money(b.Tax.TotalAfterTax), "B", 10, "R", colorBlue)

	l.Advance(height + gap)
}

func (r *InvoiceRenderer) drawWords(l *Layout, b *entity.Bill) {
	const textX = 160.0
	textW := l.pageW - l.margin - panelPad - textX
	words := b.Tax.TotalInWords + " Only"

	height := math.Max(LineHeight(10), l.Measure(words, textW, "", 10)) + 2*panelPad
	l.Ensure(height)

	top := l.Y()
	l.Box(l.margin, top, l.ContentWidth(), height, nil, true)
	l.Text(50, top+panelPad, textX-50, "Amount in Words:", "B", 10, "L", colorText)
	l.Text(textX, top+panelPad, textW, words, "", 10, "L", colorText)

	l.Advance(height + gap)
}

func (r *InvoiceRenderer) drawBank(l *Layout, c *entity.Company) {
	const (
		labelW     = 50.0
		valueW     = 140.0
		signW      = 180.0
		signGap    = 30.0
		titleSize  = 11.0
		columnGap  = 200.0
		leftStartX = 50.0
	)
	lh := LineHeight(bodySize)

	fields := [][2]string{
		{"Bank:", deref(c.BankName)},
		{"Branch:", deref(c.Branch)},
		{"Ac No.:", deref(c.AccountNumber)},
		{"IFSC:", deref(c.IFSC)},
	}
	// two fields per row
	leftH := LineHeight(titleSize) + 4
	for i := 0; i < len(fields); i += 2 {
		rowH := lh
		for _, f := range fields[i:min(i+2, len(fields))] {
			rowH = math.Max(rowH, l.Measure(f[1], valueW, "", bodySize))
		}
		leftH += rowH
	}

	signX := l.pageW - l.margin - panelPad - signW
	forLine := "For " + c.CompanyName
	rightH := l.Measure(forLine, signW, "B", bodySize) + signGap + lh
	prop := deref(c.ProprietorName)
	if prop != "" {
		rightH += lh
	}

	height := math.Max(leftH, rightH) + 2*panelPad
	l.Ensure(height)

	top := l.Y()
	l.Box(l.margin, top, l.ContentWidth(), height, nil, true)

	y := top + panelPad
	l.Text(leftStartX, y, columnGap, "Bank Details:", "B", titleSize, "L", colorBlue)
	y += LineHeight(titleSize) + 4
	for i := 0; i < len(fields); i += 2 {
		rowH := lh
		for j, f := range fields[i:min(i+2, len(fields))] {
			x := leftStartX + float64(j)*columnGap
			l.Text(x, y, labelW, f[0], "B", bodySize, "L", colorText)
			rowH = math.Max(rowH, l.Text(x+labelW, y, valueW, f[1], "", bodySize, "L", colorText))
		}
		y += rowH
	}

	y = top + panelPad
	y += l.Text(signX, y, signW, forLine, "B", bodySize, "R", colorText)
	y += signGap
	if prop != "" {
		y += l.Text(signX, y, signW, "Prop: "+prop, "", bodySize, "R", colorText)
	}
	l.Text(signX, y, signW, "Authorised Signatory", "B", bodySize, "R", colorText)

	l.Advance(height + gap)
}

// decodeDataURL parses "data:image/png;base64,...." into bytes and a gofpdf image type
func decodeDataURL(s string) ([]byte, string, error) {
	meta, payload, ok := strings.Cut(s, ",")
	if !ok || !strings.HasPrefix(meta, "data:") || !strings.HasSuffix(meta, ";base64") {
		return nil, "", errors.New("logo is not a base64 data URL")
	}

	var imageType string
	switch strings.TrimSuffix(strings.TrimPrefix(meta, "data:"), ";base64") {
	case "image/png":
		imageType = "PNG"
	case "image/jpeg", "image/jpg":
		imageType = "JPG"
	default:
		return nil, "", fmt.Errorf("unsupported logo type %q", meta)
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("decode logo: %w", err)
	}
	return data, imageType, nil
}

func money(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func percent(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "%"
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

func labelled(label string, v *string) string {
	if s := deref(v); s != "" {
		return label + ": " + s
	}
	return ""
}

func joinNonEmpty(sep string, parts ...string) string {
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, sep)
}
