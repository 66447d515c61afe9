package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"time"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/qr"
)

const qrImageSize = 256

// QRGenerator turns a payload into PNG image bytes
type QRGenerator interface {
	Generate(payload string) ([]byte, error)
}

// BarcodeQRGenerator renders QR codes with medium error correction
type BarcodeQRGenerator struct{}

// NewQRGenerator creates a QR generator
func NewQRGenerator() *BarcodeQRGenerator {
	return &BarcodeQRGenerator{}
}

// Generate encodes payload as a square PNG. Output is deterministic per payload.
func (g *BarcodeQRGenerator) Generate(payload string) ([]byte, error) {
	code, err := qr.Encode(payload, qr.M, qr.Auto)
	if err != nil {
		return nil, fmt.Errorf("qr encode: %w", err)
	}
	scaled, err := barcode.Scale(code, qrImageSize, qrImageSize)
	if err != nil {
		return nil, fmt.Errorf("qr scale: %w", err)
	}

	// the encoder emits 16-bit gray, which PDF embedding does not accept
	gray := image.NewGray(scaled.Bounds())
	draw.Draw(gray, gray.Bounds(), scaled, scaled.Bounds().Min, draw.Src)

	var buf bytes.Buffer
	if err := png.Encode(&buf, gray); err != nil {
		return nil, fmt.Errorf("qr png: %w", err)
	}
	return buf.Bytes(), nil
}

type qrPayload struct {
	BillNo   int64   `json:"billNo"`
	Date     string  `json:"date"`
	Amount   float64 `json:"amount"`
	Company  string  `json:"company"`
	Receiver string  `json:"receiver"`
}

// NewQRPayload builds the JSON text embedded in an invoice QR code
func NewQRPayload(billNumber int64, date time.Time, amount float64, company, receiver string) (string, error) {
	b, err := json.Marshal(qrPayload{
		BillNo:   billNumber,
		Date:     date.UTC().Format("2006-01-02"),
		Amount:   amount,
		Company:  company,
		Receiver: receiver,
	})
	if err != nil {
		return "", err
	}
	return string(b), nil
}
