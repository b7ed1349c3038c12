// Package ticket renders the artifact for an accepted booking: a PDF with a
// QR code the venue scans at the door.
package ticket

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jung-kurt/gofpdf"
	"github.com/skip2/go-qrcode"

	"theater-booking-cli/model"
)

const qrSizePx = 300

// NewReference returns a client booking reference attached to the checkout
// submission for reconciliation.
func NewReference() string {
	return uuid.NewString()
}

// Data describes one accepted booking for rendering.
type Data struct {
	BookingID string
	Reference string
	Venue     model.Venue
	Showtime  model.Showtime
	SeatKeys  []string
	Total     int64
	Holder    string
}

// Render produces the ticket PDF bytes.
func Render(data Data) ([]byte, error) {
	if data.BookingID == "" {
		return nil, fmt.Errorf("booking id is required")
	}

	qrPNG, err := qrPNGBytes(data.BookingID, qrSizePx)
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 20)
	pdf.CellFormat(0, 12, data.Showtime.Title, "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 12)
	pdf.CellFormat(0, 8, data.Venue.Name, "", 1, "C", false, 0, "")
	pdf.Ln(4)

	imgOpts := gofpdf.ImageOptions{ImageType: "PNG"}
	imgName := "qr_" + data.BookingID
	pdf.RegisterImageOptionsReader(imgName, imgOpts, bytes.NewReader(qrPNG))
	qrX := (210.0 - 80.0) / 2
	pdf.ImageOptions(imgName, qrX, pdf.GetY(), 80, 80, false, imgOpts, 0, "")
	pdf.Ln(84)

	pdf.SetDrawColor(200, 200, 200)
	pdf.Line(20, pdf.GetY(), 190, pdf.GetY())
	pdf.Ln(6)

	rows := [][2]string{
		{"Showtime", data.Showtime.StartsAt.Format("Mon 02 Jan 2006 15:04")},
		{"Seats", strings.Join(seatLabels(data.SeatKeys), ", ")},
		{"Total", fmt.Sprintf("%d", data.Total)},
		{"Holder", data.Holder},
		{"Reference", data.Reference},
	}
	for _, row := range rows {
		if row[1] == "" {
			continue
		}
		pdf.SetFont("Arial", "", 12)
		pdf.SetX(20)
		pdf.CellFormat(40, 8, row[0]+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Arial", "B", 12)
		pdf.CellFormat(0, 8, row[1], "", 1, "L", false, 0, "")
	}

	pdf.Ln(6)
	pdf.SetFont("Arial", "I", 10)
	pdf.SetTextColor(100, 100, 100)
	pdf.CellFormat(0, 6, fmt.Sprintf("Booking %s", data.BookingID), "", 1, "C", false, 0, "")
	pdf.MultiCell(0, 5, "Present this ticket at the entrance. The QR code is scanned at check-in.", "", "C", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("generate ticket pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// Save renders the ticket and writes it under dir, returning the file path.
func Save(dir string, data Data) (string, error) {
	payload, err := Render(data)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	name := fmt.Sprintf("ticket_%s_%s.pdf", data.BookingID, time.Now().Format("20060102-150405"))
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

func qrPNGBytes(text string, size int) ([]byte, error) {
	qr, err := qrcode.New(text, qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("generate qr code: %w", err)
	}
	png, err := qr.PNG(size)
	if err != nil {
		return nil, fmt.Errorf("encode qr png: %w", err)
	}
	return png, nil
}

func seatLabels(raw []string) []string {
	labels := make([]string, 0, len(raw))
	for _, s := range raw {
		if key, err := model.ParseSeatKey(s); err == nil {
			labels = append(labels, key.Label())
			continue
		}
		labels = append(labels, s)
	}
	return labels
}
