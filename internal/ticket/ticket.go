// Package ticket renders the printable bus ticket (PDF with an embedded
// validation QR code).
package ticket

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/phpdave11/gofpdf"
	"github.com/yeqown/go-qrcode"
)

const defaultCompagnie = "MarocBus"

// Ticket is everything the printable document needs; callers assemble it
// from the enriched reservation and the client profile.
type Ticket struct {
	ReservationID int64
	TrajetID      int64

	ClientNom       string
	ClientPrenom    string
	ClientEmail     string
	ClientTelephone string

	Compagnie    string
	VilleDepart  string
	VilleArrivee string
	Date         string
	HeureDepart  string
	HeureArrivee string
	NbrPassagers int
	Etat         string
	Prix         float64
}

// Code is the printed ticket reference, e.g. MB-000042.
func (t Ticket) Code() string {
	return fmt.Sprintf("MB-%06d", t.ReservationID)
}

// QRPayload encodes carrier|reservationId|clientEmail|tripId, the format the
// boarding scanner validates.
func (t Ticket) QRPayload() string {
	compagnie := t.Compagnie
	if strings.TrimSpace(compagnie) == "" {
		compagnie = defaultCompagnie
	}
	return fmt.Sprintf("%s|%d|%s|%d", compagnie, t.ReservationID, t.ClientEmail, t.TrajetID)
}

// Generate builds the PDF and returns its bytes plus a download filename.
// A QR encoding failure aborts the whole document, nothing partial is
// returned.
func Generate(t Ticket) ([]byte, string, error) {
	var qrBuf bytes.Buffer
	qrc, err := qrcode.New(t.QRPayload())
	if err != nil {
		return nil, "", fmt.Errorf("génération du QR code: %w", err)
	}
	if err := qrc.SaveTo(&qrBuf); err != nil {
		return nil, "", fmt.Errorf("génération du QR code: %w", err)
	}

	compagnie := t.Compagnie
	if strings.TrimSpace(compagnie) == "" {
		compagnie = defaultCompagnie
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Billet de bus", false)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetTextColor(40, 100, 255)
	pdf.Cell(0, 10, tr(compagnie))
	pdf.Ln(12)

	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(0, 10, "BILLET DE BUS", "", 1, "C", false, 0, "")

	pdf.SetDrawColor(255, 165, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(15, pdf.GetY()+2, 195, pdf.GetY()+2)
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Client         : %s %s", safe(t.ClientPrenom, "-"), safe(t.ClientNom, "-")),
		fmt.Sprintf("Email          : %s", safe(t.ClientEmail, "-")),
		fmt.Sprintf("Téléphone      : %s", safe(t.ClientTelephone, "-")),
		fmt.Sprintf("Code billet    : %s", t.Code()),
		fmt.Sprintf("Compagnie      : %s", compagnie),
		fmt.Sprintf("Trajet         : %s -> %s", safe(t.VilleDepart, "Départ"), safe(t.VilleArrivee, "Arrivée")),
		fmt.Sprintf("Date           : %s", safe(t.Date, "-")),
		fmt.Sprintf("Heure départ   : %s", safe(t.HeureDepart, "--:--")),
		fmt.Sprintf("Heure arrivée  : %s", safe(t.HeureArrivee, "--:--")),
		fmt.Sprintf("Passagers      : %d", t.NbrPassagers),
		fmt.Sprintf("Statut         : %s", safe(t.Etat, "-")),
		fmt.Sprintf("Prix           : %.0f DH", t.Prix),
	}
	for _, line := range lines {
		pdf.Cell(0, 7, tr(line))
		pdf.Ln(7)
	}

	qrY := pdf.GetY() + 4
	opts := gofpdf.ImageOptions{ImageType: "JPEG"}
	pdf.RegisterImageOptionsReader("qr", opts, &qrBuf)
	pdf.ImageOptions("qr", 160, qrY, 30, 30, false, opts, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(100, 100, 100)
	pdf.Text(158, qrY+35, tr("Scannez ce QR code"))
	pdf.Text(155, qrY+39, tr("pour valider votre billet"))

	pdf.SetY(-20)
	pdf.CellFormat(0, 6, "MarocBus - Service Client: +212 522 123 456 - contact@marocbus.ma", "", 0, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", fmt.Errorf("rendu du billet: %w", err)
	}
	return buf.Bytes(), fmt.Sprintf("billet-%s.pdf", t.Code()), nil
}

func safe(v, fallback string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return fallback
	}
	return v
}
