package pdf_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/csg33k/era-intake/internal/adapters/pdf"
	"github.com/csg33k/era-intake/internal/domain"
)

func confirmation() *domain.Confirmation {
	return &domain.Confirmation{
		Tracking: domain.TrackingBundle{
			ApplicationNumber: "ERA-4821",
			TicketNumber:      "TKT-37",
			ReferenceNumber:   "REF-512",
		},
		Applicant:   "José Martí",
		FormID:      "ERA-2024-VX",
		Title:       "Emergency Rental Assistance",
		SubmittedAt: time.Date(2024, 6, 3, 14, 5, 0, 0, time.UTC),
	}
}

func TestGenerate_ContainsTrackingIDs(t *testing.T) {
	g := pdf.New()
	g.Compress = false

	var buf bytes.Buffer
	if err := g.Generate(confirmation(), &buf); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	out := buf.Bytes()
	if !bytes.HasPrefix(out, []byte("%PDF-")) {
		t.Fatalf("output does not start with a PDF header: %q", out[:min(len(out), 16)])
	}
	for _, id := range []string{"ERA-4821", "TKT-37", "REF-512", "ERA-2024-VX"} {
		if !bytes.Contains(out, []byte(id)) {
			t.Errorf("receipt is missing %q", id)
		}
	}
}

func TestGenerate_Compressed(t *testing.T) {
	var buf bytes.Buffer
	if err := pdf.New().Generate(confirmation(), &buf); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if buf.Len() == 0 {
		t.Fatal("empty receipt")
	}
}
