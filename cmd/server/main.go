package main

import (
	"log"
	"log/slog"
	"net/http"

	"github.com/joho/godotenv"

	"github.com/csg33k/era-intake/internal/adapters/formspree"
	"github.com/csg33k/era-intake/internal/adapters/memory"
	"github.com/csg33k/era-intake/internal/adapters/pdf"
	"github.com/csg33k/era-intake/internal/adapters/preview"
	"github.com/csg33k/era-intake/internal/config"
	"github.com/csg33k/era-intake/internal/handlers"
	"github.com/csg33k/era-intake/internal/intake"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		slog.Warn("error loading .env file", "err", err)
	}
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	variant, err := cfg.FormVariant()
	if err != nil {
		log.Fatalf("failed to load form variant: %v", err)
	}

	submitter := formspree.New(cfg.Endpoint, cfg.SubmitTimeout)
	decoder := preview.New()
	sessions := memory.New[*intake.Controller](cfg.SessionTTL, (*intake.Controller).Close)
	h := handlers.New(sessions, func() *intake.Controller {
		return intake.New(variant, intake.NewTrackingBundle(nil), submitter, decoder)
	}, pdf.New())

	log.Printf("%s intake form (%s) running on http://localhost:%s", variant.Title, variant.FormID, cfg.Port)
	log.Printf("Submitting to: %s", cfg.Endpoint)
	if err := http.ListenAndServe(":"+cfg.Port, h.Routes()); err != nil {
		log.Fatal(err)
	}
}
