package intake_test

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/csg33k/era-intake/internal/config"
	"github.com/csg33k/era-intake/internal/domain"
	"github.com/csg33k/era-intake/internal/intake"
)

// ---------------------------------------------------------------------------
// Fakes
// ---------------------------------------------------------------------------

const fakePreview = "data:image/jpeg;base64,AAAA"

// fakeDecoder previews anything except payloads starting with "bad". When
// gate is set each decode waits for a value on it first.
type fakeDecoder struct {
	gate chan struct{}
}

func (d *fakeDecoder) Decode(_ context.Context, _ string, data []byte) (string, error) {
	if d.gate != nil {
		<-d.gate
	}
	if bytes.HasPrefix(data, []byte("bad")) {
		return "", errors.New("unknown format")
	}
	return fakePreview, nil
}

// fakeSubmitter records payloads and answers with err. When block is set
// each call waits for a value on it before answering.
type fakeSubmitter struct {
	mu       sync.Mutex
	payloads []*domain.Payload
	err      error
	block    chan struct{}
	started  chan struct{}
}

func (s *fakeSubmitter) Submit(_ context.Context, p *domain.Payload) error {
	s.mu.Lock()
	s.payloads = append(s.payloads, p)
	s.mu.Unlock()
	if s.started != nil {
		s.started <- struct{}{}
	}
	if s.block != nil {
		<-s.block
	}
	return s.err
}

func (s *fakeSubmitter) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.payloads)
}

func (s *fakeSubmitter) last() *domain.Payload {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.payloads[len(s.payloads)-1]
}

// ---------------------------------------------------------------------------
// Fixtures
// ---------------------------------------------------------------------------

func variant(t *testing.T, name string) *domain.Variant {
	t.Helper()
	vs, err := config.LoadVariants("")
	require.NoError(t, err)
	v, ok := vs[name]
	require.True(t, ok, "variant %s", name)
	return v
}

var testBundle = domain.TrackingBundle{
	ApplicationNumber: "ERA-4821",
	TicketNumber:      "TKT-37",
	ReferenceNumber:   "REF-512",
}

func jpeg(size int) intake.File {
	return intake.File{Name: "id.jpg", ContentType: "image/jpeg", Data: bytes.Repeat([]byte{0xff}, size)}
}

// fillScenarioA enters every required answer of the verified variant.
func fillScenarioA(t *testing.T, c *intake.Controller) {
	t.Helper()
	for k, v := range map[string]string{
		"full_name":           "Alexander Hamilton",
		"address":             "57 Garden St, Albany, 12207",
		domain.DOBDay:         "15",
		domain.DOBMonth:       "June",
		domain.DOBYear:        "1990",
		"category":            "rent",
		"monthly_expense":     "450.00",
		"outstanding_balance": "no",
		"prior_assistance":    "no",
		"bank_name":           "First Federal",
		"account_number":      "12345678",
		"routing_number":      "021000021",
	} {
		require.NoError(t, c.Set(k, v))
	}
}

func attach(t *testing.T, c *intake.Controller, side domain.Side, f intake.File) {
	t.Helper()
	done, err := c.Accept(side, f)
	require.NoError(t, err)
	require.NoError(t, <-done)
}
