package ports

import (
	"context"
	"io"

	"github.com/csg33k/era-intake/internal/domain"
)

// Submitter delivers one application to the external intake endpoint.
// A nil error means the endpoint answered with a 2xx status.
type Submitter interface {
	Submit(ctx context.Context, p *domain.Payload) error
}

// PreviewDecoder turns raw image bytes into a displayable preview (data URI).
type PreviewDecoder interface {
	Decode(ctx context.Context, contentType string, data []byte) (string, error)
}

// ReceiptGenerator renders a printable confirmation receipt.
type ReceiptGenerator interface {
	Generate(c *domain.Confirmation, w io.Writer) error
}

// SessionStore keeps form sessions in memory, keyed by an opaque ID.
// S is the session type owned by the caller.
type SessionStore[S any] interface {
	Create(s S) (id string)
	Get(id string) (S, bool)
	Delete(id string)
}
