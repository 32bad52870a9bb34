package intake

import (
	"fmt"
	"math/rand/v2"

	"github.com/csg33k/era-intake/internal/domain"
)

// idShape is the prefix and inclusive numeric range of one tracking ID.
type idShape struct {
	prefix   string
	min, max int
}

var (
	applicationShape = idShape{"ERA", 1000, 9999}
	ticketShape      = idShape{"TKT", 10, 99}
	referenceShape   = idShape{"REF", 100, 900}
)

func (s idShape) draw(rng *rand.Rand) string {
	return fmt.Sprintf("%s-%d", s.prefix, s.min+rng.IntN(s.max-s.min+1))
}

// NewTrackingBundle draws the three identifiers of a form session. They are
// display references only; collisions across sessions are possible. A nil
// src seeds a fresh PCG generator.
func NewTrackingBundle(src rand.Source) domain.TrackingBundle {
	if src == nil {
		src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}
	rng := rand.New(src)
	return domain.TrackingBundle{
		ApplicationNumber: applicationShape.draw(rng),
		TicketNumber:      ticketShape.draw(rng),
		ReferenceNumber:   referenceShape.draw(rng),
	}
}
