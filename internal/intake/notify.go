package intake

import (
	"sync"

	"github.com/csg33k/era-intake/internal/domain"
)

// Notifier queues toasts until the next render drains them.
type Notifier struct {
	mu    sync.Mutex
	queue []domain.Notification
}

func (n *Notifier) Push(note domain.Notification) {
	n.mu.Lock()
	n.queue = append(n.queue, note)
	n.mu.Unlock()
}

func (n *Notifier) Drain() []domain.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := n.queue
	n.queue = nil
	return out
}
