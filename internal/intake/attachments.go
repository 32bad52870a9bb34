package intake

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/dustin/go-humanize"

	"github.com/csg33k/era-intake/internal/domain"
	"github.com/csg33k/era-intake/internal/ports"
)

var (
	ErrUnknownSide = errors.New("unknown attachment side")
	ErrNotImage    = errors.New("file is not an image")
	ErrTooLarge    = errors.New("file is too large")
	ErrUndecodable = errors.New("image could not be decoded")
	// ErrSuperseded is delivered to a pending decode whose slot was
	// re-selected or cleared before the decode finished.
	ErrSuperseded = errors.New("attachment superseded")
)

// File is a user-selected upload. Size is the declared size; when zero the
// length of Data is used.
type File struct {
	Name        string
	ContentType string
	Size        int64
	Data        []byte
}

func (f File) size() int64 {
	if f.Size > 0 {
		return f.Size
	}
	return int64(len(f.Data))
}

// PickerBinding ties a custom drop zone to the hidden file input of a slot.
type PickerBinding struct {
	Side     domain.Side
	InputID  string
	Accept   string
	MaxBytes int64
}

// Attachments owns the front and back ID slots. Each slot is either empty or
// holds a fully decoded attachment; decodes run off the caller's goroutine and
// only a successful one populates the slot.
type Attachments struct {
	mu      sync.Mutex
	decoder ports.PreviewDecoder
	notify  func(domain.Notification)
	slots   map[domain.Side]*domain.Attachment
	gen     map[domain.Side]uint64
	wg      sync.WaitGroup
}

// NewAttachments returns empty slots. notify receives every user-facing
// message the manager produces and must not block.
func NewAttachments(dec ports.PreviewDecoder, notify func(domain.Notification)) *Attachments {
	if notify == nil {
		notify = func(domain.Notification) {}
	}
	return &Attachments{
		decoder: dec,
		notify:  notify,
		slots:   make(map[domain.Side]*domain.Attachment, 2),
		gen:     make(map[domain.Side]uint64, 2),
	}
}

// Accept validates f and, when it passes, starts decoding its preview. A
// rejected file returns an error immediately and leaves the slot untouched.
// Otherwise the returned channel receives exactly one value once the decode
// settles: nil when the slot was populated.
func (a *Attachments) Accept(side domain.Side, f File) (<-chan error, error) {
	if !side.Valid() {
		return nil, ErrUnknownSide
	}
	if err := checkFile(f); err != nil {
		a.notify(domain.Notification{Level: domain.LevelError, Message: rejectMessage(f, err)})
		return nil, err
	}

	a.mu.Lock()
	a.gen[side]++
	gen := a.gen[side]
	a.wg.Add(1)
	a.mu.Unlock()

	data := bytes.Clone(f.Data)
	done := make(chan error, 1)
	go func() {
		defer a.wg.Done()
		done <- a.decode(side, gen, f, data)
	}()
	return done, nil
}

func (a *Attachments) decode(side domain.Side, gen uint64, f File, data []byte) error {
	preview, err := a.decoder.Decode(context.Background(), f.ContentType, data)
	if err == nil && preview == "" {
		err = errors.New("empty preview")
	}

	a.mu.Lock()
	if a.gen[side] != gen {
		a.mu.Unlock()
		return ErrSuperseded
	}
	if err != nil {
		a.mu.Unlock()
		a.notify(domain.Notification{
			Level:   domain.LevelError,
			Message: fmt.Sprintf("Could not read %s as an image.", displayName(f)),
		})
		return fmt.Errorf("%w: %w", ErrUndecodable, err)
	}
	a.slots[side] = &domain.Attachment{
		Side:        side,
		Filename:    f.Name,
		ContentType: f.ContentType,
		Data:        data,
		Preview:     preview,
	}
	a.mu.Unlock()

	a.notify(domain.Notification{Level: domain.LevelSuccess, Message: side.Label() + " uploaded."})
	return nil
}

// Remove clears a slot and any decode still pending for it. It reports
// whether an attachment was actually removed; clearing an empty slot is a
// silent no-op.
func (a *Attachments) Remove(side domain.Side) (bool, error) {
	if !side.Valid() {
		return false, ErrUnknownSide
	}
	a.mu.Lock()
	a.gen[side]++
	_, had := a.slots[side]
	delete(a.slots, side)
	a.mu.Unlock()

	if had {
		a.notify(domain.Notification{Level: domain.LevelInfo, Message: side.Label() + " removed."})
	}
	return had, nil
}

// Reset empties both slots without notifications.
func (a *Attachments) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, s := range domain.Sides {
		a.gen[s]++
		delete(a.slots, s)
	}
}

// Invoke returns the picker binding for side.
func (a *Attachments) Invoke(side domain.Side) (PickerBinding, error) {
	if !side.Valid() {
		return PickerBinding{}, ErrUnknownSide
	}
	return PickerBinding{
		Side:     side,
		InputID:  "upload-" + string(side),
		Accept:   "image/*",
		MaxBytes: domain.MaxAttachmentBytes,
	}, nil
}

// Snapshot returns a copy of the attachment in side, if any.
func (a *Attachments) Snapshot(side domain.Side) (domain.Attachment, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	at, ok := a.slots[side]
	if !ok {
		return domain.Attachment{}, false
	}
	return *at, true
}

// Populated reports whether side holds an attachment.
func (a *Attachments) Populated(side domain.Side) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	_, ok := a.slots[side]
	return ok
}

// Wait blocks until every started decode has settled.
func (a *Attachments) Wait() { a.wg.Wait() }

func checkFile(f File) error {
	if !strings.HasPrefix(strings.ToLower(f.ContentType), "image/") {
		return ErrNotImage
	}
	if f.size() > domain.MaxAttachmentBytes {
		return ErrTooLarge
	}
	return nil
}

func rejectMessage(f File, err error) string {
	switch {
	case errors.Is(err, ErrNotImage):
		return fmt.Sprintf("%s is not an image. Please choose a JPG, PNG or WebP photo.", displayName(f))
	case errors.Is(err, ErrTooLarge):
		return fmt.Sprintf("%s is %s; images must be %s or smaller.",
			displayName(f), humanize.IBytes(uint64(f.size())), humanize.IBytes(uint64(domain.MaxAttachmentBytes)))
	}
	return err.Error()
}

func displayName(f File) string {
	if f.Name == "" {
		return "The selected file"
	}
	return f.Name
}
