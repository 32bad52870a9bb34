// Package intake is the form controller: it owns one session's draft, its ID
// attachments, the tracking bundle and the submission lifecycle.
package intake

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"github.com/csg33k/era-intake/internal/domain"
	"github.com/csg33k/era-intake/internal/ports"
)

var (
	ErrInFlight         = errors.New("a submission is already in progress")
	ErrAlreadySubmitted = errors.New("application already submitted")
	ErrUnknownField     = errors.New("unknown field")
	ErrNoUploads        = errors.New("this form does not accept uploads")
)

const (
	msgSubmitted    = "Application submitted successfully!"
	msgFailed       = "Submission failed."
	msgConnectivity = "Connection error. Check your network and try again."
)

var strict = bluemonday.StrictPolicy()

// Controller serializes every event of one form session. The submission
// request itself runs without the lock held so the session stays usable
// while it is outstanding.
type Controller struct {
	mu           sync.Mutex
	variant      *domain.Variant
	tracking     domain.TrackingBundle
	submitter    ports.Submitter
	draft        domain.Draft
	files        *Attachments
	notes        *Notifier
	result       domain.Result
	confirmation *domain.Confirmation
	observers    []func(from, to domain.Phase)
	log          *slog.Logger
	now          func() time.Time
}

// New starts a session with an empty draft. tracking is fixed for the
// session's lifetime.
func New(v *domain.Variant, tracking domain.TrackingBundle, sub ports.Submitter, dec ports.PreviewDecoder) *Controller {
	notes := &Notifier{}
	return &Controller{
		variant:   v,
		tracking:  tracking,
		submitter: sub,
		draft:     domain.Draft{},
		files:     NewAttachments(dec, notes.Push),
		notes:     notes,
		log:       slog.Default().With("application", tracking.ApplicationNumber),
		now:       time.Now,
	}
}

// OnTransition registers fn to observe phase changes. Observers run with the
// session lock held and must not call back into the controller.
func (c *Controller) OnTransition(fn func(from, to domain.Phase)) {
	c.mu.Lock()
	c.observers = append(c.observers, fn)
	c.mu.Unlock()
}

func (c *Controller) Variant() *domain.Variant { return c.variant }
func (c *Controller) Tracking() domain.TrackingBundle { return c.tracking }

// Set stores one answer. Free text is stripped of markup.
func (c *Controller) Set(name, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.result.Phase == domain.Succeeded {
		return ErrAlreadySubmitted
	}
	kind, ok := c.kindOf(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	value = strings.TrimSpace(value)
	if kind == domain.KindText || kind == domain.KindTextarea {
		value = html.UnescapeString(strict.Sanitize(value))
	}
	c.draft[name] = value
	return nil
}

// Apply stores every known field present in values and ignores the rest.
func (c *Controller) Apply(values url.Values) error {
	for name := range values {
		if _, ok := c.kindOf(name); !ok {
			continue
		}
		if err := c.Set(name, values.Get(name)); err != nil {
			return err
		}
	}
	return nil
}

// kindOf maps a draft key to its field kind; the date parts belong to the
// variant's date field.
func (c *Controller) kindOf(name string) (domain.FieldKind, bool) {
	switch name {
	case domain.DOBDay, domain.DOBMonth, domain.DOBYear:
		for _, f := range c.variant.Fields {
			if f.Kind == domain.KindDate {
				return domain.KindDate, true
			}
		}
		return "", false
	}
	f, ok := c.variant.Field(name)
	return f.Kind, ok
}

// Value returns the current answer for name.
func (c *Controller) Value(name string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft[name]
}

// Draft returns a copy of the current answers.
func (c *Controller) Draft() domain.Draft {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft.Clone()
}

// Resolution re-derives field visibility and labels from the current draft.
func (c *Controller) Resolution() Resolution {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Resolve(c.variant, c.draft)
}

func (c *Controller) Result() domain.Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.result
}

// SubmitEnabled reports whether the submit control should be active.
func (c *Controller) SubmitEnabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.result.Phase == domain.Idle
}

// Confirmation is available once the session has succeeded.
func (c *Controller) Confirmation() (domain.Confirmation, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.confirmation == nil {
		return domain.Confirmation{}, false
	}
	return *c.confirmation, true
}

// Notifications drains the queued toasts.
func (c *Controller) Notifications() []domain.Notification { return c.notes.Drain() }

// Attachment returns a copy of the attachment held by side.
func (c *Controller) Attachment(side domain.Side) (domain.Attachment, bool) {
	return c.files.Snapshot(side)
}

// Accept hands an upload to the attachment manager. The phase check and the
// start of the decode happen under the session lock, so a decode is either
// started before a successful submit resets the slots (and is then
// superseded) or refused.
func (c *Controller) Accept(side domain.Side, f File) (<-chan error, error) {
	if !c.variant.Attachments {
		return nil, ErrNoUploads
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.result.Phase == domain.Succeeded {
		return nil, ErrAlreadySubmitted
	}
	return c.files.Accept(side, f)
}

// Remove clears one attachment slot.
func (c *Controller) Remove(side domain.Side) (bool, error) {
	if !c.variant.Attachments {
		return false, ErrNoUploads
	}
	return c.files.Remove(side)
}

// Invoke returns the file-picker binding for side.
func (c *Controller) Invoke(side domain.Side) (PickerBinding, error) {
	if !c.variant.Attachments {
		return PickerBinding{}, ErrNoUploads
	}
	return c.files.Invoke(side)
}

// Close waits for pending preview decodes.
func (c *Controller) Close() { c.files.Wait() }

// Submit validates the draft and, when it passes, sends exactly one request.
// Validation failures return a *ValidationError without touching the
// network. Remote and transport failures leave the draft and attachments in
// place so the applicant can correct and resubmit.
func (c *Controller) Submit(ctx context.Context) error {
	c.mu.Lock()
	switch c.result.Phase {
	case domain.Validating, domain.InFlight:
		c.mu.Unlock()
		return ErrInFlight
	case domain.Succeeded:
		c.mu.Unlock()
		return ErrAlreadySubmitted
	}
	c.result.Reason = ""
	c.transition(domain.Validating)

	payload, err := c.prepare()
	if err != nil {
		c.transition(domain.Idle)
		c.mu.Unlock()
		c.notes.Push(domain.Notification{Level: domain.LevelError, Message: err.Error()})
		return err
	}
	applicant := c.draft["full_name"]
	c.transition(domain.InFlight)
	c.mu.Unlock()

	sendErr := c.submitter.Submit(ctx, payload)

	c.mu.Lock()
	defer c.mu.Unlock()
	if sendErr != nil {
		msg := failureMessage(sendErr)
		c.log.Warn("submission failed", "err", sendErr)
		c.result.Reason = msg
		c.transition(domain.Failed)
		c.transition(domain.Idle)
		c.notes.Push(domain.Notification{Level: domain.LevelError, Message: msg})
		return fmt.Errorf("submit application: %w", sendErr)
	}

	c.confirmation = &domain.Confirmation{
		Tracking:    c.tracking,
		Applicant:   applicant,
		FormID:      c.variant.FormID,
		Title:       c.variant.Title,
		SubmittedAt: c.now(),
	}
	c.draft = domain.Draft{}
	c.files.Reset()
	c.transition(domain.Succeeded)
	c.notes.Push(domain.Notification{Level: domain.LevelSuccess, Message: msgSubmitted})
	return nil
}

// transition must be called with c.mu held.
func (c *Controller) transition(to domain.Phase) {
	from := c.result.Phase
	c.result.Phase = to
	c.log.Info("submission phase", "from", from.String(), "to", to.String())
	for _, fn := range c.observers {
		fn(from, to)
	}
}

// prepare runs the local checks and assembles the outbound payload. Hidden
// fields are left out even when they still hold a value.
func (c *Controller) prepare() (*domain.Payload, error) {
	held := make(map[domain.Side]domain.Attachment, 2)
	for _, side := range domain.Sides {
		if at, ok := c.files.Snapshot(side); ok {
			held[side] = at
		}
	}
	if err := checkAttachments(c.variant, held); err != nil {
		return nil, err
	}
	res := Resolve(c.variant, c.draft)
	if err := checkFields(c.variant, c.draft, res); err != nil {
		return nil, err
	}

	p := &domain.Payload{}
	add := func(name, value string) {
		p.Fields = append(p.Fields, domain.Part{Name: name, Value: value})
	}
	for _, f := range c.variant.Fields {
		if !res.IsVisible(f.Name) {
			continue
		}
		if f.Kind == domain.KindDate {
			add(domain.DOBDay, c.draft[domain.DOBDay])
			add(domain.DOBMonth, c.draft[domain.DOBMonth])
			add(domain.DOBYear, c.draft[domain.DOBYear])
			add(domain.DOBCombined, CombinedDOB(c.draft))
			continue
		}
		add(f.Name, c.draft[f.Name])
	}
	add(domain.FieldApplicationNumber, c.tracking.ApplicationNumber)
	add(domain.FieldTicketNumber, c.tracking.TicketNumber)
	add(domain.FieldReferenceNumber, c.tracking.ReferenceNumber)

	if c.variant.Attachments {
		for _, side := range domain.Sides {
			at := held[side]
			p.Files = append(p.Files, domain.FilePart{
				Name:        side.FieldName(),
				Filename:    at.Filename,
				ContentType: at.ContentType,
				Data:        at.Data,
			})
		}
	}
	return p, nil
}

// failureMessage picks the most specific user-facing text for a failed send.
func failureMessage(err error) string {
	var remote *domain.RemoteError
	switch {
	case errors.As(err, &remote) && remote.Attachment:
		if remote.Message == "" {
			return "There was a problem with your ID images. Please re-upload them and try again."
		}
		return "There was a problem with your ID images: " + remote.Message
	case errors.As(err, &remote) && remote.Message != "":
		return "Submission failed: " + remote.Message
	case errors.Is(err, domain.ErrConnectivity):
		return msgConnectivity
	}
	return msgFailed
}
