package domain

import "time"

// MaxAttachmentBytes is the largest ID image the form accepts (5 MiB).
const MaxAttachmentBytes int64 = 5 * 1024 * 1024

// Side names one of the two ID attachment slots.
type Side string

const (
	Front Side = "front"
	Back  Side = "back"
)

// Sides lists the attachment slots in display order.
var Sides = []Side{Front, Back}

// Valid reports whether s is a known slot.
func (s Side) Valid() bool { return s == Front || s == Back }

// Label is the human name used in notifications ("Front ID").
func (s Side) Label() string {
	switch s {
	case Front:
		return "Front ID"
	case Back:
		return "Back ID"
	}
	return string(s)
}

// FieldName is the multipart part name the slot is transmitted under.
func (s Side) FieldName() string { return string(s) + "_id" }

// FieldKind controls how a field is rendered and validated.
type FieldKind string

const (
	KindText     FieldKind = "text"
	KindTextarea FieldKind = "textarea"
	KindSelect   FieldKind = "select"
	KindRadio    FieldKind = "radio"
	KindYesNo    FieldKind = "yesno"
	KindMoney    FieldKind = "money"
	KindDate     FieldKind = "date" // rendered as dob_day / dob_month / dob_year selects
)

// Option is one choice of a select or radio field.
type Option struct {
	Value string `yaml:"value"`
	Label string `yaml:"label"`
}

// Condition ties a field's visibility or required-ness to another answer.
type Condition struct {
	Field  string `yaml:"field"`
	Equals string `yaml:"equals"`
}

// FieldSpec describes one input of a form variant.
type FieldSpec struct {
	Name         string     `yaml:"name"`
	Label        string     `yaml:"label"` // may contain {{field}} placeholders
	Kind         FieldKind  `yaml:"kind"`
	Section      string     `yaml:"section"`
	Placeholder  string     `yaml:"placeholder"`
	Required     bool       `yaml:"required"`
	Rule         string     `yaml:"rule"` // validator tag, e.g. "numeric,len=9"
	Options      []Option   `yaml:"options"`
	VisibleWhen  *Condition `yaml:"visible_when"`
	RequiredWhen *Condition `yaml:"required_when"`
}

// OptionLabel returns the display label for value, or value itself.
func (f FieldSpec) OptionLabel(value string) string {
	for _, o := range f.Options {
		if o.Value == value {
			return o.Label
		}
	}
	return value
}

// Variant is one configuration of the intake form.
type Variant struct {
	Name        string      `yaml:"name"`
	Title       string      `yaml:"title"`
	FormID      string      `yaml:"form_id"`
	Attachments bool        `yaml:"attachments"`
	Fields      []FieldSpec `yaml:"fields"`
}

// Field looks up a field spec by name.
func (v *Variant) Field(name string) (FieldSpec, bool) {
	for _, f := range v.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldSpec{}, false
}

// Date-of-birth part names. A KindDate field expands into these three inputs.
const (
	DOBDay      = "dob_day"
	DOBMonth    = "dob_month"
	DOBYear     = "dob_year"
	DOBCombined = "Full Date of Birth"
)

// Draft holds in-progress values keyed by field name.
type Draft map[string]string

// Clone returns an independent copy of d.
func (d Draft) Clone() Draft {
	out := make(Draft, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// Attachment is one accepted ID image plus its preview.
type Attachment struct {
	Side        Side
	Filename    string
	ContentType string
	Data        []byte
	Preview     string // data: URI
}

// TrackingBundle is generated once per form session.
type TrackingBundle struct {
	ApplicationNumber string
	TicketNumber      string
	ReferenceNumber   string
}

// Tracking field names in the outbound payload.
const (
	FieldApplicationNumber = "application_number"
	FieldTicketNumber      = "ticket_number"
	FieldReferenceNumber   = "reference_number"
)

// Phase is the submission lifecycle state.
type Phase int

const (
	Idle Phase = iota
	Validating
	InFlight
	Succeeded
	Failed
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Validating:
		return "validating"
	case InFlight:
		return "in_flight"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Result is the observable submission state. Reason carries the message of
// the most recent failure and is cleared by the next submit attempt.
type Result struct {
	Phase  Phase
	Reason string
}

// Level classifies a user-facing notification.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
)

// Notification is a transient toast message.
type Notification struct {
	Level   Level
	Message string
}

// Part is a named field of the outbound request, in send order.
type Part struct {
	Name  string
	Value string
}

// FilePart is a binary attachment of the outbound request.
type FilePart struct {
	Name        string
	Filename    string
	ContentType string
	Data        []byte
}

// Payload is everything one submission transmits.
type Payload struct {
	Fields []Part
	Files  []FilePart
}

// Get returns the first value for name.
func (p *Payload) Get(name string) (string, bool) {
	for _, f := range p.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return "", false
}

// Confirmation is what remains of a session after a successful submission.
type Confirmation struct {
	Tracking    TrackingBundle
	Applicant   string
	FormID      string
	Title       string
	SubmittedAt time.Time
}
