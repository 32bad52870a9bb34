// Package templates renders the intake form and its htmx fragments.
//
// Each exported constructor returns a templ.Component; handlers compose and
// render them exactly as they would generated templ output.
package templates

import (
	"html/template"
	"strings"

	"github.com/a-h/templ"

	"github.com/csg33k/era-intake/internal/domain"
	"github.com/csg33k/era-intake/internal/intake"
)

type choice struct {
	Value   string
	Label   string
	Checked bool
}

type fieldView struct {
	Name        string
	Kind        domain.FieldKind
	Label       string
	Placeholder string
	Required    bool
	Value       string
	Choices     []choice

	// date parts
	Day, Month, Year string
	Months           []choice
}

type sectionView struct {
	Title  string
	Fields []fieldView
}

type slotView struct {
	Side      domain.Side
	Label     string
	Binding   intake.PickerBinding
	Populated bool
	Filename  string
	Preview   template.URL
}

type formView struct {
	Title         string
	FormID        string
	Sections      []sectionView
	Slots         []slotView
	SubmitEnabled bool
	Reason        string
}

type toastView struct {
	OOB   bool
	Notes []domain.Notification
}

type pageView struct {
	Form   formView
	Toasts toastView
}

var yesNo = []domain.Option{{Value: "yes", Label: "Yes"}, {Value: "no", Label: "No"}}

func buildForm(c *intake.Controller) formView {
	v := c.Variant()
	d := c.Draft()
	res := c.Resolution()
	result := c.Result()

	fv := formView{
		Title:         v.Title,
		FormID:        v.FormID,
		SubmitEnabled: c.SubmitEnabled(),
		Reason:        result.Reason,
	}
	for _, f := range v.Fields {
		if !res.IsVisible(f.Name) {
			continue
		}
		field := fieldView{
			Name:        f.Name,
			Kind:        f.Kind,
			Label:       res.Labels[f.Name],
			Placeholder: f.Placeholder,
			Required:    res.IsRequired(f.Name),
			Value:       d[f.Name],
		}
		switch f.Kind {
		case domain.KindSelect, domain.KindRadio:
			field.Choices = choices(f.Options, d[f.Name])
		case domain.KindYesNo:
			field.Choices = choices(yesNo, d[f.Name])
		case domain.KindDate:
			field.Day, field.Month, field.Year = d[domain.DOBDay], d[domain.DOBMonth], d[domain.DOBYear]
			for _, m := range intake.Months {
				field.Months = append(field.Months, choice{Value: m, Label: m, Checked: m == field.Month})
			}
		}

		title := strings.ReplaceAll(f.Section, "_", " ")
		if n := len(fv.Sections); n == 0 || fv.Sections[n-1].Title != title {
			fv.Sections = append(fv.Sections, sectionView{Title: title})
		}
		last := &fv.Sections[len(fv.Sections)-1]
		last.Fields = append(last.Fields, field)
	}

	if v.Attachments {
		for _, side := range domain.Sides {
			fv.Slots = append(fv.Slots, buildSlot(c, side))
		}
	}
	return fv
}

func choices(opts []domain.Option, current string) []choice {
	out := make([]choice, 0, len(opts))
	for _, o := range opts {
		out = append(out, choice{Value: o.Value, Label: o.Label, Checked: o.Value == current})
	}
	return out
}

func buildSlot(c *intake.Controller, side domain.Side) slotView {
	binding, _ := c.Invoke(side)
	sv := slotView{Side: side, Label: side.Label(), Binding: binding}
	if at, ok := c.Attachment(side); ok {
		sv.Populated = true
		sv.Filename = at.Filename
		// produced by the preview decoder, never by the client
		sv.Preview = template.URL(at.Preview)
	}
	return sv
}

// Page is the full document for a fresh session.
func Page(c *intake.Controller) templ.Component {
	return component(tmpl, "page", pageView{
		Form:   buildForm(c),
		Toasts: toastView{Notes: c.Notifications()},
	})
}

// Form is the whole interactive region, swapped after a failed submit.
func Form(c *intake.Controller) templ.Component {
	return component(tmpl, "form", buildForm(c))
}

// Fields re-renders the conditional question sections after a draft change.
func Fields(c *intake.Controller) templ.Component {
	return component(tmpl, "fields", buildForm(c))
}

// Slot renders one ID upload drop zone with its preview.
func Slot(c *intake.Controller, side domain.Side) templ.Component {
	return component(tmpl, "slot", buildSlot(c, side))
}

// Toasts appends notes to the page's toast stack out of band.
func Toasts(notes []domain.Notification) templ.Component {
	return component(tmpl, "toasts", toastView{OOB: true, Notes: notes})
}

// Confirmation replaces the form once the application is accepted.
func Confirmation(conf domain.Confirmation) templ.Component {
	return component(tmpl, "confirmation", conf)
}
