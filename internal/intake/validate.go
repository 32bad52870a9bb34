package intake

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/csg33k/era-intake/internal/domain"
)

// ValidationError is a local pre-submission failure. It never reaches the
// network.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Months are the accepted dob_month values, in calendar order.
var Months = []string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

var (
	validate = validator.New()
	moneyRe  = regexp.MustCompile(`^\d+(\.\d{1,2})?$`)
)

// checkAttachments requires both slots when the variant collects ID images.
func checkAttachments(v *domain.Variant, held map[domain.Side]domain.Attachment) error {
	if !v.Attachments {
		return nil
	}
	_, front := held[domain.Front]
	_, back := held[domain.Back]
	switch {
	case !front && !back:
		return &ValidationError{Field: domain.Front.FieldName(), Message: "Please upload both the front and back of your ID."}
	case !front:
		return &ValidationError{Field: domain.Front.FieldName(), Message: "Missing identification: please upload the front of your ID."}
	case !back:
		return &ValidationError{Field: domain.Back.FieldName(), Message: "Missing identification: please upload the back of your ID."}
	}
	return nil
}

// checkFields validates every visible field of d against res, in form order.
func checkFields(v *domain.Variant, d domain.Draft, res Resolution) error {
	for _, f := range v.Fields {
		if !res.IsVisible(f.Name) {
			continue
		}
		label := strings.TrimRight(res.Labels[f.Name], ":")
		if f.Kind == domain.KindDate {
			if err := checkDate(d, res.IsRequired(f.Name), label); err != nil {
				return err
			}
			continue
		}
		val := d[f.Name]
		if val == "" {
			if res.IsRequired(f.Name) {
				return &ValidationError{Field: f.Name, Message: "Please fill in: " + label}
			}
			continue
		}
		if err := checkValue(f, val, label); err != nil {
			return err
		}
	}
	return nil
}

func checkValue(f domain.FieldSpec, val, label string) error {
	invalid := func(msg string) error {
		return &ValidationError{Field: f.Name, Message: msg}
	}
	switch f.Kind {
	case domain.KindMoney:
		if _, err := ParseAmount(val); err != nil {
			return invalid(fmt.Sprintf("%s: enter an amount of zero or more, e.g. 450.00", label))
		}
	case domain.KindYesNo:
		if val != "yes" && val != "no" {
			return invalid("Please answer yes or no: " + label)
		}
	case domain.KindSelect, domain.KindRadio:
		known := false
		for _, o := range f.Options {
			known = known || o.Value == val
		}
		if !known {
			return invalid("Please choose a valid option: " + label)
		}
	}
	if f.Rule != "" {
		if err := validate.Var(val, f.Rule); err != nil {
			return invalid(fmt.Sprintf("%s is not valid.", label))
		}
	}
	return nil
}

func checkDate(d domain.Draft, required bool, label string) error {
	day, month, year := d[domain.DOBDay], d[domain.DOBMonth], d[domain.DOBYear]
	if day == "" && month == "" && year == "" && !required {
		return nil
	}
	if day == "" || month == "" || year == "" {
		return &ValidationError{Field: domain.DOBDay, Message: "Please select your day, month and year of birth."}
	}
	if _, err := ParseDOB(day, month, year); err != nil {
		return &ValidationError{Field: domain.DOBDay, Message: label + ": " + err.Error()}
	}
	return nil
}

// ParseDOB turns the three date-of-birth selections into a date. It rejects
// impossible dates such as 31 February and dates in the future.
func ParseDOB(day, month, year string) (time.Time, error) {
	dd, err := strconv.Atoi(day)
	if err != nil || dd < 1 || dd > 31 {
		return time.Time{}, fmt.Errorf("invalid day %q", day)
	}
	mm := 0
	for i, m := range Months {
		if m == month {
			mm = i + 1
		}
	}
	if mm == 0 {
		return time.Time{}, fmt.Errorf("invalid month %q", month)
	}
	yy, err := strconv.Atoi(year)
	if err != nil || yy < 1900 {
		return time.Time{}, fmt.Errorf("invalid year %q", year)
	}
	t := time.Date(yy, time.Month(mm), dd, 0, 0, 0, 0, time.UTC)
	if t.Day() != dd {
		return time.Time{}, fmt.Errorf("%s %d has no day %d", month, yy, dd)
	}
	if t.After(time.Now()) {
		return time.Time{}, fmt.Errorf("date is in the future")
	}
	return t, nil
}

// CombinedDOB is the single date-of-birth string sent next to the parts,
// e.g. "15 June 1990".
func CombinedDOB(d domain.Draft) string {
	return d[domain.DOBDay] + " " + d[domain.DOBMonth] + " " + d[domain.DOBYear]
}

// ParseAmount reads a non-negative money value in cents. A leading "$" and
// thousands separators are tolerated.
func ParseAmount(s string) (int64, error) {
	s = strings.ReplaceAll(strings.TrimPrefix(strings.TrimSpace(s), "$"), ",", "")
	if !moneyRe.MatchString(s) {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	whole, frac, _ := strings.Cut(s, ".")
	dollars, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	if dollars > math.MaxInt64/100-1 {
		return 0, fmt.Errorf("amount %q is out of range", s)
	}
	if len(frac) == 1 {
		frac += "0"
	}
	var cents int64
	if frac != "" {
		cents, _ = strconv.ParseInt(frac, 10, 64)
	}
	return dollars*100 + cents, nil
}
