package intake

import (
	"regexp"
	"strings"

	"github.com/csg33k/era-intake/internal/domain"
)

// Resolution is the derived view of a draft: which fields show, which must be
// filled in, and the label each one currently carries.
type Resolution struct {
	Visible  map[string]bool
	Required map[string]bool
	Labels   map[string]string
}

func (r Resolution) IsVisible(name string) bool { return r.Visible[name] }
func (r Resolution) IsRequired(name string) bool { return r.Required[name] }

// RequiredNames lists the required fields in variant order.
func (r Resolution) RequiredNames(v *domain.Variant) []string {
	var out []string
	for _, f := range v.Fields {
		if r.Required[f.Name] {
			out = append(out, f.Name)
		}
	}
	return out
}

// Resolve derives visibility, required-ness and labels from the current
// answers. It never modifies d.
func Resolve(v *domain.Variant, d domain.Draft) Resolution {
	res := Resolution{
		Visible:  make(map[string]bool, len(v.Fields)),
		Required: make(map[string]bool, len(v.Fields)),
		Labels:   make(map[string]string, len(v.Fields)),
	}
	for _, f := range v.Fields {
		visible := isVisible(v, d, f, 0)
		res.Visible[f.Name] = visible
		res.Required[f.Name] = visible && (f.Required || holds(d, f.RequiredWhen))
		res.Labels[f.Name] = renderLabel(v, d, f.Label)
	}
	return res
}

func holds(d domain.Draft, c *domain.Condition) bool {
	return c != nil && d[c.Field] == c.Equals
}

// isVisible follows visible_when chains so a field gated on a hidden answer is
// hidden too. depth guards against cycles in hand-written variant files.
func isVisible(v *domain.Variant, d domain.Draft, f domain.FieldSpec, depth int) bool {
	if f.VisibleWhen == nil {
		return true
	}
	if !holds(d, f.VisibleWhen) || depth > len(v.Fields) {
		return false
	}
	parent, ok := v.Field(f.VisibleWhen.Field)
	if !ok {
		return true
	}
	return isVisible(v, d, parent, depth+1)
}

var labelRef = regexp.MustCompile(`\{\{(\w+)\}\}`)

func renderLabel(v *domain.Variant, d domain.Draft, label string) string {
	return labelRef.ReplaceAllStringFunc(label, func(m string) string {
		name := labelRef.FindStringSubmatch(m)[1]
		ref, ok := v.Field(name)
		if !ok {
			return m
		}
		val := d[name]
		if val == "" {
			return "your chosen " + strings.ReplaceAll(name, "_", " ")
		}
		return strings.ToLower(ref.OptionLabel(val))
	})
}
