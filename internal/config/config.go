// Package config reads process settings from the environment and the form
// variant definitions from YAML.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/csg33k/era-intake/internal/domain"
)

// DefaultEndpoint is the intake endpoint used when INTAKE_ENDPOINT is unset.
const DefaultEndpoint = "https://formspree.io/f/xnjbdjne"

//go:embed variants.yaml
var defaultVariants []byte

// Config holds the server settings. Zero durations mean "no limit".
type Config struct {
	Port          string
	Endpoint      string
	Variant       string
	VariantsFile  string
	SessionTTL    time.Duration
	SubmitTimeout time.Duration
}

// Load reads the configuration from the environment. Call godotenv.Load
// beforehand if a .env file should contribute.
func Load() (*Config, error) {
	c := &Config{
		Port:         getEnv("PORT", "8080"),
		Endpoint:     getEnv("INTAKE_ENDPOINT", DefaultEndpoint),
		Variant:      getEnv("FORM_VARIANT", "verified"),
		VariantsFile: os.Getenv("VARIANTS_FILE"),
	}
	var err error
	if c.SessionTTL, err = getDuration("SESSION_TTL", 2*time.Hour); err != nil {
		return nil, err
	}
	if c.SubmitTimeout, err = getDuration("SUBMIT_TIMEOUT", 0); err != nil {
		return nil, err
	}
	return c, nil
}

// FormVariant loads the variant set and returns the configured one.
func (c *Config) FormVariant() (*domain.Variant, error) {
	variants, err := LoadVariants(c.VariantsFile)
	if err != nil {
		return nil, err
	}
	v, ok := variants[c.Variant]
	if !ok {
		return nil, fmt.Errorf("unknown form variant %q", c.Variant)
	}
	return v, nil
}

type variantFile struct {
	Variants []*domain.Variant `yaml:"variants"`
}

// LoadVariants parses the variants at path, or the built-in set when path is
// empty. Every variant is checked for consistency before it is returned.
func LoadVariants(path string) (map[string]*domain.Variant, error) {
	data := defaultVariants
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read variants %s: %w", path, err)
		}
		data = b
	}
	var vf variantFile
	if err := yaml.Unmarshal(data, &vf); err != nil {
		return nil, fmt.Errorf("parse variants: %w", err)
	}
	out := make(map[string]*domain.Variant, len(vf.Variants))
	for i, v := range vf.Variants {
		if v == nil {
			return nil, fmt.Errorf("variant %d is empty", i)
		}
		if err := checkVariant(v); err != nil {
			return nil, fmt.Errorf("variant %q: %w", v.Name, err)
		}
		if _, dup := out[v.Name]; dup {
			return nil, fmt.Errorf("variant %q defined twice", v.Name)
		}
		out[v.Name] = v
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no variants defined")
	}
	return out, nil
}

var placeholderRe = regexp.MustCompile(`\{\{(\w+)\}\}`)

func checkVariant(v *domain.Variant) error {
	if v.Name == "" {
		return fmt.Errorf("missing name")
	}
	seen := map[string]bool{}
	dates := 0
	for _, f := range v.Fields {
		if f.Name == "" {
			return fmt.Errorf("field without name")
		}
		if seen[f.Name] {
			return fmt.Errorf("field %q defined twice", f.Name)
		}
		seen[f.Name] = true
		switch f.Kind {
		case domain.KindText, domain.KindTextarea, domain.KindMoney, domain.KindYesNo:
		case domain.KindSelect, domain.KindRadio:
			if len(f.Options) == 0 {
				return fmt.Errorf("field %q: %s needs options", f.Name, f.Kind)
			}
		case domain.KindDate:
			dates++
		default:
			return fmt.Errorf("field %q: unknown kind %q", f.Name, f.Kind)
		}
	}
	if dates > 1 {
		return fmt.Errorf("at most one date field is supported")
	}
	for _, f := range v.Fields {
		for _, c := range []*domain.Condition{f.VisibleWhen, f.RequiredWhen} {
			if c != nil && !seen[c.Field] {
				return fmt.Errorf("field %q: condition references unknown field %q", f.Name, c.Field)
			}
		}
		for _, m := range placeholderRe.FindAllStringSubmatch(f.Label, -1) {
			if !seen[m[1]] {
				return fmt.Errorf("field %q: label references unknown field %q", f.Name, m[1])
			}
		}
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}
