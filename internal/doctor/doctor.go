// Package doctor validates ucikit configuration against the registered
// engine options, without applying anything.
package doctor

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mattjoyce/ucikit/internal/config"
	"github.com/mattjoyce/ucikit/internal/option"
)

// Result holds the outcome of a validation run.
type Result struct {
	Valid    bool    `json:"valid"`
	Digest   string  `json:"digest,omitempty"`
	Errors   []Issue `json:"errors,omitempty"`
	Warnings []Issue `json:"warnings,omitempty"`
}

// Issue describes a single validation error or warning.
type Issue struct {
	Category string `json:"category"`
	Message  string `json:"message"`
	Field    string `json:"field,omitempty"`
}

// Doctor validates configuration against an option registry.
type Doctor struct {
	cfg      *config.Config
	registry *option.Registry
}

// New creates a Doctor from a loaded config and the engine's options.
func New(cfg *config.Config, registry *option.Registry) *Doctor {
	return &Doctor{cfg: cfg, registry: registry}
}

// Validate runs all checks and returns a result.
func (d *Doctor) Validate() *Result {
	r := &Result{Valid: true, Digest: d.cfg.Digest}

	d.validateEngine(r)
	d.validateOptions(r)
	d.warnInfoRate(r)

	r.Valid = len(r.Errors) == 0
	return r
}

func (d *Doctor) addError(r *Result, category, field, msg string) {
	r.Errors = append(r.Errors, Issue{Category: category, Field: field, Message: msg})
}

func (d *Doctor) addWarning(r *Result, category, field, msg string) {
	r.Warnings = append(r.Warnings, Issue{Category: category, Field: field, Message: msg})
}

func (d *Doctor) validateEngine(r *Result) {
	if strings.TrimSpace(d.cfg.Engine.Name) == "" {
		d.addWarning(r, "engine", "engine.name", "empty name; uci will report \"Unnamed Engine\"")
	}
}

// validateOptions checks each override the way setoption would, minus the
// side effects.
func (d *Doctor) validateOptions(r *Result) {
	overrides := d.cfg.OptionOverrides()
	for _, name := range d.cfg.OptionNames() {
		field := "options." + name
		text := overrides[name]

		info, err := d.registry.Describe(name)
		if errors.Is(err, option.ErrNotFound) {
			d.addError(r, "options", field, "no such option")
			continue
		}
		if err != nil {
			d.addError(r, "options", field, err.Error())
			continue
		}

		switch info.Kind {
		case option.Trigger:
			d.addWarning(r, "options", field, "button option fires once at startup")
		case option.Boolean:
			if text != "true" && text != "false" {
				d.addError(r, "options", field, fmt.Sprintf("check option expects true or false, got %q", text))
			}
		case option.Integer:
			v, err := option.Parse(option.Integer, text)
			if err != nil {
				d.addError(r, "options", field, err.Error())
				continue
			}
			n, _ := v.AsInt()
			if info.Bounds != nil && (n < info.Bounds.Min || n > info.Bounds.Max) {
				d.addError(r, "options", field,
					fmt.Sprintf("%d is outside [%d, %d]", n, info.Bounds.Min, info.Bounds.Max))
			}
		}
	}
}

func (d *Doctor) warnInfoRate(r *Result) {
	if rate := d.cfg.Info.MaxPerSecond; rate > 0 && rate < 1 {
		d.addWarning(r, "info", "info.max_per_second",
			"fewer than one info line per second; GUIs may show stale search progress")
	}
}

// FormatHuman returns a human-readable validation report.
func FormatHuman(r *Result) string {
	var b strings.Builder

	if r.Valid && len(r.Warnings) == 0 {
		b.WriteString("Configuration valid.\n")
	}

	if r.Valid && len(r.Warnings) > 0 {
		b.WriteString("Configuration valid")
		fmt.Fprintf(&b, " (%d warning(s))\n", len(r.Warnings))
	}

	if !r.Valid {
		fmt.Fprintf(&b, "Configuration invalid (%d error(s), %d warning(s))\n", len(r.Errors), len(r.Warnings))
	}

	for _, e := range r.Errors {
		if e.Field != "" {
			fmt.Fprintf(&b, "  ERROR [%s] %s: %s\n", e.Category, e.Field, e.Message)
		} else {
			fmt.Fprintf(&b, "  ERROR [%s] %s\n", e.Category, e.Message)
		}
	}
	for _, w := range r.Warnings {
		if w.Field != "" {
			fmt.Fprintf(&b, "  WARN  [%s] %s: %s\n", w.Category, w.Field, w.Message)
		} else {
			fmt.Fprintf(&b, "  WARN  [%s] %s\n", w.Category, w.Message)
		}
	}
	if r.Digest != "" {
		fmt.Fprintf(&b, "Digest: %s\n", r.Digest)
	}

	return b.String()
}

// FormatJSON returns the result as indented JSON.
func FormatJSON(r *Result) (string, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
