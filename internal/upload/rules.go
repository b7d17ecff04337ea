package upload

import (
	"slices"
	"strconv"
	"strings"
)

// Rule is a single pre-flight check applied to a candidate file.
type Rule interface {
	Name() string
	Check(f File) *ValidationError
}

// Status describes a rule for reporting purposes.
type Status struct {
	Name    string
	Details map[string]string
}

// statusProvider is implemented by rules that can describe their limits.
type statusProvider interface {
	Status() Status
}

// Validator runs rules in order. The first failing rule wins.
type Validator struct {
	rules []Rule
}

var defaultValidator = New()

// DefaultRules returns the size rule followed by the extension rule.
func DefaultRules() []Rule {
	return []Rule{
		NewSizeLimit(MaxSize),
		NewExtensions(AllowedExtensions...),
	}
}

// New creates a validator. Without rules it uses DefaultRules.
func New(rules ...Rule) *Validator {
	if len(rules) == 0 {
		rules = DefaultRules()
	}

	return &Validator{rules: rules}
}

// Validate checks f against the default rules.
func Validate(f File) error {
	return defaultValidator.Validate(f)
}

// Validate returns nil when f passes every rule, or a *ValidationError.
func (v *Validator) Validate(f File) error {
	for _, rule := range v.rules {
		if rejected := rule.Check(f); rejected != nil {
			if rejected.Rule == "" {
				rejected.Rule = rule.Name()
			}
			return rejected
		}
	}

	return nil
}

// Rules returns the rules in evaluation order.
func (v *Validator) Rules() []Rule {
	return slices.Clone(v.rules)
}

// Describe returns status entries for the provided rules.
func Describe(rules []Rule) []Status {
	statuses := make([]Status, 0, len(rules))
	for _, rule := range rules {
		if reporter, ok := rule.(statusProvider); ok {
			statuses = append(statuses, reporter.Status())
			continue
		}

		statuses = append(statuses, Status{Name: rule.Name()})
	}
	return statuses
}

type sizeLimitRule struct {
	max int64
}

// NewSizeLimit creates a rule rejecting files larger than limit bytes.
func NewSizeLimit(limit int64) Rule {
	return &sizeLimitRule{max: limit}
}

func (r *sizeLimitRule) Name() string { return "max_size" }

func (r *sizeLimitRule) Check(f File) *ValidationError {
	if f.Size > r.max {
		return &ValidationError{Reason: ReasonTooLarge, File: f}
	}
	return nil
}

func (r *sizeLimitRule) Status() Status {
	return Status{
		Name:    r.Name(),
		Details: map[string]string{"max_bytes": strconv.FormatInt(r.max, 10)},
	}
}

type extensionsRule struct {
	allowed []string
}

// NewExtensions creates a rule accepting only the given extensions.
// Matching is case-insensitive; a leading dot is ignored.
func NewExtensions(allowed ...string) Rule {
	normalized := make([]string, 0, len(allowed))
	for _, ext := range allowed {
		ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
		if ext != "" {
			normalized = append(normalized, ext)
		}
	}

	return &extensionsRule{allowed: normalized}
}

func (r *extensionsRule) Name() string { return "extension" }

func (r *extensionsRule) Check(f File) *ValidationError {
	ext := f.Extension()
	if ext == "" || !slices.Contains(r.allowed, ext) {
		return &ValidationError{Reason: ReasonUnsupportedType, File: f}
	}
	return nil
}

func (r *extensionsRule) Status() Status {
	return Status{
		Name:    r.Name(),
		Details: map[string]string{"allowed": strings.Join(r.allowed, ",")},
	}
}
