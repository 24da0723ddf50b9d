package forms

import (
	"labforms/internal/domain"
)

// FieldHoneypot is the hidden trap input. People never fill it in.
const FieldHoneypot = "website"

// FieldError is the first rule a submission failed.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string { return e.Message }

// Rule binds a check to a field.
type Rule struct {
	Field string
	Check Check
}

// RuleSet is the ordered rule list for one form type.
type RuleSet struct {
	Form  string
	Rules []Rule
}

// Validate runs the rules in order and returns a *FieldError for the first
// failure, or nil.
func (rs RuleSet) Validate(v Values) error {
	for _, r := range rs.Rules {
		if err := r.Check(v[r.Field]); err != nil {
			return &FieldError{Field: r.Field, Message: err.Error()}
		}
	}
	return nil
}

// Require builds one Required rule per field, in order.
func Require(fields ...string) []Rule {
	rules := make([]Rule, 0, len(fields))
	for _, f := range fields {
		rules = append(rules, Rule{Field: f, Check: Required(f)})
	}
	return rules
}

// CheckHoneypot rejects any submission whose hidden trap field is non-empty.
// The raw, unsanitized value is inspected.
func CheckHoneypot(raw string) error {
	if raw != "" {
		return domain.ErrBotDetected
	}
	return nil
}
