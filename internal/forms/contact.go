package forms

import "fmt"

// Contact form field names.
const (
	FieldName    = "name"
	FieldEmail   = "email"
	FieldSubject = "subject"
	FieldMessage = "message"
)

// ContactFields lists the contact form's inputs.
var ContactFields = []string{FieldName, FieldEmail, FieldSubject, FieldMessage}

// ContactRules is the contact form rule set. maxMessage bounds the message
// length in characters.
func ContactRules(maxMessage int) RuleSet {
	rules := Require(FieldName, FieldEmail, FieldSubject, FieldMessage)
	rules = append(rules,
		Rule{Field: FieldEmail, Check: Email()},
		Rule{Field: FieldName, Check: Length(2, 100, msgNameShort, msgNameLong)},
		Rule{Field: FieldSubject, Check: Length(5, 200, msgSubjectShort, msgSubjectLong)},
		Rule{Field: FieldMessage, Check: Length(0, maxMessage, "", fmt.Sprintf(msgMessageLong, maxMessage))},
	)
	return RuleSet{Form: "contact", Rules: rules}
}
