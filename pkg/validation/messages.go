package validation

import (
	"fmt"
	"strconv"

	"github.com/goliatone/go-formschema/pkg/model"
)

// RequiredMessage is the fallback for missing required values.
const RequiredMessage = "This field is required."

// MessageFunc generates the fallback message for rule given its threshold.
// threshold is nil for rules without one (required, pattern, type).
type MessageFunc func(rule string, threshold any) string

// DefaultMessage produces the built-in English messages.
func DefaultMessage(rule string, threshold any) string {
	switch rule {
	case model.RuleRequired:
		return RequiredMessage
	case model.RuleMinLength:
		return fmt.Sprintf("Should be at least %s characters.", formatThreshold(threshold))
	case model.RuleMaxLength:
		return fmt.Sprintf("Should be at most %s characters.", formatThreshold(threshold))
	case model.RulePattern:
		return "Invalid format."
	case model.RuleMin:
		return fmt.Sprintf("Should be at least %s.", formatThreshold(threshold))
	case model.RuleMax:
		return fmt.Sprintf("Should be at most %s.", formatThreshold(threshold))
	case model.RuleType:
		return "Should be an integer."
	case model.RuleMinItems:
		return fmt.Sprintf("Should have at least %s items.", formatThreshold(threshold))
	case model.RuleMaxItems:
		return fmt.Sprintf("Should have at most %s items.", formatThreshold(threshold))
	default:
		return "Invalid value."
	}
}

// messageAliases lists the alternative keys a schema may use for a rule's
// custom message. Schemas often reuse the source keyword names.
var messageAliases = map[string][]string{
	model.RuleMin:  {"minimum"},
	model.RuleMax:  {"maximum"},
	model.RuleType: {"integer"},
}

func (v *validator) message(field model.Field, rule string, threshold any) string {
	if msg, ok := field.Message(rule); ok {
		return msg
	}
	for _, alias := range messageAliases[rule] {
		if msg, ok := field.Message(alias); ok {
			return msg
		}
	}
	return v.cfg.messages(rule, threshold)
}

func formatThreshold(threshold any) string {
	switch typed := threshold.(type) {
	case int:
		return strconv.Itoa(typed)
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64)
	case nil:
		return ""
	default:
		return fmt.Sprint(typed)
	}
}
