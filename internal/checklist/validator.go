package checklist

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/SebastianInformatico/COTRAQ-sub000/internal/model"
)

// ValidationResult is the outcome of validating a single raw answer.
// Errors are human-readable and never raised as Go errors; the caller
// decides whether to reject the submission.
type ValidationResult struct {
	Valid  bool
	Errors []string
}

func ok() ValidationResult {
	return ValidationResult{Valid: true}
}

func fail(errs ...string) ValidationResult {
	return ValidationResult{Valid: false, Errors: errs}
}

// yesNoCanonical is the accepted answer set for yes_no items. The fleet
// operates in Spanish, so locale equivalents are accepted alongside the
// English and boolean spellings.
var yesNoCanonical = map[string]bool{
	"yes":   true,
	"si":    true,
	"sí":    true,
	"true":  true,
	"no":    false,
	"false": false,
}

// Validate checks a raw answer against the item's declared kind and its
// validation rules. Pure function: no persistence, no side effects.
//
// photoRefs carries the storage references for photo/signature items; for
// every other kind the answer travels in raw.
func Validate(item model.ChecklistItemDefinition, raw string, photoRefs []string) ValidationResult {
	if isBlank(item, raw, photoRefs) {
		if item.Required {
			return fail("required")
		}
		return ok()
	}

	switch item.Kind {
	case model.AnswerYesNo:
		return validateYesNo(raw)
	case model.AnswerNumber:
		return validateNumber(item, raw)
	case model.AnswerText:
		return validateText(item, raw)
	case model.AnswerSelect:
		return validateSelect(item, raw)
	case model.AnswerMultiselect:
		return validateMultiselect(item, raw)
	case model.AnswerPhoto, model.AnswerSignature:
		// Presence is checked above; deep validation of the binary is the
		// storage collaborator's problem.
		return ok()
	default:
		return fail(fmt.Sprintf("unknown answer kind %q", item.Kind))
	}
}

// YesNoCompliant maps an accepted yes_no answer onto a compliance verdict.
// The second return is false when the answer is not in the canonical set.
func YesNoCompliant(raw string) (bool, bool) {
	v, found := yesNoCanonical[strings.ToLower(strings.TrimSpace(raw))]
	return v, found
}

func isBlank(item model.ChecklistItemDefinition, raw string, photoRefs []string) bool {
	switch item.Kind {
	case model.AnswerPhoto, model.AnswerSignature:
		return len(photoRefs) == 0 && strings.TrimSpace(raw) == ""
	default:
		return strings.TrimSpace(raw) == ""
	}
}

func validateYesNo(raw string) ValidationResult {
	if _, found := YesNoCompliant(raw); !found {
		return fail(fmt.Sprintf("answer %q is not a yes/no value", strings.TrimSpace(raw)))
	}
	return ok()
}

func validateNumber(item model.ChecklistItemDefinition, raw string) ValidationResult {
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return fail(fmt.Sprintf("answer %q is not a number", strings.TrimSpace(raw)))
	}

	// Bounds are inclusive; min == max means exactly one valid value. A
	// misconfigured min > max can legitimately fire both errors at once.
	var errs []string
	if r := item.Rules; r != nil {
		if r.Min != nil && value < *r.Min {
			errs = append(errs, fmt.Sprintf("value %s is below minimum %s",
				formatNumber(value), formatNumber(*r.Min)))
		}
		if r.Max != nil && value > *r.Max {
			errs = append(errs, fmt.Sprintf("value %s is above maximum %s",
				formatNumber(value), formatNumber(*r.Max)))
		}
	}
	if len(errs) > 0 {
		return fail(errs...)
	}
	return ok()
}

func validateText(item model.ChecklistItemDefinition, raw string) ValidationResult {
	var errs []string
	if r := item.Rules; r != nil {
		length := len([]rune(raw))
		if r.MinLength != nil && length < *r.MinLength {
			errs = append(errs, fmt.Sprintf("answer must be at least %d characters", *r.MinLength))
		}
		if r.MaxLength != nil && length > *r.MaxLength {
			errs = append(errs, fmt.Sprintf("answer must be at most %d characters", *r.MaxLength))
		}
		if r.Pattern != "" {
			re, err := regexp.Compile(r.Pattern)
			if err != nil || !re.MatchString(raw) {
				msg := r.PatternMessage
				if msg == "" {
					msg = "invalid format"
				}
				errs = append(errs, msg)
			}
		}
	}
	if len(errs) > 0 {
		return fail(errs...)
	}
	return ok()
}

func validateSelect(item model.ChecklistItemDefinition, raw string) ValidationResult {
	value := strings.TrimSpace(raw)
	for _, opt := range item.Options {
		if opt == value {
			return ok()
		}
	}
	return fail(fmt.Sprintf("answer %q is not an allowed option", value))
}

func validateMultiselect(item model.ChecklistItemDefinition, raw string) ValidationResult {
	var selected []string
	if err := json.Unmarshal([]byte(raw), &selected); err != nil {
		return fail("answer is not a JSON array")
	}

	allowed := make(map[string]struct{}, len(item.Options))
	for _, opt := range item.Options {
		allowed[opt] = struct{}{}
	}

	var invalid []string
	for _, value := range selected {
		if _, found := allowed[value]; !found {
			invalid = append(invalid, value)
		}
	}
	if len(invalid) > 0 {
		return fail(fmt.Sprintf("options not allowed: %s", strings.Join(invalid, ", ")))
	}
	return ok()
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
