package checklist

import (
	"strings"

	"github.com/google/uuid"

	"github.com/SebastianInformatico/COTRAQ-sub000/internal/model"
)

const (
	conditionAnd = "AND"
	conditionOr  = "OR"
)

// ShouldShow decides whether an item with conditional logic is presented
// and required, given the answers collected so far. Items without
// conditional logic are always visible.
//
// Evaluation fails closed: a sub-rule referencing an unanswered item, an
// unknown operator or a malformed rule evaluates to false rather than
// erroring out.
func ShouldShow(item model.ChecklistItemDefinition, prior map[uuid.UUID]ResponseValue) bool {
	logic := item.Conditional
	if logic == nil || len(logic.Rules) == 0 {
		return true
	}

	switch strings.ToUpper(strings.TrimSpace(logic.Condition)) {
	case conditionAnd:
		for _, rule := range logic.Rules {
			if !evalRule(rule, prior) {
				return false
			}
		}
		return true
	case conditionOr:
		for _, rule := range logic.Rules {
			if evalRule(rule, prior) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

func evalRule(rule model.ConditionalRule, prior map[uuid.UUID]ResponseValue) bool {
	answer, found := prior[rule.ItemID]
	if !found || answer.IsEmpty() {
		return false
	}

	switch rule.Operator {
	case "equals":
		return equalFold(answer.String(), rule.Value)
	case "not_equals":
		return !equalFold(answer.String(), rule.Value)
	case "contains":
		return contains(answer, rule.Value)
	case "greater_than":
		left, lok := answer.AsNumber()
		right, rok := parseNumber(rule.Value)
		return lok && rok && left > right
	case "less_than":
		left, lok := answer.AsNumber()
		right, rok := parseNumber(rule.Value)
		return lok && rok && left < right
	default:
		return false
	}
}

// contains is substring match for scalar answers and membership for
// multiselect answers.
func contains(answer ResponseValue, value string) bool {
	if members, isArray := answer.Members(); isArray {
		for _, member := range members {
			if equalFold(member, value) {
				return true
			}
		}
		return false
	}
	return strings.Contains(
		strings.ToLower(answer.String()),
		strings.ToLower(strings.TrimSpace(value)),
	)
}

func equalFold(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

func parseNumber(raw string) (float64, bool) {
	return TextValue(raw).AsNumber()
}
