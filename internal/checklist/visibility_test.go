package checklist

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/SebastianInformatico/COTRAQ-sub000/internal/model"
)

func conditionalItem(condition string, rules ...model.ConditionalRule) model.ChecklistItemDefinition {
	return model.ChecklistItemDefinition{
		ID:   uuid.New(),
		Kind: model.AnswerText,
		Conditional: &model.ConditionalLogic{
			Condition: condition,
			Rules:     rules,
		},
	}
}

func TestShouldShow_NoConditionalAlwaysVisible(t *testing.T) {
	item := model.ChecklistItemDefinition{ID: uuid.New(), Kind: model.AnswerText}
	assert.True(t, ShouldShow(item, nil))

	item.Conditional = &model.ConditionalLogic{Condition: "AND"}
	assert.True(t, ShouldShow(item, map[uuid.UUID]ResponseValue{}))
}

func TestShouldShow_EqualsCaseInsensitive(t *testing.T) {
	ref := uuid.New()
	item := conditionalItem("AND", model.ConditionalRule{ItemID: ref, Operator: "equals", Value: "Yes"})

	prior := map[uuid.UUID]ResponseValue{ref: BoolValue(true)}
	assert.True(t, ShouldShow(item, prior))

	prior[ref] = BoolValue(false)
	assert.False(t, ShouldShow(item, prior))

	prior[ref] = TextValue("yes")
	assert.True(t, ShouldShow(item, prior))
}

func TestShouldShow_NotEquals(t *testing.T) {
	ref := uuid.New()
	item := conditionalItem("AND", model.ConditionalRule{ItemID: ref, Operator: "not_equals", Value: "ok"})

	prior := map[uuid.UUID]ResponseValue{ref: TextValue("worn")}
	assert.True(t, ShouldShow(item, prior))

	prior[ref] = TextValue("OK")
	assert.False(t, ShouldShow(item, prior))
}

func TestShouldShow_ContainsSubstring(t *testing.T) {
	ref := uuid.New()
	item := conditionalItem("AND", model.ConditionalRule{ItemID: ref, Operator: "contains", Value: "leak"})

	prior := map[uuid.UUID]ResponseValue{ref: TextValue("small oil LEAK near axle")}
	assert.True(t, ShouldShow(item, prior))

	prior[ref] = TextValue("all dry")
	assert.False(t, ShouldShow(item, prior))
}

func TestShouldShow_ContainsMultiselectMembership(t *testing.T) {
	ref := uuid.New()
	item := conditionalItem("AND", model.ConditionalRule{ItemID: ref, Operator: "contains", Value: "helmet"})

	prior := map[uuid.UUID]ResponseValue{ref: JSONValue(json.RawMessage(`["gloves","helmet"]`))}
	assert.True(t, ShouldShow(item, prior))

	// Membership, not substring: "helm" is not an element.
	item = conditionalItem("AND", model.ConditionalRule{ItemID: ref, Operator: "contains", Value: "helm"})
	assert.False(t, ShouldShow(item, prior))
}

func TestShouldShow_NumericComparisons(t *testing.T) {
	ref := uuid.New()
	prior := map[uuid.UUID]ResponseValue{ref: NumberValue(7.5)}

	item := conditionalItem("AND", model.ConditionalRule{ItemID: ref, Operator: "greater_than", Value: "7"})
	assert.True(t, ShouldShow(item, prior))

	item = conditionalItem("AND", model.ConditionalRule{ItemID: ref, Operator: "less_than", Value: "7"})
	assert.False(t, ShouldShow(item, prior))

	// Non-numeric operand fails closed.
	item = conditionalItem("AND", model.ConditionalRule{ItemID: ref, Operator: "greater_than", Value: "high"})
	assert.False(t, ShouldShow(item, prior))
}

func TestShouldShow_AndRequiresAllRules(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	item := conditionalItem("AND",
		model.ConditionalRule{ItemID: a, Operator: "equals", Value: "yes"},
		model.ConditionalRule{ItemID: b, Operator: "equals", Value: "yes"},
	)

	prior := map[uuid.UUID]ResponseValue{a: BoolValue(true), b: BoolValue(true)}
	assert.True(t, ShouldShow(item, prior))

	prior[b] = BoolValue(false)
	assert.False(t, ShouldShow(item, prior))
}

func TestShouldShow_OrRequiresAnyRule(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	item := conditionalItem("or",
		model.ConditionalRule{ItemID: a, Operator: "equals", Value: "yes"},
		model.ConditionalRule{ItemID: b, Operator: "equals", Value: "yes"},
	)

	prior := map[uuid.UUID]ResponseValue{a: BoolValue(false), b: BoolValue(true)}
	assert.True(t, ShouldShow(item, prior))

	prior[b] = BoolValue(false)
	assert.False(t, ShouldShow(item, prior))

	// One satisfied rule carries the OR even when the other references an
	// unanswered item.
	prior = map[uuid.UUID]ResponseValue{a: BoolValue(true)}
	assert.True(t, ShouldShow(item, prior))
}

func TestShouldShow_FailsClosed(t *testing.T) {
	ref := uuid.New()

	// Unanswered referenced item.
	item := conditionalItem("AND", model.ConditionalRule{ItemID: ref, Operator: "equals", Value: "yes"})
	assert.False(t, ShouldShow(item, map[uuid.UUID]ResponseValue{}))

	// Empty answer.
	prior := map[uuid.UUID]ResponseValue{ref: TextValue("   ")}
	assert.False(t, ShouldShow(item, prior))

	// Unknown operator.
	item = conditionalItem("AND", model.ConditionalRule{ItemID: ref, Operator: "matches", Value: "yes"})
	prior[ref] = TextValue("yes")
	assert.False(t, ShouldShow(item, prior))

	// Unknown combinator.
	item = conditionalItem("XOR", model.ConditionalRule{ItemID: ref, Operator: "equals", Value: "yes"})
	assert.False(t, ShouldShow(item, prior))
}
