package checklist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SebastianInformatico/COTRAQ-sub000/internal/model"
)

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

func TestValidate_RequiredEmpty(t *testing.T) {
	item := model.ChecklistItemDefinition{Kind: model.AnswerText, Required: true}

	result := Validate(item, "", nil)
	require.False(t, result.Valid)
	assert.Equal(t, []string{"required"}, result.Errors)

	// Whitespace-only counts as empty too.
	result = Validate(item, "   ", nil)
	require.False(t, result.Valid)
	assert.Equal(t, []string{"required"}, result.Errors)
}

func TestValidate_OptionalEmptyPassesRegardlessOfRules(t *testing.T) {
	item := model.ChecklistItemDefinition{
		Kind:     model.AnswerText,
		Required: false,
		Rules: &model.ValidationRules{
			MinLength: intPtr(10),
			Pattern:   "^[A-Z]+$",
		},
	}

	result := Validate(item, "", nil)
	assert.True(t, result.Valid)
	assert.Empty(t, result.Errors)
}

func TestValidate_YesNo(t *testing.T) {
	item := model.ChecklistItemDefinition{Kind: model.AnswerYesNo, Required: true}

	for _, raw := range []string{"yes", "Yes", "SI", "sí", "true", "no", "FALSE", "  no  "} {
		result := Validate(item, raw, nil)
		assert.True(t, result.Valid, "expected %q to be accepted", raw)
	}

	result := Validate(item, "maybe", nil)
	require.False(t, result.Valid)
	assert.Contains(t, result.Errors[0], "maybe")
}

func TestYesNoCompliant(t *testing.T) {
	verdict, found := YesNoCompliant("Sí")
	require.True(t, found)
	assert.True(t, verdict)

	verdict, found = YesNoCompliant("no")
	require.True(t, found)
	assert.False(t, verdict)

	_, found = YesNoCompliant("quizás")
	assert.False(t, found)
}

func TestValidate_NumberBounds(t *testing.T) {
	item := model.ChecklistItemDefinition{
		Kind:     model.AnswerNumber,
		Required: true,
		Rules:    &model.ValidationRules{Min: floatPtr(2), Max: floatPtr(8)},
	}

	assert.True(t, Validate(item, "2", nil).Valid)
	assert.True(t, Validate(item, "8", nil).Valid)
	assert.True(t, Validate(item, "5.5", nil).Valid)

	result := Validate(item, "1.9", nil)
	require.False(t, result.Valid)
	assert.Contains(t, result.Errors[0], "below minimum")

	result = Validate(item, "8.1", nil)
	require.False(t, result.Valid)
	assert.Contains(t, result.Errors[0], "above maximum")

	result = Validate(item, "not-a-number", nil)
	require.False(t, result.Valid)
	assert.Contains(t, result.Errors[0], "not a number")
}

func TestValidate_NumberExactValueWhenMinEqualsMax(t *testing.T) {
	item := model.ChecklistItemDefinition{
		Kind:  model.AnswerNumber,
		Rules: &model.ValidationRules{Min: floatPtr(4), Max: floatPtr(4)},
	}

	assert.True(t, Validate(item, "4", nil).Valid)
	assert.False(t, Validate(item, "4.01", nil).Valid)
}

func TestValidate_TextLengthAndPattern(t *testing.T) {
	item := model.ChecklistItemDefinition{
		Kind: model.AnswerText,
		Rules: &model.ValidationRules{
			MinLength:      intPtr(3),
			MaxLength:      intPtr(5),
			Pattern:        "^[A-Z]+$",
			PatternMessage: "uppercase letters only",
		},
	}

	assert.True(t, Validate(item, "ABC", nil).Valid)

	result := Validate(item, "AB", nil)
	require.False(t, result.Valid)
	assert.Contains(t, result.Errors[0], "at least 3")

	result = Validate(item, "ABCDEF", nil)
	require.False(t, result.Valid)
	assert.Contains(t, result.Errors[0], "at most 5")

	result = Validate(item, "abc", nil)
	require.False(t, result.Valid)
	assert.Equal(t, []string{"uppercase letters only"}, result.Errors)
}

func TestValidate_TextLengthCountsRunes(t *testing.T) {
	item := model.ChecklistItemDefinition{
		Kind:  model.AnswerText,
		Rules: &model.ValidationRules{MaxLength: intPtr(4)},
	}

	// Four runes, more than four bytes.
	assert.True(t, Validate(item, "ñañá", nil).Valid)
}

func TestValidate_TextPatternFallbackMessage(t *testing.T) {
	item := model.ChecklistItemDefinition{
		Kind:  model.AnswerText,
		Rules: &model.ValidationRules{Pattern: "^[0-9]+$"},
	}

	result := Validate(item, "abc", nil)
	require.False(t, result.Valid)
	assert.Equal(t, []string{"invalid format"}, result.Errors)
}

func TestValidate_TextAccumulatesErrors(t *testing.T) {
	item := model.ChecklistItemDefinition{
		Kind: model.AnswerText,
		Rules: &model.ValidationRules{
			MinLength: intPtr(10),
			Pattern:   "^[A-Z]+$",
		},
	}

	result := Validate(item, "abc", nil)
	require.False(t, result.Valid)
	assert.Len(t, result.Errors, 2)
}

func TestValidate_Select(t *testing.T) {
	item := model.ChecklistItemDefinition{
		Kind:    model.AnswerSelect,
		Options: []string{"ok", "worn", "replace"},
	}

	assert.True(t, Validate(item, "worn", nil).Valid)
	assert.True(t, Validate(item, "  ok  ", nil).Valid)

	result := Validate(item, "broken", nil)
	require.False(t, result.Valid)
	assert.Contains(t, result.Errors[0], "not an allowed option")
}

func TestValidate_Multiselect(t *testing.T) {
	item := model.ChecklistItemDefinition{
		Kind:    model.AnswerMultiselect,
		Options: []string{"gloves", "helmet", "vest"},
	}

	assert.True(t, Validate(item, `["gloves","vest"]`, nil).Valid)
	assert.True(t, Validate(item, `[]`, nil).Valid)

	result := Validate(item, `["gloves","boots"]`, nil)
	require.False(t, result.Valid)
	assert.Contains(t, result.Errors[0], "boots")

	result = Validate(item, `not json`, nil)
	require.False(t, result.Valid)
	assert.Equal(t, []string{"answer is not a JSON array"}, result.Errors)
}

func TestValidate_PhotoRequiresReference(t *testing.T) {
	item := model.ChecklistItemDefinition{Kind: model.AnswerPhoto, Required: true}

	result := Validate(item, "", nil)
	require.False(t, result.Valid)
	assert.Equal(t, []string{"required"}, result.Errors)

	assert.True(t, Validate(item, "", []string{"s3://bucket/tire.jpg"}).Valid)
}

func TestValidate_SignatureOptionalEmpty(t *testing.T) {
	item := model.ChecklistItemDefinition{Kind: model.AnswerSignature, Required: false}
	assert.True(t, Validate(item, "", nil).Valid)
}

func TestValidate_UnknownKind(t *testing.T) {
	item := model.ChecklistItemDefinition{Kind: model.AnswerKind("barcode"), Required: true}

	result := Validate(item, "123", nil)
	require.False(t, result.Valid)
	assert.Contains(t, result.Errors[0], "barcode")
}
