// Package checklist implements the compliance core: per-item response
// validation, checklist applicability resolution, conditional item
// visibility and per-checklist compliance aggregation. Everything here is
// a pure function over in-memory data; persistence and HTTP concerns live
// elsewhere.
package checklist

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/SebastianInformatico/COTRAQ-sub000/internal/model"
)

type ValueKind int

const (
	ValueEmpty ValueKind = iota
	ValueBool
	ValueNumber
	ValueText
	ValueJSON
	ValuePhotoRefs
)

// ResponseValue is a tagged variant over the shapes a raw answer can take.
// Exactly one of the payload fields is meaningful, selected by Kind.
type ResponseValue struct {
	Kind   ValueKind
	Bool   bool
	Number float64
	Text   string
	JSON   json.RawMessage
	Refs   []string
}

func BoolValue(v bool) ResponseValue      { return ResponseValue{Kind: ValueBool, Bool: v} }
func NumberValue(v float64) ResponseValue { return ResponseValue{Kind: ValueNumber, Number: v} }
func TextValue(v string) ResponseValue    { return ResponseValue{Kind: ValueText, Text: v} }
func JSONValue(v json.RawMessage) ResponseValue {
	return ResponseValue{Kind: ValueJSON, JSON: v}
}
func PhotoRefsValue(refs []string) ResponseValue {
	return ResponseValue{Kind: ValuePhotoRefs, Refs: refs}
}

// ValueFromResponse lifts the flat persisted columns of a response into the
// tagged variant, keyed by the item's declared answer kind.
func ValueFromResponse(kind model.AnswerKind, resp model.ChecklistResponse) ResponseValue {
	switch kind {
	case model.AnswerYesNo:
		if resp.ValueBool != nil {
			return BoolValue(*resp.ValueBool)
		}
	case model.AnswerNumber:
		if resp.ValueNumber != nil {
			return NumberValue(*resp.ValueNumber)
		}
	case model.AnswerMultiselect:
		if len(resp.ValueJSON) > 0 {
			return JSONValue(resp.ValueJSON)
		}
	case model.AnswerPhoto, model.AnswerSignature:
		if len(resp.PhotoRefs) > 0 {
			return PhotoRefsValue(resp.PhotoRefs)
		}
	default:
		if resp.ValueText != nil {
			return TextValue(*resp.ValueText)
		}
	}
	// Fall through for kind/column mismatches recorded by older clients.
	if resp.ValueText != nil {
		return TextValue(*resp.ValueText)
	}
	return ResponseValue{Kind: ValueEmpty}
}

// String renders the value the way a comparison operand or report cell
// expects to see it.
func (v ResponseValue) String() string {
	switch v.Kind {
	case ValueBool:
		if v.Bool {
			return "yes"
		}
		return "no"
	case ValueNumber:
		return strconv.FormatFloat(v.Number, 'f', -1, 64)
	case ValueText:
		return v.Text
	case ValueJSON:
		return string(v.JSON)
	case ValuePhotoRefs:
		return strings.Join(v.Refs, ",")
	default:
		return ""
	}
}

// AsNumber coerces the value to a float64 for numeric comparisons.
func (v ResponseValue) AsNumber() (float64, bool) {
	switch v.Kind {
	case ValueNumber:
		return v.Number, true
	case ValueText:
		n, err := strconv.ParseFloat(strings.TrimSpace(v.Text), 64)
		return n, err == nil
	case ValueBool:
		if v.Bool {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}

// Members returns the elements of a JSON-array value, if it is one.
func (v ResponseValue) Members() ([]string, bool) {
	if v.Kind != ValueJSON {
		return nil, false
	}
	var items []string
	if err := json.Unmarshal(v.JSON, &items); err != nil {
		return nil, false
	}
	return items, true
}

func (v ResponseValue) IsEmpty() bool {
	switch v.Kind {
	case ValueEmpty:
		return true
	case ValueText:
		return strings.TrimSpace(v.Text) == ""
	case ValuePhotoRefs:
		return len(v.Refs) == 0
	default:
		return false
	}
}
