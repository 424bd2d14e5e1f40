// Package forms discovers fillable form fields from a rendered page snapshot.
package forms

import "strings"

// InputKind identifies the broad class of a form control.
type InputKind string

// Input kinds recognized by field discovery.
const (
	KindText     InputKind = "text"
	KindSelect   InputKind = "select"
	KindTextarea InputKind = "textarea"
	KindFile     InputKind = "file"
	KindRadio    InputKind = "radio"
	KindCheckbox InputKind = "checkbox"
)

// Option is a single selectable entry in a dropdown or radio group.
type Option struct {
	Label string
	Value string
}

// FieldDescriptor describes one discovered form control. Produced fresh per
// discovery pass; never persisted.
type FieldDescriptor struct {
	// Selector is a CSS selector that resolves to this control in the live page.
	Selector string

	// Raw identifiers gathered from the markup.
	Name        string
	ID          string
	Placeholder string
	Label       string

	Kind    InputKind
	Options []Option
}

// IdentifierText concatenates all available identifiers, lower-cased, for
// pattern classification. Label text comes first since it usually carries the
// actual question wording.
func (f *FieldDescriptor) IdentifierText() string {
	parts := make([]string, 0, 4)
	for _, p := range []string{f.Label, f.Placeholder, f.Name, f.ID} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.ToLower(strings.Join(parts, " "))
}

// Question returns the best human-readable question text for this field.
func (f *FieldDescriptor) Question() string {
	if f.Label != "" {
		return f.Label
	}
	if f.Placeholder != "" {
		return f.Placeholder
	}
	if f.Name != "" {
		return f.Name
	}
	return f.ID
}
