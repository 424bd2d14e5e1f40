package forms

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// placeholderOptions are dropdown entries that are prompts, not answers.
var placeholderOptions = map[string]bool{
	"select...":        true,
	"choose...":        true,
	"select one":       true,
	"please select":    true,
	"select an option": true,
	"":                 true,
}

// skippedInputTypes are input elements that are not fillable fields.
var skippedInputTypes = map[string]bool{
	"hidden": true,
	"submit": true,
	"button": true,
	"image":  true,
	"reset":  true,
}

// Discover parses a rendered HTML snapshot and enumerates all fillable form
// controls into FieldDescriptors. Controls without any usable identifier are
// still returned; classification decides what to do with them.
func Discover(html string) ([]FieldDescriptor, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse page HTML: %w", err)
	}

	var fields []FieldDescriptor
	radioGroups := make(map[string]int) // name -> index into fields
	doc.Find("input, select, textarea").Each(func(i int, sel *goquery.Selection) {
		if name, ok := radioName(sel); ok {
			addRadioOption(doc, sel, name, &fields, radioGroups)
			return
		}
		fd, ok := describe(doc, sel)
		if !ok {
			return
		}
		fields = append(fields, fd)
	})
	return fields, nil
}

// validationErrorSelector matches the markup hosts commonly use for inline
// form errors.
const validationErrorSelector = `[role="alert"], .error, .error-message, .field-error, .validation-error`

// ValidationErrors returns the visible text of validation-error elements on
// the page. Unparseable HTML yields none.
func ValidationErrors(html string) []string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}
	var msgs []string
	doc.Find(validationErrorSelector).Each(func(_ int, sel *goquery.Selection) {
		if text := strings.TrimSpace(sel.Text()); text != "" {
			msgs = append(msgs, text)
		}
	})
	return msgs
}

// radioName reports whether the element is a named radio input. Named radios
// are aggregated into one descriptor per group; nameless ones fall through to
// the regular path.
func radioName(sel *goquery.Selection) (string, bool) {
	if goquery.NodeName(sel) != "input" {
		return "", false
	}
	if strings.ToLower(sel.AttrOr("type", "text")) != "radio" {
		return "", false
	}
	name := sel.AttrOr("name", "")
	return name, name != ""
}

// addRadioOption folds one radio input into its group's descriptor, creating
// the group on first sight. Each input's label becomes an option; the group
// question comes from an enclosing fieldset legend when present.
func addRadioOption(doc *goquery.Document, sel *goquery.Selection, name string, fields *[]FieldDescriptor, groups map[string]int) {
	idx, ok := groups[name]
	if !ok {
		fd := FieldDescriptor{
			Name:     name,
			Kind:     KindRadio,
			Selector: fmt.Sprintf("input[name=%q]", name),
		}
		if legend := sel.Closest("fieldset").Find("legend").First(); legend.Length() > 0 {
			fd.Label = strings.TrimSpace(legend.Text())
		}
		*fields = append(*fields, fd)
		idx = len(*fields) - 1
		groups[name] = idx
	}

	label := labelFor(doc, sel, sel.AttrOr("id", ""))
	(*fields)[idx].Options = append((*fields)[idx].Options, Option{
		Label: label,
		Value: sel.AttrOr("value", label),
	})
}

// describe builds a FieldDescriptor for a single element, returning false for
// elements that should not be filled.
func describe(doc *goquery.Document, sel *goquery.Selection) (FieldDescriptor, bool) {
	tag := goquery.NodeName(sel)

	fd := FieldDescriptor{
		Name:        sel.AttrOr("name", ""),
		ID:          sel.AttrOr("id", ""),
		Placeholder: sel.AttrOr("placeholder", ""),
	}

	switch tag {
	case "select":
		fd.Kind = KindSelect
		sel.Find("option").Each(func(_ int, opt *goquery.Selection) {
			label := strings.TrimSpace(opt.Text())
			if placeholderOptions[strings.ToLower(label)] {
				return
			}
			fd.Options = append(fd.Options, Option{
				Label: label,
				Value: opt.AttrOr("value", label),
			})
		})
	case "textarea":
		fd.Kind = KindTextarea
	case "input":
		typ := strings.ToLower(sel.AttrOr("type", "text"))
		if skippedInputTypes[typ] {
			return fd, false
		}
		switch typ {
		case "file":
			fd.Kind = KindFile
		case "radio":
			fd.Kind = KindRadio
		case "checkbox":
			fd.Kind = KindCheckbox
		default:
			fd.Kind = KindText
		}
	default:
		return fd, false
	}

	fd.Label = labelFor(doc, sel, fd.ID)
	fd.Selector = selectorFor(sel, tag, fd)
	return fd, true
}

// labelFor finds the question text associated with a control, trying the
// strongest associations first.
func labelFor(doc *goquery.Document, sel *goquery.Selection, id string) string {
	if id != "" {
		if lbl := doc.Find(fmt.Sprintf("label[for=%q]", id)); lbl.Length() > 0 {
			if text := strings.TrimSpace(lbl.First().Text()); text != "" {
				return text
			}
		}
	}
	if aria := strings.TrimSpace(sel.AttrOr("aria-label", "")); aria != "" {
		return aria
	}
	if ref := sel.AttrOr("aria-labelledby", ""); ref != "" {
		if lbl := doc.Find("#" + ref); lbl.Length() > 0 {
			if text := strings.TrimSpace(lbl.First().Text()); text != "" {
				return text
			}
		}
	}
	// Control nested inside its own label element.
	if parent := sel.ParentsFiltered("label").First(); parent.Length() > 0 {
		if text := strings.TrimSpace(parent.Text()); text != "" {
			return text
		}
	}
	// Nearest preceding sibling label.
	if prev := sel.PrevAllFiltered("label").First(); prev.Length() > 0 {
		return strings.TrimSpace(prev.Text())
	}
	return ""
}

// selectorFor builds a CSS selector that resolves to the element in the live
// page. Prefers id, then name, then a structural nth-child path.
func selectorFor(sel *goquery.Selection, tag string, fd FieldDescriptor) string {
	if fd.ID != "" {
		return "#" + cssEscape(fd.ID)
	}
	if fd.Name != "" {
		return fmt.Sprintf("%s[name=%q]", tag, fd.Name)
	}
	return structuralPath(sel)
}

// structuralPath walks up from the element building an nth-child path until it
// reaches an ancestor with an id or the body.
func structuralPath(sel *goquery.Selection) string {
	var parts []string
	cur := sel
	for cur.Length() > 0 {
		tag := goquery.NodeName(cur)
		if tag == "body" || tag == "html" {
			break
		}
		if id := cur.AttrOr("id", ""); id != "" {
			parts = append([]string{"#" + cssEscape(id)}, parts...)
			break
		}
		idx := cur.Index() + 1 // Index is zero-based among element siblings
		parts = append([]string{fmt.Sprintf("%s:nth-child(%d)", tag, idx)}, parts...)
		cur = cur.Parent()
	}
	return strings.Join(parts, " > ")
}

// cssEscape handles the characters that commonly appear in generated ids.
func cssEscape(s string) string {
	replacer := strings.NewReplacer(":", "\\:", ".", "\\.", "[", "\\[", "]", "\\]")
	return replacer.Replace(s)
}
