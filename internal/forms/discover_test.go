package forms

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscover_BasicForm(t *testing.T) {
	html := `<html><body><form>
		<label for="first">First Name</label>
		<input id="first" name="first_name" type="text">
		<label for="email">Email Address</label>
		<input id="email" name="email" type="email">
		<textarea name="cover" placeholder="Why do you want to work here?"></textarea>
		<input type="hidden" name="token" value="x">
		<input type="submit" value="Apply">
	</form></body></html>`

	fields, err := Discover(html)
	require.NoError(t, err)
	require.Len(t, fields, 3)

	assert.Equal(t, "First Name", fields[0].Label)
	assert.Equal(t, "#first", fields[0].Selector)
	assert.Equal(t, KindText, fields[0].Kind)

	assert.Equal(t, "Email Address", fields[1].Label)
	assert.Equal(t, KindText, fields[1].Kind)

	assert.Equal(t, KindTextarea, fields[2].Kind)
	assert.Equal(t, `textarea[name="cover"]`, fields[2].Selector)
	assert.Equal(t, "Why do you want to work here?", fields[2].Question())
}

func TestValidationErrors(t *testing.T) {
	html := `<html><body>
		<p role="alert">Email is required</p>
		<div class="error-message">Phone number is invalid</div>
		<div class="error"></div>
		<p>Regular page text</p>
	</body></html>`

	assert.Equal(t,
		[]string{"Email is required", "Phone number is invalid"},
		ValidationErrors(html))
	assert.Empty(t, ValidationErrors("<html><body><p>clean</p></body></html>"))
}

func TestDiscover_SelectSkipsPlaceholderOptions(t *testing.T) {
	html := `<html><body><form>
		<label for="visa">Do you require visa sponsorship?</label>
		<select id="visa" name="visa">
			<option value="">Select...</option>
			<option value="y">Yes, I require sponsorship</option>
			<option value="n">No, I do not require sponsorship</option>
		</select>
	</form></body></html>`

	fields, err := Discover(html)
	require.NoError(t, err)
	require.Len(t, fields, 1)

	field := fields[0]
	assert.Equal(t, KindSelect, field.Kind)
	require.Len(t, field.Options, 2)
	assert.Equal(t, "Yes, I require sponsorship", field.Options[0].Label)
	assert.Equal(t, "y", field.Options[0].Value)
}

func TestDiscover_LabelAssociations(t *testing.T) {
	tests := []struct {
		name  string
		html  string
		label string
	}{
		{
			name:  "aria-label",
			html:  `<input type="text" aria-label="Phone Number">`,
			label: "Phone Number",
		},
		{
			name:  "aria-labelledby",
			html:  `<span id="q1">GitHub Profile</span><input type="text" aria-labelledby="q1">`,
			label: "GitHub Profile",
		},
		{
			name:  "nested in label",
			html:  `<label>City <input type="text"></label>`,
			label: "City",
		},
		{
			name:  "preceding label",
			html:  `<label>Degree</label><input type="text" name="degree">`,
			label: "Degree",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields, err := Discover("<html><body><form>" + tt.html + "</form></body></html>")
			require.NoError(t, err)
			require.Len(t, fields, 1)
			assert.Equal(t, tt.label, fields[0].Label)
		})
	}
}

func TestDiscover_StructuralSelectorFallback(t *testing.T) {
	html := `<html><body><div id="app"><div><input type="text"></div></div></body></html>`

	fields, err := Discover(html)
	require.NoError(t, err)
	require.Len(t, fields, 1)
	assert.Equal(t, "#app > div:nth-child(1) > input:nth-child(1)", fields[0].Selector)
}

func TestDiscover_RadioGroupAggregated(t *testing.T) {
	html := `<html><body><form><fieldset>
		<legend>Have you previously been employed here?</legend>
		<label><input type="radio" name="prev" value="yes"> Yes</label>
		<label><input type="radio" name="prev" value="no"> No</label>
	</fieldset></form></body></html>`

	fields, err := Discover(html)
	require.NoError(t, err)
	require.Len(t, fields, 1)

	field := fields[0]
	assert.Equal(t, KindRadio, field.Kind)
	assert.Equal(t, "Have you previously been employed here?", field.Label)
	assert.Equal(t, `input[name="prev"]`, field.Selector)
	require.Len(t, field.Options, 2)
	assert.Equal(t, "yes", field.Options[0].Value)
	assert.Equal(t, "no", field.Options[1].Value)
}

func TestIdentifierText(t *testing.T) {
	fd := FieldDescriptor{Label: "First Name", Name: "fname", ID: "f1"}
	assert.Equal(t, "first name fname f1", fd.IdentifierText())
}

func TestDiscover_FileAndCheckbox(t *testing.T) {
	html := `<html><body><form>
		<input type="file" name="resume" id="resume-upload">
		<input type="checkbox" name="consent" id="consent">
	</form></body></html>`

	fields, err := Discover(html)
	require.NoError(t, err)
	require.Len(t, fields, 2)
	assert.Equal(t, KindFile, fields[0].Kind)
	assert.Equal(t, KindCheckbox, fields[1].Kind)
}
