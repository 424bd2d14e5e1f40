package sites

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed site_config_schema.json
var siteConfigSchema string

// ConfigValidationError reports why a site configuration file was rejected.
type ConfigValidationError struct {
	Problems []string
}

func (e *ConfigValidationError) Error() string {
	return fmt.Sprintf("site config validation failed: %s", strings.Join(e.Problems, "; "))
}

// validateConfigJSON checks an override file against the embedded schema
// before it is unmarshaled, so malformed records fail loudly at startup
// instead of mid-run.
func validateConfigJSON(data []byte) error {
	schemaLoader := gojsonschema.NewStringLoader(siteConfigSchema)
	documentLoader := gojsonschema.NewBytesLoader(data)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("failed to run schema validation: %w", err)
	}
	if result.Valid() {
		return nil
	}

	problems := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		problems = append(problems, fmt.Sprintf("%s: %s", desc.Field(), desc.Description()))
	}
	return &ConfigValidationError{Problems: problems}
}
