package config

import (
	"encoding/json"
	"reflect"
	"sync"
	"time"

	"github.com/grovetools/focusguard/schema"
	"github.com/invopop/jsonschema"
)

// durationPattern matches strings accepted by time.ParseDuration.
const durationPattern = `^([0-9]+(\.[0-9]+)?(ns|us|µs|ms|s|m|h))+$`

//go:generate go run ../tools/schema-generator -o ../schema/focus.schema.json

// GenerateSchema generates the JSON Schema for focus.toml / focus.yml.
func GenerateSchema() ([]byte, error) {
	r := &jsonschema.Reflector{
		// Unknown keys are rejected.
		AllowAdditionalProperties: false,
		ExpandedStruct:            true,
		// Every key has a default.
		RequiredFromJSONSchemaTags: true,
		FieldNameTag:               "yaml",
		Mapper: func(t reflect.Type) *jsonschema.Schema {
			if t == reflect.TypeOf(time.Duration(0)) {
				return &jsonschema.Schema{
					Type:        "string",
					Pattern:     durationPattern,
					Description: "Go duration string, e.g. 30s, 10m, 1h",
				}
			}
			return nil
		},
	}

	s := r.Reflect(&Config{})
	s.Title = "focusguard configuration"
	s.Description = "Settings for the focus daemon."

	return json.MarshalIndent(s, "", "  ")
}

var (
	validatorOnce sync.Once
	validator     *schema.Validator
	validatorErr  error
)

// schemaValidator compiles the generated schema once per process.
func schemaValidator() (*schema.Validator, error) {
	validatorOnce.Do(func() {
		data, err := GenerateSchema()
		if err != nil {
			validatorErr = err
			return
		}
		validator, validatorErr = schema.NewValidator(data)
	})
	return validator, validatorErr
}
