package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/grovetools/hydrate/config"
	"github.com/grovetools/hydrate/errors"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Validator checks a whole configuration document, extension sections
// included, against the composed schema.
type Validator struct {
	schema *jsonschema.Schema
}

// NewValidator composes and compiles the schema.
func NewValidator() (*Validator, error) {
	data, err := Compose()
	if err != nil {
		return nil, err
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("hydrate.full.json", bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("failed to add schema resource: %w", err)
	}
	schema, err := compiler.Compile("hydrate.full.json")
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}
	return &Validator{schema: schema}, nil
}

// Validate checks a decoded document. It returns a CONFIG_INVALID error
// listing every violation.
func (v *Validator) Validate(doc interface{}) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal config to JSON for validation: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var value interface{}
	if err := dec.Decode(&value); err != nil {
		return fmt.Errorf("failed to unmarshal JSON for validation: %w", err)
	}

	err = v.schema.Validate(value)
	if err == nil {
		return nil
	}
	verr, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return errors.Wrap(err, errors.ErrCodeConfigInvalid, "schema validation failed")
	}
	var problems []string
	collect(verr, &problems)
	return errors.ConfigInvalid("schema validation failed:\n"+strings.Join(problems, "\n")).
		WithDetail("problems", problems)
}

// ValidateFile reads and checks the configuration file at path.
func (v *Validator) ValidateFile(path string) error {
	doc, err := config.ReadDocument(path)
	if err != nil {
		return err
	}
	if err := v.Validate(doc); err != nil {
		if herr, ok := errors.As(err); ok {
			return herr.WithDetail("path", path)
		}
		return err
	}
	return nil
}

func collect(err *jsonschema.ValidationError, problems *[]string) {
	if len(err.Causes) == 0 {
		loc := err.InstanceLocation
		if loc == "" {
			loc = "/"
		}
		*problems = append(*problems, fmt.Sprintf("- %s: %s", loc, err.Message))
	}
	for _, cause := range err.Causes {
		collect(cause, problems)
	}
}
