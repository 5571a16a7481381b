package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (e *ValidationErrors) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, err := range e.Errors {
		msgs = append(msgs, err.Field+": "+err.Message)
	}
	return strings.Join(msgs, "; ")
}

// Field builds a single-field validation failure.
func Field(field, message string) error {
	return &ValidationErrors{Errors: []ValidationError{{Field: field, Message: message}}}
}

// Validator checks document data against template schemas. Compiled schemas
// are cached by their JSON form, since many documents share one template.
type Validator struct {
	mu       sync.Mutex
	compiled map[string]*gojsonschema.Schema
}

func NewValidator() *Validator {
	return &Validator{compiled: make(map[string]*gojsonschema.Schema)}
}

// Validate checks data against schema. An empty schema accepts anything.
func (v *Validator) Validate(data map[string]interface{}, schema map[string]interface{}) error {
	if len(schema) == 0 {
		return nil
	}
	if data == nil {
		data = map[string]interface{}{}
	}

	compiled, err := v.compile(schema)
	if err != nil {
		return err
	}

	result, err := compiled.Validate(gojsonschema.NewGoLoader(data))
	if err != nil {
		return fmt.Errorf("validate data: %w", err)
	}
	if result.Valid() {
		return nil
	}

	out := &ValidationErrors{}
	for _, desc := range result.Errors() {
		out.Errors = append(out.Errors, ValidationError{Field: fieldOf(desc), Message: desc.Description()})
	}
	sort.SliceStable(out.Errors, func(i, j int) bool { return out.Errors[i].Field < out.Errors[j].Field })
	return out
}

// CheckSchema makes sure a template schema compiles before it is stored.
func (v *Validator) CheckSchema(schema map[string]interface{}) error {
	if len(schema) == 0 {
		return nil
	}
	_, err := v.compile(schema)
	return err
}

func (v *Validator) compile(schema map[string]interface{}) (*gojsonschema.Schema, error) {
	raw, err := json.Marshal(schema)
	if err != nil {
		return nil, fmt.Errorf("encode schema: %w", err)
	}
	key := string(raw)

	v.mu.Lock()
	defer v.mu.Unlock()

	if s, ok := v.compiled[key]; ok {
		return s, nil
	}
	s, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return nil, Field("schema", err.Error())
	}
	v.compiled[key] = s
	return s, nil
}

// fieldOf names the offending property. Missing required properties are
// reported by gojsonschema against their parent, so use the property itself.
func fieldOf(desc gojsonschema.ResultError) string {
	field := desc.Field()
	if desc.Type() == "required" {
		if prop, ok := desc.Details()["property"].(string); ok {
			if field == "(root)" {
				return prop
			}
			return field + "." + prop
		}
	}
	return field
}

func IsValidationError(err error) bool {
	var ve *ValidationErrors
	return errors.As(err, &ve)
}

func GetValidationErrors(err error) *ValidationErrors {
	var ve *ValidationErrors
	if errors.As(err, &ve) {
		return ve
	}
	return nil
}
