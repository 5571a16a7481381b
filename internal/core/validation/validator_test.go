package validation

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func leaveSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"days":   map[string]interface{}{"type": "integer", "minimum": 1},
			"reason": map[string]interface{}{"type": "string"},
		},
		"required": []interface{}{"days"},
	}
}

func TestValidate(t *testing.T) {
	v := NewValidator()

	require.NoError(t, v.Validate(map[string]interface{}{"days": 3}, leaveSchema()))
	require.NoError(t, v.Validate(map[string]interface{}{"anything": true}, nil))

	err := v.Validate(map[string]interface{}{"reason": "trip"}, leaveSchema())
	require.Error(t, err)
	assert.True(t, IsValidationError(err))
	ve := GetValidationErrors(err)
	require.NotNil(t, ve)
	assert.NotEmpty(t, ve.Errors)

	err = v.Validate(nil, leaveSchema())
	assert.True(t, IsValidationError(err))
}

func TestCheckSchema(t *testing.T) {
	v := NewValidator()

	require.NoError(t, v.CheckSchema(leaveSchema()))
	require.NoError(t, v.CheckSchema(nil))

	err := v.CheckSchema(map[string]interface{}{"type": 12})
	require.Error(t, err)
	assert.True(t, IsValidationError(err))
}

func TestGetValidationErrors_Wrapped(t *testing.T) {
	err := fmt.Errorf("create: %w", Field("name", "is required"))
	ve := GetValidationErrors(err)
	require.NotNil(t, ve)
	assert.Equal(t, "name: is required", ve.Error())
	assert.Nil(t, GetValidationErrors(fmt.Errorf("plain")))
}

func TestValidate_FieldNames(t *testing.T) {
	v := NewValidator()

	ve := GetValidationErrors(v.Validate(map[string]interface{}{"days": 0, "reason": 5}, leaveSchema()))
	require.NotNil(t, ve)
	require.Len(t, ve.Errors, 2)
	assert.Equal(t, "days", ve.Errors[0].Field)
	assert.Equal(t, "reason", ve.Errors[1].Field)

	ve = GetValidationErrors(v.Validate(map[string]interface{}{}, leaveSchema()))
	require.NotNil(t, ve)
	assert.Equal(t, []ValidationError{{Field: "days", Message: ve.Errors[0].Message}}, ve.Errors)
}

func TestValidator_CachesCompiledSchemas(t *testing.T) {
	v := NewValidator()

	require.NoError(t, v.CheckSchema(leaveSchema()))
	require.NoError(t, v.Validate(map[string]interface{}{"days": 2}, leaveSchema()))
	assert.Len(t, v.compiled, 1)

	require.Error(t, v.CheckSchema(map[string]interface{}{"type": 12}))
	assert.Len(t, v.compiled, 1)
}
