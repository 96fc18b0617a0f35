package config

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSchema(t *testing.T) {
	data, err := GenerateSchema()
	require.NoError(t, err)

	var schema map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &schema))

	assert.Equal(t, "http://json-schema.org/draft-07/schema#", schema["$schema"])
	assert.Equal(t, true, schema["additionalProperties"], "extension sections are allowed")

	props, ok := schema["properties"].(map[string]interface{})
	require.True(t, ok, "schema has properties")
	for _, key := range []string{"version", "defaults", "storage", "rollover", "reminders"} {
		assert.Contains(t, props, key)
	}
	assert.NotContains(t, props, "Extensions")
}

func TestSchemaValidator(t *testing.T) {
	v, err := NewSchemaValidator()
	require.NoError(t, err)

	valid := map[string]interface{}{
		"defaults": map[string]interface{}{"goal": 80, "units": "metric"},
		"storage":  map[string]interface{}{"backend": "sqlite"},
		"logging":  map[string]interface{}{"level": "debug"},
	}
	assert.NoError(t, v.Validate(valid))

	zeroGoal := map[string]interface{}{
		"defaults": map[string]interface{}{"goal": 0},
	}
	err = v.Validate(zeroGoal)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "/defaults/goal")

	badHours := map[string]interface{}{
		"reminders": map[string]interface{}{"hours": "noon"},
	}
	assert.Error(t, v.Validate(badHours))
}
