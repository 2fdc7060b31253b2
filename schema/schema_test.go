package schema_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tobyfell/dispatch/schema"
)

func TestObjectWithRequired(t *testing.T) {
	raw := schema.Object(map[string]*schema.Property{
		"file_path": schema.String("Path to the file"),
		"limit":     schema.Integer("Max lines").Min(1).Max(5000).Default(2000),
	}, "file_path")

	assert.Equal(t, "object", raw["type"])
	assert.Equal(t, []string{"file_path"}, raw["required"])

	props := raw["properties"].(map[string]any)
	limit := props["limit"].(map[string]any)
	assert.Equal(t, "integer", limit["type"])
	assert.Equal(t, 1.0, limit["minimum"])
	assert.Equal(t, 2000, limit["default"])
}

func TestValidateAcceptsValidInput(t *testing.T) {
	s, err := schema.Compile(schema.Object(map[string]*schema.Property{
		"command": schema.String("Shell command"),
		"timeout": schema.Integer("Seconds").Min(1),
	}, "command"))
	require.NoError(t, err)

	assert.NoError(t, s.Validate(map[string]any{"command": "ls", "timeout": 5}))
	assert.NoError(t, s.Validate(map[string]any{"command": "ls"}))
}

func TestValidateRejectsInvalidInput(t *testing.T) {
	s, err := schema.Compile(schema.Object(map[string]*schema.Property{
		"command": schema.String("Shell command"),
		"timeout": schema.Integer("Seconds").Min(1),
	}, "command"))
	require.NoError(t, err)

	// Missing required property.
	err = s.Validate(map[string]any{"timeout": 5})
	var verr *schema.ValidationError
	require.ErrorAs(t, err, &verr)

	// Wrong type.
	assert.Error(t, s.Validate(map[string]any{"command": 42}))

	// Below minimum.
	assert.Error(t, s.Validate(map[string]any{"command": "ls", "timeout": 0}))
}

func TestValidateEnum(t *testing.T) {
	s := schema.MustCompile(schema.Object(map[string]*schema.Property{
		"mode": schema.String("Access mode").Enum("read", "write"),
	}))

	assert.NoError(t, s.Validate(map[string]any{"mode": "read"}))
	assert.Error(t, s.Validate(map[string]any{"mode": "append"}))
}

func TestNilSchemaAcceptsEverything(t *testing.T) {
	s, err := schema.Compile(nil)
	require.NoError(t, err)
	assert.Nil(t, s)
	assert.NoError(t, s.Validate(map[string]any{"anything": true}))
}

func TestCompileRejectsBrokenSchema(t *testing.T) {
	_, err := schema.Compile(map[string]any{"type": 123})
	assert.Error(t, err)
}
