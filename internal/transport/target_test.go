package transport

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		input   string
		want    Mode
		wantErr bool
	}{
		{"default", ModeDefault, false},
		{"", ModeDefault, false},
		{"Single", ModeSingle, false},
		{" list ", ModeList, false},
		{"broadcast", ModeDefault, true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseMode(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMode_YAML(t *testing.T) {
	var v struct {
		Target Mode `yaml:"target"`
	}
	require.NoError(t, yaml.Unmarshal([]byte("target: list\n"), &v))
	assert.Equal(t, ModeList, v.Target)

	out, err := yaml.Marshal(v)
	require.NoError(t, err)
	assert.Equal(t, "target: list\n", string(out))

	assert.Error(t, yaml.Unmarshal([]byte("target: everywhere\n"), &v))
}

func TestTarget_Validate(t *testing.T) {
	tests := []struct {
		name    string
		target  Target
		wantErr string
	}{
		{"default", Target{Mode: ModeDefault}, ""},
		{"default with names", Target{Mode: ModeDefault, Names: []string{"a"}}, "outputs"},
		{"single", Target{Mode: ModeSingle, Names: []string{"a"}}, ""},
		{"single without name", Target{Mode: ModeSingle}, "exactly one"},
		{"single with two", Target{Mode: ModeSingle, Names: []string{"a", "b"}}, "exactly one"},
		{"list", Target{Mode: ModeList, Names: []string{"a", "b"}}, ""},
		{"empty list", Target{Mode: ModeList}, "at least one"},
		{"blank name", Target{Mode: ModeList, Names: []string{"a", " "}}, "outputs[1]"},
		{"unknown mode", Target{Mode: Mode(9)}, "unknown mode"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.target.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.IsType(t, ValidationError{}, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestTarget_String(t *testing.T) {
	assert.Equal(t, "default", Target{}.String())
	assert.Equal(t, "list:a,b", Target{Mode: ModeList, Names: []string{"a", "b"}}.String())
	assert.Equal(t, "Mode(5)", Mode(5).String())
}
