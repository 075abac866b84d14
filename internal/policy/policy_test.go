package policy

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/vidsift/internal/errors"
)

func writePolicy(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "exercise_motion_overview.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoad(t *testing.T) {
	path := writePolicy(t, `{"squat": true, "plank": false, "jumping jacks": true}`)

	p, err := Load(path)
	require.NoError(t, err)

	assert.True(t, p.MotionEnabled("squat"))
	assert.True(t, p.MotionEnabled("jumping jacks"))
	assert.False(t, p.MotionEnabled("plank"))
	assert.False(t, p.MotionEnabled("unlisted"))
	assert.Equal(t, 3, p.Len())
	assert.Equal(t, []string{"jumping jacks", "plank", "squat"}, p.Exercises())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)
	assert.True(t, errors.IsPolicyMissing(err))
}

func TestLoadMalformed(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"truncated", `{"squat": tr`},
		{"non-boolean value", `{"squat": "yes"}`},
		{"array", `[true]`},
		{"null", `null`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writePolicy(t, tt.body))
			require.Error(t, err)
			assert.True(t, errors.IsKind(err, errors.KindJSONParse), "got %v", err)
		})
	}
}

func TestNewCopiesMap(t *testing.T) {
	src := map[string]bool{"squat": true}
	p := New(src)
	src["squat"] = false
	assert.True(t, p.MotionEnabled("squat"))
}

func TestNilPolicy(t *testing.T) {
	var p *Policy
	assert.False(t, p.MotionEnabled("squat"))
	assert.Zero(t, p.Len())
	assert.Nil(t, p.Exercises())
}
