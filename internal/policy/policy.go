// Package policy loads the per-exercise motion requirement map.
package policy

import (
	"os"
	"sort"

	"github.com/goccy/go-json"

	"github.com/five82/vidsift/internal/errors"
)

// Policy maps exercise names to whether motion is required. It is immutable
// once loaded.
type Policy struct {
	motion map[string]bool
}

// New builds a Policy from a map. The map is copied.
func New(m map[string]bool) *Policy {
	cp := make(map[string]bool, len(m))
	for k, v := range m {
		cp[k] = v
	}
	return &Policy{motion: cp}
}

// Load reads a JSON object of exercise name to boolean. A missing file and
// malformed JSON are both fatal.
func Load(path string) (*Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewPolicyMissingError(path)
		}
		return nil, errors.NewIOError("failed to read motion policy "+path, err)
	}
	return Parse(data)
}

// Parse decodes policy JSON.
func Parse(data []byte) (*Policy, error) {
	var m map[string]bool
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, errors.NewJSONParseError("invalid motion policy", err)
	}
	if m == nil {
		return nil, errors.NewJSONParseError("motion policy must be a JSON object", nil)
	}
	return &Policy{motion: m}, nil
}

// MotionEnabled reports whether motion is required for exercise. Unknown
// exercises do not require motion. Safe on a nil Policy.
func (p *Policy) MotionEnabled(exercise string) bool {
	if p == nil {
		return false
	}
	return p.motion[exercise]
}

// Len returns the number of exercises listed.
func (p *Policy) Len() int {
	if p == nil {
		return 0
	}
	return len(p.motion)
}

// Exercises returns the listed exercise names, sorted.
func (p *Policy) Exercises() []string {
	if p == nil {
		return nil
	}
	names := make([]string, 0, len(p.motion))
	for k := range p.motion {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
