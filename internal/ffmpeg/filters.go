package ffmpeg

import (
	"fmt"
	"strings"
)

// VideoFilterChain builds video filter chains.
type VideoFilterChain struct {
	filters []string
}

// NewVideoFilterChain creates a new empty filter chain.
func NewVideoFilterChain() *VideoFilterChain {
	return &VideoFilterChain{}
}

// AddSelectFrame selects a single frame by decode-order index. Used when the
// stream has no usable frame rate to seek by timestamp.
func (c *VideoFilterChain) AddSelectFrame(index int) *VideoFilterChain {
	if index >= 0 {
		c.filters = append(c.filters, fmt.Sprintf(`select=eq(n\,%d)`, index))
	}
	return c
}

// Build builds the filter chain into a single filter string.
// Returns empty string if no filters are present.
func (c *VideoFilterChain) Build() string {
	if len(c.filters) == 0 {
		return ""
	}
	return strings.Join(c.filters, ",")
}

// IsEmpty returns true if no filters are present.
func (c *VideoFilterChain) IsEmpty() bool {
	return len(c.filters) == 0
}
