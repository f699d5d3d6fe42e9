package wildcard

import (
	"fmt"
	"sort"
	"strings"
)

// Bindings maps wildcard names to the text they captured
type Bindings map[string]string

// Clone returns an independent copy. A nil receiver yields an empty map.
func (b Bindings) Clone() Bindings {
	out := make(Bindings, len(b))
	for k, v := range b {
		out[k] = v
	}
	return out
}

// Names returns the bound names in sorted order
func (b Bindings) Names() []string {
	names := make([]string, 0, len(b))
	for k := range b {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Describe lists the bindings as "- name = value" lines in name order
func (b Bindings) Describe() string {
	if len(b) == 0 {
		return "- (no wildcards bound)"
	}
	lines := make([]string, 0, len(b))
	for _, name := range b.Names() {
		lines = append(lines, fmt.Sprintf("- %s = %s", name, b[name]))
	}
	return strings.Join(lines, "\n")
}
