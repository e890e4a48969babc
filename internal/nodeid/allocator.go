package nodeid

import (
	"fmt"
	"strconv"
	"strings"

	"k8s.io/apimachinery/pkg/util/validation"
)

// Allocator hands out unique node names. It is not safe for concurrent use;
// one graph owns one allocator.
type Allocator struct {
	taken map[string]struct{}
}

// NewAllocator creates an empty Allocator.
func NewAllocator() *Allocator {
	return &Allocator{taken: make(map[string]struct{})}
}

// Next sanitizes displayName and returns the first free name among base,
// base-2, base-3, ...
func (a *Allocator) Next(displayName string) (string, error) {
	base := Sanitize(displayName)
	if base == "" {
		return "", fmt.Errorf("display name %q has no usable characters for a node name", displayName)
	}

	candidate := base
	for i := 2; ; i++ {
		if _, ok := a.taken[candidate]; !ok {
			break
		}
		suffix := "-" + strconv.Itoa(i)
		trimmed := base
		if len(trimmed)+len(suffix) > validation.DNS1123LabelMaxLength {
			trimmed = strings.TrimRight(trimmed[:validation.DNS1123LabelMaxLength-len(suffix)], "-")
		}
		candidate = trimmed + suffix
	}

	if err := Validate(candidate); err != nil {
		return "", err
	}
	a.taken[candidate] = struct{}{}
	return candidate, nil
}

// Taken reports whether name has already been handed out.
func (a *Allocator) Taken(name string) bool {
	_, ok := a.taken[name]
	return ok
}
