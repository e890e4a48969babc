package nodeid

import (
	"fmt"
	"regexp"
	"strings"

	"k8s.io/apimachinery/pkg/util/validation"
)

var (
	disallowedRuns = regexp.MustCompile(`[^-0-9a-z]+`)
	dashRuns       = regexp.MustCompile(`-+`)
)

// Sanitize lowercases name, replaces every run of characters outside
// [-0-9a-z] with a single '-', and trims leading and trailing dashes. The
// result is truncated to the DNS-1123 label length limit.
func Sanitize(name string) string {
	s := strings.ToLower(name)
	s = disallowedRuns.ReplaceAllString(s, "-")
	s = dashRuns.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if len(s) > validation.DNS1123LabelMaxLength {
		s = strings.TrimRight(s[:validation.DNS1123LabelMaxLength], "-")
	}
	return s
}

// Validate reports whether name is usable as a node name.
func Validate(name string) error {
	if errs := validation.IsDNS1123Label(name); len(errs) > 0 {
		return fmt.Errorf("invalid node name %q: %s", name, strings.Join(errs, "; "))
	}
	return nil
}
