package registry

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/go-containerregistry/pkg/name"
	"github.com/specialistvlad/sagegrid/internal/ctxlog"
	"github.com/specialistvlad/sagegrid/internal/model"
	"github.com/zclconf/go-cty/cty"
)

// Validate checks every registered component for internal consistency:
//   - the kind is known,
//   - the image is a well-formed container reference,
//   - every argument placeholder names a declared input or output,
//   - every output has a file path.
//
// All problems are reported at once.
func (r *Registry) Validate(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	var errs []string

	for _, compName := range r.Names() {
		c, _ := r.Lookup(compName)
		errs = append(errs, validateComponent(c)...)

		for _, in := range c.Inputs {
			if in.Type.Equals(cty.DynamicPseudoType) {
				logger.Debug("Component input has 'type = any', which disables type checking of literal arguments.", "component", c.Name, "input", in.Name)
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("registry validation failed:\n- %s", strings.Join(errs, "\n- "))
	}

	logger.Debug("Registry validated.", "components", r.Len())
	return nil
}

func validateComponent(c *model.Component) []string {
	var errs []string
	prefix := fmt.Sprintf("component '%s' (%s)", c.Name, c.FSInformation)

	if c.Kind == model.KindUnknown {
		errs = append(errs, fmt.Sprintf("%s: kind is not set", prefix))
	}

	if _, err := name.ParseReference(c.Implementation.Image); err != nil {
		errs = append(errs, fmt.Sprintf("%s: invalid image %q: %v", prefix, c.Implementation.Image, err))
	}

	for _, arg := range c.Implementation.Args {
		if arg.InputRef != "" {
			if _, ok := c.Input(arg.InputRef); !ok {
				errs = append(errs, fmt.Sprintf("%s: argument %s refers to an undeclared input", prefix, arg))
			}
		}
		if arg.OutputRef != "" {
			if _, ok := c.Output(arg.OutputRef); !ok {
				errs = append(errs, fmt.Sprintf("%s: argument %s refers to an undeclared output", prefix, arg))
			}
		}
	}

	for _, out := range c.Outputs {
		if out.Path == "" {
			errs = append(errs, fmt.Sprintf("%s: output '%s' has no path", prefix, out.Name))
		}
	}

	return errs
}
