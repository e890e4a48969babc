// Package lint runs advisory checks over an assembled pipeline with its
// parameter defaults filled in. Nothing it reports stops a pipeline from
// compiling unless the caller asks for strict mode.
package lint

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws/arn"
	"github.com/google/go-containerregistry/pkg/name"
	"github.com/specialistvlad/sagegrid/internal/ctxlog"
	"github.com/specialistvlad/sagegrid/internal/graph"
	"github.com/specialistvlad/sagegrid/internal/model"
	"github.com/specialistvlad/sagegrid/internal/nodeid"
	"k8s.io/apimachinery/pkg/util/validation"
)

// Finding is one problem found on a node or one of its arguments.
type Finding struct {
	Node    string
	Input   string
	Message string
}

func (f Finding) String() string {
	if f.Input == "" {
		return fmt.Sprintf("%s: %s", f.Node, f.Message)
	}
	return fmt.Sprintf("%s.%s: %s", f.Node, f.Input, f.Message)
}

var s3URIPattern = regexp.MustCompile(`s3://([^/"\s]*)`)

// Check inspects every node of g after substituting params into its
// arguments. Values that still hold run-time placeholders are skipped.
func Check(ctx context.Context, g *graph.Graph, params map[string]string) []Finding {
	logger := ctxlog.FromContext(ctx)
	var findings []Finding

	for _, n := range g.Nodes() {
		if err := nodeid.Validate(n.Name); err != nil {
			findings = append(findings, Finding{Node: n.Name, Message: err.Error()})
		}

		for _, arg := range n.Arguments {
			value := graph.Substitute(arg.Value, params)
			report := func(format string, a ...any) {
				findings = append(findings, Finding{Node: n.Name, Input: arg.Name, Message: fmt.Sprintf(format, a...)})
			}

			for _, m := range s3URIPattern.FindAllStringSubmatch(value, -1) {
				if msg := checkBucket(m[1]); msg != "" {
					report("%s", msg)
				}
			}

			if len(graph.Placeholders(value)) > 0 {
				continue
			}

			switch arg.Name {
			case "role":
				if value != "" {
					if msg := checkRoleARN(value); msg != "" {
						report("%s", msg)
					}
				}
			case "image":
				if value != "" {
					if _, err := name.ParseReference(value); err != nil {
						report("invalid image reference %q: %v", value, err)
					}
				}
			case "debug_rule_config":
				for _, img := range ruleImages(value) {
					if _, err := name.ParseReference(img); err != nil {
						report("invalid rule evaluator image %q: %v", img, err)
					}
				}
			}
		}
	}

	for _, n := range g.Leaves() {
		if n.Kind == model.KindCreateModel {
			findings = append(findings, Finding{Node: n.Name, Message: "model is created but no step deploys it"})
		}
	}

	for _, f := range findings {
		logger.Warn("Pipeline wiring check failed.", "pipeline", g.Name(), "finding", f.String())
	}
	return findings
}

func checkBucket(bucket string) string {
	if bucket == "" {
		return "S3 URI has an empty bucket name"
	}
	if len(graph.Placeholders(bucket)) > 0 || strings.Contains(bucket, "{{") {
		return ""
	}
	if len(bucket) < 3 || len(bucket) > 63 {
		return fmt.Sprintf("S3 bucket %q must be between 3 and 63 characters long", bucket)
	}
	if errs := validation.IsDNS1123Subdomain(bucket); len(errs) > 0 {
		return fmt.Sprintf("S3 bucket %q is not a valid bucket name: %s", bucket, strings.Join(errs, "; "))
	}
	return ""
}

func checkRoleARN(value string) string {
	if !arn.IsARN(value) {
		return fmt.Sprintf("role %q is not an ARN", value)
	}
	parsed, err := arn.Parse(value)
	if err != nil {
		return fmt.Sprintf("role %q is not a valid ARN: %v", value, err)
	}
	if parsed.Service != "iam" || !strings.HasPrefix(parsed.Resource, "role/") {
		return fmt.Sprintf("ARN %q does not name an IAM role", value)
	}
	return ""
}

func ruleImages(value string) []string {
	var rules []struct {
		RuleEvaluatorImage string `json:"RuleEvaluatorImage"`
	}
	if err := json.Unmarshal([]byte(value), &rules); err != nil {
		return nil
	}
	images := make([]string, 0, len(rules))
	for _, r := range rules {
		if r.RuleEvaluatorImage != "" {
			images = append(images, r.RuleEvaluatorImage)
		}
	}
	return images
}
