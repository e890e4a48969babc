package sagemaker

import (
	"github.com/iancoleman/orderedmap"
)

// DebugRuleEvaluatorImage evaluates every built-in debugger rule.
const DebugRuleEvaluatorImage = "915447279597.dkr.ecr.us-west-2.amazonaws.com/sagemaker-debugger-rules:latest"

// CollectionConfiguration selects one tensor collection for the debugger
// to save.
type CollectionConfiguration struct {
	CollectionName       string `json:"CollectionName"`
	CollectionParameters any    `json:"CollectionParameters"`
}

// DebugHookConfig tells the debugger hook where and what to save.
type DebugHookConfig struct {
	S3OutputPath             string                    `json:"S3OutputPath"`
	CollectionConfigurations []CollectionConfiguration `json:"CollectionConfigurations"`
}

// DebugRuleConfig is one rule evaluated against the saved tensors.
type DebugRuleConfig struct {
	RuleConfigurationName string                 `json:"RuleConfigurationName"`
	RuleEvaluatorImage    string                 `json:"RuleEvaluatorImage"`
	RuleParameters        *orderedmap.OrderedMap `json:"RuleParameters"`
}

// DebugHook returns a hook configuration saving collections to s3URI.
func DebugHook(s3URI string, collections *orderedmap.OrderedMap) DebugHookConfig {
	return DebugHookConfig{
		S3OutputPath:             s3URI,
		CollectionConfigurations: FormatCollectionConfig(collections),
	}
}

// FormatCollectionConfig turns a collection name to parameters mapping into
// one record per entry, in mapping order.
func FormatCollectionConfig(collections *orderedmap.OrderedMap) []CollectionConfiguration {
	out := []CollectionConfiguration{}
	if collections == nil {
		return out
	}
	for _, name := range collections.Keys() {
		params, _ := collections.Get(name)
		out = append(out, CollectionConfiguration{
			CollectionName:       name,
			CollectionParameters: params,
		})
	}
	return out
}

// DebugRule returns a rule evaluated by the built-in rule image.
func DebugRule(name string, parameters *orderedmap.OrderedMap) DebugRuleConfig {
	return DebugRuleConfig{
		RuleConfigurationName: name,
		RuleEvaluatorImage:    DebugRuleEvaluatorImage,
		RuleParameters:        parameters,
	}
}

// CollectionEntry names one collection and its save parameters.
type CollectionEntry struct {
	Name       string
	Parameters *orderedmap.OrderedMap
}

// Collection is shorthand for a CollectionEntry with string parameters.
func Collection(name string, params ...[2]string) CollectionEntry {
	return CollectionEntry{Name: name, Parameters: StringMap(params...)}
}

// Collections builds an ordered collection mapping.
func Collections(entries ...CollectionEntry) *orderedmap.OrderedMap {
	m := orderedmap.New()
	for _, e := range entries {
		m.Set(e.Name, e.Parameters)
	}
	return m
}

// StringMap builds an ordered string mapping from key/value pairs. A key
// given twice keeps its first position and its last value.
func StringMap(pairs ...[2]string) *orderedmap.OrderedMap {
	m := orderedmap.New()
	for _, p := range pairs {
		m.Set(p[0], p[1])
	}
	return m
}
