package sagemaker

import (
	"fmt"
	"reflect"

	"github.com/iancoleman/orderedmap"
	"github.com/specialistvlad/sagegrid/internal/model"
	"github.com/zclconf/go-cty/cty/gocty"
)

// HyperparameterTag is the struct tag naming a hyperparameter.
const HyperparameterTag = "hp"

// EncodeHyperparameters converts a struct whose fields carry `hp:"name"` tags
// into the string-to-string mapping SageMaker expects. Entries follow field
// order. Fields without a tag, or tagged "-", are skipped.
func EncodeHyperparameters(v any) (*orderedmap.OrderedMap, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, fmt.Errorf("hyperparameters: nil %T", v)
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil, fmt.Errorf("hyperparameters: expected a struct, got %T", v)
	}

	out := orderedmap.New()
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		name := field.Tag.Get(HyperparameterTag)
		if !field.IsExported() || name == "" || name == "-" {
			continue
		}

		switch field.Type.Kind() {
		case reflect.String, reflect.Bool,
			reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
			reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
			reflect.Float32, reflect.Float64:
		default:
			return nil, fmt.Errorf("hyperparameter %q: unsupported field type %s", name, field.Type)
		}

		fv := rv.Field(i).Interface()
		typ, err := gocty.ImpliedType(fv)
		if err != nil {
			return nil, fmt.Errorf("hyperparameter %q: %w", name, err)
		}
		val, err := gocty.ToCtyValue(fv, typ)
		if err != nil {
			return nil, fmt.Errorf("hyperparameter %q: %w", name, err)
		}
		s, err := model.Stringify(val)
		if err != nil {
			return nil, fmt.Errorf("hyperparameter %q: %w", name, err)
		}
		out.Set(name, s)
	}
	return out, nil
}
