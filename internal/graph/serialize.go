package graph

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/specialistvlad/sagegrid/internal/model"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}

// serialize converts a bound Go value into the string the remote operation
// receives, plus the cty value used to type-check it. Values that are only
// known at run time are returned as unknown.
func serialize(v any) (string, cty.Value, error) {
	switch val := v.(type) {
	case PipelineParam:
		return val.String(), cty.DynamicVal, nil
	case *PipelineParam:
		return val.String(), cty.DynamicVal, nil
	case string:
		if isSolePlaceholder(val) {
			return val, cty.DynamicVal, nil
		}
		return val, cty.StringVal(val), nil
	case bool, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		typ, err := gocty.ImpliedType(val)
		if err != nil {
			return "", cty.NilVal, err
		}
		ctyVal, err := gocty.ToCtyValue(val, typ)
		if err != nil {
			return "", cty.NilVal, err
		}
		s, err := model.Stringify(ctyVal)
		return s, ctyVal, err
	}

	b, err := json.Marshal(v)
	if err != nil {
		return "", cty.NilVal, fmt.Errorf("cannot encode %T as JSON: %w", v, err)
	}
	typ, err := ctyjson.ImpliedType(b)
	if err != nil {
		return "", cty.NilVal, err
	}
	ctyVal, err := ctyjson.Unmarshal(b, typ)
	if err != nil {
		return "", cty.NilVal, err
	}
	return string(b), ctyVal, nil
}
