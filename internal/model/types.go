// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package model

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

// Conforms reports whether val can be bound to a slot of type want.
//
// Primitive slots accept anything cty can convert (a number for a string
// slot, "5" for a number slot). Collection and structural slots only check
// the outer shape: a map(any) slot takes any object or map, a list(any) slot
// any list, set or tuple. Unknown values always conform.
func Conforms(val cty.Value, want cty.Type) error {
	if want.Equals(cty.DynamicPseudoType) || !val.IsKnown() || val.IsNull() {
		return nil
	}

	got := val.Type()
	switch {
	case want.IsPrimitiveType():
		if _, err := convert.Convert(val, want); err != nil {
			return fmt.Errorf("a %s value cannot be used as %s: %w", got.FriendlyName(), want.FriendlyName(), err)
		}
		return nil
	case want.IsMapType() || want.IsObjectType():
		if got.IsMapType() || got.IsObjectType() {
			return nil
		}
	case want.IsListType() || want.IsSetType() || want.IsTupleType():
		if got.IsListType() || got.IsSetType() || got.IsTupleType() {
			return nil
		}
	}

	return fmt.Errorf("a %s value cannot be used as %s", got.FriendlyName(), want.FriendlyName())
}

// Stringify renders a value the way the remote operations expect it on
// their command line: primitives via cty's string conversion, everything
// else as JSON.
func Stringify(val cty.Value) (string, error) {
	if val.IsNull() {
		return "", nil
	}
	if val.Type().IsPrimitiveType() {
		str, err := convert.Convert(val, cty.String)
		if err != nil {
			return "", err
		}
		return str.AsString(), nil
	}

	b, err := ctyjson.Marshal(val, val.Type())
	if err != nil {
		return "", err
	}
	return string(b), nil
}
