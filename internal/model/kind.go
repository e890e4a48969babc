// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package model

import "fmt"

// Kind classifies what an operation does on the training platform.
type Kind string

const (
	KindUnknown     Kind = ""
	KindTrain       Kind = "train"
	KindCreateModel Kind = "create_model"
	KindDeploy      Kind = "deploy"
)

// Kinds lists every known kind in pipeline order.
var Kinds = []Kind{KindTrain, KindCreateModel, KindDeploy}

// ParseKind converts a manifest string into a Kind.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, nil
		}
	}
	return KindUnknown, fmt.Errorf("unknown component kind %q (expected one of %v)", s, Kinds)
}

// String implements fmt.Stringer.
func (k Kind) String() string {
	if k == KindUnknown {
		return "unknown"
	}
	return string(k)
}
