package graph

import "errors"

var (
	// ErrUnknownComponent is returned when a node names a component the
	// registry does not hold.
	ErrUnknownComponent = errors.New("unknown component")
	// ErrUnknownInput is returned for an argument the component does not declare.
	ErrUnknownInput = errors.New("unknown input")
	// ErrMissingInput is returned when a required input is left unbound.
	ErrMissingInput = errors.New("missing required input")
	// ErrTypeMismatch is returned when a literal argument does not fit the
	// declared input type.
	ErrTypeMismatch = errors.New("type mismatch")
	// ErrUnknownReference is returned for a placeholder naming a node that
	// has not been added yet, or an output that node does not declare.
	ErrUnknownReference = errors.New("unknown reference")
	// ErrUnknownParam is returned for a placeholder naming an undeclared
	// pipeline parameter.
	ErrUnknownParam = errors.New("unknown pipeline parameter")
)
