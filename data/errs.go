package data

import "errors"

var (
	ErrArg = errors.New("invalid argument")

	// ErrNoYangModule is returned when a sorted index is needed but the
	// reserved yang module is not present in the schema context, so the
	// anchor record has nowhere to live.
	ErrNoYangModule = errors.New("yang module not in schema context")
)
