package schema

import "errors"

var (
	ErrSchema  = errors.New("schema error")
	ErrType    = errors.New("type error")
	ErrNoValue = errors.New("value does not conform to type")
)
