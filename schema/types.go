package schema

import (
	"cmp"
	"fmt"
	"strconv"
	"strings"
)

// Value is a typed value in canonical form.  Which of the decoded fields
// is meaningful is decided by Type; Canon is always the canonical textual
// representation.
type Value struct {
	Type  Type
	Canon string

	Int  int64
	Uint uint64
	Dec  float64
	Bool bool
}

// Type is a value type of a leaf or leaf-list.  Compare is a total order
// consistent with the canonical textual representation; it is the ordering
// used by sorted (system-ordered) sibling runs.
type Type interface {
	Name() string

	// Parse converts a lexical value into a canonical Value.
	Parse(s string) (Value, error)

	// Compare returns a three-way ordering of two values of this type.
	Compare(a, b Value) int
}

// BuiltinType resolves a builtin type by its YANG name.  Returns nil for
// unknown names; enumeration types are built per schema node, not here.
func BuiltinType(name string) Type {
	switch name {
	case "string":
		return StringType{}
	case "boolean":
		return BooleanType{}
	case "decimal64":
		return DecimalType{FractionDigits: 2}
	case "int8", "int16", "int32", "int64":
		return IntType{Bits: intBits(name)}
	case "uint8", "uint16", "uint32", "uint64":
		return UintType{Bits: intBits(name)}
	}
	return nil
}

func intBits(name string) int {
	i := strings.IndexAny(name, "123456789")
	n, _ := strconv.Atoi(name[i:])
	return n
}

type StringType struct{}

func (StringType) Name() string { return "string" }

func (t StringType) Parse(s string) (Value, error) {
	return Value{Type: t, Canon: s}, nil
}

func (StringType) Compare(a, b Value) int {
	return strings.Compare(a.Canon, b.Canon)
}

type BooleanType struct{}

func (BooleanType) Name() string { return "boolean" }

func (t BooleanType) Parse(s string) (Value, error) {
	switch s {
	case "true":
		return Value{Type: t, Canon: s, Bool: true}, nil
	case "false":
		return Value{Type: t, Canon: s}, nil
	}
	return Value{}, fmt.Errorf("%w: %q is not a boolean", ErrNoValue, s)
}

func (BooleanType) Compare(a, b Value) int {
	if a.Bool == b.Bool {
		return 0
	}
	if !a.Bool {
		return -1
	}
	return 1
}

type IntType struct {
	Bits int
}

func (t IntType) Name() string { return fmt.Sprintf("int%d", t.Bits) }

func (t IntType) Parse(s string) (Value, error) {
	i, err := strconv.ParseInt(s, 10, t.Bits)
	if err != nil {
		return Value{}, fmt.Errorf("%w: %q is not %s", ErrNoValue, s, t.Name())
	}
	return Value{Type: t, Canon: strconv.FormatInt(i, 10), Int: i}, nil
}

func (IntType) Compare(a, b Value) int {
	return cmp.Compare(a.Int, b.Int)
}

type UintType struct {
	Bits int
}

func (t UintType) Name() string { return fmt.Sprintf("uint%d", t.Bits) }

func (t UintType) Parse(s string) (Value, error) {
	u, err := strconv.ParseUint(s, 10, t.Bits)
	if err != nil {
		return Value{}, fmt.Errorf("%w: %q is not %s", ErrNoValue, s, t.Name())
	}
	return Value{Type: t, Canon: strconv.FormatUint(u, 10), Uint: u}, nil
}

func (UintType) Compare(a, b Value) int {
	return cmp.Compare(a.Uint, b.Uint)
}

type DecimalType struct {
	FractionDigits int
}

func (DecimalType) Name() string { return "decimal64" }

func (t DecimalType) Parse(s string) (Value, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Value{}, fmt.Errorf("%w: %q is not decimal64", ErrNoValue, s)
	}
	return Value{Type: t, Canon: strconv.FormatFloat(f, 'f', t.FractionDigits, 64), Dec: f}, nil
}

func (DecimalType) Compare(a, b Value) int {
	return cmp.Compare(a.Dec, b.Dec)
}

// EnumerationType orders values by enum declaration position, not by name.
type EnumerationType struct {
	Enums []string
}

func (EnumerationType) Name() string { return "enumeration" }

func (t EnumerationType) Parse(s string) (Value, error) {
	for i, e := range t.Enums {
		if e == s {
			return Value{Type: t, Canon: s, Int: int64(i)}, nil
		}
	}
	return Value{}, fmt.Errorf("%w: %q is not one of %v", ErrNoValue, s, t.Enums)
}

func (EnumerationType) Compare(a, b Value) int {
	return cmp.Compare(a.Int, b.Int)
}
