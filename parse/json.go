package parse

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/netvine/yangdoc/data"
	"github.com/netvine/yangdoc/debug"
	"github.com/netvine/yangdoc/schema"
)

type jsonNumber = json.Number

// JSON parses a JSON instance document into a data tree and returns the
// first top-level sibling.
func JSON(ctx *schema.Context, b []byte) (*data.Node, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	v, err := decodeJSONValue(dec)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("%w: trailing data after document", ErrParse)
	}
	doc, ok := v.(object)
	if !ok {
		return nil, fmt.Errorf("%w: document root must be an object", ErrParse)
	}
	if debug.Parse() {
		debug.Logf("parse: json document with %d top-level members\n", len(doc))
	}
	return build(ctx, doc)
}

// decodeJSONValue reads one value off the token stream.  Objects come
// back as parse.object so member order survives the decode.
func decodeJSONValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	return decodeJSONFrom(dec, tok)
}

func decodeJSONFrom(dec *json.Decoder, tok json.Token) (any, error) {
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			var obj object
			for dec.More() {
				key, err := dec.Token()
				if err != nil {
					return nil, err
				}
				name, ok := key.(string)
				if !ok {
					return nil, fmt.Errorf("object key is not a string")
				}
				val, err := decodeJSONValue(dec)
				if err != nil {
					return nil, err
				}
				obj = append(obj, field{name: name, val: val})
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return obj, nil
		case '[':
			arr := []any{}
			for dec.More() {
				val, err := decodeJSONValue(dec)
				if err != nil {
					return nil, err
				}
				arr = append(arr, val)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return arr, nil
		}
		return nil, fmt.Errorf("unexpected delimiter %v", t)
	case json.Number:
		return t, nil
	default:
		return tok, nil
	}
}
