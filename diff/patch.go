package diff

import (
	"encoding/json"
	"fmt"

	jsonpatch "github.com/evanphx/json-patch"
)

// MarshalPatch renders operations as an RFC 6902 patch document.
func MarshalPatch(ops []Op) ([]byte, error) {
	if ops == nil {
		ops = []Op{}
	}
	return json.MarshalIndent(ops, "", "  ")
}

// Apply applies a patch to a JSON instance document and returns the
// patched document.
func Apply(doc []byte, ops []Op) ([]byte, error) {
	raw, err := json.Marshal(ops)
	if err != nil {
		return nil, err
	}
	patch, err := jsonpatch.DecodePatch(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDiff, err)
	}
	res, err := patch.Apply(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDiff, err)
	}
	return res, nil
}
