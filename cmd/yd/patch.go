package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/scott-cotton/cli"

	"github.com/netvine/yangdoc/diff"
	"github.com/netvine/yangdoc/encode"
	"github.com/netvine/yangdoc/parse"
)

// patchCmd applies an RFC 6902 patch to an instance document.  The
// document is parsed and re-encoded first, so the patch operates on the
// canonical sorted form and the result is schema-checked on the way
// back in.
func patchCmd(cfg *PatchConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Patch.Parse(cc, args)
	if err != nil {
		cfg.Patch.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: patch requires a patch file and a document", cli.ErrUsage)
	}
	ctx, err := cfg.loadContext()
	if err != nil {
		return err
	}
	raw, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("error reading patch %s: %w", args[0], err)
	}
	var ops []diff.Op
	if err := json.Unmarshal(raw, &ops); err != nil {
		return fmt.Errorf("error decoding patch %s: %w", args[0], err)
	}
	tree, err := cfg.loadInstance(ctx, args[1])
	if err != nil {
		return err
	}
	var doc bytes.Buffer
	if err := encode.JSON(&doc, tree); err != nil {
		return err
	}
	freeAll(tree)
	patched, err := diff.Apply(doc.Bytes(), ops)
	if err != nil {
		return err
	}
	res, err := parse.JSON(ctx, patched)
	if err != nil {
		return fmt.Errorf("patched document is not valid: %w", err)
	}
	if err := writeInstance(cfg.MainConfig, cc.Out, res); err != nil {
		return err
	}
	freeAll(res)
	return nil
}
