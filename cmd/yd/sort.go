package main

import (
	"io"

	"github.com/scott-cotton/cli"

	"github.com/netvine/yangdoc/data"
	"github.com/netvine/yangdoc/encode"
)

// sortCmd re-emits instance documents.  Parsing them already places
// system-ordered runs in canonical order, so the output is the sorted
// form of the input.
func sortCmd(cfg *SortConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Sort.Parse(cc, args)
	if err != nil {
		cfg.Sort.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	ctx, err := cfg.loadContext()
	if err != nil {
		return err
	}
	if len(args) == 0 {
		args = []string{"-"}
	}
	for _, arg := range args {
		tree, err := cfg.loadInstance(ctx, arg)
		if err != nil {
			return err
		}
		if err := writeInstance(cfg.MainConfig, cc.Out, tree); err != nil {
			return err
		}
		freeAll(tree)
	}
	return nil
}

func freeAll(first *data.Node) {
	for n := first; n != nil; {
		next := n.Next
		n.FreeTree()
		n = next
	}
}

func writeInstance(cfg *MainConfig, w io.Writer, tree *data.Node) error {
	if cfg.Y {
		return encode.YAML(w, tree)
	}
	return encode.JSON(w, tree)
}
