package main

import (
	"github.com/scott-cotton/cli"

	"github.com/netvine/yangdoc/encode"
)

func view(cfg *ViewConfig, cc *cli.Context, args []string) error {
	args, err := cfg.View.Parse(cc, args)
	if err != nil {
		cfg.View.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	ctx, err := cfg.loadContext()
	if err != nil {
		return err
	}
	if len(args) == 0 {
		args = []string{"-"}
	}
	var colors *encode.Colors
	if cfg.colorize(cc.Out) {
		colors = encode.NewColors()
	}
	for _, arg := range args {
		tree, err := cfg.loadInstance(ctx, arg)
		if err != nil {
			return err
		}
		if err := encode.Tree(cc.Out, tree, colors); err != nil {
			return err
		}
		freeAll(tree)
	}
	return nil
}
