package main

import (
	"fmt"

	"github.com/scott-cotton/cli"

	"github.com/netvine/yangdoc/valid"
)

func check(cfg *CheckConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Check.Parse(cc, args)
	if err != nil {
		cfg.Check.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	ctx, err := cfg.loadContext()
	if err != nil {
		return err
	}
	if len(args) == 0 {
		args = []string{"-"}
	}
	v := valid.New()
	failed := false
	for _, arg := range args {
		tree, err := cfg.loadInstance(ctx, arg)
		if err != nil {
			return err
		}
		if err := v.Tree(ctx, tree); err != nil {
			failed = true
			fmt.Fprintf(cc.Out, "%s: %v\n", arg, err)
		} else {
			fmt.Fprintf(cc.Out, "%s: ok\n", arg)
		}
		freeAll(tree)
	}
	if failed {
		return cli.ExitCodeErr(1)
	}
	return nil
}
