package main

import (
	"fmt"

	"github.com/scott-cotton/cli"

	"github.com/netvine/yangdoc/diff"
)

func diffCmd(cfg *DiffConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Diff.Parse(cc, args)
	if err != nil {
		cfg.Diff.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: diff requires two arguments", cli.ErrUsage)
	}
	ctx, err := cfg.loadContext()
	if err != nil {
		return err
	}
	from, err := cfg.loadInstance(ctx, args[0])
	if err != nil {
		return err
	}
	to, err := cfg.loadInstance(ctx, args[1])
	if err != nil {
		return err
	}
	ops, err := diff.Trees(from, to)
	if err != nil {
		return err
	}
	patch, err := diff.MarshalPatch(ops)
	if err != nil {
		return err
	}
	patch = append(patch, '\n')
	_, err = cc.Out.Write(patch)
	return err
}
