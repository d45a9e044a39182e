package main

import (
	"github.com/scott-cotton/cli"
)

func MainCommand() *cli.Command {
	cfg := &MainConfig{}
	sOpts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	opts := append(sOpts, []*cli.Opt{
		{
			Name:        "o",
			Description: "output file (default stdout)",
			Type:        cli.NamedFuncOpt(cfg.outOpt, "(filepath)"),
		},
		{
			Name:        "s",
			Aliases:     []string{"schema"},
			Description: "schema module file, repeatable",
			Type:        cli.NamedFuncOpt(cfg.schemaOpt, "(filepath)"),
		}}...)

	return cli.NewCommandAt(&cfg.Main, "yd").
		WithSynopsis("yd [opts] command [opts]").
		WithDescription("yd is a tool for working with typed instance documents.").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return ydMain(cfg, cc, args)
		}).
		WithSubs(
			SortCommand(cfg),
			ViewCommand(cfg),
			DiffCommand(cfg),
			PatchCommand(cfg),
			CheckCommand(cfg))
}

func SortCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &SortConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.Sort, "sort").
		WithAliases("so").
		WithSynopsis("sort [files]").
		WithDescription("read instance documents and emit them in canonical order").
		WithRun(func(cc *cli.Context, args []string) error {
			return sortCmd(cfg, cc, args)
		})
}

func ViewCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &ViewConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.View, "view").
		WithAliases("v").
		WithSynopsis("view [files]").
		WithDescription("view instance documents as an indented tree in color").
		WithRun(func(cc *cli.Context, args []string) error {
			return view(cfg, cc, args)
		})
}

func DiffCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &DiffConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.Diff, "diff").
		WithAliases("d", "di").
		WithSynopsis("diff a b").
		WithDescription("diff instance documents as an RFC 6902 patch").
		WithRun(func(cc *cli.Context, args []string) error {
			return diffCmd(cfg, cc, args)
		})
}

func PatchCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &PatchConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.Patch, "patch").
		WithAliases("p", "pa").
		WithSynopsis("patch <patchfile> <file>").
		WithDescription("apply an RFC 6902 patch to an instance document").
		WithRun(func(cc *cli.Context, args []string) error {
			return patchCmd(cfg, cc, args)
		})
}

func CheckCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &CheckConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.Check, "check").
		WithAliases("c", "ch").
		WithSynopsis("check [files]").
		WithDescription("validate instance documents against their schemas").
		WithRun(func(cc *cli.Context, args []string) error {
			return check(cfg, cc, args)
		})
}
