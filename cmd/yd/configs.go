package main

import (
	"fmt"
	"io"
	"os"

	"github.com/scott-cotton/cli"

	"github.com/mattn/go-isatty"

	"github.com/netvine/yangdoc/data"
	"github.com/netvine/yangdoc/parse"
	"github.com/netvine/yangdoc/schema"
)

type MainConfig struct {
	J bool `cli:"name=j aliases=json desc='do i/o in json'"`
	Y bool `cli:"name=y aliases=yaml desc='do i/o in yaml'"`

	Color bool `cli:"name=color desc='render with color'"`

	SchemaFiles []string

	Out      string
	CloseOut func() error

	Main *cli.Command
}

func (cfg *MainConfig) outOpt(cc *cli.Context, a string) (any, error) {
	cfg.Out = a
	if a == "-" {
		return nil, nil
	}
	f, err := os.OpenFile(cfg.Out, os.O_CREATE|os.O_TRUNC|os.O_RDWR, 0644)
	if err != nil {
		return nil, err
	}
	cc.Out = f
	cfg.CloseOut = f.Close
	return nil, nil
}

func (cfg *MainConfig) schemaOpt(cc *cli.Context, a string) (any, error) {
	cfg.SchemaFiles = append(cfg.SchemaFiles, a)
	return a, nil
}

// loadContext compiles the -s schema modules into one context.
func (cfg *MainConfig) loadContext() (*schema.Context, error) {
	if len(cfg.SchemaFiles) == 0 {
		return nil, fmt.Errorf("%w: at least one -s <schema-module> is required", cli.ErrUsage)
	}
	ctx := schema.NewContext()
	if err := ctx.AddModule(schema.YangModule()); err != nil {
		return nil, err
	}
	for _, path := range cfg.SchemaFiles {
		doc, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("error reading schema %s: %w", path, err)
		}
		if _, err := schema.LoadModule(ctx, doc); err != nil {
			return nil, fmt.Errorf("error compiling schema %s: %w", path, err)
		}
	}
	return ctx, nil
}

// loadInstance parses one instance document argument, "-" for stdin.
func (cfg *MainConfig) loadInstance(ctx *schema.Context, arg string) (*data.Node, error) {
	var rdr io.Reader
	if arg == "-" {
		rdr = os.Stdin
	} else {
		f, err := os.Open(arg)
		if err != nil {
			return nil, fmt.Errorf("error opening %s: %w", arg, err)
		}
		defer f.Close()
		rdr = f
	}
	doc, err := io.ReadAll(rdr)
	if err != nil {
		return nil, err
	}
	var tree *data.Node
	if cfg.yamlIn(arg) {
		tree, err = parse.YAML(ctx, doc)
	} else {
		tree, err = parse.JSON(ctx, doc)
	}
	if err != nil {
		return nil, fmt.Errorf("error decoding %s: %w", arg, err)
	}
	return tree, nil
}

func (cfg *MainConfig) yamlIn(arg string) bool {
	if cfg.Y {
		return true
	}
	if cfg.J {
		return false
	}
	return hasExt(arg, ".yaml") || hasExt(arg, ".yml")
}

func hasExt(arg, ext string) bool {
	return len(arg) > len(ext) && arg[len(arg)-len(ext):] == ext
}

// colorize decides whether output to w gets colors: -color forces them,
// otherwise a terminal gets them and anything else does not.
func (cfg *MainConfig) colorize(w io.Writer) bool {
	if cfg.Color {
		return true
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd())
}

type SortConfig struct {
	*MainConfig

	Sort *cli.Command
}

type ViewConfig struct {
	*MainConfig

	View *cli.Command
}

type DiffConfig struct {
	*MainConfig

	Diff *cli.Command
}

type PatchConfig struct {
	*MainConfig

	Patch *cli.Command
}

type CheckConfig struct {
	*MainConfig

	Check *cli.Command
}
