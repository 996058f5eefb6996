package main

import (
	"context"
	"os"

	"github.com/alecthomas/kong"

	"github.com/pescuma/gitfixup/internal/console"
	"github.com/pescuma/gitfixup/internal/driver"
)

var version = "dev"

var cli struct {
	Revision string `arg:"" optional:"" default:"@{upstream}" help:"Upstream revision; hunks are attributed to commits in revision..HEAD."`

	Context    int `short:"c" name:"context" default:"3" help:"Number of context lines to request from the diff."`
	Strictness int `short:"s" name:"strict" default:"0" help:"Attribution strictness: 0=context, 1=adjacent, 2=surrounded."`
	Verbose    int `short:"v" type:"counter" help:"Increase verbosity (repeatable, up to twice)."`

	Version kong.VersionFlag `help:"Print version and exit."`
}

func main() {
	ctx := kong.Parse(&cli,
		kong.Name("gitfixup"),
		kong.Description("Create fixup commits for a topic branch from the currently staged changes."),
		kong.Vars{"version": version},
	)

	c := console.New(os.Stderr)

	cfg := driver.Config{
		Revision:   cli.Revision,
		Context:    cli.Context,
		Strictness: cli.Strictness,
		Verbosity:  cli.Verbose,
	}

	err := driver.Run(context.Background(), c, cfg)
	ctx.FatalIfErrorf(err)
}
