package main

import (
	"github.com/alecthomas/kong"

	"github.com/murkdown/murkdown/cmd"
	"github.com/murkdown/murkdown/internal/config"
	"github.com/murkdown/murkdown/internal/theme"
)

func main() {
	cli := &cmd.CLI{}
	ctx := kong.Parse(cli,
		kong.Name("murkdown"),
		kong.Description("Semantic markup compiler and site generator"),
		kong.UsageOnError(),
	)

	// Load config and apply theme
	cfg, err := config.Load()
	if err == nil {
		_ = theme.Load(cfg.Theme)
	}
	// Ignore errors - theme will default to "default" if config not found

	err = ctx.Run()
	ctx.FatalIfErrorf(err)
}
