// Package cmd implements the murkdown command-line interface.
package cmd

import (
	kongcompletion "github.com/jotaen/kong-completion"
)

// CLI is the root command structure for Kong.
type CLI struct {
	Build      BuildCmd                  `cmd:"" help:"Compile Murkdown sources to a target directory" default:"1"` //nolint:lll,revive
	Version    VersionCmd                `cmd:"" help:"Show version info"`
	Completion kongcompletion.Completion `cmd:"" help:"Generate shell completion scripts"`
}
