package serve

import (
	"context"
	"flag"
	"time"

	"github.com/peterbourgon/ff/v3"
	"github.com/peterbourgon/ff/v3/ffcli"

	"github.com/sig-0/countryfacts/cmd/env"
	"github.com/sig-0/countryfacts/server/config"
	"github.com/sig-0/countryfacts/source/openerapi"
	"github.com/sig-0/countryfacts/source/restcountries"
)

// serveCfg wraps the serve configuration
type serveCfg struct {
	config *config.Config

	configPath      string
	countriesURL    string
	exchangeURL     string
	refreshInterval time.Duration
}

// NewServeCmd creates the serve subcommand
func NewServeCmd() *ffcli.Command {
	cfg := &serveCfg{
		config: config.DefaultConfig(),
	}

	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	cfg.registerFlags(fs)

	cmd := &ffcli.Command{
		Name:       "serve",
		ShortUsage: "serve <subcommand> [flags]",
		LongHelp:   "Serves the countryfacts backend",
		FlagSet:    fs,
		Exec: func(_ context.Context, _ []string) error {
			return flag.ErrHelp
		},
		Options: []ff.Option{
			// Allow using ENV variables
			ff.WithEnvVars(),
			ff.WithEnvVarPrefix(env.Prefix),
		},
	}

	cmd.Subcommands = []*ffcli.Command{
		newServeSQLCmd(cfg),
		newServeMemoryCmd(cfg),
	}

	return cmd
}

func (c *serveCfg) registerFlags(fs *flag.FlagSet) {
	fs.StringVar(
		&c.config.ListenAddress,
		"listen",
		config.DefaultListenAddress,
		"the IP:PORT URL for the server",
	)

	fs.StringVar(
		&c.configPath,
		"config",
		"",
		"the path to the server TOML configuration, if any",
	)

	fs.StringVar(
		&c.countriesURL,
		"countries-url",
		restcountries.DefaultURL,
		"the URL of the country catalog source",
	)

	fs.StringVar(
		&c.exchangeURL,
		"exchange-url",
		openerapi.DefaultURL,
		"the URL of the exchange rate source",
	)

	fs.DurationVar(
		&c.refreshInterval,
		"refresh-interval",
		0,
		"the interval for automatic background refreshes (0 disables them)",
	)
}
