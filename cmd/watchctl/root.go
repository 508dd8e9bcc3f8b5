package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mkealoha/ticketwatch/internal/classify"
	"github.com/mkealoha/ticketwatch/internal/client"
	"github.com/mkealoha/ticketwatch/internal/config"
	"github.com/mkealoha/ticketwatch/internal/domain/availability"
	"github.com/mkealoha/ticketwatch/internal/fetch"
	"github.com/mkealoha/ticketwatch/internal/obs"
)

type rootFlags struct {
	server     string
	adults     int
	children   int
	configPath string
	verbose    bool
}

func rootCmd() *cobra.Command {
	f := &rootFlags{}

	cmd := &cobra.Command{
		Use:   "watchctl",
		Short: "Query and watch ticket availability",
		Long: "watchctl talks to a running ticketwatch server. When the server is\n" +
			"down it checks the ticketing site directly through the public relay.",
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&f.server, "server", "http://localhost:3000", "ticketwatch server base URL")
	cmd.PersistentFlags().IntVar(&f.adults, "adults", 1, "adults in the party")
	cmd.PersistentFlags().IntVar(&f.children, "children", 0, "children in the party")
	cmd.PersistentFlags().StringVar(&f.configPath, "config", "", "config file for the fallback path")
	cmd.PersistentFlags().BoolVarP(&f.verbose, "verbose", "v", false, "debug logging")

	cmd.AddCommand(checkCmd(f), watchCmd(f), testEmailCmd(f))
	return cmd
}

func (f *rootFlags) party() availability.Party {
	return availability.Party{Adults: f.adults, Children: f.children}
}

func (f *rootFlags) logger() (*zap.Logger, error) {
	level := "info"
	if f.verbose {
		level = "debug"
	}
	return obs.NewLogger(obs.LogConfig{Level: level, Pretty: true, App: "watchctl"})
}

// buildClient wires the API client with a relay-backed fallback checker so
// checks keep working when the server is unreachable.
func (f *rootFlags) buildClient(log *zap.Logger) (*client.Client, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return nil, err
	}

	classifier, err := classify.New(cfg.Upstream.Variant)
	if err != nil {
		return nil, err
	}

	fallback := &fetch.Checker{
		Fetcher:    fetch.NewRelay(cfg.Fetch.AsFetchConfig(), cfg.Upstream.RelayURL, log),
		Classifier: classifier,
		BaseURL:    cfg.Upstream.BaseURL,
		Clock:      availability.SystemClock{},
		Log:        log,
	}

	return client.New(f.server, fallback, log), nil
}
