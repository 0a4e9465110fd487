package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/rxtech-lab/intraday-dataset/pkg/marketdata"
)

func runFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to the YAML configuration `FILE`. Defaults are used when omitted.",
		},
		&cli.BoolFlag{
			Name:  "skip-download",
			Usage: "Use the local dataset file instead of downloading it first",
		},
		&cli.BoolFlag{
			Name:  "push",
			Usage: "Publish a new dataset version after a successful update",
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "Log level (debug, info, warn, error). Overrides the config file.",
		},
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:   "intraday-updater",
		Usage:  "Keep a CSV dataset of intraday bars up to date",
		Flags:  runFlags(),
		Action: runAction,
		Commands: []*cli.Command{
			{
				Name:   "run",
				Usage:  "Download the dataset, merge the latest bars and publish (default)",
				Flags:  runFlags(),
				Action: runAction,
			},
			{
				Name:  "merge",
				Usage: "Merge bars from a local CSV file into a dataset file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "dataset",
						Aliases:  []string{"d"},
						Usage:    "Dataset CSV `FILE` to update",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "input",
						Aliases:  []string{"i"},
						Usage:    "CSV `FILE` with the new bars",
						Required: true,
					},
					&cli.DurationFlag{
						Name:  "lock-timeout",
						Usage: "How long to wait for the dataset lock",
						Value: 0,
					},
				},
				Action: mergeAction,
			},
			{
				Name:  "inspect",
				Usage: "Summarize a dataset CSV file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "dataset",
						Aliases:  []string{"d"},
						Usage:    "Dataset CSV `FILE`",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "days",
						Usage: "Also print bar counts for the last `N` days",
						Value: 0,
					},
				},
				Action: inspectAction,
			},
			{
				Name:   "schema",
				Usage:  "Print the JSON schema of the configuration file",
				Action: schemaAction,
			},
			{
				Name:   "providers",
				Usage:  fmt.Sprintf("List market data providers (%s, %s)", marketdata.ProviderPolygon, marketdata.ProviderBinance),
				Action: providersAction,
			},
		},
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().Run(ctx, os.Args); err != nil {
		stop()
		log.Fatal(err)
	}
}
