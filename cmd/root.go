/*
Package cmd provides the reuse command line: a local HTTP backend for the app and direct access to
products, the device session and listings.
*/
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"github.com/nguyentranbao-ct/reuse/internal/app"
	"github.com/nguyentranbao-ct/reuse/internal/config"
	"github.com/nguyentranbao-ct/reuse/pkg/logger"
)

var (
	cfgFile string
	verbose bool
	output  string
	format  string

	conf *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "reuse",
	Short: "Second-hand marketplace client",
	Long: `reuse browses second-hand listings from the marketplace API, falling back to a
secondary catalogue and then to built-in sample data when the network is unavailable.

Example:
  reuse serve                          # run the HTTP backend for the app
  reuse products list --search bike    # list products
  reuse auth login --email ana@example.com --password secret1
  reuse listings mine -o json`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		conf, err = config.Load(cfgFile)
		if err != nil {
			return err
		}
		logCfg := conf.Log
		if !verbose && cmd.Name() != serveCmd.Name() {
			logCfg.Level = "warn"
		}
		return logger.Init(logCfg)
	},
}

// Execute runs the command line until it finishes or the process is interrupted.
func Execute() error {
	defer logger.Sync()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "YAML config file; its values win over the environment")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log at the configured level instead of warn")
	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", "table", "output format: table, json or yaml")
	rootCmd.PersistentFlags().StringVar(&format, "format", "", "Go template applied to the result, overrides --output")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(productsCmd)
	rootCmd.AddCommand(authCmd)
	rootCmd.AddCommand(listingsCmd)
}

// withApp starts the application graph, fills targets and returns the func that stops it.
func withApp(cmd *cobra.Command, targets ...any) (func(), error) {
	a := app.Invoke(conf, nil, fx.Populate(targets...))
	if err := a.Start(cmd.Context()); err != nil {
		return nil, fmt.Errorf("start: %w", err)
	}
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), a.StopTimeout())
		defer cancel()
		_ = a.Stop(ctx)
	}, nil
}
