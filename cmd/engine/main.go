// Command impactjobs searches Singapore and Hong Kong job boards for
// sustainability and impact roles, keeps the relevant ones and writes them
// to sqlite and CSV.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"impactjobs-engine/internal/config"
	"impactjobs-engine/internal/logger"
)

const dbFile = "impactjobs.db"

var cfgFile string

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "impactjobs",
		Short:         "Find core impact jobs in Singapore and Hong Kong",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default is config.yml in $IMPACTJOBS_DATA_DIR or the working dir)")

	run := runCommand()
	root.RunE = run.RunE
	root.Flags().AddFlagSet(run.Flags())

	root.AddCommand(run, jobsCommand(), tokenCommand(), cleanupCommand())
	return root
}

// loadConfig resolves the config path, creating a default file on first
// run, and builds the logger from it.
func loadConfig() (config.Config, logger.Logger, error) {
	path := cfgFile
	if path == "" {
		dataDir := strings.TrimSpace(os.Getenv("IMPACTJOBS_DATA_DIR"))
		if dataDir == "" {
			dataDir = "."
		}
		p, err := config.EnsureUserConfig(dataDir)
		if err != nil {
			return config.Config{}, nil, fmt.Errorf("config bootstrap: %w", err)
		}
		path = p
	}

	cfg, res, err := config.Load(path)
	if err != nil {
		return cfg, nil, err
	}

	log, err := logger.New(logger.Config{Level: cfg.App.LogLevel})
	if err != nil {
		return cfg, nil, err
	}
	for _, w := range res.Warnings {
		log.Warn("config warning", logger.String("path", path), logger.String("warning", w))
	}
	return cfg, log, nil
}

func dbPath(cfg config.Config) string {
	return filepath.Join(cfg.App.DataDir, dbFile)
}
