package main

import (
	"bufio"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"impactjobs-engine/internal/logger"
	"impactjobs-engine/internal/secrets"
	"impactjobs-engine/internal/store"
)

// retentionMonths is how long stored jobs survive `cleanup`.
const retentionMonths = 3

func tokenCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Manage the Apify API token in the OS keyring",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "set [token]",
		Short: "Store the Apify token (reads stdin when no argument is given)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tok := ""
			if len(args) == 1 {
				tok = args[0]
			} else {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("read token: %w", err)
				}
				tok = line
			}
			if err := secrets.SetApifyToken(strings.TrimSpace(tok)); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "token saved")
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "delete",
		Short: "Remove the stored Apify token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := secrets.DeleteApifyToken(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "token deleted")
			return nil
		},
	})
	return cmd
}

func cleanupCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "cleanup",
		Short: fmt.Sprintf("Delete stored jobs first seen more than %d months ago", retentionMonths),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			db, err := store.Open(cmd.Context(), dbPath(cfg))
			if err != nil {
				return err
			}
			defer db.Close()

			cutoff := time.Now().AddDate(0, -retentionMonths, 0)
			n, err := store.CleanupOldJobs(cmd.Context(), db.Pool, cutoff)
			if err != nil {
				return err
			}
			log.Info("cleanup done", logger.Int("deleted", int(n)), logger.String("cutoff", cutoff.Format("2006-01-02")))
			return nil
		},
	}
}
