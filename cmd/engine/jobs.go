package main

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"impactjobs-engine/internal/store"
)

func jobsCommand() *cobra.Command {
	var opts store.ListJobsOpts
	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "List stored jobs",
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

			jobs, err := store.ListJobs(cmd.Context(), db.Pool, opts)
			if err != nil {
				return err
			}
			return printJobs(cmd.OutOrStdout(), jobs)
		},
	}
	cmd.Flags().StringVar(&opts.Sort, "sort", "date", "sort by date, company or title")
	cmd.Flags().StringVar(&opts.Window, "window", "7d", "first-seen window: 24h, 7d or all")
	cmd.Flags().IntVar(&opts.Limit, "limit", 500, "maximum rows")
	return cmd
}

// printJobs renders stored jobs as a table followed by a count line.
func printJobs(w io.Writer, jobs []store.Job) error {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Posted", "Site", "Title", "Company", "Location", "URL"})

	for _, j := range jobs {
		posted := j.DatePosted
		if posted == "" {
			posted = "-"
		}
		t.AppendRow(table.Row{posted, j.Site, j.Title, j.Company, j.Location, j.URL})
	}

	t.Render()
	_, err := fmt.Fprintf(w, "%d jobs\n", len(jobs))
	return err
}
