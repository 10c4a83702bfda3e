package main

import (
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jonmartinstorm/issuesnusern/internal/config"
	"github.com/jonmartinstorm/issuesnusern/internal/dbwriter"
)

func newChartCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "chart",
		Short: "Skriv ut kumulative issue-tall per dag fra databasen",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			sqlURL := v.GetString(config.KeySQLURL)
			if sqlURL == "" {
				return errors.New("--output-sql-url (POSTGRES_DSN) må være satt for chart")
			}

			w, err := dbwriter.NewSQLWriter(ctx, sqlURL)
			if err != nil {
				return err
			}
			defer w.Close()

			counts, err := w.DailyCounts(ctx)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "DAG\tTOTALT\tÅPNE\tLUKKET")
			for _, c := range counts {
				fmt.Fprintf(tw, "%s\t%d\t%d\t%d\n", c.Day.Format(time.DateOnly), c.Total, c.Opened, c.Closed)
			}
			return tw.Flush()
		},
	}
}
