package main

import (
	"errors"
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"gdreport/internal/exporter"
	"gdreport/internal/report"
	"gdreport/internal/survey"
)

func newSummaryCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Print the per-country survey means as a table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := opts.services()

			summary, err := svc.Report.Summary(commandContext(cmd))
			if err != nil {
				if errors.Is(err, survey.ErrDataUnavailable) {
					warn(cmd, report.UnavailableNotice(svc.Report.DataFile()))
				}
				return err
			}

			headers, rows := exporter.SummaryRecords(summary, svc.Report.Labels())

			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.SetAutoFormatHeaders(false)
			table.SetAutoWrapText(false)
			table.SetHeader(headers)
			table.AppendBulk(rows)
			table.Render()

			fmt.Fprintf(cmd.OutOrStdout(), "%d groups\n", len(summary.Rows))
			return nil
		},
	}
}
