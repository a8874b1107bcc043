package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"gdreport/internal/feedback"
	"gdreport/internal/services"
)

func newFeedbackCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "feedback",
		Short: "Read or add reader feedback",
	}
	cmd.AddCommand(newFeedbackListCmd(opts), newFeedbackSubmitCmd(opts))
	return cmd
}

func newFeedbackListCmd(opts *rootOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List collected feedback, oldest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit < 0 {
				return fmt.Errorf("limit must not be negative")
			}

			records, err := opts.services().Feedback.List(commandContext(cmd))
			if err != nil {
				return err
			}
			if len(records) == 0 {
				warn(cmd, "no feedback yet")
				return nil
			}
			total := len(records)
			if limit > 0 && limit < total {
				records = records[total-limit:]
			}

			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.SetHeader([]string{"Timestamp", "Name", "Role", "Rating", "Comments"})
			table.SetColWidth(60)
			for _, rec := range records {
				table.Append([]string{
					rec.Timestamp.Format(feedback.TimestampLayout),
					rec.Name,
					string(rec.Role),
					strconv.Itoa(rec.Rating),
					rec.Comments,
				})
			}
			table.Render()

			fmt.Fprintf(cmd.OutOrStdout(), "%d of %d entries\n", len(records), total)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "show only the N most recent entries")
	return cmd
}

func newFeedbackSubmitCmd(opts *rootOptions) *cobra.Command {
	var in services.FeedbackInput

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Append one feedback entry",
		Example: `  gdreport feedback submit --role Professor --rating 5 --comments "Clear structure"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := opts.services().Feedback.Submit(commandContext(cmd), in)
			if err != nil {
				var verr *feedback.ValidationError
				if errors.As(err, &verr) {
					for _, fe := range verr.Fields {
						warn(cmd, "%s: %s", fe.Field, fe.Message)
					}
				}
				return err
			}
			success(cmd, "saved feedback from %s at %s", rec.Role, rec.Timestamp.Format(feedback.TimestampLayout))
			return nil
		},
	}

	cmd.Flags().StringVar(&in.Name, "name", "", "your name (optional)")
	cmd.Flags().StringVar(&in.Role, "role", "", "Professor, Classmate, Friend or Other")
	cmd.Flags().IntVar(&in.Rating, "rating", 0, "rating from 1 to 5")
	cmd.Flags().StringVar(&in.Comments, "comments", "", "comments (optional)")

	return cmd
}
