package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mkealoha/ticketwatch/internal/domain/availability"
)

func checkCmd(f *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "check <MM/DD/YYYY>",
		Short: "Check availability for one date",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date := args[0]
			if !availability.ValidDate(date) {
				return fmt.Errorf("invalid date %q, want MM/DD/YYYY", date)
			}

			log, err := f.logger()
			if err != nil {
				return err
			}
			cl, err := f.buildClient(log)
			if err != nil {
				return err
			}

			res := cl.Check(cmd.Context(), date, f.party())
			printResult(res)
			return nil
		},
	}
}

func printResult(res availability.Result) {
	checked := time.UnixMilli(res.CheckedAt).Local().Format("15:04:05")
	fmt.Printf("%s  %-12s  %s  (checked %s)\n", res.Date, res.Status, res.Message, checked)
	if res.Status.Actionable() && res.URL != "" {
		fmt.Printf("           book: %s\n", res.URL)
	}
}
