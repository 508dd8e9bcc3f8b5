package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/mkealoha/ticketwatch/internal/domain/availability"
	"github.com/mkealoha/ticketwatch/internal/notifier"
)

func watchCmd(f *rootFlags) *cobra.Command {
	var (
		start    string
		end      string
		interval time.Duration
		pause    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Poll a date range and alert when tickets appear",
		RunE: func(cmd *cobra.Command, args []string) error {
			dates, err := availability.DatesBetween(start, end)
			if err != nil {
				return err
			}

			log, err := f.logger()
			if err != nil {
				return err
			}
			cl, err := f.buildClient(log)
			if err != nil {
				return err
			}

			tracker := notifier.NewTracker()
			desktop := notifier.LogChannel{Log: log}

			runCycle := func(ctx context.Context) error {
				limiter := rate.NewLimiter(rate.Every(pause), 1)
				for _, date := range dates {
					if err := limiter.Wait(ctx); err != nil {
						return err
					}
					res := cl.Check(ctx, date, f.party())
					printResult(res)
					if tracker.Observe(res) {
						_ = desktop.Send(ctx, notifier.Alert{
							Date:    res.Date,
							Status:  res.Status,
							Message: res.Message,
							Party:   res.Party,
							URL:     res.URL,
						})
					}
				}
				return nil
			}

			ctx := cmd.Context()
			fmt.Printf("watching %d date(s) every %s\n\n", len(dates), interval)
			if err := runCycle(ctx); err != nil {
				return err
			}

			ticker := time.NewTicker(interval)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return nil
				case <-ticker.C:
					fmt.Println()
					if err := runCycle(ctx); err != nil {
						return err
					}
				}
			}
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "end date (YYYY-MM-DD)")
	cmd.Flags().DurationVar(&interval, "interval", time.Minute, "time between cycles")
	cmd.Flags().DurationVar(&pause, "pause", 300*time.Millisecond, "pause between per-date requests")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")
	return cmd
}
