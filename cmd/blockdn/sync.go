package main

import (
	"log/slog"
	"time"

	"github.com/pkg/errors"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

// syncFiltersCmd downloads every compact filter from a start height to
// the server's best filter height, batch by batch. Mainly useful to
// gauge how much data a silent-payments scan from a given height pulls.
func syncFiltersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync-filters <start-height>",
		Short: "Download all filters from a height to the server tip",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := parseHeight(args[0])
			if err != nil {
				return err
			}
			client := newClient()

			status, err := client.Status(cmd.Context())
			if err != nil {
				return errors.Wrap(err, "fetch status")
			}
			stop := status.BestFilterHeight
			if start >= stop {
				slog.Info("Nothing to sync", "start", start, "tip", stop)
				return nil
			}

			slog.Info("Syncing filters", "start", start, "stop", stop)
			bar := progressbar.NewOptions64(
				int64(stop-start),
				progressbar.OptionClearOnFinish(),
				progressbar.OptionSetDescription("Downloading filters..."),
				progressbar.OptionShowCount(),
				progressbar.OptionShowIts(),
				progressbar.OptionSetTheme(progressbar.Theme{
					Saucer:        "=",
					SaucerHead:    ">",
					SaucerPadding: " ",
					BarStart:      "[",
					BarEnd:        "]",
				}),
			)
			if err := bar.RenderBlank(); err != nil {
				return errors.Wrap(err, "render progress bar")
			}

			began := time.Now()
			var totalBytes int
			height := start
			for height < stop {
				filters, err := client.Filters(cmd.Context(), height)
				if err != nil {
					return errors.Wrapf(err, "fetch filters at height %d", height)
				}
				if len(filters) == 0 {
					// The tip moved backwards or the server is mid-resync.
					slog.Warn("Server returned no filters, stopping", "height", height)
					break
				}
				for _, filter := range filters {
					totalBytes += len(filter.Content)
				}
				height += uint32(len(filters))
				if err := bar.Add(len(filters)); err != nil {
					slog.Warn("Failed to update progress bar", "error", err)
				}
			}

			if err := bar.Finish(); err != nil {
				return errors.Wrap(err, "finish progress bar")
			}
			slog.Info("Done",
				"height", height,
				"bytes", totalBytes,
				"elapsed", time.Since(began).Round(time.Second))
			return nil
		},
	}
}
