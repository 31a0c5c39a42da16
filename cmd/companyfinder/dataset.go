package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/pterm/pterm"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"companyfinder/internal/fetcher"
	"companyfinder/internal/models"
)

func newRefreshCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Fetch both datasets and replace the cached snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			spinner, _ := pterm.DefaultSpinner.Start("Fetching datasets...")
			snap, err := c.app.Finder.Refresh(cmd.Context())
			if err != nil {
				if spinner != nil {
					spinner.Fail("Refresh failed")
				}
				return err
			}
			if snap == nil {
				if spinner != nil {
					spinner.Warning("Cache was cleared during the refresh")
				}
				return nil
			}
			if spinner != nil {
				spinner.Success(fmt.Sprintf("Fetched %d company records and %d problems", snap.Companies.Len(), snap.Problems.Len()))
			}
			return nil
		},
	}
}

func newStatusCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the cached snapshot and configured sources",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			output, _ := cmd.Flags().GetString("output")
			resp := c.status()
			if output == "json" {
				enc := json.NewEncoder(c.out)
				enc.SetIndent("", "  ")
				return enc.Encode(resp)
			}
			return printStatus(resp)
		},
	}
	cmd.Flags().StringP("output", "o", "", "Output format (json)")
	return cmd
}

func (c *cli) status() models.StatusResponse {
	f := c.app.Finder
	snap := f.Snapshot()
	resp := models.StatusResponse{
		Loaded:        snap != nil,
		Snapshot:      models.NewSnapshotInfo(snap, f.Fresh()),
		ExpirySeconds: f.Expiry().Seconds(),
		Sources:       lo.Map(c.app.Sources, func(s fetcher.Source, _ int) string { return s.Name }),
	}
	if snap != nil {
		resp.AgeSeconds = f.Age().Round(time.Second).Seconds()
		resp.Companies = snap.Companies.Len()
		resp.Problems = snap.Problems.Len()
	}
	return resp
}

func newClearCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete the cached snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.app.Finder.Clear(cmd.Context()); err != nil {
				return err
			}
			pterm.Success.Println("Cache cleared")
			return nil
		},
	}
}
