package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"companyfinder/internal/dataset"
	"companyfinder/internal/finder"
	"companyfinder/internal/matcher"
	"companyfinder/internal/models"
	"companyfinder/internal/page"
)

func newLookupCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lookup <url>",
		Short: "Show the companies that asked the problem at a URL",
		Long: `Resolve a problem page and list the companies that asked it, most
frequent first. Cached data is shown immediately; when it is stale a refresh
runs and the result is shown again with the new data.`,
		Args: cobra.ExactArgs(1),
		RunE: c.runLookup,
	}
	cmd.Flags().String("heading", "", "Problem heading text, used when the URL has no /problems/ path")
	cmd.Flags().String("title", "", "Document title, used when there is no heading")
	cmd.Flags().String("html-file", "", "Saved page HTML to read the heading and title from")
	cmd.Flags().Bool("refresh", false, "Refresh the datasets before looking up")
	cmd.Flags().StringP("output", "o", "", "Output format (json)")
	return cmd
}

func (c *cli) runLookup(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	output, _ := cmd.Flags().GetString("output")
	forceRefresh, _ := cmd.Flags().GetBool("refresh")

	pc, err := pageContext(cmd, args[0])
	if err != nil {
		return err
	}

	if forceRefresh {
		if _, err := c.app.Finder.Refresh(ctx); err != nil && output != "json" {
			pterm.Warning.Printf("Refresh failed, using cached data: %v\n", err)
		}
	}

	lookup, err := c.app.Finder.Resolve(ctx, pc)
	if errors.Is(err, finder.ErrUnidentifiedPage) {
		return fmt.Errorf("cannot identify the problem on %s; pass --heading or --title", pc.Address)
	}
	if err != nil {
		return err
	}
	if err := c.renderLookup(output, lookup); err != nil {
		return err
	}
	if lookup.Fresh {
		return nil
	}

	// Stale or missing data: wait for one refresh and show the result again.
	updated := make(chan *dataset.Snapshot, 1)
	closeView := c.app.Finder.Open(func(s *dataset.Snapshot) {
		select {
		case updated <- s:
		default:
		}
	})
	defer closeView()

	if output != "json" {
		pterm.Info.Println("Data is out of date, refreshing...")
	}
	if err := <-c.app.Finder.EnsureFresh(ctx); err != nil {
		if output != "json" {
			pterm.Warning.Printf("Refresh failed, showing cached data: %v\n", err)
		}
		return nil
	}

	snap := c.app.Finder.Snapshot()
	select {
	case snap = <-updated:
	default:
	}
	closeView()

	lookup.Result = matcher.Match(lookup.Slug, snap)
	lookup.Snapshot = snap
	lookup.Fresh = c.app.Finder.Fresh()
	return c.renderLookup(output, lookup)
}

func pageContext(cmd *cobra.Command, address string) (page.Context, error) {
	if htmlFile, _ := cmd.Flags().GetString("html-file"); htmlFile != "" {
		f, err := os.Open(htmlFile)
		if err != nil {
			return page.Context{}, err
		}
		defer f.Close()
		return page.FromHTML(address, f)
	}

	pc := page.Context{Address: address}
	if cmd.Flags().Changed("heading") {
		heading, _ := cmd.Flags().GetString("heading")
		pc = pc.WithHeading(heading)
	}
	if cmd.Flags().Changed("title") {
		title, _ := cmd.Flags().GetString("title")
		pc = pc.WithTitle(title)
	}
	return pc, nil
}

func (c *cli) renderLookup(output string, lookup finder.Lookup) error {
	resp := models.NewMatchResponse(c.cfg.CompanySiteURL, lookup.Result, lookup.Snapshot, lookup.Fresh)
	if output == "json" {
		enc := json.NewEncoder(c.out)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}
	printMatch(resp)
	return nil
}
