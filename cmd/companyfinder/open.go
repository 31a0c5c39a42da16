package main

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"companyfinder/internal/models"
	"companyfinder/internal/page"
	"companyfinder/internal/slug"
	"companyfinder/internal/validation"
)

func newOpenCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "open",
		Short: "Open a company page or problem search in the browser",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "company <key>",
		Short: "Open the problem list for a company",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !validation.ValidateCompanyKey(args[0]) {
				return fmt.Errorf("invalid company key %q", args[0])
			}
			return c.open(models.CompanyURL(c.cfg.CompanySiteURL, args[0]))
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "search <url|text>",
		Short: "Search the company site for a problem",
		Long: `Search the company site for a problem. A problem URL is reduced to its
slug; any other argument is normalized like a problem heading.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, ok := page.PathSegment(args[0])
			if !ok {
				s = slug.Normalize(args[0])
			}
			if s == "" {
				return fmt.Errorf("nothing to search for in %q", args[0])
			}
			return c.open(models.SearchURL(c.cfg.CompanySiteURL, s))
		},
	})

	return cmd
}

func (c *cli) open(url string) error {
	if err := c.openURL(url); err != nil {
		pterm.Warning.Printf("Could not open browser automatically: %v\n", err)
		pterm.Info.Println("Please open this URL manually:")
	}
	pterm.Println(url)
	return nil
}
