package main

import (
	"fmt"
	"time"

	"github.com/pterm/pterm"

	"companyfinder/internal/matcher"
	"companyfinder/internal/models"
)

func printMatch(resp models.MatchResponse) {
	heading := resp.Title
	if heading == "" {
		heading = resp.Slug
	}
	pterm.DefaultSection.Println(heading)

	switch matcher.Status(resp.Status) {
	case matcher.DataUnavailable:
		pterm.Warning.Println("Company data is not available yet.")
		return
	case matcher.NotFound:
		pterm.Info.Println("No company data found for this problem.")
		pterm.Printf("Search manually: %s\n", resp.SearchURL)
		return
	}

	table := pterm.TableData{{"Company", "Frequency", "Link"}}
	for _, co := range resp.Companies {
		table = append(table, []string{co.Name, co.FrequencyText, co.URL})
	}
	_ = pterm.DefaultTable.WithHasHeader().WithData(table).Render()

	if resp.Snapshot != nil && !resp.Snapshot.Fresh {
		pterm.Printf("Data fetched %s\n", resp.Snapshot.FetchedAt.Local().Format(time.DateTime))
	}
}

func printStatus(resp models.StatusResponse) error {
	if !resp.Loaded {
		pterm.Info.Println("No cached snapshot. Run `companyfinder refresh` to fetch the datasets.")
	}

	rows := pterm.TableData{{"Property", "Value"}}
	if resp.Snapshot != nil {
		rows = append(rows,
			[]string{"Snapshot", resp.Snapshot.ID.String()},
			[]string{"Fetched", resp.Snapshot.FetchedAt.Local().Format(time.DateTime)},
			[]string{"Age", (time.Duration(resp.AgeSeconds) * time.Second).String()},
			[]string{"Fresh", fmt.Sprint(resp.Snapshot.Fresh)},
			[]string{"Company records", fmt.Sprint(resp.Companies)},
			[]string{"Problems", fmt.Sprint(resp.Problems)},
		)
	}
	rows = append(rows, []string{"Expiry", (time.Duration(resp.ExpirySeconds) * time.Second).String()})
	for i, name := range resp.Sources {
		rows = append(rows, []string{fmt.Sprintf("Source %d", i+1), name})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(rows).Render()
}
