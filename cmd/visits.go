package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"leitfaden/storage"
)

// VisitsCmd lists archived visits
type VisitsCmd struct {
	Format string `help:"Output format: table or json" enum:"table,json" default:"table"`
}

// Run executes the visits command
func (v *VisitsCmd) Run(cli *CLI) error {
	store, err := storage.NewStore(cli.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open visit archive: %w", err)
	}
	defer store.Close()

	visits, err := store.ListVisits(context.Background())
	if err != nil {
		return err
	}

	if v.Format == "json" {
		return v.printJSON(visits)
	}
	return v.printTable(visits)
}

func (v *VisitsCmd) printJSON(visits []storage.Visit) error {
	data, err := json.MarshalIndent(visits, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

func (v *VisitsCmd) printTable(visits []storage.Visit) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SESSION\tDATUM\tMITARBEITER:IN\tKUNDE\tKESSEL\tINTERESSE\tRÜCKRUF")
	for _, visit := range visits {
		callback := ""
		if visit.FollowUpNeeded {
			callback = "✓"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			visit.SessionID,
			visit.ArchivedAt.Format("2006-01-02 15:04"),
			visit.Employee,
			visit.CustomerName,
			visit.BoilerType,
			visit.OfferInterest,
			callback)
	}
	w.Flush()

	fmt.Printf("\nTotal: %d visits\n", len(visits))
	return nil
}
