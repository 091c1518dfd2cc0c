package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"

	"github.com/hazyhaar/uxrefactor/assistant"
)

func printHistory(ctx context.Context, a *assistant.Assistant, limit int) error {
	list, err := a.Store().ListAnalyses(ctx, limit)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Println("no analyses yet")
		return nil
	}
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tWHEN\tFINDINGS\tCHANGES\tLEVEL\tPAGE")
	for _, s := range list {
		page := s.Title
		if page == "" {
			page = s.URL
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			s.ID, humanize.Time(s.CreatedAt), humanize.Comma(int64(s.Findings)),
			humanize.Comma(int64(s.Changes)), s.Level, page)
	}
	return tw.Flush()
}

func printPrinciples(category string) error {
	ps, err := assistant.Principles(category)
	if err != nil {
		return err
	}
	for _, p := range ps {
		fmt.Printf("%s [%s] %s: %s\n", p.ID, p.Severity, p.Name, p.Description)
		fmt.Printf("    %s\n", strings.Join(p.Checklist, "\n    "))
	}
	return nil
}
