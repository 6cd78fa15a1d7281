package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/vmunix/epmatch/internal/catalog"
	"github.com/vmunix/epmatch/internal/prompt"
	"github.com/vmunix/epmatch/pkg/tvdb"
)

// resolveShow searches the remote catalog and returns the chosen series
// id. A single result is taken without asking; multiple results are
// listed for the operator to pick from.
func resolveShow(ctx context.Context, svc *catalog.Service, prompter *prompt.Prompter, query string) (string, error) {
	results, err := svc.Search(ctx, query)
	if err != nil {
		return "", fmt.Errorf("search for %q: %w", query, err)
	}

	switch len(results) {
	case 0:
		return "", fmt.Errorf("no shows found matching %q", query)
	case 1:
		fmt.Fprintf(os.Stderr, "Found: %s\n", results[0].DisplayName())
		return results[0].ID, nil
	}

	printResults(results)
	idx, err := prompter.Select(fmt.Sprintf("Which show? [1-%d] ", len(results)), len(results))
	if err != nil {
		return "", fmt.Errorf("read show selection: %w", err)
	}
	return results[idx].ID, nil
}

func printResults(results []tvdb.SearchResult) {
	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stderr)
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"#", "Name", "TVDB ID"})
	for i, r := range results {
		tw.AppendRow(table.Row{i + 1, r.DisplayName(), r.ID})
	}
	tw.Render()
}
