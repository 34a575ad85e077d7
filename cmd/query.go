package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Yates-Labs/folio/internal/orchestrator"
	"github.com/Yates-Labs/folio/internal/rag"
)

var (
	queryTechnique int
	queryThreshold float64
	queryLimit     int
	verbose        bool
)

var queryCmd = &cobra.Command{
	Use:   "query <text>",
	Short: "Retrieve the passages most similar to a query",
	Long: `Query embeds the text and returns stored passages of one technique whose
similarity exceeds the threshold, most similar first.

Examples:
  folio query "Who is there?" --technique 1
  folio query "the ghost appears on the battlements" --technique 2 --limit 5
  folio query "a father's murder" --threshold 0.3 --verbose`,
	Args: cobra.MinimumNArgs(1),
	RunE: runQuery,
}

func init() {
	rootCmd.AddCommand(queryCmd)
	queryCmd.Flags().IntVar(&queryTechnique, "technique", int(rag.TechniquePlain), "Technique id to search")
	queryCmd.Flags().Float64Var(&queryThreshold, "threshold", 0, "Minimum similarity (default from FOLIO_SIMILARITY_THRESHOLD)")
	queryCmd.Flags().IntVar(&queryLimit, "limit", 0, "Maximum number of passages (default from FOLIO_RESULT_LIMIT)")
	queryCmd.Flags().BoolVar(&verbose, "verbose", false, "Show similarity scores")
}

func runQuery(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	query := strings.Join(args, " ")

	pipeline, err := orchestrator.NewPipeline(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to create pipeline: %w", err)
	}
	defer pipeline.Close()

	opts := pipeline.SearchOptions()
	if cmd.Flags().Changed("threshold") {
		opts.Threshold = queryThreshold
	}
	if cmd.Flags().Changed("limit") {
		opts.Limit = queryLimit
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, headerStyle.Render("Query:"))
	fmt.Fprintln(out, queryStyle.Render(query))
	fmt.Fprintln(out)

	matches, err := pipeline.Query(ctx, rag.Technique(queryTechnique), query, &opts)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	outputMatches(cmd, matches)
	return nil
}

func outputMatches(cmd *cobra.Command, matches []rag.Match) {
	out := cmd.OutOrStdout()
	if len(matches) == 0 {
		fmt.Fprintln(out, contextStyle.Render("No passages above the similarity threshold"))
		return
	}

	fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("Passages (%d):", len(matches))))
	fmt.Fprintln(out)
	for i, m := range matches {
		label := fmt.Sprintf("%d.", i+1)
		if verbose {
			label += " " + scoreStyle.Render(fmt.Sprintf("%.4f", m.Similarity))
		}
		fmt.Fprintln(out, label)
		fmt.Fprintln(out, chunkStyle.Render(strings.TrimSpace(m.Chunk)))
		fmt.Fprintln(out)
	}
}
