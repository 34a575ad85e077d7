package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Yates-Labs/folio/internal/orchestrator"
	"github.com/Yates-Labs/folio/internal/rag"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show stored record counts per technique",
	Long: `Stats opens the configured vector store and prints how many records each
known technique holds. The count for a technique is the offset --resume
continues from.`,
	Args: cobra.NoArgs,
	RunE: runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	vectorStore, err := orchestrator.NewVectorStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to open vector store: %w", err)
	}
	defer vectorStore.Close()

	techniques := []rag.Technique{rag.TechniquePlain, rag.TechniqueContextual}
	rows := make([][]string, 0, len(techniques))
	total := 0
	for _, technique := range techniques {
		count, err := vectorStore.Count(ctx, technique)
		if err != nil {
			return fmt.Errorf("failed to count %s records: %w", technique, err)
		}
		total += count
		rows = append(rows, []string{
			fmt.Sprintf("%d", technique),
			technique.String(),
			fmt.Sprintf("%d", count),
		})
	}

	fmt.Fprintln(out, headerStyle.Render("Vector store: "+cfg.Store))
	fmt.Fprintln(out, newTable("ID", "TECHNIQUE", "RECORDS").Rows(rows...))
	fmt.Fprintln(out, summaryStyle.Render(fmt.Sprintf("%d records total", total)))
	return nil
}
