package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Yates-Labs/folio/internal/orchestrator"
	"github.com/Yates-Labs/folio/internal/rag"
)

var (
	indexTechnique    int
	indexStrategy     string
	indexAnnotate     bool
	indexSkip         int
	indexResume       bool
	indexInstructions string
)

var indexCmd = &cobra.Command{
	Use:   "index <document.html>",
	Short: "Embed a document's passages into the vector store",
	Long: `Index segments a document, optionally pairs each passage with its scene
and an LLM-written situating blurb, embeds the result and stores the original
passage under the chosen technique.

Technique 1 defaults to plain passages. Technique 2 defaults to annotated
scene windows. Flags override the preset.

A failed job reports how many passages were committed. Rerun with --resume
to continue from the number of stored records, or --skip N to start at N.

Examples:
  folio index hamlet.html --technique 1
  folio index hamlet.html --technique 2
  folio index hamlet.html --technique 2 --resume`,
	Args: cobra.ExactArgs(1),
	RunE: runIndex,
}

func init() {
	rootCmd.AddCommand(indexCmd)
	indexCmd.Flags().IntVar(&indexTechnique, "technique", int(rag.TechniquePlain), "Technique id to store records under")
	indexCmd.Flags().StringVar(&indexStrategy, "strategy", "", "Windowing strategy: plain or scene (default from technique)")
	indexCmd.Flags().BoolVar(&indexAnnotate, "annotate", false, "Prepend an LLM-generated situating blurb before embedding (default from technique)")
	indexCmd.Flags().IntVar(&indexSkip, "skip", 0, "Number of leading passages to skip")
	indexCmd.Flags().BoolVar(&indexResume, "resume", false, "Skip as many passages as the store already holds for the technique")
	indexCmd.Flags().StringVar(&indexInstructions, "instructions", "", "Override the situating instructions sent to the LLM")
}

func runIndex(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	spec, err := indexSpec(cmd)
	if err != nil {
		return err
	}

	file, err := openDocument(args[0])
	if err != nil {
		return err
	}
	defer file.Close()

	pipeline, err := orchestrator.NewPipeline(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to create pipeline: %w", err)
	}
	defer pipeline.Close()

	fmt.Fprintln(out, contextStyle.Render(fmt.Sprintf("→ Indexing %s as %s (%s windows, annotate=%t)",
		args[0], spec.Technique, spec.Strategy, spec.Annotate)))

	result, err := pipeline.Index(ctx, file, spec)
	if err != nil {
		var indexErr *rag.IndexError
		if errors.As(err, &indexErr) {
			fmt.Fprintln(out, errorStyle.Render(fmt.Sprintf("✗ Stopped at passage %d after storing %d records", indexErr.Index, result.Stored)))
			fmt.Fprintln(out, contextStyle.Render(fmt.Sprintf("  rerun with --resume or --skip %d", indexErr.Index)))
		}
		return fmt.Errorf("indexing failed: %w", err)
	}

	fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("✓ Stored %d records", result.Stored)))
	fmt.Fprintln(out, summaryStyle.Render(fmt.Sprintf("%d passages read, %d skipped", result.Processed, result.Skipped)))
	return nil
}

// indexSpec starts from the technique preset and applies explicitly set flags.
func indexSpec(cmd *cobra.Command) (orchestrator.JobSpec, error) {
	if indexTechnique <= 0 {
		return orchestrator.JobSpec{}, fmt.Errorf("technique must be positive, got %d", indexTechnique)
	}

	spec := orchestrator.PresetFor(rag.Technique(indexTechnique))
	flags := cmd.Flags()
	if flags.Changed("strategy") {
		spec.Strategy = orchestrator.Strategy(indexStrategy)
	}
	if flags.Changed("annotate") {
		spec.Annotate = indexAnnotate
	}
	spec.Skip = indexSkip
	spec.Resume = indexResume
	spec.Instructions = indexInstructions

	return spec, spec.Validate()
}
