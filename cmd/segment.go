package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/Yates-Labs/folio/internal/document"
	"github.com/Yates-Labs/folio/internal/orchestrator"
)

var (
	segmentScenes bool
	segmentExport string
	segmentWidth  int
)

var segmentCmd = &cobra.Command{
	Use:   "segment <document.html>",
	Short: "Split a document into labeled passages",
	Long: `Segment parses a dramatic HTML document and prints the labeled passages
it would index, without contacting any model provider or vector store.

Examples:
  folio segment hamlet.html
  folio segment hamlet.html --scenes
  folio segment hamlet.html --export passages.json`,
	Args: cobra.ExactArgs(1),
	RunE: runSegment,
}

func init() {
	segmentCmd.Flags().BoolVar(&segmentScenes, "scenes", false, "Show scene windows instead of labels")
	segmentCmd.Flags().StringVar(&segmentExport, "export", "", "Export passages to JSON file: --export <filename>")
	segmentCmd.Flags().IntVar(&segmentWidth, "width", 60, "Maximum width of the text column")
	rootCmd.AddCommand(segmentCmd)
}

func runSegment(cmd *cobra.Command, args []string) error {
	file, err := openDocument(args[0])
	if err != nil {
		return err
	}
	defer file.Close()

	out := cmd.OutOrStdout()

	if segmentScenes {
		src, err := orchestrator.Windows(file, cfg.Markers(), orchestrator.StrategyScene)
		if err != nil {
			return err
		}
		return outputWindows(out, src)
	}

	passages, err := document.ReadAll(document.Segment(file, cfg.Markers()))
	if err != nil {
		return fmt.Errorf("failed to segment %s: %w", args[0], err)
	}

	if len(passages) == 0 {
		fmt.Fprintln(out, "No passages found in document")
		return nil
	}

	// Handle export flag
	if segmentExport != "" {
		return handleExport(out, passages, segmentExport)
	}

	outputPassages(out, args[0], passages)
	return nil
}

func outputPassages(out io.Writer, path string, passages []document.Passage) {
	rows := make([][]string, len(passages))
	for i, p := range passages {
		rows[i] = []string{
			fmt.Sprintf("%d", i),
			p.Label.Document,
			p.Label.Part,
			p.Label.Scene,
			p.Label.Character,
			preview(p.Text, segmentWidth),
		}
	}

	t := newTable("INDEX", "DOCUMENT", "PART", "SCENE", "CHARACTER", "TEXT").Rows(rows...)

	fmt.Fprintln(out, headerStyle.Render("Passages in "+path))
	fmt.Fprintln(out, t)
	fmt.Fprintln(out, summaryStyle.Render(fmt.Sprintf("%d passages", len(passages))))
}

func outputWindows(out io.Writer, src document.WindowSource) error {
	var (
		rows   [][]string
		scenes int
		last   string
	)
	for {
		w, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}
		if w.Scene != last {
			scenes++
			last = w.Scene
		}
		header, _, _ := strings.Cut(w.Scene, "\n")
		rows = append(rows, []string{
			fmt.Sprintf("%d", len(rows)),
			header,
			fmt.Sprintf("%d", len(w.Scene)),
			preview(w.Passage, segmentWidth),
		})
	}

	t := newTable("INDEX", "SCENE", "SCENE LENGTH", "PASSAGE").Rows(rows...)

	fmt.Fprintln(out, t)
	fmt.Fprintln(out, summaryStyle.Render(fmt.Sprintf("%d windows in %d scenes", len(rows), scenes)))
	return nil
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return lipgloss.NewStyle().
					Foreground(headerColor).
					Bold(true).
					Padding(0, 1)
			case col == 0:
				return lipgloss.NewStyle().
					Foreground(numberColor).
					Padding(0, 1)
			case col == len(headers)-1:
				return lipgloss.NewStyle().
					Foreground(textColor).
					Padding(0, 1)
			default:
				return lipgloss.NewStyle().
					Foreground(labelColor).
					Padding(0, 1)
			}
		}).
		Headers(headers...)
}

func handleExport(out io.Writer, passages []document.Passage, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer file.Close()

	if err := document.ExportPassages(passages, string(document.FormatJSON), file); err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("✓ Exported %d passages to %s", len(passages), filename)))
	return nil
}
