package document

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// ExportFormat represents supported export formats
type ExportFormat string

const (
	FormatJSON ExportFormat = "json"
)

// PassageExport is a flattened passage with its position in the document
type PassageExport struct {
	Index     int    `json:"index"`
	Document  string `json:"document,omitempty"`
	Part      string `json:"part,omitempty"`
	Scene     string `json:"scene,omitempty"`
	Character string `json:"character,omitempty"`
	Text      string `json:"text"`
	Length    int    `json:"length"`
}

// ExportPassages writes passages to writer in the given format
func ExportPassages(passages []Passage, format string, writer io.Writer) error {
	if ExportFormat(strings.ToLower(format)) != FormatJSON {
		return fmt.Errorf("unsupported export format: %s (supported: json)", format)
	}

	exports := make([]PassageExport, len(passages))
	for i, p := range passages {
		exports[i] = PassageExport{
			Index:     i,
			Document:  p.Label.Document,
			Part:      p.Label.Part,
			Scene:     p.Label.Scene,
			Character: p.Label.Character,
			Text:      p.Text,
			Length:    len(p.Text),
		}
	}

	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(exports); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}
