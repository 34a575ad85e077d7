package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Yates-Labs/folio/internal/document"
	"github.com/Yates-Labs/folio/internal/orchestrator"
)

const sample = `<html><body>
<h1>Hamlet</h1>
<h2>Act 1</h2>
<h3>Scene 1</h3>
<p><span class="speaker">BARNARDO</span>Who's there?</p>
<p><span class="speaker">FRANCISCO</span>Nay, answer me. Stand and unfold yourself.</p>
</body></html>`

func writeSample(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "hamlet.html")
	if err := os.WriteFile(path, []byte(sample), 0o644); err != nil {
		t.Fatalf("failed to write sample: %v", err)
	}
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("FOLIO_STORE", "memory")
	t.Setenv("FOLIO_LOG_LEVEL", "error")

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestSegmentCommand(t *testing.T) {
	path := writeSample(t)

	t.Run("passage table", func(t *testing.T) {
		out, err := execute(t, "segment", path, "--scenes=false", "--export=")
		if err != nil {
			t.Fatalf("segment failed: %v", err)
		}
		for _, want := range []string{"BARNARDO", "FRANCISCO", "Who's there?", "2 passages"} {
			if !strings.Contains(out, want) {
				t.Errorf("Expected output to contain %q, got:\n%s", want, out)
			}
		}
	})

	t.Run("scene windows", func(t *testing.T) {
		out, err := execute(t, "segment", path, "--scenes", "--export=")
		if err != nil {
			t.Fatalf("segment failed: %v", err)
		}
		if !strings.Contains(out, "In Hamlet,Act 1,Scene 1") {
			t.Errorf("Expected scene header in output, got:\n%s", out)
		}
		if !strings.Contains(out, "2 windows in 1 scenes") {
			t.Errorf("Expected window summary, got:\n%s", out)
		}
	})

	t.Run("json export", func(t *testing.T) {
		exportPath := filepath.Join(t.TempDir(), "passages.json")
		out, err := execute(t, "segment", path, "--scenes=false", "--export", exportPath)
		if err != nil {
			t.Fatalf("segment failed: %v", err)
		}
		if !strings.Contains(out, "Exported 2 passages") {
			t.Errorf("Expected export confirmation, got:\n%s", out)
		}

		data, err := os.ReadFile(exportPath)
		if err != nil {
			t.Fatalf("failed to read export: %v", err)
		}
		var exported []document.PassageExport
		if err := json.Unmarshal(data, &exported); err != nil {
			t.Fatalf("invalid JSON export: %v", err)
		}
		if len(exported) != 2 || exported[0].Character != "BARNARDO" || exported[0].Scene != "Scene 1" {
			t.Errorf("unexpected export %+v", exported)
		}
	})

	t.Run("missing document", func(t *testing.T) {
		_, err := execute(t, "segment", filepath.Join(t.TempDir(), "absent.html"), "--scenes=false", "--export=")
		if err == nil {
			t.Error("Expected error for missing document")
		}
	})
}

func TestSegmentCommand_ReadsEnvFile(t *testing.T) {
	markup := `<body><h1>Hamlet</h1><p><span class="role">HORATIO</span>Tush, tush, 'twill not appear.</p></body>`
	path := filepath.Join(t.TempDir(), "roles.html")
	if err := os.WriteFile(path, []byte(markup), 0o644); err != nil {
		t.Fatalf("failed to write document: %v", err)
	}

	if err := os.WriteFile(".env", []byte("FOLIO_SPEAKER_CLASS=role\n"), 0o644); err != nil {
		t.Fatalf("failed to write .env: %v", err)
	}
	t.Cleanup(func() {
		os.Remove(".env")
		os.Unsetenv("FOLIO_SPEAKER_CLASS")
	})

	exportPath := filepath.Join(t.TempDir(), "passages.json")
	if _, err := execute(t, "segment", path, "--scenes=false", "--export", exportPath); err != nil {
		t.Fatalf("segment failed: %v", err)
	}

	data, err := os.ReadFile(exportPath)
	if err != nil {
		t.Fatalf("failed to read export: %v", err)
	}
	var exported []document.PassageExport
	if err := json.Unmarshal(data, &exported); err != nil {
		t.Fatalf("invalid JSON export: %v", err)
	}
	if len(exported) != 1 || exported[0].Character != "HORATIO" {
		t.Errorf("Expected speaker class from .env to label the passage, got %+v", exported)
	}
}

func TestIndexCommand_RejectsConflictingOffsets(t *testing.T) {
	path := writeSample(t)

	_, err := execute(t, "index", path, "--technique", "1", "--skip", "3", "--resume")
	if !errors.Is(err, orchestrator.ErrConflictingOffsets) {
		t.Errorf("Expected ErrConflictingOffsets, got %v", err)
	}
}

func TestIndexCommand_RejectsUnknownStrategy(t *testing.T) {
	path := writeSample(t)

	_, err := execute(t, "index", path, "--technique", "1", "--strategy", "sliding", "--skip", "0", "--resume=false")
	if !errors.Is(err, orchestrator.ErrUnknownStrategy) {
		t.Errorf("Expected ErrUnknownStrategy, got %v", err)
	}
}

func TestPreview(t *testing.T) {
	tests := []struct {
		text  string
		width int
		want  string
	}{
		{"short", 10, "short"},
		{"line one\n  line two", 40, "line one line two"},
		{"abcdefghij", 5, "abcd…"},
		{"  padded  ", 10, "padded"},
	}
	for _, tt := range tests {
		if got := preview(tt.text, tt.width); got != tt.want {
			t.Errorf("preview(%q, %d) = %q, want %q", tt.text, tt.width, got, tt.want)
		}
	}
}
