package generation

import (
	"strings"
	"testing"
)

func TestRenderSituatePrompt(t *testing.T) {
	req := SituateRequest{
		Scene: "In Act I,Scene I\nA says:\nHello there.",
		Chunk: "Hello there.",
	}

	prompt := RenderSituatePrompt(req)

	want := "<scene>\nIn Act I,Scene I\nA says:\nHello there.\n</scene>\n" +
		"Here is the chunk we want to situate within the whole scene\n" +
		"<chunk>\nHello there.\n</chunk>\n" +
		DefaultInstructions
	if prompt != want {
		t.Errorf("unexpected prompt:\n%s", prompt)
	}
}

func TestRenderSituatePrompt_CustomInstructions(t *testing.T) {
	prompt := RenderSituatePrompt(SituateRequest{
		Scene:        "scene",
		Chunk:        "chunk",
		Instructions: "Name the speaker.",
	})

	if !strings.HasSuffix(prompt, "</chunk>\nName the speaker.") {
		t.Errorf("Expected custom instructions at the end, got %q", prompt)
	}
	if strings.Contains(prompt, DefaultInstructions) {
		t.Error("Expected default instructions to be replaced")
	}
}

func TestRenderSituatePrompt_EmptyScene(t *testing.T) {
	prompt := RenderSituatePrompt(SituateRequest{Chunk: "Alone."})
	if !strings.HasPrefix(prompt, "<scene>\n\n</scene>\n") {
		t.Errorf("Expected empty scene block, got %q", prompt)
	}
}
