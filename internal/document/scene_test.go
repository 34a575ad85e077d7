package document

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"
)

// slicePassages replays a fixed list of passages.
type slicePassages struct {
	passages []Passage
}

func (s *slicePassages) Next() (Passage, error) {
	if len(s.passages) == 0 {
		return Passage{}, io.EOF
	}
	p := s.passages[0]
	s.passages = s.passages[1:]
	return p, nil
}

func readWindows(t *testing.T, src WindowSource) []Window {
	t.Helper()
	var out []Window
	for {
		w, err := src.Next()
		if errors.Is(err, io.EOF) {
			return out
		}
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		out = append(out, w)
	}
}

func TestSceneAggregator_TwoSpeakers(t *testing.T) {
	windows := readWindows(t, NewSceneAggregator(Segment(strings.NewReader(twoSpeakers), DefaultMarkers())))

	scene := "In Act I,Scene I\nA says:\nHello there.\nB says:\nHi!"
	want := []Window{
		{Scene: scene, Passage: "Hello there."},
		{Scene: scene, Passage: "Hi!"},
	}
	if len(windows) != len(want) {
		t.Fatalf("Expected %d windows, got %d", len(want), len(windows))
	}
	for i := range want {
		if windows[i] != want[i] {
			t.Errorf("window %d = %q, want %q", i, windows[i], want[i])
		}
	}
}

func TestSceneAggregator_SceneBoundaries(t *testing.T) {
	passages := []Passage{
		{Label: Label{Document: "Hamlet", Part: "Act 1", Scene: "Scene 1", Character: "BARNARDO"}, Text: "Who's there?"},
		{Label: Label{Document: "Hamlet", Part: "Act 1", Scene: "Scene 1", Character: "FRANCISCO"}, Text: "Nay, answer me."},
		{Label: Label{Document: "Hamlet", Part: "Act 1", Scene: "Scene 2"}, Text: "Flourish."},
		{Label: Label{Document: "Hamlet", Part: "Act 1", Scene: "Scene 2", Character: "KING"}, Text: "Though yet of Hamlet."},
		{Label: Label{Document: "Hamlet", Part: "Act 1", Scene: "Scene 1", Character: "HORATIO"}, Text: "Back again."},
	}

	windows := readWindows(t, NewSceneAggregator(&slicePassages{passages: append([]Passage(nil), passages...)}))
	if len(windows) != len(passages) {
		t.Fatalf("Expected one window per passage, got %d", len(windows))
	}

	t.Run("passage order preserved", func(t *testing.T) {
		for i, w := range windows {
			if w.Passage != passages[i].Text {
				t.Errorf("window %d passage = %q, want %q", i, w.Passage, passages[i].Text)
			}
		}
	})

	t.Run("members share scene text", func(t *testing.T) {
		if windows[0].Scene != windows[1].Scene {
			t.Error("Expected first scene members to share scene text")
		}
		if windows[2].Scene != windows[3].Scene {
			t.Error("Expected second scene members to share scene text")
		}
		if windows[1].Scene == windows[2].Scene {
			t.Error("Expected different scenes to differ")
		}
	})

	t.Run("scene text reproduces display strings", func(t *testing.T) {
		groups := [][]Passage{passages[0:2], passages[2:4], passages[4:5]}
		starts := []int{0, 2, 4}
		headers := []SceneKey{passages[2].Label.SceneKey(), passages[4].Label.SceneKey(), passages[4].Label.SceneKey()}
		for g, members := range groups {
			lines := make([]string, len(members))
			for i, p := range members {
				lines[i] = DisplayText(p)
			}
			want := headers[g].Header() + "\n" + strings.Join(lines, "\n")
			if got := windows[starts[g]].Scene; got != want {
				t.Errorf("scene %d = %q, want %q", g, got, want)
			}
		}
	})

	t.Run("scene header names the key that ended the scene", func(t *testing.T) {
		if !strings.HasPrefix(windows[0].Scene, "In Hamlet,Act 1,Scene 2\nBARNARDO says:") {
			t.Errorf("unexpected header in %q", windows[0].Scene)
		}
		if !strings.HasPrefix(windows[2].Scene, "In Hamlet,Act 1,Scene 1\nFlourish.\nKING says:") {
			t.Errorf("unexpected scene text %q", windows[2].Scene)
		}
	})

	t.Run("final scene keeps its own header", func(t *testing.T) {
		if windows[4].Scene != "In Hamlet,Act 1,Scene 1\nHORATIO says:\nBack again." {
			t.Errorf("unexpected scene text %q", windows[4].Scene)
		}
	})
}

func TestSceneAggregator_HeaderFromNextScene(t *testing.T) {
	markup := `<body>
<h1>Act I</h1>
<h2>Scene I</h2>
<p><span class="speaker">A</span>Hello there.</p>
<h2>Scene II</h2>
<p><span class="speaker">B</span>Hi!</p>
</body>`

	windows := readWindows(t, NewSceneAggregator(Segment(strings.NewReader(markup), DefaultMarkers())))
	want := []Window{
		{Scene: "In Act I,Scene II\nA says:\nHello there.", Passage: "Hello there."},
		{Scene: "In Act I,Scene II\nB says:\nHi!", Passage: "Hi!"},
	}
	if len(windows) != len(want) {
		t.Fatalf("Expected %d windows, got %d", len(want), len(windows))
	}
	for i := range want {
		if windows[i] != want[i] {
			t.Errorf("window %d = %q, want %q", i, windows[i], want[i])
		}
	}
}

func TestSceneAggregator_Empty(t *testing.T) {
	windows := readWindows(t, NewSceneAggregator(&slicePassages{}))
	if len(windows) != 0 {
		t.Errorf("Expected no windows, got %d", len(windows))
	}
}

func TestPlainWindows(t *testing.T) {
	windows := readWindows(t, NewPlainWindows(Segment(strings.NewReader(twoSpeakers), DefaultMarkers())))
	want := []Window{{Passage: "Hello there."}, {Passage: "Hi!"}}
	if len(windows) != len(want) {
		t.Fatalf("Expected %d windows, got %d", len(want), len(windows))
	}
	for i := range want {
		if windows[i] != want[i] {
			t.Errorf("window %d = %q, want %q", i, windows[i], want[i])
		}
	}
}

func TestExportPassages(t *testing.T) {
	passages := segmentString(t, twoSpeakers)

	var buf bytes.Buffer
	if err := ExportPassages(passages, "JSON", &buf); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	var exported []PassageExport
	if err := json.Unmarshal(buf.Bytes(), &exported); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(exported) != 2 || exported[1].Character != "B" || exported[1].Index != 1 || exported[1].Length != 3 {
		t.Errorf("unexpected export %+v", exported)
	}

	if err := ExportPassages(passages, "csv", &buf); err == nil {
		t.Error("Expected error for unsupported format")
	}
}
