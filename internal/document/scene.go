package document

import (
	"errors"
	"io"
	"strings"
)

// Window pairs a passage with the text of the scene around it.
// Scene is empty when the passage is indexed without scene context.
type Window struct {
	Scene   string
	Passage string
}

// PassageSource yields passages until io.EOF.
type PassageSource interface {
	Next() (Passage, error)
}

// WindowSource yields windows until io.EOF.
type WindowSource interface {
	Next() (Window, error)
}

// DisplayText renders a passage the way it appears inside a scene.
func DisplayText(p Passage) string {
	if p.Label.Character != "" {
		return p.Label.Character + " says:\n" + p.Text
	}
	return p.Text
}

// SceneText reconstructs a scene from its member passages.
func SceneText(key SceneKey, members []Passage) string {
	lines := make([]string, len(members))
	for i, p := range members {
		lines[i] = DisplayText(p)
	}
	return key.Header() + "\n" + strings.Join(lines, "\n")
}

// SceneAggregator groups consecutive passages that share a scene key and
// emits one window per passage, each carrying the full scene text. The
// header of a scene is rendered from the current key at flush time: the key
// of the passage that started the next scene, or the scene's own key at the
// end of the stream.
type SceneAggregator struct {
	src     PassageSource
	key     SceneKey
	started bool
	members []Passage
	ready   []Window
	done    bool
}

// NewSceneAggregator returns an aggregator over src.
func NewSceneAggregator(src PassageSource) *SceneAggregator {
	return &SceneAggregator{src: src}
}

// Next returns the next window in passage order, or io.EOF.
func (a *SceneAggregator) Next() (Window, error) {
	for len(a.ready) == 0 {
		if a.done {
			return Window{}, io.EOF
		}
		p, err := a.src.Next()
		if errors.Is(err, io.EOF) {
			a.flush()
			a.done = true
			continue
		}
		if err != nil {
			a.done = true
			return Window{}, err
		}

		// A scene is flushed under the key that ended it.
		if key := p.Label.SceneKey(); !a.started || key != a.key {
			a.key = key
			a.started = true
			a.flush()
		}
		a.members = append(a.members, p)
	}

	w := a.ready[0]
	a.ready = a.ready[1:]
	return w, nil
}

func (a *SceneAggregator) flush() {
	if len(a.members) == 0 {
		return
	}
	scene := SceneText(a.key, a.members)
	for _, p := range a.members {
		a.ready = append(a.ready, Window{Scene: scene, Passage: p.Text})
	}
	a.members = nil
}

// PlainWindows adapts a passage source to windows without scene context.
type PlainWindows struct {
	src PassageSource
}

// NewPlainWindows returns a window source that passes passages through.
func NewPlainWindows(src PassageSource) *PlainWindows {
	return &PlainWindows{src: src}
}

// Next returns the next passage as a window with an empty scene.
func (w *PlainWindows) Next() (Window, error) {
	p, err := w.src.Next()
	if err != nil {
		return Window{}, err
	}
	return Window{Passage: p.Text}, nil
}
