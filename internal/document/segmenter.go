package document

import (
	"errors"
	"io"
	"strings"
)

// Label locates a passage: the most recent level-1, level-2 and level-3
// headings and the current speaker.
type Label struct {
	Document  string `json:"document"`
	Part      string `json:"part"`
	Scene     string `json:"scene"`
	Character string `json:"character"`
}

// SceneKey is the first three components of a label.
type SceneKey struct {
	Document string
	Part     string
	Scene    string
}

// SceneKey returns the label without its speaker.
func (l Label) SceneKey() SceneKey {
	return SceneKey{Document: l.Document, Part: l.Part, Scene: l.Scene}
}

// Header renders the key as "In <document>,<part>,<scene>", skipping empty parts.
func (k SceneKey) Header() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{k.Document, k.Part, k.Scene} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return "In " + strings.Join(parts, ",")
}

// Passage is the trimmed text accumulated while a label was current.
// Text is never empty.
type Passage struct {
	Label Label  `json:"label"`
	Text  string `json:"text"`
}

// State is the segmenter's position in the document.
type State struct {
	Label  Label
	Buffer string
}

// flush returns the buffered passage, or nil when the buffer is blank.
func (s State) flush() *Passage {
	text := strings.TrimSpace(s.Buffer)
	if text == "" {
		return nil
	}
	return &Passage{Label: s.Label, Text: text}
}

// Step applies one event to the state. A heading or speaker with non-empty
// text closes the current passage (returned when non-blank) and moves the
// label; any other event only contributes text.
func Step(s State, ev Event, m Markers) (State, *Passage) {
	switch ev.Kind {
	case Open:
		level := headingLevel(ev.Tag)
		if level > 0 || m.isSpeaker(ev) {
			name := strings.TrimSpace(ev.Text)
			if name == "" {
				return s, nil
			}
			emitted := s.flush()
			return State{Label: relabel(s.Label, level, name)}, emitted
		}
		if ev.Text != "" && !m.isExcluded(ev) {
			s.Buffer += ev.Text
		}
	case Close:
		if !m.isExcluded(ev) {
			s.Buffer += ev.Tail
		}
		s.Buffer += "\n"
	}
	return s, nil
}

// relabel resets every label level at or below the given heading level.
// Level 0 denotes a speaker, which only replaces the character.
func relabel(l Label, level int, name string) Label {
	switch level {
	case 1:
		return Label{Document: name}
	case 2:
		return Label{Document: l.Document, Part: name}
	case 3:
		return Label{Document: l.Document, Part: l.Part, Scene: name}
	default:
		l.Character = name
		return l
	}
}

// EventSource yields markup events until io.EOF.
type EventSource interface {
	Next() (Event, error)
}

// Segmenter lazily turns an event stream into passages. It makes a single
// pass over its source and cannot be restarted.
type Segmenter struct {
	src     EventSource
	markers Markers
	state   State
	done    bool
}

// NewSegmenter returns a segmenter over src.
func NewSegmenter(src EventSource, markers Markers) *Segmenter {
	return &Segmenter{src: src, markers: markers}
}

// Segment is shorthand for segmenting the HTML document read from r.
func Segment(r io.Reader, markers Markers) *Segmenter {
	return NewSegmenter(NewEventReader(r), markers)
}

// Next returns the next passage in document order, or io.EOF.
func (s *Segmenter) Next() (Passage, error) {
	if s.done {
		return Passage{}, io.EOF
	}
	for {
		ev, err := s.src.Next()
		if errors.Is(err, io.EOF) {
			s.done = true
			if p := s.state.flush(); p != nil {
				return *p, nil
			}
			return Passage{}, io.EOF
		}
		if err != nil {
			s.done = true
			return Passage{}, err
		}

		var p *Passage
		s.state, p = Step(s.state, ev, s.markers)
		if p != nil {
			return *p, nil
		}
	}
}

// ReadAll drains a passage source.
func ReadAll(src PassageSource) ([]Passage, error) {
	var out []Passage
	for {
		p, err := src.Next()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, p)
	}
}
