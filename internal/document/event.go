// Package document turns a tagged dramatic text into ordered, labeled passages.
// It reads the markup as a stream of open/close events, runs them through a
// small segmentation state machine, and optionally regroups the resulting
// passages into scene windows for contextual annotation.
package document

import "strings"

// EventKind distinguishes element openings from closings.
type EventKind int

const (
	Open EventKind = iota
	Close
)

func (k EventKind) String() string {
	if k == Open {
		return "open"
	}
	return "close"
}

// Event is a single markup open or close event.
type Event struct {
	Kind    EventKind
	Tag     string
	Classes []string

	// Text is the content between an opening tag and the next tag (Open only).
	Text string

	// Tail is the content between a closing tag and the next tag (Close only).
	Tail string
}

// HasClass reports whether the event's element carries the given class.
func (e Event) HasClass(class string) bool {
	if class == "" {
		return false
	}
	for _, c := range e.Classes {
		if c == class {
			return true
		}
	}
	return false
}

// Markers names the class-like attributes that carry structural meaning.
type Markers struct {
	// SpeakerClass marks an element whose text names the current speaker.
	SpeakerClass string

	// ExcludedClasses suppress text content (line numbers, image captions).
	// They never suppress heading or speaker detection.
	ExcludedClasses []string
}

// DefaultMarkers returns the markers used by the bundled play markup.
func DefaultMarkers() Markers {
	return Markers{
		SpeakerClass:    "speaker",
		ExcludedClasses: []string{"lineNbr", "caption"},
	}
}

func (m Markers) isSpeaker(e Event) bool {
	return e.HasClass(m.SpeakerClass)
}

func (m Markers) isExcluded(e Event) bool {
	for _, c := range m.ExcludedClasses {
		if e.HasClass(c) {
			return true
		}
	}
	return false
}

// headingLevel returns 1, 2 or 3 for h1..h3 and 0 for anything else.
func headingLevel(tag string) int {
	switch strings.ToLower(tag) {
	case "h1":
		return 1
	case "h2":
		return 2
	case "h3":
		return 3
	}
	return 0
}
