package document

import (
	"errors"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// voidElements never have a closing tag in HTML; they open and close at once.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

type openElement struct {
	tag     string
	classes []string
}

// EventReader converts an HTML token stream into Open/Close events for the
// elements inside <body>. Text following a start tag is bound to that tag's
// Open event; text following an end tag is bound to its Close event.
type EventReader struct {
	z       *html.Tokenizer
	inBody  bool
	stack   []openElement
	pending *Event
	queue   []Event
	err     error
}

// NewEventReader returns a reader over the markup in r.
func NewEventReader(r io.Reader) *EventReader {
	return &EventReader{z: html.NewTokenizer(r)}
}

// Next returns the next event, or io.EOF once the document is exhausted.
func (r *EventReader) Next() (Event, error) {
	for len(r.queue) == 0 {
		if r.err != nil {
			return Event{}, r.err
		}
		r.advance()
	}
	ev := r.queue[0]
	r.queue = r.queue[1:]
	return ev, nil
}

func (r *EventReader) advance() {
	tt := r.z.Next()
	switch tt {
	case html.ErrorToken:
		r.flush()
		// Elements left open at end of input close with no tail.
		for len(r.stack) > 0 {
			r.pop()
		}
		r.err = r.z.Err()
		if errors.Is(r.err, io.EOF) {
			r.err = io.EOF
		}

	case html.TextToken:
		if r.pending == nil {
			return
		}
		text := string(r.z.Text())
		if r.pending.Kind == Open {
			r.pending.Text += text
		} else {
			r.pending.Tail += text
		}

	case html.StartTagToken, html.SelfClosingTagToken:
		tok := r.z.Token()
		r.flush()
		if tok.Data == "body" {
			r.inBody = true
		}
		if !r.inBody {
			return
		}
		classes := classList(tok.Attr)
		open := Event{Kind: Open, Tag: tok.Data, Classes: classes}
		if tt == html.SelfClosingTagToken || voidElements[tok.Data] {
			r.queue = append(r.queue, open)
			r.pending = &Event{Kind: Close, Tag: tok.Data, Classes: classes}
			return
		}
		r.stack = append(r.stack, openElement{tag: tok.Data, classes: classes})
		r.pending = &open

	case html.EndTagToken:
		tok := r.z.Token()
		if !r.inBody || voidElements[tok.Data] {
			return
		}
		idx := r.find(tok.Data)
		if idx < 0 {
			// Stray end tag; its surrounding text stays with the pending event.
			return
		}
		r.flush()
		// Implicitly close anything opened inside the matching element.
		for len(r.stack)-1 > idx {
			r.pop()
		}
		el := r.stack[idx]
		r.stack = r.stack[:idx]
		closing := Event{Kind: Close, Tag: el.tag, Classes: el.classes}
		if el.tag == "body" {
			r.queue = append(r.queue, closing)
			r.inBody = false
			return
		}
		r.pending = &closing
	}
}

// flush moves the pending event, now that its text is complete, to the queue.
func (r *EventReader) flush() {
	if r.pending != nil {
		r.queue = append(r.queue, *r.pending)
		r.pending = nil
	}
}

func (r *EventReader) pop() {
	el := r.stack[len(r.stack)-1]
	r.stack = r.stack[:len(r.stack)-1]
	r.queue = append(r.queue, Event{Kind: Close, Tag: el.tag, Classes: el.classes})
}

func (r *EventReader) find(tag string) int {
	for i := len(r.stack) - 1; i >= 0; i-- {
		if r.stack[i].tag == tag {
			return i
		}
	}
	return -1
}

func classList(attrs []html.Attribute) []string {
	for _, a := range attrs {
		if a.Key == "class" {
			return strings.Fields(a.Val)
		}
	}
	return nil
}
