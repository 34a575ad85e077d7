package generation

import "strings"

// DefaultInstructions asks for a search-oriented situating blurb and nothing else.
const DefaultInstructions = "Please give a short succinct context to situate this chunk within the overall scene " +
	"for the purposes of improving search retrieval of the chunk. " +
	"Answer only with the succinct context and nothing else."

// RenderSituatePrompt builds the provider prompt for a situating request.
func RenderSituatePrompt(req SituateRequest) string {
	instructions := req.Instructions
	if instructions == "" {
		instructions = DefaultInstructions
	}

	var b strings.Builder

	b.WriteString("<scene>\n")
	b.WriteString(req.Scene)
	b.WriteString("\n</scene>\n")
	b.WriteString("Here is the chunk we want to situate within the whole scene\n")
	b.WriteString("<chunk>\n")
	b.WriteString(req.Chunk)
	b.WriteString("\n</chunk>\n")
	b.WriteString(instructions)

	return b.String()
}
