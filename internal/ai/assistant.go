package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// ErrUnavailable signals a transport or upstream failure. The API layer
// substitutes a fixed apology rather than surfacing it as a hard error.
var ErrUnavailable = errors.New("assistant unavailable")

// MaxContextBytes caps the dataset text included in a prompt. The model
// accepts far more, but an oversized context document must not be able
// to fail the request.
const MaxContextBytes = 512 * 1024

// Assistant forwards a user message, grounded on the dataset text, to a
// text-generation backend. Requests are strictly request/response and
// nothing is persisted; conversation history lives only in the client.
type Assistant struct {
	gen Generator
}

func NewAssistant(gen Generator) *Assistant {
	return &Assistant{gen: gen}
}

// Ask relays the message and returns the reply. contextDoc is the raw
// dataset text; it is truncated to MaxContextBytes on a rune boundary
// before being included verbatim.
func (a *Assistant) Ask(ctx context.Context, message, contextDoc string) (string, error) {
	reply, err := a.gen.Generate(ctx, buildPrompt(message, contextDoc))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return reply, nil
}

func buildPrompt(message, contextDoc string) string {
	contextDoc = truncate(contextDoc, MaxContextBytes)
	if contextDoc == "" {
		return message
	}

	var b strings.Builder
	b.WriteString("You are ScholarMatch Assistant, helping students find scholarships and financial aid schemes. ")
	b.WriteString("Answer using the scholarship dataset below. If the answer is not in the dataset, say so.\n\n")
	b.WriteString("Dataset:\n")
	b.WriteString(contextDoc)
	b.WriteString("\n\nQuestion: ")
	b.WriteString(message)
	return b.String()
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := s[:max]
	for len(cut) > 0 {
		if r, _ := utf8.DecodeLastRuneInString(cut); r != utf8.RuneError {
			break
		}
		cut = cut[:len(cut)-1]
	}
	return cut
}
