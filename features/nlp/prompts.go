package nlp

import (
	"fmt"
	"strings"

	"github.com/NazzX1/rag-v2/internal/retrieval"
)

const systemPrompt = "You are an assistant that answers user questions. " +
	"You will be provided a set of documents retrieved from the user's project. " +
	"Generate the answer based only on the provided documents. " +
	"Ignore documents that are not relevant to the question. " +
	"If no document answers the question, apologize and say you do not know. " +
	"Answer in the same language the question was asked in. Be precise and polite."

// buildAnswerPrompt renders retrieved chunks plus the question into the final
// generation prompt.
func buildAnswerPrompt(query string, docs []retrieval.SearchResult, process func(string) string) string {
	var b strings.Builder

	for i, doc := range docs {
		content := doc.Content
		if process != nil {
			content = process(content)
		}
		fmt.Fprintf(&b, "## Document No: %d\n### Content: %s\n\n", i+1, content)
	}

	fmt.Fprintf(&b, "Based only on the above documents, generate an answer for the user.\n## Question:\n%s\n\n## Answer:\n", query)

	return b.String()
}
