// Package knowledge is the retrieval side of the chat surface: document
// chunking, Gemini embeddings and a Mongo-backed chunk store ranked by cosine
// similarity in process.
package knowledge

import "strings"

const (
	chunkSize    = 1000
	chunkOverlap = 200
)

// Document is one ingestible unit before chunking.
type Document struct {
	Name       string
	URL        string
	SourceType string // "text", "link" or "file"
	Content    string
}

// splitText cuts content into overlapping chunks, preferring to break on
// paragraph, line, sentence and word boundaries, in that order.
func splitText(content string) []string {
	if len(content) <= chunkSize {
		if strings.TrimSpace(content) == "" {
			return nil
		}
		return []string{content}
	}

	var chunks []string
	start := 0
	for start < len(content) {
		end := start + chunkSize
		if end >= len(content) {
			chunks = append(chunks, content[start:])
			break
		}
		cut := findBreak(content[start:end])
		chunks = append(chunks, content[start:start+cut])
		next := start + cut - chunkOverlap
		if next <= start {
			next = start + cut
		}
		start = next
	}

	out := chunks[:0]
	for _, c := range chunks {
		if strings.TrimSpace(c) != "" {
			out = append(out, c)
		}
	}
	return out
}

// findBreak picks the latest natural boundary inside a window, falling back to
// the full window when none exists past the halfway point.
func findBreak(window string) int {
	for _, sep := range []string{"\n\n", "\n", ". ", " "} {
		if idx := strings.LastIndex(window, sep); idx > len(window)/2 {
			return idx + len(sep)
		}
	}
	return len(window)
}
