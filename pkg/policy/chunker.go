package policy

import (
	"regexp"
	"strings"
)

// Chunk is one indexable piece of a policy document.
type Chunk struct {
	Content string
	Section string
	Index   int
}

// Markdown headings and numbered headings ("3.", "3.1 Scope") both start
// sections in the policy corpus.
var (
	markdownHeading = regexp.MustCompile(`^#{1,6}\s+(.+)$`)
	numberedHeading = regexp.MustCompile(`^\d+(\.\d+)*\.?\s+([A-Z].*)$`)
)

// Chunker splits policy documents into overlapping passages for embedding.
// Sections never bleed into each other: a chunk always belongs to exactly
// one section, so citations can name it.
type Chunker struct {
	chunkSize int
	overlap   int
}

func NewChunker(chunkSize, overlap int) *Chunker {
	if chunkSize <= 0 {
		chunkSize = 500
	}
	if overlap < 0 || overlap >= chunkSize {
		overlap = 50
	}
	return &Chunker{chunkSize: chunkSize, overlap: overlap}
}

// Chunk splits a document into section-tagged passages. Chunk indexes are
// global across the document, in reading order.
func (c *Chunker) Chunk(text string) []Chunk {
	var chunks []Chunk
	index := 0

	for _, sec := range splitSections(text) {
		for _, piece := range splitText(sec.body, c.chunkSize, c.overlap) {
			piece = strings.TrimSpace(piece)
			if piece == "" {
				continue
			}
			chunks = append(chunks, Chunk{
				Content: piece,
				Section: sec.title,
				Index:   index,
			})
			index++
		}
	}

	return chunks
}

type section struct {
	title string
	body  string
}

func splitSections(text string) []section {
	var sections []section
	current := section{}
	var body strings.Builder

	flush := func() {
		current.body = strings.TrimSpace(body.String())
		if current.body != "" {
			sections = append(sections, current)
		}
		body.Reset()
	}

	for _, line := range strings.Split(text, "\n") {
		if title := headingTitle(strings.TrimSpace(line)); title != "" {
			flush()
			current = section{title: title}
			continue
		}
		body.WriteString(line)
		body.WriteString("\n")
	}
	flush()

	return sections
}

func headingTitle(line string) string {
	if m := markdownHeading.FindStringSubmatch(line); m != nil {
		return strings.TrimSpace(m[1])
	}
	if m := numberedHeading.FindStringSubmatch(line); m != nil {
		// Short lines only; a numbered list item inside a paragraph is
		// not a heading.
		if len(line) <= 80 {
			return strings.TrimSpace(m[2])
		}
	}
	return ""
}

// splitText cuts a long string into chunks of roughly chunkSize runes with
// an overlap preserving context at boundaries. Character-based on purpose:
// strict slicing never loses data, unlike word-boundary heuristics.
func splitText(text string, chunkSize, overlap int) []string {
	if len(text) <= chunkSize {
		return []string{text}
	}

	var chunks []string
	runes := []rune(text)
	totalLen := len(runes)

	step := chunkSize - overlap
	if step <= 0 {
		step = chunkSize
	}

	for i := 0; i < totalLen; i += step {
		end := i + chunkSize
		if end > totalLen {
			end = totalLen
		}

		chunks = append(chunks, string(runes[i:end]))

		if end == totalLen {
			break
		}
	}

	return chunks
}
