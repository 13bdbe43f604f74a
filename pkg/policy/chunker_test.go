package policy

import (
	"strings"
	"testing"
)

func TestChunkShortDocumentSingleChunk(t *testing.T) {
	c := NewChunker(500, 50)

	chunks := c.Chunk("Model risk is the potential for adverse consequences.")
	if len(chunks) != 1 {
		t.Fatalf("chunk count = %d, want 1", len(chunks))
	}
	if chunks[0].Index != 0 {
		t.Errorf("index = %d, want 0", chunks[0].Index)
	}
	if chunks[0].Section != "" {
		t.Errorf("section = %q, want empty for headingless text", chunks[0].Section)
	}
}

func TestChunkTagsSections(t *testing.T) {
	doc := strings.Join([]string{
		"# Definitions",
		"Model risk is the potential for adverse consequences from model-based decisions.",
		"",
		"# Validation Requirements",
		"All models must be validated before deployment.",
	}, "\n")

	chunks := NewChunker(500, 50).Chunk(doc)
	if len(chunks) != 2 {
		t.Fatalf("chunk count = %d, want 2: %+v", len(chunks), chunks)
	}
	if chunks[0].Section != "Definitions" {
		t.Errorf("chunks[0].Section = %q, want %q", chunks[0].Section, "Definitions")
	}
	if chunks[1].Section != "Validation Requirements" {
		t.Errorf("chunks[1].Section = %q, want %q", chunks[1].Section, "Validation Requirements")
	}
	if chunks[1].Index != 1 {
		t.Errorf("chunks[1].Index = %d, want 1", chunks[1].Index)
	}
}

func TestChunkNumberedHeadings(t *testing.T) {
	doc := "3.1 Scope\nThis policy applies to all quantitative models."

	chunks := NewChunker(500, 50).Chunk(doc)
	if len(chunks) != 1 {
		t.Fatalf("chunk count = %d, want 1", len(chunks))
	}
	if chunks[0].Section != "Scope" {
		t.Errorf("section = %q, want %q", chunks[0].Section, "Scope")
	}
}

func TestChunkLongSectionOverlaps(t *testing.T) {
	body := strings.Repeat("All models must be validated before deployment. ", 30)
	doc := "# Validation\n" + body

	chunks := NewChunker(500, 50).Chunk(doc)
	if len(chunks) < 2 {
		t.Fatalf("chunk count = %d, want at least 2 for %d chars", len(chunks), len(body))
	}

	for i, ch := range chunks {
		if ch.Section != "Validation" {
			t.Errorf("chunks[%d].Section = %q, want %q", i, ch.Section, "Validation")
		}
		if ch.Index != i {
			t.Errorf("chunks[%d].Index = %d, want %d", i, ch.Index, i)
		}
		if len(ch.Content) > 500 {
			t.Errorf("chunks[%d] length = %d, exceeds chunk size", i, len(ch.Content))
		}
	}

	// Consecutive chunks share the overlap region.
	first := chunks[0].Content
	second := chunks[1].Content
	tail := first[len(first)-20:]
	if !strings.Contains(second, strings.TrimSpace(tail)) {
		t.Errorf("second chunk does not overlap first: tail %q not found", tail)
	}
}

func TestChunkSkipsEmptySections(t *testing.T) {
	doc := "# Empty Heading\n\n# Scope\nApplies to all models."

	chunks := NewChunker(500, 50).Chunk(doc)
	if len(chunks) != 1 {
		t.Fatalf("chunk count = %d, want 1: %+v", len(chunks), chunks)
	}
	if chunks[0].Section != "Scope" {
		t.Errorf("section = %q, want %q", chunks[0].Section, "Scope")
	}
}
