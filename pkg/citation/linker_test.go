package citation

import (
	"strings"
	"testing"

	"risk-copilot-be/pkg/retrieval"
)

func TestLinkFiltersBelowMinRelevance(t *testing.T) {
	linker := NewLinker(0.6)
	evidence := []retrieval.Evidence{
		{DocumentID: "doc-a", Excerpt: "relevant passage", SimilarityScore: 0.8, Source: retrieval.SourceMetadata{DocumentName: "Credit Policy"}},
		{DocumentID: "doc-b", Excerpt: "weak passage", SimilarityScore: 0.45, Source: retrieval.SourceMetadata{DocumentName: "Old Memo"}},
	}

	_, citations := linker.Link("The answer.", evidence)
	if len(citations) != 1 {
		t.Fatalf("got %d citations, want 1", len(citations))
	}
	if citations[0].DocumentID != "doc-a" {
		t.Errorf("citation document = %s, want doc-a", citations[0].DocumentID)
	}
}

func TestLinkDeduplicatesByDocumentKeepingBestScore(t *testing.T) {
	linker := NewLinker(0.6)
	evidence := []retrieval.Evidence{
		{DocumentID: "doc-a", Excerpt: "first chunk", Section: "Scope", SimilarityScore: 0.72, Source: retrieval.SourceMetadata{DocumentName: "Model Risk Policy"}},
		{DocumentID: "doc-a", Excerpt: "better chunk", Section: "Validation", SimilarityScore: 0.91, Source: retrieval.SourceMetadata{DocumentName: "Model Risk Policy"}},
		{DocumentID: "doc-b", Excerpt: "other doc", SimilarityScore: 0.7, Source: retrieval.SourceMetadata{DocumentName: "Audit Charter"}},
	}

	_, citations := linker.Link("The answer.", evidence)
	if len(citations) != 2 {
		t.Fatalf("got %d citations, want 2", len(citations))
	}

	// Best score first, and the kept doc-a citation is the 0.91 chunk.
	if citations[0].DocumentID != "doc-a" || citations[0].RelevanceScore != 0.91 {
		t.Errorf("first citation = %s@%v, want doc-a@0.91", citations[0].DocumentID, citations[0].RelevanceScore)
	}
	if citations[0].Excerpt != "better chunk" {
		t.Errorf("kept excerpt = %q, want the higher-scoring chunk", citations[0].Excerpt)
	}
	if citations[1].DocumentID != "doc-b" {
		t.Errorf("second citation = %s, want doc-b", citations[1].DocumentID)
	}
}

func TestLinkAppendsSourcesBlock(t *testing.T) {
	linker := NewLinker(0.6)
	evidence := []retrieval.Evidence{
		{DocumentID: "doc-a", Excerpt: "passage", Section: "Limits", SimilarityScore: 0.8, Source: retrieval.SourceMetadata{DocumentName: "Trading Policy"}},
		{DocumentID: "doc-b", Excerpt: "passage", SimilarityScore: 0.7, Source: retrieval.SourceMetadata{DocumentName: "Risk Appetite"}},
	}

	answer, _ := linker.Link("The answer.", evidence)
	if !strings.HasPrefix(answer, "The answer.") {
		t.Errorf("answer body must come first, got %q", answer)
	}
	if !strings.Contains(answer, "Sources:") {
		t.Errorf("answer missing sources block: %q", answer)
	}
	if !strings.Contains(answer, "1. Trading Policy - Limits") {
		t.Errorf("answer missing first source line: %q", answer)
	}
	// Sections default to "General" when the chunk had none.
	if !strings.Contains(answer, "2. Risk Appetite - General") {
		t.Errorf("answer missing second source line: %q", answer)
	}
}

func TestLinkNoEvidenceLeavesAnswerUntouched(t *testing.T) {
	linker := NewLinker(0.6)

	answer, citations := linker.Link("Plain answer.", nil)
	if answer != "Plain answer." {
		t.Errorf("answer = %q, want unchanged", answer)
	}
	if len(citations) != 0 {
		t.Errorf("got %d citations, want 0", len(citations))
	}
}

func TestLinkTruncatesLongExcerpts(t *testing.T) {
	linker := NewLinker(0.6)
	long := strings.Repeat("policy text ", 40) // well past the limit
	evidence := []retrieval.Evidence{
		{DocumentID: "doc-a", Excerpt: long, SimilarityScore: 0.8, Source: retrieval.SourceMetadata{DocumentName: "Policy"}},
	}

	_, citations := linker.Link("The answer.", evidence)
	if len(citations) != 1 {
		t.Fatalf("got %d citations, want 1", len(citations))
	}
	if len(citations[0].Excerpt) != excerptLimit+3 {
		t.Errorf("excerpt length = %d, want %d plus ellipsis", len(citations[0].Excerpt), excerptLimit)
	}
	if !strings.HasSuffix(citations[0].Excerpt, "...") {
		t.Errorf("truncated excerpt must end with ellipsis")
	}
}
