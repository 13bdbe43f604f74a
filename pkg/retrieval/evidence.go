package retrieval

// SourceMetadata carries display/identity attributes of the document a
// passage came from.
type SourceMetadata struct {
	DocumentName string `json:"document_name"`
	Category     string `json:"category,omitempty"`
	ChunkIndex   int    `json:"chunk_index"`
}

// Evidence is one retrieved passage with its similarity score. Immutable
// once produced by the retriever.
type Evidence struct {
	DocumentID      string         `json:"document_id"`
	Excerpt         string         `json:"excerpt"`
	Section         string         `json:"section,omitempty"`
	SimilarityScore float64        `json:"similarity_score"`
	Source          SourceMetadata `json:"source_metadata"`
}

// CoverageAbove returns the fraction of evidence items whose similarity is
// at or above the threshold. Returns 0 for an empty slice.
func CoverageAbove(evidence []Evidence, threshold float64) float64 {
	if len(evidence) == 0 {
		return 0
	}
	covered := 0
	for _, ev := range evidence {
		if ev.SimilarityScore >= threshold {
			covered++
		}
	}
	return float64(covered) / float64(len(evidence))
}
