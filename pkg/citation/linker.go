package citation

import (
	"fmt"
	"sort"
	"strings"

	"risk-copilot-be/pkg/retrieval"
)

const excerptLimit = 200

// Citation points a response back at a source document. Deduplicated by
// DocumentID; a response never carries two citations for the same source.
type Citation struct {
	DocumentID     string  `json:"document_id"`
	DocumentName   string  `json:"document_name"`
	Section        string  `json:"section,omitempty"`
	Excerpt        string  `json:"excerpt"`
	RelevanceScore float64 `json:"relevance_score"`
}

// Linker attaches citations to a draft answer from the evidence that
// grounded it.
type Linker struct {
	// minRelevance keeps low-scoring passages from being presented as
	// sources for the answer.
	minRelevance float64
}

func NewLinker(minRelevance float64) *Linker {
	return &Linker{minRelevance: minRelevance}
}

// Link builds the final answer and its citation set. Duplicated document
// IDs collapse to a single citation keeping the highest relevance score
// observed, so the citation count can never exceed the number of distinct
// document IDs in the evidence.
func (l *Linker) Link(draftAnswer string, evidence []retrieval.Evidence) (string, []Citation) {
	byDoc := make(map[string]Citation)
	var order []string

	for _, ev := range evidence {
		if ev.SimilarityScore < l.minRelevance {
			continue
		}
		existing, seen := byDoc[ev.DocumentID]
		if seen && existing.RelevanceScore >= ev.SimilarityScore {
			continue
		}
		if !seen {
			order = append(order, ev.DocumentID)
		}
		byDoc[ev.DocumentID] = Citation{
			DocumentID:     ev.DocumentID,
			DocumentName:   ev.Source.DocumentName,
			Section:        ev.Section,
			Excerpt:        truncateExcerpt(ev.Excerpt),
			RelevanceScore: ev.SimilarityScore,
		}
	}

	citations := make([]Citation, 0, len(byDoc))
	for _, id := range order {
		citations = append(citations, byDoc[id])
	}
	sort.SliceStable(citations, func(i, j int) bool {
		return citations[i].RelevanceScore > citations[j].RelevanceScore
	})

	return l.appendSources(draftAnswer, citations), citations
}

// appendSources adds a sources block so the answer is auditable on its own,
// outside the structured citation list.
func (l *Linker) appendSources(answer string, citations []Citation) string {
	if len(citations) == 0 {
		return answer
	}

	var b strings.Builder
	b.WriteString(answer)
	b.WriteString("\n\nSources:\n")
	for i, c := range citations {
		section := c.Section
		if section == "" {
			section = "General"
		}
		b.WriteString(fmt.Sprintf("%d. %s - %s\n", i+1, c.DocumentName, section))
	}
	return b.String()
}

func truncateExcerpt(s string) string {
	if len(s) <= excerptLimit {
		return s
	}
	return s[:excerptLimit] + "..."
}
