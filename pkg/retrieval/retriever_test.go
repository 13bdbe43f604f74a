package retrieval

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"
)

type stubIndex struct {
	results   []Evidence
	err       error
	lastK     int
	lastQuery string
}

func (s *stubIndex) Search(ctx context.Context, query string, k int) ([]Evidence, error) {
	s.lastK = k
	s.lastQuery = query
	return s.results, s.err
}

func ev(id string, score float64) Evidence {
	return Evidence{DocumentID: id, Excerpt: "passage", SimilarityScore: score}
}

func discardLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func TestRetrieveFiltersSortsAndTruncates(t *testing.T) {
	index := &stubIndex{results: []Evidence{
		ev("low", 0.3),
		ev("mid", 0.7),
		ev("top", 0.95),
		ev("edge", 0.5), // exactly at threshold, kept
		ev("good", 0.8),
	}}
	r := NewRetriever(index, 3, 0.5, discardLogger())

	got, err := r.Retrieve(context.Background(), "liquidity limits")
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}

	want := []string{"top", "good", "mid"}
	if len(got) != len(want) {
		t.Fatalf("got %d results, want %d", len(got), len(want))
	}
	for i, id := range want {
		if got[i].DocumentID != id {
			t.Errorf("result[%d] = %s, want %s", i, got[i].DocumentID, id)
		}
	}
}

func TestRetrieveOverFetchesFromIndex(t *testing.T) {
	index := &stubIndex{}
	r := NewRetriever(index, 5, 0.5, discardLogger())

	if _, err := r.Retrieve(context.Background(), "q"); err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if index.lastK != 10 {
		t.Errorf("index asked for k=%d, want 10", index.lastK)
	}
}

func TestRetrieveEmptyIndexIsEmptyResultNotError(t *testing.T) {
	r := NewRetriever(&stubIndex{}, 5, 0.5, discardLogger())

	got, err := r.Retrieve(context.Background(), "anything")
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %d results, want 0", len(got))
	}
}

func TestRetrieveWrapsIndexError(t *testing.T) {
	indexErr := errors.New("connection refused")
	r := NewRetriever(&stubIndex{err: indexErr}, 5, 0.5, discardLogger())

	_, err := r.Retrieve(context.Background(), "anything")
	if !errors.Is(err, indexErr) {
		t.Fatalf("err = %v, want wrapped index error", err)
	}
}

func TestRetrieveStableOrderForEqualScores(t *testing.T) {
	index := &stubIndex{results: []Evidence{
		ev("first", 0.8),
		ev("second", 0.8),
	}}
	r := NewRetriever(index, 5, 0.5, discardLogger())

	got, err := r.Retrieve(context.Background(), "q")
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if got[0].DocumentID != "first" || got[1].DocumentID != "second" {
		t.Errorf("equal scores must keep index order, got %s then %s", got[0].DocumentID, got[1].DocumentID)
	}
}

func TestCoverageAbove(t *testing.T) {
	tests := []struct {
		name      string
		evidence  []Evidence
		threshold float64
		want      float64
	}{
		{"empty", nil, 0.6, 0},
		{"all above", []Evidence{ev("a", 0.9), ev("b", 0.7)}, 0.6, 1},
		{"half above", []Evidence{ev("a", 0.9), ev("b", 0.4)}, 0.6, 0.5},
		{"at threshold counts", []Evidence{ev("a", 0.6)}, 0.6, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CoverageAbove(tt.evidence, tt.threshold); got != tt.want {
				t.Errorf("CoverageAbove = %v, want %v", got, tt.want)
			}
		})
	}
}
