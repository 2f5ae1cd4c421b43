package services

import (
	"context"
	"strings"
	"sync"
	"testing"
)

type stubEmbedder struct {
	err     error
	queries []string
}

func (s *stubEmbedder) GenerateEmbedding(_ context.Context, text string) ([]float32, error) {
	s.queries = append(s.queries, text)
	if s.err != nil {
		return nil, s.err
	}
	return []float32{0.1, 0.2, 0.3}, nil
}

type stubGuideStore struct {
	mu       sync.Mutex
	results  []SearchResult
	err      error
	upserted []GuideChunk
	deleted  []string
	limit    int
}

func (s *stubGuideStore) SearchSimilar(_ context.Context, _ []float32, _ string, limit int) ([]SearchResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.limit = limit
	return s.results, s.err
}

func (s *stubGuideStore) UpsertDocument(_ context.Context, chunk GuideChunk, _ []float32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.upserted = append(s.upserted, chunk)
	return s.err
}

func (s *stubGuideStore) DeleteSource(_ context.Context, source string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted = append(s.deleted, source)
	return nil
}

func TestGuidanceFormatsResults(t *testing.T) {
	store := &stubGuideStore{results: []SearchResult{
		{DocType: DocTypeRoleGuide, Score: 0.91, Text: "Backend engineers are asked about APIs."},
	}}
	emb := &stubEmbedder{}

	got := NewGuideRetriever(emb, store, nil).Guidance(context.Background(), "Backend Engineer", "Go, SQL")

	if !strings.Contains(got, "Guide 1 (role_guide, score 0.91)") || !strings.Contains(got, "asked about APIs") {
		t.Fatalf("unexpected guidance %q", got)
	}
	if store.limit != 3 {
		t.Fatalf("expected limit 3, got %d", store.limit)
	}
	if len(emb.queries) != 1 || !strings.Contains(emb.queries[0], "Backend Engineer with skills: Go, SQL") {
		t.Fatalf("unexpected query %v", emb.queries)
	}
}

func TestGuidanceSwallowsErrors(t *testing.T) {
	if got := NewGuideRetriever(&stubEmbedder{err: errBackendDown}, &stubGuideStore{}, nil).Guidance(context.Background(), "r", ""); got != "" {
		t.Fatalf("expected empty guidance, got %q", got)
	}
	if got := NewGuideRetriever(&stubEmbedder{}, &stubGuideStore{err: errBackendDown}, nil).Guidance(context.Background(), "r", ""); got != "" {
		t.Fatalf("expected empty guidance, got %q", got)
	}

	var nilRetriever *GuideRetriever
	if got := nilRetriever.Guidance(context.Background(), "r", ""); got != "" {
		t.Fatalf("expected empty guidance from nil retriever, got %q", got)
	}
}

func TestIngest(t *testing.T) {
	store := &stubGuideStore{}
	ing := NewGuideIngestor(&stubEmbedder{}, store, NewTextChunker(), nil)

	text := strings.Repeat("x", 40) + "\n\n" + strings.Repeat("y", 40)
	n, err := ing.Ingest(context.Background(), text, IngestOptions{Name: "backend", DocType: DocTypeQuestionBank, ChunkSize: 50, Replace: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 2 || len(store.upserted) != 2 {
		t.Fatalf("expected 2 chunks, got %d/%d", n, len(store.upserted))
	}
	if store.upserted[1].ID != "backend_chunk_1" || store.upserted[1].Source != "backend" || store.upserted[1].DocType != DocTypeQuestionBank {
		t.Fatalf("unexpected chunk %+v", store.upserted[1])
	}
	if len(store.deleted) != 1 || store.deleted[0] != "backend" {
		t.Fatalf("expected previous chunks to be deleted, got %v", store.deleted)
	}
}

func TestIngestRejectsBadInput(t *testing.T) {
	ing := NewGuideIngestor(&stubEmbedder{}, &stubGuideStore{}, NewTextChunker(), nil)

	if _, err := ing.Ingest(context.Background(), "text", IngestOptions{Name: "n", DocType: "resume"}); err == nil {
		t.Fatalf("expected doc type error")
	}
	if _, err := ing.Ingest(context.Background(), "text", IngestOptions{DocType: DocTypeRoleGuide}); err == nil {
		t.Fatalf("expected name error")
	}
	if _, err := ing.Ingest(context.Background(), "   ", IngestOptions{Name: "n", DocType: DocTypeRoleGuide}); err == nil {
		t.Fatalf("expected empty content error")
	}
}
