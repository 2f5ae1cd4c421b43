package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"alfredoptarigan/interview-coach/internal/logger"
)

const (
	DocTypeRoleGuide     = "role_guide"
	DocTypeQuestionBank  = "question_bank"
	DocTypeCompanyValues = "company_values"

	defaultGuideLimit = 3
)

// ValidDocType reports whether t is a known interview-guide document type.
func ValidDocType(t string) bool {
	switch t {
	case DocTypeRoleGuide, DocTypeQuestionBank, DocTypeCompanyValues:
		return true
	}
	return false
}

// GuideSearcher is the vector search side of QdrantService.
type GuideSearcher interface {
	SearchSimilar(ctx context.Context, queryEmbedding []float32, docType string, limit int) ([]SearchResult, error)
}

// GuideRetriever looks up interview-guide chunks relevant to a role.
type GuideRetriever struct {
	embedder      Embedder
	searcher      GuideSearcher
	promptBuilder *PromptBuilder
	limit         int
	log           *zap.Logger
}

func NewGuideRetriever(embedder Embedder, searcher GuideSearcher, log *zap.Logger) *GuideRetriever {
	return &GuideRetriever{
		embedder:      embedder,
		searcher:      searcher,
		promptBuilder: NewPromptBuilder(),
		limit:         defaultGuideLimit,
		log:           logger.Named(log, "guides"),
	}
}

// Guidance returns formatted guide context for the role, or "" when nothing is found.
// Retrieval errors are logged and swallowed.
func (g *GuideRetriever) Guidance(ctx context.Context, targetRole, skills string) string {
	if g == nil || g.embedder == nil || g.searcher == nil {
		return ""
	}

	query := g.promptBuilder.BuildGuidanceQuery(targetRole, skills)
	embedding, err := g.embedder.GenerateEmbedding(ctx, query)
	if err != nil {
		g.log.Warn("failed to embed guidance query", zap.Error(err))
		return ""
	}

	results, err := g.searcher.SearchSimilar(ctx, embedding, "", g.limit)
	if err != nil {
		g.log.Warn("failed to search interview guides", zap.Error(err))
		return ""
	}

	g.log.Debug("interview guides retrieved",
		zap.String(logger.FieldRole, targetRole),
		zap.Int("count", len(results)),
	)

	return FormatRAGContext(results)
}

// GuideStore is the write side of QdrantService used by ingestion.
type GuideStore interface {
	UpsertDocument(ctx context.Context, chunk GuideChunk, embedding []float32) error
	DeleteSource(ctx context.Context, source string) error
}

// GuideIngestor chunks, embeds and stores one guide document.
type GuideIngestor struct {
	embedder Embedder
	store    GuideStore
	chunker  TextChunker
	log      *zap.Logger
}

func NewGuideIngestor(embedder Embedder, store GuideStore, chunker TextChunker, log *zap.Logger) *GuideIngestor {
	return &GuideIngestor{
		embedder: embedder,
		store:    store,
		chunker:  chunker,
		log:      logger.Named(log, "ingest"),
	}
}

type IngestOptions struct {
	Name      string
	DocType   string
	ChunkSize int
	Overlap   int
	Replace   bool
}

// Ingest stores text as chunks named "<name>_chunk_<n>" and returns how many were stored.
func (g *GuideIngestor) Ingest(ctx context.Context, text string, opts IngestOptions) (int, error) {
	if !ValidDocType(opts.DocType) {
		return 0, fmt.Errorf("invalid doc type %q", opts.DocType)
	}
	if strings.TrimSpace(opts.Name) == "" {
		return 0, fmt.Errorf("document name is required")
	}

	chunks := g.chunker.ChunkText(text, opts.ChunkSize, opts.Overlap)
	if len(chunks) == 0 {
		return 0, fmt.Errorf("no content to ingest for %s", opts.Name)
	}

	if opts.Replace {
		if err := g.store.DeleteSource(ctx, opts.Name); err != nil {
			return 0, fmt.Errorf("failed to delete previous chunks of %s: %w", opts.Name, err)
		}
	}

	for i, chunk := range chunks {
		embedding, err := g.embedder.GenerateEmbedding(ctx, chunk)
		if err != nil {
			return i, fmt.Errorf("failed to embed chunk %d: %w", i, err)
		}
		doc := GuideChunk{ID: chunkID(opts.Name, i), Source: opts.Name, DocType: opts.DocType, Text: chunk}
		if err := g.store.UpsertDocument(ctx, doc, embedding); err != nil {
			return i, fmt.Errorf("failed to store chunk %d: %w", i, err)
		}
		g.log.Debug("chunk stored", zap.String("doc_id", chunkID(opts.Name, i)), zap.Int("chars", len(chunk)))
	}

	g.log.Info("document ingested",
		zap.String("name", opts.Name),
		zap.String("doc_type", opts.DocType),
		zap.Int("chunks", len(chunks)),
	)

	return len(chunks), nil
}

func chunkID(name string, i int) string {
	return fmt.Sprintf("%s_chunk_%d", name, i)
}
