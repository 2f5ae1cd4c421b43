package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"alfredoptarigan/interview-coach/internal/config"
	"alfredoptarigan/interview-coach/internal/logger"
	"alfredoptarigan/interview-coach/internal/services"
)

type ingestFlags struct {
	file      string
	docType   string
	name      string
	chunkSize int
	overlap   int
	replace   bool
	debug     bool
	json      bool
	timeout   time.Duration
}

var flags ingestFlags

var rootCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Ingest an interview-guide document into the qdrant collection",
	Long: `Extracts text from a PDF, DOCX or text file, splits it into overlapping chunks,
embeds every chunk with Gemini and upserts them into the configured qdrant collection.
The question generator retrieves these chunks as interview guidance for a target role.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return run(cmd.Context())
	},
}

func init() {
	rootCmd.Flags().StringVarP(&flags.file, "file", "f", "", "path to the document to ingest")
	rootCmd.Flags().StringVarP(&flags.docType, "doc-type", "t", "",
		fmt.Sprintf("document type (%s, %s, %s)", services.DocTypeRoleGuide, services.DocTypeQuestionBank, services.DocTypeCompanyValues))
	rootCmd.Flags().StringVarP(&flags.name, "name", "n", "", "document name stored as the chunk source (default is the file name)")
	rootCmd.Flags().IntVar(&flags.chunkSize, "chunk-size", services.DefaultChunkSize, "maximum characters per chunk")
	rootCmd.Flags().IntVar(&flags.overlap, "overlap", services.DefaultChunkOverlap, "characters carried over between chunks")
	rootCmd.Flags().BoolVar(&flags.replace, "replace", false, "delete previously ingested chunks of the same document first")
	rootCmd.Flags().DurationVar(&flags.timeout, "timeout", 10*time.Minute, "overall ingestion timeout")
	rootCmd.PersistentFlags().BoolVarP(&flags.debug, "debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolVarP(&flags.json, "json", "j", false, "json format for logging")

	rootCmd.MarkFlagRequired("file")
	rootCmd.MarkFlagRequired("doc-type")
}

func run(ctx context.Context) error {
	zlog, err := logger.New(flags.json, flags.debug)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer zlog.Sync()

	if !services.ValidDocType(flags.docType) {
		return fmt.Errorf("unknown doc type %q", flags.docType)
	}

	name := strings.TrimSpace(flags.name)
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(flags.file), filepath.Ext(flags.file))
	}

	cfg := config.Load()

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, flags.timeout)
	defer cancel()

	geminiService, err := services.NewGeminiService(services.GeminiOptions{
		APIKey:     cfg.Gemini.APIKey,
		Model:      cfg.Gemini.Model,
		EmbedModel: cfg.Gemini.EmbedModel,
	}, zlog)
	if err != nil {
		return fmt.Errorf("failed to initialize gemini: %w", err)
	}

	qdrantService, err := services.NewQdrantService(cfg.Qdrant.URL, cfg.Qdrant.APIKey, cfg.Qdrant.Collection, zlog)
	if err != nil {
		return fmt.Errorf("failed to initialize qdrant: %w", err)
	}
	defer qdrantService.Close()

	if err := qdrantService.InitCollection(ctx); err != nil {
		return fmt.Errorf("failed to initialize collection: %w", err)
	}

	text, err := services.NewDocumentExtractor().ExtractFile(flags.file)
	if err != nil {
		return err
	}
	zlog.Info("text extracted", zap.String("file", flags.file), zap.Int("chars", len(text)))

	ingestor := services.NewGuideIngestor(geminiService, qdrantService, services.NewTextChunker(), zlog)
	stored, err := ingestor.Ingest(ctx, text, services.IngestOptions{
		Name:      name,
		DocType:   flags.docType,
		ChunkSize: flags.chunkSize,
		Overlap:   flags.overlap,
		Replace:   flags.replace,
	})
	if err != nil {
		zlog.Error("ingestion stopped", zap.String("name", name), zap.Int("stored", stored), zap.Error(err))
		return err
	}

	zlog.Info("ingestion complete",
		zap.String("name", name),
		zap.String("doc_type", flags.docType),
		zap.String("collection", cfg.Qdrant.Collection),
		zap.Int("chunks", stored),
	)
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Println(err)
		os.Exit(1)
	}
}
