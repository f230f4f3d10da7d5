package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/jobmatch/internal/config"
	"github.com/kailas-cloud/jobmatch/internal/extract"
	matchinguc "github.com/kailas-cloud/jobmatch/internal/usecase/matching"
)

var rankCmd = &cobra.Command{
	Use:   "rank --query TEXT FILE...",
	Short: "Rank resume or vacancy files against a query",
	Long:  "Extracts text from each PDF, DOCX or plain-text FILE and prints the files ordered by cosine similarity to the query as JSON. Uses the offline stub embedder unless another provider is selected.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runRank,
}

var (
	rankQuery      string
	rankQueryFile  string
	rankProvider   string
	rankModel      string
	rankDimensions int
)

func init() {
	rankCmd.Flags().StringVarP(&rankQuery, "query", "q", "", "Query text, e.g. a vacancy description")
	rankCmd.Flags().StringVar(&rankQueryFile, "query-file", "", "Read the query from a PDF, DOCX or text file")
	rankCmd.Flags().StringVar(&rankProvider, "provider", config.ProviderStub, "Embedding provider: openai, gemini, stub")
	rankCmd.Flags().StringVar(&rankModel, "model", "", "Embedding model (provider default when empty)")
	rankCmd.Flags().IntVar(&rankDimensions, "dimensions", 0, "Embedding dimensions (provider default when 0)")
	rankCmd.MarkFlagsOneRequired("query", "query-file")
	rankCmd.MarkFlagsMutuallyExclusive("query", "query-file")

	rootCmd.AddCommand(rankCmd)
}

type rankOutput struct {
	Rank  int     `json:"rank"`
	Score float64 `json:"score"`
	File  string  `json:"file"`
}

func runRank(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	extractor := extract.NewRegistry()

	query := rankQuery
	if rankQueryFile != "" {
		text, err := extractPath(extractor, rankQueryFile)
		if err != nil {
			return err
		}
		query = text
	}

	candidates := make([]string, len(args))
	for i, path := range args {
		text, err := extractPath(extractor, path)
		if err != nil {
			return err
		}
		candidates[i] = text
	}

	cfg := config.Config{Embedding: config.EmbeddingConfig{
		Provider:   rankProvider,
		APIKey:     os.Getenv("EMBEDDING_API_KEY"),
		BaseURL:    os.Getenv("EMBEDDING_BASE_URL"),
		Model:      rankModel,
		Dimensions: rankDimensions,
	}}
	cfg.ApplyDefaults()

	embedder, err := buildEmbedder(ctx, cfg.Embedding, "", nil, zap.NewNop())
	if err != nil {
		return err
	}
	ranked, err := matchinguc.New(nil, embedder, matchinguc.Config{}, zap.NewNop()).Rank(ctx, query, candidates)
	if err != nil {
		return fmt.Errorf("rank: %w", err)
	}

	out := make([]rankOutput, len(ranked))
	for i, r := range ranked {
		out[i] = rankOutput{Rank: i + 1, Score: r.Score, File: args[r.Index]}
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

func extractPath(extractor *extract.Registry, path string) (string, error) {
	content, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	text, _, err := extractor.ExtractFile("", filepath.Base(path), content)
	if err != nil {
		return "", fmt.Errorf("extract %s: %w", path, err)
	}
	return text, nil
}
