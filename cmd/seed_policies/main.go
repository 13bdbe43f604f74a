package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"risk-copilot-be/internal/config"
	"risk-copilot-be/internal/entity"
	"risk-copilot-be/internal/repository/specification"
	"risk-copilot-be/internal/repository/unitofwork"
	"risk-copilot-be/pkg/database"
	"risk-copilot-be/pkg/embedding"
	"risk-copilot-be/pkg/policy"

	"github.com/fatih/color"
)

// Seeds the policy corpus from a directory of markdown or text files.
// File name becomes the document name, the parent directory of each file
// (relative to the root) becomes its category.
func main() {
	if len(os.Args) < 2 {
		color.Red("Usage: seed_policies <policies-dir>")
		os.Exit(1)
	}
	dir := os.Args[1]

	cfg := config.Load()

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		color.Red("Failed to connect to database: %v", err)
		os.Exit(1)
	}

	var embedder embedding.Provider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embedder = embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.OllamaEmbedModel)
	} else {
		embedder = embedding.NewGeminiProvider(cfg.Keys.GoogleGemini)
	}

	uowFactory := unitofwork.NewRepositoryFactory(db)
	chunker := policy.NewChunker(500, 50)
	ctx := context.Background()
	uow := uowFactory.NewUnitOfWork(ctx)

	color.Cyan("Seeding policy corpus from %s", dir)

	seeded, skipped := 0, 0
	err = filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return err
		}
		ext := strings.ToLower(filepath.Ext(path))
		if ext != ".md" && ext != ".txt" {
			return nil
		}

		name := strings.TrimSuffix(filepath.Base(path), ext)
		category := categoryFor(dir, path)

		existing, err := uow.PolicyDocumentRepository().FindOne(ctx, specification.Filter("name", name))
		if err != nil {
			return err
		}
		if existing != nil {
			color.Yellow("Skipping %q, already seeded", name)
			skipped++
			return nil
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		document := &entity.PolicyDocument{
			Name:     name,
			Category: category,
			Content:  string(content),
		}
		if err := uow.PolicyDocumentRepository().Create(ctx, document); err != nil {
			return err
		}

		chunks := chunker.Chunk(string(content))
		chunkEntities := make([]*entity.PolicyChunk, 0, len(chunks))
		for _, chunk := range chunks {
			vector, err := embedder.Generate(ctx, chunk.Content, embedding.TaskDocument)
			if err != nil {
				return err
			}
			chunkEntities = append(chunkEntities, &entity.PolicyChunk{
				PolicyDocumentId: document.Id,
				Content:          chunk.Content,
				Section:          chunk.Section,
				ChunkIndex:       chunk.Index,
				EmbeddingValue:   vector,
			})
		}
		if err := uow.PolicyChunkRepository().CreateBulk(ctx, chunkEntities); err != nil {
			return err
		}

		color.Green("Seeded %q (%d chunks)", name, len(chunkEntities))
		seeded++
		return nil
	})
	if err != nil {
		color.Red("Seeding failed: %v", err)
		os.Exit(1)
	}

	color.Cyan("Done: %d seeded, %d skipped", seeded, skipped)
}

func categoryFor(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return ""
	}
	parent := filepath.Dir(rel)
	if parent == "." {
		return ""
	}
	return filepath.Base(parent)
}
