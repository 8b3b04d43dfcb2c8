// Package answer implements the retrieval pipeline: embed the query, search
// the tenant namespace, assemble context, and generate a cited response.
package answer

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/kailas-cloud/ragdex/internal/domain"
	"github.com/kailas-cloud/ragdex/internal/logger"
)

// Fixed responses for the two degraded outcomes of the query path.
const (
	noMatchesResponse = "I couldn't find any relevant information in your documents to answer that question. " +
		"Please make sure you have uploaded documents and they have been processed successfully."
	degradedResponse = "I'm sorry, I encountered an error while processing your question. " +
		"Please try again later."
)

// Result is a generated answer with its deduplicated citations.
type Result struct {
	Response string
	Sources  []domain.Source
}

// Service answers questions from a tenant's ingested documents.
type Service struct {
	embedder  Embedder
	matcher   Matcher
	generator Generator

	topK         int
	contextLimit int
	maxQueryLen  int
}

// New creates an answer service.
func New(embedder Embedder, matcher Matcher, generator Generator, topK, contextLimit, maxQueryLen int) *Service {
	if topK <= 0 {
		topK = 5
	}
	if contextLimit <= 0 {
		contextLimit = 4000
	}
	if maxQueryLen <= 0 {
		maxQueryLen = 1000
	}
	return &Service{
		embedder:     embedder,
		matcher:      matcher,
		generator:    generator,
		topK:         topK,
		contextLimit: contextLimit,
		maxQueryLen:  maxQueryLen,
	}
}

// Answer runs the retrieval pipeline. Validation errors are returned to the
// caller; everything past validation is a failure boundary that degrades to a
// fixed response instead of surfacing provider or index errors.
func (s *Service) Answer(ctx context.Context, ownerID, query string) (Result, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Result{}, domain.ErrEmptyQuery
	}
	if utf8.RuneCountInString(query) > s.maxQueryLen {
		return Result{}, fmt.Errorf("%w: %d characters, limit %d",
			domain.ErrQueryTooLong, utf8.RuneCountInString(query), s.maxQueryLen)
	}

	log := logger.FromContext(ctx).With(zap.String("owner_id", ownerID))

	result, err := s.answer(ctx, log, ownerID, query)
	if err != nil {
		log.Error("answer pipeline degraded", zap.Error(err))
		return Result{Response: degradedResponse, Sources: []domain.Source{}}, nil
	}
	return result, nil
}

func (s *Service) answer(ctx context.Context, log *zap.Logger, ownerID, query string) (Result, error) {
	embedding, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return Result{}, fmt.Errorf("embed query: %w", err)
	}

	matches, err := s.matcher.Query(ctx, domain.Namespace(ownerID), embedding.Embedding, s.topK)
	if err != nil {
		return Result{}, fmt.Errorf("search namespace: %w", err)
	}
	if len(matches) == 0 {
		return Result{Response: noMatchesResponse, Sources: []domain.Source{}}, nil
	}

	contextText := assembleContext(matches, s.contextLimit)
	response, err := s.generator.Generate(ctx, systemPrompt, userPrompt(query, contextText))
	if err != nil {
		return Result{}, fmt.Errorf("generate: %w", err)
	}

	log.Info("answer generated",
		zap.Int("matches", len(matches)),
		zap.Int("context_chars", len(contextText)),
	)
	return Result{Response: response, Sources: extractSources(matches)}, nil
}
