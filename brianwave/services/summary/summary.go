// brianwave/services/summary/summary.go
package summary

import (
	"context"
	"strings"

	"github.com/joshua-sigston/brianwave/brianwave/services/llm"
	"github.com/joshua-sigston/brianwave/brianwave/sources/cache"
	"github.com/joshua-sigston/brianwave/brianwave/sources/psql/models"
	"github.com/joshua-sigston/brianwave/brianwave/types"
	"github.com/joshua-sigston/brianwave/brianwave/utils/logging"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// maxPromptChars bounds how much note content goes into the prompt, to stay
// inside the upstream token limit. Content at or under the bound is passed
// unmodified.
const maxPromptChars = 3000

const promptPrefix = "Summarize the following note in 2-3 concise sentences. Focus on key points and next steps if any.\n\n"

const systemInstruction = "You are a concise assistant"

const (
	temperature = 0.2
	maxTokens   = 1000
)

// NoteStore is the slice of the note DAO the workflow needs. Both methods
// filter by id and owner in one query; there is no load-then-check step that
// could trust a client-supplied id.
type NoteStore interface {
	GetNoteForUser(ctx context.Context, id uuid.UUID, userID string) (*models.Note, error)
	SetSummaryForUser(ctx context.Context, id uuid.UUID, userID, summary string) (int64, error)
}

// Service runs the summarization workflow: load note, build prompt, call the
// completion provider once, persist the result, invalidate cached views.
// A nil provider means no credential was configured.
type Service struct {
	store    NoteStore
	provider llm.Provider
	cache    cache.ViewCache
}

func NewService(store NoteStore, provider llm.Provider, viewCache cache.ViewCache) *Service {
	if viewCache == nil {
		viewCache = cache.NopCache{}
	}
	return &Service{store: store, provider: provider, cache: viewCache}
}

// SummarizeNote generates and persists a summary for the caller's note. A
// single upstream failure surfaces immediately; nothing is written in that
// case. Two concurrent calls for the same note are not coordinated, last
// write wins.
func (s *Service) SummarizeNote(ctx context.Context, noteID uuid.UUID, userID string) (string, types.Outcome) {
	if userID == "" {
		return "", types.Unauthenticated()
	}

	note, err := s.store.GetNoteForUser(ctx, noteID, userID)
	if err != nil {
		return "", types.UpstreamFailure("failed to load note", err)
	}
	if note == nil {
		// A note owned by someone else and a note that does not exist are
		// deliberately indistinguishable here.
		return "", types.NotFound("note not found")
	}

	if s.provider == nil {
		return "", types.ConfigurationMissing("summarization is not configured")
	}

	result, err := s.provider.Complete(ctx, llm.CompletionRequest{
		System:      systemInstruction,
		Prompt:      BuildPrompt(note.Content),
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		logging.ErrorLogger.Error("summary generation failed",
			zap.String("note_id", noteID.String()), zap.Error(err))
		return "", types.UpstreamFailure("failed to generate summary", err)
	}

	text := strings.TrimSpace(result)
	if text == "" {
		return "", types.UpstreamFailure("no summary content returned", nil)
	}

	rows, err := s.store.SetSummaryForUser(ctx, noteID, userID, text)
	if err != nil {
		return "", types.UpstreamFailure("failed to save summary", err)
	}
	if rows == 0 {
		// The note vanished (or changed owner) between read and write; the
		// two steps are not a transaction.
		return "", types.NotFound("note not found")
	}

	s.cache.InvalidateDashboard(ctx, userID)
	s.cache.InvalidateNote(ctx, userID, noteID.String())

	return text, types.OK()
}

// BuildPrompt truncates content to maxPromptChars characters and prepends
// the fixed summary instruction.
func BuildPrompt(content string) string {
	runes := []rune(content)
	if len(runes) > maxPromptChars {
		content = string(runes[:maxPromptChars])
	}
	return promptPrefix + content
}
