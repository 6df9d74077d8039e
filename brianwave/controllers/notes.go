// brianwave/controllers/notes.go
package controllers

import (
	"context"

	"github.com/joshua-sigston/brianwave/brianwave/sources/cache"
	"github.com/joshua-sigston/brianwave/brianwave/sources/psql/dao"
	"github.com/joshua-sigston/brianwave/brianwave/sources/psql/models"
	"github.com/joshua-sigston/brianwave/brianwave/types"

	"github.com/google/uuid"
)

// NotesController implements the note operations as outcome-returning calls.
// Every operation requires a resolved identity and every mutation filters by
// id and owner together, so a guessed id can never touch another user's row.
type NotesController struct {
	dao   *dao.NoteDAO
	cache cache.ViewCache
}

func NewNotesController(noteDAO *dao.NoteDAO, viewCache cache.ViewCache) *NotesController {
	if viewCache == nil {
		viewCache = cache.NopCache{}
	}
	return &NotesController{dao: noteDAO, cache: viewCache}
}

func (c *NotesController) CreateNote(ctx context.Context, userID, title, content string) (*models.Note, types.Outcome) {
	if userID == "" {
		return nil, types.Unauthenticated()
	}
	if title == "" && content == "" {
		return nil, types.ValidationFailed("Title and content are required")
	}
	if title == "" {
		return nil, types.ValidationFailed("Title is required")
	}
	if content == "" {
		return nil, types.ValidationFailed("Content is required")
	}

	note := &models.Note{
		UserID:  userID,
		Title:   title,
		Content: content,
	}
	if err := c.dao.CreateNote(ctx, note); err != nil {
		return nil, types.UpstreamFailure("failed to create note", err)
	}
	c.cache.InvalidateDashboard(ctx, userID)
	return note, types.OK()
}

func (c *NotesController) ListNotes(ctx context.Context, userID string) ([]models.Note, types.Outcome) {
	if userID == "" {
		return nil, types.Unauthenticated()
	}
	notes, err := c.dao.ListNotesByUser(ctx, userID)
	if err != nil {
		return nil, types.UpstreamFailure("failed to load notes", err)
	}
	return notes, types.OK()
}

func (c *NotesController) GetNote(ctx context.Context, id uuid.UUID, userID string) (*models.Note, types.Outcome) {
	if userID == "" {
		return nil, types.Unauthenticated()
	}
	note, err := c.dao.GetNoteForUser(ctx, id, userID)
	if err != nil {
		return nil, types.UpstreamFailure("failed to load note", err)
	}
	if note == nil {
		return nil, types.NotFound("note not found")
	}
	return note, types.OK()
}

// UpdateNote rewrites title and content. The summary column is cleared in
// the same statement: the summary derives from the content and is stale the
// moment the content changes. A write that matches no row reports NotFound
// instead of silently succeeding.
func (c *NotesController) UpdateNote(ctx context.Context, id uuid.UUID, userID, title, content string) types.Outcome {
	if userID == "" {
		return types.Unauthenticated()
	}
	if title == "" || content == "" {
		return types.ValidationFailed("Title and content are required")
	}
	rows, err := c.dao.UpdateNoteForUser(ctx, id, userID, title, content)
	if err != nil {
		return types.UpstreamFailure("failed to update note", err)
	}
	if rows == 0 {
		return types.NotFound("note not found")
	}
	c.cache.InvalidateDashboard(ctx, userID)
	c.cache.InvalidateNote(ctx, userID, id.String())
	return types.OK()
}

func (c *NotesController) DeleteNote(ctx context.Context, id uuid.UUID, userID string) types.Outcome {
	if userID == "" {
		return types.Unauthenticated()
	}
	rows, err := c.dao.DeleteNoteForUser(ctx, id, userID)
	if err != nil {
		return types.UpstreamFailure("failed to delete note", err)
	}
	if rows == 0 {
		return types.NotFound("note not found")
	}
	c.cache.InvalidateDashboard(ctx, userID)
	c.cache.InvalidateNote(ctx, userID, id.String())
	return types.OK()
}
