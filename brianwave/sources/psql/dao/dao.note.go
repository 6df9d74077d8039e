// brianwave/sources/psql/dao/dao.note.go
package dao

import (
	"context"

	"github.com/joshua-sigston/brianwave/brianwave/sources/psql/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NoteDAO wraps every note query with an ownership predicate. There is no
// lookup by id alone: a caller holding someone else's note id gets the same
// answer as for an id that does not exist.
type NoteDAO struct {
	DB *gorm.DB
}

func NewNoteDAO(db *gorm.DB) *NoteDAO {
	return &NoteDAO{DB: db}
}

func (dao *NoteDAO) CreateNote(ctx context.Context, note *models.Note) error {
	return dao.DB.WithContext(ctx).Create(note).Error
}

func (dao *NoteDAO) GetNoteForUser(ctx context.Context, id uuid.UUID, userID string) (*models.Note, error) {
	var note models.Note
	err := dao.DB.WithContext(ctx).First(&note, "id = ? AND user_id = ?", id, userID).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &note, nil
}

func (dao *NoteDAO) ListNotesByUser(ctx context.Context, userID string) ([]models.Note, error) {
	var notes []models.Note
	err := dao.DB.WithContext(ctx).Where("user_id = ?", userID).Order("created_at desc").Find(&notes).Error
	if err != nil {
		return nil, err
	}
	return notes, nil
}

// UpdateNoteForUser rewrites title and content and clears the derived
// summary in the same statement. Returns the number of rows matched so the
// caller can distinguish a no-op (wrong id or owner) from a real update.
func (dao *NoteDAO) UpdateNoteForUser(ctx context.Context, id uuid.UUID, userID, title, content string) (int64, error) {
	res := dao.DB.WithContext(ctx).Model(&models.Note{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(map[string]interface{}{
			"title":   title,
			"content": content,
			"summary": nil,
		})
	return res.RowsAffected, res.Error
}

func (dao *NoteDAO) SetSummaryForUser(ctx context.Context, id uuid.UUID, userID, summary string) (int64, error) {
	res := dao.DB.WithContext(ctx).Model(&models.Note{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("summary", summary)
	return res.RowsAffected, res.Error
}

func (dao *NoteDAO) DeleteNoteForUser(ctx context.Context, id uuid.UUID, userID string) (int64, error) {
	res := dao.DB.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.Note{})
	return res.RowsAffected, res.Error
}
