package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/joshua-sigston/brianwave/brianwave/controllers"
	"github.com/joshua-sigston/brianwave/brianwave/middlewares"
	"github.com/joshua-sigston/brianwave/brianwave/services/identity"
	"github.com/joshua-sigston/brianwave/brianwave/services/summary"
	"github.com/joshua-sigston/brianwave/brianwave/sources/psql/dao"
	"github.com/joshua-sigston/brianwave/brianwave/sources/psql/models"
	"github.com/joshua-sigston/brianwave/brianwave/utils/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// memCache is a map-backed ViewCache so tests can see exactly which rendered
// pages are stored and served.
type memCache struct {
	pages map[string]string
}

func newMemCache() *memCache {
	return &memCache{pages: map[string]string{}}
}

func (c *memCache) GetPage(ctx context.Context, key string) (string, bool) {
	html, ok := c.pages[key]
	return html, ok
}

func (c *memCache) PutPage(ctx context.Context, key, html string, ttl time.Duration) {
	c.pages[key] = html
}

func (c *memCache) InvalidateDashboard(ctx context.Context, userID string) {
	delete(c.pages, "views:dashboard:"+userID)
}

func (c *memCache) InvalidateNote(ctx context.Context, userID, noteID string) {
	delete(c.pages, "views:note:"+userID+":"+noteID)
}

func setupNotesRouter(t *testing.T) (http.Handler, *controllers.NotesController, *memCache) {
	t.Helper()
	os.Setenv("LOG_DIR", t.TempDir())
	logging.InitLogger()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to open sqlite")
	require.NoError(t, db.AutoMigrate(&models.Note{}))
	noteDAO := dao.NewNoteDAO(db)
	viewCache := newMemCache()
	ctrl := controllers.NewNotesController(noteDAO, viewCache)
	summarizer := summary.NewService(noteDAO, nil, viewCache)
	return NotesRoutes(ctrl, summarizer, viewCache), ctrl, viewCache
}

func getNoteAs(handler http.Handler, user *identity.User, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", path, nil)
	req = req.WithContext(context.WithValue(req.Context(), middlewares.UserKey, user))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

// A page cached for the owner must never be served to another user asking for
// the same note id; the second user gets the usual not-found redirect.
func TestNotePageCacheIsScopedToOwner(t *testing.T) {
	handler, ctrl, viewCache := setupNotesRouter(t)
	owner := &identity.User{ID: "user-1", Email: "owner@example.com"}
	other := &identity.User{ID: "user-2", Email: "other@example.com"}

	note, out := ctrl.CreateNote(context.Background(), owner.ID, "Groceries", "Buy milk")
	require.True(t, out.OK())

	// The owner's read renders and caches the page.
	rr := getNoteAs(handler, owner, "/"+note.ID.String())
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Buy milk")
	require.Len(t, viewCache.pages, 1)

	// Another user asking for the same id must miss the cache and bounce.
	rr = getNoteAs(handler, other, "/"+note.ID.String())
	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.True(t, strings.HasPrefix(rr.Header().Get("Location"), "/dashboard?error="),
		"expected not-found redirect, got %q", rr.Header().Get("Location"))
	assert.NotContains(t, rr.Body.String(), "Buy milk")

	// The owner still gets the cached page.
	rr = getNoteAs(handler, owner, "/"+note.ID.String())
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Buy milk")
}

// An update through the form action must drop the cached detail page so the
// next read renders fresh content.
func TestNotePageCacheInvalidatedOnUpdate(t *testing.T) {
	handler, ctrl, viewCache := setupNotesRouter(t)
	owner := &identity.User{ID: "user-1", Email: "owner@example.com"}

	note, out := ctrl.CreateNote(context.Background(), owner.ID, "Groceries", "Buy milk")
	require.True(t, out.OK())

	rr := getNoteAs(handler, owner, "/"+note.ID.String())
	require.Equal(t, http.StatusOK, rr.Code)
	require.Len(t, viewCache.pages, 1)

	require.True(t, ctrl.UpdateNote(context.Background(), note.ID, owner.ID, "Groceries", "Buy eggs").OK())

	rr = getNoteAs(handler, owner, "/"+note.ID.String())
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Buy eggs")
	assert.NotContains(t, rr.Body.String(), "Buy milk")
}
