// brianwave/routes/notes.go
package routes

import (
	"net/http"
	"time"

	"github.com/joshua-sigston/brianwave/brianwave/controllers"
	"github.com/joshua-sigston/brianwave/brianwave/middlewares"
	"github.com/joshua-sigston/brianwave/brianwave/services/summary"
	"github.com/joshua-sigston/brianwave/brianwave/sources/cache"
	"github.com/joshua-sigston/brianwave/brianwave/types"
	"github.com/joshua-sigston/brianwave/brianwave/views"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const notePageTTL = 5 * time.Minute

// NotesRoutes wires the note detail page and the mutating form actions.
// The session guard has already bounced unauthenticated callers off /notes,
// so a missing context user here means a misconfigured router, and the
// controllers still re-check it.
func NotesRoutes(ctrl *controllers.NotesController, summarizer *summary.Service, viewCache cache.ViewCache) chi.Router {
	r := chi.NewRouter()

	r.Get("/{id}", func(w http.ResponseWriter, r *http.Request) {
		user := middlewares.UserFromContext(r.Context())
		if user == nil {
			http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
			return
		}
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			redirectWithError(w, r, "/dashboard", "Note not found")
			return
		}
		errMsg, successMsg := flash(r)
		if errMsg == "" && successMsg == "" {
			// The key is scoped to the caller: a cached page rendered for
			// the owner must never answer another user's request.
			if html, ok := viewCache.GetPage(r.Context(), cache.NoteKey(user.ID, id.String())); ok {
				views.WriteHTML(w, html)
				return
			}
		}
		note, out := ctrl.GetNote(r.Context(), id, user.ID)
		if !out.OK() {
			redirectWithError(w, r, "/dashboard", "Note not found")
			return
		}
		html, renderErr := views.RenderString("note.html", views.PageData{
			Title:   note.Title,
			User:    user,
			Error:   errMsg,
			Success: successMsg,
			Note:    note,
		})
		if renderErr != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		if errMsg == "" && successMsg == "" {
			viewCache.PutPage(r.Context(), cache.NoteKey(user.ID, id.String()), html, notePageTTL)
		}
		views.WriteHTML(w, html)
	})

	r.Post("/", func(w http.ResponseWriter, r *http.Request) {
		user := middlewares.UserFromContext(r.Context())
		if user == nil {
			http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
			return
		}
		_, out := ctrl.CreateNote(r.Context(), user.ID, r.FormValue("title"), r.FormValue("content"))
		if !out.OK() {
			redirectWithError(w, r, "/dashboard", out.Message)
			return
		}
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
	})

	r.Post("/{id}/update", func(w http.ResponseWriter, r *http.Request) {
		user := middlewares.UserFromContext(r.Context())
		if user == nil {
			http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
			return
		}
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			redirectWithError(w, r, "/dashboard", "Note not found")
			return
		}
		out := ctrl.UpdateNote(r.Context(), id, user.ID, r.FormValue("title"), r.FormValue("content"))
		switch out.Kind {
		case types.OutcomeOK:
			redirectWithSuccess(w, r, "/notes/"+id.String(), "Note updated")
		case types.OutcomeNotFound:
			redirectWithError(w, r, "/dashboard", "Note not found")
		default:
			redirectWithError(w, r, "/notes/"+id.String(), out.Message)
		}
	})

	r.Post("/{id}/delete", func(w http.ResponseWriter, r *http.Request) {
		user := middlewares.UserFromContext(r.Context())
		if user == nil {
			http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
			return
		}
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			redirectWithError(w, r, "/dashboard", "Note not found")
			return
		}
		if out := ctrl.DeleteNote(r.Context(), id, user.ID); !out.OK() {
			redirectWithError(w, r, "/dashboard", out.Message)
			return
		}
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
	})

	// A failed summarization never fails the request; every outcome becomes
	// a redirect with a message.
	r.Post("/{id}/summarize", func(w http.ResponseWriter, r *http.Request) {
		user := middlewares.UserFromContext(r.Context())
		if user == nil {
			http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
			return
		}
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			redirectWithError(w, r, "/dashboard", "Note not found")
			return
		}
		_, out := summarizer.SummarizeNote(r.Context(), id, user.ID)
		switch out.Kind {
		case types.OutcomeOK:
			http.Redirect(w, r, "/notes/"+id.String(), http.StatusSeeOther)
		case types.OutcomeNotFound:
			redirectWithError(w, r, "/dashboard", "Note not found")
		default:
			redirectWithError(w, r, "/notes/"+id.String(), out.Message)
		}
	})

	return r
}
