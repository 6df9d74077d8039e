// brianwave/routes/pages.go
package routes

import (
	"net/http"
	"time"

	"github.com/joshua-sigston/brianwave/brianwave/controllers"
	"github.com/joshua-sigston/brianwave/brianwave/middlewares"
	"github.com/joshua-sigston/brianwave/brianwave/sources/cache"
	"github.com/joshua-sigston/brianwave/brianwave/views"

	"github.com/go-chi/chi/v5"
)

const dashboardTTL = 5 * time.Minute

func PageRoutes(ctrl *controllers.NotesController, viewCache cache.ViewCache) chi.Router {
	r := chi.NewRouter()

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		views.Render(w, "landing.html", views.PageData{
			Title: "Welcome",
			User:  middlewares.UserFromContext(r.Context()),
		})
	})

	r.Get("/dashboard", func(w http.ResponseWriter, r *http.Request) {
		user := middlewares.UserFromContext(r.Context())
		if user == nil {
			http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
			return
		}
		errMsg, successMsg := flash(r)
		cacheable := errMsg == "" && successMsg == ""
		if cacheable {
			if html, ok := viewCache.GetPage(r.Context(), cache.DashboardKey(user.ID)); ok {
				views.WriteHTML(w, html)
				return
			}
		}
		notes, out := ctrl.ListNotes(r.Context(), user.ID)
		if !out.OK() {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		html, err := views.RenderString("dashboard.html", views.PageData{
			Title:   "Dashboard",
			User:    user,
			Error:   errMsg,
			Success: successMsg,
			Notes:   notes,
		})
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		if cacheable {
			viewCache.PutPage(r.Context(), cache.DashboardKey(user.ID), html, dashboardTTL)
		}
		views.WriteHTML(w, html)
	})

	return r
}
