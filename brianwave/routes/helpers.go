// brianwave/routes/helpers.go
package routes

import (
	"net/http"
	"net/url"
)

// redirectWithError / redirectWithSuccess carry human-readable messages back
// to the page as query parameters. This surface is UI-facing; nothing
// machine-readable is promised.
func redirectWithError(w http.ResponseWriter, r *http.Request, target, message string) {
	http.Redirect(w, r, target+"?error="+url.QueryEscape(message), http.StatusSeeOther)
}

func redirectWithSuccess(w http.ResponseWriter, r *http.Request, target, message string) {
	http.Redirect(w, r, target+"?success="+url.QueryEscape(message), http.StatusSeeOther)
}

func flash(r *http.Request) (errMsg, successMsg string) {
	q := r.URL.Query()
	return q.Get("error"), q.Get("success")
}
