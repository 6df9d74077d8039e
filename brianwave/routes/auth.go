// brianwave/routes/auth.go
package routes

import (
	"net/http"

	"github.com/joshua-sigston/brianwave/brianwave/controllers"
	"github.com/joshua-sigston/brianwave/brianwave/middlewares"
	"github.com/joshua-sigston/brianwave/brianwave/types"
	"github.com/joshua-sigston/brianwave/brianwave/views"

	"github.com/go-chi/chi/v5"
)

const resetRequestConfirmation = "If an account exists with this email, a password reset link has been sent."

func AuthRoutes(ctrl *controllers.AuthController) chi.Router {
	r := chi.NewRouter()

	r.Get("/sign-up", authPage("Sign up", "signup.html"))
	r.Get("/login", authPage("Log in", "login.html"))
	r.Get("/reset-password/request", authPage("Reset password", "reset_request.html"))
	r.Get("/reset-password/change", authPage("New password", "reset_change.html"))

	r.Post("/sign-up", func(w http.ResponseWriter, r *http.Request) {
		req := types.SignUpRequest{
			Email:           r.FormValue("email"),
			Password:        r.FormValue("password"),
			ConfirmPassword: r.FormValue("confirm_password"),
		}
		if out := ctrl.SignUp(r.Context(), req); !out.OK() {
			redirectWithError(w, r, "/auth/sign-up", out.Message)
			return
		}
		redirectWithSuccess(w, r, "/auth/sign-up",
			"Account created successfully! Please check your email to confirm your account.")
	})

	r.Post("/login", func(w http.ResponseWriter, r *http.Request) {
		req := types.LoginRequest{
			Email:    r.FormValue("email"),
			Password: r.FormValue("password"),
		}
		session, out := ctrl.SignIn(r.Context(), req)
		if !out.OK() {
			redirectWithError(w, r, "/auth/login", out.Message)
			return
		}
		middlewares.SetSessionCookies(w, session)
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
	})

	r.Post("/logout", func(w http.ResponseWriter, r *http.Request) {
		ctrl.SignOut(r.Context(), middlewares.AccessTokenFromContext(r.Context()))
		middlewares.ClearSessionCookies(w)
		http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
	})

	r.Post("/reset-password/request", func(w http.ResponseWriter, r *http.Request) {
		out := ctrl.RequestPasswordReset(r.Context(), r.FormValue("email"))
		if out.Kind == types.OutcomeValidationFailed {
			redirectWithError(w, r, "/auth/reset-password/request", out.Message)
			return
		}
		// Identical response whether or not the account exists.
		redirectWithSuccess(w, r, "/auth/reset-password/request", resetRequestConfirmation)
	})

	r.Post("/reset-password/change", func(w http.ResponseWriter, r *http.Request) {
		accessToken := middlewares.AccessTokenFromContext(r.Context())
		out := ctrl.CompletePasswordReset(r.Context(), accessToken,
			r.FormValue("password"), r.FormValue("confirm_password"))
		if out.Kind == types.OutcomeUnauthenticated {
			redirectWithError(w, r, "/auth/reset-password/change",
				"Your reset link has expired. Please request a new one.")
			return
		}
		if !out.OK() {
			redirectWithError(w, r, "/auth/reset-password/change", out.Message)
			return
		}
		middlewares.ClearSessionCookies(w)
		redirectWithSuccess(w, r, "/auth/login",
			"Password reset successful. Please login with your new password.")
	})

	// The emailed link lands here with a one-time code. A recovery exchange
	// continues to the password form on the fresh recovery session; a
	// confirmation exchange sends the user to the login page to sign in.
	r.Get("/callback", func(w http.ResponseWriter, r *http.Request) {
		session, out := ctrl.ExchangeCode(r.Context(), r.URL.Query().Get("code"))
		if !out.OK() {
			redirectWithError(w, r, "/auth/login", "Could not verify your link. Please try again.")
			return
		}
		if r.URL.Query().Get("type") == "recovery" {
			middlewares.SetSessionCookies(w, session)
			http.Redirect(w, r, "/auth/reset-password/change", http.StatusSeeOther)
			return
		}
		redirectWithSuccess(w, r, "/auth/login", "Email confirmed successfully. Please log in.")
	})

	return r
}

func authPage(title, tmpl string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		errMsg, successMsg := flash(r)
		views.Render(w, tmpl, views.PageData{
			Title:   title,
			User:    middlewares.UserFromContext(r.Context()),
			Error:   errMsg,
			Success: successMsg,
		})
	}
}
