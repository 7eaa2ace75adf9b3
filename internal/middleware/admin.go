package middleware

import "net/http"

// RequireAdmin gates admin pages on a backend bearer token in the session.
// Visitors without one are sent to the login form; the token itself is only
// validated by the backend, so expired tokens are caught on first API call.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if GetSession(r).AdminToken == "" {
			http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ClearAdminToken drops the stored token, typically after the backend
// rejected it with a 401.
func ClearAdminToken(r *http.Request) {
	s := GetSession(r)
	if s.AdminToken != "" {
		s.AdminToken = ""
		s.MarkDirty()
	}
}
