package httpserver

import (
	"net/http"
	"strings"

	domain "mlboard/backend/internal/domain/auth"
	usecase "mlboard/backend/internal/usecase/auth"
)

// Redirect destinations for denied page navigations. Two distinct pages so
// the UI can tell "log in first" from "admins only".
const (
	AccessDeniedPath = "/access-denied"
	AdminOnlyPath    = "/admin-only"
)

// protectedRoute marks a path prefix as requiring a session, optionally an
// admin one. Matching is exact-or-subpath: "/user" guards "/user" and
// "/user/settings" but not "/username".
type protectedRoute struct {
	prefix    string
	adminOnly bool
}

// defaultProtectedRoutes guards the dashboard surfaces that render
// user-specific or privileged content. Adding a surface is a data change.
var defaultProtectedRoutes = []protectedRoute{
	{prefix: "/train"},
	{prefix: "/dataset-preview"},
	{prefix: "/user"},
	{prefix: "/admin", adminOnly: true},
}

// gatekeeper authorizes page navigation ahead of route handling. It is
// stateless: decisions come from the verified token alone, never a store
// read. Data APIs do their own live checks.
type gatekeeper struct {
	tokens usecase.TokenManager
	routes []protectedRoute
}

func newGatekeeper(tokens usecase.TokenManager) *gatekeeper {
	return &gatekeeper{tokens: tokens, routes: defaultProtectedRoutes}
}

// guard wraps a handler with the page-routing check. Requests outside the
// protected set pass through without touching the token.
func (g *gatekeeper) guard(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route, ok := g.match(r.URL.Path)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		claims, ok := g.tokens.Verify(sessionToken(r))
		if !ok {
			// No session, whatever the reason. The redirect does not
			// reveal whether the path exists.
			http.Redirect(w, r, AccessDeniedPath, http.StatusSeeOther)
			return
		}

		if route.adminOnly && claims.Role != domain.RoleAdmin {
			http.Redirect(w, r, AdminOnlyPath, http.StatusSeeOther)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (g *gatekeeper) match(path string) (protectedRoute, bool) {
	for _, route := range g.routes {
		if path == route.prefix || strings.HasPrefix(path, route.prefix+"/") {
			return route, true
		}
	}
	return protectedRoute{}, false
}
