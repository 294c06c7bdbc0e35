// Package server wires the HTTP router: route registration, the
// middleware chain, and the landing pages.
package server

import (
	"net/http"

	"github.com/gorilla/mux"

	adminhandler "blog-backend/internal/admin/handler"
	"blog-backend/internal/audit"
	authhandler "blog-backend/internal/auth/handler"
	authservice "blog-backend/internal/auth/service"
	healthhandler "blog-backend/internal/health/handler"
	posthandler "blog-backend/internal/post/handler"
	postrepo "blog-backend/internal/post/repository"
	"blog-backend/internal/security"
	"blog-backend/internal/server/middleware"
	"blog-backend/internal/telemetry"
	userhandler "blog-backend/internal/user/handler"
	userrepo "blog-backend/internal/user/repository"
)

// Deps holds the services and repositories the router serves.
type Deps struct {
	Auth     *authservice.AuthService
	Tokens   *security.TokenProvider
	Users    userrepo.Repository
	Posts    postrepo.Repository
	Auditor  audit.AuditLogger
	Emitter  telemetry.EventEmitter
	Cookies  authhandler.CookieConfig
	DBPinger healthhandler.Pinger
}

// NewRouter builds the full route table.
//
// Route → handler mapping:
//   - /api/auth/*        → internal/auth/handler
//   - /api/users/me*     → internal/user/handler
//   - /api/posts*        → internal/post/handler
//   - /api/admin/*       → internal/admin/handler
//   - /health            → internal/health/handler
func NewRouter(deps Deps) *mux.Router {
	router := mux.NewRouter()
	router.Use(middleware.Recovery)
	router.Use(middleware.ClientIPMiddleware)
	router.Use(middleware.Telemetry(deps.Emitter))

	router.Handle("/health", healthhandler.New(deps.DBPinger)).Methods(http.MethodGet)
	router.HandleFunc("/", home).Methods(http.MethodGet)

	public := router.PathPrefix("/api").Subrouter()
	authed := router.PathPrefix("/api").Subrouter()
	authed.Use(middleware.RequireAuth(deps.Tokens))

	authhandler.New(deps.Auth, deps.Cookies).Register(public, authed)
	userhandler.New(deps.Users, deps.Auth).Register(authed)
	posthandler.New(deps.Posts).Register(public, authed)
	adminhandler.New(deps.Users, deps.Auditor).Register(authed)

	return router
}
