// Package server exposes the HTTP surface: JSON request/response mapping,
// routing, and the translation of service errors into status codes.
package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/splitspend/splitspend/internal/service"
)

// Server holds the services the handlers dispatch to.
type Server struct {
	users  *service.UserService
	groups *service.GroupService
}

// New creates a Server backed by the given services.
func New(users *service.UserService, groups *service.GroupService) *Server {
	return &Server{users: users, groups: groups}
}

// Handler builds the routing table and wraps it in the middleware chain:
// request id, request logging, metrics, CORS.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /v1/user/signup", s.handleSignup)
	mux.HandleFunc("POST /v1/user/login", s.handleLogin)

	mux.HandleFunc("POST /v1/groups/create", s.handleCreateGroup)
	mux.HandleFunc("GET /v1/groups", s.handleListGroups)
	mux.HandleFunc("POST /v1/groups/member/add", s.handleAddMember)

	mux.HandleFunc("GET /health-check", handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())

	return requestIDMiddleware(loggingMiddleware(metricsMiddleware(corsMiddleware(mux))))
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("The application is well and healthy... (for now!)"))
}
