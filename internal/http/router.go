package http

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"jobportal/internal/domain/user"
	"jobportal/internal/http/handlers"
	"jobportal/internal/http/metrics"
	httpmw "jobportal/internal/http/middleware"
)

type RouterDependencies struct {
	JobHandler         *handlers.JobHandler
	ApplicationHandler *handlers.ApplicationHandler
	ChatHandler        *handlers.ChatHandler
	WSHandler          *handlers.WSHandler
	MetricsHandler     *handlers.MetricsHandler
	AuthMiddleware     *httpmw.AuthMiddleware
	Metrics            *metrics.Collector
	Logger             *slog.Logger
	RequestTimeout     time.Duration
}

type Router struct {
	deps RouterDependencies
}

const maxBodyBytes = 1 << 20

func NewRouter(deps RouterDependencies) http.Handler {
	return &Router{deps: deps}
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	handler := httpmw.Chain(r.baseHandler(), httpmw.RequestID, httpmw.Logging(r.deps.Logger), httpmw.BodyLimit(maxBodyBytes), httpmw.Recover(r.deps.Logger), httpmw.Metrics(r.deps.Metrics), httpmw.Timeout(r.deps.RequestTimeout))
	handler.ServeHTTP(w, req)
}

func (r *Router) baseHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		path := req.URL.Path

		switch {
		case req.Method == http.MethodGet && path == "/health":
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
			return
		case req.Method == http.MethodGet && path == "/metrics":
			r.deps.MetricsHandler.Get(w, req)
			return
		case req.Method == http.MethodGet && path == "/ws":
			r.deps.WSHandler.Handle(w, req)
			return
		case req.Method == http.MethodGet && path == "/jobs":
			r.deps.JobHandler.ListOpen(w, req)
			return
		case req.Method == http.MethodGet && strings.HasPrefix(path, "/jobs/") && !strings.HasSuffix(path, "/apply"):
			r.deps.JobHandler.Get(w, req)
			return
		}

		if strings.HasPrefix(path, "/jobs") || strings.HasPrefix(path, "/applications") || strings.HasPrefix(path, "/chats") || strings.HasPrefix(path, "/providers") {
			protected := r.deps.AuthMiddleware.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				r.handleProtected(w, req)
			}))
			protected.ServeHTTP(w, req)
			return
		}

		http.NotFound(w, req)
	})
}

func (r *Router) handleProtected(w http.ResponseWriter, req *http.Request) {
	path := req.URL.Path

	switch {
	case req.Method == http.MethodPost && path == "/jobs":
		httpmw.RequireRole(user.RoleProvider)(http.HandlerFunc(r.deps.JobHandler.Create)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodGet && path == "/providers/jobs":
		httpmw.RequireRole(user.RoleProvider)(http.HandlerFunc(r.deps.JobHandler.ListMine)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodPatch && strings.HasPrefix(path, "/jobs/") && strings.HasSuffix(path, "/close"):
		httpmw.RequireRole(user.RoleProvider)(http.HandlerFunc(r.deps.JobHandler.Close)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodPatch && strings.HasPrefix(path, "/jobs/"):
		httpmw.RequireRole(user.RoleProvider)(http.HandlerFunc(r.deps.JobHandler.Update)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodPost && strings.HasPrefix(path, "/jobs/") && strings.HasSuffix(path, "/apply"):
		httpmw.RequireRole(user.RoleSeeker)(http.HandlerFunc(r.deps.ApplicationHandler.Apply)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodGet && path == "/applications":
		r.deps.ApplicationHandler.List(w, req)
		return
	case req.Method == http.MethodPut && strings.HasPrefix(path, "/applications/") && strings.HasSuffix(path, "/accept"):
		httpmw.RequireRole(user.RoleProvider)(http.HandlerFunc(r.deps.ApplicationHandler.ProviderAccept)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodPut && strings.HasPrefix(path, "/applications/") && strings.HasSuffix(path, "/seeker-accept"):
		httpmw.RequireRole(user.RoleSeeker)(http.HandlerFunc(r.deps.ApplicationHandler.SeekerAccept)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodPut && strings.HasPrefix(path, "/applications/") && strings.HasSuffix(path, "/reject"):
		httpmw.RequireRole(user.RoleProvider)(http.HandlerFunc(r.deps.ApplicationHandler.ProviderReject)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodPut && strings.HasPrefix(path, "/applications/") && strings.HasSuffix(path, "/hide/seeker"):
		httpmw.RequireRole(user.RoleSeeker)(http.HandlerFunc(r.deps.ApplicationHandler.HideForSeeker)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodPut && strings.HasPrefix(path, "/applications/") && strings.HasSuffix(path, "/hide/provider"):
		httpmw.RequireRole(user.RoleProvider)(http.HandlerFunc(r.deps.ApplicationHandler.HideForProvider)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodDelete && strings.HasPrefix(path, "/applications/"):
		httpmw.RequireRole(user.RoleSeeker)(http.HandlerFunc(r.deps.ApplicationHandler.Withdraw)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodPost && strings.HasPrefix(path, "/chats/") && strings.HasSuffix(path, "/messages"):
		r.deps.ChatHandler.Send(w, req)
		return
	case req.Method == http.MethodGet && strings.HasPrefix(path, "/chats/") && strings.HasSuffix(path, "/messages"):
		r.deps.ChatHandler.History(w, req)
		return
	case req.Method == http.MethodGet && strings.HasPrefix(path, "/chats/") && strings.HasSuffix(path, "/unread"):
		r.deps.ChatHandler.Unread(w, req)
		return
	case req.Method == http.MethodPut && strings.HasPrefix(path, "/chats/") && strings.HasSuffix(path, "/read"):
		r.deps.ChatHandler.MarkRead(w, req)
		return
	case req.Method == http.MethodGet && strings.HasPrefix(path, "/chats/") && strings.HasSuffix(path, "/partner"):
		r.deps.ChatHandler.Partner(w, req)
		return
	}

	http.NotFound(w, req)
}
