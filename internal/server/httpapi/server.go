// Package httpapi exposes the task manager over a JSON REST API.
package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/taskmanager/internal/logging"
	"github.com/dmitrijs2005/taskmanager/internal/server/models"
	"github.com/dmitrijs2005/taskmanager/internal/server/services"
)

const (
	readHeaderTimeout = 5 * time.Second
	readTimeout       = 30 * time.Second
	writeTimeout      = 30 * time.Second
	idleTimeout       = 120 * time.Second
	shutdownTimeout   = 10 * time.Second
)

// UserService is what the handlers need from services.UserService.
type UserService interface {
	Register(ctx context.Context, in services.RegisterInput) (*models.User, string, error)
	Login(ctx context.Context, email, password string) (*models.User, string, error)
	Logout(ctx context.Context, userID, token string) error
	LogoutAll(ctx context.Context, userID string) error
	Authenticate(ctx context.Context, token string) (*models.User, error)
	Profile(ctx context.Context, userID string) (*models.User, error)
	UpdateProfile(ctx context.Context, userID string, patch map[string]any) (*models.User, error)
	DeleteAccount(ctx context.Context, userID string) (*models.User, error)
}

// TaskService is what the handlers need from services.TaskService.
type TaskService interface {
	Create(ctx context.Context, ownerID string, in services.TaskInput) (*models.Task, error)
	List(ctx context.Context, ownerID string, q models.TaskQuery) ([]*models.Task, error)
	Get(ctx context.Context, ownerID, taskID string) (*models.Task, error)
	Update(ctx context.Context, ownerID, taskID string, patch map[string]any) (*models.Task, error)
	Delete(ctx context.Context, ownerID, taskID string) (*models.Task, error)
}

// AvatarService is what the handlers need from services.AvatarService.
type AvatarService interface {
	Upload(ctx context.Context, userID, filename string, data []byte) error
	Delete(ctx context.Context, userID string) error
	Get(ctx context.Context, userID string) ([]byte, error)
}

type HTTPServer struct {
	address string
	logger  logging.Logger
	users   UserService
	tasks   TaskService
	avatars AvatarService
	mux     *http.ServeMux
}

func NewHTTPServer(a string, l logging.Logger, us UserService, ts TaskService, as AvatarService) *HTTPServer {
	s := &HTTPServer{
		address: a,
		logger:  l.With("module", "http_server"),
		users:   us,
		tasks:   ts,
		avatars: as,
		mux:     http.NewServeMux(),
	}
	s.initRoutes()
	return s
}

// Handler returns the root handler with request logging and panic recovery.
func (s *HTTPServer) Handler() http.Handler {
	return ChainMiddleware(s.mux.ServeHTTP, s.loggingMiddleware, s.recoverMiddleware)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *HTTPServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}

	stopped := make(chan error, 1)
	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		stopped <- srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return <-stopped
}
