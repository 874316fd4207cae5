// Package server wires configuration, storage, services and the HTTP API
// together and runs them until the process is signalled to stop.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/taskmanager/internal/dbx"
	"github.com/dmitrijs2005/taskmanager/internal/logging"
	"github.com/dmitrijs2005/taskmanager/internal/server/config"
	"github.com/dmitrijs2005/taskmanager/internal/server/httpapi"
	"github.com/dmitrijs2005/taskmanager/internal/server/mailer"
	"github.com/dmitrijs2005/taskmanager/internal/server/media"
	"github.com/dmitrijs2005/taskmanager/internal/server/repositories/avatars"
	"github.com/dmitrijs2005/taskmanager/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/taskmanager/internal/server/services"
	_ "github.com/jackc/pgx/v5/stdlib"
)

type App struct {
	config        *config.Config
	logger        logging.Logger
	db            *sql.DB
	userService   *services.UserService
	taskService   *services.TaskService
	avatarService *services.AvatarService
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.New(c.LogFormat, os.Stdout)

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}

	store, err := newAvatarStore(ctx, c, rm, db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	ml := newMailer(c, logger)

	return &App{
		config:        c,
		logger:        logger,
		db:            db,
		userService:   services.NewUserService(db, rm, store, ml, c, logger),
		taskService:   services.NewTaskService(db, rm, logger),
		avatarService: services.NewAvatarService(store, media.NewAvatarResizer(), logger),
	}, nil
}

// newAvatarStore keeps avatars in the users table unless an S3 bucket is
// configured.
func newAvatarStore(ctx context.Context, c *config.Config, rm repomanager.RepositoryManager, db dbx.DBTX) (avatars.Repository, error) {
	if c.S3Bucket == "" {
		return rm.Avatars(db), nil
	}
	store, err := avatars.NewS3Repository(ctx, avatars.S3Options{
		Bucket:       c.S3Bucket,
		Region:       c.S3Region,
		AccessKey:    c.S3RootUser,
		SecretKey:    c.S3RootPassword,
		BaseEndpoint: c.S3BaseEndpoint,
	})
	if err != nil {
		return nil, fmt.Errorf("avatar store init error: %w", err)
	}
	return store, nil
}

// newMailer sends through SendGrid when an API key is configured and only
// logs otherwise.
func newMailer(c *config.Config, l logging.Logger) mailer.Mailer {
	if c.SendGridAPIKey == "" {
		return mailer.NewLogMailer(l)
	}
	return mailer.NewSendGridMailer(c.SendGridAPIKey, c.EmailFrom)
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves HTTP until a signal arrives or the server fails, then waits for
// background emails and closes the database.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")
	app.initSignalHandler(cancelFunc)

	s := httpapi.NewHTTPServer(app.config.EndpointAddrHTTP, app.logger, app.userService, app.taskService, app.avatarService)
	err := s.Run(ctx)
	if err != nil {
		app.logger.Error(ctx, "http server failed", "error", err)
	}

	app.userService.Wait()
	if cerr := app.db.Close(); cerr != nil {
		app.logger.Error(ctx, "db close failed", "error", cerr)
	}
	app.logger.Info(ctx, "App stopped")
	return err
}
