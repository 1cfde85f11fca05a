package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"schooldesk/api"
	"schooldesk/console"
	"schooldesk/credential"
	"schooldesk/localauth"
	"schooldesk/session"
)

// App wires the session manager, the credential store, the chosen verifier
// and the console together.
type App struct {
	config  *Config
	logger  *slog.Logger
	db      *sql.DB
	session *session.Manager
	client  *api.Client
	console *console.Console
}

func New(config *Config) (*App, error) {
	if config == nil {
		var err error
		config, err = LoadConfig()
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config:\n%s", FormatValidationErrors(err))
	}

	app := &App{config: config}

	level := slog.LevelInfo
	if config.Debug {
		level = slog.LevelDebug
	}
	app.logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level:     level,
		AddSource: config.Debug,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.SourceKey {
				source, _ := a.Value.Any().(*slog.Source)
				if source != nil {
					source.File = filepath.Base(source.File)
				}
			}
			return a
		},
	}))

	creds := credential.NewFileStore(config.CredentialFile)
	app.client = api.NewClient(config.Backend.URL, config.Backend.Timeout, app.logger)

	var verifier session.Verifier
	switch config.Mode {
	case "local":
		db, err := localauth.OpenDB(config.Local.File, config.Local.Migrations)
		if err != nil {
			return nil, err
		}
		app.db = db
		verifier = localauth.NewVerifier(localauth.NewAccountStore(db), localauth.TokenOptions{
			Secret: config.Local.Secret,
			Exp:    config.Local.Exp,
		})
	default:
		verifier = app.client
	}

	app.session = session.NewManager(verifier, creds, app.logger)
	app.console = console.New(app.session, app.client, os.Stdin, os.Stdout, app.logger)

	return app, nil
}

// Run revalidates any stored credential and hands control to the console.
func (a *App) Run(ctx context.Context) error {
	a.session.Initialize(ctx)
	return a.console.Run(ctx)
}

func (a *App) Close() {
	if a.db != nil {
		a.db.Close()
	}
}
