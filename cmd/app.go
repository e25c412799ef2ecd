package cmd

import (
	"os"
	"strings"

	"fiddle/cli/internal/auth"
	"fiddle/cli/internal/backend"
	"fiddle/cli/internal/config"
	"fiddle/cli/internal/diagram"
	"fiddle/cli/internal/dsn"
	"fiddle/cli/internal/keychain"
	"fiddle/cli/internal/logging"
	"fiddle/cli/internal/request"
	"fiddle/cli/internal/session"
	"fiddle/cli/internal/sqlexec"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// app wires configuration, logging and the execution collaborators for one
// command invocation.
type app struct {
	cfg      config.Config
	log      *zap.Logger
	flush    func()
	gateway  backend.API
	closers  []func()
	diagram  *diagram.PostProcessor
	sessions *session.FileStore
	tokens   *auth.Service
	// local is true when statements run on a PostgreSQL database.
	local bool
}

func newApp(cmd *cobra.Command) (*app, error) {
	cfg, cfgErr := config.Load()
	cfg = cfg.ApplyEnv(os.Getenv)
	if flagEndpoint != "" {
		cfg.Endpoint = flagEndpoint
	}
	verbose := flagVerbose || config.Verbose(os.Getenv)

	log, flush := logging.New(logging.Config{Level: cfg.LogLevel, Verbose: verbose})
	if cfgErr != nil {
		log.Warn("config unreadable, using defaults", zap.Error(cfgErr))
	}

	a := &app{cfg: cfg, log: log, flush: flush}

	var store auth.TokenStore
	if km, err := keychain.GetManager(); err == nil {
		store = km
	} else {
		log.Debug("keychain unavailable", zap.Error(err))
	}
	a.tokens = auth.NewService(store, os.Getenv)

	rawDSN := flagDSN
	if rawDSN == "" {
		rawDSN = strings.TrimSpace(os.Getenv(config.EnvDSN))
	}
	if rawDSN != "" {
		connStr, err := dsn.Parse(rawDSN)
		if err != nil {
			a.Close()
			return nil, err
		}
		ex, err := sqlexec.Connect(cmd.Context(), connStr, log.Named("sqlexec"))
		if err != nil {
			a.Close()
			return nil, err
		}
		log.Debug("using local database", zap.String("target", dsn.Describe(rawDSN)), logging.Secret("dsn", connStr))
		a.gateway = ex
		a.closers = append(a.closers, ex.Close)
		a.local = true
	} else {
		token, src := a.tokens.Token()
		log.Debug("using query service", zap.String("endpoint", cfg.Endpoint), zap.String("token_source", string(src)))
		a.gateway = backend.New(cfg.Endpoint,
			backend.Endpoints{Execute: cfg.ExecutePath, Version: cfg.VersionPath},
			backend.WithToken(token),
			backend.WithLogger(log.Named("backend")),
		)
	}

	conv := diagram.NewConverter(cfg.Diagram.Renderer, cfg.Diagram.DotPath, cfg.Diagram.KrokiURL)
	a.diagram = diagram.NewPostProcessor(conv, log.Named("diagram"))

	if fs, err := session.DefaultFileStore(); err == nil {
		a.sessions = fs
	} else {
		log.Warn("session store unavailable", zap.Error(err))
	}
	return a, nil
}

// machine builds a request state machine reading and writing share tokens through links.
func (a *app) machine(links request.LinkStore) *request.Machine {
	opts := []request.Option{
		request.WithDiagrammer(a.diagram),
		request.WithLogger(a.log.Named("request")),
	}
	if a.sessions != nil {
		opts = append(opts, request.WithSessionStore(a.sessions))
	}
	if links != nil {
		opts = append(opts, request.WithLinkStore(links))
	}
	return request.NewMachine(a.gateway, opts...)
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
	if a.flush != nil {
		a.flush()
	}
}
