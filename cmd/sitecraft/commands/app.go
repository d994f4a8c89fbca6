package commands

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/utkarshverma439/SiteCraft-AI/internal/config"
	"github.com/utkarshverma439/SiteCraft-AI/internal/event"
	"github.com/utkarshverma439/SiteCraft-AI/internal/generation"
	"github.com/utkarshverma439/SiteCraft-AI/internal/logging"
	"github.com/utkarshverma439/SiteCraft-AI/internal/project"
	"github.com/utkarshverma439/SiteCraft-AI/internal/session"
	"github.com/utkarshverma439/SiteCraft-AI/internal/storage"
	"github.com/utkarshverma439/SiteCraft-AI/internal/transport"
	"github.com/utkarshverma439/SiteCraft-AI/pkg/types"
)

// app wires the client components for one command invocation.
type app struct {
	cfg      *types.Config
	bus      *event.Bus
	client   *transport.Client
	session  *session.Store
	projects *project.Repository
	gen      *generation.Orchestrator
	out      *printer

	closers []func()
}

// loadConfig loads configuration, applies global flags and initializes
// logging.
func loadConfig() (*types.Config, *config.Paths, error) {
	workDir, err := os.Getwd()
	if err != nil {
		return nil, nil, err
	}
	if configPath != "" {
		os.Setenv("SITECRAFT_CONFIG", configPath)
	}

	paths := config.GetPaths()
	if err := paths.EnsurePaths(); err != nil {
		return nil, nil, err
	}

	cfg, err := config.Load(workDir)
	if err != nil {
		return nil, nil, err
	}
	if serverURL != "" {
		cfg.API.BaseURL = strings.TrimRight(serverURL, "/")
	}

	level := cfg.Log.Level
	if logLevel != "" {
		level = logLevel
	}
	logCfg := logging.DefaultConfig()
	logCfg.Level = logging.ParseLevel(level)
	if printLogs {
		logCfg.Pretty = true
	} else {
		logCfg.File = cfg.Log.File
		if logCfg.File == "" {
			logCfg.File = paths.LogPath()
		}
	}
	if err := logging.Init(logCfg); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: cannot open log file: %v\n", err)
	}

	return cfg, paths, nil
}

// newApp builds the client stack and restores any saved session.
func newApp(cmd *cobra.Command) (*app, error) {
	cfg, paths, err := loadConfig()
	if err != nil {
		return nil, err
	}

	a := &app{
		cfg: cfg,
		bus: event.NewBus(),
		out: newPrinter(cmd.OutOrStdout(), outputFormat),
	}
	if err := a.out.validate(); err != nil {
		return nil, err
	}
	a.closers = append(a.closers, func() { a.bus.Close() })

	a.client = transport.NewClient(transport.OptionsFromConfig(cfg.API))

	creds, err := a.credentialStore(paths)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.session = session.NewStore(a.client, creds, a.bus)
	a.session.Attach()

	a.projects = project.NewRepository(a.client, a.bus, cfg.API.PageSize)
	a.gen = generation.New(a.client, a.projects, a.bus, nil)
	a.closers = append(a.closers, a.gen.Close, a.projects.Close)

	stderr := cmd.ErrOrStderr()
	unsub := a.bus.Subscribe(event.SessionUnauthorized, func(event.Event) {
		fmt.Fprintln(stderr, color.YellowString("Session expired. Run `sitecraft auth login`."))
	})
	a.closers = append(a.closers, unsub)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if _, err := a.session.Restore(ctx); err != nil {
		logging.Warn().Err(err).Msg("could not restore session")
	}
	return a, nil
}

func (a *app) credentialStore(paths *config.Paths) (session.CredentialStore, error) {
	if a.cfg.Session.Store == config.StoreRedis {
		rs := session.NewRedisStoreFromConfig(a.cfg.Session.Redis)
		a.closers = append(a.closers, func() { rs.Close() })
		return rs, nil
	}
	return session.NewFileStore(storage.New(paths.StoragePath())), nil
}

// Close releases everything newApp opened, in reverse order.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

// withApp adapts a RunE that needs the client stack.
func withApp(run func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		return run(ctx, a, cmd, args)
	}
}
