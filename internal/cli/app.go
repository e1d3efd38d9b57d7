package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/cabinet/internal/memory"
	"github.com/mesh-intelligence/cabinet/internal/paths"
	"github.com/mesh-intelligence/cabinet/pkg/constraints"
	"github.com/mesh-intelligence/cabinet/pkg/container"
	"github.com/mesh-intelligence/cabinet/pkg/events"
	"github.com/mesh-intelligence/cabinet/pkg/sqlite"
	"github.com/mesh-intelligence/cabinet/pkg/types"
)

// errNeedsSQLite is returned by commands that only make sense on disk.
var errNeedsSQLite = errors.New("command requires the sqlite backend")

// app is the state shared by the commands of one invocation.
type app struct {
	flags     rootFlags
	configDir string
	cfg       types.Config
	logger    *slog.Logger
	backend   sqlite.Backend
}

// setup resolves directories, loads and validates the configuration and
// creates the logger.
func (a *app) setup(cmd *cobra.Command) error {
	configDir, err := paths.ResolveConfigDir(a.flags.configDir)
	if err != nil {
		return fmt.Errorf("resolve config dir: %w", err)
	}
	v, err := loadConfig(configDir)
	if err != nil {
		return err
	}
	dataDir, err := paths.ResolveDataDir(a.flags.dataDir, v.GetString(cfgKeyDataDir))
	if err != nil {
		return fmt.Errorf("resolve data dir: %w", err)
	}

	cfg := configFrom(v, dataDir)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	a.configDir = configDir
	a.cfg = cfg
	a.logger = newLogger(cmd.ErrOrStderr(), cfg.LogLevel, a.flags.verbose)
	a.logger.Debug("configuration loaded", "config_dir", configDir, "data_dir", dataDir, "backend", cfg.Backend)
	return nil
}

// attach opens the sqlite backend. Memory configurations get no backend.
func (a *app) attach() error {
	if a.cfg.Backend != types.BackendSQLite || a.backend != nil {
		return nil
	}
	b := sqlite.NewBackend(a.logger)
	if err := b.Attach(a.cfg); err != nil {
		return fmt.Errorf("attach backend: %w", err)
	}
	a.backend = b
	return nil
}

// open attaches the backend and returns the ordered container of the
// selected bucket.
func (a *app) open() (*container.Ordered, error) {
	if err := a.attach(); err != nil {
		return nil, err
	}

	d := events.NewDispatcher(events.WithSublocations())
	d.Subscribe(0, events.LogHandler(a.logger, slog.LevelDebug))

	opts := []container.Option{
		container.WithID(a.flags.bucket),
		container.WithLogger(a.logger),
		container.WithNotifier(d),
		container.WithReservedNames(a.cfg.ReservedNames...),
	}
	if a.cfg.Precondition != "" {
		p, err := constraints.NewExprPrecondition(a.cfg.Precondition)
		if err != nil {
			return nil, userError(fmt.Errorf("config precondition: %w", err))
		}
		opts = append(opts, container.WithPrecondition(p))
	}

	if a.backend == nil {
		opts = append(opts,
			container.WithStore(memory.NewStore()),
			container.WithOrderStore(&memory.OrderList{}))
	} else {
		s, err := a.backend.Store(a.flags.bucket)
		if err != nil {
			return nil, err
		}
		o, err := a.backend.OrderList(a.flags.bucket)
		if err != nil {
			return nil, err
		}
		opts = append(opts, container.WithStore(s), container.WithOrderStore(o))
	}
	return container.NewOrdered(opts...)
}

// close detaches the backend if it was attached.
func (a *app) close() error {
	if a.backend == nil {
		return nil
	}
	err := a.backend.Detach()
	a.backend = nil
	return err
}

// withContainer runs fn on the selected bucket and detaches afterwards.
func (a *app) withContainer(fn func(c *container.Ordered) error) (err error) {
	c, err := a.open()
	if err != nil {
		_ = a.close()
		return classify(err)
	}
	defer func() {
		if cerr := a.close(); err == nil && cerr != nil {
			err = sysError(cerr)
		}
	}()
	return classify(fn(c))
}

// withBackend runs fn on the attached sqlite backend.
func (a *app) withBackend(fn func(b sqlite.Backend) error) (err error) {
	if a.cfg.Backend != types.BackendSQLite {
		return userError(errNeedsSQLite)
	}
	if err := a.attach(); err != nil {
		return classify(err)
	}
	defer func() {
		if cerr := a.close(); err == nil && cerr != nil {
			err = sysError(cerr)
		}
	}()
	return classify(fn(a.backend))
}

func out(cmd *cobra.Command) io.Writer { return cmd.OutOrStdout() }
