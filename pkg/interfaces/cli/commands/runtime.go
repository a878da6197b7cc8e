package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/altinkaya-opensource/odoo-addons/pkg/domain/repositories"
	"github.com/altinkaya-opensource/odoo-addons/pkg/infrastructure/catalog"
	"github.com/altinkaya-opensource/odoo-addons/pkg/infrastructure/config"
	"github.com/altinkaya-opensource/odoo-addons/pkg/infrastructure/events"
	"github.com/altinkaya-opensource/odoo-addons/pkg/infrastructure/logger"
	"github.com/altinkaya-opensource/odoo-addons/pkg/infrastructure/repositories/csv"
	"github.com/altinkaya-opensource/odoo-addons/pkg/infrastructure/repositories/gormrepo"
	"github.com/altinkaya-opensource/odoo-addons/pkg/infrastructure/repositories/memory"
	"github.com/altinkaya-opensource/odoo-addons/pkg/infrastructure/repositories/tomlcat"
)

// runtime carries what every subcommand needs once flags are parsed
type runtime struct {
	cfg     *config.Config
	log     *zap.Logger
	events  *events.InMemoryEventStore
	verbose bool
	db      *gorm.DB
}

// catalogRepos are the repositories a loaded catalog is served from
type catalogRepos struct {
	UoMs     repositories.UoMRepository
	Products repositories.ProductRepository
	BOMs     repositories.BOMRepository
}

func (rt *runtime) init(cmd *cobra.Command) error {
	flags := cmd.Flags()
	cfgPath, _ := flags.GetString("config")

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if v, _ := flags.GetString("catalog"); v != "" {
		cfg.Catalog.Path = v
	}
	if v, _ := flags.GetString("db"); v != "" {
		cfg.Database.Driver = v
	}
	if v, _ := flags.GetString("dsn"); v != "" {
		cfg.Database.DSN = v
	}
	if cfg.Database.Enabled() && cfg.Database.DSN == "" {
		return fmt.Errorf("--dsn is required with --db %s", cfg.Database.Driver)
	}
	rt.verbose, _ = flags.GetBool("verbose")
	if v, _ := flags.GetString("log-level"); v != "" {
		cfg.Log.Level = v
	} else if rt.verbose {
		cfg.Log.Level = "debug"
	}

	logCfg := logger.DefaultConfig()
	logCfg.Level = cfg.Log.Level
	logCfg.Format = cfg.Log.Format
	logCfg.Output = cfg.Log.Output
	log, err := logger.New(logCfg)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}

	rt.cfg = cfg
	rt.log = log
	rt.events = events.NewInMemoryEventStore(log)
	return nil
}

func (rt *runtime) close() error {
	if rt.events != nil {
		rt.events.Wait()
	}
	if rt.log != nil {
		_ = rt.log.Sync()
	}
	if rt.db != nil {
		db := rt.db
		rt.db = nil
		return gormrepo.Close(db)
	}
	return nil
}

// loadSnapshot reads the configured catalog, a CSV directory or a TOML file
func (rt *runtime) loadSnapshot(path, format string) (*catalog.Snapshot, error) {
	if format == "" || format == "auto" {
		format = detectFormat(path)
	}

	switch format {
	case "csv":
		return csv.NewLoader().LoadDir(path)
	case "toml":
		return tomlcat.Load(path)
	default:
		return nil, fmt.Errorf("unsupported catalog format %q", format)
	}
}

func detectFormat(path string) string {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return "csv"
	}
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return "toml"
	}
	return "csv"
}

// openCatalog loads the configured catalog into memory, or into the
// configured database when one is enabled
func (rt *runtime) openCatalog(ctx context.Context) (*catalogRepos, error) {
	snap, err := rt.loadSnapshot(rt.cfg.Catalog.Path, rt.cfg.Catalog.Format)
	if err != nil {
		return nil, err
	}
	built, err := snap.Build()
	if err != nil {
		return nil, err
	}
	rt.log.Debug("catalog loaded",
		zap.String("path", rt.cfg.Catalog.Path),
		zap.Int("uoms", len(built.UoMs)),
		zap.Int("templates", len(built.Templates)),
		zap.Int("boms", len(built.BOMs)))

	var repos *catalogRepos
	if rt.cfg.Database.Enabled() {
		gormLog := logger.NewGormLogger(rt.log, logger.MapGormLogLevel(rt.cfg.Database.LogLevel))
		db, err := gormrepo.Open(rt.cfg.Database.Driver, rt.cfg.Database.DSN, gormLog)
		if err != nil {
			return nil, err
		}
		rt.db = db
		store := gormrepo.NewStore(db)
		repos = &catalogRepos{UoMs: store, Products: store, BOMs: store}
	} else {
		mem := memory.NewCatalog()
		repos = &catalogRepos{UoMs: mem.UoMs, Products: mem.Products, BOMs: mem.BOMs}
	}

	if err := built.Load(ctx, repos.UoMs, repos.Products, repos.BOMs); err != nil {
		return nil, err
	}
	return repos, nil
}

// writeSnapshot saves snap as a CSV directory or, for a .toml path, a TOML file
func writeSnapshot(path string, snap *catalog.Snapshot) error {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return tomlcat.Write(path, snap)
	}
	return csv.WriteDir(path, snap)
}
