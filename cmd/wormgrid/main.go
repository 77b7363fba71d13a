package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/wormgrid/server/internal/component"
	"github.com/wormgrid/server/internal/config"
	"github.com/wormgrid/server/internal/core/action"
	"github.com/wormgrid/server/internal/data"
	"github.com/wormgrid/server/internal/engine"
	"github.com/wormgrid/server/internal/persist"
	"github.com/wormgrid/server/internal/scripting"
	"github.com/wormgrid/server/internal/system"
	"github.com/wormgrid/server/internal/view"
	"github.com/wormgrid/server/internal/world"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load config
	cfgPath := "config/server.toml"
	if p := os.Getenv("WORMGRID_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	log.Info("starting server",
		zap.String("name", cfg.Server.Name),
		zap.Int("id", cfg.Server.ID))

	// 3. Optional snapshot database
	var snapshots *persist.SnapshotRepo
	if cfg.Database.Enabled {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		db, err := persist.NewDB(ctx, cfg.Database, log)
		if err != nil {
			return fmt.Errorf("database: %w", err)
		}
		defer db.Close()

		if err := persist.RunMigrations(ctx, db.Pool); err != nil {
			return fmt.Errorf("migrations: %w", err)
		}
		snapshots = persist.NewSnapshotRepo(db)
		log.Info("snapshot database ready")
	}

	// 4. Load static data
	typeTable, err := data.LoadTypeTable(cfg.World.TypeTable)
	if err != nil {
		return fmt.Errorf("load type table: %w", err)
	}
	spawnList, err := data.LoadSpawnList(cfg.World.SpawnList)
	if err != nil {
		return fmt.Errorf("load spawn list: %w", err)
	}
	log.Info("static data loaded",
		zap.Int("entity_types", typeTable.Count()),
		zap.Int("spawns", len(spawnList)))

	// 5. World, systems, engine
	w := world.New(cfg.World.Width, cfg.World.Height, log)

	reg := system.NewRegistry()
	for _, s := range []system.System{
		system.NewMovementSystem(),
		system.NewCombatSystem(),
		system.NewHarvestSystem(),
	} {
		if err := reg.Register(s); err != nil {
			return fmt.Errorf("register systems: %w", err)
		}
	}
	reg.RegisterReaction(system.NewDefeatReaction())
	reg.RegisterReaction(system.NewRemovalReaction())
	reg.RegisterReaction(system.NewExhaustionReaction())
	if err := reg.Validate(cfg.World.MaxReactionDepth); err != nil {
		return fmt.Errorf("reaction graph: %w", err)
	}

	eng := engine.New(w, reg, cfg.World.MaxReactionDepth, log)

	// 6. Populate the world through the pipeline
	seed, err := spawnActions(typeTable, spawnList)
	if err != nil {
		return err
	}
	if _, err := eng.Bootstrap(seed); err != nil {
		return fmt.Errorf("bootstrap: %w", err)
	}
	log.Info("world populated",
		zap.Int("entities", len(eng.Snapshot().Entities())),
		zap.Uint64("checksum", eng.Snapshot().Checksum()))

	// 7. Player scripts
	scripts := scripting.NewEngine(log)
	defer scripts.Close()
	for _, ps := range cfg.Scripting.Players {
		player, err := uuid.Parse(ps.ID)
		if err != nil {
			return fmt.Errorf("player id %q: %w", ps.ID, err)
		}
		if err := scripts.LoadPlayer(player, ps.Script); err != nil {
			return fmt.Errorf("player %s: %w", ps.ID, err)
		}
	}
	log.Info("player scripts loaded", zap.Int("players", len(cfg.Scripting.Players)))

	// 8. View hub
	var hub *view.Hub
	if cfg.View.Enabled {
		hub = view.NewHub(log)
		defer hub.Close()
		mux := http.NewServeMux()
		mux.Handle("/ws", hub)
		httpServer := &http.Server{Addr: cfg.View.BindAddress, Handler: mux}
		go func() {
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("view server", zap.Error(err))
			}
		}()
		defer httpServer.Close()
		log.Info("view hub listening", zap.String("addr", cfg.View.BindAddress))
	}

	// 9. Game loop
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(cfg.World.TickRate)
	defer ticker.Stop()

	log.Info("game loop running", zap.Duration("tick_rate", cfg.World.TickRate))

	saveCounter := 0
	for {
		select {
		case <-ticker.C:
			result, err := eng.RunTick(scripts)
			if err != nil {
				// A reaction bound overrun leaves the world mid-apply;
				// state must be treated as corrupt for this tick. Stop.
				return fmt.Errorf("tick failed: %w", err)
			}
			if hub != nil {
				hub.Broadcast(eng.Snapshot(), result)
			}
			if snapshots != nil && cfg.World.SaveInterval > 0 {
				saveCounter++
				if saveCounter >= cfg.World.SaveInterval {
					saveCounter = 0
					saveSnapshot(snapshots, eng, log)
				}
			}
		case sig := <-shutdownCh:
			log.Info("shutdown signal", zap.String("signal", sig.String()))
			if snapshots != nil {
				saveSnapshot(snapshots, eng, log)
			}
			log.Info("server stopped")
			return nil
		}
	}
}

// spawnActions turns the boot spawn list into pipeline actions.
func spawnActions(types *data.TypeTable, spawns []data.SpawnEntry) ([]action.Action, error) {
	out := make([]action.Action, 0, len(spawns))
	for _, entry := range spawns {
		tmpl, ok := types.Get(entry.Template)
		if !ok {
			return nil, fmt.Errorf("spawn list: unknown template %q", entry.Template)
		}
		owner := component.Environment
		if entry.Owner != "" {
			id, err := uuid.Parse(entry.Owner)
			if err != nil {
				return nil, fmt.Errorf("spawn list: owner %q: %w", entry.Owner, err)
			}
			owner = id
		}
		out = append(out, &action.Spawn{Template: tmpl, Owner: owner, X: entry.X, Y: entry.Y})
	}
	return out, nil
}

func saveSnapshot(repo *persist.SnapshotRepo, eng *engine.Engine, log *zap.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := repo.Save(ctx, eng.Snapshot()); err != nil {
		log.Error("snapshot save failed", zap.Error(err))
		return
	}
	log.Info("snapshot saved", zap.Uint64("tick", eng.Snapshot().Tick()))
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	return zapCfg.Build()
}
