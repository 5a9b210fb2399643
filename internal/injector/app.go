package injector

import (
	"context"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"golang.org/x/sync/errgroup"

	"github.com/zeusync/forcezone/internal/config"
	"github.com/zeusync/forcezone/internal/core/events/bus"
	"github.com/zeusync/forcezone/internal/core/observability/log"
	"github.com/zeusync/forcezone/internal/core/observability/metrics"
	"github.com/zeusync/forcezone/internal/core/system"
	"github.com/zeusync/forcezone/internal/core/systems"
	"github.com/zeusync/forcezone/internal/core/systems/physics/chipmunk"
	"github.com/zeusync/forcezone/internal/core/zone"
	"github.com/zeusync/forcezone/internal/debugfeed"
	"github.com/zeusync/forcezone/internal/reload"
	"github.com/zeusync/forcezone/internal/sim"
)

// actorRadius and actorMass describe the bodies dropped into zones.
const (
	actorRadius = 0.5
	actorMass   = 1.0
)

// App is a fully wired runner.
type App struct {
	Config config.Config
	Logger log.Log
	Bus    bus.EventBus
	World  *chipmunk.World
	Zones  *systems.ZoneSystem
	Sim    *sim.Simulation
	Feed   *debugfeed.Feed
}

func NewApp(cfg config.Config, logger log.Log, eventBus bus.EventBus, world *chipmunk.World, zones *systems.ZoneSystem, simulation *sim.Simulation, feed *debugfeed.Feed) *App {
	return &App{Config: cfg, Logger: logger, Bus: eventBus, World: world, Zones: zones, Sim: simulation, Feed: feed}
}

// Load reads the zone files, places the zones and spawns the actors.
func (a *App) Load(ctx context.Context) error {
	defs, err := zone.LoadFiles(ctx, a.Config.ZoneFiles...)
	if err != nil {
		return err
	}
	for _, def := range defs {
		if _, err := a.Zones.AddZone(def); err != nil {
			return err
		}
	}
	if len(defs) == 0 {
		return nil
	}
	for i := 0; i < a.Config.Physics.Actors; i++ {
		b := defs[i%len(defs)].Bounds
		pos := mgl64.Vec3{b.X + b.Width/2, b.Y + b.Height + float64(i/len(defs)+1)*2*actorRadius, 0}
		body, err := a.World.AddBody(actorMass, actorRadius, pos)
		if err != nil {
			return fmt.Errorf("spawn actor %d: %w", i, err)
		}
		a.Logger.Debug("actor spawned", log.Uint64("actor", uint64(body.ID())), log.Any("position", pos))
	}
	a.Logger.Info("zones loaded", log.Int("zones", len(defs)), log.Int("actors", a.Config.Physics.Actors))
	return nil
}

// Run loads the zones and blocks until the simulation ends or ctx is done.
// The watcher and debug feed stop with the simulation.
func (a *App) Run(ctx context.Context) error {
	if err := a.Load(ctx); err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	runCtx, cancel := context.WithCancel(gctx)
	defer cancel()

	g.Go(func() error {
		defer cancel()
		return a.Sim.Run(runCtx)
	})

	if a.Config.WatchZones {
		w, err := reload.NewWatcher(a.Zones, a.Logger, a.Config.ZoneFiles...)
		if err != nil {
			cancel()
			_ = g.Wait()
			return err
		}
		g.Go(func() error { return w.Run(runCtx) })
	}

	if a.Config.DebugFeed.Enabled {
		if err := a.Feed.Subscribe(); err != nil {
			cancel()
			_ = g.Wait()
			return err
		}
		defer a.Feed.Unsubscribe()
		g.Go(func() error { return a.Feed.ListenAndServe(runCtx, a.Config.DebugFeed.Addr) })
	}

	err := g.Wait()
	a.logBusSummary()
	return err
}

func (a *App) logBusSummary() {
	m := a.Bus.GetMetrics()
	a.Logger.Info("event bus summary",
		log.Uint64("published", m.Published),
		log.Uint64("handlers", m.DeliveredHandlers),
		log.Uint64("errors", m.Errors),
		log.Uint64("subscribers", m.SubscribersActive),
	)
}

func ProvideConfig() (config.Config, error) {
	cfg := config.Get()
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func ProvideLogger(cfg config.Config) (*log.Logger, error) {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	return log.New(level), nil
}

func ProvideMetrics(cfg config.Config) (*metrics.ZoneMetrics, error) {
	return metrics.Provide(cfg.Metrics.Enabled)
}

func ProvideBusMetrics(cfg config.Config) (*metrics.BusMetrics, error) {
	return metrics.ProvideBus(cfg.Metrics.Enabled)
}

// ProvideEventBus builds the bus with busMetrics attached, which also turns
// on the bus's own counters.
func ProvideEventBus(busMetrics *metrics.BusMetrics) bus.EventBus {
	b := bus.New()
	b.AddObserver(busMetrics)
	return b
}

func ProvideWorld(cfg config.Config, logger log.Log) *chipmunk.World {
	return chipmunk.NewWorld(
		chipmunk.WithGravity(mgl64.Vec3{cfg.Physics.GravityX, cfg.Physics.GravityY, 0}),
		chipmunk.WithLogger(logger),
	)
}

// ProvideZoneSystem builds the zone system on top of world, which serves as
// actor registry, zone placer and overlap source.
func ProvideZoneSystem(world *chipmunk.World, eventBus bus.EventBus, logger log.Log, zoneMetrics *metrics.ZoneMetrics) *systems.ZoneSystem {
	zs := systems.NewZoneSystem(world, eventBus, logger, zoneMetrics)
	zs.SetPlacer(world)
	world.Attach(zs)
	return zs
}

func ProvideManager(logger log.Log, world *chipmunk.World, zones *systems.ZoneSystem) (*system.Manager, error) {
	m := system.NewManager(logger)
	if err := m.RegisterSystem(world); err != nil {
		return nil, err
	}
	if err := m.RegisterSystem(zones); err != nil {
		return nil, err
	}
	return m, nil
}

func ProvideSimulation(cfg config.Config, manager *system.Manager, logger log.Log) *sim.Simulation {
	return sim.New(manager, cfg.TickRate, cfg.Duration, logger)
}

func ProvideFeed(eventBus bus.EventBus, zones *systems.ZoneSystem, logger log.Log) *debugfeed.Feed {
	return debugfeed.New(eventBus, zones, logger)
}
