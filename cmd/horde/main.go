// Package main runs a headless horde simulation: a population of agents
// hunting a scripted player by sight, sound, and scent.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"math"
	"math/rand"
	"net/http"
	"os"

	"github.com/pthm-cable/horde/components"
	"github.com/pthm-cable/horde/config"
	"github.com/pthm-cable/horde/observer"
	"github.com/pthm-cable/horde/recorder"
	"github.com/pthm-cable/horde/sim"
	"github.com/pthm-cable/horde/telemetry"
)

func main() {
	configPath := flag.String("config", "", "Config YAML file (empty = use defaults)")
	ticks := flag.Int("ticks", 36000, "Simulation duration in ticks")
	agents := flag.Int("agents", 50, "Number of agents to spawn")
	seed := flag.Int64("seed", 42, "RNG seed")
	outputDir := flag.String("output", "", "Output directory for CSV telemetry (empty = disabled)")
	listenAddr := flag.String("listen", "", "Address for the websocket observer endpoint (empty = disabled)")
	recordPath := flag.String("record", "", "SQLite database path for event recording (empty = disabled)")
	logStats := flag.Bool("log-stats", true, "Log window stats to the console")
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	if err := config.Init(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	cfg := config.Cfg()

	world := sim.NewWorld(cfg, *seed)
	world.SetLogStats(*logStats)

	// CSV output
	om, err := telemetry.NewOutputManager(*outputDir)
	if err != nil {
		log.Fatalf("failed to create output manager: %v", err)
	}
	if om != nil {
		defer om.Close()
		if err := om.WriteConfig(cfg); err != nil {
			log.Fatalf("failed to write config: %v", err)
		}
		world.SetOutputManager(om)
	}

	// Event recording
	if *recordPath != "" {
		rec, err := recorder.Open(*recordPath)
		if err != nil {
			log.Fatalf("failed to open recorder: %v", err)
		}
		defer rec.Close()
		world.AddSink(rec)
		slog.Info("recording events", "path", *recordPath, "run_id", rec.RunID())
	}

	// Observer endpoint
	var hub *observer.Hub
	if *listenAddr != "" {
		hub = observer.NewHub()
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go hub.Run(ctx)

		mux := http.NewServeMux()
		mux.HandleFunc("/ws", hub.ServeWS)
		go func() {
			slog.Info("observer endpoint listening", "addr", *listenAddr)
			if err := http.ListenAndServe(*listenAddr, mux); err != nil {
				slog.Error("observer endpoint failed", "error", err)
			}
		}()
	}

	// Spawn the agent population at random positions.
	rng := rand.New(rand.NewSource(*seed))
	for i := 0; i < *agents; i++ {
		world.SpawnAgent(components.Position{
			X: rng.Float32() * cfg.Derived.WorldW32,
			Z: rng.Float32() * cfg.Derived.WorldD32,
		})
	}

	// The player walks a circuit around the world center, jumping over
	// an obstacle once per lap and firing a shot every few laps.
	player := world.SpawnPlayer(components.Position{
		X: cfg.Derived.WorldW32 / 2,
		Z: cfg.Derived.WorldD32 / 2,
	})
	script := newCircuitScript(cfg, player)

	slog.Info("simulation starting",
		"ticks", *ticks,
		"agents", *agents,
		"seed", *seed,
	)

	snapshotInterval := cfg.Observer.SnapshotInterval
	for i := 0; i < *ticks; i++ {
		script.Advance(cfg.Sim.DT)
		world.Step()

		if hub != nil && snapshotInterval > 0 && world.Tick()%int64(snapshotInterval) == 0 {
			hub.BroadcastSnapshot(observer.BuildSnapshot(world))
		}
	}

	slog.Info("simulation finished",
		"ticks", world.Tick(),
		"sim_time", world.Now(),
		"agents", world.AgentCount(),
		"active_noises", world.Pool().Active(),
	)
}

// circuitScript drives the player around a fixed loop so every noise
// channel gets exercised: footsteps on the straights, a jump and
// landing at the obstacle, and a gunshot at the start of every third lap.
type circuitScript struct {
	player *sim.Player

	centerX, centerZ float32
	radius           float32
	walkSpeed        float64

	angle    float64
	lap      int
	airborne float64
}

func newCircuitScript(cfg *config.Config, player *sim.Player) *circuitScript {
	s := &circuitScript{
		player:    player,
		centerX:   cfg.Derived.WorldW32 / 2,
		centerZ:   cfg.Derived.WorldD32 / 2,
		radius:    cfg.Derived.WorldW32 / 4,
		walkSpeed: cfg.Agent.WanderSpeed * 1.2,
	}
	player.MoveTo(s.posAt(0, 0), true)
	return s
}

func (s *circuitScript) posAt(angle float64, y float32) components.Position {
	return components.Position{
		X: s.centerX + s.radius*float32(math.Cos(angle)),
		Y: y,
		Z: s.centerZ + s.radius*float32(math.Sin(angle)),
	}
}

// Advance moves the player one tick along the circuit.
func (s *circuitScript) Advance(dt float64) {
	angular := s.walkSpeed * dt / float64(s.radius)
	s.angle += angular

	if s.angle >= 2*math.Pi {
		s.angle -= 2 * math.Pi
		s.lap++
		if s.lap%3 == 0 {
			s.player.FireGunshot()
		}
	}

	// Obstacle at the quarter mark: jump, stay airborne briefly, land.
	const jumpStart = math.Pi / 2
	const airTime = 0.5
	if s.airborne == 0 && s.angle >= jumpStart && s.angle < jumpStart+angular {
		s.player.Jump()
		s.airborne = airTime
	}

	grounded := true
	y := float32(0)
	if s.airborne > 0 {
		s.airborne -= dt
		if s.airborne > 0 {
			grounded = false
			// Simple parabolic arc peaking at 1 unit
			t := 1 - s.airborne/airTime
			y = float32(4 * t * (1 - t))
		} else {
			s.airborne = 0
		}
	}

	s.player.MoveTo(s.posAt(s.angle, y), grounded)
}
