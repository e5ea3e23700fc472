package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Davarice/Astronautica/core"
	"github.com/Davarice/Astronautica/internal/astroio"
	"github.com/Davarice/Astronautica/internal/logging"
	"github.com/Davarice/Astronautica/internal/observability"
	"github.com/Davarice/Astronautica/timectrl"
)

func main() {
	duration := flag.Duration("duration", 30*time.Second, "total simulation duration (0 = run until interrupted)")
	turn := flag.Duration("turn", 1*time.Second, "wall-clock turn length")
	granularity := flag.Int("granularity", 4, "ticks per simulated second")
	accelerated := flag.Bool("accelerated", true, "run in accelerated mode (vs real-time)")
	savePath := flag.String("save", "", "write the serialized world to this file on exit")
	metricsAddr := flag.String("metrics-addr", "", "serve Prometheus metrics on this address (e.g. :9090)")

	flag.Parse()

	log := logging.NewFromEnv()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.InitTracing(ctx, observability.TracingConfigFromEnv(), log)
	if err != nil {
		log.Error(ctx, "tracing init failed", logging.String("error", err.Error()))
		os.Exit(1)
	}
	defer observability.ShutdownWithTimeout(context.Background(), shutdownTracing, log)

	st := core.NewSpacetime(core.NewSpace())

	collector, err := observability.NewEngineCollector(nil)
	if err != nil {
		log.Error(ctx, "metrics init failed", logging.String("error", err.Error()))
		os.Exit(1)
	}
	st.SetMetrics(collector)

	if *metricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", collector.Handler())
		go func() {
			if err := http.ListenAndServe(*metricsAddr, mux); err != nil {
				log.Error(ctx, "metrics server failed", logging.String("error", err.Error()))
			}
		}()
	}

	if err := populateDemoWorld(st.Space()); err != nil {
		log.Error(ctx, "world setup failed", logging.String("error", err.Error()))
		os.Exit(1)
	}
	log.Info(ctx, "world populated", logging.Int("objects", st.Space().Len()))

	mode := timectrl.RealTime
	if *accelerated {
		mode = timectrl.Accelerated
	}
	tc := timectrl.NewTimeController(time.Now().UTC(), *turn, mode)

	tc.AddListener(func(simTime time.Time) {
		if err := st.Progress(1, *granularity); err != nil {
			log.Error(ctx, "progression failed", logging.String("error", err.Error()))
			return
		}
		log.Debug(ctx, "turn complete",
			logging.String("sim_time", simTime.Format(time.RFC3339)),
			logging.Int("objects", st.Space().Len()),
		)
	})

	log.Info(ctx, "simulation starting",
		logging.Duration("duration", *duration),
		logging.Duration("turn", *turn),
		logging.Int("granularity", *granularity),
	)
	<-tc.Start(ctx, *duration)

	if *savePath != "" {
		if err := astroio.Save(*savePath, st.Serialize()); err != nil {
			log.Error(ctx, "save failed", logging.String("error", err.Error()))
			os.Exit(1)
		}
		log.Info(ctx, "world saved", logging.String("path", *savePath))
	}
	log.Info(ctx, "simulation complete", logging.Int("objects", st.Space().Len()))
}

// populateDemoWorld sets up a small scenario: two ships on a collision
// course, a minefield straddling one of their paths, and a torpedo in
// a second domain that can never touch the first.
func populateDemoWorld(space *core.Space) error {
	alpha, err := core.NewShip(-100, 0, 0, 2, 5000, "sol")
	if err != nil {
		return err
	}
	alpha.Body().Coords.Velocity = core.Vec3{X: 4}
	alpha.Body().Coords.Heading = core.East

	beta, err := core.NewShip(100, 0, 0, 2, 5000, "sol")
	if err != nil {
		return err
	}
	beta.Body().Coords.Velocity = core.Vec3{X: -4}
	beta.Body().Coords.Heading = core.West

	mine, err := core.NewMine(0, 30, 0, 1, 200, "sol")
	if err != nil {
		return err
	}

	torpedo, err := core.NewTorpedo(0, 0, 0, 1, 400, "alpha-centauri")
	if err != nil {
		return err
	}
	torpedo.Body().Coords.Velocity = core.Vec3{Z: 12}

	for _, obj := range []core.Object{alpha, beta, mine, torpedo} {
		if err := space.Add(obj); err != nil {
			return err
		}
	}
	return nil
}
