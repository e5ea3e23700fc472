// Command server runs the engine as a headless daemon with a JSON
// command surface over HTTP. Clients submit progression requests and
// query live telemetry; the world is persisted on shutdown with the
// optimistic-concurrency check in astroio.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/Davarice/Astronautica/core"
	"github.com/Davarice/Astronautica/internal/astroio"
	"github.com/Davarice/Astronautica/internal/logging"
	"github.com/Davarice/Astronautica/internal/observability"
)

const tracerName = "github.com/Davarice/Astronautica/cmd/server"

func main() {
	addr := flag.String("addr", ":8080", "TCP address the HTTP command surface listens on")
	worldPath := flag.String("world", "world.json", "path to the persisted world file")
	granularity := flag.Int("granularity", 4, "default ticks per simulated second")
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

	collector, err := observability.NewEngineCollector(nil)
	if err != nil {
		log.Error(ctx, "metrics init failed", logging.String("error", err.Error()))
		os.Exit(1)
	}

	store, rec, err := astroio.Open(*worldPath)
	if err != nil {
		log.Error(ctx, "world load failed", logging.String("path", *worldPath), logging.String("error", err.Error()))
		os.Exit(1)
	}

	var st *core.Spacetime
	if rec != nil {
		st, err = core.LoadWorld(rec, core.NewTypeRegistry(), false)
		if err != nil {
			log.Error(ctx, "world reconstruction failed", logging.String("error", err.Error()))
			os.Exit(1)
		}
		log.Info(ctx, "world loaded",
			logging.String("path", *worldPath),
			logging.Int("objects", st.Space().Len()),
		)
	} else {
		st = core.NewSpacetime(core.NewSpace())
		log.Info(ctx, "starting with an empty world", logging.String("path", *worldPath))
	}
	st.SetMetrics(collector)

	h := &handlers{
		st:          st,
		log:         log,
		granularity: *granularity,
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", collector.Handler())
	mux.HandleFunc("POST /v1/progress", h.progress)
	mux.HandleFunc("GET /v1/objects", h.listObjects)
	mux.HandleFunc("GET /v1/objects/{id}", h.getObject)
	mux.HandleFunc("GET /v1/bearing", h.bearing)

	srv := &http.Server{
		Addr:    *addr,
		Handler: requestLogging(log, mux),
	}

	go func() {
		log.Info(ctx, "command surface listening", logging.String("addr", *addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(ctx, "http server exited", logging.String("error", err.Error()))
		}
	}()

	<-ctx.Done()
	log.Info(context.Background(), "shutting down")

	// Shutdown waits for in-flight requests, so a turn in progress
	// completes before the final save.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn(shutdownCtx, "http shutdown failed", logging.String("error", err.Error()))
	}

	if err := store.Save(st.Serialize()); err != nil {
		log.Error(context.Background(), "final save failed",
			logging.String("path", *worldPath),
			logging.String("error", err.Error()),
		)
		os.Exit(1)
	}
	log.Info(context.Background(), "world saved", logging.String("path", *worldPath))
}

// requestLogging stamps each request with a request_id and logs its
// outcome.
func requestLogging(base logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, log := logging.WithRequestLogger(r.Context(), base)
		start := time.Now()
		next.ServeHTTP(w, r.WithContext(ctx))
		log.Debug(ctx, "request handled",
			logging.String("method", r.Method),
			logging.String("path", r.URL.Path),
			logging.Duration("elapsed", time.Since(start)),
		)
	})
}

type handlers struct {
	st          *core.Spacetime
	log         logging.Logger
	granularity int
}

type progressRequest struct {
	Duration    int `json:"duration"`
	Granularity int `json:"granularity,omitempty"`
}

type progressResponse struct {
	Objects int       `json:"objects"`
	Updated time.Time `json:"updated"`
}

func (h *handlers) progress(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer(tracerName).Start(r.Context(), "server.Progress")
	defer span.End()

	var req progressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	gran := req.Granularity
	if gran == 0 {
		gran = h.granularity
	}
	span.SetAttributes(
		attribute.Int("engine.duration", req.Duration),
		attribute.Int("engine.granularity", gran),
	)

	if err := h.st.Progress(req.Duration, gran); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.log.Info(ctx, "world progressed",
		logging.Int("duration", req.Duration),
		logging.Int("granularity", gran),
		logging.Int("objects", h.st.Space().Len()),
	)
	writeJSON(w, http.StatusOK, progressResponse{
		Objects: h.st.Space().Len(),
		Updated: h.st.Updated(),
	})
}

type objectSummary struct {
	ID     string     `json:"id"`
	Type   string     `json:"type"`
	Domain string     `json:"domain"`
	Pos    [3]float64 `json:"pos"`
	Speed  float64    `json:"speed"`
}

func (h *handlers) listObjects(w http.ResponseWriter, r *http.Request) {
	_, span := otel.Tracer(tracerName).Start(r.Context(), "server.ListObjects")
	defer span.End()

	domain := r.URL.Query().Get("domain")
	objects := []objectSummary{}
	for _, obj := range h.st.Space().Snapshot() {
		b := obj.Body()
		if domain != "" && b.Domain != domain {
			continue
		}
		pos := b.Coords.Position
		objects = append(objects, objectSummary{
			ID:     b.ID().String(),
			Type:   obj.Tag(),
			Domain: b.Domain,
			Pos:    [3]float64{pos.X, pos.Y, pos.Z},
			Speed:  b.Coords.Speed(),
		})
	}
	span.SetAttributes(attribute.Int("engine.objects", len(objects)))
	writeJSON(w, http.StatusOK, objects)
}

func (h *handlers) getObject(w http.ResponseWriter, r *http.Request) {
	_, span := otel.Tracer(tracerName).Start(r.Context(), "server.GetObject")
	defer span.End()

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "malformed object id")
		return
	}
	obj, ok := h.st.Space().Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "no such object")
		return
	}
	writeJSON(w, http.StatusOK, core.SerializeObject(obj))
}

type bearingResponse struct {
	Rho   float64 `json:"rho"`
	Theta float64 `json:"theta"`
	Phi   float64 `json:"phi"`
}

// bearing reports the spherical offset of object "to" as seen from
// object "from".
func (h *handlers) bearing(w http.ResponseWriter, r *http.Request) {
	_, span := otel.Tracer(tracerName).Start(r.Context(), "server.Bearing")
	defer span.End()

	from, to, ok := h.bearingPair(w, r)
	if !ok {
		return
	}
	b := core.Bearing(from.Body().Coords, to.Body().Coords)
	writeJSON(w, http.StatusOK, bearingResponse{Rho: b.Rho, Theta: b.Theta, Phi: b.Phi})
}

func (h *handlers) bearingPair(w http.ResponseWriter, r *http.Request) (core.Object, core.Object, bool) {
	fromID, err := uuid.Parse(r.URL.Query().Get("from"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "malformed from id")
		return nil, nil, false
	}
	toID, err := uuid.Parse(r.URL.Query().Get("to"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "malformed to id")
		return nil, nil, false
	}
	from, ok := h.st.Space().Get(fromID)
	if !ok {
		writeError(w, http.StatusNotFound, "no such object: from")
		return nil, nil, false
	}
	to, ok := h.st.Space().Get(toID)
	if !ok {
		writeError(w, http.StatusNotFound, "no such object: to")
		return nil, nil, false
	}
	return from, to, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
