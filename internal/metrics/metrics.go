package metrics

import (
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/lachiem1/pragati/internal/tracker"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

var (
	CurrentAmount = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "pragati_current_amount_rupees",
			Help: "Live counter value",
		},
	)

	FinalAmount = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "pragati_final_amount_rupees",
			Help: "Amount the run compounds to at completion",
		},
	)

	PercentComplete = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "pragati_percent_complete",
			Help: "Share of the run horizon already elapsed",
		},
	)

	ElapsedSeconds = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "pragati_elapsed_seconds",
			Help: "Seconds since the run started",
		},
	)

	Running = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "pragati_running",
			Help: "1 while a run is accruing",
		},
	)

	TicksTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "pragati_ticks_total",
			Help: "Recompute ticks executed",
		},
	)

	TickDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pragati_tick_duration_seconds",
			Help:    "Time spent in one recompute tick, persistence included",
			Buckets: []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25},
		},
	)

	PersistErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "pragati_persist_errors_total",
			Help: "Failed writes of the tracker record",
		},
	)

	GoalsReachedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "pragati_goals_reached_total",
			Help: "Runs that reached their final amount",
		},
	)
)

func init() {
	prometheus.MustRegister(
		CurrentAmount,
		FinalAmount,
		PercentComplete,
		ElapsedSeconds,
		Running,
		TicksTotal,
		TickDuration,
		PersistErrorsTotal,
		GoalsReachedTotal,
	)
}

// Observe copies a snapshot into the gauges and counts the events it reports.
func Observe(snap tracker.Snapshot) {
	CurrentAmount.Set(snap.CurrentAmount)
	FinalAmount.Set(snap.FinalAmount)
	PercentComplete.Set(snap.PercentComplete)
	ElapsedSeconds.Set(snap.ElapsedSeconds)
	if snap.Running {
		Running.Set(1)
	} else {
		Running.Set(0)
	}
	if snap.PersistErr != nil {
		PersistErrorsTotal.Inc()
	}
	if snap.GoalReached {
		GoalsReachedTotal.Inc()
	}
}

// ObserveTick records one tick that took d.
func ObserveTick(d time.Duration) {
	TicksTotal.Inc()
	TickDuration.Observe(d.Seconds())
}

// Server is the metrics HTTP server
type Server struct {
	server   *http.Server
	logger   zerolog.Logger
	listener net.Listener
}

func NewServer(addr string, logger zerolog.Logger) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	return &Server{
		server: &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
		logger: logger.With().Str("component", "metrics").Logger(),
	}
}

// SetListener serves on ln instead of binding addr, e.g. a systemd socket.
func (s *Server) SetListener(ln net.Listener) {
	s.listener = ln
}

// Start binds the listener before returning so a bad address fails fast.
func (s *Server) Start() error {
	ln := s.listener
	if ln == nil {
		var err error
		ln, err = net.Listen("tcp", s.server.Addr)
		if err != nil {
			return err
		}
		s.listener = ln
	}
	s.logger.Info().Str("addr", ln.Addr().String()).Msg("Starting metrics server")

	go func() {
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error().Err(err).Msg("Metrics server error")
		}
	}()
	return nil
}

// Addr is the bound address once Start has succeeded.
func (s *Server) Addr() string {
	if s.listener == nil {
		return s.server.Addr
	}
	return s.listener.Addr().String()
}

func (s *Server) Stop() error {
	s.logger.Info().Msg("Stopping metrics server")
	return s.server.Close()
}
