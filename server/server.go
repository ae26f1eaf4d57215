// Package server exposes transfer computations and the body catalog over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/ChristopherRabotin/ejection"
	"github.com/ChristopherRabotin/ejection/catalog"
	"github.com/ChristopherRabotin/ejection/config"
	kitlog "github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	"golang.org/x/time/rate"
)

var errBadRequest = errors.New("bad request")

// Server answers transfer queries from a body catalog.
type Server struct {
	provider catalog.Provider
	transfer config.Transfer
	logger   kitlog.Logger
	metrics  *metrics
	limiter  *ipRateLimiter // nil when unlimited
	mux      *http.ServeMux
}

// New returns a server reading bodies from the provider. The transfer configuration provides the
// altitudes used when a request does not specify them.
func New(p catalog.Provider, transfer config.Transfer, srv config.Server, logger kitlog.Logger) *Server {
	s := &Server{
		provider: p,
		transfer: transfer,
		logger:   kitlog.With(logger, "subsys", "server"),
		metrics:  newMetrics(),
		mux:      http.NewServeMux(),
	}
	if srv.Rate > 0 {
		s.limiter = newIPRateLimiter(rate.Limit(srv.Rate), srv.Burst)
		s.metrics.trackClients(s.limiter)
	}
	s.mux.Handle("GET /v1/transfer", s.instrument("transfer", s.handleTransfer))
	s.mux.Handle("GET /v1/bodies", s.instrument("bodies", s.handleBodies))
	s.mux.Handle("GET /v1/bodies/{name}", s.instrument("body", s.handleBody))
	s.mux.Handle("GET /metrics", s.metrics.handler())
	s.mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("ok\n"))
	})
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until the context is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	hs := &http.Server{Addr: addr, Handler: s, ReadHeaderTimeout: 10 * time.Second}
	errc := make(chan error, 1)
	go func() {
		level.Info(s.logger).Log("message", "listening", "addr", addr)
		errc <- hs.ListenAndServe()
	}()
	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		level.Info(s.logger).Log("message", "shutting down")
		return hs.Shutdown(shutdownCtx)
	}
}

// handlerFunc returns the response body, or an error mapped to a status code by statusFor.
type handlerFunc func(r *http.Request) (any, error)

func (s *Server) instrument(route string, h handlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		code := http.StatusOK
		defer func() {
			s.metrics.recordRequest(route, code, time.Since(start))
		}()
		if s.limiter != nil && !s.limiter.allow(r) {
			code = http.StatusTooManyRequests
			writeJSON(w, code, errorResponse{"rate limited"})
			return
		}
		body, err := h(r)
		if err != nil {
			code = statusFor(err)
			if code == http.StatusInternalServerError {
				level.Error(s.logger).Log("route", route, "url", r.URL, "err", err)
			} else {
				level.Debug(s.logger).Log("route", route, "url", r.URL, "code", code, "err", err)
			}
			writeJSON(w, code, errorResponse{err.Error()})
			return
		}
		data, err := json.Marshal(body)
		if err != nil {
			code = http.StatusInternalServerError
			level.Error(s.logger).Log("route", route, "url", r.URL, "err", err)
			writeJSON(w, code, errorResponse{"encoding response: " + err.Error()})
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		w.Write(append(data, '\n'))
	})
}

// statusFor maps the error kinds to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, catalog.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ejection.ErrInvalidConfiguration),
		errors.Is(err, ejection.ErrInvalidOrbitBounds),
		errors.Is(err, ejection.ErrInvalidRadius),
		errors.Is(err, ejection.ErrInvalidBody),
		errors.Is(err, ejection.ErrDegenerateInput):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

// Epoch is a point in time both as UTC and as a Julian date.
type Epoch struct {
	UTC time.Time `json:"utc"`
	JD  float64   `json:"jd"`
}

// TransferResponse is the body of /v1/transfer.
type TransferResponse struct {
	Origin           string  `json:"origin"`
	Destination      string  `json:"destination"`
	ParkingAltitude  float64 `json:"parking_altitude"`
	TargetAltitude   float64 `json:"target_altitude"`
	PhaseAngle       float64 `json:"phase_angle_deg"`
	EjectionAngle    float64 `json:"ejection_angle_deg"`
	EjectionΔv       float64 `json:"ejection_dv"`
	CaptureΔv        float64 `json:"capture_dv"`
	TransferTime     float64 `json:"transfer_time"`
	TransferTimeDays float64 `json:"transfer_time_days"`
	Departure        *Epoch  `json:"departure,omitempty"`
	Arrival          *Epoch  `json:"arrival,omitempty"`
}

func (s *Server) handleTransfer(r *http.Request) (any, error) {
	q := r.URL.Query()
	originName, destinationName := q.Get("origin"), q.Get("destination")
	if originName == "" || destinationName == "" {
		return nil, fmt.Errorf("origin and destination are required: %w", errBadRequest)
	}
	parkingAlt, err := floatParam(q.Get("parking_altitude"), s.transfer.ParkingAltitude)
	if err != nil {
		return nil, err
	}
	targetAlt, err := floatParam(q.Get("target_altitude"), s.transfer.TargetAltitude)
	if err != nil {
		return nil, err
	}
	var departure time.Time
	if dep := q.Get("departure"); dep != "" {
		if departure, err = ejection.ParseEpoch(dep); err != nil {
			return nil, fmt.Errorf("%s: %w", err, errBadRequest)
		}
	}

	resolver := catalog.NewResolver(s.provider)
	origin, err := resolver.Body(r.Context(), originName)
	if err != nil {
		s.metrics.transfersTotal.WithLabelValues("not_found").Inc()
		return nil, err
	}
	destination, err := resolver.Body(r.Context(), destinationName)
	if err != nil {
		s.metrics.transfersTotal.WithLabelValues("not_found").Inc()
		return nil, err
	}
	parkingAlt = config.Altitude(parkingAlt, origin)
	targetAlt = config.Altitude(targetAlt, destination)
	xfer, err := ejection.NewCircularTransfer(origin, destination, parkingAlt, targetAlt)
	if err != nil {
		outcome := "invalid"
		if errors.Is(err, ejection.ErrDegenerateInput) {
			outcome = "degenerate"
		}
		s.metrics.transfersTotal.WithLabelValues(outcome).Inc()
		return nil, err
	}
	s.metrics.transfersTotal.WithLabelValues("ok").Inc()

	rslt := xfer.Result()
	resp := TransferResponse{
		Origin:           origin.Name(),
		Destination:      destination.Name(),
		ParkingAltitude:  parkingAlt,
		TargetAltitude:   targetAlt,
		PhaseAngle:       rslt.PhaseAngle * 180 / math.Pi,
		EjectionAngle:    rslt.EjectionAngle * 180 / math.Pi,
		EjectionΔv:       rslt.EjectionΔv,
		CaptureΔv:        rslt.CaptureΔv,
		TransferTime:     rslt.TransferTime,
		TransferTimeDays: rslt.TransferTime / 86400,
	}
	if !departure.IsZero() {
		sched := xfer.Schedule(departure)
		resp.Departure = &Epoch{sched.Departure, sched.DepartureJD}
		resp.Arrival = &Epoch{sched.Arrival, sched.ArrivalJD}
	}
	return resp, nil
}

// floatParam parses an altitude query parameter, which must be finite and positive or config.BodyAltitude.
func floatParam(v string, dflt float64) (float64, error) {
	if v == "" {
		return dflt, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || (f < 0 && f != config.BodyAltitude) {
		return 0, fmt.Errorf("invalid altitude `%s`: %w", v, errBadRequest)
	}
	return f, nil
}

func (s *Server) handleBodies(r *http.Request) (any, error) {
	return catalog.All(r.Context(), s.provider)
}

// BodyResponse is the body of /v1/bodies/{name}: the stored record and the derived values.
type BodyResponse struct {
	catalog.Record
	GM            float64 `json:"gm"`
	SOI           float64 `json:"soi,omitempty"` // absent for root bodies
	SemiMajorAxis float64 `json:"semi_major_axis"`
	Eccentricity  float64 `json:"eccentricity"`
	Period        float64 `json:"period"`
}

func (s *Server) handleBody(r *http.Request) (any, error) {
	b, err := catalog.Resolve(r.Context(), s.provider, r.PathValue("name"))
	if err != nil {
		return nil, err
	}
	resp := BodyResponse{
		Record:        catalog.FromBody(b),
		GM:            b.GM(),
		SemiMajorAxis: b.SemiMajorAxis(),
		Eccentricity:  b.Eccentricity(),
		Period:        b.Period(),
	}
	if soi := b.SOI(); !math.IsInf(soi, 1) {
		resp.SOI = soi
	}
	return resp, nil
}
