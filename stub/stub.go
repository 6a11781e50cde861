// Package stub serves a fixture of the countries API for local development and integration tests
package stub

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/lixenwraith/globe-explorer/location"
)

//go:embed fixture.json
var defaultFixture []byte

// Fixture is the data served by the stub
type Fixture struct {
	Countries []location.Record         `json:"countries"`
	Details   map[int64]location.Detail `json:"details"`
}

// Default returns the embedded fixture
func Default() (Fixture, error) {
	return parse(defaultFixture)
}

// Load reads a fixture file with the same layout as the embedded one
func Load(path string) (Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Fixture{}, fmt.Errorf("failed to read fixture: %w", err)
	}
	return parse(data)
}

func parse(data []byte) (Fixture, error) {
	var f Fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return Fixture{}, fmt.Errorf("failed to parse fixture: %w", err)
	}
	if f.Details == nil {
		f.Details = make(map[int64]location.Detail)
	}
	return f, nil
}

// Detail returns the fixture detail for id, synthesizing one from the country record when absent
func (f Fixture) Detail(id int64) (location.Detail, bool) {
	if d, ok := f.Details[id]; ok {
		return d, true
	}
	for _, r := range f.Countries {
		if r.ID == id {
			return location.Detail{
				ID:          r.ID,
				CountryName: r.CountryName,
				ChannelID:   r.ChannelID,
				Posts:       r.Casts,
				Followers:   r.Followers,
			}, true
		}
	}
	return location.Detail{}, false
}

// Options tune the stub's behavior
type Options struct {
	// DetailLatency delays every detail response, for exercising lookup timeouts
	DetailLatency  time.Duration
	AllowedOrigins []string
}

// NewRouter builds the stub's routes
func NewRouter(f Fixture, opts Options, log zerolog.Logger) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(requestLogger(log))
	router.Use(middleware.Recoverer)

	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	router.Get("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	router.Get("/countries", func(w http.ResponseWriter, r *http.Request) {
		countries := f.Countries
		if countries == nil {
			countries = []location.Record{}
		}
		respondWithJSON(w, http.StatusOK, countries)
	})

	router.Get("/country/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid country ID")
			return
		}

		if opts.DetailLatency > 0 {
			select {
			case <-time.After(opts.DetailLatency):
			case <-r.Context().Done():
				return
			}
		}

		d, ok := f.Detail(id)
		if !ok {
			respondWithError(w, http.StatusNotFound, "Country not found")
			return
		}
		respondWithJSON(w, http.StatusOK, d)
	})

	return router
}

// requestLogger logs each request with its chi request id
func requestLogger(log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			log.Info().
				Str("request_id", middleware.GetReqID(r.Context())).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Dur("duration", time.Since(start)).
				Msg("Request completed")
		})
	}
}

func respondWithJSON(w http.ResponseWriter, code int, payload any) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("Failed to marshal response"))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}
