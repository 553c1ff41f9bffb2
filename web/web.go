// Package web exposes the kinematics engine and the command dispatcher over HTTP.
package web

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"
	"github.com/rs/cors"
	"go.opencensus.io/trace"
	"goji.io"
	"goji.io/pat"

	"go.viam.com/rx160/command"
	"go.viam.com/rx160/logging"
)

// DebugHeader turns on debug logging for a single request when set to any value. The value is
// used as the debug log key.
const DebugHeader = "X-Debug"

const maxBodyBytes = 1 << 20

// Options configures the HTTP service.
type Options struct {
	// AllowedOrigins limits CORS. Empty allows every origin.
	AllowedOrigins []string
}

// Service serves the HTTP API.
type Service struct {
	dispatcher  *command.Dispatcher
	interpreter command.Interpreter
	logger      logging.Logger
	options     Options
}

// New returns a Service dispatching onto dispatcher. interp may be nil, in which case /chat
// answers 501.
func New(dispatcher *command.Dispatcher, interp command.Interpreter, logger logging.Logger, options Options) *Service {
	return &Service{dispatcher: dispatcher, interpreter: interp, logger: logger, options: options}
}

// Handler returns the routed, CORS wrapped handler.
func (svc *Service) Handler() http.Handler {
	mux := goji.NewMux()
	mux.Use(svc.debugMiddleware)

	mux.HandleFunc(pat.Post("/api/v1/command"), svc.handleCommand)
	mux.HandleFunc(pat.Post("/api/v1/chat"), svc.handleChat)
	mux.HandleFunc(pat.Post("/api/v1/forward"), svc.handleForward)
	mux.HandleFunc(pat.Post("/api/v1/inverse"), svc.handleInverse)
	mux.HandleFunc(pat.Post("/api/v1/verify"), svc.handleVerify)
	mux.HandleFunc(pat.Post("/api/v1/jacobian"), svc.handleJacobian)
	mux.HandleFunc(pat.Post("/api/v1/velocity/inverse"), svc.handleInverseVelocity)
	mux.HandleFunc(pat.Post("/api/v1/matrices"), svc.handleMatrices)
	mux.HandleFunc(pat.Post("/api/v1/render"), svc.handleRender)
	mux.HandleFunc(pat.Get("/api/v1/model"), svc.handleModel)
	mux.HandleFunc(pat.Get("/api/v1/schema"), svc.handleSchema)
	mux.HandleFunc(pat.Get("/api/v1/history/:session"), svc.handleHistory)

	var corsHandler *cors.Cors
	if len(svc.options.AllowedOrigins) == 0 {
		corsHandler = cors.AllowAll()
	} else {
		corsHandler = cors.New(cors.Options{
			AllowedOrigins: svc.options.AllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost},
			AllowedHeaders: []string{"Content-Type", DebugHeader},
		})
	}
	return corsHandler.Handler(mux)
}

func (svc *Service) debugMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if _, ok := r.Header[http.CanonicalHeaderKey(DebugHeader)]; ok {
			ctx = logging.EnableDebugMode(ctx, r.Header.Get(DebugHeader))
		}
		ctx, span := trace.StartSpan(ctx, "web::"+r.URL.Path)
		defer span.End()
		svc.logger.CDebugw(ctx, "request", "method", r.Method, "path", r.URL.Path)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type errorResponse struct {
	Error string `json:"error"`
}

func (svc *Service) writeJSON(ctx context.Context, w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		svc.logger.CDebugw(ctx, "error writing response", "error", err)
	}
}

func (svc *Service) writeError(ctx context.Context, w http.ResponseWriter, status int, err error) {
	svc.logger.CDebugw(ctx, "request failed", "status", status, "error", err)
	svc.writeJSON(ctx, w, status, errorResponse{Error: err.Error()})
}

// readJSON decodes the request body into v, rejecting unknown fields.
func readJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(v); err != nil {
		return errors.Wrap(err, "malformed request body")
	}
	return nil
}
