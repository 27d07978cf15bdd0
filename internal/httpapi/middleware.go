package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/leofalp/blueprint/core/planning"
	"github.com/leofalp/blueprint/providers/observability"
)

// RequestIDHeader carries the request id in both directions.
const RequestIDHeader = "X-Request-ID"

// Middleware wraps an http.Handler.
type Middleware func(http.Handler) http.Handler

// Chain applies middlewares so that the first one is outermost.
func Chain(h http.Handler, middlewares ...Middleware) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}

// WithObserver attaches observer to every request context. A nil observer
// leaves requests unobserved.
func WithObserver(observer observability.Provider) Middleware {
	return func(next http.Handler) http.Handler {
		if observer == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := observability.ContextWithObserver(r.Context(), observer)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequestID keeps a client supplied X-Request-ID or generates one, echoes it
// in the response and stores it in the context for the planning service.
func RequestID() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(RequestIDHeader)
			if id == "" || len(id) > 128 {
				id = uuid.NewString()
			}
			w.Header().Set(RequestIDHeader, id)
			ctx := planning.ContextWithRequestID(r.Context(), id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Recovery turns a handler panic into a 500 failure envelope.
func Recovery() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					if observer := observability.ObserverFromContext(r.Context()); observer != nil {
						observer.Error(r.Context(), "panic recovered",
							observability.String(observability.AttrHTTPRoute, r.URL.Path),
							observability.String(observability.AttrError, fmt.Sprint(rec)),
						)
					}
					writeJSON(w, http.StatusInternalServerError, planning.Failure(planning.InternalErrorMessage))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// AccessLog records one log line and one MetricHTTPRequests increment per
// request. Routes outside the mux are labelled "other".
func AccessLog() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			observer := observability.ObserverFromContext(r.Context())
			if observer == nil {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			rw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rw, r)

			route := r.Pattern
			if route == "" {
				route = "other"
			}
			observer.Counter(observability.MetricHTTPRequests).Add(r.Context(), 1,
				observability.String(observability.AttrHTTPRoute, route),
				observability.Int(observability.AttrHTTPStatusCode, rw.status),
			)
			observer.Debug(r.Context(), "http request",
				observability.String(observability.AttrHTTPMethod, r.Method),
				observability.String(observability.AttrHTTPRoute, route),
				observability.Int(observability.AttrHTTPStatusCode, rw.status),
				observability.Int64(observability.AttrHTTPResponseBodySize, rw.written),
				observability.String(observability.AttrRequestID, planning.RequestIDFromContext(r.Context())),
				observability.Duration(observability.AttrDuration, time.Since(start)),
			)
		})
	}
}

// CORS answers preflight requests and sets Access-Control headers for the
// allowed origins. "*" allows any origin. An empty list sets no headers.
func CORS(allowedOrigins []string) Middleware {
	allowAll := false
	originSet := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		if o == "*" {
			allowAll = true
		}
		originSet[o] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			_, listed := originSet[origin]
			if origin != "" && (allowAll || listed) {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Add("Vary", "Origin")
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+RequestIDHeader)
				w.Header().Set("Access-Control-Expose-Headers", RequestIDHeader)
				w.Header().Set("Access-Control-Max-Age", "86400")
			}
			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

type statusWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
	written     int64
}

func (w *statusWriter) WriteHeader(code int) {
	if !w.wroteHeader {
		w.status = code
		w.wroteHeader = true
		w.ResponseWriter.WriteHeader(code)
	}
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	n, err := w.ResponseWriter.Write(b)
	w.written += int64(n)
	return n, err
}

func (w *statusWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
