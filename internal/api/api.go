// Package api serves the cryptogram functions over HTTP with JSON payloads.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/andrei-cloud/go_arqc/internal/errorcodes"
	"github.com/andrei-cloud/go_arqc/internal/metrics"
	"github.com/andrei-cloud/go_arqc/internal/service"
	"github.com/go-chi/chi/v5"
)

const transport = "http"

// API is the HTTP API of the cryptogram service.
type API struct{}

func NewAPI() *API {
	return &API{}
}

// GenerateResponse is the body of a successful generation.
type GenerateResponse struct {
	ARQC string `json:"ARQC"`
}

// VerifyResponse is the body of a completed verification.
type VerifyResponse struct {
	Match  bool   `json:"Match"`
	Scheme string `json:"Scheme"`
	CVN    string `json:"CVN"`
}

// KeyResponse is the body of a session key derivation.
type KeyResponse struct {
	Scheme        string `json:"Scheme"`
	CVN           string `json:"CVN"`
	SKDMethod     string `json:"SKDMethod,omitempty"`
	UDKCheckValue string `json:"UDKCheckValue"`
	SessionKey    string `json:"SessionKey"`
	SessionKeyKCV string `json:"SessionKeyKCV"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	ErrorCode    string                   `json:"ErrorCode"`
	ErrorMessage string                   `json:"ErrorMessage"`
	Violations   []service.FieldViolation `json:"Violations,omitempty"`
}

func (a *API) AppendRoutes(r chi.Router) {
	r.Route("/CryptogramFunctions", func(r chi.Router) {
		r.Post("/GenerateCryptogram/Request", a.generateCryptogram)
		r.Post("/VerifyCryptogram/Request", a.verifyCryptogram)
	})
	r.Route("/KeyFunctions", func(r chi.Router) {
		r.Post("/DeriveSessionKey/Request", a.deriveSessionKey)
	})
}

func (a *API) generateCryptogram(w http.ResponseWriter, r *http.Request) {
	var req service.GenerateACRequest
	if !decode(w, r, &req) {
		return
	}

	resp, err := observe(r.Context(), "GenerateCryptogram", func(ctx context.Context) (service.GenerateACResponse, error) {
		return service.GenerateAC(ctx, req)
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, GenerateResponse{ARQC: resp.ARQC})
}

func (a *API) verifyCryptogram(w http.ResponseWriter, r *http.Request) {
	var req service.VerifyACRequest
	if !decode(w, r, &req) {
		return
	}

	resp, err := observe(r.Context(), "VerifyCryptogram", func(ctx context.Context) (service.VerifyResponse, error) {
		return service.VerifyAC(ctx, req)
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, VerifyResponse{Match: resp.Match, Scheme: resp.Scheme.String(), CVN: resp.CVN.String()})
}

func (a *API) deriveSessionKey(w http.ResponseWriter, r *http.Request) {
	var req service.KeyRequest
	if !decode(w, r, &req) {
		return
	}

	resp, err := observe(r.Context(), "DeriveSessionKey", func(ctx context.Context) (service.KeyResponse, error) {
		return service.DeriveKeys(ctx, req)
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, KeyResponse{
		Scheme:        resp.Scheme.String(),
		CVN:           resp.CVN.String(),
		SKDMethod:     string(resp.SKDMethod),
		UDKCheckValue: resp.UDKCheckValue,
		SessionKey:    resp.SessionKey,
		SessionKeyKCV: resp.SessionKeyKCV,
	})
}

// observe runs fn and records it as a command of the http transport.
func observe[T any](ctx context.Context, command string, fn func(context.Context) (T, error)) (T, error) {
	start := time.Now()
	resp, err := fn(ctx)
	metrics.CommandCount.WithLabelValues(transport, command, errorcodes.FromError(err).CodeOnly()).Inc()
	metrics.CommandDuration.WithLabelValues(transport, command).Observe(float64(time.Since(start).Microseconds()) / 1000)

	return resp, err
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			ErrorCode:    errorcodes.Err15.CodeOnly(),
			ErrorMessage: "malformed request body: " + err.Error(),
		})
		return false
	}

	return true
}

func writeError(w http.ResponseWriter, err error) {
	code := errorcodes.FromError(err)
	resp := ErrorResponse{ErrorCode: code.CodeOnly(), ErrorMessage: err.Error()}

	var validationErr *service.ValidationError
	if errors.As(err, &validationErr) {
		resp.ErrorMessage = "request validation failed"
		resp.Violations = validationErr.Violations
	}

	writeJSON(w, statusFor(code), resp)
}

// statusFor maps an error code to its HTTP status.
func statusFor(code errorcodes.HSMError) int {
	switch code {
	case errorcodes.Err15:
		return http.StatusBadRequest
	case errorcodes.Err26, errorcodes.Err27, errorcodes.Err47, errorcodes.ErrA7:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
