package handlers

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"
	"github.com/rs/zerolog/log"
	apiContext "gwconsole/internal/api/context"
	"gwconsole/internal/engine/adminauth"
	"gwconsole/internal/engine/forms"
	"gwconsole/internal/engine/userauth"
	"gwconsole/internal/gateway"
	"gwconsole/internal/pkg/errors"
	"gwconsole/internal/platform/session"
)

const msgSessionStore = "Failed to update session"

func param(r *http.Request, name string) string {
	params, _ := r.Context().Value(apiContext.Params).(httprouter.Params)
	return params.ByName(name)
}

func queryInt(r *http.Request, name string) int {
	n, _ := strconv.Atoi(r.URL.Query().Get(name))
	return n
}

// queryBool returns nil when the parameter is absent or not a boolean.
func queryBool(r *http.Request, name string) *bool {
	b, err := strconv.ParseBool(r.URL.Query().Get(name))
	if err != nil {
		return nil
	}
	return &b
}

// decode reads a JSON body into v. An empty body leaves v untouched.
func decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if r.Body == nil {
		return true
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !stderrors.Is(err, io.EOF) {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid request body", nil)
		return false
	}
	return true
}

// respond writes view with status, or maps err to an error body that still
// carries the view so the page can render alongside the message.
func respond(w http.ResponseWriter, r *http.Request, status int, view interface{}, err error) {
	if err == nil {
		errors.WriteJSON(w, status, view)
		return
	}

	status, code := classify(err)
	if code == errors.ErrCodeInternal {
		log.Error().Err(err).Str("request_id", requestID(r)).Msg("session store failed")
		errors.WriteError(w, status, code, msgSessionStore, view)
		return
	}
	if status >= http.StatusInternalServerError {
		log.Warn().
			Err(err).
			Str("request_id", requestID(r)).
			Int("gateway_status", gateway.StatusCode(err)).
			Msg("gateway call failed")
	}
	errors.WriteError(w, status, code, err.Error(), view)
}

func classify(err error) (int, string) {
	var verr *forms.ValidationError
	switch {
	case stderrors.As(err, &verr):
		return http.StatusUnprocessableEntity, errors.ErrCodeInvalidInput
	case stderrors.Is(err, session.ErrStore):
		return http.StatusInternalServerError, errors.ErrCodeInternal
	case stderrors.Is(err, userauth.ErrNotSignedIn),
		stderrors.Is(err, adminauth.ErrNoKey),
		gateway.IsUnauthorized(err):
		return http.StatusUnauthorized, errors.ErrCodeUnauthorized
	case stderrors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, errors.ErrCodeTimeout
	default:
		return http.StatusBadGateway, errors.ErrCodeUpstream
	}
}

// rejected writes a credential failure with status, unless the gateway was
// never reached or the session could not be saved, which go through classify.
func rejected(w http.ResponseWriter, r *http.Request, status int, err error) {
	var verr *forms.ValidationError
	if stderrors.As(err, &verr) || (gateway.StatusCode(err) == 0 && !stderrors.Is(err, userauth.ErrNotSignedIn)) {
		respond(w, r, 0, nil, err)
		return
	}
	code := errors.ErrCodeInvalidInput
	if status == http.StatusUnauthorized {
		code = errors.ErrCodeUnauthorized
	}
	errors.WriteError(w, status, code, err.Error(), nil)
}

func requestID(r *http.Request) string {
	id, _ := r.Context().Value(apiContext.RequestID).(string)
	return id
}
