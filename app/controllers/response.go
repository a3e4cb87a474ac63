package controllers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"inkwell/app/apperrors"
	"inkwell/app/middleware"
	"inkwell/app/models"
	"inkwell/app/search"
	"inkwell/app/services"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// Response is the envelope of every successful reply.
type Response struct {
	Code    int          `json:"code"`
	Message string       `json:"message"`
	Data    any          `json:"data,omitempty"`
	Meta    *search.Meta `json:"meta,omitempty"`
}

// base carries the helpers every controller shares.
type base struct {
	logger *zap.SugaredLogger
}

func (b base) sendJSON(w http.ResponseWriter, status int, message string, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(Response{Code: status, Message: message, Data: data}); err != nil {
		b.logger.Warnw("failed to write response", "error", err)
	}
}

func (b base) sendError(w http.ResponseWriter, r *http.Request, err error) {
	re := apperrors.As(err)
	if re.Status >= http.StatusInternalServerError {
		b.logger.Errorw("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
	}
	middleware.WriteError(w, re)
}

// sendPage renders a search result. plural is the capitalised entity name,
// e.g. "Posts".
func sendPage[T any](b base, w http.ResponseWriter, page *search.Page[T], plural string) {
	message := plural + " retrieved successfully"
	if page.Meta.TotalItems == 0 {
		message = "No " + strings.ToLower(plural) + " found"
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(Response{
		Code:    http.StatusOK,
		Message: message,
		Data:    page.Data,
		Meta:    &page.Meta,
	}); err != nil {
		b.logger.Warnw("failed to write response", "error", err)
	}
}

// decodeBody reads a JSON request body into v.
func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return apperrors.BadRequest("Request body is required")
		}
		return apperrors.BadRequest("Invalid JSON body")
	}
	return nil
}

// pathID parses the route variable key as an id of entity.
func pathID(r *http.Request, key, entity string) (primitive.ObjectID, error) {
	return services.ParseID(mux.Vars(r)[key], entity)
}

// actorOf returns the authenticated actor. Routes that call it are always
// behind Authenticate.
func actorOf(r *http.Request) (models.Actor, error) {
	actor, ok := middleware.ActorFrom(r.Context())
	if !ok {
		return actor, apperrors.Unauthorized("Authentication required")
	}
	return actor, nil
}
