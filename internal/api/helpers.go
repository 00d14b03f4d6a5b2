package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/samandr77/microservices/portal/internal/entity"
	"github.com/samandr77/microservices/portal/internal/schema"
)

type ErrorResponse struct {
	Message     string              `json:"message"`
	Description string              `json:"description,omitempty"`
	Fields      []schema.FieldError `json:"fields,omitempty"`
}

func SendJSONErr(ctx context.Context, w http.ResponseWriter, code int, originErr error, msgToSend string) {
	resp := ErrorResponse{Message: msgToSend}

	if originErr != nil {
		resp.Description = originErr.Error()

		var verr *schema.ValidationError
		if errors.As(originErr, &verr) {
			resp.Fields = verr.Fields
		}
	}

	if code >= http.StatusInternalServerError {
		slog.ErrorContext(ctx, msgToSend, "error", resp.Description, "http_code", code)
	} else {
		slog.WarnContext(ctx, msgToSend, "error", resp.Description, "http_code", code)
	}

	SendJSON(ctx, w, code, resp)
}

func SendJSON(ctx context.Context, w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	err := json.NewEncoder(w).Encode(data)
	if err != nil {
		slog.ErrorContext(ctx, "encode response", "error", err)
	}
}

// sendServiceErr maps domain errors to status codes. msg is used for
// anything not recognized.
func sendServiceErr(ctx context.Context, w http.ResponseWriter, err error, msg string) {
	switch {
	case errors.Is(err, entity.ErrUnauthorized):
		SendJSONErr(ctx, w, http.StatusUnauthorized, err, "Session is missing or expired")
	case errors.Is(err, entity.ErrOperateDenied):
		SendJSONErr(ctx, w, http.StatusForbidden, err, "Pharmacy is not allowed to operate")
	case errors.Is(err, entity.ErrNotMember):
		SendJSONErr(ctx, w, http.StatusForbidden, err, "Not a member of the pharmacy")
	case errors.Is(err, entity.ErrForbidden):
		SendJSONErr(ctx, w, http.StatusForbidden, err, "Not enough permissions")
	case errors.Is(err, entity.ErrNotFound):
		SendJSONErr(ctx, w, http.StatusNotFound, err, "Not found")
	case errors.Is(err, entity.ErrInvalidArgument), errors.Is(err, entity.ErrUnknownRoom):
		SendJSONErr(ctx, w, http.StatusBadRequest, err, "Invalid request")
	default:
		SendJSONErr(ctx, w, http.StatusInternalServerError, err, msg)
	}
}
