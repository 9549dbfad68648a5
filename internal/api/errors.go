package api

import (
	"encoding/json"
	"net/http"

	"github.com/charmbracelet/log"

	kerrors "github.com/matzehuels/kintree/pkg/errors"
)

// maxBody bounds request bodies.
const maxBody = 4 << 20

// errorResponse is the JSON body of every failed request.
type errorResponse struct {
	Code    kerrors.Code `json:"code"`
	Message string       `json:"message"`
	IDs     []string     `json:"ids,omitempty"`
}

// statusFor maps an error code to an HTTP status.
func statusFor(code kerrors.Code) int {
	switch code {
	case kerrors.ErrCodeValidation, kerrors.ErrCodeInvalidInput, kerrors.ErrCodeInvalidSettings:
		return http.StatusBadRequest
	case kerrors.ErrCodeNotFound, kerrors.ErrCodePersonNotFound:
		return http.StatusNotFound
	case kerrors.ErrCodeDuplicatePerson, kerrors.ErrCodeDuplicateRelationship,
		kerrors.ErrCodeNothingToUndo, kerrors.ErrCodeNothingToRedo:
		return http.StatusConflict
	case kerrors.ErrCodeInvalidRelationship, kerrors.ErrCodeOrphanWouldResult:
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, logger *log.Logger, err error) {
	code := kerrors.GetCode(err)
	status := statusFor(code)
	resp := errorResponse{Code: code, Message: kerrors.UserMessage(err), IDs: kerrors.IDs(err)}
	if status == http.StatusInternalServerError {
		logger.Error("request failed", "err", err)
		resp = errorResponse{Code: kerrors.ErrCodeInternal, Message: "internal error"}
	}
	writeJSON(w, status, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// decode reads a JSON request body into v, rejecting unknown fields.
func decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return kerrors.Wrap(kerrors.ErrCodeInvalidInput, err, "invalid request body: %v", err)
	}
	return nil
}
