package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"parcel-dispatch-service/internal/domain"
	"parcel-dispatch-service/internal/platform/obs"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("module", "api")

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.WithFields(logrus.Fields{
			"req_id": obs.RequestID(r.Context()),
			"method": r.Method,
			"path":   r.URL.Path,
		}).WithError(err).Error("encode failed")
	}
}

func writeRaw(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}

// writeServiceError maps domain errors onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, r, http.StatusNotFound, "not found")
	case errors.Is(err, domain.ErrMalformedInput):
		writeError(w, r, http.StatusBadRequest, err.Error())
	default:
		log.WithField("req_id", obs.RequestID(r.Context())).WithError(err).Errorf("%s failed", op)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
	}
}

func allowGet(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return false
	}
	return true
}

// reportTime reads the "at" query parameter; absent means end of day.
func reportTime(r *http.Request) (time.Duration, error) {
	v := strings.TrimSpace(r.URL.Query().Get("at"))
	if v == "" {
		return domain.EndOfDay, nil
	}
	return domain.ParseDeadline(v)
}

func miles(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(1)
}

func clockPtr(d *time.Duration) *string {
	if d == nil {
		return nil
	}
	s := domain.FormatClock(*d)
	return &s
}
