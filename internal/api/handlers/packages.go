package handlers

import (
	"context"
	"fmt"
	"net/http"
	"parcel-dispatch-service/internal/api/dto"
	"parcel-dispatch-service/internal/domain"
	"parcel-dispatch-service/internal/ports"
	"parcel-dispatch-service/internal/services"
	"strconv"
)

// ReportHandler serves read-only reports over a finished simulation.
// Cache is optional.
type ReportHandler struct {
	Result *services.DeliveryResult
	Cache  ports.ReportCache
}

func toPackageResponse(ps services.PackageStatus) dto.PackageResponse {
	p := ps.Package
	return dto.PackageResponse{
		PackageID:   p.PackageID,
		Address:     p.Destination,
		City:        p.City,
		State:       p.State,
		Zip:         p.Zip,
		Deadline:    domain.FormatClock(p.Deadline),
		MassKg:      p.Mass,
		Notes:       p.Notes,
		TruckID:     p.TruckID,
		Status:      ps.Status.String(),
		DeliveredAt: clockPtr(ps.DeliveredAt),
		Late:        ps.Late,
	}
}

// ListPackages reports every package as it stood at ?at= (default end of day).
func (h *ReportHandler) ListPackages(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}

	at, err := reportTime(r)
	if err != nil {
		writeServiceError(w, r, "list packages", err)
		return
	}

	key := fmt.Sprintf("%s:packages@%d", h.Result.RunID, at)
	h.serveCached(w, r, key, func() any {
		report := services.BuildReport(h.Result.Store, h.Result.Trucks, at)
		res := dto.ListPackagesResponse{
			At:       domain.FormatClock(at),
			Packages: make([]dto.PackageResponse, 0, len(report.Packages)),
		}
		for _, ps := range report.Packages {
			res.Packages = append(res.Packages, toPackageResponse(ps))
		}
		return res
	})
}

// GetPackage reports one package by id at ?at=.
func (h *ReportHandler) GetPackage(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}

	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil || id <= 0 {
		writeError(w, r, http.StatusBadRequest, "package id must be a positive integer")
		return
	}

	at, err := reportTime(r)
	if err != nil {
		writeServiceError(w, r, "get package", err)
		return
	}

	ps, err := services.PackageReport(h.Result.Store, id, at)
	if err != nil {
		writeServiceError(w, r, "get package", err)
		return
	}

	writeJSON(w, r, http.StatusOK, toPackageResponse(ps))
}

// serveCached writes the cached body for key, or builds, stores and writes it.
// Cache failures fall back to building the response.
func (h *ReportHandler) serveCached(w http.ResponseWriter, r *http.Request, key string, build func() any) {
	ctx := r.Context()
	if h.Cache != nil {
		body, ok, err := h.Cache.Get(ctx, key)
		if err != nil {
			log.WithError(err).Warn("report cache read failed")
		}
		if ok {
			w.Header().Set("X-Cache", "hit")
			writeRaw(w, http.StatusOK, body)
			return
		}
	}

	res := build()
	if h.Cache != nil {
		h.store(ctx, key, res)
	}
	writeJSON(w, r, http.StatusOK, res)
}

func (h *ReportHandler) store(ctx context.Context, key string, v any) {
	body, err := jsonBody(v)
	if err != nil {
		log.WithError(err).Warn("report cache encode failed")
		return
	}
	if err := h.Cache.Set(ctx, key, body); err != nil {
		log.WithError(err).Warn("report cache write failed")
	}
}
