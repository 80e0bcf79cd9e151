package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"parcel-dispatch-service/internal/api/dto"
	"parcel-dispatch-service/internal/domain"
	"parcel-dispatch-service/internal/services"
)

// Trucks reports per-truck and total mileage at ?at=.
func (h *ReportHandler) Trucks(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}

	at, err := reportTime(r)
	if err != nil {
		writeServiceError(w, r, "list trucks", err)
		return
	}

	key := fmt.Sprintf("%s:trucks@%d", h.Result.RunID, at)
	h.serveCached(w, r, key, func() any {
		report := services.BuildReport(h.Result.Store, h.Result.Trucks, at)
		res := dto.ListTrucksResponse{
			At:         domain.FormatClock(at),
			Trucks:     make([]dto.TruckMileageResponse, 0, len(report.Trucks)),
			TotalMiles: miles(report.TotalMiles),
		}
		for _, t := range report.Trucks {
			res.Trucks = append(res.Trucks, dto.TruckMileageResponse{TruckID: t.TruckID, Miles: miles(t.Miles)})
		}
		return res
	})
}

// Plans lists every executed trip.
func (h *ReportHandler) Plans(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}

	plans := h.Result.Plans()
	res := dto.ListPlanResponse{RunID: h.Result.RunID, Plans: make([]dto.PlanResponse, 0, len(plans))}
	for _, p := range plans {
		stops := make([]dto.PlanStopResponse, 0, len(p.Stops))
		for _, s := range p.Stops {
			stops = append(stops, dto.PlanStopResponse{
				Destination: s.Destination,
				ArriveAt:    domain.FormatClock(s.ArriveAt),
				PackageIDs:  s.PackageIDs,
			})
		}

		res.Plans = append(res.Plans, dto.PlanResponse{
			TruckID:    p.TruckID,
			DepartAt:   domain.FormatClock(p.DepartAt),
			ReturnAt:   domain.FormatClock(p.ReturnAt),
			TotalMiles: miles(p.TotalMiles),
			Stops:      stops,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}

func jsonBody(v any) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return append(b, '\n'), nil
}
