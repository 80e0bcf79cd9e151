package dto

import "github.com/shopspring/decimal"

type PlanStopResponse struct {
	Destination string `json:"destination"`
	ArriveAt    string `json:"arrive_at"`
	PackageIDs  []int  `json:"package_ids"`
}

type PlanResponse struct {
	TruckID    int                `json:"truck_id"`
	DepartAt   string             `json:"depart_at"`
	ReturnAt   string             `json:"return_at"`
	TotalMiles decimal.Decimal    `json:"total_miles"`
	Stops      []PlanStopResponse `json:"stops"`
}

type ListPlanResponse struct {
	RunID string         `json:"run_id"`
	Plans []PlanResponse `json:"plans"`
}
