package dto

import "github.com/shopspring/decimal"

type TruckMileageResponse struct {
	TruckID int             `json:"truck_id"`
	Miles   decimal.Decimal `json:"miles"`
}

type ListTrucksResponse struct {
	At         string                 `json:"at"`
	Trucks     []TruckMileageResponse `json:"trucks"`
	TotalMiles decimal.Decimal        `json:"total_miles"`
}
