package dto

type PackageResponse struct {
	PackageID   int     `json:"package_id"`
	Address     string  `json:"address"`
	City        string  `json:"city"`
	State       string  `json:"state"`
	Zip         string  `json:"zip"`
	Deadline    string  `json:"deadline"`
	MassKg      float64 `json:"mass_kg"`
	Notes       string  `json:"notes,omitempty"`
	TruckID     int     `json:"truck_id"`
	Status      string  `json:"status"`
	DeliveredAt *string `json:"delivered_at"`
	Late        bool    `json:"late"`
}

type ListPackagesResponse struct {
	At       string            `json:"at"`
	Packages []PackageResponse `json:"packages"`
}
