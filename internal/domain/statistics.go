package domain

// StatisticsQuery filters the backend statistics endpoint. The date range is
// only applied when both ends are present.
type StatisticsQuery struct {
	Company   string
	StartDate string
	EndDate   string
}

// Statistics is the server-computed statistics response.
// FinancialAccess mirrors the backend's hasFinancialAccess flag. When it is
// false every revenue-like field below is nil and must not be displayed; a nil
// value is never the same as zero.
type Statistics struct {
	FinancialAccess bool                `json:"has_financial_access"`
	Companies       []CompanyStatistics `json:"companies"`
}

// CompanyStatistics holds the totals for one company plus its per-route or
// per-terminal breakdown.
type CompanyStatistics struct {
	Company       string              `json:"company"`
	TotalTrips    int64               `json:"total_trips"`
	TotalVolume   float64             `json:"total_volume"`
	TotalDistance float64             `json:"total_distance"`
	TotalRevenue  *float64            `json:"total_revenue,omitempty"`
	TotalCarRent  *float64            `json:"total_car_rent,omitempty"`
	TotalVAT      *float64            `json:"total_vat,omitempty"`
	TotalAmount   *float64            `json:"total_amount,omitempty"`
	Details       []StatisticsDetails `json:"details,omitempty"`
}

// StatisticsDetails is one breakdown line (terminal, drop-off point or fee level).
type StatisticsDetails struct {
	GroupName     string   `json:"group_name"`
	TotalTrips    int64    `json:"total_trips"`
	TotalVolume   float64  `json:"total_volume"`
	TotalDistance float64  `json:"total_distance"`
	TotalRevenue  *float64 `json:"total_revenue,omitempty"`
	CarRental     *float64 `json:"car_rental,omitempty"`
	VAT           *float64 `json:"vat,omitempty"`
	TotalWithVAT  *float64 `json:"total_with_vat,omitempty"`
	Fee           *float64 `json:"fee,omitempty"`
	DistinctCars  int64    `json:"distinct_cars,omitempty"`
	DistinctDays  int64    `json:"distinct_days,omitempty"`
	CarDays       int64    `json:"car_days,omitempty"`
}
