package domain

// ServiceInvoice is a vehicle service-inspection form.
// Date is a "2006-01-02" string; the backend stores it as a timestamp.
type ServiceInvoice struct {
	ID              int64            `json:"id,omitempty"`
	CarID           int64            `json:"car_id"`
	DriverName      string           `json:"driver_name"`
	Date            string           `json:"date"`
	MeterReading    int64            `json:"meter_reading"`
	PlateNumber     string           `json:"plate_number"`
	Supervisor      string           `json:"supervisor"`
	OperatingRegion string           `json:"operating_region"`
	InspectionItems []InspectionItem `json:"inspection_items"`
}

// InspectionItem is one line of a service-inspection form.
// ItemOrder is 1-based and assigned by InvoiceService on create.
type InspectionItem struct {
	Service   string `json:"service"`
	Notes     string `json:"notes"`
	ItemOrder int    `json:"item_order"`
}

// InvoicePage is one page of service invoices.
type InvoicePage struct {
	Invoices []ServiceInvoice
	Page     int
	Limit    int
	Pages    int
	Total    int64
}
