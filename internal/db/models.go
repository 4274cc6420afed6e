package db

import "time"

type Item struct {
	ID          int64     `json:"id"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	GTIN        string    `json:"gtin"`
	UnitLabel   string    `json:"unit_label"`
	Vendor      string    `json:"vendor"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Lot struct {
	ID         int64      `json:"id"`
	LotCode    string     `json:"lot_code"`
	ItemID     int64      `json:"item_id"`
	Quantity   float64    `json:"quantity"`
	PackDate   *time.Time `json:"pack_date"`
	ExpiryDate *time.Time `json:"expiry_date"`
	CreatedAt  time.Time  `json:"created_at"`
}

type Printer struct {
	ID            int64      `json:"id"`
	Name          string     `json:"name"`
	IPAddress     string     `json:"ip_address"`
	Port          int        `json:"port"`
	DPI           int        `json:"dpi"`
	LabelWidthIn  float64    `json:"label_width_in"`
	LabelHeightIn float64    `json:"label_height_in"`
	Status        string     `json:"status"`
	LastSeenAt    *time.Time `json:"last_seen_at"`
	TotalPrints   int64      `json:"total_prints"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// PrintJob is one ledger row: pending at creation, printing at send-start,
// completed or failed at send-end.
type PrintJob struct {
	ID           int64      `json:"id"`
	BatchID      string     `json:"batch_id"`
	LotCode      string     `json:"lot_code"`
	PrinterID    int64      `json:"printer_id"`
	Profile      string     `json:"profile"`
	Copies       int        `json:"copies"`
	Status       string     `json:"status"`
	ErrorMessage string     `json:"error_message,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	StartedAt    *time.Time `json:"started_at,omitempty"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
}

const (
	JobStatusPending   = "pending"
	JobStatusPrinting  = "printing"
	JobStatusCompleted = "completed"
	JobStatusFailed    = "failed"
)

type Setting struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}
