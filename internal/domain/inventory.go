package domain

import "time"

// Product is a catalog product owned by a company, with its current stock.
type Product struct {
	ID          int64     `json:"id"`
	SKU         string    `json:"SKU"`
	Name        string    `json:"product_name"`
	Description string    `json:"description"`
	CompanyID   int64     `json:"id_company"`
	Available   int       `json:"available_quantity"`
	CreatedAt   time.Time `json:"created_at"`
}

type SupplyStatus string

const (
	SupplyPending   SupplyStatus = "pending"
	SupplyCompleted SupplyStatus = "completed"
)

// SupplyRequest is an inbound warehouse request: a company asks the
// warehouse to receive stock for its products.
type SupplyRequest struct {
	ID        int64        `json:"id"`
	CompanyID int64        `json:"id_company"`
	Items     []SupplyItem `json:"items"`
	Status    SupplyStatus `json:"status"`
	CreatedAt time.Time    `json:"created_at"`
}

type SupplyItem struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}
