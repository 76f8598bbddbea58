package domain

import "time"

type Category string

const (
	CategoryHot    Category = "hot"
	CategorySnacks Category = "snacks"
	CategoryCold   Category = "cold"
	CategorySmoke  Category = "smoke"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryHot, CategorySnacks, CategoryCold, CategorySmoke:
		return true
	}
	return false
}

type MenuItem struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Price     float64  `json:"price"`
	Category  Category `json:"category"`
	ImageURL  string   `json:"image_url"`
	Available bool     `json:"available"`
}

// OrderItem is a line item snapshot taken at sale time. Name and price are
// copied out of the menu so later menu edits never alter historical orders.
type OrderItem struct {
	MenuItemID string  `json:"menu_item_id"`
	Name       string  `json:"name"`
	Price      float64 `json:"price"`
	Quantity   int     `json:"quantity"`
}

type Order struct {
	ID string `json:"id"`
	// CorrelationID is stable for the lifetime of the order on this terminal;
	// ID changes when the backend confirms, CorrelationID never does.
	CorrelationID string      `json:"correlation_id"`
	TokenNumber   int         `json:"token_number"`
	Items         []OrderItem `json:"items"`
	Total         float64     `json:"total"`
	CreatedAt     time.Time   `json:"created_at"`
	Pending       bool        `json:"pending"`
}

// QueuedOrder is the durable record of an order that has not reached the
// backend yet.
type QueuedOrder struct {
	ID          string      `json:"id"`
	Items       []OrderItem `json:"items"`
	Total       float64     `json:"total"`
	TokenNumber int         `json:"token_number"`
	QueuedAt    time.Time   `json:"queued_at"`
	Synced      bool        `json:"synced"`
}

type Expense struct {
	ID          string    `json:"id"`
	Description string    `json:"description"`
	Amount      float64   `json:"amount"`
	SpentAt     time.Time `json:"spent_at"`
}

type Stats struct {
	TotalOrders int     `json:"total_orders"`
	TotalSales  float64 `json:"total_sales"`
	TotalItems  int     `json:"total_items"`
}
