package domain

type CartItemInput struct {
	MenuItemID string  `json:"menu_item_id"`
	Name       string  `json:"name"`
	Price      float64 `json:"price"`
	Quantity   int     `json:"quantity"`
}

type CreateOrderRequest struct {
	Items []CartItemInput `json:"items"`
}

type CreateOrderResponse struct {
	ID          string  `json:"id"`
	TokenNumber int     `json:"token_number"`
	Total       float64 `json:"total"`
	Pending     bool    `json:"pending"`
}

// ConvertItems maps cart input to order line snapshots.
func ConvertItems(inputs []CartItemInput) []OrderItem {
	items := make([]OrderItem, 0, len(inputs))
	for _, in := range inputs {
		items = append(items, OrderItem{
			MenuItemID: in.MenuItemID,
			Name:       in.Name,
			Price:      in.Price,
			Quantity:   in.Quantity,
		})
	}
	return items
}

type CreateMenuItemRequest struct {
	Name     string   `json:"name"`
	Price    float64  `json:"price"`
	Category Category `json:"category"`
	ImageURL string   `json:"image_url"`
}

type CreateExpenseRequest struct {
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
}

type SyncResponse struct {
	Synced int `json:"synced"`
}
