package entity

type Product struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Slug          string  `json:"slug"`
	Price         float64 `json:"price"`
	Description   string  `json:"description,omitempty"`
	StockQuantity int     `json:"stock_quantity"`
	ImageURL      string  `json:"image_url,omitempty"`
	CreatedAt     string  `json:"created_at"`
	UpdatedAt     string  `json:"updated_at"`
}

// StockRecord is the authoritative available quantity for one product at the
// moment it was fetched.
type StockRecord struct {
	ID             string
	Name           string
	AvailableStock int
}
