package domain

// Book is a catalog record as served by the books API.
type Book struct {
	ID            string  `json:"_id"`
	Title         string  `json:"title"`
	Author        string  `json:"author"`
	Price         float64 `json:"price"`
	OriginalPrice float64 `json:"originalPrice,omitempty"`
	Image         string  `json:"image"`
	Category      string  `json:"category"`
	Description   string  `json:"description,omitempty"`
}
