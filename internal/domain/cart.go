package domain

// CartItem is one row of the shopper's cart. At most one item per book id
// exists in a cart; adding the same book again merges into the quantity.
type CartItem struct {
	ID       string  `json:"_id"`
	Title    string  `json:"title"`
	Author   string  `json:"author"`
	Price    float64 `json:"price"`
	Image    string  `json:"image"`
	Category string  `json:"category"`
	Quantity int     `json:"quantity"`
}

// Cart is the ordered working set of intended purchases, insertion order
// preserved. It is persisted as a plain JSON array under the storage key.
type Cart []CartItem
