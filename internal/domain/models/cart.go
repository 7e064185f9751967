package models

// Product is the slice of a catalog entry that a cart line carries around.
type Product struct {
	ID    int64   `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// CartItem is one line of the cart. Product may be missing when the catalog
// entry is gone; such a line contributes nothing to a recomputed total.
type CartItem struct {
	ProductID int64    `json:"product_id"`
	Product   *Product `json:"product,omitempty"`
	Quantity  int      `json:"quantity"`
}

// Cart is the client's snapshot of the server-side cart. The cart service is
// the source of truth: every successful read or mutation replaces the whole
// snapshot. Total is set only when the cart service computed it; nil means
// the client has to derive a pre-flight total from the lines itself.
type Cart struct {
	Items []CartItem `json:"items"`
	Total *float64   `json:"total,omitempty"`
}
