package dto

// AddCartItemRequest body para POST /api/cart/items.
type AddCartItemRequest struct {
	ProductID        string            `json:"product_id"`
	Quantity         int64             `json:"quantity"`
	VariantSelection map[string]string `json:"variant_selection,omitempty"`
}

// UpdateCartItemRequest body para PUT /api/cart/items/:productId.
// Cantidad <= 0 elimina todas las líneas del producto.
type UpdateCartItemRequest struct {
	Quantity int64 `json:"quantity"`
}

// MergeCartRequest body para POST /api/cart/merge tras el login: identifica
// la sesión anónima cuyo carrito debe fusionarse en el del usuario.
type MergeCartRequest struct {
	SessionID string `json:"session_id"`
}

// CartLineResponse línea de carrito con snapshot de producto (si resolvió).
type CartLineResponse struct {
	ProductID        string            `json:"product_id"`
	Quantity         int64             `json:"quantity"`
	VariantSelection map[string]string `json:"variant_selection,omitempty"`
	Product          *ProductResponse  `json:"product,omitempty"`
}

// CartResponse carrito completo.
type CartResponse struct {
	Lines []CartLineResponse `json:"lines"`
	Total int                `json:"total_lines"`
}
