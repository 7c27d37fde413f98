package inventory

// ===== Requests =====

type CreateItemRequest struct {
	Name     string `json:"name" binding:"required"`
	Quantity *int   `json:"quantity,omitempty"` // 省略時 0
}

type UpdateQuantityRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

// ===== Responses =====

type ItemResponse struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

type LookupResponse struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}
