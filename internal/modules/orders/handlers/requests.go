package handlers

// Request payloads for the draft workflow endpoints.

type ResolveCustomerRequest struct {
	Query string `json:"query"`
}

type SelectCustomerRequest struct {
	CustomerID string `json:"customer_id"`
}

type AddItemRequest struct {
	ProductID   string `json:"product_id"`
	VariantName string `json:"variant_name,omitempty"`
	Quantity    int    `json:"quantity"`
}

type SetQuantityRequest struct {
	Quantity int `json:"quantity"`
}

type SetDeliveryTypeRequest struct {
	DeliveryType string `json:"delivery_type"`
}

type SelectLocationRequest struct {
	LocationID string `json:"location_id"`
}

type SetTimingRequest struct {
	Timing        string `json:"timing"`
	ScheduledDate string `json:"scheduled_date,omitempty"` // 2006-01-02
	ScheduledTime string `json:"scheduled_time,omitempty"` // 15:04
}

type SetPaymentMethodRequest struct {
	Method string `json:"method"`
}

type SetPaymentAmountRequest struct {
	Side   string  `json:"side"` // cash | transfer
	Amount float64 `json:"amount"`
}

type SetNotesRequest struct {
	Notes string `json:"notes"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
}

type SetFavoriteRequest struct {
	CustomerID string `json:"customer_id"`
}
