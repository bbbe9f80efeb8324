package structs

// BundleOrderRequest carries the three slots picked in the bundle offer
type BundleOrderRequest struct {
	ProductIDs   []string `json:"product_ids" validate:"required,dive,uuid"`
	CustomerName string   `json:"customer_name" validate:"required,min=2,max=100"`
	Contact      string   `json:"contact" validate:"required,min=5,max=100"` // phone or messenger handle
	Note         string   `json:"note" validate:"max=500"`
}

type OrderRequest struct {
	ProductID    string `json:"product_id" validate:"required,uuid"`
	CustomerName string `json:"customer_name" validate:"required,min=2,max=100"`
	Contact      string `json:"contact" validate:"required,min=5,max=100"`
	Note         string `json:"note" validate:"max=500"`
}

type QuoteRequest struct {
	ProductIDs []string `json:"product_ids" validate:"required,dive,uuid"`
}

type OrderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending contacted completed cancelled expired"`
}
