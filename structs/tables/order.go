package tables

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type Order struct {
	bun.BaseModel `bun:"table:orders,alias:o"`

	Id          uuid.UUID  `bun:"id,pk,type:uuid,default:gen_random_uuid()" json:"id"`
	OrderNumber string     `bun:"order_number,notnull,unique" json:"order_number"`
	Kind        OrderKind  `bun:"kind,notnull" json:"kind"`
	UserId      *uuid.UUID `bun:"user_id,type:uuid" json:"user_id,omitempty"` // nil for guest orders

	// Customer data, encrypted at rest
	CustomerName string `bun:"customer_name,notnull" json:"customer_name,omitempty"`
	Contact      string `bun:"contact,notnull" json:"contact,omitempty"`
	Note         string `bun:"note" json:"note,omitempty"`

	Lang          string      `bun:"lang,notnull,default:'en'" json:"lang"`
	Total         uint64      `bun:"total,notnull" json:"total"` // in cents
	Currency      string      `bun:"currency,notnull" json:"currency"`
	Status        OrderStatus `bun:"status,notnull,default:'pending'" json:"status"`
	MessagingLink string      `bun:"-" json:"messaging_link,omitempty"` // built on read, its text carries customer data
	CreatedAt     time.Time   `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt     time.Time   `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`
	Lines         []OrderLine `bun:"rel:has-many,join:id=order_id" json:"lines,omitempty"`
}

type OrderLine struct {
	bun.BaseModel `bun:"table:order_lines,alias:ol"`

	Id        uuid.UUID `bun:"id,pk,type:uuid" json:"id"`
	OrderId   uuid.UUID `bun:"order_id,notnull,type:uuid" json:"order_id"`
	ProductId uuid.UUID `bun:"product_id,notnull,type:uuid" json:"product_id"`
	Slot      int       `bun:"slot,notnull" json:"slot"` // 1-based position in a bundle, 1 for single orders

	// Snapshot of the product at time of order
	ProductSKU  string `bun:"product_sku,notnull" json:"product_sku"`
	ProductName string `bun:"product_name,notnull" json:"product_name"`
	UnitPrice   uint64 `bun:"unit_price,notnull" json:"unit_price"`
}

type OrderKind string

const (
	OrderKindBundle OrderKind = "bundle"
	OrderKindSingle OrderKind = "single"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusContacted OrderStatus = "contacted"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
	OrderStatusExpired   OrderStatus = "expired"
)
