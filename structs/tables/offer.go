package tables

import (
	"storefront_server/structs"
	"time"

	"github.com/uptrace/bun"
)

// DefaultOfferID is the id of the single bundle offer row
const DefaultOfferID = "default"

type Offer struct {
	bun.BaseModel `bun:"table:offers,alias:of"`

	ID                string             `bun:"id,pk" json:"id"`
	Title             map[string]string  `bun:"title,type:jsonb,notnull" json:"title"`
	Description       map[string]string  `bun:"description,type:jsonb" json:"description"`
	Price             uint64             `bun:"price,notnull" json:"price"` // stored in cents
	Currency          string             `bun:"currency,notnull,default:'USD'" json:"currency"`
	SlotCount         int                `bun:"slot_count,notnull,default:3" json:"slot_count"`
	AllowedCategories []structs.Category `bun:"allowed_categories,array" json:"allowed_categories"`
	IsActive          bool               `bun:"is_active,notnull" json:"is_active"`
	UpdatedAt         time.Time          `bun:"updated_at,notnull,default:now()" json:"updated_at"`
}

func (o *Offer) Allows(category structs.Category) bool {
	for _, c := range o.AllowedCategories {
		if c == category {
			return true
		}
	}
	return false
}
