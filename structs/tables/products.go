package tables

import (
	"storefront_server/structs"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type Product struct {
	bun.BaseModel `bun:"table:products,alias:p"`

	ID             uuid.UUID            `bun:"id,pk,type:uuid,default:gen_random_uuid()" json:"id"`
	SKU            string               `bun:"sku,notnull,unique" json:"sku"`
	Category       structs.Category     `bun:"category,notnull" json:"category"`
	Price          uint64               `bun:"price,notnull" json:"price"` // stored in cents
	Currency       string               `bun:"currency,notnull,default:'USD'" json:"currency"`
	IsActive       bool                 `bun:"is_active,notnull" json:"is_active"`
	BundleEligible bool                 `bun:"bundle_eligible,notnull" json:"bundle_eligible"`
	ImageURL       string               `bun:"image_url" json:"image_url,omitempty"`
	SortOrder      int                  `bun:"sort_order,notnull,default:0" json:"sort_order"`
	CreatedAt      time.Time            `bun:"created_at,notnull,default:now()" json:"created_at"`
	UpdatedAt      time.Time            `bun:"updated_at,notnull,default:now()" json:"updated_at"`
	Translations   []ProductTranslation `bun:"rel:has-many,join:id=product_id" json:"translations,omitempty"`

	// resolved for the request language, never stored
	Name        string `bun:"-" json:"name"`
	Description string `bun:"-" json:"description"`
}

// ProductTranslation is the name and description of a product in one language
type ProductTranslation struct {
	bun.BaseModel `bun:"table:product_translations,alias:pt"`

	ID          uuid.UUID `bun:"id,pk,type:uuid,default:gen_random_uuid()" json:"id"`
	ProductID   uuid.UUID `bun:"product_id,type:uuid,notnull,unique:product_lang" json:"product_id"`
	Lang        string    `bun:"lang,notnull,unique:product_lang" json:"lang"`
	Name        string    `bun:"name,notnull" json:"name"`
	Description string    `bun:"description" json:"description"`
}
