package tables

import (
	"storefront_server/structs"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Listing is a product put up for sale by a marketplace user
type Listing struct {
	bun.BaseModel `bun:"table:listings,alias:l"`

	ID            uuid.UUID             `bun:"id,pk,type:uuid,default:gen_random_uuid()" json:"id"`
	SellerID      uuid.UUID             `bun:"seller_id,type:uuid,notnull" json:"seller_id"`
	Title         string                `bun:"title,notnull" json:"title"`
	Description   string                `bun:"description" json:"description"`
	Category      structs.Category      `bun:"category,notnull" json:"category"`
	Price         uint64                `bun:"price,notnull" json:"price"` // in cents
	Currency      string                `bun:"currency,notnull,default:'USD'" json:"currency"`
	Status        structs.ListingStatus `bun:"status,notnull,default:'active'" json:"status"`
	SellerContact string                `bun:"seller_contact,notnull" json:"-"`
	CreatedAt     time.Time             `bun:"created_at,notnull,default:now()" json:"created_at"`
	UpdatedAt     time.Time             `bun:"updated_at,notnull,default:now()" json:"updated_at"`
	Images        []ListingImage        `bun:"rel:has-many,join:id=listing_id" json:"images,omitempty"`
	Seller        *User                 `bun:"rel:belongs-to,join:seller_id=id" json:"-"`

	SellerName string `bun:"-" json:"seller_name,omitempty"`
}

type ListingImage struct {
	bun.BaseModel `bun:"table:listing_images,alias:li"`

	ID        uuid.UUID `bun:"id,pk,type:uuid,default:gen_random_uuid()" json:"id"`
	ListingID uuid.UUID `bun:"listing_id,type:uuid,notnull" json:"listing_id"`
	URL       string    `bun:"url,notnull" json:"url"`
	IsPrimary bool      `bun:"is_primary,notnull" json:"is_primary"`
	Position  int       `bun:"position,notnull,default:0" json:"position"`
}
