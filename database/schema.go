package database

import (
	"context"
	"fmt"
	"storefront_server/structs/tables"

	"github.com/uptrace/bun"
)

// models in creation order; children after their parents
var models = []any{
	(*tables.User)(nil),
	(*tables.EmailVerification)(nil),
	(*tables.Product)(nil),
	(*tables.ProductTranslation)(nil),
	(*tables.Offer)(nil),
	(*tables.Order)(nil),
	(*tables.OrderLine)(nil),
	(*tables.Listing)(nil),
	(*tables.ListingImage)(nil),
}

type index struct {
	model   any
	name    string
	columns []string
}

var indexes = []index{
	{(*tables.Product)(nil), "products_category_idx", []string{"category", "is_active"}},
	{(*tables.ProductTranslation)(nil), "product_translations_product_idx", []string{"product_id"}},
	{(*tables.OrderLine)(nil), "order_lines_order_idx", []string{"order_id"}},
	{(*tables.Order)(nil), "orders_status_created_idx", []string{"status", "created_at"}},
	{(*tables.Listing)(nil), "listings_status_category_idx", []string{"status", "category"}},
	{(*tables.Listing)(nil), "listings_seller_idx", []string{"seller_id"}},
	{(*tables.ListingImage)(nil), "listing_images_listing_idx", []string{"listing_id"}},
}

// CreateSchema creates missing tables and indexes; existing ones are left untouched
func CreateSchema(ctx context.Context, db bun.IDB) error {
	for _, model := range models {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("create table for %T: %w", model, err)
		}
	}
	for _, idx := range indexes {
		_, err := db.NewCreateIndex().
			Model(idx.model).
			Index(idx.name).
			Column(idx.columns...).
			IfNotExists().
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("create index %s: %w", idx.name, err)
		}
	}
	return nil
}
