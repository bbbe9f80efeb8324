package services

import (
	"context"
	"fmt"
	"storefront_server/database"
	"storefront_server/i18n"
	"storefront_server/lib"
	"storefront_server/structs"
	"storefront_server/structs/tables"
	"strings"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
	"golang.org/x/text/language"
)

type OfferService struct {
	logger           *gecho.Logger
	cfg              *structs.Config
	db               *database.DB
	cacheService     *CacheService
	productService   *ProductService
	messagingService *MessagingService
}

func NewOfferService(logger *gecho.Logger, cfg *structs.Config, db *database.DB, cacheService *CacheService, productService *ProductService, messagingService *MessagingService) *OfferService {
	return &OfferService{
		logger:           logger,
		cfg:              cfg,
		db:               db,
		cacheService:     cacheService,
		productService:   productService,
		messagingService: messagingService,
	}
}

// OfferView is the offer as shown to a visitor in one language
type OfferView struct {
	Title             string             `json:"title"`
	Description       string             `json:"description"`
	Price             uint64             `json:"price"`
	Currency          string             `json:"currency"`
	SlotCount         int                `json:"slot_count"`
	AllowedCategories []structs.Category `json:"allowed_categories"`
	IsActive          bool               `json:"is_active"`
	Products          []tables.Product   `json:"products"`
}

// BundleItem is one filled slot of a bundle
type BundleItem struct {
	Slot      int              `json:"slot"`
	ProductID uuid.UUID        `json:"product_id"`
	SKU       string           `json:"sku"`
	Name      string           `json:"name"`
	Category  structs.Category `json:"category"`
	Price     uint64           `json:"price"`
	ImageURL  string           `json:"image_url,omitempty"`
}

// BundleSummary prices a complete bundle selection
type BundleSummary struct {
	Items         []BundleItem `json:"items"`
	BundlePrice   uint64       `json:"bundle_price"`
	ItemsTotal    uint64       `json:"items_total"`
	Savings       uint64       `json:"savings"`
	Currency      string       `json:"currency"`
	MessagingLink string       `json:"messaging_link,omitempty"`
}

// defaultOffer builds the offer row from configuration
func defaultOffer(cfg *structs.OfferConfig) *tables.Offer {
	lang := i18n.Lang(i18n.Default())
	categories := make([]structs.Category, 0, len(cfg.AllowedCategories))
	for _, c := range cfg.AllowedCategories {
		if cat := structs.Category(strings.TrimSpace(c)); cat.Valid() {
			categories = append(categories, cat)
		}
	}
	return &tables.Offer{
		ID:                tables.DefaultOfferID,
		Title:             map[string]string{lang: cfg.Title},
		Description:       map[string]string{lang: cfg.Description},
		Price:             cfg.Price,
		Currency:          currencyOrDefault(cfg.Currency),
		SlotCount:         structs.BundleSlotCount,
		AllowedCategories: categories,
		IsActive:          true,
		UpdatedAt:         time.Now(),
	}
}

// EnsureOffer seeds the offer row from configuration when it does not exist yet
func (ofs *OfferService) EnsureOffer(ctx context.Context) error {
	_, err := ofs.db.NewInsert().
		Model(defaultOffer(ofs.cfg.Offer)).
		On("CONFLICT (id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		ofs.logger.Error("Failed to seed offer", gecho.Field("error", lib.GetDetailForLogging(err)))
		return err
	}
	return nil
}

// GetOffer returns the stored offer
func (ofs *OfferService) GetOffer(ctx context.Context) (*tables.Offer, error) {
	offer, err := ofs.cacheService.GetOffer(ctx)
	if err != nil {
		ofs.logger.Warn("Failed to get offer from cache", gecho.Field("error", err))
	} else if offer != nil {
		return offer, nil
	}

	offer, err = database.Query[tables.Offer](ofs.db).Where("id", tables.DefaultOfferID).First(ctx)
	if err != nil {
		ofs.logger.Error("Failed to fetch offer", gecho.Field("error", err))
		return nil, lib.MapPgError(err)
	}
	if offer == nil {
		if err := ofs.EnsureOffer(ctx); err != nil {
			return nil, err
		}
		offer = defaultOffer(ofs.cfg.Offer)
	}

	if err := ofs.cacheService.SetOffer(ctx, offer); err != nil {
		ofs.logger.Warn("Failed to cache offer", gecho.Field("error", err))
	}
	return offer, nil
}

// GetOfferView returns the offer localized to lang with the products that can fill its slots
func (ofs *OfferService) GetOfferView(ctx context.Context, lang language.Tag) (*OfferView, error) {
	offer, err := ofs.GetOffer(ctx)
	if err != nil {
		return nil, err
	}

	view := &OfferView{
		Title:             i18n.PickText(offer.Title, i18n.Lang(lang)),
		Description:       i18n.PickText(offer.Description, i18n.Lang(lang)),
		Price:             offer.Price,
		Currency:          offer.Currency,
		SlotCount:         offer.SlotCount,
		AllowedCategories: offer.AllowedCategories,
		IsActive:          offer.IsActive,
		Products:          []tables.Product{},
	}
	if !offer.IsActive || len(offer.AllowedCategories) == 0 {
		return view, nil
	}

	eligible := true
	products, err := allPages(func(page int) (*ProductListResult, error) {
		return ofs.productService.GetCatalog(ctx, &ProductListOptions{
			Page:           page,
			PageSize:       database.MaxPageSize,
			BundleEligible: &eligible,
			Categories:     offer.AllowedCategories,
			Lang:           lang,
		})
	})
	if err != nil {
		return nil, err
	}
	view.Products = products
	return view, nil
}

// allPages collects the products of every catalog page, starting at page 1
func allPages(fetch func(page int) (*ProductListResult, error)) ([]tables.Product, error) {
	products := []tables.Product{}
	for page := 1; ; page++ {
		result, err := fetch(page)
		if err != nil {
			return nil, err
		}
		products = append(products, result.Products...)
		if len(result.Products) == 0 || page >= result.Pagination.TotalPages {
			return products, nil
		}
	}
}

// ParseProductIDs converts request ids to uuids
func ParseProductIDs(raw []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, len(raw))
	for i, s := range raw {
		id, err := uuid.Parse(strings.TrimSpace(s))
		if err != nil {
			return nil, lib.Detail(lib.ErrInvalidBundle, fmt.Sprintf("slot %d: invalid product id", i+1))
		}
		ids[i] = id
	}
	return ids, nil
}

// validateBundleSelection checks a selection against the offer and returns the summary in slot order.
// products must contain every product that exists among ids, with translations loaded.
func validateBundleSelection(offer *tables.Offer, ids []uuid.UUID, products map[uuid.UUID]tables.Product, lang string) (*BundleSummary, error) {
	if !offer.IsActive {
		return nil, lib.ErrOfferInactive
	}
	if len(ids) != offer.SlotCount {
		return nil, lib.Detail(lib.ErrInvalidBundle, fmt.Sprintf("exactly %d products are required", offer.SlotCount))
	}

	summary := &BundleSummary{
		Items:       make([]BundleItem, 0, len(ids)),
		BundlePrice: offer.Price,
		Currency:    offer.Currency,
	}
	seen := make(map[uuid.UUID]bool, len(ids))
	for i, id := range ids {
		slot := i + 1
		if seen[id] {
			return nil, lib.Detail(lib.ErrInvalidBundle, fmt.Sprintf("slot %d: product already selected", slot))
		}
		seen[id] = true

		p, ok := products[id]
		if !ok || !p.IsActive {
			return nil, lib.Detail(lib.ErrInvalidBundle, fmt.Sprintf("slot %d: product not available", slot))
		}
		if !p.BundleEligible {
			return nil, lib.Detail(lib.ErrInvalidBundle, fmt.Sprintf("slot %d: product is not part of the offer", slot))
		}
		if !offer.Allows(p.Category) {
			return nil, lib.Detail(lib.ErrInvalidBundle, fmt.Sprintf("slot %d: category %s is not part of the offer", slot, p.Category))
		}

		localizeOne(&p, lang, false)
		summary.Items = append(summary.Items, BundleItem{
			Slot:      slot,
			ProductID: p.ID,
			SKU:       p.SKU,
			Name:      p.Name,
			Category:  p.Category,
			Price:     p.Price,
			ImageURL:  p.ImageURL,
		})
		summary.ItemsTotal += p.Price
	}

	if summary.ItemsTotal > summary.BundlePrice {
		summary.Savings = summary.ItemsTotal - summary.BundlePrice
	}
	return summary, nil
}

// PriceBundle validates a selection against the current offer
func (ofs *OfferService) PriceBundle(ctx context.Context, rawIDs []string, lang language.Tag) (*tables.Offer, *BundleSummary, error) {
	ids, err := ParseProductIDs(rawIDs)
	if err != nil {
		return nil, nil, err
	}

	offer, err := ofs.GetOffer(ctx)
	if err != nil {
		return nil, nil, err
	}

	products, err := ofs.productService.GetProductsByIDs(ctx, ids)
	if err != nil {
		return nil, nil, err
	}
	byID := make(map[uuid.UUID]tables.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	summary, err := validateBundleSelection(offer, ids, byID, i18n.Lang(lang))
	if err != nil {
		return nil, nil, err
	}
	return offer, summary, nil
}

// Quote prices a selection and returns the prefilled link without storing anything
func (ofs *OfferService) Quote(ctx context.Context, rawIDs []string, lang language.Tag) (*BundleSummary, error) {
	offer, summary, err := ofs.PriceBundle(ctx, rawIDs, lang)
	if err != nil {
		return nil, err
	}

	title := i18n.PickText(offer.Title, i18n.Lang(lang))
	link, err := ofs.messagingService.StoreLink(BundleQuoteText(lang, title, summary))
	if err != nil {
		return nil, err
	}
	summary.MessagingLink = link
	return summary, nil
}

// UpdateOffer replaces the offer configuration. The slot count is fixed.
func (ofs *OfferService) UpdateOffer(ctx context.Context, req *structs.OfferUpdateRequest) (*tables.Offer, error) {
	title := cleanTexts(req.Title)
	if i18n.PickText(title, i18n.Lang(i18n.Default())) == "" {
		return nil, lib.Detail(lib.ErrInvalidInput, "title is required")
	}

	current, err := ofs.GetOffer(ctx)
	if err != nil {
		return nil, err
	}

	categories := dedupeCategories(req.AllowedCategories)
	offer := &tables.Offer{
		ID:                tables.DefaultOfferID,
		Title:             title,
		Description:       cleanTexts(req.Description),
		Price:             req.Price,
		Currency:          currencyOrDefault(req.Currency),
		SlotCount:         structs.BundleSlotCount,
		AllowedCategories: categories,
		IsActive:          boolOr(req.IsActive, current.IsActive),
		UpdatedAt:         time.Now(),
	}

	_, err = ofs.db.NewInsert().
		Model(offer).
		On("CONFLICT (id) DO UPDATE").
		Set("title = EXCLUDED.title").
		Set("description = EXCLUDED.description").
		Set("price = EXCLUDED.price").
		Set("currency = EXCLUDED.currency").
		Set("slot_count = EXCLUDED.slot_count").
		Set("allowed_categories = EXCLUDED.allowed_categories").
		Set("is_active = EXCLUDED.is_active").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		ofs.logger.Error("Failed to update offer", gecho.Field("error", lib.GetDetailForLogging(err)))
		return nil, lib.MapPgError(err)
	}

	if err := ofs.cacheService.InvalidateCatalog(ctx); err != nil {
		ofs.logger.Warn("Failed to invalidate offer cache", gecho.Field("error", err))
	}
	ofs.logger.Info("Offer updated", gecho.Field("price", offer.Price), gecho.Field("active", offer.IsActive))
	return offer, nil
}

// cleanTexts keeps supported languages with non-empty text
func cleanTexts(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for lang, text := range in {
		tag, ok := i18n.ParseTag(lang)
		if !ok {
			continue
		}
		if text = lib.SanitizeString(text, true, false); text != "" {
			out[i18n.Lang(tag)] = text
		}
	}
	return out
}

func dedupeCategories(in []structs.Category) []structs.Category {
	seen := make(map[structs.Category]bool, len(in))
	out := make([]structs.Category, 0, len(in))
	for _, c := range in {
		if c.Valid() && !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	return out
}
