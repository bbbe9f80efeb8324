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
	"github.com/uptrace/bun"
	"golang.org/x/text/language"
)

const skuSuffixLength = 4

type ProductService struct {
	logger       *gecho.Logger
	db           *database.DB
	cacheService *CacheService
}

func NewProductService(logger *gecho.Logger, db *database.DB, cacheService *CacheService) *ProductService {
	return &ProductService{
		logger:       logger,
		db:           db,
		cacheService: cacheService,
	}
}

// ProductListOptions contains filtering and pagination options for product queries
type ProductListOptions struct {
	Page     int `json:"page"`
	PageSize int `json:"page_size"`

	IsActive       *bool              `json:"is_active,omitempty"`
	BundleEligible *bool              `json:"bundle_eligible,omitempty"`
	Categories     []structs.Category `json:"categories,omitempty"`
	MinPrice       *uint64            `json:"min_price,omitempty"` // in cents
	MaxPrice       *uint64            `json:"max_price,omitempty"` // in cents
	SearchTerm     string             `json:"search_term,omitempty"`

	SortBy        string `json:"sort_by"`        // sort_order, created_at, price, sku
	SortDirection string `json:"sort_direction"` // ASC or DESC

	IncludeTranslations bool          `json:"include_translations"`
	Lang                language.Tag  `json:"-"`
	Timeout             time.Duration `json:"-"`
}

// CacheKey identifies a normalized set of options, including the language
func (o *ProductListOptions) CacheKey() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s:p%d:s%d", i18n.Lang(o.Lang), o.Page, o.PageSize)
	if o.IsActive != nil {
		fmt.Fprintf(&b, ":a%t", *o.IsActive)
	}
	if o.BundleEligible != nil {
		fmt.Fprintf(&b, ":b%t", *o.BundleEligible)
	}
	for _, c := range o.Categories {
		fmt.Fprintf(&b, ":c%s", c)
	}
	if o.MinPrice != nil {
		fmt.Fprintf(&b, ":min%d", *o.MinPrice)
	}
	if o.MaxPrice != nil {
		fmt.Fprintf(&b, ":max%d", *o.MaxPrice)
	}
	if o.SearchTerm != "" {
		fmt.Fprintf(&b, ":q%s", strings.ToLower(o.SearchTerm))
	}
	fmt.Fprintf(&b, ":o%s%s:t%t", o.SortBy, o.SortDirection, o.IncludeTranslations)
	return b.String()
}

// ProductListResult wraps the product list response with metadata
type ProductListResult struct {
	Products   []tables.Product    `json:"products"`
	Pagination database.Pagination `json:"pagination"`
	Filters    ProductListOptions  `json:"filters"`
	QueryTime  time.Duration       `json:"query_time"`
}

// CategorySummary is one catalog category with its localized label
type CategorySummary struct {
	Slug         structs.Category `json:"slug"`
	Label        string           `json:"label"`
	ProductCount int              `json:"product_count"`
}

var validSortFields = map[string]bool{
	"sort_order": true,
	"created_at": true,
	"price":      true,
	"sku":        true,
}

// applyDefaultOptions sets default values for unspecified options
func applyDefaultOptions(opts *ProductListOptions) {
	opts.Page, opts.PageSize = database.NormalizePage(opts.Page, opts.PageSize)
	if opts.SortBy == "" {
		opts.SortBy = "sort_order"
	}
	if opts.SortDirection == "" {
		opts.SortDirection = string(database.ASC)
	}
	opts.SortDirection = strings.ToUpper(opts.SortDirection)
	if opts.Lang == language.Und {
		opts.Lang = i18n.Default()
	}
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
	opts.SearchTerm = lib.SanitizeString(opts.SearchTerm, true, false)
}

// validateOptions validates the provided options
func validateOptions(opts *ProductListOptions) error {
	if !validSortFields[opts.SortBy] {
		return lib.Detail(lib.ErrInvalidInput, "invalid sort field: "+opts.SortBy)
	}
	if opts.SortDirection != string(database.ASC) && opts.SortDirection != string(database.DESC) {
		return lib.Detail(lib.ErrInvalidInput, "sort direction must be ASC or DESC")
	}
	if opts.MinPrice != nil && opts.MaxPrice != nil && *opts.MinPrice > *opts.MaxPrice {
		return lib.Detail(lib.ErrInvalidInput, "min_price cannot be greater than max_price")
	}
	for _, c := range opts.Categories {
		if !c.Valid() {
			return lib.Detail(lib.ErrInvalidInput, "unknown category: "+string(c))
		}
	}
	return nil
}

// applyFilters applies all filter conditions to the query
func applyFilters(query *database.QueryBuilder[tables.Product], opts *ProductListOptions) *database.QueryBuilder[tables.Product] {
	if opts.IsActive != nil {
		query = query.Where("is_active", *opts.IsActive)
	}
	if opts.BundleEligible != nil {
		query = query.Where("bundle_eligible", *opts.BundleEligible)
	}
	if len(opts.Categories) > 0 {
		query = query.WhereIn("category", opts.Categories)
	}
	if opts.MinPrice != nil {
		query = query.WhereOp("price", ">=", *opts.MinPrice)
	}
	if opts.MaxPrice != nil {
		query = query.WhereOp("price", "<=", *opts.MaxPrice)
	}
	if opts.SearchTerm != "" {
		pattern := "%" + lib.EscapeLike(opts.SearchTerm) + "%"
		query = query.WhereRaw(
			"(p.sku ILIKE ? OR EXISTS (SELECT 1 FROM product_translations AS t WHERE t.product_id = p.id AND (t.name ILIKE ? OR t.description ILIKE ?)))",
			pattern, pattern, pattern,
		)
	}
	return query
}

// localize resolves name and description for lang, keeping translations only when asked
func localize(products []tables.Product, lang string, keepTranslations bool) {
	for i := range products {
		localizeOne(&products[i], lang, keepTranslations)
	}
}

func localizeOne(p *tables.Product, lang string, keepTranslations bool) {
	if t := i18n.PickTranslation(p.Translations, lang); t != nil {
		p.Name = t.Name
		p.Description = t.Description
	}
	if !keepTranslations {
		p.Translations = nil
	}
}

// GetAllProducts retrieves products with filtering and pagination, straight from the database
func (ps *ProductService) GetAllProducts(ctx context.Context, opts *ProductListOptions) (*ProductListResult, error) {
	startTime := time.Now()

	if opts == nil {
		opts = &ProductListOptions{}
	}
	applyDefaultOptions(opts)
	if err := validateOptions(opts); err != nil {
		return nil, err
	}

	query := database.Query[tables.Product](ps.db).Timeout(opts.Timeout).Relation("Translations")
	query = applyFilters(query, opts)
	query = query.OrderBy(opts.SortBy, database.ParseDirection(opts.SortDirection)).OrderBy("id", database.ASC)

	result, err := database.Paginate(ctx, query, opts.Page, opts.PageSize)
	if err != nil {
		ps.logger.Error("Failed to fetch products",
			gecho.Field("error", err),
			gecho.Field("page", opts.Page),
			gecho.Field("duration", time.Since(startTime)),
		)
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}

	localize(result.Data, i18n.Lang(opts.Lang), opts.IncludeTranslations)

	ps.logger.Debug("Products fetched",
		gecho.Field("count", len(result.Data)),
		gecho.Field("total", result.Pagination.Total),
		gecho.Field("duration", time.Since(startTime)),
	)

	return &ProductListResult{
		Products:   result.Data,
		Pagination: result.Pagination,
		Filters:    *opts,
		QueryTime:  time.Since(startTime),
	}, nil
}

// GetCatalog lists active products for the storefront, cached per option set and language
func (ps *ProductService) GetCatalog(ctx context.Context, opts *ProductListOptions) (*ProductListResult, error) {
	if opts == nil {
		opts = &ProductListOptions{}
	}
	active := true
	opts.IsActive = &active
	applyDefaultOptions(opts)
	if err := validateOptions(opts); err != nil {
		return nil, err
	}

	key := opts.CacheKey()
	cached, err := ps.cacheService.GetProductList(ctx, key)
	if err != nil {
		ps.logger.Warn("Failed to get product list from cache", gecho.Field("error", err))
	} else if cached != nil {
		return cached, nil
	}

	result, err := ps.GetAllProducts(ctx, opts)
	if err != nil {
		return nil, err
	}

	go func() {
		if err := ps.cacheService.SetProductList(context.Background(), key, result); err != nil {
			ps.logger.Warn("Failed to cache product list", gecho.Field("error", err))
		}
	}()

	return result, nil
}

// GetProductByID returns a product localized to lang. Inactive products are only returned when includeInactive is set.
func (ps *ProductService) GetProductByID(ctx context.Context, id uuid.UUID, lang language.Tag, includeInactive, keepTranslations bool) (*tables.Product, error) {
	product, err := ps.cacheService.GetProduct(ctx, id)
	if err != nil {
		ps.logger.Warn("Failed to get product from cache", gecho.Field("error", err), gecho.Field("id", id))
	}

	if product == nil {
		product, err = database.Query[tables.Product](ps.db).
			Where("id", id).
			Relation("Translations").
			Timeout(5 * time.Second).
			First(ctx)
		if err != nil {
			ps.logger.Error("Failed to fetch product by ID", gecho.Field("id", id), gecho.Field("error", err))
			return nil, lib.MapPgError(err)
		}
		if product == nil {
			return nil, lib.ErrNotFound
		}

		cachedCopy := *product
		go func() {
			if err := ps.cacheService.SetProduct(context.Background(), &cachedCopy); err != nil {
				ps.logger.Warn("Failed to cache product", gecho.Field("error", err), gecho.Field("id", id))
			}
		}()
	}

	if !product.IsActive && !includeInactive {
		return nil, lib.ErrNotFound
	}

	localizeOne(product, i18n.Lang(lang), keepTranslations)
	return product, nil
}

// GetProductsByIDs loads products with translations, in no particular order
func (ps *ProductService) GetProductsByIDs(ctx context.Context, ids []uuid.UUID) ([]tables.Product, error) {
	if len(ids) == 0 {
		return []tables.Product{}, nil
	}
	products, err := database.Query[tables.Product](ps.db).
		WhereIn("id", ids).
		Relation("Translations").
		Timeout(10 * time.Second).
		All(ctx)
	if err != nil {
		ps.logger.Error("Failed to fetch products by IDs", gecho.Field("error", err))
		return nil, lib.MapPgError(err)
	}
	return products, nil
}

// GetCategories returns every category with its label in lang and the number of active products
func (ps *ProductService) GetCategories(ctx context.Context, lang language.Tag) ([]CategorySummary, error) {
	code := i18n.Lang(lang)
	cached, err := ps.cacheService.GetCategories(ctx, code)
	if err != nil {
		ps.logger.Warn("Failed to get categories from cache", gecho.Field("error", err))
	} else if cached != nil {
		return cached, nil
	}

	var rows []struct {
		Category structs.Category `bun:"category"`
		Count    int              `bun:"count"`
	}
	err = database.WithRetry(ctx, func() error {
		rows = nil
		return ps.db.NewSelect().
			Model((*tables.Product)(nil)).
			Column("category").
			ColumnExpr("count(*) AS count").
			Where("is_active = ?", true).
			Group("category").
			Scan(ctx, &rows)
	})
	if err != nil {
		ps.logger.Error("Failed to count products per category", gecho.Field("error", err))
		return nil, lib.MapPgError(err)
	}

	counts := make(map[structs.Category]int, len(rows))
	for _, row := range rows {
		counts[row.Category] = row.Count
	}

	summaries := make([]CategorySummary, 0, len(structs.Categories))
	for _, c := range structs.Categories {
		summaries = append(summaries, CategorySummary{
			Slug:         c,
			Label:        i18n.Sprintf(lang, "category."+string(c)),
			ProductCount: counts[c],
		})
	}

	if err := ps.cacheService.SetCategories(ctx, code, summaries); err != nil {
		ps.logger.Warn("Failed to cache categories", gecho.Field("error", err))
	}
	return summaries, nil
}

// normalizeTranslations checks languages and requires the default language to be present
func normalizeTranslations(inputs []structs.TranslationInput) ([]structs.TranslationInput, error) {
	seen := make(map[string]bool, len(inputs))
	out := make([]structs.TranslationInput, 0, len(inputs))
	for _, in := range inputs {
		tag, ok := i18n.ParseTag(in.Lang)
		if !ok {
			return nil, lib.Detail(lib.ErrInvalidInput, "unsupported language: "+in.Lang)
		}
		lang := i18n.Lang(tag)
		if seen[lang] {
			return nil, lib.Detail(lib.ErrInvalidInput, "duplicate translation: "+lang)
		}
		seen[lang] = true
		out = append(out, structs.TranslationInput{
			Lang:        lang,
			Name:        lib.SanitizeString(in.Name, true, false),
			Description: lib.SanitizeString(in.Description, true, false),
		})
	}
	if !seen[i18n.Lang(i18n.Default())] {
		return nil, lib.Detail(lib.ErrInvalidInput, "a translation in "+i18n.Lang(i18n.Default())+" is required")
	}
	return out, nil
}

func defaultName(translations []structs.TranslationInput) string {
	def := i18n.Lang(i18n.Default())
	for _, t := range translations {
		if t.Lang == def {
			return t.Name
		}
	}
	return ""
}

func buildTranslations(productID uuid.UUID, inputs []structs.TranslationInput) []tables.ProductTranslation {
	out := make([]tables.ProductTranslation, len(inputs))
	for i, in := range inputs {
		out[i] = tables.ProductTranslation{
			ID:          uuid.New(),
			ProductID:   productID,
			Lang:        in.Lang,
			Name:        in.Name,
			Description: in.Description,
		}
	}
	return out
}

// CreateProduct inserts a product and its translations in one transaction
func (ps *ProductService) CreateProduct(ctx context.Context, req *structs.ProductRequest) (*tables.Product, error) {
	startTime := time.Now()

	translations, err := normalizeTranslations(req.Translations)
	if err != nil {
		return nil, err
	}

	sku := strings.ToUpper(strings.TrimSpace(req.SKU))
	if sku == "" {
		if sku, err = lib.GenerateSKU(string(req.Category), defaultName(translations), skuSuffixLength); err != nil {
			return nil, err
		}
	}

	now := time.Now()
	product := &tables.Product{
		ID:             uuid.New(),
		SKU:            sku,
		Category:       req.Category,
		Price:          req.Price,
		Currency:       currencyOrDefault(req.Currency),
		IsActive:       boolOr(req.IsActive, true),
		BundleEligible: boolOr(req.BundleEligible, true),
		ImageURL:       strings.TrimSpace(req.ImageURL),
		SortOrder:      req.SortOrder,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	product.Translations = buildTranslations(product.ID, translations)

	err = database.Transaction(ctx, ps.db, func(ctx context.Context, tx bun.Tx) error {
		rows := product.Translations
		product.Translations = nil
		if _, err := database.Query[tables.Product](tx).Insert(ctx, product); err != nil {
			return err
		}
		product.Translations = rows
		return database.Query[tables.ProductTranslation](tx).InsertMany(ctx, rows)
	})
	if err != nil {
		ps.logger.Error("Failed to create product",
			gecho.Field("error", lib.GetDetailForLogging(err)),
			gecho.Field("sku", sku),
			gecho.Field("duration", time.Since(startTime)),
		)
		return nil, lib.MapPgError(err)
	}

	ps.invalidateAsync(product.ID)
	ps.logger.Info("Product created", gecho.Field("id", product.ID), gecho.Field("sku", product.SKU))
	return product, nil
}

// UpdateProduct replaces all editable fields and the translations of a product
func (ps *ProductService) UpdateProduct(ctx context.Context, id uuid.UUID, req *structs.ProductRequest) (*tables.Product, error) {
	translations, err := normalizeTranslations(req.Translations)
	if err != nil {
		return nil, err
	}

	err = database.Transaction(ctx, ps.db, func(ctx context.Context, tx bun.Tx) error {
		current, err := database.Query[tables.Product](tx).Where("id", id).ForUpdate().First(ctx)
		if err != nil {
			return err
		}
		if current == nil {
			return lib.ErrNotFound
		}

		updates := map[string]any{
			"category":        req.Category,
			"price":           req.Price,
			"currency":        currencyOrDefault(req.Currency),
			"is_active":       boolOr(req.IsActive, current.IsActive),
			"bundle_eligible": boolOr(req.BundleEligible, current.BundleEligible),
			"image_url":       strings.TrimSpace(req.ImageURL),
			"sort_order":      req.SortOrder,
			"updated_at":      time.Now(),
		}
		if sku := strings.ToUpper(strings.TrimSpace(req.SKU)); sku != "" {
			updates["sku"] = sku
		}
		if _, err := database.Query[tables.Product](tx).Where("id", id).Update(ctx, updates); err != nil {
			return err
		}

		if _, err := database.Query[tables.ProductTranslation](tx).Where("product_id", id).Delete(ctx); err != nil {
			return err
		}
		return database.Query[tables.ProductTranslation](tx).InsertMany(ctx, buildTranslations(id, translations))
	})
	if err != nil {
		if !lib.IsNotFound(err) {
			ps.logger.Error("Failed to update product", gecho.Field("error", lib.GetDetailForLogging(err)), gecho.Field("id", id))
		}
		return nil, lib.MapPgError(err)
	}

	if err := ps.cacheService.InvalidateCatalog(ctx); err != nil {
		ps.logger.Warn("Failed to invalidate catalog cache", gecho.Field("error", err))
	}
	return ps.GetProductByID(ctx, id, i18n.FromContext(ctx), true, true)
}

// DeleteProducts deactivates the products, or removes them with their translations when hard is set
func (ps *ProductService) DeleteProducts(ctx context.Context, ids []uuid.UUID, hard bool) (int, error) {
	var affected int
	err := database.Transaction(ctx, ps.db, func(ctx context.Context, tx bun.Tx) error {
		var err error
		if !hard {
			affected, err = database.Query[tables.Product](tx).
				WhereIn("id", ids).
				Update(ctx, map[string]any{"is_active": false, "updated_at": time.Now()})
			return err
		}
		if _, err = database.Query[tables.ProductTranslation](tx).WhereIn("product_id", ids).Delete(ctx); err != nil {
			return err
		}
		affected, err = database.Query[tables.Product](tx).WhereIn("id", ids).Delete(ctx)
		return err
	})
	if err != nil {
		ps.logger.Error("Failed to delete products", gecho.Field("error", lib.GetDetailForLogging(err)), gecho.Field("hard", hard))
		return 0, lib.MapPgError(err)
	}

	if err := ps.cacheService.InvalidateCatalog(ctx); err != nil {
		ps.logger.Warn("Failed to invalidate catalog cache", gecho.Field("error", err))
	}
	ps.logger.Info("Products deleted", gecho.Field("count", affected), gecho.Field("hard", hard))
	return affected, nil
}

func (ps *ProductService) invalidateAsync(productID uuid.UUID) {
	go func() {
		if err := ps.cacheService.InvalidateCatalog(context.Background()); err != nil {
			ps.logger.Warn("Failed to invalidate catalog cache", gecho.Field("error", err), gecho.Field("product_id", productID))
		}
	}()
}

func currencyOrDefault(c string) string {
	c = strings.ToUpper(strings.TrimSpace(c))
	if c == "" {
		return "USD"
	}
	return c
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}
