package services

import (
	"context"
	"io"
	"storefront_server/database"
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

// ImageUpload is one uploaded image file
type ImageUpload struct {
	Filename string
	Content  io.Reader
}

// ListingListOptions filters marketplace listings
type ListingListOptions struct {
	Page       int
	PageSize   int
	Category   structs.Category
	SearchTerm string
	MinPrice   *uint64
	MaxPrice   *uint64
	Statuses   []structs.ListingStatus
	SellerID   *uuid.UUID
}

type ListingService struct {
	logger           *gecho.Logger
	cfg              *structs.Config
	db               *database.DB
	storageService   *StorageService
	messagingService *MessagingService
}

func NewListingService(logger *gecho.Logger, cfg *structs.Config, db *database.DB, storageService *StorageService, messagingService *MessagingService) *ListingService {
	return &ListingService{
		logger:           logger,
		cfg:              cfg,
		db:               db,
		storageService:   storageService,
		messagingService: messagingService,
	}
}

// sortImages puts the primary image first
func sortImages(query *bun.SelectQuery) *bun.SelectQuery {
	return query.Order("is_primary DESC", "position ASC")
}

func withSellerName(listing *tables.Listing) {
	if listing.Seller != nil {
		listing.SellerName = listing.Seller.Username
	}
}

func (ls *ListingService) ListListings(ctx context.Context, opts *ListingListOptions) (*database.PaginationResult[tables.Listing], error) {
	query := database.Query[tables.Listing](ls.db).
		Relation("Images", sortImages).
		Relation("Seller")

	if len(opts.Statuses) > 0 {
		query = query.WhereIn("l.status", opts.Statuses)
	}
	if opts.SellerID != nil {
		query = query.Where("l.seller_id", *opts.SellerID)
	}
	if opts.Category != "" {
		if !opts.Category.Valid() {
			return nil, lib.Detail(lib.ErrInvalidInput, "unknown category: "+string(opts.Category))
		}
		query = query.Where("l.category", opts.Category)
	}
	if opts.MinPrice != nil {
		query = query.WhereOp("l.price", ">=", *opts.MinPrice)
	}
	if opts.MaxPrice != nil {
		query = query.WhereOp("l.price", "<=", *opts.MaxPrice)
	}
	if term := lib.SanitizeString(opts.SearchTerm, true, false); term != "" {
		pattern := "%" + lib.EscapeLike(term) + "%"
		query = query.WhereRaw("(l.title ILIKE ? OR l.description ILIKE ?)", pattern, pattern)
	}
	query = query.OrderBy("l.created_at", database.DESC)

	result, err := database.Paginate(ctx, query, opts.Page, opts.PageSize)
	if err != nil {
		ls.logger.Error("Failed to list listings", gecho.Field("error", err))
		return nil, lib.MapPgError(err)
	}
	for i := range result.Data {
		withSellerName(&result.Data[i])
	}
	return result, nil
}

// ListPublic returns active listings
func (ls *ListingService) ListPublic(ctx context.Context, opts *ListingListOptions) (*database.PaginationResult[tables.Listing], error) {
	opts.Statuses = []structs.ListingStatus{structs.ListingActive}
	opts.SellerID = nil
	return ls.ListListings(ctx, opts)
}

// ListBySeller returns the seller's listings in any status except removed
func (ls *ListingService) ListBySeller(ctx context.Context, sellerID uuid.UUID, page, pageSize int) (*database.PaginationResult[tables.Listing], error) {
	return ls.ListListings(ctx, &ListingListOptions{
		Page:     page,
		PageSize: pageSize,
		SellerID: &sellerID,
		Statuses: []structs.ListingStatus{structs.ListingActive, structs.ListingSold, structs.ListingHidden},
	})
}

func (ls *ListingService) getListing(ctx context.Context, db bun.IDB, id uuid.UUID) (*tables.Listing, error) {
	listing, err := database.Query[tables.Listing](db).
		Where("l.id", id).
		Relation("Images", sortImages).
		Relation("Seller").
		First(ctx)
	if err != nil {
		return nil, lib.MapPgError(err)
	}
	if listing == nil {
		return nil, lib.ErrNotFound
	}
	withSellerName(listing)
	return listing, nil
}

// canView reports whether viewer may see a listing in its current status
func canView(listing *tables.Listing, viewer *uuid.UUID, isAdmin bool) bool {
	switch {
	case isAdmin:
		return true
	case listing.Status == structs.ListingActive:
		return true
	case listing.Status == structs.ListingRemoved:
		return false
	default:
		return viewer != nil && *viewer == listing.SellerID
	}
}

// GetListing returns a listing if viewer may see it
func (ls *ListingService) GetListing(ctx context.Context, id uuid.UUID, viewer *uuid.UUID, isAdmin bool) (*tables.Listing, error) {
	listing, err := ls.getListing(ctx, ls.db, id)
	if err != nil {
		return nil, err
	}
	if !canView(listing, viewer, isAdmin) {
		return nil, lib.ErrNotFound
	}
	return listing, nil
}

// CreateListing stores the images and then the listing. The first image is the primary one.
func (ls *ListingService) CreateListing(ctx context.Context, sellerID uuid.UUID, input *structs.ListingInput, uploads []ImageUpload) (*tables.Listing, error) {
	if len(uploads) == 0 {
		return nil, lib.Detail(lib.ErrInvalidInput, "at least one image is required")
	}
	if max := ls.storageService.MaxImages(); max > 0 && len(uploads) > max {
		return nil, lib.Detail(lib.ErrInvalidInput, "too many images")
	}

	urls := make([]string, 0, len(uploads))
	for _, up := range uploads {
		url, err := ls.storageService.SaveImage(ctx, up.Filename, up.Content)
		if err != nil {
			ls.storageService.DeleteAll(urls)
			return nil, err
		}
		urls = append(urls, url)
	}

	now := time.Now()
	listing := &tables.Listing{
		ID:            uuid.New(),
		SellerID:      sellerID,
		Title:         lib.SanitizeString(input.Title, true, false),
		Description:   lib.SanitizeString(input.Description, true, false),
		Category:      input.Category,
		Price:         input.Price,
		Currency:      currencyOrDefault(input.Currency),
		Status:        structs.ListingActive,
		SellerContact: lib.SanitizeString(input.SellerContact, true, false),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	images := make([]tables.ListingImage, len(urls))
	for i, url := range urls {
		images[i] = tables.ListingImage{
			ID:        uuid.New(),
			ListingID: listing.ID,
			URL:       url,
			IsPrimary: i == 0,
			Position:  i,
		}
	}

	err := database.Transaction(ctx, ls.db, func(ctx context.Context, tx bun.Tx) error {
		if _, err := database.Query[tables.Listing](tx).Insert(ctx, listing); err != nil {
			return err
		}
		return database.Query[tables.ListingImage](tx).InsertMany(ctx, images)
	})
	if err != nil {
		ls.storageService.DeleteAll(urls)
		ls.logger.Error("Failed to create listing", gecho.Field("error", lib.GetDetailForLogging(err)), gecho.Field("seller_id", sellerID))
		return nil, lib.MapPgError(err)
	}

	listing.Images = images
	ls.logger.Info("Listing created", gecho.Field("listing_id", listing.ID), gecho.Field("images", len(images)))
	return listing, nil
}

// UpdateListing changes the given fields of a listing owned by sellerID
func (ls *ListingService) UpdateListing(ctx context.Context, id, sellerID uuid.UUID, req *structs.ListingUpdateRequest) (*tables.Listing, error) {
	listing, err := ls.getListing(ctx, ls.db, id)
	if err != nil {
		return nil, err
	}
	if listing.SellerID != sellerID || listing.Status == structs.ListingRemoved {
		return nil, lib.ErrNotFound
	}

	updates := map[string]any{"updated_at": time.Now()}
	if req.Title != nil {
		updates["title"] = lib.SanitizeString(*req.Title, true, false)
	}
	if req.Description != nil {
		updates["description"] = lib.SanitizeString(*req.Description, true, false)
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.SellerContact != nil {
		updates["seller_contact"] = lib.SanitizeString(*req.SellerContact, true, false)
	}
	if req.Status != nil {
		if *req.Status == structs.ListingRemoved {
			return nil, lib.Detail(lib.ErrInvalidInput, "use delete to remove a listing")
		}
		updates["status"] = *req.Status
	}

	if _, err := database.Query[tables.Listing](ls.db).Where("id", id).Update(ctx, updates); err != nil {
		ls.logger.Error("Failed to update listing", gecho.Field("error", err), gecho.Field("listing_id", id))
		return nil, lib.MapPgError(err)
	}
	return ls.getListing(ctx, ls.db, id)
}

// DeleteListing marks a listing removed and deletes its image files. Only the owner or an admin may do this.
func (ls *ListingService) DeleteListing(ctx context.Context, id, actorID uuid.UUID, isAdmin bool) error {
	listing, err := ls.getListing(ctx, ls.db, id)
	if err != nil {
		return err
	}
	if listing.Status == structs.ListingRemoved {
		return lib.ErrNotFound
	}
	if listing.SellerID != actorID && !isAdmin {
		return lib.ErrForbidden
	}
	return ls.remove(ctx, listing)
}

func (ls *ListingService) remove(ctx context.Context, listing *tables.Listing) error {
	err := database.Transaction(ctx, ls.db, func(ctx context.Context, tx bun.Tx) error {
		if _, err := database.Query[tables.Listing](tx).
			Where("id", listing.ID).
			Update(ctx, map[string]any{"status": structs.ListingRemoved, "updated_at": time.Now()}); err != nil {
			return err
		}
		_, err := database.Query[tables.ListingImage](tx).Where("listing_id", listing.ID).Delete(ctx)
		return err
	})
	if err != nil {
		ls.logger.Error("Failed to remove listing", gecho.Field("error", err), gecho.Field("listing_id", listing.ID))
		return lib.MapPgError(err)
	}

	urls := make([]string, len(listing.Images))
	for i, img := range listing.Images {
		urls[i] = img.URL
	}
	ls.storageService.DeleteAll(urls)

	ls.logger.Info("Listing removed", gecho.Field("listing_id", listing.ID))
	return nil
}

// SetStatus is the admin moderation action
func (ls *ListingService) SetStatus(ctx context.Context, id uuid.UUID, status structs.ListingStatus) (*tables.Listing, error) {
	listing, err := ls.getListing(ctx, ls.db, id)
	if err != nil {
		return nil, err
	}
	if status == structs.ListingRemoved {
		if listing.Status == structs.ListingRemoved {
			return listing, nil
		}
		if err := ls.remove(ctx, listing); err != nil {
			return nil, err
		}
		return ls.getListing(ctx, ls.db, id)
	}

	if _, err := database.Query[tables.Listing](ls.db).
		Where("id", id).
		Update(ctx, map[string]any{"status": status, "updated_at": time.Now()}); err != nil {
		return nil, lib.MapPgError(err)
	}
	ls.logger.Info("Listing status set", gecho.Field("listing_id", id), gecho.Field("status", status))
	return ls.getListing(ctx, ls.db, id)
}

// checkContact rejects contact requests for listings that are not for sale or belong to the buyer
func checkContact(listing *tables.Listing, buyerID *uuid.UUID) error {
	if listing.Status != structs.ListingActive {
		return lib.ErrListingUnavailable
	}
	if buyerID != nil && *buyerID == listing.SellerID {
		return lib.ErrCannotContactOwn
	}
	return nil
}

// ContactLink returns a messaging link that puts the buyer in touch with the seller or the mediator
func (ls *ListingService) ContactLink(ctx context.Context, id uuid.UUID, buyerID *uuid.UUID, req *structs.ContactRequest, lang language.Tag) (string, error) {
	listing, err := ls.getListing(ctx, ls.db, id)
	if err != nil {
		if lib.IsNotFound(err) {
			return "", lib.ErrListingUnavailable
		}
		return "", err
	}
	if err := checkContact(listing, buyerID); err != nil {
		return "", err
	}

	buyer := lib.SanitizeString(req.BuyerName, true, false)
	message := lib.SanitizeString(req.Message, true, false)

	switch req.Mode {
	case structs.ContactMediator:
		text := MediatorText(lang, listing.Title, listing.Price, listing.Currency, listing.ID.String(), buyer, message)
		return ls.messagingService.MediatorLink(text)
	case structs.ContactSeller:
		text := SellerContactText(lang, listing.Title, listing.Price, listing.Currency, buyer, message)
		return ls.messagingService.DirectLink(strings.TrimSpace(listing.SellerContact), text)
	}
	return "", lib.Detail(lib.ErrInvalidInput, "unknown contact mode")
}
