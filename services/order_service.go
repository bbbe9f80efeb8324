package services

import (
	"context"
	"fmt"
	"slices"
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

const orderNumberAttempts = 3

type OrderService struct {
	logger           *gecho.Logger
	cfg              *structs.Config
	db               *database.DB
	productService   *ProductService
	offerService     *OfferService
	messagingService *MessagingService
	emailService     *EmailService
}

func NewOrderService(
	logger *gecho.Logger,
	cfg *structs.Config,
	db *database.DB,
	productService *ProductService,
	offerService *OfferService,
	messagingService *MessagingService,
	emailService *EmailService,
) *OrderService {
	return &OrderService{
		logger:           logger,
		cfg:              cfg,
		db:               db,
		productService:   productService,
		offerService:     offerService,
		messagingService: messagingService,
		emailService:     emailService,
	}
}

type customerInput struct {
	name    string
	contact string
	note    string
}

func newCustomerInput(name, contact, note string) customerInput {
	return customerInput{
		name:    lib.SanitizeString(name, true, false),
		contact: lib.SanitizeString(contact, true, false),
		note:    lib.SanitizeString(note, true, false),
	}
}

// CreateBundleOrder validates the three picked products against the offer and stores a bundle order
func (ors *OrderService) CreateBundleOrder(ctx context.Context, req *structs.BundleOrderRequest, userId *uuid.UUID, lang language.Tag) (*tables.Order, error) {
	offer, summary, err := ors.offerService.PriceBundle(ctx, req.ProductIDs, lang)
	if err != nil {
		return nil, err
	}

	customer := newCustomerInput(req.CustomerName, req.Contact, req.Note)
	lines := make([]tables.OrderLine, len(summary.Items))
	for i, item := range summary.Items {
		lines[i] = tables.OrderLine{
			ProductId:   item.ProductID,
			Slot:        item.Slot,
			ProductSKU:  item.SKU,
			ProductName: item.Name,
			UnitPrice:   item.Price,
		}
	}

	title := i18n.PickText(offer.Title, i18n.Lang(lang))
	return ors.placeOrder(ctx, tables.OrderKindBundle, userId, lang, summary.BundlePrice, summary.Currency, lines, customer, title)
}

// CreateSingleOrder stores an order for one catalog product at its list price
func (ors *OrderService) CreateSingleOrder(ctx context.Context, req *structs.OrderRequest, userId *uuid.UUID, lang language.Tag) (*tables.Order, error) {
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return nil, lib.Detail(lib.ErrInvalidInput, "invalid product id")
	}

	product, err := ors.productService.GetProductByID(ctx, productID, lang, false, false)
	if err != nil {
		if lib.IsNotFound(err) {
			return nil, lib.ErrProductUnavailable
		}
		return nil, err
	}

	customer := newCustomerInput(req.CustomerName, req.Contact, req.Note)
	lines := []tables.OrderLine{{
		ProductId:   product.ID,
		Slot:        1,
		ProductSKU:  product.SKU,
		ProductName: product.Name,
		UnitPrice:   product.Price,
	}}

	return ors.placeOrder(ctx, tables.OrderKindSingle, userId, lang, product.Price, product.Currency, lines, customer, "")
}

// placeOrder persists an order with its lines. The returned order carries no customer data,
// only the hand-off link the customer needs to message the store.
func (ors *OrderService) placeOrder(
	ctx context.Context,
	kind tables.OrderKind,
	userId *uuid.UUID,
	lang language.Tag,
	total uint64,
	currency string,
	lines []tables.OrderLine,
	customer customerInput,
	bundleTitle string,
) (*tables.Order, error) {
	startTime := time.Now()

	var order *tables.Order
	var err error
	for attempt := 1; attempt <= orderNumberAttempts; attempt++ {
		order, err = ors.insertOrder(ctx, kind, userId, lang, total, currency, lines, customer, bundleTitle)
		if err == nil || !lib.IsUniqueViolation(err) {
			break
		}
		ors.logger.Warn("Order number collision, retrying", gecho.Field("attempt", attempt))
	}
	if err != nil {
		if !lib.IsNotFound(err) {
			ors.logger.Error("Failed to create order",
				gecho.Field("error", lib.GetDetailForLogging(err)),
				gecho.Field("kind", kind),
			)
		}
		return nil, lib.MapPgError(err)
	}

	go func(order tables.Order) {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := ors.emailService.SendOrderNotification(ctx, &order, customer.name, customer.contact, customer.note); err != nil {
			ors.logger.Error("Failed to send order notification",
				gecho.Field("error", err),
				gecho.Field("order_number", order.OrderNumber),
			)
		}
	}(*order)

	ors.logger.Info("Order created",
		gecho.Field("order_number", order.OrderNumber),
		gecho.Field("kind", kind),
		gecho.Field("total", total),
		gecho.Field("duration", time.Since(startTime)),
	)

	link := order.MessagingLink
	order = stripCustomer(order)
	order.MessagingLink = link
	return order, nil
}

func (ors *OrderService) insertOrder(
	ctx context.Context,
	kind tables.OrderKind,
	userId *uuid.UUID,
	lang language.Tag,
	total uint64,
	currency string,
	lines []tables.OrderLine,
	customer customerInput,
	bundleTitle string,
) (*tables.Order, error) {
	now := time.Now()
	order := &tables.Order{
		Id:           uuid.New(),
		OrderNumber:  lib.GenerateOrderNumber(),
		Kind:         kind,
		UserId:       userId,
		CustomerName: customer.name,
		Contact:      customer.contact,
		Note:         customer.note,
		Lang:         i18n.Lang(lang),
		Total:        total,
		Currency:     currency,
		Status:       tables.OrderStatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	rows := make([]tables.OrderLine, len(lines))
	for i, line := range lines {
		line.Id = uuid.New()
		line.OrderId = order.Id
		rows[i] = line
	}
	order.Lines = rows

	link, err := ors.messagingService.StoreLink(handoffText(lang, bundleTitle, order))
	if err != nil {
		return nil, err
	}
	if err := lib.EncryptAll(ors.cfg.Encryption.Key, &order.CustomerName, &order.Contact, &order.Note); err != nil {
		return nil, fmt.Errorf("failed to encrypt customer data: %w", err)
	}

	err = database.Transaction(ctx, ors.db, func(ctx context.Context, tx bun.Tx) error {
		if _, err := database.Query[tables.Order](tx).Insert(ctx, order); err != nil {
			return err
		}
		return database.Query[tables.OrderLine](tx).InsertMany(ctx, rows)
	})
	if err != nil {
		return nil, err
	}

	order.MessagingLink = link
	return order, nil
}

// handoffText is the store message for an order with plaintext customer fields.
// bundleTitle is only used for bundle orders.
func handoffText(tag language.Tag, bundleTitle string, order *tables.Order) string {
	if order.Kind == tables.OrderKindBundle {
		items := make([]BundleItem, len(order.Lines))
		for i, line := range order.Lines {
			items[i] = BundleItem{
				Slot:      line.Slot,
				ProductID: line.ProductId,
				SKU:       line.ProductSKU,
				Name:      line.ProductName,
				Price:     line.UnitPrice,
			}
		}
		summary := &BundleSummary{Items: items, BundlePrice: order.Total, Currency: order.Currency}
		return BundleOrderText(tag, bundleTitle, order.OrderNumber, order.CustomerName, order.Note, summary)
	}

	var productName string
	if len(order.Lines) > 0 {
		productName = order.Lines[0].ProductName
	}
	return SingleOrderText(tag, productName, order.OrderNumber, order.CustomerName, order.Note, order.Total, order.Currency)
}

// stripCustomer removes customer fields, and the link whose text repeats them, before an order leaves the service
func stripCustomer(order *tables.Order) *tables.Order {
	order.CustomerName = ""
	order.Contact = ""
	order.Note = ""
	order.MessagingLink = ""
	return order
}

func (ors *OrderService) decrypt(order *tables.Order) error {
	if err := lib.DecryptAll(ors.cfg.Encryption.Key, &order.CustomerName, &order.Contact, &order.Note); err != nil {
		ors.logger.Error("Failed to decrypt order", gecho.Field("error", err), gecho.Field("order_id", order.Id))
		return err
	}
	return nil
}

// reveal decrypts orders for their owner or an admin and rebuilds the hand-off links,
// which are never stored. Bundle links use the current offer title.
func (ors *OrderService) reveal(ctx context.Context, orders []tables.Order) error {
	var offer *tables.Offer
	for i := range orders {
		order := &orders[i]
		if err := ors.decrypt(order); err != nil {
			return err
		}

		var title string
		if order.Kind == tables.OrderKindBundle {
			if offer == nil {
				var err error
				if offer, err = ors.offerService.GetOffer(ctx); err != nil {
					ors.logger.Warn("Failed to load offer for order links", gecho.Field("error", err))
					continue
				}
			}
			title = i18n.PickText(offer.Title, order.Lang)
		}

		tag, ok := i18n.ParseTag(order.Lang)
		if !ok {
			tag = i18n.Default()
		}
		if link, err := ors.messagingService.StoreLink(handoffText(tag, title, order)); err == nil {
			order.MessagingLink = link
		}
	}
	return nil
}

func sortLines(query *bun.SelectQuery) *bun.SelectQuery {
	return query.Order("slot ASC")
}

// GetOrderByNumber returns an order without customer data, for the hand-off page
func (ors *OrderService) GetOrderByNumber(ctx context.Context, orderNumber string) (*tables.Order, error) {
	order, err := database.Query[tables.Order](ors.db).
		Where("order_number", strings.ToUpper(strings.TrimSpace(orderNumber))).
		Relation("Lines", sortLines).
		First(ctx)
	if err != nil {
		return nil, lib.MapPgError(err)
	}
	if order == nil {
		return nil, lib.ErrNotFound
	}
	return stripCustomer(order), nil
}

// GetOrderByID returns an order with decrypted customer data
func (ors *OrderService) GetOrderByID(ctx context.Context, orderId uuid.UUID) (*tables.Order, error) {
	order, err := database.Query[tables.Order](ors.db).
		Where("id", orderId).
		Relation("Lines", sortLines).
		First(ctx)
	if err != nil {
		return nil, lib.MapPgError(err)
	}
	if order == nil {
		return nil, lib.ErrNotFound
	}
	orders := []tables.Order{*order}
	if err := ors.reveal(ctx, orders); err != nil {
		return nil, err
	}
	return &orders[0], nil
}

// GetOrdersByUserID returns a user's orders, newest first, with decrypted customer data
func (ors *OrderService) GetOrdersByUserID(ctx context.Context, userId uuid.UUID) ([]tables.Order, error) {
	orders, err := database.Query[tables.Order](ors.db).
		Where("user_id", userId).
		Relation("Lines", sortLines).
		OrderBy("created_at", database.DESC).
		All(ctx)
	if err != nil {
		ors.logger.Error("Failed to fetch user orders", gecho.Field("error", err), gecho.Field("user_id", userId))
		return nil, lib.MapPgError(err)
	}
	if err := ors.reveal(ctx, orders); err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []tables.Order{}
	}
	return orders, nil
}

// ListOrders pages through all orders for the admin, optionally filtered by status
func (ors *OrderService) ListOrders(ctx context.Context, status *tables.OrderStatus, page, pageSize int) (*database.PaginationResult[tables.Order], error) {
	query := database.Query[tables.Order](ors.db).
		Relation("Lines", sortLines).
		OrderBy("created_at", database.DESC)
	if status != nil {
		query = query.Where("status", *status)
	}

	result, err := database.Paginate(ctx, query, page, pageSize)
	if err != nil {
		ors.logger.Error("Failed to list orders", gecho.Field("error", err))
		return nil, lib.MapPgError(err)
	}
	if err := ors.reveal(ctx, result.Data); err != nil {
		return nil, err
	}
	return result, nil
}

var statusTransitions = map[tables.OrderStatus][]tables.OrderStatus{
	tables.OrderStatusPending: {
		tables.OrderStatusContacted,
		tables.OrderStatusCompleted,
		tables.OrderStatusCancelled,
		tables.OrderStatusExpired,
	},
	tables.OrderStatusContacted: {
		tables.OrderStatusCompleted,
		tables.OrderStatusCancelled,
	},
	tables.OrderStatusCompleted: {},
	tables.OrderStatusCancelled: {},
	tables.OrderStatusExpired:   {},
}

// isValidStatusTransition validates if a status transition is allowed
func isValidStatusTransition(current, next tables.OrderStatus) bool {
	return slices.Contains(statusTransitions[current], next)
}

func (ors *OrderService) UpdateOrderStatus(ctx context.Context, orderId uuid.UUID, newStatus tables.OrderStatus) (*tables.Order, error) {
	err := database.Transaction(ctx, ors.db, func(ctx context.Context, tx bun.Tx) error {
		order, err := database.Query[tables.Order](tx).Where("id", orderId).ForUpdate().First(ctx)
		if err != nil {
			return err
		}
		if order == nil {
			return lib.ErrNotFound
		}
		if !isValidStatusTransition(order.Status, newStatus) {
			return lib.Detail(lib.ErrInvalidInput, fmt.Sprintf("invalid status transition from %s to %s", order.Status, newStatus))
		}

		_, err = database.Query[tables.Order](tx).
			Where("id", orderId).
			Update(ctx, map[string]any{"status": newStatus, "updated_at": time.Now()})
		if err == nil {
			ors.logger.Info("Order status updated",
				gecho.Field("order_id", orderId),
				gecho.Field("old_status", order.Status),
				gecho.Field("new_status", newStatus),
			)
		}
		return err
	})
	if err != nil {
		return nil, lib.MapPgError(err)
	}
	return ors.GetOrderByID(ctx, orderId)
}

// ExpireStale marks pending orders created before now-maxAge as expired
func (ors *OrderService) ExpireStale(ctx context.Context, maxAge time.Duration) (int, error) {
	cutoff := time.Now().Add(-maxAge)
	n, err := database.Query[tables.Order](ors.db).
		Where("status", tables.OrderStatusPending).
		WhereOp("created_at", "<", cutoff).
		Update(ctx, map[string]any{"status": tables.OrderStatusExpired, "updated_at": time.Now()})
	if err != nil {
		return 0, lib.MapPgError(err)
	}
	return n, nil
}
