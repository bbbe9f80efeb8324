package handling

import (
	"net/http"
	"net/url"
	"storefront_server/i18n"
	"storefront_server/lib"
	"storefront_server/services"
	"storefront_server/structs"
	"storefront_server/structs/tables"
	"strconv"
	"strings"
)

func invalidParam(name string) error {
	return lib.Detail(lib.ErrInvalidInput, "invalid query parameter: "+name)
}

func parseInt(query url.Values, name string) (int, error) {
	raw := query.Get(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, invalidParam(name)
	}
	return v, nil
}

func parseUint(query url.Values, name string) (*uint64, error) {
	raw := query.Get(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return nil, invalidParam(name)
	}
	return &v, nil
}

func parseBool(query url.Values, name string) (*bool, error) {
	raw := query.Get(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, invalidParam(name)
	}
	return &v, nil
}

// ParsePage reads page and page_size; zero values are left for the service defaults
func ParsePage(r *http.Request) (page, pageSize int, err error) {
	query := r.URL.Query()
	if page, err = parseInt(query, "page"); err != nil {
		return 0, 0, err
	}
	if pageSize, err = parseInt(query, "page_size"); err != nil {
		return 0, 0, err
	}
	return page, pageSize, nil
}

// ParseProductListOptions parses HTTP query parameters into ProductListOptions.
// The language comes from the request context.
func ParseProductListOptions(r *http.Request) (*services.ProductListOptions, error) {
	query := r.URL.Query()
	opts := &services.ProductListOptions{Lang: i18n.FromContext(r.Context())}

	var err error
	if opts.Page, opts.PageSize, err = ParsePage(r); err != nil {
		return nil, err
	}
	if opts.IsActive, err = parseBool(query, "is_active"); err != nil {
		return nil, err
	}
	if opts.BundleEligible, err = parseBool(query, "bundle_eligible"); err != nil {
		return nil, err
	}
	if opts.MinPrice, err = parseUint(query, "min_price"); err != nil {
		return nil, err
	}
	if opts.MaxPrice, err = parseUint(query, "max_price"); err != nil {
		return nil, err
	}

	for _, c := range splitAndTrim(query.Get("category")) {
		category := structs.Category(strings.ToLower(c))
		if !category.Valid() {
			return nil, invalidParam("category")
		}
		opts.Categories = append(opts.Categories, category)
	}

	opts.SearchTerm = query.Get("search")
	opts.SortBy = query.Get("sort_by")
	opts.SortDirection = strings.ToUpper(query.Get("sort_direction"))

	includeTranslations, err := parseBool(query, "include_translations")
	if err != nil {
		return nil, err
	}
	if includeTranslations != nil {
		opts.IncludeTranslations = *includeTranslations
	}

	return opts, nil
}

// ParseListingListOptions parses marketplace list filters. Status filtering is left to the caller.
func ParseListingListOptions(r *http.Request) (*services.ListingListOptions, error) {
	query := r.URL.Query()
	opts := &services.ListingListOptions{}

	var err error
	if opts.Page, opts.PageSize, err = ParsePage(r); err != nil {
		return nil, err
	}
	if opts.MinPrice, err = parseUint(query, "min_price"); err != nil {
		return nil, err
	}
	if opts.MaxPrice, err = parseUint(query, "max_price"); err != nil {
		return nil, err
	}
	if c := query.Get("category"); c != "" {
		opts.Category = structs.Category(strings.ToLower(c))
		if !opts.Category.Valid() {
			return nil, invalidParam("category")
		}
	}
	opts.SearchTerm = query.Get("search")

	return opts, nil
}

// ParseListingStatuses reads a comma separated status filter
func ParseListingStatuses(r *http.Request) ([]structs.ListingStatus, error) {
	var statuses []structs.ListingStatus
	for _, s := range splitAndTrim(r.URL.Query().Get("status")) {
		status := structs.ListingStatus(strings.ToLower(s))
		switch status {
		case structs.ListingActive, structs.ListingSold, structs.ListingHidden, structs.ListingRemoved:
			statuses = append(statuses, status)
		default:
			return nil, invalidParam("status")
		}
	}
	return statuses, nil
}

// ParseOrderStatus reads the optional order status filter
func ParseOrderStatus(r *http.Request) (*tables.OrderStatus, error) {
	raw := strings.ToLower(r.URL.Query().Get("status"))
	if raw == "" {
		return nil, nil
	}
	status := tables.OrderStatus(raw)
	switch status {
	case tables.OrderStatusPending, tables.OrderStatusContacted, tables.OrderStatusCompleted,
		tables.OrderStatusCancelled, tables.OrderStatusExpired:
		return &status, nil
	}
	return nil, invalidParam("status")
}

// ParseUserListOptions parses the admin user list filters
func ParseUserListOptions(r *http.Request) (*services.UserListOptions, error) {
	opts := &services.UserListOptions{SearchTerm: r.URL.Query().Get("search")}

	var err error
	if opts.Page, opts.PageSize, err = ParsePage(r); err != nil {
		return nil, err
	}
	if opts.Banned, err = parseBool(r.URL.Query(), "banned"); err != nil {
		return nil, err
	}
	return opts, nil
}

// splitAndTrim splits a comma-separated string and drops empty parts
func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}

	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
