package structs

// Category groups catalog products and marketplace listings
type Category string

const (
	CategoryGames         Category = "games"
	CategoryEntertainment Category = "entertainment" // streaming and other subscriptions
	CategoryMisc          Category = "misc"          // miscellaneous digital services
)

// Categories lists every category in display order
var Categories = []Category{CategoryGames, CategoryEntertainment, CategoryMisc}

func (c Category) Valid() bool {
	switch c {
	case CategoryGames, CategoryEntertainment, CategoryMisc:
		return true
	}
	return false
}

// TranslationInput is one language variant of a product's text
type TranslationInput struct {
	Lang        string `json:"lang" validate:"required,min=2,max=8"`
	Name        string `json:"name" validate:"required,min=2,max=200"`
	Description string `json:"description" validate:"max=5000"`
}

type ProductRequest struct {
	SKU            string             `json:"sku" validate:"omitempty,min=3,max=50"`
	Category       Category           `json:"category" validate:"required,oneof=games entertainment misc"`
	Price          uint64             `json:"price" validate:"required,gt=0"`
	Currency       string             `json:"currency" validate:"omitempty,len=3"`
	IsActive       *bool              `json:"is_active"`
	BundleEligible *bool              `json:"bundle_eligible"`
	ImageURL       string             `json:"image_url" validate:"omitempty,max=500"`
	SortOrder      int                `json:"sort_order"`
	Translations   []TranslationInput `json:"translations" validate:"required,min=1,dive"`
}

type DeleteProductsRequest struct {
	IDs []string `json:"ids" validate:"required,min=1,dive,uuid"`
}
