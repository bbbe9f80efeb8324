package structs

type OfferUpdateRequest struct {
	Title             map[string]string `json:"title" validate:"required,min=1"`
	Description       map[string]string `json:"description"`
	Price             uint64            `json:"price" validate:"required,gt=0"`
	Currency          string            `json:"currency" validate:"omitempty,len=3"`
	AllowedCategories []Category        `json:"allowed_categories" validate:"required,min=1,dive,oneof=games entertainment misc"`
	IsActive          *bool             `json:"is_active"`
}

// BundleSlotCount is the number of products a bundle is made of
const BundleSlotCount = 3
