package structs

type ListingStatus string

const (
	ListingActive  ListingStatus = "active"
	ListingSold    ListingStatus = "sold"
	ListingHidden  ListingStatus = "hidden"
	ListingRemoved ListingStatus = "removed"
)

// ListingInput holds the text fields of a marketplace listing form
type ListingInput struct {
	Title         string   `json:"title" validate:"required,min=3,max=150"`
	Description   string   `json:"description" validate:"max=5000"`
	Category      Category `json:"category" validate:"required,oneof=games entertainment misc"`
	Price         uint64   `json:"price" validate:"required,gt=0"`
	Currency      string   `json:"currency" validate:"omitempty,len=3"`
	SellerContact string   `json:"seller_contact" validate:"required,min=3,max=100"`
}

type ListingUpdateRequest struct {
	Title         *string        `json:"title" validate:"omitempty,min=3,max=150"`
	Description   *string        `json:"description" validate:"omitempty,max=5000"`
	Price         *uint64        `json:"price" validate:"omitempty,gt=0"`
	SellerContact *string        `json:"seller_contact" validate:"omitempty,min=3,max=100"`
	Status        *ListingStatus `json:"status" validate:"omitempty,oneof=active sold hidden"`
}

type ListingStatusRequest struct {
	Status ListingStatus `json:"status" validate:"required,oneof=active sold hidden removed"`
}

// ContactMode selects who the buyer is put in touch with
type ContactMode string

const (
	ContactSeller   ContactMode = "seller"
	ContactMediator ContactMode = "mediator"
)

type ContactRequest struct {
	Mode      ContactMode `json:"mode" validate:"required,oneof=seller mediator"`
	BuyerName string      `json:"buyer_name" validate:"required,min=2,max=100"`
	Message   string      `json:"message" validate:"max=500"`
}
