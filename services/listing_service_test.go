package services

import (
	"testing"

	"storefront_server/lib"
	"storefront_server/structs"
	"storefront_server/structs/tables"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestCanView(t *testing.T) {
	seller := uuid.New()
	stranger := uuid.New()

	cases := []struct {
		name    string
		status  structs.ListingStatus
		viewer  *uuid.UUID
		isAdmin bool
		want    bool
	}{
		{"active anonymous", structs.ListingActive, nil, false, true},
		{"active stranger", structs.ListingActive, &stranger, false, true},
		{"hidden anonymous", structs.ListingHidden, nil, false, false},
		{"hidden stranger", structs.ListingHidden, &stranger, false, false},
		{"hidden owner", structs.ListingHidden, &seller, false, true},
		{"hidden admin", structs.ListingHidden, &stranger, true, true},
		{"sold stranger", structs.ListingSold, &stranger, false, false},
		{"sold owner", structs.ListingSold, &seller, false, true},
		{"sold admin", structs.ListingSold, nil, true, true},
		{"removed owner", structs.ListingRemoved, &seller, false, false},
		{"removed stranger", structs.ListingRemoved, &stranger, false, false},
		{"removed admin", structs.ListingRemoved, &stranger, true, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			listing := &tables.Listing{SellerID: seller, Status: tc.status}
			assert.Equal(t, tc.want, canView(listing, tc.viewer, tc.isAdmin))
		})
	}
}

func TestCheckContact(t *testing.T) {
	seller := uuid.New()
	buyer := uuid.New()

	cases := []struct {
		name    string
		status  structs.ListingStatus
		buyerID *uuid.UUID
		want    error
	}{
		{"active guest", structs.ListingActive, nil, nil},
		{"active buyer", structs.ListingActive, &buyer, nil},
		{"own listing", structs.ListingActive, &seller, lib.ErrCannotContactOwn},
		{"sold", structs.ListingSold, &buyer, lib.ErrListingUnavailable},
		{"hidden", structs.ListingHidden, nil, lib.ErrListingUnavailable},
		{"removed", structs.ListingRemoved, &buyer, lib.ErrListingUnavailable},
		{"own sold listing", structs.ListingSold, &seller, lib.ErrListingUnavailable},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			listing := &tables.Listing{SellerID: seller, Status: tc.status}
			err := checkContact(listing, tc.buyerID)
			if tc.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.want)
		})
	}
}
