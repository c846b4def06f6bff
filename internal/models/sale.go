// internal/models/sale.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// Sale is a finalized, priced deal. Price and FinalPrice are both
// nullable because older records stored the unit price under final_price;
// readers must go through PaidPrice instead of touching the columns.
type Sale struct {
	BaseModel
	SellerID            uuid.UUID  `json:"seller_id" gorm:"type:uuid;not null;index"`
	BuyerID             uuid.UUID  `json:"buyer_id" gorm:"type:uuid;not null;index"`
	AssetID             uuid.UUID  `json:"asset_id" gorm:"type:uuid;not null;index"`
	InterestID          *uuid.UUID `json:"interest_id,omitempty" gorm:"type:uuid;index"`
	Price               *float64   `json:"price,omitempty" gorm:"type:decimal(12,2)"`
	FinalPrice          *float64   `json:"final_price,omitempty" gorm:"type:decimal(12,2)"`
	Quantity            int        `json:"quantity" gorm:"not null;default:1"`
	TotalAmount         float64    `json:"total_amount" gorm:"type:decimal(12,2)"`
	DealDate            time.Time  `json:"deal_date" gorm:"index"`
	NegotiationDuration float64    `json:"negotiation_duration" gorm:"default:0"` // days
	Status              SaleStatus `json:"status" gorm:"type:varchar(20);default:'sold';index"`
	IsDeleted           bool       `json:"is_deleted" gorm:"default:false;index"`
	Notes               string     `json:"notes,omitempty" gorm:"type:text"`

	// Relationships
	Seller   User      `json:"seller,omitempty" gorm:"foreignKey:SellerID"`
	Buyer    User      `json:"buyer,omitempty" gorm:"foreignKey:BuyerID"`
	Asset    Asset     `json:"asset,omitempty" gorm:"foreignKey:AssetID"`
	Interest *Interest `json:"interest,omitempty" gorm:"foreignKey:InterestID"`
}

// PaidPrice resolves the unit price paid: price, then the legacy
// final_price column, then zero.
func (s *Sale) PaidPrice() float64 {
	if s.Price != nil {
		return *s.Price
	}
	if s.FinalPrice != nil {
		return *s.FinalPrice
	}
	return 0
}

// SpendAmount is the fallback chain used by customer insights: unit
// price first, then the total deal value.
func (s *Sale) SpendAmount() float64 {
	if s.Price != nil {
		return *s.Price
	}
	if s.TotalAmount != 0 {
		return s.TotalAmount
	}
	return 0
}

// EffectiveDate is the deal date, falling back to the record's creation
// time for rows imported without one.
func (s *Sale) EffectiveDate() time.Time {
	if !s.DealDate.IsZero() {
		return s.DealDate
	}
	return s.CreatedAt
}
