// internal/models/interest.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// Interest is a buyer's lead on an asset. It moves
// pending -> negotiating -> accepted/rejected; acceptance alone does not
// create a Sale, that is a separate idempotent step keyed by the
// interest id.
type Interest struct {
	BaseModel
	BuyerID              uuid.UUID      `json:"buyer_id" gorm:"type:uuid;not null;index"`
	SellerID             uuid.UUID      `json:"seller_id" gorm:"type:uuid;not null;index"`
	AssetID              uuid.UUID      `json:"asset_id" gorm:"type:uuid;not null;index"`
	Message              string         `json:"message,omitempty" gorm:"type:text"`
	Status               InterestStatus `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	NegotiationStartDate *time.Time     `json:"negotiation_start_date,omitempty"`
	SalesStatus          *SaleStatus    `json:"sales_status,omitempty" gorm:"type:varchar(20)"`

	// Relationships
	Buyer  User  `json:"buyer,omitempty" gorm:"foreignKey:BuyerID"`
	Seller User  `json:"seller,omitempty" gorm:"foreignKey:SellerID"`
	Asset  Asset `json:"asset,omitempty" gorm:"foreignKey:AssetID"`
}
