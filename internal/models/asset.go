// internal/models/asset.go
package models

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
)

type Asset struct {
	BaseModel
	SellerID    uuid.UUID      `json:"seller_id" gorm:"type:uuid;not null;index"`
	BusinessID  *uuid.UUID     `json:"business_id,omitempty" gorm:"type:uuid;index"`
	Title       string         `json:"title" gorm:"size:255;not null"`
	Description string         `json:"description" gorm:"type:text"`
	Category    string         `json:"category" gorm:"size:100;index"`
	Condition   string         `json:"condition" gorm:"size:50"`
	Price       float64        `json:"price" gorm:"type:decimal(12,2);not null"`
	CostPrice   *float64       `json:"cost_price,omitempty" gorm:"type:decimal(12,2)"`
	Quantity    int            `json:"quantity" gorm:"default:1"`
	Location    string         `json:"location" gorm:"size:255"`
	Images      pq.StringArray `json:"images" gorm:"type:text[]"`
	Views       int64          `json:"views" gorm:"default:0"`
	Status      AssetStatus    `json:"status" gorm:"type:varchar(20);default:'active';index"`

	// Relationships
	Seller    User       `json:"seller,omitempty" gorm:"foreignKey:SellerID"`
	Business  *Business  `json:"business,omitempty" gorm:"foreignKey:BusinessID"`
	Sales     []Sale     `json:"sales,omitempty" gorm:"foreignKey:AssetID"`
	Interests []Interest `json:"interests,omitempty" gorm:"foreignKey:AssetID"`
}

// CostPriceOrZero treats a missing cost basis as zero, which makes the
// whole paid price count as profit.
func (a *Asset) CostPriceOrZero() float64 {
	if a.CostPrice == nil {
		return 0
	}
	return *a.CostPrice
}
