// internal/models/business.go
package models

import (
	"github.com/google/uuid"
)

type Business struct {
	BaseModel
	OwnerID      uuid.UUID `json:"owner_id" gorm:"type:uuid;not null;index"`
	BusinessName string    `json:"business_name" gorm:"size:255;not null"`
	ImageURL     string    `json:"image_url,omitempty" gorm:"size:512"`
	City         string    `json:"city,omitempty" gorm:"size:100"`
	Place        string    `json:"place,omitempty" gorm:"size:255"`

	// Relationships
	Owner  User    `json:"owner,omitempty" gorm:"foreignKey:OwnerID"`
	Assets []Asset `json:"assets,omitempty" gorm:"foreignKey:BusinessID"`
}
