// internal/models/common.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Enums
type UserRole string

const (
	UserRoleBuyer  UserRole = "buyer"
	UserRoleSeller UserRole = "seller"
	UserRoleAdmin  UserRole = "admin"
)

type AssetStatus string

const (
	AssetStatusActive   AssetStatus = "active"
	AssetStatusInactive AssetStatus = "inactive"
)

type InterestStatus string

const (
	InterestStatusPending     InterestStatus = "pending"
	InterestStatusNegotiating InterestStatus = "negotiating"
	InterestStatusAccepted    InterestStatus = "accepted"
	InterestStatusRejected    InterestStatus = "rejected"
)

type SaleStatus string

// SaleStatusSold is the canonical revenue status: every analytics
// aggregation counts a sale only when status is "sold" and is_deleted is
// false. "completed" marks deals settled off-platform and is excluded
// from revenue.
const (
	SaleStatusSold      SaleStatus = "sold"
	SaleStatusUnsold    SaleStatus = "unsold"
	SaleStatusCompleted SaleStatus = "completed"
	SaleStatusRefunded  SaleStatus = "refunded"
	SaleStatusDisputed  SaleStatus = "disputed"
)
