// internal/models/user.go
package models

import (
	"golang.org/x/crypto/bcrypt"
)

type User struct {
	BaseModel
	FullName     string   `json:"full_name" gorm:"size:255;not null"`
	Email        string   `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string   `json:"-" gorm:"size:255;not null"`
	Role         UserRole `json:"role" gorm:"type:varchar(20);not null;default:'buyer'"`
	Phone        string   `json:"phone,omitempty" gorm:"size:50"`
	AvatarURL    string   `json:"avatar_url,omitempty" gorm:"size:512"`
	CompanyName  string   `json:"company_name,omitempty" gorm:"size:255"`
	Description  string   `json:"description,omitempty" gorm:"type:text"`

	// Mutated only by the buyer trust engine. MasteryBadges is a
	// monotonic counter; IsEliteEligible is the hysteresis gate that
	// keeps the award exactly-once per perfect-score crossing.
	MasteryBadges   int  `json:"mastery_badges" gorm:"default:0"`
	IsEliteEligible bool `json:"is_elite_eligible" gorm:"default:true"`

	// Relationships
	Businesses []Business `json:"businesses,omitempty" gorm:"foreignKey:OwnerID"`
	Assets     []Asset    `json:"assets,omitempty" gorm:"foreignKey:SellerID"`
	Interests  []Interest `json:"interests,omitempty" gorm:"foreignKey:BuyerID"`
	Purchases  []Sale     `json:"purchases,omitempty" gorm:"foreignKey:BuyerID"`
}

func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashedPassword)
	return nil
}

func (u *User) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
}
