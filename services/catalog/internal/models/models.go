package models

import (
	"time"

	"github.com/google/uuid"
)

type Product struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"  json:"id"`
	Name        string    `gorm:"not null"              json:"name"        validate:"required,max=200"`
	Description string    `gorm:"not null"              json:"description" validate:"max=4000"`
	Category    string    `gorm:"not null;index"        json:"category"    validate:"required,max=100"`
	Price       float64   `gorm:"not null;index"        json:"price"       validate:"gte=0"`
	Rating      float64   `gorm:"not null"              json:"rating"      validate:"gte=0,lte=5"`
	CreatedAt   time.Time `gorm:"not null"              json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null"              json:"updated_at"`
}

// ProductFilter bounds are inclusive; nil and empty fields do not constrain.
type ProductFilter struct {
	Category  string
	MinPrice  *float64
	MaxPrice  *float64
	MinRating *float64
}
