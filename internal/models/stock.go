package models

import "time"

// Stock tracks the available quantity for a single product. Products point at
// stock rows through Product.StockID; only the quantity is exposed when a
// stock row is populated into a product response.
type Stock struct {
	ID        string    `json:"-" gorm:"primaryKey;type:varchar(36)"`
	ProductID string    `json:"-" gorm:"type:varchar(36);uniqueIndex"`
	Quantity  int       `json:"quantity" validate:"gte=0"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}
