package models

import "time"

// Product represents a product in the catalog. Stock is a weak back-reference
// owned by the stock side; it is resolved (preloaded) on every read path so
// API consumers always see the same shape, and serializes as {"quantity": n}
// or null. Deletion is a hard delete, so no gorm.Model/DeletedAt here.
type Product struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name        string    `json:"name" validate:"required"`
	Description string    `json:"description" validate:"required,max=500"`
	Price       float64   `json:"price" validate:"required,gt=0"`
	Image       string    `json:"image,omitempty"`
	UserID      string    `json:"userId" gorm:"type:varchar(36);index"`
	StockID     *string   `json:"-" gorm:"type:varchar(36)"`
	Stock       *Stock    `json:"stock" gorm:"foreignKey:StockID"`
	CreatedAt   time.Time `json:"-"`
	UpdatedAt   time.Time `json:"-"`
}
