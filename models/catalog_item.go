package models

import "time"

// CatalogItem is a sellable digital good. Price is the display string shown
// in the storefront (e.g. "$3", "$10/MO"); the checkout service normalizes it
// to minor currency units when building a session.
type CatalogItem struct {
	ID          string    `gorm:"type:varchar(64);primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(255);not null" json:"name"`
	Price       string    `gorm:"type:varchar(32);not null" json:"price"`
	Description string    `gorm:"type:text" json:"description"`
	PDFURL      string    `gorm:"type:varchar(1024)" json:"pdf_url"`
	ImgURL      string    `gorm:"type:varchar(1024)" json:"img_url"`
	IsActive    bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
