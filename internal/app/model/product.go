package model

import (
	"time"

	"gorm.io/gorm"
)

type ProductCategory string

const (
	CategoryGrocery    ProductCategory = "grocery"
	CategoryHousehold  ProductCategory = "household"
	CategoryElectronic ProductCategory = "electronics"
	CategoryFashion    ProductCategory = "fashion"
)

type Product struct {
	ID             uint            `gorm:"primarykey" json:"id"`
	Name           string          `gorm:"not null" json:"name"`
	Description    string          `gorm:"type:text" json:"description"`
	Price          float64         `gorm:"not null" json:"price"`
	OldPrice       *float64        `json:"old_price,omitempty"`       // pre-discount price, display only
	ShippingAmount float64         `json:"shipping_amount"`           // additive per-unit shipping cost
	Category       ProductCategory `gorm:"type:varchar(50)" json:"category"`
	StockQuantity  int             `gorm:"default:0" json:"stock_quantity"`
	ImageURL       string          `json:"image_url"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	DeletedAt      gorm.DeletedAt  `gorm:"index" json:"-"`

	// Relationships
	BulkTier   *BulkTier   `gorm:"foreignKey:ProductID" json:"bulk_tier,omitempty"`
	OrderItems []OrderItem `gorm:"foreignKey:ProductID" json:"-"`
}

func (Product) TableName() string {
	return "products"
}

// BulkTier holds the bulk pricing record for a bulk-eligible product.
// At most one tier per product.
type BulkTier struct {
	ID                 uint           `gorm:"primarykey" json:"id"`
	ProductID          uint           `gorm:"not null;uniqueIndex" json:"product_id"`
	MinQuantity        int            `gorm:"not null;default:1" json:"min_quantity"`
	BulkPrice          float64        `gorm:"not null" json:"bulk_price"`
	DiscountPercentage float64        `json:"discount_percentage"`
	IsBulkEnabled      bool           `gorm:"default:false" json:"is_bulk_enabled"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`
}

func (BulkTier) TableName() string {
	return "bulk_tiers"
}
