package model

import (
	"time"

	"gorm.io/gorm"
)

type OrderType string     // regular vs bulk submission path
type OrderStatus string   // order lifecycle state
type PaymentStatus string // payment lifecycle state

const (
	OrderTypeRegular OrderType = "regular" // standard payment capture path
	OrderTypeBulk    OrderType = "bulk"    // bulk submission, payment bypassed

	OrderStatusPending       OrderStatus = "pending"        // order received
	OrderStatusPendingReview OrderStatus = "pending_review" // bulk order awaiting review
	OrderStatusConfirmed     OrderStatus = "confirmed"
	OrderStatusShipping      OrderStatus = "shipping"
	OrderStatusDelivered     OrderStatus = "delivered"
	OrderStatusCancelled     OrderStatus = "cancelled"

	PaymentStatusPending     PaymentStatus = "pending"
	PaymentStatusCompleted   PaymentStatus = "completed"
	PaymentStatusFailed      PaymentStatus = "failed"
	PaymentStatusRefunded    PaymentStatus = "refunded"
	PaymentStatusNotRequired PaymentStatus = "not_required" // bulk orders skip capture
)

type Order struct {
	ID            uint           `gorm:"primarykey" json:"id"`
	OrderNumber   string         `gorm:"type:varchar(40);uniqueIndex" json:"order_number"`
	ClientID      string         `gorm:"type:varchar(40);not null;index" json:"client_id"`
	Type          OrderType      `gorm:"type:varchar(20);default:'regular'" json:"type"`
	Status        OrderStatus    `gorm:"type:varchar(20);default:'pending'" json:"status"`
	PaymentStatus PaymentStatus  `gorm:"type:varchar(20);default:'pending'" json:"payment_status"`
	ItemsTotal    float64        `gorm:"not null" json:"items_total"`
	ShippingTotal float64        `json:"shipping_total"`
	TaxAmount     float64        `json:"tax_amount"`
	TotalAmount   float64        `gorm:"not null" json:"total_amount"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	OrderItems []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"order_items,omitempty"`
}

func (Order) TableName() string {
	return "orders"
}

type OrderItem struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	OrderID   uint           `gorm:"not null;index" json:"order_id"`
	ProductID uint           `gorm:"not null;index" json:"product_id"`
	Name      string         `gorm:"not null" json:"name"`
	UnitPrice float64        `gorm:"not null" json:"unit_price"`
	Shipping  float64        `json:"shipping"`
	Quantity  int            `gorm:"not null" json:"quantity"`
	IsBulk    bool           `gorm:"default:false" json:"is_bulk"`
	// Variations holds the selected options as JSON, frozen at checkout time.
	Variations string         `gorm:"type:text" json:"variations,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`

	Order   Order   `gorm:"foreignKey:OrderID" json:"-"`
	Product Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

func (OrderItem) TableName() string {
	return "order_items"
}
