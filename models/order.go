package models

import "time"

// OrderStatus is one stage of the order tracker
type OrderStatus string

const (
	StatusPending        OrderStatus = "Pending"
	StatusAccepted       OrderStatus = "Accepted"
	StatusPreparing      OrderStatus = "Preparing"
	StatusOutForDelivery OrderStatus = "OutForDelivery"
	StatusDelivered      OrderStatus = "Delivered"
)

type Order struct {
	ID              uint                 `json:"id" gorm:"primaryKey"`
	UserID          uint                 `json:"user" gorm:"index;not null"`
	OrderItems      []OrderItem          `json:"orderItems" gorm:"foreignKey:OrderID"`
	TotalAmount     float64              `json:"totalAmount"`
	ShippingAddress string               `json:"shippingAddress" gorm:"not null"`
	BillingAddress  string               `json:"billingAddress" gorm:"not null"`
	OrderStatus     OrderStatus          `json:"orderStatus" gorm:"not null;default:'Pending'"`
	OrderDate       time.Time            `json:"orderDate"`
	StatusHistory   []OrderStatusHistory `json:"statusHistory,omitempty" gorm:"foreignKey:OrderID"`
	CreatedAt       time.Time            `json:"createdAt"`
	UpdatedAt       time.Time            `json:"updatedAt"`
}

type OrderItem struct {
	ID       uint    `json:"id" gorm:"primaryKey"`
	OrderID  uint    `json:"order" gorm:"index;not null"`
	DishID   uint    `json:"dishId" gorm:"not null"`
	Dish     *Dish   `json:"dish,omitempty" gorm:"foreignKey:DishID"`
	Quantity int     `json:"quantity" gorm:"not null"`
	Price    float64 `json:"price" gorm:"not null"` // dish price when the order was placed
}

// OrderStatusHistory is the audit trail of status changes
type OrderStatusHistory struct {
	ID         uint        `json:"id" gorm:"primaryKey"`
	OrderID    uint        `json:"order" gorm:"index;not null"`
	FromStatus OrderStatus `json:"fromStatus"`
	ToStatus   OrderStatus `json:"toStatus" gorm:"not null"`
	ChangedBy  uint        `json:"changedBy"`
	Note       string      `json:"note"`
	CreatedAt  time.Time   `json:"createdAt"`
}

// OrderSummary is the admin dashboard view of all orders, with the user,
// dish and review totals shown next to it. TotalUsers leaves admins out.
type OrderSummary struct {
	Count        int                 `json:"count"`
	ByStatus     map[OrderStatus]int `json:"byStatus"`
	TotalRevenue float64             `json:"totalRevenue"`
	TotalUsers   int                 `json:"totalUsers"`
	TotalDishes  int                 `json:"totalDishes"`
	TotalReviews int                 `json:"totalReviews"`
}
