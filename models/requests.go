package models

// Request bodies accepted by the API. The binding tags are enforced by gin on
// the server and by the client package before anything is sent.

type RegisterRequest struct {
	Username        string   `json:"username" binding:"required,notblank"`
	Email           string   `json:"email" binding:"required,email"`
	Phone           string   `json:"phone" binding:"required,len=10,number"`
	Password        string   `json:"password" binding:"required,min=8"`
	ConfirmPassword string   `json:"confirmPassword" binding:"required,eqfield=Password"`
	Role            UserRole `json:"role" binding:"required,oneof=Admin User"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type ResetPasswordRequest struct {
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword,omitempty" binding:"omitempty,eqfield=Password"`
}

type DishRequest struct {
	DishName    string   `json:"dishName" form:"dishName" binding:"required,notblank"`
	Description string   `json:"description" form:"description" binding:"required,notblank"`
	Cuisine     string   `json:"cuisine" form:"cuisine" binding:"required,notblank"`
	Price       *float64 `json:"price" form:"price" binding:"required,gte=0"`
	IsAvailable *bool    `json:"isAvailable,omitempty" form:"isAvailable"`
	CoverImage  string   `json:"coverImage,omitempty" form:"coverImage"`
}

type OrderLineRequest struct {
	Dish     uint `json:"dish" binding:"required"`
	Quantity int  `json:"quantity" binding:"required,min=1"`
}

type PlaceOrderRequest struct {
	OrderItems      []OrderLineRequest `json:"orderItems" binding:"required,min=1,dive"`
	ShippingAddress string             `json:"shippingAddress" binding:"required,notblank"`
	BillingAddress  string             `json:"billingAddress" binding:"required,notblank"`
}

type UpdateOrderRequest struct {
	OrderStatus string `json:"orderStatus" binding:"required"`
	Note        string `json:"note,omitempty"`
	Force       bool   `json:"force,omitempty"`
}

type ReviewRequest struct {
	Dish       uint   `json:"dish" binding:"required"`
	Rating     int    `json:"rating" binding:"required,min=1,max=5"`
	ReviewText string `json:"reviewText" binding:"required,notblank"`
}

type UpdateReviewRequest struct {
	Rating     int    `json:"rating" binding:"required,min=1,max=5"`
	ReviewText string `json:"reviewText" binding:"required,notblank"`
}
