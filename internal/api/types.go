package api

import "fmt"

// Product mirrors the backend product record.
type Product struct {
	ID                 int64    `json:"id"`
	Name               string   `json:"name"`
	Description        string   `json:"description,omitempty"`
	Price              float64  `json:"price"`
	DiscountPercentage float64  `json:"discountPercentage"`
	Stock              int      `json:"stock"`
	CategoryID         int64    `json:"categoryId,omitempty"`
	ImageURLs          []string `json:"imageUrls,omitempty"`
	ImageData          string   `json:"imageData,omitempty"`
	ImageType          string   `json:"imageType,omitempty"`
}

// Image resolves the display image: inline data when present, otherwise the
// first URL, otherwise a placeholder.
func (p Product) Image() string {
	if p.ImageData != "" && p.ImageType != "" {
		return fmt.Sprintf("data:%s;base64,%s", p.ImageType, p.ImageData)
	}
	if len(p.ImageURLs) > 0 {
		return p.ImageURLs[0]
	}
	return "https://via.placeholder.com/100"
}

// EffectivePrice is the unit price after applying the discount percentage.
func (p Product) EffectivePrice() float64 {
	if p.DiscountPercentage > 0 {
		return p.Price - (p.Price*p.DiscountPercentage)/100
	}
	return p.Price
}

// Category mirrors the backend category record.
type Category struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// User mirrors the backend user record.
type User struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Address   string `json:"address"`
	Role      string `json:"role,omitempty"`
}

// OrderItem is a single order line: product reference and quantity only.
// Prices are never sent; the server prices orders authoritatively.
type OrderItem struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

// PaymentMethod is the payment payload attached to an order.
// The CVV is validated locally and deliberately never transmitted.
type PaymentMethod struct {
	Type       string `json:"type"`
	CardNumber string `json:"cardNumber"`
	ExpiryDate string `json:"expiryDate"`
}

// OrderDraft is the order-creation request body.
type OrderDraft struct {
	Items           []OrderItem   `json:"items"`
	ShippingAddress string        `json:"shippingAddress"`
	PaymentMethod   PaymentMethod `json:"paymentMethod"`
}

// OrderResult is the order-creation response. The order identifier is embedded
// in the human-readable message rather than returned as a structured field.
type OrderResult struct {
	Message string `json:"message"`
}

// Order mirrors a backend purchase order record.
type Order struct {
	ID        int64       `json:"id"`
	UserID    int64       `json:"userId,omitempty"`
	Status    string      `json:"status"`
	Total     float64     `json:"total,omitempty"`
	CreatedAt string      `json:"createdAt,omitempty"`
	Items     []OrderItem `json:"items,omitempty"`
}

// TokenResponse is the authentication response.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
}
