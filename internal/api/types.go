package api

// Product mirrors the backend catalog payload. Stock flags are computed by
// the backend; this layer consumes them as-is.
type Product struct {
	ID             int64   `json:"id"`
	Name           string  `json:"name"`
	Description    string  `json:"description"`
	PriceCAD       float64 `json:"price_cad"`
	ImageURL       string  `json:"image_url"`
	Specifications string  `json:"specifications"`
	IsActive       bool    `json:"is_active"`
	StockQuantity  *int    `json:"stock_quantity"`
	IsInStock      bool    `json:"is_in_stock"`
	IsLowStock     bool    `json:"is_low_stock"`
}

type productListPayload struct {
	Products []Product `json:"products"`
	Total    int       `json:"total"`
}

// CheckoutItem is one product/quantity pair in a checkout submission.
type CheckoutItem struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// ShippingAddress carries the customer and destination fields the backend
// requires; Phone and AddressLine2 are optional.
type ShippingAddress struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone,omitempty"`
	AddressLine1 string `json:"address_line1"`
	AddressLine2 string `json:"address_line2,omitempty"`
	City         string `json:"city"`
	State        string `json:"state"`
	PostalCode   string `json:"postal_code"`
	Country      string `json:"country"`
}

// CheckoutRequest is the cart snapshot posted to the backend.
type CheckoutRequest struct {
	Items           []CheckoutItem  `json:"items"`
	ShippingAddress ShippingAddress `json:"shipping_address"`
	PaymentMethod   string          `json:"payment_method"`
	// IdempotencyKey is sent as a header, not in the body.
	IdempotencyKey string `json:"-"`
}

// OrderItem is a line-item snapshot taken at checkout time, decoupled from
// the live catalog so historical orders stay stable.
type OrderItem struct {
	ID          int64   `json:"id"`
	ProductID   int64   `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	PriceCAD    float64 `json:"price_cad"`
	SubtotalCAD float64 `json:"subtotal_cad"`
}

// Order is the backend's order representation, used for the confirmation
// page and the admin order table.
type Order struct {
	ID                   int64       `json:"id"`
	OrderNumber          string      `json:"order_number"`
	Status               string      `json:"status"`
	PaymentMethod        string      `json:"payment_method"`
	CustomerName         string      `json:"customer_name"`
	CustomerEmail        string      `json:"customer_email"`
	CustomerPhone        string      `json:"customer_phone"`
	ShippingAddressLine1 string      `json:"shipping_address_line1"`
	ShippingAddressLine2 string      `json:"shipping_address_line2"`
	ShippingCity         string      `json:"shipping_city"`
	ShippingState        string      `json:"shipping_state"`
	ShippingPostalCode   string      `json:"shipping_postal_code"`
	ShippingCountry      string      `json:"shipping_country"`
	SubtotalCAD          float64     `json:"subtotal_cad"`
	ShippingCostCAD      float64     `json:"shipping_cost_cad"`
	TotalCAD             float64     `json:"total_cad"`
	TrackingNumber       string      `json:"tracking_number"`
	Items                []OrderItem `json:"items"`
	CreatedAt            string      `json:"created_at"`
	UpdatedAt            string      `json:"updated_at"`
	ShippedAt            string      `json:"shipped_at"`
	DeliveredAt          string      `json:"delivered_at"`
}

type orderListPayload struct {
	Orders []Order `json:"orders"`
	Total  int     `json:"total"`
}

// OrderUpdate carries an admin status transition and optional tracking number.
type OrderUpdate struct {
	Status         string `json:"status"`
	TrackingNumber string `json:"tracking_number,omitempty"`
}

// DashboardStats aggregates counts and revenue for the admin dashboard.
type DashboardStats struct {
	TotalProducts    int     `json:"total_products"`
	TotalOrders      int     `json:"total_orders"`
	PendingOrders    int     `json:"pending_orders"`
	PaidOrders       int     `json:"paid_orders"`
	LowStockProducts int     `json:"low_stock_products"`
	TotalRevenueCAD  float64 `json:"total_revenue_cad"`
}

type tokenPayload struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}
