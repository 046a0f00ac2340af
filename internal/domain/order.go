package domain

import "time"

type PaymentMethod string

const (
	PaymentCashOnDelivery PaymentMethod = "cashOnDelivery"
)

func (p PaymentMethod) Valid() bool {
	return p == PaymentCashOnDelivery
}

func (p PaymentMethod) String() string {
	return string(p)
}

type CustomerInfo struct {
	FullName    string `json:"fullName"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
}

type DeliveryAddress struct {
	StreetAddress string `json:"streetAddress"`
	City          string `json:"city"`
	State         string `json:"state"`
	ZipCode       string `json:"zipCode"`
	Country       string `json:"country"`
}

// OrderLine is the per-book shape the orders API expects.
type OrderLine struct {
	Title    string  `json:"title"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// OrderDraft is the transient payload assembled for one checkout attempt.
// It is never persisted; the coordinator owns it for the duration of a
// single submission. The embedded structs keep the wire format flat.
type OrderDraft struct {
	CustomerInfo
	DeliveryAddress
	DeliveryNote   string        `json:"deliveryNote"`
	PaymentMethod  PaymentMethod `json:"paymentMethod"`
	Books          []OrderLine   `json:"books"`
	Total          float64       `json:"total"`
	UserID         string        `json:"userId"`
	IdempotencyKey string        `json:"idempotencyKey,omitempty"`
}

// Order is the created record echoed back by the orders API.
type Order struct {
	ID            string        `json:"_id"`
	FullName      string        `json:"fullName"`
	Email         string        `json:"email"`
	PhoneNumber   string        `json:"phoneNumber"`
	StreetAddress string        `json:"streetAddress"`
	City          string        `json:"city"`
	State         string        `json:"state"`
	ZipCode       string        `json:"zipCode"`
	Country       string        `json:"country"`
	DeliveryNote  string        `json:"deliveryNote"`
	PaymentMethod PaymentMethod `json:"paymentMethod"`
	Books         []OrderLine   `json:"books"`
	Total         float64       `json:"total"`
	UserID        string        `json:"userId"`
	CreatedAt     time.Time     `json:"createdAt"`
}
