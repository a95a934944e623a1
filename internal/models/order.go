package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OrderStatus string
type PaymentStatus string

const (
	OrderStatusProcessing OrderStatus = "Processing"
	OrderStatusShipped    OrderStatus = "Shipped"
	OrderStatusDelivered  OrderStatus = "Delivered"
	OrderStatusCancelled  OrderStatus = "Cancelled"

	PaymentStatusPendingApproval PaymentStatus = "Pending Approval"
	PaymentStatusApproved        PaymentStatus = "Approved"
	PaymentStatusRejected        PaymentStatus = "Rejected"
)

// StatusEvent est une entrée de l'historique de statut d'une commande.
// L'historique est append-only : on n'y modifie jamais une entrée existante.
type StatusEvent struct {
	Status    OrderStatus `bson:"status" json:"status"`
	Timestamp time.Time   `bson:"timestamp" json:"timestamp"`
	Comment   string      `bson:"comment" json:"comment"`
}

// CustomerInfo est le bloc de contact saisi au checkout
type CustomerInfo struct {
	FirstName string `bson:"first_name" json:"first_name"`
	LastName  string `bson:"last_name" json:"last_name"`
	Email     string `bson:"email" json:"email"`
	Phone     string `bson:"phone" json:"phone"`
}

// ShippingAddress contient l'adresse brute et sa version formatée
type ShippingAddress struct {
	Address   string `bson:"address" json:"address"`
	City      string `bson:"city" json:"city"`
	State     string `bson:"state" json:"state"`
	Pincode   string `bson:"pincode" json:"pincode"`
	Formatted string `bson:"formatted" json:"formatted"`
}

// Order est l'enregistrement durable créé à la confirmation du paiement.
// La première entrée de StatusHistory est toujours
// {Processing, created_at, "Order placed successfully"}.
type Order struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID          string             `bson:"user_id" json:"user_id"`
	Customer        CustomerInfo       `bson:"customer" json:"customer"`
	ShippingAddress ShippingAddress    `bson:"shipping_address" json:"shipping_address"`
	PaymentMethod   string             `bson:"payment_method" json:"payment_method"`
	PaymentStatus   PaymentStatus      `bson:"payment_status" json:"payment_status"`
	TransactionID   string             `bson:"transaction_id" json:"transaction_id"`
	Subtotal        float64            `bson:"subtotal" json:"subtotal"`
	ShippingCharge  float64            `bson:"shipping_charge" json:"shipping_charge"`
	Total           float64            `bson:"total" json:"total"`
	Items           []CartLine         `bson:"items" json:"items"`
	Status          OrderStatus        `bson:"status" json:"status"`
	StatusHistory   []StatusEvent      `bson:"status_history" json:"status_history"`
	CreatedAt       time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt       time.Time          `bson:"updated_at" json:"updated_at"`
}
