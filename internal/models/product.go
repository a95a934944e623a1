package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Product struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name            string             `bson:"name" json:"name"`
	Description     string             `bson:"description" json:"description"`
	Price           float64            `bson:"price" json:"price"`
	Category        string             `bson:"category" json:"category"`
	Sizes           []string           `bson:"sizes" json:"sizes"`
	Colors          []string           `bson:"colors" json:"colors"`
	ImageURLs       []string           `bson:"image_urls" json:"image_urls"`
	Tags            []string           `bson:"tags" json:"tags"`
	InStock         bool               `bson:"in_stock" json:"in_stock"`
	ShippingCharges float64            `bson:"shipping_charges" json:"shipping_charges"`
	CreatedAt       time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt       time.Time          `bson:"updated_at" json:"updated_at"`
}
