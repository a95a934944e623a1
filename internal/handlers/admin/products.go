package admin

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"vastra_back_end/internal/cache"
	"vastra_back_end/internal/database"
	"vastra_back_end/internal/models"
	"vastra_back_end/internal/services"
	"vastra_back_end/internal/utils"
)

type productInput struct {
	Name            string   `json:"name" binding:"required"`
	Description     string   `json:"description"`
	Price           float64  `json:"price" binding:"required,gt=0"`
	Category        string   `json:"category" binding:"required"`
	Sizes           []string `json:"sizes"`
	Colors          []string `json:"colors"`
	Tags            []string `json:"tags"`
	InStock         bool     `json:"in_stock"`
	ShippingCharges float64  `json:"shipping_charges" binding:"gte=0"`
}

//
// 🟢 POST /api/admin/products
//
func CreateProduct(c *gin.Context) {
	var input productInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product data", "details": err.Error()})
		return
	}

	now := time.Now().UTC()
	product := models.Product{
		ID:              primitive.NewObjectID(),
		Name:            input.Name,
		Description:     input.Description,
		Price:           input.Price,
		Category:        input.Category,
		Sizes:           input.Sizes,
		Colors:          input.Colors,
		Tags:            input.Tags,
		InStock:         input.InStock,
		ShippingCharges: input.ShippingCharges,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := database.Products().InsertOne(ctx, product); err != nil {
		log.Printf("❌ Erreur création produit: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create product"})
		return
	}

	// Indexation pour la recherche, hors du chemin critique
	go services.IndexProduct(product)
	utils.LogAction(c, "create", "product", product.ID.Hex(), nil, product)

	c.JSON(http.StatusCreated, product)
}

//
// 🟢 PUT /api/admin/products/:id
//
func UpdateProduct(c *gin.Context) {
	oid, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product id"})
		return
	}

	var input productInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product data", "details": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var before models.Product
	if err := database.Products().FindOne(ctx, bson.M{"_id": oid}).Decode(&before); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	update := bson.M{"$set": bson.M{
		"name":             input.Name,
		"description":      input.Description,
		"price":            input.Price,
		"category":         input.Category,
		"sizes":            input.Sizes,
		"colors":           input.Colors,
		"tags":             input.Tags,
		"in_stock":         input.InStock,
		"shipping_charges": input.ShippingCharges,
		"updated_at":       time.Now().UTC(),
	}}

	if _, err := database.Products().UpdateOne(ctx, bson.M{"_id": oid}, update); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not update product"})
		return
	}

	var after models.Product
	if err := database.Products().FindOne(ctx, bson.M{"_id": oid}).Decode(&after); err == nil {
		go services.IndexProduct(after)
	}

	cache.InvalidateProductCache(c.Param("id"))
	utils.LogAction(c, "update", "product", c.Param("id"), before, after)

	c.JSON(http.StatusOK, after)
}

//
// 🟢 DELETE /api/admin/products/:id
//
func DeleteProduct(c *gin.Context) {
	oid, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product id"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	res, err := database.Products().DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil || res.DeletedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	go services.RemoveProductFromIndex(c.Param("id"))
	cache.InvalidateProductCache(c.Param("id"))
	utils.LogAction(c, "delete", "product", c.Param("id"), nil, nil)

	log.Printf("🗑️ Produit supprimé: %s", c.Param("id"))
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

//
// 🟢 POST /api/admin/products/:id/images
//
// Upload d'une image produit vers MinIO ; l'URL publique est ajoutée au produit
func UploadProductImage(c *gin.Context) {
	oid, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product id"})
		return
	}

	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Image file is required"})
		return
	}

	url, err := services.UploadProductImage(file)
	if err != nil {
		log.Printf("❌ Erreur upload MinIO: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not upload image"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	update := bson.M{
		"$push": bson.M{"image_urls": url},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	}
	if _, err := database.Products().UpdateOne(ctx, bson.M{"_id": oid}, update); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not attach image"})
		return
	}

	cache.InvalidateProductCache(c.Param("id"))
	utils.LogAction(c, "upload_image", "product", c.Param("id"), nil, gin.H{"url": url})

	c.JSON(http.StatusCreated, gin.H{"url": url})
}
