package product

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"vastra_back_end/internal/cache"
	"vastra_back_end/internal/database"
	"vastra_back_end/internal/models"
)

//
// 🟢 POST /api/products/:id/reviews
//
// CreateReview crée un avis ; réservé aux clients ayant acheté le produit
func CreateReview(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	var req struct {
		Rating  int    `json:"rating" binding:"required,min=1,max=5"`
		Comment string `json:"comment" binding:"required,min=10,max=500"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid review data", "details": err.Error()})
		return
	}

	productID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product id"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Vérifier que le produit existe
	if err := database.Products().FindOne(ctx, bson.M{"_id": productID}).Err(); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	// Vérifier que l'utilisateur a bien acheté ce produit
	count, err := database.Orders().CountDocuments(ctx, bson.M{
		"user_id":          userID,
		"items.product_id": c.Param("id"),
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not verify purchase"})
		return
	}
	if count == 0 {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only review products you have purchased"})
		return
	}

	// Récupérer le nom du client pour l'affichage
	userName := "Customer"
	if u, err := cache.GetUserFromCache(userID); err == nil && u.Name != "" {
		userName = u.Name
	}

	review := models.Review{
		ID:        primitive.NewObjectID(),
		ProductID: productID,
		UserID:    userID,
		UserName:  userName,
		Rating:    req.Rating,
		Comment:   req.Comment,
		CreatedAt: time.Now().UTC(),
	}

	if _, err := database.Reviews().InsertOne(ctx, review); err != nil {
		// Index unique (product_id, user_id) : un seul avis par client
		c.JSON(http.StatusConflict, gin.H{"error": "You have already reviewed this product"})
		return
	}

	log.Printf("✅ Avis créé sur %s par %s", c.Param("id"), userID)
	c.JSON(http.StatusCreated, review)
}

//
// 🟢 GET /api/products/:id/reviews
//
func GetProductReviews(c *gin.Context) {
	productID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product id"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(100)
	cursor, err := database.Reviews().Find(ctx, bson.M{"product_id": productID}, opts)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch reviews"})
		return
	}
	defer cursor.Close(ctx)

	reviews := []models.Review{}
	if err := cursor.All(ctx, &reviews); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not decode reviews"})
		return
	}

	var average float64
	for _, r := range reviews {
		average += float64(r.Rating)
	}
	if len(reviews) > 0 {
		average /= float64(len(reviews))
	}

	c.JSON(http.StatusOK, gin.H{
		"reviews": reviews,
		"rating": models.ProductRating{
			ProductID:     productID,
			AverageRating: average,
			TotalReviews:  len(reviews),
		},
	})
}
