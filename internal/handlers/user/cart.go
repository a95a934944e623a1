package user

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"vastra_back_end/internal/cache"
	"vastra_back_end/internal/database"
	"vastra_back_end/internal/models"
)

const cartTTL = 30 * 24 * time.Hour

func cartKey(userID string) string { return "cart:" + userID }

// loadCart lit le panier JSON depuis Redis (panier absent = panier vide)
func loadCart(ctx context.Context, userID string) ([]models.CartLine, error) {
	data, err := database.Redis.Get(ctx, cartKey(userID)).Result()
	if err == redis.Nil || data == "" {
		return []models.CartLine{}, nil
	}
	if err != nil {
		return nil, err
	}

	var lines []models.CartLine
	if err := json.Unmarshal([]byte(data), &lines); err != nil {
		return nil, err
	}
	return lines, nil
}

// saveCart écrit le panier et notifie les clients websocket
func saveCart(ctx context.Context, userID string, lines []models.CartLine, event string) error {
	data, err := json.Marshal(lines)
	if err != nil {
		return err
	}
	if err := database.Redis.Set(ctx, cartKey(userID), data, cartTTL).Err(); err != nil {
		return err
	}
	database.Redis.Publish(ctx, cartKey(userID), event)
	return nil
}

//
// 🟢 GET /api/cart
//
func GetCart(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	lines, err := loadCart(context.Background(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not read cart"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": lines})
}

//
// 🟢 POST /api/cart/add
//
func AddToCart(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	var input struct {
		ProductID string `json:"product_id" binding:"required"`
		Size      string `json:"size" binding:"required"`
		Color     string `json:"color" binding:"required"`
		Quantity  int    `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid cart data", "details": err.Error()})
		return
	}
	if input.Quantity <= 0 {
		input.Quantity = 1
	}

	// 🧩 Le produit doit exister et être disponible
	product, err := cache.GetProductFromCache(input.ProductID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	if !product.InStock {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Product is out of stock"})
		return
	}

	ctx := context.Background()
	lines, err := loadCart(ctx, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not read cart"})
		return
	}

	newLine := models.CartLine{
		ProductID:       input.ProductID,
		Name:            product.Name,
		Price:           product.Price,
		Size:            input.Size,
		Color:           input.Color,
		Quantity:        input.Quantity,
		ShippingCharges: product.ShippingCharges,
	}
	if len(product.ImageURLs) > 0 {
		newLine.Image = product.ImageURLs[0]
	}

	// Une seule ligne par triplet (produit, taille, couleur) : on fusionne
	lines = models.MergeLine(lines, newLine)

	if err := saveCart(ctx, userID, lines, "updated"); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not update cart"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": lines})
}

//
// 🟢 PUT /api/cart/update
//
func UpdateCartLine(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	var input struct {
		ProductID string `json:"product_id" binding:"required"`
		Size      string `json:"size" binding:"required"`
		Color     string `json:"color" binding:"required"`
		Quantity  int    `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid cart data"})
		return
	}

	ctx := context.Background()
	lines, err := loadCart(ctx, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not read cart"})
		return
	}

	key := (models.CartLine{ProductID: input.ProductID, Size: input.Size, Color: input.Color}).Key()
	updated := lines[:0]
	found := false
	for _, line := range lines {
		if line.Key() == key {
			found = true
			// Quantité ≤ 0 : la ligne est retirée
			if input.Quantity > 0 {
				line.Quantity = input.Quantity
				updated = append(updated, line)
			}
			continue
		}
		updated = append(updated, line)
	}

	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Cart line not found"})
		return
	}

	if err := saveCart(ctx, userID, updated, "updated"); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not update cart"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": updated})
}

//
// 🟢 DELETE /api/cart/clear
//
func ClearCart(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	ctx := context.Background()
	if err := database.Redis.Del(ctx, cartKey(userID)).Err(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not clear cart"})
		return
	}
	database.Redis.Publish(ctx, cartKey(userID), "cleared")

	c.JSON(http.StatusOK, gin.H{"items": []models.CartLine{}})
}
