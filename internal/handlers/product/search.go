package product

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vastra_back_end/internal/services"
)

//
// 🟢 GET /api/products/search?q=kurta
//
// Recherche plein texte via Elasticsearch
func SearchProducts(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Query parameter 'q' is required"})
		return
	}

	results, err := services.SearchProducts(query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Search is unavailable right now"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"query":   query,
		"results": results,
		"count":   len(results),
	})
}
