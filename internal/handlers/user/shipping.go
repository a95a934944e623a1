package user

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"vastra_back_end/internal/checkout"
)

// ShippingQuote retourne les frais de livraison pour un sous-total donné.
// La livraison devient gratuite au-dessus du seuil.
func ShippingQuote(c *gin.Context) {
	subtotal, err := strconv.ParseFloat(c.DefaultQuery("subtotal", "0"), 64)
	if err != nil || subtotal < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid subtotal"})
		return
	}

	maxCharge, err := strconv.ParseFloat(c.DefaultQuery("max_line_charge", "0"), 64)
	if err != nil || maxCharge < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid max_line_charge"})
		return
	}

	freeShipping := subtotal > checkout.FreeShippingThreshold
	charge := maxCharge
	if freeShipping {
		charge = 0
	}

	c.JSON(http.StatusOK, gin.H{
		"subtotal":                subtotal,
		"shipping_charge":         charge,
		"free_shipping":           freeShipping,
		"free_shipping_threshold": checkout.FreeShippingThreshold,
		"total":                   subtotal + charge,
	})
}
