package admin

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"vastra_back_end/internal/database"
	"vastra_back_end/internal/models"
	"vastra_back_end/internal/utils"
)

// Transitions de statut autorisées pour le back office
var allowedTransitions = map[models.OrderStatus][]models.OrderStatus{
	models.OrderStatusProcessing: {models.OrderStatusShipped, models.OrderStatusCancelled},
	models.OrderStatusShipped:    {models.OrderStatusDelivered, models.OrderStatusCancelled},
	models.OrderStatusDelivered:  {},
	models.OrderStatusCancelled:  {},
}

func transitionAllowed(from, to models.OrderStatus) bool {
	for _, s := range allowedTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

//
// 🟢 GET /api/admin/orders
//
// Liste paginée de toutes les commandes, filtrable par statut
func ListOrders(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	filter := bson.M{}
	if status := c.Query("status"); status != "" {
		filter["status"] = status
	}
	if payment := c.Query("payment_status"); payment != "" {
		filter["payment_status"] = payment
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(200)
	cursor, err := database.Orders().Find(ctx, filter, opts)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch orders"})
		return
	}
	defer cursor.Close(ctx)

	orders := []models.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not decode orders"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"orders": orders, "count": len(orders)})
}

//
// 🟢 PUT /api/admin/orders/:id/status
//
// Transition de statut : ajoute une entrée à l'historique (append-only, les
// entrées existantes ne sont jamais modifiées) et notifie le client par email
func UpdateOrderStatus(c *gin.Context) {
	oid, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order id"})
		return
	}

	var input struct {
		Status  models.OrderStatus `json:"status" binding:"required"`
		Comment string             `json:"comment"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status data"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var order models.Order
	if err := database.Orders().FindOne(ctx, bson.M{"_id": oid}).Decode(&order); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}

	if !transitionAllowed(order.Status, input.Status) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Status transition not allowed",
			"from":    order.Status,
			"to":      input.Status,
			"allowed": allowedTransitions[order.Status],
		})
		return
	}

	comment := input.Comment
	if comment == "" {
		comment = "Status updated by admin"
	}

	now := time.Now().UTC()
	update := bson.M{
		"$set": bson.M{
			"status":     input.Status,
			"updated_at": now,
		},
		"$push": bson.M{
			"status_history": models.StatusEvent{
				Status:    input.Status,
				Timestamp: now,
				Comment:   comment,
			},
		},
	}

	if _, err := database.Orders().UpdateOne(ctx, bson.M{"_id": oid}, update); err != nil {
		utils.LogFailedAction(c, "update_status", "order", c.Param("id"), err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not update order"})
		return
	}

	// Mise à jour locale, réconciliée à la prochaine lecture
	var updated models.Order
	if err := database.Orders().FindOne(ctx, bson.M{"_id": oid}).Decode(&updated); err != nil {
		updated = order
		updated.Status = input.Status
		updated.UpdatedAt = now
	}

	utils.LogAction(c, "update_status", "order", c.Param("id"), order.Status, input.Status)

	// Notification client hors du chemin critique
	go func(o models.Order, s models.OrderStatus) {
		if err := utils.SendOrderStatusEmail(o, s); err != nil {
			log.Printf("⚠️ Email de statut non envoyé pour %s", o.ID.Hex())
		}
	}(updated, input.Status)

	log.Printf("📦 Commande %s: %s → %s", c.Param("id"), order.Status, input.Status)
	c.JSON(http.StatusOK, updated)
}

//
// 🟢 PUT /api/admin/orders/:id/payment
//
// Approbation manuelle du paiement UPI après vérification de la référence de
// transaction sur le compte marchand
func UpdatePaymentStatus(c *gin.Context) {
	oid, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order id"})
		return
	}

	var input struct {
		PaymentStatus models.PaymentStatus `json:"payment_status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payment status"})
		return
	}

	switch input.PaymentStatus {
	case models.PaymentStatusApproved, models.PaymentStatusRejected:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Payment status must be Approved or Rejected"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var order models.Order
	if err := database.Orders().FindOne(ctx, bson.M{"_id": oid}).Decode(&order); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	if order.PaymentStatus != models.PaymentStatusPendingApproval {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Payment has already been reviewed"})
		return
	}

	update := bson.M{"$set": bson.M{
		"payment_status": input.PaymentStatus,
		"updated_at":     time.Now().UTC(),
	}}
	if _, err := database.Orders().UpdateOne(ctx, bson.M{"_id": oid}, update); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not update payment status"})
		return
	}

	utils.LogAction(c, "review_payment", "order", c.Param("id"), order.PaymentStatus, input.PaymentStatus)

	log.Printf("💳 Paiement de %s: %s", c.Param("id"), input.PaymentStatus)
	c.JSON(http.StatusOK, gin.H{"payment_status": input.PaymentStatus})
}
