package utils

import (
	"fmt"
	"log"

	"vastra_back_end/internal/models"
)

// SendOrderConfirmationEmail envoie l'e-mail de confirmation après checkout
func SendOrderConfirmationEmail(order models.Order) {
	to := order.Customer.Email
	if to == "" {
		return
	}

	subject := fmt.Sprintf("🛍️ Order confirmed - Vastra #%s", order.ID.Hex())
	if err := SendEmail(to, subject, GenerateOrderConfirmationHTML(order)); err != nil {
		log.Printf("❌ Erreur envoi email confirmation: %v", err)
		return
	}
	log.Printf("📧 Email de confirmation envoyé à %s", to)
}

// SendOrderStatusEmail envoie un email de notification de changement de statut
func SendOrderStatusEmail(order models.Order, newStatus models.OrderStatus) error {
	to := order.Customer.Email
	if to == "" {
		return nil
	}

	subject := getStatusEmailSubject(newStatus)
	html := generateStatusEmailHTML(order, newStatus)

	if err := SendEmail(to, subject, html); err != nil {
		log.Printf("❌ Erreur envoi email statut: %v", err)
		return err
	}

	log.Printf("📧 Email de statut envoyé: %s → %s", newStatus, to)
	return nil
}

func getStatusEmailSubject(status models.OrderStatus) string {
	switch status {
	case models.OrderStatusShipped:
		return "📦 Your order has been shipped - Vastra"
	case models.OrderStatusDelivered:
		return "🎉 Your order has been delivered - Vastra"
	case models.OrderStatusCancelled:
		return "❌ Your order has been cancelled - Vastra"
	default:
		return "📋 Update on your order - Vastra"
	}
}

func getStatusMessage(status models.OrderStatus) string {
	switch status {
	case models.OrderStatusShipped:
		return "Good news! Your order is on its way."
	case models.OrderStatusDelivered:
		return "Your order has been delivered. We hope you love it!"
	case models.OrderStatusCancelled:
		return "Your order has been cancelled. If you already paid, the refund will be processed shortly."
	default:
		return "Your order status has been updated."
	}
}

func generateStatusEmailHTML(order models.Order, status models.OrderStatus) string {
	return fmt.Sprintf(`
<!DOCTYPE html>
<html lang="en">
<body style="font-family: Arial, sans-serif; background-color: #f9f9f9; padding: 20px;">
	<div style="max-width: 600px; margin: auto; background-color: white; padding: 20px; border-radius: 10px;">
		<h2 style="color: #333;">Order #%s</h2>
		<p>Hi %s,</p>
		<p>%s</p>
		<p>Current status: <strong>%s</strong></p>
		<p style="margin-top: 30px; color: #555;">
			Warm regards,<br>
			<strong>The Vastra team</strong>
		</p>
	</div>
</body>
</html>`, order.ID.Hex(), order.Customer.FirstName, getStatusMessage(status), status)
}
