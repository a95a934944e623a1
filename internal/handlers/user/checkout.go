package user

import (
	"context"
	"errors"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"vastra_back_end/internal/cache"
	"vastra_back_end/internal/checkout"
	"vastra_back_end/internal/database"
	"vastra_back_end/internal/models"
	"vastra_back_end/internal/utils"
)

// ================== ADAPTATEURS DES DÉPENDANCES DU CHECKOUT ==================

// redisCart adapte le panier Redis du client au contrat CartStore
type redisCart struct {
	userID string
}

func (r redisCart) Lines(ctx context.Context) ([]models.CartLine, error) {
	return loadCart(ctx, r.userID)
}

func (r redisCart) Clear(ctx context.Context) error {
	if err := database.Redis.Del(ctx, cartKey(r.userID)).Err(); err != nil {
		return err
	}
	database.Redis.Publish(ctx, cartKey(r.userID), "cleared")
	return nil
}

// mongoCatalog résout les produits via le cache Redis/MongoDB
type mongoCatalog struct{}

func (mongoCatalog) Lookup(productID string) (models.Product, bool) {
	product, err := cache.GetProductFromCache(productID)
	if err != nil {
		return models.Product{}, false
	}
	return *product, true
}

// productLookup expose le même catalogue sous forme de fonction pure pour les
// recalculs de récapitulatif hors machine à états (websocket, résumé)
func productLookup() checkout.ProductLookup {
	return mongoCatalog{}.Lookup
}

// mongoOrders persiste la commande : un seul InsertOne, atomique
type mongoOrders struct{}

func (mongoOrders) CreateOrder(ctx context.Context, order models.Order) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	res, err := database.Orders().InsertOne(ctx, order)
	if err != nil {
		return "", err
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", errors.New("identifiant de commande inattendu")
	}
	return oid.Hex(), nil
}

// requestIdentity porte l'identité du porteur du JWT de la requête courante
type requestIdentity struct {
	mu   sync.Mutex
	user checkout.UserRef
}

func (i *requestIdentity) set(user checkout.UserRef) {
	i.mu.Lock()
	i.user = user
	i.mu.Unlock()
}

func (i *requestIdentity) CurrentUser() (checkout.UserRef, bool) {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.user, i.user.ID != ""
}

// apiNotifier accumule les notifications à renvoyer dans la réponse HTTP
type apiNotifier struct {
	mu       sync.Mutex
	messages []gin.H
}

func (n *apiNotifier) Success(message string) { n.push("success", message) }
func (n *apiNotifier) Error(message string)   { n.push("error", message) }

func (n *apiNotifier) push(level, message string) {
	n.mu.Lock()
	n.messages = append(n.messages, gin.H{"level": level, "message": message})
	n.mu.Unlock()
}

func (n *apiNotifier) drain() []gin.H {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := n.messages
	n.messages = nil
	return out
}

// ================== SESSIONS DE CHECKOUT ==================

// checkoutSessionTTL : durée d'inactivité après laquelle une tentative
// abandonnée est purgée du registre
const checkoutSessionTTL = 30 * time.Minute

type checkoutEntry struct {
	session  *checkout.Session
	identity *requestIdentity
	notifier *apiNotifier
	lastSeen time.Time
}

var (
	checkoutMu       sync.Mutex
	checkoutSessions = map[string]*checkoutEntry{}
)

// sessionFor retourne la tentative de checkout du client, créée au besoin.
// Une session par client : la garde de soumission de la machine est portée
// par cette entrée partagée, pas par la requête.
func sessionFor(c *gin.Context, userID string) *checkoutEntry {
	checkoutMu.Lock()
	defer checkoutMu.Unlock()

	evictStaleSessions(time.Now())

	entry, ok := checkoutSessions[userID]
	if !ok {
		identity := &requestIdentity{}
		notifier := &apiNotifier{}
		entry = &checkoutEntry{
			session: checkout.NewSession(checkout.Deps{
				Cart:      redisCart{userID: userID},
				Catalog:   mongoCatalog{},
				Orders:    mongoOrders{},
				Identity:  identity,
				Notify:    notifier,
				PayeeVPA:  payeeVPA(),
				PayeeName: "Vastra",
			}),
			identity: identity,
			notifier: notifier,
		}
		checkoutSessions[userID] = entry
	}

	entry.lastSeen = time.Now()
	entry.identity.set(checkout.UserRef{ID: userID, Email: c.GetString("email")})
	return entry
}

// evictStaleSessions purge les tentatives inactives. Appelé sous checkoutMu.
func evictStaleSessions(now time.Time) {
	for id, entry := range checkoutSessions {
		if now.Sub(entry.lastSeen) > checkoutSessionTTL {
			delete(checkoutSessions, id)
		}
	}
}

func dropSession(userID string) {
	checkoutMu.Lock()
	delete(checkoutSessions, userID)
	checkoutMu.Unlock()
}

func payeeVPA() string {
	// VPA marchande : reçoit les paiements UPI de la boutique
	return "vastra@upi"
}

// ================== HANDLERS ==================

//
// 🟢 GET /api/checkout/summary
//
// Récapitulatif recalculé à chaque appel : le front l'invoque après chaque
// changement de panier pour afficher sous-total / livraison / total
func CheckoutSummary(c *gin.Context) {
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

	draft := checkout.ComputeOrderDetails(lines, productLookup())
	c.JSON(http.StatusOK, gin.H{
		"draft":                   draft,
		"items":                   lines,
		"free_shipping_threshold": checkout.FreeShippingThreshold,
	})
}

//
// 🟢 POST /api/checkout/validate
//
// Validation réactive du formulaire : invoquée à chaque modification de champ
func ValidateShippingForm(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	var form checkout.ShippingForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid form data"})
		return
	}

	entry := sessionFor(c, userID)
	errs := entry.session.UpdateForm(form)

	c.JSON(http.StatusOK, gin.H{
		"valid":  len(errs) == 0,
		"errors": errs,
	})
}

//
// 🟢 POST /api/checkout/place
//
// Editing → AwaitingPayment : valide le formulaire et le stock, rend le
// deep-link UPI et son QR. Rien n'est persisté à ce stade.
func PlaceOrder(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	var form checkout.ShippingForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid form data", "details": err.Error()})
		return
	}

	entry := sessionFor(c, userID)

	// Un nouveau "Place Order" abandonne un éventuel dialogue de paiement
	// resté ouvert
	entry.session.Cancel()
	entry.session.UpdateForm(form)

	req, err := entry.session.PlaceOrder(c.Request.Context())
	if err != nil {
		respondCheckoutError(c, entry, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"state":    entry.session.State(),
		"draft":    req.Draft,
		"upi_link": req.UPILink,
		"qr_code":  req.QRCode,
	})
}

//
// 🟢 POST /api/checkout/confirm
//
// AwaitingPayment → Submitting → Succeeded : l'unique écriture du flux
func ConfirmOrder(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	var input struct {
		TransactionID string `json:"transaction_id"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid confirmation data"})
		return
	}

	entry := sessionFor(c, userID)

	orderID, err := entry.session.ConfirmOrder(c.Request.Context(), input.TransactionID)
	if err != nil {
		respondCheckoutError(c, entry, err)
		return
	}

	dropSession(userID)

	// Confirmation par e-mail, hors du chemin critique
	go sendConfirmationEmail(orderID)

	log.Printf("🛒 Commande %s créée pour %s", orderID, userID)
	c.JSON(http.StatusCreated, gin.H{
		"order_id":      orderID,
		"state":         checkout.StateSucceeded,
		"notifications": entry.notifier.drain(),
	})
}

//
// 🟢 POST /api/checkout/cancel
//
// Fermeture du dialogue de paiement : retour en Editing, aucun effet de bord
func CancelCheckout(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	entry := sessionFor(c, userID)
	entry.session.Cancel()

	c.JSON(http.StatusOK, gin.H{"state": entry.session.State()})
}

func sendConfirmationEmail(orderID string) {
	oid, err := primitive.ObjectIDFromHex(orderID)
	if err != nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var order models.Order
	if err := database.Orders().FindOne(ctx, bson.M{"_id": oid}).Decode(&order); err != nil {
		log.Printf("⚠️ Commande %s introuvable pour l'email de confirmation: %v", orderID, err)
		return
	}
	utils.SendOrderConfirmationEmail(order)
}

// respondCheckoutError convertit les erreurs de la machine à états en réponses
// HTTP, notifications incluses
func respondCheckoutError(c *gin.Context, entry *checkoutEntry, err error) {
	notifications := entry.notifier.drain()

	var vErr *checkout.ValidationError
	if errors.As(err, &vErr) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":         "Shipping form is invalid",
			"field_errors":  vErr.Fields,
			"state":         entry.session.State(),
			"notifications": notifications,
		})
		return
	}

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, checkout.ErrEmptyCart),
		errors.Is(err, checkout.ErrStockConflict),
		errors.Is(err, checkout.ErrInvalidAmount),
		errors.Is(err, checkout.ErrMissingTxnRef),
		errors.Is(err, checkout.ErrInvalidTransition):
		status = http.StatusBadRequest
	case errors.Is(err, checkout.ErrAuthRequired):
		status = http.StatusUnauthorized
	case errors.Is(err, checkout.ErrAlreadySubmitting):
		status = http.StatusConflict
	default:
		var pErr *checkout.PersistenceError
		if errors.As(err, &pErr) {
			log.Printf("❌ Échec de persistance de commande: %v", pErr.Err)
			status = http.StatusBadGateway
		}
	}

	c.JSON(status, gin.H{
		"error":         err.Error(),
		"state":         entry.session.State(),
		"notifications": notifications,
	})
}
