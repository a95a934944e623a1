package checkout

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"vastra_back_end/internal/models"
)

// State est l'étape courante d'une tentative de checkout
type State string

const (
	StateEditing         State = "editing"
	StateAwaitingPayment State = "awaiting_payment"
	StateSubmitting      State = "submitting"
	StateSucceeded       State = "succeeded"
)

// UserRef identifie l'acteur du checkout
type UserRef struct {
	ID    string
	Email string
}

// CartStore expose le panier actif du client
type CartStore interface {
	Lines(ctx context.Context) ([]models.CartLine, error)
	Clear(ctx context.Context) error
}

// Catalog résout les produits déjà chargés en mémoire (lecture synchrone)
type Catalog interface {
	Lookup(productID string) (models.Product, bool)
}

// OrderCreator persiste la commande : une seule écriture, atomique
type OrderCreator interface {
	CreateOrder(ctx context.Context, order models.Order) (string, error)
}

// Identity fournit l'acteur authentifié du checkout
type Identity interface {
	CurrentUser() (UserRef, bool)
}

// Notifier reçoit les notifications destinées au client
type Notifier interface {
	Success(message string)
	Error(message string)
}

// Deps regroupe les dépendances injectées de la machine à états. Pas de
// globals ambiants dans ce package : chaque effet de bord passe par ici.
type Deps struct {
	Cart      CartStore
	Catalog   Catalog
	Orders    OrderCreator
	Identity  Identity
	Notify    Notifier
	PayeeVPA  string
	PayeeName string
}

// PaymentRequest est rendu au client à l'entrée dans AwaitingPayment :
// rien n'est encore persisté à ce stade.
type PaymentRequest struct {
	Draft   OrderDraft `json:"draft"`
	UPILink string     `json:"upi_link"`
	QRCode  string     `json:"qr_code"`
}

// Session est la machine à états d'une tentative de checkout :
//
//	Editing → AwaitingPayment → Submitting → Succeeded
//
// Un échec de persistance pendant Submitting renvoie en Editing (panier
// conservé, référence de transaction abandonnée) pour repartir d'un instantané
// frais du panier et du stock. Le flag submitting est l'unique garde de
// concurrence : il interdit un second ConfirmOrder tant qu'une écriture est en
// vol.
type Session struct {
	mu          sync.Mutex
	state       State
	form        ShippingForm
	fieldErrors map[string]string
	upiLink     string
	submitting  bool
	deps        Deps
}

func NewSession(deps Deps) *Session {
	return &Session{
		state:       StateEditing,
		fieldErrors: map[string]string{},
		deps:        deps,
	}
}

// State retourne l'étape courante
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// UpdateForm enregistre le formulaire et le revalide immédiatement (validation
// réactive : rejouée à chaque modification de champ, pas seulement au submit)
func (s *Session) UpdateForm(form ShippingForm) map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if form.PaymentMethod == "" {
		form.PaymentMethod = PaymentMethodUPI
	}
	s.form = form
	_, s.fieldErrors = ValidateShippingForm(form)
	return s.fieldErrors
}

// FieldErrors retourne les erreurs de la dernière validation
func (s *Session) FieldErrors() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fieldErrors
}

// Draft recalcule le récapitulatif depuis un instantané frais du panier
func (s *Session) Draft(ctx context.Context) (OrderDraft, error) {
	lines, err := s.deps.Cart.Lines(ctx)
	if err != nil {
		return OrderDraft{}, err
	}
	return ComputeOrderDetails(lines, s.deps.Catalog.Lookup), nil
}

// PlaceOrder fait passer Editing → AwaitingPayment. Gardes : formulaire
// valide, pas de soumission en cours, panier non vide, aucun produit en
// rupture. Construit le deep-link UPI et son QR ; rien n'est persisté.
func (s *Session) PlaceOrder(ctx context.Context) (*PaymentRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateEditing {
		return nil, ErrInvalidTransition
	}
	if s.submitting {
		return nil, ErrAlreadySubmitting
	}
	if valid, errs := ValidateShippingForm(s.form); !valid {
		s.fieldErrors = errs
		return nil, &ValidationError{Fields: errs}
	}

	lines, err := s.deps.Cart.Lines(ctx)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	draft := ComputeOrderDetails(lines, s.deps.Catalog.Lookup)
	if draft.HasOutOfStock {
		return nil, ErrStockConflict
	}

	req := &PaymentRequest{Draft: draft}
	if s.form.PaymentMethod == PaymentMethodUPI {
		note := fmt.Sprintf("Vastra order for %s %s", s.form.FirstName, s.form.LastName)
		req.UPILink = BuildUPILink(s.deps.PayeeVPA, s.deps.PayeeName, draft.Total, note)
		qr, err := GenerateUPIQR(req.UPILink)
		if err != nil {
			// Le lien reste utilisable sans le QR
			log.Printf("⚠️ Génération QR UPI impossible: %v", err)
		}
		req.QRCode = qr
	}

	s.upiLink = req.UPILink
	s.state = StateAwaitingPayment
	return req, nil
}

// Cancel ferme le dialogue de paiement : retour en Editing, aucun effet de bord
func (s *Session) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateAwaitingPayment {
		s.upiLink = ""
		s.state = StateEditing
	}
}

// ConfirmOrder fait passer AwaitingPayment → Submitting → Succeeded. C'est la
// seule étape avec effet de bord de tout le flux : une création atomique de la
// commande, jamais invoquée deux fois en parallèle pour la même session.
//
// Le stock et le montant sont revérifiés sur un instantané frais : le panier a
// pu changer pendant que le dialogue de paiement était ouvert. Sur conflit, on
// reste en AwaitingPayment sans rien persister.
func (s *Session) ConfirmOrder(ctx context.Context, transactionID string) (string, error) {
	s.mu.Lock()

	if s.state != StateAwaitingPayment {
		s.mu.Unlock()
		return "", ErrInvalidTransition
	}
	if s.submitting {
		s.mu.Unlock()
		return "", ErrAlreadySubmitting
	}
	if strings.TrimSpace(transactionID) == "" {
		s.mu.Unlock()
		s.deps.Notify.Error("Please enter the UPI transaction ID")
		return "", ErrMissingTxnRef
	}
	if valid, errs := ValidateShippingForm(s.form); !valid {
		s.fieldErrors = errs
		s.mu.Unlock()
		return "", &ValidationError{Fields: errs}
	}

	user, ok := s.deps.Identity.CurrentUser()
	if !ok {
		s.mu.Unlock()
		s.deps.Notify.Error("You must be logged in to place an order")
		return "", ErrAuthRequired
	}

	form := s.form
	s.submitting = true
	s.state = StateSubmitting
	s.mu.Unlock()

	// Instantané frais du panier, hors verrou : l'écriture réseau ne doit pas
	// bloquer les lectures d'état, seul le flag submitting protège la section
	fail := func(err error, message string) (string, error) {
		s.mu.Lock()
		s.submitting = false
		s.state = StateAwaitingPayment
		s.mu.Unlock()
		s.deps.Notify.Error(message)
		return "", err
	}

	lines, err := s.deps.Cart.Lines(ctx)
	if err != nil {
		return fail(err, "Could not read your cart, please try again")
	}
	if len(lines) == 0 {
		return fail(ErrEmptyCart, "Your cart is empty")
	}

	draft := ComputeOrderDetails(lines, s.deps.Catalog.Lookup)
	if draft.HasOutOfStock {
		return fail(ErrStockConflict, "Some items in your cart just went out of stock")
	}
	if draft.Total <= 0 {
		return fail(ErrInvalidAmount, "Order amount is invalid")
	}

	order := buildOrder(user, form, lines, draft, transactionID)

	orderID, err := s.deps.Orders.CreateOrder(ctx, order)

	s.mu.Lock()
	s.submitting = false
	if err != nil {
		// Retour en Editing (pas AwaitingPayment) : la référence de
		// transaction saisie n'est plus fiable après un échec
		s.upiLink = ""
		s.state = StateEditing
		s.mu.Unlock()
		s.deps.Notify.Error("Could not place your order, please try again")
		return "", &PersistenceError{Err: err}
	}
	s.state = StateSucceeded
	s.mu.Unlock()

	// Le panier est vidé après la persistance ; un échec ici ne remet pas la
	// commande en cause
	if err := s.deps.Cart.Clear(ctx); err != nil {
		log.Printf("⚠️ Vidage du panier impossible après la commande %s: %v", orderID, err)
	}
	s.deps.Notify.Success("Order placed successfully")

	return orderID, nil
}

// buildOrder fige une copie des lignes du panier et initialise l'historique de
// statut avec son entrée obligatoire
func buildOrder(user UserRef, form ShippingForm, lines []models.CartLine, draft OrderDraft, transactionID string) models.Order {
	now := time.Now().UTC()

	items := make([]models.CartLine, len(lines))
	copy(items, lines)

	email := form.Email
	if email == "" {
		email = user.Email
	}

	return models.Order{
		UserID: user.ID,
		Customer: models.CustomerInfo{
			FirstName: form.FirstName,
			LastName:  form.LastName,
			Email:     email,
			Phone:     form.Phone,
		},
		ShippingAddress: models.ShippingAddress{
			Address:   form.Address,
			City:      form.City,
			State:     form.State,
			Pincode:   form.Pincode,
			Formatted: fmt.Sprintf("%s, %s, %s - %s", form.Address, form.City, form.State, form.Pincode),
		},
		PaymentMethod:  form.PaymentMethod,
		PaymentStatus:  models.PaymentStatusPendingApproval,
		TransactionID:  transactionID,
		Subtotal:       draft.Subtotal,
		ShippingCharge: draft.ShippingCharge,
		Total:          draft.Total,
		Items:          items,
		Status:         models.OrderStatusProcessing,
		StatusHistory: []models.StatusEvent{
			{
				Status:    models.OrderStatusProcessing,
				Timestamp: now,
				Comment:   "Order placed successfully",
			},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}
