package checkout

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vastra_back_end/internal/models"
)

type fakeCart struct {
	mu      sync.Mutex
	lines   []models.CartLine
	cleared bool
}

func (c *fakeCart) Lines(context.Context) ([]models.CartLine, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.CartLine, len(c.lines))
	copy(out, c.lines)
	return out, nil
}

func (c *fakeCart) Clear(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cleared = true
	c.lines = nil
	return nil
}

type fakeCatalog map[string]models.Product

func (f fakeCatalog) Lookup(id string) (models.Product, bool) {
	p, ok := f[id]
	return p, ok
}

type fakeOrders struct {
	calls   int32
	err     error
	started chan struct{} // fermé au premier appel, si non nil
	release chan struct{} // l'appel bloque dessus, si non nil
	last    models.Order
}

func (o *fakeOrders) CreateOrder(_ context.Context, order models.Order) (string, error) {
	n := atomic.AddInt32(&o.calls, 1)
	if n == 1 && o.started != nil {
		close(o.started)
	}
	if o.release != nil {
		<-o.release
	}
	if o.err != nil {
		return "", o.err
	}
	o.last = order
	return "ord_123", nil
}

type fakeIdentity struct {
	user UserRef
	ok   bool
}

func (f fakeIdentity) CurrentUser() (UserRef, bool) { return f.user, f.ok }

type fakeNotifier struct {
	mu        sync.Mutex
	successes []string
	failures  []string
}

func (n *fakeNotifier) Success(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.successes = append(n.successes, msg)
}

func (n *fakeNotifier) Error(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.failures = append(n.failures, msg)
}

func testDeps(cart *fakeCart, orders *fakeOrders, notify *fakeNotifier) Deps {
	return Deps{
		Cart:      cart,
		Catalog:   fakeCatalog{"p1": {InStock: true}, "p2": {InStock: true}},
		Orders:    orders,
		Identity:  fakeIdentity{user: UserRef{ID: "u1", Email: "asha@example.com"}, ok: true},
		Notify:    notify,
		PayeeVPA:  "vastra@upi",
		PayeeName: "Vastra",
	}
}

func cartWith(lines ...models.CartLine) *fakeCart {
	return &fakeCart{lines: lines}
}

func TestCheckoutHappyPath(t *testing.T) {
	cart := cartWith(models.CartLine{ProductID: "p1", Name: "Kurta", Price: 100, Quantity: 2, Size: "M", Color: "Blue", ShippingCharges: 50})
	orders := &fakeOrders{}
	notify := &fakeNotifier{}

	s := NewSession(testDeps(cart, orders, notify))
	assert.Equal(t, StateEditing, s.State())

	errs := s.UpdateForm(validForm())
	require.Empty(t, errs)

	req, err := s.PlaceOrder(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StateAwaitingPayment, s.State())
	assert.Equal(t, 200.0, req.Draft.Subtotal)
	assert.Equal(t, 50.0, req.Draft.ShippingCharge)
	assert.Equal(t, 250.0, req.Draft.Total)
	assert.Contains(t, req.UPILink, "upi://pay?")
	assert.Contains(t, req.UPILink, "am=250.00")
	assert.Contains(t, req.QRCode, "data:image/png;base64,")

	orderID, err := s.ConfirmOrder(context.Background(), "TXN42")
	require.NoError(t, err)
	assert.Equal(t, "ord_123", orderID)
	assert.Equal(t, StateSucceeded, s.State())
	assert.True(t, cart.cleared, "le panier doit être vidé après succès")
	assert.Equal(t, []string{"Order placed successfully"}, notify.successes)

	order := orders.last
	assert.Equal(t, "u1", order.UserID)
	assert.Equal(t, models.PaymentStatusPendingApproval, order.PaymentStatus)
	assert.Equal(t, "TXN42", order.TransactionID)
	assert.Equal(t, models.OrderStatusProcessing, order.Status)
	require.Len(t, order.StatusHistory, 1)
	assert.Equal(t, models.OrderStatusProcessing, order.StatusHistory[0].Status)
	assert.Equal(t, "Order placed successfully", order.StatusHistory[0].Comment)
	require.Len(t, order.Items, 1)
	assert.Equal(t, "Kurta", order.Items[0].Name)
	assert.Equal(t, order.Subtotal+order.ShippingCharge, order.Total)
	assert.Equal(t, "14 MG Road, Bengaluru, Karnataka - 560001", order.ShippingAddress.Formatted)
}

func TestPlaceOrderRejectsInvalidForm(t *testing.T) {
	cart := cartWith(models.CartLine{ProductID: "p1", Price: 100, Quantity: 1})
	s := NewSession(testDeps(cart, &fakeOrders{}, &fakeNotifier{}))

	form := validForm()
	form.Phone = "123"
	s.UpdateForm(form)

	_, err := s.PlaceOrder(context.Background())

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Fields, "phone")
	assert.Equal(t, StateEditing, s.State())
}

func TestPlaceOrderRejectsUnsupportedPaymentMethod(t *testing.T) {
	cart := cartWith(models.CartLine{ProductID: "p1", Price: 100, Quantity: 1})
	s := NewSession(testDeps(cart, &fakeOrders{}, &fakeNotifier{}))

	form := validForm()
	form.PaymentMethod = "COD"
	errs := s.UpdateForm(form)
	assert.Contains(t, errs, "payment_method")

	_, err := s.PlaceOrder(context.Background())

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Fields, "payment_method")
	assert.Equal(t, StateEditing, s.State())
}

func TestPlaceOrderRejectsEmptyCart(t *testing.T) {
	s := NewSession(testDeps(cartWith(), &fakeOrders{}, &fakeNotifier{}))
	s.UpdateForm(validForm())

	_, err := s.PlaceOrder(context.Background())

	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Equal(t, StateEditing, s.State())
}

func TestPlaceOrderRejectsOutOfStock(t *testing.T) {
	cart := cartWith(models.CartLine{ProductID: "ghost", Price: 100, Quantity: 1})
	s := NewSession(testDeps(cart, &fakeOrders{}, &fakeNotifier{}))
	s.UpdateForm(validForm())

	_, err := s.PlaceOrder(context.Background())

	assert.ErrorIs(t, err, ErrStockConflict)
	assert.Equal(t, StateEditing, s.State())
}

func TestCancelReturnsToEditing(t *testing.T) {
	cart := cartWith(models.CartLine{ProductID: "p1", Price: 100, Quantity: 1})
	orders := &fakeOrders{}
	s := NewSession(testDeps(cart, orders, &fakeNotifier{}))
	s.UpdateForm(validForm())

	_, err := s.PlaceOrder(context.Background())
	require.NoError(t, err)

	s.Cancel()

	assert.Equal(t, StateEditing, s.State())
	assert.Zero(t, orders.calls, "annuler ne persiste rien")
}

func TestConfirmOrderRequiresTransactionID(t *testing.T) {
	cart := cartWith(models.CartLine{ProductID: "p1", Price: 100, Quantity: 1})
	notify := &fakeNotifier{}
	s := NewSession(testDeps(cart, &fakeOrders{}, notify))
	s.UpdateForm(validForm())

	_, err := s.PlaceOrder(context.Background())
	require.NoError(t, err)

	_, err = s.ConfirmOrder(context.Background(), "   ")

	assert.ErrorIs(t, err, ErrMissingTxnRef)
	assert.Equal(t, StateAwaitingPayment, s.State())
	assert.NotEmpty(t, notify.failures)
}

func TestConfirmOrderRequiresLogin(t *testing.T) {
	cart := cartWith(models.CartLine{ProductID: "p1", Price: 100, Quantity: 1})
	deps := testDeps(cart, &fakeOrders{}, &fakeNotifier{})
	deps.Identity = fakeIdentity{ok: false}

	s := NewSession(deps)
	s.UpdateForm(validForm())
	_, err := s.PlaceOrder(context.Background())
	require.NoError(t, err)

	_, err = s.ConfirmOrder(context.Background(), "TXN1")

	assert.ErrorIs(t, err, ErrAuthRequired)
}

func TestConfirmOrderRechecksStock(t *testing.T) {
	// Le produit passe en rupture pendant que le dialogue de paiement est
	// ouvert : retour en AwaitingPayment, rien n'est persisté
	cart := cartWith(models.CartLine{ProductID: "p1", Price: 100, Quantity: 1})
	orders := &fakeOrders{}
	notify := &fakeNotifier{}
	catalog := fakeCatalog{"p1": {InStock: true}}
	deps := testDeps(cart, orders, notify)
	deps.Catalog = catalog

	s := NewSession(deps)
	s.UpdateForm(validForm())
	_, err := s.PlaceOrder(context.Background())
	require.NoError(t, err)

	catalog["p1"] = models.Product{InStock: false}

	_, err = s.ConfirmOrder(context.Background(), "TXN1")

	assert.ErrorIs(t, err, ErrStockConflict)
	assert.Equal(t, StateAwaitingPayment, s.State())
	assert.Zero(t, orders.calls)
	assert.NotEmpty(t, notify.failures)
}

func TestConfirmOrderRejectsNonPositiveTotal(t *testing.T) {
	cart := cartWith(models.CartLine{ProductID: "p1", Price: 0, Quantity: 3})
	orders := &fakeOrders{}
	s := NewSession(testDeps(cart, orders, &fakeNotifier{}))
	s.UpdateForm(validForm())

	_, err := s.PlaceOrder(context.Background())
	require.NoError(t, err)

	_, err = s.ConfirmOrder(context.Background(), "TXN1")

	assert.ErrorIs(t, err, ErrInvalidAmount)
	assert.Equal(t, StateAwaitingPayment, s.State())
	assert.Zero(t, orders.calls)
}

func TestConfirmOrderPersistenceFailure(t *testing.T) {
	cart := cartWith(models.CartLine{ProductID: "p1", Price: 100, Quantity: 1})
	orders := &fakeOrders{err: errors.New("write timeout")}
	notify := &fakeNotifier{}

	s := NewSession(testDeps(cart, orders, notify))
	s.UpdateForm(validForm())
	_, err := s.PlaceOrder(context.Background())
	require.NoError(t, err)

	_, err = s.ConfirmOrder(context.Background(), "TXN1")

	var pErr *PersistenceError
	require.ErrorAs(t, err, &pErr)
	assert.Equal(t, StateEditing, s.State(), "après échec on repart de Editing, pas de AwaitingPayment")
	assert.False(t, cart.cleared, "le panier est conservé après un échec")
	assert.NotEmpty(t, notify.failures)
	assert.Empty(t, notify.successes)

	// Le flux est rejouable avec un instantané frais
	_, err = s.PlaceOrder(context.Background())
	assert.NoError(t, err)
}

func TestConfirmOrderIsNotReentrant(t *testing.T) {
	cart := cartWith(models.CartLine{ProductID: "p1", Price: 100, Quantity: 1})
	orders := &fakeOrders{
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	s := NewSession(testDeps(cart, orders, &fakeNotifier{}))
	s.UpdateForm(validForm())
	_, err := s.PlaceOrder(context.Background())
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		_, err := s.ConfirmOrder(context.Background(), "TXN1")
		done <- err
	}()

	// Second clic pendant que la première écriture est en vol
	<-orders.started
	_, err = s.ConfirmOrder(context.Background(), "TXN1")
	assert.Error(t, err)

	close(orders.release)
	require.NoError(t, <-done)

	assert.Equal(t, int32(1), atomic.LoadInt32(&orders.calls), "exactement un CreateOrder")
	assert.Equal(t, StateSucceeded, s.State())
}

func TestUpdateFormRevalidatesEachChange(t *testing.T) {
	s := NewSession(testDeps(cartWith(), &fakeOrders{}, &fakeNotifier{}))

	form := validForm()
	form.Pincode = "12"
	errs := s.UpdateForm(form)
	assert.Contains(t, errs, "pincode")

	form.Pincode = "560001"
	errs = s.UpdateForm(form)
	assert.Empty(t, errs)
	assert.Empty(t, s.FieldErrors())
}
