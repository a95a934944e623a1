package checkout

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"vastra_back_end/internal/models"
)

func catalogWith(products map[string]models.Product) ProductLookup {
	return func(id string) (models.Product, bool) {
		p, ok := products[id]
		return p, ok
	}
}

func inStockCatalog(ids ...string) ProductLookup {
	products := make(map[string]models.Product, len(ids))
	for _, id := range ids {
		products[id] = models.Product{Name: id, InStock: true}
	}
	return catalogWith(products)
}

func TestComputeOrderDetailsEmptyCart(t *testing.T) {
	draft := ComputeOrderDetails(nil, inStockCatalog())

	assert.Equal(t, 0.0, draft.Subtotal)
	assert.Equal(t, 0.0, draft.ShippingCharge)
	assert.Equal(t, 0.0, draft.Total)
	assert.False(t, draft.HasOutOfStock)
}

func TestComputeOrderDetailsFreeShippingAboveThreshold(t *testing.T) {
	// 300 × 2 = 600 > 499 : la livraison est offerte
	lines := []models.CartLine{
		{ProductID: "p1", Price: 300, Quantity: 2, ShippingCharges: 50},
	}

	draft := ComputeOrderDetails(lines, inStockCatalog("p1"))

	assert.Equal(t, 600.0, draft.Subtotal)
	assert.Equal(t, 0.0, draft.ShippingCharge)
	assert.Equal(t, 600.0, draft.Total)
	assert.False(t, draft.HasOutOfStock)
}

func TestComputeOrderDetailsChargesShippingBelowThreshold(t *testing.T) {
	// 100 × 2 = 200 ≤ 499 : frais = max des frais par ligne, pas la somme
	lines := []models.CartLine{
		{ProductID: "p1", Price: 100, Quantity: 2, ShippingCharges: 50},
	}

	draft := ComputeOrderDetails(lines, inStockCatalog("p1"))

	assert.Equal(t, 200.0, draft.Subtotal)
	assert.Equal(t, 50.0, draft.ShippingCharge)
	assert.Equal(t, 250.0, draft.Total)
}

func TestComputeOrderDetailsShippingIsMaxNotSum(t *testing.T) {
	lines := []models.CartLine{
		{ProductID: "p1", Price: 50, Quantity: 1, ShippingCharges: 40},
		{ProductID: "p2", Price: 60, Quantity: 2, ShippingCharges: 90},
		{ProductID: "p3", Price: 30, Quantity: 1, ShippingCharges: 0},
	}

	draft := ComputeOrderDetails(lines, inStockCatalog("p1", "p2", "p3"))

	assert.Equal(t, 200.0, draft.Subtotal)
	assert.Equal(t, 90.0, draft.ShippingCharge, "frais par commande = max des lignes")
	assert.Equal(t, 290.0, draft.Total)
}

func TestComputeOrderDetailsThresholdBoundary(t *testing.T) {
	// Exactement 499 : encore facturé ("au seuil ou en dessous")
	atThreshold := []models.CartLine{{ProductID: "p1", Price: 499, Quantity: 1, ShippingCharges: 30}}
	draft := ComputeOrderDetails(atThreshold, inStockCatalog("p1"))
	assert.Equal(t, 30.0, draft.ShippingCharge)

	justAbove := []models.CartLine{{ProductID: "p1", Price: 499.01, Quantity: 1, ShippingCharges: 30}}
	draft = ComputeOrderDetails(justAbove, inStockCatalog("p1"))
	assert.Equal(t, 0.0, draft.ShippingCharge)
}

func TestComputeOrderDetailsTotalIsExactSum(t *testing.T) {
	carts := [][]models.CartLine{
		{{ProductID: "p1", Price: 0.1, Quantity: 3, ShippingCharges: 49.9}},
		{{ProductID: "p1", Price: 123.45, Quantity: 1, ShippingCharges: 10}, {ProductID: "p2", Price: 67.89, Quantity: 2, ShippingCharges: 25}},
		{{ProductID: "p1", Price: 999.99, Quantity: 7, ShippingCharges: 100}},
	}

	for _, lines := range carts {
		draft := ComputeOrderDetails(lines, inStockCatalog("p1", "p2"))
		assert.Equal(t, draft.Subtotal+draft.ShippingCharge, draft.Total)
	}
}

func TestComputeOrderDetailsOutOfStock(t *testing.T) {
	lines := []models.CartLine{
		{ProductID: "p1", Price: 100, Quantity: 1},
		{ProductID: "p2", Price: 100, Quantity: 1},
	}

	t.Run("produit absent du catalogue", func(t *testing.T) {
		draft := ComputeOrderDetails(lines, inStockCatalog("p1"))
		assert.True(t, draft.HasOutOfStock)
	})

	t.Run("produit en rupture", func(t *testing.T) {
		lookup := catalogWith(map[string]models.Product{
			"p1": {InStock: true},
			"p2": {InStock: false},
		})
		draft := ComputeOrderDetails(lines, lookup)
		assert.True(t, draft.HasOutOfStock)
	})

	t.Run("tout en stock", func(t *testing.T) {
		draft := ComputeOrderDetails(lines, inStockCatalog("p1", "p2"))
		assert.False(t, draft.HasOutOfStock)
	})
}

func TestComputeOrderDetailsCoercesInvalidNumbers(t *testing.T) {
	lines := []models.CartLine{
		{ProductID: "p1", Price: -40, Quantity: 2, ShippingCharges: 20},
		{ProductID: "p2", Price: 100, Quantity: -3, ShippingCharges: 35},
	}

	draft := ComputeOrderDetails(lines, inStockCatalog("p1", "p2"))

	assert.Equal(t, 0.0, draft.Subtotal, "valeurs négatives ramenées à 0")
	assert.Equal(t, 35.0, draft.ShippingCharge)
	assert.Equal(t, 35.0, draft.Total)
}

func TestComputeOrderDetailsDeterministic(t *testing.T) {
	lines := []models.CartLine{
		{ProductID: "p1", Price: 150, Quantity: 2, ShippingCharges: 40},
		{ProductID: "p2", Price: 80, Quantity: 1, ShippingCharges: 60},
	}
	lookup := inStockCatalog("p1", "p2")

	first := ComputeOrderDetails(lines, lookup)
	second := ComputeOrderDetails(lines, lookup)

	assert.Equal(t, first, second)
}
