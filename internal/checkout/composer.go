package checkout

import (
	"vastra_back_end/internal/models"
)

// FreeShippingThreshold : au-delà de ce sous-total (en ₹), la livraison est offerte
const FreeShippingThreshold = 499.0

// ProductLookup résout un produit du catalogue déjà chargé en mémoire.
// Le booléen est false si le produit n'existe plus.
type ProductLookup func(productID string) (models.Product, bool)

// OrderDraft est le récapitulatif calculé (non persisté) du panier courant
type OrderDraft struct {
	Subtotal       float64 `json:"subtotal"`
	ShippingCharge float64 `json:"shipping_charge"`
	Total          float64 `json:"total"`
	HasOutOfStock  bool    `json:"has_out_of_stock"`
}

// ComputeOrderDetails calcule sous-total, frais de livraison et total d'un
// panier. Fonction pure : aucun effet de bord, déterministe.
//
// Politique livraison : facturée une seule fois par commande, uniquement si le
// sous-total est ≤ au seuil ; on retient le maximum des frais par ligne (pas la
// somme) pour les paniers mixtes.
func ComputeOrderDetails(lines []models.CartLine, lookup ProductLookup) OrderDraft {
	var draft OrderDraft
	if len(lines) == 0 {
		return draft
	}

	var maxLineShipping float64
	for _, line := range lines {
		// Coercition défensive : jamais de valeurs négatives dans le calcul
		price := line.Price
		if price < 0 {
			price = 0
		}
		qty := line.Quantity
		if qty < 0 {
			qty = 0
		}
		draft.Subtotal += price * float64(qty)

		if line.ShippingCharges > maxLineShipping {
			maxLineShipping = line.ShippingCharges
		}

		if lookup == nil {
			draft.HasOutOfStock = true
			continue
		}
		product, ok := lookup(line.ProductID)
		if !ok || !product.InStock {
			draft.HasOutOfStock = true
		}
	}

	if draft.Subtotal <= FreeShippingThreshold {
		draft.ShippingCharge = maxLineShipping
	}
	draft.Total = draft.Subtotal + draft.ShippingCharge

	return draft
}
