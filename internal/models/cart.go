package models

// CartLine représente une ligne du panier actif : une variante de produit
// (taille + couleur) avec sa quantité. La clé d'unicité d'une ligne est le
// triplet (product_id, size, color).
type CartLine struct {
	ProductID       string  `json:"product_id"`
	Name            string  `json:"name"`
	Price           float64 `json:"price"`
	Image           string  `json:"image"`
	Size            string  `json:"size"`
	Color           string  `json:"color"`
	Quantity        int     `json:"quantity"`
	ShippingCharges float64 `json:"shipping_charges"`
}

// Key retourne la clé d'unicité de la ligne dans le panier
func (l CartLine) Key() string {
	return l.ProductID + "|" + l.Size + "|" + l.Color
}

// MergeLine insère une ligne dans le panier en préservant l'unicité du
// triplet : si une ligne de même clé existe déjà, seules les quantités sont
// fusionnées, sinon la ligne est ajoutée en fin de panier.
func MergeLine(lines []CartLine, line CartLine) []CartLine {
	for i := range lines {
		if lines[i].Key() == line.Key() {
			lines[i].Quantity += line.Quantity
			return lines
		}
	}
	return append(lines, line)
}
