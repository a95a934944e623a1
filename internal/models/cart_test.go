package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCartLineKey(t *testing.T) {
	base := CartLine{ProductID: "p1", Size: "M", Color: "Blue"}

	same := CartLine{ProductID: "p1", Size: "M", Color: "Blue", Quantity: 3, Price: 999}
	assert.Equal(t, base.Key(), same.Key(), "la quantité et le prix ne font pas partie de la clé")

	otherSize := base
	otherSize.Size = "L"
	assert.NotEqual(t, base.Key(), otherSize.Key())

	otherColor := base
	otherColor.Color = "Red"
	assert.NotEqual(t, base.Key(), otherColor.Key())

	otherProduct := base
	otherProduct.ProductID = "p2"
	assert.NotEqual(t, base.Key(), otherProduct.Key())
}

func TestMergeLineFusionsSameTriple(t *testing.T) {
	lines := []CartLine{{ProductID: "p1", Size: "M", Color: "Blue", Quantity: 2}}

	lines = MergeLine(lines, CartLine{ProductID: "p1", Size: "M", Color: "Blue", Quantity: 3})

	assert.Len(t, lines, 1)
	assert.Equal(t, 5, lines[0].Quantity)
}

func TestMergeLineAppendsDifferentVariant(t *testing.T) {
	lines := []CartLine{{ProductID: "p1", Size: "M", Color: "Blue", Quantity: 1}}

	lines = MergeLine(lines, CartLine{ProductID: "p1", Size: "L", Color: "Blue", Quantity: 1})
	lines = MergeLine(lines, CartLine{ProductID: "p1", Size: "M", Color: "Red", Quantity: 1})
	lines = MergeLine(lines, CartLine{ProductID: "p2", Size: "M", Color: "Blue", Quantity: 1})

	assert.Len(t, lines, 4)

	// Aucun doublon de triplet après les fusions
	seen := map[string]bool{}
	for _, l := range lines {
		assert.False(t, seen[l.Key()], "triplet en double: %s", l.Key())
		seen[l.Key()] = true
	}
}
