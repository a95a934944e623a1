package checkout

import (
	"errors"
	"fmt"
)

// Erreurs de flux du checkout. Toutes sont rattrapées à la frontière de la
// machine à états et converties en notifications utilisateur, jamais propagées
// au-delà des handlers.
var (
	ErrAuthRequired      = errors.New("you must be logged in to place an order")
	ErrStockConflict     = errors.New("one or more items in your cart are out of stock")
	ErrInvalidAmount     = errors.New("order amount is invalid")
	ErrEmptyCart         = errors.New("your cart is empty")
	ErrMissingTxnRef     = errors.New("transaction reference is required")
	ErrAlreadySubmitting = errors.New("order submission already in progress")
	ErrInvalidTransition = errors.New("action not allowed in the current checkout step")
)

// ValidationError porte les erreurs champ par champ du formulaire de livraison
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("shipping form has %d invalid field(s)", len(e.Fields))
}

// PersistenceError enveloppe un échec d'écriture de la commande
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return "failed to place order: " + e.Err.Error()
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
