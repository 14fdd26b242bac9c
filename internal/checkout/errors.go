package checkout

import "errors"

// ErrEmptyCart is the validation failure of a cart without lines.
var ErrEmptyCart = errors.New("Le panier est vide")

// User-facing messages.
const (
	msgProductGone        = "Le produit %s n'existe plus"
	msgInsufficientStock  = "Stock insuffisant pour %s. Disponible: %d, Demandé: %d"
	msgProductExpired     = "Le produit %s est expiré"
	msgValidationFailed   = "Erreur lors de la validation du panier"
	msgTransactionFailed  = "Erreur lors du traitement de l'achat. Veuillez réessayer."
	msgStockUpdateFailed  = "Transaction %d créée, mais la mise à jour du stock a échoué. Contactez le support."
	msgPurchaseSucceeded  = "Achat effectué avec succès! Transaction ID: %d"
	msgFraudDetected      = "FRAUD DETECTED! Risk Level: %s, Score: %g"
	msgTransactionCleared = "Transaction approved. Risk Level: %s, Score: %g"
)
