// Package i18n holds the UI translations (French first, English second).
package i18n

import (
	"context"
	"strings"
)

// DefaultLang is used when nothing else matches.
const DefaultLang = "fr"

type langKey struct{}

// WithLang returns a context carrying lang.
func WithLang(ctx context.Context, lang string) context.Context {
	return context.WithValue(ctx, langKey{}, lang)
}

// LangFromContext returns the language stored in ctx, defaulting to DefaultLang.
func LangFromContext(ctx context.Context) string {
	if l, ok := ctx.Value(langKey{}).(string); ok && l != "" {
		return l
	}
	return DefaultLang
}

// DetectLanguage picks a supported language from an Accept-Language header.
func DetectLanguage(header string) string {
	for _, part := range strings.Split(header, ",") {
		tag := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		base := strings.ToLower(strings.SplitN(tag, "-", 2)[0])
		if _, ok := messages[base]; ok {
			return base
		}
	}
	return DefaultLang
}

// T translates code into lang. Unknown languages fall back to French,
// unknown codes to the code itself.
func T(lang, code string) string {
	if m, ok := messages[lang]; ok {
		if s, ok := m[code]; ok {
			return s
		}
	}
	if s, ok := messages[DefaultLang][code]; ok {
		return s
	}
	return code
}

var messages = map[string]map[string]string{
	"fr": {
		// field violations
		"required":             "Requis",
		"must_be_non_negative": "Doit être positif ou nul",
		"invalid_number":       "Nombre invalide",
		"invalid_date":         "Date invalide",
		"unknown_reference":    "Référence inconnue",

		// notifications
		"transactions_load_failed": "Impossible de charger les transactions",
		"transaction_created":      "Transaction créée",
		"transaction_updated":      "Transaction mise à jour",
		"transaction_save_failed":  "Échec de l'enregistrement de la transaction",
		"transaction_deleted":      "Transaction supprimée",
		"transaction_delete_failed": "Échec de la suppression de la transaction",

		// screens
		"transactions":          "Transactions",
		"new_transaction":       "Nouvelle transaction",
		"edit_transaction":      "Modifier la transaction",
		"loading":               "Chargement…",
		"reload":                "Actualiser",
		"save":                  "Enregistrer",
		"cancel":                "Annuler",
		"edit":                  "Modifier",
		"delete":                "Supprimer",
		"no_transactions":       "Aucune transaction",
		"select_client":         "Choisir un client",
		"articles":              "Articles",
		"page":                  "Page",

		// fields / columns
		"id":                   "N°",
		"status":               "Statut",
		"client":               "Client",
		"montantHT":            "Montant HT",
		"remise":               "Remise",
		"montantTTC":           "Montant TTC",
		"dateCreation":         "Date de création",
		"changementStatusDate": "Changement de statut",
		"dateLivraison":        "Date de livraison",
		"dateEcheance":         "Date d'échéance",
		"datePaiement":         "Date de paiement",
		"name":                 "Désignation",
		"quantite":             "Quantité",
		"prix":                 "Prix",
	},
	"en": {
		"required":             "Required",
		"must_be_non_negative": "Must be zero or more",
		"invalid_number":       "Invalid number",
		"invalid_date":         "Invalid date",
		"unknown_reference":    "Unknown reference",

		"transactions_load_failed":  "Could not load transactions",
		"transaction_created":       "Transaction created",
		"transaction_updated":       "Transaction updated",
		"transaction_save_failed":   "Could not save the transaction",
		"transaction_deleted":       "Transaction deleted",
		"transaction_delete_failed": "Could not delete the transaction",

		"transactions":    "Transactions",
		"new_transaction": "New transaction",
		"edit_transaction": "Edit transaction",
		"loading":         "Loading…",
		"reload":          "Reload",
		"save":            "Save",
		"cancel":          "Cancel",
		"edit":            "Edit",
		"delete":          "Delete",
		"no_transactions": "No transactions",
		"select_client":   "Select a client",
		"articles":        "Items",
		"page":            "Page",

		"id":                   "#",
		"status":               "Status",
		"client":               "Client",
		"montantHT":            "Amount excl. tax",
		"remise":               "Discount",
		"montantTTC":           "Amount incl. tax",
		"dateCreation":         "Created",
		"changementStatusDate": "Status changed",
		"dateLivraison":        "Delivery date",
		"dateEcheance":         "Due date",
		"datePaiement":         "Payment date",
		"name":                 "Item",
		"quantite":             "Quantity",
		"prix":                 "Price",
	},
}
