package models

import (
	"github.com/shopspring/decimal"
)

func init() {
	// The store exchanges amounts as JSON numbers, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// Transaction statuses known to the status color table.
const (
	StatusDraft     = "DRAFT"
	StatusPending   = "PENDING"
	StatusValidated = "VALIDATED"
	StatusDelivered = "DELIVERED"
	StatusPaid      = "PAID"
	StatusCancelled = "CANCELLED"
)

// Transaction is a commercial record (order or invoice) as exchanged with the store.
// Dates travel as YYYY-MM-DD strings or null.
type Transaction struct {
	// ID is assigned by the store; zero means the record was never created.
	ID int64 `json:"id,omitempty"`

	Status string `json:"status"`

	// Lifecycle dates
	ChangementStatusDate *string `json:"changementStatusDate"`
	DateCreation         *string `json:"dateCreation"`
	DateLivraison        *string `json:"dateLivraison"`
	DatePaiement         *string `json:"datePaiement"`
	DateEcheance         *string `json:"dateEcheance"`

	// Amounts
	MontantHT  decimal.Decimal  `json:"montantHT"`
	Remise     *decimal.Decimal `json:"remise"`
	MontantTTC int64            `json:"montantTTC"` // minor units (cents)

	Client *Client `json:"client"`

	// Articles is only ever read from the store.
	Articles []Article `json:"articles,omitempty"`
}

// Article is a line item of a transaction.
type Article struct {
	Name     string          `json:"name"`
	Quantite decimal.Decimal `json:"quantité"`
	Prix     decimal.Decimal `json:"prix"`
}

// Total returns quantity times unit price.
func (a Article) Total() decimal.Decimal {
	return a.Quantite.Mul(a.Prix)
}

// TTC returns the formatted tax-inclusive amount.
func (t *Transaction) TTC() string {
	return FormatCents(t.MontantTTC)
}

// StatusColor returns the display color of the transaction status.
func (t *Transaction) StatusColor() string {
	return StatusColor(t.Status)
}

// ClientName returns the embedded client name, or "" when the relation is null.
func (t *Transaction) ClientName() string {
	if t.Client == nil {
		return ""
	}
	return t.Client.Name
}

// Dates returns the lifecycle dates keyed by their wire name, in display order.
func (t *Transaction) Dates() []NamedDate {
	return []NamedDate{
		{Field: "dateCreation", Value: t.DateCreation},
		{Field: "changementStatusDate", Value: t.ChangementStatusDate},
		{Field: "dateLivraison", Value: t.DateLivraison},
		{Field: "dateEcheance", Value: t.DateEcheance},
		{Field: "datePaiement", Value: t.DatePaiement},
	}
}

// NamedDate pairs a wire field name with its value.
type NamedDate struct {
	Field string
	Value *string
}
