package store

import (
	"github.com/diewo77/marina-admin/internal/models"
	"github.com/shopspring/decimal"
)

// clientRecord is the persisted client.
type clientRecord struct {
	ID   int64  `gorm:"primaryKey"`
	Name string `gorm:"size:255;not null"`
}

func (clientRecord) TableName() string { return "clients" }

// transactionRecord is the persisted transaction. Dates are stored as YYYY-MM-DD text.
type transactionRecord struct {
	ID     int64  `gorm:"primaryKey"`
	Status string `gorm:"size:32;not null;index"`

	ChangementStatusDate *string `gorm:"size:10"`
	DateCreation         *string `gorm:"size:10"`
	DateLivraison        *string `gorm:"size:10"`
	DatePaiement         *string `gorm:"size:10"`
	DateEcheance         *string `gorm:"size:10"`

	MontantHT  decimal.Decimal     `gorm:"type:decimal(12,2);not null"`
	Remise     decimal.NullDecimal `gorm:"type:decimal(12,2)"`
	MontantTTC int64               `gorm:"not null"`

	ClientID *int64
	Client   *clientRecord `gorm:"constraint:OnDelete:SET NULL"`

	Articles []articleRecord `gorm:"foreignKey:TransactionID"`
}

func (transactionRecord) TableName() string { return "transactions" }

// articleRecord is a line item. Position keeps the original order.
type articleRecord struct {
	ID            int64 `gorm:"primaryKey"`
	TransactionID int64 `gorm:"index;not null"`
	Position      int
	Name          string          `gorm:"size:255;not null"`
	Quantite      decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	Prix          decimal.Decimal `gorm:"type:decimal(12,2);not null"`
}

func (articleRecord) TableName() string { return "articles" }

func (r transactionRecord) toModel() models.Transaction {
	tx := models.Transaction{
		ID:                   r.ID,
		Status:               r.Status,
		ChangementStatusDate: r.ChangementStatusDate,
		DateCreation:         r.DateCreation,
		DateLivraison:        r.DateLivraison,
		DatePaiement:         r.DatePaiement,
		DateEcheance:         r.DateEcheance,
		MontantHT:            r.MontantHT,
		MontantTTC:           r.MontantTTC,
	}
	if r.Remise.Valid {
		d := r.Remise.Decimal
		tx.Remise = &d
	}
	if r.Client != nil {
		tx.Client = &models.Client{ID: r.Client.ID, Name: r.Client.Name}
	}
	for _, a := range r.Articles {
		tx.Articles = append(tx.Articles, models.Article{Name: a.Name, Quantite: a.Quantite, Prix: a.Prix})
	}
	return tx
}

// fromModel copies the writable columns of tx. Relations are resolved by the caller.
func fromModel(tx models.Transaction) transactionRecord {
	r := transactionRecord{
		ID:                   tx.ID,
		Status:               tx.Status,
		ChangementStatusDate: tx.ChangementStatusDate,
		DateCreation:         tx.DateCreation,
		DateLivraison:        tx.DateLivraison,
		DatePaiement:         tx.DatePaiement,
		DateEcheance:         tx.DateEcheance,
		MontantHT:            tx.MontantHT,
		MontantTTC:           tx.MontantTTC,
	}
	if tx.Remise != nil {
		r.Remise = decimal.NullDecimal{Decimal: *tx.Remise, Valid: true}
	}
	if tx.Client != nil {
		id := tx.Client.ID
		r.ClientID = &id
	}
	return r
}
