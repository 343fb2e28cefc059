// Package store is the reference implementation of the remote transaction store:
// a gorm repository behind the JSON endpoints the admin gateway consumes.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/diewo77/marina-admin/internal/models"
	"github.com/diewo77/marina-admin/validation"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrNotFound is returned when no transaction has the requested id.
var ErrNotFound = errors.New("store: transaction not found")

// InvalidError carries the field violations of a rejected payload.
type InvalidError struct {
	Violations validation.Violations
}

func (e *InvalidError) Error() string {
	return fmt.Sprintf("store: invalid transaction: %v", e.Violations.Fields())
}

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Migrate creates or updates the store tables.
func (r *Repository) Migrate() error {
	if err := r.db.AutoMigrate(&clientRecord{}, &transactionRecord{}, &articleRecord{}); err != nil {
		return fmt.Errorf("migrating store schema: %w", err)
	}
	return nil
}

func (r *Repository) ListClients(ctx context.Context) ([]models.Client, error) {
	var recs []clientRecord
	if err := r.db.WithContext(ctx).Order("id").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("listing clients: %w", err)
	}
	clients := make([]models.Client, 0, len(recs))
	for _, c := range recs {
		clients = append(clients, models.Client{ID: c.ID, Name: c.Name})
	}
	return clients, nil
}

// CreateClient stores a client and returns it with its id.
func (r *Repository) CreateClient(ctx context.Context, name string) (models.Client, error) {
	rec := clientRecord{Name: name}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return models.Client{}, fmt.Errorf("creating client: %w", err)
	}
	return models.Client{ID: rec.ID, Name: rec.Name}, nil
}

func (r *Repository) List(ctx context.Context) ([]models.Transaction, error) {
	var recs []transactionRecord
	err := r.preloaded(ctx).Order("id").Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}
	out := make([]models.Transaction, 0, len(recs))
	for _, rec := range recs {
		out = append(out, rec.toModel())
	}
	return out, nil
}

func (r *Repository) Get(ctx context.Context, id int64) (models.Transaction, error) {
	var rec transactionRecord
	err := r.preloaded(ctx).First(&rec, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Transaction{}, ErrNotFound
	}
	if err != nil {
		return models.Transaction{}, fmt.Errorf("loading transaction %d: %w", id, err)
	}
	return rec.toModel(), nil
}

// Create stores tx under a new id. Line items in tx are stored as well.
func (r *Repository) Create(ctx context.Context, tx models.Transaction) (models.Transaction, error) {
	tx.ID = 0
	if err := r.validate(ctx, tx); err != nil {
		return models.Transaction{}, err
	}
	rec := fromModel(tx)
	err := r.db.WithContext(ctx).Transaction(func(db *gorm.DB) error {
		if err := db.Omit(clause.Associations).Create(&rec).Error; err != nil {
			return err
		}
		return insertArticles(db, rec.ID, tx.Articles)
	})
	if err != nil {
		return models.Transaction{}, fmt.Errorf("creating transaction: %w", err)
	}
	return r.Get(ctx, rec.ID)
}

// Update replaces the writable columns of transaction id. Stored line items are kept.
func (r *Repository) Update(ctx context.Context, id int64, tx models.Transaction) (models.Transaction, error) {
	if err := r.validate(ctx, tx); err != nil {
		return models.Transaction{}, err
	}
	db := r.db.WithContext(ctx)
	var count int64
	if err := db.Model(&transactionRecord{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return models.Transaction{}, fmt.Errorf("updating transaction %d: %w", id, err)
	}
	if count == 0 {
		return models.Transaction{}, ErrNotFound
	}

	tx.ID = id
	rec := fromModel(tx)
	if err := db.Omit(clause.Associations).Save(&rec).Error; err != nil {
		return models.Transaction{}, fmt.Errorf("updating transaction %d: %w", id, err)
	}
	return r.Get(ctx, id)
}

// Delete removes transaction id and its line items.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	var affected int64
	err := r.db.WithContext(ctx).Transaction(func(db *gorm.DB) error {
		if err := db.Where("transaction_id = ?", id).Delete(&articleRecord{}).Error; err != nil {
			return err
		}
		res := db.Delete(&transactionRecord{}, id)
		affected = res.RowsAffected
		return res.Error
	})
	if err != nil {
		return fmt.Errorf("deleting transaction %d: %w", id, err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) preloaded(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Client").
		Preload("Articles", func(db *gorm.DB) *gorm.DB { return db.Order("position") })
}

func insertArticles(db *gorm.DB, txID int64, items []models.Article) error {
	if len(items) == 0 {
		return nil
	}
	recs := make([]articleRecord, 0, len(items))
	for i, a := range items {
		recs = append(recs, articleRecord{TransactionID: txID, Position: i, Name: a.Name, Quantite: a.Quantite, Prix: a.Prix})
	}
	return db.Create(&recs).Error
}

// validate applies the store-side checks: non-empty status, non-negative amounts,
// well-formed dates and a known client when one is given.
func (r *Repository) validate(ctx context.Context, tx models.Transaction) error {
	v := make(validation.Violations)
	validation.Required("status", tx.Status, v)
	validation.NonNegative("montantHT", tx.MontantHT, v)
	if tx.Remise != nil {
		validation.NonNegative("remise", *tx.Remise, v)
	}
	for _, d := range tx.Dates() {
		if _, err := models.DateFromWire(d.Value); err != nil {
			v.Add(d.Field, validation.CodeInvalidDate)
		}
	}
	if tx.Client != nil {
		var count int64
		if err := r.db.WithContext(ctx).Model(&clientRecord{}).Where("id = ?", tx.Client.ID).Count(&count).Error; err != nil {
			return fmt.Errorf("checking client %d: %w", tx.Client.ID, err)
		}
		if count == 0 {
			v.Add("client", validation.CodeUnknownReference)
		}
	}
	if !v.Empty() {
		return &InvalidError{Violations: v}
	}
	return nil
}
