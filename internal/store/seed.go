package store

import (
	"context"
	"fmt"

	"github.com/diewo77/marina-admin/internal/models"
	"github.com/shopspring/decimal"
)

// SeedDemo fills an empty store with a few clients and transactions.
// It does nothing when clients already exist.
func SeedDemo(ctx context.Context, repo *Repository) error {
	existing, err := repo.ListClients(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	names := []string{"Capitainerie du Vieux-Port", "Chantier naval Le Goff", "Voilerie Atlantique"}
	clients := make([]models.Client, 0, len(names))
	for _, n := range names {
		c, err := repo.CreateClient(ctx, n)
		if err != nil {
			return fmt.Errorf("seeding clients: %w", err)
		}
		clients = append(clients, c)
	}

	day := func(s string) *string { return &s }
	remise := decimal.RequireFromString("15")
	demo := []models.Transaction{
		{
			Status:       models.StatusPending,
			DateCreation: day("2024-03-01"),
			DateEcheance: day("2024-04-01"),
			MontantHT:    decimal.RequireFromString("420.00"),
			MontantTTC:   50400,
			Client:       &clients[0],
			Articles: []models.Article{
				{Name: "Place de port (mars)", Quantite: decimal.NewFromInt(1), Prix: decimal.RequireFromString("400")},
				{Name: "Électricité", Quantite: decimal.NewFromInt(40), Prix: decimal.RequireFromString("0.5")},
			},
		},
		{
			Status:               models.StatusPaid,
			DateCreation:         day("2024-02-10"),
			ChangementStatusDate: day("2024-02-20"),
			DatePaiement:         day("2024-02-20"),
			MontantHT:            decimal.RequireFromString("1250.00"),
			Remise:               &remise,
			MontantTTC:           148200,
			Client:               &clients[1],
			Articles: []models.Article{
				{Name: "Carénage", Quantite: decimal.NewFromInt(1), Prix: decimal.RequireFromString("1250")},
			},
		},
		{
			Status:        models.StatusDelivered,
			DateCreation:  day("2024-03-12"),
			DateLivraison: day("2024-03-18"),
			MontantHT:     decimal.RequireFromString("89.90"),
			MontantTTC:    10788,
			Client:        &clients[2],
		},
	}
	for _, tx := range demo {
		if _, err := repo.Create(ctx, tx); err != nil {
			return fmt.Errorf("seeding transactions: %w", err)
		}
	}
	return nil
}
