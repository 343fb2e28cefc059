package listing

import (
	"strconv"

	"github.com/diewo77/marina-admin/internal/models"
	"github.com/shopspring/decimal"
)

// Column describes one table column. Header is an i18n key; Accessor extracts the cell
// value and Format renders it. Class, when set, yields a CSS modifier for the cell.
type Column struct {
	Header   string
	Accessor func(models.Transaction) any
	Format   func(any) string
	Class    func(models.Transaction) string
}

// Cell renders the column for tx.
func (c Column) Cell(tx models.Transaction) string {
	return c.Format(c.Accessor(tx))
}

// CellClass returns the cell modifier for tx, or "".
func (c Column) CellClass(tx models.Transaction) string {
	if c.Class == nil {
		return ""
	}
	return c.Class(tx)
}

// Columns returns the transaction table layout.
func Columns() []Column {
	return []Column{
		{
			Header:   "id",
			Accessor: func(tx models.Transaction) any { return tx.ID },
			Format:   func(v any) string { return strconv.FormatInt(v.(int64), 10) },
		},
		{
			Header:   "status",
			Accessor: func(tx models.Transaction) any { return tx.Status },
			Format:   formatString,
			Class:    func(tx models.Transaction) string { return models.StatusColor(tx.Status) },
		},
		{
			Header:   "client",
			Accessor: func(tx models.Transaction) any { return tx.ClientName() },
			Format:   formatString,
		},
		{
			Header:   "montantHT",
			Accessor: func(tx models.Transaction) any { return tx.MontantHT },
			Format:   func(v any) string { return v.(decimal.Decimal).StringFixed(2) },
		},
		{
			Header:   "remise",
			Accessor: func(tx models.Transaction) any { return tx.Remise },
			Format: func(v any) string {
				d := v.(*decimal.Decimal)
				if d == nil {
					return ""
				}
				return d.StringFixed(2)
			},
		},
		{
			Header:   "montantTTC",
			Accessor: func(tx models.Transaction) any { return tx.MontantTTC },
			Format:   func(v any) string { return models.FormatCents(v.(int64)) },
		},
		dateColumn("dateCreation", func(tx models.Transaction) *string { return tx.DateCreation }),
		dateColumn("dateLivraison", func(tx models.Transaction) *string { return tx.DateLivraison }),
		dateColumn("dateEcheance", func(tx models.Transaction) *string { return tx.DateEcheance }),
		dateColumn("datePaiement", func(tx models.Transaction) *string { return tx.DatePaiement }),
	}
}

func dateColumn(header string, get func(models.Transaction) *string) Column {
	return Column{
		Header:   header,
		Accessor: func(tx models.Transaction) any { return get(tx) },
		Format: func(v any) string {
			s := v.(*string)
			if s == nil {
				return ""
			}
			return *s
		},
	}
}

func formatString(v any) string { return v.(string) }

// PageInfo is one page of rows.
type PageInfo struct {
	Rows  []models.Transaction
	Page  int
	Pages int
	Total int
}

func (p PageInfo) HasPrev() bool { return p.Page > 1 }
func (p PageInfo) HasNext() bool { return p.Page < p.Pages }

// Page slices rows for display. page is 1-based and clamped to the valid range;
// a non-positive size shows everything on one page.
func Page(rows []models.Transaction, page, size int) PageInfo {
	total := len(rows)
	if size <= 0 || size >= total {
		return PageInfo{Rows: rows, Page: 1, Pages: 1, Total: total}
	}
	pages := (total + size - 1) / size
	if page < 1 {
		page = 1
	}
	if page > pages {
		page = pages
	}
	start := (page - 1) * size
	end := min(start+size, total)
	return PageInfo{Rows: rows[start:end], Page: page, Pages: pages, Total: total}
}
