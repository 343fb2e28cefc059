package form

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/diewo77/marina-admin/internal/models"
	"github.com/diewo77/marina-admin/validation"
	"github.com/shopspring/decimal"
)

// Form field names. They match the wire names of the transaction.
const (
	FieldStatus               = "status"
	FieldMontantHT            = "montantHT"
	FieldRemise               = "remise"
	FieldClient               = "client"
	FieldChangementStatusDate = "changementStatusDate"
	FieldDateCreation         = "dateCreation"
	FieldDateLivraison        = "dateLivraison"
	FieldDatePaiement         = "datePaiement"
	FieldDateEcheance         = "dateEcheance"
)

// DateFields lists the editable date fields in display order.
var DateFields = []string{
	FieldDateCreation,
	FieldChangementStatusDate,
	FieldDateLivraison,
	FieldDateEcheance,
	FieldDatePaiement,
}

// Values is the editable view model of a transaction.
// A nil pointer means the field is unset.
type Values struct {
	Status    string
	MontantHT *decimal.Decimal
	Remise    *decimal.Decimal
	ClientID  *int64

	ChangementStatusDate *models.Date
	DateCreation         *models.Date
	DateLivraison        *models.Date
	DatePaiement         *models.Date
	DateEcheance         *models.Date

	// parse problems found by ParseValues, reported on submit
	parseErrs validation.Violations
}

// Seed projects a wire record into the view model. Unparseable dates are left unset
// and the client relation is reduced to its id.
func Seed(tx models.Transaction) Values {
	v := Values{Status: tx.Status}
	amount := tx.MontantHT
	v.MontantHT = &amount
	if tx.Remise != nil {
		r := *tx.Remise
		v.Remise = &r
	}
	if tx.Client != nil {
		id := tx.Client.ID
		v.ClientID = &id
	}
	for _, f := range DateFields {
		d, err := models.DateFromWire(*wireDate(&tx, f))
		if err != nil {
			d = nil
		}
		*v.date(f) = d
	}
	return v
}

// ParseValues reads the view model from submitted HTML form values.
// Blank inputs are unset; malformed numbers and dates are reported as violations.
func ParseValues(form url.Values) Values {
	v := Values{Status: strings.TrimSpace(form.Get(FieldStatus))}
	errs := make(validation.Violations)

	v.MontantHT = parseDecimal(FieldMontantHT, form.Get(FieldMontantHT), errs)
	v.Remise = parseDecimal(FieldRemise, form.Get(FieldRemise), errs)

	if raw := strings.TrimSpace(form.Get(FieldClient)); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			errs.Add(FieldClient, validation.CodeInvalidNumber)
		} else {
			v.ClientID = &id
		}
	}

	for _, f := range DateFields {
		raw := strings.TrimSpace(form.Get(f))
		if raw == "" {
			continue
		}
		d, err := models.ParseDate(raw)
		if err != nil {
			errs.Add(f, validation.CodeInvalidDate)
			continue
		}
		*v.date(f) = &d
	}

	if !errs.Empty() {
		v.parseErrs = errs
	}
	return v
}

func parseDecimal(field, raw string, errs validation.Violations) *decimal.Decimal {
	raw = strings.TrimSpace(strings.ReplaceAll(raw, ",", "."))
	if raw == "" {
		return nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		errs.Add(field, validation.CodeInvalidNumber)
		return nil
	}
	return &d
}

// Validate returns the field violations of v, parse problems first.
func (v Values) Validate() validation.Violations {
	errs := make(validation.Violations)
	errs.Merge(v.parseErrs)

	validation.Required(FieldStatus, v.Status, errs)
	validation.Present(FieldMontantHT, v.MontantHT != nil, errs)
	if v.MontantHT != nil {
		validation.NonNegative(FieldMontantHT, *v.MontantHT, errs)
	}
	if v.Remise != nil {
		validation.NonNegative(FieldRemise, *v.Remise, errs)
	}
	validation.Present(FieldClient, v.ClientID != nil, errs)
	return errs
}

// Date returns the value of a date field, or nil.
func (v Values) Date(field string) *models.Date {
	if p := v.date(field); p != nil {
		return *p
	}
	return nil
}

// Input renders a field as an HTML input value.
func (v Values) Input(field string) string {
	switch field {
	case FieldStatus:
		return v.Status
	case FieldMontantHT:
		return decimalInput(v.MontantHT)
	case FieldRemise:
		return decimalInput(v.Remise)
	case FieldClient:
		if v.ClientID == nil {
			return ""
		}
		return strconv.FormatInt(*v.ClientID, 10)
	}
	if d := v.Date(field); d != nil {
		return d.String()
	}
	return ""
}

func decimalInput(d *decimal.Decimal) string {
	if d == nil {
		return ""
	}
	return d.String()
}

func (v *Values) date(field string) **models.Date {
	switch field {
	case FieldChangementStatusDate:
		return &v.ChangementStatusDate
	case FieldDateCreation:
		return &v.DateCreation
	case FieldDateLivraison:
		return &v.DateLivraison
	case FieldDatePaiement:
		return &v.DatePaiement
	case FieldDateEcheance:
		return &v.DateEcheance
	}
	return nil
}

func wireDate(tx *models.Transaction, field string) **string {
	switch field {
	case FieldChangementStatusDate:
		return &tx.ChangementStatusDate
	case FieldDateCreation:
		return &tx.DateCreation
	case FieldDateLivraison:
		return &tx.DateLivraison
	case FieldDatePaiement:
		return &tx.DatePaiement
	case FieldDateEcheance:
		return &tx.DateEcheance
	}
	return nil
}

// ClientLookup resolves a client id to the embedded relation.
type ClientLookup interface {
	Lookup(id int64) (models.Client, bool)
}

// Build merges v over base field by field. Dates are re-serialized to YYYY-MM-DD or null
// and the selected client is resolved through clients; an unknown id yields a null client.
// Fields the form does not edit (id, montantTTC, articles) keep their base value.
func Build(base models.Transaction, v Values, clients ClientLookup) models.Transaction {
	out := base

	out.Status = v.Status
	if v.MontantHT != nil {
		out.MontantHT = *v.MontantHT
	}
	out.Remise = nil
	if v.Remise != nil {
		r := *v.Remise
		out.Remise = &r
	}

	for _, f := range DateFields {
		*wireDate(&out, f) = models.DateToWire(v.Date(f))
	}

	out.Client = nil
	if v.ClientID != nil {
		if c, ok := clients.Lookup(*v.ClientID); ok {
			out.Client = &c
		}
	}

	if base.Articles != nil {
		out.Articles = append([]models.Article(nil), base.Articles...)
	}
	return out
}
