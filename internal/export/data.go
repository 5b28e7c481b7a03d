// Package export renders the bill of quantities as spreadsheet and PDF
// documents. The plain-text rendering lives with the ledger.
package export

import (
	"strconv"
	"time"

	"github.com/hammamikhairi/calcsite/internal/domain"
	"github.com/hammamikhairi/calcsite/internal/ledger"
)

// DateLayout formats the export date.
const DateLayout = "02 Jan 2006"

// Row is one ledger line prepared for export.
type Row struct {
	Index    string
	Name     string
	Detail   string
	Tool     string
	Amount   float64
	Currency domain.Currency
}

// Data holds everything a document needs. Building it is the only place a
// date enters, so renderers stay deterministic for a given Data.
type Data struct {
	Title       string
	Project     string
	Location    string
	CreatedDate string
	Currency    domain.Currency
	Rows        []Row
	Total       float64
}

// Build prepares items for export under project in currency cur.
func Build(items []domain.BOQItem, project domain.Project, cur domain.Currency, created time.Time) Data {
	rows := make([]Row, 0, len(items))
	for i, it := range items {
		c, ok := domain.LookupCurrency(it.CurrencyCode)
		if !ok {
			c = cur
		}
		rows = append(rows, Row{
			Index:    strconv.Itoa(i + 1),
			Name:     it.Name,
			Detail:   it.Detail,
			Tool:     it.Type,
			Amount:   it.Amount,
			Currency: c,
		})
	}
	return Data{
		Title:       "Bill of Quantities",
		Project:     project.Name,
		Location:    project.Location,
		CreatedDate: created.Format(DateLayout),
		Currency:    cur,
		Rows:        rows,
		Total:       ledger.Total(items),
	}
}

// amountText formats an amount with its currency code rather than symbol;
// the PDF core fonts cannot draw ₹ or £.
func amountText(cur domain.Currency, amount float64) string {
	code := cur
	code.Symbol = cur.Code + " "
	return ledger.FormatMoney(code, amount)
}
