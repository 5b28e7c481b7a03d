package ledger

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/hammamikhairi/calcsite/internal/domain"
)

const (
	exportTitle  = "CALCSITE PRO - PROJECT BILL OF QUANTITIES"
	exportFooter = "Generated with CalcSite Pro Excellence Suite"
	ruleWidth    = 40
)

// Export renders items as the plain-text bill. The output depends only on
// its arguments, so the same ledger always exports byte-identically.
func Export(items []domain.BOQItem, cur domain.Currency) string {
	rule := strings.Repeat("━", ruleWidth)

	var b strings.Builder
	b.WriteString(exportTitle + "\n")
	b.WriteString(rule + "\n")
	b.WriteString("Project Status: ACTIVE ESTIMATION\n")
	fmt.Fprintf(&b, "Currency: %s\n", cur.Code)
	b.WriteString(rule + "\n\n")

	for i, it := range items {
		fmt.Fprintf(&b, "%d. %s\n", i+1, it.Name)
		fmt.Fprintf(&b, "   Specification: %s\n", it.Detail)
		fmt.Fprintf(&b, "   Est. Cost: %s\n\n", formatItemAmount(it, cur))
	}

	b.WriteString(rule + "\n")
	fmt.Fprintf(&b, "GRAND TOTAL ESTIMATE: %s\n", FormatMoney(cur, Total(items)))
	b.WriteString(rule + "\n")
	b.WriteString(exportFooter + "\n")
	return b.String()
}

func formatItemAmount(it domain.BOQItem, fallback domain.Currency) string {
	cur, ok := domain.LookupCurrency(it.CurrencyCode)
	if !ok {
		cur = fallback
	}
	if it.CurrencySymbol != "" {
		cur.Symbol = it.CurrencySymbol
	}
	return FormatMoney(cur, it.Amount)
}

// FormatMoney rounds amount to whole units and groups digits: lakh style
// (1,23,456) for INR and thousands (123,456) elsewhere. Amounts beyond the
// int64 range keep every digit; non-finite amounts render as n/a.
func FormatMoney(cur domain.Currency, amount float64) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return cur.Symbol + "n/a"
	}
	n := math.Round(amount)
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}
	var digits string
	if cur.Code == domain.BaseCurrency.Code {
		digits = groupIndian(strconv.FormatFloat(n, 'f', 0, 64))
	} else {
		digits = humanize.Commaf(n)
	}
	return sign + cur.Symbol + digits
}

// groupIndian keeps the last three digits together and groups the rest in
// pairs.
func groupIndian(s string) string {
	if len(s) <= 3 {
		return s
	}
	out := s[len(s)-3:]
	rest := s[:len(s)-3]
	for len(rest) > 2 {
		out = rest[len(rest)-2:] + "," + out
		rest = rest[:len(rest)-2]
	}
	if rest != "" {
		out = rest + "," + out
	}
	return out
}
