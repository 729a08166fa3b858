package placeholder

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// dateLayout is the fixed human-readable date format used in documents.
const dateLayout = "02.01.2006"

// Render substitutes every recognized {{token}} in template with its value
// resolved from ctx. Unrecognized tokens pass through unchanged. The scan is
// a single pass over the template, so resolved values are inserted verbatim
// and never reprocessed, even when company-controlled free text contains
// token syntax.
func Render(template string, ctx Context) string {
	values := resolveAll(ctx)

	var b strings.Builder
	b.Grow(len(template))

	rest := template
	for {
		open := strings.Index(rest, openDelim)
		if open < 0 {
			b.WriteString(rest)
			return b.String()
		}
		close := strings.Index(rest[open:], closeDelim)
		if close < 0 {
			b.WriteString(rest)
			return b.String()
		}
		close += open

		name := rest[open+len(openDelim) : close]
		if value, ok := values[name]; ok {
			b.WriteString(rest[:open])
			b.WriteString(value)
			rest = rest[close+len(closeDelim):]
		} else {
			// Unknown token: keep the literal text and rescan right after
			// the opening delimiter so a valid token starting inside it is
			// still found.
			b.WriteString(rest[:open+len(openDelim)])
			rest = rest[open+len(openDelim):]
		}
	}
}

// PreviewValues returns the map of token name -> resolved value for ctx,
// covering the full catalog including the aggregate billboard tokens. API
// consumers use it to preview values without rendering a full template.
func PreviewValues(ctx Context) map[string]string {
	return resolveAll(ctx)
}

// resolveAll computes the value of every catalog token under ctx. Tokens
// with no resolvable value yield the empty string.
func resolveAll(ctx Context) map[string]string {
	values := make(map[string]string, len(catalog))
	for _, p := range catalog {
		values[p.Name] = resolve(p.Name, ctx)
	}
	return values
}

func resolve(name string, ctx Context) string {
	co := ctx.Company
	cl := ctx.Client
	ct := ctx.Contract

	switch name {
	case "company_name":
		if co != nil {
			return co.Name
		}
	case "company_address":
		if co != nil {
			return co.Address
		}
	case "company_city":
		if co != nil {
			return co.City
		}
	case "company_zip":
		if co != nil {
			return co.ZipCode
		}
	case "company_country":
		if co != nil {
			return co.Country
		}
	case "company_tax_id":
		if co != nil {
			return co.TaxID
		}
	case "company_registration_no":
		if co != nil {
			return co.RegistrationNo
		}
	case "company_phone":
		if co != nil {
			return co.Phone
		}
	case "company_email":
		if co != nil {
			return co.Email
		}
	case "company_representative":
		if co != nil {
			return co.Representative
		}

	case "client_name":
		if cl != nil {
			return cl.Name
		}
	case "client_address":
		if cl != nil {
			return cl.Address
		}
	case "client_city":
		if cl != nil {
			return cl.City
		}
	case "client_country":
		if cl != nil {
			return cl.Country
		}
	case "client_tax_id":
		if cl != nil {
			return cl.TaxID
		}
	case "client_phone":
		if cl != nil {
			return cl.Phone
		}
	case "client_email":
		if cl != nil {
			return cl.Email
		}
	case "client_representative":
		if cl != nil {
			return cl.Representative
		}

	case "contract_number":
		if ct != nil {
			return ct.Number
		}
	case "contract_type":
		if ct != nil {
			return ct.Type
		}
	case "contract_status":
		if ct != nil {
			return ct.Status
		}
	case "contract_start_date":
		if ct != nil {
			return formatDate(ct.StartDate)
		}
	case "contract_end_date":
		if ct != nil {
			return formatDate(ct.EndDate)
		}
	case "contract_sign_date":
		if ct != nil && ct.SignedAt != nil {
			return formatDate(*ct.SignedAt)
		}
	case "contract_signed_by":
		if ct != nil {
			return ct.SignedBy
		}
	case "contract_duration_months":
		if ct != nil {
			return strconv.Itoa(ct.DurationMonths())
		}

	case "contract_total_amount":
		if ct != nil {
			return formatAmount(ct.TotalAmount, ctx.currencySymbol())
		}
	case "contract_monthly_amount":
		if ct != nil {
			return formatAmount(ct.MonthlyAmount, ctx.currencySymbol())
		}
	case "contract_currency":
		if ct != nil {
			return ct.CurrencyCode
		}
	case "exchange_rate":
		if co != nil && co.ExchangeRate > 0 {
			return strconv.FormatFloat(co.ExchangeRate, 'f', 4, 64)
		}
	case "contract_total_local":
		if ct != nil && co != nil && co.ExchangeRate > 0 {
			return formatAmount(ct.TotalAmount*co.ExchangeRate, "")
		}
	case "payment_terms":
		if ct != nil {
			return ct.PaymentTerms
		}

	case "billboards_table":
		return formatBillboardsTable(ctx)
	case "billboards_list":
		return formatBillboardsList(ctx)
	case "billboards_count":
		return strconv.Itoa(len(ctx.Billboards))

	case "current_date":
		return formatDate(ctx.now())
	case "current_year":
		return strconv.Itoa(ctx.now().Year())
	}

	return ""
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}

// formatAmount renders a money value with the currency symbol and two
// decimal places, e.g. "€1200.50".
func formatAmount(amount float64, symbol string) string {
	return fmt.Sprintf("%s%.2f", symbol, amount)
}

// formatBillboardsTable renders the attached billboards as an HTML table for
// document bodies. An empty collection renders nothing.
func formatBillboardsTable(ctx Context) string {
	if len(ctx.Billboards) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("<table>\n")
	b.WriteString("<tr><th>#</th><th>Code</th><th>Location</th><th>Dimensions</th><th>Monthly</th></tr>\n")
	for i, board := range ctx.Billboards {
		fmt.Fprintf(&b, "<tr><td>%d</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td></tr>\n",
			i+1,
			board.Code,
			board.LocationLine(),
			board.Dimensions(),
			formatAmount(board.MonthlyPrice, ctx.currencySymbol()),
		)
	}
	b.WriteString("</table>")
	return b.String()
}

// formatBillboardsList renders the attached billboards as numbered plain
// text lines. An empty collection renders nothing.
func formatBillboardsList(ctx Context) string {
	if len(ctx.Billboards) == 0 {
		return ""
	}

	lines := make([]string, 0, len(ctx.Billboards))
	for i, board := range ctx.Billboards {
		line := fmt.Sprintf("%d. %s - %s", i+1, board.Code, board.LocationLine())
		if dims := board.Dimensions(); dims != "" {
			line += " (" + dims + ")"
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
