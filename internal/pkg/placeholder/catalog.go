package placeholder

import "sort"

// Token delimiters are fixed; the catalog stores bare names.
const (
	openDelim  = "{{"
	closeDelim = "}}"
)

// Category groups placeholders for UI discoverability. Grouping has no
// effect on substitution, which operates over the flat union of all tokens.
type Category string

const (
	CategoryCompany   Category = "company"
	CategoryClient    Category = "client"
	CategoryContract  Category = "contract"
	CategoryFinancial Category = "financial"
	CategoryBillboard Category = "billboard"
	CategorySystem    Category = "system"
)

// Placeholder describes one substitution token.
type Placeholder struct {
	Name     string
	Category Category
	Label    string
}

// Token returns the delimited form used inside templates.
func (p Placeholder) Token() string {
	return openDelim + p.Name + closeDelim
}

var catalog = []Placeholder{
	{Name: "company_name", Category: CategoryCompany, Label: "Company name"},
	{Name: "company_address", Category: CategoryCompany, Label: "Company street address"},
	{Name: "company_city", Category: CategoryCompany, Label: "Company city"},
	{Name: "company_zip", Category: CategoryCompany, Label: "Company ZIP code"},
	{Name: "company_country", Category: CategoryCompany, Label: "Company country"},
	{Name: "company_tax_id", Category: CategoryCompany, Label: "Company tax ID"},
	{Name: "company_registration_no", Category: CategoryCompany, Label: "Company registration number"},
	{Name: "company_phone", Category: CategoryCompany, Label: "Company phone"},
	{Name: "company_email", Category: CategoryCompany, Label: "Company email"},
	{Name: "company_representative", Category: CategoryCompany, Label: "Company representative"},

	{Name: "client_name", Category: CategoryClient, Label: "Client name"},
	{Name: "client_address", Category: CategoryClient, Label: "Client street address"},
	{Name: "client_city", Category: CategoryClient, Label: "Client city"},
	{Name: "client_country", Category: CategoryClient, Label: "Client country"},
	{Name: "client_tax_id", Category: CategoryClient, Label: "Client tax ID"},
	{Name: "client_phone", Category: CategoryClient, Label: "Client phone"},
	{Name: "client_email", Category: CategoryClient, Label: "Client email"},
	{Name: "client_representative", Category: CategoryClient, Label: "Client representative"},

	{Name: "contract_number", Category: CategoryContract, Label: "Contract number"},
	{Name: "contract_type", Category: CategoryContract, Label: "Contract type"},
	{Name: "contract_status", Category: CategoryContract, Label: "Contract status"},
	{Name: "contract_start_date", Category: CategoryContract, Label: "Contract start date"},
	{Name: "contract_end_date", Category: CategoryContract, Label: "Contract end date"},
	{Name: "contract_sign_date", Category: CategoryContract, Label: "Date the contract was signed"},
	{Name: "contract_signed_by", Category: CategoryContract, Label: "Signer name"},
	{Name: "contract_duration_months", Category: CategoryContract, Label: "Duration in months"},

	{Name: "contract_total_amount", Category: CategoryFinancial, Label: "Total amount with currency"},
	{Name: "contract_monthly_amount", Category: CategoryFinancial, Label: "Monthly amount with currency"},
	{Name: "contract_currency", Category: CategoryFinancial, Label: "Contract currency code"},
	{Name: "exchange_rate", Category: CategoryFinancial, Label: "Company exchange rate"},
	{Name: "contract_total_local", Category: CategoryFinancial, Label: "Total amount converted at the exchange rate"},
	{Name: "payment_terms", Category: CategoryFinancial, Label: "Payment terms"},

	{Name: "billboards_table", Category: CategoryBillboard, Label: "Table of all billboards on the contract"},
	{Name: "billboards_list", Category: CategoryBillboard, Label: "Numbered list of all billboards on the contract"},
	{Name: "billboards_count", Category: CategoryBillboard, Label: "Number of billboards on the contract"},

	{Name: "current_date", Category: CategorySystem, Label: "Today's date"},
	{Name: "current_year", Category: CategorySystem, Label: "Current year"},
}

var catalogByName = func() map[string]Placeholder {
	m := make(map[string]Placeholder, len(catalog))
	for _, p := range catalog {
		m[p.Name] = p
	}
	return m
}()

// Known reports whether name is a recognized token name.
func Known(name string) bool {
	_, ok := catalogByName[name]
	return ok
}

// Catalog returns all placeholders in catalog order.
func Catalog() []Placeholder {
	out := make([]Placeholder, len(catalog))
	copy(out, catalog)
	return out
}

// ByCategory returns the catalog grouped for UI pickers, categories sorted
// alphabetically, entries in catalog order.
func ByCategory() map[Category][]Placeholder {
	m := make(map[Category][]Placeholder)
	for _, p := range catalog {
		m[p.Category] = append(m[p.Category], p)
	}
	return m
}

// Categories returns the distinct categories sorted alphabetically.
func Categories() []Category {
	seen := make(map[Category]struct{})
	var out []Category
	for _, p := range catalog {
		if _, ok := seen[p.Category]; !ok {
			seen[p.Category] = struct{}{}
			out = append(out, p.Category)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
