package placeholder

import (
	"time"

	"github.com/TobiasFuchs/AdBoard/app/models"
)

// Context is the resolved read-only view of one contract used to fill
// placeholders. It is derived fresh per substitution call and never
// persisted. Nil members and missing collections are legal and resolve to
// empty values.
type Context struct {
	Company    *models.Company
	Client     *models.Client
	Contract   *models.Contract
	Billboards []models.Billboard
	Now        time.Time
}

// BuildContext assembles a substitution context from a loaded contract
// aggregate. The contract is expected to carry its preloaded Client and
// Billboards associations; either may be absent.
func BuildContext(company *models.Company, contract *models.Contract) Context {
	ctx := Context{
		Company:  company,
		Contract: contract,
		Now:      time.Now(),
	}
	if contract != nil {
		if contract.Client.ID != 0 {
			client := contract.Client
			ctx.Client = &client
		}
		ctx.Billboards = contract.Billboards
	}
	return ctx
}

// currencySymbol picks the symbol used for money tokens: the company's
// configured symbol, else the contract currency code, else nothing.
func (c Context) currencySymbol() string {
	if c.Company != nil && c.Company.CurrencySymbol != "" {
		return c.Company.CurrencySymbol
	}
	if c.Contract != nil && c.Contract.CurrencyCode != "" {
		return c.Contract.CurrencyCode + " "
	}
	return ""
}

// now returns the context clock, defaulting to wall time.
func (c Context) now() time.Time {
	if c.Now.IsZero() {
		return time.Now()
	}
	return c.Now
}
