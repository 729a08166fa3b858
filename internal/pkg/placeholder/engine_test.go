package placeholder

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TobiasFuchs/AdBoard/app/models"
)

func testContext() Context {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	signed := time.Date(2026, 2, 20, 0, 0, 0, 0, time.UTC)

	return Context{
		Company: &models.Company{
			Name:           "Acme Media d.o.o.",
			Address:        "Main Street 1",
			City:           "Sarajevo",
			CurrencySymbol: "€",
			ExchangeRate:   1.95583,
			Representative: "A. Director",
		},
		Client: &models.Client{
			Name:  "BigCorp Ltd",
			City:  "Mostar",
			Email: "contact@bigcorp.example",
		},
		Contract: &models.Contract{
			Number:        "2026-014",
			Type:          models.ContractTypeRental,
			Status:        models.ContractStatusActive,
			StartDate:     start,
			EndDate:       end,
			SignedAt:      &signed,
			SignedBy:      "A. Director",
			TotalAmount:   7200,
			MonthlyAmount: 1200,
			CurrencyCode:  "EUR",
			PaymentTerms:  "net 15",
		},
		Billboards: []models.Billboard{
			{Code: "BB-001", Address: "Highway M17", City: "Sarajevo", WidthM: 4, HeightM: 3, MonthlyPrice: 700},
			{Code: "BB-002", City: "Mostar", MonthlyPrice: 500},
		},
		Now: time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC),
	}
}

func TestRenderSimpleToken(t *testing.T) {
	got := Render("{{company_name}}", testContext())
	assert.Equal(t, "Acme Media d.o.o.", got)
}

func TestRenderUnknownTokenPassesThrough(t *testing.T) {
	got := Render("Hello {{unknown_token}}", testContext())
	assert.Equal(t, "Hello {{unknown_token}}", got)
}

func TestRenderMixedTemplate(t *testing.T) {
	tpl := "Contract {{contract_number}} between {{company_name}} and {{client_name}}, " +
		"valid {{contract_start_date}} - {{contract_end_date}}."
	got := Render(tpl, testContext())
	assert.Equal(t,
		"Contract 2026-014 between Acme Media d.o.o. and BigCorp Ltd, valid 01.03.2026 - 31.08.2026.",
		got)
}

func TestRenderMoneyFormatting(t *testing.T) {
	ctx := testContext()
	assert.Equal(t, "€7200.00", Render("{{contract_total_amount}}", ctx))
	assert.Equal(t, "€1200.00", Render("{{contract_monthly_amount}}", ctx))
	assert.Equal(t, "EUR", Render("{{contract_currency}}", ctx))
	assert.Equal(t, "1.9558", Render("{{exchange_rate}}", ctx))
	assert.Equal(t, "14081.98", Render("{{contract_total_local}}", ctx))
}

func TestRenderDoesNotReprocessResolvedValues(t *testing.T) {
	ctx := testContext()
	// Company-controlled free text containing token syntax must be inserted
	// verbatim, not substituted again.
	ctx.Company.Name = "Evil {{client_name}} Co"

	got := Render("{{company_name}}", ctx)
	assert.Equal(t, "Evil {{client_name}} Co", got)
}

func TestRenderTokenAfterStrayDelimiter(t *testing.T) {
	got := Render("{{ {{company_name}}", testContext())
	assert.Equal(t, "{{ Acme Media d.o.o.", got)
}

func TestRenderMissingDataResolvesEmpty(t *testing.T) {
	ctx := Context{Contract: &models.Contract{Number: "X-1"}}

	assert.Equal(t, "", Render("{{company_name}}", ctx))
	assert.Equal(t, "", Render("{{client_email}}", ctx))
	assert.Equal(t, "", Render("{{contract_sign_date}}", ctx))
	assert.Equal(t, "", Render("{{exchange_rate}}", ctx))
}

func TestRenderBillboardsList(t *testing.T) {
	got := Render("{{billboards_list}}", testContext())
	require.NotEmpty(t, got)
	lines := strings.Split(got, "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "1. BB-001 - Highway M17, Sarajevo (4.00 x 3.00 m)", lines[0])
	assert.Equal(t, "2. BB-002 - Mostar", lines[1])
}

func TestRenderBillboardsTable(t *testing.T) {
	got := Render("{{billboards_table}}", testContext())
	assert.Contains(t, got, "<table>")
	assert.Contains(t, got, "<td>BB-001</td>")
	assert.Contains(t, got, "<td>€700.00</td>")
}

func TestRenderBillboardAggregatesEmptyCollection(t *testing.T) {
	ctx := testContext()
	ctx.Billboards = nil

	assert.Equal(t, "", Render("{{billboards_list}}", ctx))
	assert.Equal(t, "", Render("{{billboards_table}}", ctx))
	assert.Equal(t, "0", Render("{{billboards_count}}", ctx))
}

func TestRenderSystemTokens(t *testing.T) {
	ctx := testContext()
	assert.Equal(t, "28.08.2026", Render("{{current_date}}", ctx))
	assert.Equal(t, "2026", Render("{{current_year}}", ctx))
}

func TestPreviewValuesCoversExactCatalog(t *testing.T) {
	values := PreviewValues(testContext())

	require.Len(t, values, len(Catalog()))
	for _, p := range Catalog() {
		_, ok := values[p.Name]
		assert.True(t, ok, "missing preview value for %s", p.Name)
	}
}

func TestPreviewValuesIncludesAggregates(t *testing.T) {
	values := PreviewValues(testContext())
	assert.NotEmpty(t, values["billboards_table"])
	assert.NotEmpty(t, values["billboards_list"])
	assert.Equal(t, "2", values["billboards_count"])
}

func TestBuildContextFromAggregate(t *testing.T) {
	company := &models.Company{ID: 1, Name: "Acme"}
	contract := &models.Contract{
		Number: "C-1",
		Client: models.Client{ID: 9, Name: "BigCorp"},
		Billboards: []models.Billboard{
			{Code: "BB-001"},
		},
	}

	ctx := BuildContext(company, contract)
	require.NotNil(t, ctx.Client)
	assert.Equal(t, "BigCorp", ctx.Client.Name)
	assert.Len(t, ctx.Billboards, 1)
	assert.False(t, ctx.Now.IsZero())

	// A contract without a preloaded client resolves client tokens empty.
	bare := BuildContext(company, &models.Contract{Number: "C-2"})
	assert.Nil(t, bare.Client)
	assert.Equal(t, "", Render("{{client_name}}", bare))
}
