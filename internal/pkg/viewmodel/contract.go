package viewmodel

// Contract contains all information needed for the contract detail and
// document preview pages.
type Contract struct {
	// Contract identity
	UUID   string
	Number string
	Status string
	Type   string

	// Parties
	ClientName    string
	ClientContact string

	// Term
	StartDate string
	EndDate   string
	SignedAt  string

	// Money, formatted with the company currency symbol
	TotalAmount   string
	MonthlyAmount string

	// Assigned billboards
	BillboardCount int
	Billboards     []ContractBillboard

	// Rendered document body (placeholder-substituted HTML)
	DocumentHTML string
}

// ContractBillboard is one assigned advertising face in the contract views.
type ContractBillboard struct {
	Code       string
	Location   string
	Dimensions string
	ThumbPath  string
}
