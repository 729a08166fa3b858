package constants

// Static route constants
const (
	PublicRoute    = "/"
	LoginRoute     = "/login"
	RegisterRoute  = "/register"
	LogoutRoute    = "/logout"
	DashboardRoute = "/dashboard"
	CompaniesRoute = "/companies"
	UpgradeRoute   = "/upgrade"
	UploadsRoute   = "/uploads"
	// Upload path without leading slash for URL construction
	UploadsPath = "uploads"
)
