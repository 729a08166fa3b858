package usercontext

import "github.com/gofiber/fiber/v2"

// UserContext represents the complete user context for a request, including
// the active tenant (company) and its subscription plan.
type UserContext struct {
	UserID     uint   `json:"user_id"`
	Username   string `json:"username"`
	IsLoggedIn bool   `json:"is_logged_in"`
	IsAdmin    bool   `json:"is_admin"`
	CompanyID  uint   `json:"company_id"`
	Plan       string `json:"plan"`
}

// HasCompany reports whether an active tenant is resolved for the request.
func (u UserContext) HasCompany() bool {
	return u.CompanyID != 0
}

// GetUserContext retrieves the user context from fiber context
// Returns a default anonymous context if none is set
func GetUserContext(c *fiber.Ctx) UserContext {
	if ctx := c.Locals("USER_CONTEXT"); ctx != nil {
		return ctx.(UserContext)
	}
	return UserContext{IsLoggedIn: false, IsAdmin: false}
}

// IsLoggedIn checks if the current user is logged in
func IsLoggedIn(c *fiber.Ctx) bool {
	return GetUserContext(c).IsLoggedIn
}

// IsAdmin checks if the current user is an admin
func IsAdmin(c *fiber.Ctx) bool {
	return GetUserContext(c).IsAdmin
}

// GetUserID returns the current user's ID, or 0 if not logged in
func GetUserID(c *fiber.Ctx) uint {
	return GetUserContext(c).UserID
}

// GetCompanyID returns the active company ID, or 0 when no tenant is selected
func GetCompanyID(c *fiber.Ctx) uint {
	return GetUserContext(c).CompanyID
}

// GetPlan returns the active company's plan, defaulting to "free"
func GetPlan(c *fiber.Ctx) string {
	if p := GetUserContext(c).Plan; p != "" {
		return p
	}
	return "free"
}
