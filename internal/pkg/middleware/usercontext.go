package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/TobiasFuchs/AdBoard/app/repository"
	"github.com/TobiasFuchs/AdBoard/internal/pkg/session"
	"github.com/TobiasFuchs/AdBoard/internal/pkg/usercontext"
)

// UserContextMiddleware sets up the complete user context for every request.
// This centralizes session handling and resolves the active tenant and its
// plan so downstream handlers never touch the session themselves.
func UserContextMiddleware(c *fiber.Ctx) error {
	// Avoid interfering with Goth/Fiber session handling on OAuth routes.
	// Goth uses its own fiber session store and relies on per-request locals.
	// We skip our app session on /auth/* to prevent cross-store collisions.
	if strings.HasPrefix(c.Path(), "/auth/") {
		return c.Next()
	}
	sess, err := session.GetSessionStore().Get(c)
	if err != nil {
		return setAnonymous(c)
	}

	userID := sess.Get(usercontext.KeyUserID)
	if userID == nil {
		return setAnonymous(c)
	}

	username := session.GetSessionValue(c, usercontext.KeyUsername)
	isAdmin := sess.Get(usercontext.KeyIsAdmin)

	// Active tenant with session-first plan resolution. The company switcher
	// rewrites both session values, so a cached plan always belongs to the
	// company ID stored next to it.
	companyID := uint(0)
	if v, ok := sess.Get(usercontext.KeyCompanyID).(uint); ok {
		companyID = v
	}
	plan := session.GetSessionValue(c, usercontext.KeyPlan)

	if companyID == 0 {
		if user, err := repository.GetGlobalFactory().GetUserRepository().GetByID(userID.(uint)); err == nil && user.ActiveCompanyID != nil {
			companyID = *user.ActiveCompanyID
			sess.Set(usercontext.KeyCompanyID, companyID)
			plan = ""
			_ = sess.Save()
		}
	}
	if companyID != 0 && plan == "" {
		plan = "free"
		if company, err := repository.GetGlobalFactory().GetCompanyRepository().GetByID(companyID); err == nil && company.Plan != "" {
			plan = company.Plan
		}
		_ = session.SetSessionValue(c, usercontext.KeyPlan, plan)
	}

	userCtx := usercontext.UserContext{
		UserID:     userID.(uint),
		Username:   username,
		IsLoggedIn: true,
		IsAdmin:    isAdmin != nil && isAdmin.(bool),
		CompanyID:  companyID,
		Plan:       plan,
	}
	c.Locals("USER_CONTEXT", userCtx)

	c.Locals(usercontext.KeyFromProtected, true)
	c.Locals(usercontext.KeyUserID, userCtx.UserID)
	c.Locals(usercontext.KeyUsername, username)
	c.Locals(usercontext.KeyIsAdmin, userCtx.IsAdmin)
	c.Locals(usercontext.KeyCompanyID, companyID)

	return c.Next()
}

func setAnonymous(c *fiber.Ctx) error {
	c.Locals("USER_CONTEXT", usercontext.UserContext{
		IsLoggedIn: false,
		IsAdmin:    false,
	})
	c.Locals(usercontext.KeyFromProtected, false)
	c.Locals(usercontext.KeyIsAdmin, false)
	return c.Next()
}
