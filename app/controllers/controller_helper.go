package controllers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/sujit-baniya/flash"

	"github.com/TobiasFuchs/AdBoard/internal/pkg/usercontext"
)

func isLoggedIn(c *fiber.Ctx) bool {
	var fromProtected bool
	if protectedValue := c.Locals(FROM_PROTECTED); protectedValue != nil {
		fromProtected = protectedValue.(bool)
	}

	return fromProtected
}

// layoutData builds the common template bindings every page expects.
func layoutData(c *fiber.Ctx, page string) fiber.Map {
	uc := usercontext.GetUserContext(c)
	return fiber.Map{
		"Page":          page,
		"FromProtected": uc.IsLoggedIn,
		"Username":      uc.Username,
		"IsAdmin":       uc.IsAdmin,
		"HasCompany":    uc.HasCompany(),
		"Plan":          uc.Plan,
		"Msg":           flash.Get(c),
		"csrf":          c.Locals("csrf"),
	}
}

// paramUint parses a numeric route parameter, returning 0 when absent or bad.
func paramUint(c *fiber.Ctx, name string) uint {
	raw := c.Params(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0
	}
	return uint(id)
}

// formFloat parses a decimal form value, returning 0 on garbage input.
func formFloat(c *fiber.Ctx, name string) float64 {
	v, err := strconv.ParseFloat(c.FormValue(name), 64)
	if err != nil {
		return 0
	}
	return v
}

// formInt parses an integer form value, returning def on garbage input.
func formInt(c *fiber.Ctx, name string, def int) int {
	v, err := strconv.Atoi(c.FormValue(name))
	if err != nil {
		return def
	}
	return v
}
