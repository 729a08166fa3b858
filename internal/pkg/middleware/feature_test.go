package middleware

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TobiasFuchs/AdBoard/internal/pkg/entitlements"
	"github.com/TobiasFuchs/AdBoard/internal/pkg/usage"
	"github.com/TobiasFuchs/AdBoard/internal/pkg/usercontext"
)

type stubSource struct {
	rules map[string]string
	err   error
}

func (s *stubSource) Lookup(planID string, key entitlements.FeatureKey) (string, bool, error) {
	if s.err != nil {
		return "", false, s.err
	}
	v, ok := s.rules[planID+"/"+string(key)]
	return v, ok, nil
}

type mapCache struct {
	m map[string]string
}

func (c *mapCache) Get(key string) (string, bool, error) {
	v, ok := c.m[key]
	return v, ok, nil
}

func (c *mapCache) Set(key string, value string, _ time.Duration) error {
	c.m[key] = value
	return nil
}

func useGate(t *testing.T, src entitlements.Source) {
	t.Helper()
	SetFeatureGate(entitlements.NewGate(entitlements.NewRuleStoreWith(src, &mapCache{m: map[string]string{}})))
	t.Cleanup(func() { SetFeatureGate(nil) })
}

func testApp(handler fiber.Handler, uc *usercontext.UserContext) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if uc != nil {
			c.Locals("USER_CONTEXT", *uc)
		}
		return c.Next()
	})
	app.Get("/api/v1/test", handler, func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	app.Get("/test", handler, func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	return app
}

func apiRequest() *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/test", nil)
	req.Header.Set("Accept", "application/json")
	return req
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	return body
}

func TestRequireFeatureDeniesWhenRuleAbsent(t *testing.T) {
	useGate(t, &stubSource{rules: map[string]string{}})
	uc := &usercontext.UserContext{UserID: 1, IsLoggedIn: true, CompanyID: 7, Plan: "free"}
	app := testApp(RequireFeature(entitlements.FeatureTeamInvitations, false), uc)

	resp, err := app.Test(apiRequest())
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "feature_not_available", body["error"])
	assert.Equal(t, string(entitlements.FeatureTeamInvitations), body["feature"])
	assert.Equal(t, "free", body["current_plan"])
	assert.Equal(t, true, body["upgrade_required"])
}

func TestRequireFeatureAllowsWhenRuleTruthy(t *testing.T) {
	useGate(t, &stubSource{rules: map[string]string{
		"business/team.invitations": "1",
	}})
	uc := &usercontext.UserContext{UserID: 1, IsLoggedIn: true, CompanyID: 7, Plan: "business"}
	app := testApp(RequireFeature(entitlements.FeatureTeamInvitations, false), uc)

	resp, err := app.Test(apiRequest())
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRequireFeatureUnknownKeyPassesThrough(t *testing.T) {
	useGate(t, &stubSource{rules: map[string]string{}})
	uc := &usercontext.UserContext{UserID: 1, IsLoggedIn: true, CompanyID: 7, Plan: "free"}
	app := testApp(RequireFeature(entitlements.FeatureKey("does.not.exist"), false), uc)

	resp, err := app.Test(apiRequest())
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRequireFeatureDeniesWithoutCompany(t *testing.T) {
	useGate(t, &stubSource{rules: map[string]string{
		"free/team.invitations": "1",
	}})
	uc := &usercontext.UserContext{UserID: 1, IsLoggedIn: true, Plan: "free"}
	app := testApp(RequireFeature(entitlements.FeatureTeamInvitations, false), uc)

	resp, err := app.Test(apiRequest())
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "no_active_company", body["error"])
}

func TestRequireFeatureWithoutCompanyRedirectsBrowserToPicker(t *testing.T) {
	useGate(t, &stubSource{rules: map[string]string{
		"free/team.invitations": "1",
	}})
	uc := &usercontext.UserContext{UserID: 1, IsLoggedIn: true, Plan: "free"}
	app := testApp(RequireFeature(entitlements.FeatureTeamInvitations, false), uc)

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/companies", resp.Header.Get("Location"))
}

func TestRequireFeatureStoreErrorIsServerError(t *testing.T) {
	useGate(t, &stubSource{err: errors.New("db down")})
	uc := &usercontext.UserContext{UserID: 1, IsLoggedIn: true, CompanyID: 7, Plan: "pro"}
	app := testApp(RequireFeature(entitlements.FeatureAPIAccess, false), uc)

	resp, err := app.Test(apiRequest())
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "internal_server_error", body["error"])
	assert.NotContains(t, body["message"], "db down")
}

// flashValues parses the flash cookie set on a redirect response.
func flashValues(t *testing.T, resp *http.Response) map[string]string {
	t.Helper()
	values := map[string]string{}
	for _, ck := range resp.Cookies() {
		if ck.Name != "fiber-app-flash" {
			continue
		}
		raw, err := url.QueryUnescape(ck.Value)
		require.NoError(t, err)
		for _, pair := range strings.Split(raw, "\x00") {
			if k, v, ok := strings.Cut(pair, ":"); ok {
				values[k] = v
			}
		}
	}
	require.NotEmpty(t, values, "no flash cookie on response")
	return values
}

func TestRequireFeatureBrowserDenialRedirects(t *testing.T) {
	useGate(t, &stubSource{rules: map[string]string{}})
	uc := &usercontext.UserContext{UserID: 1, IsLoggedIn: true, CompanyID: 7, Plan: "free"}
	app := testApp(RequireFeature(entitlements.FeatureContractExport, false), uc)

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/upgrade", resp.Header.Get("Location"))

	fm := flashValues(t, resp)
	assert.Equal(t, "error", fm["type"])
	assert.Equal(t, string(entitlements.FeatureContractExport), fm["feature"])
	assert.Equal(t, "free", fm["current_plan"])
	assert.Equal(t, "true", fm["upgrade_required"])
}

func TestLimitCheckBrowserDenialCarriesLimitFields(t *testing.T) {
	useGate(t, &stubSource{rules: map[string]string{
		"free/clients.max": "10",
	}})
	uc := &usercontext.UserContext{UserID: 1, IsLoggedIn: true, CompanyID: 7, Plan: "free"}
	count := func(companyID uint) (int, error) { return 10, nil }
	app := testApp(LimitCheck(entitlements.LimitClientsMax, count), uc)

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/upgrade", resp.Header.Get("Location"))

	fm := flashValues(t, resp)
	assert.Equal(t, string(entitlements.LimitClientsMax), fm["feature"])
	assert.Equal(t, "free", fm["current_plan"])
	assert.Equal(t, "10", fm["limit"])
	assert.Equal(t, "10", fm["current"])
	assert.Equal(t, "true", fm["upgrade_required"])
}

func TestRequireWithinLimitPanicsOnUnknownCounter(t *testing.T) {
	assert.Panics(t, func() {
		RequireWithinLimit(entitlements.LimitBillboardsMax, usage.CounterKey("page.views"))
	})
}

func TestRequireWithinLimitResolvesKnownCounter(t *testing.T) {
	assert.NotPanics(t, func() {
		RequireWithinLimit(entitlements.LimitBillboardsMax, usage.CounterBillboards)
	})
}

func TestLimitCheckDeniesAtLimit(t *testing.T) {
	useGate(t, &stubSource{rules: map[string]string{
		"pro/billboards.max": "25",
	}})
	uc := &usercontext.UserContext{UserID: 1, IsLoggedIn: true, CompanyID: 7, Plan: "pro"}
	count := func(companyID uint) (int, error) { return 25, nil }
	app := testApp(LimitCheck(entitlements.LimitBillboardsMax, count), uc)

	resp, err := app.Test(apiRequest())
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "limit_reached", body["error"])
	assert.Equal(t, float64(25), body["limit"])
	assert.Equal(t, float64(25), body["current"])
}

func TestLimitCheckAllowsBelowLimit(t *testing.T) {
	useGate(t, &stubSource{rules: map[string]string{
		"pro/billboards.max": "25",
	}})
	uc := &usercontext.UserContext{UserID: 1, IsLoggedIn: true, CompanyID: 7, Plan: "pro"}
	count := func(companyID uint) (int, error) { return 24, nil }
	app := testApp(LimitCheck(entitlements.LimitBillboardsMax, count), uc)

	resp, err := app.Test(apiRequest())
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestLimitCheckUnlimitedAlwaysAllows(t *testing.T) {
	useGate(t, &stubSource{rules: map[string]string{
		"business/billboards.max": "unlimited",
	}})
	uc := &usercontext.UserContext{UserID: 1, IsLoggedIn: true, CompanyID: 7, Plan: "business"}
	count := func(companyID uint) (int, error) { return 100000, nil }
	app := testApp(LimitCheck(entitlements.LimitBillboardsMax, count), uc)

	resp, err := app.Test(apiRequest())
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestLimitCheckNonNumericRuleBlocksEverything(t *testing.T) {
	useGate(t, &stubSource{rules: map[string]string{
		"free/billboards.max": "abc",
	}})
	uc := &usercontext.UserContext{UserID: 1, IsLoggedIn: true, CompanyID: 7, Plan: "free"}
	count := func(companyID uint) (int, error) { return 0, nil }
	app := testApp(LimitCheck(entitlements.LimitBillboardsMax, count), uc)

	resp, err := app.Test(apiRequest())
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestLimitCheckCountErrorIsServerError(t *testing.T) {
	useGate(t, &stubSource{rules: map[string]string{
		"pro/billboards.max": "25",
	}})
	uc := &usercontext.UserContext{UserID: 1, IsLoggedIn: true, CompanyID: 7, Plan: "pro"}
	count := func(companyID uint) (int, error) { return 0, errors.New("count failed") }
	app := testApp(LimitCheck(entitlements.LimitBillboardsMax, count), uc)

	resp, err := app.Test(apiRequest())
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
}

func TestRequireCompanyRedirectsBrowserToPicker(t *testing.T) {
	uc := &usercontext.UserContext{UserID: 1, IsLoggedIn: true}
	app := testApp(RequireCompany, uc)

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/companies", resp.Header.Get("Location"))
}

func TestRequireCompanyPassesWithTenant(t *testing.T) {
	uc := &usercontext.UserContext{UserID: 1, IsLoggedIn: true, CompanyID: 3, Plan: "free"}
	app := testApp(RequireCompany, uc)

	resp, err := app.Test(apiRequest())
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
