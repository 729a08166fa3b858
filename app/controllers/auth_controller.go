package controllers

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sujit-baniya/flash"

	"github.com/TobiasFuchs/AdBoard/app/models"
	"github.com/TobiasFuchs/AdBoard/app/repository"
	"github.com/TobiasFuchs/AdBoard/internal/pkg/database"
	"github.com/TobiasFuchs/AdBoard/internal/pkg/env"
	"github.com/TobiasFuchs/AdBoard/internal/pkg/mail"
	"github.com/TobiasFuchs/AdBoard/internal/pkg/session"
)

const (
	AUTH_KEY       string = "authenticated"
	USER_ID        string = "user_id"
	USER_NAME      string = "username"
	USER_IS_ADMIN  string = "isAdmin"
	FROM_PROTECTED string = "from_protected"
	COMPANY_ID     string = "company_id"
	COMPANY_PLAN   string = "company_plan"
)

func HandleAuthLogin(c *fiber.Ctx) error {
	if c.Method() == fiber.MethodPost {
		var user models.User
		fm := fiber.Map{
			"type": "error",
		}

		// notice: in production you should not inform the user
		// with detailed messages about login failures
		result := database.GetDB().Where("email = ?", c.FormValue("email")).First(&user)
		if result.Error != nil {
			fm["message"] = "There is a problem with the login process"

			return flash.WithError(c, fm).Redirect("/login")
		}

		if models.CheckPasswordHash(c.FormValue("password"), user.Password) == false {
			fm["message"] = "There is a problem with the login process"

			return flash.WithError(c, fm).Redirect("/login")
		}

		if !user.IsActive() {
			fm["message"] = "Please activate your account first"

			return flash.WithError(c, fm).Redirect("/login")
		}

		sess, err := session.GetSessionStore().Get(c)
		if err != nil {
			fm["message"] = fmt.Sprintf("something went wrong: %s", err)

			return flash.WithError(c, fm).Redirect("/login")
		}

		sess.Set(AUTH_KEY, true)
		sess.Set(USER_ID, user.ID)
		sess.Set(USER_NAME, user.Name)
		sess.Set(USER_IS_ADMIN, user.Role == models.ROLE_ADMIN)
		if user.ActiveCompanyID != nil {
			sess.Set(COMPANY_ID, *user.ActiveCompanyID)
		}

		err = sess.Save()
		if err != nil {
			fm["message"] = fmt.Sprintf("something went wrong: %s", err)

			return flash.WithError(c, fm).Redirect("/login")
		}

		database.GetDB().Model(&user).Update("last_login_at", time.Now())

		fm = fiber.Map{
			"type":    "success",
			"message": "Welcome back!",
		}

		return flash.WithSuccess(c, fm).Redirect("/dashboard")
	}

	data := layoutData(c, "login")
	return c.Render("auth/login", data, "layouts/main")
}

func HandleAuthLogout(c *fiber.Ctx) error {
	fm := fiber.Map{
		"type": "error",
	}

	sess, err := session.GetSessionStore().Get(c)
	if err != nil {
		fm["message"] = "logged out (no sess)"

		return flash.WithError(c, fm).Redirect("/login")
	}

	err = sess.Destroy()
	if err != nil {
		fm["message"] = fmt.Sprintf("something went wrong: %s", err)

		return flash.WithError(c, fm).Redirect("/login")
	}

	fm = fiber.Map{
		"type":    "success",
		"message": "See you soon!",
	}

	c.Locals(FROM_PROTECTED, false)

	return flash.WithSuccess(c, fm).Redirect("/login")
}

func HandleAuthRegister(c *fiber.Ctx) error {
	if c.Method() == fiber.MethodPost {
		fm := fiber.Map{
			"type": "error",
		}

		settings, err := repository.GetGlobalFactory().GetSettingRepository().Get()
		if err == nil && !settings.IsRegistrationEnabled() {
			fm["message"] = "Registration is currently disabled"

			return flash.WithError(c, fm).Redirect("/register")
		}

		name := c.FormValue("name")
		email := c.FormValue("email")
		password := c.FormValue("password")

		user, err := models.CreateUser(name, email, password)
		if err != nil {
			fm["message"] = "Please check your input"

			return flash.WithError(c, fm).Redirect("/register")
		}

		if err := user.GenerateActivationToken(); err != nil {
			fm["message"] = fmt.Sprintf("something went wrong: %s", err)

			return flash.WithError(c, fm).Redirect("/register")
		}

		if err := repository.GetGlobalFactory().GetUserRepository().Create(user); err != nil {
			fm["message"] = "An account with this email already exists"

			return flash.WithError(c, fm).Redirect("/register")
		}

		base := env.GetEnv("PUBLIC_DOMAIN", "http://localhost:4000")
		activationURL := fmt.Sprintf("%s/activate?token=%s", base, user.ActivationToken)
		if err := mail.SendActivationMail(user.Email, user.Name, activationURL); err != nil {
			// The account exists, the user can request a new mail later.
			fm["message"] = "Account created but the activation mail could not be sent"

			return flash.WithError(c, fm).Redirect("/login")
		}

		fm = fiber.Map{
			"type":    "success",
			"message": "Account created. Please check your inbox to activate it.",
		}

		return flash.WithSuccess(c, fm).Redirect("/login")
	}

	data := layoutData(c, "register")
	return c.Render("auth/register", data, "layouts/main")
}

func HandleAuthActivate(c *fiber.Ctx) error {
	fm := fiber.Map{
		"type": "error",
	}

	token := c.Query("token")
	if token == "" {
		fm["message"] = "Missing activation token"

		return flash.WithError(c, fm).Redirect("/login")
	}

	repo := repository.GetGlobalFactory().GetUserRepository()
	user, err := repo.GetByActivationToken(token)
	if err != nil {
		fm["message"] = "Invalid or expired activation token"

		return flash.WithError(c, fm).Redirect("/login")
	}

	user.Status = models.STATUS_ACTIVE
	user.ActivationToken = ""
	if err := repo.Update(user); err != nil {
		fm["message"] = fmt.Sprintf("something went wrong: %s", err)

		return flash.WithError(c, fm).Redirect("/login")
	}

	fm = fiber.Map{
		"type":    "success",
		"message": "Account activated, you can log in now.",
	}

	return flash.WithSuccess(c, fm).Redirect("/login")
}
