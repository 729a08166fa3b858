package controllers

import (
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sujit-baniya/flash"

	"github.com/TobiasFuchs/AdBoard/app/models"
	"github.com/TobiasFuchs/AdBoard/app/repository"
	"github.com/TobiasFuchs/AdBoard/internal/pkg/env"
	"github.com/TobiasFuchs/AdBoard/internal/pkg/mail"
	"github.com/TobiasFuchs/AdBoard/internal/pkg/security"
	"github.com/TobiasFuchs/AdBoard/internal/pkg/usercontext"
)

// InviteTTL is how long a team invitation stays valid.
const InviteTTL = 7 * 24 * time.Hour

// HandleTeam lists members and open invitations of the active company.
func HandleTeam(c *fiber.Ctx) error {
	uc := usercontext.GetUserContext(c)
	repos := repository.GetGlobalFactory()

	members, err := repos.GetCompanyRepository().ListMembers(uc.CompanyID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to load team")
	}
	invitations, err := repos.GetInvitationRepository().GetOpenByCompany(uc.CompanyID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to load invitations")
	}

	data := layoutData(c, "team")
	data["Members"] = members
	data["Invitations"] = invitations
	return c.Render("team/index", data, "layouts/main")
}

// HandleTeamInvite creates an invitation and mails the signed accept link.
// The route is gated on the team.invitations plan feature.
func HandleTeamInvite(c *fiber.Ctx) error {
	uc := usercontext.GetUserContext(c)
	repos := repository.GetGlobalFactory()
	fm := fiber.Map{"type": "error"}

	member, err := repos.GetCompanyRepository().GetMembership(uc.CompanyID, uc.UserID)
	if err != nil || !member.CanManage() {
		fm["message"] = "Only owners and managers can invite"

		return flash.WithError(c, fm).Redirect("/team")
	}

	email := strings.TrimSpace(strings.ToLower(c.FormValue("email")))
	role := c.FormValue("role")
	if role != models.MEMBER_ROLE_MANAGER && role != models.MEMBER_ROLE_VIEWER {
		role = models.MEMBER_ROLE_VIEWER
	}
	if email == "" {
		fm["message"] = "Email is required"

		return flash.WithError(c, fm).Redirect("/team")
	}

	secret := env.GetEnv("APP_SECRET", "")
	token, err := security.GenerateInviteToken(uc.CompanyID, email, role, InviteTTL, secret)
	if err != nil {
		fm["message"] = fmt.Sprintf("something went wrong: %s", err)

		return flash.WithError(c, fm).Redirect("/team")
	}

	invitation := &models.Invitation{
		CompanyID: uc.CompanyID,
		Email:     email,
		Role:      role,
		Token:     token,
		ExpiresAt: time.Now().Add(InviteTTL),
	}
	if err := repos.GetInvitationRepository().Create(invitation); err != nil {
		fm["message"] = fmt.Sprintf("something went wrong: %s", err)

		return flash.WithError(c, fm).Redirect("/team")
	}

	company, err := repos.GetCompanyRepository().GetByID(uc.CompanyID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "company not found")
	}
	base := env.GetEnv("PUBLIC_DOMAIN", "http://localhost:4000")
	acceptURL := fmt.Sprintf("%s/invitations/accept?token=%s", base, token)
	if err := mail.SendInvitationMail(email, company.Name, uc.Username, acceptURL); err != nil {
		fm["message"] = "Invitation stored but the mail could not be sent"

		return flash.WithError(c, fm).Redirect("/team")
	}

	fm = fiber.Map{"type": "success", "message": "Invitation sent to " + email}
	return flash.WithSuccess(c, fm).Redirect("/team")
}

// HandleInvitationAccept validates the signed token and adds the logged-in
// user to the inviting company.
func HandleInvitationAccept(c *fiber.Ctx) error {
	uc := usercontext.GetUserContext(c)
	repos := repository.GetGlobalFactory()
	fm := fiber.Map{"type": "error"}

	token := c.Query("token")
	secret := env.GetEnv("APP_SECRET", "")
	claims, err := security.VerifyInviteToken(token, secret)
	if err != nil {
		fm["message"] = "This invitation link is invalid or expired"

		return flash.WithError(c, fm).Redirect("/dashboard")
	}

	invitation, err := repos.GetInvitationRepository().GetByToken(token)
	if err != nil || !invitation.IsOpen() {
		fm["message"] = "This invitation is no longer open"

		return flash.WithError(c, fm).Redirect("/dashboard")
	}

	// A forwarded link must not let a third party join.
	user, err := repos.GetUserRepository().GetByID(uc.UserID)
	if err != nil || !strings.EqualFold(user.Email, claims.Email) {
		fm["message"] = "This invitation was issued for a different email address"

		return flash.WithError(c, fm).Redirect("/dashboard")
	}

	if _, err := repos.GetCompanyRepository().GetMembership(claims.CompanyID, uc.UserID); err == nil {
		fm["message"] = "You are already a member of this company"

		return flash.WithError(c, fm).Redirect("/companies")
	}

	member := &models.CompanyMember{
		CompanyID: claims.CompanyID,
		UserID:    uc.UserID,
		Role:      claims.Role,
	}
	if err := repos.GetCompanyRepository().AddMember(member); err != nil {
		fm["message"] = fmt.Sprintf("something went wrong: %s", err)

		return flash.WithError(c, fm).Redirect("/dashboard")
	}

	now := time.Now()
	invitation.AcceptedAt = &now
	if err := repos.GetInvitationRepository().Update(invitation); err != nil {
		fm["message"] = fmt.Sprintf("something went wrong: %s", err)

		return flash.WithError(c, fm).Redirect("/companies")
	}

	fm = fiber.Map{"type": "success", "message": "Welcome to the team!"}
	return flash.WithSuccess(c, fm).Redirect("/companies")
}

// HandleTeamRemove removes a member from the active company.
func HandleTeamRemove(c *fiber.Ctx) error {
	uc := usercontext.GetUserContext(c)
	repos := repository.GetGlobalFactory()
	fm := fiber.Map{"type": "error"}

	member, err := repos.GetCompanyRepository().GetMembership(uc.CompanyID, uc.UserID)
	if err != nil || !member.CanManage() {
		fm["message"] = "Only owners and managers can remove members"

		return flash.WithError(c, fm).Redirect("/team")
	}

	targetUserID := paramUint(c, "userId")
	target, err := repos.GetCompanyRepository().GetMembership(uc.CompanyID, targetUserID)
	if err != nil {
		fm["message"] = "Member not found"

		return flash.WithError(c, fm).Redirect("/team")
	}
	if target.Role == models.MEMBER_ROLE_OWNER {
		fm["message"] = "The owner cannot be removed"

		return flash.WithError(c, fm).Redirect("/team")
	}

	if err := repos.GetCompanyRepository().RemoveMember(uc.CompanyID, targetUserID); err != nil {
		fm["message"] = fmt.Sprintf("something went wrong: %s", err)

		return flash.WithError(c, fm).Redirect("/team")
	}

	fm = fiber.Map{"type": "success", "message": "Member removed"}
	return flash.WithSuccess(c, fm).Redirect("/team")
}
