package controllers

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sujit-baniya/flash"

	"github.com/TobiasFuchs/AdBoard/app/models"
	"github.com/TobiasFuchs/AdBoard/app/repository"
	"github.com/TobiasFuchs/AdBoard/internal/pkg/constants"
	"github.com/TobiasFuchs/AdBoard/internal/pkg/photo"
	"github.com/TobiasFuchs/AdBoard/internal/pkg/usercontext"
)

// HandleBillboards lists the billboard inventory, optionally filtered by a
// free-text search over code and location fields.
func HandleBillboards(c *fiber.Ctx) error {
	uc := usercontext.GetUserContext(c)
	repos := repository.GetGlobalFactory()

	query := strings.TrimSpace(c.Query("q"))
	var (
		billboards []models.Billboard
		err        error
	)
	if query != "" {
		billboards, err = repos.GetBillboardRepository().Search(uc.CompanyID, query)
	} else {
		billboards, err = repos.GetBillboardRepository().GetByCompany(uc.CompanyID, 0, 0)
	}
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to load billboards")
	}

	data := layoutData(c, "billboards")
	data["Billboards"] = billboards
	data["Query"] = query
	return c.Render("billboard/index", data, "layouts/main")
}

// HandleBillboardNew renders the create form.
func HandleBillboardNew(c *fiber.Ctx) error {
	data := layoutData(c, "billboards")
	data["Billboard"] = &models.Billboard{Faces: 1, Status: models.BillboardStatusAvailable}
	return c.Render("billboard/form", data, "layouts/main")
}

// HandleBillboardCreate stores a new billboard. The route is gated on the
// billboards.max plan limit.
func HandleBillboardCreate(c *fiber.Ctx) error {
	uc := usercontext.GetUserContext(c)
	repos := repository.GetGlobalFactory()
	fm := fiber.Map{"type": "error"}

	billboard := billboardFromForm(c, &models.Billboard{CompanyID: uc.CompanyID})
	if err := billboard.Validate(); err != nil {
		fm["message"] = fmt.Sprintf("invalid input: %s", err)

		return flash.WithError(c, fm).Redirect("/billboards/new")
	}

	if err := repos.GetBillboardRepository().Create(billboard); err != nil {
		fm["message"] = fmt.Sprintf("something went wrong: %s", err)

		return flash.WithError(c, fm).Redirect("/billboards/new")
	}

	fm = fiber.Map{"type": "success", "message": "Billboard created"}
	return flash.WithSuccess(c, fm).Redirect("/billboards")
}

// HandleBillboardEdit renders the edit form.
func HandleBillboardEdit(c *fiber.Ctx) error {
	billboard, err := billboardForCompany(c)
	if err != nil {
		return err
	}

	data := layoutData(c, "billboards")
	data["Billboard"] = billboard
	return c.Render("billboard/form", data, "layouts/main")
}

// HandleBillboardUpdate applies the edit form.
func HandleBillboardUpdate(c *fiber.Ctx) error {
	repos := repository.GetGlobalFactory()
	fm := fiber.Map{"type": "error"}

	billboard, err := billboardForCompany(c)
	if err != nil {
		return err
	}

	billboardFromForm(c, billboard)
	if err := billboard.Validate(); err != nil {
		fm["message"] = fmt.Sprintf("invalid input: %s", err)

		return flash.WithError(c, fm).Redirect("/billboards/" + billboard.UUID + "/edit")
	}

	if err := repos.GetBillboardRepository().Update(billboard); err != nil {
		fm["message"] = fmt.Sprintf("something went wrong: %s", err)

		return flash.WithError(c, fm).Redirect("/billboards/" + billboard.UUID + "/edit")
	}

	fm = fiber.Map{"type": "success", "message": "Billboard updated"}
	return flash.WithSuccess(c, fm).Redirect("/billboards")
}

// HandleBillboardDelete soft-deletes a billboard.
func HandleBillboardDelete(c *fiber.Ctx) error {
	repos := repository.GetGlobalFactory()
	fm := fiber.Map{"type": "error"}

	billboard, err := billboardForCompany(c)
	if err != nil {
		return err
	}

	if err := repos.GetBillboardRepository().Delete(billboard.ID); err != nil {
		fm["message"] = fmt.Sprintf("something went wrong: %s", err)

		return flash.WithError(c, fm).Redirect("/billboards")
	}

	fm = fiber.Map{"type": "success", "message": "Billboard deleted"}
	return flash.WithSuccess(c, fm).Redirect("/billboards")
}

// HandleBillboardPhotoUpload accepts a location photo, normalizes it and
// stores the derived paths on the billboard. The route is gated on the
// billboards.photos plan feature.
func HandleBillboardPhotoUpload(c *fiber.Ctx) error {
	repos := repository.GetGlobalFactory()
	fm := fiber.Map{"type": "error"}

	billboard, err := billboardForCompany(c)
	if err != nil {
		return err
	}
	redirectTo := "/billboards/" + billboard.UUID + "/edit"

	file, err := c.FormFile("photo")
	if err != nil {
		fm["message"] = "Please choose a photo to upload"

		return flash.WithError(c, fm).Redirect(redirectTo)
	}

	tmpDir := filepath.Join(constants.UploadsPath, "tmp")
	if err := os.MkdirAll(tmpDir, 0o755); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to prepare upload directory")
	}
	tmpPath := filepath.Join(tmpDir, uuid.NewString()+filepath.Ext(file.Filename))
	if err := c.SaveFile(file, tmpPath); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to store upload")
	}
	defer os.Remove(tmpPath)

	storageDir := filepath.Join(constants.UploadsPath, "billboards")
	if err := os.MkdirAll(storageDir, 0o755); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to prepare storage directory")
	}

	if err := photo.ProcessBillboardPhoto(billboard, tmpPath, storageDir); err != nil {
		fm["message"] = fmt.Sprintf("photo could not be processed: %s", err)

		return flash.WithError(c, fm).Redirect(redirectTo)
	}

	if err := repos.GetBillboardRepository().Update(billboard); err != nil {
		fm["message"] = fmt.Sprintf("something went wrong: %s", err)

		return flash.WithError(c, fm).Redirect(redirectTo)
	}

	fm = fiber.Map{"type": "success", "message": "Photo uploaded"}
	return flash.WithSuccess(c, fm).Redirect(redirectTo)
}

// billboardForCompany loads the billboard from the :uuid param and verifies
// it belongs to the active company.
func billboardForCompany(c *fiber.Ctx) (*models.Billboard, error) {
	uc := usercontext.GetUserContext(c)
	repos := repository.GetGlobalFactory()

	billboard, err := repos.GetBillboardRepository().GetByUUID(c.Params("uuid"))
	if err != nil || billboard.CompanyID != uc.CompanyID {
		return nil, fiber.NewError(fiber.StatusNotFound, "billboard not found")
	}
	return billboard, nil
}

func billboardFromForm(c *fiber.Ctx, b *models.Billboard) *models.Billboard {
	b.Code = strings.TrimSpace(c.FormValue("code"))
	b.Address = strings.TrimSpace(c.FormValue("address"))
	b.City = strings.TrimSpace(c.FormValue("city"))
	b.Municipality = strings.TrimSpace(c.FormValue("municipality"))
	b.WidthM = formFloat(c, "width_m")
	b.HeightM = formFloat(c, "height_m")
	b.Faces = formInt(c, "faces", 1)
	b.Lighted = c.FormValue("lighted") == "on" || c.FormValue("lighted") == "1"
	b.MonthlyPrice = formFloat(c, "monthly_price")
	if status := c.FormValue("status"); status != "" {
		b.Status = status
	}
	if lat := formFloat(c, "latitude"); lat != 0 {
		b.Latitude = &lat
	}
	if lng := formFloat(c, "longitude"); lng != 0 {
		b.Longitude = &lng
	}
	return b
}
