package controllers

import (
	"strconv"

	"madrasa_go/database"
	"madrasa_go/middleware"
	"madrasa_go/models"
	"madrasa_go/utils"

	"github.com/gofiber/fiber/v2"
)

type DivisionController struct{}

type CreateDivisionRequest struct {
	Name     string `json:"name" validate:"required"`
	Schedule string `json:"schedule"`
}

type UpdateDivisionRequest struct {
	Name     *string `json:"name"`
	Schedule *string `json:"schedule"`
	Archived *bool   `json:"archived"`
}

// GetDivisions returns all divisions, newest first. The archived query
// parameter toggles between active and archived views; without it every
// division is returned.
func (dc *DivisionController) GetDivisions(c *fiber.Ctx) error {
	var divisions []models.Division

	query := database.DB.Model(&models.Division{}).Order("created_at DESC")
	if archived := c.Query("archived"); archived != "" {
		query = query.Where("archived = ?", archived == "true")
	}

	if err := query.Find(&divisions).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch divisions",
		})
	}

	return c.JSON(fiber.Map{
		"divisions": divisions,
		"total":     len(divisions),
	})
}

// GetDivision returns a specific division by ID
func (dc *DivisionController) GetDivision(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid division ID",
		})
	}

	var division models.Division
	if err := database.DB.Preload("Rooms").First(&division, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Division not found",
		})
	}

	return c.JSON(fiber.Map{
		"division": division,
	})
}

// CreateDivision creates a new division
func (dc *DivisionController) CreateDivision(c *fiber.Ctx) error {
	var req CreateDivisionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if err := utils.ValidateStruct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	division := models.Division{
		Name:     utils.SanitizeString(req.Name),
		Schedule: req.Schedule,
		Archived: false,
	}
	if err := database.DB.Create(&division).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create division",
		})
	}

	middleware.LogActivity(c, "CREATE", "divisions", division.ID, division)
	broadcast("created", "divisions", division.ID)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":  "Division created successfully",
		"division": division,
	})
}

// UpdateDivision applies a partial update to an existing division
func (dc *DivisionController) UpdateDivision(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid division ID",
		})
	}

	var division models.Division
	if err := database.DB.First(&division, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Division not found",
		})
	}

	var req UpdateDivisionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		if *req.Name == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Division name cannot be empty",
			})
		}
		updates["name"] = utils.SanitizeString(*req.Name)
	}
	if req.Schedule != nil {
		updates["schedule"] = *req.Schedule
	}
	if req.Archived != nil {
		updates["archived"] = *req.Archived
	}

	if len(updates) > 0 {
		if err := database.DB.Model(&division).Updates(updates).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to update division",
			})
		}
	}

	middleware.LogActivity(c, "UPDATE", "divisions", division.ID, updates)
	broadcast("updated", "divisions", division.ID)

	return c.JSON(fiber.Map{
		"message":  "Division updated successfully",
		"division": division,
	})
}

// ArchiveDivision hides a division (and, through the views, its rooms,
// students and sessions) without removing any rows.
func (dc *DivisionController) ArchiveDivision(c *fiber.Ctx) error {
	return dc.setArchived(c, true)
}

// RestoreDivision brings an archived division back to the active views.
func (dc *DivisionController) RestoreDivision(c *fiber.Ctx) error {
	return dc.setArchived(c, false)
}

func (dc *DivisionController) setArchived(c *fiber.Ctx, archived bool) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid division ID",
		})
	}

	var division models.Division
	if err := database.DB.First(&division, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Division not found",
		})
	}

	if err := database.DB.Model(&division).Update("archived", archived).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update division",
		})
	}

	middleware.LogActivity(c, "UPDATE", "divisions", division.ID, fiber.Map{
		"action":   "archive_toggle",
		"archived": archived,
	})
	broadcast("updated", "divisions", division.ID)

	return c.JSON(fiber.Map{
		"message":  "Division updated successfully",
		"division": division,
	})
}

// DeleteDivision deletes a division
func (dc *DivisionController) DeleteDivision(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid division ID",
		})
	}

	var division models.Division
	if err := database.DB.First(&division, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Division not found",
		})
	}

	if err := database.DB.Delete(&division).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete division",
		})
	}

	middleware.LogActivity(c, "DELETE", "divisions", division.ID, division)
	broadcast("deleted", "divisions", division.ID)

	return c.JSON(fiber.Map{
		"message": "Division deleted successfully",
	})
}
