package controllers

import (
	"strconv"

	"madrasa_go/database"
	"madrasa_go/middleware"
	"madrasa_go/models"
	"madrasa_go/utils"

	"github.com/gofiber/fiber/v2"
)

type SchoolRoomController struct{}

type CreateSchoolRoomRequest struct {
	Name                  string `json:"name" validate:"required"`
	TeacherName           string `json:"teacher_name" validate:"required"`
	TeacherEmail          string `json:"teacher_email"`
	TeacherPhone          string `json:"teacher_phone"`
	TeacherSpecialization string `json:"teacher_specialization"`
	DivisionID            uint   `json:"division_id" validate:"required"`
	MaxStudents           *int   `json:"max_students"`
}

type UpdateSchoolRoomRequest struct {
	Name                  *string `json:"name"`
	TeacherName           *string `json:"teacher_name"`
	TeacherEmail          *string `json:"teacher_email"`
	TeacherPhone          *string `json:"teacher_phone"`
	TeacherSpecialization *string `json:"teacher_specialization"`
	DivisionID            *uint   `json:"division_id"`
	MaxStudents           *int    `json:"max_students"`
}

// GetSchoolRooms returns all rooms with their teacher and division join
// fields, newest first. archived filters on the owning division's flag.
func (rc *SchoolRoomController) GetSchoolRooms(c *fiber.Ctx) error {
	var rooms []models.SchoolRoom

	query := database.DB.Model(&models.SchoolRoom{}).Order("school_rooms.created_at DESC")

	if divisionID := c.Query("division_id"); divisionID != "" {
		query = query.Where("school_rooms.division_id = ?", divisionID)
	}
	if archived := c.Query("archived"); archived != "" {
		query = query.
			Joins("JOIN divisions ON divisions.id = school_rooms.division_id AND divisions.deleted_at IS NULL").
			Where("divisions.archived = ?", archived == "true")
	}

	if err := query.Preload("Division").Find(&rooms).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch school rooms",
		})
	}

	return c.JSON(fiber.Map{
		"school_rooms": rooms,
		"total":        len(rooms),
	})
}

// GetSchoolRoom returns a specific room by ID
func (rc *SchoolRoomController) GetSchoolRoom(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid school room ID",
		})
	}

	var room models.SchoolRoom
	if err := database.DB.Preload("Division").Preload("Students").
		First(&room, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "School room not found",
		})
	}

	return c.JSON(fiber.Map{
		"school_room": room,
	})
}

// CreateSchoolRoom creates a new room in a division
func (rc *SchoolRoomController) CreateSchoolRoom(c *fiber.Ctx) error {
	var req CreateSchoolRoomRequest
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

	// Check if division exists
	var division models.Division
	if err := database.DB.First(&division, req.DivisionID).Error; err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Division not found",
		})
	}

	maxStudents := 20
	if req.MaxStudents != nil {
		if *req.MaxStudents <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "max_students must be greater than 0",
			})
		}
		maxStudents = *req.MaxStudents
	}

	room := models.SchoolRoom{
		Name: utils.SanitizeString(req.Name),
		Teacher: models.Teacher{
			Name:           utils.SanitizeString(req.TeacherName),
			Email:          req.TeacherEmail,
			Phone:          req.TeacherPhone,
			Specialization: req.TeacherSpecialization,
		},
		DivisionID:      req.DivisionID,
		MaxStudents:     maxStudents,
		CurrentStudents: 0,
	}
	if err := database.DB.Create(&room).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create school room",
		})
	}

	database.DB.Preload("Division").First(&room, room.ID)

	middleware.LogActivity(c, "CREATE", "school-rooms", room.ID, room)
	broadcast("created", "school-rooms", room.ID)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":     "School room created successfully",
		"school_room": room,
	})
}

// UpdateSchoolRoom applies a partial update to an existing room
func (rc *SchoolRoomController) UpdateSchoolRoom(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid school room ID",
		})
	}

	var room models.SchoolRoom
	if err := database.DB.First(&room, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "School room not found",
		})
	}

	var req UpdateSchoolRoomRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = utils.SanitizeString(*req.Name)
	}
	if req.TeacherName != nil {
		updates["teacher_name"] = utils.SanitizeString(*req.TeacherName)
	}
	if req.TeacherEmail != nil {
		updates["teacher_email"] = *req.TeacherEmail
	}
	if req.TeacherPhone != nil {
		updates["teacher_phone"] = *req.TeacherPhone
	}
	if req.TeacherSpecialization != nil {
		updates["teacher_specialization"] = *req.TeacherSpecialization
	}
	if req.DivisionID != nil {
		var division models.Division
		if err := database.DB.First(&division, *req.DivisionID).Error; err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Division not found",
			})
		}
		updates["division_id"] = *req.DivisionID
	}
	if req.MaxStudents != nil {
		if *req.MaxStudents <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "max_students must be greater than 0",
			})
		}
		updates["max_students"] = *req.MaxStudents
	}

	if len(updates) > 0 {
		if err := database.DB.Model(&room).Updates(updates).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to update school room",
			})
		}
	}

	database.DB.Preload("Division").First(&room, room.ID)

	middleware.LogActivity(c, "UPDATE", "school-rooms", room.ID, updates)
	broadcast("updated", "school-rooms", room.ID)

	return c.JSON(fiber.Map{
		"message":     "School room updated successfully",
		"school_room": room,
	})
}

// DeleteSchoolRoom deletes a room
func (rc *SchoolRoomController) DeleteSchoolRoom(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid school room ID",
		})
	}

	var room models.SchoolRoom
	if err := database.DB.First(&room, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "School room not found",
		})
	}

	if err := database.DB.Delete(&room).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete school room",
		})
	}

	middleware.LogActivity(c, "DELETE", "school-rooms", room.ID, room)
	broadcast("deleted", "school-rooms", room.ID)

	return c.JSON(fiber.Map{
		"message": "School room deleted successfully",
	})
}
