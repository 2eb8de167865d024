package controllers

import (
	"strconv"

	"madrasa_go/database"
	"madrasa_go/middleware"
	"madrasa_go/models"
	"madrasa_go/utils"

	"github.com/gofiber/fiber/v2"
)

type SessionController struct{}

type CreateSessionRequest struct {
	DivisionID   uint   `json:"division_id" validate:"required"`
	SchoolRoomID uint   `json:"school_room_id" validate:"required"`
	Date         string `json:"date" validate:"required"`
	Topic        string `json:"topic"`
}

type UpdateSessionRequest struct {
	Date            *string               `json:"date"`
	Topic           *string               `json:"topic"`
	Attendance      *models.AttendanceMap `json:"attendance"`
	QuranRecitation *models.RecitationMap `json:"quran_recitation"`
	BookReading     *models.ReadingMap    `json:"book_reading"`
}

// GetSessions returns sessions most recent first. division_id and
// school_room_id narrow the list; archived follows the owning division's
// archive flag like the other list endpoints.
func (sc *SessionController) GetSessions(c *fiber.Ctx) error {
	var sessions []models.Session

	query := database.DB.Model(&models.Session{}).Order("sessions.date DESC, sessions.id DESC")

	if divisionID := c.Query("division_id"); divisionID != "" {
		query = query.Where("sessions.division_id = ?", divisionID)
	}
	if roomID := c.Query("school_room_id"); roomID != "" {
		query = query.Where("sessions.school_room_id = ?", roomID)
	}
	if archived := c.Query("archived"); archived != "" {
		query = query.
			Joins("JOIN divisions ON divisions.id = sessions.division_id AND divisions.deleted_at IS NULL").
			Where("divisions.archived = ?", archived == "true")
	}

	if err := query.Preload("Division").Preload("SchoolRoom").
		Find(&sessions).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch sessions",
		})
	}

	return c.JSON(fiber.Map{
		"sessions": sessions,
		"total":    len(sessions),
	})
}

// GetSession returns a specific session by ID
func (sc *SessionController) GetSession(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid session ID",
		})
	}

	var session models.Session
	if err := database.DB.Preload("Division").Preload("SchoolRoom").
		First(&session, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Session not found",
		})
	}

	return c.JSON(fiber.Map{
		"session": session,
	})
}

// CreateSession creates a session with empty record maps. Attendance and the
// other per-student records are filled later through the recording flow or a
// direct update.
func (sc *SessionController) CreateSession(c *fiber.Ctx) error {
	var req CreateSessionRequest
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
	if !utils.IsValidDate(req.Date) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Date must be in YYYY-MM-DD format",
		})
	}

	var room models.SchoolRoom
	if err := database.DB.First(&room, req.SchoolRoomID).Error; err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "School room not found",
		})
	}
	if room.DivisionID != req.DivisionID {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "School room does not belong to the given division",
		})
	}

	session := models.Session{
		DivisionID:      req.DivisionID,
		SchoolRoomID:    req.SchoolRoomID,
		Date:            req.Date,
		Topic:           utils.SanitizeString(req.Topic),
		Attendance:      models.AttendanceMap{},
		QuranRecitation: models.RecitationMap{},
		BookReading:     models.ReadingMap{},
	}
	if err := database.DB.Create(&session).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create session",
		})
	}

	database.DB.Preload("Division").Preload("SchoolRoom").First(&session, session.ID)

	middleware.LogActivity(c, "CREATE", "sessions", session.ID, session)
	broadcast("created", "sessions", session.ID)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Session created successfully",
		"session": session,
	})
}

// UpdateSession applies a partial update. Each of the three record maps is
// replaced wholesale when present in the body; omitted maps are untouched.
func (sc *SessionController) UpdateSession(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid session ID",
		})
	}

	var session models.Session
	if err := database.DB.First(&session, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Session not found",
		})
	}

	var req UpdateSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	updates := map[string]interface{}{}
	if req.Date != nil {
		if !utils.IsValidDate(*req.Date) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Date must be in YYYY-MM-DD format",
			})
		}
		updates["date"] = *req.Date
	}
	if req.Topic != nil {
		updates["topic"] = utils.SanitizeString(*req.Topic)
	}
	if req.Attendance != nil {
		updates["attendance"] = *req.Attendance
	}
	if req.QuranRecitation != nil {
		for studentID, entry := range *req.QuranRecitation {
			if entry.PagesCount < 0 {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error": "pages_count must not be negative",
				})
			}
			if entry.Evaluation != "" && !utils.IsValidEvaluation(entry.Evaluation) {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error": "Invalid evaluation for student " + strconv.FormatUint(uint64(studentID), 10),
				})
			}
		}
		updates["quran_recitation"] = *req.QuranRecitation
	}
	if req.BookReading != nil {
		for _, entry := range *req.BookReading {
			if entry.PagesCount < 0 {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error": "pages_count must not be negative",
				})
			}
		}
		updates["book_reading"] = *req.BookReading
	}

	if len(updates) > 0 {
		if err := database.DB.Model(&session).Updates(updates).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to update session",
			})
		}
	}

	database.DB.Preload("Division").Preload("SchoolRoom").First(&session, session.ID)

	middleware.LogActivity(c, "UPDATE", "sessions", session.ID, updates)
	broadcast("updated", "sessions", session.ID)

	return c.JSON(fiber.Map{
		"message": "Session updated successfully",
		"session": session,
	})
}

// DeleteSession deletes a session
func (sc *SessionController) DeleteSession(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid session ID",
		})
	}

	var session models.Session
	if err := database.DB.First(&session, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Session not found",
		})
	}

	if err := database.DB.Delete(&session).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete session",
		})
	}

	middleware.LogActivity(c, "DELETE", "sessions", session.ID, session)
	broadcast("deleted", "sessions", session.ID)

	return c.JSON(fiber.Map{
		"message": "Session deleted successfully",
	})
}
