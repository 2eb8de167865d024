package controllers

import (
	"strconv"
	"time"

	"madrasa_go/database"
	"madrasa_go/middleware"
	"madrasa_go/models"
	"madrasa_go/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type StudentController struct{}

type CreateStudentRequest struct {
	Name            string `json:"name" validate:"required"`
	Birthday        string `json:"birthday"`
	FatherName      string `json:"father_name"`
	Phone           string `json:"phone"`
	FatherPhone     string `json:"father_phone"`
	MotherPhone     string `json:"mother_phone"`
	SchoolRoomID    uint   `json:"school_room_id" validate:"required"`
	LatestQuranPart string `json:"latest_quran_part"`
}

type UpdateStudentRequest struct {
	Name            *string `json:"name"`
	Birthday        *string `json:"birthday"`
	FatherName      *string `json:"father_name"`
	Phone           *string `json:"phone"`
	FatherPhone     *string `json:"father_phone"`
	MotherPhone     *string `json:"mother_phone"`
	SchoolRoomID    *uint   `json:"school_room_id"`
	LatestQuranPart *string `json:"latest_quran_part"`
}

// GetStudents returns students newest first. school_room_id narrows to one
// room, archived toggles between the active and archived views.
func (sc *StudentController) GetStudents(c *fiber.Ctx) error {
	var students []models.Student

	query := database.DB.Model(&models.Student{}).Order("students.created_at DESC")

	if roomID := c.Query("school_room_id"); roomID != "" {
		query = query.Where("students.school_room_id = ?", roomID)
	}
	// Archiving a division hides its students from the active view even when
	// the students themselves are not archived.
	if archived := c.Query("archived"); archived != "" {
		query = query.
			Joins("JOIN school_rooms ON school_rooms.id = students.school_room_id AND school_rooms.deleted_at IS NULL").
			Joins("JOIN divisions ON divisions.id = school_rooms.division_id AND divisions.deleted_at IS NULL")
		if archived == "true" {
			query = query.Where("students.archived = ? OR divisions.archived = ?", true, true)
		} else {
			query = query.Where("students.archived = ? AND divisions.archived = ?", false, false)
		}
	}

	if err := query.Preload("SchoolRoom").Preload("SchoolRoom.Division").
		Find(&students).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch students",
		})
	}

	return c.JSON(fiber.Map{
		"students": students,
		"total":    len(students),
	})
}

// GetStudent returns a specific student by ID
func (sc *StudentController) GetStudent(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid student ID",
		})
	}

	var student models.Student
	if err := database.DB.Preload("SchoolRoom").Preload("SchoolRoom.Division").
		First(&student, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Student not found",
		})
	}

	return c.JSON(fiber.Map{
		"student": student,
	})
}

// CreateStudent adds a student to a room. The room's current_students counter
// is incremented in the same transaction so the two can never drift apart.
func (sc *StudentController) CreateStudent(c *fiber.Ctx) error {
	var req CreateStudentRequest
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
	if !utils.IsValidQuranPart(req.LatestQuranPart) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid Quran part",
		})
	}

	var room models.SchoolRoom
	if err := database.DB.First(&room, req.SchoolRoomID).Error; err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "School room not found",
		})
	}

	student := models.Student{
		Name:            utils.SanitizeString(req.Name),
		Birthday:        req.Birthday,
		FatherName:      utils.SanitizeString(req.FatherName),
		Phone:           req.Phone,
		FatherPhone:     req.FatherPhone,
		MotherPhone:     req.MotherPhone,
		SchoolRoomID:    req.SchoolRoomID,
		JoinDate:        time.Now(),
		LatestQuranPart: req.LatestQuranPart,
		Archived:        false,
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&student).Error; err != nil {
			return err
		}
		return applyCounterDeltas(tx, createCounterDeltas(student.SchoolRoomID))
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create student",
		})
	}

	database.DB.Preload("SchoolRoom").Preload("SchoolRoom.Division").First(&student, student.ID)

	middleware.LogActivity(c, "CREATE", "students", student.ID, student)
	broadcast("created", "students", student.ID)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Student created successfully",
		"student": student,
	})
}

// UpdateStudent applies a partial update. Moving an active student to another
// room adjusts both room counters inside the update transaction.
func (sc *StudentController) UpdateStudent(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid student ID",
		})
	}

	var student models.Student
	if err := database.DB.First(&student, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Student not found",
		})
	}

	var req UpdateStudentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		if *req.Name == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Student name cannot be empty",
			})
		}
		updates["name"] = utils.SanitizeString(*req.Name)
	}
	if req.Birthday != nil {
		updates["birthday"] = *req.Birthday
	}
	if req.FatherName != nil {
		updates["father_name"] = utils.SanitizeString(*req.FatherName)
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.FatherPhone != nil {
		updates["father_phone"] = *req.FatherPhone
	}
	if req.MotherPhone != nil {
		updates["mother_phone"] = *req.MotherPhone
	}
	if req.LatestQuranPart != nil {
		if !utils.IsValidQuranPart(*req.LatestQuranPart) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid Quran part",
			})
		}
		updates["latest_quran_part"] = *req.LatestQuranPart
	}

	var deltas []roomCounterDelta
	if req.SchoolRoomID != nil && *req.SchoolRoomID != student.SchoolRoomID {
		var room models.SchoolRoom
		if err := database.DB.First(&room, *req.SchoolRoomID).Error; err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "School room not found",
			})
		}
		updates["school_room_id"] = *req.SchoolRoomID
		deltas = transferCounterDeltas(student, *req.SchoolRoomID)
	}

	if len(updates) > 0 {
		err := database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(&student).Updates(updates).Error; err != nil {
				return err
			}
			return applyCounterDeltas(tx, deltas)
		})
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to update student",
			})
		}
	}

	database.DB.Preload("SchoolRoom").Preload("SchoolRoom.Division").First(&student, student.ID)

	middleware.LogActivity(c, "UPDATE", "students", student.ID, updates)
	broadcast("updated", "students", student.ID)

	return c.JSON(fiber.Map{
		"message": "Student updated successfully",
		"student": student,
	})
}

// ArchiveStudent hides a student from the active views and releases their
// seat in the room.
func (sc *StudentController) ArchiveStudent(c *fiber.Ctx) error {
	return sc.setArchived(c, true)
}

// RestoreStudent brings an archived student back and reclaims a seat.
func (sc *StudentController) RestoreStudent(c *fiber.Ctx) error {
	return sc.setArchived(c, false)
}

func (sc *StudentController) setArchived(c *fiber.Ctx, archived bool) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid student ID",
		})
	}

	var student models.Student
	if err := database.DB.First(&student, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Student not found",
		})
	}

	if student.Archived == archived {
		return c.JSON(fiber.Map{
			"message": "Student updated successfully",
			"student": student,
		})
	}

	deltas := archiveToggleCounterDeltas(student, archived)
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&student).Update("archived", archived).Error; err != nil {
			return err
		}
		return applyCounterDeltas(tx, deltas)
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update student",
		})
	}

	middleware.LogActivity(c, "UPDATE", "students", student.ID, fiber.Map{
		"action":   "archive_toggle",
		"archived": archived,
	})
	broadcast("updated", "students", student.ID)

	return c.JSON(fiber.Map{
		"message": "Student updated successfully",
		"student": student,
	})
}

// DeleteStudent removes a student. Active students give their seat back in
// the same transaction; archived ones already released it.
func (sc *StudentController) DeleteStudent(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid student ID",
		})
	}

	var student models.Student
	if err := database.DB.First(&student, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Student not found",
		})
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&student).Error; err != nil {
			return err
		}
		return applyCounterDeltas(tx, deleteCounterDeltas(student))
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete student",
		})
	}

	middleware.LogActivity(c, "DELETE", "students", student.ID, student)
	broadcast("deleted", "students", student.ID)

	return c.JSON(fiber.Map{
		"message": "Student deleted successfully",
	})
}

// roomCounterDelta is a pending adjustment to one room's current_students
// counter. Handlers build the deltas for a mutation up front and apply them
// inside the same transaction as the student write.
type roomCounterDelta struct {
	RoomID uint
	Delta  int
}

// createCounterDeltas claims a seat in the room a new student joins.
func createCounterDeltas(roomID uint) []roomCounterDelta {
	return []roomCounterDelta{{RoomID: roomID, Delta: 1}}
}

// transferCounterDeltas moves a student's seat from their current room to
// newRoomID. Archived students hold no seat, and staying in the same room
// changes nothing.
func transferCounterDeltas(student models.Student, newRoomID uint) []roomCounterDelta {
	if student.Archived || student.SchoolRoomID == newRoomID {
		return nil
	}
	return []roomCounterDelta{
		{RoomID: student.SchoolRoomID, Delta: -1},
		{RoomID: newRoomID, Delta: 1},
	}
}

// archiveToggleCounterDeltas releases the seat when a student is archived and
// reclaims it on restore. A toggle to the current state is a no-op.
func archiveToggleCounterDeltas(student models.Student, archived bool) []roomCounterDelta {
	if student.Archived == archived {
		return nil
	}
	delta := -1
	if !archived {
		delta = 1
	}
	return []roomCounterDelta{{RoomID: student.SchoolRoomID, Delta: delta}}
}

// deleteCounterDeltas gives an active student's seat back. Archived students
// already released theirs.
func deleteCounterDeltas(student models.Student) []roomCounterDelta {
	if student.Archived {
		return nil
	}
	return []roomCounterDelta{{RoomID: student.SchoolRoomID, Delta: -1}}
}

func applyCounterDeltas(tx *gorm.DB, deltas []roomCounterDelta) error {
	for _, d := range deltas {
		if err := adjustRoomCounter(tx, d.RoomID, d.Delta); err != nil {
			return err
		}
	}
	return nil
}

// adjustRoomCounter shifts a room's current_students by delta, clamped at
// zero so a stale counter can never go negative.
func adjustRoomCounter(tx *gorm.DB, roomID uint, delta int) error {
	if delta >= 0 {
		return tx.Model(&models.SchoolRoom{}).Where("id = ?", roomID).
			Update("current_students", gorm.Expr("current_students + ?", delta)).Error
	}
	return tx.Model(&models.SchoolRoom{}).Where("id = ?", roomID).
		Update("current_students", gorm.Expr("GREATEST(current_students - ?, 0)", -delta)).Error
}
