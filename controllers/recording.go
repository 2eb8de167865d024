package controllers

import (
	"strconv"

	"madrasa_go/database"
	"madrasa_go/middleware"
	"madrasa_go/models"
	"madrasa_go/services"
	"madrasa_go/utils"

	"github.com/gofiber/fiber/v2"
)

// RecordingController drives the three-step session recording wizard. All
// edits land in an in-memory draft; the session row changes only on commit.
type RecordingController struct {
	Store *services.RecordingStore
}

func NewRecordingController() *RecordingController {
	return &RecordingController{Store: services.NewRecordingStore()}
}

type RecordAttendanceRequest struct {
	StudentID uint `json:"student_id" validate:"required"`
	Present   bool `json:"present"`
}

type RecordRecitationRequest struct {
	StudentID   uint   `json:"student_id" validate:"required"`
	RecitedText string `json:"recited_text"`
	PagesCount  int    `json:"pages_count"`
	Evaluation  string `json:"evaluation"`
}

type RecordReadingRequest struct {
	StudentID   uint   `json:"student_id" validate:"required"`
	BookNames   string `json:"book_names"`
	PagesCount  int    `json:"pages_count"`
	WithSummary bool   `json:"with_summary"`
}

func (rc *RecordingController) sessionID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return 0, fiber.NewError(fiber.StatusBadRequest, "Invalid session ID")
	}
	return uint(id), nil
}

// loadEligible gathers the students who can be recorded for a session:
// every non-archived student in the session's division, across all of its
// rooms.
func loadEligible(session models.Session) ([]models.Student, error) {
	var rooms []models.SchoolRoom
	if err := database.DB.Where("division_id = ?", session.DivisionID).Find(&rooms).Error; err != nil {
		return nil, err
	}
	var students []models.Student
	if err := database.DB.Where("archived = ?", false).Find(&students).Error; err != nil {
		return nil, err
	}
	return services.EligibleStudents(session, rooms, students), nil
}

// BeginRecording starts (or restarts) the wizard for a session. Existing
// record values are carried into the draft and every eligible student gets a
// default entry.
func (rc *RecordingController) BeginRecording(c *fiber.Ctx) error {
	id, err := rc.sessionID(c)
	if err != nil {
		return err
	}

	var session models.Session
	if err := database.DB.First(&session, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Session not found",
		})
	}

	eligible, err := loadEligible(session)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load students",
		})
	}

	draft := rc.Store.Begin(session, eligible)

	middleware.LogActivity(c, "CREATE", "recording", session.ID, fiber.Map{
		"students": len(eligible),
	})

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":  "Recording started",
		"draft":    draft,
		"students": eligible,
	})
}

// GetRecording returns the active draft for a session.
func (rc *RecordingController) GetRecording(c *fiber.Ctx) error {
	id, err := rc.sessionID(c)
	if err != nil {
		return err
	}

	draft, ok := rc.Store.Get(id)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "No active recording for this session",
		})
	}

	return c.JSON(fiber.Map{
		"draft": draft,
	})
}

// RecordAttendance marks one student present or absent on the attendance step.
func (rc *RecordingController) RecordAttendance(c *fiber.Ctx) error {
	id, err := rc.sessionID(c)
	if err != nil {
		return err
	}
	draft, ok := rc.Store.Get(id)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "No active recording for this session",
		})
	}

	var req RecordAttendanceRequest
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

	if err := draft.SetAttendance(req.StudentID, req.Present); err != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"draft": draft,
	})
}

// RecordRecitation captures one student's Quran recitation on the quran step.
func (rc *RecordingController) RecordRecitation(c *fiber.Ctx) error {
	id, err := rc.sessionID(c)
	if err != nil {
		return err
	}
	draft, ok := rc.Store.Get(id)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "No active recording for this session",
		})
	}

	var req RecordRecitationRequest
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
	if req.Evaluation != "" && !utils.IsValidEvaluation(req.Evaluation) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid evaluation",
		})
	}

	entry := models.RecitationEntry{
		RecitedText: req.RecitedText,
		PagesCount:  req.PagesCount,
		Evaluation:  req.Evaluation,
	}
	if entry.Evaluation == "" {
		entry.Evaluation = models.EvaluationAverage
	}
	if err := draft.SetRecitation(req.StudentID, entry); err != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"draft": draft,
	})
}

// RecordReading captures one student's book reading on the books step.
func (rc *RecordingController) RecordReading(c *fiber.Ctx) error {
	id, err := rc.sessionID(c)
	if err != nil {
		return err
	}
	draft, ok := rc.Store.Get(id)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "No active recording for this session",
		})
	}

	var req RecordReadingRequest
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

	entry := models.ReadingEntry{
		BookNames:   req.BookNames,
		PagesCount:  req.PagesCount,
		WithSummary: req.WithSummary,
	}
	if err := draft.SetReading(req.StudentID, entry); err != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"draft": draft,
	})
}

// NextStep advances the wizard from attendance to quran to books.
func (rc *RecordingController) NextStep(c *fiber.Ctx) error {
	return rc.moveStep(c, true)
}

// PreviousStep walks the wizard back one step.
func (rc *RecordingController) PreviousStep(c *fiber.Ctx) error {
	return rc.moveStep(c, false)
}

func (rc *RecordingController) moveStep(c *fiber.Ctx, forward bool) error {
	id, err := rc.sessionID(c)
	if err != nil {
		return err
	}
	draft, ok := rc.Store.Get(id)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "No active recording for this session",
		})
	}

	if forward {
		err = draft.Next()
	} else {
		err = draft.Back()
	}
	if err != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"draft": draft,
	})
}

// CommitRecording writes the draft's three maps to the session in one update
// and ends the wizard.
func (rc *RecordingController) CommitRecording(c *fiber.Ctx) error {
	id, err := rc.sessionID(c)
	if err != nil {
		return err
	}

	session, err := rc.Store.Commit(database.DB, id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	database.DB.Preload("Division").Preload("SchoolRoom").First(session, session.ID)

	middleware.LogActivity(c, "UPDATE", "sessions", session.ID, fiber.Map{
		"action": "recording_commit",
	})
	broadcast("updated", "sessions", session.ID)

	return c.JSON(fiber.Map{
		"message": "Recording saved successfully",
		"session": session,
	})
}

// CancelRecording discards the draft without touching the session.
func (rc *RecordingController) CancelRecording(c *fiber.Ctx) error {
	id, err := rc.sessionID(c)
	if err != nil {
		return err
	}

	if !rc.Store.Cancel(id) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "No active recording for this session",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Recording discarded",
	})
}
