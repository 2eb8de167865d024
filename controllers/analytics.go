package controllers

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"madrasa_go/database"
	"madrasa_go/models"
	"madrasa_go/services"
	"madrasa_go/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
)

type AnalyticsController struct{}

// parseIDList parses a comma-separated list of numeric IDs from a query
// parameter. Empty input yields nil, meaning no constraint.
func parseIDList(raw string) ([]uint, error) {
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	ids := make([]uint, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseUint(part, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid id %q", part)
		}
		ids = append(ids, uint(id))
	}
	return ids, nil
}

func parseAnalyticsFilter(c *fiber.Ctx) (services.AnalyticsFilter, error) {
	var f services.AnalyticsFilter

	divisionIDs, err := parseIDList(c.Query("division_ids"))
	if err != nil {
		return f, err
	}
	roomIDs, err := parseIDList(c.Query("school_room_ids"))
	if err != nil {
		return f, err
	}
	f.DivisionIDs = divisionIDs
	f.SchoolRoomIDs = roomIDs

	for _, bound := range []struct {
		name  string
		value string
		dest  *string
	}{
		{"date_from", c.Query("date_from"), &f.DateFrom},
		{"date_to", c.Query("date_to"), &f.DateTo},
		{"date_after", c.Query("date_after"), &f.DateAfter},
		{"date_before", c.Query("date_before"), &f.DateBefore},
	} {
		if bound.value == "" {
			continue
		}
		if !utils.IsValidDate(bound.value) {
			return f, fmt.Errorf("%s must be in YYYY-MM-DD format", bound.name)
		}
		*bound.dest = bound.value
	}

	return f, nil
}

// loadAnalyticsData fetches the four collections the aggregation runs over.
func loadAnalyticsData() ([]models.Division, []models.SchoolRoom, []models.Student, []models.Session, error) {
	var divisions []models.Division
	if err := database.DB.Find(&divisions).Error; err != nil {
		return nil, nil, nil, nil, err
	}
	var rooms []models.SchoolRoom
	if err := database.DB.Find(&rooms).Error; err != nil {
		return nil, nil, nil, nil, err
	}
	var students []models.Student
	if err := database.DB.Find(&students).Error; err != nil {
		return nil, nil, nil, nil, err
	}
	var sessions []models.Session
	if err := database.DB.Order("date ASC, id ASC").Find(&sessions).Error; err != nil {
		return nil, nil, nil, nil, err
	}
	return divisions, rooms, students, sessions, nil
}

// GetAnalytics aggregates attendance, recitation and reading stats per room,
// student and division over the filtered session set. metric picks the sort
// key (attendance, quran, books), ranked=true drops entities with no sessions.
func (ac *AnalyticsController) GetAnalytics(c *fiber.Ctx) error {
	filter, err := parseAnalyticsFilter(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	divisions, rooms, students, sessions, err := loadAnalyticsData()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load analytics data",
		})
	}

	result := services.ComputeAnalytics(divisions, rooms, students, sessions, filter)

	metric := c.Query("metric", services.MetricAttendance)
	switch metric {
	case services.MetricAttendance, services.MetricQuran, services.MetricBooks:
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "metric must be one of attendance, quran, books",
		})
	}

	services.SortRoomStats(result.RoomStats, metric)
	services.SortStudentStats(result.StudentStats, metric)
	services.SortDivisionStats(result.DivisionStats, metric)

	if c.Query("ranked") == "true" {
		result.RoomStats = services.RankedRoomStats(result.RoomStats)
		result.StudentStats = services.RankedStudentStats(result.StudentStats)
		result.DivisionStats = services.RankedDivisionStats(result.DivisionStats)
	}

	return c.JSON(fiber.Map{
		"analytics": result,
		"metric":    metric,
		"filter":    filter,
	})
}

// ExportAnalytics renders the aggregation into an Excel workbook with one
// sheet per level and streams it back as a download.
func (ac *AnalyticsController) ExportAnalytics(c *fiber.Ctx) error {
	filter, err := parseAnalyticsFilter(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	divisions, rooms, students, sessions, err := loadAnalyticsData()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load analytics data",
		})
	}

	result := services.ComputeAnalytics(divisions, rooms, students, sessions, filter)

	metric := c.Query("metric", services.MetricAttendance)
	services.SortRoomStats(result.RoomStats, metric)
	services.SortStudentStats(result.StudentStats, metric)
	services.SortDivisionStats(result.DivisionStats, metric)

	f, err := buildAnalyticsWorkbook(result)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to build export",
		})
	}
	defer f.Close()

	buf, err := f.WriteToBuffer()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to write export",
		})
	}

	filename := fmt.Sprintf("analytics-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Send(buf.Bytes())
}

// buildAnalyticsWorkbook renders the aggregation into a workbook with one
// sheet per level.
func buildAnalyticsWorkbook(result services.AnalyticsResult) (*excelize.File, error) {
	f := excelize.NewFile()

	header := []interface{}{
		"Name", "Sessions", "Attendance Total", "Attendance Present", "Attendance Rate %",
		"Quran Entries", "Quran Pages", "Quran Avg Pages",
		"Book Entries", "Book Pages", "Book Avg Pages",
	}
	statRow := func(name string, s services.StatRecord) []interface{} {
		return []interface{}{
			name, s.SessionsCount, s.Attendance.Total, s.Attendance.Present, s.Attendance.Rate,
			s.Quran.Entries, s.Quran.Pages, s.Quran.Average,
			s.Books.Entries, s.Books.Pages, s.Books.Average,
		}
	}

	divisionRows := [][]interface{}{header}
	for _, stat := range result.DivisionStats {
		divisionRows = append(divisionRows, statRow(stat.Division.Name, stat.StatRecord))
	}
	roomRows := [][]interface{}{header}
	for _, stat := range result.RoomStats {
		roomRows = append(roomRows, statRow(stat.Room.Name, stat.StatRecord))
	}
	studentRows := [][]interface{}{header}
	for _, stat := range result.StudentStats {
		studentRows = append(studentRows, statRow(stat.Student.Name, stat.StatRecord))
	}

	sheets := []struct {
		name string
		rows [][]interface{}
	}{
		{"Divisions", divisionRows},
		{"Rooms", roomRows},
		{"Students", studentRows},
	}
	for _, sheet := range sheets {
		if _, err := f.NewSheet(sheet.name); err != nil {
			f.Close()
			return nil, err
		}
		for i, row := range sheet.rows {
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			if err != nil {
				f.Close()
				return nil, err
			}
			if err := f.SetSheetRow(sheet.name, cell, &row); err != nil {
				f.Close()
				return nil, err
			}
		}
	}
	f.DeleteSheet("Sheet1")

	return f, nil
}
