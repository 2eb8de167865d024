package services

import (
	"sort"

	"madrasa_go/models"
)

// Metrics that rankings can be sorted by.
const (
	MetricAttendance = "attendance"
	MetricQuran      = "quran"
	MetricBooks      = "books"
)

// AnalyticsFilter narrows the session set before aggregation. Empty ID sets
// and empty date strings mean "no constraint". Dates are YYYY-MM-DD strings,
// so plain string comparison orders them correctly.
type AnalyticsFilter struct {
	DivisionIDs   []uint `json:"division_ids"`
	SchoolRoomIDs []uint `json:"school_room_ids"`
	DateFrom      string `json:"date_from"`   // inclusive lower bound
	DateTo        string `json:"date_to"`     // inclusive upper bound
	DateAfter     string `json:"date_after"`  // exclusive lower bound
	DateBefore    string `json:"date_before"` // exclusive upper bound
}

// AttendanceStat accumulates attendance entries for one entity.
type AttendanceStat struct {
	Total   int     `json:"total"`
	Present int     `json:"present"`
	Rate    float64 `json:"rate"`
}

// VolumeStat accumulates recitation or reading entries for one entity.
type VolumeStat struct {
	Entries int     `json:"entries"`
	Pages   int     `json:"pages"`
	Average float64 `json:"average"`
}

// StatRecord holds the accumulated counters for one room, student or division.
type StatRecord struct {
	Attendance    AttendanceStat `json:"attendance"`
	Quran         VolumeStat     `json:"quran"`
	Books         VolumeStat     `json:"books"`
	SessionsCount int            `json:"sessions_count"`
}

type RoomStat struct {
	Room models.SchoolRoom `json:"room"`
	StatRecord
}

type StudentStat struct {
	Student models.Student `json:"student"`
	StatRecord
}

type DivisionStat struct {
	Division models.Division `json:"division"`
	StatRecord
}

// AnalyticsResult is the full aggregation output.
type AnalyticsResult struct {
	RoomStats     []RoomStat     `json:"room_stats"`
	StudentStats  []StudentStat  `json:"student_stats"`
	DivisionStats []DivisionStat `json:"division_stats"`
}

func containsID(ids []uint, id uint) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// matchesFilter reports whether a session passes the division/room membership
// predicate and all four date bounds. Sessions of archived divisions never
// match.
func matchesFilter(session models.Session, divisions map[uint]models.Division, f AnalyticsFilter) bool {
	division, ok := divisions[session.DivisionID]
	if !ok || division.Archived {
		return false
	}
	if len(f.DivisionIDs) > 0 && !containsID(f.DivisionIDs, session.DivisionID) {
		return false
	}
	if len(f.SchoolRoomIDs) > 0 && !containsID(f.SchoolRoomIDs, session.SchoolRoomID) {
		return false
	}
	if f.DateFrom != "" && session.Date < f.DateFrom {
		return false
	}
	if f.DateTo != "" && session.Date > f.DateTo {
		return false
	}
	if f.DateAfter != "" && session.Date <= f.DateAfter {
		return false
	}
	if f.DateBefore != "" && session.Date >= f.DateBefore {
		return false
	}
	return true
}

// FilterSessions returns the sessions that pass the filter, in input order.
func FilterSessions(sessions []models.Session, divisions []models.Division, f AnalyticsFilter) []models.Session {
	byID := make(map[uint]models.Division, len(divisions))
	for _, d := range divisions {
		byID[d.ID] = d
	}
	filtered := make([]models.Session, 0, len(sessions))
	for _, s := range sessions {
		if matchesFilter(s, byID, f) {
			filtered = append(filtered, s)
		}
	}
	return filtered
}

// ComputeAnalytics rolls up attendance, recitation and reading stats per
// room, student and division over the filtered session set. It is a pure
// function over already-loaded collections and can be recomputed on every
// filter change.
func ComputeAnalytics(divisions []models.Division, rooms []models.SchoolRoom, students []models.Student, sessions []models.Session, f AnalyticsFilter) AnalyticsResult {
	divisionByID := make(map[uint]models.Division, len(divisions))
	for _, d := range divisions {
		divisionByID[d.ID] = d
	}

	// Stat records for every active room, non-archived student and active
	// division, zeroed up front so entities without sessions still appear.
	roomStats := make(map[uint]*RoomStat)
	roomOrder := make([]uint, 0, len(rooms))
	for _, room := range rooms {
		division, ok := divisionByID[room.DivisionID]
		if !ok || division.Archived {
			continue
		}
		roomStats[room.ID] = &RoomStat{Room: room}
		roomOrder = append(roomOrder, room.ID)
	}

	studentStats := make(map[uint]*StudentStat)
	studentOrder := make([]uint, 0, len(students))
	for _, student := range students {
		if student.Archived {
			continue
		}
		studentStats[student.ID] = &StudentStat{Student: student}
		studentOrder = append(studentOrder, student.ID)
	}

	divisionStats := make(map[uint]*DivisionStat)
	divisionOrder := make([]uint, 0, len(divisions))
	for _, division := range divisions {
		if division.Archived {
			continue
		}
		divisionStats[division.ID] = &DivisionStat{Division: division}
		divisionOrder = append(divisionOrder, division.ID)
	}

	for _, session := range sessions {
		if !matchesFilter(session, divisionByID, f) {
			continue
		}
		roomStat := roomStats[session.SchoolRoomID]
		divisionStat := divisionStats[session.DivisionID]
		if roomStat != nil {
			roomStat.SessionsCount++
		}
		if divisionStat != nil {
			divisionStat.SessionsCount++
		}

		for studentID, present := range session.Attendance {
			if stat := studentStats[studentID]; stat != nil {
				stat.Attendance.Total++
				if present {
					stat.Attendance.Present++
				}
				stat.SessionsCount++
			}
			if roomStat != nil {
				roomStat.Attendance.Total++
				if present {
					roomStat.Attendance.Present++
				}
			}
			if divisionStat != nil {
				divisionStat.Attendance.Total++
				if present {
					divisionStat.Attendance.Present++
				}
			}
		}

		for studentID, recitation := range session.QuranRecitation {
			if recitation.PagesCount <= 0 {
				continue
			}
			if stat := studentStats[studentID]; stat != nil {
				stat.Quran.Entries++
				stat.Quran.Pages += recitation.PagesCount
			}
			if roomStat != nil {
				roomStat.Quran.Entries++
				roomStat.Quran.Pages += recitation.PagesCount
			}
			if divisionStat != nil {
				divisionStat.Quran.Entries++
				divisionStat.Quran.Pages += recitation.PagesCount
			}
		}

		for studentID, reading := range session.BookReading {
			if reading.PagesCount <= 0 {
				continue
			}
			if stat := studentStats[studentID]; stat != nil {
				stat.Books.Entries++
				stat.Books.Pages += reading.PagesCount
			}
			if roomStat != nil {
				roomStat.Books.Entries++
				roomStat.Books.Pages += reading.PagesCount
			}
			if divisionStat != nil {
				divisionStat.Books.Entries++
				divisionStat.Books.Pages += reading.PagesCount
			}
		}
	}

	result := AnalyticsResult{
		RoomStats:     make([]RoomStat, 0, len(roomOrder)),
		StudentStats:  make([]StudentStat, 0, len(studentOrder)),
		DivisionStats: make([]DivisionStat, 0, len(divisionOrder)),
	}
	for _, id := range roomOrder {
		stat := roomStats[id]
		stat.StatRecord.derive()
		result.RoomStats = append(result.RoomStats, *stat)
	}
	for _, id := range studentOrder {
		stat := studentStats[id]
		stat.StatRecord.derive()
		result.StudentStats = append(result.StudentStats, *stat)
	}
	for _, id := range divisionOrder {
		stat := divisionStats[id]
		stat.StatRecord.derive()
		result.DivisionStats = append(result.DivisionStats, *stat)
	}
	return result
}

func (s *StatRecord) derive() {
	if s.Attendance.Total > 0 {
		s.Attendance.Rate = float64(s.Attendance.Present) / float64(s.Attendance.Total) * 100
	}
	if s.Quran.Entries > 0 {
		s.Quran.Average = float64(s.Quran.Pages) / float64(s.Quran.Entries)
	}
	if s.Books.Entries > 0 {
		s.Books.Average = float64(s.Books.Pages) / float64(s.Books.Entries)
	}
}

// metricValue returns the sortable value of a stat record for a metric.
func (s StatRecord) metricValue(metric string) float64 {
	switch metric {
	case MetricQuran:
		return float64(s.Quran.Pages)
	case MetricBooks:
		return float64(s.Books.Pages)
	default:
		return s.Attendance.Rate
	}
}

// Sorting is descending and stable, so ties keep their iteration order.

func SortRoomStats(stats []RoomStat, metric string) {
	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].metricValue(metric) > stats[j].metricValue(metric)
	})
}

func SortStudentStats(stats []StudentStat, metric string) {
	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].metricValue(metric) > stats[j].metricValue(metric)
	})
}

func SortDivisionStats(stats []DivisionStat, metric string) {
	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].metricValue(metric) > stats[j].metricValue(metric)
	})
}

// Ranked* drop entries that saw no sessions, for ranking displays.

func RankedRoomStats(stats []RoomStat) []RoomStat {
	ranked := make([]RoomStat, 0, len(stats))
	for _, s := range stats {
		if s.SessionsCount > 0 {
			ranked = append(ranked, s)
		}
	}
	return ranked
}

func RankedStudentStats(stats []StudentStat) []StudentStat {
	ranked := make([]StudentStat, 0, len(stats))
	for _, s := range stats {
		if s.SessionsCount > 0 {
			ranked = append(ranked, s)
		}
	}
	return ranked
}

func RankedDivisionStats(stats []DivisionStat) []DivisionStat {
	ranked := make([]DivisionStat, 0, len(stats))
	for _, s := range stats {
		if s.SessionsCount > 0 {
			ranked = append(ranked, s)
		}
	}
	return ranked
}
