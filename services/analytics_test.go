package services

import (
	"math"
	"testing"

	"madrasa_go/models"
)

func analyticsFixture() ([]models.Division, []models.SchoolRoom, []models.Student, []models.Session) {
	divisions := []models.Division{
		{BaseModel: models.BaseModel{ID: 1}, Name: "دورة المبتدئين"},
		{BaseModel: models.BaseModel{ID: 2}, Name: "دورة المتوسطين"},
	}
	rooms := []models.SchoolRoom{
		{BaseModel: models.BaseModel{ID: 1}, Name: "الحلقة الأولى", DivisionID: 1},
		{BaseModel: models.BaseModel{ID: 2}, Name: "حلقة المتوسطين أ", DivisionID: 2},
	}
	students := []models.Student{
		{BaseModel: models.BaseModel{ID: 1}, Name: "عبدالرحمن", SchoolRoomID: 1},
		{BaseModel: models.BaseModel{ID: 2}, Name: "محمد", SchoolRoomID: 1},
		{BaseModel: models.BaseModel{ID: 3}, Name: "يوسف", SchoolRoomID: 2},
	}
	sessions := []models.Session{
		{
			BaseModel:    models.BaseModel{ID: 1},
			DivisionID:   1,
			SchoolRoomID: 1,
			Date:         "2024-12-20",
			Attendance:   models.AttendanceMap{1: true, 2: false},
			QuranRecitation: models.RecitationMap{
				1: {RecitedText: "سورة النبأ", PagesCount: 2, Evaluation: models.EvaluationGood},
			},
			BookReading: models.ReadingMap{
				1: {BookNames: "رياض الصالحين", PagesCount: 5, WithSummary: true},
			},
		},
		{
			BaseModel:       models.BaseModel{ID: 2},
			DivisionID:      2,
			SchoolRoomID:    2,
			Date:            "2024-12-21",
			Attendance:      models.AttendanceMap{3: true},
			QuranRecitation: models.RecitationMap{},
			BookReading:     models.ReadingMap{},
		},
	}
	return divisions, rooms, students, sessions
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestComputeAnalyticsBasic(t *testing.T) {
	divisions, rooms, students, sessions := analyticsFixture()

	result := ComputeAnalytics(divisions, rooms, students, sessions, AnalyticsFilter{})

	if len(result.RoomStats) != 2 {
		t.Fatalf("expected 2 room stats, got %d", len(result.RoomStats))
	}
	room1 := result.RoomStats[0]
	if room1.Room.ID != 1 {
		t.Fatalf("expected room 1 first, got %d", room1.Room.ID)
	}
	if room1.SessionsCount != 1 {
		t.Errorf("room 1 sessions = %d, want 1", room1.SessionsCount)
	}
	if room1.Attendance.Total != 2 || room1.Attendance.Present != 1 {
		t.Errorf("room 1 attendance = %d/%d, want 1/2", room1.Attendance.Present, room1.Attendance.Total)
	}
	if !almostEqual(room1.Attendance.Rate, 50) {
		t.Errorf("room 1 attendance rate = %v, want 50", room1.Attendance.Rate)
	}
	if room1.Quran.Entries != 1 || room1.Quran.Pages != 2 || !almostEqual(room1.Quran.Average, 2) {
		t.Errorf("room 1 quran = %+v, want 1 entry, 2 pages, avg 2", room1.Quran)
	}
	if room1.Books.Entries != 1 || room1.Books.Pages != 5 {
		t.Errorf("room 1 books = %+v, want 1 entry, 5 pages", room1.Books)
	}

	var student1, student2 StudentStat
	for _, s := range result.StudentStats {
		switch s.Student.ID {
		case 1:
			student1 = s
		case 2:
			student2 = s
		}
	}
	if !almostEqual(student1.Attendance.Rate, 100) {
		t.Errorf("student 1 rate = %v, want 100", student1.Attendance.Rate)
	}
	if !almostEqual(student2.Attendance.Rate, 0) || student2.Attendance.Total != 1 {
		t.Errorf("student 2 = %+v, want rate 0 over 1 entry", student2.Attendance)
	}

	if len(result.DivisionStats) != 2 {
		t.Fatalf("expected 2 division stats, got %d", len(result.DivisionStats))
	}
	if result.DivisionStats[0].SessionsCount != 1 {
		t.Errorf("division 1 sessions = %d, want 1", result.DivisionStats[0].SessionsCount)
	}
}

func TestComputeAnalyticsSkipsZeroPageEntries(t *testing.T) {
	divisions, rooms, students, sessions := analyticsFixture()
	// A recitation with zero pages must not count as an entry.
	sessions[0].QuranRecitation[2] = models.RecitationEntry{Evaluation: models.EvaluationAverage}

	result := ComputeAnalytics(divisions, rooms, students, sessions, AnalyticsFilter{})

	room1 := result.RoomStats[0]
	if room1.Quran.Entries != 1 || room1.Quran.Pages != 2 {
		t.Errorf("room 1 quran = %+v, zero-page entry should be ignored", room1.Quran)
	}
}

func TestFilterSessionsDateBounds(t *testing.T) {
	divisions := []models.Division{{BaseModel: models.BaseModel{ID: 1}}}
	sessions := []models.Session{
		{BaseModel: models.BaseModel{ID: 1}, DivisionID: 1, Date: "2024-12-19"},
		{BaseModel: models.BaseModel{ID: 2}, DivisionID: 1, Date: "2024-12-20"},
		{BaseModel: models.BaseModel{ID: 3}, DivisionID: 1, Date: "2024-12-21"},
	}

	tests := []struct {
		name   string
		filter AnalyticsFilter
		want   []uint
	}{
		{"no bounds", AnalyticsFilter{}, []uint{1, 2, 3}},
		{"from inclusive", AnalyticsFilter{DateFrom: "2024-12-20"}, []uint{2, 3}},
		{"to inclusive", AnalyticsFilter{DateTo: "2024-12-20"}, []uint{1, 2}},
		{"after exclusive", AnalyticsFilter{DateAfter: "2024-12-20"}, []uint{3}},
		{"before exclusive", AnalyticsFilter{DateBefore: "2024-12-20"}, []uint{1}},
		{"from and to", AnalyticsFilter{DateFrom: "2024-12-20", DateTo: "2024-12-20"}, []uint{2}},
		{"empty window", AnalyticsFilter{DateAfter: "2024-12-19", DateBefore: "2024-12-20"}, []uint{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterSessions(sessions, divisions, tt.filter)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d sessions, want %d", len(got), len(tt.want))
			}
			for i, s := range got {
				if s.ID != tt.want[i] {
					t.Errorf("session[%d] = %d, want %d", i, s.ID, tt.want[i])
				}
			}
		})
	}
}

func TestFilterSessionsMembership(t *testing.T) {
	divisions := []models.Division{
		{BaseModel: models.BaseModel{ID: 1}},
		{BaseModel: models.BaseModel{ID: 2}},
	}
	sessions := []models.Session{
		{BaseModel: models.BaseModel{ID: 1}, DivisionID: 1, SchoolRoomID: 1, Date: "2024-12-20"},
		{BaseModel: models.BaseModel{ID: 2}, DivisionID: 2, SchoolRoomID: 2, Date: "2024-12-20"},
	}

	got := FilterSessions(sessions, divisions, AnalyticsFilter{DivisionIDs: []uint{1}})
	if len(got) != 1 || got[0].ID != 1 {
		t.Errorf("division filter: got %v", got)
	}

	got = FilterSessions(sessions, divisions, AnalyticsFilter{SchoolRoomIDs: []uint{2}})
	if len(got) != 1 || got[0].ID != 2 {
		t.Errorf("room filter: got %v", got)
	}
}

func TestComputeAnalyticsExcludesArchived(t *testing.T) {
	divisions, rooms, students, sessions := analyticsFixture()
	divisions[1].Archived = true
	students[1].Archived = true

	result := ComputeAnalytics(divisions, rooms, students, sessions, AnalyticsFilter{})

	for _, stat := range result.DivisionStats {
		if stat.Division.ID == 2 {
			t.Error("archived division must not appear in stats")
		}
	}
	for _, stat := range result.RoomStats {
		if stat.Room.ID == 2 {
			t.Error("room of archived division must not appear in stats")
		}
	}
	for _, stat := range result.StudentStats {
		if stat.Student.ID == 2 {
			t.Error("archived student must not appear in stats")
		}
		// Student 3's session belongs to the archived division, so nothing
		// should have accumulated for them.
		if stat.Student.ID == 3 && stat.Attendance.Total != 0 {
			t.Errorf("student 3 attendance = %+v, want zero", stat.Attendance)
		}
	}
}

func TestComputeAnalyticsZeroedEntities(t *testing.T) {
	divisions, rooms, students, _ := analyticsFixture()

	result := ComputeAnalytics(divisions, rooms, students, nil, AnalyticsFilter{})

	if len(result.RoomStats) != 2 || len(result.StudentStats) != 3 || len(result.DivisionStats) != 2 {
		t.Fatalf("entities without sessions must still appear: %d/%d/%d",
			len(result.RoomStats), len(result.StudentStats), len(result.DivisionStats))
	}
	for _, stat := range result.StudentStats {
		if stat.SessionsCount != 0 || !almostEqual(stat.Attendance.Rate, 0) {
			t.Errorf("student %d should be zeroed, got %+v", stat.Student.ID, stat.StatRecord)
		}
	}
}

func TestComputeAnalyticsDeterministic(t *testing.T) {
	divisions, rooms, students, sessions := analyticsFixture()

	first := ComputeAnalytics(divisions, rooms, students, sessions, AnalyticsFilter{})
	second := ComputeAnalytics(divisions, rooms, students, sessions, AnalyticsFilter{})

	for i := range first.StudentStats {
		if first.StudentStats[i].Student.ID != second.StudentStats[i].Student.ID {
			t.Fatal("student stat order must be stable across runs")
		}
		if first.StudentStats[i].StatRecord != second.StudentStats[i].StatRecord {
			t.Fatal("recomputation must yield identical stats")
		}
	}
}

func TestSortAndRankedStats(t *testing.T) {
	stats := []StudentStat{
		{Student: models.Student{BaseModel: models.BaseModel{ID: 1}},
			StatRecord: StatRecord{Attendance: AttendanceStat{Rate: 50}, SessionsCount: 2}},
		{Student: models.Student{BaseModel: models.BaseModel{ID: 2}},
			StatRecord: StatRecord{Attendance: AttendanceStat{Rate: 100}, SessionsCount: 1}},
		{Student: models.Student{BaseModel: models.BaseModel{ID: 3}},
			StatRecord: StatRecord{}},
	}

	SortStudentStats(stats, MetricAttendance)
	if stats[0].Student.ID != 2 || stats[1].Student.ID != 1 {
		t.Errorf("sort order = %d,%d,%d; want 2,1,3", stats[0].Student.ID, stats[1].Student.ID, stats[2].Student.ID)
	}

	ranked := RankedStudentStats(stats)
	if len(ranked) != 2 {
		t.Fatalf("ranked should drop session-less entries, got %d", len(ranked))
	}
	for _, s := range ranked {
		if s.SessionsCount == 0 {
			t.Error("ranked stats must all have sessions")
		}
	}
}

func TestSortStatsByVolumeMetrics(t *testing.T) {
	stats := []RoomStat{
		{Room: models.SchoolRoom{BaseModel: models.BaseModel{ID: 1}},
			StatRecord: StatRecord{Quran: VolumeStat{Pages: 3}, Books: VolumeStat{Pages: 10}}},
		{Room: models.SchoolRoom{BaseModel: models.BaseModel{ID: 2}},
			StatRecord: StatRecord{Quran: VolumeStat{Pages: 7}, Books: VolumeStat{Pages: 1}}},
	}

	SortRoomStats(stats, MetricQuran)
	if stats[0].Room.ID != 2 {
		t.Errorf("quran sort: first room = %d, want 2", stats[0].Room.ID)
	}

	SortRoomStats(stats, MetricBooks)
	if stats[0].Room.ID != 1 {
		t.Errorf("books sort: first room = %d, want 1", stats[0].Room.ID)
	}
}
