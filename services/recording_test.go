package services

import (
	"testing"

	"madrasa_go/models"
)

func recordingFixture() (models.Session, []models.SchoolRoom, []models.Student) {
	session := models.Session{
		BaseModel:    models.BaseModel{ID: 10},
		DivisionID:   1,
		SchoolRoomID: 1,
		Date:         "2024-12-20",
		Attendance:   models.AttendanceMap{1: true},
		QuranRecitation: models.RecitationMap{
			1: {RecitedText: "سورة النبأ", PagesCount: 2, Evaluation: models.EvaluationGood},
		},
		BookReading: models.ReadingMap{},
	}
	rooms := []models.SchoolRoom{
		{BaseModel: models.BaseModel{ID: 1}, DivisionID: 1},
		{BaseModel: models.BaseModel{ID: 2}, DivisionID: 1},
		{BaseModel: models.BaseModel{ID: 3}, DivisionID: 2},
	}
	students := []models.Student{
		{BaseModel: models.BaseModel{ID: 1}, SchoolRoomID: 1},
		{BaseModel: models.BaseModel{ID: 2}, SchoolRoomID: 2},
		{BaseModel: models.BaseModel{ID: 3}, SchoolRoomID: 3},
		{BaseModel: models.BaseModel{ID: 4}, SchoolRoomID: 1, Archived: true},
	}
	return session, rooms, students
}

func TestEligibleStudentsSpansDivision(t *testing.T) {
	session, rooms, students := recordingFixture()

	eligible := EligibleStudents(session, rooms, students)

	ids := make(map[uint]bool, len(eligible))
	for _, s := range eligible {
		ids[s.ID] = true
	}
	// Student 2 is in another room of the same division and must be included.
	if !ids[1] || !ids[2] {
		t.Errorf("eligible = %v, want students 1 and 2", ids)
	}
	if ids[3] {
		t.Error("student of another division must not be eligible")
	}
	if ids[4] {
		t.Error("archived student must not be eligible")
	}
}

func TestNewRecordingDraftDefaults(t *testing.T) {
	session, rooms, students := recordingFixture()
	eligible := EligibleStudents(session, rooms, students)

	draft := NewRecordingDraft(session, eligible)

	if draft.Step != StepAttendance {
		t.Errorf("draft step = %s, want %s", draft.Step, StepAttendance)
	}

	// Existing values are preserved.
	if !draft.Attendance[1] {
		t.Error("recorded attendance should carry over into the draft")
	}
	if entry := draft.Quran[1]; entry.PagesCount != 2 || entry.Evaluation != models.EvaluationGood {
		t.Errorf("recorded recitation should carry over, got %+v", entry)
	}

	// Missing entries get defaults.
	if present, ok := draft.Attendance[2]; !ok || present {
		t.Errorf("student 2 attendance default = %v/%v, want recorded false", present, ok)
	}
	if entry := draft.Quran[2]; entry.Evaluation != models.EvaluationAverage || entry.PagesCount != 0 {
		t.Errorf("student 2 recitation default = %+v", entry)
	}
	if entry, ok := draft.Reading[2]; !ok || entry != (models.ReadingEntry{}) {
		t.Errorf("student 2 reading default = %+v/%v", entry, ok)
	}
}

func TestDraftStepNavigation(t *testing.T) {
	draft := &RecordingDraft{Step: StepAttendance}

	if err := draft.Back(); err == nil {
		t.Error("Back on the first step must fail")
	}
	if err := draft.Next(); err != nil || draft.Step != StepQuran {
		t.Fatalf("Next: %v, step %s", err, draft.Step)
	}
	if err := draft.Next(); err != nil || draft.Step != StepBooks {
		t.Fatalf("Next: %v, step %s", err, draft.Step)
	}
	if err := draft.Next(); err == nil {
		t.Error("Next on the last step must fail")
	}
	if err := draft.Back(); err != nil || draft.Step != StepQuran {
		t.Fatalf("Back: %v, step %s", err, draft.Step)
	}
}

func TestDraftStepGuards(t *testing.T) {
	session, rooms, students := recordingFixture()
	draft := NewRecordingDraft(session, EligibleStudents(session, rooms, students))

	if err := draft.SetRecitation(1, models.RecitationEntry{PagesCount: 1}); err == nil {
		t.Error("recitation edit on attendance step must fail")
	}
	if err := draft.SetAttendance(2, true); err != nil {
		t.Errorf("attendance edit on attendance step failed: %v", err)
	}

	draft.Next()
	if err := draft.SetAttendance(2, false); err == nil {
		t.Error("attendance edit on quran step must fail")
	}
	if err := draft.SetRecitation(2, models.RecitationEntry{PagesCount: -1}); err == nil {
		t.Error("negative pages_count must be rejected")
	}
	if err := draft.SetRecitation(2, models.RecitationEntry{PagesCount: 3, Evaluation: models.EvaluationExcellent}); err != nil {
		t.Errorf("recitation edit on quran step failed: %v", err)
	}

	draft.Next()
	if err := draft.SetReading(2, models.ReadingEntry{PagesCount: -2}); err == nil {
		t.Error("negative pages_count must be rejected")
	}
	if err := draft.SetReading(2, models.ReadingEntry{BookNames: "رياض الصالحين", PagesCount: 4}); err != nil {
		t.Errorf("reading edit on books step failed: %v", err)
	}
}

func TestRecordingStoreLifecycle(t *testing.T) {
	session, rooms, students := recordingFixture()
	eligible := EligibleStudents(session, rooms, students)
	store := NewRecordingStore()

	if _, ok := store.Get(session.ID); ok {
		t.Fatal("empty store should have no draft")
	}

	draft := store.Begin(session, eligible)
	got, ok := store.Get(session.ID)
	if !ok || got != draft {
		t.Fatal("Begin should register the draft")
	}

	// Restarting replaces the draft.
	second := store.Begin(session, eligible)
	if got, _ := store.Get(session.ID); got != second {
		t.Fatal("Begin should replace an existing draft")
	}

	if !store.Cancel(session.ID) {
		t.Fatal("Cancel should report success for an active draft")
	}
	if store.Cancel(session.ID) {
		t.Fatal("Cancel without a draft should report false")
	}

	if _, err := store.Commit(nil, session.ID); err == nil {
		t.Fatal("Commit without a draft must fail")
	}
}
