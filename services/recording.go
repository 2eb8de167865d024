package services

import (
	"fmt"
	"sync"

	"madrasa_go/models"

	"gorm.io/gorm"
)

// Recording wizard steps, in order. Navigation is linear: no skipping.
type RecordingStep string

const (
	StepAttendance RecordingStep = "attendance"
	StepQuran      RecordingStep = "quran"
	StepBooks      RecordingStep = "books"
)

// RecordingDraft is the in-flight state of the three-step session recording
// wizard. Edits touch only the draft; the session row is updated once, on
// commit, and never on cancel.
type RecordingDraft struct {
	SessionID  uint                 `json:"session_id"`
	Step       RecordingStep        `json:"step"`
	Attendance models.AttendanceMap `json:"attendance"`
	Quran      models.RecitationMap `json:"quran_recitation"`
	Reading    models.ReadingMap    `json:"book_reading"`
}

// EligibleStudents returns the non-archived students whose room belongs to
// the session's division. Recording deliberately spans the whole division,
// not just the session's own room.
func EligibleStudents(session models.Session, rooms []models.SchoolRoom, students []models.Student) []models.Student {
	roomDivision := make(map[uint]uint, len(rooms))
	for _, room := range rooms {
		roomDivision[room.ID] = room.DivisionID
	}
	eligible := make([]models.Student, 0, len(students))
	for _, student := range students {
		if student.Archived {
			continue
		}
		if divisionID, ok := roomDivision[student.SchoolRoomID]; ok && divisionID == session.DivisionID {
			eligible = append(eligible, student)
		}
	}
	return eligible
}

// NewRecordingDraft copies the session's current maps and fills in a default
// entry for every eligible student that is missing one, so partial re-entry
// keeps previously recorded values and never drops a student.
func NewRecordingDraft(session models.Session, eligible []models.Student) *RecordingDraft {
	draft := &RecordingDraft{
		SessionID:  session.ID,
		Step:       StepAttendance,
		Attendance: make(models.AttendanceMap, len(eligible)),
		Quran:      make(models.RecitationMap, len(eligible)),
		Reading:    make(models.ReadingMap, len(eligible)),
	}
	for id, present := range session.Attendance {
		draft.Attendance[id] = present
	}
	for id, entry := range session.QuranRecitation {
		draft.Quran[id] = entry
	}
	for id, entry := range session.BookReading {
		draft.Reading[id] = entry
	}
	for _, student := range eligible {
		if _, ok := draft.Attendance[student.ID]; !ok {
			draft.Attendance[student.ID] = false
		}
		if _, ok := draft.Quran[student.ID]; !ok {
			draft.Quran[student.ID] = models.RecitationEntry{Evaluation: models.EvaluationAverage}
		}
		if _, ok := draft.Reading[student.ID]; !ok {
			draft.Reading[student.ID] = models.ReadingEntry{}
		}
	}
	return draft
}

// Next advances the wizard one step forward.
func (d *RecordingDraft) Next() error {
	switch d.Step {
	case StepAttendance:
		d.Step = StepQuran
	case StepQuran:
		d.Step = StepBooks
	default:
		return fmt.Errorf("already at the last step")
	}
	return nil
}

// Back moves the wizard one step backward.
func (d *RecordingDraft) Back() error {
	switch d.Step {
	case StepBooks:
		d.Step = StepQuran
	case StepQuran:
		d.Step = StepAttendance
	default:
		return fmt.Errorf("already at the first step")
	}
	return nil
}

// SetAttendance records presence for one student. Only valid on the
// attendance step.
func (d *RecordingDraft) SetAttendance(studentID uint, present bool) error {
	if d.Step != StepAttendance {
		return fmt.Errorf("attendance can only be edited on the %s step", StepAttendance)
	}
	d.Attendance[studentID] = present
	return nil
}

// SetRecitation records a Quran recitation entry for one student. Only valid
// on the quran step.
func (d *RecordingDraft) SetRecitation(studentID uint, entry models.RecitationEntry) error {
	if d.Step != StepQuran {
		return fmt.Errorf("recitation can only be edited on the %s step", StepQuran)
	}
	if entry.PagesCount < 0 {
		return fmt.Errorf("pages_count must not be negative")
	}
	d.Quran[studentID] = entry
	return nil
}

// SetReading records a book reading entry for one student. Only valid on the
// books step.
func (d *RecordingDraft) SetReading(studentID uint, entry models.ReadingEntry) error {
	if d.Step != StepBooks {
		return fmt.Errorf("reading can only be edited on the %s step", StepBooks)
	}
	if entry.PagesCount < 0 {
		return fmt.Errorf("pages_count must not be negative")
	}
	d.Reading[studentID] = entry
	return nil
}

// RecordingStore keeps the active drafts in memory, one per session. A single
// admin user is assumed, so a plain mutex-guarded map is enough.
type RecordingStore struct {
	mu     sync.Mutex
	drafts map[uint]*RecordingDraft
}

func NewRecordingStore() *RecordingStore {
	return &RecordingStore{drafts: make(map[uint]*RecordingDraft)}
}

// Begin creates (or replaces) the draft for a session.
func (s *RecordingStore) Begin(session models.Session, eligible []models.Student) *RecordingDraft {
	s.mu.Lock()
	defer s.mu.Unlock()
	draft := NewRecordingDraft(session, eligible)
	s.drafts[session.ID] = draft
	return draft
}

// Get returns the active draft for a session, if any.
func (s *RecordingStore) Get(sessionID uint) (*RecordingDraft, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	draft, ok := s.drafts[sessionID]
	return draft, ok
}

// Cancel discards the draft; the underlying session is untouched.
func (s *RecordingStore) Cancel(sessionID uint) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.drafts[sessionID]; !ok {
		return false
	}
	delete(s.drafts, sessionID)
	return true
}

// Commit replaces the session's three maps in a single update and discards
// the draft.
func (s *RecordingStore) Commit(db *gorm.DB, sessionID uint) (*models.Session, error) {
	s.mu.Lock()
	draft, ok := s.drafts[sessionID]
	s.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("no active recording for session %d", sessionID)
	}

	var session models.Session
	if err := db.First(&session, sessionID).Error; err != nil {
		return nil, err
	}
	updates := map[string]interface{}{
		"attendance":       draft.Attendance,
		"quran_recitation": draft.Quran,
		"book_reading":     draft.Reading,
	}
	if err := db.Model(&session).Updates(updates).Error; err != nil {
		return nil, err
	}

	s.mu.Lock()
	delete(s.drafts, sessionID)
	s.mu.Unlock()

	session.Attendance = draft.Attendance
	session.QuranRecitation = draft.Quran
	session.BookReading = draft.Reading
	return &session, nil
}
