package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// Recitation evaluation grades, stored verbatim in Arabic
const (
	EvaluationAverage   = "وسط"
	EvaluationGood      = "جيد"
	EvaluationVeryGood  = "جيد جدا"
	EvaluationExcellent = "ممتاز"
)

// Division is a course level grouping multiple teaching circles.
// Divisions are archived rather than removed so their history stays
// reachable through the archived view.
type Division struct {
	BaseModel
	Name     string `json:"name" gorm:"size:255;not null"`
	Schedule string `json:"schedule" gorm:"size:255"`
	Archived bool   `json:"archived" gorm:"default:false"`

	// Relationships
	Rooms []SchoolRoom `json:"rooms,omitempty" gorm:"foreignKey:DivisionID"`
}

// Teacher is a value embedded in SchoolRoom, not an independent aggregate.
type Teacher struct {
	Name           string `json:"name" gorm:"size:255"`
	Email          string `json:"email,omitempty" gorm:"size:255"`
	Phone          string `json:"phone,omitempty" gorm:"size:50"`
	Specialization string `json:"specialization,omitempty" gorm:"size:255"`
}

// SchoolRoom is a teacher-led circle of students within a division.
// CurrentStudents is a denormalized counter: it must always equal the number
// of non-archived students referencing the room, so every student mutation
// adjusts it inside the same transaction.
type SchoolRoom struct {
	BaseModel
	Name            string  `json:"name" gorm:"size:255;not null"`
	Teacher         Teacher `json:"teacher" gorm:"embedded;embeddedPrefix:teacher_"`
	DivisionID      uint    `json:"division_id" gorm:"not null;index"`
	MaxStudents     int     `json:"max_students" gorm:"default:20"`
	CurrentStudents int     `json:"current_students" gorm:"default:0"`

	// Relationships
	Division Division  `json:"division,omitempty" gorm:"foreignKey:DivisionID"`
	Students []Student `json:"students,omitempty" gorm:"foreignKey:SchoolRoomID"`
}

// Student model
type Student struct {
	BaseModel
	Name            string    `json:"name" gorm:"size:255;not null"`
	Birthday        string    `json:"birthday" gorm:"size:10"` // birth year, e.g. "2010"
	FatherName      string    `json:"father_name,omitempty" gorm:"size:255"`
	Phone           string    `json:"phone,omitempty" gorm:"size:50"`
	FatherPhone     string    `json:"father_phone,omitempty" gorm:"size:50"`
	MotherPhone     string    `json:"mother_phone,omitempty" gorm:"size:50"`
	SchoolRoomID    uint      `json:"school_room_id" gorm:"not null;index"`
	JoinDate        time.Time `json:"join_date"`
	LatestQuranPart string    `json:"latest_quran_part" gorm:"size:50"` // "جزء عم", "جزء تبارك", "جزء 1".."جزء 28"
	Archived        bool      `json:"archived" gorm:"default:false"`

	// Relationships
	SchoolRoom SchoolRoom `json:"school_room,omitempty" gorm:"foreignKey:SchoolRoomID"`
}

// RecitationEntry is one student's Quran recitation record in a session.
type RecitationEntry struct {
	RecitedText string `json:"recited_text"`
	PagesCount  int    `json:"pages_count"`
	Evaluation  string `json:"evaluation"`
}

// ReadingEntry is one student's book reading record in a session.
type ReadingEntry struct {
	BookNames   string `json:"book_names"`
	PagesCount  int    `json:"pages_count"`
	WithSummary bool   `json:"with_summary"`
}

// Per-student record maps stored as JSON columns. A missing key means "not
// yet recorded", which is distinct from a recorded zero, so callers check
// membership explicitly instead of reading defaults.
type AttendanceMap map[uint]bool
type RecitationMap map[uint]RecitationEntry
type ReadingMap map[uint]ReadingEntry

func (m AttendanceMap) Value() (driver.Value, error)  { return mapValue(m) }
func (m *AttendanceMap) Scan(value interface{}) error { return mapScan(value, m) }

func (m RecitationMap) Value() (driver.Value, error)  { return mapValue(m) }
func (m *RecitationMap) Scan(value interface{}) error { return mapScan(value, m) }

func (m ReadingMap) Value() (driver.Value, error)  { return mapValue(m) }
func (m *ReadingMap) Scan(value interface{}) error { return mapScan(value, m) }

func mapValue(m interface{}) (driver.Value, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func mapScan(value interface{}, dest interface{}) error {
	if value == nil {
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported JSON column type %T", value)
	}
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, dest)
}

// Session is one dated class meeting of a room. The three maps are keyed by
// student ID and are independently optional per student.
type Session struct {
	BaseModel
	DivisionID      uint          `json:"division_id" gorm:"not null;index"`
	SchoolRoomID    uint          `json:"school_room_id" gorm:"not null;index"`
	Date            string        `json:"date" gorm:"size:10;not null;index"` // YYYY-MM-DD
	Topic           string        `json:"topic" gorm:"size:255"`
	Attendance      AttendanceMap `json:"attendance" gorm:"type:json"`
	QuranRecitation RecitationMap `json:"quran_recitation" gorm:"type:json"`
	BookReading     ReadingMap    `json:"book_reading" gorm:"type:json"`

	// Relationships
	Division   Division   `json:"division,omitempty" gorm:"foreignKey:DivisionID"`
	SchoolRoom SchoolRoom `json:"school_room,omitempty" gorm:"foreignKey:SchoolRoomID"`
}

// User is a dashboard administrator account.
type User struct {
	BaseModel
	Username string `json:"username" gorm:"size:100;not null;uniqueIndex"`
	Password string `json:"-" gorm:"size:255;not null"`
	Role     string `json:"role" gorm:"size:50;not null;default:'admin';type:enum('owner','admin')"` // owner, admin
}

// JSON field type for GORM
type JSON []byte

func (j JSON) Value() (driver.Value, error) {
	if j.IsNull() {
		return nil, nil
	}
	return string(j), nil
}

func (j *JSON) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	s, ok := value.([]byte)
	if !ok {
		return nil
	}
	*j = append((*j)[0:0], s...)
	return nil
}

func (j JSON) MarshalJSON() ([]byte, error) {
	if j == nil {
		return []byte("null"), nil
	}
	return j, nil
}

func (j *JSON) UnmarshalJSON(data []byte) error {
	if j == nil {
		return nil
	}
	*j = append((*j)[0:0], data...)
	return nil
}

func (j JSON) IsNull() bool {
	return len(j) == 0 || string(j) == "null"
}

// Log model for activity tracking
type ActivityLog struct {
	BaseModel
	UserID     uint   `json:"user_id"`
	Action     string `json:"action" gorm:"size:100;not null"`
	Resource   string `json:"resource" gorm:"size:100;not null"`
	ResourceID uint   `json:"resource_id"`
	Details    JSON   `json:"details" gorm:"type:json"`
	IPAddress  string `json:"ip_address" gorm:"size:45"`
	UserAgent  string `json:"user_agent" gorm:"size:500"`

	// Relationships
	User User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// LogArchive model for tracking archived logs
type LogArchive struct {
	BaseModel
	FileName    string    `json:"file_name" gorm:"size:255;not null"`
	S3Key       string    `json:"s3_key" gorm:"size:500;not null"`
	StartDate   time.Time `json:"start_date" gorm:"not null"`
	EndDate     time.Time `json:"end_date" gorm:"not null"`
	RecordCount int       `json:"record_count" gorm:"not null"`
	FileSize    int64     `json:"file_size" gorm:"not null"`
	Status      string    `json:"status" gorm:"size:50;not null;default:'pending';type:enum('pending','completed','failed')"` // pending, completed, failed
	Error       string    `json:"error" gorm:"type:text"`
}
