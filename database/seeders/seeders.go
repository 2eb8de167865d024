package seeders

import (
	"log"
	"time"

	"madrasa_go/database"
	"madrasa_go/models"
	"madrasa_go/utils"
)

// SeedAll runs all seeders
func SeedAll() {
	log.Println("Starting database seeding...")

	SeedUsers()
	SeedDivisions()
	SeedSchoolRooms()
	SeedStudents()
	SeedSessions()

	log.Println("Database seeding completed successfully!")
}

// SeedUsers seeds the default administrator account
func SeedUsers() {
	var count int64
	database.DB.Model(&models.User{}).Count(&count)
	if count > 0 {
		log.Println("Users already seeded, skipping...")
		return
	}

	password, err := utils.HashPassword("admin123")
	if err != nil {
		log.Println("Failed to hash seed password:", err)
		return
	}

	admin := models.User{
		Username: "admin",
		Password: password,
		Role:     "owner",
	}
	if err := database.DB.Create(&admin).Error; err != nil {
		log.Println("Failed to seed users:", err)
	}
}

// SeedDivisions seeds the divisions table
func SeedDivisions() {
	var count int64
	database.DB.Model(&models.Division{}).Count(&count)
	if count > 0 {
		log.Println("Divisions already seeded, skipping...")
		return
	}

	divisions := []models.Division{
		{
			BaseModel: models.BaseModel{ID: 1},
			Name:      "دورة المبتدئين",
			Schedule:  "الاثنين والأربعاء 7:00 - 8:00 مساءً",
		},
		{
			BaseModel: models.BaseModel{ID: 2},
			Name:      "دورة المتوسطين",
			Schedule:  "الثلاثاء والخميس 7:00 - 8:00 مساءً",
		},
		{
			BaseModel: models.BaseModel{ID: 3},
			Name:      "دورة المتقدمين",
			Schedule:  "السبت والأحد 6:00 - 7:00 مساءً",
		},
	}
	if err := database.DB.Create(&divisions).Error; err != nil {
		log.Println("Failed to seed divisions:", err)
	}
}

// SeedSchoolRooms seeds the school rooms table
func SeedSchoolRooms() {
	var count int64
	database.DB.Model(&models.SchoolRoom{}).Count(&count)
	if count > 0 {
		log.Println("School rooms already seeded, skipping...")
		return
	}

	rooms := []models.SchoolRoom{
		{
			BaseModel:   models.BaseModel{ID: 1},
			Name:        "الحلقة الأولى",
			Teacher:     models.Teacher{Name: "أحمد محمد", Email: "ahmed@example.com", Phone: "+966501234567"},
			DivisionID:  1,
			MaxStudents: 15,
		},
		{
			BaseModel:   models.BaseModel{ID: 2},
			Name:        "الحلقة الثانية",
			Teacher:     models.Teacher{Name: "محمد علي", Email: "mohammed@example.com", Phone: "+966507654321"},
			DivisionID:  1,
			MaxStudents: 12,
		},
		{
			BaseModel:   models.BaseModel{ID: 3},
			Name:        "حلقة المتوسطين أ",
			Teacher:     models.Teacher{Name: "عبدالله أحمد", Email: "abdullah@example.com", Phone: "+966509876543"},
			DivisionID:  2,
			MaxStudents: 20,
		},
	}
	if err := database.DB.Create(&rooms).Error; err != nil {
		log.Println("Failed to seed school rooms:", err)
	}
}

// SeedStudents seeds the students table and the room counters
func SeedStudents() {
	var count int64
	database.DB.Model(&models.Student{}).Count(&count)
	if count > 0 {
		log.Println("Students already seeded, skipping...")
		return
	}

	students := []models.Student{
		{
			BaseModel:       models.BaseModel{ID: 1},
			Name:            "عبدالرحمن أحمد",
			Birthday:        "2010",
			FatherName:      "أحمد محمد",
			Phone:           "+966501111111",
			FatherPhone:     "+966502222222",
			MotherPhone:     "+966503333333",
			SchoolRoomID:    1,
			JoinDate:        time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
			LatestQuranPart: "جزء عم",
		},
		{
			BaseModel:       models.BaseModel{ID: 2},
			Name:            "محمد عبدالله",
			Birthday:        "2009",
			FatherName:      "عبدالله علي",
			Phone:           "+966504444444",
			FatherPhone:     "+966505555555",
			SchoolRoomID:    1,
			JoinDate:        time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
			LatestQuranPart: "جزء تبارك",
		},
		{
			BaseModel:       models.BaseModel{ID: 3},
			Name:            "يوسف محمد",
			Birthday:        "2008",
			FatherName:      "محمد يوسف",
			Phone:           "+966506666666",
			FatherPhone:     "+966507777777",
			MotherPhone:     "+966508888888",
			SchoolRoomID:    3,
			JoinDate:        time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC),
			LatestQuranPart: "جزء 1",
		},
	}
	if err := database.DB.Create(&students).Error; err != nil {
		log.Println("Failed to seed students:", err)
		return
	}

	// Keep the denormalized room counters in line with the seeded students.
	counters := map[uint]int{}
	for _, s := range students {
		counters[s.SchoolRoomID]++
	}
	for roomID, n := range counters {
		database.DB.Model(&models.SchoolRoom{}).Where("id = ?", roomID).
			Update("current_students", n)
	}
}

// SeedSessions seeds a couple of recorded sessions
func SeedSessions() {
	var count int64
	database.DB.Model(&models.Session{}).Count(&count)
	if count > 0 {
		log.Println("Sessions already seeded, skipping...")
		return
	}

	sessions := []models.Session{
		{
			BaseModel:    models.BaseModel{ID: 1},
			DivisionID:   1,
			SchoolRoomID: 1,
			Date:         "2024-12-20",
			Topic:        "مراجعة سورة النبأ",
			Attendance:   models.AttendanceMap{1: true, 2: false},
			QuranRecitation: models.RecitationMap{
				1: {RecitedText: "سورة النبأ كاملة", PagesCount: 2, Evaluation: models.EvaluationGood},
			},
			BookReading: models.ReadingMap{
				1: {BookNames: "رياض الصالحين", PagesCount: 5, WithSummary: true},
			},
		},
		{
			BaseModel:       models.BaseModel{ID: 2},
			DivisionID:      2,
			SchoolRoomID:    3,
			Date:            "2024-12-21",
			Topic:           "تسميع جزء تبارك",
			Attendance:      models.AttendanceMap{3: true},
			QuranRecitation: models.RecitationMap{},
			BookReading:     models.ReadingMap{},
		},
	}
	if err := database.DB.Create(&sessions).Error; err != nil {
		log.Println("Failed to seed sessions:", err)
	}
}
