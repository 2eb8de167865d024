package controllers

import (
	"testing"

	"madrasa_go/models"
	"madrasa_go/services"
)

func TestParseIDList(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []uint
		wantErr bool
	}{
		{"empty", "", nil, false},
		{"single", "5", []uint{5}, false},
		{"multiple", "1,2,3", []uint{1, 2, 3}, false},
		{"spaces", " 1 , 2 ", []uint{1, 2}, false},
		{"trailing comma", "1,2,", []uint{1, 2}, false},
		{"not a number", "1,abc", nil, true},
		{"negative", "-1", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseIDList(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("got %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestBuildAnalyticsWorkbook(t *testing.T) {
	result := services.AnalyticsResult{
		DivisionStats: []services.DivisionStat{
			{
				Division: models.Division{Name: "القسم الأول"},
				StatRecord: services.StatRecord{
					SessionsCount: 4,
					Attendance:    services.AttendanceStat{Total: 40, Present: 30, Rate: 75},
				},
			},
		},
		RoomStats: []services.RoomStat{
			{
				Room: models.SchoolRoom{Name: "حلقة النور"},
				StatRecord: services.StatRecord{
					SessionsCount: 2,
					Quran:         services.VolumeStat{Entries: 3, Pages: 12, Average: 4},
				},
			},
		},
		StudentStats: []services.StudentStat{
			{
				Student: models.Student{Name: "أحمد"},
				StatRecord: services.StatRecord{
					SessionsCount: 2,
					Books:         services.VolumeStat{Entries: 1, Pages: 5, Average: 5},
				},
			},
		},
	}

	f, err := buildAnalyticsWorkbook(result)
	if err != nil {
		t.Fatalf("buildAnalyticsWorkbook() error = %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	wantSheets := map[string]bool{"Divisions": false, "Rooms": false, "Students": false}
	for _, name := range sheets {
		if name == "Sheet1" {
			t.Error("default Sheet1 should be removed")
		}
		if _, ok := wantSheets[name]; ok {
			wantSheets[name] = true
		}
	}
	for name, found := range wantSheets {
		if !found {
			t.Errorf("sheet %q missing from workbook", name)
		}
	}

	checks := []struct {
		sheet, cell, want string
	}{
		{"Divisions", "A1", "Name"},
		{"Divisions", "A2", "القسم الأول"},
		{"Divisions", "B2", "4"},
		{"Divisions", "E2", "75"},
		{"Rooms", "A2", "حلقة النور"},
		{"Rooms", "G2", "12"},
		{"Students", "A2", "أحمد"},
		{"Students", "J2", "5"},
	}
	for _, check := range checks {
		got, err := f.GetCellValue(check.sheet, check.cell)
		if err != nil {
			t.Fatalf("GetCellValue(%s!%s) error = %v", check.sheet, check.cell, err)
		}
		if got != check.want {
			t.Errorf("%s!%s = %q, want %q", check.sheet, check.cell, got, check.want)
		}
	}
}
