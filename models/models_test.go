package models

import (
	"testing"
)

func TestAttendanceMapRoundTrip(t *testing.T) {
	original := AttendanceMap{1: true, 2: false}

	value, err := original.Value()
	if err != nil {
		t.Fatalf("Value: %v", err)
	}

	var decoded AttendanceMap
	if err := decoded.Scan(value); err != nil {
		t.Fatalf("Scan: %v", err)
	}

	if len(decoded) != 2 || !decoded[1] || decoded[2] {
		t.Errorf("decoded = %v, want %v", decoded, original)
	}
	if _, ok := decoded[3]; ok {
		t.Error("missing student must stay missing after a round trip")
	}
}

func TestRecitationMapRoundTrip(t *testing.T) {
	original := RecitationMap{
		7: {RecitedText: "سورة النبأ", PagesCount: 2, Evaluation: EvaluationGood},
	}

	value, err := original.Value()
	if err != nil {
		t.Fatalf("Value: %v", err)
	}

	var decoded RecitationMap
	if err := decoded.Scan(value); err != nil {
		t.Fatalf("Scan: %v", err)
	}

	entry, ok := decoded[7]
	if !ok {
		t.Fatal("entry for student 7 missing after round trip")
	}
	if entry.RecitedText != "سورة النبأ" || entry.PagesCount != 2 || entry.Evaluation != EvaluationGood {
		t.Errorf("decoded entry = %+v", entry)
	}
}

func TestReadingMapScanFromBytes(t *testing.T) {
	raw := []byte(`{"3":{"book_names":"رياض الصالحين","pages_count":5,"with_summary":true}}`)

	var decoded ReadingMap
	if err := decoded.Scan(raw); err != nil {
		t.Fatalf("Scan: %v", err)
	}

	entry := decoded[3]
	if entry.BookNames != "رياض الصالحين" || entry.PagesCount != 5 || !entry.WithSummary {
		t.Errorf("decoded entry = %+v", entry)
	}
}

func TestMapScanNilAndEmpty(t *testing.T) {
	var m AttendanceMap
	if err := m.Scan(nil); err != nil {
		t.Errorf("nil scan: %v", err)
	}
	if err := m.Scan([]byte{}); err != nil {
		t.Errorf("empty scan: %v", err)
	}
	if err := m.Scan(42); err == nil {
		t.Error("unsupported column type must fail")
	}
}
