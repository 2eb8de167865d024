package controllers

import (
	"reflect"
	"testing"

	"madrasa_go/models"
)

func TestCreateCounterDeltas(t *testing.T) {
	got := createCounterDeltas(7)
	want := []roomCounterDelta{{RoomID: 7, Delta: 1}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("createCounterDeltas(7) = %v, want %v", got, want)
	}
}

func TestTransferCounterDeltas(t *testing.T) {
	tests := []struct {
		name      string
		student   models.Student
		newRoomID uint
		want      []roomCounterDelta
	}{
		{
			name:      "active student moves rooms",
			student:   models.Student{SchoolRoomID: 1, Archived: false},
			newRoomID: 2,
			want: []roomCounterDelta{
				{RoomID: 1, Delta: -1},
				{RoomID: 2, Delta: 1},
			},
		},
		{
			name:      "archived student moves rooms",
			student:   models.Student{SchoolRoomID: 1, Archived: true},
			newRoomID: 2,
			want:      nil,
		},
		{
			name:      "same room",
			student:   models.Student{SchoolRoomID: 1, Archived: false},
			newRoomID: 1,
			want:      nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := transferCounterDeltas(tt.student, tt.newRoomID)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("transferCounterDeltas() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestArchiveToggleCounterDeltas(t *testing.T) {
	tests := []struct {
		name     string
		student  models.Student
		archived bool
		want     []roomCounterDelta
	}{
		{
			name:     "archive active student",
			student:  models.Student{SchoolRoomID: 3, Archived: false},
			archived: true,
			want:     []roomCounterDelta{{RoomID: 3, Delta: -1}},
		},
		{
			name:     "restore archived student",
			student:  models.Student{SchoolRoomID: 3, Archived: true},
			archived: false,
			want:     []roomCounterDelta{{RoomID: 3, Delta: 1}},
		},
		{
			name:     "archive already archived student",
			student:  models.Student{SchoolRoomID: 3, Archived: true},
			archived: true,
			want:     nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := archiveToggleCounterDeltas(tt.student, tt.archived)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("archiveToggleCounterDeltas() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDeleteCounterDeltas(t *testing.T) {
	active := deleteCounterDeltas(models.Student{SchoolRoomID: 5, Archived: false})
	if want := []roomCounterDelta{{RoomID: 5, Delta: -1}}; !reflect.DeepEqual(active, want) {
		t.Errorf("deleteCounterDeltas(active) = %v, want %v", active, want)
	}
	if got := deleteCounterDeltas(models.Student{SchoolRoomID: 5, Archived: true}); got != nil {
		t.Errorf("deleteCounterDeltas(archived) = %v, want nil", got)
	}
}
