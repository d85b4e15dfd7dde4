package models

// SlotOccupancy занятость одного слота
type SlotOccupancy struct {
	SlotID          int64 `json:"slotId"`
	MaxParticipants int   `json:"maxParticipants"`
	Occupied        int   `json:"occupied"`
	SpotsLeft       int   `json:"spotsLeft"`
}

// SlotOccupancyList занятость набора слотов
type SlotOccupancyList struct {
	Slots []SlotOccupancy `json:"slots"`
}
