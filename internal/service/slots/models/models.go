package models

import (
	"errors"
	"time"

	"github.com/nextsteppro/NSP-BookingService/internal/domain"
	"github.com/nextsteppro/NSP-BookingService/pkg/types"
)

var (
	// ErrInvalidDate возвращается при некорректной дате
	ErrInvalidDate = errors.New("invalid date format")
	// ErrInvalidTime возвращается при некорректном времени
	ErrInvalidTime = errors.New("invalid time format")
)

// CreateSlotRequest запрос на создание слота
type CreateSlotRequest struct {
	Date            string  `json:"date"`
	StartTime       string  `json:"startTime"`
	EndTime         string  `json:"endTime"`
	MaxParticipants int     `json:"maxParticipants"`
	Title           *string `json:"title,omitempty"`
}

// ToDomain конвертирует request в domain слот
func (r *CreateSlotRequest) ToDomain() (*domain.TimeSlot, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, ErrInvalidDate
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, ErrInvalidTime
	}
	endTime, err := types.NewTimeStringFromString(r.EndTime)
	if err != nil {
		return nil, ErrInvalidTime
	}

	return &domain.TimeSlot{
		Date:            date,
		StartTime:       startTime,
		EndTime:         endTime,
		MaxParticipants: r.MaxParticipants,
		Title:           r.Title,
	}, nil
}

// UpdateSlotRequest запрос на изменение слота, nil поля не изменяются
type UpdateSlotRequest struct {
	Date            *string `json:"date,omitempty"`
	StartTime       *string `json:"startTime,omitempty"`
	EndTime         *string `json:"endTime,omitempty"`
	MaxParticipants *int    `json:"maxParticipants,omitempty"`
	Title           *string `json:"title,omitempty"`
}

// ApplyTo накладывает изменения на существующий слот
func (r *UpdateSlotRequest) ApplyTo(slot *domain.TimeSlot) error {
	if r.Date != nil {
		date, err := time.Parse(domain.DateFormat, *r.Date)
		if err != nil {
			return ErrInvalidDate
		}
		slot.Date = date
	}
	if r.StartTime != nil {
		startTime, err := types.NewTimeStringFromString(*r.StartTime)
		if err != nil {
			return ErrInvalidTime
		}
		slot.StartTime = startTime
	}
	if r.EndTime != nil {
		endTime, err := types.NewTimeStringFromString(*r.EndTime)
		if err != nil {
			return ErrInvalidTime
		}
		slot.EndTime = endTime
	}
	if r.MaxParticipants != nil {
		slot.MaxParticipants = *r.MaxParticipants
	}
	if r.Title != nil {
		slot.Title = r.Title
	}
	return nil
}

// BlockSlotRequest запрос на блокировку слота
type BlockSlotRequest struct {
	Reason *string `json:"reason,omitempty"`
}

// SlotResponse слот в ответе API
type SlotResponse struct {
	ID              int64   `json:"id"`
	EventID         *int64  `json:"eventId,omitempty"`
	Date            string  `json:"date"`
	StartTime       string  `json:"startTime"`
	EndTime         string  `json:"endTime"`
	MaxParticipants int     `json:"maxParticipants"`
	Title           *string `json:"title,omitempty"`
	Blocked         bool    `json:"blocked"`
	BlockReason     *string `json:"blockReason,omitempty"`
}

// FromDomainSlot конвертирует domain слот в ответ API
func FromDomainSlot(slot *domain.TimeSlot) *SlotResponse {
	return &SlotResponse{
		ID:              slot.ID,
		EventID:         slot.EventID,
		Date:            slot.Date.Format(domain.DateFormat),
		StartTime:       slot.StartTime.String(),
		EndTime:         slot.EndTime.String(),
		MaxParticipants: slot.MaxParticipants,
		Title:           slot.Title,
		Blocked:         slot.Blocked,
		BlockReason:     slot.BlockReason,
	}
}

// SlotListResponse список слотов
type SlotListResponse struct {
	Slots []SlotResponse `json:"slots"`
}

// ParticipantResponse участник слота
type ParticipantResponse struct {
	UserID       int64   `json:"userId"`
	Participants int     `json:"participants"`
	Comment      *string `json:"comment,omitempty"`
}

// ParticipantsListResponse список участников слота
type ParticipantsListResponse struct {
	SlotID       int64                 `json:"slotId"`
	Total        int                   `json:"total"`
	Participants []ParticipantResponse `json:"participants"`
}
