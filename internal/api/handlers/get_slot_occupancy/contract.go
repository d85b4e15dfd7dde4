package get_slot_occupancy

import (
	"context"

	"github.com/nextsteppro/NSP-BookingService/internal/service/capacity/models"
)

type CapacityService interface {
	SlotOccupancy(ctx context.Context, slotID int64) (*models.SlotOccupancy, error)
	BatchOccupancy(ctx context.Context, slotIDs []int64) (*models.SlotOccupancyList, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
