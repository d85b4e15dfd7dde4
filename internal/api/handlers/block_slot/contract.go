package block_slot

import "context"

type SlotsService interface {
	Block(ctx context.Context, id int64, adminID int64, reason *string) error
	Unblock(ctx context.Context, id int64) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
