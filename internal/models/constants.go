package models

const (
	OrderStatusPlaced    = "placed"
	OrderStatusPreparing = "preparing"
	OrderStatusReady     = "ready"
	OrderStatusServed    = "served"
	OrderStatusCompleted = "completed"
	OrderStatusCancelled = "cancelled"

	// DateLayout is the calendar date format used in requests, labels and the
	// rendered document.
	DateLayout = "2006-01-02"

	// TimestampLayout is the "generated at" format of the rendered document.
	TimestampLayout = "2006-01-02 15:04"

	// FileStampLayout has second granularity and is part of report filenames.
	FileStampLayout = "20060102150405"

	// TopDishesLimit caps the ranked dish series.
	TopDishesLimit = 10
)
