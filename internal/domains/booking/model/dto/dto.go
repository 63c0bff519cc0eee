package dto

import (
	"fmt"
	"tably/internal/domains/booking/model"
	"tably/shared"
	"tably/shared/constant"
	gDto "tably/shared/dto"
	gModel "tably/shared/model"
	"time"

	"github.com/google/uuid"
)

// CreateRoomBookingRequest books a room for a range of nights. Dates are
// date-only; the window is the half-open [check-in, check-out).
type CreateRoomBookingRequest struct {
	RoomID       string `json:"room_id"        validate:"required"`
	CheckInDate  string `json:"check_in_date"  validate:"required"`
	CheckOutDate string `json:"check_out_date" validate:"required"`
	GuestCount   int    `json:"guest_count"    validate:"omitempty,min=1"`
}

func (c *CreateRoomBookingRequest) ToModel(requesterID string, now time.Time) (model.Booking, error) {
	checkIn, err := time.Parse(constant.DateOnlyFormat, c.CheckInDate)
	if err != nil {
		return model.Booking{}, fmt.Errorf("invalid check_in_date: %w", err)
	}

	checkOut, err := time.Parse(constant.DateOnlyFormat, c.CheckOutDate)
	if err != nil {
		return model.Booking{}, fmt.Errorf("invalid check_out_date: %w", err)
	}

	guests := c.GuestCount
	if guests == 0 {
		guests = 1
	}

	return model.Booking{
		ID:           uuid.NewString(),
		ResourceType: model.ResourceRoom,
		ResourceID:   c.RoomID,
		RequesterID:  requesterID,
		WindowStart:  checkIn,
		WindowEnd:    checkOut,
		GuestCount:   guests,
		Status:       model.StatusConfirmed,
		Metadata:     gModel.NewMetadata(now, requesterID),
	}, nil
}

// CreateTableBookingRequest reserves seats at a restaurant for one slot.
// The slot length comes from the restaurant, so only the start is given.
type CreateTableBookingRequest struct {
	RestaurantID string `json:"restaurant_id" validate:"required"`
	Date         string `json:"date"          validate:"required"`
	StartTime    string `json:"start_time"    validate:"required"`
	GuestCount   int    `json:"guest_count"   validate:"required,min=1"`
}

func (c *CreateTableBookingRequest) ToModel(requesterID string, slotMinutes int, now time.Time) (model.Booking, error) {
	date, err := time.Parse(constant.DateOnlyFormat, c.Date)
	if err != nil {
		return model.Booking{}, fmt.Errorf("invalid date: %w", err)
	}

	start, err := time.Parse(constant.TimeOnlyFormat, c.StartTime)
	if err != nil {
		return model.Booking{}, fmt.Errorf("invalid start_time: %w", err)
	}

	windowStart := date.Add(time.Duration(start.Hour())*time.Hour + time.Duration(start.Minute())*time.Minute)

	return model.Booking{
		ID:           uuid.NewString(),
		ResourceType: model.ResourceTable,
		ResourceID:   c.RestaurantID,
		RequesterID:  requesterID,
		WindowStart:  windowStart,
		WindowEnd:    windowStart.Add(time.Duration(slotMinutes) * time.Minute),
		GuestCount:   c.GuestCount,
		Status:       model.StatusConfirmed,
		Metadata:     gModel.NewMetadata(now, requesterID),
	}, nil
}

type BookingResponse struct {
	ID           string `json:"id"`
	ResourceType string `json:"resource_type"`
	ResourceID   string `json:"resource_id"`
	RequesterID  string `json:"requester_id"`
	WindowStart  string `json:"window_start"`
	WindowEnd    string `json:"window_end"`
	GuestCount   int    `json:"guest_count"`
	Status       string `json:"status"`
	gDto.Metadata
}

func (r *BookingResponse) FromModel(model model.Booking) {
	r.ID = model.ID
	r.ResourceType = string(model.ResourceType)
	r.ResourceID = model.ResourceID
	r.RequesterID = model.RequesterID
	r.WindowStart = model.WindowStart.Format(time.RFC3339)
	r.WindowEnd = model.WindowEnd.Format(time.RFC3339)
	r.GuestCount = model.GuestCount
	r.Status = string(model.Status)
	r.Metadata.FromModel(model.Metadata)
}

type GetBookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetBookingsResponse) FromModels(models []model.Booking, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Bookings = make([]BookingResponse, len(models))
	for i, mod := range models {
		r.Bookings[i].FromModel(mod)
	}
}
