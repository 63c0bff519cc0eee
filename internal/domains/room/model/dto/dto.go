package dto

import (
	"tably/internal/domains/room/model"
	"tably/shared"
	gDto "tably/shared/dto"
	gModel "tably/shared/model"
	"time"

	"github.com/google/uuid"
)

type CreateRoomRequest struct {
	Name        string  `json:"name"         validate:"required,max=100"`
	Location    string  `json:"location"     validate:"omitempty,max=200"`
	NightlyRate float64 `json:"nightly_rate" validate:"required,min=0"`
}

func (c *CreateRoomRequest) ToModel(ownerID string, now time.Time) model.Room {
	return model.Room{
		ID:          uuid.NewString(),
		Name:        c.Name,
		Location:    c.Location,
		OwnerID:     ownerID,
		NightlyRate: c.NightlyRate,
		Active:      true,
		Metadata:    gModel.NewMetadata(now, ownerID),
	}
}

type UpdateRoomRequest struct {
	Name        string  `db:"name"         json:"name"         validate:"omitempty,max=100"`
	Location    string  `db:"location"     json:"location"     validate:"omitempty,max=200"`
	NightlyRate float64 `db:"nightly_rate" json:"nightly_rate" validate:"omitempty,min=0"`
}

type RoomResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Location    string  `json:"location"`
	OwnerID     string  `json:"owner_id"`
	NightlyRate float64 `json:"nightly_rate"`
	Active      bool    `json:"active"`
	gDto.Metadata
}

func (r *RoomResponse) FromModel(model model.Room) {
	r.ID = model.ID
	r.Name = model.Name
	r.Location = model.Location
	r.OwnerID = model.OwnerID
	r.NightlyRate = model.NightlyRate
	r.Active = model.Active
	r.Metadata.FromModel(model.Metadata)
}

type GetRoomsResponse struct {
	Rooms     []RoomResponse `json:"rooms"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

func (r *GetRoomsResponse) FromModels(models []model.Room, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Rooms = make([]RoomResponse, len(models))
	for i, mod := range models {
		r.Rooms[i].FromModel(mod)
	}
}
