package domain

import "time"

type Vehicle struct {
	ID             int64      `json:"id"`
	LicensePlate   string     `json:"licensePlate"`
	VehicleType    string     `json:"vehicleType"`
	Model          string     `json:"model"`
	Year           *int32     `json:"year"`
	Status         string     `json:"status"`
	LastInspection *time.Time `json:"lastInspection"`
	NextInspection *time.Time `json:"nextInspection"`
	Notes          *string    `json:"notes,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}
