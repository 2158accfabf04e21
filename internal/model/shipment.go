// shipment.go
package model

import "time"

type Shipment struct {
	ID              int64     `bson:"_id" json:"id"`
	OrderNumber     string    `bson:"order_number" json:"order_number"`
	DriverName      string    `bson:"driver_name" json:"driver_name"`
	Status          Status    `bson:"status" json:"status"`
	CurrentLocation string    `bson:"current_location" json:"current_location"`
	Origin          string    `bson:"origin" json:"origin"`
	Destination     string    `bson:"destination" json:"destination"`
	UpdatedAt       time.Time `bson:"updated_at" json:"updated_at"`
}
