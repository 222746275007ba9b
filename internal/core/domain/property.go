package domain

import (
	"errors"
	"time"
)

const (
	OperationSale      = "Venta"
	OperationRent      = "Renta"
	OperationShortRent = "Renta temporal"
)

var ErrPropertyNotFound = errors.New("property not found")
var ErrClientNotFound = errors.New("client not found")
var ErrInvalidMainPhoto = errors.New("main photo index out of range")

// Address holds the physical location fields of a listing. Street-level detail
// is hidden from public responses when ShowExactLocation is false.
type Address struct {
	Country        string `json:"country" bson:"country"`
	State          string `json:"state" bson:"state"`
	City           string `json:"city" bson:"city"`
	Neighborhood   string `json:"neighborhood" bson:"neighborhood"`
	Street         string `json:"street" bson:"street"`
	StreetNumber   string `json:"street_number" bson:"street_number"`
	InteriorNumber string `json:"interior_number,omitempty" bson:"interior_number,omitempty"`
	ZipCode        string `json:"zip_code" bson:"zip_code"`
}

// Coordinates represents a geographic point for the map view.
type Coordinates struct {
	Lat float64 `json:"lat" bson:"lat"`
	Lng float64 `json:"lng" bson:"lng"`
}

// Property is the listing aggregate root.
type Property struct {
	ID                string          `json:"id" bson:"_id,omitempty"`
	Title             string          `json:"title" bson:"title"`
	Description       string          `json:"description" bson:"description"`
	Type              string          `json:"type" bson:"type"`
	OperationType     string          `json:"operation_type" bson:"operation_type"`
	Price             float64         `json:"price" bson:"price"`
	RentPrice         float64         `json:"rent_price,omitempty" bson:"rent_price,omitempty"`
	ShowPrice         bool            `json:"show_price" bson:"show_price"`
	Bedrooms          int             `json:"bedrooms" bson:"bedrooms"`
	Bathrooms         int             `json:"bathrooms" bson:"bathrooms"`
	HalfBathrooms     int             `json:"half_bathrooms,omitempty" bson:"half_bathrooms,omitempty"`
	ParkingSpaces     int             `json:"parking_spaces,omitempty" bson:"parking_spaces,omitempty"`
	ConstructionArea  float64         `json:"construction_area,omitempty" bson:"construction_area,omitempty"`
	LandArea          float64         `json:"land_area,omitempty" bson:"land_area,omitempty"`
	MaintenanceFee    float64         `json:"maintenance_fee,omitempty" bson:"maintenance_fee,omitempty"`
	Address           Address         `json:"address" bson:"address"`
	Location          Coordinates     `json:"location" bson:"location"`
	ShowExactLocation bool            `json:"show_exact_location" bson:"show_exact_location"`
	Amenities         []string        `json:"amenities" bson:"amenities"`
	Images            []string        `json:"images" bson:"images"`
	Videos            []string        `json:"videos,omitempty" bson:"videos,omitempty"`
	MainPhotoIndex    int             `json:"main_photo_index" bson:"main_photo_index"`
	Status            string          `json:"status" bson:"status"`
	AgentID           string          `json:"agent_id,omitempty" bson:"agent_id,omitempty"`
	ClientID          string          `json:"client_id,omitempty" bson:"client_id,omitempty"`
	ActivityLog       []ActivityEntry `json:"activity_log" bson:"activity_log"`
	CreatedAt         time.Time       `json:"created_at" bson:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at" bson:"updated_at"`
}

// Validate checks listing invariants that hold on create and update.
func (p *Property) Validate() error {
	if len(p.Images) > 0 && (p.MainPhotoIndex < 0 || p.MainPhotoIndex >= len(p.Images)) {
		return ErrInvalidMainPhoto
	}
	return nil
}

// HasAmenities reports whether the property carries every requested amenity.
func (p *Property) HasAmenities(wanted []string) bool {
	for _, w := range wanted {
		found := false
		for _, a := range p.Amenities {
			if a == w {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
