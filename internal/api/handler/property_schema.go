package handler

import (
	"github.com/inverland/estate-crm/internal/core/domain"
)

type addressRequest struct {
	Country        string `json:"country"`
	State          string `json:"state" validate:"required"`
	City           string `json:"city" validate:"required"`
	Neighborhood   string `json:"neighborhood"`
	Street         string `json:"street"`
	StreetNumber   string `json:"street_number"`
	InteriorNumber string `json:"interior_number"`
	ZipCode        string `json:"zip_code"`
}

type coordinatesRequest struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type propertyRequest struct {
	Title             string             `json:"title" validate:"required"`
	Description       string             `json:"description"`
	Type              string             `json:"type" validate:"required"`
	OperationType     string             `json:"operation_type" validate:"required,oneof=Venta Renta 'Renta temporal'"`
	Price             float64            `json:"price" validate:"gte=0"`
	RentPrice         float64            `json:"rent_price" validate:"gte=0"`
	ShowPrice         bool               `json:"show_price"`
	Bedrooms          int                `json:"bedrooms" validate:"gte=0"`
	Bathrooms         int                `json:"bathrooms" validate:"gte=0"`
	HalfBathrooms     int                `json:"half_bathrooms" validate:"gte=0"`
	ParkingSpaces     int                `json:"parking_spaces" validate:"gte=0"`
	ConstructionArea  float64            `json:"construction_area" validate:"gte=0"`
	LandArea          float64            `json:"land_area" validate:"gte=0"`
	MaintenanceFee    float64            `json:"maintenance_fee" validate:"gte=0"`
	Address           addressRequest     `json:"address"`
	Location          coordinatesRequest `json:"location"`
	ShowExactLocation bool               `json:"show_exact_location"`
	Amenities         []string           `json:"amenities"`
	Images            []string           `json:"images"`
	Videos            []string           `json:"videos"`
	MainPhotoIndex    int                `json:"main_photo_index" validate:"gte=0"`
	Status            string             `json:"status"`
	AgentID           string             `json:"agent_id"`
	ClientID          string             `json:"client_id"`
}

func (r *propertyRequest) toDomain() *domain.Property {
	return &domain.Property{
		Title:            r.Title,
		Description:      r.Description,
		Type:             r.Type,
		OperationType:    r.OperationType,
		Price:            r.Price,
		RentPrice:        r.RentPrice,
		ShowPrice:        r.ShowPrice,
		Bedrooms:         r.Bedrooms,
		Bathrooms:        r.Bathrooms,
		HalfBathrooms:    r.HalfBathrooms,
		ParkingSpaces:    r.ParkingSpaces,
		ConstructionArea: r.ConstructionArea,
		LandArea:         r.LandArea,
		MaintenanceFee:   r.MaintenanceFee,
		Address: domain.Address{
			Country:        r.Address.Country,
			State:          r.Address.State,
			City:           r.Address.City,
			Neighborhood:   r.Address.Neighborhood,
			Street:         r.Address.Street,
			StreetNumber:   r.Address.StreetNumber,
			InteriorNumber: r.Address.InteriorNumber,
			ZipCode:        r.Address.ZipCode,
		},
		Location:          domain.Coordinates{Lat: r.Location.Lat, Lng: r.Location.Lng},
		ShowExactLocation: r.ShowExactLocation,
		Amenities:         r.Amenities,
		Images:            r.Images,
		Videos:            r.Videos,
		MainPhotoIndex:    r.MainPhotoIndex,
		Status:            r.Status,
		AgentID:           r.AgentID,
		ClientID:          r.ClientID,
	}
}

type assignPropertiesRequest struct {
	AgentID     string   `json:"agent_id" validate:"required"`
	PropertyIDs []string `json:"property_ids"`
}

type assignClientRequest struct {
	ClientID string `json:"client_id"`
}

type activityRequest struct {
	Type        string `json:"type" validate:"required"`
	Description string `json:"description" validate:"required"`
}

type propertyPageResponse struct {
	Items      []*domain.Property `json:"items"`
	Total      int                `json:"total"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
	TotalPages int                `json:"total_pages"`
}
