package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/inverland/estate-crm/internal/api/metrics"
	"github.com/inverland/estate-crm/internal/core/domain"
	"github.com/inverland/estate-crm/internal/core/ports"
)

type PropertyHandler struct {
	properties ports.PropertyService
}

func NewPropertyHandler(properties ports.PropertyService) *PropertyHandler {
	return &PropertyHandler{properties: properties}
}

func parsePropertyFilter(c echo.Context) ports.PropertyFilter {
	f := ports.PropertyFilter{
		Type:          c.QueryParam("type"),
		OperationType: c.QueryParam("operation_type"),
		Location:      c.QueryParam("location"),
		AgentID:       c.QueryParam("agent_id"),
	}
	f.MinPrice, _ = strconv.ParseFloat(c.QueryParam("min_price"), 64)
	f.MaxPrice, _ = strconv.ParseFloat(c.QueryParam("max_price"), 64)
	f.Bedrooms, _ = strconv.Atoi(c.QueryParam("bedrooms"))
	f.Bathrooms, _ = strconv.Atoi(c.QueryParam("bathrooms"))
	f.Page, _ = strconv.Atoi(c.QueryParam("page"))
	f.Limit, _ = strconv.Atoi(c.QueryParam("limit"))
	if raw := c.QueryParam("amenities"); raw != "" {
		for _, a := range strings.Split(raw, ",") {
			if a = strings.TrimSpace(a); a != "" {
				f.Amenities = append(f.Amenities, a)
			}
		}
	}
	return f
}

// publicView strips internal and location-sensitive fields from a listing
// before it leaves through the unauthenticated catalog routes.
func publicView(p *domain.Property) *domain.Property {
	v := *p
	v.AgentID = ""
	v.ClientID = ""
	v.ActivityLog = nil
	if !v.ShowExactLocation {
		v.Address.Street = ""
		v.Address.StreetNumber = ""
		v.Address.InteriorNumber = ""
		v.Location = domain.Coordinates{}
	}
	if !v.ShowPrice {
		v.Price = 0
		v.RentPrice = 0
	}
	return &v
}

// PublicList serves the catalog with filters and pagination.
//
// @Summary      Browse listings
// @Tags         catalog
// @Produce      json
// @Param        type            query  string  false  "Property type"
// @Param        operation_type  query  string  false  "Venta, Renta or Renta temporal"
// @Param        location        query  string  false  "City, state or neighborhood substring"
// @Param        min_price       query  number  false  "Minimum price"
// @Param        max_price       query  number  false  "Maximum price"
// @Param        bedrooms        query  int     false  "Minimum bedrooms"
// @Param        bathrooms       query  int     false  "Minimum bathrooms"
// @Param        amenities       query  string  false  "Comma-separated amenity list"
// @Param        page            query  int     false  "Page number"
// @Param        limit           query  int     false  "Page size, capped at 100"
// @Success      200  {object}  propertyPageResponse
// @Router       /properties [get]
func (h *PropertyHandler) PublicList(c echo.Context) error {
	page, err := h.properties.List(c.Request().Context(), parsePropertyFilter(c))
	if err != nil {
		return err
	}
	items := make([]*domain.Property, 0, len(page.Items))
	for _, p := range page.Items {
		items = append(items, publicView(p))
	}
	return c.JSON(http.StatusOK, propertyPageResponse{
		Items:      items,
		Total:      page.Total,
		Page:       page.Page,
		Limit:      page.Limit,
		TotalPages: page.TotalPages,
	})
}

// PublicGet serves one listing from the catalog.
//
// @Summary      Get a listing
// @Tags         catalog
// @Produce      json
// @Param        id  path  string  true  "Property ID"
// @Success      200  {object}  domain.Property
// @Failure      404  {object}  errorResponse
// @Router       /properties/{id} [get]
func (h *PropertyHandler) PublicGet(c echo.Context) error {
	p, err := h.properties.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, publicView(p))
}

// List serves the back-office view of the collection, unredacted.
//
// @Summary      List properties
// @Tags         properties
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  propertyPageResponse
// @Failure      401  {object}  errorResponse
// @Router       /v1/properties [get]
func (h *PropertyHandler) List(c echo.Context) error {
	page, err := h.properties.List(c.Request().Context(), parsePropertyFilter(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, propertyPageResponse{
		Items:      page.Items,
		Total:      page.Total,
		Page:       page.Page,
		Limit:      page.Limit,
		TotalPages: page.TotalPages,
	})
}

// Get returns one property with its activity log.
//
// @Summary      Get a property
// @Tags         properties
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Property ID"
// @Success      200  {object}  domain.Property
// @Failure      404  {object}  errorResponse
// @Router       /v1/properties/{id} [get]
func (h *PropertyHandler) Get(c echo.Context) error {
	p, err := h.properties.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

// Create adds a listing.
//
// @Summary      Create a property
// @Tags         properties
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      propertyRequest  true  "Listing"
// @Success      201   {object}  domain.Property
// @Failure      400   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/properties [post]
func (h *PropertyHandler) Create(c echo.Context) error {
	var req propertyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	p, err := h.properties.Create(c.Request().Context(), req.toDomain())
	if err != nil {
		return err
	}
	metrics.PropertiesCreatedTotal.WithLabelValues(p.OperationType).Inc()
	return c.JSON(http.StatusCreated, p)
}

// Update replaces a listing's editable fields.
//
// @Summary      Update a property
// @Tags         properties
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string           true  "Property ID"
// @Param        body  body      propertyRequest  true  "Listing"
// @Success      200   {object}  domain.Property
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/properties/{id} [put]
func (h *PropertyHandler) Update(c echo.Context) error {
	var req propertyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	p := req.toDomain()
	p.ID = c.Param("id")
	updated, err := h.properties.Update(c.Request().Context(), p)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updated)
}

// Delete removes a listing.
//
// @Summary      Delete a property
// @Tags         properties
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Property ID"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Router       /v1/properties/{id} [delete]
func (h *PropertyHandler) Delete(c echo.Context) error {
	if err := h.properties.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// AssignToAgent sets the full portfolio of an agent in one call. Properties
// the agent held that are absent from the list are unassigned.
//
// @Summary      Assign properties to an agent
// @Tags         properties
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  assignPropertiesRequest  true  "Agent and property IDs"
// @Success      204
// @Failure      400  {object}  errorResponse
// @Router       /v1/properties/assign [post]
func (h *PropertyHandler) AssignToAgent(c echo.Context) error {
	var req assignPropertiesRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.properties.AssignToAgent(c.Request().Context(), req.AgentID, req.PropertyIDs); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// AssignClient links a client to a property. An empty client_id unlinks.
//
// @Summary      Link a client to a property
// @Tags         properties
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string               true  "Property ID"
// @Param        body  body  assignClientRequest  true  "Client ID, empty to unlink"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Router       /v1/properties/{id}/client [put]
func (h *PropertyHandler) AssignClient(c echo.Context) error {
	var req assignClientRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := h.properties.AssignClient(c.Request().Context(), c.Param("id"), req.ClientID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// AddActivity appends an entry to a property's activity log. The actor is
// taken from the authenticated session, not the payload.
//
// @Summary      Log property activity
// @Tags         properties
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string           true  "Property ID"
// @Param        body  body      activityRequest  true  "Activity"
// @Success      201   {object}  domain.ActivityEntry
// @Failure      404   {object}  errorResponse
// @Router       /v1/properties/{id}/activities [post]
func (h *PropertyHandler) AddActivity(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	var req activityRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	entry, err := h.properties.AddActivity(c.Request().Context(), c.Param("id"), ports.ActivityInput{
		Type:        req.Type,
		Description: req.Description,
		Actor:       actor.Username,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, entry)
}
