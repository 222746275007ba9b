package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/inverland/estate-crm/internal/api/metrics"
	"github.com/inverland/estate-crm/internal/core/domain"
	"github.com/inverland/estate-crm/internal/core/ports"
)

type CampaignHandler struct {
	campaigns ports.CampaignService
}

func NewCampaignHandler(campaigns ports.CampaignService) *CampaignHandler {
	return &CampaignHandler{campaigns: campaigns}
}

type audienceRequest struct {
	Status     []string `json:"status"`
	LeadSource []string `json:"lead_source"`
}

type campaignRequest struct {
	Name           string          `json:"name" validate:"required"`
	Subject        string          `json:"subject" validate:"required"`
	Body           string          `json:"body" validate:"required"`
	TargetAudience audienceRequest `json:"target_audience"`
}

func (r *campaignRequest) toDomain() *domain.Campaign {
	statuses := make([]domain.ClientStatus, 0, len(r.TargetAudience.Status))
	for _, s := range r.TargetAudience.Status {
		statuses = append(statuses, domain.ClientStatus(s))
	}
	return &domain.Campaign{
		Name:    r.Name,
		Subject: r.Subject,
		Body:    r.Body,
		TargetAudience: domain.Audience{
			Status:     statuses,
			LeadSource: r.TargetAudience.LeadSource,
		},
	}
}

type sendCampaignResponse struct {
	Campaign   *domain.Campaign `json:"campaign"`
	Recipients []*domain.Client `json:"recipients"`
}

// List returns every campaign.
//
// @Summary      List campaigns
// @Tags         campaigns
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Campaign
// @Failure      401  {object}  errorResponse
// @Router       /v1/campaigns [get]
func (h *CampaignHandler) List(c echo.Context) error {
	return c.JSON(http.StatusOK, h.campaigns.List(c.Request().Context()))
}

// Get returns one campaign.
//
// @Summary      Get a campaign
// @Tags         campaigns
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Campaign ID"
// @Success      200  {object}  domain.Campaign
// @Failure      404  {object}  errorResponse
// @Router       /v1/campaigns/{id} [get]
func (h *CampaignHandler) Get(c echo.Context) error {
	campaign, err := h.campaigns.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, campaign)
}

// Create adds a campaign in draft state.
//
// @Summary      Create a campaign
// @Tags         campaigns
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      campaignRequest  true  "Campaign"
// @Success      201   {object}  domain.Campaign
// @Failure      400   {object}  errorResponse
// @Router       /v1/campaigns [post]
func (h *CampaignHandler) Create(c echo.Context) error {
	var req campaignRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	campaign, err := h.campaigns.Create(c.Request().Context(), req.toDomain())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, campaign)
}

// Update modifies a draft campaign. Sent campaigns are immutable.
//
// @Summary      Update a campaign
// @Tags         campaigns
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string           true  "Campaign ID"
// @Param        body  body      campaignRequest  true  "Campaign"
// @Success      200   {object}  domain.Campaign
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /v1/campaigns/{id} [put]
func (h *CampaignHandler) Update(c echo.Context) error {
	var req campaignRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	campaign := req.toDomain()
	campaign.ID = c.Param("id")
	updated, err := h.campaigns.Update(c.Request().Context(), campaign)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updated)
}

// Delete removes a campaign.
//
// @Summary      Delete a campaign
// @Tags         campaigns
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Campaign ID"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Router       /v1/campaigns/{id} [delete]
func (h *CampaignHandler) Delete(c echo.Context) error {
	if err := h.campaigns.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Send fires a campaign at its audience. The transition to Sent happens
// exactly once; resending returns an empty recipient list.
//
// @Summary      Send a campaign
// @Tags         campaigns
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Campaign ID"
// @Success      200  {object}  sendCampaignResponse
// @Failure      401  {object}  errorResponse
// @Router       /v1/campaigns/{id}/send [post]
func (h *CampaignHandler) Send(c echo.Context) error {
	result, err := h.campaigns.Send(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	if result.Campaign != nil {
		metrics.CampaignsSentTotal.Inc()
		metrics.CampaignRecipients.Observe(float64(len(result.Recipients)))
	}
	return c.JSON(http.StatusOK, sendCampaignResponse{
		Campaign:   result.Campaign,
		Recipients: result.Recipients,
	})
}
