// internal/handlers/search.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/medlocator/internal/geo"
	"github.com/javajoker/medlocator/internal/i18n"
	"github.com/javajoker/medlocator/internal/models"
	"github.com/javajoker/medlocator/internal/search"
	"github.com/javajoker/medlocator/internal/services"
	"github.com/javajoker/medlocator/internal/utils"
)

type SearchHandler struct {
	engine        *search.Engine
	searchLog     *services.SearchLogService
	defaultRadius float64
}

func NewSearchHandler(engine *search.Engine, searchLog *services.SearchLogService, defaultRadiusKm float64) *SearchHandler {
	return &SearchHandler{
		engine:        engine,
		searchLog:     searchLog,
		defaultRadius: defaultRadiusKm,
	}
}

// GET /search/medicines?q=&lat=&lng=&radius=&request_id=
func (h *SearchHandler) SearchMedicines(c *gin.Context) {
	req := search.Request{
		RequestID: c.Query("request_id"),
		Query:     c.Query("q"),
		RadiusKm:  h.defaultRadius,
	}
	if req.RequestID == "" {
		req.RequestID = c.GetString(utils.ContextRequestID)
	}

	origin, originErr := parseOrigin(c.Query("lat"), c.Query("lng"))
	if originErr != nil {
		h.invalid(c, originErr)
		return
	}
	req.Origin = origin

	if raw := c.Query("radius"); raw != "" {
		radius, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			h.invalid(c, &search.ValidationError{Field: "radius", Message: "must be a number"})
			return
		}
		req.RadiusKm = radius
	}

	resp, err := h.engine.Search(c.Request.Context(), req)
	if err != nil {
		var validationErr *search.ValidationError
		if errors.As(err, &validationErr) {
			h.invalid(c, validationErr)
			return
		}

		lang := utils.GetLangFromContext(c)
		key := i18n.KeySearchUnavailable
		var retrievalErr *search.RetrievalError
		if errors.As(err, &retrievalErr) && retrievalErr.Timeout() {
			key = i18n.KeySearchTimeout
		}
		logrus.WithError(err).WithField("request_id", req.RequestID).Error("Medicine search failed")
		utils.ErrorResponse(c, http.StatusServiceUnavailable, "SEARCH_UNAVAILABLE", i18n.T(lang, key),
			gin.H{"request_id": req.RequestID})
		return
	}

	h.record(c, req, resp)
	utils.SuccessResponse(c, resp)
}

func (h *SearchHandler) invalid(c *gin.Context, err *search.ValidationError) {
	lang := utils.GetLangFromContext(c)
	utils.ErrorResponse(c, http.StatusBadRequest, "VALIDATION_ERROR", i18n.T(lang, i18n.KeySearchInvalid, err.Error()),
		[]utils.ValidationError{{Field: err.Field, Tag: "invalid", Message: err.Message}})
}

func (h *SearchHandler) record(c *gin.Context, req search.Request, resp *search.Response) {
	if h.searchLog == nil {
		return
	}
	entry := &models.SearchLog{
		RequestID:      resp.RequestID,
		Query:          resp.Query,
		OriginFallback: resp.OriginFallback,
		RadiusKm:       resp.RadiusKm,
		ResultCount:    resp.Count,
	}
	if req.Origin != nil {
		entry.OriginLat, entry.OriginLng = &req.Origin.Lat, &req.Origin.Lng
	}
	if id, ok := utils.GetProfileIDFromContext(c); ok {
		entry.ProfileID = &id
	}
	h.searchLog.Record(entry)
}

// parseOrigin accepts both coordinates or neither.
func parseOrigin(rawLat, rawLng string) (*geo.Point, *search.ValidationError) {
	if rawLat == "" && rawLng == "" {
		return nil, nil
	}
	if rawLat == "" || rawLng == "" {
		return nil, &search.ValidationError{Field: "origin", Message: "lat and lng must be provided together"}
	}
	lat, err := strconv.ParseFloat(rawLat, 64)
	if err != nil {
		return nil, &search.ValidationError{Field: "origin", Message: "lat must be a number"}
	}
	lng, err := strconv.ParseFloat(rawLng, 64)
	if err != nil {
		return nil, &search.ValidationError{Field: "origin", Message: "lng must be a number"}
	}
	return &geo.Point{Lat: lat, Lng: lng}, nil
}
