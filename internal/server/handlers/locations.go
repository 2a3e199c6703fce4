package handlers

import (
	"net/http"

	"github.com/pricemap-tw/pricemap/internal/server/cache"
	"github.com/pricemap-tw/pricemap/internal/server/filter"
	"github.com/pricemap-tw/pricemap/internal/server/response"
	"github.com/pricemap-tw/pricemap/pkg/logging"
	"github.com/pricemap-tw/pricemap/pkg/reconciler"
)

// HandleListLocations handles GET /api/v1/locations.
// @Summary List locations
// @Description Filter, sort and page the price directory
// @Tags locations
// @Produce json
// @Param city query string false "Exact city, or all"
// @Param category query string false "clinic, hospital, pharmacy, medical_aesthetic, or all"
// @Param q query string false "Keyword matched against district and name"
// @Param sort query string false "min, price5mg or price10mg"
// @Param order query string false "asc or desc"
// @Param limit query integer false "Maximum number of results (default: 100, max: 1000)"
// @Param offset query integer false "Result offset for pagination"
// @Success 200 {object} response.Response{data=object}
// @Failure 400 {object} response.Response{error=response.Error}
// @Failure 503 {object} response.Response{error=response.Error}
// @Router /api/v1/locations [get].
func (h *Handlers) HandleListLocations(w http.ResponseWriter, r *http.Request) {
	// Check cache
	cacheKey := cache.Key(r)
	if cached, found := h.cache.Get(cacheKey); found {
		response.OK(w, cached)
		return
	}

	f, err := filter.ParseLocationFilter(r)
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}

	res, err := h.client.View(f.Query)
	if err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Msg("Directory view failed")
		response.ErrorFromType(w, err)
		return
	}

	page := res.Page(f.Page.Offset, f.Page.Limit)
	result := map[string]any{
		"locations":      page,
		"query":          res.Query,
		"distinct_count": res.DistinctCount,
		"city_label":     reconciler.CityAlias(res.Query.City),
		"pagination": map[string]any{
			"total":  res.Len(),
			"limit":  f.Page.Limit,
			"offset": f.Page.Offset,
			"count":  len(page),
		},
	}

	// Cache result
	h.cache.Set(cacheKey, result)

	response.OK(w, result)
}

// HandleCities handles GET /api/v1/cities.
// @Summary City options
// @Description Cities present in the directory, north to south
// @Tags locations
// @Produce json
// @Success 200 {object} response.Response{data=object}
// @Router /api/v1/cities [get].
func (h *Handlers) HandleCities(w http.ResponseWriter, r *http.Request) {
	cacheKey := cache.Key(r)
	if cached, found := h.cache.Get(cacheKey); found {
		response.OK(w, cached)
		return
	}

	cities := h.client.Cities()
	options := make([]map[string]string, 0, len(cities))
	for _, city := range cities {
		options = append(options, map[string]string{
			"city":  city,
			"alias": reconciler.CityAlias(city),
		})
	}
	result := map[string]any{"cities": options}

	if h.client.Ready() {
		h.cache.Set(cacheKey, result)
	}
	response.OK(w, result)
}

// HandleGetLocation handles GET /api/v1/locations/{id}.
// @Summary Location detail
// @Description Location with its notes and 5 mg / 10 mg price trends
// @Tags locations
// @Produce json
// @Param id path integer true "Location ID"
// @Success 200 {object} response.Response{data=pricemap.Detail}
// @Failure 400 {object} response.Response{error=response.Error}
// @Failure 404 {object} response.Response{error=response.Error}
// @Failure 502 {object} response.Response{error=response.Error}
// @Router /api/v1/locations/{id} [get].
func (h *Handlers) HandleGetLocation(w http.ResponseWriter, r *http.Request, rawID string) {
	id, err := filter.ParseID(rawID)
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}

	detail, err := h.client.Detail(r.Context(), id)
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}

	response.OK(w, detail)
}
