// GatherLens - Venue Marketing Analytics Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gatherlens

package api

import (
	"context"
	"net/http"
	"sync"

	"github.com/tomtom215/gatherlens/internal/aggregate"
	"github.com/tomtom215/gatherlens/internal/logging"
	"github.com/tomtom215/gatherlens/internal/models"
)

// analyticsQuery holds the parsed query parameters of the aggregation
// endpoint.
type analyticsQuery struct {
	typ       string
	days      int
	startDate string
	endDate   string
	source    string
}

// preferStore reports whether the secondary store should be consulted
// first. Anything but an explicit source=ga prefers the store.
func (q analyticsQuery) preferStore() bool {
	return q.source != "ga"
}

func parseAnalyticsQuery(r *http.Request) analyticsQuery {
	params := r.URL.Query()
	return analyticsQuery{
		typ:       params.Get("type"),
		days:      getIntParam(r, "days", 30),
		startDate: params.Get("startDate"),
		endDate:   params.Get("endDate"),
		source:    params.Get("source"),
	}
}

// Analytics handles GET /api/v1/analytics, dispatching on the type
// parameter. Unknown or missing types serve the full payload.
func (h *Handler) Analytics(w http.ResponseWriter, r *http.Request) {
	defer func() {
		if rec := recover(); rec != nil {
			logging.Error().Interface("panic", rec).Msg("Analytics handler panicked")
			respondError(w, http.StatusInternalServerError, "Failed to fetch analytics data")
		}
	}()

	ctx := r.Context()
	q := parseAnalyticsQuery(r)

	switch q.typ {
	case "realtime":
		h.analyticsRealtime(ctx, w)
	case "summary":
		h.analyticsSummary(ctx, w, q)
	case "daily":
		h.analyticsDaily(ctx, w, q)
	case "pages":
		h.analyticsPages(ctx, w, q)
	case "sources":
		h.analyticsSources(ctx, w, q)
	case "source-medium":
		h.analyticsSourceMedium(ctx, w, q)
	case "channels":
		h.analyticsChannels(ctx, w, q)
	case "landing":
		h.analyticsLanding(ctx, w, q)
	case "devices":
		h.analyticsDevices(ctx, w, q)
	case "cities":
		h.analyticsCities(ctx, w, q)
	case "browsers":
		h.analyticsBrowsers(ctx, w, q)
	case "countries":
		h.analyticsCountries(ctx, w, q)
	case "os":
		h.analyticsOS(ctx, w, q)
	case "userTypes":
		h.analyticsUserTypes(ctx, w, q)
	case "hourly":
		h.analyticsHourly(ctx, w, q)
	case "dayOfWeek":
		h.analyticsDayOfWeek(ctx, w, q)
	case "referrers":
		h.analyticsReferrers(ctx, w, q)
	case "keywords":
		h.analyticsKeywords(ctx, w, q)
	case "period-keywords":
		h.analyticsPeriodKeywords(ctx, w)
	case "comparison":
		h.analyticsComparison(ctx, w, r)
	case "traffic":
		h.analyticsTraffic(ctx, w, q)
	default:
		h.analyticsAll(ctx, w, q)
	}
}

func (h *Handler) analyticsRealtime(ctx context.Context, w http.ResponseWriter) {
	users, err := h.live.RealtimeUsers(ctx)
	logFetchError("realtime", err)
	respondJSON(w, http.StatusOK, models.RealtimeResponse{
		RealtimeUsers: users,
		Source:        models.SourceGA,
	})
}

func (h *Handler) analyticsSummary(ctx context.Context, w http.ResponseWriter, q analyticsQuery) {
	if q.preferStore() {
		if rows := h.storeSummaries(ctx, q.days); len(rows) > 0 {
			respondJSON(w, http.StatusOK, models.SummaryResponse{
				Summary: aggregate.SummaryFromRows(rows),
				Source:  models.SourceAirtable,
			})
			return
		}
	}

	summary, err := h.live.Summary(ctx, q.days, q.startDate, q.endDate)
	logFetchError("summary", err)
	respondJSON(w, http.StatusOK, models.SummaryResponse{Summary: summary, Source: models.SourceGA})
}

func (h *Handler) analyticsDaily(ctx context.Context, w http.ResponseWriter, q analyticsQuery) {
	if q.preferStore() {
		if rows := h.storeSummaries(ctx, q.days); len(rows) > 0 {
			respondJSON(w, http.StatusOK, models.DailyResponse{
				Daily:  aggregate.DailyFromRows(rows),
				Source: models.SourceAirtable,
			})
			return
		}
	}

	daily, err := h.live.Daily(ctx, q.days, q.startDate, q.endDate)
	logFetchError("daily", err)
	respondJSON(w, http.StatusOK, models.DailyResponse{Daily: orEmpty(daily), Source: models.SourceGA})
}

func (h *Handler) analyticsPages(ctx context.Context, w http.ResponseWriter, q analyticsQuery) {
	if q.preferStore() {
		if pages := h.storePages(ctx, q.days); len(pages) > 0 {
			respondJSON(w, http.StatusOK, models.PagesResponse{Pages: pages, Source: models.SourceAirtable})
			return
		}
	}

	pages, err := h.live.TopPages(ctx, q.days, 10, q.startDate, q.endDate)
	logFetchError("pages", err)
	respondJSON(w, http.StatusOK, models.PagesResponse{Pages: orEmpty(pages), Source: models.SourceGA})
}

func (h *Handler) analyticsSources(ctx context.Context, w http.ResponseWriter, q analyticsQuery) {
	if q.preferStore() {
		if sources := h.storeSources(ctx, q.days); len(sources) > 0 {
			respondJSON(w, http.StatusOK, models.SourcesResponse{Sources: sources, Source: models.SourceAirtable})
			return
		}
	}

	sources, err := h.live.TrafficSources(ctx, q.days, q.startDate, q.endDate)
	logFetchError("sources", err)
	respondJSON(w, http.StatusOK, models.SourcesResponse{Sources: orEmpty(sources), Source: models.SourceGA})
}

func (h *Handler) analyticsSourceMedium(ctx context.Context, w http.ResponseWriter, q analyticsQuery) {
	sm, err := h.live.SourceMedium(ctx, q.days, q.startDate, q.endDate)
	logFetchError("source-medium", err)
	respondJSON(w, http.StatusOK, models.SourceMediumResponse{SourceMedium: orEmpty(sm), Source: models.SourceGA})
}

func (h *Handler) analyticsChannels(ctx context.Context, w http.ResponseWriter, q analyticsQuery) {
	channels, err := h.live.ChannelGroups(ctx, q.days, q.startDate, q.endDate)
	logFetchError("channels", err)
	respondJSON(w, http.StatusOK, models.ChannelsResponse{Channels: orEmpty(channels), Source: models.SourceGA})
}

func (h *Handler) analyticsLanding(ctx context.Context, w http.ResponseWriter, q analyticsQuery) {
	landing, err := h.live.LandingPages(ctx, q.days, 10, q.startDate, q.endDate)
	logFetchError("landing", err)
	respondJSON(w, http.StatusOK, models.LandingResponse{LandingPages: orEmpty(landing), Source: models.SourceGA})
}

func (h *Handler) analyticsDevices(ctx context.Context, w http.ResponseWriter, q analyticsQuery) {
	if q.preferStore() {
		if devices := h.storeDevices(ctx, q.days); len(devices) > 0 {
			respondJSON(w, http.StatusOK, models.DevicesResponse{Devices: devices, Source: models.SourceAirtable})
			return
		}
	}

	devices, err := h.live.Devices(ctx, q.days, q.startDate, q.endDate)
	logFetchError("devices", err)
	respondJSON(w, http.StatusOK, models.DevicesResponse{Devices: orEmpty(devices), Source: models.SourceGA})
}

func (h *Handler) analyticsCities(ctx context.Context, w http.ResponseWriter, q analyticsQuery) {
	cities, err := h.live.Cities(ctx, q.days, 15, q.startDate, q.endDate)
	logFetchError("cities", err)
	respondJSON(w, http.StatusOK, models.CitiesResponse{Cities: orEmpty(cities), Source: models.SourceGA})
}

func (h *Handler) analyticsBrowsers(ctx context.Context, w http.ResponseWriter, q analyticsQuery) {
	browsers, err := h.live.Browsers(ctx, q.days, 10, q.startDate, q.endDate)
	logFetchError("browsers", err)
	respondJSON(w, http.StatusOK, models.BrowsersResponse{Browsers: orEmpty(browsers), Source: models.SourceGA})
}

func (h *Handler) analyticsCountries(ctx context.Context, w http.ResponseWriter, q analyticsQuery) {
	countries, err := h.live.Countries(ctx, q.days, 15, q.startDate, q.endDate)
	logFetchError("countries", err)
	respondJSON(w, http.StatusOK, models.CountriesResponse{Countries: orEmpty(countries), Source: models.SourceGA})
}

func (h *Handler) analyticsOS(ctx context.Context, w http.ResponseWriter, q analyticsQuery) {
	osList, err := h.live.OperatingSystems(ctx, q.days, q.startDate, q.endDate)
	logFetchError("os", err)
	respondJSON(w, http.StatusOK, models.OSResponse{OSList: orEmpty(osList), Source: models.SourceGA})
}

func (h *Handler) analyticsUserTypes(ctx context.Context, w http.ResponseWriter, q analyticsQuery) {
	userTypes, err := h.live.UserTypes(ctx, q.days, q.startDate, q.endDate)
	logFetchError("userTypes", err)
	respondJSON(w, http.StatusOK, models.UserTypesResponse{UserTypes: orEmpty(userTypes), Source: models.SourceGA})
}

func (h *Handler) analyticsHourly(ctx context.Context, w http.ResponseWriter, q analyticsQuery) {
	hourly, err := h.live.Hourly(ctx, q.days, q.startDate, q.endDate)
	logFetchError("hourly", err)
	respondJSON(w, http.StatusOK, models.HourlyResponse{Hourly: orEmpty(hourly), Source: models.SourceGA})
}

func (h *Handler) analyticsDayOfWeek(ctx context.Context, w http.ResponseWriter, q analyticsQuery) {
	dow, err := h.live.DayOfWeek(ctx, q.days, q.startDate, q.endDate)
	logFetchError("dayOfWeek", err)
	respondJSON(w, http.StatusOK, models.DayOfWeekResponse{DayOfWeek: orEmpty(dow), Source: models.SourceGA})
}

func (h *Handler) analyticsReferrers(ctx context.Context, w http.ResponseWriter, q analyticsQuery) {
	referrers, err := h.live.Referrers(ctx, q.days, 15, q.startDate, q.endDate)
	logFetchError("referrers", err)
	respondJSON(w, http.StatusOK, models.ReferrersResponse{Referrers: orEmpty(referrers), Source: models.SourceGA})
}

func (h *Handler) analyticsKeywords(ctx context.Context, w http.ResponseWriter, q analyticsQuery) {
	if q.preferStore() {
		if keywords := h.storeKeywords(ctx, q.days); len(keywords) > 0 {
			// the store has no page-level search table
			respondJSON(w, http.StatusOK, models.KeywordsResponse{
				SearchKeywords: keywords,
				SearchPages:    []models.SearchPage{},
				Source:         models.SourceAirtable,
			})
			return
		}
	}

	var (
		keywords []models.SearchKeyword
		pages    []models.SearchPage
	)
	var wg sync.WaitGroup
	run := func(fn func()) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			fn()
		}()
	}
	run(func() {
		var err error
		keywords, err = h.search.Keywords(ctx, q.days, 0, "", "")
		logFetchError("searchKeywords", err)
	})
	run(func() {
		var err error
		pages, err = h.search.Pages(ctx, q.days, 0)
		logFetchError("searchPages", err)
	})
	wg.Wait()

	respondJSON(w, http.StatusOK, models.KeywordsResponse{
		SearchKeywords: orEmpty(keywords),
		SearchPages:    orEmpty(pages),
		Source:         models.SourceGA,
	})
}

// periodKeywordLimit caps each window of the period-keywords payload.
const periodKeywordLimit = 5

func (h *Handler) analyticsPeriodKeywords(ctx context.Context, w http.ResponseWriter) {
	p := aggregate.PeriodWindows(h.now())

	windows := []models.DateRange{p.ThisWeek, p.LastWeek, p.ThisMonth, p.LastMonth}
	results := make([][]models.SearchKeyword, len(windows))

	var wg sync.WaitGroup
	for i, window := range windows {
		wg.Add(1)
		go func(i int, window models.DateRange) {
			defer wg.Done()
			keywords, err := h.search.Keywords(ctx, 0, periodKeywordLimit, window.StartDate, window.EndDate)
			logFetchError("period-keywords", err)
			results[i] = keywords
		}(i, window)
	}
	wg.Wait()

	respondJSON(w, http.StatusOK, models.PeriodKeywordsResponse{
		ThisWeek:  orEmpty(results[0]),
		LastWeek:  orEmpty(results[1]),
		ThisMonth: orEmpty(results[2]),
		LastMonth: orEmpty(results[3]),
		Source:    models.SourceGA,
	})
}

func (h *Handler) analyticsComparison(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	currentStart := params.Get("currentStart")
	currentEnd := params.Get("currentEnd")
	previousStart := params.Get("previousStart")
	previousEnd := params.Get("previousEnd")

	if currentStart == "" || currentEnd == "" || previousStart == "" || previousEnd == "" {
		respondError(w, http.StatusBadRequest, "Missing date parameters for comparison")
		return
	}

	comparison, err := aggregate.BuildComparison(ctx, h.live, currentStart, currentEnd, previousStart, previousEnd)
	if err != nil {
		// Upstream failure degrades to a null comparison, same as no data.
		logFetchError("comparison", err)
		comparison = nil
	}

	respondJSON(w, http.StatusOK, models.ComparisonResponse{Comparison: comparison, Source: models.SourceGA})
}

func (h *Handler) analyticsTraffic(ctx context.Context, w http.ResponseWriter, q analyticsQuery) {
	var storeDevices []models.DeviceStat
	if q.preferStore() {
		storeDevices = h.storeDevices(ctx, q.days)
	}

	resp := models.TrafficResponse{Source: models.SourceGA}
	if len(storeDevices) > 0 {
		resp.Devices = storeDevices
		resp.Source = models.SourceMixed
	}

	var wg sync.WaitGroup
	run := func(slot string, fn func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			logFetchError(slot, fn())
		}()
	}

	run("source-medium", func() (err error) { resp.SourceMedium, err = h.live.SourceMedium(ctx, q.days, q.startDate, q.endDate); return })
	run("channels", func() (err error) { resp.Channels, err = h.live.ChannelGroups(ctx, q.days, q.startDate, q.endDate); return })
	run("landing", func() (err error) { resp.LandingPages, err = h.live.LandingPages(ctx, q.days, 10, q.startDate, q.endDate); return })
	run("cities", func() (err error) { resp.Cities, err = h.live.Cities(ctx, q.days, 15, q.startDate, q.endDate); return })
	run("browsers", func() (err error) { resp.Browsers, err = h.live.Browsers(ctx, q.days, 10, q.startDate, q.endDate); return })
	run("countries", func() (err error) { resp.Countries, err = h.live.Countries(ctx, q.days, 15, q.startDate, q.endDate); return })
	run("os", func() (err error) { resp.OSList, err = h.live.OperatingSystems(ctx, q.days, q.startDate, q.endDate); return })
	run("userTypes", func() (err error) { resp.UserTypes, err = h.live.UserTypes(ctx, q.days, q.startDate, q.endDate); return })
	run("hourly", func() (err error) { resp.Hourly, err = h.live.Hourly(ctx, q.days, q.startDate, q.endDate); return })
	run("dayOfWeek", func() (err error) { resp.DayOfWeek, err = h.live.DayOfWeek(ctx, q.days, q.startDate, q.endDate); return })
	run("referrers", func() (err error) { resp.Referrers, err = h.live.Referrers(ctx, q.days, 15, q.startDate, q.endDate); return })
	run("searchKeywords", func() (err error) { resp.SearchKeywords, err = h.search.Keywords(ctx, q.days, 0, "", ""); return })
	run("searchPages", func() (err error) { resp.SearchPages, err = h.search.Pages(ctx, q.days, 0); return })
	if len(storeDevices) == 0 {
		run("devices", func() (err error) { resp.Devices, err = h.live.Devices(ctx, q.days, q.startDate, q.endDate); return })
	}
	wg.Wait()

	resp.SourceMedium = orEmpty(resp.SourceMedium)
	resp.Channels = orEmpty(resp.Channels)
	resp.LandingPages = orEmpty(resp.LandingPages)
	resp.Devices = orEmpty(resp.Devices)
	resp.Cities = orEmpty(resp.Cities)
	resp.Browsers = orEmpty(resp.Browsers)
	resp.Countries = orEmpty(resp.Countries)
	resp.OSList = orEmpty(resp.OSList)
	resp.UserTypes = orEmpty(resp.UserTypes)
	resp.Hourly = orEmpty(resp.Hourly)
	resp.DayOfWeek = orEmpty(resp.DayOfWeek)
	resp.Referrers = orEmpty(resp.Referrers)
	resp.SearchKeywords = orEmpty(resp.SearchKeywords)
	resp.SearchPages = orEmpty(resp.SearchPages)

	respondJSON(w, http.StatusOK, resp)
}

// analyticsAll serves the default full payload: a parallel secondary-store
// block for the snapshot-backed metrics, then a live fan-out for everything
// the store did not provide.
func (h *Handler) analyticsAll(ctx context.Context, w http.ResponseWriter, q analyticsQuery) {
	var (
		storeSummaryRows []models.SummaryRow
		storePages       []models.PageStat
		storeSources     []models.TrafficSource
		storeDevices     []models.DeviceStat
	)

	if q.preferStore() {
		var wg sync.WaitGroup
		run := func(fn func()) {
			wg.Add(1)
			go func() {
				defer wg.Done()
				fn()
			}()
		}
		run(func() { storeSummaryRows = h.storeSummaries(ctx, q.days) })
		run(func() { storePages = h.storePages(ctx, q.days) })
		run(func() { storeSources = h.storeSources(ctx, q.days) })
		run(func() { storeDevices = h.storeDevices(ctx, q.days) })
		wg.Wait()
	}

	resp := models.AllResponse{Source: models.SourceGA}
	if len(storeSummaryRows) > 0 {
		resp.Summary = aggregate.SummaryFromRows(storeSummaryRows)
		resp.Daily = aggregate.DailyFromRows(storeSummaryRows)
	}
	resp.Pages = storePages
	resp.Sources = storeSources
	resp.Devices = storeDevices
	if resp.Summary != nil || len(storePages) > 0 || len(storeSources) > 0 || len(storeDevices) > 0 {
		resp.Source = models.SourceMixed
	}

	var wg sync.WaitGroup
	run := func(slot string, fn func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			logFetchError(slot, fn())
		}()
	}

	if resp.Summary == nil {
		run("summary", func() (err error) { resp.Summary, err = h.live.Summary(ctx, q.days, q.startDate, q.endDate); return })
		run("daily", func() (err error) { resp.Daily, err = h.live.Daily(ctx, q.days, q.startDate, q.endDate); return })
	}
	if len(resp.Pages) == 0 {
		run("pages", func() (err error) { resp.Pages, err = h.live.TopPages(ctx, q.days, 10, q.startDate, q.endDate); return })
	}
	if len(resp.Sources) == 0 {
		run("sources", func() (err error) { resp.Sources, err = h.live.TrafficSources(ctx, q.days, q.startDate, q.endDate); return })
	}
	if len(resp.Devices) == 0 {
		run("devices", func() (err error) { resp.Devices, err = h.live.Devices(ctx, q.days, q.startDate, q.endDate); return })
	}
	run("realtime", func() (err error) { resp.RealtimeUsers, err = h.live.RealtimeUsers(ctx); return })
	run("source-medium", func() (err error) { resp.SourceMedium, err = h.live.SourceMedium(ctx, q.days, q.startDate, q.endDate); return })
	run("channels", func() (err error) { resp.Channels, err = h.live.ChannelGroups(ctx, q.days, q.startDate, q.endDate); return })
	run("landing", func() (err error) { resp.LandingPages, err = h.live.LandingPages(ctx, q.days, 10, q.startDate, q.endDate); return })
	run("cities", func() (err error) { resp.Cities, err = h.live.Cities(ctx, q.days, 15, q.startDate, q.endDate); return })
	run("browsers", func() (err error) { resp.Browsers, err = h.live.Browsers(ctx, q.days, 10, q.startDate, q.endDate); return })
	run("countries", func() (err error) { resp.Countries, err = h.live.Countries(ctx, q.days, 15, q.startDate, q.endDate); return })
	run("os", func() (err error) { resp.OSList, err = h.live.OperatingSystems(ctx, q.days, q.startDate, q.endDate); return })
	run("userTypes", func() (err error) { resp.UserTypes, err = h.live.UserTypes(ctx, q.days, q.startDate, q.endDate); return })
	run("hourly", func() (err error) { resp.Hourly, err = h.live.Hourly(ctx, q.days, q.startDate, q.endDate); return })
	run("dayOfWeek", func() (err error) { resp.DayOfWeek, err = h.live.DayOfWeek(ctx, q.days, q.startDate, q.endDate); return })
	run("referrers", func() (err error) { resp.Referrers, err = h.live.Referrers(ctx, q.days, 15, q.startDate, q.endDate); return })
	run("searchKeywords", func() (err error) { resp.SearchKeywords, err = h.search.Keywords(ctx, q.days, 0, "", ""); return })
	run("searchPages", func() (err error) { resp.SearchPages, err = h.search.Pages(ctx, q.days, 0); return })
	wg.Wait()

	resp.Daily = orEmpty(resp.Daily)
	resp.Pages = orEmpty(resp.Pages)
	resp.Sources = orEmpty(resp.Sources)
	resp.SourceMedium = orEmpty(resp.SourceMedium)
	resp.Channels = orEmpty(resp.Channels)
	resp.LandingPages = orEmpty(resp.LandingPages)
	resp.Devices = orEmpty(resp.Devices)
	resp.Cities = orEmpty(resp.Cities)
	resp.Browsers = orEmpty(resp.Browsers)
	resp.Countries = orEmpty(resp.Countries)
	resp.OSList = orEmpty(resp.OSList)
	resp.UserTypes = orEmpty(resp.UserTypes)
	resp.Hourly = orEmpty(resp.Hourly)
	resp.DayOfWeek = orEmpty(resp.DayOfWeek)
	resp.Referrers = orEmpty(resp.Referrers)
	resp.SearchKeywords = orEmpty(resp.SearchKeywords)
	resp.SearchPages = orEmpty(resp.SearchPages)

	respondJSON(w, http.StatusOK, resp)
}

// Secondary-store readers. Each returns nil on any error or empty window,
// which sends the caller down the live path.

func (h *Handler) storeSummaries(ctx context.Context, days int) []models.SummaryRow {
	rows, err := h.store.LatestSummaries(ctx, days)
	if err != nil {
		logging.Warn().Err(err).Msg("Secondary store summary read failed, falling back to live")
		return nil
	}
	return rows
}

func (h *Handler) storePages(ctx context.Context, days int) []models.PageStat {
	rows, err := h.store.LatestPages(ctx, days)
	if err != nil {
		logging.Warn().Err(err).Msg("Secondary store pages read failed, falling back to live")
		return nil
	}
	if len(rows) == 0 {
		return nil
	}
	return aggregate.PagesFromRows(rows, 10)
}

func (h *Handler) storeSources(ctx context.Context, days int) []models.TrafficSource {
	rows, err := h.store.LatestSources(ctx, days)
	if err != nil {
		logging.Warn().Err(err).Msg("Secondary store sources read failed, falling back to live")
		return nil
	}
	if len(rows) == 0 {
		return nil
	}
	return aggregate.SourcesFromRows(rows)
}

func (h *Handler) storeDevices(ctx context.Context, days int) []models.DeviceStat {
	rows, err := h.store.LatestDevices(ctx, days)
	if err != nil {
		logging.Warn().Err(err).Msg("Secondary store devices read failed, falling back to live")
		return nil
	}
	if len(rows) == 0 {
		return nil
	}
	return aggregate.DevicesFromRows(rows)
}

func (h *Handler) storeKeywords(ctx context.Context, days int) []models.SearchKeyword {
	rows, err := h.store.LatestKeywords(ctx, days)
	if err != nil {
		logging.Warn().Err(err).Msg("Secondary store keywords read failed, falling back to live")
		return nil
	}
	if len(rows) == 0 {
		return nil
	}
	return aggregate.KeywordsFromRows(rows)
}
