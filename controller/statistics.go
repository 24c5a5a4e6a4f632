package controller

import (
	"strconv"
	"time"

	"github.com/Laisky/errors/v2"
	"github.com/gin-gonic/gin"

	"github.com/widgetly/chat-api/common/helper"
	"github.com/widgetly/chat-api/stats"
)

// respondStatistics maps range-validation failures to 400 and everything else
// to the standard failure envelope.
func respondStatistics(c *gin.Context, data any, err error) {
	if errors.Is(err, stats.ErrInvalidRange) {
		helper.RespondBadRequest(c, "%s", err.Error())
		return
	}
	if err != nil {
		helper.RespondError(c, err)
		return
	}
	helper.RespondData(c, data)
}

// GetLifetimeStatistics returns the lifetime summary with derived means. A
// key with no recorded activity yields an all-zero summary rather than an
// error.
func GetLifetimeStatistics(c *gin.Context) {
	apiKey, ok := getScopedApiKey(c)
	if !ok {
		return
	}
	summary, err := statsService.Lifetime(c.Request.Context(), apiKey.Key)
	if err != nil {
		helper.RespondError(c, err)
		return
	}
	if summary == nil {
		summary = &stats.ApiKeyStatistics{ApiKeyId: apiKey.Key}
	}
	helper.RespondData(c, gin.H{
		"statistics":         summary,
		"mean_response_time": summary.MeanResponseTime(),
		"mean_chat_duration": summary.MeanChatDuration(),
	})
}

func GetLast24HoursStatistics(c *gin.Context) {
	apiKey, ok := getScopedApiKey(c)
	if !ok {
		return
	}
	view, err := statsService.Last24Hours(c.Request.Context(), apiKey.Key)
	respondStatistics(c, view, err)
}

// GetDayStatistics serves ?date=YYYY-MM-DD, defaulting to the current UTC day.
func GetDayStatistics(c *gin.Context) {
	apiKey, ok := getScopedApiKey(c)
	if !ok {
		return
	}
	date := time.Now().UTC()
	if raw := c.Query("date"); raw != "" {
		var err error
		date, err = time.Parse("2006-01-02", raw)
		if err != nil {
			helper.RespondBadRequest(c, "invalid date %q, expected YYYY-MM-DD", raw)
			return
		}
	}
	view, err := statsService.Day(c.Request.Context(), apiKey.Key, date)
	respondStatistics(c, view, err)
}

// GetMonthStatistics serves ?year=&month=.
func GetMonthStatistics(c *gin.Context) {
	apiKey, ok := getScopedApiKey(c)
	if !ok {
		return
	}
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		helper.RespondBadRequest(c, "invalid year %q", c.Query("year"))
		return
	}
	month, err := strconv.Atoi(c.Query("month"))
	if err != nil {
		helper.RespondBadRequest(c, "invalid month %q", c.Query("month"))
		return
	}
	view, err := statsService.Month(c.Request.Context(), apiKey.Key, year, month)
	respondStatistics(c, view, err)
}

// GetYearStatistics serves ?year=.
func GetYearStatistics(c *gin.Context) {
	apiKey, ok := getScopedApiKey(c)
	if !ok {
		return
	}
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		helper.RespondBadRequest(c, "invalid year %q", c.Query("year"))
		return
	}
	view, err := statsService.Year(c.Request.Context(), apiKey.Key, year)
	respondStatistics(c, view, err)
}

func GetLast30DaysStatistics(c *gin.Context) {
	apiKey, ok := getScopedApiKey(c)
	if !ok {
		return
	}
	view, err := statsService.Last30Days(c.Request.Context(), apiKey.Key)
	respondStatistics(c, view, err)
}

func GetLast12MonthsStatistics(c *gin.Context) {
	apiKey, ok := getScopedApiKey(c)
	if !ok {
		return
	}
	view, err := statsService.Last12Months(c.Request.Context(), apiKey.Key)
	respondStatistics(c, view, err)
}
