package handler

import (
	"context"
	"net/http"
	"time"

	"caixa-be/internal/report"

	"github.com/gin-gonic/gin"
)

func (h *Handler) ReportSummary(c *gin.Context) {
	rep, err := h.Reports.Generate(c.Request.Context(), currentUser(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rep)
}

func (h *Handler) ReportDaily(c *gin.Context) {
	daily, err := h.Reports.Daily(c.Request.Context(), currentUser(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, daily)
}

func (h *Handler) ReportTrend(c *gin.Context) {
	from, err := parseDate(c.Query("from"), h.Location, false)
	if err != nil {
		writeError(c, err)
		return
	}
	to, err := parseDate(c.Query("to"), h.Location, false)
	if err != nil {
		writeError(c, err)
		return
	}

	points, err := h.Reports.Trend(c.Request.Context(), currentUser(c), report.TrendFilter{
		CategoryID: c.Query("categoryId"),
		From:       from,
		To:         to,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, points)
}

func (h *Handler) ReportExport(c *gin.Context) {
	format, err := report.ParseFormat(c.Query("format"))
	if err != nil {
		writeError(c, err)
		return
	}

	res, err := h.Reports.Export(c.Request.Context(), currentUser(c), format)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (h *Handler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	checks := make(map[string]string, len(h.Checks))
	for name, check := range h.Checks {
		if err := check(ctx); err != nil {
			checks[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		checks[name] = "ok"
	}

	state := "ok"
	if status != http.StatusOK {
		state = "degraded"
	}
	c.JSON(status, gin.H{"status": state, "checks": checks})
}
