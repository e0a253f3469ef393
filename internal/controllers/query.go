package controllers

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"givemap/internal/services"
)

const dateOnly = "2006-01-02"

// parseTime accepts RFC3339 or a bare date. dateOnlyInput reports which.
func parseTime(raw string) (t time.Time, dateOnlyInput bool, err error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, false, nil
	}
	t, err = time.ParseInLocation(dateOnly, raw, time.UTC)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("invalid date %q, expected YYYY-MM-DD or RFC3339", raw)
	}
	return t, true, nil
}

// reportWindow reads startDate and endDate. A bare endDate covers that
// whole day.
func reportWindow(c *gin.Context) (time.Time, time.Time, error) {
	rawStart, rawEnd := c.Query("startDate"), c.Query("endDate")
	if rawStart == "" || rawEnd == "" {
		return time.Time{}, time.Time{}, fmt.Errorf("startDate and endDate are required")
	}
	start, _, err := parseTime(rawStart)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, bare, err := parseTime(rawEnd)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if bare {
		end = end.Add(24*time.Hour - time.Nanosecond)
	}
	return start, end, nil
}

// locationFilter reads keyword, category and fromDate.
func locationFilter(c *gin.Context) (services.LocationFilter, error) {
	f := services.LocationFilter{
		Keyword:  c.Query("keyword"),
		Category: c.Query("category"),
	}
	if raw := c.Query("fromDate"); raw != "" {
		from, _, err := parseTime(raw)
		if err != nil {
			return f, err
		}
		f.FromDate = &from
	}
	return f, nil
}

// page reads page and limit, falling back to the defaults.
func page(c *gin.Context) services.Page {
	p, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	l, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if p < 1 {
		p = 1
	}
	if l < 1 {
		l = 20
	}
	if l > 100 {
		l = 100
	}
	return services.Page{Page: p, Limit: l}
}
