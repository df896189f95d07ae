package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetPeriodReport(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	user, authHeader := ts.createUser(t, 1)
	ts.createRecord(t, user.ID, "2024-02-01", "KOREAN", "bibimbap")
	ts.createRecord(t, user.ID, "2024-02-20", "KOREAN", "bibimbap")
	ts.createRecord(t, user.ID, "2024-02-29", "JAPANESE", "ramen")
	ts.createRecord(t, user.ID, "2024-03-01", "KOREAN", "bibimbap")

	resp := ts.api.Get("/reports/period?period=month&date=2024-02-15", authHeader)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	report := envelopeOf[PeriodReportResponse](t, resp)
	assert.Equal(t, "month", string(report.Period))
	assert.Equal(t, PeriodRangeResponse{From: "2024-02-01", To: "2024-02-29"}, report.Range)
	assert.Equal(t, 3, report.TotalRecords)
	assert.Equal(t, []CategoryShareResponse{
		{Category: "JAPANESE", Count: 1, Ratio: 0.3333},
		{Category: "KOREAN", Count: 2, Ratio: 0.6667},
	}, report.CategoryShare)
	assert.Equal(t, []TopMenuResponse{
		{MenuName: "bibimbap", Count: 2},
		{MenuName: "ramen", Count: 1},
	}, report.TopMenus)
}

func TestGetPeriodReport_Empty(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	_, authHeader := ts.createUser(t, 1)

	resp := ts.api.Get("/reports/period?period=week&date=2024-03-06", authHeader)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"categoryShare":[]`)
	assert.Contains(t, resp.Body.String(), `"topMenus":[]`)

	report := envelopeOf[PeriodReportResponse](t, resp)
	assert.Zero(t, report.TotalRecords)
	assert.Equal(t, PeriodRangeResponse{From: "2024-03-04", To: "2024-03-10"}, report.Range)
}

func TestGetPeriodReport_BadInput(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	_, authHeader := ts.createUser(t, 1)

	tests := []struct {
		name  string
		query string
	}{
		{"unknown period", "period=day&date=2024-03-06"},
		{"bad date", "period=week&date=06-03-2024"},
		{"missing date", "period=week"},
		{"top_n zero", "period=week&date=2024-03-06&top_n=0"},
		{"top_n too large", "period=week&date=2024-03-06&top_n=21"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := ts.api.Get("/reports/period?"+tt.query, authHeader)
			assert.Equal(t, http.StatusBadRequest, resp.Code, resp.Body.String())
			assert.Equal(t, "INVALID_ARGUMENT", errorOf(t, resp).Code)
		})
	}

	resp := ts.api.Get("/reports/period?period=week&date=2024-03-06")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}
