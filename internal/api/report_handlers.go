package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/hyojeonglee673-dot/massi5-backend/internal/domain"
)

func (s *Server) registerReportRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getPeriodReport",
		Method:      http.MethodGet,
		Path:        "/reports/period",
		Summary:     "Period report",
		Description: "Category shares and top menus for the week, month or year containing date. No records yields totalRecords=0 and empty lists.",
		Tags:        []string{"Reports"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetPeriodReport)
}

// PeriodReportInput selects the report period.
type PeriodReportInput struct {
	Period string `query:"period" required:"true" doc:"week | month | year"`
	Date   string `query:"date" required:"true" doc:"Reference date (YYYY-MM-DD)"`
	TopN   int    `query:"top_n" default:"5" minimum:"1" maximum:"20" doc:"Number of top menus"`
}

// PeriodRangeResponse is an inclusive date range.
type PeriodRangeResponse struct {
	From string `json:"from" doc:"First day (YYYY-MM-DD)"`
	To   string `json:"to" doc:"Last day (YYYY-MM-DD)"`
}

// CategoryShareResponse is one category's share of the period.
type CategoryShareResponse struct {
	Category string  `json:"category" doc:"Category code"`
	Count    int     `json:"count" doc:"Records in this category"`
	Ratio    float64 `json:"ratio" doc:"count / totalRecords, 0..1"`
}

// TopMenuResponse is one frequent menu.
type TopMenuResponse struct {
	MenuName string `json:"menuName" doc:"Menu name"`
	Count    int    `json:"count" doc:"Occurrences"`
}

// PeriodReportResponse is the report body.
type PeriodReportResponse struct {
	Period        domain.Period           `json:"period" doc:"week | month | year"`
	Range         PeriodRangeResponse     `json:"range" doc:"Aggregated range"`
	TotalRecords  int                     `json:"totalRecords" doc:"Records in the range"`
	CategoryShare []CategoryShareResponse `json:"categoryShare" doc:"Per-category counts and ratios"`
	TopMenus      []TopMenuResponse       `json:"topMenus" doc:"Most frequent menus"`
}

// PeriodReportOutput wraps the report for Huma.
type PeriodReportOutput struct {
	Body PeriodReportResponse
}

func (s *Server) handleGetPeriodReport(ctx context.Context, input *PeriodReportInput) (*PeriodReportOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	period, err := domain.ParsePeriod(input.Period)
	if err != nil {
		return nil, err
	}
	ref, err := domain.ParseDate(input.Date)
	if err != nil {
		return nil, err
	}

	report, err := s.services.Reports.GetPeriodReport(ctx, userID, period, ref, input.TopN)
	if err != nil {
		return nil, err
	}

	return &PeriodReportOutput{Body: mapPeriodReport(report)}, nil
}

func mapPeriodReport(r *domain.PeriodReport) PeriodReportResponse {
	resp := PeriodReportResponse{
		Period: r.Period,
		Range: PeriodRangeResponse{
			From: domain.FormatDate(r.Range.From),
			To:   domain.FormatDate(r.Range.To),
		},
		TotalRecords:  r.TotalRecords,
		CategoryShare: make([]CategoryShareResponse, 0, len(r.CategoryShare)),
		TopMenus:      make([]TopMenuResponse, 0, len(r.TopMenus)),
	}
	for _, c := range r.CategoryShare {
		resp.CategoryShare = append(resp.CategoryShare, CategoryShareResponse{
			Category: c.Category,
			Count:    c.Count,
			Ratio:    c.Ratio,
		})
	}
	for _, m := range r.TopMenus {
		resp.TopMenus = append(resp.TopMenus, TopMenuResponse{MenuName: m.MenuName, Count: m.Count})
	}
	return resp
}
