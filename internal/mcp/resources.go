// ABOUTME: MCP resource implementations for nexusfit.
// ABOUTME: Provides nexusfit://plan, nexusfit://history, and nexusfit://dashboard resources.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/nexusfit/internal/models"
)

const (
	planURI      = "nexusfit://plan"
	historyURI   = "nexusfit://history"
	dashboardURI = "nexusfit://dashboard"
)

func (s *Server) registerResources() {
	// nexusfit://plan - Current weekly plan with per-day totals
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         planURI,
		Name:        "Weekly Plan",
		Description: "Current seven-day training and nutrition plan with daily totals",
		MIMEType:    "application/json",
	}, s.handlePlanResource)

	// nexusfit://history - Every recorded workout session
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         historyURI,
		Name:        "Workout History",
		Description: "Recorded workout sessions, newest first, with totals",
		MIMEType:    "application/json",
	}, s.handleHistoryResource)

	// nexusfit://dashboard - Calorie targets and progress
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         dashboardURI,
		Name:        "Dashboard",
		Description: "Calorie targets, body metrics, and the last seven days of training",
		MIMEType:    "application/json",
	}, s.handleDashboardResource)
}

// Resource handlers

func (s *Server) handlePlanResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	plan := s.store.Plan()

	days := make([]map[string]any, 0, len(plan.WeeklyPlan))
	for i := range plan.WeeklyPlan {
		d := &plan.WeeklyPlan[i]
		days = append(days, map[string]any{
			"day":         d.Day,
			"is_rest_day": len(d.Workout) == 0,
			"burn_kcal":   d.WorkoutKcal(),
			"totals":      d.Totals(),
		})
	}

	return jsonResource(planURI, map[string]any{
		"plan":       plan,
		"daily":      days,
		"is_default": plan.IsEmpty(),
	})
}

func (s *Server) handleHistoryResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	history := s.store.History()
	if history == nil {
		history = []models.WorkoutSession{}
	}
	return jsonResource(historyURI, map[string]any{
		"sessions": history,
		"summary":  models.SummarizeHistory(history),
	})
}

func (s *Server) handleDashboardResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	return jsonResource(dashboardURI, map[string]any{
		"generated_at": s.now().Format(time.RFC3339),
		"dashboard":    s.dashboard(),
	})
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
