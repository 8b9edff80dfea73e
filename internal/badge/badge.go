// Package badge defines the achievement table and the pure check that
// decides which badges a user has earned. The table is a fixed,
// immutable configuration: nothing mutates it after startup, and
// earning is computed on demand from a user snapshot rather than
// stored.
package badge

import "github.com/iliyamo/takedown-tracker/internal/model"

// Metrics a badge can be gated on.
const (
	MetricMissions = "missions"
	MetricReports  = "reports"
	MetricPoints   = "points"
)

// Badge couples a display identity with its earning rule: reach
// Threshold on Metric.
type Badge struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Metric      string `json:"requirement_type"`
	Threshold   int    `json:"requirement_value"`
}

// Table lists every badge the system awards, in display order.
var Table = []Badge{
	{ID: "first_mission", Name: "First Mission", Description: "Completed your first mission", Icon: "target", Metric: MetricMissions, Threshold: 1},
	{ID: "hunter_10", Name: "Hunter", Description: "Completed 10 missions", Icon: "crosshair", Metric: MetricMissions, Threshold: 10},
	{ID: "hunter_50", Name: "Elite Hunter", Description: "Completed 50 missions", Icon: "award", Metric: MetricMissions, Threshold: 50},
	{ID: "hunter_100", Name: "Legend", Description: "Completed 100 missions", Icon: "crown", Metric: MetricMissions, Threshold: 100},
	{ID: "reporter_5", Name: "Informant", Description: "Submitted 5 reports", Icon: "alert-triangle", Metric: MetricReports, Threshold: 5},
	{ID: "reporter_25", Name: "Vigilante", Description: "Submitted 25 reports", Icon: "eye", Metric: MetricReports, Threshold: 25},
	{ID: "points_500", Name: "Operator", Description: "Reached 500 points", Icon: "zap", Metric: MetricPoints, Threshold: 500},
	{ID: "points_2500", Name: "Veteran", Description: "Reached 2500 points", Icon: "shield", Metric: MetricPoints, Threshold: 2500},
	{ID: "points_5000", Name: "Master", Description: "Reached 5000 points", Icon: "star", Metric: MetricPoints, Threshold: 5000},
}

// Earned returns the badges u qualifies for, in table order.
func Earned(u model.User) []Badge {
	earned := make([]Badge, 0)
	for _, b := range Table {
		var value int
		switch b.Metric {
		case MetricMissions:
			value = u.MissionsCompleted
		case MetricReports:
			value = u.ReportsSubmitted
		case MetricPoints:
			value = u.RankPoints
		}
		if value >= b.Threshold {
			earned = append(earned, b)
		}
	}
	return earned
}
