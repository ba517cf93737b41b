package domain

import "time"

// MonthlyCount is one point of a per-calendar-month trend, with Month
// formatted as "2006-01" in UTC.
type MonthlyCount struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}

// OwnerStats aggregates a user's history on the owner side of jobs.
type OwnerStats struct {
	TotalStringings            int            `json:"total_stringings"`
	StringingsByState          map[string]int `json:"stringings_by_state"`
	StringTypeUsage            map[string]int `json:"string_type_usage"`
	RacketUsage                map[string]int `json:"racket_usage"`
	MostUsedTensionCombination *string        `json:"most_used_tension_combination"`
	MostUsedTensionCount       *int           `json:"most_used_tension_count"`
	MonthlyTrend               []MonthlyCount `json:"monthly_trend"`
	TopStringers               map[string]int `json:"top_stringers"`
}

// StringerStats aggregates a user's history on the stringer side of jobs.
type StringerStats struct {
	TotalStringings            int            `json:"total_stringings"`
	StringingsByState          map[string]int `json:"stringings_by_state"`
	TopCustomers               map[string]int `json:"top_customers"`
	AverageCompletionTimeHours *float64       `json:"average_completion_time_hours"`
	SuccessRate                *float64       `json:"success_rate"`
	BusiestMonth               *string        `json:"busiest_month"`
	StringTypeUsage            map[string]int `json:"string_type_usage"`
	RacketUsage                map[string]int `json:"racket_usage"`
	MonthlyTrend               []MonthlyCount `json:"monthly_trend"`
}

// UserAnalytics is the cached, derived summary of a user's stringing
// history. It is always recomputed wholesale from the entity store, never
// patched incrementally; ComputedAt is the staleness watermark callers see.
// Stringer is nil for users who have never acted as a stringer on any job.
type UserAnalytics struct {
	UserID     string         `json:"user_id"`
	ComputedAt time.Time      `json:"computed_at"`
	Owner      OwnerStats     `json:"owner"`
	Stringer   *StringerStats `json:"stringer"`
}
