package domain

// StatisticsSnapshot aggregates a user's tasks and audit trail at one instant.
// Day keys are formatted as YYYY-MM-DD.
type StatisticsSnapshot struct {
	TotalTasks          int                `json:"total_tasks"`
	CompletedTasks      int                `json:"completed_tasks"`
	InProgressTasks     int                `json:"in_progress_tasks"`
	StatusCounts        map[TaskStatus]int `json:"status_counts"`
	TotalLogs           int                `json:"total_logs"`
	OperationTypeStats  map[string]int     `json:"operation_type_stats"`
	DailyOperationStats map[string]int     `json:"daily_operation_stats"`
	CompletionTrend     map[string]int     `json:"completion_trend"`
}
