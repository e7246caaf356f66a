package service

import (
	"errors"

	"task_tracker/internal/domain"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	TaskOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "task_operations_total",
			Help: "Task and audit log operations by outcome",
		},
		[]string{"operation", "result"},
	)
	AuditWriteFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "audit_write_failures_total",
			Help: "Best-effort audit log writes that failed",
		},
	)
)

func init() {
	prometheus.MustRegister(TaskOperations)
	prometheus.MustRegister(AuditWriteFailures)
}

func observe(operation string, err error) {
	TaskOperations.WithLabelValues(operation, resultLabel(err)).Inc()
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrValidation):
		return "invalid"
	case errors.Is(err, domain.ErrTaskNotFound), errors.Is(err, domain.ErrLogNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrCascadeFailed):
		return "cascade_failed"
	default:
		return "error"
	}
}
