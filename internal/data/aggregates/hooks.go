package aggregates

import (
	"strings"
	"time"

	domainagg "github.com/yungbote/orderdoc-backend/internal/domain/aggregates"
	"github.com/yungbote/orderdoc-backend/internal/observability"
)

// Order document write operations, as reported to Hooks.
const (
	OpOrderCreate      = "Orders.OrderDocument.Create"
	OpOrderCreateBatch = "Orders.OrderDocument.CreateBatch"
	OpOrderReplace     = "Orders.OrderDocument.Replace"
	OpOrderDelete      = "Orders.OrderDocument.Delete"
)

// Hooks receives one ObserveOperation per order document write, plus
// IncConflict when an order id collides and IncRetry when the store asked for
// a retry.
type Hooks interface {
	ObserveOperation(name, status string, dur time.Duration)
	IncConflict(name string)
	IncRetry(name string)
}

type noopHooks struct{}

func (noopHooks) ObserveOperation(string, string, time.Duration) {}
func (noopHooks) IncConflict(string)                             {}
func (noopHooks) IncRetry(string)                                {}

var (
	knownOps = map[string]bool{
		OpOrderCreate: true, OpOrderCreateBatch: true, OpOrderReplace: true, OpOrderDelete: true,
	}
	knownStatuses = map[string]bool{
		"success":                                true,
		"failure":                                true,
		string(domainagg.CodeValidation):         true,
		string(domainagg.CodeNotFound):           true,
		string(domainagg.CodeConflict):           true,
		string(domainagg.CodeInvariantViolation): true,
		string(domainagg.CodePreconditionFailed): true,
		string(domainagg.CodeRetryable):          true,
		string(domainagg.CodeInternal):           true,
	}
)

// metricsHooks feeds the aggregate histograms. Names and statuses outside the
// order document set are reported as "other" to keep label values bounded.
type metricsHooks struct {
	metrics *observability.Metrics
}

// NewObservabilityHooks reports order document writes to metrics. A nil
// metrics yields hooks that do nothing.
func NewObservabilityHooks(metrics *observability.Metrics) Hooks {
	if metrics == nil {
		return noopHooks{}
	}
	return metricsHooks{metrics: metrics}
}

func opLabel(name string) string {
	name = strings.TrimSpace(name)
	if knownOps[name] {
		return name
	}
	return "other"
}

func statusLabel(status string) string {
	status = strings.TrimSpace(status)
	if knownStatuses[status] {
		return status
	}
	return "other"
}

func (h metricsHooks) ObserveOperation(name, status string, dur time.Duration) {
	h.metrics.ObserveAggregateOperation(opLabel(name), statusLabel(status), dur)
}

func (h metricsHooks) IncConflict(name string) {
	h.metrics.IncAggregateConflict(opLabel(name))
}

func (h metricsHooks) IncRetry(name string) {
	h.metrics.IncAggregateRetry(opLabel(name))
}
