package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	llmCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "llm",
			Name:      "calls_total",
			Help:      "模型调用次数，按操作与结果划分。",
		},
		[]string{"operation", "outcome"},
	)

	llmCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "llm",
			Name:      "call_duration_seconds",
			Help:      "模型调用耗时分布（秒）。",
			Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 20, 40, 80},
		},
		[]string{"operation"},
	)

	evaluationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "evaluation",
			Name:      "candidates_total",
			Help:      "候选人评估次数，按结果划分。",
		},
		[]string{"outcome"},
	)
)

// ObserveLLMCall 记录一次抽取或翻译调用。
func ObserveLLMCall(operation, outcome string, elapsed time.Duration) {
	llmCallsTotal.WithLabelValues(operation, outcome).Inc()
	llmCallDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// ObserveEvaluation 记录单个候选人的评估结果。
func ObserveEvaluation(ok bool) {
	outcome := "ok"
	if !ok {
		outcome = "error"
	}
	evaluationsTotal.WithLabelValues(outcome).Inc()
}
