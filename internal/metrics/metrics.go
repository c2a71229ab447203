// Package metrics collects Prometheus metrics for the decision pipeline,
// grounded on pricing_service's ControllerMetrics/NewControllerMetrics
// shape, adapted from one flat request counter to one series per pipeline
// stage so a degraded stage (e.g. AVT write failures) is visible on its own.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PipelineMetrics holds the counters/histograms/gauges the decision engine
// updates on every request.
type PipelineMetrics struct {
	RequestsTotal            *prometheus.CounterVec   // labeled by outcome: valid, manager_card, invalid_lid, age_not_verified, error
	RequestDuration          *prometheus.HistogramVec // labeled by outcome, same set as RequestsTotal
	StageRejections          *prometheus.CounterVec   // labeled by stage: s1_lid, s2_age, ...
	InfraFaultsTotal         *prometheus.CounterVec   // labeled by apperr.Code
	RewardsIssuedTotal       prometheus.Counter
	RewardValueTotal         prometheus.Counter
	ManagerCardDetectedTotal prometheus.Counter
	UnknownUPCLinesTotal     prometheus.Counter
	ActiveLIDLocks           prometheus.Gauge
}

// NewPipelineMetrics registers and returns the pipeline's metric set.
func NewPipelineMetrics() *PipelineMetrics {
	return &PipelineMetrics{
		RequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "loyalty_requests_total",
			Help: "Total number of reward requests processed, by outcome",
		}, []string{"outcome"}),
		RequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "loyalty_request_duration_seconds",
			Help:    "Duration of reward requests, by outcome",
			Buckets: prometheus.DefBuckets,
		}, []string{"outcome"}),
		StageRejections: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "loyalty_stage_rejections_total",
			Help: "Requests that terminated early at a given pipeline stage",
		}, []string{"stage"}),
		InfraFaultsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "loyalty_infra_faults_total",
			Help: "Infrastructure faults raised, by code",
		}, []string{"code"}),
		RewardsIssuedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "loyalty_rewards_issued_total",
			Help: "Total number of non-zero reward lines issued",
		}),
		RewardValueTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "loyalty_reward_value_cents_total",
			Help: "Sum of reward value issued, in cents",
		}),
		ManagerCardDetectedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "loyalty_manager_card_detected_total",
			Help: "Total number of requests S1 flagged as a manager/store card",
		}),
		UnknownUPCLinesTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "loyalty_unknown_upc_lines_total",
			Help: "Total number of basket lines S3 could not resolve against the catalog",
		}),
		ActiveLIDLocks: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "loyalty_active_lid_locks",
			Help: "Number of loyalty IDs currently holding the per-LID serialization lock",
		}),
	}
}
