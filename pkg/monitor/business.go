package monitor

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// BusinessMetrics 定义转账管道的业务监控指标
type BusinessMetrics struct {
	TransferRequestedTotal   *prometheus.CounterVec
	TransferSubmittedTotal   *prometheus.CounterVec
	TransferConfirmedTotal   *prometheus.CounterVec // outcome: success / reverted
	TransferRejectedTotal    *prometheus.CounterVec // reason: nonce_too_low / underpriced / ...
	TransferUnconfirmedTotal *prometheus.CounterVec
	ConfirmationDuration     *prometheus.HistogramVec
	GasUsedTotal             *prometheus.CounterVec
}

// Global Metrics Instance
var Business *BusinessMetrics

// InitBusinessMetrics 初始化业务指标
func InitBusinessMetrics() {
	Business = &BusinessMetrics{
		TransferRequestedTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "transfer_requested_total",
			Help: "The total number of transfer requests accepted",
		}, []string{"chain"}),
		TransferSubmittedTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "transfer_submitted_total",
			Help: "The total number of raw transactions broadcast",
		}, []string{"chain"}),
		TransferConfirmedTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "transfer_confirmed_total",
			Help: "The total number of transfers with an included receipt",
		}, []string{"chain", "outcome"}),
		TransferRejectedTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "transfer_rejected_total",
			Help: "The total number of node-side broadcast rejections",
		}, []string{"chain", "reason"}),
		TransferUnconfirmedTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "transfer_unconfirmed_total",
			Help: "Transfers whose confirmation tracking timed out",
		}, []string{"chain"}),
		ConfirmationDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "transfer_confirmation_duration_seconds",
			Help:    "Time from broadcast to first receipt",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		}, []string{"chain"}),
		GasUsedTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "transfer_gas_used_total",
			Help: "Cumulative gas consumed by confirmed transfers",
		}, []string{"chain"}),
	}
}
