package pool

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/code-payments/zk-liquidity-pool/pkg/code/data/pool"
	"github.com/code-payments/zk-liquidity-pool/pkg/solana"
)

const (
	metricsNamespace = "zkpool"
	metricsSubsystem = "processor"

	metricsStructName = "pool.processor"
)

const (
	instructionInitializePool = "initialize_pool"
	instructionDeposit        = "deposit"
	instructionWithdraw       = "withdraw"
)

type processorMetrics struct {
	instructions      *prometheus.CounterVec
	proofVerification *prometheus.HistogramVec
}

func newProcessorMetrics(registerer prometheus.Registerer) *processorMetrics {
	factory := promauto.With(registerer)

	return &processorMetrics{
		instructions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "instructions_total",
			Help:      "Instructions processed, partitioned by outcome.",
		}, []string{"instruction", "result"}),
		proofVerification: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "proof_verification_seconds",
			Help:      "Time spent waiting on the proof verifier.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 14),
		}, []string{"instruction"}),
	}
}

// resultLabel maps an instruction outcome to a bounded set of label values
func resultLabel(err error) string {
	switch err {
	case nil:
		return "ok"
	case ErrInvalidAmount:
		return "invalid_amount"
	case ErrInvalidPublicKey:
		return "invalid_public_key"
	case ErrUnauthorized:
		return "unauthorized"
	case ErrStakeDurationNotMet:
		return "stake_duration_not_met"
	case ErrBumpMismatch:
		return "bump_mismatch"
	case ErrAlreadyInitialized:
		return "already_initialized"
	case ErrProofRejected:
		return "proof_rejected"
	case ErrProofTimeout:
		return "proof_timeout"
	case solana.ErrDerivationExhausted:
		return "derivation_exhausted"
	case pool.ErrPoolNotFound:
		return "pool_not_found"
	case pool.ErrUnderflow:
		return "underflow"
	case pool.ErrOverflow:
		return "overflow"
	default:
		return "error"
	}
}
