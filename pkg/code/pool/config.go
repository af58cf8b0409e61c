package pool

import (
	"time"

	"github.com/code-payments/zk-liquidity-pool/pkg/config"
	"github.com/code-payments/zk-liquidity-pool/pkg/config/env"
	"github.com/code-payments/zk-liquidity-pool/pkg/config/memory"
	"github.com/code-payments/zk-liquidity-pool/pkg/config/wrapper"
)

const (
	envConfigPrefix = "POOL_PROCESSOR_"

	ProofVerificationTimeoutConfigEnvName = envConfigPrefix + "PROOF_VERIFICATION_TIMEOUT"
	defaultProofVerificationTimeout       = 5 * time.Second

	LockStripesConfigEnvName = envConfigPrefix + "LOCK_STRIPES"
	defaultLockStripes       = 1024

	DisableProofGateConfigEnvName = envConfigPrefix + "DISABLE_PROOF_GATE"
	defaultDisableProofGate       = false

	MinStakeDurationConfigEnvName = envConfigPrefix + "MIN_STAKE_DURATION"
	defaultMinStakeDuration       = 60 * time.Second
)

type conf struct {
	proofVerificationTimeout config.Duration
	lockStripes              config.Uint64
	disableProofGate         config.Bool
	minStakeDuration         config.Duration
}

// ConfigProvider defines how config values are pulled
type ConfigProvider func() *conf

// WithEnvConfigs returns configuration pulled from environment variables
func WithEnvConfigs() ConfigProvider {
	return func() *conf {
		return &conf{
			proofVerificationTimeout: env.NewDurationConfig(ProofVerificationTimeoutConfigEnvName, defaultProofVerificationTimeout),
			lockStripes:              env.NewUint64Config(LockStripesConfigEnvName, defaultLockStripes),
			disableProofGate:         env.NewBoolConfig(DisableProofGateConfigEnvName, defaultDisableProofGate),
			minStakeDuration:         env.NewDurationConfig(MinStakeDurationConfigEnvName, defaultMinStakeDuration),
		}
	}
}

type testOverrides struct {
	proofVerificationTimeout time.Duration
	lockStripes              uint64
	disableProofGate         bool

	// Zero disables the minimum stake duration
	minStakeDuration time.Duration
}

func withManualTestOverrides(overrides *testOverrides) ConfigProvider {
	proofVerificationTimeout := defaultProofVerificationTimeout
	if overrides.proofVerificationTimeout > 0 {
		proofVerificationTimeout = overrides.proofVerificationTimeout
	}

	lockStripes := uint64(defaultLockStripes)
	if overrides.lockStripes > 0 {
		lockStripes = overrides.lockStripes
	}

	return func() *conf {
		return &conf{
			proofVerificationTimeout: wrapper.NewDurationConfig(memory.NewConfig(proofVerificationTimeout), defaultProofVerificationTimeout),
			lockStripes:              wrapper.NewUint64Config(memory.NewConfig(lockStripes), defaultLockStripes),
			disableProofGate:         wrapper.NewBoolConfig(memory.NewConfig(overrides.disableProofGate), defaultDisableProofGate),
			minStakeDuration:         wrapper.NewDurationConfig(memory.NewConfig(overrides.minStakeDuration), defaultMinStakeDuration),
		}
	}
}
