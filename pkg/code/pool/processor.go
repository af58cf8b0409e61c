package pool

import (
	"context"
	"crypto/ed25519"
	"math"
	"time"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/code-payments/zk-liquidity-pool/pkg/code/data/pool"
	"github.com/code-payments/zk-liquidity-pool/pkg/metrics"
	"github.com/code-payments/zk-liquidity-pool/pkg/solana"
	"github.com/code-payments/zk-liquidity-pool/pkg/solana/zkpool"
	"github.com/code-payments/zk-liquidity-pool/pkg/sync"
)

var (
	// ErrAlreadyInitialized indicates a pool already exists for the mint
	ErrAlreadyInitialized = errors.New("pool already initialized")

	// ErrBumpMismatch indicates the bump supplied by the caller is not the
	// canonical bump for the pool address
	ErrBumpMismatch = errors.New("bump does not match derived pool address")

	ErrInvalidAmount    = errors.New("amount must be positive and fit in a signed 64 bit delta")
	ErrInvalidPublicKey = errors.New("invalid public key")
	ErrUnauthorized     = errors.New("caller is not the pool authority")

	// ErrStakeDurationNotMet indicates a withdrawal came too soon after the
	// pool's most recent deposit
	ErrStakeDurationNotMet = errors.New("minimum stake duration not met")

	// ErrProofRejected indicates the proof was missing, invalid, or could not
	// be checked by the verifier
	ErrProofRejected = errors.New("proof rejected")

	// ErrProofTimeout indicates the verifier did not produce a result before
	// the verification deadline
	ErrProofTimeout = errors.New("proof verification timed out")
)

// ProofVerifier checks a zero-knowledge proof against its public inputs.
// Implementations should honour ctx cancellation, but the processor stops
// waiting at the deadline regardless.
type ProofVerifier interface {
	Verify(ctx context.Context, proof, publicInputs []byte) (bool, error)
}

// Proof accompanies deposit and withdraw instructions when a ProofVerifier is
// configured.
//
// The processor passes PublicInputs to the verifier untouched and does not
// relate them to the instruction. Callers are responsible for constructing
// public inputs that commit to the pool and amount of the instruction being
// proven; otherwise a valid proof for one statement is accepted for any
// other deposit or withdrawal.
type Proof struct {
	Data         []byte
	PublicInputs []byte
}

// Processor validates and applies liquidity pool instructions against the
// pool ledger. Deposits and withdrawals against the same pool are serialized.
type Processor struct {
	log      *logrus.Entry
	conf     *conf
	store    pool.Store
	verifier ProofVerifier
	metrics  *processorMetrics

	poolLocks *sync.StripedLock
}

// NewProcessor returns a new Processor. A nil verifier disables the proof
// gate entirely, and a nil registerer skips metrics registration.
func NewProcessor(store pool.Store, verifier ProofVerifier, registerer prometheus.Registerer, configProvider ConfigProvider) *Processor {
	conf := configProvider()

	if registerer == nil {
		registerer = prometheus.NewRegistry()
	}

	return &Processor{
		log:       logrus.StandardLogger().WithField("type", "pool/processor"),
		conf:      conf,
		store:     store,
		verifier:  verifier,
		metrics:   newProcessorMetrics(registerer),
		poolLocks: sync.NewStripedLock(uint(conf.lockStripes.Get(context.Background()))),
	}
}

// InitializePool creates the pool for a mint at its derived address. The
// caller's bump must be the canonical bump for the address.
func (p *Processor) InitializePool(ctx context.Context, mint, authority ed25519.PublicKey, claimedBump uint8) (address ed25519.PublicKey, err error) {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "InitializePool")
	defer func() {
		p.onInstructionResult(tracer, instructionInitializePool, err)
	}()

	log := p.log.WithField("method", "InitializePool")

	if len(mint) != ed25519.PublicKeySize || len(authority) != ed25519.PublicKeySize {
		return nil, ErrInvalidPublicKey
	}

	log = log.WithFields(logrus.Fields{
		"mint":      base58.Encode(mint),
		"authority": base58.Encode(authority),
	})
	tracer.AddAttribute("mint", base58.Encode(mint))

	address, bump, err := zkpool.GetPoolAddress(&zkpool.GetPoolAddressArgs{
		Mint: mint,
	})
	if err == solana.ErrDerivationExhausted {
		log.Warn("no viable bump for pool address")
		return nil, err
	} else if err != nil {
		return nil, errors.Wrap(err, "error deriving pool address")
	}

	log = log.WithField("pool", base58.Encode(address))

	if bump != claimedBump {
		log.WithFields(logrus.Fields{
			"bump":         bump,
			"claimed_bump": claimedBump,
		}).Debug("claimed bump does not match canonical bump")
		return nil, ErrBumpMismatch
	}

	record := &pool.Record{
		Address:   base58.Encode(address),
		Bump:      bump,
		Mint:      base58.Encode(mint),
		Authority: base58.Encode(authority),
	}

	err = p.store.Create(ctx, record)
	if err == pool.ErrPoolAlreadyExists {
		return nil, ErrAlreadyInitialized
	} else if err != nil {
		log.WithError(err).Warn("failure creating pool record")
		return nil, errors.Wrap(err, "error creating pool record")
	}

	log.Info("pool initialized")

	return address, nil
}

// Deposit adds amount to the pool's total staked and returns the new total
func (p *Processor) Deposit(ctx context.Context, poolAddress, caller ed25519.PublicKey, amount uint64, proof *Proof) (newTotal uint64, err error) {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "Deposit")
	defer func() {
		p.onInstructionResult(tracer, instructionDeposit, err)
	}()

	address := base58.Encode(poolAddress)

	log := p.log.WithFields(logrus.Fields{
		"method": "Deposit",
		"pool":   address,
		"caller": base58.Encode(caller),
		"amount": amount,
	})
	tracer.AddAttributes(map[string]interface{}{
		"pool":   address,
		"amount": amount,
	})

	if len(poolAddress) != ed25519.PublicKeySize || len(caller) != ed25519.PublicKeySize {
		return 0, ErrInvalidPublicKey
	}

	if !isValidAmount(amount) {
		return 0, ErrInvalidAmount
	}

	mu := p.poolLocks.Get(poolAddress)
	mu.Lock()
	defer mu.Unlock()

	if _, err := p.store.Get(ctx, address); err != nil {
		return 0, p.mapLedgerError(log, err)
	}

	if err := p.checkProof(ctx, log, instructionDeposit, proof); err != nil {
		return 0, err
	}

	updated, err := p.store.ApplyDelta(ctx, address, int64(amount))
	if err != nil {
		return 0, p.mapLedgerError(log, err)
	}

	log.WithField("total_staked", updated.TotalStaked).Debug("deposit applied")

	return updated.TotalStaked, nil
}

// Withdraw removes amount from the pool's total staked and returns the new
// total. Only the pool authority may withdraw, and not until the configured
// minimum stake duration has passed since the pool's last deposit.
func (p *Processor) Withdraw(ctx context.Context, poolAddress, caller ed25519.PublicKey, amount uint64, proof *Proof) (newTotal uint64, err error) {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "Withdraw")
	defer func() {
		p.onInstructionResult(tracer, instructionWithdraw, err)
	}()

	address := base58.Encode(poolAddress)

	log := p.log.WithFields(logrus.Fields{
		"method": "Withdraw",
		"pool":   address,
		"caller": base58.Encode(caller),
		"amount": amount,
	})
	tracer.AddAttributes(map[string]interface{}{
		"pool":   address,
		"amount": amount,
	})

	if len(poolAddress) != ed25519.PublicKeySize || len(caller) != ed25519.PublicKeySize {
		return 0, ErrInvalidPublicKey
	}

	mu := p.poolLocks.Get(poolAddress)
	mu.Lock()
	defer mu.Unlock()

	record, err := p.store.Get(ctx, address)
	if err != nil {
		return 0, p.mapLedgerError(log, err)
	}

	if record.Authority != base58.Encode(caller) {
		log.Debug("caller is not the pool authority")
		return 0, ErrUnauthorized
	}

	if !isValidAmount(amount) {
		return 0, ErrInvalidAmount
	}

	minStakeDuration := p.conf.minStakeDuration.Get(ctx)
	if minStakeDuration > 0 && !record.LastDepositAt.IsZero() {
		if staked := time.Since(record.LastDepositAt); staked < minStakeDuration {
			log.WithField("staked_for", staked).Debug("minimum stake duration not met")
			return 0, ErrStakeDurationNotMet
		}
	}

	if err := p.checkProof(ctx, log, instructionWithdraw, proof); err != nil {
		return 0, err
	}

	updated, err := p.store.ApplyDelta(ctx, address, -int64(amount))
	if err != nil {
		return 0, p.mapLedgerError(log, err)
	}

	log.WithField("total_staked", updated.TotalStaked).Debug("withdrawal applied")

	return updated.TotalStaked, nil
}

// GetPool returns the current state of a pool
func (p *Processor) GetPool(ctx context.Context, poolAddress ed25519.PublicKey) (*pool.Record, error) {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "GetPool")
	defer tracer.End()

	if len(poolAddress) != ed25519.PublicKeySize {
		tracer.OnError(ErrInvalidPublicKey)
		return nil, ErrInvalidPublicKey
	}

	record, err := p.store.Get(ctx, base58.Encode(poolAddress))
	if err != nil {
		tracer.OnError(err)
		return nil, err
	}
	return record, nil
}

// GetPoolAccount returns the current state of a pool in the on-chain
// LiquidityPool account layout
func (p *Processor) GetPoolAccount(ctx context.Context, poolAddress ed25519.PublicKey) (*zkpool.LiquidityPoolAccount, error) {
	record, err := p.GetPool(ctx, poolAddress)
	if err != nil {
		return nil, err
	}

	account, err := record.ToAccount()
	if err != nil {
		return nil, errors.Wrap(err, "error converting pool record to account")
	}
	return account, nil
}

// checkProof runs the proof gate. The verifier is bounded by the earlier of
// the caller's deadline and the configured verification timeout.
func (p *Processor) checkProof(ctx context.Context, log *logrus.Entry, instruction string, proof *Proof) error {
	if p.verifier == nil || p.conf.disableProofGate.Get(ctx) {
		return nil
	}

	if proof == nil || len(proof.Data) == 0 {
		log.Debug("missing proof")
		return ErrProofRejected
	}

	verifyCtx, cancel := context.WithTimeout(ctx, p.conf.proofVerificationTimeout.Get(ctx))
	defer cancel()

	type result struct {
		valid bool
		err   error
	}

	// Buffered so the verifier goroutine can always finish, even after we've
	// stopped waiting on it
	resultChan := make(chan result, 1)

	start := time.Now()
	go func() {
		valid, err := p.verifier.Verify(verifyCtx, proof.Data, proof.PublicInputs)
		resultChan <- result{valid, err}
	}()

	select {
	case res := <-resultChan:
		p.metrics.proofVerification.WithLabelValues(instruction).Observe(time.Since(start).Seconds())

		if res.err != nil {
			if verifyCtx.Err() == context.DeadlineExceeded {
				log.Info("proof verification timed out")
				return ErrProofTimeout
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}

			log.WithError(res.err).Info("proof verifier failed")
			return ErrProofRejected
		}

		if !res.valid {
			log.Debug("invalid proof")
			return ErrProofRejected
		}
		return nil
	case <-verifyCtx.Done():
		p.metrics.proofVerification.WithLabelValues(instruction).Observe(time.Since(start).Seconds())

		if ctx.Err() == context.Canceled {
			return ctx.Err()
		}

		log.Info("proof verification timed out")
		return ErrProofTimeout
	}
}

func (p *Processor) mapLedgerError(log *logrus.Entry, err error) error {
	switch err {
	case pool.ErrPoolNotFound, pool.ErrUnderflow, pool.ErrOverflow:
		return err
	default:
		log.WithError(err).Warn("failure accessing pool ledger")
		return errors.Wrap(err, "error accessing pool ledger")
	}
}

func (p *Processor) onInstructionResult(tracer *metrics.MethodTracer, instruction string, err error) {
	p.metrics.instructions.WithLabelValues(instruction, resultLabel(err)).Inc()

	tracer.OnError(err)
	tracer.End()
}

// Amounts are applied to the ledger as signed deltas
func isValidAmount(amount uint64) bool {
	return amount > 0 && amount <= math.MaxInt64
}
