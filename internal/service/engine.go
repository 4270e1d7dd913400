// Package service combines classification, segmentation, fingerprinting and
// the trust store into a single address analysis.
package service

import (
	"context"
	stderrors "errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/address-guard/internal/classifier"
	"github.com/address-guard/internal/config"
	"github.com/address-guard/internal/diff"
	apperrors "github.com/address-guard/internal/errors"
	"github.com/address-guard/internal/fingerprint"
	"github.com/address-guard/internal/hasher"
	"github.com/address-guard/internal/logging"
	"github.com/address-guard/internal/metrics"
	"github.com/address-guard/internal/segment"
	"github.com/address-guard/internal/store"
	"github.com/address-guard/internal/types"
)

// DefaultMinAnalyzeLength is the shortest trimmed input worth analyzing
const DefaultMinAnalyzeLength = 20

// ErrStaleAnalysis is wrapped by the error AnalyzeLatest returns when a
// newer request was issued while it ran
var ErrStaleAnalysis = stderrors.New("stale analysis")

// Options configures an Engine
type Options struct {
	Policy           classifier.Policy
	PrefixLen        int
	SuffixLen        int
	GridSize         int
	MinAnalyzeLength int
	Logger           *logging.Logger
	Now              func() time.Time
	NewID            func() string
}

// DefaultOptions returns the 26..80 policy, 6/6 segments and an 8x8 grid
func DefaultOptions() Options {
	return Options{
		Policy:           classifier.DefaultPolicy(),
		PrefixLen:        segment.DefaultPrefixLen,
		SuffixLen:        segment.DefaultSuffixLen,
		GridSize:         fingerprint.DefaultGridSize,
		MinAnalyzeLength: DefaultMinAnalyzeLength,
	}
}

// OptionsFromConfig maps the policy section of the configuration
func OptionsFromConfig(cfg config.PolicyConfig, logger *logging.Logger) Options {
	return Options{
		Policy:           classifier.Policy{MinLength: cfg.MinLength, MaxLength: cfg.MaxLength},
		PrefixLen:        cfg.PrefixLen,
		SuffixLen:        cfg.SuffixLen,
		GridSize:         cfg.GridSize,
		MinAnalyzeLength: cfg.MinAnalyzeLength,
		Logger:           logger,
	}
}

// Lookalike is a trusted address that shares the candidate's visible
// prefix and suffix but differs in the middle
type Lookalike struct {
	Address    string  `json:"address"`
	Label      *string `json:"label,omitempty"`
	Mismatches []int   `json:"mismatches"`
}

// Result is one complete analysis
type Result struct {
	Check       types.AddressCheck       `json:"check"`
	Valid       bool                     `json:"valid"`
	Trusted     bool                     `json:"trusted"`
	TrustEntry  *types.TrustEntry        `json:"trustEntry,omitempty"`
	TrustScore  int                      `json:"trustScore"`
	Fingerprint *fingerprint.Fingerprint `json:"fingerprint"`
	Lookalikes  []Lookalike              `json:"lookalikes"`
	UnlockHint  string                   `json:"unlockHint"`
	// Saved is false when the history write to the backend failed
	Saved bool `json:"saved"`
}

// Engine runs analyses against a hasher and a store
type Engine struct {
	hasher       *hasher.Hasher
	fingerprints *fingerprint.Generator
	store        *store.Store
	opts         Options
	logger       *logging.Logger

	seq      Sequencer
	commitMu sync.Mutex
}

// NewEngine creates an engine. Zero-valued options fall back to defaults.
func NewEngine(h *hasher.Hasher, st *store.Store, opts Options) (*Engine, error) {
	def := DefaultOptions()
	if opts.Policy == (classifier.Policy{}) {
		opts.Policy = def.Policy
	}
	if err := opts.Policy.Validate(); err != nil {
		return nil, apperrors.NewInvalidParameterError("policy", err.Error())
	}
	if opts.PrefixLen < 0 || opts.SuffixLen < 0 {
		return nil, apperrors.NewInvalidParameterError("segments", "prefix and suffix lengths must be non-negative")
	}
	if opts.PrefixLen == 0 && opts.SuffixLen == 0 {
		opts.PrefixLen, opts.SuffixLen = def.PrefixLen, def.SuffixLen
	}
	if opts.MinAnalyzeLength <= 0 {
		opts.MinAnalyzeLength = def.MinAnalyzeLength
	}
	if opts.Logger == nil {
		opts.Logger = logging.GetGlobalLogger()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}

	if h.Blocked() {
		metrics.HashingBlocked.Set(1)
	} else {
		metrics.HashingBlocked.Set(0)
	}

	return &Engine{
		hasher:       h,
		fingerprints: fingerprint.NewGenerator(h, opts.GridSize),
		store:        st,
		opts:         opts,
		logger:       opts.Logger,
	}, nil
}

// Store returns the engine's trust and history store
func (e *Engine) Store() *store.Store { return e.store }

// Sequencer returns the engine's request sequencer
func (e *Engine) Sequencer() *Sequencer { return &e.seq }

// Policy returns the validity policy in use
func (e *Engine) Policy() classifier.Policy { return e.opts.Policy }

// MinAnalyzeLength is the shortest trimmed input Analyze accepts
func (e *Engine) MinAnalyzeLength() int { return e.opts.MinAnalyzeLength }

// Blocked returns the hashing error that blocks every analysis, or nil
func (e *Engine) Blocked() error {
	return e.hasher.Err()
}

// VerifyHashing re-runs the digest integrity checks. A failure blocks the
// engine from then on.
func (e *Engine) VerifyHashing(ctx context.Context) error {
	err := e.hasher.Verify(ctx)
	if apperrors.IsBlocking(err) {
		metrics.HashingBlocked.Set(1)
	}
	return err
}

// Segments splits address with the configured prefix and suffix lengths
func (e *Engine) Segments(address string) segment.Segments {
	return segment.Split(address, e.opts.PrefixLen, e.opts.SuffixLen)
}

// Analyze evaluates input and records it in history. Input shorter than the
// minimum analyze length after trimming yields (nil, nil).
func (e *Engine) Analyze(ctx context.Context, input string) (*Result, error) {
	res, err := e.evaluate(ctx, input)
	if res == nil || err != nil {
		return res, err
	}

	e.commitMu.Lock()
	defer e.commitMu.Unlock()
	e.commit(ctx, res)
	return res, nil
}

// AnalyzeLatest is Analyze for debounced input: the result is committed
// only while seq is still the newest sequence number issued by Sequencer.
func (e *Engine) AnalyzeLatest(ctx context.Context, seq uint64, input string) (*Result, error) {
	res, err := e.evaluate(ctx, input)
	if err != nil {
		return nil, err
	}

	e.commitMu.Lock()
	defer e.commitMu.Unlock()

	if latest := e.seq.Latest(); !e.seq.IsLatest(seq) {
		metrics.StaleAnalyses.Inc()
		staleErr := apperrors.NewStaleAnalysisError(seq, latest)
		staleErr.Cause = ErrStaleAnalysis
		return nil, staleErr
	}
	if res == nil {
		return nil, nil
	}
	e.commit(ctx, res)
	return res, nil
}

// Inspect evaluates input without touching history
func (e *Engine) Inspect(ctx context.Context, input string) (*Result, error) {
	return e.evaluate(ctx, input)
}

func (e *Engine) evaluate(ctx context.Context, input string) (*Result, error) {
	address := strings.TrimSpace(input)
	if len(address) < e.opts.MinAnalyzeLength {
		return nil, nil
	}

	if err := e.VerifyHashing(ctx); err != nil {
		if apperrors.IsBlocking(err) {
			e.logger.WithError(err).Error("hashing unavailable, analysis blocked")
		}
		return nil, err
	}

	fp, err := e.fingerprints.FromAddress(ctx, address)
	if err != nil {
		if apperrors.IsBlocking(err) {
			e.logger.WithError(err).Error("hashing unavailable, analysis blocked")
		}
		return nil, err
	}

	network := classifier.Classify(address)
	valid := e.opts.Policy.IsValid(address)
	seg := e.Segments(address)

	snap := e.store.Snapshot()
	entry, trusted := snap.LookupTrust(address)

	res := &Result{
		Check: types.AddressCheck{
			ID:           e.opts.NewID(),
			Address:      address,
			Timestamp:    e.opts.Now().UnixMilli(),
			Network:      network,
			IsSuspicious: !valid,
			Prefix:       seg.Prefix,
			Middle:       seg.Middle,
			Suffix:       seg.Suffix,
			Fingerprint:  address,
		},
		Valid:       valid,
		Trusted:     trusted,
		TrustScore:  store.TrustScoreFor(address, valid, trusted),
		Fingerprint: fp,
		Lookalikes:  e.lookalikes(snap, address, seg),
		UnlockHint:  UnlockKey(address),
	}
	if trusted {
		res.TrustEntry = &entry
	}
	return res, nil
}

// commit must be called with commitMu held
func (e *Engine) commit(ctx context.Context, res *Result) {
	log := e.logger.WithAddress(res.Check.Address).WithFields(map[string]interface{}{
		"network": string(res.Check.Network),
		"score":   res.TrustScore,
	})

	if err := e.store.RecordCheck(ctx, res.Check); err != nil {
		log.WithError(err).Warn("history not persisted")
		return
	}
	res.Saved = true
	metrics.AnalysesTotal.WithLabelValues(string(res.Check.Network), metrics.Verdict(res.Valid, res.Trusted)).Inc()

	if len(res.Lookalikes) > 0 {
		metrics.LookalikesDetected.Inc()
		log.WithField("lookalikes", len(res.Lookalikes)).Warn("candidate resembles a trusted address")
		return
	}
	log.Debug("address analyzed")
}

func (e *Engine) lookalikes(snap *store.Snapshot, address string, seg segment.Segments) []Lookalike {
	out := []Lookalike{}
	if seg.Middle == "" {
		return out
	}

	for _, trusted := range snap.TrustedAddresses() {
		if trusted == address || len(trusted) <= e.opts.PrefixLen+e.opts.SuffixLen {
			continue
		}
		other := segment.Split(trusted, e.opts.PrefixLen, e.opts.SuffixLen)
		if !strings.EqualFold(other.Prefix, seg.Prefix) || !strings.EqualFold(other.Suffix, seg.Suffix) {
			continue
		}
		if strings.EqualFold(trusted, address) {
			// a case variant is a different key but not a poisoning attempt
			continue
		}
		entry, _ := snap.LookupTrust(trusted)
		out = append(out, Lookalike{
			Address:    trusted,
			Label:      entry.Label,
			Mismatches: diff.Mismatches(diff.Compare(trusted, address, true)),
		})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Address < out[j].Address })
	return out
}

// Trust adds the trimmed address to the trust list. The key stays
// case-sensitive, matching the lookup Analyze does.
func (e *Engine) Trust(ctx context.Context, address string, label *string) error {
	address = strings.TrimSpace(address)
	if address == "" {
		return apperrors.NewInvalidParameterError("address", "must not be empty")
	}
	return e.store.SetTrusted(ctx, address, label)
}

// Untrust removes the trimmed address from the trust list
func (e *Engine) Untrust(ctx context.Context, address string) error {
	address = strings.TrimSpace(address)
	if address == "" {
		return apperrors.NewInvalidParameterError("address", "must not be empty")
	}
	return e.store.UnsetTrusted(ctx, address)
}
