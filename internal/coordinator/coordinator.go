// Package coordinator implements C8, the Session Coordinator: fans one
// request out across a shortlisted vendor set, running sessions
// in parallel behind a bounded worker pool, then ranks the terminal
// outcomes. The fan-out/WaitGroup shape is grounded on the reference
// engine's parallel-processing pattern; the metrics surface is grounded
// on the reference pricing controller's promauto counters/histograms.
package coordinator

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"

	"iaros/negotiation_engine/internal/collaborator"
	"iaros/negotiation_engine/internal/events"
	"iaros/negotiation_engine/internal/pricing"
	"iaros/negotiation_engine/internal/session"
	"iaros/negotiation_engine/internal/storage"
	"iaros/negotiation_engine/internal/telemetry"
	"iaros/negotiation_engine/internal/types"
)

// Metrics are the coordinator's process-wide Prometheus instruments.
type Metrics struct {
	SessionsStarted    prometheus.Counter
	SessionsTerminated *prometheus.CounterVec
	SessionDuration    prometheus.Histogram
	ActiveSessions     prometheus.Gauge
}

// NewMetrics registers the coordinator's instruments against the default
// registry. Safe to call once per process.
func NewMetrics() *Metrics {
	return &Metrics{
		SessionsStarted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "negotiation_sessions_started_total",
			Help: "Total number of negotiation sessions started",
		}),
		SessionsTerminated: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "negotiation_sessions_terminated_total",
			Help: "Total number of negotiation sessions terminated, by outcome",
		}, []string{"outcome"}),
		SessionDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name: "negotiation_session_duration_seconds",
			Help: "Wall-clock duration of a negotiation session",
		}),
		ActiveSessions: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "negotiation_sessions_active",
			Help: "Number of negotiation sessions currently in flight",
		}),
	}
}

// Coordinator runs one request's sessions across a vendor shortlist.
type Coordinator struct {
	Plan         types.NegotiationPlan
	Collaborator collaborator.JustificationClient
	Events       events.Publisher
	Storage      storage.Repository
	Logger       *telemetry.Logger
	Metrics      *Metrics
}

// New builds a Coordinator. Any of Events/Storage/Metrics may be left
// nil-equivalent (FakePublisher/InMemoryRepository/no metrics) by the
// caller for tests or the demo binary.
func New(plan types.NegotiationPlan, collab collaborator.JustificationClient, pub events.Publisher, repo storage.Repository, logger *telemetry.Logger, metrics *Metrics) *Coordinator {
	return &Coordinator{Plan: plan, Collaborator: collab, Events: pub, Storage: repo, Logger: logger, Metrics: metrics}
}

// Negotiate runs independent sessions against every vendor in parallel,
// bounded by plan.MaxConcurrentSessions with FIFO overflow via a buffered
// channel semaphore, and returns outcomes ranked by buyer utility
// descending, TCO ascending, then vendor reliability descending.
func (c *Coordinator) Negotiate(ctx context.Context, req types.Request, vendors []types.VendorProfile) []types.SessionOutcome {
	poolSize := c.Plan.MaxConcurrentSessions
	if poolSize <= 0 {
		poolSize = 8
	}
	sem := make(chan struct{}, poolSize)

	type indexed struct {
		outcome types.SessionOutcome
		vendor  types.VendorProfile
	}
	results := make([]indexed, len(vendors))

	var wg sync.WaitGroup
	wg.Add(len(vendors))

	c.publish(ctx, events.ShortlistProduced, "", req.RequestID, "", 0, map[string]interface{}{
		"vendor_count": len(vendors),
	})

	for i, vendor := range vendors {
		i, vendor := i, vendor
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()

			results[i] = indexed{outcome: c.runOne(ctx, req, vendor, i), vendor: vendor}
		}()
	}
	wg.Wait()

	outcomes := make([]types.SessionOutcome, len(results))
	vendorByID := make(map[string]types.VendorProfile, len(results))
	for i, r := range results {
		outcomes[i] = r.outcome
		vendorByID[r.vendor.VendorID] = r.vendor
	}

	sort.SliceStable(outcomes, func(a, b int) bool {
		oa, ob := outcomes[a], outcomes[b]
		if oa.BuyerUtility != ob.BuyerUtility {
			return oa.BuyerUtility > ob.BuyerUtility
		}
		if !oa.TCO.Equal(ob.TCO) {
			return oa.TCO.LessThan(ob.TCO)
		}
		return vendorByID[oa.VendorID].Reliability.SLAPercent > vendorByID[ob.VendorID].Reliability.SLAPercent
	})

	return outcomes
}

func (c *Coordinator) runOne(ctx context.Context, req types.Request, vendor types.VendorProfile, index int) types.SessionOutcome {
	sessionID := req.RequestID + ":" + vendor.VendorID
	if c.Metrics != nil {
		c.Metrics.SessionsStarted.Inc()
		c.Metrics.ActiveSessions.Inc()
		defer c.Metrics.ActiveSessions.Dec()
	}

	c.publish(ctx, events.SessionStarted, sessionID, req.RequestID, vendor.VendorID, 0, map[string]interface{}{
		"list_price": vendor.ListPrice(req.Quantity).String(),
	})

	start := time.Now()
	driver := session.NewDriver(req, vendor, c.Plan, index, c.Collaborator, c.Events, c.Logger)
	state := driver.Run(ctx, sessionID)
	duration := time.Since(start)

	if c.Metrics != nil {
		c.Metrics.SessionDuration.Observe(duration.Seconds())
		c.Metrics.SessionsTerminated.WithLabelValues(string(state.Outcome)).Inc()
	}

	if c.Storage != nil {
		_ = c.Storage.SaveTerminal(ctx, state)
	}

	var finalOffer *types.OfferComponents
	buyerUtility := 0.0
	tco := decimal.Zero
	if state.FinalOfferIndex >= 0 && state.FinalOfferIndex < len(state.RoundMemories) {
		final := state.RoundMemories[state.FinalOfferIndex]
		finalOffer = &final.Offer
		buyerUtility = final.Utility
		tco = pricing.TCO(final.Offer, pricing.Default())
	}

	c.publish(ctx, events.SessionTerminated, sessionID, req.RequestID, vendor.VendorID, state.Round, map[string]interface{}{
		"outcome":          string(state.Outcome),
		"outcome_reason":   state.OutcomeReason,
		"savings_achieved": state.SavingsAchieved.String(),
	})

	return types.SessionOutcome{
		SessionID:       sessionID,
		VendorID:        vendor.VendorID,
		Outcome:         state.Outcome,
		OutcomeReason:   state.OutcomeReason,
		FinalOffer:      finalOffer,
		BuyerUtility:    buyerUtility,
		TCO:             tco,
		SavingsAchieved: state.SavingsAchieved,
		Rounds:          state.Round,
	}
}

func (c *Coordinator) publish(ctx context.Context, name, sessionID, requestID, vendorID string, round int, payload map[string]interface{}) {
	if c.Events == nil {
		return
	}
	_ = c.Events.Publish(ctx, events.Event{
		Name:      name,
		SessionID: sessionID,
		RequestID: requestID,
		VendorID:  vendorID,
		Round:     round,
		Payload:   payload,
	})
}
