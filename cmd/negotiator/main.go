// Command negotiator wires the negotiation engine's components together and
// runs one request against a vendor shortlist. It exposes /metrics for the
// coordinator's Prometheus instruments and shuts down gracefully on SIGINT
// or SIGTERM, in the same shape the reference services use for their HTTP
// entrypoints, trimmed to what this engine actually needs: a metrics
// endpoint rather than a full API surface, since C8 is invoked directly
// here rather than behind a router.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"iaros/negotiation_engine/internal/collaborator"
	"iaros/negotiation_engine/internal/config"
	"iaros/negotiation_engine/internal/coordinator"
	"iaros/negotiation_engine/internal/events"
	"iaros/negotiation_engine/internal/storage"
	"iaros/negotiation_engine/internal/telemetry"
	"iaros/negotiation_engine/internal/types"
	"iaros/negotiation_engine/internal/vendorassessment"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := telemetry.New()
	defer logger.Sync()

	repo, err := storage.NewPostgresRepository(cfg.Postgres.DSN)
	if err != nil {
		logger.Warn("postgres unavailable, falling back to in-memory repository")
		repo = nil
	}
	var store storage.Repository
	if repo != nil {
		defer repo.Close()
		store = repo
	} else {
		store = &storage.InMemoryRepository{}
	}

	pub := events.Publisher(&events.FakePublisher{})
	metrics := coordinator.NewMetrics()
	coord := coordinator.New(cfg.ToPlan(), collaborator.FallbackClient{}, pub, store, logger, metrics)

	server := &http.Server{Addr: fmt.Sprintf(":%s", cfg.Logging.MetricsPort), Handler: metricsHandler()}
	go func() {
		logger.Info("negotiation engine metrics listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("metrics server failed: %v", err)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Plan.RoundTimeoutSeconds)*time.Second*time.Duration(cfg.Plan.MaxRounds))
	defer cancel()

	req, vendors := sampleRequest()
	outcomes := coord.Negotiate(ctx, req, vendors)

	out, _ := json.MarshalIndent(outcomes, "", "  ")
	fmt.Println(string(out))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down negotiation engine")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}
}

func metricsHandler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}

// sampleRequest builds a demo procurement intent and vendor shortlist so the
// binary has something to negotiate when run without an upstream caller.
func sampleRequest() (types.Request, []types.VendorProfile) {
	req := types.Request{
		RequestID:       "demo-request-1",
		RequesterID:     "buyer-demo",
		Category:        "saas",
		Quantity:        250,
		BudgetMaxAnnual: decimal.NewFromInt(300000),
		Currency:        "USD",
		Cadence:         types.CadencePerSeatPerYear,
		MustHaves:       []string{"sso", "audit-log"},
	}

	vendorARisk := vendorassessment.Assess(vendorassessment.Input{
		CreditRating:            "AA",
		AnnualRevenue:           50_000_000,
		YearsInBusiness:         12,
		InsurancePolicies:       4,
		SLAPercent:              99.5,
		UptimePercent:           99.9,
		LeadTimeDays:            14,
		IncidentCount90d:        0,
		Certifications:          []string{"iso27001", "soc2"},
		RequiredComplianceCount: 2,
		YearsAsPartner:          3,
		StrategicFitTags:        2,
	})

	vendorBRisk := vendorassessment.Assess(vendorassessment.Input{
		CreditRating:            "BBB",
		AnnualRevenue:           8_000_000,
		YearsInBusiness:         6,
		InsurancePolicies:       2,
		SLAPercent:              98.2,
		UptimePercent:           97.5,
		LeadTimeDays:            21,
		IncidentCount90d:        2,
		Certifications:          []string{"iso27001"},
		RequiredComplianceCount: 2,
		YearsAsPartner:          1,
		StrategicFitTags:        1,
	})

	vendors := []types.VendorProfile{
		{
			VendorID:       "vendor-a",
			Name:           "Acme Suite",
			CapabilityTags: []string{"sso", "audit-log", "api"},
			PriceTiers:     map[int]decimal.Decimal{0: decimal.NewFromInt(1400)},
			Guardrails: types.VendorGuardrails{
				PriceFloor:          decimal.NewFromInt(1100),
				PaymentTermsAllowed: []types.PaymentTerms{types.NET30, types.NET45},
			},
			Reliability: types.ReliabilityStats{SLAPercent: 99.5, UptimePercent: 99.9, LeadTimeDays: 14},
			RiskLevel:   vendorARisk.RiskLevel,
		},
		{
			VendorID:       "vendor-b",
			Name:           "Bright Platform",
			CapabilityTags: []string{"sso", "audit-log"},
			PriceTiers:     map[int]decimal.Decimal{0: decimal.NewFromInt(1300)},
			Guardrails: types.VendorGuardrails{
				PriceFloor:          decimal.NewFromInt(1000),
				PaymentTermsAllowed: []types.PaymentTerms{types.NET15, types.NET30},
			},
			Reliability: types.ReliabilityStats{SLAPercent: 98.2, UptimePercent: 97.5, LeadTimeDays: 21},
			RiskLevel:   vendorBRisk.RiskLevel,
		},
	}

	return req, vendors
}
