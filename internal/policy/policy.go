// Package policy implements C3, the Policy & Guardrail Checker: two
// independent pure validators producing structured violation lists.
// run_mode is a field on the Checker, never global state.
package policy

import (
	"fmt"
	"time"

	"iaros/negotiation_engine/internal/types"
)

const (
	SeverityHard = "HARD"
	SeveritySoft = "SOFT"
)

// Checker holds the run mode governing how violations are handled
// downstream; the check functions themselves never branch on it.
type Checker struct {
	Mode types.RunMode
}

// NewChecker constructs a Checker defaulting to simulation mode.
func NewChecker(mode types.RunMode) Checker {
	if mode == "" {
		mode = types.RunModeSimulation
	}
	return Checker{Mode: mode}
}

// CheckStatic validates the request against a vendor before any offer
// exists: compliance and region are both knowable from the request and
// vendor profile alone. Budget cap and timeline need a priced offer and
// stay in CheckPolicy. Used by C7 as the pre-round refusal gate so a
// vendor that can never satisfy the request is rejected before a single
// round runs.
func (c Checker) CheckStatic(req types.Request, vendor types.VendorProfile) []types.Violation {
	var violations []types.Violation

	if missing := missingCertifications(req, vendor); missing != "" {
		violations = append(violations, types.Violation{
			Kind: "policy", Code: "missing_certification",
			Message:  fmt.Sprintf("missing_certification: %s", missing),
			Severity: SeverityHard,
		})
	}

	if req.RequiredRegion != "" && !supportsRegion(vendor, req.RequiredRegion) {
		violations = append(violations, types.Violation{
			Kind: "policy", Code: "unsupported_region",
			Message:  fmt.Sprintf("vendor does not support region %s", req.RequiredRegion),
			Severity: SeverityHard,
		})
	}

	return violations
}

// CheckPolicy validates an offer against the request's buyer-side
// constraints: budget cap, compliance, region, and timeline.
func (c Checker) CheckPolicy(req types.Request, vendor types.VendorProfile, score types.OfferScore) []types.Violation {
	var violations []types.Violation

	if req.PolicyBudgetCap.IsPositive() && score.TCO.GreaterThan(req.PolicyBudgetCap) {
		violations = append(violations, types.Violation{
			Kind: "policy", Code: "budget_cap_exceeded",
			Message:  fmt.Sprintf("tco %s exceeds budget cap %s", score.TCO, req.PolicyBudgetCap),
			Severity: SeverityHard,
		})
	}

	if score.Blocking {
		missing := missingCertifications(req, vendor)
		violations = append(violations, types.Violation{
			Kind: "policy", Code: "missing_certification",
			Message:  fmt.Sprintf("missing_certification: %s", missing),
			Severity: SeverityHard,
		})
	}

	if req.RequiredRegion != "" && !supportsRegion(vendor, req.RequiredRegion) {
		violations = append(violations, types.Violation{
			Kind: "policy", Code: "unsupported_region",
			Message:  fmt.Sprintf("vendor does not support region %s", req.RequiredRegion),
			Severity: SeverityHard,
		})
	}

	if req.Timeline != nil {
		remaining := time.Until(*req.Timeline)
		leadTime := time.Duration(vendor.Reliability.LeadTimeDays) * 24 * time.Hour
		if remaining < leadTime {
			violations = append(violations, types.Violation{
				Kind: "policy", Code: "timeline_violation",
				Message:  "vendor lead time exceeds remaining timeline",
				Severity: SeveritySoft,
			})
		}
	}

	return violations
}

// CheckGuardrail validates an offer against the vendor's own constraints:
// price floor, allowed payment terms, allowed term lengths.
func (c Checker) CheckGuardrail(offer types.OfferComponents, vendor types.VendorProfile) []types.Violation {
	var violations []types.Violation

	if offer.UnitPrice.LessThan(vendor.Guardrails.PriceFloor) {
		violations = append(violations, types.Violation{
			Kind: "guardrail", Code: "below_floor",
			Message:  fmt.Sprintf("unit_price %s below floor %s", offer.UnitPrice, vendor.Guardrails.PriceFloor),
			Severity: SeverityHard,
		})
	}

	if len(vendor.Guardrails.PaymentTermsAllowed) > 0 && !containsPayment(vendor.Guardrails.PaymentTermsAllowed, offer.Payment) {
		violations = append(violations, types.Violation{
			Kind: "guardrail", Code: "payment_term_not_allowed",
			Message:  fmt.Sprintf("payment term %s not in vendor's allowed set", offer.Payment),
			Severity: SeverityHard,
		})
	}

	if len(vendor.Guardrails.TermMonthsAllowed) > 0 && !containsInt(vendor.Guardrails.TermMonthsAllowed, offer.TermMonths) {
		violations = append(violations, types.Violation{
			Kind: "guardrail", Code: "term_months_not_offered",
			Message:  fmt.Sprintf("term_months %d outside vendor-offered set", offer.TermMonths),
			Severity: SeverityHard,
		})
	}

	return violations
}

// HasHard reports whether the violation list contains at least one HARD
// severity entry.
func HasHard(violations []types.Violation) bool {
	for _, v := range violations {
		if v.Severity == SeverityHard {
			return true
		}
	}
	return false
}

// FirstHardReason returns the message of the first HARD violation in the
// list, or "" if none. Used to populate SessionState.OutcomeReason with
// the specific cause of an enforce-mode rejection.
func FirstHardReason(violations []types.Violation) string {
	for _, v := range violations {
		if v.Severity == SeverityHard {
			return v.Message
		}
	}
	return ""
}

func missingCertifications(req types.Request, vendor types.VendorProfile) string {
	held := make(map[string]bool, len(vendor.Certifications))
	for _, c := range vendor.Certifications {
		held[c] = true
	}
	for _, required := range req.ComplianceRequirements {
		if !held[required] {
			return required
		}
	}
	return ""
}

func supportsRegion(vendor types.VendorProfile, region string) bool {
	for _, r := range vendor.Regions {
		if r == region {
			return true
		}
	}
	return false
}

func containsPayment(allowed []types.PaymentTerms, term types.PaymentTerms) bool {
	for _, a := range allowed {
		if a == term {
			return true
		}
	}
	return false
}

func containsInt(allowed []int, v int) bool {
	for _, a := range allowed {
		if a == v {
			return true
		}
	}
	return false
}
