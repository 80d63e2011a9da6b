package service

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/rosverk/rosreg/internal/domain/models"
	"github.com/rosverk/rosreg/pkg/constants"
)

// Alert is one finding produced by the rule set. Alerts are computed on
// demand and never persisted.
type Alert struct {
	Rule        constants.AlertRule     `json:"rule"`
	Severity    constants.AlertSeverity `json:"severity"`
	SubjectType constants.SubjectType   `json:"subject_type"`
	SubjectID   uuid.UUID               `json:"subject_id"`
	SubjectName string                  `json:"subject_name"`
	Message     string                  `json:"message"`
}

// AlertSnapshot is the record set one evaluation runs over. Risks must be
// the live set; actions, suppliers and reviews are passed unfiltered and
// the rules decide what fires.
type AlertSnapshot struct {
	Risks     []*models.Risk
	Actions   []*models.Action
	Suppliers []*models.Supplier
	Reviews   []*models.Review
}

// RuleSet evaluates the alerting rules over a snapshot. Evaluation is
// pure: the same snapshot and clock always produce the same alerts, and
// at most one alert exists per (rule, subject) pair.
type RuleSet struct {
	expiryLookahead time.Duration
}

// NewRuleSet creates a RuleSet with the given contract-expiry lookahead
// window. A non-positive window falls back to the 30-day default.
func NewRuleSet(expiryLookahead time.Duration) RuleSet {
	if expiryLookahead <= 0 {
		expiryLookahead = constants.DefaultExpiryLookahead
	}
	return RuleSet{expiryLookahead: expiryLookahead}
}

// ExpiryLookahead returns the configured contract-expiry window.
func (rs RuleSet) ExpiryLookahead() time.Duration {
	return rs.expiryLookahead
}

// Evaluate runs all rules against the snapshot at the given instant and
// returns the alerts sorted by severity, most urgent first. Ties keep
// rule evaluation order, which follows snapshot order and is stable
// across evaluations.
func (rs RuleSet) Evaluate(snap AlertSnapshot, now time.Time) []Alert {
	var alerts []Alert
	seen := make(map[string]struct{})

	add := func(a Alert) {
		key := string(a.Rule) + ":" + a.SubjectID.String()
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}
		alerts = append(alerts, a)
	}

	liveRisks := make(map[uuid.UUID]*models.Risk, len(snap.Risks))
	openActions := make(map[uuid.UUID]int, len(snap.Risks))
	for _, risk := range snap.Risks {
		if risk != nil && risk.IsLive() {
			liveRisks[risk.ID] = risk
		}
	}
	for _, action := range snap.Actions {
		if action == nil {
			continue
		}
		if action.IsOpen() {
			openActions[action.RiskID]++
		}
		if action.IsOverdue(now) {
			add(Alert{
				Rule:        constants.AlertRuleActionOverdue,
				Severity:    constants.AlertSeverityDanger,
				SubjectType: constants.SubjectTypeAction,
				SubjectID:   action.ID,
				SubjectName: action.Title,
				Message:     fmt.Sprintf("Action %q is overdue, due %s and still %s", action.Title, action.DueDate.Format("2006-01-02"), action.Status),
			})
		}
	}

	for _, supplier := range snap.Suppliers {
		if supplier == nil {
			continue
		}
		switch {
		case supplier.ContractExpired(now):
			add(Alert{
				Rule:        constants.AlertRuleContractExpiring,
				Severity:    constants.AlertSeverityDanger,
				SubjectType: constants.SubjectTypeSupplier,
				SubjectID:   supplier.ID,
				SubjectName: supplier.Name,
				Message:     fmt.Sprintf("Contract with %q expired on %s", supplier.Name, supplier.ContractExpiry.Format("2006-01-02")),
			})
		case supplier.ContractExpiresWithin(now, rs.expiryLookahead):
			add(Alert{
				Rule:        constants.AlertRuleContractExpiring,
				Severity:    constants.AlertSeverityWarning,
				SubjectType: constants.SubjectTypeSupplier,
				SubjectID:   supplier.ID,
				SubjectName: supplier.Name,
				Message:     fmt.Sprintf("Contract with %q expires on %s", supplier.Name, supplier.ContractExpiry.Format("2006-01-02")),
			})
		}
	}

	for _, risk := range snap.Risks {
		if risk == nil || !risk.IsLive() || !risk.IsHighBand() {
			continue
		}
		if openActions[risk.ID] > 0 {
			continue
		}
		add(Alert{
			Rule:        constants.AlertRuleHighUnmitigatedRisk,
			Severity:    constants.AlertSeverityDanger,
			SubjectType: constants.SubjectTypeRisk,
			SubjectID:   risk.ID,
			SubjectName: risk.Title,
			Message:     fmt.Sprintf("Risk %q has score %d with no open remediation action", risk.Title, risk.Current.Score()),
		})
	}

	for _, review := range snap.Reviews {
		if review == nil || !review.IsOverdue(now) {
			continue
		}
		risk, ok := liveRisks[review.RiskID]
		if !ok {
			continue
		}
		add(Alert{
			Rule:        constants.AlertRuleReviewOverdue,
			Severity:    constants.AlertSeverityWarning,
			SubjectType: constants.SubjectTypeReview,
			SubjectID:   review.ID,
			SubjectName: risk.Title,
			Message:     fmt.Sprintf("Review of risk %q was scheduled for %s and has not been conducted", risk.Title, review.ScheduledDate.Format("2006-01-02")),
		})
	}

	sort.SliceStable(alerts, func(i, j int) bool {
		return constants.SeverityRank(alerts[i].Severity) < constants.SeverityRank(alerts[j].Severity)
	})
	return alerts
}
