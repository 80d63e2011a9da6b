package service_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rosverk/rosreg/internal/domain/models"
	"github.com/rosverk/rosreg/internal/domain/service"
	"github.com/rosverk/rosreg/pkg/constants"
)

var evalNow = time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)

func timePtr(t time.Time) *time.Time { return &t }

func countByRule(alerts []service.Alert, rule constants.AlertRule) int {
	n := 0
	for _, a := range alerts {
		if a.Rule == rule {
			n++
		}
	}
	return n
}

func TestEvaluateActionOverdue(t *testing.T) {
	risk := newTestRisk(2, 2)

	overdue := models.NewAction(risk.ID, "Patch firewalls", constants.ActionPriorityHigh, "ops")
	overdue.DueDate = timePtr(evalNow.Add(-24 * time.Hour))

	done := models.NewAction(risk.ID, "Rotate keys", constants.ActionPriorityMedium, "ops")
	done.DueDate = timePtr(evalNow.Add(-48 * time.Hour))
	done.SetStatus(constants.ActionStatusDone, evalNow.Add(-36*time.Hour))

	noDue := models.NewAction(risk.ID, "Review logs", constants.ActionPriorityLow, "ops")

	future := models.NewAction(risk.ID, "Upgrade core router", constants.ActionPriorityHigh, "ops")
	future.DueDate = timePtr(evalNow.Add(72 * time.Hour))

	ruleSet := service.NewRuleSet(0)
	alerts := ruleSet.Evaluate(service.AlertSnapshot{
		Risks:   []*models.Risk{risk},
		Actions: []*models.Action{overdue, done, noDue, future},
	}, evalNow)

	require.Equal(t, 1, countByRule(alerts, constants.AlertRuleActionOverdue))

	alert := alerts[0]
	assert.Equal(t, constants.AlertRuleActionOverdue, alert.Rule)
	assert.Equal(t, constants.AlertSeverityDanger, alert.Severity)
	assert.Equal(t, constants.SubjectTypeAction, alert.SubjectType)
	assert.Equal(t, overdue.ID, alert.SubjectID)
	assert.Contains(t, alert.Message, "Patch firewalls")
}

func TestEvaluateContractExpiring(t *testing.T) {
	inWindow := models.NewSupplier("Nordic Fiber AS", "transport", 4)
	inWindow.ContractExpiry = timePtr(evalNow.Add(10 * 24 * time.Hour))

	outside := models.NewSupplier("Kraft Drift AS", "power", 3)
	outside.ContractExpiry = timePtr(evalNow.Add(90 * 24 * time.Hour))

	expired := models.NewSupplier("Telia Installasjon", "field service", 2)
	expired.ContractExpiry = timePtr(evalNow.Add(-5 * 24 * time.Hour))

	noExpiry := models.NewSupplier("Intern Drift", "operations", 1)

	ruleSet := service.NewRuleSet(0)
	alerts := ruleSet.Evaluate(service.AlertSnapshot{
		Suppliers: []*models.Supplier{inWindow, outside, expired, noExpiry},
	}, evalNow)

	require.Equal(t, 2, countByRule(alerts, constants.AlertRuleContractExpiring))

	bySubject := make(map[uuid.UUID]service.Alert)
	for _, a := range alerts {
		bySubject[a.SubjectID] = a
	}

	assert.Equal(t, constants.AlertSeverityWarning, bySubject[inWindow.ID].Severity)
	assert.Equal(t, constants.AlertSeverityDanger, bySubject[expired.ID].Severity)
	assert.NotContains(t, bySubject, outside.ID)
	assert.NotContains(t, bySubject, noExpiry.ID)
}

func TestEvaluateContractExpiringCustomWindow(t *testing.T) {
	supplier := models.NewSupplier("Nordic Fiber AS", "transport", 4)
	supplier.ContractExpiry = timePtr(evalNow.Add(60 * 24 * time.Hour))

	snap := service.AlertSnapshot{Suppliers: []*models.Supplier{supplier}}

	assert.Empty(t, service.NewRuleSet(0).Evaluate(snap, evalNow), "outside the default 30-day window")
	assert.Len(t, service.NewRuleSet(90*24*time.Hour).Evaluate(snap, evalNow), 1, "inside a widened window")
}

func TestEvaluateHighUnmitigatedRisk(t *testing.T) {
	unmitigated := newTestRisk(5, 4)

	mitigated := newTestRisk(5, 5)
	openAction := models.NewAction(mitigated.ID, "Install redundant link", constants.ActionPriorityHigh, "ops")

	onlyDone := newTestRisk(4, 5)
	doneAction := models.NewAction(onlyDone.ID, "Document incident", constants.ActionPriorityLow, "ops")
	doneAction.SetStatus(constants.ActionStatusDone, evalNow.Add(-time.Hour))

	belowBand := newTestRisk(4, 4)

	closed := newTestRisk(5, 5)
	closed.Close(evalNow.Add(-time.Hour))

	ruleSet := service.NewRuleSet(0)
	alerts := ruleSet.Evaluate(service.AlertSnapshot{
		Risks:   []*models.Risk{unmitigated, mitigated, onlyDone, belowBand, closed},
		Actions: []*models.Action{openAction, doneAction},
	}, evalNow)

	require.Equal(t, 2, countByRule(alerts, constants.AlertRuleHighUnmitigatedRisk))

	subjects := make(map[uuid.UUID]bool)
	for _, a := range alerts {
		if a.Rule == constants.AlertRuleHighUnmitigatedRisk {
			subjects[a.SubjectID] = true
			assert.Equal(t, constants.AlertSeverityDanger, a.Severity)
		}
	}
	assert.True(t, subjects[unmitigated.ID], "high risk without actions fires")
	assert.True(t, subjects[onlyDone.ID], "completed actions do not mitigate")
	assert.False(t, subjects[mitigated.ID], "open action suppresses the alert")
	assert.False(t, subjects[belowBand.ID], "score 16 is below the high band")
	assert.False(t, subjects[closed.ID], "closed risks never alert")
}

func TestEvaluateReviewOverdue(t *testing.T) {
	risk := newTestRisk(3, 3)

	overdue := models.NewReview(risk.ID, evalNow.Add(-7*24*time.Hour), "sikkerhetsleder")
	conducted := models.NewReview(risk.ID, evalNow.Add(-14*24*time.Hour), "sikkerhetsleder")
	conducted.Complete(evalNow.Add(-13*24*time.Hour), "no change")
	upcoming := models.NewReview(risk.ID, evalNow.Add(7*24*time.Hour), "sikkerhetsleder")

	closedRisk := newTestRisk(3, 3)
	closedRisk.Close(evalNow.Add(-time.Hour))
	orphaned := models.NewReview(closedRisk.ID, evalNow.Add(-7*24*time.Hour), "sikkerhetsleder")

	ruleSet := service.NewRuleSet(0)
	alerts := ruleSet.Evaluate(service.AlertSnapshot{
		Risks:   []*models.Risk{risk, closedRisk},
		Reviews: []*models.Review{overdue, conducted, upcoming, orphaned},
	}, evalNow)

	require.Equal(t, 1, countByRule(alerts, constants.AlertRuleReviewOverdue))
	alert := alerts[0]
	assert.Equal(t, overdue.ID, alert.SubjectID)
	assert.Equal(t, constants.AlertSeverityWarning, alert.Severity)
	assert.Equal(t, risk.Title, alert.SubjectName)
}

func TestEvaluateSeverityOrdering(t *testing.T) {
	risk := newTestRisk(5, 5)

	supplier := models.NewSupplier("Nordic Fiber AS", "transport", 4)
	supplier.ContractExpiry = timePtr(evalNow.Add(10 * 24 * time.Hour))

	review := models.NewReview(risk.ID, evalNow.Add(-24*time.Hour), "sikkerhetsleder")

	ruleSet := service.NewRuleSet(0)
	alerts := ruleSet.Evaluate(service.AlertSnapshot{
		Risks:     []*models.Risk{risk},
		Suppliers: []*models.Supplier{supplier},
		Reviews:   []*models.Review{review},
	}, evalNow)

	require.Len(t, alerts, 3)
	for i := 1; i < len(alerts); i++ {
		assert.LessOrEqual(t,
			constants.SeverityRank(alerts[i-1].Severity),
			constants.SeverityRank(alerts[i].Severity),
			"alerts sorted most urgent first")
	}
	assert.Equal(t, constants.AlertSeverityDanger, alerts[0].Severity)
}

func TestEvaluateEmptySnapshot(t *testing.T) {
	alerts := service.NewRuleSet(0).Evaluate(service.AlertSnapshot{}, evalNow)
	assert.Empty(t, alerts)
}

func TestEvaluateIsIdempotent(t *testing.T) {
	risk := newTestRisk(5, 5)
	action := models.NewAction(risk.ID, "Patch firewalls", constants.ActionPriorityHigh, "ops")
	action.DueDate = timePtr(evalNow.Add(-24 * time.Hour))
	supplier := models.NewSupplier("Nordic Fiber AS", "transport", 4)
	supplier.ContractExpiry = timePtr(evalNow.Add(10 * 24 * time.Hour))

	snap := service.AlertSnapshot{
		Risks:     []*models.Risk{risk},
		Actions:   []*models.Action{action},
		Suppliers: []*models.Supplier{supplier},
	}

	ruleSet := service.NewRuleSet(0)
	first := ruleSet.Evaluate(snap, evalNow)
	second := ruleSet.Evaluate(snap, evalNow)

	assert.Equal(t, first, second)
}

func TestEvaluateOneAlertPerRuleAndSubject(t *testing.T) {
	risk := newTestRisk(5, 5)
	action := models.NewAction(risk.ID, "Patch firewalls", constants.ActionPriorityHigh, "ops")
	action.DueDate = timePtr(evalNow.Add(-24 * time.Hour))

	// The same records passed twice still produce one alert per (rule, subject).
	alerts := service.NewRuleSet(0).Evaluate(service.AlertSnapshot{
		Risks:   []*models.Risk{risk, risk},
		Actions: []*models.Action{action, action},
	}, evalNow)

	assert.Equal(t, 1, countByRule(alerts, constants.AlertRuleActionOverdue))
	assert.Equal(t, 1, countByRule(alerts, constants.AlertRuleHighUnmitigatedRisk))
}

func TestRuleSetDefaultLookahead(t *testing.T) {
	assert.Equal(t, constants.DefaultExpiryLookahead, service.NewRuleSet(0).ExpiryLookahead())
	assert.Equal(t, 14*24*time.Hour, service.NewRuleSet(14*24*time.Hour).ExpiryLookahead())
}
