// Package constants defines system-wide constants for the rosreg service.
// This package provides type-safe constant definitions used across all modules.
package constants

import "time"

// ================================================================================
// Rating Scale Constants
// ================================================================================

const (
	// RatingMin is the lowest valid likelihood/consequence rating
	RatingMin = 1

	// RatingMax is the highest valid likelihood/consequence rating
	RatingMax = 5

	// MatrixSize is the number of cells per axis of the risk matrix
	MatrixSize = RatingMax - RatingMin + 1

	// ScoreMin is the lowest possible risk score (1 x 1)
	ScoreMin = RatingMin * RatingMin

	// ScoreMax is the highest possible risk score (5 x 5)
	ScoreMax = RatingMax * RatingMax

	// HighBandFloor is the lowest score in the high band (17-25)
	HighBandFloor = 17
)

// ================================================================================
// Risk Level and Color Constants
// ================================================================================

// RiskLevel is the ordinal classification derived from a risk score
type RiskLevel string

const (
	// RiskLevelAcceptable covers scores 1-4
	RiskLevelAcceptable RiskLevel = "acceptable"

	// RiskLevelLow covers scores 5-9
	RiskLevelLow RiskLevel = "low"

	// RiskLevelMedium covers scores 10-16
	RiskLevelMedium RiskLevel = "medium"

	// RiskLevelHigh covers scores 17-25
	RiskLevelHigh RiskLevel = "high"
)

// RiskColor is the display token paired with a risk level
type RiskColor string

const (
	RiskColorGreen  RiskColor = "green"
	RiskColorYellow RiskColor = "yellow"
	RiskColorOrange RiskColor = "orange"
	RiskColorRed    RiskColor = "red"
)

// LevelColor returns the display color paired with a risk level.
func LevelColor(level RiskLevel) RiskColor {
	switch level {
	case RiskLevelAcceptable:
		return RiskColorGreen
	case RiskLevelLow:
		return RiskColorYellow
	case RiskLevelMedium:
		return RiskColorOrange
	default:
		return RiskColorRed
	}
}

// ================================================================================
// Risk Lifecycle Constants
// ================================================================================

// RiskStatus represents the lifecycle status of a risk record
type RiskStatus string

const (
	// RiskStatusIdentified indicates the risk has been recorded but not yet assessed
	RiskStatusIdentified RiskStatus = "identified"

	// RiskStatusUnderAssessment indicates the risk is being analysed
	RiskStatusUnderAssessment RiskStatus = "under_assessment"

	// RiskStatusAccepted indicates the risk is accepted at its current level
	RiskStatusAccepted RiskStatus = "accepted"

	// RiskStatusMitigating indicates remediation actions are in progress
	RiskStatusMitigating RiskStatus = "mitigating"

	// RiskStatusTransferred indicates the risk has been transferred (e.g. insured)
	RiskStatusTransferred RiskStatus = "transferred"

	// RiskStatusClosed indicates the risk is retired; closed risks are kept
	// as historical records and no longer count as live
	RiskStatusClosed RiskStatus = "closed"
)

// ValidRiskStatuses lists every accepted risk status value
var ValidRiskStatuses = []RiskStatus{
	RiskStatusIdentified,
	RiskStatusUnderAssessment,
	RiskStatusAccepted,
	RiskStatusMitigating,
	RiskStatusTransferred,
	RiskStatusClosed,
}

// RiskType categorises the origin of a risk
type RiskType string

const (
	RiskTypeTechnical      RiskType = "technical"
	RiskTypeOperational    RiskType = "operational"
	RiskTypeOrganizational RiskType = "organizational"
	RiskTypeExternal       RiskType = "external"
	RiskTypeNatural        RiskType = "natural"
)

// ValidRiskTypes lists every accepted risk type value
var ValidRiskTypes = []RiskType{
	RiskTypeTechnical,
	RiskTypeOperational,
	RiskTypeOrganizational,
	RiskTypeExternal,
	RiskTypeNatural,
}

// ================================================================================
// Action Constants
// ================================================================================

// ActionStatus represents the stored workflow status of a remediation action.
// Overdue is derived from the due date and is never stored.
type ActionStatus string

const (
	ActionStatusOpen       ActionStatus = "open"
	ActionStatusInProgress ActionStatus = "in_progress"
	ActionStatusDone       ActionStatus = "done"
)

// ValidActionStatuses lists every accepted action status value
var ValidActionStatuses = []ActionStatus{
	ActionStatusOpen,
	ActionStatusInProgress,
	ActionStatusDone,
}

// ActionPriority represents the urgency of a remediation action
type ActionPriority string

const (
	ActionPriorityLow      ActionPriority = "low"
	ActionPriorityMedium   ActionPriority = "medium"
	ActionPriorityHigh     ActionPriority = "high"
	ActionPriorityCritical ActionPriority = "critical"
)

// ValidActionPriorities lists every accepted action priority value
var ValidActionPriorities = []ActionPriority{
	ActionPriorityLow,
	ActionPriorityMedium,
	ActionPriorityHigh,
	ActionPriorityCritical,
}

// ================================================================================
// Reference Catalog Constants
// ================================================================================

// Framework identifies a regulatory reference catalog
type Framework string

const (
	// FrameworkNSM is the NSM grunnprinsipper for IKT-sikkerhet catalog
	FrameworkNSM Framework = "nsm"

	// FrameworkEkom is the ekomforskriften chapter 2 security clauses catalog
	FrameworkEkom Framework = "ekom"
)

// ValidFrameworks lists every supported reference framework
var ValidFrameworks = []Framework{FrameworkNSM, FrameworkEkom}

const (
	// NSMCatalogVersion is the published version of the seeded NSM catalog
	NSMCatalogVersion = "2.0"

	// EkomCatalogVersion is the published version of the seeded ekom catalog
	EkomCatalogVersion = "2018-1"
)

// ================================================================================
// Alerting Constants
// ================================================================================

// AlertSeverity orders alerts from most to least urgent
type AlertSeverity string

const (
	AlertSeverityDanger  AlertSeverity = "danger"
	AlertSeverityWarning AlertSeverity = "warning"
	AlertSeverityInfo    AlertSeverity = "info"
)

// SeverityRank returns the sort rank of a severity, lower is more urgent.
// Unknown severities sort last.
func SeverityRank(s AlertSeverity) int {
	switch s {
	case AlertSeverityDanger:
		return 0
	case AlertSeverityWarning:
		return 1
	case AlertSeverityInfo:
		return 2
	default:
		return 3
	}
}

// AlertRule identifies the rule that produced an alert
type AlertRule string

const (
	// AlertRuleActionOverdue fires for actions past their due date and not done
	AlertRuleActionOverdue AlertRule = "action_overdue"

	// AlertRuleContractExpiring fires for supplier contracts expiring within
	// the configured lookahead window, or already expired
	AlertRuleContractExpiring AlertRule = "contract_expiring"

	// AlertRuleHighUnmitigatedRisk fires for live risks in the high band with
	// no open remediation action
	AlertRuleHighUnmitigatedRisk AlertRule = "high_unmitigated_risk"

	// AlertRuleReviewOverdue fires for scheduled reviews past their date that
	// were never conducted
	AlertRuleReviewOverdue AlertRule = "review_overdue"
)

// ValidAlertRules lists every alert rule in evaluation order.
var ValidAlertRules = []AlertRule{
	AlertRuleActionOverdue,
	AlertRuleContractExpiring,
	AlertRuleHighUnmitigatedRisk,
	AlertRuleReviewOverdue,
}

// SubjectType identifies the entity kind an alert or audit event refers to
type SubjectType string

const (
	SubjectTypeRisk     SubjectType = "risk"
	SubjectTypeAction   SubjectType = "action"
	SubjectTypeProject  SubjectType = "project"
	SubjectTypeAsset    SubjectType = "asset"
	SubjectTypeSupplier SubjectType = "supplier"
	SubjectTypeReview   SubjectType = "review"
	SubjectTypeExport   SubjectType = "export"
	SubjectTypeCatalog  SubjectType = "catalog"
	SubjectTypeMapping  SubjectType = "mapping"
)

// DefaultExpiryLookahead is the default window for contract expiry alerts
const DefaultExpiryLookahead = 30 * 24 * time.Hour

// ================================================================================
// Asset Constants
// ================================================================================

// AssetCategory categorises telecom infrastructure assets
type AssetCategory string

const (
	AssetCategoryCoreNetwork     AssetCategory = "core_network"
	AssetCategoryTransport       AssetCategory = "transport"
	AssetCategoryRadioAccess     AssetCategory = "radio_access"
	AssetCategoryPower           AssetCategory = "power"
	AssetCategoryFacility        AssetCategory = "facility"
	AssetCategoryITSystem        AssetCategory = "it_system"
	AssetCategoryServicePlatform AssetCategory = "service_platform"
)

// ValidAssetCategories lists every accepted asset category value
var ValidAssetCategories = []AssetCategory{
	AssetCategoryCoreNetwork,
	AssetCategoryTransport,
	AssetCategoryRadioAccess,
	AssetCategoryPower,
	AssetCategoryFacility,
	AssetCategoryITSystem,
	AssetCategoryServicePlatform,
}

// ================================================================================
// Audit Constants
// ================================================================================

// AuditEventType represents different types of auditable events
type AuditEventType string

const (
	EventTypeRiskCreated         AuditEventType = "risk_created"
	EventTypeRiskUpdated         AuditEventType = "risk_updated"
	EventTypeRiskReassessed      AuditEventType = "risk_reassessed"
	EventTypeRiskClosed          AuditEventType = "risk_closed"
	EventTypeRiskDeleted         AuditEventType = "risk_deleted"
	EventTypeActionCreated       AuditEventType = "action_created"
	EventTypeActionUpdated       AuditEventType = "action_updated"
	EventTypeActionStatusChanged AuditEventType = "action_status_changed"
	EventTypeActionDeleted       AuditEventType = "action_deleted"
	EventTypeMappingAdded        AuditEventType = "mapping_added"
	EventTypeMappingRemoved      AuditEventType = "mapping_removed"
	EventTypeReviewScheduled     AuditEventType = "review_scheduled"
	EventTypeReviewCompleted     AuditEventType = "review_completed"
	EventTypeReviewCancelled     AuditEventType = "review_cancelled"
	EventTypeProjectCreated      AuditEventType = "project_created"
	EventTypeProjectUpdated      AuditEventType = "project_updated"
	EventTypeAssetCreated        AuditEventType = "asset_created"
	EventTypeAssetUpdated        AuditEventType = "asset_updated"
	EventTypeSupplierCreated     AuditEventType = "supplier_created"
	EventTypeSupplierUpdated     AuditEventType = "supplier_updated"
	EventTypeSupplierDeleted     AuditEventType = "supplier_deleted"
	EventTypeExportGenerated     AuditEventType = "export_generated"
	EventTypeCatalogSeeded       AuditEventType = "catalog_seeded"
)

// AuditEventResult represents the result of an audited event
type AuditEventResult string

const (
	AuditResultSuccess AuditEventResult = "success"
	AuditResultFailure AuditEventResult = "failure"
)

// ================================================================================
// Error Code Constants
// ================================================================================

// ErrorCode is the machine-readable code attached to every AppError
type ErrorCode string

const (
	ErrCodeInvalidRequest     ErrorCode = "invalid_request"
	ErrCodeValidation         ErrorCode = "validation_failed"
	ErrCodeRatingOutOfRange   ErrorCode = "rating_out_of_range"
	ErrCodeNotFound           ErrorCode = "not_found"
	ErrCodeConflict           ErrorCode = "conflict"
	ErrCodeDuplicateMapping   ErrorCode = "duplicate_mapping"
	ErrCodeDatabase           ErrorCode = "database_error"
	ErrCodeCache              ErrorCode = "cache_error"
	ErrCodeExportToken        ErrorCode = "export_token_invalid"
	ErrCodeRateLimited        ErrorCode = "rate_limit_exceeded"
	ErrCodeServiceUnavailable ErrorCode = "service_unavailable"
	ErrCodeInternal           ErrorCode = "internal_error"
)

// ================================================================================
// Cache and Export Constants
// ================================================================================

const (
	// DashboardCacheTTL is the default redis TTL for dashboard payloads
	DashboardCacheTTL = 60 * time.Second

	// CatalogCacheL1TTL is the in-process cache lifetime for reference catalogs
	CatalogCacheL1TTL = 5 * time.Minute

	// CatalogCacheL2TTL is the redis cache lifetime for reference catalogs
	CatalogCacheL2TTL = 30 * time.Minute

	// ExportTokenTTL is the lifetime of an export download token
	ExportTokenTTL = 15 * time.Minute

	// ExportBlobTTL is how long a generated export stays retrievable
	ExportBlobTTL = 30 * time.Minute

	// MaxExportRows caps how many records a single export may contain
	MaxExportRows = 10000
)

// Export formats and scopes.
const (
	ExportFormatCSV  = "csv"
	ExportFormatPDF  = "pdf"
	ExportFormatJSON = "json"

	ExportScopeRisks     = "risks"
	ExportScopeActions   = "actions"
	ExportScopeSuppliers = "suppliers"
	ExportScopeFull      = "full"
)

// Cache key prefixes. Keys are namespaced to keep a shared redis tidy.
const (
	CacheKeyDashboardSummary = "rosreg:dashboard:summary"
	CacheKeyMatrixPrefix     = "rosreg:dashboard:matrix:"
	CacheKeyDistribution     = "rosreg:dashboard:distribution"
	CacheKeyCatalogPrefix    = "rosreg:catalog:"
	CacheKeyExportPrefix     = "rosreg:export:"
	CacheKeyRateLimitPrefix  = "rosreg:ratelimit:"
)

// KafkaAuditTopic is the default topic the audit trail is published to.
const KafkaAuditTopic = "rosreg.audit.events"

// ================================================================================
// Pagination Constants
// ================================================================================

const (
	// DefaultPageSize is applied when a list request omits page_size
	DefaultPageSize = 50

	// MaxPageSize caps page_size on list requests
	MaxPageSize = 200
)

// ================================================================================
// HTTP Constants
// ================================================================================

const (
	// HeaderActor carries the free-text identity recorded in the audit trail
	HeaderActor = "X-Actor"

	// HeaderRequestID carries the per-request correlation ID
	HeaderRequestID = "X-Request-ID"

	// ActorSystem is recorded when no actor header is present
	ActorSystem = "system"
)

// ContextKey is the type used for request-scoped context values
type ContextKey string

const (
	// ContextKeyRequestID holds the correlation ID injected by middleware
	ContextKeyRequestID ContextKey = "request_id"

	// ContextKeyActor holds the audit actor extracted from the request
	ContextKeyActor ContextKey = "actor"
)

// ================================================================================
// Display Labels
// ================================================================================

var likelihoodLabels = map[int]string{
	1: "Svært lav",
	2: "Lav",
	3: "Middels",
	4: "Høy",
	5: "Svært høy",
}

var consequenceLabels = map[int]string{
	1: "Ubetydelig",
	2: "Lav",
	3: "Moderat",
	4: "Alvorlig",
	5: "Kritisk",
}

// LikelihoodLabel returns the Norwegian display label for a likelihood rating,
// or the empty string for out-of-range values.
func LikelihoodLabel(rating int) string {
	return likelihoodLabels[rating]
}

// ConsequenceLabel returns the Norwegian display label for a consequence rating,
// or the empty string for out-of-range values.
func ConsequenceLabel(rating int) string {
	return consequenceLabels[rating]
}
