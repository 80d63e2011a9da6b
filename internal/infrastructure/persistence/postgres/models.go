package postgres

import (
	"time"

	"github.com/google/uuid"

	"github.com/rosverk/rosreg/internal/domain/models"
	"github.com/rosverk/rosreg/pkg/constants"
)

// Database models live here, separate from the domain models: scores are
// never stored, assessments are flattened to rating columns, and soft
// deletion stays an explicit predicate instead of a GORM callback.

type projectDBM struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name        string    `gorm:"size:200;not null"`
	Description string    `gorm:"type:text"`
	Owner       string    `gorm:"size:200"`
	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   time.Time `gorm:"not null"`
}

func (projectDBM) TableName() string { return "projects" }

func newProjectDBM(p *models.Project) *projectDBM {
	return &projectDBM{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Owner:       p.Owner,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func (m *projectDBM) toDomain() *models.Project {
	return &models.Project{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		Owner:       m.Owner,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

type assetDBM struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	ProjectID   uuid.UUID `gorm:"type:uuid;index;not null"`
	Name        string    `gorm:"size:200;not null"`
	Category    string    `gorm:"size:40;not null"`
	Criticality int       `gorm:"not null"`
	Location    string    `gorm:"size:200"`
	Description string    `gorm:"type:text"`
	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   time.Time `gorm:"not null"`
}

func (assetDBM) TableName() string { return "assets" }

func newAssetDBM(a *models.Asset) *assetDBM {
	return &assetDBM{
		ID:          a.ID,
		ProjectID:   a.ProjectID,
		Name:        a.Name,
		Category:    string(a.Category),
		Criticality: a.Criticality,
		Location:    a.Location,
		Description: a.Description,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

func (m *assetDBM) toDomain() *models.Asset {
	return &models.Asset{
		ID:          m.ID,
		ProjectID:   m.ProjectID,
		Name:        m.Name,
		Category:    constants.AssetCategory(m.Category),
		Criticality: m.Criticality,
		Location:    m.Location,
		Description: m.Description,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

type riskDBM struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey"`
	ProjectID   uuid.UUID  `gorm:"type:uuid;index;not null"`
	AssetID     *uuid.UUID `gorm:"type:uuid;index"`
	Title       string     `gorm:"size:200;not null"`
	Description string     `gorm:"type:text"`
	Type        string     `gorm:"size:40;index;not null"`
	Status      string     `gorm:"size:40;index;not null"`
	Owner       string     `gorm:"size:200"`

	Likelihood        int `gorm:"not null"`
	Consequence       int `gorm:"not null"`
	TargetLikelihood  *int
	TargetConsequence *int

	LastReviewedAt *time.Time
	CreatedAt      time.Time  `gorm:"not null"`
	UpdatedAt      time.Time  `gorm:"not null"`
	DeletedAt      *time.Time `gorm:"index"`
}

func (riskDBM) TableName() string { return "risks" }

func newRiskDBM(r *models.Risk) *riskDBM {
	m := &riskDBM{
		ID:             r.ID,
		ProjectID:      r.ProjectID,
		AssetID:        r.AssetID,
		Title:          r.Title,
		Description:    r.Description,
		Type:           string(r.Type),
		Status:         string(r.Status),
		Owner:          r.Owner,
		Likelihood:     int(r.Current.Likelihood),
		Consequence:    int(r.Current.Consequence),
		LastReviewedAt: r.LastReviewedAt,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
		DeletedAt:      r.DeletedAt,
	}
	if r.Target != nil {
		tl, tc := int(r.Target.Likelihood), int(r.Target.Consequence)
		m.TargetLikelihood = &tl
		m.TargetConsequence = &tc
	}
	return m
}

func (m *riskDBM) toDomain() *models.Risk {
	r := &models.Risk{
		ID:          m.ID,
		ProjectID:   m.ProjectID,
		AssetID:     m.AssetID,
		Title:       m.Title,
		Description: m.Description,
		Type:        constants.RiskType(m.Type),
		Status:      constants.RiskStatus(m.Status),
		Owner:       m.Owner,
		Current: models.Assessment{
			Likelihood:  models.Rating(m.Likelihood),
			Consequence: models.Rating(m.Consequence),
		},
		LastReviewedAt: m.LastReviewedAt,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
		DeletedAt:      m.DeletedAt,
	}
	if m.TargetLikelihood != nil && m.TargetConsequence != nil {
		r.Target = &models.Assessment{
			Likelihood:  models.Rating(*m.TargetLikelihood),
			Consequence: models.Rating(*m.TargetConsequence),
		}
	}
	return r
}

type actionDBM struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	RiskID      uuid.UUID `gorm:"type:uuid;index;not null"`
	Title       string    `gorm:"size:200;not null"`
	Description string    `gorm:"type:text"`
	Priority    string    `gorm:"size:20;not null"`
	Responsible string    `gorm:"size:200"`
	DueDate     *time.Time
	Status      string `gorm:"size:20;index;not null"`
	CompletedAt *time.Time
	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   time.Time `gorm:"not null"`
}

func (actionDBM) TableName() string { return "actions" }

func newActionDBM(a *models.Action) *actionDBM {
	return &actionDBM{
		ID:          a.ID,
		RiskID:      a.RiskID,
		Title:       a.Title,
		Description: a.Description,
		Priority:    string(a.Priority),
		Responsible: a.Responsible,
		DueDate:     a.DueDate,
		Status:      string(a.Status),
		CompletedAt: a.CompletedAt,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

func (m *actionDBM) toDomain() *models.Action {
	return &models.Action{
		ID:          m.ID,
		RiskID:      m.RiskID,
		Title:       m.Title,
		Description: m.Description,
		Priority:    constants.ActionPriority(m.Priority),
		Responsible: m.Responsible,
		DueDate:     m.DueDate,
		Status:      constants.ActionStatus(m.Status),
		CompletedAt: m.CompletedAt,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

type supplierDBM struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name           string    `gorm:"size:200;not null"`
	Service        string    `gorm:"size:200"`
	Criticality    int       `gorm:"not null"`
	ContractExpiry *time.Time `gorm:"index"`
	Contact        string    `gorm:"size:200"`
	CreatedAt      time.Time `gorm:"not null"`
	UpdatedAt      time.Time `gorm:"not null"`
}

func (supplierDBM) TableName() string { return "suppliers" }

func newSupplierDBM(s *models.Supplier) *supplierDBM {
	return &supplierDBM{
		ID:             s.ID,
		Name:           s.Name,
		Service:        s.Service,
		Criticality:    s.Criticality,
		ContractExpiry: s.ContractExpiry,
		Contact:        s.Contact,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
	}
}

func (m *supplierDBM) toDomain() *models.Supplier {
	return &models.Supplier{
		ID:             m.ID,
		Name:           m.Name,
		Service:        m.Service,
		Criticality:    m.Criticality,
		ContractExpiry: m.ContractExpiry,
		Contact:        m.Contact,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

type reviewDBM struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	RiskID        uuid.UUID `gorm:"type:uuid;index;not null"`
	ScheduledDate time.Time `gorm:"index;not null"`
	ConductedDate *time.Time
	Reviewer      string    `gorm:"size:200"`
	Outcome       string    `gorm:"type:text"`
	CreatedAt     time.Time `gorm:"not null"`
	UpdatedAt     time.Time `gorm:"not null"`
}

func (reviewDBM) TableName() string { return "reviews" }

func newReviewDBM(r *models.Review) *reviewDBM {
	return &reviewDBM{
		ID:            r.ID,
		RiskID:        r.RiskID,
		ScheduledDate: r.ScheduledDate,
		ConductedDate: r.ConductedDate,
		Reviewer:      r.Reviewer,
		Outcome:       r.Outcome,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

func (m *reviewDBM) toDomain() *models.Review {
	return &models.Review{
		ID:            m.ID,
		RiskID:        m.RiskID,
		ScheduledDate: m.ScheduledDate,
		ConductedDate: m.ConductedDate,
		Reviewer:      m.Reviewer,
		Outcome:       m.Outcome,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

type referenceItemDBM struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	Framework     string    `gorm:"size:20;not null;uniqueIndex:ux_reference_items_identity"`
	Code          string    `gorm:"size:40;not null;uniqueIndex:ux_reference_items_identity"`
	Title         string    `gorm:"size:300;not null"`
	Description   string    `gorm:"type:text"`
	Category      string    `gorm:"size:120"`
	Version       string    `gorm:"size:20;not null;uniqueIndex:ux_reference_items_identity"`
	EffectiveFrom time.Time `gorm:"not null"`
	DeprecatedAt  *time.Time
	CreatedAt     time.Time `gorm:"not null"`
	UpdatedAt     time.Time `gorm:"not null"`
}

func (referenceItemDBM) TableName() string { return "reference_items" }

func newReferenceItemDBM(r *models.ReferenceItem) *referenceItemDBM {
	return &referenceItemDBM{
		ID:            r.ID,
		Framework:     string(r.Framework),
		Code:          r.Code,
		Title:         r.Title,
		Description:   r.Description,
		Category:      r.Category,
		Version:       r.Version,
		EffectiveFrom: r.EffectiveFrom,
		DeprecatedAt:  r.DeprecatedAt,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

func (m *referenceItemDBM) toDomain() *models.ReferenceItem {
	return &models.ReferenceItem{
		ID:            m.ID,
		Framework:     constants.Framework(m.Framework),
		Code:          m.Code,
		Title:         m.Title,
		Description:   m.Description,
		Category:      m.Category,
		Version:       m.Version,
		EffectiveFrom: m.EffectiveFrom,
		DeprecatedAt:  m.DeprecatedAt,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

type riskMappingDBM struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	ReferenceID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:ux_risk_mappings_pair"`
	RiskID      uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:ux_risk_mappings_pair"`
	Note        string    `gorm:"type:text"`
	CreatedAt   time.Time `gorm:"not null"`
}

func (riskMappingDBM) TableName() string { return "risk_mappings" }

func newRiskMappingDBM(m *models.RiskMapping) *riskMappingDBM {
	return &riskMappingDBM{
		ID:          m.ID,
		ReferenceID: m.ReferenceID,
		RiskID:      m.RiskID,
		Note:        m.Note,
		CreatedAt:   m.CreatedAt,
	}
}

func (m *riskMappingDBM) toDomain() *models.RiskMapping {
	return &models.RiskMapping{
		ID:          m.ID,
		ReferenceID: m.ReferenceID,
		RiskID:      m.RiskID,
		Note:        m.Note,
		CreatedAt:   m.CreatedAt,
	}
}

type actionMappingDBM struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	ReferenceID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:ux_action_mappings_pair"`
	ActionID    uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:ux_action_mappings_pair"`
	Note        string    `gorm:"type:text"`
	CreatedAt   time.Time `gorm:"not null"`
}

func (actionMappingDBM) TableName() string { return "action_mappings" }

func newActionMappingDBM(m *models.ActionMapping) *actionMappingDBM {
	return &actionMappingDBM{
		ID:          m.ID,
		ReferenceID: m.ReferenceID,
		ActionID:    m.ActionID,
		Note:        m.Note,
		CreatedAt:   m.CreatedAt,
	}
}

func (m *actionMappingDBM) toDomain() *models.ActionMapping {
	return &models.ActionMapping{
		ID:          m.ID,
		ReferenceID: m.ReferenceID,
		ActionID:    m.ActionID,
		Note:        m.Note,
		CreatedAt:   m.CreatedAt,
	}
}

type auditLogDBM struct {
	EventID     uuid.UUID  `gorm:"type:uuid;primaryKey"`
	EventType   string     `gorm:"size:60;index;not null"`
	Actor       string     `gorm:"size:200;index;not null"`
	SubjectType string     `gorm:"size:40"`
	SubjectID   *uuid.UUID `gorm:"type:uuid;index"`
	Result      string     `gorm:"size:20;not null"`
	Message     string     `gorm:"type:text"`
	TraceID     string     `gorm:"size:64"`
	Metadata    []byte
	Timestamp   time.Time `gorm:"index;not null"`
}

func (auditLogDBM) TableName() string { return "audit_logs" }

func newAuditLogDBM(e *models.AuditLog) *auditLogDBM {
	return &auditLogDBM{
		EventID:     e.EventID,
		EventType:   string(e.EventType),
		Actor:       e.Actor,
		SubjectType: string(e.SubjectType),
		SubjectID:   e.SubjectID,
		Result:      string(e.Result),
		Message:     e.Message,
		TraceID:     e.TraceID,
		Metadata:    e.Metadata,
		Timestamp:   e.Timestamp,
	}
}

func (m *auditLogDBM) toDomain() *models.AuditLog {
	return &models.AuditLog{
		EventID:     m.EventID,
		EventType:   constants.AuditEventType(m.EventType),
		Actor:       m.Actor,
		SubjectType: constants.SubjectType(m.SubjectType),
		SubjectID:   m.SubjectID,
		Result:      constants.AuditEventResult(m.Result),
		Message:     m.Message,
		TraceID:     m.TraceID,
		Metadata:    m.Metadata,
		Timestamp:   m.Timestamp,
	}
}
