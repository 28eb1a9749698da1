package model

import (
	"encoding/json"
	"time"
)

type SweepRunStatus string

const (
	SweepRunPending   SweepRunStatus = "PENDING"
	SweepRunRunning   SweepRunStatus = "RUNNING"
	SweepRunCompleted SweepRunStatus = "COMPLETED"
	SweepRunFailed    SweepRunStatus = "FAILED"
)

// SweepRunConfig is the filter payload a run was launched with.
type SweepRunConfig struct {
	BaseQuestionFrom uint   `json:"baseQuestionFrom,omitempty"`
	BaseQuestionTo   uint   `json:"baseQuestionTo,omitempty"`
	Specialty        string `json:"specialty,omitempty"`
	Topic            string `json:"topic,omitempty"`
}

// QASweepRun groups the results of one batch diagnostic execution.
//
// swagger:model QASweepRun
type QASweepRun struct {
	UUIDBase
	Name        string          `gorm:"size:150;not null" json:"name"`
	Description string          `gorm:"type:text" json:"description"`
	Status      SweepRunStatus  `gorm:"size:20;default:'PENDING';index" json:"status"`
	Config      json.RawMessage `gorm:"type:json" json:"config,omitempty"`
	TotalCount  int             `gorm:"default:0" json:"totalCount"`
	Processed   int             `gorm:"default:0" json:"processed"`
	Failed      int             `gorm:"default:0" json:"failed"`
	StartedAt   *time.Time      `json:"startedAt,omitempty"`
	FinishedAt  *time.Time      `json:"finishedAt,omitempty"`
}

func (QASweepRun) TableName() string {
	return "qa_sweep2_runs"
}

func (r *QASweepRun) ParseConfig() (*SweepRunConfig, error) {
	var cfg SweepRunConfig
	if len(r.Config) == 0 {
		return &cfg, nil
	}
	if err := json.Unmarshal(r.Config, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Diagnosis is the structured verdict of one AI pass. Field names follow the
// prompt contract, which is in Spanish.
type Diagnosis struct {
	SeveridadGlobal     *int     `json:"severidad_global,omitempty"`
	Etiquetas           []string `json:"etiquetas,omitempty"`
	Riesgo              string   `json:"riesgo,omitempty"`
	DecisionRecomendada string   `json:"decision_recomendada,omitempty"`
	Critica             string   `json:"critica,omitempty"`
}

// FieldPatch is one proposed edit inside a correction payload.
type FieldPatch struct {
	Field         string  `json:"field"`
	OriginalValue string  `json:"originalValue"`
	ProposedValue string  `json:"proposedValue"`
	Reason        string  `json:"reason,omitempty"`
	Confidence    float64 `json:"confidence,omitempty"`
}

// QASweepResult is one AI diagnostic pass over a variation. The most recent
// result per variation (by CreatedAt) is authoritative for backfill purposes.
//
// swagger:model QASweepResult
type QASweepResult struct {
	UUIDBase
	RunID           string          `gorm:"type:varchar(36);index" json:"runId"`
	VariationID     string          `gorm:"type:varchar(36);index" json:"variationId"`
	ConfidenceScore *float64        `json:"confidenceScore,omitempty"`
	Diagnosis       json.RawMessage `gorm:"type:json" json:"diagnosis,omitempty"`
	Corrections     json.RawMessage `gorm:"type:json" json:"corrections,omitempty"`
	Status          string          `gorm:"size:20;default:'completed'" json:"status"`
	TokensIn        int             `gorm:"default:0" json:"tokensIn"`
	TokensOut       int             `gorm:"default:0" json:"tokensOut"`
	LatencyMs       int             `gorm:"default:0" json:"latencyMs"`
}

func (QASweepResult) TableName() string {
	return "qa_sweep2_results"
}

func (r *QASweepResult) ParseDiagnosis() (*Diagnosis, error) {
	if len(r.Diagnosis) == 0 {
		return &Diagnosis{}, nil
	}
	var d Diagnosis
	if err := json.Unmarshal(r.Diagnosis, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

type RiskLevel string

const (
	RiskHigh   RiskLevel = "high"
	RiskMedium RiskLevel = "medium"
	RiskLow    RiskLevel = "low"
)

type FixStatus string

const (
	FixPending  FixStatus = "pending"
	FixApplied  FixStatus = "applied"
	FixRejected FixStatus = "rejected"
)

// ReviewQueueItem is a pending human-review unit wrapping an AI-proposed
// patch. Items are created by the diagnostic process for high/medium-risk
// results and terminated by an operator approve/reject.
//
// swagger:model ReviewQueueItem
type ReviewQueueItem struct {
	UUIDBase
	ResultID    string          `gorm:"type:varchar(36);index" json:"resultId"`
	VariationID string          `gorm:"type:varchar(36);index" json:"variationId"`
	RiskLevel   RiskLevel       `gorm:"size:10;index" json:"riskLevel"`
	Labels      json.RawMessage `gorm:"type:json" json:"labels,omitempty"`
	Critique    string          `gorm:"type:text" json:"critique"`
	Patch       json.RawMessage `gorm:"type:json" json:"patch,omitempty"`
	FixStatus   FixStatus       `gorm:"size:20;default:'pending';index" json:"fixStatus"`
	ReviewNotes string          `gorm:"type:text" json:"reviewNotes,omitempty"`
	ReviewedAt  *time.Time      `json:"reviewedAt,omitempty"`
}

func (ReviewQueueItem) TableName() string {
	return "qa_review_queue_items"
}

func (i *ReviewQueueItem) ParsePatch() ([]FieldPatch, error) {
	if len(i.Patch) == 0 {
		return nil, nil
	}
	var patch []FieldPatch
	if err := json.Unmarshal(i.Patch, &patch); err != nil {
		return nil, err
	}
	return patch, nil
}
