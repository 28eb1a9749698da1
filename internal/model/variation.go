package model

import (
	"time"
)

// QuestionVariation is one generated rendition of a BaseQuestion. Corrections
// produce a new row with Version incremented and ParentVersionID pointing at
// the version being corrected; at most one version of a given
// (baseQuestionId, variationNumber) pair is visible to students at a time.
//
// swagger:model QuestionVariation
type QuestionVariation struct {
	UUIDBase
	BaseQuestionID  uint `gorm:"index:idx_variation_lineage" json:"baseQuestionId"`
	VariationNumber int  `gorm:"index:idx_variation_lineage" json:"variationNumber"`
	Version         int  `gorm:"default:1" json:"version"`
	// ParentVersionID references the variation this row corrects. Nil for v1.
	ParentVersionID *string `gorm:"type:varchar(36);index" json:"parentVersionId,omitempty"`

	Stem          string `gorm:"type:text;not null" json:"stem"`
	OptionA       string `gorm:"type:text" json:"optionA"`
	OptionB       string `gorm:"type:text" json:"optionB"`
	OptionC       string `gorm:"type:text" json:"optionC"`
	OptionD       string `gorm:"type:text" json:"optionD"`
	OptionE       string `gorm:"type:text" json:"optionE"`
	CorrectAnswer string `gorm:"size:1" json:"correctAnswer"`
	Explanation   string `gorm:"type:text" json:"explanation"`

	// ConfidenceScore in [0,1], nil until a QA pass or the backfill sets it.
	ConfidenceScore *float64   `json:"confidenceScore,omitempty"`
	LastQADate      *time.Time `json:"lastQaDate,omitempty"`
	IsVisible       bool       `gorm:"default:true;index" json:"isVisible"`
}

func (QuestionVariation) TableName() string {
	return "question_variations"
}
