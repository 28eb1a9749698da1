package model

// swagger:model Specialty
type Specialty struct {
	BaseModel
	Code    string `gorm:"size:50;uniqueIndex;not null" json:"code"`
	Name    string `gorm:"size:100;not null" json:"name"`
	Enabled bool   `gorm:"default:true" json:"enabled"`
}

func (Specialty) TableName() string {
	return "specialties"
}

// swagger:model Topic
type Topic struct {
	BaseModel
	SpecialtyID uint   `gorm:"index;not null" json:"specialtyId"`
	Code        string `gorm:"size:80;uniqueIndex;not null" json:"code"`
	Name        string `gorm:"size:150;not null" json:"name"`
	// SourceDocument points at the uploaded study material this topic's
	// questions were authored from (object storage key).
	SourceDocument string `gorm:"size:255" json:"sourceDocument,omitempty"`
	Enabled        bool   `gorm:"default:true" json:"enabled"`
}

func (Topic) TableName() string {
	return "topics"
}

// BaseQuestion is a canonical exam question. Variations are generated from it
// and live in question_variations.
//
// swagger:model BaseQuestion
type BaseQuestion struct {
	BaseModel
	SpecialtyID uint   `gorm:"index" json:"specialtyId"`
	TopicID     uint   `gorm:"index" json:"topicId"`
	Stem        string `gorm:"type:text;not null" json:"stem"`
	OptionA     string `gorm:"type:text" json:"optionA"`
	OptionB     string `gorm:"type:text" json:"optionB"`
	OptionC     string `gorm:"type:text" json:"optionC"`
	OptionD     string `gorm:"type:text" json:"optionD"`
	OptionE     string `gorm:"type:text" json:"optionE"`
	// CorrectAnswer is the option letter, "A".."E".
	CorrectAnswer string `gorm:"size:1;not null" json:"correctAnswer"`
	Explanation   string `gorm:"type:text" json:"explanation"`
}

func (BaseQuestion) TableName() string {
	return "base_questions"
}
