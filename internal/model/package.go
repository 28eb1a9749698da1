package model

// swagger:model ControlPackage
type ControlPackage struct {
	BaseModel
	Name        string `gorm:"size:150;not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	// Units is how many graded controls the package entitles the buyer to.
	Units    int  `gorm:"not null" json:"units"`
	PriceCLP int  `gorm:"not null" json:"priceClp"`
	Active   bool `gorm:"default:true" json:"active"`
}

func (ControlPackage) TableName() string {
	return "control_packages"
}

// swagger:model ExamPackage
type ExamPackage struct {
	BaseModel
	Name         string `gorm:"size:150;not null" json:"name"`
	Description  string `gorm:"type:text" json:"description"`
	DurationDays int    `gorm:"not null" json:"durationDays"`
	PriceCLP     int    `gorm:"not null" json:"priceClp"`
	Active       bool   `gorm:"default:true" json:"active"`
}

func (ExamPackage) TableName() string {
	return "exam_packages"
}

// swagger:model MockExamPackage
type MockExamPackage struct {
	BaseModel
	Name        string `gorm:"size:150;not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	// Attempts is how many full mock exams the package entitles the buyer to.
	Attempts int  `gorm:"not null" json:"attempts"`
	PriceCLP int  `gorm:"not null" json:"priceClp"`
	Active   bool `gorm:"default:true" json:"active"`
}

func (MockExamPackage) TableName() string {
	return "mock_exam_packages"
}

type PurchaseStatus string

const (
	PurchaseActive    PurchaseStatus = "active"
	PurchaseExhausted PurchaseStatus = "exhausted"
	PurchaseRevoked   PurchaseStatus = "revoked"
)

// ControlPurchase tracks a user's entitlement to graded controls.
//
// swagger:model ControlPurchase
type ControlPurchase struct {
	BaseModel
	UserID           uint           `gorm:"index;not null" json:"userId"`
	ControlPackageID uint           `gorm:"index;not null" json:"controlPackageId"`
	TotalUnits       int            `gorm:"not null" json:"totalUnits"`
	UsedUnits        int            `gorm:"default:0" json:"usedUnits"`
	Status           PurchaseStatus `gorm:"size:20;default:'active'" json:"status"`

	User    *User           `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Package *ControlPackage `gorm:"foreignKey:ControlPackageID" json:"package,omitempty"`
}

func (ControlPurchase) TableName() string {
	return "control_purchases"
}
