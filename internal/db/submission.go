package db

import "gorm.io/gorm"

const (
	SubmissionStatusNew      = "new"
	SubmissionStatusRead     = "read"
	SubmissionStatusReplied  = "replied"
	SubmissionStatusArchived = "archived"
)

// SubmissionStatuses 按处理流程排列的全部状态。
var SubmissionStatuses = []string{
	SubmissionStatusNew,
	SubmissionStatusRead,
	SubmissionStatusReplied,
	SubmissionStatusArchived,
}

// BookingSubmission 前台预约表单提交的记录
type BookingSubmission struct {
	Record
	Name          string  `gorm:"size:120;not null" json:"name"`
	Email         string  `gorm:"size:255;not null" json:"email"`
	Phone         string  `gorm:"size:60" json:"phone"`
	EventType     string  `gorm:"size:120" json:"event_type"`
	PreferredDate *string `gorm:"size:40" json:"preferred_date"`
	Message       string  `gorm:"type:text" json:"message"`
	Status        string  `gorm:"size:20;not null;default:'new';index" json:"status"`
	AdminNotes    *string `gorm:"type:text" json:"admin_notes"`
}

// TableName 返回自定义表名
func (BookingSubmission) TableName() string {
	return "booking_submissions"
}

// BeforeCreate 分配主键，并保证新提交的状态为 new
func (b *BookingSubmission) BeforeCreate(tx *gorm.DB) error {
	b.Status = SubmissionStatusNew
	return b.Record.BeforeCreate(tx)
}

// ContactSubmission 前台联系表单提交的记录
type ContactSubmission struct {
	Record
	Name       string  `gorm:"size:120;not null" json:"name"`
	Email      string  `gorm:"size:255;not null" json:"email"`
	Subject    string  `gorm:"size:200" json:"subject"`
	Message    string  `gorm:"type:text;not null" json:"message"`
	Status     string  `gorm:"size:20;not null;default:'new';index" json:"status"`
	AdminNotes *string `gorm:"type:text" json:"admin_notes"`
}

// TableName 返回自定义表名
func (ContactSubmission) TableName() string {
	return "contact_submissions"
}

// BeforeCreate 分配主键，并保证新提交的状态为 new
func (c *ContactSubmission) BeforeCreate(tx *gorm.DB) error {
	c.Status = SubmissionStatusNew
	return c.Record.BeforeCreate(tx)
}
