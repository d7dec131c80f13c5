package models

import (
	"gorm.io/gorm"
)

// User types
const (
	UserTypeBusiness = "business"
	UserTypeCustomer = "customer"
)

type User struct {
	gorm.Model
	Username     string `gorm:"size:150;not null;uniqueIndex" json:"username"`
	Email        string `gorm:"size:254;not null;uniqueIndex" json:"email"`
	Password     string `gorm:"not null" json:"-"`
	Type         string `gorm:"type:varchar(20);not null;index" json:"type"` // business, customer
	IsStaff      bool   `gorm:"default:false" json:"-"`
	FirstName    string `gorm:"size:150;default:''" json:"first_name"`
	LastName     string `gorm:"size:150;default:''" json:"last_name"`
	File         string `gorm:"size:255;default:''" json:"file"`
	Location     string `gorm:"size:255;default:''" json:"location"`
	Tel          string `gorm:"size:20;default:''" json:"tel"`
	Description  string `gorm:"type:text" json:"description"`
	WorkingHours string `gorm:"size:255;default:''" json:"working_hours"`
}

func (User) TableName() string {
	return "users"
}
