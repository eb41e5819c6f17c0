package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// KYCRecord represents a document submission
type KYCRecord struct {
	ID             uuid.UUID   `json:"id"`
	UserID         uuid.UUID   `json:"userId"`
	DocumentType   string      `json:"documentType"`
	DocumentNumber string      `json:"documentNumber"`
	FrontURL       string      `json:"frontUrl"`
	BackURL        null.String `json:"backUrl"`
	SelfieURL      null.String `json:"selfieUrl"`
	Status         KYCStatus   `json:"status"`
	AdminNote      null.String `json:"adminNote"`
	ReviewedAt     null.Time   `json:"reviewedAt"`
	CreatedAt      time.Time   `json:"createdAt"`
	UpdatedAt      time.Time   `json:"updatedAt"`
}

// SubmitKYCInput represents a KYC submission
type SubmitKYCInput struct {
	DocumentType   string `json:"documentType" binding:"required,oneof=passport national_id drivers_license"`
	DocumentNumber string `json:"documentNumber" binding:"required,max=64"`
	FrontURL       string `json:"frontUrl" binding:"required,max=512"`
	BackURL        string `json:"backUrl" binding:"max=512"`
	SelfieURL      string `json:"selfieUrl" binding:"max=512"`
}

// ReviewKYCInput is the admin decision on a submission.
type ReviewKYCInput struct {
	Approve bool   `json:"approve"`
	Note    string `json:"note" binding:"max=500"`
}
