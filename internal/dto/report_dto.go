package dto

import (
	"time"

	"github.com/google/uuid"
)

// ReportFormDTO is the pre-fillable impact analysis form
type ReportFormDTO struct {
	PMNumber         string `json:"pm_number"`
	CRNumber         string `json:"cr_number"`
	IssueDescription string `json:"issue_description"`
	SystemImpacts    string `json:"system_impacts"`
	Risks            string `json:"risks"`
}

type GenerateReportRequest struct {
	ChatSessionId uuid.UUID     `json:"chat_session_id" validate:"required"`
	Form          ReportFormDTO `json:"form"`
}

type GenerateReportResponse struct {
	Id           uuid.UUID     `json:"id"`
	DocumentName string        `json:"document_name"`
	Form         ReportFormDTO `json:"form"`
	CreatedAt    time.Time     `json:"created_at"`
}

type ListReportsResponse struct {
	Reports []GenerateReportResponse `json:"reports"`
}
