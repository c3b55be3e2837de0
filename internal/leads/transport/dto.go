package transport

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs
type CreateLeadRequest struct {
	CompanyName     string   `json:"company_name" validate:"required,notblank,max=300"`
	Website         string   `json:"website,omitempty" validate:"omitempty,max=2048"`
	Context         string   `json:"context,omitempty" validate:"max=10000"`
	Summary         string   `json:"summary,omitempty" validate:"max=20000"`
	Technologies    []string `json:"technologies,omitempty" validate:"omitempty,max=200,dive,max=200"`
	KeyPersonnel    []string `json:"key_personnel,omitempty" validate:"omitempty,max=200,dive,max=300"`
	Status          string   `json:"status,omitempty" validate:"omitempty,leadstatus"`
	Source          string   `json:"source,omitempty" validate:"omitempty,max=100"`
	ConfidenceScore *float64 `json:"confidence_score,omitempty" validate:"omitempty,gte=0"`
}

type UpdateLeadRequest struct {
	CompanyName     *string        `json:"company_name,omitempty" validate:"omitempty,notblank,max=300"`
	Website         OptionalString `json:"website,omitempty" validate:"-"`
	Context         *string        `json:"context,omitempty" validate:"omitempty,max=10000"`
	Summary         *string        `json:"summary,omitempty" validate:"omitempty,max=20000"`
	Technologies    []string       `json:"technologies,omitempty" validate:"omitempty,max=200,dive,max=200"`
	KeyPersonnel    []string       `json:"key_personnel,omitempty" validate:"omitempty,max=200,dive,max=300"`
	Status          *string        `json:"status,omitempty" validate:"omitempty,leadstatus"`
	ConfidenceScore *float64       `json:"confidence_score,omitempty" validate:"omitempty,gte=0"`
}

type ListLeadsRequest struct {
	Status string `form:"status"`
}

// Response DTOs
type LeadResponse struct {
	ID              uuid.UUID `json:"id"`
	CompanyName     string    `json:"company_name"`
	Website         *string   `json:"website"`
	Context         string    `json:"context"`
	Summary         string    `json:"summary"`
	Technologies    []string  `json:"technologies"`
	KeyPersonnel    []string  `json:"key_personnel"`
	Status          string    `json:"status"`
	Source          string    `json:"source"`
	ConfidenceScore float64   `json:"confidence_score"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}
