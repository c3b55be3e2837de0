package management

import (
	"revenue_engine_backend/internal/leads/repository"
	"revenue_engine_backend/internal/leads/transport"
)

// ToLeadResponse converts a repository Lead to a transport LeadResponse.
func ToLeadResponse(lead repository.Lead) transport.LeadResponse {
	return transport.LeadResponse{
		ID:              lead.ID,
		CompanyName:     lead.CompanyName,
		Website:         lead.Website,
		Context:         lead.Context,
		Summary:         lead.Summary,
		Technologies:    nonNil(lead.Technologies),
		KeyPersonnel:    nonNil(lead.KeyPersonnel),
		Status:          lead.Status,
		Source:          lead.Source,
		ConfidenceScore: lead.ConfidenceScore,
		CreatedAt:       lead.CreatedAt,
		UpdatedAt:       lead.UpdatedAt,
	}
}

// ToLeadResponses converts a slice, never returning nil.
func ToLeadResponses(leads []repository.Lead) []transport.LeadResponse {
	out := make([]transport.LeadResponse, 0, len(leads))
	for _, lead := range leads {
		out = append(out, ToLeadResponse(lead))
	}
	return out
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
