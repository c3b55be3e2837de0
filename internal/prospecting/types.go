package prospecting

import "encoding/json"

// StatusSuccess is the only engine status treated as a usable result.
const StatusSuccess = "success"

// Campaign is a validated engine response. Leads and Reports keep the
// engine's raw elements so they can be returned to the caller unchanged.
type Campaign struct {
	Status  string
	Leads   []json.RawMessage
	Reports []Report
	Errors  []string
}

// RawReports returns the reports as the engine sent them.
func (c *Campaign) RawReports() []json.RawMessage {
	out := make([]json.RawMessage, 0, len(c.Reports))
	for _, r := range c.Reports {
		out = append(out, r.Raw)
	}
	return out
}

// Report is one research dossier. Every field except CompanyName is
// optional because the engine output is untrusted.
type Report struct {
	CompanyName     string
	Website         *string
	Context         *string
	DeepDive        *DeepDive
	ConfidenceScore *float64
	Raw             json.RawMessage
}

// DeepDive is the researcher's findings for one company.
type DeepDive struct {
	SourceURL         *string
	RawContentPreview *string
	FullContentLength *int
	Summary           *string
	Technologies      []string
	KeyPersonnel      []string
}

// wire shapes

type envelope struct {
	Status *string         `json:"status"`
	Data   json.RawMessage `json:"data"`
}

type payload struct {
	Leads   json.RawMessage `json:"leads"`
	Reports json.RawMessage `json:"reports"`
	Errors  json.RawMessage `json:"errors"`
}

type wireReport struct {
	CompanyName     any             `json:"company_name"`
	Website         any             `json:"website"`
	Context         any             `json:"context"`
	DeepDive        json.RawMessage `json:"deep_dive"`
	ConfidenceScore json.RawMessage `json:"confidence_score"`
}

type wireDeepDive struct {
	SourceURL         any             `json:"source_url"`
	RawContentPreview any             `json:"raw_content_preview"`
	FullContentLength json.RawMessage `json:"full_content_length"`
	Summary           any             `json:"summary"`
	Technologies      json.RawMessage `json:"technologies"`
	KeyPersonnel      json.RawMessage `json:"key_personnel"`
}
