package prospecting

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// decodeCampaign validates the engine envelope and normalizes its reports.
// Missing or null collections count as empty; anything else of the wrong
// shape is rejected.
func decodeCampaign(body []byte) (*Campaign, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	status := StatusSuccess
	if env.Status != nil {
		status = *env.Status
		if status != StatusSuccess {
			return nil, fmt.Errorf("engine reported status %q", status)
		}
	}

	if !isObject(env.Data) {
		return nil, fmt.Errorf("response has no data object")
	}

	var p payload
	if err := json.Unmarshal(env.Data, &p); err != nil {
		return nil, fmt.Errorf("decode data: %w", err)
	}

	leads, err := objectArray("leads", p.Leads)
	if err != nil {
		return nil, err
	}
	rawReports, err := objectArray("reports", p.Reports)
	if err != nil {
		return nil, err
	}
	errs, err := stringArray("errors", p.Errors)
	if err != nil {
		return nil, err
	}

	reports := make([]Report, 0, len(rawReports))
	for i, raw := range rawReports {
		report, err := decodeReport(raw)
		if err != nil {
			return nil, fmt.Errorf("reports[%d]: %w", i, err)
		}
		reports = append(reports, report)
	}

	return &Campaign{
		Status:  status,
		Leads:   leads,
		Reports: reports,
		Errors:  errs,
	}, nil
}

func decodeReport(raw json.RawMessage) (Report, error) {
	var w wireReport
	if err := json.Unmarshal(raw, &w); err != nil {
		return Report{}, err
	}

	report := Report{
		CompanyName: strings.TrimSpace(stringOf(w.CompanyName)),
		Website:     optionalString(w.Website),
		Context:     optionalString(w.Context),
		Raw:         raw,
	}
	report.ConfidenceScore = lenientNumber(w.ConfidenceScore)

	// The researcher returns an error string instead of an object when a
	// scrape fails; such a report simply has no deep dive.
	if isObject(w.DeepDive) {
		var d wireDeepDive
		if err := json.Unmarshal(w.DeepDive, &d); err != nil {
			return Report{}, fmt.Errorf("deep_dive: %w", err)
		}
		dive := &DeepDive{
			SourceURL:         optionalString(d.SourceURL),
			RawContentPreview: optionalString(d.RawContentPreview),
			Summary:           optionalString(d.Summary),
			Technologies:      lenientStrings(d.Technologies),
			KeyPersonnel:      lenientStrings(d.KeyPersonnel),
		}
		dive.FullContentLength = contentLength(lenientNumber(d.FullContentLength))
		report.DeepDive = dive
	}

	return report, nil
}

func isObject(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '{'
}

func isAbsent(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

func objectArray(field string, raw json.RawMessage) ([]json.RawMessage, error) {
	if isAbsent(raw) {
		return []json.RawMessage{}, nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("%s is not an array", field)
	}
	for i, item := range items {
		if !isObject(item) {
			return nil, fmt.Errorf("%s[%d] is not an object", field, i)
		}
	}
	if items == nil {
		items = []json.RawMessage{}
	}
	return items, nil
}

func stringArray(field string, raw json.RawMessage) ([]string, error) {
	if isAbsent(raw) {
		return []string{}, nil
	}
	var items []any
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("%s is not an array", field)
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, stringOf(item))
	}
	return out, nil
}

// lenientNumber accepts numbers and numeric strings; anything else is treated
// as absent rather than failing the whole campaign.
func lenientNumber(raw json.RawMessage) *float64 {
	if isAbsent(raw) {
		return nil
	}

	var v float64
	if err := json.Unmarshal(raw, &v); err != nil {
		// Some model outputs quote their numbers.
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil
		}
		parsed, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return nil
		}
		v = parsed
	}

	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// contentLength drops lengths that are negative or do not fit an int32.
func contentLength(n *float64) *int {
	if n == nil || *n < 0 || *n > math.MaxInt32 {
		return nil
	}
	length := int(*n)
	return &length
}

// lenientStrings keeps the string entries of an array and ignores the rest.
func lenientStrings(raw json.RawMessage) []string {
	if isAbsent(raw) {
		return nil
	}
	var items []any
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func stringOf(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return fmt.Sprintf("%g", t)
	case bool:
		return fmt.Sprintf("%t", t)
	default:
		b, _ := json.Marshal(t)
		return string(b)
	}
}

func optionalString(v any) *string {
	s, ok := v.(string)
	if !ok {
		return nil
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
