package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"drive-assistant-be/pkg/llm"
)

// ReportForm is the fixed schema extracted from a change request
// document to pre-fill the impact analysis report
type ReportForm struct {
	PMNumber         string `json:"pm_number"`
	CRNumber         string `json:"cr_number"`
	IssueDescription string `json:"issue_description"`
	SystemImpacts    string `json:"system_impacts"`
	Risks            string `json:"risks"`
}

// ExtractReportForm asks the model to fill the report schema from the
// document. A JSON parse failure degrades to an empty form, never an
// error surfaced to the user.
func (s *Service) ExtractReportForm(ctx context.Context, content string) (*ReportForm, error) {
	if !s.enabled {
		return &ReportForm{}, nil
	}

	prompt := fmt.Sprintf(
		`Extract the following fields from the change request document below and reply with JSON only, no prose:
{"pm_number": "", "cr_number": "", "issue_description": "", "system_impacts": "", "risks": ""}

Document:
%s`, truncate(content))

	reply, err := s.provider.Generate(ctx, prompt, llm.WithTemperature(0.0))
	if err != nil {
		s.logf("[AI] report extraction failed: %v", err)
		return &ReportForm{}, nil
	}

	form, ok := parseReportForm(reply)
	if !ok {
		s.logf("[AI] report extraction returned unparseable JSON")
		return &ReportForm{}, nil
	}
	return form, nil
}

// parseReportForm strips code fences and surrounding prose before
// unmarshalling, the same cleanup chat models need everywhere
func parseReportForm(reply string) (*ReportForm, bool) {
	reply = strings.TrimSpace(reply)
	reply = strings.TrimPrefix(reply, "```json")
	reply = strings.TrimPrefix(reply, "```")
	reply = strings.TrimSuffix(reply, "```")
	reply = strings.TrimSpace(reply)

	jsonStart := strings.Index(reply, "{")
	jsonEnd := strings.LastIndex(reply, "}")
	if jsonStart >= 0 && jsonEnd > jsonStart {
		reply = reply[jsonStart : jsonEnd+1]
	}

	var form ReportForm
	if err := json.Unmarshal([]byte(reply), &form); err != nil {
		return nil, false
	}
	return &form, true
}
