package assistant

import (
	"sort"
	"strings"
)

// FollowUpAnswer is one canned follow-up response, optionally backed by
// a named source document in the drive
type FollowUpAnswer struct {
	Response   string
	SourceFile string
}

// KnowledgeEntry is one static FAQ topic. Keywords gate the match (at
// least two must appear); FollowUps map a follow-up phrase to an answer.
type KnowledgeEntry struct {
	Topic           string
	Keywords        []string
	InitialResponse string
	FollowUps       map[string]FollowUpAnswer

	// Matrix follow-ups are used only by the change-management topic:
	// department first, change type second
	Matrix map[string]map[string]FollowUpAnswer
}

// topicChangeManagement is the one multi-dimensional topic: answering a
// follow-up requires a department token and a change-type token
const topicChangeManagement = "change-management"

const defaultDepartment = "general"

// KnowledgeBase is the static FAQ table, loaded once at process start
// and read-only afterwards
type KnowledgeBase struct {
	entries []KnowledgeEntry
}

func NewKnowledgeBase() *KnowledgeBase {
	return &KnowledgeBase{entries: defaultEntries()}
}

// FindMatch returns the first entry with at least 2 keyword hits in the
// lower-cased text. Entries are scanned in table order; no scoring
// beyond the threshold.
func (kb *KnowledgeBase) FindMatch(text string) *KnowledgeEntry {
	lower := strings.ToLower(text)
	for i := range kb.entries {
		hits := 0
		for _, kw := range kb.entries[i].Keywords {
			if strings.Contains(lower, kw) {
				hits++
			}
		}
		if hits >= 2 {
			return &kb.entries[i]
		}
	}
	return nil
}

// ProcessFollowUp resolves a follow-up message against an open topic.
// Returns nil when the message matches nothing in the topic.
func (kb *KnowledgeBase) ProcessFollowUp(text string, topic *TopicContext) *FollowUpAnswer {
	if topic == nil || topic.Entry == nil {
		return nil
	}
	lower := strings.ToLower(text)
	entry := topic.Entry

	if entry.Topic == topicChangeManagement {
		return matchMatrix(lower, entry.Matrix)
	}

	keys := make([]string, 0, len(entry.FollowUps))
	for key := range entry.FollowUps {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if strings.Contains(lower, key) {
			answer := entry.FollowUps[key]
			return &answer
		}
	}
	return nil
}

// Fixed token orders keep matrix matching deterministic
var departmentTokens = []string{"claims", "underwriting", "finance"}
var changeTypeTokens = []string{"process", "system", "policy"}

// matchMatrix needs one department token and one change-type token.
// When the specific department has no answer for that change type, the
// default department is tried before giving up.
func matchMatrix(lower string, matrix map[string]map[string]FollowUpAnswer) *FollowUpAnswer {
	var dept string
	for _, d := range departmentTokens {
		if strings.Contains(lower, d) {
			dept = d
			break
		}
	}

	var changeType string
	for _, ct := range changeTypeTokens {
		if strings.Contains(lower, ct) {
			changeType = ct
			break
		}
	}
	if changeType == "" {
		return nil
	}

	if dept != "" {
		if answer, ok := matrix[dept][changeType]; ok {
			return &answer
		}
	}
	if answer, ok := matrix[defaultDepartment][changeType]; ok {
		return &answer
	}
	return nil
}

func defaultEntries() []KnowledgeEntry {
	return []KnowledgeEntry{
		{
			Topic:    "leave-policy",
			Keywords: []string{"leave", "policy", "vacation", "holiday", "time off"},
			InitialResponse: "Our leave policy covers annual leave, sick leave and parental leave. " +
				"Which one would you like to know more about?",
			FollowUps: map[string]FollowUpAnswer{
				"annual": {
					Response:   "Employees accrue 24 days of annual leave per year, applied for through the HR portal at least 3 working days in advance.",
					SourceFile: "Leave Policy Handbook.docx",
				},
				"sick": {
					Response:   "Sick leave is 12 days per year. A medical certificate is required for absences longer than 2 consecutive days.",
					SourceFile: "Leave Policy Handbook.docx",
				},
				"parental": {
					Response:   "Parental leave follows statutory requirements: 26 weeks maternity and 2 weeks paternity, extendable on request.",
					SourceFile: "Leave Policy Handbook.docx",
				},
			},
		},
		{
			Topic:    "health-insurance",
			Keywords: []string{"health", "insurance", "arogya", "sanjeevani", "mediclaim", "coverage", "claim"},
			InitialResponse: "We offer the Arogya Sanjeevani group health plan for all employees. " +
				"Do you want details on coverage, claims, or adding dependents?",
			FollowUps: map[string]FollowUpAnswer{
				"coverage": {
					Response:   "The base cover is 5 lakh per family per year, cashless at network hospitals, with room rent capped at 2% of sum insured.",
					SourceFile: "Arogya Sanjeevani Policy Brochure.pdf",
				},
				"claim": {
					Response:   "Cashless claims go through the hospital TPA desk; reimbursement claims must be filed within 30 days of discharge.",
					SourceFile: "Arogya Sanjeevani Policy Brochure.pdf",
				},
				"dependent": {
					Response:   "Spouse and up to 3 children are covered by default. Parents can be added during the annual enrollment window.",
					SourceFile: "Arogya Sanjeevani Policy Brochure.pdf",
				},
			},
		},
		{
			Topic:    "expense-reimbursement",
			Keywords: []string{"expense", "reimbursement", "claim", "travel", "invoice"},
			InitialResponse: "Expense reimbursements are filed monthly through the finance portal. " +
				"Are you asking about travel, meals, or equipment expenses?",
			FollowUps: map[string]FollowUpAnswer{
				"travel": {
					Response:   "Travel expenses need pre-approval for trips over 10,000 and original invoices attached within 15 days of return.",
					SourceFile: "Expense Guidelines.pdf",
				},
				"meal": {
					Response:   "Meal allowance is 750 per day on approved business travel, no receipts needed below that cap.",
					SourceFile: "Expense Guidelines.pdf",
				},
				"equipment": {
					Response:   "Equipment purchases above 5,000 go through procurement, smaller peripherals can be claimed directly.",
					SourceFile: "Expense Guidelines.pdf",
				},
			},
		},
		{
			Topic:    topicChangeManagement,
			Keywords: []string{"change", "request", "process", "approval", "workflow"},
			InitialResponse: "Change requests follow a staged approval workflow. Tell me the department " +
				"(claims, underwriting, finance) and the kind of change (process, system, policy) you're asking about.",
			Matrix: map[string]map[string]FollowUpAnswer{
				"claims": {
					"process": {
						Response:   "Claims process changes need sign-off from the claims head and a 2-week parallel run before cutover.",
						SourceFile: "Change Management SOP.docx",
					},
					"system": {
						Response:   "Claims system changes are deployed in the monthly release train after UAT sign-off from operations.",
						SourceFile: "Change Management SOP.docx",
					},
				},
				"underwriting": {
					"process": {
						Response:   "Underwriting process changes require actuarial review plus compliance approval before rollout.",
						SourceFile: "Change Management SOP.docx",
					},
				},
				defaultDepartment: {
					"process": {
						Response:   "Process changes are raised as a CR, reviewed by the process excellence team, and tracked to closure in the CR register.",
						SourceFile: "Change Management SOP.docx",
					},
					"system": {
						Response:   "System changes follow the standard CR lifecycle: impact analysis, approval board, build, UAT, release.",
						SourceFile: "Change Management SOP.docx",
					},
					"policy": {
						Response:   "Policy wording changes need legal and regulatory review; the filing team owns the IRDAI submission.",
						SourceFile: "Change Management SOP.docx",
					},
				},
			},
		},
	}
}
