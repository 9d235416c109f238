package assistant

import "testing"

func TestFindMatchRequiresTwoKeywords(t *testing.T) {
	kb := NewKnowledgeBase()

	if entry := kb.FindMatch("what is the vacation situation"); entry != nil {
		t.Errorf("single keyword matched entry %q, want no match", entry.Topic)
	}

	entry := kb.FindMatch("what is the leave policy here")
	if entry == nil {
		t.Fatal("two keywords did not match any entry")
	}
	if entry.Topic != "leave-policy" {
		t.Errorf("matched topic %q, want %q", entry.Topic, "leave-policy")
	}
}

func TestFindMatchTableOrder(t *testing.T) {
	kb := NewKnowledgeBase()

	// "claim" appears in both health-insurance and expense-reimbursement;
	// "insurance" pushes health-insurance over the threshold first.
	entry := kb.FindMatch("insurance claim question")
	if entry == nil {
		t.Fatal("no match")
	}
	if entry.Topic != "health-insurance" {
		t.Errorf("matched topic %q, want %q", entry.Topic, "health-insurance")
	}
}

func TestProcessFollowUpKeyword(t *testing.T) {
	kb := NewKnowledgeBase()
	entry := kb.FindMatch("leave policy")
	if entry == nil {
		t.Fatal("no match for leave policy")
	}
	topic := &TopicContext{Entry: entry}

	answer := kb.ProcessFollowUp("tell me about sick days", topic)
	if answer == nil {
		t.Fatal("follow-up did not resolve")
	}
	if answer.SourceFile != "Leave Policy Handbook.docx" {
		t.Errorf("source = %q, want handbook", answer.SourceFile)
	}

	if got := kb.ProcessFollowUp("something unrelated", topic); got != nil {
		t.Errorf("unrelated follow-up resolved to %+v, want nil", got)
	}
}

func TestProcessFollowUpMatrix(t *testing.T) {
	kb := NewKnowledgeBase()
	entry := kb.FindMatch("change request approval")
	if entry == nil {
		t.Fatal("no match for change request")
	}
	if entry.Topic != topicChangeManagement {
		t.Fatalf("matched topic %q, want %q", entry.Topic, topicChangeManagement)
	}
	topic := &TopicContext{Entry: entry}

	tests := []struct {
		name     string
		input    string
		wantNil  bool
		wantText string
	}{
		{
			name:     "specific department and change type",
			input:    "claims process change",
			wantText: "Claims process changes",
		},
		{
			name:     "department without that change type falls back to default",
			input:    "underwriting system change",
			wantText: "System changes follow the standard CR lifecycle",
		},
		{
			name:     "no department uses default",
			input:    "policy change",
			wantText: "Policy wording changes",
		},
		{
			name:    "no change type",
			input:   "claims department",
			wantNil: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			answer := kb.ProcessFollowUp(tt.input, topic)
			if tt.wantNil {
				if answer != nil {
					t.Fatalf("got %+v, want nil", answer)
				}
				return
			}
			if answer == nil {
				t.Fatal("follow-up did not resolve")
			}
			if len(answer.Response) < len(tt.wantText) || answer.Response[:len(tt.wantText)] != tt.wantText {
				t.Errorf("response %q does not start with %q", answer.Response, tt.wantText)
			}
		})
	}
}

func TestProcessFollowUpNilTopic(t *testing.T) {
	kb := NewKnowledgeBase()
	if got := kb.ProcessFollowUp("anything", nil); got != nil {
		t.Errorf("nil topic resolved to %+v", got)
	}
}
