package assistant

import "testing"

func TestIsNumberSelection(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"3", true},
		{" 12 ", true},
		{"003", true},
		{"3a", false},
		{"three", false},
		{"", false},
		{"3.5", false},
	}
	for _, tt := range tests {
		if got := isNumberSelection(tt.input); got != tt.want {
			t.Errorf("isNumberSelection(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestIsReadSummaryRequest(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"read the policy document", true},
		{"summarize cr 20049", true},
		{"what does the brochure say", true},
		{"tell me about the claims process", true},
		{"transcript of the standup", true},
		{"hello there", false},
		{"3", false},
	}
	for _, tt := range tests {
		if got := isReadSummaryRequest(tt.input); got != tt.want {
			t.Errorf("isReadSummaryRequest(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestIsFileSearchRequest(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"find the premium chart", true},
		{"show arogya sanjeevani files", true},
		{"health policy", true}, // domain terms alone qualify
		{"spreadsheet from last week", true},
		{"good morning", false},
	}
	for _, tt := range tests {
		if got := isFileSearchRequest(tt.input); got != tt.want {
			t.Errorf("isFileSearchRequest(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestGetMediaType(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"show me a photo of the event", "image"},
		{"play the launch video", "video"},
		{"any media from the offsite", "all"},
		{"picture or clip from the demo", "all"}, // both kinds present
	}
	for _, tt := range tests {
		if got := getMediaType(tt.input); got != tt.want {
			t.Errorf("getMediaType(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestGetRequestedCount(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"top 15 documents", 15},
		{"first 3 files", 3},
		{"show 7", 7},
		{"5 results", 5},
		{"get 100 files", 50}, // clamped to 50
		{"show files", 0},
		{"top 0 files", 0},
	}
	for _, tt := range tests {
		if got := getRequestedCount(tt.input); got != tt.want {
			t.Errorf("getRequestedCount(%q) = %d, want %d", tt.input, got, tt.want)
		}
	}
}

func TestWantsMultipleFiles(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"show all brochures", true},
		{"top 3 files", true},
		{"many photos", true},
		{"find the brochure", false},
	}
	for _, tt := range tests {
		if got := wantsMultipleFiles(tt.input); got != tt.want {
			t.Errorf("wantsMultipleFiles(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestIsDocumentQuestion(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		hasActive bool
		want      bool
	}{
		{"no active document", "what is the impact?", false, false},
		{"question mark", "the premium changed?", true, true},
		{"question word at start", "what is the impact", true, true},
		{"action phrase", "simplify in layman terms", true, true},
		{"task breakdown phrase", "break down tasks for dev assignment", true, true},
		{"statement", "thanks", true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isDocumentQuestion(tt.input, tt.hasActive); got != tt.want {
				t.Errorf("isDocumentQuestion(%q, %v) = %v, want %v", tt.input, tt.hasActive, got, tt.want)
			}
		})
	}
}
