package assistant

import (
	"reflect"
	"testing"
)

func TestExtractSearchTermsCRVariants(t *testing.T) {
	want := []string{"CR20049", "CR_20049", "CR 20049", "CR-20049", "20049"}

	inputs := []string{
		"CR 20049",
		"read cr-20049",
		"summarize CR_20049 for me",
		"cr20049",
	}
	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			got := extractSearchTerms(input)
			if !reflect.DeepEqual(got, want) {
				t.Errorf("extractSearchTerms(%q) = %v, want %v", input, got, want)
			}
		})
	}
}

func TestExtractSearchTermsProducts(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "combined brand terms",
			input: "show arogya sanjeevani files",
			want:  []string{"Arogya Sanjeevani"},
		},
		{
			name:  "standalone brand term",
			input: "find the sanjeevani brochure",
			want:  []string{"Sanjeevani"},
		},
		{
			name:  "marketing phrase canonical casing",
			input: "get me the impact analysis please",
			want:  []string{"Impact Analysis"},
		},
		{
			name:  "bare long number",
			input: "find 20049",
			want:  []string{"20049"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := extractSearchTerms(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("extractSearchTerms(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestExtractSearchTermsFallback(t *testing.T) {
	// The fallback strips stop words and returns at most one phrase of
	// up to four words
	got := extractSearchTerms("please find the quarterly budget planning review presentation files")
	if len(got) != 1 {
		t.Fatalf("fallback should return exactly one phrase, got %v", got)
	}
	if got[0] != "quarterly budget planning review" {
		t.Errorf("fallback phrase = %q, want %q", got[0], "quarterly budget planning review")
	}
}

func TestExtractSearchTermsEmpty(t *testing.T) {
	if got := extractSearchTerms("show me the files"); got != nil {
		t.Errorf("stop-word-only input should yield nil, got %v", got)
	}
}

func TestIsCRFileName(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"CR20049_impact.docx", true},
		{"CR 20049.pdf", true},
		{"cr-1234 notes.txt", true},
		{"Quarterly Review.docx", false},
		{"secret plan.docx", false},
	}
	for _, tt := range tests {
		if got := isCRFileName(tt.name); got != tt.want {
			t.Errorf("isCRFileName(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}
