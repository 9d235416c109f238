package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"drive-assistant-be/pkg/ai"
	"drive-assistant-be/pkg/drive"
	"drive-assistant-be/pkg/llm"
	"drive-assistant-be/pkg/msauth"
)

// scriptedRepo is a canned drive.FileRepository for engine tests
type scriptedRepo struct {
	searchResults map[string][]drive.FileRecord
	searchErr     error
	searchCalls   []string
	recent        []drive.FileRecord
	recentErr     error
	contents      map[string]*drive.DocumentContent
	transcripts   map[string]*drive.Transcript
	media         []drive.FileRecord
}

func (r *scriptedRepo) Search(ctx context.Context, term string) ([]drive.FileRecord, error) {
	r.searchCalls = append(r.searchCalls, term)
	if r.searchErr != nil {
		return nil, r.searchErr
	}
	return r.searchResults[term], nil
}

func (r *scriptedRepo) SearchMedia(ctx context.Context, term string, mediaType drive.MediaType) ([]drive.FileRecord, error) {
	return r.media, nil
}

func (r *scriptedRepo) GetRecentFiles(ctx context.Context) ([]drive.FileRecord, error) {
	return r.recent, r.recentErr
}

func (r *scriptedRepo) GetFoldersOnly(ctx context.Context, parentId string) ([]drive.FileRecord, error) {
	return nil, nil
}

func (r *scriptedRepo) GetDocumentContent(ctx context.Context, id, name string) (*drive.DocumentContent, error) {
	if c, ok := r.contents[id]; ok {
		return c, nil
	}
	return nil, errors.New("no content for " + id)
}

func (r *scriptedRepo) GetVideoTranscript(ctx context.Context, file drive.FileRecord) (*drive.Transcript, error) {
	if tr, ok := r.transcripts[file.Id]; ok {
		return tr, nil
	}
	return nil, errors.New("no transcript for " + file.Id)
}

func (r *scriptedRepo) GetFileById(ctx context.Context, id string) (*drive.FileRecord, error) {
	return nil, nil
}

func (r *scriptedRepo) UploadFile(ctx context.Context, parentId, name string, content []byte) (*drive.FileRecord, error) {
	return nil, nil
}

// fakeAI panics on any call while disabled, proving the engine honors
// the Enabled() contract
type fakeAI struct {
	enabled     bool
	summary     string
	answer      string
	chatReply   string
	impacted    string
	questions   []string
	form        *ai.ReportForm
	answerCalls []string
}

func (f *fakeAI) Enabled() bool { return f.enabled }

func (f *fakeAI) mustBeEnabled() {
	if !f.enabled {
		panic("ai called while disabled")
	}
}

func (f *fakeAI) Summarize(ctx context.Context, text, title string) (string, error) {
	f.mustBeEnabled()
	return f.summary, nil
}

func (f *fakeAI) Answer(ctx context.Context, text, question, title string) (string, error) {
	f.mustBeEnabled()
	f.answerCalls = append(f.answerCalls, question)
	return f.answer, nil
}

func (f *fakeAI) Chat(ctx context.Context, message string, history []llm.Message) (string, error) {
	f.mustBeEnabled()
	return f.chatReply, nil
}

func (f *fakeAI) ExtractImpactedAreas(ctx context.Context, text, title string) (string, error) {
	f.mustBeEnabled()
	return f.impacted, nil
}

func (f *fakeAI) SuggestQuestions(ctx context.Context, text, title string) ([]string, error) {
	f.mustBeEnabled()
	return f.questions, nil
}

func (f *fakeAI) ExtractReportForm(ctx context.Context, content string) (*ai.ReportForm, error) {
	f.mustBeEnabled()
	return f.form, nil
}

func docRecord(id, name string) drive.FileRecord {
	return drive.FileRecord{
		Id:   id,
		Name: name,
		Path: "/Documents/" + name,
		Type: drive.TypeForName(name),
		Size: 2048,
		Date: "2026-08-01",
	}
}

func newState() *SessionState {
	return &SessionState{Id: "s1", UserId: "u1"}
}

func TestHandleMessageProductSearch(t *testing.T) {
	repo := &scriptedRepo{
		searchResults: map[string][]drive.FileRecord{
			"Arogya Sanjeevani": {
				docRecord("a1", "Arogya Sanjeevani Policy Brochure.pdf"),
				docRecord("a2", "Arogya Sanjeevani Premium Chart.xlsx"),
			},
		},
	}
	engine := NewEngine(repo, &fakeAI{enabled: false}, nil, nil)
	state := newState()

	reply := engine.HandleMessage(context.Background(), state, "Show Arogya Sanjeevani files")

	if reply.Kind != BotKindFiles {
		t.Fatalf("kind = %q, want files", reply.Kind)
	}
	if len(reply.Items) != 2 {
		t.Fatalf("got %d items, want 2", len(reply.Items))
	}
	if len(repo.searchCalls) != 1 || repo.searchCalls[0] != "Arogya Sanjeevani" {
		t.Errorf("search calls = %v, want [Arogya Sanjeevani]", repo.searchCalls)
	}
	if len(state.LastFileList) != 2 {
		t.Errorf("lastFileList has %d entries, want 2", len(state.LastFileList))
	}
	if len(state.SourceDocuments) != 2 {
		t.Errorf("sourceDocuments has %d entries, want 2", len(state.SourceDocuments))
	}
	if len(state.Messages) != 2 {
		t.Errorf("transcript has %d messages, want 2", len(state.Messages))
	}
}

func TestHandleMessageCRReadAndSuggestionSelection(t *testing.T) {
	crDoc := docRecord("f1", "CR_20049 Impact Analysis.docx")
	repo := &scriptedRepo{
		searchResults: map[string][]drive.FileRecord{
			"CR20049": {crDoc},
		},
		contents: map[string]*drive.DocumentContent{
			"f1": {
				Content: strings.Repeat("The change request modifies premium calculation for the retail line. ", 5),
				Path:    "/Documents/CR_20049 Impact Analysis.docx",
			},
		},
	}
	aiSvc := &fakeAI{
		enabled:   true,
		summary:   "Premium calculation changes for retail.",
		answer:    "Task one, task two, task three.",
		impacted:  "Billing, policy admin",
		questions: []string{"what systems are affected"},
	}
	engine := NewEngine(repo, aiSvc, nil, nil)
	state := newState()

	reply := engine.HandleMessage(context.Background(), state, "read CR 20049")

	if reply.Kind != BotKindSuggestions {
		t.Fatalf("kind = %q, want suggestions", reply.Kind)
	}
	if len(reply.Suggestions) != 3 {
		t.Fatalf("got %d suggestions, want 3: %v", len(reply.Suggestions), reply.Suggestions)
	}
	if reply.Suggestions[2] != "break down tasks for dev assignment" {
		t.Errorf("suggestion[2] = %q", reply.Suggestions[2])
	}
	if state.ActiveDocument == nil || state.ActiveDocument.Name != crDoc.Name {
		t.Fatalf("activeDocument = %+v", state.ActiveDocument)
	}
	if state.LastFileList != nil {
		t.Errorf("lastFileList should be displaced by suggestions, got %v", state.LastFileList)
	}
	if !strings.Contains(reply.Text, "Impacted areas") {
		t.Errorf("reply missing impacted areas: %q", reply.Text)
	}

	// Number picks suggestion 3 and behaves as if its text was typed
	reply = engine.HandleMessage(context.Background(), state, "3")
	if reply.Text != aiSvc.answer {
		t.Fatalf("reply = %q, want scripted answer", reply.Text)
	}
	if state.LastSuggestedQuestions != nil {
		t.Errorf("suggestions not consumed: %v", state.LastSuggestedQuestions)
	}
	if len(aiSvc.answerCalls) != 1 || !strings.Contains(aiSvc.answerCalls[0], "development tasks") {
		t.Errorf("answer question = %v, want task breakdown prompt", aiSvc.answerCalls)
	}

	// Selecting again must not repeat: the list is gone
	reply = engine.HandleMessage(context.Background(), state, "3")
	if want := fmt.Sprintf(msgInvalidSelection, 0); reply.Text != want {
		t.Errorf("second selection = %q, want %q", reply.Text, want)
	}
	if state.ActiveDocument == nil {
		t.Error("activeDocument lost on invalid selection")
	}
}

func TestHandleMessageInvalidSelection(t *testing.T) {
	engine := NewEngine(&scriptedRepo{}, &fakeAI{enabled: false}, nil, nil)
	state := newState()
	state.LastFileList = []drive.FileRecord{
		docRecord("a", "One.docx"),
		docRecord("b", "Two.docx"),
	}
	state.SourceDocuments = state.LastFileList

	reply := engine.HandleMessage(context.Background(), state, "5")

	want := fmt.Sprintf(msgInvalidSelection, 2)
	if reply.Text != want {
		t.Errorf("reply = %q, want %q", reply.Text, want)
	}
	if state.ActiveDocument != nil {
		t.Error("activeDocument changed")
	}
	if len(state.LastFileList) != 2 || len(state.SourceDocuments) != 2 {
		t.Error("selection lists changed on invalid selection")
	}
}

func TestHandleMessageVideoSelection(t *testing.T) {
	video := docRecord("v1", "Sprint Review.mp4")
	repo := &scriptedRepo{
		transcripts: map[string]*drive.Transcript{
			"v1": {
				HasTranscript: true,
				Content: "The sprint review covered the premium calculation rollout. " +
					"The team agreed to ship the billing change next week. " +
					"Open risks were assigned to the claims integration owner.",
			},
		},
	}
	engine := NewEngine(repo, &fakeAI{enabled: false}, nil, nil)
	state := newState()
	state.LastFileList = []drive.FileRecord{
		docRecord("a", "One.docx"),
		docRecord("b", "Two.docx"),
		video,
	}

	reply := engine.HandleMessage(context.Background(), state, "3")

	if !reply.IsVideo {
		t.Fatal("reply not flagged as video")
	}
	if state.ActiveDocument == nil || !state.ActiveDocument.IsVideo {
		t.Fatalf("activeDocument = %+v, want video transcript", state.ActiveDocument)
	}
	if state.ActiveDocument.Name != video.Name {
		t.Errorf("activeDocument.Name = %q", state.ActiveDocument.Name)
	}
	if !strings.Contains(reply.Text, "summary of the recording") {
		t.Errorf("reply = %q", reply.Text)
	}
	if len(state.LastFileList) != 1 || state.LastFileList[0].Id != "v1" {
		t.Errorf("lastFileList = %v, want just the opened video", state.LastFileList)
	}
}

func TestHandleMessageNewDocumentRoundTrip(t *testing.T) {
	engine := NewEngine(&scriptedRepo{}, &fakeAI{enabled: false}, nil, nil)
	state := newState()
	state.ActiveDocument = &ActiveDocument{Id: "f1", Name: "CR_20049.docx", Content: "text"}
	state.SourceDocuments = []drive.FileRecord{docRecord("f1", "CR_20049.docx")}

	reply := engine.HandleMessage(context.Background(), state, "new document")

	if reply.Text != msgDocumentCleared {
		t.Errorf("reply = %q, want %q", reply.Text, msgDocumentCleared)
	}
	if state.ActiveDocument != nil {
		t.Error("activeDocument not cleared")
	}
	if state.SourceDocuments != nil {
		t.Error("sourceDocuments not cleared")
	}
	if isDocumentQuestion("what is the impact?", state.ActiveDocument != nil) {
		t.Error("document question still possible after clearing")
	}
}

func TestHandleMessageExtractiveSummaryWithoutAI(t *testing.T) {
	content := strings.Repeat("The onboarding guide walks new joiners through the first-week setup steps. ", 16)
	if len(content) < 1200 {
		t.Fatalf("content too short: %d", len(content))
	}
	repo := &scriptedRepo{
		searchResults: map[string][]drive.FileRecord{
			"onboarding guide": {docRecord("d1", "Onboarding Guide.docx")},
		},
		contents: map[string]*drive.DocumentContent{
			"d1": {Content: content, Path: "/Documents/Onboarding Guide.docx"},
		},
	}
	// fakeAI panics on any call while disabled, so a passing test proves
	// no summarizer call was made
	engine := NewEngine(repo, &fakeAI{enabled: false}, nil, nil)
	state := newState()

	reply := engine.HandleMessage(context.Background(), state, "read the onboarding guide")

	if state.ActiveDocument == nil {
		t.Fatal("activeDocument not set")
	}
	start := strings.Index(reply.Text, "\n\n")
	end := strings.LastIndex(reply.Text, "\n\nPath:")
	if start < 0 || end <= start {
		t.Fatalf("unexpected reply shape: %q", reply.Text)
	}
	summary := reply.Text[start+2 : end]
	if summary == "" {
		t.Fatal("summary is empty")
	}
	if len(summary) > 500 {
		t.Errorf("summary is %d chars, want <= 500", len(summary))
	}
}

func TestHandleMessageTopDocumentsFromRecent(t *testing.T) {
	var recent []drive.FileRecord
	for i := 0; i < 18; i++ {
		recent = append(recent, docRecord(fmt.Sprintf("r%d", i), fmt.Sprintf("Report %02d.docx", i)))
	}
	recent = append(recent, docRecord("p1", "Diagram.png"), docRecord("p2", "Photo.png"))

	engine := NewEngine(&scriptedRepo{recent: recent}, &fakeAI{enabled: false}, nil, nil)
	state := newState()

	reply := engine.HandleMessage(context.Background(), state, "show top 15 documents")

	if len(reply.Items) != 15 {
		t.Fatalf("got %d items, want 15", len(reply.Items))
	}
	for _, item := range reply.Items {
		if item.Type != drive.FileTypeDocument {
			t.Errorf("non-document %q in filtered listing", item.Name)
		}
	}
	if len(state.LastFileList) != 15 {
		t.Errorf("lastFileList has %d entries, want 15", len(state.LastFileList))
	}
}

func TestHandleMessageAuthFailure(t *testing.T) {
	repo := &scriptedRepo{searchErr: msauth.ErrInteractionRequired}
	engine := NewEngine(repo, &fakeAI{enabled: false}, nil, nil)
	state := newState()

	reply := engine.HandleMessage(context.Background(), state, "find the premium chart")

	if reply.Text != msgAuthRequired {
		t.Errorf("reply = %q, want %q", reply.Text, msgAuthRequired)
	}
	if len(state.Messages) != 2 {
		t.Errorf("transcript has %d messages, want 2", len(state.Messages))
	}
}

func TestHandleMessageRecentUploadsFallback(t *testing.T) {
	repo := &scriptedRepo{searchResults: map[string][]drive.FileRecord{}}
	engine := NewEngine(repo, &fakeAI{enabled: false}, nil, nil)
	state := newState()
	state.AddRecentUpload(docRecord("u1", "Premium Chart 2026.xlsx"))

	reply := engine.HandleMessage(context.Background(), state, "find the premium chart")

	if reply.Kind != BotKindFiles {
		t.Fatalf("kind = %q, want files (reply %q)", reply.Kind, reply.Text)
	}
	if len(reply.Items) != 1 || reply.Items[0].Id != "u1" {
		t.Errorf("items = %v, want the recent upload", reply.Items)
	}
}

func TestHandleMessageKnowledgeTopicFlow(t *testing.T) {
	sop := docRecord("s1", "Change Management SOP.docx")
	repo := &scriptedRepo{
		searchResults: map[string][]drive.FileRecord{
			"Change Management SOP.docx": {sop},
		},
	}
	engine := NewEngine(repo, &fakeAI{enabled: false}, nil, nil)
	state := newState()

	reply := engine.HandleMessage(context.Background(), state, "how does the change approval workflow work")
	if state.CurrentContext == nil {
		t.Fatal("no topic opened")
	}
	if !strings.Contains(reply.Text, "staged approval workflow") {
		t.Errorf("initial response = %q", reply.Text)
	}

	reply = engine.HandleMessage(context.Background(), state, "underwriting system change")
	if !strings.Contains(reply.Text, "System changes follow the standard CR lifecycle") {
		t.Errorf("follow-up = %q, want default-department system answer", reply.Text)
	}
	if !state.CurrentContext.Resolved {
		t.Error("topic not marked resolved")
	}
	if state.CurrentContext.LastSourceFile != sop.Name {
		t.Errorf("lastSourceFile = %q", state.CurrentContext.LastSourceFile)
	}

	reply = engine.HandleMessage(context.Background(), state, "what is the source of that")
	if reply.Kind != BotKindFiles {
		t.Fatalf("source reply kind = %q (text %q)", reply.Kind, reply.Text)
	}
	if len(reply.Items) != 1 || reply.Items[0].Id != sop.Id {
		t.Errorf("source items = %v", reply.Items)
	}
	if len(state.SourceDocuments) != 1 {
		t.Errorf("sourceDocuments = %v", state.SourceDocuments)
	}
}

func TestHandleMessageShowAllResults(t *testing.T) {
	var results []drive.FileRecord
	for i := 0; i < 6; i++ {
		results = append(results, docRecord(fmt.Sprintf("f%d", i), fmt.Sprintf("Arogya Sanjeevani %d.pdf", i)))
	}
	repo := &scriptedRepo{
		searchResults: map[string][]drive.FileRecord{"Arogya Sanjeevani": results},
	}
	engine := NewEngine(repo, &fakeAI{enabled: false}, nil, nil)
	state := newState()

	reply := engine.HandleMessage(context.Background(), state, "find arogya sanjeevani")
	if len(reply.Items) != 1 {
		t.Fatalf("got %d items, want single card", len(reply.Items))
	}
	if !strings.Contains(reply.Text, "5 more files found") {
		t.Errorf("reply = %q, want mention of remaining files", reply.Text)
	}
	if len(state.LastSearchResults) != 6 {
		t.Fatalf("lastSearchResults has %d entries, want 6", len(state.LastSearchResults))
	}

	reply = engine.HandleMessage(context.Background(), state, "show all files")
	if len(reply.Items) != 6 {
		t.Fatalf("expanded to %d items, want 6", len(reply.Items))
	}
	if len(state.LastFileList) != 6 {
		t.Errorf("lastFileList has %d entries, want 6", len(state.LastFileList))
	}
}

func TestHandleMessageReportPrefill(t *testing.T) {
	form := &ai.ReportForm{CRNumber: "20049", IssueDescription: "Premium calc change"}
	aiSvc := &fakeAI{enabled: true, form: form}
	engine := NewEngine(&scriptedRepo{}, aiSvc, nil, nil)
	state := newState()

	reply := engine.HandleMessage(context.Background(), state, "generate pm document")
	if reply.Text != msgReportNeedsDocument {
		t.Fatalf("reply = %q, want %q", reply.Text, msgReportNeedsDocument)
	}

	state.ActiveDocument = &ActiveDocument{Id: "f1", Name: "CR_20049.docx", Content: "change request body"}
	reply = engine.HandleMessage(context.Background(), state, "generate pm document")
	if reply.ReportForm != form {
		t.Errorf("reportForm = %v, want the extracted form", reply.ReportForm)
	}
	if !strings.Contains(reply.Text, state.ActiveDocument.Name) {
		t.Errorf("reply = %q, want the document named", reply.Text)
	}
}

func TestHandleMessageGenericChat(t *testing.T) {
	aiSvc := &fakeAI{enabled: true, chatReply: "Hello! How can I help with your files today?"}
	engine := NewEngine(&scriptedRepo{}, aiSvc, nil, nil)
	state := newState()

	reply := engine.HandleMessage(context.Background(), state, "hi")
	if reply.Text != aiSvc.chatReply {
		t.Errorf("reply = %q, want chat answer", reply.Text)
	}
	if len(state.History) != 2 {
		t.Errorf("history has %d entries, want 2", len(state.History))
	}
}

func TestHandleMessageDocQuestionRebindsSources(t *testing.T) {
	crDoc := docRecord("a1", "CR_20049 Impact Analysis.docx")
	chart := docRecord("b1", "Premium Chart.xlsx")
	repo := &scriptedRepo{
		searchResults: map[string][]drive.FileRecord{
			"CR20049":       {crDoc},
			"Premium Chart": {chart},
		},
		contents: map[string]*drive.DocumentContent{
			"a1": {
				Content: strings.Repeat("The change request modifies billing and policy admin. ", 5),
				Path:    crDoc.Path,
			},
		},
	}
	aiSvc := &fakeAI{
		enabled:   true,
		summary:   "Billing and policy admin changes.",
		answer:    "Billing is impacted through the premium calculation module.",
		impacted:  "Billing",
		questions: []string{"what systems are affected"},
	}
	engine := NewEngine(repo, aiSvc, nil, nil)
	state := newState()

	engine.HandleMessage(context.Background(), state, "read CR 20049")
	engine.HandleMessage(context.Background(), state, "Show Premium Chart files")
	if len(state.SourceDocuments) != 1 || state.SourceDocuments[0].Id != "b1" {
		t.Fatalf("sourceDocuments after search = %v, want the chart", state.SourceDocuments)
	}

	reply := engine.HandleMessage(context.Background(), state, "what is the impact on billing?")
	if reply.Text != aiSvc.answer {
		t.Fatalf("reply = %q, want scripted answer", reply.Text)
	}
	if len(reply.Sources) != 1 || reply.Sources[0].Id != "a1" {
		t.Fatalf("answer sources = %v, want the active document", reply.Sources)
	}

	// The answer came from the open document, so a source query must
	// cite it, not the file list surfaced in between
	reply = engine.HandleMessage(context.Background(), state, "source")
	if reply.Kind != BotKindFiles {
		t.Fatalf("kind = %q, want files", reply.Kind)
	}
	if len(reply.Items) != 1 || reply.Items[0].Id != "a1" {
		t.Errorf("cited sources = %v, want the active document", reply.Items)
	}
	if reply.Items[0].Name != crDoc.Name {
		t.Errorf("cited name = %q, want %q", reply.Items[0].Name, crDoc.Name)
	}
}

func TestHandleMessageReadMentionsRemainingMatches(t *testing.T) {
	crDoc := docRecord("f1", "CR_20049 Impact Analysis.docx")
	annex := docRecord("f2", "CR_20049 Annexure.pdf")
	repo := &scriptedRepo{
		searchResults: map[string][]drive.FileRecord{
			"CR20049": {crDoc, annex},
		},
		contents: map[string]*drive.DocumentContent{
			"f1": {
				Content: strings.Repeat("The change request modifies premium calculation. ", 5),
				Path:    crDoc.Path,
			},
		},
	}
	aiSvc := &fakeAI{
		enabled:   true,
		summary:   "Premium calculation changes.",
		impacted:  "Billing",
		questions: []string{"what systems are affected"},
	}
	engine := NewEngine(repo, aiSvc, nil, nil)
	state := newState()

	reply := engine.HandleMessage(context.Background(), state, "read CR 20049")

	if reply.Kind != BotKindSuggestions {
		t.Fatalf("kind = %q, want suggestions", reply.Kind)
	}
	mention := fmt.Sprintf(msgMoreFilesMatched, 1)
	if !strings.Contains(reply.Text, mention) {
		t.Errorf("reply missing %q:\n%s", mention, reply.Text)
	}
	// The follow-up prompt stays last, right above the question list
	if !strings.HasSuffix(reply.Text, msgPickFollowUp) {
		t.Errorf("reply does not end with the follow-up prompt:\n%s", reply.Text)
	}
	if len(state.LastSearchResults) != 2 {
		t.Errorf("lastSearchResults has %d entries, want 2", len(state.LastSearchResults))
	}
}
