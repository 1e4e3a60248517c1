package pipeline

import (
	"context"
	"errors"
	"math/rand/v2"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/voxhire/interview-agent/internal/domain"
	"github.com/voxhire/interview-agent/internal/evaluation"
	"github.com/voxhire/interview-agent/internal/notify"
	"github.com/voxhire/interview-agent/internal/store"
	"github.com/voxhire/interview-agent/internal/voice"
)

// fakeVoice serves scripted call details.
type fakeVoice struct {
	details *voice.CallDetails
	err     error
}

func (f *fakeVoice) CreateAssistant(context.Context) (*voice.Assistant, error) {
	return &voice.Assistant{ID: "asst"}, nil
}

func (f *fakeVoice) InitiateCall(context.Context, string, string) (*voice.Call, error) {
	return &voice.Call{ID: "call"}, nil
}

func (f *fakeVoice) GetCallDetails(context.Context, string) (*voice.CallDetails, error) {
	return f.details, f.err
}

// fakeNotifier records deliveries and can simulate dispatch failure.
type fakeNotifier struct {
	mu         sync.Mutex
	results    []*notify.Payload
	errorMsgs  []string
	failResult bool
}

func (f *fakeNotifier) SendResult(_ context.Context, payload *notify.Payload) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failResult {
		return "", errors.New("channel_not_found")
	}
	f.results = append(f.results, payload)
	return "1714.0001", nil
}

func (f *fakeNotifier) SendError(_ context.Context, message, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errorMsgs = append(f.errorMsgs, message)
	return nil
}

func (f *fakeNotifier) counts() (results, errs int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.results), len(f.errorMsgs)
}

func newTestRepo(t *testing.T) *store.SQLiteStore {
	t.Helper()
	repo, err := store.NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func seedSession(t *testing.T, repo *store.SQLiteStore, callID string) {
	t.Helper()
	ctx := context.Background()
	if _, err := repo.FindOrCreate(ctx, callID, "+491701234567", "Backend Engineer"); err != nil {
		t.Fatal(err)
	}
	if err := repo.MarkInProgress(ctx, callID); err != nil {
		t.Fatal(err)
	}
}

func testEvaluator() evaluation.Evaluator {
	return evaluation.NewHeuristicEvaluatorWithRand(rand.New(rand.NewPCG(7, 7)))
}

func testLink(callID string) string {
	return "http://localhost:8000/interviews/" + callID + "/transcript"
}

func newTestPipeline(repo *store.SQLiteStore, v voice.Client, n notify.Notifier) *Pipeline {
	return New(v, testEvaluator(), repo, n, testLink, time.Minute)
}

func TestPipelineHappyPath(t *testing.T) {
	repo := newTestRepo(t)
	seedSession(t, repo, "call-1")

	notifier := &fakeNotifier{}
	v := &fakeVoice{details: &voice.CallDetails{
		ID:           "call-1",
		Duration:     1200,
		Transcript:   "Meine Erfahrung im Team hilft mir bei jedem Projekt.",
		RecordingURL: "https://example.com/rec.mp3",
	}}

	newTestPipeline(repo, v, notifier).ProcessCompletedCall(context.Background(), "call-1")

	session, err := repo.GetByCallID(context.Background(), "call-1")
	if err != nil {
		t.Fatal(err)
	}
	if session.Status != domain.StatusCompleted {
		t.Errorf("status = %q, want completed", session.Status)
	}
	if session.Score == nil {
		t.Fatal("score not persisted")
	}
	if *session.Score < 0 || *session.Score > 10 {
		t.Errorf("score = %v, outside [0,10]", *session.Score)
	}
	if !session.HRNotified {
		t.Error("notification not recorded on session")
	}

	results, errs := notifier.counts()
	if results != 1 {
		t.Errorf("result notifications = %d, want 1", results)
	}
	if errs != 0 {
		t.Errorf("error notifications = %d, want 0", errs)
	}

	payload := notifier.results[0]
	if payload.CandidatePhone != "+491701234567" {
		t.Errorf("payload phone = %q", payload.CandidatePhone)
	}
	if payload.TranscriptURL != testLink("call-1") {
		t.Errorf("payload transcript url = %q", payload.TranscriptURL)
	}
	if payload.Recommendation != domain.RecommendationInvite && payload.Recommendation != domain.RecommendationUndecided {
		t.Errorf("recommendation = %q, want INVITE or UNDECIDED for keyword-rich transcript", payload.Recommendation)
	}
}

func TestPipelineEmptyTranscript(t *testing.T) {
	repo := newTestRepo(t)
	seedSession(t, repo, "call-1")

	notifier := &fakeNotifier{}
	v := &fakeVoice{details: &voice.CallDetails{ID: "call-1", Transcript: "   "}}

	newTestPipeline(repo, v, notifier).ProcessCompletedCall(context.Background(), "call-1")

	session, err := repo.GetByCallID(context.Background(), "call-1")
	if err != nil {
		t.Fatal(err)
	}
	if session.Status != domain.StatusFailed {
		t.Errorf("status = %q, want failed", session.Status)
	}
	if session.Score != nil {
		t.Errorf("score = %v, want none", *session.Score)
	}
	if session.EvaluationJSON != nil {
		t.Error("evaluation persisted despite missing transcript")
	}

	results, errs := notifier.counts()
	if results != 0 {
		t.Errorf("result notifications = %d, want 0", results)
	}
	if errs != 1 {
		t.Errorf("error notifications = %d, want exactly 1", errs)
	}
}

func TestPipelineTranscriptFetchFailure(t *testing.T) {
	repo := newTestRepo(t)
	seedSession(t, repo, "call-1")

	notifier := &fakeNotifier{}
	v := &fakeVoice{err: errors.New("upstream unavailable")}

	newTestPipeline(repo, v, notifier).ProcessCompletedCall(context.Background(), "call-1")

	session, err := repo.GetByCallID(context.Background(), "call-1")
	if err != nil {
		t.Fatal(err)
	}
	if session.Status != domain.StatusFailed {
		t.Errorf("status = %q, want failed", session.Status)
	}

	if _, errs := notifier.counts(); errs != 1 {
		t.Errorf("error notifications = %d, want 1", errs)
	}
}

func TestPipelineSecondRunDoesNotDoubleNotify(t *testing.T) {
	repo := newTestRepo(t)
	seedSession(t, repo, "call-1")

	notifier := &fakeNotifier{}
	v := &fakeVoice{details: &voice.CallDetails{
		ID:         "call-1",
		Transcript: "Meine Erfahrung im Team hilft mir bei jedem Projekt.",
	}}
	p := newTestPipeline(repo, v, notifier)

	p.ProcessCompletedCall(context.Background(), "call-1")
	p.ProcessCompletedCall(context.Background(), "call-1")

	results, errs := notifier.counts()
	if results != 1 {
		t.Errorf("result notifications = %d, want exactly 1 after redelivery", results)
	}
	if errs != 0 {
		t.Errorf("error notifications = %d, want 0", errs)
	}

	sessions, err := repo.ListSessions(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(sessions) != 1 {
		t.Errorf("sessions = %d, want 1", len(sessions))
	}
}

func TestPipelineNotifierFailureKeepsCompletion(t *testing.T) {
	repo := newTestRepo(t)
	seedSession(t, repo, "call-1")

	notifier := &fakeNotifier{failResult: true}
	v := &fakeVoice{details: &voice.CallDetails{
		ID:         "call-1",
		Transcript: "Meine Erfahrung im Team hilft mir bei jedem Projekt.",
	}}

	newTestPipeline(repo, v, notifier).ProcessCompletedCall(context.Background(), "call-1")

	session, err := repo.GetByCallID(context.Background(), "call-1")
	if err != nil {
		t.Fatal(err)
	}
	if session.Status != domain.StatusCompleted {
		t.Errorf("status = %q, dispatch failure must not revert the completion", session.Status)
	}
	if session.HRNotified {
		t.Error("hr_notified set despite dispatch failure")
	}

	results, errs := notifier.counts()
	if results != 0 {
		t.Errorf("result notifications = %d, want 0", results)
	}
	if errs != 1 {
		t.Errorf("error notifications = %d, want 1 degraded notification", errs)
	}
}

func TestPipelineMissingSession(t *testing.T) {
	repo := newTestRepo(t)

	notifier := &fakeNotifier{}
	v := &fakeVoice{details: &voice.CallDetails{
		ID:         "ghost-call",
		Transcript: "Hallo",
	}}

	newTestPipeline(repo, v, notifier).ProcessCompletedCall(context.Background(), "ghost-call")

	// The missing session is reported, not silently ignored.
	results, errs := notifier.counts()
	if results != 0 {
		t.Errorf("result notifications = %d, want 0", results)
	}
	if errs != 1 {
		t.Errorf("error notifications = %d, want 1", errs)
	}

	sessions, err := repo.ListSessions(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(sessions) != 0 {
		t.Errorf("pipeline created %d sessions, want 0", len(sessions))
	}
}
