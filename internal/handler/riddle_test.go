package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"riddleward/internal/models"
	"riddleward/internal/repository"
	"riddleward/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeRotator struct {
	riddle *models.Riddle
	err    error
}

func (f *fakeRotator) SelectNext(context.Context) (*models.Riddle, error) {
	return f.riddle, f.err
}

type fakeChecker struct {
	outcome service.AnswerOutcome
	err     error

	gotRiddleID uint64
	gotAnswer   string
}

func (f *fakeChecker) Check(_ context.Context, riddleID uint64, submitted string) (service.AnswerOutcome, error) {
	f.gotRiddleID = riddleID
	f.gotAnswer = submitted
	return f.outcome, f.err
}

// fakeRepo embeds the interface so only the methods a test exercises need
// implementations.
type fakeRepo struct {
	repository.Repository

	riddles []models.Riddle
	created *models.Riddle
}

func (f *fakeRepo) CreateRiddle(_ context.Context, riddle *models.Riddle, answer *models.RiddleAnswer) error {
	riddle.ID = 7
	f.created = riddle
	return nil
}

func (f *fakeRepo) ListRiddles(context.Context, repository.ListRiddlesParams) ([]models.Riddle, error) {
	return f.riddles, nil
}

func (f *fakeRepo) CountRiddles(context.Context, repository.ListRiddlesParams) (int64, error) {
	return int64(len(f.riddles)), nil
}

func riddleRouter(h *RiddleHandler) *gin.Engine {
	r := gin.New()
	h.Register(r)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode body %q: %v", w.Body.String(), err)
	}
	return out
}

func TestNextRiddle(t *testing.T) {
	h := &RiddleHandler{Rotator: &fakeRotator{riddle: &models.Riddle{ID: 3, Question: "What has keys but no locks?"}}}
	w := doJSON(t, riddleRouter(h), http.MethodGet, "/api/v1/riddles/next", "")

	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	body := decodeBody(t, w)
	if body["riddle_id"] != float64(3) || body["question"] != "What has keys but no locks?" {
		t.Fatalf("body=%v", body)
	}
}

func TestNextRiddleEmptyDatabase(t *testing.T) {
	h := &RiddleHandler{Rotator: &fakeRotator{err: service.ErrNoRiddles}}
	w := doJSON(t, riddleRouter(h), http.MethodGet, "/api/v1/riddles/next", "")

	if w.Code != http.StatusNotFound {
		t.Fatalf("status=%d", w.Code)
	}
	if body := decodeBody(t, w); body["message"] != "No riddles in database" {
		t.Fatalf("message=%v", body["message"])
	}
}

func TestAnswerMissingParams(t *testing.T) {
	h := &RiddleHandler{Checker: &fakeChecker{}}
	r := riddleRouter(h)

	for _, body := range []string{``, `{}`, `{"riddle_id": 1}`, `{"answer": "echo"}`} {
		w := doJSON(t, r, http.MethodPost, "/api/v1/riddles/answer", body)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("body %q: status=%d", body, w.Code)
		}
		if got := decodeBody(t, w); got["message"] != "Missing parameters: riddleId or answer" {
			t.Fatalf("body %q: message=%v", body, got["message"])
		}
	}
}

func TestAnswerVerdictMessages(t *testing.T) {
	tests := []struct {
		outcome service.AnswerOutcome
		want    string
	}{
		{service.AnswerIncorrect, msgIncorrect},
		{service.AnswerAlreadyWon, msgAlreadyWon},
		{service.AnswerFirstCorrect, msgFirstCorrect},
	}
	for _, tt := range tests {
		checker := &fakeChecker{outcome: tt.outcome}
		h := &RiddleHandler{Checker: checker}
		w := doJSON(t, riddleRouter(h), http.MethodPost, "/api/v1/riddles/answer", `{"riddle_id": 5, "answer": "echo"}`)

		if w.Code != http.StatusOK {
			t.Fatalf("outcome %d: status=%d", tt.outcome, w.Code)
		}
		if body := decodeBody(t, w); body["message"] != tt.want {
			t.Fatalf("outcome %d: message=%v", tt.outcome, body["message"])
		}
		if checker.gotRiddleID != 5 || checker.gotAnswer != "echo" {
			t.Fatalf("checker got id=%d answer=%q", checker.gotRiddleID, checker.gotAnswer)
		}
	}
}

func TestAnswerErrorMapping(t *testing.T) {
	tests := []struct {
		err     error
		status  int
		message string
	}{
		{service.ErrRiddleNotFound, http.StatusNotFound, "Riddle not found"},
		{service.ErrRiddleNotAsked, http.StatusBadRequest, "This riddle has not been asked yet"},
		{service.ErrAnswerNotFound, http.StatusNotFound, "No answer found for this riddle"},
	}
	for _, tt := range tests {
		h := &RiddleHandler{Checker: &fakeChecker{err: tt.err}}
		w := doJSON(t, riddleRouter(h), http.MethodPost, "/api/v1/riddles/answer", `{"riddle_id": 1, "answer": "x"}`)

		if w.Code != tt.status {
			t.Fatalf("%v: status=%d want %d", tt.err, w.Code, tt.status)
		}
		if body := decodeBody(t, w); body["message"] != tt.message {
			t.Fatalf("%v: message=%v", tt.err, body["message"])
		}
	}
}

func TestCreateRiddle(t *testing.T) {
	repo := &fakeRepo{}
	h := &RiddleHandler{Repo: repo}
	w := doJSON(t, riddleRouter(h), http.MethodPost, "/api/v1/riddles",
		`{"type": "wordplay", "question": "What has keys but no locks?", "answer": "piano"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	if repo.created == nil || repo.created.Question != "What has keys but no locks?" {
		t.Fatalf("created=%+v", repo.created)
	}
}

func TestCreateRiddleRequiresQuestionAndAnswer(t *testing.T) {
	h := &RiddleHandler{Repo: &fakeRepo{}}
	w := doJSON(t, riddleRouter(h), http.MethodPost, "/api/v1/riddles", `{"question": "  ", "answer": ""}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d", w.Code)
	}
}

func TestListRiddles(t *testing.T) {
	repo := &fakeRepo{riddles: []models.Riddle{{ID: 1, Question: "q1"}, {ID: 2, Question: "q2"}}}
	h := &RiddleHandler{Repo: repo}
	w := doJSON(t, riddleRouter(h), http.MethodGet, "/api/v1/riddles?limit=10", "")

	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	body := decodeBody(t, w)
	meta, _ := body["meta"].(map[string]any)
	if meta["total"] != float64(2) {
		t.Fatalf("meta=%v", meta)
	}
}
