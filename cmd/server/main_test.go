package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Skufu/strokerisk/internal/form"
	"github.com/Skufu/strokerisk/internal/patient"
	"github.com/Skufu/strokerisk/internal/prediction"
)

type fakeDB struct {
	err error
}

func (f fakeDB) Ping(ctx context.Context) error {
	return f.err
}

type fakePredictor struct {
	result  patient.Result
	err     error
	started chan struct{}
	release chan struct{}

	mu    sync.Mutex
	calls int
}

func (f *fakePredictor) Predict(ctx context.Context, in patient.Input) (patient.Result, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.started != nil {
		f.started <- struct{}{}
	}
	if f.release != nil {
		<-f.release
	}
	return f.result, f.err
}

func (f *fakePredictor) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func newTestApp(p prediction.Predictor) *App {
	return &App{
		Sessions: form.NewStore(func() *form.Controller { return form.NewController(p) }, time.Minute),
		Provider: "stub",
	}
}

func newTestRouter(app *App) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return setupRouter(app, ".")
}

const validPayload = `{
	"gender": "Female",
	"age": 45,
	"hypertension": false,
	"heartDisease": false,
	"everMarried": true,
	"workType": "Private",
	"residenceType": "Urban",
	"avgGlucoseLevel": 105.5,
	"bmi": 28.4,
	"smokingStatus": "never smoked"
}`

func postJSON(router http.Handler, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	router.ServeHTTP(w, req)
	return w
}

func TestRouterHealthz(t *testing.T) {
	router := newTestRouter(newTestApp(&fakePredictor{}))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/healthz", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"status":"ok"`) {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}

func TestRouterReadyz(t *testing.T) {
	app := newTestApp(&fakePredictor{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/readyz", nil)
	newTestRouter(app).ServeHTTP(w, req)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"db":"disabled"`) {
		t.Fatalf("expected ok with db disabled, got %d %s", w.Code, w.Body.String())
	}

	app.DB = fakeDB{err: errors.New("connection refused")}
	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/readyz", nil)
	newTestRouter(app).ServeHTTP(w, req)
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 when db ping fails, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"provider":"stub"`) {
		t.Fatalf("expected provider in body: %s", w.Body.String())
	}
}

// Ensure limitBodySize middleware allows small payloads and blocks large ones.
func TestLimitBodySize(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(limitBodySize(10))
	router.POST("/echo", func(c *gin.Context) {
		_, err := c.GetRawData()
		if err != nil {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "too large"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	t.Run("within limit", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/echo", strings.NewReader("12345"))
		router.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
	})

	t.Run("over limit", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/echo", strings.NewReader("01234567890"))
		router.ServeHTTP(w, req)
		if w.Code != http.StatusRequestEntityTooLarge {
			t.Fatalf("expected 413, got %d", w.Code)
		}
	})
}

func TestAssessmentSuccess(t *testing.T) {
	fp := &fakePredictor{result: patient.Result{StrokePrediction: true, Probability: 72, RiskLevel: patient.RiskHigh}}
	router := newTestRouter(newTestApp(fp))

	w := postJSON(router, "/api/assessments", validPayload)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var got patient.Result
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if got != fp.result {
		t.Fatalf("got %+v, want %+v", got, fp.result)
	}
	if !strings.Contains(w.Header().Get("Set-Cookie"), sessionCookie) {
		t.Fatalf("expected session cookie, got %q", w.Header().Get("Set-Cookie"))
	}
}

func TestAssessmentValidation(t *testing.T) {
	fp := &fakePredictor{}
	router := newTestRouter(newTestApp(fp))

	w := postJSON(router, "/api/assessments", `{
		"age": 150,
		"avgGlucoseLevel": 700,
		"bmi": 5
	}`)

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for validation failure, got %d", w.Code)
	}
	body := strings.ToLower(w.Body.String())
	if !strings.Contains(body, "validation_failed") || !strings.Contains(body, "glucose") {
		t.Fatalf("expected validation error response, got %s", w.Body.String())
	}

	var resp struct {
		Fields map[string]string `json:"fields"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(resp.Fields) != 3 {
		t.Fatalf("expected three field errors, got %v", resp.Fields)
	}
	if fp.callCount() != 0 {
		t.Fatal("invalid input must not reach the model")
	}
}

func TestAssessmentMissingFields(t *testing.T) {
	router := newTestRouter(newTestApp(&fakePredictor{}))

	w := postJSON(router, "/api/assessments", `{"age": "", "avgGlucoseLevel": "abc"}`)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", w.Code)
	}
	for _, want := range []string{"Age is required", "Average glucose level must be a number", "BMI is required"} {
		if !strings.Contains(w.Body.String(), want) {
			t.Fatalf("expected %q in %s", want, w.Body.String())
		}
	}
}

func TestAssessmentOverflowingNumberIsFieldError(t *testing.T) {
	router := newTestRouter(newTestApp(&fakePredictor{}))

	w := postJSON(router, "/api/assessments", `{"age": 1e400, "avgGlucoseLevel": 100, "bmi": 25}`)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "Age must be a number") {
		t.Fatalf("expected age field error in %s", w.Body.String())
	}
}

func TestAssessmentInvalidPayload(t *testing.T) {
	router := newTestRouter(newTestApp(&fakePredictor{}))

	for _, body := range []string{`{"gender": "Robot"}`, `not json`} {
		w := postJSON(router, "/api/assessments", body)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("body %q: expected 400, got %d", body, w.Code)
		}
	}
}

func TestAssessmentPredictionFailure(t *testing.T) {
	router := newTestRouter(newTestApp(&fakePredictor{err: prediction.ErrNoResponse}))

	w := postJSON(router, "/api/assessments", validPayload)
	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), form.FailureMessage) {
		t.Fatalf("expected generic failure message, got %s", w.Body.String())
	}
	if strings.Contains(w.Body.String(), prediction.ErrNoResponse.Error()) {
		t.Fatalf("internal error leaked to client: %s", w.Body.String())
	}
}

func TestAssessmentInFlightRejected(t *testing.T) {
	fp := &fakePredictor{
		result:  patient.Result{Probability: 30, RiskLevel: patient.RiskModerate},
		started: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
	router := newTestRouter(newTestApp(fp))

	// Obtain a session cookie first.
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/assessments/current", nil)
	router.ServeHTTP(w, req)
	cookies := w.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("expected session cookie")
	}

	done := make(chan *httptest.ResponseRecorder, 1)
	go func() {
		done <- postJSON(router, "/api/assessments", validPayload, cookies...)
	}()

	select {
	case <-fp.started:
	case <-time.After(2 * time.Second):
		t.Fatal("prediction never started")
	}

	second := postJSON(router, "/api/assessments", validPayload, cookies...)
	if second.Code != http.StatusConflict {
		t.Fatalf("expected 409 while in flight, got %d", second.Code)
	}

	close(fp.release)
	first := <-done
	if first.Code != http.StatusOK {
		t.Fatalf("expected first request to succeed, got %d", first.Code)
	}
	if fp.callCount() != 1 {
		t.Fatalf("expected one remote call, got %d", fp.callCount())
	}
}

func TestCurrentSnapshot(t *testing.T) {
	fp := &fakePredictor{result: patient.Result{Probability: 5, RiskLevel: patient.RiskLow}}
	router := newTestRouter(newTestApp(fp))

	first := postJSON(router, "/api/assessments", validPayload)
	cookies := first.Result().Cookies()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/assessments/current", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	router.ServeHTTP(w, req)

	var snap form.Snapshot
	if err := json.Unmarshal(w.Body.Bytes(), &snap); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	if snap.State != form.StateSettled || snap.Result == nil || snap.Result.RiskLevel != patient.RiskLow {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
	if snap.Input.Gender != patient.GenderFemale {
		t.Fatalf("expected submitted input in snapshot, got %+v", snap.Input)
	}
}

func TestValidateEndpoint(t *testing.T) {
	router := newTestRouter(newTestApp(&fakePredictor{}))

	if w := postJSON(router, "/api/validate", validPayload); w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	w := postJSON(router, "/api/validate", `{"age": 45, "avgGlucoseLevel": 105.5}`)
	if w.Code != http.StatusUnprocessableEntity || !strings.Contains(w.Body.String(), `"bmi"`) {
		t.Fatalf("expected bmi error, got %d %s", w.Code, w.Body.String())
	}
}

func TestOptions(t *testing.T) {
	router := newTestRouter(newTestApp(&fakePredictor{}))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/options", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	for _, want := range []string{`"Self-employed"`, `"formerly smoked"`, `"Moderate Risk"`, `"avgGlucoseLevel":{"min":30,"max":600}`} {
		if !strings.Contains(w.Body.String(), want) {
			t.Fatalf("expected %s in %s", want, w.Body.String())
		}
	}
}
