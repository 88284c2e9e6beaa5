package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/scholargate/scholargate/internal/auth"
	"github.com/scholargate/scholargate/internal/config"
	"github.com/scholargate/scholargate/internal/dataset"
	"github.com/scholargate/scholargate/internal/models"
)

const testJWTSecret = "handler-test-secret"

// stubAuthService returns canned results so handler behavior can be
// exercised without a database.
type stubAuthService struct {
	signupErr error
	loginErr  error
	savedIDs  []string
	savedErr  error
	saved     map[string]bool
	profile   models.Profile
}

func (s *stubAuthService) Signup(_ context.Context, req auth.SignupRequest) (*models.User, error) {
	if s.signupErr != nil {
		return nil, s.signupErr
	}
	return &models.User{ID: uuid.New(), Name: req.Name, Email: req.Email}, nil
}

func (s *stubAuthService) Login(_ context.Context, req auth.LoginRequest) (*auth.AuthResponse, error) {
	if s.loginErr != nil {
		return nil, s.loginErr
	}
	return &auth.AuthResponse{
		Token: "stub-token",
		User:  models.User{ID: uuid.New(), Name: "Asha", Email: req.Email},
	}, nil
}

func (s *stubAuthService) GetProfile(_ context.Context, userID uuid.UUID) (*models.Profile, error) {
	p := s.profile
	p.UserID = userID
	return &p, nil
}

func (s *stubAuthService) UpsertProfile(_ context.Context, p models.Profile) error {
	s.profile = p
	return nil
}

func (s *stubAuthService) SaveScholarship(_ context.Context, _ uuid.UUID, id string) error {
	if s.saved == nil {
		s.saved = map[string]bool{}
	}
	s.saved[id] = true
	return nil
}

func (s *stubAuthService) UnsaveScholarship(_ context.Context, _ uuid.UUID, id string) error {
	delete(s.saved, id)
	return nil
}

func (s *stubAuthService) ListSavedScholarships(_ context.Context, _ uuid.UUID) ([]string, error) {
	return s.savedIDs, s.savedErr
}

type stubAsker struct {
	reply string
	err   error
}

func (a *stubAsker) Ask(_ context.Context, _, _ string) (string, error) {
	return a.reply, a.err
}

type stubLoader struct {
	called chan struct{}
}

func (l *stubLoader) Load(context.Context) error {
	if l.called != nil {
		close(l.called)
	}
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:   testJWTSecret,
		AdminSecret: "admin-secret",
		CORSOrigins: []string{"http://localhost:5173"},
	}
}

func loadedCatalog() *dataset.Catalog {
	c := dataset.NewCatalog()
	c.Replace(c.BeginLoad(), []dataset.Scholarship{
		{ID: "sch-1", Title: "Merit Scholarship", Level: dataset.LevelHigherSecondary, State: "kerala", MinAge: 0, MaxAge: 100},
		{ID: "sch-2", Title: "Engineering Award", Level: dataset.LevelUndergraduate, MinAge: 18, MaxAge: 25},
	}, "raw dataset text")
	return c
}

func bearerToken(userID uuid.UUID) string {
	claims := jwt.MapClaims{
		"sub": userID.String(),
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(time.Hour).Unix(),
	}
	token, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testJWTSecret))
	return "Bearer " + token
}

func doJSON(s *Server, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	s.Echo.ServeHTTP(rec, req)
	return rec
}

func decodeMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	msg, _ := body["message"].(string)
	return msg
}

func TestHandleSignup(t *testing.T) {
	tests := []struct {
		name            string
		body            string
		signupErr       error
		expectedCode    int
		expectedMessage string
	}{
		{
			name:            "valid signup",
			body:            `{"name":"Asha","email":"asha@example.org","password":"secret"}`,
			expectedCode:    http.StatusCreated,
			expectedMessage: "User registered successfully",
		},
		{
			name:            "duplicate user",
			body:            `{"name":"Asha","email":"asha@example.org","password":"secret"}`,
			signupErr:       auth.ErrUserExists,
			expectedCode:    http.StatusBadRequest,
			expectedMessage: "User already exists",
		},
		{
			name:            "missing fields",
			body:            `{"email":"asha@example.org"}`,
			expectedCode:    http.StatusBadRequest,
			expectedMessage: "All fields are required",
		},
		{
			name:            "database failure",
			body:            `{"name":"Asha","email":"asha@example.org","password":"secret"}`,
			signupErr:       errors.New("connection refused"),
			expectedCode:    http.StatusInternalServerError,
			expectedMessage: "Error registering user",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewServer(testConfig(), &stubAuthService{signupErr: tt.signupErr}, nil, loadedCatalog(), nil, zap.NewNop())
			rec := doJSON(s, http.MethodPost, "/api/auth/signup", tt.body, nil)

			if rec.Code != tt.expectedCode {
				t.Errorf("expected %d, got %d", tt.expectedCode, rec.Code)
			}
			if msg := decodeMessage(t, rec); msg != tt.expectedMessage {
				t.Errorf("expected message %q, got %q", tt.expectedMessage, msg)
			}
		})
	}
}

func TestHandleLogin(t *testing.T) {
	t.Run("valid credentials", func(t *testing.T) {
		s := NewServer(testConfig(), &stubAuthService{}, nil, loadedCatalog(), nil, zap.NewNop())
		rec := doJSON(s, http.MethodPost, "/api/auth/login", `{"email":"asha@example.org","password":"secret"}`, nil)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}

		var body struct {
			Message string      `json:"message"`
			Token   string      `json:"token"`
			User    models.User `json:"user"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("invalid JSON response: %v", err)
		}
		if body.Message != "Login successful" {
			t.Errorf("expected Login successful, got %q", body.Message)
		}
		if body.Token != "stub-token" {
			t.Errorf("expected token in response, got %q", body.Token)
		}
		if body.User.Email != "asha@example.org" {
			t.Errorf("expected user payload, got %+v", body.User)
		}
	})

	t.Run("invalid credentials", func(t *testing.T) {
		s := NewServer(testConfig(), &stubAuthService{loginErr: auth.ErrInvalidCreds}, nil, loadedCatalog(), nil, zap.NewNop())
		rec := doJSON(s, http.MethodPost, "/api/auth/login", `{"email":"asha@example.org","password":"wrong"}`, nil)

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", rec.Code)
		}
		if msg := decodeMessage(t, rec); msg != "Invalid credentials" {
			t.Errorf("expected Invalid credentials, got %q", msg)
		}
	})

	t.Run("missing fields", func(t *testing.T) {
		s := NewServer(testConfig(), &stubAuthService{}, nil, loadedCatalog(), nil, zap.NewNop())
		rec := doJSON(s, http.MethodPost, "/api/auth/login", `{"email":"asha@example.org"}`, nil)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
	})
}

func TestHandleChat(t *testing.T) {
	t.Run("relays the reply", func(t *testing.T) {
		s := NewServer(testConfig(), &stubAuthService{}, &stubAsker{reply: "Try sch-1."}, loadedCatalog(), nil, zap.NewNop())
		rec := doJSON(s, http.MethodPost, "/api/chat", `{"message":"what fits me?"}`, nil)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if msg := decodeMessage(t, rec); msg != "Try sch-1." {
			t.Errorf("expected reply, got %q", msg)
		}
	})

	t.Run("upstream failure yields apology not error", func(t *testing.T) {
		s := NewServer(testConfig(), &stubAuthService{}, &stubAsker{err: errors.New("timeout")}, loadedCatalog(), nil, zap.NewNop())
		rec := doJSON(s, http.MethodPost, "/api/chat", `{"message":"hello"}`, nil)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if msg := decodeMessage(t, rec); msg != assistantApology {
			t.Errorf("expected apology, got %q", msg)
		}
	})

	t.Run("no assistant configured yields apology", func(t *testing.T) {
		s := NewServer(testConfig(), &stubAuthService{}, nil, loadedCatalog(), nil, zap.NewNop())
		rec := doJSON(s, http.MethodPost, "/api/chat", `{"message":"hello"}`, nil)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if msg := decodeMessage(t, rec); msg != assistantApology {
			t.Errorf("expected apology, got %q", msg)
		}
	})

	t.Run("missing message rejected", func(t *testing.T) {
		s := NewServer(testConfig(), &stubAuthService{}, &stubAsker{reply: "x"}, loadedCatalog(), nil, zap.NewNop())
		rec := doJSON(s, http.MethodPost, "/api/chat", `{"context":"some text"}`, nil)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
	})
}

func TestHandleListScholarships(t *testing.T) {
	t.Run("returns the current batch", func(t *testing.T) {
		s := NewServer(testConfig(), &stubAuthService{}, nil, loadedCatalog(), nil, zap.NewNop())
		rec := doJSON(s, http.MethodGet, "/api/scholarships", "", nil)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		var records []dataset.Scholarship
		if err := json.Unmarshal(rec.Body.Bytes(), &records); err != nil {
			t.Fatalf("invalid JSON response: %v", err)
		}
		if len(records) != 2 || records[0].ID != "sch-1" {
			t.Errorf("unexpected records %+v", records)
		}
	})

	t.Run("still loading yields 503", func(t *testing.T) {
		s := NewServer(testConfig(), &stubAuthService{}, nil, dataset.NewCatalog(), nil, zap.NewNop())
		rec := doJSON(s, http.MethodGet, "/api/scholarships", "", nil)

		if rec.Code != http.StatusServiceUnavailable {
			t.Errorf("expected 503, got %d", rec.Code)
		}
	})
}

func TestHandleSearchScholarships(t *testing.T) {
	authHeader := map[string]string{"Authorization": bearerToken(uuid.New())}

	t.Run("requires a token", func(t *testing.T) {
		s := NewServer(testConfig(), &stubAuthService{}, nil, loadedCatalog(), nil, zap.NewNop())
		rec := doJSON(s, http.MethodPost, "/api/scholarships/search", `{}`, nil)

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("applies the criteria", func(t *testing.T) {
		s := NewServer(testConfig(), &stubAuthService{}, nil, loadedCatalog(), nil, zap.NewNop())
		rec := doJSON(s, http.MethodPost, "/api/scholarships/search", `{"educationLevel":"undergraduate","age":20}`, authHeader)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		var records []dataset.Scholarship
		if err := json.Unmarshal(rec.Body.Bytes(), &records); err != nil {
			t.Fatalf("invalid JSON response: %v", err)
		}
		if len(records) != 1 || records[0].ID != "sch-2" {
			t.Errorf("unexpected records %+v", records)
		}
	})

	t.Run("rejects out-of-range age", func(t *testing.T) {
		s := NewServer(testConfig(), &stubAuthService{}, nil, loadedCatalog(), nil, zap.NewNop())
		rec := doJSON(s, http.MethodPost, "/api/scholarships/search", `{"age":200}`, authHeader)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
	})
}

func TestHandleListSchemes(t *testing.T) {
	s := NewServer(testConfig(), &stubAuthService{}, nil, loadedCatalog(), nil, zap.NewNop())
	rec := doJSON(s, http.MethodGet, "/api/schemes", "", nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var schemes []dataset.Scholarship
	if err := json.Unmarshal(rec.Body.Bytes(), &schemes); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if len(schemes) != 4 {
		t.Errorf("expected 4 schemes, got %d", len(schemes))
	}
}

func TestHandleSavedScholarships(t *testing.T) {
	authHeader := map[string]string{"Authorization": bearerToken(uuid.New())}

	t.Run("resolved against the current batch", func(t *testing.T) {
		// sch-gone was saved before a reload removed it; it must be
		// dropped from the response rather than served stale.
		stub := &stubAuthService{savedIDs: []string{"sch-2", "sch-gone", "sch-1"}}
		s := NewServer(testConfig(), stub, nil, loadedCatalog(), nil, zap.NewNop())
		rec := doJSON(s, http.MethodGet, "/api/saved", "", authHeader)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		var saved []dataset.Scholarship
		if err := json.Unmarshal(rec.Body.Bytes(), &saved); err != nil {
			t.Fatalf("invalid JSON response: %v", err)
		}
		if len(saved) != 2 || saved[0].ID != "sch-2" || saved[1].ID != "sch-1" {
			t.Errorf("unexpected saved records %+v", saved)
		}
	})

	t.Run("save and unsave round-trip", func(t *testing.T) {
		stub := &stubAuthService{}
		s := NewServer(testConfig(), stub, nil, loadedCatalog(), nil, zap.NewNop())

		rec := doJSON(s, http.MethodPost, "/api/saved/sch-1", "", authHeader)
		if rec.Code != http.StatusOK {
			t.Fatalf("save: expected 200, got %d", rec.Code)
		}
		if !stub.saved["sch-1"] {
			t.Error("save was not forwarded to the service")
		}

		rec = doJSON(s, http.MethodDelete, "/api/saved/sch-1", "", authHeader)
		if rec.Code != http.StatusOK {
			t.Fatalf("unsave: expected 200, got %d", rec.Code)
		}
		if stub.saved["sch-1"] {
			t.Error("unsave was not forwarded to the service")
		}
	})
}

func TestHandleProfile(t *testing.T) {
	authHeader := map[string]string{"Authorization": bearerToken(uuid.New())}
	stub := &stubAuthService{}
	s := NewServer(testConfig(), stub, nil, loadedCatalog(), nil, zap.NewNop())

	rec := doJSON(s, http.MethodPut, "/api/profile", `{"institution":"IIT Madras","degree":"B.Tech"}`, authHeader)
	if rec.Code != http.StatusOK {
		t.Fatalf("update: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if stub.profile.Institution != "IIT Madras" {
		t.Errorf("profile not stored, got %+v", stub.profile)
	}

	rec = doJSON(s, http.MethodGet, "/api/profile", "", authHeader)
	if rec.Code != http.StatusOK {
		t.Fatalf("get: expected 200, got %d", rec.Code)
	}
	var profile models.Profile
	if err := json.Unmarshal(rec.Body.Bytes(), &profile); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if profile.Degree != "B.Tech" {
		t.Errorf("expected stored profile, got %+v", profile)
	}
}

func TestHandleStats(t *testing.T) {
	authHeader := map[string]string{"Authorization": bearerToken(uuid.New())}
	stub := &stubAuthService{savedIDs: []string{"sch-1"}}
	s := NewServer(testConfig(), stub, nil, loadedCatalog(), nil, zap.NewNop())

	rec := doJSON(s, http.MethodGet, "/api/stats", "", authHeader)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var stats map[string]int
	if err := json.Unmarshal(rec.Body.Bytes(), &stats); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if stats["savedScholarships"] != 1 || stats["totalScholarships"] != 2 || stats["totalSchemes"] != 4 {
		t.Errorf("unexpected stats %v", stats)
	}
}

func TestHandleReloadDataset(t *testing.T) {
	t.Run("requires the admin secret", func(t *testing.T) {
		s := NewServer(testConfig(), &stubAuthService{}, nil, loadedCatalog(), &stubLoader{}, zap.NewNop())
		rec := doJSON(s, http.MethodPost, "/api/admin/dataset/reload", "", nil)

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("disabled without a configured secret", func(t *testing.T) {
		cfg := testConfig()
		cfg.AdminSecret = ""
		s := NewServer(cfg, &stubAuthService{}, nil, loadedCatalog(), &stubLoader{}, zap.NewNop())
		rec := doJSON(s, http.MethodPost, "/api/admin/dataset/reload", "", map[string]string{"X-Admin-Secret": "anything"})

		if rec.Code != http.StatusForbidden {
			t.Errorf("expected 403, got %d", rec.Code)
		}
	})

	t.Run("kicks off a background reload", func(t *testing.T) {
		loader := &stubLoader{called: make(chan struct{})}
		s := NewServer(testConfig(), &stubAuthService{}, nil, loadedCatalog(), loader, zap.NewNop())
		rec := doJSON(s, http.MethodPost, "/api/admin/dataset/reload", "", map[string]string{"X-Admin-Secret": "admin-secret"})

		if rec.Code != http.StatusAccepted {
			t.Fatalf("expected 202, got %d", rec.Code)
		}

		select {
		case <-loader.called:
		case <-time.After(time.Second):
			t.Error("loader was never invoked")
		}
	})
}

func TestHandleHealth(t *testing.T) {
	s := NewServer(testConfig(), &stubAuthService{}, nil, loadedCatalog(), nil, zap.NewNop())
	rec := doJSON(s, http.MethodGet, "/health", "", nil)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}
