package api

import (
	"context"
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/scholargate/scholargate/internal/auth"
	"github.com/scholargate/scholargate/internal/dataset"
	"github.com/scholargate/scholargate/internal/models"
)

// assistantApology is returned whenever the upstream model call fails.
// The failure is caller-visible but never fatal to the request.
const assistantApology = "I'm sorry, I couldn't process your request. Please try again later."

func (s *Server) handleSignup(c echo.Context) error {
	var req auth.SignupRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid request"})
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "All fields are required"})
	}

	if _, err := s.Auth.Signup(c.Request().Context(), req); err != nil {
		if err == auth.ErrUserExists {
			return c.JSON(http.StatusBadRequest, map[string]string{"message": "User already exists"})
		}
		s.reportError(c, err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Error registering user"})
	}

	return c.JSON(http.StatusCreated, map[string]string{"message": "User registered successfully"})
}

func (s *Server) handleLogin(c echo.Context) error {
	var req auth.LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid request"})
	}
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Email and password are required"})
	}

	resp, err := s.Auth.Login(c.Request().Context(), req)
	if err != nil {
		if err == auth.ErrInvalidCreds {
			return c.JSON(http.StatusUnauthorized, map[string]string{"message": "Invalid credentials"})
		}
		s.reportError(c, err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Database error"})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Login successful",
		"token":   resp.Token,
		"user":    resp.User,
	})
}

type chatRequest struct {
	Message string `json:"message"`
	Context string `json:"context"`
}

func (s *Server) handleChat(c echo.Context) error {
	var req chatRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid request"})
	}
	if req.Message == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Message is required"})
	}

	// Clients may omit the context document; the current raw dataset
	// text is substituted so answers stay grounded.
	contextDoc := req.Context
	if contextDoc == "" {
		contextDoc = s.Catalog.RawText()
	}

	if s.Assistant == nil {
		return c.JSON(http.StatusOK, map[string]string{"message": assistantApology})
	}

	reply, err := s.Assistant.Ask(c.Request().Context(), req.Message, contextDoc)
	if err != nil {
		s.log.Warn("assistant call failed", zap.Error(err))
		return c.JSON(http.StatusOK, map[string]string{"message": assistantApology})
	}

	return c.JSON(http.StatusOK, map[string]string{"message": reply})
}

func (s *Server) handleListScholarships(c echo.Context) error {
	if !s.Catalog.Ready() {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"message": "Dataset is still loading"})
	}

	records := s.Catalog.Records()
	if records == nil {
		records = []dataset.Scholarship{}
	}
	return c.JSON(http.StatusOK, records)
}

func (s *Server) handleSearchScholarships(c echo.Context) error {
	if !s.Catalog.Ready() {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"message": "Dataset is still loading"})
	}

	criteria := dataset.DefaultCriteria()
	if err := c.Bind(&criteria); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid search criteria"})
	}
	if criteria.Age < 0 || criteria.Age > 120 {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid search criteria"})
	}

	results := dataset.Filter(s.Catalog.Records(), criteria)
	return c.JSON(http.StatusOK, results)
}

func (s *Server) handleListSchemes(c echo.Context) error {
	return c.JSON(http.StatusOK, dataset.Schemes())
}

func (s *Server) handleGetProfile(c echo.Context) error {
	userID, err := auth.GetUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"message": "Unauthorized"})
	}

	profile, err := s.Auth.GetProfile(c.Request().Context(), userID)
	if err != nil {
		s.reportError(c, err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Failed to fetch profile"})
	}

	return c.JSON(http.StatusOK, profile)
}

func (s *Server) handleUpdateProfile(c echo.Context) error {
	userID, err := auth.GetUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"message": "Unauthorized"})
	}

	var profile models.Profile
	if err := c.Bind(&profile); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid request"})
	}
	profile.UserID = userID

	if err := s.Auth.UpsertProfile(c.Request().Context(), profile); err != nil {
		s.reportError(c, err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Failed to update profile"})
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Profile updated"})
}

func (s *Server) handleSaveScholarship(c echo.Context) error {
	userID, err := auth.GetUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"message": "Unauthorized"})
	}

	id := c.Param("id")
	if id == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Scholarship ID is required"})
	}

	if err := s.Auth.SaveScholarship(c.Request().Context(), userID, id); err != nil {
		s.reportError(c, err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Failed to save scholarship"})
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Scholarship saved"})
}

func (s *Server) handleUnsaveScholarship(c echo.Context) error {
	userID, err := auth.GetUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"message": "Unauthorized"})
	}

	id := c.Param("id")
	if err := s.Auth.UnsaveScholarship(c.Request().Context(), userID, id); err != nil {
		s.reportError(c, err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Failed to unsave scholarship"})
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Scholarship removed"})
}

func (s *Server) handleGetSavedScholarships(c echo.Context) error {
	userID, err := auth.GetUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"message": "Unauthorized"})
	}

	ids, err := s.Auth.ListSavedScholarships(c.Request().Context(), userID)
	if err != nil {
		s.reportError(c, err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Failed to fetch saved scholarships"})
	}

	// Saved ids are resolved against the current batch; entries that no
	// longer exist after a reload are dropped from the response.
	byID := make(map[string]dataset.Scholarship, s.Catalog.Len())
	for _, r := range s.Catalog.Records() {
		byID[r.ID] = r
	}

	saved := []dataset.Scholarship{}
	for _, id := range ids {
		if r, ok := byID[id]; ok {
			saved = append(saved, r)
		}
	}

	return c.JSON(http.StatusOK, saved)
}

func (s *Server) handleStats(c echo.Context) error {
	userID, err := auth.GetUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"message": "Unauthorized"})
	}

	ids, err := s.Auth.ListSavedScholarships(c.Request().Context(), userID)
	if err != nil {
		s.reportError(c, err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Failed to fetch stats"})
	}

	return c.JSON(http.StatusOK, map[string]int{
		"savedScholarships": len(ids),
		"totalScholarships": s.Catalog.Len(),
		"totalSchemes":      len(dataset.Schemes()),
	})
}

func (s *Server) handleReloadDataset(c echo.Context) error {
	if s.Loader == nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"message": "Dataset loader is not configured"})
	}

	// Detached from the HTTP lifecycle; the catalog's generation counter
	// guarantees a superseded reload never applies its result.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(c.Request().Context()), 2*time.Minute)
	go func() {
		defer cancel()
		if err := s.Loader.Load(ctx); err != nil {
			s.log.Error("dataset reload failed", zap.Error(err))
			sentry.CaptureException(err)
		}
	}()

	return c.JSON(http.StatusAccepted, map[string]string{"message": "Dataset reload started"})
}

func (s *Server) reportError(c echo.Context, err error) {
	s.log.Error("request failed",
		zap.String("path", c.Path()),
		zap.Error(err),
	)
	sentry.CaptureException(err)
}
