package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"

	"github.com/scholargate/scholargate/internal/models"
)

var (
	ErrUserExists   = errors.New("user already exists")
	ErrInvalidCreds = errors.New("invalid credentials")
)

type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// Service owns account, profile and saved-scholarship state. The JWT
// secret and expiry are injected rather than read from the environment
// so there is no ambient auth state anywhere in the process.
type Service struct {
	db     *pgxpool.Pool
	secret []byte
	expiry time.Duration
}

func NewService(db *pgxpool.Pool, secret []byte, expiry time.Duration) *Service {
	if expiry <= 0 {
		expiry = 24 * time.Hour
	}
	return &Service{db: db, secret: secret, expiry: expiry}
}

func (s *Service) Signup(ctx context.Context, req SignupRequest) (*models.User, error) {
	var exists bool
	err := s.db.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)", req.Email).Scan(&exists)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrUserExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing failed: %w", err)
	}

	var user models.User
	err = s.db.QueryRow(ctx, `
		INSERT INTO users (name, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id, name, email, created_at
	`, req.Name, req.Email, string(hash)).Scan(&user.ID, &user.Name, &user.Email, &user.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert failed: %w", err)
	}

	return &user, nil
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	var user models.User
	err := s.db.QueryRow(ctx, "SELECT id, name, email, password_hash, created_at FROM users WHERE email = $1", req.Email).Scan(
		&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, ErrInvalidCreds
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCreds
	}

	token, err := s.generateToken(user.ID)
	if err != nil {
		return nil, err
	}

	user.PasswordHash = ""
	return &AuthResponse{Token: token, User: user}, nil
}

func (s *Service) generateToken(userID uuid.UUID) (string, error) {
	claims := jwt.MapClaims{
		"sub": userID.String(),
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(s.expiry).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Profile

func (s *Service) GetProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	var p models.Profile
	err := s.db.QueryRow(ctx, `
		SELECT user_id, institution, degree, graduation_year, bio, updated_at
		FROM profiles WHERE user_id = $1
	`, userID).Scan(&p.UserID, &p.Institution, &p.Degree, &p.GraduationYear, &p.Bio, &p.UpdatedAt)
	if err == pgx.ErrNoRows {
		// An account without a saved profile reads as an empty one.
		return &models.Profile{UserID: userID}, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Service) UpsertProfile(ctx context.Context, p models.Profile) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO profiles (user_id, institution, degree, graduation_year, bio, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (user_id) DO UPDATE SET
			institution = EXCLUDED.institution,
			degree = EXCLUDED.degree,
			graduation_year = EXCLUDED.graduation_year,
			bio = EXCLUDED.bio,
			updated_at = NOW()
	`, p.UserID, p.Institution, p.Degree, p.GraduationYear, p.Bio)
	return err
}

// Saved scholarships

func (s *Service) SaveScholarship(ctx context.Context, userID uuid.UUID, scholarshipID string) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO saved_scholarships (user_id, scholarship_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, scholarship_id) DO NOTHING
	`, userID, scholarshipID)
	return err
}

func (s *Service) UnsaveScholarship(ctx context.Context, userID uuid.UUID, scholarshipID string) error {
	_, err := s.db.Exec(ctx, `
		DELETE FROM saved_scholarships
		WHERE user_id = $1 AND scholarship_id = $2
	`, userID, scholarshipID)
	return err
}

func (s *Service) ListSavedScholarships(ctx context.Context, userID uuid.UUID) ([]string, error) {
	rows, err := s.db.Query(ctx, `
		SELECT scholarship_id FROM saved_scholarships
		WHERE user_id = $1
		ORDER BY saved_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
