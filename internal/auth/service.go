package auth

import (
	"context"
	"errors"
	"time"

	"backend-flightlog/internal/db"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	accessTokenTTL  = 15 * time.Minute
	refreshTokenTTL = 7 * 24 * time.Hour
)

type Service struct {
	secret []byte
	db     db.Querier
}

type Claims struct {
	PilotID string `json:"pilot_id"`
	jwt.RegisteredClaims
}

func NewService(secret string, q db.Querier) *Service {
	return &Service{
		secret: []byte(secret),
		db:     q,
	}
}

func (s *Service) Register(ctx context.Context, req RegisterRequest) (Pilot, TokenResponse, error) {
	if req.Email == "" || req.Username == "" || req.Password == "" {
		return Pilot{}, TokenResponse{}, errors.New("email, username, password required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return Pilot{}, TokenResponse{}, err
	}

	pilot := Pilot{
		ID:           uuid.NewString(),
		Email:        req.Email,
		Username:     req.Username,
		PasswordHash: string(hash),
		FullName:     req.FullName,
	}

	row := s.db.QueryRow(ctx, `
		INSERT INTO pilots (id, email, username, password_hash, full_name)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING created_at, updated_at
	`, pilot.ID, pilot.Email, pilot.Username, pilot.PasswordHash, pilot.FullName)
	if err := row.Scan(&pilot.CreatedAt, &pilot.UpdatedAt); err != nil {
		return Pilot{}, TokenResponse{}, err
	}

	tokens, err := s.GenerateTokens(ctx, pilot.ID)
	if err != nil {
		return Pilot{}, TokenResponse{}, err
	}
	return pilot, tokens, nil
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (Pilot, TokenResponse, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, email, username, password_hash, full_name, COALESCE(home_site_id::text,''), created_at, updated_at
		FROM pilots WHERE email = $1
	`, req.Email)

	var pilot Pilot
	if err := row.Scan(&pilot.ID, &pilot.Email, &pilot.Username, &pilot.PasswordHash, &pilot.FullName, &pilot.HomeSiteID, &pilot.CreatedAt, &pilot.UpdatedAt); err != nil {
		return Pilot{}, TokenResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(pilot.PasswordHash), []byte(req.Password)); err != nil {
		return Pilot{}, TokenResponse{}, errors.New("invalid credentials")
	}

	tokens, err := s.GenerateTokens(ctx, pilot.ID)
	if err != nil {
		return Pilot{}, TokenResponse{}, err
	}
	return pilot, tokens, nil
}

func (s *Service) GenerateTokens(ctx context.Context, pilotID string) (TokenResponse, error) {
	access, err := s.signToken(pilotID, accessTokenTTL)
	if err != nil {
		return TokenResponse{}, err
	}

	refresh, err := s.signToken(pilotID, refreshTokenTTL)
	if err != nil {
		return TokenResponse{}, err
	}

	if err := s.saveRefreshToken(ctx, refresh, pilotID, refreshTokenTTL); err != nil {
		return TokenResponse{}, err
	}

	return TokenResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		ExpiresIn:    int64(accessTokenTTL.Seconds()),
	}, nil
}

func (s *Service) ValidateRefreshToken(ctx context.Context, token string) (string, error) {
	claims, err := s.parseToken(token)
	if err != nil {
		return "", err
	}

	pilotID, expiresAt, err := s.lookupRefreshToken(ctx, token)
	if err != nil || pilotID != claims.PilotID || time.Now().After(expiresAt) {
		return "", errors.New("refresh token invalid")
	}
	return claims.PilotID, nil
}

func (s *Service) ValidateAccessToken(token string) (string, error) {
	claims, err := s.parseToken(token)
	if err != nil {
		return "", err
	}
	return claims.PilotID, nil
}

func (s *Service) signToken(pilotID string, ttl time.Duration) (string, error) {
	claims := Claims{
		PilotID: pilotID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *Service) parseToken(token string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(_ *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, errors.New("token invalid")
	}
	return claims, nil
}

func (s *Service) saveRefreshToken(ctx context.Context, token, pilotID string, ttl time.Duration) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO refresh_tokens (id, pilot_id, token, expires_at)
		VALUES ($1,$2,$3,$4)
	`, uuid.NewString(), pilotID, token, time.Now().Add(ttl))
	return err
}

func (s *Service) lookupRefreshToken(ctx context.Context, token string) (string, time.Time, error) {
	row := s.db.QueryRow(ctx, `
		SELECT pilot_id, expires_at
		FROM refresh_tokens
		WHERE token = $1 AND revoked_at IS NULL
	`, token)
	var pilotID string
	var expiresAt time.Time
	if err := row.Scan(&pilotID, &expiresAt); err != nil {
		return "", time.Time{}, err
	}
	return pilotID, expiresAt, nil
}
