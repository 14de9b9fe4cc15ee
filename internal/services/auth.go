package services

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"

	"tunevault/internal/apperr"
	"tunevault/internal/models"
	"tunevault/internal/repositories"
	"tunevault/internal/rules"
)

// Claims is the JWT payload issued on login. UserID is a string so the same
// token shape serves both backends: decimal for relational ids, hex for
// document ids.
type Claims struct {
	Username      string   `json:"username"`
	UserID        string   `json:"uid"`
	Roles         []string `json:"roles"`
	SecurityStamp string   `json:"stamp"`
	jwt.RegisteredClaims
}

// TokenService signs and parses the HS256 access tokens.
type TokenService struct {
	secret []byte
	expiry time.Duration
}

func NewTokenService(secret string, expiryMinutes int) *TokenService {
	return &TokenService{
		secret: []byte(secret),
		expiry: time.Duration(expiryMinutes) * time.Minute,
	}
}

// Issue creates a signed token for the given identity.
func (s *TokenService) Issue(username, userID string, roles []string, stamp string) (string, error) {
	now := time.Now()
	claims := Claims{
		Username:      username,
		UserID:        userID,
		Roles:         roles,
		SecurityStamp: stamp,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Parse validates the token signature and expiry and returns the claims.
func (s *TokenService) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, apperr.Unauthorizedf("invalid or expired token")
	}
	return claims, nil
}

// RelationalAuthService handles registration and login on the relational
// backend. Password verification lives in the user repository (bcrypt).
type RelationalAuthService struct {
	users  *repositories.UserRepository
	tokens *TokenService
	log    *slog.Logger
}

func NewRelationalAuthService(users *repositories.UserRepository, tokens *TokenService, log *slog.Logger) *RelationalAuthService {
	return &RelationalAuthService{users: users, tokens: tokens, log: log}
}

// Register creates an account with the User role.
func (s *RelationalAuthService) Register(ctx context.Context, username, password, fullName string) (*models.User, error) {
	user := &models.User{Username: username, FullName: fullName}
	if err := s.users.Create(ctx, user, password); err != nil {
		return nil, err
	}
	if err := s.users.AddToRole(ctx, user, models.RoleUser); err != nil {
		return nil, err
	}
	s.log.Info("user registered", "username", username, "user_id", user.ID)
	return user, nil
}

// Login verifies credentials and issues a token.
func (s *RelationalAuthService) Login(ctx context.Context, username, password string) (string, *models.User, error) {
	user, err := s.users.GetByUserPass(ctx, username, password)
	if err != nil {
		return "", nil, err
	}
	if user == nil {
		return "", nil, apperr.Unauthorizedf(rules.MsgWrongCredentials)
	}
	if !user.IsActive {
		return "", nil, apperr.Unauthorizedf(rules.MsgAccountDisabled)
	}

	roleNames := make([]string, 0, len(user.Roles))
	for _, role := range user.Roles {
		roleNames = append(roleNames, role.Name)
	}
	token, err := s.tokens.Issue(user.Username, fmt.Sprint(user.ID), roleNames, user.SecurityStamp)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// ChangePassword rotates the hash and security stamp, revoking older tokens.
func (s *RelationalAuthService) ChangePassword(ctx context.Context, userID uint, currentPassword, newPassword string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return apperr.New(apperr.NotFound)
	}
	if err := s.users.SetPassword(ctx, user, currentPassword, newPassword); err != nil {
		return err
	}
	return s.users.Update(ctx, user)
}

// EnsureAdmin creates the bootstrap admin account when it does not exist.
// Running it again is a no-op, so restarts are safe.
func (s *RelationalAuthService) EnsureAdmin(ctx context.Context, username, password string) error {
	existing, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return err
	}
	if existing != nil {
		if !s.users.HasRole(existing, models.RoleAdmin) {
			return s.users.AddToRole(ctx, existing, models.RoleAdmin)
		}
		return nil
	}

	admin := &models.User{Username: username, FullName: "Administrator"}
	if err := s.users.Create(ctx, admin, password); err != nil {
		return err
	}
	if err := s.users.AddToRole(ctx, admin, models.RoleAdmin); err != nil {
		return err
	}
	s.log.Info("bootstrap admin created", "username", username)
	return nil
}

// DocumentAuthService handles registration and login on the document backend.
// It predates the bcrypt move and still stores unsalted SHA-256 hex digests;
// TODO: migrate stored digests to bcrypt and rehash on successful login.
type DocumentAuthService struct {
	users  repositories.DocumentRepository[*models.DocUser]
	tokens *TokenService
	log    *slog.Logger
}

func NewDocumentAuthService(users repositories.DocumentRepository[*models.DocUser], tokens *TokenService, log *slog.Logger) *DocumentAuthService {
	return &DocumentAuthService{users: users, tokens: tokens, log: log}
}

func hashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

func verifyPassword(stored, password string) bool {
	digest := hashPassword(password)
	return subtle.ConstantTimeCompare([]byte(strings.ToLower(stored)), []byte(digest)) == 1
}

// Register creates a document account with the User role.
func (s *DocumentAuthService) Register(ctx context.Context, username, password, fullName string) (*models.DocUser, error) {
	if err := rules.ValidateUser(username, fullName); err != nil {
		return nil, err
	}
	existing, err := s.users.FindOne(ctx, bson.M{"username": username})
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.BadRequestf(rules.MsgUsernameTaken)
	}

	user := models.NewDocUser(username, fullName)
	user.PasswordHash = hashPassword(password)
	user.SecurityStamp = uuid.NewString()
	user.ConcurrencyStamp = uuid.NewString()
	user.Roles = []string{models.RoleUser}
	if err := s.users.InsertOne(ctx, user); err != nil {
		return nil, err
	}
	s.log.Info("user registered", "username", username, "user_id", user.ID.Hex())
	return user, nil
}

// Login verifies credentials and issues a token.
func (s *DocumentAuthService) Login(ctx context.Context, username, password string) (string, *models.DocUser, error) {
	user, err := s.users.FindOne(ctx, bson.M{"username": username})
	if err != nil {
		return "", nil, err
	}
	if user == nil || !verifyPassword(user.PasswordHash, password) {
		return "", nil, apperr.Unauthorizedf(rules.MsgWrongCredentials)
	}
	if !user.IsActive {
		return "", nil, apperr.Unauthorizedf(rules.MsgAccountDisabled)
	}

	token, err := s.tokens.Issue(user.Username, user.ID.Hex(), user.Roles, user.SecurityStamp)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// ChangePassword rotates the digest and security stamp.
func (s *DocumentAuthService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return apperr.New(apperr.NotFound)
	}
	if !verifyPassword(user.PasswordHash, currentPassword) {
		return apperr.BadRequestf(rules.MsgWrongOldPassword)
	}
	user.PasswordHash = hashPassword(newPassword)
	user.SecurityStamp = uuid.NewString()
	return s.users.ReplaceOne(ctx, user)
}

// EnsureAdmin creates the bootstrap admin document when it does not exist.
func (s *DocumentAuthService) EnsureAdmin(ctx context.Context, username, password string) error {
	existing, err := s.users.FindOne(ctx, bson.M{"username": username})
	if err != nil {
		return err
	}
	if existing != nil {
		if !rules.ContainsID(existing.Roles, models.RoleAdmin) {
			existing.Roles = append(existing.Roles, models.RoleAdmin)
			return s.users.ReplaceOne(ctx, existing)
		}
		return nil
	}

	admin := models.NewDocUser(username, "Administrator")
	admin.PasswordHash = hashPassword(password)
	admin.SecurityStamp = uuid.NewString()
	admin.ConcurrencyStamp = uuid.NewString()
	admin.Roles = []string{models.RoleAdmin, models.RoleUser}
	if err := s.users.InsertOne(ctx, admin); err != nil {
		return err
	}
	s.log.Info("bootstrap admin created", "username", username)
	return nil
}
