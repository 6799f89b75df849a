package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"typoteka/internal/domain/entity"
	"typoteka/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	// DefaultTTL is the lifetime of an issued access token.
	DefaultTTL = time.Hour
	// DefaultIssuer is written to the iss claim.
	DefaultIssuer = "typoteka"
	// MinSecretLength is the minimum signing secret length in bytes.
	MinSecretLength = 32

	bearerPrefix = "Bearer "
)

var (
	ErrInvalidCredentials = fmt.Errorf("invalid credentials: %w", entity.ErrUnauthorized)
	ErrMissingToken       = fmt.Errorf("missing token: %w", entity.ErrUnauthorized)
	ErrInvalidToken       = fmt.Errorf("invalid token: %w", entity.ErrUnauthorized)
)

// weakSecrets are values that show up in example configs and must never sign tokens.
var weakSecrets = []string{
	"secret",
	"changeme",
	"password",
	"jwt-secret",
	"your-secret-key",
	"test",
	"default",
}

// Credentials is the login payload.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AccessToken is returned on successful login.
type AccessToken struct {
	Token     string    `json:"accessToken"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Claims is the verified identity carried by a token.
type Claims struct {
	UserID    int64
	Email     string
	Role      string
	ExpiresAt time.Time
}

type tokenClaims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

type Config struct {
	Secret []byte
	TTL    time.Duration
	Issuer string
	// Now overrides the clock; nil means time.Now.
	Now func() time.Time
}

// Service issues and verifies access tokens.
// Verification is stateless: it never touches the user store.
type Service struct {
	users  repository.UserRepository
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

func NewService(users repository.UserRepository, cfg Config) *Service {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	if cfg.Issuer == "" {
		cfg.Issuer = DefaultIssuer
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Service{
		users:  users,
		secret: cfg.Secret,
		ttl:    cfg.TTL,
		issuer: cfg.Issuer,
		now:    cfg.Now,
	}
}

// IssueToken checks the credentials against the user store and signs a token.
// Unknown email and wrong password produce the same error.
func (s *Service) IssueToken(ctx context.Context, creds Credentials) (*AccessToken, error) {
	email := strings.TrimSpace(creds.Email)
	if email == "" || creds.Password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if err := CheckPassword(user.PasswordHash, creds.Password); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.sign(user)
}

func (s *Service) sign(user *entity.User) (*AccessToken, error) {
	now := s.now()
	expiresAt := now.Add(s.ttl)
	claims := tokenClaims{
		Email: user.Email,
		Role:  user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(user.ID, 10),
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &AccessToken{Token: signed, ExpiresAt: expiresAt.UTC().Truncate(time.Second)}, nil
}

// VerifyToken accepts "Bearer <jwt>" as well as a bare "<jwt>".
func (s *Service) VerifyToken(raw string) (*Claims, error) {
	token := strings.TrimSpace(raw)
	if len(token) >= len(bearerPrefix) && strings.EqualFold(token[:len(bearerPrefix)], bearerPrefix) {
		token = strings.TrimSpace(token[len(bearerPrefix):])
	}
	if token == "" {
		return nil, ErrMissingToken
	}

	var claims tokenClaims
	parsed, err := jwt.ParseWithClaims(token, &claims,
		func(*jwt.Token) (interface{}, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuer(s.issuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return nil, ErrInvalidToken
	}

	return &Claims{
		UserID:    userID,
		Email:     claims.Email,
		Role:      claims.Role,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// HashPassword returns the bcrypt hash of password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword compares a bcrypt hash with a candidate password.
func CheckPassword(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrInvalidCredentials
		}
		return fmt.Errorf("compare password: %w", err)
	}
	return nil
}

// ValidateSecret is called at startup before the server accepts requests.
func ValidateSecret(secret string) error {
	if secret == "" {
		return errors.New("JWT_SECRET must not be empty")
	}
	if len(secret) < MinSecretLength {
		return fmt.Errorf("JWT_SECRET must be at least %d bytes (got %d)", MinSecretLength, len(secret))
	}
	lower := strings.ToLower(secret)
	for _, weak := range weakSecrets {
		if strings.Contains(lower, weak) && len(strings.ReplaceAll(lower, weak, "")) < MinSecretLength/2 {
			return errors.New("JWT_SECRET is a known weak value")
		}
	}
	if strings.Count(secret, secret[:1]) == len(secret) {
		return errors.New("JWT_SECRET must not repeat a single character")
	}
	return nil
}

type ctxKey struct{}

// ContextWithClaims stores verified claims in ctx.
func ContextWithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, ctxKey{}, claims)
}

// ClaimsFromContext returns the claims put there by ContextWithClaims.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(ctxKey{}).(*Claims)
	return claims, ok && claims != nil
}
