package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/draftforge/draftforge-backend/internal/logger"
	"github.com/draftforge/draftforge-backend/internal/repos"
	"github.com/draftforge/draftforge-backend/internal/requestdata"
	"github.com/draftforge/draftforge-backend/internal/types"
	"github.com/draftforge/draftforge-backend/internal/utils"
)

type AuthService interface {
	RegisterUser(ctx context.Context, email, password string) (*types.User, error)
	LoginUser(ctx context.Context, email, password string) (string, string, error)
	RefreshUser(ctx context.Context) (string, string, error)
	LogoutUser(ctx context.Context) error
}

// TokenVerifier resolves a bearer token to the authenticated identity. The
// auth middleware depends on this rather than the full AuthService.
type TokenVerifier interface {
	Verify(ctx context.Context, tokenString string) (*requestdata.RequestData, error)
}

type authService struct {
	db            *gorm.DB
	log           *logger.Logger
	userRepo      repos.UserRepo
	userTokenRepo repos.UserTokenRepo
	jwtSecretKey  string
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewAuthService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo repos.UserRepo,
	userTokenRepo repos.UserTokenRepo,
	jwtSecretKey string,
	accessTTL time.Duration,
	refreshTTL time.Duration,
) AuthService {
	serviceLog := log.With("service", "AuthService")
	return &authService{
		db:            db,
		log:           serviceLog,
		userRepo:      userRepo,
		userTokenRepo: userTokenRepo,
		jwtSecretKey:  jwtSecretKey,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

// NewTokenVerifier exposes the token-verification half of the auth service.
func NewTokenVerifier(
	db *gorm.DB,
	log *logger.Logger,
	userRepo repos.UserRepo,
	userTokenRepo repos.UserTokenRepo,
	jwtSecretKey string,
) TokenVerifier {
	return &authService{
		db:            db,
		log:           log.With("service", "TokenVerifier"),
		userRepo:      userRepo,
		userTokenRepo: userTokenRepo,
		jwtSecretKey:  jwtSecretKey,
	}
}

func (as *authService) RegisterUser(ctx context.Context, email, password string) (*types.User, error) {
	email = strings.ToLower(utils.ParseInputString(email))
	password = strings.TrimSpace(password)
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("Invalid email address")
	}
	if len(password) < 8 {
		return nil, fmt.Errorf("Password must be at least 8 characters")
	}

	exists, exErr := as.userRepo.EmailExists(ctx, nil, email)
	if exErr != nil {
		return nil, fmt.Errorf("Failed to check email: %w", exErr)
	}
	if exists {
		return nil, fmt.Errorf("Email already registered")
	}

	hashed, hErr := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if hErr != nil {
		as.log.Error("Password hash error", "error", hErr)
		return nil, fmt.Errorf("Failed to hash password")
	}

	user := &types.User{
		ID:       uuid.New(),
		Email:    email,
		Password: string(hashed),
	}
	created, cErr := as.userRepo.Create(ctx, nil, []*types.User{user})
	if cErr != nil {
		return nil, fmt.Errorf("Failed to create user: %w", cErr)
	}
	as.log.Info("User registered", "user_id", user.ID)
	return created[0], nil
}

func (as *authService) LoginUser(ctx context.Context, email, password string) (string, string, error) {
	email = strings.ToLower(utils.ParseInputString(email))
	users, usErr := as.userRepo.GetByEmails(ctx, nil, []string{email})
	if usErr != nil {
		return "", "", fmt.Errorf("Error retrieving user by email: %w", usErr)
	}
	if len(users) == 0 {
		return "", "", fmt.Errorf("Invalid email or password")
	}
	user := users[0]
	if hErr := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); hErr != nil {
		return "", "", fmt.Errorf("Invalid email or password")
	}

	var accessToken, refreshToken string
	txErr := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, ftErr := as.userTokenRepo.GetByUserIDs(ctx, tx, []uuid.UUID{user.ID})
		if ftErr != nil {
			return fmt.Errorf("Failed to check user tokens: %w", ftErr)
		}
		// A login replaces any previous session.
		if len(existing) > 0 {
			ids := make([]uuid.UUID, 0, len(existing))
			for _, tok := range existing {
				ids = append(ids, tok.ID)
			}
			if dtErr := as.userTokenRepo.DeleteByIDs(ctx, tx, ids); dtErr != nil {
				return fmt.Errorf("Failed to delete previous user tokens: %w", dtErr)
			}
		}
		tok, genErr := as.generateAccessToken(user)
		if genErr != nil {
			return fmt.Errorf("Generate access token error: %w", genErr)
		}
		accessToken = tok
		refreshToken = uuid.New().String()
		userToken := &types.UserToken{
			ID:           uuid.New(),
			UserID:       user.ID,
			AccessToken:  accessToken,
			RefreshToken: refreshToken,
			ExpiresAt:    time.Now().Add(as.refreshTTL),
		}
		if _, ctErr := as.userTokenRepo.Create(ctx, tx, []*types.UserToken{userToken}); ctErr != nil {
			return fmt.Errorf("Failed to create user token: %w", ctErr)
		}
		return nil
	})
	if txErr != nil {
		return "", "", txErr
	}
	as.log.Info("User logged in", "user_id", user.ID)
	return accessToken, refreshToken, nil
}

func (as *authService) RefreshUser(ctx context.Context) (string, string, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.RefreshToken == "" {
		return "", "", fmt.Errorf("Refresh token not set in context")
	}

	var accessToken, refreshToken string
	txErr := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		userToken, ftErr := as.userTokenRepo.GetByRefreshToken(ctx, tx, rd.RefreshToken)
		if ftErr != nil {
			return fmt.Errorf("Failed to look up refresh token: %w", ftErr)
		}
		if userToken == nil {
			return fmt.Errorf("Invalid refresh token")
		}
		if userToken.ExpiresAt.Before(time.Now()) {
			return fmt.Errorf("Refresh token expired")
		}
		users, usErr := as.userRepo.GetByIDs(ctx, tx, []uuid.UUID{userToken.UserID})
		if usErr != nil || len(users) == 0 {
			return fmt.Errorf("Failed to load user for refresh")
		}
		tok, genErr := as.generateAccessToken(users[0])
		if genErr != nil {
			return fmt.Errorf("Generate access token error: %w", genErr)
		}
		accessToken = tok
		refreshToken = uuid.New().String()
		userToken.AccessToken = accessToken
		userToken.RefreshToken = refreshToken
		userToken.ExpiresAt = time.Now().Add(as.refreshTTL)
		if upErr := as.userTokenRepo.UpdateTokens(ctx, tx, userToken); upErr != nil {
			return fmt.Errorf("Failed to rotate user token: %w", upErr)
		}
		return nil
	})
	if txErr != nil {
		return "", "", txErr
	}
	return accessToken, refreshToken, nil
}

func (as *authService) LogoutUser(ctx context.Context) error {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.TokenString == "" {
		return fmt.Errorf("Request data not set in context")
	}
	userToken, ftErr := as.userTokenRepo.GetByAccessToken(ctx, nil, rd.TokenString)
	if ftErr != nil {
		return fmt.Errorf("Failed to look up access token: %w", ftErr)
	}
	if userToken == nil {
		return nil
	}
	if dtErr := as.userTokenRepo.DeleteByIDs(ctx, nil, []uuid.UUID{userToken.ID}); dtErr != nil {
		return fmt.Errorf("Failed to delete user token: %w", dtErr)
	}
	as.log.Info("User logged out", "user_id", userToken.UserID)
	return nil
}

// Verify parses the JWT, checks it against the stored session row, and
// returns the identity for the request context.
func (as *authService) Verify(ctx context.Context, tokenString string) (*requestdata.RequestData, error) {
	claims := jwt.MapClaims{}
	token, pErr := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("Unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(as.jwtSecretKey), nil
	})
	if pErr != nil || !token.Valid {
		return nil, fmt.Errorf("Invalid token")
	}

	userToken, ftErr := as.userTokenRepo.GetByAccessToken(ctx, nil, tokenString)
	if ftErr != nil {
		return nil, fmt.Errorf("Failed to look up session: %w", ftErr)
	}
	if userToken == nil {
		return nil, fmt.Errorf("Session not found")
	}

	sub, _ := claims["sub"].(string)
	userID, idErr := uuid.Parse(sub)
	if idErr != nil {
		return nil, fmt.Errorf("Invalid token subject")
	}
	if userID != userToken.UserID {
		return nil, fmt.Errorf("Token subject mismatch")
	}
	email, _ := claims["email"].(string)
	return &requestdata.RequestData{
		TokenString:  tokenString,
		RefreshToken: userToken.RefreshToken,
		UserID:       userID,
		UserEmail:    email,
	}, nil
}

func (as *authService) generateAccessToken(user *types.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   user.ID.String(),
		"email": user.Email,
		"iat":   now.Unix(),
		"exp":   now.Add(as.accessTTL).Unix(),
		// Tokens minted within the same second would otherwise be identical,
		// and access_token carries a unique index.
		"jti": uuid.New().String(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, sErr := token.SignedString([]byte(as.jwtSecretKey))
	if sErr != nil {
		return "", fmt.Errorf("Failed to sign token: %w", sErr)
	}
	return signed, nil
}
