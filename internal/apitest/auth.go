package apitest

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const bearerPrefix = "Bearer "

var (
	ErrMissingAuthHeader = errors.New("missing authorization header")
	ErrInvalidAuthFormat = errors.New("invalid authorization header format")
	ErrEmptyToken        = errors.New("empty token")
)

type userRecord struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	Nome         string `json:"nome"`
	Cognome      string `json:"cognome"`
	Email        string `json:"email"`
	Ruolo        string `json:"ruolo"`
	passwordHash []byte
}

// AddUser registers a user that can log in with password
func (s *Server) AddUser(username, password string) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(fmt.Sprintf("apitest: hash password: %v", err))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[username] = &userRecord{
		ID:           newID(),
		Username:     username,
		Nome:         "Mario",
		Cognome:      "Rossi",
		Email:        username + "@example.com",
		Ruolo:        "ROLE_USER",
		passwordHash: hash,
	}
}

// IssueToken signs a token for username valid for ttl. A negative ttl yields an expired token.
func (s *Server) IssueToken(username string, ttl time.Duration) string {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	if ttl < 0 {
		claims.IssuedAt = jwt.NewNumericDate(now.Add(2 * ttl))
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		panic(fmt.Sprintf("apitest: sign token: %v", err))
	}
	return token
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (s *Server) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		messageJSON(c, http.StatusBadRequest, "username and password are required")
		return
	}

	s.mu.Lock()
	user, ok := s.users[req.Username]
	s.mu.Unlock()

	if !ok || bcrypt.CompareHashAndPassword(user.passwordHash, []byte(req.Password)) != nil {
		messageJSON(c, http.StatusUnauthorized, "invalid username or password")
		return
	}

	c.JSON(http.StatusOK, gin.H{"accessToken": s.IssueToken(user.Username, time.Hour)})
}

type registerRequest struct {
	Nome     string `json:"nome"`
	Cognome  string `json:"cognome"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Ruolo    string `json:"ruolo"`
}

func (s *Server) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		messageJSON(c, http.StatusBadRequest, "malformed request")
		return
	}

	fieldErrors := gin.H{}
	for field, value := range map[string]string{
		"nome": req.Nome, "cognome": req.Cognome, "username": req.Username,
		"email": req.Email, "password": req.Password,
	} {
		if strings.TrimSpace(value) == "" {
			fieldErrors[field] = field + " is required"
		}
	}
	if len(fieldErrors) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Validation failed", "errors": fieldErrors})
		return
	}

	s.mu.Lock()
	_, taken := s.users[req.Username]
	s.mu.Unlock()
	if taken {
		messageJSON(c, http.StatusBadRequest, "username already in use")
		return
	}

	s.AddUser(req.Username, req.Password)

	s.mu.Lock()
	user := s.users[req.Username]
	user.Nome, user.Cognome, user.Email, user.Ruolo = req.Nome, req.Cognome, req.Email, req.Ruolo
	created := *user
	s.mu.Unlock()

	c.JSON(http.StatusCreated, created)
}

func extractBearerToken(authHeader string) (string, error) {
	if authHeader == "" {
		return "", ErrMissingAuthHeader
	}

	if !strings.HasPrefix(authHeader, bearerPrefix) {
		return "", ErrInvalidAuthFormat
	}

	token := strings.TrimPrefix(authHeader, bearerPrefix)
	if token == "" {
		return "", ErrEmptyToken
	}

	return token, nil
}

// jwtAuthMiddleware answers 401 for missing or invalid tokens and 403 for expired ones
func (s *Server) jwtAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := extractBearerToken(c.GetHeader("Authorization"))
		if err != nil {
			messageJSON(c, http.StatusUnauthorized, err.Error())
			c.Abort()
			return
		}

		var claims jwt.RegisteredClaims
		_, err = jwt.ParseWithClaims(token, &claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		})
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				messageJSON(c, http.StatusForbidden, "token expired")
			} else {
				messageJSON(c, http.StatusUnauthorized, "invalid token")
			}
			c.Abort()
			return
		}

		s.mu.Lock()
		user, ok := s.users[claims.Subject]
		s.mu.Unlock()
		if !ok {
			messageJSON(c, http.StatusUnauthorized, "user not found")
			c.Abort()
			return
		}

		c.Set("user", user)
		c.Next()
	}
}

func (s *Server) currentUser(c *gin.Context) {
	user := c.MustGet("user").(*userRecord)

	s.mu.Lock()
	out := *user
	s.mu.Unlock()

	c.JSON(http.StatusOK, out)
}
