package ws

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// authenticate resolves the request to a user ID.
//
// Two schemes are accepted, tried in order:
//   - a static token (query param "token", header, or bearer) paired
//     with a "user" query param naming the caller;
//   - an HS256 JWT bearer token whose subject claim is the user ID.
//
// With no token and no JWT secret configured, auth is open and the
// "user" query param alone identifies the caller.
func (s *Server) authenticate(r *http.Request) (string, error) {
	presented := bearerToken(r)

	if s.authToken != "" && presented == s.authToken {
		return s.requestUser(r)
	}

	if s.jwtSecret != "" && presented != "" {
		claims := jwt.RegisteredClaims{}
		_, err := jwt.ParseWithClaims(presented, &claims, func(t *jwt.Token) (interface{}, error) {
			if t.Method != jwt.SigningMethodHS256 {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return []byte(s.jwtSecret), nil
		})
		if err != nil {
			return "", fmt.Errorf("parsing token: %w", err)
		}
		if claims.Subject == "" {
			return "", fmt.Errorf("token has no subject")
		}
		return claims.Subject, nil
	}

	if s.authToken == "" && s.jwtSecret == "" {
		return s.requestUser(r)
	}
	return "", fmt.Errorf("missing or invalid credentials")
}

func (s *Server) requestUser(r *http.Request) (string, error) {
	user := r.URL.Query().Get("user")
	if user == "" {
		return "", fmt.Errorf("missing user parameter")
	}
	return user, nil
}

// bearerToken extracts the presented credential from the query string,
// the app header, or the Authorization header.
func bearerToken(r *http.Request) string {
	if tok := r.URL.Query().Get("token"); tok != "" {
		return tok
	}
	if tok := r.Header.Get("X-LinguaLoop-Token"); tok != "" {
		return tok
	}
	auth := r.Header.Get("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}
