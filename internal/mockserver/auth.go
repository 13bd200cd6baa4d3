package mockserver

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func (s *Server) issueToken(c echo.Context) error {
	if c.FormValue("grant_type") != "client_credentials" {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error":             "unsupported_grant_type",
			"error_description": "The authorization grant type is not supported by the authorization server.",
		})
	}

	if c.FormValue("client_id") != s.clientID || c.FormValue("client_secret") != s.clientSecret {
		s.logger.Warn("token request with bad client credentials", "client_id", c.FormValue("client_id"))
		return c.JSON(http.StatusUnauthorized, map[string]string{
			"error":             "invalid_client",
			"error_description": "Client authentication failed",
			"message":           "Client authentication failed",
		})
	}

	token := "mock-" + uuid.NewString()
	s.mu.Lock()
	s.tokens[token] = struct{}{}
	s.mu.Unlock()
	s.exchanges.Add(1)

	s.logger.Info("issued mock token")
	return c.JSON(http.StatusOK, map[string]any{
		"token_type":   "Bearer",
		"expires_in":   s.tokenTTL,
		"access_token": token,
	})
}

// requireBearer rejects requests without a token issued by this server.
func (s *Server) requireBearer(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token, ok := strings.CutPrefix(c.Request().Header.Get("Authorization"), "Bearer ")
		if ok {
			s.mu.Lock()
			_, ok = s.tokens[token]
			s.mu.Unlock()
		}
		if !ok {
			return c.JSON(http.StatusUnauthorized, map[string]string{"message": "Unauthenticated."})
		}
		return next(c)
	}
}
