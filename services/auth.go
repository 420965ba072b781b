package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rpupo63/blog-admin-console/errs"
	"github.com/rpupo63/blog-admin-console/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	auth "github.com/supabase-community/auth-go"
	"github.com/supabase-community/auth-go/types"
)

const authService = "auth"

// AuthClient talks to a GoTrue compatible auth service
type AuthClient struct {
	client     auth.Client
	jwtSecret  []byte
	httpClient *http.Client
	logger     zerolog.Logger
	now        func() time.Time
}

// NewAuthClient creates a client for {baseURL}/auth/v1. When jwtSecret is
// empty, access token claims are read without verifying the signature.
func NewAuthClient(baseURL, apiKey, jwtSecret string, httpClient *http.Client) *AuthClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	var secret []byte
	if jwtSecret != "" {
		secret = []byte(jwtSecret)
	}
	return &AuthClient{
		client:     auth.New("", apiKey).WithCustomAuthURL(strings.TrimSuffix(baseURL, "/") + "/auth/v1"),
		jwtSecret:  secret,
		httpClient: httpClient,
		logger:     log.With().Str("service", authService).Logger(),
		now:        time.Now,
	}
}

type accessClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// SignInWithPassword exchanges email and password for a session
func (c *AuthClient) SignInWithPassword(ctx context.Context, email, password string) (*models.Session, error) {
	token, err := c.withContext(ctx).SignInWithEmailPassword(email, password)
	if err != nil {
		return nil, c.classify("token", err)
	}
	if token == nil || token.AccessToken == "" {
		return nil, errs.NewMalformedResponseError(authService, fmt.Errorf("missing access_token"))
	}
	return c.sessionFromToken(token.Session)
}

// SignUp registers a new user. The service sends the confirmation email itself.
func (c *AuthClient) SignUp(ctx context.Context, email, password string) error {
	_, err := c.withContext(ctx).Signup(types.SignupRequest{Email: email, Password: password})
	if err != nil {
		return c.classify("signup", err)
	}
	return nil
}

// SignOut revokes the session behind accessToken
func (c *AuthClient) SignOut(ctx context.Context, accessToken string) error {
	if err := c.withContext(ctx).WithToken(accessToken).Logout(); err != nil {
		return c.classify("logout", err)
	}
	return nil
}

// withContext binds ctx to every request the auth client makes, as the
// client's own methods take no context.
func (c *AuthClient) withContext(ctx context.Context) auth.Client {
	base := c.httpClient.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	httpClient := *c.httpClient
	httpClient.Transport = contextTransport{ctx: ctx, base: base}
	return c.client.WithClient(httpClient)
}

type contextTransport struct {
	ctx  context.Context
	base http.RoundTripper
}

func (t contextTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	return t.base.RoundTrip(req.WithContext(t.ctx))
}

func (c *AuthClient) sessionFromToken(token types.Session) (*models.Session, error) {
	var claims accessClaims
	if err := c.parseClaims(token.AccessToken, &claims); err != nil {
		return nil, errs.NewMalformedResponseError(authService, err)
	}

	session := &models.Session{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		UserID:       claims.Subject,
		Email:        claims.Email,
	}
	if session.UserID == "" && token.User.ID != uuid.Nil {
		session.UserID = token.User.ID.String()
	}
	if session.Email == "" {
		session.Email = token.User.Email
	}

	switch {
	case claims.ExpiresAt != nil:
		session.ExpiresAt = claims.ExpiresAt.Time
	case token.ExpiresAt > 0:
		session.ExpiresAt = time.Unix(token.ExpiresAt, 0)
	case token.ExpiresIn > 0:
		session.ExpiresAt = c.now().Add(time.Duration(token.ExpiresIn) * time.Second)
	}

	if session.UserID == "" {
		return nil, errs.NewMalformedResponseError(authService, fmt.Errorf("token has no subject"))
	}
	return session, nil
}

func (c *AuthClient) parseClaims(raw string, claims *accessClaims) error {
	if c.jwtSecret == nil {
		_, _, err := jwt.NewParser().ParseUnverified(raw, claims)
		return err
	}

	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return c.jwtSecret, nil
	}, jwt.WithTimeFunc(c.now))
	return err
}

// statusErrorPattern matches how the auth client reports a non-success reply
var statusErrorPattern = regexp.MustCompile(`(?s)^response status code (\d+)(?:: (.*))?$`)

// authErrorResponse covers the error shapes GoTrue has used over time
type authErrorResponse struct {
	Msg              string `json:"msg"`
	Message          string `json:"message"`
	ErrorDescription string `json:"error_description"`
	Error            string `json:"error"`
}

func (r authErrorResponse) text() string {
	for _, s := range []string{r.Msg, r.ErrorDescription, r.Message, r.Error} {
		if s != "" {
			return s
		}
	}
	return ""
}

// classify turns a rejection by the auth service into a service error
// carrying its own message. Anything else, such as a transport failure or an
// undecodable reply, is unexpected.
func (c *AuthClient) classify(endpoint string, err error) error {
	match := statusErrorPattern.FindStringSubmatch(err.Error())
	if match == nil {
		c.logger.Error().Err(err).Str("endpoint", endpoint).Msg("auth request failed")
		return errs.NewUnexpectedError(authService, err)
	}

	status, _ := strconv.Atoi(match[1])
	var errResp authErrorResponse
	message := ""
	if body := strings.TrimSpace(match[2]); body != "" {
		if json.Unmarshal([]byte(body), &errResp) == nil {
			message = errResp.text()
		} else {
			message = body
		}
	}
	c.logger.Warn().Int("status", status).Str("endpoint", endpoint).Str("message", message).Msg("auth service rejected request")
	return errs.NewServiceError(authService, status, message, err)
}
