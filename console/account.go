package console

import (
	"context"

	"github.com/rpupo63/blog-admin-console/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Authenticator is the external auth service
type Authenticator interface {
	SignInWithPassword(ctx context.Context, email, password string) (*models.Session, error)
	SignUp(ctx context.Context, email, password string) error
	SignOut(ctx context.Context, accessToken string) error
}

// Account runs the sign-in, sign-up and sign-out actions
type Account struct {
	auth     Authenticator
	sessions *SessionStore
	notifier Notifier
	nav      Navigator
	metrics  *Metrics
	logger   zerolog.Logger
}

func NewAccount(auth Authenticator, sessions *SessionStore, notifier Notifier, nav Navigator, metrics *Metrics) *Account {
	return &Account{
		auth:     auth,
		sessions: sessions,
		notifier: notifier,
		nav:      nav,
		metrics:  metrics,
		logger:   log.With().Str("component", "account").Logger(),
	}
}

// SignIn starts a session and navigates to the dashboard. On failure nothing changes.
func (a *Account) SignIn(ctx context.Context, email, password string) (err error) {
	defer func() { a.metrics.observe("sign_in", err) }()

	if err := validateCredentials(email, password); err != nil {
		a.notifier.Notify(failure("Error signing in", err))
		return err
	}

	session, err := a.auth.SignInWithPassword(ctx, email, password)
	if err != nil {
		a.logger.Warn().Err(err).Str("email", email).Msg("sign in failed")
		a.notifier.Notify(failure("Error signing in", err))
		return err
	}

	a.sessions.Set(session)
	a.nav.Navigate(RouteDashboard)
	a.logger.Info().Str("userID", session.UserID).Msg("signed in")
	return nil
}

// SignUp registers the user. Confirmation happens by email out of band.
func (a *Account) SignUp(ctx context.Context, email, password string) (err error) {
	defer func() { a.metrics.observe("sign_up", err) }()

	if err := validateCredentials(email, password); err != nil {
		a.notifier.Notify(failure("Error signing up", err))
		return err
	}

	if err := a.auth.SignUp(ctx, email, password); err != nil {
		a.logger.Warn().Err(err).Str("email", email).Msg("sign up failed")
		a.notifier.Notify(failure("Error signing up", err))
		return err
	}

	a.nav.Navigate(RouteLogin)
	a.notifier.Notify(success("Signed up successfully!", "Please check your email to confirm your registration."))
	return nil
}

// SignOut ends the session remotely and always clears it locally
func (a *Account) SignOut(ctx context.Context) (err error) {
	defer func() { a.metrics.observe("sign_out", err) }()

	if session := a.sessions.Current(); session != nil {
		if err = a.auth.SignOut(ctx, session.AccessToken); err != nil {
			a.logger.Warn().Err(err).Msg("remote sign out failed")
		}
	}

	a.sessions.Clear()
	a.nav.Navigate(RouteLogin)
	return err
}
