package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cgea-sas/console/internal/client/client"
	"github.com/cgea-sas/console/internal/client/models"
	"github.com/cgea-sas/console/internal/client/session"
	"github.com/cgea-sas/console/internal/client/tokencodec"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

var errInvalidCredentials = errors.New("invalid username or password")

// Login prompts for credentials and opens a session. A rejected login
// leaves the console anonymous.
func (a *App) Login(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer clear(password)

	err = a.session.Login(ctx, models.Credentials{Username: userName, Password: string(password)})
	switch {
	case errors.Is(err, client.ErrUnauthorized), errors.Is(err, client.ErrBadRequest):
		a.log.Info(ctx, "login rejected", "user", userName)
		return errInvalidCredentials
	case err != nil:
		return err
	}

	a.expired.Store(false)
	a.resetViews()
	a.home()
	return nil
}

// home is the landing screen.
func (a *App) home() {
	fmt.Fprintf(a.out, "Logged in as %s. Type 'help' for commands.\n", a.userName())
}

func (a *App) Logout(ctx context.Context) error {
	if a.session.State() != session.Authenticated {
		fmt.Fprintln(a.out, "Not logged in.")
		return nil
	}
	a.session.Logout(ctx)
	a.resetViews()
	fmt.Fprintln(a.out, "Logged out.")
	return nil
}

func (a *App) Whoami(context.Context) error {
	snap := a.session.Snapshot()
	if snap.Identity == nil {
		fmt.Fprintln(a.out, "Not logged in.")
		return nil
	}
	fmt.Fprintf(a.out, "User: %s\n", tokencodec.Username(snap.Identity))
	if exp, ok := tokencodec.ExpiresAt(snap.Identity); ok {
		fmt.Fprintf(a.out, "Access token expires: %s\n", exp.Local().Format(time.DateTime))
	}
	fmt.Fprintf(a.out, "Backend: %s\n", a.config.APIBaseURL)
	return nil
}

func (a *App) userName() string {
	snap := a.session.Snapshot()
	if snap.Identity == nil {
		return ""
	}
	return tokencodec.Username(snap.Identity)
}
