package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"sync/atomic"

	"github.com/cgea-sas/console/internal/client/api"
	"github.com/cgea-sas/console/internal/client/client"
	"github.com/cgea-sas/console/internal/client/config"
	"github.com/cgea-sas/console/internal/client/credstore"
	"github.com/cgea-sas/console/internal/client/localdb"
	"github.com/cgea-sas/console/internal/client/models"
	"github.com/cgea-sas/console/internal/client/services"
	"github.com/cgea-sas/console/internal/client/session"
	"github.com/cgea-sas/console/internal/filex"
	"github.com/cgea-sas/console/internal/logging"
)

type App struct {
	config  *config.Config
	log     logging.Logger
	db      *sql.DB
	api     *api.API
	session *session.Service
	lookups *services.LookupService

	cere  *certCommands[models.Cere, models.CereForm]
	certl *certCommands[models.Certl, models.CertlForm]

	// expired is set by the HTTP client when it forces a logout.
	expired atomic.Bool

	reader *bufio.Reader
	out    io.Writer
}

// NewApp wires the console on the process standard streams.
func NewApp(c *config.Config) (*App, error) {
	return newApp(c, os.Stdin, os.Stdout)
}

func newApp(c *config.Config, in io.Reader, out io.Writer) (*App, error) {
	ctx := context.Background()
	log := logging.NewTextLogger(os.Stderr, c.LogLevel)

	if err := filex.EnsureParentDir(c.DatabasePath); err != nil {
		return nil, err
	}
	db, err := localdb.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		log.Error(ctx, "error initializing database", "error", err)
		return nil, err
	}
	store := credstore.NewSQLiteStore(db, log)

	plain, err := client.NewPlain(c.APIBaseURL, c.RequestTimeout, log)
	if err != nil {
		db.Close()
		return nil, err
	}
	auth := api.NewAuthAPI(plain)

	a := &App{
		config: c,
		log:    log,
		db:     db,
		reader: bufio.NewReader(in),
		out:    out,
	}

	authed, err := client.NewAuthenticated(c.APIBaseURL, c.RequestTimeout, store, auth, a.forceLogout, log)
	if err != nil {
		db.Close()
		return nil, err
	}

	a.api = api.New(authed)
	a.session = session.New(store, auth, log)
	a.lookups = services.NewLookupService(a.api)
	a.cere = newCereCommands(a, services.NewCereService(a.api, c.PageSize, log))
	a.certl = newCertlCommands(a, services.NewCertlService(a.api, c.PageSize, log))
	return a, nil
}

// forceLogout runs inside a request whose session could not be recovered.
// The tokens are already gone; the REPL picks the flag up after the command.
func (a *App) forceLogout() {
	a.expired.Store(true)
}

func (a *App) sessionExpired(ctx context.Context) bool {
	if !a.expired.CompareAndSwap(true, false) {
		return false
	}
	a.session.Logout(ctx)
	a.resetViews()
	return true
}

func (a *App) resetViews() {
	a.cere.reset()
	a.certl.reset()
}

// Run restores the stored session, asks for credentials when there is
// none and blocks in the REPL until the user leaves.
func (a *App) Run(ctx context.Context) {
	defer a.db.Close()

	fmt.Fprintln(a.out, "Welcome to the SAS console (type 'help' for commands)")
	a.session.Initialize(ctx)

	if a.session.State() == session.Authenticated {
		a.home()
	} else if err := a.Login(ctx); err != nil {
		fmt.Fprintln(a.out, "Error:", err)
	}

	runREPL(ctx, a, a.reader)
}

func (a *App) status() string {
	if name := a.userName(); name != "" {
		return "(" + name + ")"
	}
	return ""
}

func (a *App) help() string {
	if a.session.State() != session.Authenticated {
		return "Available commands: login, help, exit"
	}
	return `Available commands:
  whoami | logout | help | exit
  cere|certl list | next | prev | page N | size N
  cere|certl filter key=value... | clear | sort KEY | reload
  cere|certl stats | chart DIM | recent [N]
  cere|certl show ID | create | edit ID | delete ID | export
  exporters|forwarders|products|posts list | export`
}

// guard runs before protected commands and reports whether to go on.
func (a *App) guard(ctx context.Context) (bool, error) {
	switch a.session.Guard() {
	case session.GuardLoading:
		fmt.Fprintln(a.out, "Loading...")
		return false, nil
	case session.GuardRedirectLogin:
		fmt.Fprintln(a.out, "You are not logged in.")
		return false, a.Login(ctx)
	}
	return true, nil
}

func (a *App) Certificates(ctx context.Context, kind models.Kind, args []string) error {
	ok, err := a.guard(ctx)
	if !ok {
		return err
	}
	switch kind {
	case models.KindCere:
		return a.cere.run(ctx, args)
	case models.KindCertl:
		return a.certl.run(ctx, args)
	}
	return fmt.Errorf("unknown certificate kind %q", kind)
}
