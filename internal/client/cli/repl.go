package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/cgea-sas/console/internal/client/client"
	"github.com/cgea-sas/console/internal/client/models"
)

// printlnFn is a test seam for user-facing output of the loop itself.
var printlnFn = fmt.Println

// execIface is the command surface the REPL drives. *App satisfies it.
type execIface interface {
	status() string
	help() string
	sessionExpired(ctx context.Context) bool
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Whoami(ctx context.Context) error
	Certificates(ctx context.Context, kind models.Kind, args []string) error
	Entities(ctx context.Context, name string, args []string) error
}

// runREPL reads one command per line and dispatches it. Errors are printed
// and the loop goes on. After every command a forced logout coming from the
// HTTP client is reported and the login prompt opened.
//
//	help | login | logout | whoami | exit | quit
//	cere|certl <subcommand> [args]
//	exporters|forwarders|products|posts [list|export]
//
// The loop ends on EOF, exit or quit.
func runREPL(ctx context.Context, a execIface, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("sas %s> ", a.status()))
		line, err := readLine(reader)
		if err != nil {
			if !errors.Is(err, io.EOF) {
				printlnFn("Error:", err)
			}
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := strings.ToLower(parts[0]), parts[1:]

		switch cmd {
		case "help", "?":
			printlnFn(a.help())
		case "login":
			err = a.Login(ctx)
		case "logout":
			err = a.Logout(ctx)
		case "whoami":
			err = a.Whoami(ctx)
		case "cere":
			err = a.Certificates(ctx, models.KindCere, args)
		case "certl":
			err = a.Certificates(ctx, models.KindCertl, args)
		case "exporters", "forwarders", "products", "posts":
			err = a.Entities(ctx, cmd, args)
		case "exit", "quit":
			printlnFn("Bye!")
			return
		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil && !errors.Is(err, client.ErrSessionExpired) {
			printlnFn("Error:", err)
		}
		if a.sessionExpired(ctx) {
			printlnFn("Session expired, please log in again.")
			if err := a.Login(ctx); err != nil {
				printlnFn("Error:", err)
			}
		}
	}
}
