package main

import (
	"context"
	"dfss-dashboard/auth"
	apperrors "dfss-dashboard/errors"
	"dfss-dashboard/infrastructure/httpapi"
	"dfss-dashboard/internal"
	"dfss-dashboard/observability"
	"dfss-dashboard/services"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
)

// Exit codes to provide meaningful status to the calling shell.
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

const usage = `Usage: dashboard <command> [flags]

Commands:
  list      [-sort key] [-category name] [-search term] [-page n]
  upload    <path>...
  delete    <file id>
  download  <file id> [-o path]
  stats
`

var errUsage = fmt.Errorf("invalid usage")

func main() {
	code, err := run(os.Args[1:], os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Dashboard terminated with error: %v\n", err)
	}
	os.Exit(code)
}

func run(args []string, out io.Writer) (int, error) {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	config, err := internal.Load()
	if err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	logger := logs.GetLoggerFromString(config.LogLevel)

	if len(args) == 0 {
		fmt.Fprint(out, usage)
		return exitConfig, errUsage
	}

	// 2. Session and API client. The token role picks the admin or the user dashboard
	tokens := auth.NewTokenSource(config.APIToken, config.TokenLeeway)
	claims, err := tokens.Claims()
	if err != nil {
		return exitFor(out, err)
	}
	admin := claims.IsAdmin()
	client, err := httpapi.NewClient(config.APIBaseURL, tokens, logger,
		httpapi.WithHTTPClient(&http.Client{Timeout: config.RequestTimeout}),
		httpapi.WithAllOwners(admin),
	)
	if err != nil {
		return exitConfig, err
	}
	svc := services.NewDashboardService(client, config.CatalogOptions(admin), config.ViewPageSize(admin), config.Policy(), logger)
	logger.Debug("Session opened", "user_id", claims.UserID, "admin", admin)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Command
	cmd := command{
		svc:       svc,
		monitor:   observability.NewUploadMonitor(logger),
		out:       out,
		showOwner: admin,
	}
	switch args[0] {
	case "list":
		err = cmd.list(ctx, args[1:])
	case "upload":
		err = cmd.upload(ctx, args[1:])
	case "delete":
		err = cmd.delete(ctx, args[1:])
	case "download":
		err = cmd.download(ctx, args[1:])
	case "stats":
		err = cmd.stats(ctx)
	default:
		fmt.Fprint(out, usage)
		err = fmt.Errorf("unknown command %q: %w", args[0], errUsage)
	}
	return exitFor(out, err)
}

func exitFor(out io.Writer, err error) (int, error) {
	switch {
	case err == nil:
		return exitOK, nil
	case errors.Is(err, errUsage):
		return exitConfig, err
	case errors.Is(err, apperrors.ErrUnauthorized):
		fmt.Fprintln(out, danger.Render("Your session has expired. Log in again and update API_TOKEN."))
		return exitRuntime, err
	default:
		return exitRuntime, err
	}
}
