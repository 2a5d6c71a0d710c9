package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sinanfen/to-dogether-web-sub000/internal/api"
	clientauth "github.com/sinanfen/to-dogether-web-sub000/internal/auth"
	"github.com/sinanfen/to-dogether-web-sub000/internal/config"
	"github.com/sinanfen/to-dogether-web-sub000/internal/domain"
	"github.com/sinanfen/to-dogether-web-sub000/internal/jobs"
	"github.com/sinanfen/to-dogether-web-sub000/internal/keystore"
	"github.com/sinanfen/to-dogether-web-sub000/internal/logger"
	"github.com/sinanfen/to-dogether-web-sub000/internal/session"
	"go.uber.org/zap"
)

const usage = `Usage: todogether <command> [flags]

Commands:
  login     -u <username> -p <password>
  register  -u <username> -p <password> [-color <hex>] [-invite <token>]
  logout
  status
  lists
  watch     keep the session refreshed until interrupted
`

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app bundles the wired-up client components
type app struct {
	cfg     *config.Config
	log     *zap.Logger
	client  *api.Client
	manager *session.Manager
}

func run(args []string) error {
	if len(args) == 0 {
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("no command given")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.NewLogger(&cfg.Logging, &cfg.App)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	store, err := keystore.New(&cfg.Keystore, log)
	if err != nil {
		return fmt.Errorf("failed to open keystore: %w", err)
	}

	client, err := api.NewClient(&cfg.API, store, log)
	if err != nil {
		return fmt.Errorf("failed to create API client: %w", err)
	}

	manager := session.NewManager(client,
		session.WithLogger(log),
		session.WithNavigator(session.NavigatorFunc(func(route session.Route) {
			log.Debug("navigation signal", zap.String("route", route.String()))
		})),
	)

	a := &app{cfg: cfg, log: log, client: client, manager: manager}
	ctx := context.Background()

	switch args[0] {
	case "login":
		return a.login(ctx, args[1:])
	case "register":
		return a.register(ctx, args[1:])
	case "logout":
		a.manager.Logout(ctx)
		fmt.Println("Logged out.")
		return nil
	case "status":
		return a.status(ctx)
	case "lists":
		return a.lists(ctx)
	case "watch":
		return a.watch(ctx)
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command: %s", args[0])
	}
}

func (a *app) login(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	username := fs.String("u", "", "username")
	password := fs.String("p", "", "password")
	if err := fs.Parse(args); err != nil {
		return err
	}

	err := a.manager.Login(ctx, domain.Credentials{
		Username: *username,
		Password: *password,
	})
	if err != nil {
		if msg := a.manager.Snapshot().LastError; msg != "" {
			fmt.Fprintln(os.Stderr, msg)
		}
		return err
	}

	user := a.manager.Snapshot().User
	fmt.Printf("Logged in as %s.\n", user.Username)
	if user.Partner != nil {
		fmt.Printf("Partner: %s\n", user.Partner.Username)
	}
	return nil
}

func (a *app) register(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("register", flag.ContinueOnError)
	username := fs.String("u", "", "username")
	password := fs.String("p", "", "password")
	color := fs.String("color", "", "display color, e.g. #ff8da1")
	invite := fs.String("invite", "", "partner invite token")
	if err := fs.Parse(args); err != nil {
		return err
	}

	// Capture the post-registration navigation signal: it carries the
	// invite token when this account became the inviter of a new couple.
	var landed session.Route
	manager := session.NewManager(a.client,
		session.WithLogger(a.log),
		session.WithNavigator(session.NavigatorFunc(func(route session.Route) {
			landed = route
		})),
	)

	err := manager.Register(ctx, domain.RegisterRequest{
		Username:    *username,
		Password:    *password,
		ColorCode:   *color,
		InviteToken: *invite,
	})
	if err != nil {
		if msg := manager.Snapshot().LastError; msg != "" {
			fmt.Fprintln(os.Stderr, msg)
		}
		return err
	}

	fmt.Printf("Registered as %s.\n", *username)
	if token := landed.Query.Get("invite"); token != "" {
		fmt.Printf("Share this invite token with your partner: %s\n", token)
	}
	return nil
}

func (a *app) status(ctx context.Context) error {
	a.manager.Hydrate(ctx)
	snap := a.manager.Snapshot()

	if !snap.Authenticated() {
		fmt.Println("Not logged in.")
		return nil
	}

	fmt.Printf("Logged in as %s (id %d)\n", snap.User.Username, snap.User.ID)
	if snap.User.Partner != nil {
		fmt.Printf("Partner: %s\n", snap.User.Partner.Username)
	} else {
		fmt.Println("No partner linked yet.")
	}

	if info, err := clientauth.Inspect(a.client.AccessToken()); err == nil && !info.ExpiresAt.IsZero() {
		fmt.Printf("Token expires: %s\n", info.ExpiresAt.Format(time.RFC3339))
	}
	return nil
}

func (a *app) lists(ctx context.Context) error {
	a.manager.Hydrate(ctx)
	snap := a.manager.Snapshot()
	if !snap.Authenticated() {
		return fmt.Errorf("not logged in")
	}

	lists, err := a.client.TodoLists(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch lists: %w", err)
	}

	if len(lists) == 0 {
		fmt.Println("No lists yet.")
		return nil
	}
	for _, list := range lists {
		done := 0
		for _, item := range list.Items {
			if item.Status == domain.ItemStatusDone {
				done++
			}
		}
		fmt.Printf("%4d  %-30s %d/%d done\n", list.ID, list.Title, done, len(list.Items))
	}
	return nil
}

// watch hydrates the session and keeps it refreshed on the configured
// schedule until interrupted
func (a *app) watch(ctx context.Context) error {
	a.manager.Hydrate(ctx)
	if !a.manager.Snapshot().Authenticated() {
		return fmt.Errorf("not logged in")
	}

	refreshCfg := a.cfg.Refresh
	refreshCfg.Enabled = true

	scheduler := jobs.NewScheduler(a.log)
	if err := jobs.RegisterSessionRefresh(scheduler, a.manager, &refreshCfg, a.log); err != nil {
		return fmt.Errorf("failed to schedule session refresh: %w", err)
	}
	scheduler.Start()
	defer func() { <-scheduler.Stop().Done() }()

	fmt.Printf("Watching session (refresh %s). Ctrl-C to stop.\n", refreshCfg.Schedule)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	return nil
}
