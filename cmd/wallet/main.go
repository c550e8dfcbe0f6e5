// Command wallet is the terminal client: account commands plus a live view
// of the wallet with push notifications.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/charmbracelet/huh"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"wallet_live/internal/api"
	"wallet_live/internal/client"
	"wallet_live/internal/config"
	"wallet_live/internal/credential"
	"wallet_live/internal/logging"
	"wallet_live/internal/metrics"
	"wallet_live/internal/sse"
	"wallet_live/internal/ui"
)

const usage = `usage: wallet <command> [flags]

commands:
  login     sign in and store the access token
  signup    create an account
  logout    forget the stored access token
  check     check whether a username is available
  watch     open the live wallet view
`

type env struct {
	cfg    *config.Config
	logger *zap.Logger
	tokens credential.Store
	runUI  func(ctx context.Context, session *client.Session, wallet ui.WalletSource, logger *zap.Logger) error
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1], os.Args[2:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cmd string, args []string) error {
	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	debug := fs.Bool("debug", false, "verbose log file")
	logPath := fs.String("log", defaultLogPath(), "log file path")
	username := fs.String("u", "", "username")
	metricsAddr := fs.String("metrics-addr", "", "serve push channel metrics on this address (watch only)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg := config.New()
	logger, err := logging.NewFile(*logPath, *debug)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	tokens, err := credential.OpenKeyring(cfg.KeyringService, cfg.KeyringDir)
	if err != nil {
		return fmt.Errorf("open keyring: %w", err)
	}
	e := env{cfg: cfg, logger: logger, tokens: tokens, runUI: ui.Run}

	switch cmd {
	case "login":
		return e.login(ctx, *username)
	case "signup":
		return e.signup(ctx, *username)
	case "logout":
		return api.NewAuthClient(cfg.APIBaseURL, tokens, logger).Logout(ctx)
	case "check":
		name := *username
		if name == "" && fs.NArg() > 0 {
			name = fs.Arg(0)
		}
		return e.check(ctx, name)
	case "watch":
		return e.watch(ctx, *metricsAddr)
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func (e env) login(ctx context.Context, username string) error {
	req := api.LoginRequest{Username: username}
	if err := ui.LoginForm(&req).RunWithContext(ctx); err != nil {
		return formErr(err)
	}
	resp, err := api.NewAuthClient(e.cfg.APIBaseURL, e.tokens, e.logger).Login(ctx, req)
	if err != nil {
		if errors.Is(err, api.ErrAccountLocked) {
			return fmt.Errorf("계정이 잠겼습니다: %w", err)
		}
		return err
	}
	fmt.Printf("%s님, 로그인되었습니다.\n", resp.User.Username)
	return nil
}

func (e env) signup(ctx context.Context, username string) error {
	req := api.SignupRequest{Username: username}
	if err := ui.SignupForm(&req).RunWithContext(ctx); err != nil {
		return formErr(err)
	}
	text, err := api.NewAuthClient(e.cfg.APIBaseURL, e.tokens, e.logger).Signup(ctx, req)
	if err != nil {
		return err
	}
	fmt.Println(text)
	return nil
}

func (e env) check(ctx context.Context, name string) error {
	if name == "" {
		return errors.New("username required")
	}
	ok, err := api.NewAuthClient(e.cfg.APIBaseURL, e.tokens, e.logger).CheckUsername(ctx, name)
	if err != nil {
		return err
	}
	if ok {
		fmt.Printf("%s: 사용 가능한 아이디입니다.\n", name)
	} else {
		fmt.Printf("%s: 이미 사용 중인 아이디입니다.\n", name)
	}
	return nil
}

func (e env) watch(ctx context.Context, metricsAddr string) error {
	var m *metrics.Channel
	if metricsAddr != "" {
		reg := prometheus.NewRegistry()
		m = metrics.NewChannel(reg)
		srv := &http.Server{Addr: metricsAddr, Handler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{})}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				e.logger.Error("metrics server stopped", zap.Error(err))
			}
		}()
		defer func() { _ = srv.Close() }()
	}

	session := client.NewSession(e.cfg, sse.NewHTTPDialer(e.cfg.StreamURL()), e.tokens, e.logger, m)
	session.Start(ctx)
	defer session.Close()

	wallet := api.NewWalletClient(e.cfg.APIBaseURL, e.tokens, e.logger)
	return e.runUI(ctx, session, wallet, e.logger)
}

func formErr(err error) error {
	if errors.Is(err, huh.ErrUserAborted) {
		return errors.New("cancelled")
	}
	return err
}

func defaultLogPath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return filepath.Join("logs", "wallet.log")
	}
	return filepath.Join(dir, "wallet-live", "wallet.log")
}
