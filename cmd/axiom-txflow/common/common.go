package common

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/common-nighthawk/go-figure"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	"golang.org/x/term"

	"github.com/axiomesh/axiom-txflow/internal/backend"
	"github.com/axiomesh/axiom-txflow/internal/console"
	"github.com/axiomesh/axiom-txflow/internal/engine"
	"github.com/axiomesh/axiom-txflow/pkg/loggers"
	"github.com/axiomesh/axiom-txflow/pkg/repo"
)

var KeystorePasswordFlagVar string

func KeystorePasswordFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:        "password",
		Usage:       "Sender keystore password",
		EnvVars:     []string{repo.SenderKeystorePasswordEnvVar},
		Destination: &KeystorePasswordFlagVar,
		Aliases:     []string{"pwd"},
		Required:    false,
	}
}

func EnterPassword() (string, error) {
	fmt.Println("enter the password for sender keystore:")
	passwordBytes, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		return "", errors.Wrap(err, "can not read password")
	}
	return strings.ReplaceAll(string(passwordBytes), "\n", ""), nil
}

func Pretty(d any) error {
	res, err := json.MarshalIndent(d, "", "\t")
	if err != nil {
		return err
	}
	fmt.Println(string(res))
	return nil
}

func Exist(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func GetRootPath(ctx *cli.Context) (string, error) {
	p := ctx.String("repo")

	var err error
	if p == "" {
		p, err = repo.LoadRepoRootFromEnv(p)
		if err != nil {
			return "", err
		}
	}
	return p, nil
}

func PrepareRepo(ctx *cli.Context) (*repo.Repo, error) {
	p, err := GetRootPath(ctx)
	if err != nil {
		return nil, err
	}
	if !Exist(filepath.Join(p, repo.CfgFileName)) {
		return nil, errors.New("axiom-txflow repo not exist, please execute 'config generate' first")
	}

	r, err := repo.Load(p)
	if err != nil {
		return nil, err
	}
	if url := ctx.String("rpc"); url != "" {
		r.Config.RPC.URL = url
	}
	if err := r.Config.Validate(); err != nil {
		return nil, err
	}

	if err := loggers.Initialize(ctx.Context, r); err != nil {
		return nil, err
	}
	return r, nil
}

// Session is everything one tx command needs: a loaded repo, a connected
// backend and the engine on top of it.
type Session struct {
	Repo    *repo.Repo
	Sender  ethcommon.Address
	Backend *backend.EthBackend
	Engine  *engine.Engine
	Console *console.Console

	logger  logrus.FieldLogger
	cancel  context.CancelFunc
	monitor *http.Server
}

func PrepareSession(ctx *cli.Context) (*Session, error) {
	r, err := PrepareRepo(ctx)
	if err != nil {
		return nil, err
	}

	password := KeystorePasswordFlagVar
	if r.Config.Sender.Keystore != "" && r.Config.Sender.PrivateKey == "" && !ctx.IsSet(KeystorePasswordFlag().Name) {
		password, err = EnterPassword()
		if err != nil {
			return nil, err
		}
	}
	sk, err := r.SenderKey(password)
	if err != nil {
		return nil, err
	}
	sender, err := r.SenderAddress(sk)
	if err != nil {
		return nil, err
	}

	log := loggers.Logger(loggers.App)
	fig := figure.NewFigure(repo.AppName, "slant", true)
	log.Infof(`
=========================================================================================
%s
=========================================================================================
`, fig.String())
	r.PrintRepoInfo(func(c string) {
		log.Info(c)
	})

	b, err := backend.Dial(ctx.Context, r.Config.RPC.URL, r.Config.RPC.DialTimeout.ToDuration(), sk, loggers.Logger(loggers.Backend))
	if err != nil {
		return nil, err
	}

	e := engine.New(b, engine.NewConfig(r.Config), loggers.Logger(loggers.Engine))
	s := &Session{
		Repo:    r,
		Sender:  sender,
		Backend: b,
		Engine:  e,
		Console: console.New(e.FlowControl(), os.Stdin, os.Stdout, loggers.Logger(loggers.Console)),
		logger:  log,
	}

	consoleCtx, cancel := context.WithCancel(ctx.Context)
	s.cancel = cancel
	go func() {
		if err := s.Console.Run(consoleCtx); err != nil {
			log.WithField("err", err).Warn("Operator console stopped")
		}
	}()
	handleSignals(consoleCtx, s.Console, log)

	if r.Config.Monitor.Enable {
		s.startMonitor()
	}
	return s, nil
}

func (s *Session) startMonitor() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	s.monitor = &http.Server{
		Addr:              fmt.Sprintf(":%d", s.Repo.Config.Monitor.Port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		s.logger.WithField("port", s.Repo.Config.Monitor.Port).Info("Start monitor")
		if err := s.monitor.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.WithField("err", err).Error("Monitor stopped")
		}
	}()
}

func (s *Session) Close() {
	s.cancel()
	if s.monitor != nil {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		if err := s.monitor.Shutdown(ctx); err != nil {
			s.logger.WithField("err", err).Warn("Shutdown monitor failed")
		}
	}
	s.Backend.Close()
}
