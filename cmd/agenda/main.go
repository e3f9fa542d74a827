package main

import (
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"agendafacil/internal/clock"
	"agendafacil/internal/config"
	"agendafacil/internal/gateway"
	"agendafacil/internal/session"
	"agendafacil/internal/tarefa"
)

var Version = "dev"

func main() {
	var cfgPath string

	rootCmd := &cobra.Command{
		Use:     "agenda",
		Short:   "Agenda Fácil - personal tasks with a weekly calendar",
		Version: Version,
	}
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "config file (default ~/.agendafacil/config.yaml)")

	rootCmd.AddCommand(loginCmd(&cfgPath))
	rootCmd.AddCommand(registerCmd(&cfgPath))
	rootCmd.AddCommand(logoutCmd(&cfgPath))
	rootCmd.AddCommand(listCmd(&cfgPath))
	rootCmd.AddCommand(addCmd(&cfgPath))
	rootCmd.AddCommand(doneCmd(&cfgPath))
	rootCmd.AddCommand(rmCmd(&cfgPath))
	rootCmd.AddCommand(checkCmd(&cfgPath))
	rootCmd.AddCommand(exportCmd(&cfgPath))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// defaultClock is what newApp hands out; tests swap in a FakeClock to pin
// the current day.
var defaultClock clock.Clock = clock.RealClock{}

// app wires config, session, gateway and store for one command run.
type app struct {
	cfg    config.Config
	logger *logrus.Logger
	gw     *gateway.Client
	store  *tarefa.Store
	clock  clock.Clock
}

func newApp(cfgPath string) (*app, error) {
	if cfgPath == "" {
		cfgPath = config.DefaultPath()
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}

	logger := logrus.New()
	if lvl, err := logrus.ParseLevel(cfg.Log.Level); err == nil {
		logger.SetLevel(lvl)
	}
	logger.SetOutput(os.Stderr)

	sess, err := session.NewFromFile(cfg.Auth.TokenFile)
	if err != nil {
		return nil, err
	}
	sess.OnTerminate(func() {
		fmt.Fprintln(os.Stderr, "session expired, run 'agenda login' again")
	})

	gw := gateway.New(cfg.API.BaseURL, sess,
		gateway.WithLogger(logger),
		gateway.WithTimeout(time.Duration(cfg.API.TimeoutSeconds)*time.Second),
	)

	store := tarefa.New(gw,
		tarefa.WithLogger(logger),
		tarefa.WithBatchRecorrente(cfg.Sync.BatchRecorrente),
	)

	return &app{
		cfg:    cfg,
		logger: logger,
		gw:     gw,
		store:  store,
		clock:  defaultClock,
	}, nil
}
