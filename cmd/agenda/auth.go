package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"agendafacil/internal/config"
	"agendafacil/internal/session"
)

func loginCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "login <username>",
		Short: "Authenticate against the Agenda Fácil server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(*cfgPath)
			if err != nil {
				return err
			}
			password, err := readPassword("Password: ")
			if err != nil {
				return err
			}
			if err := app.gw.Login(cmd.Context(), args[0], password); err != nil {
				return err
			}
			fmt.Println("logged in")
			return nil
		},
	}
}

func registerCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "register <username>",
		Short: "Create an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(*cfgPath)
			if err != nil {
				return err
			}
			password, err := readPassword("Password: ")
			if err != nil {
				return err
			}
			if err := app.gw.Register(cmd.Context(), args[0], password); err != nil {
				return err
			}
			fmt.Println("registered, now run 'agenda login'")
			return nil
		},
	}
}

func logoutCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Drop the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := *cfgPath
			if path == "" {
				path = config.DefaultPath()
			}
			cfg, err := config.Load(path)
			if err != nil {
				return err
			}
			sess, err := session.NewFromFile(cfg.Auth.TokenFile)
			if err != nil {
				return err
			}
			sess.Terminate()
			fmt.Println("logged out")
			return nil
		},
	}
}

func readPassword(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		b, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
	// Piped input (tests, scripts).
	var line string
	if _, err := fmt.Fscanln(os.Stdin, &line); err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
