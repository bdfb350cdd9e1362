package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/reallifegames/localauth/internal/data"
	"github.com/reallifegames/localauth/internal/service"
)

func newUserCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage accounts directly in the database",
	}
	cmd.AddCommand(newUserCreateCmd(a))
	return cmd
}

type userCreateOptions struct {
	Username      string
	Admin         bool
	Active        bool
	PasswordStdin bool
}

func newUserCreateCmd(a *app) *cobra.Command {
	var opts userCreateOptions
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an account, e.g. the first administrator",
		RunE: func(cmd *cobra.Command, _ []string) error {
			password, err := readPassword(cmd.InOrStdin(), cmd.ErrOrStderr(), opts.PasswordStdin)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			pool, err := a.connect(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			users := service.NewUserService(service.UserServiceOptions{
				Repo:   data.NewUserRepo(pool),
				Hasher: service.NewPasswordHasher(a.cfg.Auth.BcryptCost),
				Logger: a.logger,
			})
			if err := users.Create(ctx, service.CreateUserInput{
				Username: opts.Username,
				Password: password,
				Admin:    opts.Admin,
				Active:   opts.Active,
			}); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created user %s (admin=%t active=%t)\n", opts.Username, opts.Admin, opts.Active)
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.Username, "username", "", "Account name (max 25 characters)")
	cmd.Flags().BoolVar(&opts.Admin, "admin", false, "Grant the admin flag")
	cmd.Flags().BoolVar(&opts.Active, "active", true, "Allow the account to log in")
	cmd.Flags().BoolVar(&opts.PasswordStdin, "password-stdin", false, "Read the password from stdin instead of prompting")
	_ = cmd.MarkFlagRequired("username")
	return cmd
}

// readPassword prompts on a terminal without echo, or reads the first line of in.
func readPassword(in io.Reader, prompt io.Writer, fromStdin bool) (string, error) {
	if f, ok := in.(*os.File); ok && !fromStdin && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(prompt, "Password: ")
		first, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(prompt)
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		fmt.Fprint(prompt, "Confirm password: ")
		second, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(prompt)
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		if string(first) != string(second) {
			return "", errors.New("passwords do not match")
		}
		return string(first), nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read password: %w", err)
	}
	password := strings.TrimRight(line, "\r\n")
	if password == "" {
		return "", errors.New("password cannot be empty")
	}
	return password, nil
}
