package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"

	"github.com/spec-kit/support-desk/internal/boundary"
	"github.com/spec-kit/support-desk/internal/bootstrap"
	"github.com/spec-kit/support-desk/internal/config"
	"github.com/spec-kit/support-desk/internal/observability"
)

const drainTimeout = 30 * time.Second

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type cli struct {
	desk *bootstrap.Desk
}

// execute runs one command and always releases the desk afterwards, even
// when the command fails.
func execute(ctx context.Context, args []string, out io.Writer) error {
	root, c := newRootCmd()
	defer c.close()
	root.SetArgs(args)
	root.SetOut(out)
	root.SetErr(out)
	return root.ExecuteContext(ctx)
}

func newRootCmd() (*cobra.Command, *cli) {
	c := &cli{}
	root := &cobra.Command{
		Use:           "deskctl",
		Short:         "Operate the IT support desk from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.open(cmd.Context())
		},
	}
	root.AddCommand(
		c.registerCmd(),
		c.loginCmd(),
		c.submitCmd(),
		c.listCmd(),
		c.setStatusCmd(),
	)
	return root, c
}

func (c *cli) open(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		return err
	}
	desk, err := bootstrap.New(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	desk.Start(ctx)
	c.desk = desk
	return nil
}

// close waits for queued notifications before releasing the store.
func (c *cli) close() {
	if c.desk == nil {
		return
	}
	c.desk.Shutdown(drainTimeout)
	_ = c.desk.Logger.Sync()
	c.desk = nil
}

func (c *cli) registerCmd() *cobra.Command {
	var req boundary.RegisterRequest
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a user account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res := c.desk.Boundary.Register(cmd.Context(), req)
			return printResult(cmd.OutOrStdout(), res)
		},
	}
	cmd.Flags().StringVar(&req.Name, "name", "", "Full name")
	cmd.Flags().StringVar(&req.Email, "email", "", "Email address")
	cmd.Flags().StringVar(&req.Password, "password", "", "Password")
	cmd.Flags().StringVar(&req.Department, "department", "", "Department")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func (c *cli) loginCmd() *cobra.Command {
	var req boundary.LoginRequest
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Check credentials and print the matching user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			user := c.desk.Boundary.Login(cmd.Context(), req)
			if err := printJSON(cmd.OutOrStdout(), user); err != nil {
				return err
			}
			if user == nil {
				return errors.New("invalid email or password")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&req.Email, "email", "", "Email address")
	cmd.Flags().StringVar(&req.Password, "password", "", "Password")
	return cmd
}

func (c *cli) submitCmd() *cobra.Command {
	var (
		req    boundary.CreateTicketRequest
		userID int64
	)
	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit a ticket",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var session *boundary.Session
			if cmd.Flags().Changed("user-id") {
				session = &boundary.Session{UserID: userID}
			}
			res := c.desk.Boundary.CreateTicket(cmd.Context(), session, req)
			return printResult(cmd.OutOrStdout(), res)
		},
	}
	cmd.Flags().Int64Var(&userID, "user-id", 0, "Owner of the ticket")
	cmd.Flags().StringVar(&req.Name, "name", "", "Reporter name")
	cmd.Flags().StringVar(&req.Department, "department", "", "Reporter department")
	cmd.Flags().StringVar(&req.Issue, "issue", "", "Issue description")
	cmd.Flags().StringVar(&req.Priority, "priority", "", "Ignored; priority is derived from the issue text")
	return cmd
}

func (c *cli) listCmd() *cobra.Command {
	var userID int64
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tickets, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var filter *int64
			if cmd.Flags().Changed("user-id") {
				filter = &userID
			}
			return printJSON(cmd.OutOrStdout(), c.desk.Boundary.FetchTickets(cmd.Context(), filter))
		},
	}
	cmd.Flags().Int64Var(&userID, "user-id", 0, "Only tickets owned by this user")
	return cmd
}

func (c *cli) setStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-status <id> <status>",
		Short: "Set a ticket status (Pending, In Progress, Solved)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid ticket id %q", args[0])
			}
			res := c.desk.Boundary.UpdateStatus(cmd.Context(), boundary.UpdateStatusRequest{ID: id, Status: args[1]})
			return printResult(cmd.OutOrStdout(), res)
		},
	}
}

func printResult(w io.Writer, res boundary.Result) error {
	if err := printJSON(w, res); err != nil {
		return err
	}
	if !res.Success {
		return errors.New(res.Message)
	}
	return nil
}

func printJSON(w io.Writer, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}
