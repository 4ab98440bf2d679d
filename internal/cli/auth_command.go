package cli

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/yuwenzhijiao/showcase/internal/client"
)

type credentials struct {
	Email    string
	Password string
}

func (c *credentials) registerFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&c.Email, "email", "", "Account email")
	cmd.Flags().StringVar(&c.Password, "password", "", "Account password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
}

func NewLoginCommand(globalOptions *GlobalOptions) *cobra.Command {
	creds := &credentials{}

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and print the role and access token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAuth(cmd, func(ctx context.Context, c *client.Client) (client.AuthResult, error) {
				return c.Login(ctx, creds.Email, creds.Password)
			}, globalOptions)
		},
	}
	creds.registerFlags(cmd)

	return cmd
}

func NewRegisterCommand(globalOptions *GlobalOptions) *cobra.Command {
	creds := &credentials{}

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and print the role and access token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAuth(cmd, func(ctx context.Context, c *client.Client) (client.AuthResult, error) {
				return c.Register(ctx, creds.Email, creds.Password)
			}, globalOptions)
		},
	}
	creds.registerFlags(cmd)

	return cmd
}

func runAuth(cmd *cobra.Command, call func(context.Context, *client.Client) (client.AuthResult, error), globalOptions *GlobalOptions) error {
	res, err := call(commandContext(cmd), globalOptions.client())
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), res)
}
