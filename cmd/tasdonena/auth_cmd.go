package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tasdonena/admin-console/modules/core/domain/aggregates/registration"
	"github.com/tasdonena/admin-console/modules/core/domain/aggregates/session"
	coreservices "github.com/tasdonena/admin-console/modules/core/services"
	"github.com/tasdonena/admin-console/pkg/apiclient"
	"github.com/tasdonena/admin-console/pkg/routing"
	"github.com/tasdonena/admin-console/pkg/serrors"
)

const msgRegistered = "Registration successful. Enter the 6-digit code sent to %s to verify your email."

func (c *cli) newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "auth",
		Short:             "Sign in, register and recover an account",
		PersistentPreRunE: c.guarded(routing.LoginPath),
	}
	cmd.AddCommand(
		c.newLoginCmd(),
		c.newRegisterCmd(),
		c.newVerifyEmailCmd(),
		c.newResendOTPCmd(),
		c.newForgotPasswordCmd(),
		c.newResetPasswordCmd(),
	)
	return cmd
}

// secret returns value or, on a terminal, asks for it.
func (c *cli) secret(value, label string) (string, error) {
	if value != "" || !c.confirmer.terminal {
		return value, nil
	}
	return c.confirmer.ask(label + ": ")
}

func loginFailure(res session.LoginResult) error {
	if notice, ok := res.BlockingNotice(); ok {
		return withCode(exitAPI, fmt.Errorf("%s: %s", notice.Title, notice.Body))
	}
	switch res.Error {
	case registration.MsgFillAllFields:
		return withCode(exitValidation, errors.New(res.Error))
	case apiclient.ConnectionMessage:
		return withCode(exitTransport, errors.New(res.Error))
	}
	return withCode(exitAPI, errors.New(res.Error))
}

func (c *cli) login(cmd *cobra.Command, email, password string) error {
	res := c.rt.session.Login(cmd.Context(), email, password)
	if !res.Success {
		return loginFailure(res)
	}
	if c.jsonOut {
		return writeJSONLine(c.out, res.User)
	}
	fmt.Fprintf(c.out, "Signed in as %s (%s).\n", res.User.Name, res.User.RoleLabel())
	return nil
}

func (c *cli) newLoginCmd() *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := c.secret(password, "Password")
			if err != nil {
				return err
			}
			return c.login(cmd, email, pw)
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password (prompted when omitted)")
	return cmd
}

func (c *cli) newRegisterCmd() *cobra.Command {
	var dto registration.RegisterDTO
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account pending email verification and approval",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := c.rt.session.Register(cmd.Context(), dto)
			if err != nil {
				if serrors.IsValidation(err) {
					return userError(err, dto.FirstError, "")
				}
				return withCode(classify(err), errors.New(coreservices.RegisterErrorMessage(err)))
			}
			if c.jsonOut {
				return writeJSONLine(c.out, res)
			}
			if res.Message != "" {
				fmt.Fprintln(c.out, res.Message)
			}
			fmt.Fprintf(c.out, msgRegistered+"\n", res.Email)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&dto.Name, "name", "", "full name")
	f.StringVar(&dto.Email, "email", "", "email address")
	f.StringVar(&dto.Password, "password", "", "password")
	f.StringVar(&dto.PasswordConfirmation, "password-confirmation", "", "password again")
	f.StringVar(&dto.EmployeeID, "employee-id", "", "employee ID")
	f.StringVar(&dto.Position, "position", "", "position")
	f.StringVar(&dto.Division, "division", "", "division")
	f.StringVar(&dto.SchoolName, "school", "", "school name")
	return cmd
}

func (c *cli) newVerifyEmailCmd() *cobra.Command {
	var email, otp, password string
	cmd := &cobra.Command{
		Use:   "verify-email",
		Short: "Confirm the 6-digit code sent after registration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.rt.session.VerifyEmail(cmd.Context(), email, otp); err != nil {
				if serrors.IsValidation(err) {
					return userError(err, nil, "")
				}
				return withCode(classify(err), errors.New(coreservices.VerifyErrorMessage(err)))
			}
			fmt.Fprintln(c.out, "Email verified. Your account is awaiting administrator approval.")
			if password == "" {
				return nil
			}
			return c.login(cmd, email, password)
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "registered email")
	cmd.Flags().StringVar(&otp, "otp", "", "6-digit code")
	cmd.Flags().StringVar(&password, "password", "", "sign in right after verifying")
	return cmd
}

func (c *cli) newResendOTPCmd() *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "resend-otp",
		Short: "Send a new verification code",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.rt.session.ResendOTP(cmd.Context(), email); err != nil {
				if serrors.IsValidation(err) {
					return userError(err, nil, "")
				}
				return withCode(classify(err), errors.New(coreservices.ResendErrorMessage(err)))
			}
			fmt.Fprintf(c.out, "A new code has been sent to %s.\n", email)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "registered email")
	return cmd
}

func (c *cli) newForgotPasswordCmd() *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "forgot-password",
		Short: "Request a password reset link",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.rt.session.ForgotPassword(cmd.Context(), email); err != nil {
				if serrors.IsValidation(err) {
					return userError(err, nil, "")
				}
				return withCode(classify(err), errors.New(coreservices.ForgotErrorMessage(err)))
			}
			fmt.Fprintln(c.out, "If an account exists for that email, a reset link has been sent.")
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	return cmd
}

func (c *cli) newResetPasswordCmd() *cobra.Command {
	var dto registration.ResetPasswordDTO
	cmd := &cobra.Command{
		Use:   "reset-password",
		Short: "Set a new password with the token from the reset link",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.rt.session.ResetPassword(cmd.Context(), dto); err != nil {
				if serrors.IsValidation(err) {
					return userError(err, dto.FirstError, "")
				}
				return withCode(classify(err), errors.New(coreservices.ResetErrorMessage(err)))
			}
			fmt.Fprintln(c.out, "Password reset. You can now sign in with your new password.")
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&dto.Email, "email", "", "account email")
	f.StringVar(&dto.Token, "token", "", "reset token")
	f.StringVar(&dto.Password, "password", "", "new password")
	f.StringVar(&dto.PasswordConfirmation, "password-confirmation", "", "new password again")
	return cmd
}

func (c *cli) newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "whoami",
		Short:   "Show the signed-in account",
		Args:    cobra.NoArgs,
		PreRunE: c.guarded(routing.DashboardPath),
		RunE: func(cmd *cobra.Command, args []string) error {
			u := c.rt.session.Snapshot().User
			if c.jsonOut {
				return writeJSONLine(c.out, u)
			}
			return writeTable(c.out, []string{"NAME", "EMAIL", "ROLE", "STATUS"}, [][]string{
				{u.Name, u.Email, u.RoleLabel(), u.DisplayStatus()},
			})
		},
	}
}

func (c *cli) newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "logout",
		Short:   "Sign out and forget the session token",
		Args:    cobra.NoArgs,
		PreRunE: c.guarded(routing.DashboardPath),
		RunE: func(cmd *cobra.Command, args []string) error {
			c.rt.session.Logout(cmd.Context())
			fmt.Fprintln(c.out, "Signed out.")
			return nil
		},
	}
}
