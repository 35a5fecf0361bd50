package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dukahq/go-duka/auth"
)

var (
	signinEmail    string
	signinPassword string

	signupUsername string
	signupEmail    string
	signupPassword string
	signupPhone    string
)

var signinCmd = &cobra.Command{
	Use:   "signin",
	Short: "Sign in and store the session token",
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := client.Auth().SignIn(cmd.Context(), &auth.SignInRequest{
			Email:    signinEmail,
			Password: signinPassword,
		})
		if err != nil {
			return err
		}
		name := signinEmail
		if res.User != nil && res.User.Username != "" {
			name = res.User.Username
		}
		fmt.Printf("Signed in as %s\n", name)
		return nil
	},
}

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create an account",
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := client.Auth().SignUp(cmd.Context(), &auth.SignUpRequest{
			Username: signupUsername,
			Email:    signupEmail,
			Password: signupPassword,
			Phone:    signupPhone,
		})
		if err != nil {
			return err
		}
		if res.Message != "" {
			fmt.Println(res.Message)
		} else {
			fmt.Println("Account created")
		}
		return nil
	},
}

var signoutCmd = &cobra.Command{
	Use:   "signout",
	Short: "Discard the stored session token",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := client.Auth().SignOut(); err != nil {
			return err
		}
		fmt.Println("Signed out")
		return nil
	},
}

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show the signed-in profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := client.Auth().Profile(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("Username: %s\nEmail: %s\nPhone: %s\n", p.Username, p.Email, p.Phone)
		return nil
	},
}

func init() {
	signinCmd.Flags().StringVar(&signinEmail, "email", "", "account email")
	signinCmd.Flags().StringVar(&signinPassword, "password", "", "account password")
	_ = signinCmd.MarkFlagRequired("email")
	_ = signinCmd.MarkFlagRequired("password")

	signupCmd.Flags().StringVar(&signupUsername, "username", "", "display name")
	signupCmd.Flags().StringVar(&signupEmail, "email", "", "account email")
	signupCmd.Flags().StringVar(&signupPassword, "password", "", "account password")
	signupCmd.Flags().StringVar(&signupPhone, "phone", "", "mobile number, e.g. 0712345678")
	_ = signupCmd.MarkFlagRequired("username")
	_ = signupCmd.MarkFlagRequired("email")
	_ = signupCmd.MarkFlagRequired("password")
	_ = signupCmd.MarkFlagRequired("phone")

	rootCmd.AddCommand(signinCmd, signupCmd, signoutCmd, profileCmd)
}
