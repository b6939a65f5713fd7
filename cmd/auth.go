package cmd

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nguyentranbao-ct/reuse/internal/models"
	"github.com/nguyentranbao-ct/reuse/internal/usecase"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the session stored on this device",
}

var credentials struct {
	name, email, password, picture string
}

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and remember the session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var auth usecase.AuthUsecase
		stop, err := withApp(cmd, &auth)
		if err != nil {
			return err
		}
		defer stop()

		session, err := auth.Login(cmd.Context(), credentials.email, credentials.password)
		if err != nil {
			return err
		}
		return render(cmd.OutOrStdout(), session, sessionView(session))
	},
}

var authRegisterCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account and remember the session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		req := models.RegisterRequest{
			Name:     credentials.name,
			Email:    credentials.email,
			Password: credentials.password,
		}
		if credentials.picture != "" {
			upload, closeUpload, err := openUpload(credentials.picture)
			if err != nil {
				return err
			}
			defer closeUpload()
			req.ProfilePicture = upload
		}

		var auth usecase.AuthUsecase
		stop, err := withApp(cmd, &auth)
		if err != nil {
			return err
		}
		defer stop()

		session, err := auth.Register(cmd.Context(), req)
		if err != nil {
			return err
		}
		return render(cmd.OutOrStdout(), session, sessionView(session))
	},
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var auth usecase.AuthUsecase
		stop, err := withApp(cmd, &auth)
		if err != nil {
			return err
		}
		defer stop()

		if err := auth.Logout(cmd.Context()); err != nil {
			return err
		}
		return render(cmd.OutOrStdout(), map[string]string{"status": "logged out"}, messageView("status", "logged out"))
	},
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check whether the stored session is still accepted",
	Long: `Check the stored token with the server. A token the server rejects is forgotten;
when the server cannot be reached the token is trusted.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var auth usecase.AuthUsecase
		stop, err := withApp(cmd, &auth)
		if err != nil {
			return err
		}
		defer stop()

		valid, err := auth.ValidateToken(cmd.Context())
		if err != nil {
			return err
		}
		status := "logged out"
		if valid {
			status = "logged in"
		}
		return render(cmd.OutOrStdout(), map[string]any{"valid": valid, "status": status}, messageView("status", status))
	},
}

var authWhoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the user of the stored session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var auth usecase.AuthUsecase
		stop, err := withApp(cmd, &auth)
		if err != nil {
			return err
		}
		defer stop()

		session, err := auth.CurrentSession(cmd.Context())
		if err != nil {
			return err
		}
		return render(cmd.OutOrStdout(), session.User, sessionView(session))
	},
}

// openUpload opens path for a multipart upload.
func openUpload(path string) (*models.Upload, func(), error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", path, err)
	}
	return &models.Upload{
		FileName:    filepath.Base(path),
		ContentType: mime.TypeByExtension(filepath.Ext(path)),
		Content:     f,
	}, func() { _ = f.Close() }, nil
}

func init() {
	authLoginCmd.Flags().StringVarP(&credentials.email, "email", "e", "", "account email")
	authLoginCmd.Flags().StringVarP(&credentials.password, "password", "p", "", "account password")
	_ = authLoginCmd.MarkFlagRequired("email")
	_ = authLoginCmd.MarkFlagRequired("password")

	authRegisterCmd.Flags().StringVarP(&credentials.name, "name", "n", "", "display name")
	authRegisterCmd.Flags().StringVarP(&credentials.email, "email", "e", "", "account email")
	authRegisterCmd.Flags().StringVarP(&credentials.password, "password", "p", "", "account password")
	authRegisterCmd.Flags().StringVar(&credentials.picture, "picture", "", "profile picture file")
	_ = authRegisterCmd.MarkFlagRequired("name")
	_ = authRegisterCmd.MarkFlagRequired("email")
	_ = authRegisterCmd.MarkFlagRequired("password")

	authCmd.AddCommand(authLoginCmd, authRegisterCmd, authLogoutCmd, authStatusCmd, authWhoamiCmd)
}
