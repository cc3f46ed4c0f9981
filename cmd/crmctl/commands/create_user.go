package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/noah-isme/admissions-crm-api/internal/models"
	"github.com/noah-isme/admissions-crm-api/internal/repository"
	"github.com/noah-isme/admissions-crm-api/internal/service"
)

// passwordEnv is read when --password is omitted, keeping secrets out of shell history.
const passwordEnv = "CRM_USER_PASSWORD"

type userCreator interface {
	CreateUser(ctx context.Context, req service.CreateUserRequest) (*models.User, error)
}

func newCreateUserCmd() *cobra.Command {
	var req service.CreateUserRequest
	var role string
	cmd := &cobra.Command{
		Use:   "create-user",
		Short: "Create a dashboard operator or reset an existing one",
		RunE: func(cmd *cobra.Command, _ []string) error {
			req.Role = models.UserRole(role)
			if req.Password == "" {
				req.Password = os.Getenv(passwordEnv)
			}
			auth := service.NewAuthService(repository.NewUserRepository(db), auditService(), newValidator(), logr, service.AuthConfig{
				AccessTokenSecret: cfg.JWT.Secret,
				AccessTokenExpiry: cfg.JWT.Expiration,
				Issuer:            cfg.JWT.Issuer,
			})
			return runCreateUser(cmd.Context(), auth, req, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&req.Email, "email", "", "operator email")
	cmd.Flags().StringVar(&req.FullName, "name", "", "operator full name")
	cmd.Flags().StringVar(&req.Password, "password", "", "password (defaults to $"+passwordEnv+")")
	cmd.Flags().StringVar(&role, "role", string(models.RoleViewer), "admin or viewer")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func runCreateUser(ctx context.Context, creator userCreator, req service.CreateUserRequest, out io.Writer) error {
	user, err := creator.CreateUser(ctx, req)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "user %s (%s) saved with id %s\n", user.Email, user.Role, user.ID)
	return nil
}
