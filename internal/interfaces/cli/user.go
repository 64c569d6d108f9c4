package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jhoicas/Taller-api/internal/application/dto"
	"github.com/jhoicas/Taller-api/internal/bootstrap"
	"github.com/jhoicas/Taller-api/internal/domain"
)

// cliActor identifica las modificaciones hechas desde tallerctl (nunca coincide con un usuario).
const cliActor = "tallerctl"

// UserCmd administra cuentas sin pasar por la API.
func UserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Administrar cuentas del taller",
	}

	create := &cobra.Command{
		Use:   "create <email> <contraseña>",
		Short: "Registrar una cuenta",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			admin, _ := cmd.Flags().GetBool("admin")
			return withContainer(cmd, func(ctx context.Context, c *bootstrap.Container) error {
				u, err := c.UserUC.CreateEmployee(ctx, dto.RegisterRequest{Email: args[0], Password: args[1]})
				if err != nil {
					return fmt.Errorf("crear cuenta: %w", err)
				}
				if admin {
					if u, err = setPrivileged(ctx, c, u.ID, true); err != nil {
						return err
					}
				}
				fmt.Printf("%s cuenta %s creada (%s)\n", okMark, u.Email, u.ID)
				fmt.Printf("  Administrador: %t\n", u.Privileged)
				return nil
			})
		},
	}
	create.Flags().Bool("admin", false, "crear la cuenta con privilegios")

	promote := &cobra.Command{
		Use:   "promote <email>",
		Short: "Otorgar (o retirar con --revoke) privilegios de administrador",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			revoke, _ := cmd.Flags().GetBool("revoke")
			return withContainer(cmd, func(ctx context.Context, c *bootstrap.Container) error {
				cred, err := c.Credentials.GetByEmail(ctx, args[0])
				if errors.Is(err, domain.ErrNotFound) {
					return fmt.Errorf("no existe una cuenta con email %s", args[0])
				}
				if err != nil {
					return err
				}
				u, err := setPrivileged(ctx, c, cred.UserID, !revoke)
				if err != nil {
					return err
				}
				fmt.Printf("%s %s administrador=%t\n", okMark, u.Email, u.Privileged)
				fmt.Printf("%s el cambio aplica en el próximo inicio de sesión\n", warnMark)
				return nil
			})
		},
	}
	promote.Flags().Bool("revoke", false, "retirar privilegios")

	list := &cobra.Command{
		Use:   "list",
		Short: "Listar cuentas",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withContainer(cmd, func(ctx context.Context, c *bootstrap.Container) error {
				users, err := c.UserUC.ListEmployees(ctx)
				if err != nil {
					return err
				}
				if len(users) == 0 {
					fmt.Println("No hay cuentas registradas.")
					return nil
				}
				w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tEMAIL\tADMIN\tALTA")
				for _, u := range users {
					fmt.Fprintf(w, "%s\t%s\t%t\t%s\n", u.ID, u.Email, u.Privileged, u.CreatedAt.Format("2006-01-02"))
				}
				return w.Flush()
			})
		},
	}

	cmd.AddCommand(create, promote, list)
	return cmd
}

func setPrivileged(ctx context.Context, c *bootstrap.Container, id string, privileged bool) (*dto.UserResponse, error) {
	u, err := c.UserUC.UpdateEmployee(ctx, cliActor, id, dto.UpdateEmployeeRequest{Privileged: &privileged})
	if err != nil {
		return nil, fmt.Errorf("actualizar privilegios: %w", err)
	}
	return u, nil
}
