package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/jhoicas/Taller-api/internal/application/repair"
	"github.com/jhoicas/Taller-api/internal/bootstrap"
	"github.com/jhoicas/Taller-api/internal/domain"
)

// RepairCmd consulta reparaciones y cambia su estado.
func RepairCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "repair",
		Short: "Consultar reparaciones y cambiar su estado",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "Listar reparaciones, la más reciente primero",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			status, _ := cmd.Flags().GetString("status")
			return withContainer(cmd, func(ctx context.Context, c *bootstrap.Container) error {
				repairs, err := c.RepairUC.List(ctx, status)
				if err != nil {
					return err
				}
				if len(repairs) == 0 {
					fmt.Println("No hay reparaciones.")
					return nil
				}
				w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tFOLIO\tEQUIPO\tESTADO\tREGISTRO")
				for _, r := range repairs {
					fmt.Fprintf(w, "%s\t%s\t%s %s\t%s\t%s\n",
						r.ID, r.Folio, r.Brand, r.Model, statusColor(r.Status).Sprint(r.StatusLabel), r.RegistrationDateText)
				}
				return w.Flush()
			})
		},
	}
	list.Flags().String("status", "", "filtrar por estado (pendiente, reparacion, entregado)")

	status := &cobra.Command{
		Use:   "status <id> <pendiente|reparacion|entregado>",
		Short: "Cambiar el estado; entregar pide confirmar el cobro",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			yes, _ := cmd.Flags().GetBool("yes")
			var confirmer repair.Confirmer = NewPromptConfirmer(os.Stdin, os.Stdout)
			if yes {
				confirmer = repair.ConfirmFunc(func(context.Context, repair.ConfirmationRequest) (bool, error) { return true, nil })
			}
			return withContainer(cmd, func(ctx context.Context, c *bootstrap.Container) error {
				out, err := c.RepairUC.ChangeStatus(ctx, args[0], args[1], confirmer)
				if repair.IsConfirmationMissing(err) {
					fmt.Printf("%s entrega cancelada, no se escribió nada\n", warnMark)
					return nil
				}
				if out != nil {
					fmt.Printf("  Estado escrito: %t\n", out.StatusWritten)
					fmt.Printf("  Venta escrita:  %t\n", out.SaleWritten)
				}
				if err != nil {
					return fmt.Errorf("cambiar estado: %w", err)
				}
				fmt.Printf("%s %s: %s → %s\n", okMark, out.RepairID, out.PreviousStatus, out.Status)
				if out.Sale != nil {
					fmt.Printf("  Venta %s por $%s\n", out.Sale.Code, out.Sale.Total.StringFixed(2))
				}
				return nil
			})
		},
	}
	status.Flags().BoolP("yes", "y", false, "confirmar la entrega sin preguntar")

	cmd.AddCommand(list, status)
	return cmd
}

func statusColor(s string) *color.Color {
	switch s {
	case "pendiente":
		return color.New(color.FgYellow)
	case "reparacion":
		return color.New(color.FgCyan)
	case "entregado":
		return color.New(color.FgGreen)
	}
	return color.New(color.Reset)
}

// PromptConfirmer pregunta s/n en la terminal antes de entregar.
type PromptConfirmer struct {
	in  *bufio.Reader
	out io.Writer
}

// NewPromptConfirmer construye el confirmador sobre in/out.
func NewPromptConfirmer(in io.Reader, out io.Writer) *PromptConfirmer {
	return &PromptConfirmer{in: bufio.NewReader(in), out: out}
}

// Confirm muestra el monto a liquidar y espera la respuesta. Fin de entrada = no.
func (p *PromptConfirmer) Confirm(ctx context.Context, req repair.ConfirmationRequest) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	fmt.Fprintf(p.out, "Entregar %s (%s).\n", req.ProductLabel, req.RepairID)
	fmt.Fprintf(p.out, "Monto a liquidar: %s\n", color.New(color.Bold).Sprintf("$%s", req.Amount.StringFixed(2)))
	for {
		fmt.Fprint(p.out, "¿Confirmar entrega y cobro? [s/N]: ")
		line, err := p.in.ReadString('\n')
		answer := strings.ToLower(strings.TrimSpace(line))
		switch answer {
		case "s", "si", "sí", "y", "yes":
			return true, nil
		case "", "n", "no":
			if err != nil && !errors.Is(err, io.EOF) {
				return false, fmt.Errorf("%w: %w", domain.ErrTransitionCancelled, err)
			}
			return false, nil
		}
		if err != nil {
			return false, nil
		}
		fmt.Fprintln(p.out, "Responda s o n.")
	}
}
