package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jhoicas/Taller-api/internal/bootstrap"
	"github.com/jhoicas/Taller-api/internal/domain"
	"github.com/jhoicas/Taller-api/internal/infrastructure/scanner"
	"github.com/jhoicas/Taller-api/pkg/barcode"
)

// InventoryCmd exporta el inventario y busca artículos con el lector de códigos.
func InventoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inventory",
		Short: "Exportar inventario y buscar por código de barras",
	}

	export := &cobra.Command{
		Use:   "export",
		Short: "Generar el PDF del inventario",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dir, _ := cmd.Flags().GetString("out")
			return withContainer(cmd, func(ctx context.Context, c *bootstrap.Container) error {
				name, data, err := c.InventoryUC.ExportPDF(ctx)
				if err != nil {
					return fmt.Errorf("exportar inventario: %w", err)
				}
				return writeReport(dir, name, data)
			})
		},
	}
	export.Flags().StringP("out", "o", ".", "directorio destino")

	scan := &cobra.Command{
		Use:   "scan",
		Short: "Leer códigos desde la entrada estándar (lector USB) y mostrar el artículo",
		Long: `Cada línea es un código. Una línea vacía o Ctrl-D termina.
Los códigos que no cumplen el formato o no existen se informan y la lectura continúa.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			names, _ := cmd.Flags().GetStringSlice("format")
			formats := make([]barcode.Format, 0, len(names))
			for _, n := range names {
				f, err := barcode.ParseFormat(n)
				if err != nil {
					return err
				}
				formats = append(formats, f)
			}
			return withContainer(cmd, func(ctx context.Context, c *bootstrap.Container) error {
				reader := scanner.NewLine(os.Stdin)
				for {
					out, err := c.InventoryUC.Scan(ctx, reader, formats)
					switch {
					case err == nil:
						fmt.Printf("%s %s [%s] %s  cant. %d  $%s\n",
							okMark, out.Code, out.Format, out.Item.Name, out.Item.Quantity, out.Item.Price.StringFixed(2))
					case errors.Is(err, domain.ErrScanCancelled):
						return nil
					case errors.Is(err, domain.ErrInvalidBarcode), errors.Is(err, domain.ErrNotFound):
						fmt.Printf("%s %v\n", warnMark, err)
					default:
						return err
					}
				}
			})
		},
	}
	scan.Flags().StringSlice("format", nil, "formatos aceptados (ean13, code128...); por defecto todos")

	cmd.AddCommand(export, scan)
	return cmd
}

// SaleCmd genera comprobantes de venta.
func SaleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sale",
		Short: "Comprobantes de venta",
	}
	receipt := &cobra.Command{
		Use:   "receipt <id>",
		Short: "Generar el PDF del comprobante de una venta",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("out")
			return withContainer(cmd, func(ctx context.Context, c *bootstrap.Container) error {
				name, data, err := c.SaleUC.Receipt(ctx, args[0])
				if err != nil {
					return fmt.Errorf("generar comprobante: %w", err)
				}
				return writeReport(dir, name, data)
			})
		},
	}
	receipt.Flags().StringP("out", "o", ".", "directorio destino")
	cmd.AddCommand(receipt)
	return cmd
}

func writeReport(dir, name string, data []byte) error {
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("escribir %s: %w", path, err)
	}
	fmt.Printf("%s %s (%d bytes)\n", okMark, path, len(data))
	return nil
}
