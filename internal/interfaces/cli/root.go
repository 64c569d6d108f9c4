// Package cli implementa tallerctl, la herramienta de administración del taller.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/jhoicas/Taller-api/internal/bootstrap"
	"github.com/jhoicas/Taller-api/pkg/config"
	"github.com/jhoicas/Taller-api/pkg/logger"
)

var (
	okMark   = color.New(color.FgGreen).Sprint("✓")
	warnMark = color.New(color.FgYellow).Sprint("!")
)

// RootCmd arma el árbol de comandos de tallerctl.
func RootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "tallerctl",
		Short: "Administración del taller: migraciones, usuarios, reparaciones e inventario",
		Long: `tallerctl opera directamente sobre el almacén configurado (STORE_DRIVER).
Usa las mismas variables de entorno que la API.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().Bool("verbose", false, "mostrar el log de la aplicación")

	root.AddCommand(MigrateCmd())
	root.AddCommand(UserCmd())
	root.AddCommand(RepairCmd())
	root.AddCommand(InventoryCmd())
	root.AddCommand(SaleCmd())
	return root
}

// cliLogger registra a stderr solo con --verbose.
func cliLogger(cmd *cobra.Command, cfg *config.Config) *logger.Logger {
	verbose, _ := cmd.Flags().GetBool("verbose")
	if !verbose {
		return logger.Nop()
	}
	return logger.New(logger.Config{Env: "development", Level: cfg.App.LogLevel, Out: os.Stderr})
}

// withContainer carga la configuración, abre el contenedor y lo cierra al terminar fn.
func withContainer(cmd *cobra.Command, fn func(ctx context.Context, c *bootstrap.Container) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("cargar configuración: %w", err)
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	c, err := bootstrap.Open(ctx, cfg, cliLogger(cmd, cfg))
	if err != nil {
		return fmt.Errorf("abrir almacén: %w", err)
	}
	defer c.Close()
	return fn(ctx, c)
}
