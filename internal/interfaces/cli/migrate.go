package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jhoicas/Taller-api/internal/bootstrap"
	"github.com/jhoicas/Taller-api/internal/infrastructure/migrations"
	"github.com/jhoicas/Taller-api/pkg/config"
	"github.com/jhoicas/Taller-api/pkg/logger"
)

// MigrateCmd agrupa los comandos de goose sobre el backend SQL configurado.
func MigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Aplicar o revisar las migraciones del almacén",
	}
	cmd.AddCommand(
		gooseCmd("up", "Aplicar las migraciones pendientes"),
		gooseCmd("down", "Revertir la última migración"),
		gooseCmd("status", "Mostrar el estado de cada migración"),
	)
	return cmd
}

func gooseCmd(command, short string) *cobra.Command {
	return &cobra.Command{
		Use:   command,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("cargar configuración: %w", err)
			}
			if cfg.Store.Driver == config.StoreDriverMemory {
				fmt.Printf("%s el almacén en memoria no tiene migraciones\n", warnMark)
				return nil
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			db, dialect, closeDB, err := bootstrap.OpenSQL(ctx, cfg)
			if err != nil {
				return err
			}
			defer closeDB()

			// goose imprime el detalle por su logger; sin --verbose solo se ve el resultado.
			log := cliLogger(cmd, cfg)
			if command == "status" {
				log = logger.New(logger.Config{Env: "development", Level: "info"})
			}
			if err := migrations.Run(ctx, db, dialect, log, command); err != nil {
				return err
			}
			fmt.Printf("%s migrate %s (%s)\n", okMark, command, dialect)
			return nil
		},
	}
}
