package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/bienesraices/bienesraices-go/internal/config"
	"github.com/bienesraices/bienesraices-go/internal/db"
	"github.com/bienesraices/bienesraices-go/internal/models"
)

func main() {
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "seeder",
		Short: "Seed or reset the Bienes Raíces database",
	}

	rootCmd.AddCommand(importCmd(), destroyCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import",
		Short: "Create the schema and load lookup data plus demo users",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Load()
			conn, err := db.ConnectAndMigrate(cfg.DatabaseDSN)
			if err != nil {
				return err
			}
			if err := db.SeedLookups(conn); err != nil {
				return err
			}
			if err := seedDemoUsers(conn); err != nil {
				return err
			}
			cmd.Println("Datos importados correctamente")
			return nil
		},
	}
}

func destroyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "destroy",
		Short: "Drop every table and recreate the schema empty",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Load()
			conn, err := db.Connect(cfg.DatabaseDSN)
			if err != nil {
				return err
			}
			if err := db.Reset(conn); err != nil {
				return err
			}
			cmd.Println("Datos eliminados correctamente")
			return nil
		},
	}
}

// seedDemoUsers creates confirmed demo accounts for local development.
// Existing emails are skipped so the command stays idempotent.
func seedDemoUsers(conn *gorm.DB) error {
	demo := []struct {
		nombre, email, password string
	}{
		{"Juan", "juan@juan.com", "password"},
		{"Karen", "karen@juan.com", "password"},
	}
	for _, d := range demo {
		var count int64
		if err := conn.Model(&models.User{}).Where("email = ?", d.email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(d.password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		user := models.User{Nombre: d.nombre, Email: d.email, Password: string(hash), Confirmado: true}
		if err := conn.Create(&user).Error; err != nil {
			return err
		}
	}
	return nil
}
