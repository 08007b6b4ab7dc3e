// alumnictl is the operational command line tool for the alumni registry.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/unicen/alumni-registry/internal/app/models"
	"github.com/unicen/alumni-registry/internal/app/repositories"
	"github.com/unicen/alumni-registry/internal/config"
	"github.com/unicen/alumni-registry/internal/db"
	"github.com/unicen/alumni-registry/internal/pkg/auth"
)

var rootCmd = &cobra.Command{
	Use:   "alumnictl",
	Short: "Operational tooling for the alumni registry",
}

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create an administrator account",
	RunE: func(cmd *cobra.Command, args []string) error {
		firstName, _ := cmd.Flags().GetString("first-name")
		lastName, _ := cmd.Flags().GetString("last-name")
		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")

		if len(password) < 8 {
			return fmt.Errorf("password must be at least 8 characters")
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		pool, err := openPool()
		if err != nil {
			return err
		}
		defer pool.Close()

		hash, err := auth.HashPassword(password)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}

		adminRepo := repositories.NewAdministratorRepository(pool.Pool)
		id, err := adminRepo.Create(ctx, &models.Administrator{
			FirstName: firstName,
			LastName:  lastName,
			Email:     email,
			Password:  hash,
		})
		if err != nil {
			return err
		}

		fmt.Printf("Administrator %d created (%s)\n", id, email)
		return nil
	},
}

var cleanupTokensCmd = &cobra.Command{
	Use:   "cleanup-tokens",
	Short: "Remove expired graduate session tokens",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		pool, err := openPool()
		if err != nil {
			return err
		}
		defer pool.Close()

		tokenRepo := repositories.NewSessionTokenRepository(pool.Pool)
		removed, err := tokenRepo.CleanupExpired(ctx)
		if err != nil {
			return err
		}

		fmt.Printf("Removed %d expired session tokens\n", removed)
		return nil
	},
}

func openPool() (*db.PostgresDB, error) {
	cfg, err := config.LoadConfig(filepath.Join("configs", "config.yaml"))
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return db.NewPostgresDB(cfg)
}

func init() {
	createAdminCmd.Flags().String("first-name", "", "administrator first name")
	createAdminCmd.Flags().String("last-name", "", "administrator last name")
	createAdminCmd.Flags().String("email", "", "administrator email")
	createAdminCmd.Flags().String("password", "", "administrator password")
	_ = createAdminCmd.MarkFlagRequired("first-name")
	_ = createAdminCmd.MarkFlagRequired("last-name")
	_ = createAdminCmd.MarkFlagRequired("email")
	_ = createAdminCmd.MarkFlagRequired("password")

	rootCmd.AddCommand(createAdminCmd)
	rootCmd.AddCommand(cleanupTokensCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
