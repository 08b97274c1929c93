package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check database connectivity",
	Long: `Check that the database is reachable, that PostGIS is available for
geometry columns and how many forms were deployed.

Examples:
  formgen health                    # Check the configured database
  formgen health --timeout 10s      # Set a custom timeout
`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := checkDatabaseHealth(); err != nil {
			fmt.Printf("❌ Database health check failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("✅ Database is healthy and accessible")
	},
}

var healthTimeout time.Duration

func init() {
	healthCmd.Flags().DurationVarP(&healthTimeout, "timeout", "t", 5*time.Second, "Timeout for health check")
}

func checkDatabaseHealth() error {
	ctx, cancel := context.WithTimeout(context.Background(), healthTimeout)
	defer cancel()

	pool, err := connect(ctx)
	if err != nil {
		return err
	}

	var postgis bool
	query := `SELECT EXISTS (SELECT FROM pg_available_extensions WHERE name = 'postgis')`
	if err := pool.QueryRow(ctx, query).Scan(&postgis); err != nil {
		return fmt.Errorf("failed to check postgis: %w", err)
	}
	if !postgis {
		fmt.Println("⚠️  PostGIS is not available: forms with geometry cannot be applied")
	}

	var tableExists bool
	query = `SELECT EXISTS (
		SELECT FROM information_schema.tables
		WHERE table_schema = 'public'
		AND table_name = 'form_deployments'
	)`
	if err := pool.QueryRow(ctx, query).Scan(&tableExists); err != nil {
		return fmt.Errorf("failed to check form_deployments table: %w", err)
	}
	if !tableExists {
		fmt.Println("ℹ️  No form has been applied yet")
		return nil
	}

	var count int
	if err := pool.QueryRow(ctx, "SELECT COUNT(*) FROM form_deployments WHERE status = 'success'").Scan(&count); err != nil {
		return fmt.Errorf("failed to count deployments: %w", err)
	}
	fmt.Printf("📊 Found %d successful deployment(s)\n", count)
	return nil
}
