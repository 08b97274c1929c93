package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ridoystarlord/formgen/runner"
)

var (
	historyLimit    int
	historyForm     string
	historyDetailed bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show form deployment history",
	Long: `Show the forms applied to the database with timestamps, execution times
and user information.

Examples:
  formgen history                    # Show all deployments
  formgen history --limit 10         # Show the last 10 deployments
  formgen history --form households  # Show deployments of one form id
  formgen history --detailed         # Show detailed information
`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		pool, err := connect(ctx)
		if err != nil {
			fmt.Printf("❌ Error connecting to database: %v\n", err)
			os.Exit(1)
		}

		history, err := runner.History(ctx, pool, historyLimit, historyForm)
		if err != nil {
			fmt.Printf("❌ Error getting deployment history: %v\n", err)
			os.Exit(1)
		}

		if len(history) == 0 {
			fmt.Println("📋 No deployment history found")
			return
		}

		fmt.Println("📋 Deployment History")
		fmt.Println(strings.Repeat("=", 60))
		if historyDetailed {
			showDetailedHistory(history)
		} else {
			showSummaryHistory(history)
		}
	},
}

func statusMark(status string) string {
	switch status {
	case runner.StatusSuccess:
		return color.New(color.FgGreen, color.Bold).Sprint("✅")
	case runner.StatusFailed:
		return color.New(color.FgRed, color.Bold).Sprint("❌")
	default:
		return color.New(color.FgYellow, color.Bold).Sprint("⚠️")
	}
}

func showDetailedHistory(history []runner.DeploymentRecord) {
	red := color.New(color.FgRed, color.Bold)
	blue := color.New(color.FgBlue, color.Bold)
	cyan := color.New(color.FgCyan)

	for i, record := range history {
		fmt.Printf("\n%d. %s ", i+1, statusMark(record.Status))
		blue.Printf("%s (%s)\n", record.Title, record.FormID)

		cyan.Printf("   📅 Executed: %s\n", record.ExecutedAt.Format("2006-01-02 15:04:05"))
		if record.ExecutionTime > 0 {
			cyan.Printf("   ⏱️  Duration: %v\n", record.ExecutionTime)
		}
		if record.ExecutedBy != "" {
			cyan.Printf("   👤 User: %s\n", record.ExecutedBy)
		}
		cyan.Printf("   📊 Status: %s, %d statement(s)\n", record.Status, record.StatementCount)
		if record.TablesAffected != "" {
			cyan.Printf("   🗂️  Tables: %s\n", record.TablesAffected)
		}
		if record.Status == runner.StatusFailed && record.ErrorMessage != "" {
			red.Printf("   💥 Error: %s\n", record.ErrorMessage)
		}
		if len(record.Checksum) >= 8 {
			cyan.Printf("   🔍 Checksum: %s\n", record.Checksum[:8]+"...")
		}
	}
}

func showSummaryHistory(history []runner.DeploymentRecord) {
	blue := color.New(color.FgBlue, color.Bold)

	fmt.Printf("%-4s %-8s %-25s %-12s %-10s %s\n", "ID", "Status", "Form", "Duration", "User", "Date")
	fmt.Println(strings.Repeat("-", 80))

	successCount, failedCount := 0, 0
	totalDuration := time.Duration(0)

	for i, record := range history {
		duration := "N/A"
		if record.ExecutionTime > 0 {
			duration = record.ExecutionTime.String()
			totalDuration += record.ExecutionTime
		}

		user := record.ExecutedBy
		if user == "" {
			user = "N/A"
		}

		name := record.FormID
		if len(name) > 23 {
			name = name[:20] + "..."
		}

		switch record.Status {
		case runner.StatusSuccess:
			successCount++
		case runner.StatusFailed:
			failedCount++
		}

		fmt.Printf("%-4d %-8s %-25s %-12s %-10s %s\n",
			i+1,
			statusMark(record.Status),
			blue.Sprint(name),
			duration,
			user,
			record.ExecutedAt.Format("2006-01-02 15:04"),
		)
	}

	fmt.Println(strings.Repeat("-", 80))
	fmt.Printf("📊 Summary: %d total, %d successful, %d failed\n",
		len(history), successCount, failedCount)
	if totalDuration > 0 {
		fmt.Printf("⏱️  Total execution time: %v\n", totalDuration)
	}
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "l", 0, "Limit number of records to show (0 = all)")
	historyCmd.Flags().StringVarP(&historyForm, "form", "F", "", "Filter by form id")
	historyCmd.Flags().BoolVarP(&historyDetailed, "detailed", "d", false, "Show detailed information")
}
