package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/ridoystarlord/formgen/compiler"
	"github.com/ridoystarlord/formgen/diff"
	"github.com/ridoystarlord/formgen/introspect"
)

// dbSchema holds the form tables; generated SQL does not qualify names.
const dbSchema = "public"

var diffCmd = &cobra.Command{
	Use:   "diff <form>",
	Short: "Show differences between a form and the database",
	Long: `Show the tables and columns a compiled form needs that the database does
not have yet, and existing columns whose type does not match.

Examples:
  formgen diff form.xlsx
  formgen diff form.xlsx --language fr
`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig()
		if err != nil {
			fmt.Printf("❌ Error loading config: %v\n", err)
			os.Exit(1)
		}
		p, err := compileForm(args[0], cfg, "", consoleSink{verbose: verbose})
		if err != nil {
			os.Exit(1)
		}

		ctx := context.Background()
		pool, err := connect(ctx)
		if err != nil {
			fmt.Printf("❌ Error connecting to database: %v\n", err)
			os.Exit(1)
		}

		operations, conflicts, err := plan(ctx, pool, p)
		if err != nil {
			fmt.Printf("❌ Error introspecting database: %v\n", err)
			os.Exit(1)
		}

		if len(operations) == 0 && len(conflicts) == 0 {
			fmt.Println("✅ No differences found between form and database")
			return
		}
		showTextDiff(operations)
		showConflicts(conflicts)
	},
}

// plan compares p with the tables already in the database.
func plan(ctx context.Context, pool *pgxpool.Pool, p *compiler.Project) ([]diff.Operation, []string, error) {
	existing, err := introspect.IntrospectDatabase(ctx, pool, dbSchema)
	if err != nil {
		return nil, nil, err
	}
	return diff.DiffSchemas(p, existing), diff.Conflicts(p, existing), nil
}

func showTextDiff(operations []diff.Operation) {
	green := color.New(color.FgGreen, color.Bold)
	blue := color.New(color.FgBlue, color.Bold)
	cyan := color.New(color.FgCyan)

	fmt.Println("📋 Schema Changes")
	fmt.Println(strings.Repeat("=", 50))

	for _, op := range operations {
		switch op.Type {
		case diff.CreateTable:
			green.Printf("➕ CREATE TABLE %s\n", op.TableName)
			for _, col := range op.Columns {
				cyan.Printf("   %s %s\n", col.Name, col.Type)
			}
		case diff.CreateChoiceTable:
			green.Printf("➕ CREATE CHOICE TABLE %s", op.TableName)
			fmt.Printf(" (%d choices)\n", op.List.Len())
		case diff.AddColumn:
			blue.Printf("➕ ADD COLUMN %s.%s", op.TableName, op.Column.Name)
			fmt.Printf(" %s\n", op.Column.Type)
		case diff.RefreshChoices:
			cyan.Printf("🔄 REFRESH CHOICES %s (%d choices)\n", op.TableName, op.List.Len())
		}
	}

	fmt.Printf("\n📊 Summary: %d operation(s)\n", len(operations))
}

func showConflicts(conflicts []string) {
	if len(conflicts) == 0 {
		return
	}
	yellow := color.New(color.FgYellow)
	fmt.Printf("\n🟡 Conflicts (%d):\n", len(conflicts))
	for i, c := range conflicts {
		yellow.Printf("  %d. %s\n", i+1, c)
	}
}
