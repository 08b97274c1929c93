package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/ridoystarlord/formgen/diff"
	"github.com/ridoystarlord/formgen/generator"
	"github.com/ridoystarlord/formgen/runner"
	"github.com/spf13/cobra"
)

var dryRunApply bool

var applyCmd = &cobra.Command{
	Use:   "apply <form>",
	Short: "Create the form's missing tables and columns in the database",
	Long: `Compile a form, compare it with the database and apply the missing
tables, columns and choice lists in a single transaction. Every apply is
recorded in the form_deployments table (see 'formgen history').

Examples:
  formgen apply form.xlsx              # Apply pending changes
  formgen apply form.xlsx --dry-run    # Print the SQL without applying it
`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig()
		if err != nil {
			fmt.Println("❌ Loading config:", err)
			os.Exit(1)
		}
		p, err := compileForm(args[0], cfg, "", consoleSink{verbose: verbose})
		if err != nil {
			os.Exit(1)
		}

		ctx := context.Background()
		pool, err := connect(ctx)
		if err != nil {
			fmt.Println("❌ Connecting to database:", err)
			os.Exit(1)
		}

		ops, conflicts, err := plan(ctx, pool, p)
		if err != nil {
			fmt.Println("❌ Introspecting database:", err)
			os.Exit(1)
		}
		showConflicts(conflicts)
		if len(ops) == 0 {
			fmt.Println("✅ Database is up to date.")
			return
		}

		sqls, err := generator.GenerateSQL(ops)
		if err != nil {
			fmt.Println("❌ Generating SQL:", err)
			os.Exit(1)
		}

		if dryRunApply {
			fmt.Println("\n================ DRY RUN: Apply Preview ================")
			for _, stmt := range sqls {
				fmt.Println(stmt)
			}
			fmt.Println("=========================================================")
			fmt.Println("(Dry run only. Nothing was applied.)")
			return
		}

		formID := p.Settings.FormID
		if formID == "" {
			formID = generator.BaseName(p)
		}
		fmt.Printf("Applying %d statement(s)...\n", len(sqls))
		err = runner.Apply(ctx, pool, runner.Deployment{
			FormID:     formID,
			Title:      p.Settings.Title,
			Statements: sqls,
			Tables:     touched(ops),
		})
		if err != nil {
			fmt.Println("❌ Apply failed:", err)
			os.Exit(1)
		}
		fmt.Println("✅ Form applied.")
	},
}

func init() {
	applyCmd.Flags().BoolVar(&dryRunApply, "dry-run", false, "Preview the SQL that would be executed without applying it")
}

// touched lists the tables of ops once each, in order.
func touched(ops []diff.Operation) []string {
	seen := map[string]bool{}
	var out []string
	for _, op := range ops {
		if !seen[op.TableName] {
			seen[op.TableName] = true
			out = append(out, op.TableName)
		}
	}
	return out
}
