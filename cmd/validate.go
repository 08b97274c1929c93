package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/ridoystarlord/formgen/diag"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <form>",
	Short: "Compile a form and report every diagnostic",
	Long: `Compile a survey form without writing anything and report the problems
found on the way.

Errors stop the compilation (missing label column, unbalanced repeats,
invalid choices table). Warnings mark rows that were skipped or degraded:
unsupported types, unsupported expressions, choice lists that could not be
found. Info messages describe the choices made (language, host features).

Examples:
  formgen validate form.xlsx                  # Text report
  formgen validate form.xlsx --format json    # Diagnostics as JSON
  formgen validate form.xlsx --language fr    # Validate the French labels
`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := validateForm(args[0]); err != nil {
			fmt.Printf("❌ Form validation failed: %v\n", err)
			os.Exit(1)
		}
	},
}

var validateFormat string

func init() {
	validateCmd.Flags().StringVarP(&validateFormat, "format", "f", "text", "Output format (text, json)")
}

// validationResult is the report printed by validate.
type validationResult struct {
	Valid    bool              `json:"valid"`
	Errors   []diag.Diagnostic `json:"errors"`
	Warnings []diag.Diagnostic `json:"warnings"`
	Info     []diag.Diagnostic `json:"info"`
}

func validateForm(path string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log := &diag.Log{}
	_, compileErr := compileForm(path, cfg, "", log)

	result := &validationResult{
		Valid:    compileErr == nil,
		Errors:   log.Filter(diag.Error),
		Warnings: log.Filter(diag.Warning),
		Info:     log.Filter(diag.Info),
	}

	if validateFormat == "json" {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(result); err != nil {
			return err
		}
	} else {
		outputText(result)
	}
	if !result.Valid {
		os.Exit(1)
	}
	return nil
}

func outputText(result *validationResult) {
	if result.Valid {
		color.Green("✅ Form validation passed!")
	} else {
		color.Red("❌ Form validation failed!")
	}

	printDiagnostics("🔴 Errors", result.Errors)
	printDiagnostics("🟡 Warnings", result.Warnings)
	printDiagnostics("🔵 Info", result.Info)

	fmt.Printf("\n📊 Summary:\n")
	fmt.Printf("  • Errors: %d\n", len(result.Errors))
	fmt.Printf("  • Warnings: %d\n", len(result.Warnings))
	fmt.Printf("  • Info: %d\n", len(result.Info))

	if result.Valid {
		fmt.Printf("\n🎉 Your form is valid and ready to compile!\n")
	} else {
		fmt.Printf("\n💡 Fix the errors above before compiling.\n")
	}
}

func printDiagnostics(title string, entries []diag.Diagnostic) {
	if len(entries) == 0 {
		return
	}
	fmt.Printf("\n%s (%d):\n", title, len(entries))
	for i, d := range entries {
		fmt.Printf("  %d. %s\n", i+1, d.Message)
	}
}
