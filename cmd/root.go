package cmd

import (
	"fmt"
	"os"

	"github.com/ridoystarlord/formgen/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "formgen",
	Short: "Compile survey spreadsheets into database schemas and edit forms",
	Long: `formgen compiles XLSForm-style survey definitions (xlsx, YAML or a
directory of CSV files) into tables, choice lists and edit-form layouts,
and applies the resulting schema to PostgreSQL.

Examples:

  formgen init
  formgen validate form.xlsx
  formgen compile form.xlsx -o build
  formgen apply form.xlsx --dry-run
`,
	SilenceUsage: true,
}

// Execute runs the CLI
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println("❌", err)
		os.Exit(1)
	}
}

var verbose bool

// Register subcommands
func init() {
	cobra.OnInitialize(func() {
		config.Setup(viper.GetViper(), ".")
	})

	flags := rootCmd.PersistentFlags()
	flags.String("language", "", "Label language (label::<language> column)")
	flags.String("title", "", "Override the form title")
	flags.Bool("groups-as-tabs", false, "Render top-level groups as tabs")
	flags.StringP("output", "o", "build", "Output directory")
	flags.Bool("markdown", true, "Render note text as markdown")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Print info diagnostics")

	viper.BindPFlag(config.KeyLanguage, flags.Lookup("language"))
	viper.BindPFlag(config.KeyTitle, flags.Lookup("title"))
	viper.BindPFlag(config.KeyGroupsAsTabs, flags.Lookup("groups-as-tabs"))
	viper.BindPFlag(config.KeyOutput, flags.Lookup("output"))
	viper.BindPFlag(config.KeyMarkdown, flags.Lookup("markdown"))

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(compileCmd)
	rootCmd.AddCommand(diffCmd)
	rootCmd.AddCommand(applyCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(docsCmd)
}
