package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/ridoystarlord/formgen/diff"
	"github.com/ridoystarlord/formgen/generator"
	"github.com/spf13/cobra"
)

var (
	compileFormat string
	compileNoSQL  bool
)

func init() {
	compileCmd.Flags().StringVarP(&compileFormat, "format", "f", "yaml", "Descriptor format (yaml, json); json is written to stdout")
	compileCmd.Flags().BoolVar(&compileNoSQL, "no-sql", false, "Do not write the SQL schema file")
}

var compileCmd = &cobra.Command{
	Use:   "compile <form>",
	Short: "Compile a form into a project descriptor and SQL schema",
	Long: `Compile a survey form into a project descriptor and a SQL schema file.

The descriptor (<title>.formgen.yaml) holds the tables, choice lists,
relations and form layouts. The schema file (<title>.sql) creates every
table from scratch; use 'formgen apply' to update an existing database.

Examples:
  formgen compile form.xlsx                 # Write build/<title>.formgen.yaml and build/<title>.sql
  formgen compile form.yaml -o out          # Write to out/
  formgen compile forms/ --format json      # Print the descriptor as JSON
  formgen compile form.xlsx --language fr   # Use the label::fr columns
`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig()
		if err != nil {
			fmt.Println("❌ Loading config:", err)
			os.Exit(1)
		}

		p, err := compileForm(args[0], cfg, cfg.Output, consoleSink{verbose: verbose})
		if err != nil {
			os.Exit(1)
		}

		switch compileFormat {
		case "json":
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(generator.NewDescriptor(p)); err != nil {
				fmt.Println("❌ Encoding project:", err)
				os.Exit(1)
			}
		case "yaml":
			filename, err := generator.WriteProject(cfg.Output, p)
			if err != nil {
				fmt.Println("❌ Writing project:", err)
				os.Exit(1)
			}
			fmt.Println("✅ Project written:", filename)
		default:
			fmt.Printf("❌ Unsupported format: %s\n", compileFormat)
			os.Exit(1)
		}

		if compileNoSQL {
			return
		}

		ops := diff.DiffSchemas(p, nil)
		sqls, err := generator.GenerateSQL(ops)
		if err != nil {
			fmt.Println("❌ Generating SQL:", err)
			os.Exit(1)
		}
		rollbackSqls, err := generator.GenerateRollbackSQL(ops)
		if err != nil {
			fmt.Println("❌ Generating rollback SQL:", err)
			os.Exit(1)
		}
		filename, err := generator.WriteSchemaFile(cfg.Output, generator.BaseName(p), sqls, rollbackSqls)
		if err != nil {
			fmt.Println("❌ Writing schema file:", err)
			os.Exit(1)
		}
		if compileFormat != "json" {
			fmt.Println("✅ Schema written:", filename)
		}
	},
}
