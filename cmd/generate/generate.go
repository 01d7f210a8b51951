// Package generate contains the subcommand running the full pipeline.
package generate

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"fjacquet/donation-docs/cmd/root"
	"fjacquet/donation-docs/internal/logging"
	"fjacquet/donation-docs/internal/models"
	"fjacquet/donation-docs/internal/orchestrator"
	"fjacquet/donation-docs/internal/parsererror"
)

var (
	sourceDir     string
	templatePath  string
	outputDocs    string
	outputDetails string
	overwrite     bool
	detailCSV     bool
)

// Cmd is the generate command
var Cmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate notices and allocation detail tables from the source directory",
	Long: `Scan the source directory for charity ledgers and holding rosters, render
one donation notice per donated product, and write one allocation detail
table per product (also inserted into the notice).`,
	Run: generateFunc,
}

func init() {
	Cmd.Flags().StringVarP(&sourceDir, "source", "s", "", "Source directory with ledger and roster files")
	Cmd.Flags().StringVarP(&templatePath, "template", "t", "", "Notice template file")
	Cmd.Flags().StringVar(&outputDocs, "output-docs", "", "Output directory for notice documents")
	Cmd.Flags().StringVar(&outputDetails, "output-details", "", "Output directory for detail tables")
	Cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing output files instead of suffixing")
	Cmd.Flags().BoolVar(&detailCSV, "csv", false, "Also write each detail table as CSV")
}

func generateFunc(cmd *cobra.Command, args []string) {
	cfg := root.Cfg

	// Flags beat the config file.
	if sourceDir != "" {
		cfg.Paths.Source = sourceDir
	}
	if templatePath != "" {
		cfg.Paths.Template = templatePath
	}
	if outputDocs != "" {
		cfg.Paths.OutputDocs = outputDocs
	}
	if outputDetails != "" {
		cfg.Paths.OutputDetails = outputDetails
	}
	if overwrite {
		cfg.Output.Overwrite = true
	}
	if detailCSV {
		cfg.Output.DetailCSV = true
	}

	o, err := orchestrator.New(cfg, logging.NewLogrusAdapterFromLogger(root.Log))
	if err != nil {
		root.Log.Fatalf("Failed to initialize: %v", err)
	}

	stats, err := o.Run()
	if err != nil {
		var dup *parsererror.DuplicateProductError
		switch {
		case errors.Is(err, orchestrator.ErrTemplateMissing):
			fmt.Printf("必要文件缺失: %v\n", err)
			os.Exit(2)
		case errors.As(err, &dup):
			fmt.Printf("数据错误: %v\n", err)
			os.Exit(3)
		default:
			root.Log.WithError(err).Error("Generation run failed")
			os.Exit(1)
		}
	}

	printSummary(stats)
}

// printSummary writes the console recap the operators read after each run.
func printSummary(stats *models.RunStats) {
	line := "=================================================="
	fmt.Println("\n" + line)
	fmt.Println("处理完成")
	fmt.Println(line)
	fmt.Println("数据源文件:")
	fmt.Printf("  - 捐赠台账: %d 个\n", stats.CharityFiles)
	fmt.Printf("  - 份额文件: %d 个\n", stats.HoldingFiles)
	fmt.Printf("  - 已捐项目: %d 个\n", stats.CharityRows)
	fmt.Printf("  - 份额记录: %d 条\n", stats.HoldingRecords)
	fmt.Println("\n生成结果:")
	fmt.Printf("  - 代捐说明: 成功 %d 个 / 失败 %d 个\n", stats.DocsSuccess, stats.DocsFailed)
	fmt.Printf("  - 明细表:   生成 %d 个\n", stats.DetailFiles)
	fmt.Printf("  - 表插入:   成功 %d 个 / 失败 %d 个\n", stats.DetailAttachSuccess, stats.DetailAttachFailed)
	fmt.Println(line + "\n")
}
