package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/kapu/comp-table-go/internal/app"
	"github.com/kapu/comp-table-go/internal/config"
	"github.com/kapu/comp-table-go/internal/domain"
	"github.com/kapu/comp-table-go/internal/export"
	"github.com/kapu/comp-table-go/internal/util"
)

var (
	analyzeJSON    bool
	analyzeCSVPath string
	analyzeResolve bool
	analyzeRaw     bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <target>",
	Short: "Build a competitor comparison table for a target",
	Long: `Run one analysis: fan the target out to the configured models,
normalize the answers, and print the ranked comparison table.

Examples:
  comptable analyze "Tesla Model 3"
  comptable analyze "Notion" --resolve-cells --csv notion.csv
  comptable analyze "Figma" --json`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "Output the full result as JSON")
	analyzeCmd.Flags().StringVar(&analyzeCSVPath, "csv", "", "Write the table to a CSV file")
	analyzeCmd.Flags().BoolVar(&analyzeResolve, "resolve-cells", false, "Resolve every table cell after aggregation")
	analyzeCmd.Flags().BoolVar(&analyzeRaw, "raw", false, "Show raw per-model outcomes after the table")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	target := args[0]
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger, err := util.NewLogger(cfg.Logging.Level, cfg.Logging.File)
	if err != nil {
		return err
	}
	defer logger.Sync()

	container, err := app.Build(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to assemble services: %w", err)
	}
	defer container.Close()

	spin := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	spin.Start()
	progress := func(_ domain.Stage, message string) {
		spin.Suffix = " " + message
	}

	result, err := container.Pipeline.Run(ctx, target, progress)
	if err != nil {
		spin.Stop()
		return fmt.Errorf("analysis failed: %w", err)
	}

	if analyzeResolve {
		spin.Suffix = " Resolving table cells..."
		if err := container.Cells.ResolveAll(ctx, result); err != nil {
			spin.Stop()
			return err
		}
	}
	spin.Stop()

	if analyzeCSVPath != "" {
		if err := writeCSVFile(analyzeCSVPath, result); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Table written to %s\n", analyzeCSVPath)
	}

	if analyzeJSON {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(result)
	}

	printResult(result)
	return nil
}

func writeCSVFile(path string, result *domain.AnalysisResult) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()
	return export.WriteCSV(file, result)
}

func printResult(result *domain.AnalysisResult) {
	title := color.New(color.Bold)
	dim := color.New(color.FgHiBlack)
	errColor := color.New(color.FgRed)

	title.Printf("Competitor Analysis: %s\n", result.Target)
	dim.Printf("Generated %s\n\n", result.Timestamp.Format("2006-01-02 15:04:05"))

	title.Println("Top Competitors")
	for _, competitor := range result.Competitors {
		line := fmt.Sprintf("  %2d. %s", competitor.Rank, competitor.Name)
		fmt.Print(line)
		if competitor.Parent != "" {
			dim.Printf("  [%s of %s]", competitor.Kind, competitor.Parent)
		} else {
			dim.Printf("  [%s]", competitor.Kind)
		}
		dim.Printf("  mentioned %d times\n", competitor.Frequency)
	}

	fmt.Println()
	title.Println("Key Criteria")
	for _, criterion := range result.Criteria {
		fmt.Printf("  %2d. %s", criterion.Rank, criterion.Name)
		annotation := string(criterion.ValueType)
		if criterion.Unit != "" {
			annotation += ", " + criterion.Unit
		}
		if criterion.Scale != "" {
			annotation += ", " + criterion.Scale
		}
		dim.Printf("  (%s)\n", annotation)
	}

	if len(result.CellAnswers) > 0 {
		fmt.Println()
		title.Println("Table")
		for ci, competitor := range result.Competitors {
			fmt.Printf("  %s\n", competitor.Name)
			for ki, criterion := range result.Criteria {
				cell := result.Cell(ci, ki)
				if cell == nil {
					continue
				}
				if cell.Error {
					errColor.Printf("    %s: %s\n", criterion.Name, cell.Answer)
				} else {
					fmt.Printf("    %s: %s\n", criterion.Name, cell.Answer)
				}
			}
		}
	}

	if analyzeRaw && result.Raw != nil {
		fmt.Println()
		title.Println("Raw Model Outcomes")
		printRawResponses("competitors", result.Raw.Competitors)
		printRawResponses("criteria", result.Raw.Criteria)
	}
}

func printRawResponses(label string, responses []*domain.ModelResponse) {
	dim := color.New(color.FgHiBlack)
	errColor := color.New(color.FgRed)

	for _, response := range responses {
		if response == nil {
			continue
		}
		if response.Failed() {
			errColor.Printf("  %s (%s): %s\n", response.Model, label, response.Failure)
			continue
		}
		dim.Printf("  %s (%s): %d items\n", response.Model, label, len(response.Items))
	}
}
