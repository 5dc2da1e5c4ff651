// Package main contains the cli implementation of the tool. It uses the
// cobra package for cli tool implementation, grounded on the teacher's
// cmd/smf/main.go (rootCmd + subcommand constructors returning
// *cobra.Command, flag structs, RunE closures): plan/validate/dispatch
// replace the teacher's diff/migrate/apply, each wired to this port's
// planning/dispatch core instead of the teacher's schema-diff pipeline;
// bronze is new, compiling a bronze-layer plan straight from a live lake
// database probe instead of a manifest.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/spf13/cobra"

	"medalc/internal/core"
	"medalc/internal/dispatch"
	"medalc/internal/orchestrator"
	"medalc/internal/output"
	"medalc/internal/querybuilder"
	"medalc/internal/querybuilder/refsql"
	"medalc/internal/sequencer"
	"medalc/internal/sequencer/lakeprobe"
	"medalc/internal/sequencer/manifest"
)

type planFlags struct {
	outFile     string
	format      string
	tablePrefix string
}

type validateFlags struct {
	format string
}

type dispatchFlags struct {
	dsn       string
	planFile  string
	workers   int
	format    string
	timeout   int
}

type bronzeFlags struct {
	dsn               string
	sourceSchema      string
	targetSchema      string
	softDeleteColumns []string
	metadataTables    []string
	outFile           string
	format            string
	timeout           int
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "medalc",
		Short: "Medallion-architecture execution-plan compiler and dispatcher",
	}

	rootCmd.AddCommand(planCmd())
	rootCmd.AddCommand(validateCmd())
	rootCmd.AddCommand(dispatchCmd())
	rootCmd.AddCommand(bronzeCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func planCmd() *cobra.Command {
	flags := &planFlags{}
	cmd := &cobra.Command{
		Use:   "plan <manifest.toml>...",
		Short: "Compile one or more TOML operation manifests into a serialized execution plan",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runPlan(args, flags)
		},
	}
	cmd.Flags().StringVarP(&flags.outFile, "output", "o", "", "Output file for the execution plan")
	cmd.Flags().StringVarP(&flags.format, "format", "f", "json", "Output format: human, json, summary, or sql (renders via the reference builder)")
	cmd.Flags().StringVar(&flags.tablePrefix, "table-prefix", "", "Table prefix applied by the reference query builder's sql format")
	return cmd
}

func runPlan(paths []string, flags *planFlags) error {
	plan, err := compilePlan(paths)
	if err != nil {
		return err
	}

	if strings.EqualFold(flags.format, "sql") {
		opts := querybuilder.DefaultOptions()
		opts.TablePrefix = flags.tablePrefix
		qb := refsql.NewBuilder(opts)
		text, err := output.RenderPlanSQL(qb, plan)
		if err != nil {
			return fmt.Errorf("render plan sql: %w", err)
		}
		return writeOutput(text, flags.outFile)
	}

	formatter, err := output.NewFormatter(flags.format)
	if err != nil {
		return err
	}
	text, err := formatter.FormatPlan(plan)
	if err != nil {
		return fmt.Errorf("format plan: %w", err)
	}
	return writeOutput(text, flags.outFile)
}

func validateCmd() *cobra.Command {
	flags := &validateFlags{}
	cmd := &cobra.Command{
		Use:   "validate <manifest.toml>...",
		Short: "Run discovery and DAG validation without emitting a serialized plan",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runValidate(args, flags)
		},
	}
	cmd.Flags().StringVarP(&flags.format, "format", "f", "summary", "Output format: human, json, or summary")
	return cmd
}

func runValidate(paths []string, flags *validateFlags) error {
	plan, err := compilePlan(paths)
	if err != nil {
		return err
	}
	formatter, err := output.NewFormatter(flags.format)
	if err != nil {
		return err
	}
	text, err := formatter.FormatPlan(plan)
	if err != nil {
		return fmt.Errorf("format plan: %w", err)
	}
	fmt.Print(text)
	return nil
}

func dispatchCmd() *cobra.Command {
	flags := &dispatchFlags{}
	cmd := &cobra.Command{
		Use:   "dispatch",
		Short: "Replay a serialized execution plan against a live MySQL-compatible engine, stage by stage",
		Long: `Reads a serialized (JSON) execution plan and dispatches every operation,
one stage at a time, with all operations in a stage running concurrently across
a bounded worker pool.

Examples:
  medalc dispatch --dsn "user:pass@tcp(localhost:3306)/warehouse" --plan plan.json
  medalc dispatch --dsn "user:pass@tcp(localhost:3306)/warehouse" --plan plan.json --workers 8`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runDispatch(flags)
		},
	}
	cmd.Flags().StringVar(&flags.dsn, "dsn", "", "Database connection string (required)")
	cmd.Flags().StringVarP(&flags.planFile, "plan", "p", "", "Path to a serialized execution plan JSON file (required)")
	cmd.Flags().IntVarP(&flags.workers, "workers", "w", 4, "Worker pool size per stage")
	cmd.Flags().StringVarP(&flags.format, "format", "f", "human", "Result output format: human, json, or summary")
	cmd.Flags().IntVar(&flags.timeout, "timeout", 300, "Timeout in seconds for the whole run: connecting and dispatching every stage")
	return cmd
}

func runDispatch(flags *dispatchFlags) error {
	if flags.dsn == "" {
		return fmt.Errorf("--dsn is required")
	}
	if flags.planFile == "" {
		return fmt.Errorf("--plan is required")
	}

	data, err := os.ReadFile(flags.planFile)
	if err != nil {
		return fmt.Errorf("failed to read plan file: %w", err)
	}
	plan, err := core.DecodePlan(data)
	if err != nil {
		return fmt.Errorf("failed to decode plan: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(flags.timeout)*time.Second)
	defer cancel()

	fmt.Println("connecting to database")
	engine, err := dispatch.NewMySQLEngine(ctx, flags.dsn)
	if err != nil {
		return err
	}
	defer func() { _ = engine.Close() }()

	qb := refsql.NewBuilder(querybuilder.DefaultOptions())
	d := dispatch.NewDispatcher(qb, engine, nil, nil)

	results, err := dispatch.RunPlan(ctx, plan, d, flags.workers)
	if err != nil {
		return fmt.Errorf("dispatch interrupted: %w", err)
	}

	formatter, err := output.NewFormatter(flags.format)
	if err != nil {
		return err
	}
	text, err := formatter.FormatResults(results)
	if err != nil {
		return fmt.Errorf("format results: %w", err)
	}
	fmt.Print(text)

	for _, r := range results {
		if !r.Success {
			return fmt.Errorf("%d operation(s) failed", countFailures(results))
		}
	}
	return nil
}

func countFailures(results []*dispatch.OperationResult) int {
	n := 0
	for _, r := range results {
		if !r.Success {
			n++
		}
	}
	return n
}

func bronzeCmd() *cobra.Command {
	flags := &bronzeFlags{}
	cmd := &cobra.Command{
		Use:   "bronze",
		Short: "Probe a live MySQL lake database and compile a bronze-layer execution plan",
		Long: `Connects to a lake database, lists its base tables via information_schema,
and compiles one CreateTable operation per table (soft-deleted rows excluded for
ordinary data tables) into a bronze-layer execution plan.

Example:
  medalc bronze --dsn "user:pass@tcp(localhost:3306)/lake" --source-schema lake --target-schema bronze`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runBronze(flags)
		},
	}
	cmd.Flags().StringVar(&flags.dsn, "dsn", "", "Lake database connection string (required)")
	cmd.Flags().StringVar(&flags.sourceSchema, "source-schema", "", "Schema to probe for source tables (required)")
	cmd.Flags().StringVar(&flags.targetSchema, "target-schema", "", "Bronze schema operations are written into (defaults to source-schema)")
	cmd.Flags().StringSliceVar(&flags.softDeleteColumns, "soft-delete-column", nil, "Candidate soft-delete column names, checked in order")
	cmd.Flags().StringSliceVar(&flags.metadataTables, "metadata-table", nil, "Tables exempt from soft-delete filtering")
	cmd.Flags().StringVarP(&flags.outFile, "output", "o", "", "Output file for the execution plan")
	cmd.Flags().StringVarP(&flags.format, "format", "f", "json", "Output format: human, json, or summary")
	cmd.Flags().IntVar(&flags.timeout, "timeout", 300, "Timeout in seconds for connecting to and probing the lake database")
	return cmd
}

func runBronze(flags *bronzeFlags) error {
	if flags.dsn == "" {
		return fmt.Errorf("--dsn is required")
	}
	if flags.sourceSchema == "" {
		return fmt.Errorf("--source-schema is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(flags.timeout)*time.Second)
	defer cancel()

	db, err := sql.Open("mysql", flags.dsn)
	if err != nil {
		return fmt.Errorf("open lake database: %w", err)
	}
	defer func() { _ = db.Close() }()
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping lake database: %w", err)
	}

	metadataTables := make(map[string]struct{}, len(flags.metadataTables))
	for _, t := range flags.metadataTables {
		metadataTables[strings.ToLower(t)] = struct{}{}
	}
	probe := &lakeprobe.MySQLProbe{
		DB:                db,
		SourceSchema:      flags.sourceSchema,
		TargetSchema:      flags.targetSchema,
		SoftDeleteColumns: flags.softDeleteColumns,
		MetadataTables:    metadataTables,
	}

	seq, err := sequencer.NewBronzeSequencer(ctx, "bronze", probe)
	if err != nil {
		return fmt.Errorf("discover bronze tables: %w", err)
	}

	plan, err := orchestrator.CreatePlanForBronzeLayer(seq, "bronze")
	if err != nil {
		return fmt.Errorf("compile bronze plan: %w", err)
	}

	formatter, err := output.NewFormatter(flags.format)
	if err != nil {
		return err
	}
	text, err := formatter.FormatPlan(plan)
	if err != nil {
		return fmt.Errorf("format plan: %w", err)
	}
	return writeOutput(text, flags.outFile)
}

func compilePlan(paths []string) (*core.ExecutionPlan, error) {
	var ops []core.Operation
	metadata := map[string]any{}

	for _, path := range paths {
		seq, err := manifest.Load(path)
		if err != nil {
			return nil, fmt.Errorf("load manifest %q: %w", path, err)
		}
		queries, err := seq.GetQueries()
		if err != nil {
			return nil, fmt.Errorf("discover operations in %q: %w", path, err)
		}
		ops = append(ops, queries...)
		if len(paths) > 1 {
			metadata[path] = seq.ClassMetadata()
		}
	}

	planName := "medalc"
	if len(paths) == 1 {
		planName = paths[0]
	}
	return orchestrator.CreateExecutionPlan(ops, metadata, planName)
}

func writeOutput(content, outFile string) error {
	if outFile == "" {
		fmt.Print(content)
		return nil
	}
	if err := os.WriteFile(outFile, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	fmt.Printf("output saved to %s\n", outFile)
	return nil
}
