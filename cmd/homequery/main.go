// homequery is a multi-model property query CLI and MCP server for OceanBase.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	_ "github.com/spetr/homequery/builtin"
	"github.com/spetr/homequery/internal/agent"
	"github.com/spetr/homequery/internal/config"
	"github.com/spetr/homequery/internal/demo"
	"github.com/spetr/homequery/internal/listings"
	"github.com/spetr/homequery/internal/mcp"
	"github.com/spetr/homequery/internal/schema"
	"github.com/spetr/homequery/pkg/geo"
	"github.com/spetr/homequery/pkg/provider"
	"github.com/spetr/homequery/pkg/sqltext"
)

var (
	version   = "0.1.0"
	logLevel  string
	logFormat string
	showSQL   bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "homequery",
	Short: "Multi-model property queries over one OceanBase table",
	Long: `homequery answers property questions with SQL spanning five query models
over a single OceanBase table: relational columns, JSON documents,
geospatial points, full-text indexes and vector embeddings.

It provides:
- A guided demo walking through every query modality
- A rule-based agent routing natural-language questions to SQL templates
- An MCP server exposing the property tools over stdio
- Direct, MCP-bridge and simulated database executors`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogging()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("homequery %s\n", version)
		fmt.Printf("Go version: %s\n", runtime.Version())
		fmt.Printf("OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	},
}

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Create the property table and load the sample data",
	Long: `Create the property table with its JSON, geospatial, full-text and vector
columns, insert the sample properties and read every row back to verify it.`,
	Run: func(cmd *cobra.Command, args []string) {
		runSetup()
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show database connectivity and row count",
	Run: func(cmd *cobra.Command, args []string) {
		verbose, _ := cmd.Flags().GetBool("verbose")
		runStatus(verbose)
	},
}

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Run one query modality against the property table",
	Long:  `Run a single query modality: relational listing, JSON feature filters, geospatial search, full-text relevance, vector similarity or the combined investment query.`,
}

var queryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List properties in id order",
	Run: func(cmd *cobra.Command, args []string) {
		limit, _ := cmd.Flags().GetInt("limit")
		runQueryList(limit)
	},
}

var queryBedroomsCmd = &cobra.Command{
	Use:   "bedrooms <min>",
	Short: "Filter on the JSON bedrooms feature",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		limit, _ := cmd.Flags().GetInt("limit")
		runQueryBedrooms(args[0], limit)
	},
}

var queryAmenityCmd = &cobra.Command{
	Use:   "amenity <name>",
	Short: "Filter on a JSON amenity",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		limit, _ := cmd.Flags().GetInt("limit")
		runQueryAmenity(args[0], limit)
	},
}

var queryNearCmd = &cobra.Command{
	Use:   "near <city>",
	Short: "Find properties within a radius of a known city",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		radius, _ := cmd.Flags().GetFloat64("radius")
		limit, _ := cmd.Flags().GetInt("limit")
		runQueryNear(args[0], radius, limit)
	},
}

var queryFulltextCmd = &cobra.Command{
	Use:   "fulltext <terms>...",
	Short: "Rank properties by description relevance",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		limit, _ := cmd.Flags().GetInt("limit")
		runQueryFulltext(strings.Join(args, " "), limit)
	},
}

var queryVectorCmd = &cobra.Command{
	Use:   "vector [literal]",
	Short: "Rank properties by vector distance to an investment profile",
	Long: `Rank properties by vector distance to an investment profile. The literal
takes the bracketed form "[0.75, 0.85, 0.25, 0.65]" or a bare comma list;
without one the default investment probe is used.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		literal := ""
		if len(args) > 0 {
			literal = args[0]
		}
		maxDistance, _ := cmd.Flags().GetFloat64("max-distance")
		limit, _ := cmd.Flags().GetInt("limit")
		runQueryVector(literal, maxDistance, limit)
	},
}

var querySimilarCmd = &cobra.Command{
	Use:   "similar <id>",
	Short: "Find properties similar to a stored property",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		maxDistance, _ := cmd.Flags().GetFloat64("max-distance")
		limit, _ := cmd.Flags().GetInt("limit")
		runQuerySimilar(args[0], maxDistance, limit)
	},
}

var queryCombinedCmd = &cobra.Command{
	Use:   "combined",
	Short: "Run the investment query touching every modality at once",
	Run: func(cmd *cobra.Command, args []string) {
		minBedrooms, _ := cmd.Flags().GetInt("min-bedrooms")
		amenity, _ := cmd.Flags().GetString("amenity")
		terms, _ := cmd.Flags().GetString("terms")
		maxDistance, _ := cmd.Flags().GetFloat64("max-distance")
		limit, _ := cmd.Flags().GetInt("limit")
		runQueryCombined(minBedrooms, amenity, terms, maxDistance, limit)
	},
}

var askCmd = &cobra.Command{
	Use:   "ask <question>...",
	Short: "Ask the property agent a natural-language question",
	Long: `Ask the property agent a natural-language question. The agent classifies
the question and answers it with one SQL template.

Examples:
  homequery ask "Show me properties in Seattle"
  homequery ask "Find 3 bedroom properties"
  homequery ask "Find properties similar to property ID 1"`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runAsk(strings.Join(args, " "))
	},
}

var embedCmd = &cobra.Command{
	Use:   "embed <text>...",
	Short: "Embed text with the configured provider",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		fit, _ := cmd.Flags().GetBool("fit")
		runEmbed(strings.Join(args, " "), fit)
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the MCP server exposing execute_sql, list_tables, describe_table and
search_properties. With --simulate it serves the seeded in-memory engine, so
the demo's bridge mode works without a database.`,
	Run: func(cmd *cobra.Command, args []string) {
		stdio, _ := cmd.Flags().GetBool("stdio")
		simulate, _ := cmd.Flags().GetBool("simulate")
		runServe(stdio, simulate)
	},
}

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run the guided multi-model demo",
	Long: `Run the guided demo: schema setup, the per-modality query showcase and the
question-answering agent. Interactive by default.

Examples:
  homequery demo                                    # interactive menu
  homequery demo --simulate                        # no database needed
  homequery demo --batch --component setup
  homequery demo --batch --component queries
  homequery demo --batch --component agent
  homequery demo --batch --component all`,
	Run: func(cmd *cobra.Command, args []string) {
		batch, _ := cmd.Flags().GetBool("batch")
		component, _ := cmd.Flags().GetString("component")
		bridge, _ := cmd.Flags().GetBool("bridge")
		simulate, _ := cmd.Flags().GetBool("simulate")
		runDemo(batch, component, bridge, simulate)
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create default configuration",
	Run: func(cmd *cobra.Command, args []string) {
		runConfigInit()
	},
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration",
	Run: func(cmd *cobra.Command, args []string) {
		runConfigValidate()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format (text, json)")

	statusCmd.Flags().BoolP("verbose", "v", false, "show the effective configuration")

	queryCmd.PersistentFlags().BoolVar(&showSQL, "sql", false, "print the statement before the results")
	queryListCmd.Flags().IntP("limit", "l", 0, "maximum results (0 uses the configured default)")
	queryBedroomsCmd.Flags().IntP("limit", "l", 0, "maximum results (0 uses the configured default)")
	queryAmenityCmd.Flags().IntP("limit", "l", 0, "maximum results (0 uses the configured default)")
	queryNearCmd.Flags().Float64("radius", 150000, "search radius in meters")
	queryNearCmd.Flags().IntP("limit", "l", 0, "maximum results (0 uses the configured default)")
	queryFulltextCmd.Flags().IntP("limit", "l", 0, "maximum results (0 uses the configured default)")
	queryVectorCmd.Flags().Float64("max-distance", 1.0, "maximum vector distance")
	queryVectorCmd.Flags().IntP("limit", "l", 0, "maximum results (0 uses the configured default)")
	querySimilarCmd.Flags().Float64("max-distance", 1.0, "maximum vector distance")
	querySimilarCmd.Flags().IntP("limit", "l", 0, "maximum results (0 uses the configured default)")

	probe := listings.DefaultInvestmentProbe()
	queryCombinedCmd.Flags().Int("min-bedrooms", probe.MinBedrooms, "minimum bedrooms")
	queryCombinedCmd.Flags().String("amenity", probe.Amenity, "required amenity")
	queryCombinedCmd.Flags().String("terms", probe.SearchTerms, "full-text search terms")
	queryCombinedCmd.Flags().Float64("max-distance", probe.MaxDistance, "maximum vector distance")
	queryCombinedCmd.Flags().IntP("limit", "l", 0, "maximum results (0 uses the configured default)")

	embedCmd.Flags().Bool("fit", false, fmt.Sprintf("fit the vector to the table's %d dimensions", schema.EmbeddingDim))

	serveCmd.Flags().Bool("stdio", false, "use stdio transport (for MCP)")
	serveCmd.Flags().Bool("simulate", false, "serve the seeded simulated engine instead of the database")

	demoCmd.Flags().Bool("batch", false, "run without prompts and exit")
	demoCmd.Flags().String("component", "all", "component to run in batch mode (setup, queries, agent, all)")
	demoCmd.Flags().Bool("bridge", false, "route queries through the MCP bridge")
	demoCmd.Flags().Bool("simulate", false, "use the simulated executor (no database needed)")

	queryCmd.AddCommand(queryListCmd)
	queryCmd.AddCommand(queryBedroomsCmd)
	queryCmd.AddCommand(queryAmenityCmd)
	queryCmd.AddCommand(queryNearCmd)
	queryCmd.AddCommand(queryFulltextCmd)
	queryCmd.AddCommand(queryVectorCmd)
	queryCmd.AddCommand(querySimilarCmd)
	queryCmd.AddCommand(queryCombinedCmd)

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configValidateCmd)

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(setupCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(embedCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(demoCmd)
	rootCmd.AddCommand(configCmd)
}

func setupLogging() {
	var level slog.Level
	switch logLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	var handler slog.Handler
	opts := &slog.HandlerOptions{Level: level}

	if logFormat == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	slog.SetDefault(slog.New(handler))
}

// createExecutor builds the executor the configuration names: the simulated
// engine when asked for, the MCP bridge when enabled, the direct connection
// otherwise.
func createExecutor(cfg *config.Config) (provider.Executor, error) {
	switch {
	case cfg.Bridge.Simulate:
		return provider.DefaultRegistry.CreateExecutor("simulated", provider.ExecutorConfig{})
	case cfg.Bridge.Enabled:
		return provider.DefaultRegistry.CreateExecutor("mcpbridge", bridgeConfig(cfg))
	default:
		return provider.DefaultRegistry.CreateExecutor("direct", provider.ExecutorConfig{
			DSN:             cfg.DSN(),
			MaxOpenConns:    cfg.Database.MaxOpenConns,
			MaxIdleConns:    cfg.Database.MaxIdleConns,
			ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
			ConnectAttempts: cfg.Database.ConnectAttempts,
			ConnectBackoff:  cfg.Database.ConnectBackoff,
		})
	}
}

func bridgeConfig(cfg *config.Config) provider.ExecutorConfig {
	return provider.ExecutorConfig{
		ServerName: cfg.Bridge.ServerName,
		Tool:       cfg.Bridge.Tool,
		Command:    cfg.Bridge.Command,
		Args:       cfg.Bridge.Args,
		Env:        cfg.Bridge.Env,
		Timeout:    cfg.Bridge.Timeout,
	}
}

// createEmbedding builds the configured embedding provider.
func createEmbedding(cfg *config.Config) (provider.EmbeddingProvider, error) {
	return provider.DefaultRegistry.CreateEmbedding(cfg.Embedding.Provider, provider.EmbeddingConfig{
		Provider:        cfg.Embedding.Provider,
		Model:           cfg.Embedding.Model,
		Region:          cfg.Embedding.Region,
		AccessKeyID:     cfg.Embedding.AccessKeyID,
		SecretAccessKey: cfg.Embedding.SecretAccessKey,
		Endpoint:        cfg.Embedding.Endpoint,
		APIKey:          cfg.Embedding.APIKey,
		Dimensions:      cfg.Embedding.Dimensions,
		BatchSize:       cfg.Embedding.BatchSize,
	})
}

// openSession loads the configuration and connects the configured executor.
// The one-shot query commands share it; long-running commands wire their own.
func openSession() (*config.Config, provider.Executor) {
	cwd, _ := os.Getwd()
	cfg, _, err := config.Load(cwd)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	exec, err := createExecutor(cfg)
	if err != nil {
		slog.Error("failed to create executor", "error", err)
		os.Exit(1)
	}
	return cfg, exec
}

// renderListing executes one built statement and prints the rows.
func renderListing(ctx context.Context, exec provider.Executor, q listings.Query) {
	if showSQL {
		if sql, err := q.Interpolate(); err == nil {
			fmt.Printf("%s\n\n", sql)
		}
	}

	rs, err := exec.Query(ctx, q.SQL, q.Args...)
	if err != nil {
		slog.Error("query failed", "error", err)
		os.Exit(1)
	}

	if rs.Len() == 0 {
		fmt.Println("No properties found matching your criteria.")
		return
	}
	demo.WriteTable(os.Stdout, rs)
}

// pickLimit resolves the effective row limit: the flag when set, the
// configured default otherwise.
func pickLimit(cfg *config.Config, limit int) int {
	if limit > 0 {
		return limit
	}
	return cfg.Demo.Limit
}

func runSetup() {
	cwd, _ := os.Getwd()
	cfg, warnings, err := config.Load(cwd)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	for _, w := range warnings {
		slog.Warn(w)
	}

	exec, err := createExecutor(cfg)
	if err != nil {
		slog.Error("failed to create executor", "error", err)
		os.Exit(1)
	}
	defer exec.Close()

	ctx := context.Background()
	if err := schema.Setup(ctx, exec, cfg.Demo.Table); err != nil {
		slog.Error("setup failed", "error", err)
		os.Exit(1)
	}
	fmt.Printf("Created table %s and inserted %d sample properties\n",
		cfg.Demo.Table, len(schema.SampleProperties()))

	if err := schema.Verify(ctx, exec, cfg.Demo.Table); err != nil {
		slog.Error("verification failed", "error", err)
		os.Exit(1)
	}
	fmt.Println("Read every row back and verified it against the seed data")
}

func runStatus(verbose bool) {
	cfg, exec := openSession()
	defer exec.Close()

	ctx := context.Background()
	if err := exec.Ping(ctx); err != nil {
		fmt.Printf("Database unreachable: %v\n", err)
		fmt.Println("Start the database and run 'homequery setup', or try 'homequery demo --simulate'.")
		os.Exit(1)
	}

	fmt.Println("=== Database Status ===")
	fmt.Printf("Executor:   %s\n", exec.Name())
	fmt.Printf("Table:      %s\n", cfg.Demo.Table)

	rs, err := exec.Query(ctx, fmt.Sprintf("SELECT COUNT(*) AS properties FROM %s", cfg.Demo.Table))
	if err != nil {
		fmt.Println("Properties: unknown. Run 'homequery setup' to create the table.")
		return
	}
	var count int64
	if rs.Len() > 0 {
		count, _ = rs.Rows[0].Int("properties")
	}
	fmt.Printf("Properties: %d\n", count)

	if verbose {
		fmt.Println("\n=== Current Config ===")
		fmt.Printf("Database:  %s:%d/%s\n", cfg.Database.Host, cfg.Database.Port, cfg.Database.Name)
		fmt.Printf("Embedding: %s/%s\n", cfg.Embedding.Provider, cfg.Embedding.Model)
		fmt.Printf("Bridge:    enabled=%v simulate=%v\n", cfg.Bridge.Enabled, cfg.Bridge.Simulate)
	}
}

func runQueryList(limit int) {
	cfg, exec := openSession()
	defer exec.Close()

	renderListing(context.Background(), exec,
		listings.ListProperties(cfg.Demo.Table, pickLimit(cfg, limit)))
}

func runQueryBedrooms(arg string, limit int) {
	minBedrooms, err := strconv.Atoi(arg)
	if err != nil {
		slog.Error("bedrooms takes a number", "got", arg)
		os.Exit(1)
	}

	cfg, exec := openSession()
	defer exec.Close()

	renderListing(context.Background(), exec,
		listings.ByMinBedrooms(cfg.Demo.Table, minBedrooms, pickLimit(cfg, limit)))
}

func runQueryAmenity(amenity string, limit int) {
	cfg, exec := openSession()
	defer exec.Close()

	renderListing(context.Background(), exec,
		listings.ByAmenity(cfg.Demo.Table, amenity, pickLimit(cfg, limit)))
}

func runQueryNear(cityName string, radius float64, limit int) {
	city, ok := geo.LookupCity(cityName)
	if !ok {
		fmt.Printf("Unknown city %q. Known cities:\n", cityName)
		for _, c := range geo.Cities() {
			fmt.Printf("  %s\n", c.Name)
		}
		os.Exit(1)
	}

	cfg, exec := openSession()
	defer exec.Close()

	renderListing(context.Background(), exec,
		listings.NearPoint(cfg.Demo.Table, city.Lon, city.Lat, radius, pickLimit(cfg, limit)))
}

func runQueryFulltext(terms string, limit int) {
	cfg, exec := openSession()
	defer exec.Close()

	renderListing(context.Background(), exec,
		listings.MatchDescription(cfg.Demo.Table, terms, pickLimit(cfg, limit)))
}

func runQueryVector(literal string, maxDistance float64, limit int) {
	vec := listings.DefaultInvestmentProbe().Vector
	if literal != "" {
		parsed, err := parseVectorArg(literal)
		if err != nil {
			slog.Error("invalid vector literal", "error", err)
			os.Exit(1)
		}
		vec = parsed
	}

	cfg, exec := openSession()
	defer exec.Close()

	renderListing(context.Background(), exec,
		listings.SimilarToVector(cfg.Demo.Table, vec, maxDistance, pickLimit(cfg, limit)))
}

func runQuerySimilar(arg string, maxDistance float64, limit int) {
	id, err := strconv.Atoi(arg)
	if err != nil {
		slog.Error("similar takes a property id", "got", arg)
		os.Exit(1)
	}

	cfg, exec := openSession()
	defer exec.Close()
	ctx := context.Background()

	eq := listings.EmbeddingByID(cfg.Demo.Table, id)
	rs, err := exec.Query(ctx, eq.SQL, eq.Args...)
	if err != nil {
		slog.Error("fetching anchor embedding failed", "error", err)
		os.Exit(1)
	}
	if rs.Len() == 0 {
		fmt.Printf("Property %d not found. Run 'homequery setup' to load the sample data.\n", id)
		os.Exit(1)
	}
	vec, err := sqltext.ParseVector(rs.Rows[0].String("embedding"))
	if err != nil {
		slog.Error("stored embedding unreadable", "property", id, "error", err)
		os.Exit(1)
	}

	renderListing(ctx, exec,
		listings.SimilarToVectorExcluding(cfg.Demo.Table, vec, id, maxDistance, pickLimit(cfg, limit)))
}

func runQueryCombined(minBedrooms int, amenity, terms string, maxDistance float64, limit int) {
	cfg, exec := openSession()
	defer exec.Close()

	probe := listings.DefaultInvestmentProbe()
	probe.MinBedrooms = minBedrooms
	probe.Amenity = amenity
	probe.SearchTerms = terms
	probe.MaxDistance = maxDistance
	probe.Limit = pickLimit(cfg, limit)

	renderListing(context.Background(), exec,
		listings.InvestmentQuery(cfg.Demo.Table, probe))
}

// parseVectorArg accepts the bracketed literal form and the bare comma list.
func parseVectorArg(s string) ([]float32, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "[") {
		s = "[" + s + "]"
	}
	return sqltext.ParseVector(s)
}

func runAsk(question string) {
	cfg, exec := openSession()
	defer exec.Close()

	ans, err := agent.New(exec, cfg.Demo.Table, cfg.Demo.Limit).Answer(context.Background(), question)
	if err != nil {
		slog.Error("agent failed", "error", err)
		os.Exit(1)
	}

	fmt.Printf("Interpreted as: %s\n", ans.Intent.Label())
	fmt.Printf("Query:\n%s\n\n", ans.SQL)
	if ans.Results.Len() == 0 {
		fmt.Println("No properties found matching your criteria.")
		return
	}
	demo.WriteTable(os.Stdout, ans.Results)
}

func runEmbed(text string, fit bool) {
	cwd, _ := os.Getwd()
	cfg, _, err := config.Load(cwd)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	emb, err := createEmbedding(cfg)
	if err != nil {
		slog.Error("failed to create embedding provider", "error", err)
		os.Exit(1)
	}
	defer emb.Close()

	vecs, err := emb.Embed(context.Background(), []string{text})
	if err != nil {
		slog.Error("embedding failed", "error", err)
		os.Exit(1)
	}

	vec := vecs[0]
	if fit {
		vec = sqltext.FitDimensions(vec, schema.EmbeddingDim)
	}
	fmt.Println(sqltext.FormatVector(vec))
}

func runServe(stdio, simulate bool) {
	cwd, _ := os.Getwd()
	slog.Info("starting MCP server", "stdio", stdio)

	cfg, warnings, err := config.Load(cwd)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	for _, w := range warnings {
		slog.Warn(w)
	}

	if simulate {
		cfg.Bridge.Simulate = true
	}

	exec, err := createExecutor(cfg)
	if err != nil {
		slog.Error("failed to create executor", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		slog.Info("received shutdown signal", "signal", sig)
		cancel()

		if err := exec.Close(); err != nil {
			slog.Warn("failed to close executor", "error", err)
		}
		slog.Info("shutdown complete")
		os.Exit(0)
	}()

	defer func() {
		signal.Stop(sigChan)
		exec.Close()
	}()

	// The simulated engine starts empty, so seed it. A served database keeps
	// whatever 'homequery setup' created.
	if cfg.Bridge.Simulate {
		if err := schema.Setup(ctx, exec, cfg.Demo.Table); err != nil {
			slog.Error("failed to seed simulated engine", "error", err)
			os.Exit(1)
		}
		slog.Info("simulated engine seeded", "table", cfg.Demo.Table)
	}

	srv, err := mcp.New(mcp.Config{
		Version:  version,
		Executor: exec,
		Table:    cfg.Demo.Table,
		Limit:    cfg.Demo.Limit,
	})
	if err != nil {
		slog.Error("failed to create server", "error", err)
		os.Exit(1)
	}

	if stdio {
		slog.Info("MCP server running (press Ctrl+C to stop)")
		if err := srv.ServeStdio(); err != nil {
			if ctx.Err() != nil {
				slog.Info("server stopped")
			} else {
				slog.Error("server error", "error", err)
				os.Exit(1)
			}
		}
	} else {
		fmt.Println("Only the stdio transport is implemented. Use --stdio.")
		os.Exit(1)
	}
}

func runDemo(batch bool, component string, bridge, simulate bool) {
	cwd, _ := os.Getwd()
	cfg, warnings, err := config.Load(cwd)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	for _, w := range warnings {
		slog.Warn(w)
	}

	exec, simulated := demoExecutor(cfg, bridge, simulate)
	defer exec.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		sig := <-sigChan
		slog.Info("received interrupt signal, stopping demo", "signal", sig)
		cancel()
	}()

	runner, err := demo.New(demo.Config{
		Executor:  exec,
		Table:     cfg.Demo.Table,
		Limit:     cfg.Demo.Limit,
		AutoSetup: simulated,
	})
	if err != nil {
		slog.Error("failed to build demo", "error", err)
		os.Exit(1)
	}

	if batch {
		err = runner.RunComponent(ctx, component)
	} else {
		err = runner.RunInteractive(ctx)
	}
	if err != nil {
		if ctx.Err() != nil {
			slog.Info("demo interrupted")
			return
		}
		slog.Error("demo failed", "error", err)
		os.Exit(1)
	}
}

// demoExecutor picks the demo's executor: simulated on request, the MCP
// bridge when asked for, the direct connection otherwise. An unreachable
// bridge falls back to the simulated engine so the walkthrough still runs.
// The bool reports whether the simulated engine is in use, which makes the
// demo seed its own data.
func demoExecutor(cfg *config.Config, bridge, simulate bool) (provider.Executor, bool) {
	if simulate || cfg.Bridge.Simulate {
		return simulatedExecutor(), true
	}

	if bridge || cfg.Bridge.Enabled {
		exec, err := provider.DefaultRegistry.CreateExecutor("mcpbridge", bridgeConfig(cfg))
		if err == nil {
			return exec, false
		}
		slog.Warn("MCP bridge unavailable, continuing with the simulated executor", "error", err)
		return simulatedExecutor(), true
	}

	exec, err := createExecutor(cfg)
	if err != nil {
		slog.Error("failed to create executor", "error", err)
		fmt.Fprintln(os.Stderr, "Tip: 'homequery demo --simulate' runs the walkthrough without a database.")
		os.Exit(1)
	}
	return exec, false
}

func simulatedExecutor() provider.Executor {
	exec, err := provider.DefaultRegistry.CreateExecutor("simulated", provider.ExecutorConfig{})
	if err != nil {
		slog.Error("failed to create executor", "error", err)
		os.Exit(1)
	}
	return exec
}

func runConfigInit() {
	cwd, _ := os.Getwd()
	cfg := config.DefaultConfig()

	if err := config.Save(cwd, cfg); err != nil {
		slog.Error("failed to save config", "error", err)
		os.Exit(1)
	}

	fmt.Printf("Created config at %s\n", config.ConfigPath(cwd))
}

func runConfigValidate() {
	cwd, _ := os.Getwd()

	cfg, warnings, err := config.Load(cwd)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	for _, w := range warnings {
		fmt.Printf("Warning: %s\n", w)
	}

	errs := config.Validate(cfg)
	if len(errs) > 0 {
		for _, e := range errs {
			fmt.Printf("Error: %v\n", e)
		}
		os.Exit(1)
	}

	fmt.Println("Configuration is valid")
}
