// Package demo drives the guided walkthrough: schema setup, the per-modality
// query showcase and the question-answering agent, either as an interactive
// menu or as batch components with exit codes.
package demo

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spetr/homequery/internal/agent"
	"github.com/spetr/homequery/internal/listings"
	"github.com/spetr/homequery/internal/schema"
	"github.com/spetr/homequery/pkg/geo"
	"github.com/spetr/homequery/pkg/provider"
	"github.com/spetr/homequery/pkg/types"
)

// Batch component names, in menu order.
const (
	ComponentSetup   = "setup"
	ComponentQueries = "queries"
	ComponentAgent   = "agent"
	ComponentAll     = "all"
)

// Components lists the batch component names the demo command accepts.
func Components() []string {
	return []string{ComponentSetup, ComponentQueries, ComponentAgent, ComponentAll}
}

// nearRadiusMeters bounds the spatial section, 150 km around Seattle.
const nearRadiusMeters = 150000

// Config wires the demo runner.
type Config struct {
	Executor provider.Executor
	Table    string
	Limit    int // rows per query, 0 means 10

	// AutoSetup seeds the table before the query and agent components run.
	// Set it when the executor starts out empty, like the simulated one.
	AutoSetup bool

	Output io.Writer // defaults to os.Stdout
	Input  io.Reader // defaults to os.Stdin
}

// Runner executes demo components against one executor and table.
type Runner struct {
	exec      provider.Executor
	agent     *agent.Agent
	table     string
	limit     int
	autoSetup bool
	seeded    bool

	out io.Writer
	in  *bufio.Reader
}

// New creates a runner. Output and Input default to the process streams.
func New(cfg Config) (*Runner, error) {
	if cfg.Executor == nil {
		return nil, fmt.Errorf("%w: demo needs an executor", types.ErrInvalidConfig)
	}
	if cfg.Table == "" {
		return nil, fmt.Errorf("%w: demo needs a table name", types.ErrInvalidConfig)
	}

	limit := cfg.Limit
	if limit <= 0 {
		limit = 10
	}
	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}
	in := cfg.Input
	if in == nil {
		in = os.Stdin
	}

	return &Runner{
		exec:      cfg.Executor,
		agent:     agent.New(cfg.Executor, cfg.Table, limit),
		table:     cfg.Table,
		limit:     limit,
		autoSetup: cfg.AutoSetup,
		out:       out,
		in:        bufio.NewReader(in),
	}, nil
}

// RunComponent runs one component in batch mode.
func (r *Runner) RunComponent(ctx context.Context, component string) error {
	r.banner()
	fmt.Fprintf(r.out, "\n🚀 Running the homequery demo in batch mode (component: %s)\n", component)

	switch component {
	case ComponentSetup:
		return r.runSetup(ctx)
	case ComponentQueries:
		return r.runQueries(ctx)
	case ComponentAgent:
		return r.runAgentDemo(ctx)
	case ComponentAll:
		return r.runAll(ctx)
	default:
		return fmt.Errorf("%w: unknown demo component %q", types.ErrInvalidConfig, component)
	}
}

// RunInteractive shows the menu loop until the user exits or input ends.
func (r *Runner) RunInteractive(ctx context.Context) error {
	r.banner()
	fmt.Fprintln(r.out, "\n🚀 Welcome to the homequery multi-model demo!")
	fmt.Fprintln(r.out, "\nThis demo shows how one database answers the kinds of questions a")
	fmt.Fprintln(r.out, "GenAI agent asks: relational, JSON, geospatial, full-text and vector,")
	fmt.Fprintln(r.out, "all against a single property listings table.")

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		choice, err := r.menu()
		if err != nil {
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(r.out)
				return nil
			}
			return err
		}

		switch choice {
		case "1":
			err = r.runSetup(ctx)
		case "2":
			err = r.runQueries(ctx)
		case "3":
			err = r.runAgentSession(ctx)
		case "4":
			err = r.runAll(ctx)
		case "5":
			fmt.Fprintln(r.out, "\nThank you for exploring the homequery demo!")
			return nil
		default:
			fmt.Fprintln(r.out, "\n❌ Invalid choice. Please enter a number between 1 and 5.")
			continue
		}

		if err != nil && ctx.Err() != nil {
			return err
		}
		// Failures were already reported; the menu comes back either way.
		r.pause()
	}
}

// step prints the section header, runs fn and reports the outcome.
func (r *Runner) step(ctx context.Context, description string, fn func(context.Context) error) error {
	r.sectionHeader(description)
	if err := fn(ctx); err != nil {
		fmt.Fprintf(r.out, "\n❌ %s failed: %v\n", description, err)
		return err
	}
	fmt.Fprintf(r.out, "\n✅ %s completed successfully\n", description)
	return nil
}

func (r *Runner) runSetup(ctx context.Context) error {
	return r.step(ctx, "Setting up the database", func(ctx context.Context) error {
		if err := schema.Setup(ctx, r.exec, r.table); err != nil {
			return err
		}
		fmt.Fprintf(r.out, "Created table %s and inserted %d sample properties.\n",
			r.table, len(schema.SampleProperties()))

		if err := schema.Verify(ctx, r.exec, r.table); err != nil {
			return err
		}
		fmt.Fprintln(r.out, "Read every row back and verified it against the seed data.")

		r.seeded = true
		fmt.Fprintln(r.out)
		r.printDataMap()
		return nil
	})
}

func (r *Runner) printDataMap() {
	fmt.Fprintln(r.out, "Data map of the property table:")
	fmt.Fprintln(r.out)

	rs := &types.ResultSet{Columns: []string{"column", "type", "purpose"}}
	for _, c := range schema.DataMap() {
		rs.Rows = append(rs.Rows, types.Row{"column": c.Name, "type": c.Type, "purpose": c.Purpose})
	}
	WriteTable(r.out, rs)
}

// ensureData seeds the table once when the executor starts out empty.
func (r *Runner) ensureData(ctx context.Context) error {
	if !r.autoSetup || r.seeded {
		return nil
	}
	if err := schema.Setup(ctx, r.exec, r.table); err != nil {
		return err
	}
	r.seeded = true
	return nil
}

func (r *Runner) runQueries(ctx context.Context) error {
	return r.step(ctx, "Running the multi-model query showcase", func(ctx context.Context) error {
		if err := r.ensureData(ctx); err != nil {
			return err
		}
		for _, s := range r.querySections() {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := r.runSection(ctx, s); err != nil {
				return err
			}
		}
		return nil
	})
}

// querySection is one showcase entry: a statement, how to render it and the
// lines explaining which models it touched.
type querySection struct {
	title   string
	query   listings.Query
	cards   bool // render property cards after the table
	explain []string
}

func (r *Runner) querySections() []querySection {
	seattle, _ := geo.LookupCity("Seattle")
	probe := listings.DefaultInvestmentProbe()
	probe.Limit = r.limit
	luxury := listings.LuxuryWaterfront()
	family := listings.FamilyFriendly()

	return []querySection{
		{
			title: "JSON Amenities Query",
			query: listings.ByAmenity(r.table, "fireplace", r.limit),
			explain: []string{
				"JSON_CONTAINS filtered on the amenities array inside the features document.",
			},
		},
		{
			title: "Full-Text Description Query",
			query: listings.MatchDescription(r.table, "luxury view", r.limit),
			explain: []string{
				"MATCH ... AGAINST scored each description against the search terms, most relevant first.",
			},
		},
		{
			title: "Spatial Location Query",
			query: listings.NearPoint(r.table, seattle.Lon, seattle.Lat, nearRadiusMeters, r.limit),
			explain: []string{
				"ST_Distance_Sphere measured the spherical distance from downtown Seattle and kept properties within 150 km.",
			},
		},
		{
			title: "Vector Similarity Query",
			query: listings.SimilarToVector(r.table, probe.Vector, probe.MaxDistance, r.limit),
			explain: []string{
				"VECTOR_DISTANCE ranked properties by how closely their stored profile matches the probe vector. Lower is better.",
			},
		},
		{
			title: "Investment Properties Query (All Data Types)",
			query: listings.InvestmentQuery(r.table, probe),
			cards: true,
			explain: []string{
				"This search combined:",
				"1. Vector search for investment profile matching",
				"2. JSON filtering for property features",
				"3. Full-text search for property descriptions",
				"4. Spatial search for location-based filtering",
				"5. Traditional relational data for basic property information",
			},
		},
		{
			title: luxury.Title,
			query: listings.Showcase(r.table, luxury),
			explain: []string{
				"This statement combined:",
				"1. Relational columns and SUBSTRING for the excerpt",
				"2. JSON_EXTRACT and JSON_CONTAINS for bedrooms and amenities",
				"3. ST_Buffer and ST_Contains for the 10-mile Seattle radius",
				"4. Required description terms for full-text matching",
				"5. A tiered CASE expression scoring conceptual relevance",
			},
		},
		{
			title: family.Title,
			query: listings.Showcase(r.table, family),
			explain: []string{
				"This statement combined:",
				"1. A relational price cap under $800,000",
				"2. A JSON bedrooms floor and any-of amenity matching",
				"3. ST_Buffer and ST_Contains for the 10 km San Francisco radius",
				"4. Required and optional description terms",
				"5. A walkability-tiered CASE relevance score",
			},
		},
	}
}

func (r *Runner) runSection(ctx context.Context, s querySection) error {
	fmt.Fprintf(r.out, "\n=== %s ===\n", s.title)

	display, err := s.query.Interpolate()
	if err != nil {
		display = s.query.SQL
	}
	fmt.Fprintf(r.out, "Query:\n%s\n", display)

	rs, err := r.exec.Query(ctx, s.query.SQL, s.query.Args...)
	if err != nil {
		return fmt.Errorf("%s: %w", s.title, err)
	}

	if rs.Len() == 0 {
		fmt.Fprintln(r.out, "\nNo properties found matching your criteria.")
		return nil
	}

	fmt.Fprintln(r.out, "\n📊 Query Results:")
	fmt.Fprintln(r.out)
	WriteTable(r.out, rs)

	if s.cards {
		fmt.Fprintln(r.out)
		writeProperties(r.out, rs)
	}
	if len(s.explain) > 0 {
		fmt.Fprintln(r.out)
		for _, line := range s.explain {
			fmt.Fprintln(r.out, line)
		}
	}
	return nil
}

// demoQuestions exercises each intent branch plus the unrecognized fallback.
var demoQuestions = []string{
	"Show me properties in Seattle",
	"Find 3 bedroom properties",
	"Find properties similar to property ID 1",
	"What's on the market right now?",
}

func (r *Runner) runAgentDemo(ctx context.Context) error {
	return r.step(ctx, "Running the question-answering agent", func(ctx context.Context) error {
		if err := r.ensureData(ctx); err != nil {
			return err
		}
		for _, q := range demoQuestions {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := r.answerQuestion(ctx, q); err != nil {
				return err
			}
		}
		return nil
	})
}

// runAgentSession is the interactive variant: the fixed prompts first, then
// free-form questions until an empty line.
func (r *Runner) runAgentSession(ctx context.Context) error {
	if err := r.runAgentDemo(ctx); err != nil {
		return err
	}

	fmt.Fprintln(r.out, "\nAsk your own questions now. Press Enter on an empty line to go back.")
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		fmt.Fprint(r.out, "\nYour question: ")
		line, err := r.in.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			return nil
		}

		if err := r.answerQuestion(ctx, line); err != nil {
			fmt.Fprintf(r.out, "❌ %v\n", err)
		}
	}
}

func (r *Runner) answerQuestion(ctx context.Context, question string) error {
	fmt.Fprintf(r.out, "\n🔍 Question: %s\n", question)

	ans, err := r.agent.Answer(ctx, question)
	if err != nil {
		return err
	}

	fmt.Fprintf(r.out, "Interpreted as: %s\n", ans.Intent.Label())
	fmt.Fprintf(r.out, "Query:\n%s\n", ans.SQL)

	if ans.Results.Len() == 0 {
		fmt.Fprintln(r.out, "\nNo properties found matching your criteria.")
		return nil
	}
	fmt.Fprintln(r.out)
	WriteTable(r.out, ans.Results)
	return nil
}

func (r *Runner) runAll(ctx context.Context) error {
	if err := r.runSetup(ctx); err != nil {
		if ctx.Err() != nil {
			return err
		}
		fmt.Fprintln(r.out, "\n⚠️ Database setup failed. Continuing anyway.")
	}
	if err := r.runQueries(ctx); err != nil {
		if ctx.Err() != nil {
			return err
		}
		fmt.Fprintln(r.out, "\n⚠️ Query showcase failed. Continuing anyway.")
	}
	if err := r.runAgentDemo(ctx); err != nil {
		if ctx.Err() != nil {
			return err
		}
		fmt.Fprintln(r.out, "\n⚠️ Agent demo failed. Continuing anyway.")
	}

	r.sectionHeader("Demo Complete")
	fmt.Fprintln(r.out, "✅ The homequery multi-model demo has completed.")
	fmt.Fprintln(r.out, "\nYou can rerun the individual components:")
	fmt.Fprintln(r.out, "  homequery demo --batch --component setup")
	fmt.Fprintln(r.out, "  homequery demo --batch --component queries")
	fmt.Fprintln(r.out, "  homequery demo --batch --component agent")
	return nil
}

const bannerWidth = 71

func (r *Runner) banner() {
	lines := []string{
		"",
		"homequery: one table, five query models",
		"",
		"Relational filters, JSON documents, geospatial search, full-text",
		"relevance and vector similarity over one property listings table,",
		"answered the way a GenAI agent would ask for them.",
		"",
	}
	fmt.Fprintf(r.out, "╔%s╗\n", strings.Repeat("═", bannerWidth))
	for _, line := range lines {
		fmt.Fprintf(r.out, "║   %-*s║\n", bannerWidth-3, line)
	}
	fmt.Fprintf(r.out, "╚%s╝\n", strings.Repeat("═", bannerWidth))
}

func (r *Runner) sectionHeader(title string) {
	rule := strings.Repeat("=", 80)
	fmt.Fprintf(r.out, "\n%s\n  %s\n%s\n", rule, title, rule)
}

func (r *Runner) menu() (string, error) {
	rule := strings.Repeat("-", 50)
	fmt.Fprintf(r.out, "\n%s\n", rule)
	fmt.Fprintln(r.out, "homequery Demo Menu")
	fmt.Fprintln(r.out, rule)
	fmt.Fprintln(r.out, "1. Set up the database (create table and sample data)")
	fmt.Fprintln(r.out, "2. Run the multi-model query showcase")
	fmt.Fprintln(r.out, "3. Ask the property agent")
	fmt.Fprintln(r.out, "4. Run everything")
	fmt.Fprintln(r.out, "5. Exit")
	fmt.Fprintln(r.out, rule)
	fmt.Fprint(r.out, "Enter your choice (1-5): ")

	line, err := r.in.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (r *Runner) pause() {
	fmt.Fprint(r.out, "\nPress Enter to continue...")
	_, _ = r.in.ReadString('\n')
	fmt.Fprintln(r.out)
}
