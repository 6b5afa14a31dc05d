// Package report builds the weekly performance message posted to the team channel.
//
// The message has up to three sections, in this order:
//   - the fleet-wide top performer for the latest week,
//   - the target site's weekly summary with week-over-week deficit,
//   - improvement action items, when the site misses the benchmark.
//
// Each section is computed independently. A failure in one section is turned
// into a one-line substitute text and never prevents the next section.
package report

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"weekly-report/internal/classify"
	"weekly-report/internal/dataset"
	"weekly-report/internal/textbox"

	"github.com/rs/zerolog"
)

// Config holds the report settings. It is built once at start-up.
type Config struct {
	TargetSite  string
	Benchmark   float64
	SiteFile    string // per-site weekly history, includes the percentile column
	FleetFile   string // fleet-wide ranking
	Contact     string
	ActionItems []string
	Columns     dataset.Columns
}

// DefaultActionItems returns the standing guidance shown when a site misses the benchmark.
func DefaultActionItems() []string {
	return []string{
		"• When working on a prompted move in the Valet app, once you hit complete to finish that move, start the next move as soon as possible.",
		"• TAMs should scrub for TAs working/completing hostler moves during clocked out shift breaks in order to reduce inaccurate idle time.",
		"• Ensure TC’s are fully charged before going in the yard to perform hostler moves.",
	}
}

const defaultContact = "[Find on Phonetool/Slack]"

// Generator produces the weekly message from the two input tables.
type Generator struct {
	cfg        Config
	thresholds classify.Thresholds
}

// NewGenerator creates a Generator. Empty Columns, Contact and ActionItems fall back to defaults.
func NewGenerator(cfg Config) *Generator {
	if cfg.Columns == (dataset.Columns{}) {
		cfg.Columns = dataset.DefaultColumns()
	}
	if cfg.Contact == "" {
		cfg.Contact = defaultContact
	}
	if len(cfg.ActionItems) == 0 {
		cfg.ActionItems = DefaultActionItems()
	}
	return &Generator{
		cfg:        cfg,
		thresholds: classify.DefaultThresholds(cfg.Benchmark),
	}
}

// Generate builds the complete message. The output depends only on the input
// tables and the configuration.
func (g *Generator) Generate(ctx context.Context) string {
	return strings.Join(g.Sections(ctx), "\n\n")
}

// Sections returns the message parts in display order.
func (g *Generator) Sections(ctx context.Context) []string {
	logger := zerolog.Ctx(ctx)

	var parts []string
	parts = append(parts, g.topPerformerSection(logger))
	parts = append(parts, g.siteSections(logger)...)
	return parts
}

func (g *Generator) topPerformerSection(logger *zerolog.Logger) string {
	section, err := g.topPerformer()
	if err == nil {
		return section
	}

	logger.Warn().Err(err).Str("path", g.cfg.FleetFile).Msg("Top performer section failed")
	if errors.Is(err, dataset.ErrFileNotFound) {
		return fmt.Sprintf("Error: The file %s was not found.", g.cfg.FleetFile)
	}
	return fmt.Sprintf("An error occurred processing the top performer data: %v", err)
}

// topPerformer picks the first row at the latest period of the fleet table.
// The table is expected to be ranked, so the first row at the latest period is the leader.
func (g *Generator) topPerformer() (string, error) {
	cols := g.cfg.Columns
	tbl, err := dataset.Load(g.cfg.FleetFile, cols.Site, cols.Period, cols.Performance)
	if err != nil {
		return "", err
	}
	if tbl.Len() == 0 {
		return "Could not retrieve Top Performer data.", nil
	}

	week, rows, err := dataset.LatestPeriod(tbl.Rows(), cols.Period)
	if err != nil {
		return "", err
	}
	top := rows[0]

	performance, err := top.Float(cols.Performance)
	if err != nil {
		return "", err
	}

	title := fmt.Sprintf("🏆 *Top Performer (Week %d)* 🏆", week)
	lines := []string{
		fmt.Sprintf("Site: %s", top.Text(cols.Site)),
		fmt.Sprintf("Performance: %.2f", performance),
		fmt.Sprintf("Contact: %s", g.cfg.Contact),
	}
	return titled(title, lines), nil
}

func (g *Generator) siteSections(logger *zerolog.Logger) []string {
	sections, err := g.siteSummary()
	if err == nil {
		return sections
	}

	logger.Warn().Err(err).Str("path", g.cfg.SiteFile).Msg("Site summary section failed")
	if errors.Is(err, dataset.ErrFileNotFound) {
		return []string{fmt.Sprintf("Error: The file %s was not found.", g.cfg.SiteFile)}
	}
	return []string{fmt.Sprintf("An error occurred processing the site data: %v", err)}
}

// Summary holds the derived weekly figures for the target site.
type Summary struct {
	Site        string
	Week        string
	Performance float64
	Severity    classify.Severity
	Percentile  float64 // distance from the top, 100 minus the stored value
	Standing    classify.PercentileClass
	HasPrevious bool
	Deficit     float64
}

// Lines renders the summary box content.
func (s Summary) Lines() []string {
	lines := []string{
		fmt.Sprintf("Week: %s", s.Week),
		fmt.Sprintf("Site Performance: %.2f %s", s.Performance, s.Severity.Marker()),
		fmt.Sprintf("Percentile: %.1f%% (%s)", s.Percentile, s.Standing),
	}
	if s.HasPrevious {
		lines = append(lines, fmt.Sprintf("Weekly Deficit: %+.2f %s", s.Deficit, DeficitLabel(s.Deficit)))
	} else {
		lines = append(lines, "No data for previous week to compare.")
	}
	return lines
}

// DeficitLabel describes a week-over-week change. No change counts as "(Better)".
func DeficitLabel(deficit float64) string {
	if deficit > 0 {
		return "(Worse)"
	}
	return "(Better)"
}

func (g *Generator) siteSummary() ([]string, error) {
	cols := g.cfg.Columns
	site := g.cfg.TargetSite

	tbl, err := dataset.Load(g.cfg.SiteFile, cols.Site, cols.Period, cols.Performance, cols.Percentile)
	if err != nil {
		return nil, err
	}

	rows := tbl.Filter(cols.Site, site)
	if len(rows) == 0 {
		return []string{fmt.Sprintf("No data found for site %s in %s.", site, g.cfg.SiteFile)}, nil
	}

	week, current, err := dataset.LatestPeriod(rows, cols.Period)
	if err != nil {
		return nil, err
	}
	if len(current) == 0 {
		return []string{fmt.Sprintf("No data found for the most recent week for site %s.", site)}, nil
	}
	previous, err := dataset.AtPeriod(rows, cols.Period, week-1)
	if err != nil {
		return nil, err
	}

	s, err := g.summarize(current[0], previous)
	if err != nil {
		return nil, err
	}

	sections := []string{titled(fmt.Sprintf("📊 *%s Weekly Summary* 📊", site), s.Lines())}
	if s.Performance > g.cfg.Benchmark {
		sections = append(sections, titled("📝 *Action Items to Improve Performance* 📝", g.cfg.ActionItems))
	}
	return sections, nil
}

func (g *Generator) summarize(current dataset.Row, previous []dataset.Row) (Summary, error) {
	cols := g.cfg.Columns

	performance, err := current.Float(cols.Performance)
	if err != nil {
		return Summary{}, err
	}
	bottom, err := current.Float(cols.Percentile)
	if err != nil {
		return Summary{}, err
	}
	top := 100 - bottom

	s := Summary{
		Site:        g.cfg.TargetSite,
		Week:        current.Text(cols.Period),
		Performance: performance,
		Severity:    g.thresholds.Weekly(performance),
		Percentile:  top,
		Standing:    classify.Percentile(top),
	}

	if len(previous) > 0 {
		prev, err := previous[0].Float(cols.Performance)
		if err != nil {
			return Summary{}, err
		}
		s.HasPrevious = true
		s.Deficit = performance - prev
	}
	return s, nil
}

// titled puts a bold title line above a boxed block fenced as code.
func titled(title string, lines []string) string {
	return title + "\n```" + textbox.Format(lines) + "```"
}
