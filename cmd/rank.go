package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/skills-matcher/internal/candidates"
	"github.com/spigell/skills-matcher/internal/filtering"
	"github.com/spigell/skills-matcher/internal/logger"
	"github.com/spigell/skills-matcher/internal/matching"
	"github.com/spigell/skills-matcher/internal/report"
	"github.com/spigell/skills-matcher/internal/requirements"
)

const excludeReason = "listed in ranking"

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Rank candidates against the requested skills",
	Run: func(cmd *cobra.Command, _ []string) {
		rank(cmd)
	},
}

func init() {
	rootCmd.AddCommand(rankCmd)
	addRankFlags(rankCmd)

	viper.BindPFlag("candidates", rankCmd.Flags().Lookup("candidates"))
	viper.BindPFlag("x-const", rankCmd.Flags().Lookup("x-const"))
	viper.BindPFlag("output.format", rankCmd.Flags().Lookup("format"))
	viper.BindPFlag("output.file", rankCmd.Flags().Lookup("output-file"))
	viper.BindPFlag("exclude-file", rankCmd.Flags().Lookup("exclude-file"))
	viper.BindPFlag("skills-map", rankCmd.Flags().Lookup("skills-map"))
}

func addRankFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("candidates", "c", "", "candidate pool file (.csv or .json)")
	cmd.Flags().StringP("requirements", "r", "", "requirements document (.json)")
	cmd.Flags().StringArrayP("skill", "s", nil, "requested skill as Name[=level[:weight]], repeatable; overrides other requirement sources")
	cmd.Flags().Float64("x-const", matching.DefaultXConst, "penalty for a requested skill the candidate does not have")
	cmd.Flags().StringP("format", "o", report.FormatTable, "output format: table, csv or json")
	cmd.Flags().String("output-file", "", "write the ranking to a file instead of stdout")
	cmd.Flags().StringSlice("extra-column", nil, "additional columns to display")
	cmd.Flags().StringP("exclude-file", "e", "", "file with candidates to exclude. Default is unset.")
	cmd.Flags().StringSlice("disable-filter", nil, "names of pre-scoring filters to disable")
	cmd.Flags().Int("top", 0, "show only the first N candidates (0 shows all)")
	cmd.Flags().Bool("append-to-exclude-file", false, "append every listed candidate to the exclude file")
	cmd.Flags().BoolP("auto-approve", "y", false, "do not ask what to do with the ranking")
	cmd.Flags().String("skills-map", "", "JSON file mapping skill display names to column names")
}

// rank is the main command for the cli.
func rank(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	defer logger.Sync()

	config, err := getConfig(viper.GetViper())
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	if err := runRank(ctx, cmd, config, logger, terminalPrompter{}, os.Stdout); err != nil {
		logger.Fatal("ranking failed", zap.Error(err))
	}
}

// runRank scores the pool and writes the ranking to out or the output file.
// Unless auto-approve is set, p is then asked for follow-up actions; a nil p
// skips the prompt.
func runRank(ctx context.Context, cmd *cobra.Command, config *Config, log *zap.Logger, p prompter, out io.Writer) error {
	names, err := loadSkillNames(config.SkillsMap)
	if err != nil {
		return err
	}

	reqs, err := resolveRequirements(cmd, config)
	if err != nil {
		return err
	}
	for i := range reqs {
		reqs[i].Skill = names.Column(strings.TrimSpace(reqs[i].Skill))
	}

	baseline, err := matching.NewBaseline(reqs)
	if err != nil {
		return err
	}

	log = logger.WithRunFields(log, uuid.NewString(), baseline.Skills())
	log.Info("starting the ranking", zap.String("version", version), zap.Int("skills", baseline.Len()))

	if strings.TrimSpace(config.Candidates) == "" {
		return errors.New("candidate pool is required: set --candidates or the 'candidates' key in the configuration file")
	}

	pool, err := candidates.LoadFile(config.Candidates, config.Columns.ID)
	if err != nil {
		return fmt.Errorf("loading candidates: %w", err)
	}
	log.Info("loaded candidates", zap.Int("count", pool.Len()), zap.Int("known_skills", len(pool.Skills)))

	steps := prepareFilters(cmd)
	pool, err = filtering.Run(ctx, filterConfig(config, pool), filtering.Deps{Logger: log}, steps, pool)
	if err != nil {
		return fmt.Errorf("filtering failed: %w", err)
	}
	for _, status := range filtering.Describe(steps) {
		log.Debug("filter status",
			zap.String("name", status.Name),
			zap.Bool("enabled", status.Enabled),
			zap.String("reason", status.Reason),
			zap.Any("details", status.Details),
		)
	}

	if added := pool.Normalize(baseline.Skills(), sentinels(config)); len(added) > 0 {
		log.Warn("backfilled missing skill columns", zap.Strings("skills", added))
	}

	matchCfg := matchConfig(cmd, config)
	if col := strings.TrimSpace(config.Columns.OtherSkills); col != "" {
		pool.AnnotateOtherSkills(col, baseline.Skills(), matchCfg.Sentinels, names)
		matchCfg.ExtraColumns = append(matchCfg.ExtraColumns, col)
	}

	table, stats, err := matching.Match(baseline, pool.Candidates, matchCfg)
	if err != nil {
		return err
	}

	log.Info("scoring finished",
		zap.Int("initial", stats.Overlap.Initial),
		zap.Int("dropped_no_overlap", stats.Overlap.Dropped),
		zap.Int("ranked", stats.Overlap.Left),
		zap.Bool("mahalanobis", stats.MahalanobisUsed),
		zap.Int("covariance_rank", stats.CovarianceRank),
	)
	if !stats.MahalanobisUsed && table.Len() > 0 {
		log.Debug("covariance matrix is singular, scores average euclidean and manhattan only")
	}

	log.Debug("ranked columns", zap.String("columns", logger.TruncateForLog(strings.Join(table.Columns, ","), 200)))

	report.Sort(table, config.Sort)
	if top, _ := cmd.Flags().GetInt("top"); top > 0 && top < table.Len() {
		table.Rows = table.Rows[:top]
	}

	r := &ranking{
		table:  table,
		config: config,
		opts:   reportOptions(table, baseline, config, names),
		out:    out,
	}

	if err := writeReport(r, log); err != nil {
		return err
	}

	if appendExcl, _ := cmd.Flags().GetBool("append-to-exclude-file"); appendExcl {
		if err := appendToExcludeFile(config.ExcludeFile, table, log); err != nil {
			return err
		}
	}

	if autoApprove, _ := cmd.Flags().GetBool("auto-approve"); autoApprove || p == nil || table.Len() == 0 {
		return nil
	}

	return interact(p, r, log)
}

func loadSkillNames(path string) (candidates.SkillNames, error) {
	if strings.TrimSpace(path) == "" {
		return nil, nil
	}

	names, err := candidates.LoadSkillsMap(path)
	if err != nil {
		return nil, fmt.Errorf("loading skills map: %w", err)
	}
	return names, nil
}

func resolveRequirements(cmd *cobra.Command, config *Config) ([]matching.Requirement, error) {
	if values, _ := cmd.Flags().GetStringArray("skill"); len(values) > 0 {
		return requirements.ParseFlags(values)
	}

	if path, _ := cmd.Flags().GetString("requirements"); path != "" {
		return requirements.LoadFile(path)
	}

	if len(config.Requirements) > 0 {
		return requirements.Decode(config.Requirements)
	}

	return nil, errors.New("no requirements: use --skill, --requirements or the 'requirements' key in the configuration file")
}

func sentinels(config *Config) matching.Sentinels {
	return matching.Sentinels{
		PresentLevelMissing: config.Sentinels.PresentLevelMissing,
		AbsentLevelMissing:  config.Sentinels.AbsentLevelMissing,
	}
}

func matchConfig(cmd *cobra.Command, config *Config) matching.Config {
	extra := append([]string(nil), config.Columns.Extra...)
	if cmd != nil {
		if cols, _ := cmd.Flags().GetStringSlice("extra-column"); len(cols) > 0 {
			extra = append(extra, cols...)
		}
	}

	return matching.Config{
		XConst:         config.XConst,
		Sentinels:      sentinels(config),
		DefaultColumns: config.Columns.Default,
		ExtraColumns:   extra,
		ScoreColumn:    config.Columns.Score,
	}
}

// filterConfig maps attribute names back to pool columns; viper lowercases map keys.
func filterConfig(config *Config, pool *candidates.Pool) *filtering.Config {
	cfg := &filtering.Config{ExcludeFile: config.ExcludeFile}
	if config.Exclude != nil {
		cfg.Attributes = make(map[string][]string, len(config.Exclude.Attributes))
		for key, values := range config.Exclude.Attributes {
			cfg.Attributes[resolveColumn(key, pool.Columns)] = values
		}
	}
	return cfg
}

func resolveColumn(key string, columns []string) string {
	for _, col := range columns {
		if strings.EqualFold(col, key) {
			return col
		}
	}
	return key
}

func prepareFilters(cmd *cobra.Command) []filtering.Filter {
	steps := []filtering.Filter{
		filtering.NewExcludeFile(),
		filtering.NewAttributes(),
	}

	if cmd != nil {
		if names, _ := cmd.Flags().GetStringSlice("disable-filter"); len(names) > 0 {
			for _, name := range names {
				filtering.DisableByName(steps, strings.TrimSpace(name), "disabled via flag")
			}
		}
	}

	return steps
}

// reportOptions resolves header renames against the table columns. Level
// columns without an explicit rename are headed by the skill display name.
func reportOptions(table *matching.Table, baseline *matching.Baseline, config *Config, names candidates.SkillNames) report.Options {
	headers := make(map[string]string, len(config.Columns.Headers))
	for key, value := range config.Columns.Headers {
		headers[resolveColumn(key, table.Columns)] = value
	}

	levelCols := make([]string, 0, baseline.Len())
	for _, skill := range baseline.Skills() {
		col := matching.LevelColumn(skill)
		levelCols = append(levelCols, col)
		if _, ok := headers[col]; !ok && names.Display(skill) != skill {
			headers[col] = names.Display(skill)
		}
	}

	return report.Options{
		Headers:      headers,
		LevelColumns: levelCols,
		Sentinels:    sentinels(config),
	}
}

func writeReport(r *ranking, log *zap.Logger) error {
	if path := strings.TrimSpace(r.config.Output.File); path != "" {
		return writeReportFile(path, r, log)
	}

	if err := report.Write(r.out, r.config.Output.Format, r.table, r.opts); err != nil {
		return fmt.Errorf("writing ranking: %w", err)
	}
	return nil
}

func writeReportFile(path string, r *ranking, log *zap.Logger) error {
	if path == "" {
		return errors.New("output file name is empty")
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer file.Close()

	log.Info("writing ranking to file", zap.String("filename", path), zap.Int("count", r.table.Len()))
	if err := report.Write(file, r.config.Output.Format, r.table, r.opts); err != nil {
		return fmt.Errorf("writing ranking: %w", err)
	}
	return file.Close()
}

func appendToExcludeFile(path string, table *matching.Table, log *zap.Logger) error {
	if strings.TrimSpace(path) == "" {
		return errors.New("--append-to-exclude-file requires an exclude file")
	}

	excluded, err := candidates.GetExcludedFromFile(path)
	if errors.Is(err, os.ErrNotExist) {
		excluded, err = &candidates.ExcludedCandidates{}, nil
	}
	if err != nil {
		return err
	}

	ids := make([]string, 0, table.Len())
	names := make(map[string]string, table.Len())
	for _, rec := range table.Rows {
		ids = append(ids, rec.Candidate.ID)
		names[rec.Candidate.ID], _ = rec.Candidate.Attribute("name")
	}

	excluded.Append(candidates.ToExcluded(ids, names, excludeReason))
	if err := excluded.ToFile(path); err != nil {
		return err
	}

	log.Info("appended to exclude file", zap.String("filename", path), zap.Int("count", len(ids)))
	return nil
}
