package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"jobbyResume/internal/app"
	"jobbyResume/internal/config"
	"jobbyResume/internal/database"
	"jobbyResume/internal/ingest"
	"jobbyResume/internal/logger"
	"jobbyResume/internal/search"
)

var rootCmd = &cobra.Command{
	Use:           "jobby-admin",
	Short:         "jobby-admin 提供迁移、单个候选人重建与搜索调试命令",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")

	rootCmd.AddCommand(migrateCmd, reconcileCmd, searchCmd, evaluateCmd)

	reconcileCmd.Flags().Int64("candidate-id", 0, "jobby 平台用户 ID（必填）")
	reconcileCmd.Flags().Bool("blended", false, "把平台数据交给模型与简历融合")
	reconcileCmd.Flags().Bool("reprocess", false, "忽略已存储的记录重新解析")
	_ = reconcileCmd.MarkFlagRequired("candidate-id")

	searchCmd.Flags().String("query", "", "自然语言搜索条件")
	searchCmd.Flags().StringSlice("locations", nil, "地点筛选")
	searchCmd.Flags().StringSlice("experience-levels", nil, "工作经验筛选")
	searchCmd.Flags().StringSlice("soft-skills", nil, "软技能筛选")
	searchCmd.Flags().StringSlice("hard-skills", nil, "硬技能筛选")
	searchCmd.Flags().StringSlice("languages", nil, "语言筛选")
	searchCmd.Flags().StringSlice("certifications", nil, "证书筛选")

	evaluateCmd.Flags().Int64Slice("candidate-ids", nil, "待评估的候选人 ID（必填）")
	evaluateCmd.Flags().String("compare-with", "", "岗位需求描述（必填）")
	_ = evaluateCmd.MarkFlagRequired("candidate-ids")
	_ = evaluateCmd.MarkFlagRequired("compare-with")
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "创建或更新 candidate_resumes 表",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, log, err := setup(cmd)
		if err != nil {
			return err
		}
		db, err := database.InitDatabase(cfg.Database, log)
		if err != nil {
			return err
		}
		if err := database.AutoMigrate(db); err != nil {
			return err
		}
		log.Info("database migrated")
		return nil
	},
}

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "同步解析单个候选人的简历并写入数据库",
	RunE: func(cmd *cobra.Command, _ []string) error {
		id, _ := cmd.Flags().GetInt64("candidate-id")
		blended, _ := cmd.Flags().GetBool("blended")
		reprocess, _ := cmd.Flags().GetBool("reprocess")

		return withServices(cmd, func(ctx context.Context, s *app.Services) error {
			profile, err := s.Pipeline.Process(ctx, ingest.Request{CandidateID: id, Blended: blended, Reprocess: reprocess})
			if err != nil {
				return err
			}
			return printJSON(cmd, profile)
		})
	},
}

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "执行候选人搜索并打印生成的 SQL 与结果",
	RunE: func(cmd *cobra.Command, _ []string) error {
		query, _ := cmd.Flags().GetString("query")
		var filters search.Filters
		filters.Locations, _ = cmd.Flags().GetStringSlice("locations")
		filters.ExperienceLevels, _ = cmd.Flags().GetStringSlice("experience-levels")
		filters.SoftSkills, _ = cmd.Flags().GetStringSlice("soft-skills")
		filters.HardSkills, _ = cmd.Flags().GetStringSlice("hard-skills")
		filters.Languages, _ = cmd.Flags().GetStringSlice("languages")
		filters.Certifications, _ = cmd.Flags().GetStringSlice("certifications")

		return withServices(cmd, func(ctx context.Context, s *app.Services) error {
			res, err := s.Search.Search(ctx, query, filters)
			if err != nil {
				return err
			}
			return printJSON(cmd, res)
		})
	},
}

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "按岗位需求评估一组候选人",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ids, _ := cmd.Flags().GetInt64Slice("candidate-ids")
		requirement, _ := cmd.Flags().GetString("compare-with")

		return withServices(cmd, func(ctx context.Context, s *app.Services) error {
			batch, err := s.Evaluation.EvaluateMany(ctx, ids, requirement)
			if err != nil {
				return err
			}
			return printJSON(cmd, batch)
		})
	},
}

func setup(cmd *cobra.Command) (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	debug, _ := cmd.Flags().GetBool("debug")
	log, err := logger.New(false, debug || cfg.Log.Debug)
	if err != nil {
		return nil, nil, fmt.Errorf("creating a logger: %w", err)
	}
	return cfg, log, nil
}

func withServices(cmd *cobra.Command, fn func(context.Context, *app.Services) error) error {
	cfg, log, err := setup(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	services, err := app.Build(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer services.Close()
	return fn(ctx, services)
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
