package main

import (
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/siherrmann/poetry"
	"github.com/siherrmann/poetry/helper"
	"github.com/siherrmann/poetry/model"
	"github.com/spf13/cobra"
)

// options are the global flags shared by all stages.
type options struct {
	configPath  string
	verbose     bool
	metricsFile string

	metrics *helper.Metrics
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "poetry",
		Short: "Poem corpus pipeline from raw documents to a vector store",
		Long: `Poetry turns a folder or bucket of poem documents into a clean corpus.

Every stage reads the table written by the previous one, so stages can be rerun
on their own: convert, clean, topics, embed and upload. The run command executes
all of them in memory.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if opts.metricsFile == "" {
				return nil
			}
			return opts.metrics.WriteToTextfile(opts.metricsFile)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Path to a yaml pipeline configuration")
	cmd.PersistentFlags().BoolVar(&opts.verbose, "verbose", false, "Verbose logging")
	cmd.PersistentFlags().StringVar(&opts.metricsFile, "metrics-file", "", "Write prometheus metrics of the run to this textfile")

	cmd.AddCommand(newConvertCmd(opts))
	cmd.AddCommand(newCleanCmd(opts))
	cmd.AddCommand(newTopicsCmd(opts))
	cmd.AddCommand(newEmbedCmd(opts))
	cmd.AddCommand(newUploadCmd(opts))
	cmd.AddCommand(newRunCmd(opts))
	cmd.AddCommand(newSearchCmd(opts))

	return cmd
}

// newPoetry creates the pipeline from the global flags.
func (o *options) newPoetry() (*poetry.Poetry, error) {
	config, err := model.LoadPipelineConfig(o.configPath)
	if err != nil {
		return nil, err
	}

	level := slog.LevelInfo
	if o.verbose {
		level = slog.LevelDebug
	}
	o.metrics = helper.NewMetrics()

	return poetry.NewPoetry(config, helper.NewLogger(level), o.metrics)
}

// connect creates the pipeline and connects it to the database of the environment.
func (o *options) connect() (*poetry.Poetry, error) {
	p, err := o.newPoetry()
	if err != nil {
		return nil, err
	}

	dbConfig, err := helper.NewDatabaseConfiguration()
	if err != nil {
		return nil, err
	}

	err = p.Connect(dbConfig)
	if err != nil {
		return nil, err
	}

	return p, nil
}
