package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/siherrmann/poetry/table"
	"github.com/spf13/cobra"
)

func newConvertCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "convert <dir>",
		Short: "Convert word documents into text files",
		Long: `Convert every .docx file below dir into a .txt file next to it.

The source document is removed afterwards, also when its conversion failed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := opts.newPoetry()
			if err != nil {
				return err
			}

			_, err = p.Convert(args[0])
			return err
		},
	}
}

func newCleanCmd(opts *options) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "clean <dir|s3://bucket/prefix>",
		Short: "Build the deduplicated poem corpus",
		Long: `Read the documents at the location, normalize them, extract title and date,
remove duplicates and near duplicates and write the corpus table.`,
		Example: `  # Clean a local folder into a csv table
  poetry clean ./poems -o poems.csv

  # Clean a bucket prefix into a parquet table
  poetry clean s3://archive/poems -o poems.parquet`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := opts.newPoetry()
			if err != nil {
				return err
			}

			poems, err := p.Clean(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			return table.Write(output, poems, table.PoemColumns...)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", table.PoemsFile+".csv", "Output table (.csv, .parquet or .xlsx)")

	return cmd
}

func newTopicsCmd(opts *options) *cobra.Command {
	var input string
	var output string
	var topicsFile string

	cmd := &cobra.Command{
		Use:   "topics",
		Short: "Assign up to three topics to every poem",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := opts.newPoetry()
			if err != nil {
				return err
			}
			err = p.UseDefaultPipeline()
			if err != nil {
				return err
			}

			poems, err := table.Read(input)
			if err != nil {
				return err
			}

			topics, err := p.AssignTopics(poems)
			if err != nil {
				return err
			}

			if topicsFile != "" {
				err = table.WriteTopics(topicsFile, topics)
				if err != nil {
					return err
				}
			}

			return table.Write(output, poems, table.TopicColumns...)
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", table.PoemsFile+".csv", "Input table written by clean")
	cmd.Flags().StringVarP(&output, "output", "o", table.PoemsWithTopics+".csv", "Output table")
	cmd.Flags().StringVar(&topicsFile, "topics-file", table.TopicsFile, "Write the words of every topic to this json file, empty to skip")

	return cmd
}

func newEmbedCmd(opts *options) *cobra.Command {
	var input string
	var output string

	cmd := &cobra.Command{
		Use:   "embed",
		Short: "Generate an embedding for every poem",
		Long: `Generate an embedding for every poem with the configured sentence transformer.

The model is downloaded into the models directory on first use.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := opts.newPoetry()
			if err != nil {
				return err
			}
			err = p.UseDefaultPipeline()
			if err != nil {
				return err
			}

			poems, err := table.Read(input)
			if err != nil {
				return err
			}

			err = p.GenerateEmbeddings(poems)
			if err != nil {
				return err
			}

			return table.Write(output, poems, table.EmbeddingColumns...)
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", table.PoemsWithTopics+".csv", "Input table written by topics")
	cmd.Flags().StringVarP(&output, "output", "o", table.PoemsWithEmbeddings+".csv", "Output table")

	return cmd
}

func newUploadCmd(opts *options) *cobra.Command {
	var input string

	cmd := &cobra.Command{
		Use:   "upload",
		Short: "Replace the poems table with the content of a table file",
		Long: `Replace the poems table with the content of a table file.

The connection is read from the DATABASE_* environment variables, a .env file
in the working directory is loaded first.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			poems, err := table.Read(input)
			if err != nil {
				return err
			}

			p, err := opts.connect()
			if err != nil {
				return err
			}
			defer p.Close()

			rows, err := p.Upload(cmd.Context(), poems)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Uploaded %d poems\n", rows)
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", table.PoemsWithEmbeddings+".csv", "Input table written by embed")

	return cmd
}

func newRunCmd(opts *options) *cobra.Command {
	var outputDir string
	var format string

	cmd := &cobra.Command{
		Use:   "run <dir|s3://bucket/prefix>",
		Short: "Run all stages and upload the result",
		Example: `  # Run everything and keep the stage files
  poetry run ./poems --output-dir ./out --format parquet`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := opts.connect()
			if err != nil {
				return err
			}
			defer p.Close()

			err = p.UseDefaultPipeline()
			if err != nil {
				return err
			}

			if outputDir == "" {
				rows, err := p.Run(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Uploaded %d poems\n", rows)
				return nil
			}

			tableFormat, err := table.FormatOf("stage." + format)
			if err != nil {
				return err
			}
			err = os.MkdirAll(outputDir, 0750)
			if err != nil {
				return err
			}

			poems, err := p.Clean(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			err = table.Write(table.StagePath(outputDir, table.PoemsFile, tableFormat), poems, table.PoemColumns...)
			if err != nil {
				return err
			}

			topics, err := p.AssignTopics(poems)
			if err != nil {
				return err
			}
			err = table.WriteTopics(filepath.Join(outputDir, table.TopicsFile), topics)
			if err != nil {
				return err
			}
			err = table.Write(table.StagePath(outputDir, table.PoemsWithTopics, tableFormat), poems, table.TopicColumns...)
			if err != nil {
				return err
			}

			err = p.GenerateEmbeddings(poems)
			if err != nil {
				return err
			}
			err = table.Write(table.StagePath(outputDir, table.PoemsWithEmbeddings, tableFormat), poems, table.EmbeddingColumns...)
			if err != nil {
				return err
			}

			rows, err := p.Upload(cmd.Context(), poems)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Uploaded %d poems\n", rows)
			return nil
		},
	}

	cmd.Flags().StringVar(&outputDir, "output-dir", "", "Also write every stage table to this directory")
	cmd.Flags().StringVar(&format, "format", string(table.FormatCSV), "Format of the stage tables (csv, parquet or xlsx)")

	return cmd
}

func newSearchCmd(opts *options) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Find the uploaded poems closest to a query",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := opts.connect()
			if err != nil {
				return err
			}
			defer p.Close()

			err = p.UseDefaultPipeline()
			if err != nil {
				return err
			}

			poems, err := p.Search(cmd.Context(), args[0], limit)
			if err != nil {
				return err
			}

			for i, poem := range poems {
				fmt.Fprintf(cmd.OutOrStdout(), "%d. %s (%s)\n", i+1, poem.Title, poem.ID)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 5, "Number of poems to return")

	return cmd
}
