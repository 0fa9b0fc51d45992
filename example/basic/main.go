package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/siherrmann/poetry"
	"github.com/siherrmann/poetry/helper"
	"github.com/siherrmann/poetry/model"
)

var samplePoems = map[string]string{
	"autumn.txt": `Autumn Leaves
12.10.1998

The leaves are falling one by one,
the summer days are past and done.`,
	"autumn-draft.txt": `Autumn Leaves

The leaves are falling one by one,
the summer days are past.`,
	"sea.txt": `The sea at night
is a dark and quiet field
where the moon goes walking.`,
}

func main() {
	// Start a test PostgreSQL container
	teardown, dbPort, err := helper.MustStartPostgresContainer()
	if err != nil {
		log.Fatalf("Failed to start PostgreSQL container: %v", err)
	}
	defer teardown(context.Background())

	// Create database configuration using the container port
	dbConfig := &helper.DatabaseConfiguration{
		Host:     "localhost",
		Port:     dbPort,
		Database: "database",
		Username: "user",
		Password: "password",
		Schema:   "public",
		SSLMode:  "disable",
	}

	// Write the sample poems into a folder
	dir, err := os.MkdirTemp("", "poems")
	if err != nil {
		log.Fatalf("Failed to create folder: %v", err)
	}
	defer os.RemoveAll(dir)
	for name, content := range samplePoems {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0600); err != nil {
			log.Fatalf("Failed to write poem: %v", err)
		}
	}

	config := model.DefaultPipelineConfig()
	config.Topics.Count = 2

	p, err := poetry.NewPoetry(config, nil, helper.NewMetrics())
	if err != nil {
		log.Fatalf("Failed to create poetry: %v", err)
	}

	if err := p.Connect(dbConfig); err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	defer p.Close()

	// Set up the default pipeline (LDA topics + embeddings)
	if err := p.UseDefaultPipeline(); err != nil {
		log.Fatalf("Failed to set up pipeline: %v", err)
	}

	fmt.Println("Running pipeline...")
	rows, err := p.Run(context.Background(), dir)
	if err != nil {
		log.Fatalf("Failed to run pipeline: %v", err)
	}
	fmt.Printf("Uploaded %d poems\n", rows)

	queryText := "moonlight over the water"
	fmt.Printf("\nQuerying: %s\n", queryText)

	results, err := p.Search(context.Background(), queryText, 2)
	if err != nil {
		log.Fatalf("Failed to search: %v", err)
	}

	// Display results
	fmt.Printf("\nFound %d results:\n", len(results))
	for i, poem := range results {
		fmt.Printf("\n--- Result %d ---\n", i+1)
		fmt.Printf("Title: %s\n", poem.Title)
		if poem.Date != nil {
			fmt.Printf("Date: %s\n", poem.Date.Format(model.DateLayout))
		}
		fmt.Printf("Topics: %v\n", poem.Topics())
		fmt.Printf("Text:\n%s\n", poem.Text)
	}

	fmt.Println("\nBasic example completed successfully!")
}
