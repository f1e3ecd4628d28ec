// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/ethos-engine/internal/ruleconfig"
	"github.com/pdiddy/ethos-engine/internal/store"
)

var conceptsCmd = &cobra.Command{
	Use:   "concepts",
	Short: "Query the persisted concept frequencies",
	Long: `Concepts lists the deduplicated concepts the engine has observed across
evaluations, ordered by sighting frequency.`,
	RunE: runConcepts,
}

func init() {
	conceptsCmd.Flags().Int("limit", 20, "maximum number of concepts to list")
	conceptsCmd.Flags().Bool("json", false, "output concepts as JSON")
	conceptsCmd.Flags().String("state-dir", "", "override the store state directory")

	rootCmd.AddCommand(conceptsCmd)
}

func runConcepts(cmd *cobra.Command, args []string) error {
	loader := ruleconfig.NewLoader(configPath())
	if err := loader.Load(); err != nil {
		return err
	}

	storeCfg := loader.Snapshot().Store
	if dir, _ := cmd.Flags().GetString("state-dir"); dir != "" {
		storeCfg.StateDir = dir
	}

	s, err := store.NewStore(storeCfg)
	if err != nil {
		return err
	}
	defer s.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	records, err := s.TopConcepts(context.Background(), limit)
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}

	if len(records) == 0 {
		fmt.Println("No concepts recorded.")
		return nil
	}

	fmt.Printf("%-30s  %-12s  %-12s  %s\n", "Name", "Type", "Category", "Frequency")
	for _, rec := range records {
		fmt.Printf("%-30s  %-12s  %-12s  %d\n", rec.Name, rec.EntityType, rec.Category, rec.Frequency)
	}
	return nil
}
