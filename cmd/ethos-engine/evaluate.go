// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/ethos-engine/internal/engine"
	"github.com/pdiddy/ethos-engine/internal/ruleconfig"
	"github.com/pdiddy/ethos-engine/internal/store"
	"github.com/pdiddy/ethos-engine/pkg/types"
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate [analysis-file]",
	Short: "Score one analysis document against the configured rule set",
	Long: `Evaluate reads an analysis document (YAML or JSON) holding the linguistic
bundle, entities, concepts, relationships, and emotion vector produced by
the upstream analyzers, evaluates it against the configured rule set, and
prints the unified result: compliance verdict, findings, and the fused
coherence score.

Pass "-" to read the document from stdin. Observed concepts and
relationships are recorded in the concept store unless --no-store is set.`,
	Args: cobra.ExactArgs(1),
	RunE: runEvaluate,
}

func init() {
	evaluateCmd.Flags().Bool("json", false, "output the result as JSON")
	evaluateCmd.Flags().Bool("strict", false, "exit nonzero when the text is non-compliant")
	evaluateCmd.Flags().Bool("no-store", false, "skip recording concepts and relationships")
	evaluateCmd.Flags().String("state-dir", "", "override the store state directory")

	rootCmd.AddCommand(evaluateCmd)
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	req, err := readAnalysis(args[0])
	if err != nil {
		return err
	}

	loader := ruleconfig.NewLoader(configPath())
	if err := loader.Load(); err != nil {
		return err
	}

	var dispatcher engine.Dispatcher
	noStore, _ := cmd.Flags().GetBool("no-store")
	if !noStore {
		storeCfg := loader.Snapshot().Store
		if dir, _ := cmd.Flags().GetString("state-dir"); dir != "" {
			storeCfg.StateDir = dir
		}
		s, err := store.NewStore(storeCfg)
		if err != nil {
			return err
		}
		defer s.Close()

		writer := store.NewAsyncWriter(s, storeCfg)
		defer writer.Close()
		dispatcher = writer
	}

	result, err := engine.New(loader, dispatcher).Process(cmd.Context(), req)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if err := formatResult(result, jsonOutput); err != nil {
		return err
	}

	if strict, _ := cmd.Flags().GetBool("strict"); strict && !result.Compliance.Compliant {
		return fmt.Errorf("%d violation(s) found", len(result.Compliance.Violations))
	}
	return nil
}

// readAnalysis parses an analysis document from path, or stdin for "-".
// JSON documents are detected by a leading brace; everything else parses
// as YAML.
func readAnalysis(path string) (types.AnalysisRequest, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return types.AnalysisRequest{}, fmt.Errorf("reading analysis document: %w", err)
	}

	var req types.AnalysisRequest
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "{") {
		err = json.Unmarshal(data, &req)
	} else {
		err = yaml.Unmarshal(data, &req)
	}
	if err != nil {
		return types.AnalysisRequest{}, fmt.Errorf("parsing analysis document: %w", err)
	}
	return req, nil
}

func formatResult(result types.FusionResult, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	verdict := "compliant"
	if !result.Compliance.Compliant {
		verdict = "NON-COMPLIANT"
	}
	fmt.Printf("verdict:   %s\n", verdict)
	fmt.Printf("coherence: %.4f\n", result.Coherence)

	if len(result.Compliance.Violations) > 0 {
		fmt.Println("\nviolations:")
		printFindings(result.Compliance.Violations)
	}
	if len(result.Compliance.Warnings) > 0 {
		fmt.Println("\nwarnings:")
		printFindings(result.Compliance.Warnings)
	}
	if len(result.Compliance.RequiredValuesPresent) > 0 {
		fmt.Printf("\nvirtues present: %s\n", strings.Join(result.Compliance.RequiredValuesPresent, ", "))
	}

	fmt.Printf("\nconcepts: %d, entities: %d, relationships: %d, findings: %d\n",
		result.ConceptCount, result.EntityCount, result.RelationshipCount, result.FindingCount)
	return nil
}

func printFindings(findings []types.Finding) {
	for _, f := range findings {
		fmt.Printf("  [%s] %s\n", f.RuleKind, f.Reason)
	}
}
