// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/ethos-engine/internal/ruleconfig"
	"github.com/pdiddy/ethos-engine/pkg/types"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Validate and inspect the configured rule set",
}

var rulesValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the rule set and weights for configuration errors",
	Long: `Validate loads the engine configuration and reports the first problem
found: an unknown rule kind or severity, a threshold outside [0,1], a rule
missing its required fields, or weights that do not sum to 1.0.`,
	RunE: runRulesValidate,
}

var rulesShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the active rule set",
	RunE:  runRulesShow,
}

func init() {
	rulesShowCmd.Flags().Bool("json", false, "output the rule set as JSON")

	rulesCmd.AddCommand(rulesValidateCmd)
	rulesCmd.AddCommand(rulesShowCmd)
	rootCmd.AddCommand(rulesCmd)
}

func runRulesValidate(cmd *cobra.Command, args []string) error {
	loader := ruleconfig.NewLoader(configPath())
	if err := loader.Load(); err != nil {
		return err
	}
	fmt.Printf("configuration valid: %d rules\n", len(loader.Snapshot().Rules))
	return nil
}

func runRulesShow(cmd *cobra.Command, args []string) error {
	loader := ruleconfig.NewLoader(configPath())
	if err := loader.Load(); err != nil {
		return err
	}
	set := loader.Snapshot().Rules

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(set)
	}

	if len(set) == 0 {
		fmt.Println("No rules configured.")
		return nil
	}

	for i, rule := range set {
		fmt.Printf("%2d  %-22s %s\n", i+1, rule.Kind, describeRule(rule))
	}
	return nil
}

func describeRule(rule types.Rule) string {
	switch rule.Kind {
	case types.RuleProhibitedConcept, types.RuleRequiredVirtue:
		return strings.Join(rule.Lemmas, ", ")
	case types.RuleEmotionThreshold:
		return fmt.Sprintf("%s > %.2f (%s)", rule.Emotion, rule.Threshold, rule.Severity)
	case types.RuleEmotionCombination:
		return fmt.Sprintf("%s jointly > %.2f (%s)", strings.Join(rule.Emotions, "+"), rule.JointThreshold, rule.Severity)
	case types.RuleRelationshipPattern:
		return fmt.Sprintf("%s (%s)", strings.Join(rule.PredicateLemmas, ", "), rule.Severity)
	case types.RuleCommandPattern:
		return strings.Join(rule.POSSequence, " ")
	default:
		return ""
	}
}
