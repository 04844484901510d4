// Package main provides the CLI entry point for propgen-go.
package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/rfaguiar/propgen-go/pkg/propgen"
	"github.com/rfaguiar/propgen-go/pkg/propgen/config"
	"github.com/rfaguiar/propgen-go/pkg/propgen/models"
)

var (
	cfgFile      string
	verbose      bool
	outputPath   string
	pretty       bool
	sheetName    string
	allScenarios bool
	dataPath     string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "propgen",
		Short: "Generate proposal documents from budget spreadsheets",
		Long: `propgen-go extracts proposal fields (client, scope, cost, deadline, ...)
from budget spreadsheets and fills DOCX proposal templates by replacing
{{PLACEHOLDER}} tokens.`,
	}

	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default: ./propgen.json or ~/.config/propgen/propgen.json)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	extractCmd := &cobra.Command{
		Use:   "extract [input.xlsx]",
		Short: "Extract proposal data from a budget spreadsheet",
		Args:  cobra.ExactArgs(1),
		RunE:  runExtract,
	}
	extractCmd.Flags().StringVar(&sheetName, "sheet", "", "Sheet name (default: first sheet)")
	extractCmd.Flags().BoolVar(&allScenarios, "all-scenarios", false, "Extract every sheet, keyed by sheet name")
	extractCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path (default: stdout)")
	extractCmd.Flags().BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")

	fillCmd := &cobra.Command{
		Use:   "fill [template.docx]",
		Short: "Fill a proposal template from a JSON data file",
		Args:  cobra.ExactArgs(1),
		RunE:  runFill,
	}
	fillCmd.Flags().StringVar(&dataPath, "data", "", "JSON file with proposal data (required)")
	fillCmd.Flags().StringVarP(&outputPath, "output", "o", "proposta_gerada.docx", "Output document path")
	fillCmd.MarkFlagRequired("data")

	generateCmd := &cobra.Command{
		Use:   "generate [input.xlsx] [template.docx]",
		Short: "Extract from a spreadsheet and fill a template in one pass",
		Args:  cobra.ExactArgs(2),
		RunE:  runGenerate,
	}
	generateCmd.Flags().StringVar(&sheetName, "sheet", "", "Sheet name (default: first sheet)")
	generateCmd.Flags().StringVarP(&outputPath, "output", "o", "proposta_gerada.docx", "Output document path")

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the field mapping configuration",
	}
	configCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Write the default field mappings to a config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigInit,
	})

	rootCmd.AddCommand(extractCmd, fillCmd, generateCmd, configCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("propgen")
		viper.SetConfigType("json")
		viper.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "propgen"))
		}
	}
	viper.SetEnvPrefix("PROPGEN")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		cfgFile = viper.ConfigFileUsed()
		fmt.Fprintln(os.Stderr, "Using config file:", cfgFile)
	}
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

func runExtract(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger()

	var result any
	if allScenarios {
		result, err = propgen.ExtractScenarios(args[0], cfg, logger)
	} else {
		result, err = propgen.ExtractProposal(args[0], sheetName, cfg, logger)
	}
	if err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}

	var jsonData []byte
	if pretty {
		jsonData, err = json.MarshalIndent(result, "", "  ")
	} else {
		jsonData, err = json.Marshal(result)
	}
	if err != nil {
		return fmt.Errorf("serialization failed: %w", err)
	}

	if outputPath != "" {
		if err := os.WriteFile(outputPath, jsonData, 0644); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}
	fmt.Println(string(jsonData))
	return nil
}

func runFill(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	raw, err := os.ReadFile(dataPath)
	if err != nil {
		return fmt.Errorf("reading data file: %w", err)
	}
	var data models.ProposalData
	if err := json.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("decoding data file: %w", err)
	}

	if err := propgen.Generate(args[0], outputPath, data, cfg, newLogger()); err != nil {
		return fmt.Errorf("fill failed: %w", err)
	}
	fmt.Fprintln(os.Stderr, "Proposal written to", outputPath)
	return nil
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger()

	data, err := propgen.ExtractProposal(args[0], sheetName, cfg, logger)
	if err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}
	if err := propgen.Generate(args[1], outputPath, data, cfg, logger); err != nil {
		return fmt.Errorf("generation failed: %w", err)
	}
	fmt.Fprintln(os.Stderr, "Proposal written to", outputPath)
	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := cfgFile
	if path == "" {
		path = "propgen.json"
	}
	if err := config.Default().Save(path); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	fmt.Fprintln(os.Stderr, "Default config written to", path)
	return nil
}
