package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/RustedBytes/extract-audio/domain/extract"
	"github.com/RustedBytes/extract-audio/infrastructure/config"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"
)

// Prompter interface for interactive prompts (allows mocking in tests)
type Prompter interface {
	Input(message string, defaultValue string) (string, error)
	Confirm(message string, defaultValue bool) (bool, error)
}

// SurveyPrompter implements Prompter using the survey library
type SurveyPrompter struct{}

func (p *SurveyPrompter) Input(message string, defaultValue string) (string, error) {
	result := ""
	prompt := &survey.Input{
		Message: message,
		Default: defaultValue,
	}
	if err := survey.AskOne(prompt, &result); err != nil {
		return "", err
	}
	return result, nil
}

func (p *SurveyPrompter) Confirm(message string, defaultValue bool) (bool, error) {
	result := defaultValue
	prompt := &survey.Confirm{
		Message: message,
		Default: defaultValue,
	}
	if err := survey.AskOne(prompt, &result); err != nil {
		return false, err
	}
	return result, nil
}

// DefaultPrompter is the prompter used in production
var DefaultPrompter Prompter = &SurveyPrompter{}

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Create configuration file interactively",
	Long: `Prompts for configuration values and creates config.yaml.

The config file supplies defaults for the extraction flags (output
directory, metadata file, format, thread count), so routine runs only
need --input or --input-dir.`,
	RunE: runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, args []string) error {
	return RunSetupWithPrompter(DefaultPrompter, "config/config.yaml")
}

// RunSetupWithPrompter runs the setup with a given prompter (for testing)
func RunSetupWithPrompter(prompter Prompter, configPath string) error {
	// Check if config already exists
	if _, err := os.Stat(configPath); err == nil {
		overwrite, err := prompter.Confirm("config.yaml already exists. Overwrite?", false)
		if err != nil {
			return fmt.Errorf("prompt cancelled")
		}
		if !overwrite {
			fmt.Println("Setup cancelled.")
			return nil
		}
	}

	outputDir, err := prompter.Input("Directory for extracted audio files:", "out")
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}

	metadataFile, err := prompter.Input("CSV metadata file (empty to disable):", "")
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}

	formatName, err := prompter.Input("Input format (arrow or parquet):", string(extract.DefaultFormat))
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	format, err := extract.ParseFormat(formatName)
	if err != nil {
		return err
	}

	threadsValue, err := prompter.Input("Number of extraction workers:", strconv.Itoa(config.DefaultThreads))
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	threads, err := strconv.Atoi(threadsValue)
	if err != nil || threads < 1 {
		return fmt.Errorf("invalid thread count %q", threadsValue)
	}

	skipFailed, err := prompter.Confirm("Continue with remaining shards when one fails?", false)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}

	cfg := &config.Config{
		Output: config.OutputConfig{
			Directory:    outputDir,
			MetadataFile: metadataFile,
		},
		Extraction: config.ExtractionConfig{
			Format:           string(format),
			Threads:          threads,
			SkipFailedShards: skipFailed,
		},
	}

	if dir := filepath.Dir(configPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	if err := config.Save(cfg, configPath); err != nil {
		return err
	}

	fmt.Printf("Configuration written to %s\n", configPath)
	return nil
}
