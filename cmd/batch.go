package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tanq16/ytbulk/internal/utils"
	"gopkg.in/yaml.v3"
)

// BatchFile is the YAML layout of a non-interactive batch.
type BatchFile struct {
	Type    string   `yaml:"type"`
	Quality string   `yaml:"quality,omitempty"`
	Output  string   `yaml:"output,omitempty"`
	Links   []string `yaml:"links"`
}

func newBatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch [YAML_FILE]",
		Short: "Process a list of downloads described in a YAML file",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			req, err := readBatchFile(args[0])
			exitOnError(err)
			if _, err := utils.BuildJobs(req); err != nil {
				exitOnError(err)
			}
			_, err = dispatch(cmd.Context(), req, newDownloader())
			exitOnError(err)
		},
	}
	return cmd
}

func readBatchFile(path string) (utils.BatchRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return utils.BatchRequest{}, fmt.Errorf("error reading YAML file: %w", err)
	}
	var batchFile BatchFile
	if err := yaml.Unmarshal(data, &batchFile); err != nil {
		return utils.BatchRequest{}, fmt.Errorf("error parsing YAML file: %w", err)
	}
	return batchFile.request()
}

// request turns the file into a batch request. Video without a quality gets
// the lowest tier, the same default the prompts offer.
func (b BatchFile) request() (utils.BatchRequest, error) {
	modeName := b.Type
	if modeName == "" {
		modeName = "audio"
	}
	mode, err := utils.ParseMode(modeName)
	if err != nil {
		return utils.BatchRequest{}, err
	}
	quality, err := resolveQuality(nil, mode, b.Quality, "")
	if err != nil {
		return utils.BatchRequest{}, err
	}
	output := b.Output
	if output == "" {
		output = cfg.BulkDir
	}
	return utils.BatchRequest{
		TargetList:  b.Links,
		Mode:        mode,
		Quality:     quality,
		Destination: output,
		AudioFormat: cfg.AudioFormat,
	}, nil
}
