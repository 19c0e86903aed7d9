package cmd

import (
	"io"

	"github.com/awxops/igsync/internal/cmd/common"
	segmentcli "github.com/segmentio/cli"
	"sigs.k8s.io/yaml"
)

// PrintFormatted renders data in the requested machine-readable format.
// Text output is command-specific and handled by the callers.
func PrintFormatted(format common.OutputFormat, out io.Writer, data any) error {
	if format == common.YAML {
		encoded, err := yaml.Marshal(data)
		if err != nil {
			return err
		}
		_, err = out.Write(encoded)
		return err
	}

	printer, err := segmentcli.Format(common.JSON.String(), out)
	if err != nil {
		return err
	}
	printer.Print(data)
	return nil
}
