package command

import (
	"github.com/frantjc/bundo/bundle"
	"github.com/frantjc/bundo/split"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// NewVariants returns the command which prints the variants that
// an app bundle would be built into.
func NewVariants() *cobra.Command {
	return &cobra.Command{
		Use:           "variants bundle",
		Short:         "Print the variants an app bundle partitions the device space into",
		Args:          cobra.ExactArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			bndl, err := bundle.ReadBundle(args[0])
			if err != nil {
				return err
			}

			variants, err := split.GenerateVariantTargetings(bndl.Modules)
			if err != nil {
				return err
			}

			type variant struct {
				SDKVersion             int   `yaml:"sdkVersion"`
				AlternativeSDKVersions []int `yaml:"alternativeSdkVersions,omitempty"`
				RequiresSDKRuntime     bool  `yaml:"requiresSdkRuntime,omitempty"`
			}

			out := make([]variant, 0, len(variants))
			for _, v := range variants {
				out = append(out, variant{
					SDKVersion:             v.SDKVersion,
					AlternativeSDKVersions: v.AlternativeSDKVersions,
					RequiresSDKRuntime:     v.RequiresSDKRuntime,
				})
			}

			enc := yaml.NewEncoder(cmd.OutOrStdout())
			if err = enc.Encode(out); err != nil {
				return err
			}

			return enc.Close()
		},
	}
}
