package command

import (
	"fmt"
	"os"

	"github.com/frantjc/bundo"
	"github.com/frantjc/bundo/bundle"
	"github.com/frantjc/bundo/internal/bundoblob"
	"github.com/frantjc/bundo/shard"
	"github.com/frantjc/bundo/split"
	"github.com/frantjc/bundo/targeting"
	xslice "github.com/frantjc/x/slice"
	"github.com/spf13/cobra"
	"gocloud.dev/blob"
	"golang.org/x/sync/errgroup"
)

// NewBuild returns the command which generates a device-specific
// APK set from an app bundle and writes it to a bucket.
func NewBuild() *cobra.Command {
	var (
		output         string
		deviceSpecPath string
		standalone     bool
		universal      bool
		cmd            = &cobra.Command{
			Use:           "build bundle",
			Short:         "Generate an APK set from an app bundle",
			Args:          cobra.ExactArgs(1),
			SilenceErrors: true,
			SilenceUsage:  true,
			RunE: func(cmd *cobra.Command, args []string) error {
				var (
					ctx = cmd.Context()
					log = bundo.LoggerFrom(ctx)
				)

				if standalone && universal {
					return fmt.Errorf("--standalone and --universal are mutually exclusive")
				}

				log.Info("reading bundle " + args[0])
				bndl, err := bundle.ReadBundle(args[0])
				if err != nil {
					return err
				}

				var device *targeting.DeviceSpec
				if deviceSpecPath != "" {
					f, err := os.Open(deviceSpecPath)
					if err != nil {
						return err
					}

					device, err = targeting.DecodeDeviceSpec(f)
					_ = f.Close()
					if err != nil {
						return err
					}
				}

				log.Info("opening bucket " + output)
				bucket, err := blob.OpenBucket(ctx, output)
				if err != nil {
					return err
				}
				defer bucket.Close()

				toc := &bundoblob.TOC{}

				switch {
				case universal:
					apk, err := shard.GenerateUniversalApk(ctx, bndl, shard.NewMerger())
					if err != nil {
						return err
					}

					key := bundoblob.UniversalAPKKey()
					if err = bundoblob.WriteAPK(ctx, bucket, key, apk.Entries); err != nil {
						return err
					}

					toc.Universal = key
				case standalone:
					apks, err := shard.GenerateStandaloneApks(ctx, bndl, device, shard.NewMerger())
					if err != nil {
						return err
					}

					for _, apk := range apks {
						key := bundoblob.StandaloneAPKKey(apk.Suffix)
						log.V(1).Info("writing " + key)
						if err = bundoblob.WriteAPK(ctx, bucket, key, apk.Entries); err != nil {
							return err
						}

						toc.Standalones = append(toc.Standalones, bundoblob.TOCEntry{
							Key:       key,
							Targeting: apk.Targeting.String(),
						})
					}
				default:
					splits, err := generateSplits(bndl, device)
					if err != nil {
						return err
					}

					for _, s := range splits {
						key := bundoblob.SplitAPKKey(s.VariantTargeting.String(), s.ModuleName, s.Suffix())
						log.V(1).Info("writing " + key)
						if err = bundoblob.WriteAPK(ctx, bucket, key, s.Entries); err != nil {
							return err
						}

						toc.Splits = append(toc.Splits, bundoblob.TOCEntry{
							Key:       key,
							Module:    s.ModuleName,
							Variant:   s.VariantTargeting.String(),
							Targeting: s.ApkTargeting.String(),
						})
					}
				}

				return bundoblob.WriteTOC(ctx, bucket, toc)
			},
		}
	)

	cmd.Flags().StringVarP(&output, "output", "o", "file://.", "bucket URL to write the APK set to")
	cmd.Flags().StringVar(&deviceSpecPath, "device-spec", "", "YAML device spec to filter the APK set for")
	cmd.Flags().BoolVar(&standalone, "standalone", false, "generate standalone APKs instead of splits")
	cmd.Flags().BoolVar(&universal, "universal", false, "generate a single universal APK")

	return cmd
}

// generateSplits runs the split generation engine. The engine is
// purely functional over immutable inputs, so the (module, variant)
// pairs are fanned out and joined deterministically here.
func generateSplits(bndl *bundle.Bundle, device *targeting.DeviceSpec) ([]split.ModuleSplit, error) {
	variants, err := split.GenerateVariantTargetings(bndl.Modules)
	if err != nil {
		return nil, err
	}

	if device != nil {
		variants = xslice.Filter(variants, func(variant targeting.VariantTargeting, _ int) bool {
			return device.MatchesVariant(variant)
		})
	}

	type pair struct {
		variant targeting.VariantTargeting
		module  *bundle.Module
	}

	pairs := []pair{}
	for _, variant := range variants {
		for i := range bndl.Modules {
			if split.Applicable(&bndl.Modules[i], variant) {
				pairs = append(pairs, pair{variant: variant, module: &bndl.Modules[i]})
			}
		}
	}

	var (
		eg      = &errgroup.Group{}
		results = make([][]split.ModuleSplit, len(pairs))
	)

	for i, p := range pairs {
		eg.Go(func() error {
			splits, err := split.SplitModule(p.module, p.variant, bndl.Config)
			if err != nil {
				return err
			}

			results[i] = splits

			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	splits := []split.ModuleSplit{}
	for _, result := range results {
		for _, s := range result {
			// Masters are always delivered: the fallback values a
			// master may carry describe the content it absorbed,
			// not a device requirement.
			if device != nil && !s.IsMaster && !device.Matches(s.ApkTargeting) {
				continue
			}

			splits = append(splits, s)
		}
	}

	return splits, nil
}
