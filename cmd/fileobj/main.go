// Command fileobj inspects and resolves virtual file objects from the
// command line.
package main

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"os/signal"

	"github.com/samber/lo"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/mwantia/fileobj"
	"github.com/mwantia/fileobj/data"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "fileobj",
		Short: "Virtual file object toolbox",
	}

	rootCmd.PersistentFlags().String("config", "", "config file path (default: ./fileobj.yaml)")
	rootCmd.PersistentFlags().Bool("quiet", false, "disable terminal logging")

	kindCmd := &cobra.Command{
		Use:   "kind <path>...",
		Short: "Deduce the content kind for paths",
		Args:  cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			for _, arg := range args {
				fmt.Printf("%s\t%s\t%s\n", arg, data.DeduceKind(arg), data.GetMIMEType(arg))
			}
		},
	}

	kindsCmd := &cobra.Command{
		Use:   "kinds",
		Short: "List known content kinds",
		Run: func(cmd *cobra.Command, args []string) {
			rows := lo.Map(data.Kinds(), func(kind data.Kind, _ int) string {
				return fmt.Sprintf("%s\t%q\t%s", kind, kind.Extension(), data.GetContentType(kind))
			})
			for _, row := range rows {
				fmt.Println(row)
			}
		},
	}

	resolveCmd := &cobra.Command{
		Use:   "resolve <name>...",
		Short: "Resolve resource names on the search path",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withFactory(cmd, func(ctx context.Context, factory *fileobj.Factory) error {
				for _, name := range args {
					obj, err := factory.ForResourceName(ctx, name)
					if err != nil {
						return err
					}
					fmt.Printf("%s\t%s\n", name, obj.URI())
				}
				return nil
			})
		},
	}

	catCmd := &cobra.Command{
		Use:   "cat <address>",
		Short: "Print the content behind an address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withFactory(cmd, func(ctx context.Context, factory *fileobj.Factory) error {
				u, err := url.Parse(args[0])
				if err != nil {
					return fmt.Errorf("invalid address '%s': %w", args[0], err)
				}

				obj, err := factory.ForResource(ctx, u)
				if err != nil {
					return err
				}

				reader, err := obj.Open(ctx)
				if err != nil {
					return err
				}
				defer reader.Close()

				_, err = io.Copy(os.Stdout, reader)
				return err
			})
		},
	}

	statCmd := &cobra.Command{
		Use:   "stat <address>",
		Short: "Print resource metadata as json",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withFactory(cmd, func(ctx context.Context, factory *fileobj.Factory) error {
				u, err := url.Parse(args[0])
				if err != nil {
					return fmt.Errorf("invalid address '%s': %w", args[0], err)
				}

				stat, err := factory.Registry().Head(ctx, u)
				if err != nil {
					return err
				}

				content, err := stat.Marshal()
				if err != nil {
					return err
				}

				fmt.Println(string(content))
				return nil
			})
		},
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(version)
		},
	}

	rootCmd.AddCommand(kindCmd, kindsCmd, resolveCmd, catCmd, statCmd, versionCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// withFactory builds the factory from the configuration, opens it and runs
// the callback with a signal aware context.
func withFactory(cmd *cobra.Command, fn func(context.Context, *fileobj.Factory) error) error {
	configPath, _ := cmd.Flags().GetString("config")
	quiet, _ := cmd.Flags().GetBool("quiet")

	config, err := LoadConfig(afero.NewOsFs(), configPath)
	if err != nil {
		return err
	}

	factory, err := BuildFactory(config, quiet)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := factory.Open(ctx); err != nil {
		return err
	}
	defer factory.Close(ctx)

	return fn(ctx, factory)
}
