package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/cabinet/pkg/container"
	"github.com/mesh-intelligence/cabinet/pkg/sqlite"
)

func newExportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "export <file>",
		Short: "Write the bucket to a JSONL file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withBackend(func(b sqlite.Backend) error {
				n, err := b.ExportJSONL(a.flags.bucket, args[0])
				if err != nil {
					return err
				}
				if a.flags.jsonMode {
					return printJSON(out(cmd), map[string]int{"exported": n})
				}
				fmt.Fprintf(out(cmd), "exported %d items\n", n)
				return nil
			})
		},
	}
}

func newImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Add the items of a JSONL file to the bucket",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withContainer(func(c *container.Ordered) error {
				n, err := sqlite.ImportJSONL(args[0], c)
				if err != nil {
					return err
				}
				if a.flags.jsonMode {
					return printJSON(out(cmd), map[string]int{"imported": n})
				}
				fmt.Fprintf(out(cmd), "imported %d items\n", n)
				return nil
			})
		},
	}
}

func newBucketsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "buckets",
		Short: "List buckets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withBackend(func(b sqlite.Backend) error {
				buckets, err := b.Buckets()
				if err != nil {
					return err
				}
				if a.flags.jsonMode {
					if buckets == nil {
						buckets = []string{}
					}
					return printJSON(out(cmd), buckets)
				}
				for _, name := range buckets {
					fmt.Fprintln(out(cmd), name)
				}
				return nil
			})
		},
	}
}
