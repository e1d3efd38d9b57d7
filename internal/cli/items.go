package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/cabinet/pkg/container"
)

// parseValue reads a command-line value as JSON, falling back to the raw
// string when it is not valid JSON.
func parseValue(s string) any {
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return s
	}
	return v
}

// entry is the JSON output form of a stored item.
type entry struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printEntry(w io.Writer, jsonMode bool, key string, v any) error {
	v = container.Unwrap(v)
	if jsonMode {
		return printJSON(w, entry{Key: key, Value: v})
	}
	_, err := fmt.Fprintf(w, "%s\t%v\n", key, v)
	return err
}

func newSetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Store a value under a new key",
		Long:  "Store a value under a new key. The value is parsed as JSON when possible\nand stored as a string otherwise. Existing keys are never overwritten.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withContainer(func(c *container.Ordered) error {
				if err := c.Set(args[0], parseValue(args[1])); err != nil {
					return err
				}
				v, err := c.Get(args[0])
				if err != nil {
					return err
				}
				return printEntry(out(cmd), a.flags.jsonMode, args[0], v)
			})
		},
	}
}

func newGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Print the value stored under a key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withContainer(func(c *container.Ordered) error {
				v, err := c.Get(args[0])
				if err != nil {
					return err
				}
				return printEntry(out(cmd), a.flags.jsonMode, args[0], v)
			})
		},
	}
}

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <key>",
		Short: "Remove a key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withContainer(func(c *container.Ordered) error {
				if err := c.Delete(args[0]); err != nil {
					return err
				}
				if a.flags.jsonMode {
					return printJSON(out(cmd), map[string]string{"deleted": args[0]})
				}
				fmt.Fprintf(out(cmd), "deleted %s\n", args[0])
				return nil
			})
		},
	}
}

func newListCmd(a *app) *cobra.Command {
	var from string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List items",
		Long:  "List items in presentation order, or in key order starting at --from.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withContainer(func(c *container.Ordered) error {
				items := c.Items()
				if cmd.Flags().Changed("from") {
					items = c.ItemsFrom(from)
				}
				if a.flags.jsonMode {
					entries := []entry{}
					for k, v := range items {
						entries = append(entries, entry{Key: k, Value: container.Unwrap(v)})
					}
					return printJSON(out(cmd), entries)
				}
				for k, v := range items {
					if err := printEntry(out(cmd), false, k, v); err != nil {
						return err
					}
				}
				fmt.Fprintln(out(cmd), container.SizeForDisplay(c))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "list keys at or after this key, in key order")
	return cmd
}

func newOrderCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "order <key>...",
		Short: "Set the presentation order",
		Long:  "Set the presentation order. The keys given must be exactly the stored keys.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withContainer(func(c *container.Ordered) error {
				if err := c.UpdateOrder(args); err != nil {
					return err
				}
				if a.flags.jsonMode {
					return printJSON(out(cmd), c.Order())
				}
				for _, k := range c.Order() {
					fmt.Fprintln(out(cmd), k)
				}
				return nil
			})
		},
	}
}

func newChooseNameCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "choose-name [hint]",
		Short: "Print an unused name derived from a hint",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withContainer(func(c *container.Ordered) error {
				var hint any
				if len(args) == 1 {
					hint = args[0]
				}
				name, err := c.NameChooser().ChooseName(hint, nil)
				if err != nil {
					return err
				}
				if a.flags.jsonMode {
					return printJSON(out(cmd), map[string]string{"name": name})
				}
				fmt.Fprintln(out(cmd), name)
				return nil
			})
		},
	}
}
