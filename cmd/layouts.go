// File: cmd/layouts.go
package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/xkilldash9x/humantyper/internal/keyboard"
)

func newLayoutsCmd() *cobra.Command {
	var file string

	layoutsCmd := &cobra.Command{
		Use:   "layouts [name]",
		Short: "List the built-in layout sets, or show the keys of one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch {
			case file != "":
				set, err := keyboard.LoadSetFile(file)
				if err != nil {
					return err
				}
				return renderSet(out, set)
			case len(args) == 1:
				set, err := keyboard.Named(args[0])
				if err != nil {
					return err
				}
				return renderSet(out, set)
			default:
				for _, name := range keyboard.Names() {
					set, _ := keyboard.Named(name)
					fmt.Fprintf(out, "%-12s %d layouts\n", name, len(set.Layouts()))
				}
				return nil
			}
		},
	}
	layoutsCmd.Flags().StringVarP(&file, "file", "f", "", "Render a YAML layout set file instead of a built-in one")
	return layoutsCmd
}

// renderSet prints every layout of set in lookup order with its shape.
func renderSet(out io.Writer, set *keyboard.Set) error {
	for i, l := range set.Layouts() {
		rows, cols := l.Shape()
		label := l.Name()
		if label == "" {
			label = fmt.Sprintf("layout %d", i+1)
		}
		if _, err := fmt.Fprintf(out, "%s/%s (%d keys, %dx%d)\n%s\n\n", set.Name(), label, l.Len(), rows, cols, l.String()); err != nil {
			return err
		}
	}
	return nil
}
