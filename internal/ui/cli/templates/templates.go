package templates

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/nvasko/loom/internal/shared"
)

var TemplatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "Inspect loaded prompt templates",
}

var listCmd = &cobra.Command{
	Use:   "ls",
	Short: "List templates in the prompt document",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := shared.LoadTemplates()
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "Name\tShape\tPlaceholders")
		for _, name := range store.Names() {
			tpl, err := store.Get(name)
			if err != nil {
				return err
			}
			placeholders := strings.Join(tpl.Placeholders(), ", ")
			if placeholders == "" {
				placeholders = "-"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", tpl.Name, tpl.Shape, placeholders)
		}
		w.Flush()

		return nil
	},
}

var viewCmd = &cobra.Command{
	Use:   "view [name]",
	Short: "Print a template's body",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := shared.LoadTemplates()
		if err != nil {
			return err
		}

		tpl, err := store.Get(args[0])
		if err != nil {
			return err
		}

		fmt.Printf("### %s [%s]\n\n%s\n", tpl.Name, tpl.Shape, tpl.Body)
		return nil
	},
}

func init() {
	TemplatesCmd.AddCommand(listCmd, viewCmd)
}
