package cmd

import (
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"bfrobot/internal/keyword"
	"bfrobot/internal/listener"
	"bfrobot/internal/usecases"
)

// newKeywordsCmd creates the command that lists the built-in keywords.
// Device keywords only exist against a deployed testbed, so this shows the
// use-case modules and the generic dispatch keywords.
func newKeywordsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "keywords",
		Short: "List the built-in keywords",
		RunE: func(cmd *cobra.Command, args []string) error {
			router := builtinRouter()

			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.AppendHeader(table.Row{"Keyword", "Arguments", "Tags"})

			for _, name := range router.Names() {
				arguments, err := router.Arguments(name)
				if err != nil {
					continue
				}
				tags, _ := router.Tags(name)
				t.AppendRow(table.Row{
					name,
					strings.Join(arguments, ", "),
					strings.Join(tags, ", "),
				})
			}

			t.SetStyle(table.StyleLight)
			t.Render()
			return nil
		},
	}
}

// builtinRouter builds a router over the module sources that work without
// a deployed testbed.
func builtinRouter() *keyword.Router {
	storage := listener.NewContextStorage()

	var sources []keyword.Source
	for _, module := range usecases.BuiltinModules(storage) {
		sources = append(sources, module)
	}
	return keyword.NewRouter(keyword.DefaultScope(sources...), nil)
}
