package cli

import (
	"fmt"
	"io"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/polyforge/polyforge/pkg/registry"
	"github.com/polyforge/polyforge/pkg/strategies"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all registered services",
		Long:  `List every service the orchestrator knows about, with its technology kind and location.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, _, err := loadRegistry()
			if err != nil {
				printError(err.Error())
				return err
			}
			renderRegistry(os.Stdout, reg)
			return nil
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of polyforge",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("polyforge v%s\n", version)
		},
	}
}

// helpWithRegistry extends the default help output with the registry table,
// so --help doubles as service discovery.
func helpWithRegistry(cmd *cobra.Command, args []string) {
	fmt.Fprintln(cmd.OutOrStdout(), cmd.Long)
	fmt.Fprintln(cmd.OutOrStdout())
	fmt.Fprintln(cmd.OutOrStdout(), cmd.UsageString())

	if reg, _, err := loadRegistry(); err == nil {
		fmt.Fprintln(cmd.OutOrStdout(), "Registered services:")
		renderRegistry(cmd.OutOrStdout(), reg)
	}
}

func renderRegistry(out io.Writer, reg *registry.ServiceRegistry) {
	services := reg.All()
	sort.Slice(services, func(i, j int) bool {
		return services[i].ID < services[j].ID
	})

	factory := strategies.NewStrategyFactory(strategies.Options{WorkspaceRoot: workspaceRoot})

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SERVICE\tKIND\tPATH\tMANIFEST")
	fmt.Fprintln(w, "-------\t----\t----\t--------")

	for _, svc := range services {
		manifest := "-"
		if strategy, err := factory.ForKind(svc.Kind); err == nil {
			manifest = strategy.ManifestName()
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", svc.ID, svc.Kind, svc.RootPath, manifest)
	}
	w.Flush()
}
