package cmd

import (
	"fmt"
	"sort"

	"github.com/calyx-lang/calyx/object"
	"github.com/calyx-lang/calyx/util"
	"github.com/spf13/cobra"
)

var MembersCmd = &cobra.Command{
	Use:          "members file.cx",
	Short:        "Print every resolvable attribute of each declared class and the ancestor providing it",
	RunE:         runMembers,
	Args:         cobra.MinimumNArgs(1),
	SilenceUsage: true,
}

func runMembers(cmd *cobra.Command, args []string) error {
	declared, err := loadHierarchy(args[0])
	if err != nil {
		return err
	}
	for _, t := range declared {
		fmt.Printf("%s:\n", t.Name())
		seen := map[string]bool{}
		var names []string
		for _, ancestor := range t.MRO() {
			for _, name := range ancestor.MemberNames() {
				if !seen[name] {
					seen[name] = true
					names = append(names, name)
				}
			}
		}
		sort.Strings(names)
		var rows []util.Pair[string, string]
		for _, name := range names {
			d, owner, _ := t.LookupSlot(name)
			kind := "slot"
			if object.IsDataDescriptor(d) {
				kind = "data"
			}
			rows = append(rows, util.NewPair(fmt.Sprintf("%-16s %-5s", name, kind), owner.Name()))
		}
		for _, row := range rows {
			fmt.Printf("  %s from %s\n", row.Fst, row.Snd)
		}
	}
	return nil
}
