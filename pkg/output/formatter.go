package output

import (
	"fmt"
	"sort"

	"github.com/12rambau/pytfa/pkg/reduction"
	"github.com/fatih/color"
)

// PrintReductionReport prints a nicely formatted reduction summary with colors
func PrintReductionReport(modelName string, subsystems []string, result *reduction.Result) {
	bold := color.New(color.Bold)
	red := color.New(color.FgRed)
	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)
	cyan := color.New(color.FgCyan)

	bold.Println("redGEM - Network Reduction Report")
	bold.Println("=================================")
	fmt.Printf("Model: %s\n", modelName)

	total := len(result.KeptReactions) + len(result.RemovedReactions)
	green.Printf("Kept: %d reaction(s)\n", len(result.KeptReactions))
	if len(result.RemovedReactions) > 0 {
		yellow.Printf("Removed: %d reaction(s)\n", len(result.RemovedReactions))
	} else {
		green.Println("Removed: 0 reactions")
	}
	fmt.Printf("Metabolites in reduced model: %d\n", len(result.Network.Metabolites))
	fmt.Println()

	// Minimum distance matrix between subsystems
	bold.Println("MINIMUM SUBSYSTEM DISTANCES:")
	printed := false
	for _, from := range subsystems {
		for _, to := range subsystems {
			if from == to {
				continue
			}
			d, ok := result.MinDistances[reduction.PairKey{From: from, To: to}]
			if !ok {
				red.Printf("  %s -> %s: unreachable\n", from, to)
			} else {
				cyan.Printf("  %s -> %s: %d\n", from, to, d)
			}
			printed = true
		}
	}
	if !printed {
		fmt.Println("  (single subsystem, nothing to report)")
	}
	fmt.Println()

	// Summary with color based on reduction ratio
	percentage := 100.0
	if total > 0 {
		percentage = float64(len(result.KeptReactions)) / float64(total) * 100.0
	}

	summaryColor := green
	if percentage > 50.0 {
		summaryColor = yellow
	}
	summaryColor.Printf("Summary: kept %.0f%% of reactions (%d/%d)\n",
		percentage, len(result.KeptReactions), total)
}

// PrintRemovedReactions lists the pruned reactions, for verbose runs
func PrintRemovedReactions(result *reduction.Result) {
	if len(result.RemovedReactions) == 0 {
		return
	}

	yellow := color.New(color.FgYellow)
	yellow.Println("REMOVED REACTIONS:")
	ids := append([]string{}, result.RemovedReactions...)
	sort.Strings(ids)
	for _, id := range ids {
		fmt.Printf("  %s\n", id)
	}
	fmt.Println()
}
