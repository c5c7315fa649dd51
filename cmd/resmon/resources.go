package main

import (
	"fmt"
	"slices"
	"strings"

	"github.com/ppiankov/resmon/internal/models"
	"github.com/spf13/cobra"
)

// NewResourcesCmd lists the resource keys the usage endpoint accepts
func NewResourcesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resources",
		Short: "List known resource keys",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Print(formatResources())
		},
	}
}

func formatResources() string {
	defaults := models.DefaultResources()

	var b strings.Builder
	fmt.Fprintf(&b, "%-24s %-8s %s\n", "KEY", "DEFAULT", "Y-AXIS")
	for _, key := range models.KnownResources {
		def := "no"
		if slices.Contains(defaults, key) {
			def = "yes"
		}
		axis := "auto"
		if key.IsPercentage() {
			axis = "0-100%"
		}
		fmt.Fprintf(&b, "%-24s %-8s %s\n", key, def, axis)
	}
	return b.String()
}
