package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/olympus-coder/olympusval/internal/inventory"
)

var (
	inventoryOut     string
	inventoryRescan  bool
	inventoryVerbose bool
)

var inventoryCmd = &cobra.Command{
	Use:   "inventory [path]",
	Short: "Scan a project tree into a file inventory",
	Long: `Scan a project tree and print its file inventory. Results are
cached under .olympusval/ for a day; use --rescan to force a fresh walk.

With --out, the inventory is written as a YAML manifest that validate
and batch can consume via --manifest.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root := "."
		if len(args) == 1 {
			root = args[0]
		}

		scanner := inventory.NewScanner(root)
		var snap *inventory.Snapshot
		var err error
		if inventoryRescan {
			snap, err = scanner.Rescan()
		} else {
			snap, err = scanner.Scan()
		}
		if err != nil {
			return err
		}

		if inventoryVerbose {
			for _, f := range snap.Files {
				fmt.Println(f)
			}
		}
		printStatus("✓", fmt.Sprintf("%d files tracked under %s", len(snap.Files), root), color.FgGreen)

		if inventoryOut != "" {
			if err := inventory.SaveManifest(inventoryOut, inventory.ManifestFromSnapshot(snap)); err != nil {
				return err
			}
			printStatus("✓", "wrote manifest "+inventoryOut, color.FgGreen)
		}
		return nil
	},
}

func init() {
	inventoryCmd.Flags().StringVar(&inventoryOut, "out", "", "Write the inventory as a YAML manifest")
	inventoryCmd.Flags().BoolVar(&inventoryRescan, "rescan", false, "Ignore the cache and walk the tree")
	inventoryCmd.Flags().BoolVar(&inventoryVerbose, "verbose", false, "Print every tracked file")
	rootCmd.AddCommand(inventoryCmd)
}
