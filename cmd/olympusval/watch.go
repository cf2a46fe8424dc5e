package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/olympus-coder/olympusval/internal/contextcheck"
	"github.com/olympus-coder/olympusval/internal/inventory"
	"github.com/olympus-coder/olympusval/internal/tui"
	"github.com/olympus-coder/olympusval/internal/validate"
)

var watchProject string

var watchCmd = &cobra.Command{
	Use:   "watch <responses-dir>",
	Short: "Watch a directory and validate responses as they appear",
	Long: `Watch a directory for response files (.txt, .md, .json) and
validate each one as it is created or modified, displaying results in a
live terminal interface.

When --project is set, its tree is watched too and the file inventory
is refreshed on changes, so context validation stays current.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		responsesDir := args[0]
		if info, err := os.Stat(responsesDir); err != nil || !info.IsDir() {
			return fmt.Errorf("%s is not a directory", responsesDir)
		}

		pipeline, err := buildPipeline(cfg)
		if err != nil {
			return err
		}

		program := tea.NewProgram(tui.NewWatch())

		// Optional live project inventory.
		var invWatcher *inventory.Watcher
		if watchProject != "" {
			invWatcher, err = inventory.NewWatcher(watchProject)
			if err != nil {
				return fmt.Errorf("watch project: %w", err)
			}
			defer invWatcher.Close()
		}

		fsw, err := fsnotify.NewWatcher()
		if err != nil {
			return err
		}
		defer fsw.Close()
		if err := fsw.Add(responsesDir); err != nil {
			return err
		}

		go feedResults(program, pipeline, fsw, invWatcher)

		if invWatcher != nil {
			program.Send(tui.InventoryMsg{FileCount: len(invWatcher.Snapshot().Files)})
		}

		_, err = program.Run()
		return err
	},
}

func init() {
	watchCmd.Flags().StringVar(&watchProject, "project", "", "Project root whose inventory backs context validation")
	rootCmd.AddCommand(watchCmd)
}

// feedResults turns filesystem events into validation results for the
// TUI. It exits when the event channel closes.
func feedResults(program *tea.Program, pipeline *validate.Pipeline, fsw *fsnotify.Watcher, invWatcher *inventory.Watcher) {
	project := currentProject(invWatcher)

	var updates chan *inventory.Snapshot
	if invWatcher != nil {
		updates = invWatcher.Updates
	}

	for {
		select {
		case event, ok := <-fsw.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			if !responseExtensions[strings.ToLower(filepath.Ext(event.Name))] {
				continue
			}
			name := filepath.Base(event.Name)
			program.Send(tui.ValidatingMsg{Source: name})

			data, err := os.ReadFile(event.Name)
			if err != nil {
				program.Send(tui.ErrMsg{Source: name, Err: err})
				continue
			}
			report := pipeline.Validate(context.Background(), string(data), project)
			program.Send(tui.ResultMsg{Source: name, Report: report})

		case snap, ok := <-updates:
			if !ok {
				updates = nil
				continue
			}
			project = contextcheck.NewProjectContext(snap.Files)
			program.Send(tui.InventoryMsg{FileCount: len(snap.Files)})

		case <-fsw.Errors:
			// Keep watching.
		}
	}
}

func currentProject(invWatcher *inventory.Watcher) *contextcheck.ProjectContext {
	if invWatcher == nil {
		return nil
	}
	return contextcheck.NewProjectContext(invWatcher.Snapshot().Files)
}
