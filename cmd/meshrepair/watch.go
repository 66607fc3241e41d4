package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kestrelcad/meshrepair/pkg/diagnostics"
	"github.com/kestrelcad/meshrepair/pkg/meshrepair"
	"github.com/kestrelcad/meshrepair/pkg/watcher"
)

var (
	watchOutput  string
	watchASCII   bool
	watchVerbose bool
)

var watchCmd = &cobra.Command{
	Use:   "watch <file>",
	Short: "Re-run repair every time the input file changes on disk",
	Long:  "Watches a CAD export for changes and repairs it to the output path each time it is rewritten, the way a live-reloading slicer front end would.",
	Args:  cobra.ExactArgs(1),
	RunE:  runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringVarP(&watchOutput, "output", "o", "", "output path (defaults to overwriting the input)")
	watchCmd.Flags().BoolVar(&watchASCII, "ascii", false, "write ASCII instead of binary")
	watchCmd.Flags().BoolVarP(&watchVerbose, "verbose", "v", false, "log repair diagnostics")
}

func runWatch(cmd *cobra.Command, args []string) error {
	input := args[0]

	fw, err := watcher.NewFileWatcher(200 * time.Millisecond)
	if err != nil {
		return fmt.Errorf("watch %s: %w", input, err)
	}
	defer fw.Close()

	logger := diagnostics.Nop()
	if watchVerbose {
		logger = diagnostics.NewLogger(diagnostics.Config{Verbose: true})
	}

	repairAndReport := func(path string) {
		opts := meshrepair.DefaultOptions()
		opts.Verbose = watchVerbose
		opts.Logger = logger

		if err := runRepairOnce(path, watchOutput, watchASCII, opts); err != nil {
			fmt.Fprintf(os.Stderr, "watch: %v\n", err)
		}
	}

	if err := fw.Watch([]string{input}, repairAndReport); err != nil {
		return fmt.Errorf("watch %s: %w", input, err)
	}
	fw.Start()

	fmt.Printf("Watching %s for changes (Ctrl-C to stop)...\n", input)
	repairAndReport(input)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	return nil
}
