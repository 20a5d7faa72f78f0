package cmd

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"portdash/internal/control"
	"portdash/internal/scan"
	"portdash/internal/tui"
)

var stopYes bool

var stopCmd = &cobra.Command{
	Use:   "stop [pid|port]",
	Short: "Stop a discovered service",
	Long: `Stop a service found in the current snapshot. The argument is matched
first as a PID, then as a port. With no argument an interactive picker
opens over the snapshot.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		records, err := newScanner().Snapshot(cmd.Context())
		if err != nil {
			return fmt.Errorf("snapshot: %w", err)
		}
		if len(records) == 0 {
			return fmt.Errorf("no listening services found")
		}

		var target scan.ServiceRecord
		if len(args) == 1 {
			target, err = findTarget(records, args[0])
			if err != nil {
				return err
			}
		} else {
			picked, ok, err := tui.Pick(records)
			if err != nil {
				return err
			}
			if !ok {
				return nil
			}
			target = picked
		}

		if !stopYes {
			ok, err := confirmStop(target)
			if err != nil {
				return err
			}
			if !ok {
				return nil
			}
		}

		ctl := control.New()
		if err := ctl.StopAndWait(cmd.Context(), target.PID, cfg.StopTimeout); err != nil {
			return fmt.Errorf("stop %s (pid %d): %w", target.Name, target.PID, err)
		}
		log.Info("stopped", "name", target.Name, "pid", target.PID, "port", target.Port)
		return nil
	},
}

func init() {
	stopCmd.Flags().BoolVarP(&stopYes, "yes", "y", false, "skip the confirmation prompt")
	rootCmd.AddCommand(stopCmd)
}

// findTarget matches arg against the snapshot, PID first, then port.
func findTarget(records []scan.ServiceRecord, arg string) (scan.ServiceRecord, error) {
	n, err := strconv.ParseUint(arg, 10, 32)
	if err != nil {
		return scan.ServiceRecord{}, fmt.Errorf("argument %q is not a pid or port", arg)
	}
	for _, rec := range records {
		if rec.PID == int32(n) {
			return rec, nil
		}
	}
	for _, rec := range records {
		if rec.Port == uint32(n) {
			return rec, nil
		}
	}
	return scan.ServiceRecord{}, fmt.Errorf("no listening service matches %q", arg)
}

func confirmStop(target scan.ServiceRecord) (bool, error) {
	var confirmed bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Stop %s (pid %d, port %d)?", target.Name, target.PID, target.Port)).
				Affirmative("Stop").
				Negative("Cancel").
				Value(&confirmed),
		),
	)
	if err := form.Run(); err != nil {
		return false, err
	}
	return confirmed, nil
}
