package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/voxclip/voxclip/internal/doctor"
)

func newDoctorCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check configuration, tools, and API readiness",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			if err := a.setup(); err != nil {
				return err
			}
			defer a.teardown()

			report := doctor.Run(a.loaded)
			fmt.Fprintln(a.stdout, report.String())
			if !report.OK() {
				return exitError(1)
			}
			return nil
		},
	}
}
