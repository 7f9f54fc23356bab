package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	mcumgrclient "github.com/vouch-opensource/mcumgr-client"
)

func main() {
	if err := rootCommand().Execute(); err != nil {
		var perr *mcumgrclient.ProcessError
		if errors.As(err, &perr) && perr.Stderr != "" {
			fmt.Fprintln(os.Stderr, perr.Stderr)
		}
		os.Exit(1)
	}
}

// rootCommand creates the mcumgrctl command tree
func rootCommand() *cobra.Command {
	var device string
	var baudrate int
	var exe string
	var verbose bool
	var session *mcumgrclient.Session

	root := &cobra.Command{
		Use:          "mcumgrctl",
		Short:        "Manage firmware on MCUmgr devices through mcumgr-client",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			session = mcumgrclient.NewSession(newLogger(verbose), mcumgrclient.SessionConfig{
				Device:     device,
				Baudrate:   baudrate,
				Executable: exe,
			})
		},
	}

	root.PersistentFlags().StringVarP(&device, "device", "d", "", "serial device name (/dev/ttyUSBx, COMx)")
	root.PersistentFlags().IntVarP(&baudrate, "baudrate", "b", 0, "baudrate of the serial device")
	root.PersistentFlags().StringVar(&exe, "exe", "", "path to the mcumgr-client executable")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List the images on the device",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := session.List(cmd.Context(), nil)
			if err != nil {
				return err
			}
			encoded, err := json.MarshalIndent(resp, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(encoded))
			return nil
		},
	})

	var slot int
	upload := &cobra.Command{
		Use:   "upload <image>",
		Short: "Upload a firmware image to the device",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := mcumgrclient.Options{}
			if cmd.Flags().Changed("slot") {
				opts["slot"] = slot
			}
			return session.Upload(cmd.Context(), args[0], opts)
		},
	}
	upload.Flags().IntVarP(&slot, "slot", "s", 0, "image slot to flash")
	root.AddCommand(upload)

	root.AddCommand(&cobra.Command{
		Use:   "reset",
		Short: "Reset the device",
		RunE: func(cmd *cobra.Command, args []string) error {
			return session.Reset(cmd.Context(), nil)
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "echo <message>",
		Short: "Echo a message through the device",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return session.Echo(cmd.Context(), args[0], nil)
		},
	})

	return root
}
