package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ericfisherdev/scanmaster/internal/domain/payload"
)

var encodeDraft draftFlags

var encodeCmd = &cobra.Command{
	Use:   "encode",
	Short: "Print the text payload a generator draft encodes to",
	Example: `  scanmaster encode --kind WIFI --ssid Home --password secret
  scanmaster encode --kind EMAIL --to a@b.c --subject "Hi there"`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		d, err := encodeDraft.build()
		if err != nil {
			return err
		}
		if !payload.HasContent(d) {
			return fmt.Errorf("draft has nothing to encode")
		}
		fmt.Fprintln(cmd.OutOrStdout(), payload.Encode(d))
		return nil
	},
}

func init() {
	encodeDraft.register(encodeCmd.Flags())
	rootCmd.AddCommand(encodeCmd)
}
