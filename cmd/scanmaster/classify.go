package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ericfisherdev/scanmaster/internal/domain/payload"
)

var classifyCmd = &cobra.Command{
	Use:   "classify [text]",
	Short: "Print the structured view of scanned text",
	Long:  "Classify text as a WiFi network, contact card, email, web link or plain text. Reads stdin when no argument is given.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var raw string
		if len(args) == 1 {
			raw = args[0]
		} else {
			b, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("read stdin: %w", err)
			}
			raw = strings.TrimRight(string(b), "\r\n")
		}

		classified := payload.Classify(raw)
		out := struct {
			Kind   string `json:"kind"`
			Label  string `json:"label"`
			Action string `json:"primary_action"`
			Fields any    `json:"fields"`
		}{
			Kind:   string(classified.Kind()),
			Label:  classified.Kind().Label(),
			Action: string(payload.PrimaryAction(raw)),
			Fields: classified,
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	},
}

func init() {
	rootCmd.AddCommand(classifyCmd)
}
