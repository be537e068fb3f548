package cmd

import (
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
)

var writeCmd = &cobra.Command{
	Use:   "write [file]",
	Short: "Program code memory",
	Long: `Program code memory with the contents of a file, or with an inline
hex string given through --data. The payload must be an even number
of bytes, at least two.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, err := parseAddr(cmd, 24)
		if err != nil {
			return err
		}
		data, err := payload(cmd, args)
		if err != nil {
			return err
		}
		erase, _ := cmd.Flags().GetBool("erase")

		conn, pic, err := openTarget(cmd)
		if err != nil {
			return err
		}
		defer conn.Close()

		if err := pic.Write(addr, data, erase); err != nil {
			return err
		}
		log.Printf("programmed %d bytes at %#x", len(data), addr)
		return nil
	},
}

// payload returns the bytes to program, from --data or from a file
// argument.
func payload(cmd *cobra.Command, args []string) ([]byte, error) {
	hexData, _ := cmd.Flags().GetString("data")
	switch {
	case hexData != "" && len(args) > 0:
		return nil, errors.New("both --data and a file given")
	case hexData != "":
		data, err := hex.DecodeString(hexData)
		if err != nil {
			return nil, fmt.Errorf("bad --data: %w", err)
		}
		return data, nil
	case len(args) > 0:
		return os.ReadFile(args[0])
	}
	return nil, errors.New("nothing to write, give a file or --data")
}

func init() {
	rootCmd.AddCommand(writeCmd)
	writeCmd.Flags().StringP("addr", "a", "0x0", "start address (hex or decimal)")
	writeCmd.Flags().String("data", "", "inline payload as a hex string, e.g. 0e55")
	writeCmd.Flags().Bool("erase", false, "erase the row before programming")
}
