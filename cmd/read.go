package cmd

import (
	"encoding/hex"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
)

var readCmd = &cobra.Command{
	Use:   "read",
	Short: "Read code memory",
	Long:  `Read code memory and hex dump it, or save the raw bytes with --out.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, err := parseAddr(cmd, 24)
		if err != nil {
			return err
		}
		length, _ := cmd.Flags().GetInt("len")

		conn, pic, err := openTarget(cmd)
		if err != nil {
			return err
		}
		defer conn.Close()

		data, err := pic.Read(addr, length)
		if err != nil {
			return err
		}
		return writeOut(cmd, data)
	},
}

// writeOut dumps data as hex on stdout, or saves it raw when --out is
// given.
func writeOut(cmd *cobra.Command, data []byte) error {
	out, _ := cmd.Flags().GetString("out")
	if out != "" {
		if err := os.WriteFile(out, data, 0644); err != nil {
			return err
		}
		log.Printf("wrote %d bytes to \"%s\"", len(data), out)
		return nil
	}
	fmt.Print(hex.Dump(data))
	return nil
}

func init() {
	rootCmd.AddCommand(readCmd)
	readCmd.Flags().StringP("addr", "a", "0x0", "start address (hex or decimal)")
	readCmd.Flags().IntP("len", "n", 16, "number of bytes to read")
	readCmd.Flags().StringP("out", "o", "", "write raw bytes to a file instead of dumping")
}
