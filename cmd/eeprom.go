package cmd

import (
	"log"

	"github.com/spf13/cobra"
)

var eepromCmd = &cobra.Command{
	Use:   "eeprom",
	Short: "Data EEPROM operations",
}

var eepromReadCmd = &cobra.Command{
	Use:   "read",
	Short: "Read data EEPROM",
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, err := parseAddr(cmd, 16)
		if err != nil {
			return err
		}
		length, _ := cmd.Flags().GetInt("len")

		conn, pic, err := openTarget(cmd)
		if err != nil {
			return err
		}
		defer conn.Close()

		data, err := pic.ReadEEPROM(uint16(addr), length)
		if err != nil {
			return err
		}
		return writeOut(cmd, data)
	},
}

var eepromWriteCmd = &cobra.Command{
	Use:   "write [file]",
	Short: "Program data EEPROM",
	Long: `Program the data EEPROM with the contents of a file, or with an
inline hex string given through --data. The payload must be an even
number of bytes, at least two.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, err := parseAddr(cmd, 16)
		if err != nil {
			return err
		}
		data, err := payload(cmd, args)
		if err != nil {
			return err
		}

		conn, pic, err := openTarget(cmd)
		if err != nil {
			return err
		}
		defer conn.Close()

		if err := pic.WriteEEPROM(uint16(addr), data); err != nil {
			return err
		}
		log.Printf("programmed %d bytes at %#x", len(data), addr)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(eepromCmd)
	eepromCmd.AddCommand(eepromReadCmd)
	eepromCmd.AddCommand(eepromWriteCmd)

	eepromReadCmd.Flags().StringP("addr", "a", "0x0", "start address (hex or decimal)")
	eepromReadCmd.Flags().IntP("len", "n", 16, "number of bytes to read")
	eepromReadCmd.Flags().StringP("out", "o", "", "write raw bytes to a file instead of dumping")

	eepromWriteCmd.Flags().StringP("addr", "a", "0x0", "start address (hex or decimal)")
	eepromWriteCmd.Flags().String("data", "", "inline payload as a hex string, e.g. 0e55")
}
