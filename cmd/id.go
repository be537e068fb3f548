package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var devidCmd = &cobra.Command{
	Use:   "devid",
	Short: "Read the device ID bytes",
	RunE: func(cmd *cobra.Command, args []string) error {
		conn, pic, err := openTarget(cmd)
		if err != nil {
			return err
		}
		defer conn.Close()

		id, err := pic.ReadDeviceID()
		if err != nil {
			return err
		}
		for i, b := range id {
			fmt.Printf("DEV_ID %d : %02x\n", i+1, b)
		}
		return nil
	},
}

var cfgwordsCmd = &cobra.Command{
	Use:   "cfgwords",
	Short: "Read the configuration words",
	RunE: func(cmd *cobra.Command, args []string) error {
		conn, pic, err := openTarget(cmd)
		if err != nil {
			return err
		}
		defer conn.Close()

		words, err := pic.ReadConfigWords()
		if err != nil {
			return err
		}
		for i, w := range words {
			fmt.Printf("CONFIG%d : %04x\n", i+1, w)
		}
		return nil
	},
}

var locidCmd = &cobra.Command{
	Use:   "locid",
	Short: "Read the ID location words",
	RunE: func(cmd *cobra.Command, args []string) error {
		conn, pic, err := openTarget(cmd)
		if err != nil {
			return err
		}
		defer conn.Close()

		id, err := pic.ReadLocationID()
		if err != nil {
			return err
		}
		for i, w := range id {
			fmt.Printf("LOC_ID %d : %04x\n", i+1, w)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(devidCmd)
	rootCmd.AddCommand(cfgwordsCmd)
	rootCmd.AddCommand(locidCmd)
}
