package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"go.bug.st/serial"
)

var portsCmd = &cobra.Command{
	Use:   "ports",
	Short: "List available serial ports",
	RunE: func(cmd *cobra.Command, args []string) error {
		ports, err := serial.GetPortsList()
		if err != nil {
			return err
		}
		if len(ports) == 0 {
			log.Println("no serial port found")
			return nil
		}
		for _, v := range ports {
			fmt.Println(v)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(portsCmd)
}
