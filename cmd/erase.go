package cmd

import (
	"fmt"
	"log"
	"strings"

	"github.com/hydrabus-tools/picsp/pic18"
	"github.com/spf13/cobra"
)

var eraseCmd = &cobra.Command{
	Use:   "erase <panel>",
	Short: "Erase one panel of the chip",
	Long: `Erase one panel. Valid panel names:

  chip userid eeprom boot config block0 block1 block2 block3`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := strings.ToLower(args[0])
		panel, ok := pic18.Panels[name]
		if !ok {
			return fmt.Errorf("unknown panel \"%s\"", args[0])
		}

		conn, pic, err := openTarget(cmd)
		if err != nil {
			return err
		}
		defer conn.Close()

		if err := pic.ErasePanel(panel); err != nil {
			return err
		}
		log.Printf("%s panel erased", name)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(eraseCmd)
}
