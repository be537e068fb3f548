package cmd

import (
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/hydrabus-tools/picsp/pic18"
	"github.com/hydrabus-tools/picsp/rawwire"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "picsp",
	Short: "PIC18 in-circuit programmer for the Hydrabus",
	Long: `picsp programs and dumps PIC18 microcontrollers through their 2-wire
in-circuit programming protocol, driven by a Hydrabus board in binary
raw wire mode.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

func init() {
	log.SetFlags(0)
	log.SetPrefix("picsp: ")

	rootCmd.PersistentFlags().String("config", "", "path to config (defaults to picsp.toml next to the executable)")
	rootCmd.PersistentFlags().StringP("device", "d", "", "path to serial port, if empty it will be searched automatically")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "trace raw wire traffic")
}

// openTarget opens the configured serial device, or scans for one,
// and hands back the connection with a programmer on it.
func openTarget(cmd *cobra.Command) (*rawwire.Conn, *pic18.PIC18, error) {
	if err := loadConfig(cmd); err != nil {
		return nil, nil, err
	}
	var (
		conn *rawwire.Conn
		err  error
	)
	if cfg.Device != "" {
		conn, err = rawwire.Open(cfg.Device, &cfg.Serial)
	} else {
		conn, err = rawwire.FindPort(&cfg.Serial)
	}
	if err != nil {
		return nil, nil, err
	}
	if d := time.Duration(cfg.ReadTimeout); d > 0 {
		conn.ReadTimeout = d
	}
	conn.Verbose = cfg.Verbose

	opts := []pic18.Option{pic18.WithPollLimit(cfg.PollLimit)}
	if d := time.Duration(cfg.ProgramPulse); d > 0 {
		opts = append(opts, pic18.WithProgramPulse(d))
	}
	pic, err := pic18.New(conn, opts...)
	if err != nil {
		conn.Close()
		return nil, nil, err
	}
	return conn, pic, nil
}

// parseAddr parses the --addr flag. bits bounds the address space:
// 24 for the table pointer, 16 for data EEPROM.
func parseAddr(cmd *cobra.Command, bits int) (uint32, error) {
	s, _ := cmd.Flags().GetString("addr")
	v, err := strconv.ParseUint(s, 0, bits)
	if err != nil {
		return 0, fmt.Errorf("bad address \"%s\": %w", s, err)
	}
	return uint32(v), nil
}
