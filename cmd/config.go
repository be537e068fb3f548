package cmd

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/hydrabus-tools/picsp/pic18"
	"github.com/hydrabus-tools/picsp/rawwire"
	"github.com/rkjdid/util"
	"github.com/spf13/cobra"
	"go.bug.st/serial"
)

// Config is the on-disk configuration. It is stored as toml next to
// the executable unless --config points somewhere else.
type Config struct {
	Device string
	Serial serial.Mode

	ReadTimeout  util.Duration
	PollLimit    int
	ProgramPulse util.Duration

	Verbose bool
}

var DefaultConfig = Config{
	Serial:       *rawwire.DefaultMode,
	ReadTimeout:  util.Duration(rawwire.DefaultTimeout),
	ProgramPulse: util.Duration(pic18.DefaultProgramPulse),
}

var cfg *Config

// loadConfig reads the toml config, creating it with defaults on
// first run, then applies command line overrides.
func loadConfig(cmd *cobra.Command) error {
	if cfg != nil {
		return nil
	}
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		exe, err := os.Executable()
		if err != nil {
			return fmt.Errorf("couldn't get path to executable: %w", err)
		}
		path = filepath.Join(filepath.Dir(exe), "picsp.toml")
	}
	err := util.ReadTomlFile(&cfg, path)
	if err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("error reading config \"%s\": %w", path, err)
		}
		cfg = &DefaultConfig
		if err = util.WriteTomlFile(cfg, path); err != nil {
			return fmt.Errorf("error creating config \"%s\": %w", path, err)
		}
		log.Printf("created new config file \"%s\"", path)
	}
	if dev, _ := cmd.Flags().GetString("device"); dev != "" {
		cfg.Device = dev
	}
	if v, _ := cmd.Flags().GetBool("verbose"); v {
		cfg.Verbose = true
	}
	return nil
}
