// Package config holds the settings of the oscdeck command.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/oscdeck/oscdeck/controller"
)

// EnvPrefix starts the name of every environment variable Load reads.
const EnvPrefix = "OSCDECK_"

// Config is the full set of runtime settings.
type Config struct {
	// name given to the controller in logs
	Name string

	// the OSC device: messages are sent to Host:SendPort
	Host     string
	SendPort int

	// local UDP port OSC messages are received on
	RecvPort int

	// address of the HTTP monitor, disabled when empty
	HTTPAddr string

	// path of the SQLite traffic log, disabled when empty
	RecordPath string

	LogLevel string
}

// Default returns the settings of a device on the local host.
func Default() Config {
	return Config{
		Name:     "osc",
		Host:     "127.0.0.1",
		SendPort: 7700,
		RecvPort: 9000,
		LogLevel: "info",
	}
}

// Load starts from Default, applies the given .env files that exist, then
// the process environment. Variables already set in the environment win over
// the files.
func Load(envFiles ...string) (Config, error) {
	cfg := Default()

	env := make(map[string]string)
	for _, f := range envFiles {
		vars, err := godotenv.Read(f)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return cfg, fmt.Errorf("Load: %w", err)
		}
		for k, v := range vars {
			// The first file defining a variable wins, as with godotenv.Load.
			if _, ok := env[k]; !ok {
				env[k] = v
			}
		}
	}
	for _, kv := range os.Environ() {
		k, v, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(k, EnvPrefix) {
			env[k] = v
		}
	}

	if err := cfg.apply(env); err != nil {
		return cfg, fmt.Errorf("Load: %w", err)
	}
	return cfg, nil
}

func (c *Config) apply(env map[string]string) error {
	strs := map[string]*string{
		"NAME":        &c.Name,
		"HOST":        &c.Host,
		"HTTP_ADDR":   &c.HTTPAddr,
		"RECORD_PATH": &c.RecordPath,
		"LOG_LEVEL":   &c.LogLevel,
	}
	for name, dst := range strs {
		if v, ok := env[EnvPrefix+name]; ok {
			*dst = v
		}
	}

	ints := map[string]*int{
		"SEND_PORT": &c.SendPort,
		"RECV_PORT": &c.RecvPort,
	}
	for name, dst := range ints {
		v, ok := env[EnvPrefix+name]
		if !ok {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s%s: %w", EnvPrefix, name, err)
		}
		*dst = n
	}
	return nil
}

// Validate checks that the device can be addressed.
func (c Config) Validate() error {
	var errs []error
	if c.Host == "" {
		errs = append(errs, errors.New("host is empty"))
	}
	if c.SendPort < 1 || c.SendPort > 65535 {
		errs = append(errs, fmt.Errorf("send port %d out of range", c.SendPort))
	}
	if c.RecvPort < 1 || c.RecvPort > 65535 {
		errs = append(errs, fmt.Errorf("receive port %d out of range", c.RecvPort))
	}
	return errors.Join(errs...)
}

// SendAddr returns Host:SendPort.
func (c Config) SendAddr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.SendPort))
}

// Controller returns the controller part of the settings.
func (c Config) Controller() controller.Config {
	return controller.Config{
		Name:     c.Name,
		Host:     c.Host,
		SendPort: c.SendPort,
		RecvPort: c.RecvPort,
	}
}
