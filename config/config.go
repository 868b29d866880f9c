// Package config reads the JSON configuration for the command-line tools
// in cmd/nmeadump and cmd/sirfdump: which serial device to open and at
// what settings, which protocol and sentences to request from the receiver
// at startup, and where to write the daily log.
//
// Grounded on jsonconfig.jsonconfig.go and
// apps/rtcmlogger/config/config.go: open the file, read it whole, hand the
// bytes to json.Unmarshal, log any error with slog and return it as is
// (the logged message does not name the file).
package config

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"go.bug.st/serial"

	"github.com/goblimey/go-gpswire/gpsport"
)

// SerialSettings mirrors serial_usb_grabber's Config fields that feed
// serial.Mode, plus the read timeout and device candidate list gpsport.Open
// needs.
type SerialSettings struct {
	// Filenames is a list of candidate serial device paths to try in turn,
	// e.g. "/dev/ttyACM0", "/dev/ttyUSB0".
	Filenames []string `json:"filenames"`

	BaudRate int `json:"baud_rate"`

	// Parity is one of "no_parity", "odd_parity", "even_parity",
	// "mark_parity", "space_parity".
	Parity string `json:"parity"`

	DataBits int `json:"data_bits"`

	// StopBits is 1, 1.5 or 2.
	StopBits float32 `json:"stop_bits"`

	ReadTimeoutMilliseconds int `json:"read_timeout_milliseconds"`
}

// GPSPortSettings converts the JSON-friendly fields into the gpsport.Settings
// that Open requires, applying the same parity/stop-bit mapping as
// serial_usb_grabber's parseConfigFromBytes.
func (s SerialSettings) GPSPortSettings() (gpsport.Settings, error) {
	settings := gpsport.Settings{
		BaudRate: s.BaudRate,
		DataBits: s.DataBits,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
		ReadTimeout: time.Duration(s.ReadTimeoutMilliseconds) * time.Millisecond,
	}

	if len(s.Parity) > 0 {
		switch s.Parity {
		case "no_parity":
			settings.Parity = serial.NoParity
		case "odd_parity":
			settings.Parity = serial.OddParity
		case "even_parity":
			settings.Parity = serial.EvenParity
		case "mark_parity":
			settings.Parity = serial.MarkParity
		case "space_parity":
			settings.Parity = serial.SpaceParity
		default:
			return gpsport.Settings{}, fmt.Errorf("config: illegal parity value %s", s.Parity)
		}
	}

	if s.StopBits > 0 {
		switch s.StopBits {
		case 1:
			settings.StopBits = serial.OneStopBit
		case 1.5:
			settings.StopBits = serial.OnePointFiveStopBits
		case 2:
			settings.StopBits = serial.TwoStopBits
		default:
			return gpsport.Settings{}, fmt.Errorf("config: stop bit value must be 1, 1.5 or 2, got %f", s.StopBits)
		}
	}

	return settings, nil
}

// StartupConfig describes what this tool should ask the receiver to do the
// moment the port opens: switch to a protocol, and (NMEA only) request a
// set of sentences at given rates.
type StartupConfig struct {
	// Protocol is "nmea" or "sirf_binary". An empty value leaves the
	// receiver's current protocol alone.
	Protocol string `json:"protocol"`

	// SentenceRates requests a PSRF103 rate-control message per entry.
	// MessageType follows the receiver's own numbering (GGA=0, GLL=1,
	// GSA=2, GSV=3, RMC=4, VTG=5, MSS=6, ZDA=8), matching
	// original_source/src/GPS/nmea.h's MessageType enum.
	SentenceRates []SentenceRate `json:"sentence_rates"`
}

// SentenceRate is one PSRF103 request.
type SentenceRate struct {
	MessageType    int `json:"message_type"`
	Mode           int `json:"mode"`
	Rate           int `json:"rate"`
	ChecksumEnable int `json:"checksum_enable"`
}

// LogConfig names where the daily log goes, matching
// apps/rtcmlogger/config.Config's directory-naming convention.
type LogConfig struct {
	MessageLogDirectory        string `json:"message_log_directory"`
	DirectoryForOldMessageLogs string `json:"directory_for_old_message_logs"`
}

// Config is the top-level configuration document for cmd/nmeadump and
// cmd/sirfdump.
type Config struct {
	Serial  SerialSettings `json:"serial"`
	Startup StartupConfig  `json:"startup"`
	Log     LogConfig      `json:"log"`

	// ReissueStartupDaily causes cmd/nmeadump to re-send the startup
	// PSRF103 requests once a day via cron, guarding against a receiver
	// that silently reset its output configuration after a power cycle.
	ReissueStartupDaily bool `json:"reissue_startup_daily"`
}

// GetConfig reads and parses the named JSON config file.
func GetConfig(configFile string) (*Config, error) {
	file, err := os.Open(configFile)
	if err != nil {
		em := fmt.Sprintf("[-] Cannot open config file: %s\n", err.Error())
		slog.Error(em)
		return nil, err
	}
	defer file.Close()

	return getConfigFromReader(file)
}

// getConfigFromReader parses a config document from an already-open reader.
func getConfigFromReader(configReader io.Reader) (*Config, error) {
	data, errRead := io.ReadAll(configReader)
	if errRead != nil {
		em := fmt.Sprintf("[-] Error reading config file: %s\n", errRead.Error())
		slog.Error(em)
		return nil, errRead
	}

	config, parseError := parseConfigFromBytes(data)
	if parseError != nil {
		em := fmt.Sprintf("[-] Not a valid config file: %s\n", parseError.Error())
		slog.Error(em)
		return nil, parseError
	}

	return config, nil
}

func parseConfigFromBytes(data []byte) (*Config, error) {
	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, err
	}

	if config.Serial.BaudRate == 0 {
		config.Serial.BaudRate = 4800
	}
	if config.Serial.DataBits == 0 {
		config.Serial.DataBits = 8
	}
	if config.Serial.StopBits == 0 {
		config.Serial.StopBits = 1
	}
	if config.Serial.ReadTimeoutMilliseconds == 0 {
		config.Serial.ReadTimeoutMilliseconds = 500
	}

	return &config, nil
}
