package config

import (
	"os"
	"testing"

	"github.com/goblimey/go-tools/testsupport"
	"go.bug.st/serial"
)

func TestParseConfigFromBytes(t *testing.T) {
	json := []byte(`
		{
			"serial": {
				"filenames": ["/dev/ttyACM0", "/dev/ttyACM1"],
				"baud_rate": 38400,
				"parity": "even_parity",
				"data_bits": 7,
				"stop_bits": 1.5,
				"read_timeout_milliseconds": 200
			},
			"startup": {
				"protocol": "nmea",
				"sentence_rates": [
					{"message_type": 4, "mode": 0, "rate": 1, "checksum_enable": 1}
				]
			},
			"log": {
				"message_log_directory": "messages",
				"directory_for_old_message_logs": "saved"
			},
			"reissue_startup_daily": true
		}
	`)

	config, err := parseConfigFromBytes(json)
	if err != nil {
		t.Fatal(err)
	}

	if len(config.Serial.Filenames) != 2 {
		t.Fatalf("want 2 filenames, got %d", len(config.Serial.Filenames))
	}
	if config.Serial.Filenames[0] != "/dev/ttyACM0" {
		t.Errorf("want /dev/ttyACM0, got %s", config.Serial.Filenames[0])
	}
	if config.Serial.BaudRate != 38400 {
		t.Errorf("want 38400, got %d", config.Serial.BaudRate)
	}
	if config.Serial.Parity != "even_parity" {
		t.Errorf("want even_parity, got %s", config.Serial.Parity)
	}

	if config.Startup.Protocol != "nmea" {
		t.Errorf("want nmea, got %s", config.Startup.Protocol)
	}
	if len(config.Startup.SentenceRates) != 1 {
		t.Fatalf("want 1 sentence rate, got %d", len(config.Startup.SentenceRates))
	}
	if config.Startup.SentenceRates[0].MessageType != 4 {
		t.Errorf("want message type 4, got %d", config.Startup.SentenceRates[0].MessageType)
	}

	if config.Log.MessageLogDirectory != "messages" {
		t.Errorf("want messages, got %s", config.Log.MessageLogDirectory)
	}

	if !config.ReissueStartupDaily {
		t.Error("want ReissueStartupDaily true")
	}

	gp, err := config.Serial.GPSPortSettings()
	if err != nil {
		t.Fatal(err)
	}
	if gp.BaudRate != 38400 {
		t.Errorf("want 38400, got %d", gp.BaudRate)
	}
	if gp.Parity != serial.EvenParity {
		t.Errorf("want EvenParity, got %v", gp.Parity)
	}
	if gp.StopBits != serial.OnePointFiveStopBits {
		t.Errorf("want OnePointFiveStopBits, got %v", gp.StopBits)
	}
}

func TestParseConfigDefaultsSerialSettings(t *testing.T) {
	config, err := parseConfigFromBytes([]byte(`{}`))
	if err != nil {
		t.Fatal(err)
	}

	if config.Serial.BaudRate != 4800 {
		t.Errorf("want default baud rate 4800, got %d", config.Serial.BaudRate)
	}
	if config.Serial.DataBits != 8 {
		t.Errorf("want default data bits 8, got %d", config.Serial.DataBits)
	}
	if config.Serial.StopBits != 1 {
		t.Errorf("want default stop bits 1, got %f", config.Serial.StopBits)
	}
	if config.Serial.ReadTimeoutMilliseconds != 500 {
		t.Errorf("want default read timeout 500, got %d", config.Serial.ReadTimeoutMilliseconds)
	}
}

func TestParseConfigRejectsIllegalParity(t *testing.T) {
	config, err := parseConfigFromBytes([]byte(`{"serial": {"parity": "nonsense_parity"}}`))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := config.Serial.GPSPortSettings(); err == nil {
		t.Fatal("want an error for an illegal parity value")
	}
}

func TestParseConfigWithError(t *testing.T) {
	_, err := parseConfigFromBytes([]byte("{junk}"))
	if err == nil {
		t.Error("expected an error")
	}
}

// TestGetConfig checks that GetConfig correctly reads a config file.
func TestGetConfig(t *testing.T) {
	testDirName, createDirectoryError := testsupport.CreateWorkingDirectory()
	if createDirectoryError != nil {
		t.Fatal(createDirectoryError)
	}
	defer testsupport.RemoveWorkingDirectory(testDirName)

	writer, fileCreateError := os.Create("config.json")
	if fileCreateError != nil {
		t.Fatal(fileCreateError)
	}

	json := `
		{
			"serial": {
				"filenames": ["/dev/ttyACM0"],
				"baud_rate": 9600
			}
		}
	`
	if _, writeError := writer.Write([]byte(json)); writeError != nil {
		t.Fatal(writeError)
	}

	config, errConfig := GetConfig("./config.json")
	if errConfig != nil {
		t.Fatal(errConfig)
	}

	if config.Serial.BaudRate != 9600 {
		t.Errorf("want 9600, got %d", config.Serial.BaudRate)
	}
	if len(config.Serial.Filenames) != 1 || config.Serial.Filenames[0] != "/dev/ttyACM0" {
		t.Errorf("want [/dev/ttyACM0], got %v", config.Serial.Filenames)
	}
}

func TestGetConfigMissingFile(t *testing.T) {
	_, err := GetConfig("./does-not-exist.json")
	if err == nil {
		t.Fatal("want an error for a missing config file")
	}
}
