// sirfdump opens a GPS receiver on a serial line, switches it into SiRF
// binary mode and writes a readable line per decoded output message to
// standard output. A verbatim copy of the raw byte stream is also written
// to a datestamped daily log file, matching nmeadump's log layout.
//
// Usage:
//
//	sirfdump -c config.json
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/goblimey/go-gpswire/config"
	"github.com/goblimey/go-gpswire/gpsport"
	"github.com/goblimey/go-gpswire/sirf/command"
	"github.com/goblimey/go-gpswire/sirf/frame"
	"github.com/goblimey/go-gpswire/sirf/message"
	"github.com/goblimey/go-tools/dailylogger"
	"github.com/goblimey/go-tools/switchWriter"
)

var eventLogger *slog.Logger

func main() {
	var configFileName string
	flag.StringVar(&configFileName, "c", "", "JSON config file")
	flag.StringVar(&configFileName, "config", "", "JSON config file")
	flag.Parse()

	if len(configFileName) == 0 {
		os.Stderr.Write([]byte("missing config file: -c or --config\n"))
		os.Exit(-1)
	}

	cfg, errConfig := config.GetConfig(configFileName)
	if errConfig != nil {
		os.Stderr.Write([]byte(errConfig.Error() + "\n"))
		os.Exit(-1)
	}

	if len(cfg.Log.MessageLogDirectory) > 0 {
		dailyEventLogger := dailylogger.New(cfg.Log.MessageLogDirectory, "sirfdump.", ".log")
		eventLogger = slog.New(slog.NewTextHandler(dailyEventLogger, nil))
	}

	portSettings, errSettings := cfg.Serial.GPSPortSettings()
	if errSettings != nil {
		fatal(errSettings)
	}

	port, errOpen := gpsport.Open(cfg.Serial.Filenames, portSettings)
	if errOpen != nil {
		fatal(errOpen)
	}
	defer port.Close()

	if cfg.Startup.Protocol == "sirf_binary" {
		command.SetProtocol(port, command.ProtocolSiRFBinary)
	}

	rawLog := switchWriter.New()
	if len(cfg.Log.MessageLogDirectory) > 0 {
		rawLog.SwitchTo(dailylogger.New(cfg.Log.MessageLogDirectory, "sirfdump.", ".sirf"))
	}

	tee := &teeSource{port: port, log: rawLog}

	f := frame.New(tee, displayMessage)
	for {
		f.Poll()
	}
}

type teeSource struct {
	port *gpsport.Port
	log  io.Writer
}

func (t *teeSource) Available() bool { return t.port.Available() }

func (t *teeSource) Read() byte {
	b := t.port.Read()
	if t.log != nil {
		t.log.Write([]byte{b})
	}
	return b
}

func displayMessage(m *message.OutputMessage) {
	switch m.ID {
	case message.GeodeticNavigationDataID:
		fmt.Printf("GeodeticNavigationData %+v\n", m.GeodeticNavigationData)
	case message.CPUThroughputID:
		fmt.Printf("CPUThroughput %+v\n", m.CPUThroughput)
	case message.CommandAcknowledgmentID:
		fmt.Printf("CommandAcknowledgment %+v\n", m.CommandAcknowledgment)
	default:
		fmt.Printf("message id %d\n", m.ID)
	}
}

func fatal(err error) {
	if eventLogger != nil {
		eventLogger.Error(err.Error())
	}
	os.Stderr.Write([]byte(err.Error() + "\n"))
	os.Exit(-1)
}
