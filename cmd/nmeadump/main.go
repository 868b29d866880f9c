// nmeadump opens a GPS receiver on a serial line, switches it into NMEA
// mode and requests the sentences named in its config, and writes a
// readable line per decoded sentence to standard output. A verbatim copy
// of the raw byte stream is also written to a datestamped daily log file,
// rolled over at midnight.
//
// Usage:
//
//	nmeadump -c config.json
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/robfig/cron"

	"github.com/goblimey/go-gpswire/buffer"
	"github.com/goblimey/go-gpswire/config"
	"github.com/goblimey/go-gpswire/gpsport"
	"github.com/goblimey/go-gpswire/nmea/command"
	"github.com/goblimey/go-gpswire/nmea/message"
	"github.com/goblimey/go-gpswire/nmea/parser"
	"github.com/goblimey/go-tools/dailylogger"
	"github.com/goblimey/go-tools/switchWriter"
)

// eventLogger writes to the daily event log, nil if the config doesn't name
// a log directory.
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
		dailyEventLogger := dailylogger.New(cfg.Log.MessageLogDirectory, "nmeadump.", ".log")
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

	issueStartupCommands(port, cfg)

	if cfg.ReissueStartupDaily {
		cr := cron.New()
		cr.AddFunc("0 0 * * *", func() { issueStartupCommands(port, cfg) })
		cr.Start()
	}

	rawLog := switchWriter.New()
	if len(cfg.Log.MessageLogDirectory) > 0 {
		rawLog.SwitchTo(dailylogger.New(cfg.Log.MessageLogDirectory, "nmeadump.", ".nmea"))
	}

	tee := &teeSource{port: port, log: rawLog}

	p := parser.New(tee, nil, displayMessage)
	for {
		if !port.Available() {
			continue
		}
		p.Drain()
	}
}

// issueStartupCommands switches the receiver into NMEA mode and requests
// the configured sentence rates. Run once at startup and, if configured,
// once a day afterwards in case the receiver lost its settings across a
// power cycle.
func issueStartupCommands(sink buffer.ByteSink, cfg *config.Config) {
	if cfg.Startup.Protocol == "nmea" {
		command.DefaultSetSerialPort(sink, 1, cfg.Serial.BaudRate)
	}
	for _, rate := range cfg.Startup.SentenceRates {
		command.QueryRateControl(sink, rate.MessageType, rate.Mode, rate.Rate, rate.ChecksumEnable)
	}
}

// teeSource wraps a gpsport.Port, copying every byte read to a raw log
// writer in addition to handing it to the parser.
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

// displayMessage prints one decoded sentence as a single readable line.
func displayMessage(m *message.Message) {
	switch m.ID {
	case message.GGA:
		fmt.Printf("GGA %+v\n", m.GGA)
	case message.GLL:
		fmt.Printf("GLL %+v\n", m.GLL)
	case message.GSA:
		fmt.Printf("GSA %+v\n", m.GSA)
	case message.GSV:
		fmt.Printf("GSV %+v\n", m.GSV)
	case message.MSS:
		fmt.Printf("MSS %+v\n", m.MSS)
	case message.RMC:
		fmt.Printf("RMC %+v\n", m.RMC)
	case message.VTG:
		fmt.Printf("VTG %+v\n", m.VTG)
	case message.ZDA:
		fmt.Printf("ZDA %+v\n", m.ZDA)
	case message.PSRF150:
		fmt.Printf("PSRF150 %+v\n", m.PSRF150)
	case message.PSRF151:
		fmt.Printf("PSRF151 %+v\n", m.PSRF151)
	case message.PSRF152:
		fmt.Printf("PSRF152 %+v\n", m.PSRF152)
	case message.PSRF154:
		fmt.Printf("PSRF154 %+v\n", m.PSRF154)
	}
}

func fatal(err error) {
	if eventLogger != nil {
		eventLogger.Error(err.Error())
	}
	os.Stderr.Write([]byte(err.Error() + "\n"))
	os.Exit(-1)
}
