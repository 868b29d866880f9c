package main

import (
	"testing"

	"github.com/goblimey/go-gpswire/sirf/message"
)

func TestDisplayMessageDoesNotPanicForEachMessageType(t *testing.T) {
	var m message.OutputMessage

	m.ID = message.GeodeticNavigationDataID
	displayMessage(&m)

	m.ID = message.CPUThroughputID
	displayMessage(&m)

	m.ID = message.CommandAcknowledgmentID
	displayMessage(&m)

	m.ID = 999
	displayMessage(&m)
}
