// Package temperature is the streaming data example: a chocolate factory
// sensor publishing temperature readings and a subscriber monitoring them.
package temperature

import (
	"fmt"
	"io"
	"math/rand/v2"
)

const (
	TopicName = "ChocolateTemperature"
	TypeName  = "Temperature"
)

type Temperature struct {
	SensorID string `json:"sensor_id"`
	Degrees  int32  `json:"degrees"`
}

// PrintData writes t the way the generated type support prints samples.
func PrintData(w io.Writer, t Temperature) {
	_, _ = fmt.Fprintf(w, "   sensor_id: %q\n", t.SensorID)
	_, _ = fmt.Fprintf(w, "   degrees: %d\n", t.Degrees)
}

// reading returns a simulated sensor value between 30 and 32 degrees.
func reading() int32 {
	return 30 + rand.Int32N(3)
}
