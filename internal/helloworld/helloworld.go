// Package helloworld is the first getting-started example: a publisher that
// writes a greeting every send period and a subscriber that prints what it
// receives.
package helloworld

import (
	"fmt"
	"io"
)

const (
	TopicName = "Example HelloMessage"
	TypeName  = "HelloMessage"
)

type HelloMessage struct {
	Msg string `json:"msg"`
}

// PrintData writes m the way the generated type support prints samples.
func PrintData(w io.Writer, m HelloMessage) {
	_, _ = fmt.Fprintf(w, "   msg: %q\n", m.Msg)
}
