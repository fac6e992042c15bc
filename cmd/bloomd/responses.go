package main

import (
	"fmt"
	"io"
	"strconv"
)

// Pre-built responses for the hot cases. BF.ADD and BF.EXISTS answer
// almost exclusively with :0 or :1, so these eliminate allocations on
// the vast majority of replies.
var (
	respOK   = []byte("+OK\r\n")
	respPong = []byte("+PONG\r\n")
	respZero = []byte(":0\r\n")
	respOne  = []byte(":1\r\n")
)

func (app *application) writeSimpleStringResponse(w io.Writer, s string) error {
	switch s {
	case "OK":
		_, err := w.Write(respOK)
		return err
	case "PONG":
		_, err := w.Write(respPong)
		return err
	}

	buf := make([]byte, 0, 1+len(s)+2)
	buf = append(buf, '+')
	buf = append(buf, s...)
	buf = append(buf, '\r', '\n')
	_, err := w.Write(buf)
	return err
}

func (app *application) writeErrorResponse(w io.Writer, errStr string) error {
	app.metrics.ErrorReplies.Add(1)

	buf := make([]byte, 0, 1+len(errStr)+2)
	buf = append(buf, '-')
	buf = append(buf, errStr...)
	buf = append(buf, '\r', '\n')
	_, err := w.Write(buf)
	return err
}

func (app *application) writeIntegerResponse(w io.Writer, i int) error {
	if i == 0 {
		_, err := w.Write(respZero)
		return err
	}
	if i == 1 {
		_, err := w.Write(respOne)
		return err
	}

	buf := make([]byte, 0, 24)
	buf = append(buf, ':')
	buf = strconv.AppendInt(buf, int64(i), 10)
	buf = append(buf, '\r', '\n')
	_, err := w.Write(buf)
	return err
}

// writeBulkStringResponse writes a length-prefixed bulk string. Used by
// BF.INFO and STATS, neither of which is a hot path.
func (app *application) writeBulkStringResponse(w io.Writer, s string) error {
	buf := make([]byte, 0, 16+len(s))
	buf = append(buf, '$')
	buf = strconv.AppendInt(buf, int64(len(s)), 10)
	buf = append(buf, '\r', '\n')
	buf = append(buf, s...)
	buf = append(buf, '\r', '\n')
	_, err := w.Write(buf)
	return err
}

// writeIntegerArrayResponse writes a RESP array of integers in a single
// Write call. BF.MADD and BF.MEXISTS responses are almost always 0s and
// 1s, so the size estimate of five bytes per element is rarely exceeded.
func (app *application) writeIntegerArrayResponse(w io.Writer, values []int) error {
	buf := make([]byte, 0, 6+len(values)*5)

	buf = append(buf, '*')
	buf = strconv.AppendInt(buf, int64(len(values)), 10)
	buf = append(buf, '\r', '\n')

	for _, v := range values {
		buf = append(buf, ':')
		buf = strconv.AppendInt(buf, int64(v), 10)
		buf = append(buf, '\r', '\n')
	}

	_, err := w.Write(buf)
	return err
}

// unknownCommandResponse sends an unknown command error to the client.
func (app *application) unknownCommandResponse(w io.Writer, commandName string) {
	_ = app.writeErrorResponse(w, fmt.Sprintf("ERR unknown command '%s'", commandName))
}

// wrongNumberOfArgsResponse sends an arity error to the client.
func (app *application) wrongNumberOfArgsResponse(w io.Writer, commandName string) {
	_ = app.writeErrorResponse(w, fmt.Sprintf("ERR wrong number of arguments for '%s' command", commandName))
}
