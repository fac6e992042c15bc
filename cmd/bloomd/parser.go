// parser.go implements the request side of the RESP wire protocol.
//
// Speaking RESP means bloomd works out of the box with redis-cli,
// redis-benchmark and any Redis client library, and the length-prefixed
// bulk strings make every argument binary safe — filter items can be
// arbitrary bytes, not just printable text.
//
// Only the request subset is implemented: clients send either a RESP
// array of bulk strings ("*2\r\n$6\r\nBF.ADD\r\n...") or an inline,
// space-separated command line ("BF.ADD urls example.com\r\n", handy
// with netcat). Responses are produced by responses.go.
//
// The parser enforces three limits before allocating anything, so a
// malicious client cannot force huge allocations or unbounded buffering
// with a forged length prefix or a never-terminated line.

package main

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"strconv"
)

const (
	// MaxBulkLength caps a single argument at 512MB (the Redis
	// proto-max-bulk-len default).
	MaxBulkLength = 512 * 1024 * 1024

	// MaxArrayLen caps the argument count of one command.
	MaxArrayLen = 1 << 20

	// MaxLineSize caps header and inline command lines.
	MaxLineSize = 64 * 1024
)

var (
	ErrInvalidSyntax = errors.New("ERR protocol error: invalid syntax")
	ErrLineTooLong   = errors.New("ERR protocol error: line too long")
	ErrBulkTooLarge  = errors.New("ERR protocol error: bulk string exceeds 512MB limit")
	ErrArrayTooLong  = errors.New("ERR protocol error: array exceeds 1M elements limit")
)

type Parser struct {
	reader *bufio.Reader
}

func NewParser(conn io.Reader) *Parser {
	return &Parser{reader: bufio.NewReaderSize(conn, 4096)}
}

// Parse reads one command and returns it as a slice of arguments, with
// the command name in position 0.
func (p *Parser) Parse() ([]string, error) {
	line, err := p.readLine()
	if err != nil {
		return nil, err
	}
	if len(line) == 0 {
		return nil, ErrInvalidSyntax
	}

	if line[0] == '*' {
		return p.parseRESPArray(line)
	}
	return p.parseInline(line)
}

// Buffered reports how many bytes are waiting in the read buffer. The
// server uses this to delay flushing responses while a pipelined batch
// is still being drained.
func (p *Parser) Buffered() int {
	return p.reader.Buffered()
}

// readLine reads up to '\n', enforcing MaxLineSize so a client that
// never terminates a line cannot buffer without bound.
func (p *Parser) readLine() ([]byte, error) {
	line, isPrefix, err := p.reader.ReadLine()
	if err != nil {
		return nil, err
	}
	if !isPrefix {
		return line, nil
	}

	// The line exceeded bufio's buffer; accumulate with a hard cap.
	var buf bytes.Buffer
	buf.Write(line)
	for isPrefix {
		line, isPrefix, err = p.reader.ReadLine()
		if err != nil {
			return nil, err
		}
		if buf.Len()+len(line) > MaxLineSize {
			return nil, ErrLineTooLong
		}
		buf.Write(line)
	}
	return buf.Bytes(), nil
}

// parseInline splits a space-separated command line into arguments.
func (p *Parser) parseInline(line []byte) ([]string, error) {
	fields := bytes.Fields(line)
	if len(fields) == 0 {
		return nil, ErrInvalidSyntax
	}

	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = string(f)
	}
	return parts, nil
}

// parseRESPArray parses "*<count>\r\n" followed by count bulk strings.
func (p *Parser) parseRESPArray(header []byte) ([]string, error) {
	count, err := strconv.Atoi(string(bytes.TrimSpace(header[1:])))
	if err != nil {
		return nil, ErrInvalidSyntax
	}

	// Null (*-1) and empty (*0) arrays are valid, if useless, requests.
	if count <= 0 {
		return []string{}, nil
	}
	if count > MaxArrayLen {
		return nil, ErrArrayTooLong
	}

	parts := make([]string, 0, count)
	for i := 0; i < count; i++ {
		s, err := p.parseBulkString()
		if err != nil {
			return nil, err
		}
		parts = append(parts, s)
	}
	return parts, nil
}

// parseBulkString parses "$<length>\r\n<data>\r\n". A null bulk string
// ($-1) is accepted and treated as empty, since no command here
// distinguishes null from empty arguments.
func (p *Parser) parseBulkString() (string, error) {
	line, err := p.readLine()
	if err != nil {
		return "", err
	}
	if len(line) == 0 || line[0] != '$' {
		return "", ErrInvalidSyntax
	}

	length, err := strconv.Atoi(string(bytes.TrimSpace(line[1:])))
	if err != nil {
		return "", ErrInvalidSyntax
	}
	if length == -1 {
		return "", nil
	}
	if length < 0 {
		return "", ErrInvalidSyntax
	}
	if length > MaxBulkLength {
		return "", ErrBulkTooLarge
	}

	// Read the payload plus its trailing CRLF in one go.
	buf := make([]byte, length+2)
	if _, err := io.ReadFull(p.reader, buf); err != nil {
		return "", err
	}
	if buf[length] != '\r' || buf[length+1] != '\n' {
		return "", ErrInvalidSyntax
	}
	return string(buf[:length]), nil
}
