package wire

import (
	"io"
	"strings"
)

// Command is an RFC 3977 / RFC 4643 command keyword. Input is
// case-insensitive; commands are uppercased on the wire.
type Command string

// The closed set of commands this package knows how to serialize.
const (
	Article      Command = "ARTICLE"
	Body         Command = "BODY"
	Capabilities Command = "CAPABILITIES"
	Date         Command = "DATE"
	Group        Command = "GROUP"
	Hdr          Command = "HDR"
	Head         Command = "HEAD"
	Help         Command = "HELP"
	IHave        Command = "IHAVE"
	Last         Command = "LAST"
	List         Command = "LIST"
	ListGroup    Command = "LISTGROUP"
	ModeReader   Command = "MODE READER"
	NewGroups    Command = "NEWGROUPS"
	NewNews      Command = "NEWNEWS"
	Next         Command = "NEXT"
	Over         Command = "OVER"
	Post         Command = "POST"
	Quit         Command = "QUIT"
	Stat         Command = "STAT"

	AuthinfoUser Command = "AUTHINFO USER"
	AuthinfoPass Command = "AUTHINFO PASS"
	AuthinfoSASL Command = "AUTHINFO SASL"
)

// Protocol delimiters and limits (RFC 3977 §3.1).
const (
	// CRLF terminates every command and response line.
	CRLF = "\r\n"

	// MaxCommandLine is the maximum length of a command line in octets,
	// including the terminating CRLF.
	MaxCommandLine = 512

	// MaxArgument is the maximum length of a single argument in octets.
	MaxArgument = 497
)

// FormatCommand serializes a command line: the uppercased keyword, each
// argument preceded by a single space, then CRLF.
//
// The line is validated locally before anything touches the wire: a line
// over 512 octets or an argument over 497 octets yields
// CommandTooLongError, and arguments containing CR, LF, or NUL are
// rejected as a ProtocolError (they would desynchronize the exchange).
func FormatCommand(cmd Command, args ...string) ([]byte, error) {
	n := len(cmd) + len(CRLF)
	for _, arg := range args {
		if len(arg) > MaxArgument {
			return nil, &CommandTooLongError{Octets: n + 1 + len(arg)}
		}
		if strings.ContainsAny(arg, "\r\n\x00") {
			return nil, &ProtocolError{Message: "command argument contains CR, LF or NUL"}
		}
		n += 1 + len(arg)
	}
	if n > MaxCommandLine {
		return nil, &CommandTooLongError{Octets: n}
	}

	line := make([]byte, 0, n)
	line = append(line, strings.ToUpper(string(cmd))...)
	for _, arg := range args {
		line = append(line, ' ')
		line = append(line, arg...)
	}
	line = append(line, CRLF...)
	return line, nil
}

// WriteCommand serializes a command line and writes it to w.
func WriteCommand(w io.Writer, cmd Command, args ...string) error {
	line, err := FormatCommand(cmd, args...)
	if err != nil {
		return err
	}
	if _, err := w.Write(line); err != nil {
		return &ConnectionError{Op: "write", Err: err}
	}
	return nil
}
