// Package logger is the central log for the application. there is only one
// log and the package level functions are used to add and retrieve entries
package logger

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// Entry represents a single line/entry in the log
type Entry struct {
	Timestamp time.Time
	tag       string
	detail    string
	repeated  int
}

func (e *Entry) String() string {
	s := strings.Builder{}
	s.WriteString(fmt.Sprintf("%s: %s", e.tag, e.detail))
	if e.repeated > 0 {
		s.WriteString(fmt.Sprintf(" (repeat x%d)", e.repeated+1))
	}
	s.WriteString("\n")
	return s.String()
}

// Permission implementations indicate whether the environment making a log
// request is allowed to create new log entries
type Permission interface {
	AllowLogging() bool
}

type allow struct{}

func (allow) AllowLogging() bool {
	return true
}

// Allow indicates that the logging request should be allowed
var Allow Permission = allow{}

// maximum number of entries in the central logger
const maxCentral = 256

type logger struct {
	entries []Entry
	echo    io.Writer
}

var central logger

func (l *logger) log(tag string, detail string) {
	// remove all newline characters from tag and detail string
	tag = strings.ReplaceAll(tag, "\n", "")
	detail = strings.ReplaceAll(detail, "\n", "")

	if len(l.entries) > 0 {
		e := &l.entries[len(l.entries)-1]
		if e.tag == tag && e.detail == detail {
			e.repeated++
			e.Timestamp = time.Now()
			return
		}
	}

	l.entries = append(l.entries, Entry{Timestamp: time.Now(), tag: tag, detail: detail})

	// maintain maximum length
	if len(l.entries) > maxCentral {
		l.entries = l.entries[len(l.entries)-maxCentral:]
	}

	if l.echo != nil {
		io.WriteString(l.echo, l.entries[len(l.entries)-1].String())
	}
}

// Log adds an entry to the central logger
func Log(perm Permission, tag string, detail any) {
	if perm == Allow || perm.AllowLogging() {
		switch d := detail.(type) {
		case string:
			central.log(tag, d)
		case error:
			central.log(tag, d.Error())
		case fmt.Stringer:
			central.log(tag, d.String())
		default:
			central.log(tag, fmt.Sprintf("%v", d))
		}
	}
}

// Logf adds a formatted entry to the central logger
func Logf(perm Permission, tag string, format string, args ...any) {
	if perm == Allow || perm.AllowLogging() {
		central.log(tag, fmt.Sprintf(format, args...))
	}
}

// Clear all entries from the central logger
func Clear() {
	central.entries = central.entries[:0]
}

// Write contents of the central logger to the io.Writer
func Write(output io.Writer) {
	for _, e := range central.entries {
		io.WriteString(output, e.String())
	}
}

// Tail writes the last number entries to the io.Writer. a negative number
// writes every entry
func Tail(output io.Writer, number int) {
	if number < 0 || number > len(central.entries) {
		number = len(central.entries)
	}
	for _, e := range central.entries[len(central.entries)-number:] {
		io.WriteString(output, e.String())
	}
}

// SetEcho prints future log entries to the io.Writer as they arrive. a nil
// writer stops the echo
func SetEcho(output io.Writer) {
	central.echo = output
}
