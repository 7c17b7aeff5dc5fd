package logger_test

import (
	"strings"
	"testing"

	"github.com/jetsetilly/testsdi/logger"
	"github.com/jetsetilly/testsdi/test"
)

func TestLogger(t *testing.T) {
	logger.Clear()

	b := &strings.Builder{}
	logger.Write(b)
	test.ExpectEquality(t, b.String(), "")

	logger.Log(logger.Allow, "test", "this is a test")
	b.Reset()
	logger.Write(b)
	test.ExpectEquality(t, b.String(), "test: this is a test\n")

	// repeated entries fold into the previous entry
	logger.Log(logger.Allow, "test", "this is a test")
	b.Reset()
	logger.Write(b)
	test.ExpectEquality(t, b.String(), "test: this is a test (repeat x2)\n")

	logger.Logf(logger.Allow, "test2", "formatted %d", 10)
	b.Reset()
	logger.Tail(b, 1)
	test.ExpectEquality(t, b.String(), "test2: formatted 10\n")

	b.Reset()
	logger.Tail(b, -1)
	test.ExpectEquality(t, b.String(), "test: this is a test (repeat x2)\ntest2: formatted 10\n")

	logger.Clear()
	b.Reset()
	logger.Write(b)
	test.ExpectEquality(t, b.String(), "")
}
