package obslog

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWarnfWritesCategoryPrefixedLine(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)

	Parser.Warnf("unexpected token %q", "foo")
	out := buf.String()
	assert.Contains(t, out, "[parser]")
	assert.Contains(t, out, "WARN")
	assert.Contains(t, out, `unexpected token "foo"`)
}

func TestDebugfSuppressedUntilSetDebug(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)
	SetDebug(false)

	Reasoner.Debugf("cycle %d", 1)
	assert.Empty(t, buf.String())

	SetDebug(true)
	defer SetDebug(false)
	Reasoner.Debugf("cycle %d", 2)
	assert.True(t, strings.Contains(buf.String(), "DEBUG"))
}

func TestEachCategoryLogsUnderItsOwnName(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)

	Matcher.Infof("joined %d tokens", 3)
	Fuzzy.Errorf("defuzzification failed")
	out := buf.String()
	assert.Contains(t, out, "[matcher]")
	assert.Contains(t, out, "[fuzzy]")
}
