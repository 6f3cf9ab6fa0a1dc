package ui

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func capture(t *testing.T) (*bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	prevOut, prevErr := Out, Err
	Out, Err = out, errOut
	t.Cleanup(func() { Out, Err = prevOut, prevErr })
	return out, errOut
}

func TestMessagesGoToTheRightStream(t *testing.T) {
	out, errOut := capture(t)

	PrintSuccess("loaded %d records", 3)
	PrintError("connect %s", "mysql")

	assert.Contains(t, out.String(), "loaded 3 records")
	assert.Contains(t, errOut.String(), "connect mysql")
	assert.NotContains(t, out.String(), "connect mysql")
}

func TestPrintTable(t *testing.T) {
	out, _ := capture(t)

	require.NoError(t, PrintTable(
		[]string{"Code", "Name"},
		[][]string{{"d001", "Marketing"}, {"d002", "Finance"}},
	))

	assert.Contains(t, out.String(), "d001")
	assert.Contains(t, out.String(), "Finance")
}

func TestPrintSummary(t *testing.T) {
	out, _ := capture(t)

	PrintSummary("employees", []Stat{
		{Label: "Inserted", Value: 2},
		{Label: "Duration", Value: 1500 * time.Microsecond},
	})

	assert.Contains(t, out.String(), "employees")
	assert.Contains(t, out.String(), "Inserted")
	assert.Contains(t, out.String(), "2ms")
}

func TestSpinnerDisabledForBuffers(t *testing.T) {
	capture(t)
	s := StartSpinner("loading")
	assert.Nil(t, s)
	s.Success("done")
	s.Fail("failed")
}

func TestKeyValue(t *testing.T) {
	out, _ := capture(t)
	KeyValue("Version", "1.0.0", "Go", "go1.24")
	assert.Contains(t, out.String(), "1.0.0")
	assert.Contains(t, out.String(), "go1.24")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "Marketing", Truncate("Marketing", 20))
	assert.Equal(t, "Mark…", Truncate("Marketing", 5))
	assert.Equal(t, "…", Truncate("Marketing", 1))
	assert.Equal(t, "Marketing", Truncate("Marketing", 0))
}
