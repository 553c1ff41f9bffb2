package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"testing"

	"go.viam.com/test"
)

type jointReport struct {
	Joint int
	Angle float64
	note  string
}

// assertLogMatches fuzzy matches one log line: it checks the time has the right shape, the
// filename matches and the line number is numeric.
func assertLogMatches(t *testing.T, actual *bytes.Buffer, expected string) {
	t.Helper()

	output, err := actual.ReadString('\n')
	test.That(t, err, test.ShouldBeNil)

	actualParts := strings.Split(strings.TrimSuffix(output, "\n"), "\t")
	expectedParts := strings.Split(expected, "\t")
	test.That(t, len(actualParts), test.ShouldEqual, len(expectedParts))
	test.That(t, len(actualParts[0]), test.ShouldEqual, len(expectedParts[0]))
	test.That(t, actualParts[1], test.ShouldEqual, expectedParts[1])

	actualFilename, actualLine, found := strings.Cut(actualParts[2], ":")
	test.That(t, found, test.ShouldBeTrue)
	expectedFilename, _, _ := strings.Cut(expectedParts[2], ":")
	test.That(t, actualFilename, test.ShouldEqual, expectedFilename)
	_, err = strconv.Atoi(actualLine)
	test.That(t, err, test.ShouldBeNil)

	test.That(t, actualParts[3], test.ShouldEqual, expectedParts[3])
	if len(actualParts) == 4 {
		return
	}

	expectedMap := make(map[string]any)
	test.That(t, json.Unmarshal([]byte(expectedParts[4]), &expectedMap), test.ShouldBeNil)
	actualMap := make(map[string]any)
	test.That(t, json.Unmarshal([]byte(actualParts[4]), &actualMap), test.ShouldBeNil)
	test.That(t, actualMap, test.ShouldResemble, expectedMap)
}

func newBufferLogger(level Level) (*impl, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	return &impl{level: NewAtomicLevelAt(level), inUTC: true, appenders: []Appender{NewWriterAppender(buf)}}, buf
}

func TestConsoleOutputFormat(t *testing.T) {
	logger, buf := newBufferLogger(DEBUG)

	logger.Info("solved inverse kinematics")
	assertLogMatches(t, buf,
		"2023-10-30T09:12:09.459Z\tINFO\tlogging/impl_test.go:60\tsolved inverse kinematics")

	logger.Warnf("target %d mm out of reach", 3000)
	assertLogMatches(t, buf,
		"2023-10-30T09:12:09.459Z\tWARN\tlogging/impl_test.go:64\ttarget 3000 mm out of reach")

	logger.Debugw("joint", "joint", 2, "report", jointReport{2, 45, "hidden"})
	assertLogMatches(t, buf,
		"2023-10-30T09:12:09.459Z\tDEBUG\tlogging/impl_test.go:68\tjoint\t"+
			`{"joint":2,"report":{"Joint":2,"Angle":45}}`)

	logger.Errorw("unpaired", "lonely")
	assertLogMatches(t, buf,
		"2023-10-30T09:12:09.459Z\tERROR\tlogging/impl_test.go:73\tunpaired\t"+`{"lonely":"unpaired log key"}`)
}

func TestLevelFiltering(t *testing.T) {
	logger, buf := newBufferLogger(WARN)

	logger.Debug("hidden")
	logger.Info("hidden")
	test.That(t, buf.Len(), test.ShouldEqual, 0)

	logger.CDebugf(context.Background(), "still hidden")
	test.That(t, buf.Len(), test.ShouldEqual, 0)

	logger.CDebugf(EnableDebugMode(context.Background(), ""), "visible %s", "debug")
	test.That(t, buf.String(), test.ShouldContainSubstring, "visible debug")

	logger.SetLevel(ERROR)
	test.That(t, logger.GetLevel(), test.ShouldEqual, ERROR)
	test.That(t, logger.Level().String(), test.ShouldEqual, "error")
}

func TestSubloggerNames(t *testing.T) {
	logger, buf := newBufferLogger(INFO)
	logger.name = "rx160"

	sub := logger.Sublogger("kinematics")
	sub.Info("ready")
	test.That(t, buf.String(), test.ShouldContainSubstring, "\trx160.kinematics\t")

	// Sublogger levels are independent of the parent.
	sub.SetLevel(ERROR)
	test.That(t, logger.GetLevel(), test.ShouldEqual, INFO)
}

func TestObservedTestLogger(t *testing.T) {
	logger, logs := NewObservedTestLogger(t)
	logger.Infow("forward", "x", 1710.0)
	logger.Debug("detail")

	test.That(t, logs.Len(), test.ShouldEqual, 2)
	entries := logs.FilterMessage("forward").All()
	test.That(t, len(entries), test.ShouldEqual, 1)
	test.That(t, entries[0].ContextMap()["x"], test.ShouldEqual, 1710.0)
	test.That(t, logger.Sync(), test.ShouldBeNil)
}

func TestLevelFromString(t *testing.T) {
	for name, want := range map[string]Level{"debug": DEBUG, "INFO": INFO, "Warning": WARN, " error ": ERROR} {
		level, err := LevelFromString(name)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, level, test.ShouldEqual, want)
	}
	_, err := LevelFromString("verbose")
	test.That(t, err, test.ShouldNotBeNil)

	var level Level
	test.That(t, json.Unmarshal([]byte(`"warn"`), &level), test.ShouldBeNil)
	test.That(t, level, test.ShouldEqual, WARN)
	out, err := json.Marshal(ERROR)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, string(out), test.ShouldEqual, `"error"`)

	ctx := EnableDebugMode(context.Background(), "abc")
	test.That(t, IsDebugMode(ctx), test.ShouldBeTrue)
	test.That(t, GetName(ctx), test.ShouldEqual, "abc")
}
