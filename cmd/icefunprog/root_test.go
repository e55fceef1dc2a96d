package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/synthread/go-icefun/flash"
)

func TestRunArguments(t *testing.T) {
	var ae *ArgumentError

	err := run(nil)
	require.True(t, errors.As(err, &ae))
	assert.Equal(t, "image: missing argument, try --help", err.Error())

	err = run([]string{"a.bin", "b.bin"})
	assert.True(t, errors.As(err, &ae))
}

func TestRunBadOffset(t *testing.T) {
	old := offsetFlag
	offsetFlag = "12q"
	defer func() { offsetFlag = old }()

	err := run([]string{"a.bin"})

	var ae *ArgumentError
	assert.True(t, errors.As(err, &ae))
}

func TestRunMissingImage(t *testing.T) {
	oldPort := portFlag
	portFlag = "/dev/null"
	defer func() { portFlag = oldPort }()

	err := run([]string{filepath.Join(t.TempDir(), "missing.bin")})

	var fe *flash.FileError
	assert.True(t, errors.As(err, &fe))
}

func TestSetupLogging(t *testing.T) {
	defer logrus.SetLevel(logrus.InfoLevel)

	setupLogging(0)
	assert.Equal(t, logrus.WarnLevel, logrus.GetLevel())
	setupLogging(1)
	assert.Equal(t, logrus.InfoLevel, logrus.GetLevel())
	setupLogging(2)
	assert.Equal(t, logrus.DebugLevel, logrus.GetLevel())
	setupLogging(5)
	assert.Equal(t, logrus.TraceLevel, logrus.GetLevel())
}

func TestPrintBuildInfo(t *testing.T) {
	var out bytes.Buffer
	printBuildInfo(&out)

	assert.Contains(t, out.String(), "icefunprog ")
	assert.Contains(t, out.String(), "Build hash")
}

func TestFileMD5(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x")
	require.NoError(t, os.WriteFile(path, []byte("abc"), 0o644))

	sum, err := fileMD5(path)
	require.NoError(t, err)
	assert.Equal(t, "900150983cd24fb0d6963f7d28e17f72", sum)
}

func TestProgressBarsFollowPhases(t *testing.T) {
	p := newProgressBars()
	p.update(flash.Progress{Phase: flash.PhaseProgram, Done: 10, Total: 20})
	first := p.bar
	p.update(flash.Progress{Phase: flash.PhaseProgram, Done: 20, Total: 20})
	assert.Same(t, first, p.bar)

	p.update(flash.Progress{Phase: flash.PhaseVerify, Done: 10, Total: 20})
	assert.NotSame(t, first, p.bar)
	assert.Equal(t, flash.PhaseVerify, p.phase)

	p.finish()
	assert.Nil(t, p.bar)
}
