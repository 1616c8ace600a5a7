package bwatch

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestYesNo(t *testing.T) {
	for _, s := range []string{"yes", "YES", "y", "true", "On", "1"} {
		var y YesNo
		require.NoError(t, y.Set(s), s)
		assert.True(t, bool(y), s)
		assert.Equal(t, "yes", y.String())
	}
	for _, s := range []string{"no", "No", "n", "false", "off", "0"} {
		y := YesNo(true)
		require.NoError(t, y.Set(s), s)
		assert.False(t, bool(y), s)
		assert.Equal(t, "no", y.String())
	}

	var y YesNo
	assert.Error(t, y.Set("maybe"))
}

func TestLoadFile(t *testing.T) {
	fc, err := LoadFile(filepath.Join("testdata", "defaults.yaml"))
	require.NoError(t, err)

	s := DefaultSettings()
	s.ApplyFile(fc)

	assert.Equal(t, "/usr/sbin/bconsole", s.Bconsole)
	assert.Equal(t, "/etc/bacula/bconsole.conf", s.Config)
	assert.Equal(t, []string{"File1", "Tape2"}, s.Storages)
	assert.Equal(t, []string{"web01-fd"}, s.Clients)
	assert.Equal(t, 10*time.Second, s.Timeout)

	assert.False(t, s.Options.ShowVersion)
	assert.True(t, s.Options.ShowName, "unset keys keep their defaults")
	assert.False(t, s.Options.ShowSpool)
	assert.True(t, s.Options.StripJobNames)
	assert.True(t, s.Options.ShowCloud)
}

func TestLoadFileErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadFile(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("cloud: sometimes\n"), 0o644))
	_, err = LoadFile(bad)
	assert.Error(t, err)

	timeout := filepath.Join(dir, "timeout.yaml")
	require.NoError(t, os.WriteFile(timeout, []byte("timeout: soon\n"), 0o644))
	_, err = LoadFile(timeout)
	var optErr *OptionError
	require.True(t, errors.As(err, &optErr))
	assert.Equal(t, "timeout", optErr.Option)
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()
	bin := writeFakeConsole(t, "exit 0")
	conf := filepath.Join(dir, "bconsole.conf")
	require.NoError(t, os.WriteFile(conf, []byte("Director {}\n"), 0o600))

	t.Run("no targets", func(t *testing.T) {
		s := DefaultSettings()
		s.Bconsole, s.Config = bin, conf
		assert.ErrorIs(t, s.Validate(), ErrNoTargets)
		assert.Equal(t,
			"Both Storage and Client were not specified. One or both are required.",
			s.Validate().Error())
	})

	t.Run("missing binary", func(t *testing.T) {
		s := DefaultSettings()
		s.Storages = []string{"File1"}
		s.Bconsole, s.Config = filepath.Join(dir, "nope"), conf

		err := s.Validate()
		assert.ErrorIs(t, err, ErrNotExecutable)
		assert.Equal(t, "The 'bconsole' variable, pointing to '"+s.Bconsole+
			"' does not exist or is not executable.", err.Error())
	})

	t.Run("binary not executable", func(t *testing.T) {
		s := DefaultSettings()
		s.Clients = []string{"web01-fd"}
		s.Bconsole, s.Config = conf, conf
		assert.ErrorIs(t, s.Validate(), ErrNotExecutable)
	})

	t.Run("missing config", func(t *testing.T) {
		s := DefaultSettings()
		s.Clients = []string{"web01-fd"}
		s.Bconsole, s.Config = bin, filepath.Join(dir, "missing.conf")

		err := s.Validate()
		assert.ErrorIs(t, err, ErrNotReadable)
		assert.Equal(t, "The config file '"+s.Config+
			"' does not exist or is not readable.", err.Error())
	})

	t.Run("config is a directory", func(t *testing.T) {
		s := DefaultSettings()
		s.Clients = []string{"web01-fd"}
		s.Bconsole, s.Config = bin, dir
		assert.ErrorIs(t, s.Validate(), ErrNotReadable)
	})

	t.Run("bad timeout", func(t *testing.T) {
		s := DefaultSettings()
		s.Clients = []string{"web01-fd"}
		s.Bconsole, s.Config = bin, conf
		s.Timeout = 0
		assert.Error(t, s.Validate())
	})

	t.Run("ok", func(t *testing.T) {
		s := DefaultSettings()
		s.Storages = []string{"File1"}
		s.Bconsole, s.Config = bin, conf
		assert.NoError(t, s.Validate())
	})
}
