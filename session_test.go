package mcumgrclient

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestNewSession(t *testing.T) {
	logger := newTestLogger()

	session := NewSession(logger, SessionConfig{Device: "/dev/ttyUSB0"})

	assert.NotNil(t, session)
	assert.NotNil(t, session.cmdExecutor)
	assert.Equal(t, DefaultExecutable, session.config.Executable)

	session = NewSession(logger, SessionConfig{Executable: "/opt/bin/mcumgr-client"})
	assert.Equal(t, "/opt/bin/mcumgr-client", session.config.Executable)
}

func TestSession_Run_Success(t *testing.T) {
	logger := newTestLogger()
	executor := new(MockCommandExecutor)
	executor.On("ExecuteCommand", mock.Anything, mock.Anything).Return(
		&Result{ExitCode: 0, Stdout: "\x1b[32mraw out\x1b[0m", Stderr: "raw err"}, nil,
	)

	session := NewSession(logger, SessionConfig{Device: "/dev/ttyUSB0"})
	session.cmdExecutor = executor

	res, err := session.Run(context.Background(), "reset", nil, nil)

	assert.NoError(t, err)
	// Output of successful runs is returned as-is, sanitizing is the
	// caller's business.
	assert.Equal(t, "\x1b[32mraw out\x1b[0m", res.Stdout)
	assert.Equal(t, "raw err", res.Stderr)
	assert.Equal(t, 0, res.ExitCode)
	executor.AssertExpectations(t)
}

func TestSession_Run_ArgumentVector(t *testing.T) {
	logger := newTestLogger()
	executor := new(MockCommandExecutor)
	executor.On("ExecuteCommand", mock.Anything, mock.Anything).Return(
		&Result{ExitCode: 0, Stdout: `response: {"images":[]}`}, nil,
	)

	session := NewSession(logger, SessionConfig{Device: "/dev/ttyUSB0", Baudrate: 576000})
	session.cmdExecutor = executor

	_, err := session.List(context.Background(), nil)

	assert.NoError(t, err)
	assert.Equal(t, []string{
		DefaultExecutable,
		"--baudrate", "576000",
		"--device", "/dev/ttyUSB0",
		"--initial_timeout", "1",
		"list",
	}, executor.LastCmd.Args)
}

func TestSession_Run_NonZeroExit(t *testing.T) {
	logger := newTestLogger()
	executor := new(MockCommandExecutor)
	executor.On("ExecuteCommand", mock.Anything, mock.Anything).Return(
		&Result{
			ExitCode: 2,
			Stdout:   "\x1b[2Kpartial output",
			Stderr:   "\x1b[31merror: failed to open serial port\x1b[0m",
		}, nil,
	)

	session := NewSession(logger, SessionConfig{Device: "/dev/ttyUSB0"})
	session.cmdExecutor = executor

	_, err := session.Run(context.Background(), "list", nil, nil)

	var perr *ProcessError
	assert.ErrorAs(t, err, &perr)
	assert.Equal(t, 2, perr.ExitCode)
	assert.Equal(t, []string{DefaultExecutable, "--device", "/dev/ttyUSB0", "list"}, perr.Args)
	assert.Equal(t, "partial output", perr.Stdout)
	assert.Equal(t, "error: failed to open serial port", perr.Stderr)
	assert.NotContains(t, perr.Stderr, "\x1b")
	assert.Contains(t, err.Error(), "exited with code 2")
}

func TestSession_Run_UnspecifiedDevice(t *testing.T) {
	logger := newTestLogger()
	executor := new(MockCommandExecutor)

	session := NewSession(logger, SessionConfig{})
	session.cmdExecutor = executor

	_, err := session.Run(context.Background(), "list", nil, nil)

	assert.ErrorIs(t, err, ErrUnspecifiedDevice)
	// Invocation must never be attempted on a configuration error.
	executor.AssertNotCalled(t, "ExecuteCommand", mock.Anything, mock.Anything)
}

func TestSession_Run_ExecutorFailure(t *testing.T) {
	logger := newTestLogger()
	executor := new(MockCommandExecutor)
	executor.On("ExecuteCommand", mock.Anything, mock.Anything).Return(
		nil, errors.New("executable file not found in $PATH"),
	)

	session := NewSession(logger, SessionConfig{Device: "/dev/ttyUSB0"})
	session.cmdExecutor = executor

	_, err := session.Run(context.Background(), "list", nil, nil)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "executable file not found")
}

func TestSession_Reset(t *testing.T) {
	logger := newTestLogger()
	executor := new(MockCommandExecutor)
	executor.On("ExecuteCommand", mock.Anything, mock.Anything).Return(
		&Result{ExitCode: 0, Stdout: "response: {}"}, nil,
	)

	session := NewSession(logger, SessionConfig{Device: "/dev/ttyUSB0"})
	session.cmdExecutor = executor

	err := session.Reset(context.Background(), nil)

	assert.NoError(t, err)
	assert.Equal(t, []string{
		DefaultExecutable, "--device", "/dev/ttyUSB0", "--initial_timeout", "1", "reset",
	}, executor.LastCmd.Args)
}

func TestSession_Upload(t *testing.T) {
	logger := newTestLogger()
	executor := new(MockCommandExecutor)
	executor.On("ExecuteCommand", mock.Anything, mock.Anything).Return(
		&Result{ExitCode: 0}, nil,
	)

	session := NewSession(logger, SessionConfig{Device: "/dev/ttyUSB0"})
	session.cmdExecutor = executor

	err := session.Upload(context.Background(), "firmware-slot1.bin", Options{"slot": 3, "initial_timeout": 10})

	assert.NoError(t, err)
	// The explicit initial_timeout must not be clobbered by the default.
	assert.Equal(t, []string{
		DefaultExecutable,
		"--device", "/dev/ttyUSB0",
		"--initial_timeout", "10",
		"--slot", "3",
		"upload", "firmware-slot1.bin",
	}, executor.LastCmd.Args)
}

func TestSession_Echo(t *testing.T) {
	logger := newTestLogger()
	executor := new(MockCommandExecutor)
	executor.On("ExecuteCommand", mock.Anything, mock.Anything).Return(
		&Result{ExitCode: 0}, nil,
	)

	session := NewSession(logger, SessionConfig{Device: "/dev/ttyUSB0"})
	session.cmdExecutor = executor

	err := session.Echo(context.Background(), "hello", nil)

	assert.NoError(t, err)
	assert.Equal(t, []string{
		DefaultExecutable, "--device", "/dev/ttyUSB0", "--initial_timeout", "1", "echo", "hello",
	}, executor.LastCmd.Args)
}

func TestSession_Run_TypeErrorBlocksInvocation(t *testing.T) {
	logger := newTestLogger()
	executor := new(MockCommandExecutor)

	session := NewSession(logger, SessionConfig{Device: "/dev/ttyUSB0"})
	session.cmdExecutor = executor

	_, err := session.Run(context.Background(), "list", nil, Options{"mtu": "512"})

	var typeErr *OptionTypeError
	assert.ErrorAs(t, err, &typeErr)
	executor.AssertNotCalled(t, "ExecuteCommand", mock.Anything, mock.Anything)
}
