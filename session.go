package mcumgrclient

import (
	"context"
	"fmt"
	"os/exec"
	"sort"

	"github.com/shaharia-lab/goai/observability"
)

// DefaultExecutable is the name of the mcumgr-client binary looked up
// on PATH when SessionConfig does not override it.
const DefaultExecutable = "mcumgr-client"

// Session sends MCUmgr commands to a device over a serial port by
// invoking the mcumgr-client command-line tool. It holds the serial
// port defaults applied to every invocation; each call may override
// them through its Options, for example:
//
//	session.List(ctx, mcumgrclient.Options{"device": "/dev/ttyUSB0", "baudrate": 576000})
type Session struct {
	logger      observability.Logger
	config      SessionConfig
	cmdExecutor CommandExecutor
}

// SessionConfig holds the configuration for a Session
type SessionConfig struct {
	// Device is the serial device name (/dev/ttyUSBx, COMx, ...). May
	// be empty, in which case every call must carry its own device
	// option.
	Device string
	// Baudrate of the serial device. Zero means mcumgr-client's
	// default baudrate is used.
	Baudrate int
	// Executable overrides the mcumgr-client binary name or path.
	Executable string
}

// NewSession creates and returns a new Session with the provided configuration.
func NewSession(logger observability.Logger, config SessionConfig) *Session {
	if config.Executable == "" {
		config.Executable = DefaultExecutable
	}
	return &Session{
		logger:      logger,
		config:      config,
		cmdExecutor: &RealCommandExecutor{},
	}
}

// buildArgs merges the session defaults into opts and renders the
// recognized options as --key value pairs. Keys are emitted in sorted
// order; mcumgr-client does not care, but tests do.
func (s *Session) buildArgs(opts Options) ([]string, error) {
	merged := make(Options, len(opts)+2)
	for k, v := range opts {
		merged[k] = v
	}

	if _, ok := merged["device"]; !ok {
		if s.config.Device == "" {
			return nil, ErrUnspecifiedDevice
		}
		merged["device"] = s.config.Device
	}
	if _, ok := merged["baudrate"]; !ok && s.config.Baudrate != 0 {
		merged["baudrate"] = s.config.Baudrate
	}

	keys := make([]string, 0, len(merged))
	for k := range merged {
		if _, ok := recognizedOptions[k]; !ok {
			// not an option of mcumgr-client, drop it
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	args := make([]string, 0, 2*len(keys))
	for _, k := range keys {
		v, err := formatOption(k, merged[k])
		if err != nil {
			return nil, err
		}
		args = append(args, "--"+k, v)
	}
	return args, nil
}

// Run invokes operation on mcumgr-client with the recognized options
// rendered as flags and args appended as positional arguments. A
// non-zero exit is returned as a *ProcessError carrying the argument
// vector and the ANSI-stripped output streams. On success the raw,
// unsanitized streams are returned.
func (s *Session) Run(ctx context.Context, operation string, args []string, opts Options) (*Result, error) {
	flags, err := s.buildArgs(opts)
	if err != nil {
		return nil, err
	}

	argv := append(flags, operation)
	argv = append(argv, args...)

	s.logger.WithFields(map[string]interface{}{
		"executable": s.config.Executable,
		"operation":  operation,
		"args":       argv,
	}).Debug("Executing mcumgr-client")

	cmd := exec.CommandContext(ctx, s.config.Executable, argv...)
	res, err := s.cmdExecutor.ExecuteCommand(ctx, cmd)
	if err != nil {
		return nil, fmt.Errorf("running %s: %w", s.config.Executable, err)
	}

	if res.ExitCode != 0 {
		perr := &ProcessError{
			ExitCode: res.ExitCode,
			Args:     append([]string{s.config.Executable}, argv...),
			Stdout:   stripEscapes(res.Stdout),
			Stderr:   stripEscapes(res.Stderr),
		}
		s.logger.WithFields(map[string]interface{}{
			observability.ErrorLogField: perr,
			"operation":                 operation,
			"exit_code":                 res.ExitCode,
		}).Error("mcumgr-client command failed")
		return nil, perr
	}

	s.logger.WithFields(map[string]interface{}{
		"operation": operation,
	}).Debug("mcumgr-client command completed successfully")

	return res, nil
}

// List returns the properties of the images on the device.
func (s *Session) List(ctx context.Context, opts Options) (*ListResponse, error) {
	res, err := s.Run(ctx, "list", nil, withDefaultTimeout(opts))
	if err != nil {
		return nil, err
	}
	return parseListOutput(res.Stdout)
}

// Reset resets the device. Output is discarded.
func (s *Session) Reset(ctx context.Context, opts Options) error {
	_, err := s.Run(ctx, "reset", nil, withDefaultTimeout(opts))
	return err
}

// Upload uploads a firmware image to the device. The image argument is
// passed through to mcumgr-client as the file to transfer.
func (s *Session) Upload(ctx context.Context, image string, opts Options) error {
	_, err := s.Run(ctx, "upload", []string{image}, withDefaultTimeout(opts))
	return err
}

// Echo sends a message to the device and has it echoed back. Useful as
// a connectivity check.
func (s *Session) Echo(ctx context.Context, message string, opts Options) error {
	_, err := s.Run(ctx, "echo", []string{message}, withDefaultTimeout(opts))
	return err
}

// withDefaultTimeout copies opts with initial_timeout defaulted to 1 so
// a missing device is noticed quickly instead of after mcumgr-client's
// 60 second default.
func withDefaultTimeout(opts Options) Options {
	merged := make(Options, len(opts)+1)
	for k, v := range opts {
		merged[k] = v
	}
	if _, ok := merged["initial_timeout"]; !ok {
		merged["initial_timeout"] = 1
	}
	return merged
}
