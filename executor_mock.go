package mcumgrclient

import (
	"context"
	"os/exec"

	"github.com/stretchr/testify/mock"
)

// MockCommandExecutor implements CommandExecutor for testing
type MockCommandExecutor struct {
	mock.Mock

	// LastCmd records the most recent command passed in, so tests can
	// inspect the argument vector that was built.
	LastCmd *exec.Cmd
}

func (m *MockCommandExecutor) ExecuteCommand(ctx context.Context, cmd *exec.Cmd) (*Result, error) {
	m.LastCmd = cmd
	args := m.Called(ctx, cmd)
	if res := args.Get(0); res != nil {
		return res.(*Result), args.Error(1)
	}
	return nil, args.Error(1)
}
