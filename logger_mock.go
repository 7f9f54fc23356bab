package mcumgrclient

import (
	"context"

	"github.com/shaharia-lab/goai/observability"
	"github.com/stretchr/testify/mock"
)

// MockLogger implements the observability.Logger interface for testing
type MockLogger struct {
	mock.Mock
}

func (m *MockLogger) Debug(args ...interface{}) { m.Called(args) }
func (m *MockLogger) Info(args ...interface{})  { m.Called(args) }
func (m *MockLogger) Warn(args ...interface{})  { m.Called(args) }
func (m *MockLogger) Error(args ...interface{}) { m.Called(args) }
func (m *MockLogger) Fatal(args ...interface{}) { m.Called(args) }
func (m *MockLogger) Panic(args ...interface{}) { m.Called(args) }

func (m *MockLogger) Debugf(format string, args ...interface{}) { m.Called(format, args) }
func (m *MockLogger) Infof(format string, args ...interface{})  { m.Called(format, args) }
func (m *MockLogger) Warnf(format string, args ...interface{})  { m.Called(format, args) }
func (m *MockLogger) Errorf(format string, args ...interface{}) { m.Called(format, args) }
func (m *MockLogger) Fatalf(format string, args ...interface{}) { m.Called(format, args) }
func (m *MockLogger) Panicf(format string, args ...interface{}) { m.Called(format, args) }

func (m *MockLogger) WithFields(fields map[string]interface{}) observability.Logger {
	ret := m.Called(fields)
	return ret.Get(0).(observability.Logger)
}

func (m *MockLogger) WithContext(ctx context.Context) observability.Logger {
	ret := m.Called(ctx)
	return ret.Get(0).(observability.Logger)
}

func (m *MockLogger) WithErr(err error) observability.Logger {
	ret := m.Called(err)
	return ret.Get(0).(observability.Logger)
}

// newTestLogger returns a MockLogger that accepts any logging call, for
// tests that do not assert on log output.
func newTestLogger() *MockLogger {
	l := new(MockLogger)
	l.On("WithFields", mock.Anything).Return(l)
	l.On("WithContext", mock.Anything).Return(l)
	l.On("WithErr", mock.Anything).Return(l)
	l.On("Debug", mock.Anything).Return()
	l.On("Info", mock.Anything).Return()
	l.On("Warn", mock.Anything).Return()
	l.On("Error", mock.Anything).Return()
	return l
}
