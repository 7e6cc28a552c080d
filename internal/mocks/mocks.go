// File: internal/mocks/mocks.go
package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

// -- Sink Mocks --

// MockSink mocks humanoid.Sink.
type MockSink struct {
	mock.Mock
}

func (m *MockSink) EmitChar(ctx context.Context, r rune) error {
	return m.Called(ctx, r).Error(0)
}

func (m *MockSink) EmitBackspace(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockSink) Wait(ctx context.Context, d time.Duration) error {
	return m.Called(ctx, d).Error(0)
}

// MockTargetSink mocks humanoid.TargetSink.
type MockTargetSink struct {
	mock.Mock
}

func (m *MockTargetSink) EmitCharTo(ctx context.Context, target string, r rune) error {
	return m.Called(ctx, target, r).Error(0)
}

func (m *MockTargetSink) EmitBackspaceTo(ctx context.Context, target string) error {
	return m.Called(ctx, target).Error(0)
}

func (m *MockTargetSink) Wait(ctx context.Context, d time.Duration) error {
	return m.Called(ctx, d).Error(0)
}

// -- Randomness Mock --

// MockRand mocks the Intn/Float64 source used by the injector and scheduler.
type MockRand struct {
	mock.Mock
}

func (m *MockRand) Intn(n int) int {
	return m.Called(n).Int(0)
}

func (m *MockRand) Float64() float64 {
	args := m.Called()
	return args.Get(0).(float64)
}
