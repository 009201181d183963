// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package mocks

import (
	"github.com/stretchr/testify/mock"

	"github.com/linuxfoundation/lfx-v2-meeting-attendance-service/internal/domain"
)

// MockMessage implements domain.Message for testing. Subject and Data are
// fixed at construction; HasReply and Respond are recorded mock calls.
type MockMessage struct {
	mock.Mock
	data    []byte
	subject string
}

var _ domain.Message = (*MockMessage)(nil)

// NewMockMessage creates a mock message carrying data on subject.
func NewMockMessage(data []byte, subject string) *MockMessage {
	return &MockMessage{data: data, subject: subject}
}

func (m *MockMessage) Subject() string { return m.subject }

func (m *MockMessage) Data() []byte { return m.data }

func (m *MockMessage) HasReply() bool {
	return m.Called().Bool(0)
}

func (m *MockMessage) Respond(data []byte) error {
	return m.Called(data).Error(0)
}
