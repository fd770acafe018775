package pkg

import (
	"errors"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCombinedWriter_Write(t *testing.T) {
	sb1 := &strings.Builder{}
	initMessage := "already-here"
	sb1.WriteString(initMessage)
	sb2 := &strings.Builder{}

	cw := NewCombinedWriter(sb1, sb2)
	require.NotNil(t, cw)
	assert.Len(t, cw.Writers, 2)

	msg1 := "a message"
	msg2 := "another message here"
	n, err := cw.Write([]byte(msg1))
	require.NoError(t, err)
	assert.Equal(t, len(msg1), n)
	n, err = cw.Write([]byte(msg2))
	require.NoError(t, err)
	assert.Equal(t, len(msg2), n)

	assert.Equal(t, initMessage+msg1+msg2, sb1.String())
	assert.Equal(t, msg1+msg2, sb2.String())
}

func TestCombinedWriter_Write_WithError(t *testing.T) {
	fw := &faultyWriter{}
	sb := &strings.Builder{}

	cw := NewCombinedWriter(fw, sb, fw)
	msg1 := "a message"
	n, err := cw.Write([]byte(msg1))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "eotikurac")

	// written only to string builder
	assert.Equal(t, len(msg1), n)
	assert.Equal(t, msg1, sb.String())
}

func TestCombinedWriter_AsLogOutput(t *testing.T) {
	sb1 := &strings.Builder{}
	sb2 := &strings.Builder{}

	logger := logrus.New()
	logger.SetOutput(NewCombinedWriter(sb1, sb2))
	logger.Info("session added")

	assert.Contains(t, sb1.String(), "session added")
	assert.Equal(t, sb1.String(), sb2.String())
}

type faultyWriter struct{}

func (fw *faultyWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("eotikurac")
}
