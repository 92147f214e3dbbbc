package email

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMessage(t *testing.T) {
	msg, err := buildMessage("hospital@example.com", "ana@example.com", "Invoice from Hospital", "Total: 5000.00")
	require.NoError(t, err)

	assert.Equal(t, []string{"ana@example.com"}, msg.GetHeader("To"))
	assert.Equal(t, []string{"Invoice from Hospital"}, msg.GetHeader("Subject"))

	var buf bytes.Buffer
	_, err = msg.WriteTo(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Total: 5000.00")
}

func TestBuildMessage_RequiresFields(t *testing.T) {
	cases := map[string][4]string{
		"from":    {"", "a@example.com", "s", "b"},
		"to":      {"f@example.com", " ", "s", "b"},
		"subject": {"f@example.com", "a@example.com", "", "b"},
		"body":    {"f@example.com", "a@example.com", "s", ""},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := buildMessage(c[0], c[1], c[2], c[3])
			assert.ErrorIs(t, err, ErrInvalidMessage)
		})
	}
}

func TestNewSender_FallsBackToLog(t *testing.T) {
	s := NewSender(Config{})
	_, ok := s.(LogSender)
	assert.True(t, ok)
	assert.NoError(t, s.Send(context.Background(), "ana@example.com", "subject", "body"))

	_, ok = NewSender(Config{Host: "smtp.example.com", Port: 587, From: "h@example.com"}).(*SMTPSender)
	assert.True(t, ok)
}

func TestSMTPSender_InvalidMessageFailsFast(t *testing.T) {
	s := NewSMTPSender(Config{Host: "smtp.invalid", Port: 25, From: "h@example.com"})
	err := s.Send(context.Background(), "", "subject", "body")
	assert.ErrorIs(t, err, ErrInvalidMessage)
}
