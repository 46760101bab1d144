package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/smtp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sabores/backend/internal/infrastructure/config"
)

func TestSMTPSenderBuildsMessage(t *testing.T) {
	var gotAddr, gotFrom string
	var gotTo []string
	var gotMsg []byte

	sender := NewSMTPSender(config.SMTPConfig{
		Host:     "mail.example.pt",
		Port:     587,
		Username: "noreply@sabores.pt",
		Password: "secret",
		From:     "noreply@sabores.pt",
	}, zap.NewNop())
	sender.send = func(addr string, auth smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotFrom, gotTo, gotMsg = addr, from, to, msg
		return nil
	}

	err := sender.SendEmail(context.Background(), "ana@example.pt", "O seu pedido", "<p>Obrigado!</p>")
	require.NoError(t, err)

	assert.Equal(t, "mail.example.pt:587", gotAddr)
	assert.Equal(t, "noreply@sabores.pt", gotFrom)
	assert.Equal(t, []string{"ana@example.pt"}, gotTo)

	msg := string(gotMsg)
	assert.Contains(t, msg, "Subject: O seu pedido\r\n")
	assert.Contains(t, msg, "Content-Type: text/html; charset=UTF-8\r\n")
	assert.True(t, strings.HasSuffix(msg, "\r\n<p>Obrigado!</p>"))
}

func TestSMTPSenderRequiresHost(t *testing.T) {
	sender := NewSMTPSender(config.SMTPConfig{}, zap.NewNop())
	err := sender.SendEmail(context.Background(), "ana@example.pt", "s", "b")
	assert.Error(t, err)
}

func TestHTTPSMSSender(t *testing.T) {
	var gotAuth string
	var gotReq smsRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	sender := NewHTTPSMSSender(config.SMSConfig{
		APIURL: server.URL,
		APIKey: "key-123",
		From:   "Sabores",
	}, zap.NewNop())

	err := sender.SendSMS(context.Background(), "+351912345678", "O seu pedido saiu para entrega")
	require.NoError(t, err)

	assert.Equal(t, "Bearer key-123", gotAuth)
	assert.Equal(t, "Sabores", gotReq.From)
	assert.Equal(t, "+351912345678", gotReq.To)
	assert.Equal(t, "O seu pedido saiu para entrega", gotReq.Message)
}

func TestHTTPSMSSenderGatewayError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	sender := NewHTTPSMSSender(config.SMSConfig{APIURL: server.URL}, zap.NewNop())
	err := sender.SendSMS(context.Background(), "+351912345678", "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}
