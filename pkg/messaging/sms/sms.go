package sms

import (
	"errors"
	"fmt"
	"log/slog"

	messageDB "github.com/accountdesk/account-backend/pkg/db/messaging"
	httpclient "github.com/accountdesk/account-backend/pkg/http-client"
	"github.com/accountdesk/account-backend/pkg/messaging/types"
)

var (
	SmsGatewayConfig *types.SMSGatewayConfig
	MessageDBService *messageDB.MessagingDBService
)

const (
	SMS_MESSAGE_TYPE_VERIFICATION_CODE = "verification-code"

	CHANNEL_SMS = "sms"
)

func Init(
	smsGatewayConfig *types.SMSGatewayConfig,
	mdb *messageDB.MessagingDBService,
) {
	SmsGatewayConfig = smsGatewayConfig
	MessageDBService = mdb
}

// SendVerificationCode delivers the code to the phone number through the SMS
// gateway and records the delivery in the sent-message log.
func SendVerificationCode(to string, code string) error {
	if SmsGatewayConfig == nil || SmsGatewayConfig.URL == "" {
		return errors.New("connection to sms gateway not initialized")
	}

	content := fmt.Sprintf("Your verification code is %s", code)
	client := httpclient.ClientConfig{
		RootURL: SmsGatewayConfig.URL,
		APIKey:  SmsGatewayConfig.APIKey,
		Timeout: SmsGatewayConfig.RequestTimeout,
	}
	_, err := client.RunHTTPcall("/send-sms", map[string]string{
		"from":    SmsGatewayConfig.From,
		"to":      to,
		"content": content,
	})
	if err != nil {
		return err
	}

	_, err = MessageDBService.AddToSentMessages(messageDB.SentMessage{
		MessageType: SMS_MESSAGE_TYPE_VERIFICATION_CODE,
		Channel:     CHANNEL_SMS,
		To:          to,
	})
	if err != nil {
		slog.Error("could not record sent sms", slog.String("error", err.Error()))
	}
	return nil
}
