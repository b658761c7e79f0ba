package emailsending

import (
	"errors"
	"fmt"
	"log/slog"

	messageDB "github.com/accountdesk/account-backend/pkg/db/messaging"
	httpclient "github.com/accountdesk/account-backend/pkg/http-client"
	"github.com/accountdesk/account-backend/pkg/messaging/types"
)

var (
	EmailGatewayConfig *types.EmailGatewayConfig
	MessageDBService   *messageDB.MessagingDBService
)

const (
	EMAIL_MESSAGE_TYPE_VERIFICATION_CODE = "verification-code"

	CHANNEL_EMAIL = "email"
)

func Init(
	emailGatewayConfig *types.EmailGatewayConfig,
	mdb *messageDB.MessagingDBService,
) {
	EmailGatewayConfig = emailGatewayConfig
	MessageDBService = mdb
}

// SendVerificationCode delivers the code to the email address through the
// email gateway and records the delivery in the sent-message log.
func SendVerificationCode(to string, code string) error {
	if EmailGatewayConfig == nil || EmailGatewayConfig.URL == "" {
		return errors.New("connection to email gateway not initialized")
	}

	client := httpclient.ClientConfig{
		RootURL: EmailGatewayConfig.URL,
		APIKey:  EmailGatewayConfig.APIKey,
		Timeout: EmailGatewayConfig.RequestTimeout,
	}
	_, err := client.RunHTTPcall("/send-email", map[string]string{
		"from":    EmailGatewayConfig.From,
		"to":      to,
		"subject": "Your verification code",
		"content": fmt.Sprintf("Your verification code is %s", code),
	})
	if err != nil {
		return err
	}

	_, err = MessageDBService.AddToSentMessages(messageDB.SentMessage{
		MessageType: EMAIL_MESSAGE_TYPE_VERIFICATION_CODE,
		Channel:     CHANNEL_EMAIL,
		To:          to,
	})
	if err != nil {
		slog.Error("could not record sent email", slog.String("error", err.Error()))
	}
	return nil
}
