package utils

import (
	"fmt"
	"os"

	mailjet "github.com/mailjet/mailjet-apiv3-go"
)

// SendEmail delivers a plain-text email through Mailjet.
func SendEmail(toEmail, toName, subject, text string) error {
	client := mailjet.NewMailjetClient(
		os.Getenv("MJ_APIKEY_PUBLIC"),
		os.Getenv("MJ_APIKEY_PRIVATE"),
	)

	messagesInfo := []mailjet.InfoMessagesV31{
		{
			From: &mailjet.RecipientV31{
				Email: os.Getenv("EMAIL_FROM"),
				Name:  "Administración del Condominio",
			},
			To: &mailjet.RecipientsV31{
				mailjet.RecipientV31{
					Email: toEmail,
					Name:  toName,
				},
			},
			Subject:  subject,
			TextPart: text,
		},
	}
	messages := mailjet.MessagesV31{Info: messagesInfo}
	if _, err := client.SendMailV31(&messages); err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	return nil
}
