package utils

import (
	"fmt"
	"log"

	"ibuild/config"

	"github.com/go-resty/resty/v2"
)

// SendSMS posts a text message to the configured SMS gateway. Best effort;
// callers fire it in a goroutine and nothing depends on the result.
func SendSMS(mobile, message string) error {
	if config.AppConfig.LocalTextApiUrl == "" || config.AppConfig.LocalTextApiUrl == "defaultSecret" {
		log.Println("SMS gateway not configured; skipping send")
		return nil
	}

	client := resty.New()
	resp, err := client.R().
		SetHeader("Authorization", config.AppConfig.LocalTextApi).
		SetBody(map[string]string{
			"number":  mobile,
			"message": message,
		}).
		Post(config.AppConfig.LocalTextApiUrl)
	if err != nil {
		log.Printf("Error while sending SMS: %v", err)
		return err
	}

	if resp.StatusCode() >= 300 {
		log.Printf("Failed to send SMS, response code: %d", resp.StatusCode())
		return fmt.Errorf("failed to send SMS, code: %d", resp.StatusCode())
	}

	return nil
}

// SendQuoteAcceptedSMS texts a client that their quote was accepted.
func SendQuoteAcceptedSMS(mobile, reference string) {
	if mobile == "" {
		return
	}
	go SendSMS(mobile, fmt.Sprintf("Intellect Building: your quote %s has been accepted. Check your dashboard for details.", reference))
}
