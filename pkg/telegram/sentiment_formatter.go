package telegram

import (
	"fmt"
	"time"
)

// FormatOverallSentimentAlert builds the alert message sent when the
// product-wide sentiment trend turns declining.
func FormatOverallSentimentAlert(overall, weighted float64, totalCustomers int, at time.Time) string {
	return fmt.Sprintf(
		"⚠️ *Overall sentiment declining*\n"+
			"Sentiment: `%.3f`\n"+
			"Weighted: `%.3f`\n"+
			"Customers: `%d`\n"+
			"At: `%s`",
		overall, weighted, totalCustomers, at.UTC().Format(time.RFC3339))
}

// FormatErrorAlertMessage builds a generic stage failure message.
func FormatErrorAlertMessage(at time.Time, stage string, errMsg string) string {
	return fmt.Sprintf(
		"🚨 *Stage failed*\nStage: `%s`\nError: `%s`\nAt: `%s`",
		stage, errMsg, at.UTC().Format(time.RFC3339))
}
