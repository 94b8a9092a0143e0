// Package notify delivers outbound email off the request path. Handlers and
// services enqueue messages; a fixed pool of workers sends them.
package notify

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Kind labels a message for logs and metrics.
type Kind string

const (
	KindWelcome         Kind = "welcome"
	KindDonationReceipt Kind = "donation_receipt"
	KindDonationAlert   Kind = "donation_alert"
	KindRefund          Kind = "refund"
	KindAdoptionUpdate  Kind = "adoption_update"
)

// Message is a single outbound email.
type Message struct {
	Kind    Kind
	To      string
	Subject string
	Body    string
}

func Welcome(to, name string) Message {
	if name == "" {
		name = "there"
	}
	return Message{
		Kind:    KindWelcome,
		To:      to,
		Subject: "Welcome to FureverHome",
		Body: fmt.Sprintf("Hi %s,\n\nThank you for joining FureverHome. We hope you find a friend for life, "+
			"or help one find a home.\n", name),
	}
}

func DonationReceipt(to, donorName, petName string, amount decimal.Decimal) Message {
	return Message{
		Kind:    KindDonationReceipt,
		To:      to,
		Subject: "Thank you for your donation",
		Body: fmt.Sprintf("Hi %s,\n\nWe received your donation of $%s to the campaign for %s. Thank you!\n",
			donorName, amount.StringFixed(2), petName),
	}
}

func DonationAlert(to, donorName, petName string, amount decimal.Decimal) Message {
	return Message{
		Kind:    KindDonationAlert,
		To:      to,
		Subject: "Your campaign received a donation",
		Body: fmt.Sprintf("Good news!\n\n%s donated $%s to your campaign for %s.\n",
			donorName, amount.StringFixed(2), petName),
	}
}

func Refund(to string, amount decimal.Decimal) Message {
	return Message{
		Kind:    KindRefund,
		To:      to,
		Subject: "Your donation was refunded",
		Body:    fmt.Sprintf("Your donation of $%s has been refunded and removed from the campaign total.\n", amount.StringFixed(2)),
	}
}

func AdoptionDecision(to, petName string, approved bool) Message {
	verdict := "declined"
	if approved {
		verdict = "approved"
	}
	return Message{
		Kind:    KindAdoptionUpdate,
		To:      to,
		Subject: fmt.Sprintf("Your adoption request for %s was %s", petName, verdict),
		Body:    fmt.Sprintf("The provider has %s your request to adopt %s.\n", verdict, petName),
	}
}
