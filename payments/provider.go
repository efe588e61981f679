package payments

import "context"

type CreateRequest struct {
	// Amount in whole units of Currency (rubles for RUB).
	Amount      int64
	Currency    string
	Description string
	// ReturnURL is where the hosted checkout redirects after payment,
	// normally https://t.me/<bot_username>.
	ReturnURL string
	Metadata  map[string]string
}

type Payment struct {
	ID              string
	Status          string
	ConfirmationURL string
}

type Provider interface {
	Name() string

	// CreatePayment creates a charge and returns the provider payment id
	// together with the hosted confirmation URL the user pays through.
	CreatePayment(ctx context.Context, req CreateRequest) (*Payment, error)
}
