package telegram

import (
	"errors"
	"strconv"
	"strings"
)

var (
	errAmountNotANumber = errors.New("donation amount is not a number")
	errAmountOutOfRange = errors.New("donation amount is out of range")
)

func parseDonationAmount(text string, min, max int64) (int64, error) {
	amount, err := strconv.ParseInt(strings.TrimSpace(text), 10, 64)
	if err != nil {
		return 0, errAmountNotANumber
	}
	if amount < min || amount > max {
		return 0, errAmountOutOfRange
	}
	return amount, nil
}

// amountFromCallback extracts the preset amount from a donate_<amount>
// button payload.
func amountFromCallback(data string) (int64, error) {
	raw := strings.TrimPrefix(data, "donate_")
	return strconv.ParseInt(raw, 10, 64)
}
