package store

import "fmt"

const (
	SelectionKey  = "payment-processor"
	DeadLetterKey = "transactions:dead-letter"
)

func HealthKey(processor string) string {
	return fmt.Sprintf("healthcheck-%s", processor)
}

func TransactionLogKey(processor string) string {
	return fmt.Sprintf("transactions:log:%s", processor)
}
