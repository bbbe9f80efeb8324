package lib

import (
	"crypto/rand"
	"fmt"
)

const orderNumberChars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789" // no 0/O or 1/I, numbers get read out over chat

// GenerateOrderNumber generates an order number in the format DG-XXXXXX
func GenerateOrderNumber() string {
	const length = 6

	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		panic(fmt.Sprintf("crypto/rand failed: %v", err))
	}
	for i := range b {
		b[i] = orderNumberChars[int(b[i])%len(orderNumberChars)]
	}
	return "DG-" + string(b)
}
