//go:build dev
// +build dev

package logger

import (
	"fmt"
	"log"
)

func HandleError(err error) {
	fmt.Printf("Dev Mode - Error: %v\n", err)
}

func HandleLog(message string) {
	log.Printf("Dev Mode - %s", message)
}

func HandleWarning(message string) {
	log.Printf("Dev Mode - Warning: %s", message)
}
