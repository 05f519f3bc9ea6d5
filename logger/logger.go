//go:build !dev
// +build !dev

package logger

import (
	"log"

	"github.com/deanrtaylor1/gosentiment/util"
)

func HandleError(err error) {
	log.Println(util.TerminalRed+"Error:", err, util.TerminalReset)
}

func HandleLog(message string) {
	log.Println(message)
}

func HandleWarning(message string) {
	log.Println(util.TerminalYellow+"Warning: "+message, util.TerminalReset)
}
