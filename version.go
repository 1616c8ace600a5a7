package bwatch

import "fmt"

const PROG_NAME = "bwatch"

var VERSION_NUMBER = "0000.0001.008"
var VERSION_GIT_HASH = ""
var VERSION_COMPILE_TIME = ""

func VersionString() string {
	return fmt.Sprintf(
		"%s ver:%s git:%s time:%s",
		PROG_NAME,
		VERSION_NUMBER,
		VERSION_GIT_HASH,
		VERSION_COMPILE_TIME)
}
