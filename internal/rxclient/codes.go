package rxclient

import "fmt"

// ErrorCode is the status carried in every receiver response body.
type ErrorCode int32

const (
	CodeOK                     ErrorCode = 0
	CodeWorkerBusy             ErrorCode = 1
	CodeGainNotFound           ErrorCode = 2
	CodeAlreadyRecording       ErrorCode = 3
	CodeAlreadyNotRecording    ErrorCode = 4
	CodeInvalidInputDevice     ErrorCode = 5
	CodeInvalidFilter          ErrorCode = 6
	CodeInvalidFilterOffset    ErrorCode = 7
	CodeInvalidCwOffset        ErrorCode = 8
	CodeInvalidDemod           ErrorCode = 9
	CodeVfoNotFound            ErrorCode = 10
	CodeDemodIsOff             ErrorCode = 11
	CodeNotRunning             ErrorCode = 12
	CodeCouldntCreateFile      ErrorCode = 13
	CodeSnifferAlreadyActive   ErrorCode = 14
	CodeSnifferAlreadyInactive ErrorCode = 15
	CodeInsufficientBufferSize ErrorCode = 16
	CodeRdsAlreadyActive       ErrorCode = 17
	CodeRdsAlreadyInactive     ErrorCode = 18
	CodeUnknown                ErrorCode = 99999
)

var codeMessages = map[ErrorCode]string{
	CodeOK:                     "Ok",
	CodeWorkerBusy:             "Worker busy",
	CodeGainNotFound:           "Gain not found",
	CodeAlreadyRecording:       "Already recording",
	CodeAlreadyNotRecording:    "Already not recording",
	CodeInvalidInputDevice:     "Invalid input device",
	CodeInvalidFilter:          "Invalid filter",
	CodeInvalidFilterOffset:    "Invalid filter offset",
	CodeInvalidCwOffset:        "Invalid cw offset",
	CodeInvalidDemod:           "Invalid demod",
	CodeVfoNotFound:            "Vfo not found",
	CodeDemodIsOff:             "Demod is off",
	CodeNotRunning:             "Not running",
	CodeCouldntCreateFile:      "Couldn't create file",
	CodeSnifferAlreadyActive:   "Sniffer already active",
	CodeSnifferAlreadyInactive: "Sniffer already inactive",
	CodeInsufficientBufferSize: "Insufficient buffer size",
	CodeRdsAlreadyActive:       "Rds already active",
	CodeRdsAlreadyInactive:     "Rds already inactive",
}

func (c ErrorCode) String() string {
	if msg, ok := codeMessages[c]; ok {
		return msg
	}
	return "Unknown error"
}

// CodeError reports a call the transport completed but the receiver refused.
type CodeError struct {
	Procedure string
	Code      ErrorCode
}

func (e *CodeError) Error() string {
	return fmt.Sprintf("%s: %s (code %d)", e.Procedure, e.Code, int32(e.Code))
}

func checkCode(procedure string, code ErrorCode) error {
	if code == CodeOK {
		return nil
	}
	return &CodeError{Procedure: procedure, Code: code}
}
