package apperrors

import "errors"

// 错误码
const (
	CodeInvalidPartnership = 1001
	CodeInvalidAmount      = 1002
	CodeInvalidVuln        = 1003
	CodeInvalidDealNumber  = 1004
	CodeInvalidContract    = 1005
	CodeInvalidStateData   = 2001
	CodeUnknownMode        = 3001
	CodeInvalidAction      = 3002
)

// GameError 计分错误（由调用方立即处理的校验错误）
type GameError struct {
	Code    int
	Message string
}

func (e *GameError) Error() string {
	return e.Message
}

// 预定义错误
var (
	ErrInvalidPartnership = &GameError{Code: CodeInvalidPartnership, Message: "invalid partnership"}
	ErrInvalidAmount      = &GameError{Code: CodeInvalidAmount, Message: "invalid score amount"}
	ErrInvalidVuln        = &GameError{Code: CodeInvalidVuln, Message: "invalid vulnerability"}
	ErrInvalidDealNumber  = &GameError{Code: CodeInvalidDealNumber, Message: "deal number must be at least 1"}
	ErrInvalidContract    = &GameError{Code: CodeInvalidContract, Message: "invalid contract"}
	ErrInvalidStateData   = &GameError{Code: CodeInvalidStateData, Message: "invalid state data"}
	ErrUnknownMode        = &GameError{Code: CodeUnknownMode, Message: "unknown scoring mode"}
	ErrInvalidAction      = &GameError{Code: CodeInvalidAction, Message: "action not available"}
)

// Code returns the code of the first GameError in err's chain, or 0.
func Code(err error) int {
	var ge *GameError
	if errors.As(err, &ge) {
		return ge.Code
	}
	return 0
}
