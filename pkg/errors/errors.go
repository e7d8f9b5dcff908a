package errors

import (
	"errors"
	"fmt"
)

func (d Definition) Error() string {
	return d.Message
}

// Definition 表示业务错误码及默认信息。
type Definition struct {
	Code    string
	Message string
}

// 认证相关错误。
var (
	Unauthorized           = Definition{Code: "UNAUTHORIZED", Message: "Unauthorized"}
	InvalidUserID          = Definition{Code: "INVALID_USER_ID", Message: "Invalid user ID format"}
	ErrUserNotFound        = Definition{Code: "USER_NOT_FOUND", Message: "User not found"}
	EmailAlreadyRegistered = Definition{Code: "EMAIL_ALREADY_REGISTERED", Message: "Email already registered"}
	InvalidCredentials     = Definition{Code: "INVALID_CREDENTIALS", Message: "Incorrect email or password"}
	AdminRequired          = Definition{Code: "ADMIN_REQUIRED", Message: "Admin access only"}
)

// 输入校验错误（调用方问题）。
var (
	InvalidCoordinate = Definition{Code: "INVALID_COORDINATE", Message: "Coordinate out of valid range"}
	InvalidGeofence   = Definition{Code: "INVALID_GEOFENCE", Message: "Geofence radius must be positive"}
	InvalidDate       = Definition{Code: "INVALID_DATE", Message: "Invalid date format, expected YYYY-MM-DD"}
	PhotoMissing      = Definition{Code: "PHOTO_MISSING", Message: "Photo file missing"}
)

// 配置错误（运维问题，不可静默降级为"在围栏外"）。
var (
	NoActiveGeofence = Definition{Code: "NO_ACTIVE_GEOFENCE", Message: "No active geofence configured"}
)

// 考勤状态机拒绝（预期内的业务拒绝，不算异常）。
var (
	OutsideZone       = Definition{Code: "OUTSIDE_ZONE", Message: "You are outside the zone"}
	AlreadyCheckedIn  = Definition{Code: "ALREADY_CHECKED_IN", Message: "Already checked in"}
	AlreadyCheckedOut = Definition{Code: "ALREADY_CHECKED_OUT", Message: "Already checked out"}
	NotCheckedIn      = Definition{Code: "NOT_CHECKED_IN", Message: "No check-in found for today"}
)

// 限流。
var (
	TooManyRequests = Definition{Code: "TOO_MANY_REQUESTS", Message: "Too many requests"}
)

// token 包使用的哨兵错误。
var (
	ErrTokenGeneratorNotInitialized = errors.New("token generator is not initialized")
	ErrUnexpectedSigningMethod      = errors.New("unexpected signing method")
	ErrInvalidToken                 = errors.New("invalid token")
	ErrInvalidTokenClaims           = errors.New("invalid token claims")
	ErrInvalidTokenType             = errors.New("invalid token type")
	ErrUserIDNotFound               = errors.New("user id not found in token claims")
)

// Lookup 提供错误码查询能力。
var Lookup = map[string]Definition{
	Unauthorized.Code:           Unauthorized,
	InvalidUserID.Code:          InvalidUserID,
	ErrUserNotFound.Code:        ErrUserNotFound,
	EmailAlreadyRegistered.Code: EmailAlreadyRegistered,
	InvalidCredentials.Code:     InvalidCredentials,
	AdminRequired.Code:          AdminRequired,
	InvalidCoordinate.Code:      InvalidCoordinate,
	InvalidGeofence.Code:        InvalidGeofence,
	InvalidDate.Code:            InvalidDate,
	PhotoMissing.Code:           PhotoMissing,
	NoActiveGeofence.Code:       NoActiveGeofence,
	OutsideZone.Code:            OutsideZone,
	AlreadyCheckedIn.Code:       AlreadyCheckedIn,
	AlreadyCheckedOut.Code:      AlreadyCheckedOut,
	NotCheckedIn.Code:           NotCheckedIn,
	TooManyRequests.Code:        TooManyRequests,
}

// Get 根据错误码返回 Definition，若不存在则返回空 Definition。
func Get(code string) Definition {
	if def, ok := Lookup[code]; ok {
		return def
	}
	return Definition{Code: code, Message: "Unexpected error"}
}

// OutsideZoneAt 返回携带距离信息的越界拒绝
func OutsideZoneAt(distanceM float64) Definition {
	return Definition{
		Code:    OutsideZone.Code,
		Message: fmt.Sprintf("You are outside the zone (~%.0f m from center)", distanceM),
	}
}

// SkipMessageError 消费者跳过消息（已处理过等场景），照常 Ack
type SkipMessageError struct {
	Reason string
}

func (e *SkipMessageError) Error() string {
	return e.Reason
}
