package errors

import stderrors "errors"

// 基础设施错误，不走业务错误码。
var (
	ErrTokenGeneratorNotInitialized = stderrors.New("token generator not initialized")
	ErrUnexpectedSigningMethod      = stderrors.New("unexpected signing method")
	ErrInvalidToken                 = stderrors.New("invalid token")
	ErrInvalidTokenClaims           = stderrors.New("invalid token claims")
	ErrInvalidTokenType             = stderrors.New("invalid token type")
	ErrUserIDNotFound               = stderrors.New("user id not found in token")
	ErrDatabaseConnectionNil        = stderrors.New("database connection is nil")
)

// 短信发送参数错误。
var (
	ErrSignNameRequired       = stderrors.New("signName is required")
	ErrTemplateCodeRequired   = stderrors.New("templateCode is required")
	ErrPhonesListEmpty        = stderrors.New("phones list is empty")
	ErrTemplateParamsMismatch = stderrors.New("template params count mismatch")
)
