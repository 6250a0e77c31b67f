package engine

import "errors"

// 流水线各阶段返回的错误类型，调用方用 errors.Is 判断
var (
	ErrInvalidParameters  = errors.New("invalid parameters")
	ErrIndexOutOfRange    = errors.New("index out of range")
	ErrInconsistentSchema = errors.New("inconsistent schema")
)
