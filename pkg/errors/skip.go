package errors

// SkipMessageError 消息应跳过（已处理过等），消费端直接 Ack 不重试
type SkipMessageError struct {
	Reason string
}

func (e *SkipMessageError) Error() string {
	return "skip message: " + e.Reason
}
