package protocol

// 错误码
const (
	ErrCodeUnknown        = 1000
	ErrCodeInvalidMsg     = 1001
	ErrCodeRateLimit      = 1002 // 速率限制
	ErrCodeNotFound       = 2001 // 对局或玩家不存在
	ErrCodeInvalidRequest = 2002 // 请求参数不合法
	ErrCodeRuleViolation  = 2003 // 当前规则不允许
	ErrCodeAlreadyEnded   = 2004 // 对局已结束
	ErrCodeServerShutdown = 5003 // 服务器正在关闭
)

// ErrorMessages 错误码对应的消息
var ErrorMessages = map[int]string{
	ErrCodeUnknown:        "未知错误",
	ErrCodeInvalidMsg:     "无效的消息格式",
	ErrCodeRateLimit:      "请求过于频繁",
	ErrCodeNotFound:       "对局不存在",
	ErrCodeInvalidRequest: "请求参数不合法",
	ErrCodeRuleViolation:  "当前规则不允许该操作",
	ErrCodeAlreadyEnded:   "对局已结束",
	ErrCodeServerShutdown: "服务器正在关闭",
}
