package apperrors

import (
	"errors"
	"fmt"

	"github.com/palemoky/mahjong-scoreboard/internal/protocol"
)

// Kind 错误分类
type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindInvalidRequest
	KindRuleViolation
	KindAlreadyEnded
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindInvalidRequest:
		return "invalid_request"
	case KindRuleViolation:
		return "rule_violation"
	case KindAlreadyEnded:
		return "already_ended"
	default:
		return "unknown"
	}
}

// Code 返回分类对应的协议错误码
func (k Kind) Code() int {
	switch k {
	case KindNotFound:
		return protocol.ErrCodeNotFound
	case KindInvalidRequest:
		return protocol.ErrCodeInvalidRequest
	case KindRuleViolation:
		return protocol.ErrCodeRuleViolation
	case KindAlreadyEnded:
		return protocol.ErrCodeAlreadyEnded
	default:
		return protocol.ErrCodeUnknown
	}
}

// GameError 对局错误
type GameError struct {
	Code    int
	Kind    Kind
	Message string
	Detail  string

	cause   error
	generic bool
}

func (e *GameError) Error() string {
	msg := e.Message
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	if e.cause != nil {
		return msg + ": " + e.cause.Error()
	}
	return msg
}

func (e *GameError) Unwrap() error {
	return e.cause
}

// Is 分类哨兵按 Kind 匹配，具体错误按 Code+Message 匹配
func (e *GameError) Is(target error) bool {
	t, ok := target.(*GameError)
	if !ok {
		return false
	}
	if t.generic {
		return e.Kind == t.Kind
	}
	return e.Kind == t.Kind && e.Message == t.Message
}

func kind(k Kind, msg string) *GameError {
	return &GameError{Code: k.Code(), Kind: k, Message: msg, generic: true}
}

// New 创建指定分类的错误
func New(k Kind, msg string) *GameError {
	return &GameError{Code: k.Code(), Kind: k, Message: msg}
}

// Newf 创建带格式化消息的错误
func Newf(k Kind, format string, args ...any) *GameError {
	return New(k, fmt.Sprintf(format, args...))
}

// Wrap 用指定分类包装底层错误
func Wrap(k Kind, msg string, err error) *GameError {
	return &GameError{Code: k.Code(), Kind: k, Message: msg, cause: err}
}

// Withf 返回附带细节的副本，仍可用 errors.Is 匹配原错误
func (e *GameError) Withf(format string, args ...any) *GameError {
	c := *e
	c.Detail = fmt.Sprintf(format, args...)
	return &c
}

// KindOf 提取错误分类，非 GameError 返回 KindUnknown
func KindOf(err error) Kind {
	var ge *GameError
	if errors.As(err, &ge) {
		return ge.Kind
	}
	return KindUnknown
}

// 分类哨兵，用于 errors.Is
var (
	ErrNotFound       = kind(KindNotFound, "资源不存在")
	ErrInvalidRequest = kind(KindInvalidRequest, "请求参数不合法")
	ErrRuleViolation  = kind(KindRuleViolation, "当前规则不允许该操作")
	ErrAlreadyEnded   = kind(KindAlreadyEnded, "对局已结束")
)

// 预定义错误
var (
	ErrSessionNotFound  = New(KindNotFound, "对局不存在")
	ErrPlayerNotFound   = New(KindNotFound, "玩家不存在")
	ErrSessionCompleted = New(KindAlreadyEnded, "对局已结束")
	ErrAbortiveDisabled = New(KindRuleViolation, "当前规则不允许途中流局")
	ErrNoWinners        = New(KindInvalidRequest, "至少需要一名和牌者")
	ErrTooManyWinners   = New(KindInvalidRequest, "荣和最多三名和牌者")
	ErrMultiTsumo       = New(KindInvalidRequest, "自摸只能有一名和牌者")
	ErrUnknownPlayer    = New(KindInvalidRequest, "请求中包含未知玩家")
	ErrDuplicatePlayer  = New(KindInvalidRequest, "请求中包含重复玩家")
	ErrLoserIsWinner    = New(KindInvalidRequest, "放铳者不能同时是和牌者")
	ErrPaoIsWinner      = New(KindInvalidRequest, "包牌者不能是和牌者本人")
	ErrInvalidHan       = New(KindInvalidRequest, "番数不合法")
	ErrInvalidFu        = New(KindInvalidRequest, "符数不合法")
	ErrMissingYaku      = New(KindInvalidRequest, "至少需要一个役")
	ErrNoPaymentEntry   = New(KindInvalidRequest, "番符组合不存在于点数表")
	ErrInvalidPlayers   = New(KindInvalidRequest, "需要恰好四名玩家")
	ErrInvalidScore     = New(KindInvalidRequest, "起始点数不合法")
	ErrInvalidDrawType  = New(KindInvalidRequest, "未知的流局类型")
	ErrInvalidRules     = New(KindInvalidRequest, "规则配置不合法")
	ErrUnknownYaku      = New(KindInvalidRequest, "未知役种")
	ErrCorruptSnapshot  = New(KindInvalidRequest, "对局快照已损坏")
)
