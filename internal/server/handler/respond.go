package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/palemoky/mahjong-scoreboard/internal/apperrors"
	"github.com/palemoky/mahjong-scoreboard/internal/game/yaku"
	"github.com/palemoky/mahjong-scoreboard/internal/logger"
	"github.com/palemoky/mahjong-scoreboard/internal/protocol"
	"github.com/palemoky/mahjong-scoreboard/internal/protocol/codec"
)

// maxBodyBytes 请求体上限
const maxBodyBytes = 64 << 10

// StatusFor 错误分类对应的 HTTP 状态码
func StatusFor(err error) int {
	switch apperrors.KindOf(err) {
	case apperrors.KindNotFound:
		return http.StatusNotFound
	case apperrors.KindInvalidRequest:
		return http.StatusBadRequest
	case apperrors.KindRuleViolation:
		return http.StatusUnprocessableEntity
	case apperrors.KindAlreadyEnded:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// errorPayload 将错误转换为响应体，未分类错误不暴露细节
func errorPayload(err error) protocol.ErrorPayload {
	var ge *apperrors.GameError
	if !errors.As(err, &ge) {
		return protocol.ErrorPayload{
			Code:    protocol.ErrCodeUnknown,
			Kind:    apperrors.KindUnknown.String(),
			Message: protocol.ErrorMessages[protocol.ErrCodeUnknown],
		}
	}
	return protocol.ErrorPayload{
		Code:    ge.Code,
		Kind:    ge.Kind.String(),
		Message: ge.Message,
		Detail:  ge.Detail,
	}
}

// errorMessage 将错误转换为 WebSocket 错误消息
func errorMessage(err error) *protocol.Message {
	return protocol.MustNewMessage(protocol.MsgError, errorPayload(err))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := codec.EncodeJSON(v)
	if err != nil {
		logger.L().Error().Err(err).Msg("响应编码失败")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		logger.Error(r.Context()).Err(err).Str("path", r.URL.Path).Msg("❌ 请求处理失败")
	} else {
		logger.Debug(r.Context()).Err(err).Str("path", r.URL.Path).Int("status", status).Msg("请求被拒绝")
	}
	writeJSON(w, status, errorPayload(err))
}

// decode 解析请求体，未知役种单独归类
func decode(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, yaku.ErrUnknownYaku) {
			return apperrors.Wrap(apperrors.KindInvalidRequest, apperrors.ErrUnknownYaku.Message, err)
		}
		return apperrors.Wrap(apperrors.KindInvalidRequest, "请求体格式错误", err)
	}
	return nil
}
