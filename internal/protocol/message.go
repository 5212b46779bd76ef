package protocol

import "encoding/json"

// Message WebSocket 基础消息结构
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// MessageType 消息类型
type MessageType string

// 客户端 → 服务端 消息类型
const (
	MsgPing        MessageType = "ping"        // 心跳 ping
	MsgSubscribe   MessageType = "subscribe"   // 订阅对局
	MsgUnsubscribe MessageType = "unsubscribe" // 取消订阅
)

// 服务端 → 客户端 消息类型
const (
	MsgConnected    MessageType = "connected"    // 连接成功
	MsgPong         MessageType = "pong"         // 心跳 pong
	MsgSubscribed   MessageType = "subscribed"   // 订阅成功，附带当前快照
	MsgUnsubscribed MessageType = "unsubscribed" // 已取消订阅

	MsgSessionUpdate  MessageType = "session_update"  // 对局变更推送
	MsgSessionDeleted MessageType = "session_deleted" // 对局已删除

	MsgServerShutdown MessageType = "server_shutdown" // 服务器关闭通知

	// 错误
	MsgError MessageType = "error" // 错误消息
)
