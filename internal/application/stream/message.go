package stream

import "encoding/json"

type MessageType string

const (
	MessageState        MessageType = "state"
	MessageNotification MessageType = "notification"
)

// Message is one frame pushed to a stream client
type Message struct {
	Type MessageType `json:"type"`
	Data interface{} `json:"data"`
}

func encode(messageType MessageType, data interface{}) ([]byte, error) {
	return json.Marshal(Message{Type: messageType, Data: data})
}
