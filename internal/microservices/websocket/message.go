package websocket

import (
	"encoding/json"
	"time"
)

// Message protocol definitions

type MessageType string

const (
	// server -> client
	TypeTitle    MessageType = "title"    // detected title changed
	TypeResponse MessageType = "response" // answer to a request
	TypeSystem   MessageType = "system"   // connection notices
	TypeError    MessageType = "error"    // a client message could not be handled

	// client -> server
	TypeSnapshot MessageType = "snapshot" // page snapshot for the tab
	TypeRequest  MessageType = "request"  // getMovieTitle / getMovieGenre
)

// Message is the single envelope used in both directions. Fields that do
// not apply to a type are omitted.
type Message struct {
	Type      MessageType `json:"type"`
	TabID     string      `json:"tab_id,omitempty"`
	Title     string      `json:"title,omitempty"`
	Genre     string      `json:"genre,omitempty"`
	Action    string      `json:"action,omitempty"`
	URL       string      `json:"url,omitempty"`
	HTML      string      `json:"html,omitempty"`
	Content   string      `json:"content,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

func NewTitleMessage(tabID, title string) *Message {
	return &Message{Type: TypeTitle, TabID: tabID, Title: title, Timestamp: time.Now().UTC()}
}

func NewSystemMessage(tabID, content string) *Message {
	return &Message{Type: TypeSystem, TabID: tabID, Content: content, Timestamp: time.Now().UTC()}
}

func NewErrorMessage(tabID string, err error) *Message {
	return &Message{Type: TypeError, TabID: tabID, Content: err.Error(), Timestamp: time.Now().UTC()}
}

// ToJSON: marshal Message struct to JSON
func (m *Message) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// MessageFromJSON: unmarshal JSON data to Message struct
func MessageFromJSON(data []byte) (*Message, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
