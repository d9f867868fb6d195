package slack

import "encoding/json"

const typeMessage = "message"

// inbound is the subset of RTM envelopes we act on. Text and Channel are
// pointers so a message without them is treated as unrecognized.
type inbound struct {
	Type    string  `json:"type"`
	Text    *string `json:"text"`
	Channel *string `json:"channel"`
	User    string  `json:"user"`
}

type outbound struct {
	ID      int    `json:"id"`
	Type    string `json:"type"`
	Channel string `json:"channel"`
	Text    string `json:"text"`
}

// decodeMessage returns the chat message in data, or false for anything that
// is not a well-formed message envelope.
func decodeMessage(data []byte) (inbound, bool) {
	var msg inbound
	if err := json.Unmarshal(data, &msg); err != nil {
		return inbound{}, false
	}
	if msg.Type != typeMessage || msg.Text == nil || msg.Channel == nil {
		return inbound{}, false
	}
	return msg, true
}
