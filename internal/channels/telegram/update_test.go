package telegram

import (
	"testing"

	"github.com/mymmrac/telego"
)

func TestTypeOf(t *testing.T) {
	tests := []struct {
		name   string
		update telego.Update
		want   UpdateType
	}{
		{"message", telego.Update{Message: &telego.Message{}}, UpdateMessage},
		{"edited message", telego.Update{EditedMessage: &telego.Message{}}, UpdateEditedMessage},
		{"channel post", telego.Update{ChannelPost: &telego.Message{}}, UpdateChannelPost},
		{"message reaction", telego.Update{MessageReaction: &telego.MessageReactionUpdated{}}, UpdateMessageReaction},
		{"chat boost", telego.Update{ChatBoost: &telego.ChatBoostUpdated{}}, UpdateChatBoost},
		{"callback query", telego.Update{CallbackQuery: &telego.CallbackQuery{}}, UpdateCallbackQuery},
		{"inline query", telego.Update{InlineQuery: &telego.InlineQuery{}}, UpdateInlineQuery},
		{"chosen inline result", telego.Update{ChosenInlineResult: &telego.ChosenInlineResult{}}, UpdateChosenInlineResult},
		{"poll", telego.Update{Poll: &telego.Poll{}}, UpdatePoll},
		{"my chat member", telego.Update{MyChatMember: &telego.ChatMemberUpdated{}}, UpdateMyChatMember},
		{"empty", telego.Update{UpdateID: 5}, UpdateUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TypeOf(tt.update); got != tt.want {
				t.Errorf("TypeOf() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMessageType(t *testing.T) {
	tests := []struct {
		name string
		msg  *telego.Message
		want MessageKind
	}{
		{"nil", nil, MessageUnknown},
		{"text", &telego.Message{Text: "/photo"}, MessageText},
		{"photo", &telego.Message{Photo: []telego.PhotoSize{{FileID: "p"}}}, MessagePhoto},
		{"photo with caption is still a photo", &telego.Message{Caption: "hi", Photo: []telego.PhotoSize{{FileID: "p"}}}, MessagePhoto},
		{"gif", &telego.Message{Animation: &telego.Animation{}, Document: &telego.Document{}}, MessageAnimation},
		{"document", &telego.Message{Document: &telego.Document{}}, MessageDocument},
		{"venue carries a location", &telego.Message{Venue: &telego.Venue{}, Location: &telego.Location{}}, MessageVenue},
		{"location", &telego.Message{Location: &telego.Location{}}, MessageLocation},
		{"service message", &telego.Message{}, MessageUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MessageType(tt.msg); got != tt.want {
				t.Errorf("MessageType() = %q, want %q", got, tt.want)
			}
		})
	}
}
