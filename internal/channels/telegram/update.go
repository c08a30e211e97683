package telegram

import "github.com/mymmrac/telego"

// UpdateType is the tag of a Telegram update envelope.
type UpdateType string

const (
	UpdateMessage                 UpdateType = "message"
	UpdateEditedMessage           UpdateType = "edited_message"
	UpdateChannelPost             UpdateType = "channel_post"
	UpdateEditedChannelPost       UpdateType = "edited_channel_post"
	UpdateBusinessConnection      UpdateType = "business_connection"
	UpdateBusinessMessage         UpdateType = "business_message"
	UpdateEditedBusinessMessage   UpdateType = "edited_business_message"
	UpdateDeletedBusinessMessages UpdateType = "deleted_business_messages"
	UpdateMessageReaction         UpdateType = "message_reaction"
	UpdateMessageReactionCount    UpdateType = "message_reaction_count"
	UpdateInlineQuery             UpdateType = "inline_query"
	UpdateChosenInlineResult      UpdateType = "chosen_inline_result"
	UpdateCallbackQuery           UpdateType = "callback_query"
	UpdateShippingQuery           UpdateType = "shipping_query"
	UpdatePreCheckoutQuery        UpdateType = "pre_checkout_query"
	UpdatePurchasedPaidMedia      UpdateType = "purchased_paid_media"
	UpdatePoll                    UpdateType = "poll"
	UpdatePollAnswer              UpdateType = "poll_answer"
	UpdateMyChatMember            UpdateType = "my_chat_member"
	UpdateChatMember              UpdateType = "chat_member"
	UpdateChatJoinRequest         UpdateType = "chat_join_request"
	UpdateChatBoost               UpdateType = "chat_boost"
	UpdateRemovedChatBoost        UpdateType = "removed_chat_boost"
	UpdateUnknown                 UpdateType = "unknown"
)

// allUpdateTypes lists every Bot API update type, in Bot API field order.
var allUpdateTypes = []UpdateType{
	UpdateMessage,
	UpdateEditedMessage,
	UpdateChannelPost,
	UpdateEditedChannelPost,
	UpdateBusinessConnection,
	UpdateBusinessMessage,
	UpdateEditedBusinessMessage,
	UpdateDeletedBusinessMessages,
	UpdateMessageReaction,
	UpdateMessageReactionCount,
	UpdateInlineQuery,
	UpdateChosenInlineResult,
	UpdateCallbackQuery,
	UpdateShippingQuery,
	UpdatePreCheckoutQuery,
	UpdatePurchasedPaidMedia,
	UpdatePoll,
	UpdatePollAnswer,
	UpdateMyChatMember,
	UpdateChatMember,
	UpdateChatJoinRequest,
	UpdateChatBoost,
	UpdateRemovedChatBoost,
}

// AllowedUpdates names every update type for setWebhook. An empty list is
// omitted on the wire and keeps the previous filter; chat_member and reaction
// updates are only delivered when named.
func AllowedUpdates() []string {
	out := make([]string, len(allUpdateTypes))
	for i, t := range allUpdateTypes {
		out[i] = string(t)
	}
	return out
}

// TypeOf returns the tag of the first populated field, in Bot API field order.
func TypeOf(update telego.Update) UpdateType {
	switch {
	case update.Message != nil:
		return UpdateMessage
	case update.EditedMessage != nil:
		return UpdateEditedMessage
	case update.ChannelPost != nil:
		return UpdateChannelPost
	case update.EditedChannelPost != nil:
		return UpdateEditedChannelPost
	case update.BusinessConnection != nil:
		return UpdateBusinessConnection
	case update.BusinessMessage != nil:
		return UpdateBusinessMessage
	case update.EditedBusinessMessage != nil:
		return UpdateEditedBusinessMessage
	case update.DeletedBusinessMessages != nil:
		return UpdateDeletedBusinessMessages
	case update.MessageReaction != nil:
		return UpdateMessageReaction
	case update.MessageReactionCount != nil:
		return UpdateMessageReactionCount
	case update.InlineQuery != nil:
		return UpdateInlineQuery
	case update.ChosenInlineResult != nil:
		return UpdateChosenInlineResult
	case update.CallbackQuery != nil:
		return UpdateCallbackQuery
	case update.ShippingQuery != nil:
		return UpdateShippingQuery
	case update.PreCheckoutQuery != nil:
		return UpdatePreCheckoutQuery
	case update.PurchasedPaidMedia != nil:
		return UpdatePurchasedPaidMedia
	case update.Poll != nil:
		return UpdatePoll
	case update.PollAnswer != nil:
		return UpdatePollAnswer
	case update.MyChatMember != nil:
		return UpdateMyChatMember
	case update.ChatMember != nil:
		return UpdateChatMember
	case update.ChatJoinRequest != nil:
		return UpdateChatJoinRequest
	case update.ChatBoost != nil:
		return UpdateChatBoost
	case update.RemovedChatBoost != nil:
		return UpdateRemovedChatBoost
	}
	return UpdateUnknown
}

// MessageKind is the content type of a message.
type MessageKind string

const (
	MessageText      MessageKind = "text"
	MessagePhoto     MessageKind = "photo"
	MessageVideo     MessageKind = "video"
	MessageAnimation MessageKind = "animation"
	MessageAudio     MessageKind = "audio"
	MessageVoice     MessageKind = "voice"
	MessageVideoNote MessageKind = "video_note"
	MessageDocument  MessageKind = "document"
	MessageSticker   MessageKind = "sticker"
	MessageContact   MessageKind = "contact"
	MessageLocation  MessageKind = "location"
	MessageVenue     MessageKind = "venue"
	MessagePoll      MessageKind = "poll"
	MessageUnknown   MessageKind = "unknown"
)

// MessageType classifies a message by its content. Animations are checked
// before documents because Telegram fills both fields for GIFs.
func MessageType(msg *telego.Message) MessageKind {
	switch {
	case msg == nil:
		return MessageUnknown
	case msg.Text != "":
		return MessageText
	case len(msg.Photo) > 0:
		return MessagePhoto
	case msg.Video != nil:
		return MessageVideo
	case msg.Animation != nil:
		return MessageAnimation
	case msg.Audio != nil:
		return MessageAudio
	case msg.Voice != nil:
		return MessageVoice
	case msg.VideoNote != nil:
		return MessageVideoNote
	case msg.Document != nil:
		return MessageDocument
	case msg.Sticker != nil:
		return MessageSticker
	case msg.Contact != nil:
		return MessageContact
	case msg.Venue != nil:
		return MessageVenue
	case msg.Location != nil:
		return MessageLocation
	case msg.Poll != nil:
		return MessagePoll
	}
	return MessageUnknown
}
