package extract

import (
	"context"

	"github.com/fwojciec/lessondump"
)

// chats opens each side-channel chat in turn, reads its transcript and
// closes it again. A chat whose messages never load is kept with an empty
// transcript so the titles stay complete.
func (e *Extractor) chats(ctx context.Context, page lessondump.Page) ([]lessondump.Chat, error) {
	html, err := page.HTML(ctx)
	if err != nil {
		return nil, err
	}
	titles := e.Scraper.ChatTitles(html)

	chats := []lessondump.Chat{}
	for i, title := range titles {
		if err := page.Click(ctx, e.Selectors.ChatButton, i); err != nil {
			e.logger().Debug("chat open failed", "chat", title, "error", err)
			continue
		}

		messages := []lessondump.ChatMessage{}
		WaitUntil(ctx, e.Config.ChatLoadTimeout, e.Config.PollInterval, func(ctx context.Context) bool {
			html, err := page.HTML(ctx)
			if err != nil {
				return false
			}
			messages = e.Scraper.ChatMessages(html)
			return len(messages) > 0
		})
		chats = append(chats, lessondump.Chat{Title: title, Messages: messages})
		e.logger().Debug("chat read", "chat", title, "messages", len(messages))

		if err := page.Click(ctx, e.Selectors.ChatButton, i); err != nil {
			e.logger().Debug("chat close failed", "chat", title, "error", err)
		}
		if err := Sleep(ctx, e.Config.TabSwitchDelay); err != nil {
			return chats, err
		}
	}
	return chats, nil
}
