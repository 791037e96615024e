package discord

import (
	"context"
	"log/slog"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/susu3304/classbot/internal/bot"
)

func (c *Client) onReady(s *discordgo.Session, r *discordgo.Ready) {
	slog.Info("logged in", "user", r.User.Username, "discriminator", r.User.Discriminator)
	if err := c.RegisterCommands(); err != nil {
		slog.Error("failed to register slash commands", "err", err)
	}
}

// onMessageCreate forwards direct messages from people to the bot.
func (c *Client) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot || m.GuildID != "" {
		return
	}
	in := inbound(m.Author)
	if in.UserID == 0 {
		return
	}
	in.Text = m.Content
	c.handler.HandleText(context.Background(), in)
}

func (c *Client) onInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	u := interactionUser(i)
	if u == nil {
		return
	}
	in := inbound(u)
	if in.UserID == 0 {
		return
	}

	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		c.onCommand(s, i, in)
	case discordgo.InteractionMessageComponent:
		c.onComponent(s, i, in)
	}
}

func (c *Client) onCommand(s *discordgo.Session, i *discordgo.InteractionCreate, in bot.Inbound) {
	if err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Flags: discordgo.MessageFlagsEphemeral},
	}); err != nil {
		slog.Error("failed to defer command response", "err", err)
		return
	}

	data := i.ApplicationCommandData()
	var arg string
	for _, opt := range data.Options {
		if opt.Name == argOption && opt.Type == discordgo.ApplicationCommandOptionString {
			arg = opt.StringValue()
		}
	}
	c.handler.HandleCommand(context.Background(), in, data.Name, arg)

	// Replies go out as direct messages, the deferred placeholder is dropped.
	if err := s.InteractionResponseDelete(i.Interaction); err != nil {
		slog.Debug("failed to delete deferred response", "err", err)
	}
}

func (c *Client) onComponent(s *discordgo.Session, i *discordgo.InteractionCreate, in bot.Inbound) {
	if err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredMessageUpdate,
	}); err != nil {
		slog.Error("failed to acknowledge button", "err", err)
		return
	}

	id := i.MessageComponentData().CustomID
	ctx := context.Background()
	if label, ok := strings.CutPrefix(id, menuPrefix); ok {
		in.Text = label
		c.handler.HandleText(ctx, in)
		return
	}
	c.handler.HandleAction(ctx, in, id)
}

func interactionUser(i *discordgo.InteractionCreate) *discordgo.User {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User
	}
	return i.User
}

func inbound(u *discordgo.User) bot.Inbound {
	name := u.GlobalName
	if name == "" {
		name = u.Username
	}
	return bot.Inbound{
		UserID:   ParseID(u.ID),
		Username: u.Username,
		FullName: name,
	}
}
