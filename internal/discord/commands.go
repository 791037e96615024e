package discord

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/susu3304/classbot/internal/bot"
)

// argOption is the option name carrying a participant id.
const argOption = "id"

func Commands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:         bot.CommandStart,
			Description:  "Регистрация и главное меню",
			DMPermission: boolPtr(true),
		},
		{
			Name:         bot.CommandAdmin,
			Description:  "Статистика пользователей",
			DMPermission: boolPtr(true),
		},
		{
			Name:         bot.CommandMakeTeacher,
			Description:  "Назначить пользователя учителем",
			DMPermission: boolPtr(true),
			Options:      []*discordgo.ApplicationCommandOption{idOption()},
		},
		{
			Name:         bot.CommandMakeParent,
			Description:  "Назначить пользователя родителем",
			DMPermission: boolPtr(true),
			Options:      []*discordgo.ApplicationCommandOption{idOption()},
		},
	}
}

func idOption() *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        argOption,
		Description: "ID пользователя",
		Required:    true,
	}
}

// RegisterCommands replaces the global slash commands of the application.
func (c *Client) RegisterCommands() error {
	if c.session.State == nil || c.session.State.User == nil {
		return fmt.Errorf("session is not open")
	}
	appID := c.session.State.User.ID
	if _, err := c.session.ApplicationCommandBulkOverwrite(appID, "", Commands()); err != nil {
		return fmt.Errorf("failed to register commands: %w", err)
	}
	return nil
}

func boolPtr(b bool) *bool {
	return &b
}
