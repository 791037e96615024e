// Package discord carries the bot over Discord direct messages.
package discord

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"net"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/susu3304/classbot/internal/bot"
	"github.com/susu3304/classbot/internal/chat"
)

const (
	maxContent   = 2000
	maxRows      = 5
	maxPerRow    = 5
	maxCustomID  = 100
	menuPrefix   = "menu:"
	qrFileName   = "sbp-qr.png"
	attemptLimit = 12 * time.Second
	maxAttempts  = 2
)

// Handler receives inbound events.
type Handler interface {
	HandleText(ctx context.Context, in bot.Inbound)
	HandleAction(ctx context.Context, in bot.Inbound, payload string)
	HandleCommand(ctx context.Context, in bot.Inbound, name, arg string)
}

type Client struct {
	session *discordgo.Session
	handler Handler

	mu       sync.Mutex
	channels map[int64]string
}

func New(token string) (*Client, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("failed to create discord session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsDirectMessages

	return &Client{
		session:  session,
		channels: make(map[int64]string),
	}, nil
}

// Start registers event handlers for h and opens the gateway connection.
func (c *Client) Start(h Handler) error {
	c.handler = h
	c.session.AddHandler(c.onReady)
	c.session.AddHandler(c.onMessageCreate)
	c.session.AddHandler(c.onInteractionCreate)

	if err := c.session.Open(); err != nil {
		return fmt.Errorf("failed to open discord session: %w", err)
	}
	slog.Info("discord bot is running")
	return nil
}

func (c *Client) Stop() error {
	return c.session.Close()
}

// Send delivers msg to the direct message channel of a user.
func (c *Client) Send(ctx context.Context, to int64, msg chat.Message) error {
	channelID, err := c.dmChannel(ctx, to)
	if err != nil {
		return err
	}

	chunks := splitContent(msg.Text, maxContent)
	pages := paginate(components(msg), maxRows)
	for i, chunk := range chunks {
		data := &discordgo.MessageSend{Content: chunk}
		if i == len(chunks)-1 {
			if len(pages) > 0 {
				data.Components = pages[0]
			}
			if len(msg.Image) > 0 {
				data.Files = []*discordgo.File{{
					Name:        qrFileName,
					ContentType: "image/png",
					Reader:      bytes.NewReader(msg.Image),
				}}
			}
		}
		if err := c.sendWithRetry(ctx, channelID, data); err != nil {
			return fmt.Errorf("failed to send to %d: %w", to, err)
		}
	}
	// Rows past the per-message limit follow as button-only messages.
	for i := 1; i < len(pages); i++ {
		if err := c.sendWithRetry(ctx, channelID, &discordgo.MessageSend{Components: pages[i]}); err != nil {
			return fmt.Errorf("failed to send buttons to %d: %w", to, err)
		}
	}
	return nil
}

func (c *Client) dmChannel(ctx context.Context, userID int64) (string, error) {
	c.mu.Lock()
	id, ok := c.channels[userID]
	c.mu.Unlock()
	if ok {
		return id, nil
	}

	ch, err := c.session.UserChannelCreate(strconv.FormatInt(userID, 10), discordgo.WithContext(ctx))
	if err != nil {
		return "", fmt.Errorf("failed to open dm channel with %d: %w", userID, err)
	}
	c.mu.Lock()
	c.channels[userID] = ch.ID
	c.mu.Unlock()
	return ch.ID, nil
}

// sendWithRetry repeats a send once when the transport timed out.
func (c *Client) sendWithRetry(ctx context.Context, channelID string, data *discordgo.MessageSend) error {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		sendCtx, cancel := context.WithTimeout(ctx, attemptLimit)
		if data.Files != nil {
			// The reader is consumed by a failed attempt.
			for _, f := range data.Files {
				if r, ok := f.Reader.(*bytes.Reader); ok {
					_, _ = r.Seek(0, 0)
				}
			}
		}
		_, err := c.session.ChannelMessageSendComplex(channelID, data, discordgo.WithContext(sendCtx))
		cancel()
		if err == nil {
			return nil
		}
		lastErr = err
		if !isTemporaryOrTimeout(err) {
			return err
		}
		time.Sleep(time.Duration(300+rand.Intn(500)) * time.Millisecond)
	}
	return lastErr
}

func isTemporaryOrTimeout(err error) bool {
	var ne net.Error
	if errors.As(err, &ne) {
		return ne.Timeout()
	}
	return errors.Is(err, context.DeadlineExceeded)
}

// components renders inline actions as buttons carrying their payload and
// menu labels as secondary buttons that replay the label as text. Action rows
// wider than a Discord row are wrapped.
func components(msg chat.Message) []discordgo.MessageComponent {
	var rows []discordgo.MessageComponent
	for _, row := range msg.Actions {
		var buttons []discordgo.MessageComponent
		for _, a := range row {
			if len(buttons) == maxPerRow {
				rows = append(rows, discordgo.ActionsRow{Components: buttons})
				buttons = nil
			}
			buttons = append(buttons, discordgo.Button{
				Label:    a.Label,
				Style:    discordgo.PrimaryButton,
				CustomID: a.Payload,
			})
		}
		if len(buttons) > 0 {
			rows = append(rows, discordgo.ActionsRow{Components: buttons})
		}
	}

	var buttons []discordgo.MessageComponent
	for _, row := range msg.Keyboard {
		for _, label := range row {
			id := menuPrefix + label
			if len(id) > maxCustomID {
				slog.Warn("menu label too long for a button", "label", label)
				continue
			}
			buttons = append(buttons, discordgo.Button{
				Label:    label,
				Style:    discordgo.SecondaryButton,
				CustomID: id,
			})
			if len(buttons) == maxPerRow {
				rows = append(rows, discordgo.ActionsRow{Components: buttons})
				buttons = nil
			}
		}
	}
	if len(buttons) > 0 {
		rows = append(rows, discordgo.ActionsRow{Components: buttons})
	}
	return rows
}

// paginate groups rows into messages of at most limit rows each.
func paginate(rows []discordgo.MessageComponent, limit int) [][]discordgo.MessageComponent {
	var pages [][]discordgo.MessageComponent
	for len(rows) > limit {
		pages = append(pages, rows[:limit])
		rows = rows[limit:]
	}
	if len(rows) > 0 {
		pages = append(pages, rows)
	}
	return pages
}

// splitContent cuts text into chunks of at most limit bytes, preferring line
// breaks. Empty text yields one empty chunk so that buttons still go out.
func splitContent(text string, limit int) []string {
	if len(text) <= limit {
		return []string{text}
	}
	var chunks []string
	var buf strings.Builder
	for _, line := range strings.SplitAfter(text, "\n") {
		for len(line) > limit {
			if buf.Len() > 0 {
				chunks = append(chunks, buf.String())
				buf.Reset()
			}
			cut := limit
			for cut > 0 && !utf8RuneStart(line[cut]) {
				cut--
			}
			chunks = append(chunks, line[:cut])
			line = line[cut:]
		}
		if buf.Len()+len(line) > limit {
			chunks = append(chunks, buf.String())
			buf.Reset()
		}
		buf.WriteString(line)
	}
	if buf.Len() > 0 {
		chunks = append(chunks, buf.String())
	}
	return chunks
}

func utf8RuneStart(b byte) bool {
	return b&0xC0 != 0x80
}
