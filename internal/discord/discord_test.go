package discord

import (
	"strings"
	"testing"

	"github.com/bwmarrin/discordgo"

	"github.com/susu3304/classbot/internal/action"
	"github.com/susu3304/classbot/internal/chat"
	"github.com/susu3304/classbot/internal/locale"
	"github.com/susu3304/classbot/internal/model"
	"github.com/susu3304/classbot/internal/payments"
)

func TestParseID(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want int64
	}{
		{"snowflake", "1234567890123456789", 1234567890123456789},
		{"empty", "", 0},
		{"garbage", "abc", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseID(tt.in); got != tt.want {
				t.Errorf("ParseID(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func buttons(t *testing.T, row discordgo.MessageComponent) []discordgo.Button {
	t.Helper()
	r, ok := row.(discordgo.ActionsRow)
	if !ok {
		t.Fatalf("row is %T, want ActionsRow", row)
	}
	var out []discordgo.Button
	for _, c := range r.Components {
		b, ok := c.(discordgo.Button)
		if !ok {
			t.Fatalf("component is %T, want Button", c)
		}
		out = append(out, b)
	}
	return out
}

func TestComponents(t *testing.T) {
	msg := chat.Message{
		Actions: [][]chat.Action{
			{{Label: "QR", Payload: "qr:1:2"}},
			{{Label: "Оплатил", Payload: "paid:1:2"}, {Label: "Не могу", Payload: "cannot:1:2"}},
		},
		Keyboard: [][]string{
			{"a", "b", "c"},
			{"d", "e", "f"},
		},
	}
	rows := components(msg)
	if len(rows) != 4 {
		t.Fatalf("got %d rows, want 4", len(rows))
	}

	first := buttons(t, rows[0])
	if len(first) != 1 || first[0].CustomID != "qr:1:2" || first[0].Style != discordgo.PrimaryButton {
		t.Errorf("unexpected action row: %+v", first)
	}
	if got := buttons(t, rows[1]); len(got) != 2 || got[1].CustomID != "cannot:1:2" {
		t.Errorf("unexpected second action row: %+v", got)
	}

	menu := buttons(t, rows[2])
	if len(menu) != maxPerRow {
		t.Fatalf("menu row has %d buttons, want %d", len(menu), maxPerRow)
	}
	if menu[0].CustomID != menuPrefix+"a" || menu[0].Style != discordgo.SecondaryButton {
		t.Errorf("unexpected menu button: %+v", menu[0])
	}
	if last := buttons(t, rows[3]); len(last) != 1 || last[0].Label != "f" {
		t.Errorf("unexpected last menu row: %+v", last)
	}
}

func TestComponentsLimits(t *testing.T) {
	var keyboard [][]string
	for i := 0; i < 8; i++ {
		keyboard = append(keyboard, []string{"x", "y", "z", "w"})
	}
	keyboard = append(keyboard, []string{strings.Repeat("л", 60)})

	rows := components(chat.Message{
		Actions:  [][]chat.Action{{{Payload: "a1"}, {Payload: "a2"}, {Payload: "a3"}, {Payload: "a4"}, {Payload: "a5"}, {Payload: "a6"}}},
		Keyboard: keyboard,
	})
	// 6 actions wrap into 2 rows, 32 labels fill 7 rows, the long label is skipped.
	if len(rows) != 9 {
		t.Fatalf("got %d rows, want 9", len(rows))
	}
	for _, row := range rows {
		b := buttons(t, row)
		if len(b) > maxPerRow {
			t.Errorf("row has %d buttons", len(b))
		}
		for _, btn := range b {
			if len(btn.CustomID) > maxCustomID {
				t.Errorf("custom id %q is longer than %d bytes", btn.CustomID, maxCustomID)
			}
		}
	}

	pages := paginate(rows, maxRows)
	if len(pages) != 2 || len(pages[0]) != maxRows || len(pages[1]) != 4 {
		t.Errorf("pages = %d, want rows split 5+4", len(pages))
	}

	if rows := components(chat.Text("plain")); len(rows) != 0 {
		t.Errorf("plain text got %d rows", len(rows))
	}
	if pages := paginate(nil, maxRows); len(pages) != 0 {
		t.Errorf("no rows got %d pages", len(pages))
	}
}

func TestAwaitingListKeepsBulkActions(t *testing.T) {
	engine := payments.NewEngine(nil, nil, nil, locale.New(), 0)
	var list []model.PaymentView
	for i := int64(1); i <= 7; i++ {
		list = append(list, model.PaymentView{
			Payment:         model.Payment{ID: i, ParentName: "Родитель", Amount: 500, Status: model.StatusPaid},
			CollectionTitle: "Театр",
		})
	}

	pages := paginate(components(engine.AwaitingMessage(list)), maxRows)
	if len(pages) < 2 {
		t.Fatalf("got %d pages, want the rows spread over several messages", len(pages))
	}

	inFirst := map[string]bool{}
	for _, row := range pages[0] {
		for _, b := range buttons(t, row) {
			inFirst[b.CustomID] = true
		}
	}
	for _, id := range []string{action.ConfirmAll(), action.RejectAll(), action.BackToPayments()} {
		if !inFirst[id] {
			t.Errorf("%s missing from the first message", id)
		}
	}

	seen := map[string]bool{}
	for _, page := range pages {
		if len(page) > maxRows {
			t.Errorf("page has %d rows", len(page))
		}
		for _, row := range page {
			for _, b := range buttons(t, row) {
				seen[b.CustomID] = true
			}
		}
	}
	for _, v := range list {
		if !seen[action.ConfirmSingle(v.ID)] || !seen[action.RejectSingle(v.ID)] {
			t.Errorf("payment %d lost its buttons", v.ID)
		}
	}
}

func TestSplitContent(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		limit  int
		chunks int
	}{
		{"empty", "", 10, 1},
		{"short", "hello", 10, 1},
		{"lines", "aaaa\nbbbb\ncccc\n", 10, 2},
		{"long line", strings.Repeat("a", 25), 10, 3},
		{"multibyte", strings.Repeat("я", 10), 5, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := splitContent(tt.text, tt.limit)
			if len(got) != tt.chunks {
				t.Fatalf("got %d chunks %q, want %d", len(got), got, tt.chunks)
			}
			if joined := strings.Join(got, ""); joined != tt.text {
				t.Errorf("chunks do not reassemble: %q", joined)
			}
			for _, c := range got {
				if len(c) > tt.limit {
					t.Errorf("chunk %q exceeds %d bytes", c, tt.limit)
				}
			}
		})
	}
}
